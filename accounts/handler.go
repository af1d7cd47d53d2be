package accounts

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/mux"
)

const maxRequestBody = 1 << 16 // 64 KB

// ServiceTokenHeader carries the shared secret for the mutation routes.
const ServiceTokenHeader = "X-Service-Token"

type authRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Type     string `json:"type"` // "login" or "register"
}

type authResponse struct {
	Success bool     `json:"success"`
	User    *Profile `json:"user,omitempty"`
	Message string   `json:"message,omitempty"`
}

type incrementRequest struct {
	Field        Field `json:"field"`
	Delta        int   `json:"delta"`
	GuardMinimum int   `json:"guardMinimum"`
}

type setRequest struct {
	Field Field `json:"field"`
	Value int   `json:"value"`
}

type valueResponse struct {
	Value int `json:"value"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// NewPublicRouter wires the routes players may reach: login, registration,
// profile reads and health. Profiles cannot be modified through it.
func NewPublicRouter(store *Store) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/auth", Auth(store)).Methods(http.MethodPost)
	r.HandleFunc("/profiles/{identity}", GetProfile(store)).Methods(http.MethodGet)
	r.HandleFunc("/health", Health(store)).Methods(http.MethodGet)
	return r
}

// NewRouter wires every route, including increment and set. Serve it on a
// private address only. When serviceToken is non-empty the mutation routes
// also require it in ServiceTokenHeader.
func NewRouter(store *Store, serviceToken string) *mux.Router {
	r := NewPublicRouter(store)
	r.HandleFunc("/profiles/{identity}/increment", requireToken(serviceToken, Increment(store))).Methods(http.MethodPost)
	r.HandleFunc("/profiles/{identity}/set", requireToken(serviceToken, Set(store))).Methods(http.MethodPost)
	return r
}

func requireToken(token string, next http.HandlerFunc) http.HandlerFunc {
	if token == "" {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request) {
		got := r.Header.Get(ServiceTokenHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
			writeJSON(w, http.StatusForbidden, errorResponse{Error: "forbidden"})
			return
		}
		next(w, r)
	}
}

func Auth(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
		var req authRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, authResponse{Message: "invalid json"})
			return
		}

		var (
			profile Profile
			err     error
		)
		switch req.Type {
		case "register":
			profile, err = store.Register(r.Context(), req.Username, req.Password)
		case "login", "":
			profile, err = store.Authenticate(r.Context(), req.Username, req.Password)
		default:
			writeJSON(w, http.StatusBadRequest, authResponse{Message: "unknown auth type"})
			return
		}

		switch {
		case err == nil:
			writeJSON(w, http.StatusOK, authResponse{Success: true, User: &profile})
		case errors.Is(err, ErrConflict):
			writeJSON(w, http.StatusConflict, authResponse{Message: "username taken"})
		case errors.Is(err, ErrInvalidIdentity):
			writeJSON(w, http.StatusBadRequest, authResponse{Message: "invalid username or password"})
		case errors.Is(err, ErrNotFound):
			writeJSON(w, http.StatusUnauthorized, authResponse{Message: "invalid credentials"})
		default:
			log.Printf("[accounts] auth error for %q: %v", req.Username, err)
			writeJSON(w, http.StatusInternalServerError, authResponse{Message: "server error"})
		}
	}
}

func GetProfile(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profile, err := store.Profile(r.Context(), mux.Vars(r)["identity"])
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, profile)
	}
}

func Increment(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
		var req incrementRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid json"})
			return
		}

		value, err := store.IncrementField(r.Context(), mux.Vars(r)["identity"], req.Field, req.Delta, req.GuardMinimum)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, valueResponse{Value: value})
	}
}

func Set(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
		var req setRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid json"})
			return
		}

		if err := store.SetField(r.Context(), mux.Vars(r)["identity"], req.Field, req.Value); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, valueResponse{Value: req.Value})
	}
}

func Health(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "cached": store.Count()})
	}
}

// statusFor maps store errors onto HTTP statuses. Client.decodeError is
// the inverse.
func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInsufficientFunds):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidField), errors.Is(err, ErrInvalidIdentity):
		return http.StatusBadRequest
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Printf("[accounts] request failed: %v", err)
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[accounts] encode error: %v", err)
	}
}
