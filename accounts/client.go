package accounts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client talks to a remote account service over HTTP.
type Client struct {
	baseURL      string
	client       *http.Client
	serviceToken string
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// SetServiceToken sets the secret sent with increment and set requests.
func (c *Client) SetServiceToken(token string) {
	c.serviceToken = token
}

func (c *Client) Register(ctx context.Context, identity, secret string) (Profile, error) {
	return c.auth(ctx, "register", identity, secret)
}

func (c *Client) Authenticate(ctx context.Context, identity, secret string) (Profile, error) {
	return c.auth(ctx, "login", identity, secret)
}

func (c *Client) auth(ctx context.Context, kind, identity, secret string) (Profile, error) {
	var resp authResponse
	status, err := c.do(ctx, http.MethodPost, "/auth", authRequest{Username: identity, Password: secret, Type: kind}, &resp)
	if err != nil {
		return Profile{}, err
	}

	switch {
	case status == http.StatusOK && resp.User != nil:
		return *resp.User, nil
	case status == http.StatusConflict:
		return Profile{}, ErrConflict
	case status == http.StatusUnauthorized:
		return Profile{}, ErrNotFound
	case status == http.StatusBadRequest:
		return Profile{}, ErrInvalidIdentity
	}
	return Profile{}, fmt.Errorf("auth: unexpected status: %d", status)
}

func (c *Client) Profile(ctx context.Context, identity string) (Profile, error) {
	var (
		profile Profile
		apiErr  errorResponse
	)
	status, err := c.do(ctx, http.MethodGet, profilePath(identity, ""), nil, &rawPair{ok: &profile, fail: &apiErr})
	if err != nil {
		return Profile{}, err
	}
	if status != http.StatusOK {
		return Profile{}, decodeError(status, apiErr)
	}
	return profile, nil
}

func (c *Client) IncrementField(ctx context.Context, identity string, field Field, delta, guardMinimum int) (int, error) {
	var (
		result valueResponse
		apiErr errorResponse
	)
	req := incrementRequest{Field: field, Delta: delta, GuardMinimum: guardMinimum}
	status, err := c.do(ctx, http.MethodPost, profilePath(identity, "/increment"), req, &rawPair{ok: &result, fail: &apiErr})
	if err != nil {
		return 0, err
	}
	if status != http.StatusOK {
		return 0, decodeError(status, apiErr)
	}
	return result.Value, nil
}

func (c *Client) SetField(ctx context.Context, identity string, field Field, value int) error {
	var apiErr errorResponse
	status, err := c.do(ctx, http.MethodPost, profilePath(identity, "/set"), setRequest{Field: field, Value: value}, &rawPair{fail: &apiErr})
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return decodeError(status, apiErr)
	}
	return nil
}

// rawPair decodes the body into ok on 200 and into fail otherwise.
type rawPair struct {
	ok   any
	fail any
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) (int, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("marshal: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, fmt.Errorf("new request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.serviceToken != "" {
		req.Header.Set(ServiceTokenHeader, c.serviceToken)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	target := out
	if pair, ok := out.(*rawPair); ok {
		target = pair.fail
		if resp.StatusCode == http.StatusOK {
			target = pair.ok
		}
	}
	if target == nil {
		return resp.StatusCode, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil && err != io.EOF {
		return resp.StatusCode, fmt.Errorf("decode: %w", err)
	}
	return resp.StatusCode, nil
}

func decodeError(status int, apiErr errorResponse) error {
	switch status {
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusConflict:
		return ErrInsufficientFunds
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", ErrInvalidField, apiErr.Error)
	case http.StatusForbidden:
		return ErrForbidden
	}
	return fmt.Errorf("unexpected status %d: %s", status, apiErr.Error)
}

func profilePath(identity, suffix string) string {
	return "/profiles/" + url.PathEscape(identity) + suffix
}
