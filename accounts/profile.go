package accounts

import (
	"errors"
	"time"
)

var (
	ErrNotFound          = errors.New("profile not found")
	ErrConflict          = errors.New("identity already registered")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidField      = errors.New("invalid field")
	ErrInvalidIdentity   = errors.New("invalid identity")
	ErrForbidden         = errors.New("service token rejected")
)

// Field names a numeric profile field that can be incremented or set.
type Field string

const (
	FieldCurrency      Field = "currency"
	FieldScore         Field = "score"
	FieldSpeedLevel    Field = "speedLevel"
	FieldFireRateLevel Field = "fireRateLevel"
	FieldRangeLevel    Field = "rangeLevel"
	FieldDamageLevel   Field = "damageLevel"
	FieldVehicle       Field = "vehicle"
)

// Profile is the persisted economy of one player.
type Profile struct {
	ID            string    `json:"id" msgpack:"id"`
	Username      string    `json:"username" msgpack:"username"`
	Currency      int       `json:"currency" msgpack:"currency"`
	Score         int       `json:"score" msgpack:"score"`
	SpeedLevel    int       `json:"speedLevel" msgpack:"speedLevel"`
	FireRateLevel int       `json:"fireRateLevel" msgpack:"fireRateLevel"`
	RangeLevel    int       `json:"rangeLevel" msgpack:"rangeLevel"`
	DamageLevel   int       `json:"damageLevel" msgpack:"damageLevel"`
	Vehicle       int       `json:"vehicle" msgpack:"vehicle"` // last class joined with, plus one; 0 = none saved
	CreatedAt     time.Time `json:"createdAt" msgpack:"createdAt"`
}

// field returns a pointer to the named field, or nil for unknown names.
func (p *Profile) field(f Field) *int {
	switch f {
	case FieldCurrency:
		return &p.Currency
	case FieldScore:
		return &p.Score
	case FieldSpeedLevel:
		return &p.SpeedLevel
	case FieldFireRateLevel:
		return &p.FireRateLevel
	case FieldRangeLevel:
		return &p.RangeLevel
	case FieldDamageLevel:
		return &p.DamageLevel
	case FieldVehicle:
		return &p.Vehicle
	}
	return nil
}
