package reservation

import (
	"errors"
	"net/mail"
	"strings"
)

var (
	ErrInvalidGuestName  = errors.New("guest name is required")
	ErrInvalidGuestEmail = errors.New("invalid guest email")
	ErrInvalidGuestCount = errors.New("at least one adult is required")
	ErrNegativeAmount    = errors.New("amount cannot be negative")
	ErrInvalidAddon      = errors.New("invalid addon")
)

type GuestInfo struct {
	name  string
	email string
	phone string
}

func NewGuestInfo(name, email, phone string) (GuestInfo, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return GuestInfo{}, ErrInvalidGuestName
	}
	email = strings.TrimSpace(email)
	if _, err := mail.ParseAddress(email); err != nil || !strings.Contains(email, "@") {
		return GuestInfo{}, ErrInvalidGuestEmail
	}
	return GuestInfo{name: name, email: strings.ToLower(email), phone: strings.TrimSpace(phone)}, nil
}

func (g GuestInfo) Name() string  { return g.name }
func (g GuestInfo) Email() string { return g.email }
func (g GuestInfo) Phone() string { return g.phone }

type GuestCount struct {
	adults   int
	children int
}

func NewGuestCount(adults, children int) (GuestCount, error) {
	if adults < 1 || children < 0 {
		return GuestCount{}, ErrInvalidGuestCount
	}
	return GuestCount{adults: adults, children: children}, nil
}

func (g GuestCount) Adults() int   { return g.adults }
func (g GuestCount) Children() int { return g.children }
func (g GuestCount) Total() int    { return g.adults + g.children }

// Money is stored verbatim from the caller; the engine never prices a stay.
type Money struct {
	cents int64
}

func NewMoney(cents int64) (Money, error) {
	if cents < 0 {
		return Money{}, ErrNegativeAmount
	}
	return Money{cents: cents}, nil
}

func (m Money) Cents() int64 {
	return m.cents
}

func NewAddons(addons []Addon) ([]Addon, error) {
	out := make([]Addon, 0, len(addons))
	for _, a := range addons {
		code := strings.TrimSpace(a.Code)
		if code == "" || a.Quantity < 1 {
			return nil, ErrInvalidAddon
		}
		out = append(out, Addon{Code: code, Quantity: a.Quantity})
	}
	return out, nil
}

type ConfirmationCode string

func (c ConfirmationCode) String() string {
	return string(c)
}
