package domain

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// Money is an amount in minor units (cents). It is rendered as a decimal number on the wire.
type Money int64

// MaxAmount bounds any single price in whole currency units.
const MaxAmount = 1_000_000_000

// MoneyFromFloat rounds a decimal amount to cents.
func MoneyFromFloat(f float64) (Money, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, Errorf(ErrValidation, "amount must be a finite number")
	}
	if math.Abs(f) > MaxAmount {
		return 0, Errorf(ErrValidation, "amount must not exceed %d", MaxAmount)
	}
	return Money(math.Round(f * 100)), nil
}

func (m Money) Float64() float64 { return float64(m) / 100 }

func (m Money) String() string { return strconv.FormatFloat(m.Float64(), 'f', 2, 64) }

// Mul multiplies the amount by an integer factor.
func (m Money) Mul(n int) Money { return m * Money(n) }

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(m.Float64(), 'f', -1, 64)), nil
}

func (m *Money) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		b = []byte(strings.TrimSpace(s))
	}
	f, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return Errorf(ErrValidation, "invalid amount %q", string(b))
	}
	v, err := MoneyFromFloat(f)
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// DateLayout is the wire and storage format of calendar dates.
const DateLayout = "2006-01-02"

// Date is a calendar day in UTC.
type Date struct{ time.Time }

// ParseDate parses YYYY-MM-DD.
func ParseDate(s string) (Date, error) {
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.UTC)
	if err != nil {
		return Date{}, Errorf(ErrValidation, "invalid date %q, expected YYYY-MM-DD", s)
	}
	return Date{t}, nil
}

// DateOf truncates t to its UTC calendar day.
func DateOf(t time.Time) Date {
	y, m, d := t.UTC().Date()
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func (d Date) String() string { return d.Format(DateLayout) }

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return Errorf(ErrValidation, "dates must be strings in YYYY-MM-DD format")
	}
	v, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// PageRequest is a 1-based page with a bounded size.
type PageRequest struct {
	Page  int
	Limit int
}

const (
	DefaultPageLimit = 12
	MaxPageLimit     = 50
	MaxPage          = 100_000
)

// NewPageRequest clamps page to [1, MaxPage] and limit to [1, MaxPageLimit].
func NewPageRequest(page, limit int) PageRequest {
	if page < 1 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	if limit < 1 {
		limit = 1
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return PageRequest{Page: page, Limit: limit}
}

func (p PageRequest) Offset() int { return (p.Page - 1) * p.Limit }

type Pagination struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Page is one slice of a paginated listing.
type Page[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

func NewPage[T any](data []T, total int, req PageRequest) Page[T] {
	if data == nil {
		data = []T{}
	}
	return Page[T]{Data: data, Pagination: Pagination{Total: total, Page: req.Page, Limit: req.Limit}}
}
