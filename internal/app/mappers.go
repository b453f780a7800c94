package app

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"stayhub/internal/domain"
)

/********** flexible field readers for partial updates **********/

// Each reader reports whether key was present. A present key holding JSON
// null yields (nil, true, nil) so callers can clear nullable columns.

func floatFlexible(m map[string]any, key string) (*float64, bool, error) {
	v, ok := m[key]
	if !ok {
		return nil, false, nil
	}
	var f float64
	switch t := v.(type) {
	case nil:
		return nil, true, nil
	case float64:
		f = t
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case json.Number:
		x, err := t.Float64()
		if err != nil {
			return nil, true, domain.Errorf(domain.ErrValidation, "%s must be a number", key)
		}
		f = x
	case string:
		s := strings.TrimSpace(t)
		x, err := strconv.ParseFloat(s, 64)
		if s == "" || err != nil {
			return nil, true, domain.Errorf(domain.ErrValidation, "%s must be a number", key)
		}
		f = x
	default:
		return nil, true, domain.Errorf(domain.ErrValidation, "%s must be a number", key)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, true, domain.Errorf(domain.ErrValidation, "%s must be a number", key)
	}
	return &f, true, nil
}

func moneyFlexible(m map[string]any, key string) (*domain.Money, bool, error) {
	f, ok, err := floatFlexible(m, key)
	if f == nil || err != nil {
		return nil, ok, err
	}
	if *f < 0 {
		return nil, true, domain.Errorf(domain.ErrValidation, "%s must not be negative", key)
	}
	v, err := domain.MoneyFromFloat(*f)
	if err != nil {
		return nil, true, err
	}
	return &v, true, nil
}

func intFlexible(m map[string]any, key string) (*int, bool, error) {
	f, ok, err := floatFlexible(m, key)
	if f == nil || err != nil {
		return nil, ok, err
	}
	if *f != math.Trunc(*f) || math.Abs(*f) > math.MaxInt32 {
		return nil, true, domain.Errorf(domain.ErrValidation, "%s must be a whole number", key)
	}
	n := int(*f)
	return &n, true, nil
}

func stringField(m map[string]any, key string) (*string, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return nil, nil
	}
	s, ok := v.(string)
	if !ok {
		return nil, domain.Errorf(domain.ErrValidation, "%s must be a string", key)
	}
	s = strings.TrimSpace(s)
	return &s, nil
}

func boolFlexible(m map[string]any, key string) (*bool, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return nil, nil
	}
	switch t := v.(type) {
	case bool:
		return &t, nil
	case string:
		if b, err := strconv.ParseBool(strings.TrimSpace(t)); err == nil {
			return &b, nil
		}
	}
	return nil, domain.Errorf(domain.ErrValidation, "%s must be a boolean", key)
}

// stringsField accepts a JSON array of strings; null clears the list.
func stringsField(m map[string]any, key string) ([]string, bool, error) {
	v, ok := m[key]
	if !ok {
		return nil, false, nil
	}
	if v == nil {
		return []string{}, true, nil
	}
	raw, ok := v.([]any)
	if !ok {
		return nil, true, domain.Errorf(domain.ErrValidation, "%s must be a list of strings", key)
	}
	out := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, it := range raw {
		s, ok := it.(string)
		if !ok {
			return nil, true, domain.Errorf(domain.ErrValidation, "%s must be a list of strings", key)
		}
		if s = strings.TrimSpace(s); s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out, true, nil
}

func dateField(m map[string]any, key string) (*domain.Date, bool, error) {
	v, ok := m[key]
	if !ok {
		return nil, false, nil
	}
	if v == nil {
		return nil, true, nil
	}
	s, ok := v.(string)
	if !ok {
		return nil, true, domain.Errorf(domain.ErrValidation, "%s must be a date (YYYY-MM-DD)", key)
	}
	d, err := domain.ParseDate(s)
	if err != nil {
		return nil, true, domain.Errorf(domain.ErrValidation, "%s must be a date (YYYY-MM-DD)", key)
	}
	return &d, true, nil
}

/********** patch mappers **********/

// rejectNulls fails when any of keys is present with a JSON null value.
func rejectNulls(m map[string]any, keys ...string) error {
	for _, k := range keys {
		if v, ok := m[k]; ok && v == nil {
			return domain.Errorf(domain.ErrValidation, "%s must not be null", k)
		}
	}
	return nil
}

func mapRoomTypePatch(m map[string]any) (domain.RoomTypePatch, error) {
	var p domain.RoomTypePatch
	var err error
	if err = rejectNulls(m, "name", "description", "capacity", "basePrice", "isActive"); err != nil {
		return p, err
	}
	if p.Name, err = stringField(m, "name"); err != nil {
		return p, err
	}
	if p.Description, err = stringField(m, "description"); err != nil {
		return p, err
	}
	if p.Capacity, _, err = intFlexible(m, "capacity"); err != nil {
		return p, err
	}
	if p.BasePrice, _, err = moneyFlexible(m, "basePrice"); err != nil {
		return p, err
	}
	var present bool
	if p.CorporatePrice, present, err = moneyFlexible(m, "corporatePrice"); err != nil {
		return p, err
	}
	p.ClearCorporatePrice = present && p.CorporatePrice == nil
	if p.Amenities, p.SetAmenities, err = stringsField(m, "amenities"); err != nil {
		return p, err
	}
	if p.Active, err = boolFlexible(m, "isActive"); err != nil {
		return p, err
	}
	return p, nil
}

func mapPostPatch(m map[string]any) (domain.PostPatch, error) {
	var p domain.PostPatch
	var err error
	var present bool
	if err = rejectNulls(m, "title", "description", "priceFrom", "isActive"); err != nil {
		return p, err
	}
	if p.Title, err = stringField(m, "title"); err != nil {
		return p, err
	}
	if p.Description, err = stringField(m, "description"); err != nil {
		return p, err
	}
	if p.PriceFrom, _, err = moneyFlexible(m, "priceFrom"); err != nil {
		return p, err
	}
	if p.PriceTo, present, err = moneyFlexible(m, "priceTo"); err != nil {
		return p, err
	}
	p.ClearPriceTo = present && p.PriceTo == nil
	if p.ValidFrom, present, err = dateField(m, "validFrom"); err != nil {
		return p, err
	}
	p.ClearValidFrom = present && p.ValidFrom == nil
	if p.ValidTo, present, err = dateField(m, "validTo"); err != nil {
		return p, err
	}
	p.ClearValidTo = present && p.ValidTo == nil
	if p.Active, err = boolFlexible(m, "isActive"); err != nil {
		return p, err
	}
	return p, nil
}
