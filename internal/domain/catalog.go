package domain

import "time"

type HotelProfile struct {
	ID           int64     `json:"id"`
	AccountID    int64     `json:"userId"`
	Name         string    `json:"hotelName"`
	Description  string    `json:"description"`
	Address      string    `json:"address"`
	City         string    `json:"city"`
	State        string    `json:"state"`
	Country      string    `json:"country"`
	PostalCode   string    `json:"postalCode"`
	ContactPhone string    `json:"contactPhone"`
	ContactEmail string    `json:"contactEmail"`
	Website      string    `json:"website"`
	StarRating   int       `json:"starRating"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type CorporateProfile struct {
	ID           int64     `json:"id"`
	AccountID    int64     `json:"userId"`
	CompanyName  string    `json:"companyName"`
	Industry     string    `json:"industry"`
	CompanySize  string    `json:"companySize"`
	Address      string    `json:"address"`
	City         string    `json:"city"`
	Country      string    `json:"country"`
	ContactPhone string    `json:"contactPhone"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type RoomType struct {
	ID             int64     `json:"id"`
	HotelID        int64     `json:"hotelId"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	Capacity       int       `json:"capacity"`
	BasePrice      Money     `json:"basePrice"`
	CorporatePrice *Money    `json:"corporatePrice"`
	Amenities      []string  `json:"amenities"`
	Active         bool      `json:"isActive"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// UnitPrice is the nightly rate quoted to the caller. Corporate bookers get
// the corporate price when one is set.
func (rt RoomType) UnitPrice(corporate bool) Money {
	if corporate && rt.CorporatePrice != nil {
		return *rt.CorporatePrice
	}
	return rt.BasePrice
}

// RoomTypePatch carries the fields present in a partial update.
type RoomTypePatch struct {
	Name                *string
	Description         *string
	Capacity            *int
	BasePrice           *Money
	CorporatePrice      *Money
	ClearCorporatePrice bool
	Amenities           []string
	SetAmenities        bool
	Active              *bool
}

// Apply writes the present fields onto rt.
func (p RoomTypePatch) Apply(rt *RoomType) {
	if p.Name != nil {
		rt.Name = *p.Name
	}
	if p.Description != nil {
		rt.Description = *p.Description
	}
	if p.Capacity != nil {
		rt.Capacity = *p.Capacity
	}
	if p.BasePrice != nil {
		rt.BasePrice = *p.BasePrice
	}
	if p.ClearCorporatePrice {
		rt.CorporatePrice = nil
	} else if p.CorporatePrice != nil {
		v := *p.CorporatePrice
		rt.CorporatePrice = &v
	}
	if p.SetAmenities {
		rt.Amenities = p.Amenities
	}
	if p.Active != nil {
		rt.Active = *p.Active
	}
}

type MarketingPost struct {
	ID          int64     `json:"id"`
	HotelID     int64     `json:"hotelId"`
	HotelName   string    `json:"hotelName,omitempty"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	PriceFrom   Money     `json:"priceFrom"`
	PriceTo     *Money    `json:"priceTo"`
	ValidFrom   *Date     `json:"validFrom"`
	ValidTo     *Date     `json:"validTo"`
	Active      bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// PostPatch carries the fields present in a partial post update.
type PostPatch struct {
	Title          *string
	Description    *string
	PriceFrom      *Money
	PriceTo        *Money
	ClearPriceTo   bool
	ValidFrom      *Date
	ClearValidFrom bool
	ValidTo        *Date
	ClearValidTo   bool
	Active         *bool
}

func (p PostPatch) Apply(mp *MarketingPost) {
	if p.Title != nil {
		mp.Title = *p.Title
	}
	if p.Description != nil {
		mp.Description = *p.Description
	}
	if p.PriceFrom != nil {
		mp.PriceFrom = *p.PriceFrom
	}
	if p.ClearPriceTo {
		mp.PriceTo = nil
	} else if p.PriceTo != nil {
		v := *p.PriceTo
		mp.PriceTo = &v
	}
	if p.ClearValidFrom {
		mp.ValidFrom = nil
	} else if p.ValidFrom != nil {
		v := *p.ValidFrom
		mp.ValidFrom = &v
	}
	if p.ClearValidTo {
		mp.ValidTo = nil
	} else if p.ValidTo != nil {
		v := *p.ValidTo
		mp.ValidTo = &v
	}
	if p.Active != nil {
		mp.Active = *p.Active
	}
}

// Validate checks the invariants shared by create and update.
func (rt RoomType) Validate() error {
	switch {
	case rt.Name == "":
		return Errorf(ErrValidation, "name is required")
	case rt.Capacity < 1:
		return Errorf(ErrValidation, "capacity must be at least 1")
	case rt.BasePrice < 0:
		return Errorf(ErrValidation, "basePrice must not be negative")
	case rt.CorporatePrice != nil && *rt.CorporatePrice < 0:
		return Errorf(ErrValidation, "corporatePrice must not be negative")
	}
	return nil
}

func (mp MarketingPost) Validate() error {
	switch {
	case mp.Title == "":
		return Errorf(ErrValidation, "title is required")
	case mp.PriceFrom < 0:
		return Errorf(ErrValidation, "priceFrom must not be negative")
	case mp.PriceTo != nil && *mp.PriceTo < mp.PriceFrom:
		return Errorf(ErrValidation, "priceTo must not be below priceFrom")
	case mp.ValidFrom != nil && mp.ValidTo != nil && mp.ValidTo.Before(mp.ValidFrom.Time):
		return Errorf(ErrValidation, "validTo must not be before validFrom")
	}
	return nil
}

// PostFilter selects posts for listing.
type PostFilter struct {
	HotelID    *int64
	ActiveOnly bool
	Page       PageRequest
}

func (p HotelProfile) Validate() error {
	switch {
	case p.Name == "":
		return Errorf(ErrValidation, "hotelName is required")
	case p.StarRating < 1 || p.StarRating > 5:
		return Errorf(ErrValidation, "starRating must be between 1 and 5")
	}
	return nil
}

func (p CorporateProfile) Validate() error {
	if p.CompanyName == "" {
		return Errorf(ErrValidation, "companyName is required")
	}
	return nil
}
