package httpserver

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"stayhub/internal/app"
	"stayhub/internal/domain"
)

var validate = newValidator()

func newValidator() func(any) error {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report fields by their JSON names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return func(dst any) error {
		err := v.Struct(dst)
		var ves validator.ValidationErrors
		if errors.As(err, &ves) && len(ves) > 0 {
			return fieldError(ves[0])
		}
		if err != nil {
			return domain.Errorf(domain.ErrValidation, "invalid request")
		}
		return nil
	}
}

func fieldError(fe validator.FieldError) error {
	f := fe.Field()
	switch fe.Tag() {
	case "required":
		return domain.Errorf(domain.ErrValidation, "%s is required", f)
	case "email":
		return domain.Errorf(domain.ErrValidation, "%s must be a valid email address", f)
	case "url":
		return domain.Errorf(domain.ErrValidation, "%s must be a valid URL", f)
	case "min", "gte":
		return domain.Errorf(domain.ErrValidation, "%s must be at least %s", f, fe.Param())
	case "gt":
		return domain.Errorf(domain.ErrValidation, "%s must be greater than %s", f, fe.Param())
	case "max", "lte":
		return domain.Errorf(domain.ErrValidation, "%s must be at most %s", f, fe.Param())
	}
	return domain.Errorf(domain.ErrValidation, "%s is invalid", f)
}

/********** auth **********/

type registerRequest struct {
	Email     string  `json:"email" validate:"required,email,max=255"`
	Password  string  `json:"password" validate:"required"`
	FirstName string  `json:"firstName" validate:"max=100"`
	LastName  string  `json:"lastName" validate:"max=100"`
	Phone     *string `json:"phone" validate:"omitempty,max=32"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type googleCallbackRequest struct {
	Code string `json:"code" validate:"required"`
}

type identityRequest struct {
	IdentityType string `json:"identityType" validate:"required"`
}

/********** profiles **********/

type hotelProfileRequest struct {
	HotelName    string `json:"hotelName" validate:"required,max=255"`
	Description  string `json:"description"`
	Address      string `json:"address" validate:"max=500"`
	City         string `json:"city" validate:"max=100"`
	State        string `json:"state" validate:"max=100"`
	Country      string `json:"country" validate:"max=100"`
	PostalCode   string `json:"postalCode" validate:"max=20"`
	ContactPhone string `json:"contactPhone" validate:"max=32"`
	ContactEmail string `json:"contactEmail" validate:"omitempty,email"`
	Website      string `json:"website" validate:"omitempty,url"`
	StarRating   int    `json:"starRating" validate:"omitempty,min=1,max=5"`
}

func (q hotelProfileRequest) profile() domain.HotelProfile {
	return domain.HotelProfile{
		Name:         q.HotelName,
		Description:  q.Description,
		Address:      q.Address,
		City:         strings.TrimSpace(q.City),
		State:        strings.TrimSpace(q.State),
		Country:      strings.TrimSpace(q.Country),
		PostalCode:   strings.TrimSpace(q.PostalCode),
		ContactPhone: q.ContactPhone,
		ContactEmail: q.ContactEmail,
		Website:      q.Website,
		StarRating:   q.StarRating,
	}
}

type corporateProfileRequest struct {
	CompanyName  string `json:"companyName" validate:"required,max=255"`
	Industry     string `json:"industry" validate:"max=100"`
	CompanySize  string `json:"companySize" validate:"max=50"`
	Address      string `json:"address" validate:"max=500"`
	City         string `json:"city" validate:"max=100"`
	Country      string `json:"country" validate:"max=100"`
	ContactPhone string `json:"contactPhone" validate:"max=32"`
}

func (q corporateProfileRequest) profile() domain.CorporateProfile {
	return domain.CorporateProfile{
		CompanyName:  q.CompanyName,
		Industry:     q.Industry,
		CompanySize:  q.CompanySize,
		Address:      q.Address,
		City:         strings.TrimSpace(q.City),
		Country:      strings.TrimSpace(q.Country),
		ContactPhone: q.ContactPhone,
	}
}

/********** catalog **********/

type roomTypeRequest struct {
	Name           string        `json:"name" validate:"required,max=100"`
	Description    string        `json:"description"`
	Capacity       int           `json:"capacity" validate:"required,min=1"`
	BasePrice      domain.Money  `json:"basePrice" validate:"min=0"`
	CorporatePrice *domain.Money `json:"corporatePrice" validate:"omitempty,min=0"`
	Amenities      []string      `json:"amenities" validate:"omitempty,dive,max=64"`
	IsActive       *bool         `json:"isActive"`
}

func (q roomTypeRequest) roomType() domain.RoomType {
	rt := domain.RoomType{
		Name:           q.Name,
		Description:    q.Description,
		Capacity:       q.Capacity,
		BasePrice:      q.BasePrice,
		CorporatePrice: q.CorporatePrice,
		Amenities:      q.Amenities,
		Active:         true,
	}
	if q.IsActive != nil {
		rt.Active = *q.IsActive
	}
	return rt
}

type postRequest struct {
	Title       string        `json:"title" validate:"required,max=255"`
	Description string        `json:"description"`
	PriceFrom   domain.Money  `json:"priceFrom" validate:"min=0"`
	PriceTo     *domain.Money `json:"priceTo" validate:"omitempty,min=0"`
	ValidFrom   *domain.Date  `json:"validFrom"`
	ValidTo     *domain.Date  `json:"validTo"`
	IsActive    *bool         `json:"isActive"`
}

func (q postRequest) post() domain.MarketingPost {
	p := domain.MarketingPost{
		Title:       q.Title,
		Description: q.Description,
		PriceFrom:   q.PriceFrom,
		PriceTo:     q.PriceTo,
		ValidFrom:   q.ValidFrom,
		ValidTo:     q.ValidTo,
		Active:      true,
	}
	if q.IsActive != nil {
		p.Active = *q.IsActive
	}
	return p
}

/********** bookings & chat **********/

type bookingRequest struct {
	HotelID         int64       `json:"hotelId" validate:"required,gt=0"`
	RoomTypeID      int64       `json:"roomTypeId" validate:"required,gt=0"`
	CheckInDate     domain.Date `json:"checkInDate"`
	CheckOutDate    domain.Date `json:"checkOutDate"`
	NumberOfGuests  int         `json:"numberOfGuests" validate:"required,min=1"`
	RoomQuantity    int         `json:"roomQuantity" validate:"omitempty,min=1,max=100"`
	GuestName       string      `json:"guestName" validate:"required,max=200"`
	GuestEmail      string      `json:"guestEmail" validate:"required,email"`
	GuestPhone      string      `json:"guestPhone" validate:"required,max=32"`
	SpecialRequests string      `json:"specialRequests" validate:"max=2000"`
}

func (q bookingRequest) booking() (app.BookingRequest, error) {
	if q.CheckInDate.IsZero() || q.CheckOutDate.IsZero() {
		return app.BookingRequest{}, domain.Errorf(domain.ErrValidation, "checkInDate and checkOutDate are required")
	}
	rooms := q.RoomQuantity
	if rooms == 0 {
		rooms = 1
	}
	return app.BookingRequest{
		HotelID:         q.HotelID,
		RoomTypeID:      q.RoomTypeID,
		CheckIn:         q.CheckInDate,
		CheckOut:        q.CheckOutDate,
		Guests:          q.NumberOfGuests,
		RoomQuantity:    rooms,
		GuestName:       q.GuestName,
		GuestEmail:      q.GuestEmail,
		GuestPhone:      q.GuestPhone,
		SpecialRequests: q.SpecialRequests,
	}, nil
}

type rejectRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

type messageRequest struct {
	RecipientID int64  `json:"recipientId" validate:"required,gt=0"`
	Message     string `json:"message" validate:"required"`
	PostID      *int64 `json:"postId" validate:"omitempty,gt=0"`
}
