package domain

import (
	"crypto/rand"
	"encoding/base32"
	"strconv"
	"strings"
	"time"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingRejected  BookingStatus = "rejected"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
	BookingNoShow    BookingStatus = "no_show"
)

// BookingStatuses lists the stored vocabulary in lifecycle order.
var BookingStatuses = []BookingStatus{
	BookingPending, BookingConfirmed, BookingRejected, BookingCancelled, BookingCompleted, BookingNoShow,
}

func ParseBookingStatus(s string) (BookingStatus, error) {
	for _, st := range BookingStatuses {
		if string(st) == strings.ToLower(strings.TrimSpace(s)) {
			return st, nil
		}
	}
	return "", Errorf(ErrValidation, "unknown booking status %q", s)
}

var allowedTransitions = map[BookingStatus]map[BookingStatus]bool{
	BookingPending:   {BookingConfirmed: true, BookingRejected: true, BookingCancelled: true},
	BookingConfirmed: {BookingCancelled: true, BookingCompleted: true, BookingNoShow: true},
	BookingRejected:  {},
	BookingCancelled: {},
	BookingCompleted: {},
	BookingNoShow:    {},
}

func CanTransition(from, to BookingStatus) bool {
	m, ok := allowedTransitions[from]
	if !ok {
		return false
	}
	return m[to]
}

// TransitionSources returns the states from which to may be entered, in
// lifecycle order. Storage uses it as the guard of a conditional update.
func TransitionSources(to BookingStatus) []BookingStatus {
	var out []BookingStatus
	for _, from := range BookingStatuses {
		if CanTransition(from, to) {
			out = append(out, from)
		}
	}
	return out
}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

type Booking struct {
	ID                 int64         `json:"id"`
	BookingNumber      string        `json:"bookingNumber"`
	AccountID          int64         `json:"userId"`
	CorporateProfileID *int64        `json:"corporateProfileId"`
	HotelID            int64         `json:"hotelId"`
	HotelName          string        `json:"hotelName,omitempty"`
	RoomTypeID         int64         `json:"roomTypeId"`
	RoomTypeName       string        `json:"roomTypeName,omitempty"`
	CheckIn            Date          `json:"checkInDate"`
	CheckOut           Date          `json:"checkOutDate"`
	Nights             int           `json:"nights"`
	Guests             int           `json:"numberOfGuests"`
	RoomQuantity       int           `json:"roomQuantity"`
	GuestName          string        `json:"guestName"`
	GuestEmail         string        `json:"guestEmail"`
	GuestPhone         string        `json:"guestPhone"`
	SpecialRequests    string        `json:"specialRequests,omitempty"`
	UnitPrice          Money         `json:"unitPrice"`
	TotalPrice         Money         `json:"totalPrice"`
	DiscountAmount     Money         `json:"discountAmount"`
	FinalPrice         Money         `json:"finalPrice"`
	PaymentStatus      PaymentStatus `json:"paymentStatus"`
	Status             BookingStatus `json:"bookingStatus"`
	ApprovedAt         *time.Time    `json:"approvedAt,omitempty"`
	RejectionReason    *string       `json:"rejectionReason,omitempty"`
	CancelledAt        *time.Time    `json:"cancelledAt,omitempty"`
	CreatedAt          time.Time     `json:"createdAt"`
	UpdatedAt          time.Time     `json:"updatedAt"`
}

// Stay bounds accepted for a single booking.
const (
	MaxStayNights   = 365
	MaxRoomQuantity = 100
)

const secondsPerDay = 24 * 60 * 60

// dayNumber counts whole days since the Unix epoch.
func dayNumber(d Date) int64 {
	s := d.Unix()
	n := s / secondsPerDay
	if s%secondsPerDay < 0 {
		n--
	}
	return n
}

// Nights is the number of calendar days between check-in and check-out.
func Nights(checkIn, checkOut Date) int {
	return int(dayNumber(checkOut) - dayNumber(checkIn))
}

// Quote is the price snapshot taken when a booking is created.
type Quote struct {
	Nights         int
	UnitPrice      Money
	TotalPrice     Money
	DiscountAmount Money
	FinalPrice     Money
}

// QuoteStay prices rooms of rt for the stay: unit × nights × rooms, where unit
// is the corporate price for corporate bookers when set. Discount records the
// saving against the base price.
func QuoteStay(rt RoomType, checkIn, checkOut Date, rooms int, corporate bool) (Quote, error) {
	nights := Nights(checkIn, checkOut)
	if nights < 1 {
		return Quote{}, Errorf(ErrValidation, "checkOutDate must be after checkInDate")
	}
	if nights > MaxStayNights {
		return Quote{}, Errorf(ErrValidation, "stay must not exceed %d nights", MaxStayNights)
	}
	if rooms < 1 {
		return Quote{}, Errorf(ErrValidation, "roomQuantity must be at least 1")
	}
	if rooms > MaxRoomQuantity {
		return Quote{}, Errorf(ErrValidation, "roomQuantity must be at most %d", MaxRoomQuantity)
	}
	unit := rt.UnitPrice(corporate)
	total := unit.Mul(nights).Mul(rooms)
	discount := (rt.BasePrice - unit).Mul(nights).Mul(rooms)
	if discount < 0 {
		discount = 0
	}
	return Quote{
		Nights:         nights,
		UnitPrice:      unit,
		TotalPrice:     total,
		DiscountAmount: discount,
		FinalPrice:     total,
	}, nil
}

var bookingNumberEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// NewBookingNumber returns "BK" + base36 milliseconds + "-" + 10 random base32
// characters (50 bits). The unique index on bookings is the final guard.
func NewBookingNumber(now time.Time) (string, error) {
	var b [7]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	ts := strings.ToUpper(strconv.FormatInt(now.UnixMilli(), 36))
	return "BK" + ts + "-" + bookingNumberEncoding.EncodeToString(b[:])[:10], nil
}

// BookingTransition is a compare-and-swap status change. The update applies
// only when the current status is one of From and the scope columns match.
type BookingTransition struct {
	BookingID       int64
	HotelID         *int64
	AccountID       *int64
	To              BookingStatus
	From            []BookingStatus
	At              time.Time
	RejectionReason *string
}

type BookingFilter struct {
	AccountID *int64
	HotelID   *int64
	Status    *BookingStatus
	Page      PageRequest
}
