package app

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"stayhub/internal/adapters/observability"
	"stayhub/internal/domain"
)

const bookingNumberAttempts = 5

type BookingService struct {
	bookings domain.BookingRepository
	catalog  domain.CatalogRepository
	profiles domain.ProfileRepository
	now      func() time.Time
}

func NewBookingService(b domain.BookingRepository, c domain.CatalogRepository, p domain.ProfileRepository) *BookingService {
	return &BookingService{bookings: b, catalog: c, profiles: p, now: time.Now}
}

type BookingRequest struct {
	HotelID         int64
	RoomTypeID      int64
	CheckIn         domain.Date
	CheckOut        domain.Date
	Guests          int
	RoomQuantity    int
	GuestName       string
	GuestEmail      string
	GuestPhone      string
	SpecialRequests string
}

// Create books rooms of an active room type for the calling corporate account.
// Prices are snapshotted; the booking starts pending.
func (s *BookingService) Create(ctx context.Context, c domain.Claims, r BookingRequest) (domain.Booking, error) {
	if r.Guests < 1 {
		return domain.Booking{}, domain.Errorf(domain.ErrValidation, "numberOfGuests must be at least 1")
	}
	if domain.Nights(r.CheckIn, r.CheckOut) < 1 {
		return domain.Booking{}, domain.Errorf(domain.ErrValidation, "checkOutDate must be after checkInDate")
	}
	if r.RoomQuantity < 1 || r.RoomQuantity > domain.MaxRoomQuantity {
		return domain.Booking{}, domain.Errorf(domain.ErrValidation, "roomQuantity must be between 1 and %d", domain.MaxRoomQuantity)
	}
	cp, err := corporateOf(ctx, s.profiles, c)
	if err != nil {
		return domain.Booking{}, err
	}
	rt, err := s.catalog.GetRoomType(ctx, r.RoomTypeID)
	if err != nil {
		return domain.Booking{}, notFound(err, "room type not found")
	}
	if rt.HotelID != r.HotelID || !rt.Active {
		return domain.Booking{}, domain.Errorf(domain.ErrNotFound, "room type not found")
	}
	if r.Guests > rt.Capacity*r.RoomQuantity {
		return domain.Booking{}, domain.Errorf(domain.ErrValidation, "numberOfGuests exceeds the capacity of the requested rooms")
	}

	q, err := domain.QuoteStay(rt, r.CheckIn, r.CheckOut, r.RoomQuantity, true)
	if err != nil {
		return domain.Booking{}, err
	}
	b := domain.Booking{
		AccountID:          c.AccountID,
		CorporateProfileID: &cp.ID,
		HotelID:            rt.HotelID,
		RoomTypeID:         rt.ID,
		RoomTypeName:       rt.Name,
		CheckIn:            r.CheckIn,
		CheckOut:           r.CheckOut,
		Nights:             q.Nights,
		Guests:             r.Guests,
		RoomQuantity:       r.RoomQuantity,
		GuestName:          strings.TrimSpace(r.GuestName),
		GuestEmail:         domain.NormalizeEmail(r.GuestEmail),
		GuestPhone:         strings.TrimSpace(r.GuestPhone),
		SpecialRequests:    strings.TrimSpace(r.SpecialRequests),
		UnitPrice:          q.UnitPrice,
		TotalPrice:         q.TotalPrice,
		DiscountAmount:     q.DiscountAmount,
		FinalPrice:         q.FinalPrice,
		PaymentStatus:      domain.PaymentPending,
		Status:             domain.BookingPending,
	}

	collisions := 0
	for attempt := 1; ; attempt++ {
		b.BookingNumber, err = domain.NewBookingNumber(s.now())
		if err != nil {
			return domain.Booking{}, err
		}
		err = s.bookings.CreateBooking(ctx, &b)
		if err == nil {
			break
		}
		if !errors.Is(err, domain.ErrDuplicate) || attempt == bookingNumberAttempts {
			return domain.Booking{}, err
		}
		log.Warn().Str("booking_number", b.BookingNumber).Int("attempt", attempt).Msg("booking number collision, regenerating")
		collisions++
	}
	observability.ObserveBookingCreated(rt.CorporatePrice != nil, collisions)

	log.Info().
		Int64("booking_id", b.ID).
		Str("booking_number", b.BookingNumber).
		Int64("hotel_id", b.HotelID).
		Str("final_price", b.FinalPrice.String()).
		Msg("booking created")
	return s.bookings.GetBooking(ctx, b.ID)
}

func (s *BookingService) Approve(ctx context.Context, c domain.Claims, id int64) (domain.Booking, error) {
	h, err := hotelOf(ctx, s.profiles, c)
	if err != nil {
		return domain.Booking{}, err
	}
	return s.transition(ctx, domain.BookingTransition{BookingID: id, HotelID: &h.ID, To: domain.BookingConfirmed},
		func(b domain.Booking) bool { return b.HotelID == h.ID })
}

func (s *BookingService) Reject(ctx context.Context, c domain.Claims, id int64, reason string) (domain.Booking, error) {
	h, err := hotelOf(ctx, s.profiles, c)
	if err != nil {
		return domain.Booking{}, err
	}
	t := domain.BookingTransition{BookingID: id, HotelID: &h.ID, To: domain.BookingRejected}
	if reason = strings.TrimSpace(reason); reason != "" {
		t.RejectionReason = &reason
	}
	return s.transition(ctx, t, func(b domain.Booking) bool { return b.HotelID == h.ID })
}

// Cancel is open to the account that requested the booking.
func (s *BookingService) Cancel(ctx context.Context, c domain.Claims, id int64) (domain.Booking, error) {
	return s.transition(ctx, domain.BookingTransition{BookingID: id, AccountID: &c.AccountID, To: domain.BookingCancelled},
		func(b domain.Booking) bool { return b.AccountID == c.AccountID })
}

// transition applies t as a single conditional update. When nothing changed the
// booking is re-read to tell a foreign or missing booking from a wrong state.
func (s *BookingService) transition(ctx context.Context, t domain.BookingTransition, owns func(domain.Booking) bool) (domain.Booking, error) {
	t.From = domain.TransitionSources(t.To)
	t.At = s.now().UTC()

	ok, err := s.bookings.TransitionBooking(ctx, t)
	if err != nil {
		observability.ObserveTransition(string(t.To), "error")
		return domain.Booking{}, err
	}
	if !ok {
		b, err := s.bookings.GetBooking(ctx, t.BookingID)
		if errors.Is(err, domain.ErrNotFound) || (err == nil && !owns(b)) {
			observability.ObserveTransition(string(t.To), "not_found")
			return domain.Booking{}, domain.Errorf(domain.ErrNotFound, "booking not found")
		}
		if err != nil {
			return domain.Booking{}, err
		}
		observability.ObserveTransition(string(t.To), "rejected")
		log.Info().Int64("booking_id", b.ID).Str("from", string(b.Status)).Str("to", string(t.To)).Msg("booking transition refused")
		return domain.Booking{}, domain.Errorf(domain.ErrInvalidTransition, "cannot change a %s booking to %s", b.Status, t.To)
	}

	observability.ObserveTransition(string(t.To), "applied")
	log.Info().Int64("booking_id", t.BookingID).Str("to", string(t.To)).Msg("booking status changed")
	return s.bookings.GetBooking(ctx, t.BookingID)
}

func (s *BookingService) ListMine(ctx context.Context, c domain.Claims, status *domain.BookingStatus, page domain.PageRequest) (domain.Page[domain.Booking], error) {
	if _, err := corporateOf(ctx, s.profiles, c); err != nil {
		return domain.Page[domain.Booking]{}, err
	}
	return s.list(ctx, domain.BookingFilter{AccountID: &c.AccountID, Status: status, Page: page})
}

func (s *BookingService) ListForHotel(ctx context.Context, c domain.Claims, status *domain.BookingStatus, page domain.PageRequest) (domain.Page[domain.Booking], error) {
	h, err := hotelOf(ctx, s.profiles, c)
	if err != nil {
		return domain.Page[domain.Booking]{}, err
	}
	return s.list(ctx, domain.BookingFilter{HotelID: &h.ID, Status: status, Page: page})
}

func (s *BookingService) list(ctx context.Context, f domain.BookingFilter) (domain.Page[domain.Booking], error) {
	bs, total, err := s.bookings.ListBookings(ctx, f)
	if err != nil {
		return domain.Page[domain.Booking]{}, err
	}
	return domain.NewPage(bs, total, f.Page), nil
}

// Get returns a booking visible to the caller: its requester, the hotel it
// belongs to, or an administrator.
func (s *BookingService) Get(ctx context.Context, c domain.Claims, id int64) (domain.Booking, error) {
	b, err := s.bookings.GetBooking(ctx, id)
	if err != nil {
		return domain.Booking{}, notFound(err, "booking not found")
	}
	if b.AccountID == c.AccountID || c.IsAdmin() {
		return b, nil
	}
	if c.IdentityType == domain.IdentityHotel {
		if h, err := s.profiles.GetHotelProfileByAccount(ctx, c.AccountID); err == nil && h.ID == b.HotelID {
			return b, nil
		}
	}
	return domain.Booking{}, domain.Errorf(domain.ErrNotFound, "booking not found")
}
