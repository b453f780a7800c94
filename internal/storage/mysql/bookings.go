package mysql

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"stayhub/internal/domain"
)

func scanBooking(s scanner) (domain.Booking, error) {
	var b domain.Booking
	var corpID sql.NullInt64
	var checkIn, checkOut time.Time
	var unit, total, discount, final int64
	var payment, status string
	var approved, cancelled sql.NullTime
	var reason sql.NullString
	if err := s.Scan(
		&b.ID, &b.BookingNumber, &b.AccountID, &corpID, &b.HotelID, &b.HotelName,
		&b.RoomTypeID, &b.RoomTypeName, &checkIn, &checkOut, &b.Nights, &b.Guests,
		&b.RoomQuantity, &b.GuestName, &b.GuestEmail, &b.GuestPhone, &b.SpecialRequests,
		&unit, &total, &discount, &final, &payment, &status,
		&approved, &reason, &cancelled, &b.CreatedAt, &b.UpdatedAt,
	); err != nil {
		return domain.Booking{}, translate(err)
	}
	b.CorporateProfileID = ptrInt64(corpID)
	b.CheckIn = domain.DateOf(checkIn)
	b.CheckOut = domain.DateOf(checkOut)
	b.UnitPrice = domain.Money(unit)
	b.TotalPrice = domain.Money(total)
	b.DiscountAmount = domain.Money(discount)
	b.FinalPrice = domain.Money(final)
	b.PaymentStatus = domain.PaymentStatus(payment)
	b.Status = domain.BookingStatus(status)
	b.ApprovedAt = ptrTime(approved)
	b.RejectionReason = ptrStr(reason)
	b.CancelledAt = ptrTime(cancelled)
	return b, nil
}

// CreateBooking inserts b and sets its ID. A taken booking number surfaces as
// domain.ErrDuplicate.
func (r *Repo) CreateBooking(ctx context.Context, b *domain.Booking) error {
	var requests any
	if b.SpecialRequests != "" {
		requests = b.SpecialRequests
	}
	id, err := r.insert(ctx, insertBookingSQL,
		b.BookingNumber,
		b.AccountID,
		valInt64(b.CorporateProfileID),
		b.HotelID,
		b.RoomTypeID,
		b.CheckIn.String(),
		b.CheckOut.String(),
		b.Nights,
		b.Guests,
		b.RoomQuantity,
		b.GuestName,
		b.GuestEmail,
		b.GuestPhone,
		requests,
		int64(b.UnitPrice),
		int64(b.TotalPrice),
		int64(b.DiscountAmount),
		int64(b.FinalPrice),
		string(b.PaymentStatus),
		string(b.Status),
	)
	if err != nil {
		return err
	}
	b.ID = id
	now := time.Now().UTC()
	b.CreatedAt, b.UpdatedAt = now, now
	return nil
}

func (r *Repo) GetBooking(ctx context.Context, id int64) (domain.Booking, error) {
	return scanBooking(r.db.QueryRowContext(ctx, getBookingSQL, id))
}

func (r *Repo) ListBookings(ctx context.Context, f domain.BookingFilter) ([]domain.Booking, int, error) {
	var where []string
	var args []any
	if f.AccountID != nil {
		where = append(where, "b.account_id = ?")
		args = append(args, *f.AccountID)
	}
	if f.HotelID != nil {
		where = append(where, "b.hotel_id = ?")
		args = append(args, *f.HotelID)
	}
	if f.Status != nil {
		where = append(where, "b.booking_status = ?")
		args = append(args, string(*f.Status))
	}
	cond := ""
	if len(where) > 0 {
		cond = "\nWHERE " + strings.Join(where, " AND ")
	}

	total, err := r.count(ctx, "SELECT COUNT(*)"+bookingFrom+cond, args...)
	if err != nil {
		return nil, 0, err
	}

	q := "SELECT" + bookingColumns + cond + "\nORDER BY b.created_at DESC, b.id DESC\nLIMIT ? OFFSET ?"
	rows, err := r.db.QueryContext(ctx, q, append(args, f.Page.Limit, f.Page.Offset())...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []domain.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, b)
	}
	return out, total, rows.Err()
}

// TransitionBooking applies a status change only while the row is still in one
// of t.From and matches the scope columns. It reports whether a row changed.
func (r *Repo) TransitionBooking(ctx context.Context, t domain.BookingTransition) (bool, error) {
	if len(t.From) == 0 {
		return false, errors.New("mysql: transition without source states")
	}
	set := []string{"booking_status = ?"}
	args := []any{string(t.To)}
	switch t.To {
	case domain.BookingConfirmed:
		set = append(set, "approved_at = ?")
		args = append(args, t.At.UTC())
	case domain.BookingRejected:
		set = append(set, "rejection_reason = ?")
		args = append(args, valStr(t.RejectionReason))
	case domain.BookingCancelled:
		set = append(set, "cancelled_at = ?")
		args = append(args, t.At.UTC())
	}

	where := []string{"id = ?"}
	args = append(args, t.BookingID)
	if t.HotelID != nil {
		where = append(where, "hotel_id = ?")
		args = append(args, *t.HotelID)
	}
	if t.AccountID != nil {
		where = append(where, "account_id = ?")
		args = append(args, *t.AccountID)
	}
	where = append(where, "booking_status IN ("+placeholders(len(t.From))+")")
	for _, s := range t.From {
		args = append(args, string(s))
	}

	q := "UPDATE bookings SET " + strings.Join(set, ", ") + " WHERE " + strings.Join(where, " AND ")
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return false, translate(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
