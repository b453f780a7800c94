package mysql

import (
	"context"

	"stayhub/internal/domain"
)

func (r *Repo) Stats(ctx context.Context) (domain.Stats, error) {
	var s domain.Stats
	var revenue int64
	if err := r.db.QueryRowContext(ctx, statsTotalsSQL).Scan(
		&s.Accounts, &s.Hotels, &s.Corporates, &s.ActiveRoomTypes, &s.ActivePosts, &revenue,
	); err != nil {
		return domain.Stats{}, err
	}
	s.ConfirmedRevenue = domain.Money(revenue)

	s.BookingsByStatus = make(map[domain.BookingStatus]int64, len(domain.BookingStatuses))
	for _, st := range domain.BookingStatuses {
		s.BookingsByStatus[st] = 0
	}
	rows, err := r.db.QueryContext(ctx, statsBookingsByStatusSQL)
	if err != nil {
		return domain.Stats{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var st string
		var n int64
		if err := rows.Scan(&st, &n); err != nil {
			return domain.Stats{}, err
		}
		s.BookingsByStatus[domain.BookingStatus(st)] = n
	}
	return s, rows.Err()
}
