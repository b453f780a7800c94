package mysql

import (
	"context"
	"strings"

	"stayhub/internal/domain"
)

// hotelFilter turns a HotelSearch into fixed SQL fragments. Values only ever
// travel as bound arguments.
type hotelFilter struct {
	where      []string
	whereArgs  []any
	having     []string
	havingArgs []any
}

var hotelOrder = map[domain.HotelSort]string{
	domain.SortRating:    "h.star_rating DESC, h.id ASC",
	domain.SortPriceAsc:  "min_price ASC, h.id ASC",
	domain.SortPriceDesc: "min_price DESC, h.id ASC",
	domain.SortName:      "h.hotel_name ASC, h.id ASC",
}

func newHotelFilter(q domain.HotelSearch) hotelFilter {
	var f hotelFilter
	f.like("h.city", q.City)
	f.like("h.state", q.State)
	f.like("h.country", q.Country)
	f.like("h.postal_code", q.PostalCode)
	if q.MinStars != nil {
		f.where = append(f.where, "h.star_rating >= ?")
		f.whereArgs = append(f.whereArgs, *q.MinStars)
	}
	if q.MaxStars != nil {
		f.where = append(f.where, "h.star_rating <= ?")
		f.whereArgs = append(f.whereArgs, *q.MaxStars)
	}
	if q.MinPrice != nil {
		f.having = append(f.having, "MIN(rt.base_price) >= ?")
		f.havingArgs = append(f.havingArgs, int64(*q.MinPrice))
	}
	if q.MaxPrice != nil {
		f.having = append(f.having, "MIN(rt.base_price) <= ?")
		f.havingArgs = append(f.havingArgs, int64(*q.MaxPrice))
	}
	if q.Guests != nil {
		f.having = append(f.having, "MAX(rt.capacity) >= ?")
		f.havingArgs = append(f.havingArgs, *q.Guests)
	}
	return f
}

func (f *hotelFilter) like(col, v string) {
	v = strings.TrimSpace(v)
	if v == "" {
		return
	}
	f.where = append(f.where, col+" LIKE ?")
	f.whereArgs = append(f.whereArgs, "%"+v+"%")
}

// statement is the grouped hotel query shared by the page and the count.
func (f hotelFilter) statement() (string, []any) {
	var b strings.Builder
	b.WriteString(searchHotelsSelect)
	if len(f.where) > 0 {
		b.WriteString("\nWHERE ")
		b.WriteString(strings.Join(f.where, " AND "))
	}
	b.WriteString("\nGROUP BY h.id")
	if len(f.having) > 0 {
		b.WriteString("\nHAVING ")
		b.WriteString(strings.Join(f.having, " AND "))
	}
	args := make([]any, 0, len(f.whereArgs)+len(f.havingArgs)+2)
	args = append(args, f.whereArgs...)
	args = append(args, f.havingArgs...)
	return b.String(), args
}

func (r *Repo) SearchHotels(ctx context.Context, q domain.HotelSearch) ([]domain.HotelSummary, error) {
	stmt, args := newHotelFilter(q).statement()
	order, ok := hotelOrder[q.Sort]
	if !ok {
		order = hotelOrder[domain.SortRating]
	}
	stmt += "\nORDER BY " + order + "\nLIMIT ? OFFSET ?"
	args = append(args, q.Page.Limit, q.Page.Offset())

	rows, err := r.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.HotelSummary{}
	for rows.Next() {
		var h domain.HotelSummary
		var minPrice int64
		if err := rows.Scan(
			&h.ID, &h.Name, &h.Description, &h.City, &h.State, &h.Country, &h.PostalCode,
			&h.StarRating, &minPrice, &h.MaxCapacity, &h.RoomTypeCount,
		); err != nil {
			return nil, err
		}
		h.MinPrice = domain.Money(minPrice)
		out = append(out, h)
	}
	return out, rows.Err()
}

func (r *Repo) CountHotels(ctx context.Context, q domain.HotelSearch) (int, error) {
	stmt, args := newHotelFilter(q).statement()
	return r.count(ctx, "SELECT COUNT(*) FROM ("+stmt+"\n) matched", args...)
}

func (r *Repo) ListCities(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, listCitiesSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
