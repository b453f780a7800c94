package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"stayhub/internal/domain"
)

func scanRoomType(s scanner) (domain.RoomType, error) {
	var rt domain.RoomType
	var corp sql.NullInt64
	var base int64
	var amenities []byte
	if err := s.Scan(
		&rt.ID, &rt.HotelID, &rt.Name, &rt.Description, &rt.Capacity, &base, &corp,
		&amenities, &rt.Active, &rt.CreatedAt, &rt.UpdatedAt,
	); err != nil {
		return domain.RoomType{}, translate(err)
	}
	rt.BasePrice = domain.Money(base)
	rt.CorporatePrice = ptrMoney(corp)
	rt.Amenities = []string{}
	if len(amenities) > 0 {
		if err := json.Unmarshal(amenities, &rt.Amenities); err != nil {
			log.Warn().Err(err).Int64("room_type_id", rt.ID).Msg("unreadable amenities column, serving none")
			rt.Amenities = []string{}
		}
	}
	return rt, nil
}

func (r *Repo) CreateRoomType(ctx context.Context, rt *domain.RoomType) error {
	id, err := r.insert(ctx, insertRoomTypeSQL,
		rt.HotelID,
		rt.Name,
		rt.Description,
		rt.Capacity,
		int64(rt.BasePrice),
		valMoney(rt.CorporatePrice),
		valJSON(rt.Amenities),
		rt.Active,
	)
	if err != nil {
		return err
	}
	rt.ID = id
	now := time.Now().UTC()
	rt.CreatedAt, rt.UpdatedAt = now, now
	return nil
}

func (r *Repo) GetRoomType(ctx context.Context, id int64) (domain.RoomType, error) {
	return scanRoomType(r.db.QueryRowContext(ctx, getRoomTypeSQL, id))
}

func (r *Repo) ListRoomTypes(ctx context.Context, hotelID int64, activeOnly bool) ([]domain.RoomType, error) {
	rows, err := r.db.QueryContext(ctx, listRoomTypesSQL, hotelID, activeOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.RoomType{}
	for rows.Next() {
		rt, err := scanRoomType(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rt)
	}
	return out, rows.Err()
}

// UpdateRoomType writes every mutable column. Ownership is checked by the caller
// before the read-modify-write; the hotel_id predicate keeps the write scoped.
func (r *Repo) UpdateRoomType(ctx context.Context, rt domain.RoomType) error {
	_, err := r.db.ExecContext(ctx, updateRoomTypeSQL,
		rt.Name,
		rt.Description,
		rt.Capacity,
		int64(rt.BasePrice),
		valMoney(rt.CorporatePrice),
		valJSON(rt.Amenities),
		rt.Active,
		rt.ID,
		rt.HotelID,
	)
	return translate(err)
}

func (r *Repo) DeleteRoomType(ctx context.Context, hotelID, id int64) error {
	return r.deleteScoped(ctx, deleteRoomTypeSQL, hotelID, id)
}

func scanPost(s scanner) (domain.MarketingPost, error) {
	var p domain.MarketingPost
	var from int64
	var to sql.NullInt64
	var validFrom, validTo sql.NullTime
	if err := s.Scan(
		&p.ID, &p.HotelID, &p.HotelName, &p.Title, &p.Description, &from, &to,
		&validFrom, &validTo, &p.Active, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return domain.MarketingPost{}, translate(err)
	}
	p.PriceFrom = domain.Money(from)
	p.PriceTo = ptrMoney(to)
	p.ValidFrom = ptrDate(validFrom)
	p.ValidTo = ptrDate(validTo)
	return p, nil
}

func (r *Repo) CreatePost(ctx context.Context, p *domain.MarketingPost) error {
	id, err := r.insert(ctx, insertPostSQL,
		p.HotelID,
		p.Title,
		p.Description,
		int64(p.PriceFrom),
		valMoney(p.PriceTo),
		valDate(p.ValidFrom),
		valDate(p.ValidTo),
		p.Active,
	)
	if err != nil {
		return err
	}
	p.ID = id
	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now
	return nil
}

func (r *Repo) GetPost(ctx context.Context, id int64) (domain.MarketingPost, error) {
	return scanPost(r.db.QueryRowContext(ctx, getPostSQL, id))
}

// ListPosts returns one page of posts, newest first, and the total matching count.
func (r *Repo) ListPosts(ctx context.Context, f domain.PostFilter) ([]domain.MarketingPost, int, error) {
	var where []string
	var args []any
	if f.HotelID != nil {
		where = append(where, "p.hotel_id = ?")
		args = append(args, *f.HotelID)
	}
	if f.ActiveOnly {
		where = append(where, "p.is_active = 1")
	}
	cond := ""
	if len(where) > 0 {
		cond = "\nWHERE " + strings.Join(where, " AND ")
	}

	total, err := r.count(ctx, "SELECT COUNT(*)"+postFrom+cond, args...)
	if err != nil {
		return nil, 0, err
	}

	q := "SELECT" + postColumns + cond + "\nORDER BY p.created_at DESC, p.id DESC\nLIMIT ? OFFSET ?"
	rows, err := r.db.QueryContext(ctx, q, append(args, f.Page.Limit, f.Page.Offset())...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []domain.MarketingPost{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	return out, total, rows.Err()
}

func (r *Repo) UpdatePost(ctx context.Context, p domain.MarketingPost) error {
	_, err := r.db.ExecContext(ctx, updatePostSQL,
		p.Title,
		p.Description,
		int64(p.PriceFrom),
		valMoney(p.PriceTo),
		valDate(p.ValidFrom),
		valDate(p.ValidTo),
		p.Active,
		p.ID,
		p.HotelID,
	)
	return translate(err)
}

func (r *Repo) DeletePost(ctx context.Context, hotelID, id int64) error {
	return r.deleteScoped(ctx, deletePostSQL, hotelID, id)
}
