package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"

	"stayhub/internal/domain"
)

// MySQL server error numbers mapped to domain kinds.
const (
	errDupEntry        = 1062
	errRowIsReferenced = 1451
)

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}
func valInt64(p *int64) any {
	if p == nil {
		return nil
	}
	return *p
}
func valMoney(p *domain.Money) any {
	if p == nil {
		return nil
	}
	return int64(*p)
}
func valDate(p *domain.Date) any {
	if p == nil {
		return nil
	}
	return p.String()
}
func valTime(p *time.Time) any {
	if p == nil {
		return nil
	}
	return p.UTC()
}
func valIdentity(t domain.IdentityType) any {
	if t == domain.IdentityUnset {
		return nil
	}
	return string(t)
}
func valJSON(v []string) any {
	if v == nil {
		v = []string{}
	}
	b, _ := json.Marshal(v)
	return string(b)
}

func ptrStr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
func ptrInt64(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}
func ptrMoney(n sql.NullInt64) *domain.Money {
	if !n.Valid {
		return nil
	}
	m := domain.Money(n.Int64)
	return &m
}
func ptrTime(n sql.NullTime) *time.Time {
	if !n.Valid {
		return nil
	}
	t := n.Time.UTC()
	return &t
}
func ptrDate(n sql.NullTime) *domain.Date {
	if !n.Valid {
		return nil
	}
	d := domain.DateOf(n.Time)
	return &d
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// translate maps driver errors onto domain kinds; anything else passes through.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		switch me.Number {
		case errDupEntry:
			return fmt.Errorf("%w: %s", domain.ErrDuplicate, me.Message)
		case errRowIsReferenced:
			return domain.Errorf(domain.ErrConflict, "record is still referenced")
		}
	}
	return err
}

// placeholders returns "?,?,...,?" with n markers.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

type Repo struct{ db *sql.DB }

var (
	_ domain.AccountRepository = (*Repo)(nil)
	_ domain.ProfileRepository = (*Repo)(nil)
	_ domain.CatalogRepository = (*Repo)(nil)
	_ domain.SearchRepository  = (*Repo)(nil)
	_ domain.BookingRepository = (*Repo)(nil)
	_ domain.ChatRepository    = (*Repo)(nil)
	_ domain.StatsRepository   = (*Repo)(nil)
)

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// Ping reports whether the database is reachable.
func (r *Repo) Ping(ctx context.Context) error { return r.db.PingContext(ctx) }

func (r *Repo) insert(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, translate(err)
	}
	return res.LastInsertId()
}

// deleteScoped removes one row matching id and owner; no match is ErrNotFound.
func (r *Repo) deleteScoped(ctx context.Context, query string, ownerID, id int64) error {
	res, err := r.db.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		return translate(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// count runs a COUNT(*) style query.
func (r *Repo) count(ctx context.Context, query string, args ...any) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
