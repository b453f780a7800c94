package mysql

import (
	"context"
	"database/sql"
	"time"

	"stayhub/internal/domain"
)

func scanAccount(s scanner) (domain.Account, error) {
	var a domain.Account
	var pw, phone, sub, ident sql.NullString
	var role string
	var last sql.NullTime
	if err := s.Scan(
		&a.ID, &a.Email, &pw, &a.FirstName, &a.LastName, &phone, &sub,
		&role, &ident, &a.ProfileCompleted, &a.Active, &a.CreatedAt, &last,
	); err != nil {
		return domain.Account{}, translate(err)
	}
	a.PasswordHash = ptrStr(pw)
	a.Phone = ptrStr(phone)
	a.GoogleSubject = ptrStr(sub)
	a.Role = domain.Role(role)
	a.IdentityType = domain.IdentityType(ident.String)
	a.LastLoginAt = ptrTime(last)
	return a, nil
}

func (r *Repo) CreateAccount(ctx context.Context, a *domain.Account) error {
	if a.Role == "" {
		a.Role = domain.RoleUser
	}
	id, err := r.insert(ctx, insertAccountSQL,
		a.Email,
		valStr(a.PasswordHash),
		a.FirstName,
		a.LastName,
		valStr(a.Phone),
		valStr(a.GoogleSubject),
		string(a.Role),
		valIdentity(a.IdentityType),
		a.ProfileCompleted,
		a.Active,
	)
	if err != nil {
		return err
	}
	a.ID = id
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	return nil
}

func (r *Repo) GetAccountByID(ctx context.Context, id int64) (domain.Account, error) {
	return scanAccount(r.db.QueryRowContext(ctx, getAccountByIDSQL, id))
}

func (r *Repo) GetAccountByEmail(ctx context.Context, email string) (domain.Account, error) {
	return scanAccount(r.db.QueryRowContext(ctx, getAccountByEmailSQL, email))
}

func (r *Repo) LinkGoogleSubject(ctx context.Context, id int64, subject string) error {
	_, err := r.db.ExecContext(ctx, linkGoogleSubjectSQL, subject, id)
	return translate(err)
}

func (r *Repo) UpdateRole(ctx context.Context, id int64, role domain.Role) error {
	_, err := r.db.ExecContext(ctx, updateRoleSQL, string(role), id)
	return translate(err)
}

func (r *Repo) SetIdentityType(ctx context.Context, id int64, t domain.IdentityType, profileCompleted bool) error {
	_, err := r.db.ExecContext(ctx, setIdentityTypeSQL, valIdentity(t), profileCompleted, id)
	return translate(err)
}

func (r *Repo) TouchLogin(ctx context.Context, id int64, at time.Time) error {
	_, err := r.db.ExecContext(ctx, touchLoginSQL, at.UTC(), id)
	return translate(err)
}
