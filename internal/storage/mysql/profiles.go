package mysql

import (
	"context"

	"stayhub/internal/domain"
)

func scanHotelProfile(s scanner) (domain.HotelProfile, error) {
	var p domain.HotelProfile
	if err := s.Scan(
		&p.ID, &p.AccountID, &p.Name, &p.Description, &p.Address, &p.City, &p.State, &p.Country,
		&p.PostalCode, &p.ContactPhone, &p.ContactEmail, &p.Website, &p.StarRating,
		&p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return domain.HotelProfile{}, translate(err)
	}
	return p, nil
}

func scanCorporateProfile(s scanner) (domain.CorporateProfile, error) {
	var p domain.CorporateProfile
	if err := s.Scan(
		&p.ID, &p.AccountID, &p.CompanyName, &p.Industry, &p.CompanySize, &p.Address, &p.City,
		&p.Country, &p.ContactPhone, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return domain.CorporateProfile{}, translate(err)
	}
	return p, nil
}

// UpsertHotelProfile creates or replaces the profile owned by p.AccountID and sets p.ID.
func (r *Repo) UpsertHotelProfile(ctx context.Context, p *domain.HotelProfile) error {
	id, err := r.insert(ctx, upsertHotelProfileSQL,
		p.AccountID, p.Name, p.Description, p.Address, p.City, p.State, p.Country,
		p.PostalCode, p.ContactPhone, p.ContactEmail, p.Website, p.StarRating,
	)
	if err != nil {
		return err
	}
	p.ID = id
	return nil
}

func (r *Repo) GetHotelProfile(ctx context.Context, id int64) (domain.HotelProfile, error) {
	return scanHotelProfile(r.db.QueryRowContext(ctx, getHotelProfileSQL, id))
}

func (r *Repo) GetHotelProfileByAccount(ctx context.Context, accountID int64) (domain.HotelProfile, error) {
	return scanHotelProfile(r.db.QueryRowContext(ctx, getHotelProfileByAccountSQL, accountID))
}

func (r *Repo) UpsertCorporateProfile(ctx context.Context, p *domain.CorporateProfile) error {
	id, err := r.insert(ctx, upsertCorporateProfileSQL,
		p.AccountID, p.CompanyName, p.Industry, p.CompanySize, p.Address, p.City, p.Country,
		p.ContactPhone,
	)
	if err != nil {
		return err
	}
	p.ID = id
	return nil
}

func (r *Repo) GetCorporateProfile(ctx context.Context, id int64) (domain.CorporateProfile, error) {
	return scanCorporateProfile(r.db.QueryRowContext(ctx, getCorporateProfileSQL, id))
}

func (r *Repo) GetCorporateProfileByAccount(ctx context.Context, accountID int64) (domain.CorporateProfile, error) {
	return scanCorporateProfile(r.db.QueryRowContext(ctx, getCorporateProfileByAccountSQL, accountID))
}
