package app_test

import (
	"context"
	"errors"
	"testing"

	"stayhub/internal/app"
	"stayhub/internal/domain"
)

func registerPlain(t *testing.T, s *memStore, email string) domain.Claims {
	t.Helper()
	sess, err := newIdentity(s, nil).Register(context.Background(), app.Registration{Email: email, Password: "Passw0rdZ"})
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	return domain.ClaimsFor(sess.Account)
}

func TestUpsertHotelCompletesAccount(t *testing.T) {
	ctx := context.Background()
	s := newStore()
	cache := &fakeCache{}
	svc := app.NewProfileService(s, s, fakeTokens{}, cache)
	c := registerPlain(t, s, "owner@example.com")

	h, sess, err := svc.UpsertHotel(ctx, c, domain.HotelProfile{Name: "  Grand  ", City: "Lisbon"})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if h.ID == 0 || h.Name != "Grand" || h.StarRating != 3 {
		t.Fatalf("unexpected profile: %+v", h)
	}
	if sess.Account.IdentityType != domain.IdentityHotel || !sess.Account.ProfileCompleted {
		t.Fatalf("account not completed: %+v", sess.Account)
	}
	if sess.Token != "tok:1:user:Hotel" {
		t.Fatalf("token: %s", sess.Token)
	}

	again, _, err := svc.UpsertHotel(ctx, c, domain.HotelProfile{Name: "Grand Plaza", StarRating: 5})
	if err != nil {
		t.Fatal(err)
	}
	if again.ID != h.ID || again.Name != "Grand Plaza" {
		t.Fatalf("upsert must update in place: %+v", again)
	}
	if len(cache.dels) != 2 || cache.dels[0] != "hotel:2" {
		t.Fatalf("cache invalidations: %v", cache.dels)
	}
}

func TestUpsertHotelValidation(t *testing.T) {
	s := newStore()
	svc := app.NewProfileService(s, s, fakeTokens{}, nil)
	c := registerPlain(t, s, "v@example.com")

	if _, _, err := svc.UpsertHotel(context.Background(), c, domain.HotelProfile{Name: "X", StarRating: 6}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("want validation error, got %v", err)
	}
	if _, _, err := svc.UpsertHotel(context.Background(), c, domain.HotelProfile{Name: " "}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("want validation error, got %v", err)
	}
}

func TestUpsertProfileOfOtherIdentityIsForbidden(t *testing.T) {
	ctx := context.Background()
	s := newStore()
	svc := app.NewProfileService(s, s, fakeTokens{}, nil)
	hotel, _ := seedHotel(s, "Grand", "Lisbon", 4)
	corp, _ := seedCorporate(s, "Acme")

	if _, _, err := svc.UpsertCorporate(ctx, hotel, domain.CorporateProfile{CompanyName: "Acme"}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("want forbidden, got %v", err)
	}
	if _, _, err := svc.UpsertHotel(ctx, corp, domain.HotelProfile{Name: "Inn"}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("want forbidden, got %v", err)
	}
}

func TestUpsertCorporate(t *testing.T) {
	ctx := context.Background()
	s := newStore()
	svc := app.NewProfileService(s, s, fakeTokens{}, nil)
	c := registerPlain(t, s, "buyer@example.com")

	if _, _, err := svc.UpsertCorporate(ctx, c, domain.CorporateProfile{}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("want validation error, got %v", err)
	}
	p, sess, err := svc.UpsertCorporate(ctx, c, domain.CorporateProfile{CompanyName: "Acme", Industry: "Logistics"})
	if err != nil {
		t.Fatal(err)
	}
	if p.AccountID != c.AccountID || sess.Account.IdentityType != domain.IdentityCorporate {
		t.Fatalf("unexpected result: %+v %+v", p, sess.Account)
	}
	mine, err := svc.MyCorporate(ctx, c)
	if err != nil || mine.ID != p.ID {
		t.Fatalf("MyCorporate: %+v %v", mine, err)
	}
	if _, err := svc.MyHotel(ctx, c); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want not found, got %v", err)
	}
}
