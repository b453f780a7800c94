package app_test

import (
	"context"
	"errors"
	"testing"

	"stayhub/internal/app"
	"stayhub/internal/domain"
)

func TestPromoteAdmin(t *testing.T) {
	ctx := context.Background()
	s := newStore()
	svc := app.NewAdminService(s, s)
	registerPlain(t, s, "ops@example.com")

	a, err := svc.PromoteAdmin(ctx, " OPS@example.com")
	if err != nil {
		t.Fatal(err)
	}
	if a.Role != domain.RoleAdmin {
		t.Fatalf("role: %s", a.Role)
	}
	stored, _ := s.GetAccountByEmail(ctx, "ops@example.com")
	if stored.Role != domain.RoleAdmin {
		t.Fatalf("role not persisted")
	}
	// idempotent
	if _, err := svc.PromoteAdmin(ctx, "ops@example.com"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.PromoteAdmin(ctx, "ghost@example.com"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want not found, got %v", err)
	}
}

func TestStats(t *testing.T) {
	f := newBookingFixture(t)
	f.book(t)
	st, err := app.NewAdminService(f.s, f.s).Stats(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if st.Hotels != 1 || st.Corporates != 1 || st.BookingsByStatus[domain.BookingPending] != 1 {
		t.Fatalf("unexpected stats: %+v", st)
	}
}
