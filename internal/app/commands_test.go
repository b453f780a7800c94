package app_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"stayhub/internal/app"
	"stayhub/internal/domain"
)

func TestCreateRoomTypeRequiresHotelProfile(t *testing.T) {
	s := newStore()
	svc := app.NewCatalogService(s, s, nil)
	c := registerPlain(t, s, "nohotel@example.com")

	_, err := svc.CreateRoomType(context.Background(), c, domain.RoomType{Name: "Double", Capacity: 2, BasePrice: 10000})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("want forbidden, got %v", err)
	}
}

func TestCreateRoomTypeScopesToCallerHotel(t *testing.T) {
	ctx := context.Background()
	s := newStore()
	cache := &fakeCache{}
	svc := app.NewCatalogService(s, s, cache)
	c, h := seedHotel(s, "Grand", "Lisbon", 4)

	rt, err := svc.CreateRoomType(ctx, c, domain.RoomType{ID: 99, HotelID: 12345, Name: " Double ", Capacity: 2, BasePrice: 10000, Active: true})
	if err != nil {
		t.Fatal(err)
	}
	if rt.HotelID != h.ID || rt.ID == 99 || rt.Name != "Double" {
		t.Fatalf("unexpected room type: %+v", rt)
	}
	if rt.Amenities == nil {
		t.Fatalf("amenities must default to an empty list")
	}
	if len(cache.dels) != 1 {
		t.Fatalf("hotel cache must be invalidated, dels=%v", cache.dels)
	}

	if _, err := svc.CreateRoomType(ctx, c, domain.RoomType{Name: "Zero", Capacity: 0}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("want validation error, got %v", err)
	}
}

func TestRoomTypeOfOtherHotelIsNotFound(t *testing.T) {
	ctx := context.Background()
	s := newStore()
	svc := app.NewCatalogService(s, s, nil)
	_, mine := seedHotel(s, "Grand", "Lisbon", 4)
	other, _ := seedHotel(s, "Rival", "Porto", 3)
	rt := seedRoom(s, mine.ID, "Suite", 2, 20000, nil)

	if _, err := svc.GetRoomType(ctx, other, rt.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("get: want not found, got %v", err)
	}
	if _, err := svc.UpdateRoomType(ctx, other, rt.ID, map[string]any{"name": "Stolen"}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("update: want not found, got %v", err)
	}
	if err := svc.DeleteRoomType(ctx, other, rt.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("delete: want not found, got %v", err)
	}
	if got, _ := s.GetRoomType(ctx, rt.ID); got.Name != "Suite" {
		t.Fatalf("room type changed: %+v", got)
	}
}

func TestUpdateRoomTypePatch(t *testing.T) {
	ctx := context.Background()
	s := newStore()
	cache := &fakeCache{}
	svc := app.NewCatalogService(s, s, cache)
	c, h := seedHotel(s, "Grand", "Lisbon", 4)
	rt := seedRoom(s, h.ID, "Double", 2, 10000, ptr[int64](8000))

	var patch map[string]any
	dec := json.NewDecoder(strings.NewReader(`{"basePrice":"150.5","capacity":3,"corporatePrice":null,"amenities":["wifi","wifi"," tv "]}`))
	dec.UseNumber()
	if err := dec.Decode(&patch); err != nil {
		t.Fatal(err)
	}

	got, err := svc.UpdateRoomType(ctx, c, rt.ID, patch)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.BasePrice != 15050 || got.Capacity != 3 {
		t.Fatalf("numbers not applied: %+v", got)
	}
	if got.CorporatePrice != nil {
		t.Fatalf("null corporatePrice must clear it, got %v", *got.CorporatePrice)
	}
	if len(got.Amenities) != 2 || got.Amenities[1] != "tv" {
		t.Fatalf("amenities: %v", got.Amenities)
	}
	if got.Name != "Double" {
		t.Fatalf("absent keys must be kept: %+v", got)
	}
	if len(cache.dels) != 1 {
		t.Fatalf("hotel cache must be invalidated")
	}
}

func TestUpdateRoomTypeRejectsBadValues(t *testing.T) {
	ctx := context.Background()
	s := newStore()
	svc := app.NewCatalogService(s, s, nil)
	c, h := seedHotel(s, "Grand", "Lisbon", 4)
	rt := seedRoom(s, h.ID, "Double", 2, 10000, nil)

	for name, patch := range map[string]map[string]any{
		"non numeric price": {"basePrice": "cheap"},
		"fractional":        {"capacity": 2.5},
		"negative":          {"corporatePrice": -1.0},
		"zero capacity":     {"capacity": 0.0},
		"name type":         {"name": 12.0},
		"active type":       {"isActive": "maybe"},
		"null capacity":     {"capacity": nil},
		"null base price":   {"basePrice": nil},
		"null name":         {"name": nil},
		"price too large":   {"basePrice": 1e20},
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := svc.UpdateRoomType(ctx, c, rt.ID, patch); !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("want validation error, got %v", err)
			}
		})
	}

	got, err := svc.GetRoomType(ctx, c, rt.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Capacity != 2 || got.BasePrice != 10000 {
		t.Fatalf("rejected patches changed the room type: %+v", got)
	}

	_, err = svc.UpdateRoomType(ctx, c, rt.ID, map[string]any{"basePrice": 1e20})
	if err == nil || strings.Contains(err.Error(), "negative") {
		t.Fatalf("oversized price reported as %v", err)
	}
}

func TestUpdatePostRejectsNulls(t *testing.T) {
	ctx := context.Background()
	s := newStore()
	svc := app.NewCatalogService(s, s, nil)
	c, _ := seedHotel(s, "Grand", "Lisbon", 4)
	p, err := svc.CreatePost(ctx, c, domain.MarketingPost{Title: "Spring deal", PriceFrom: 9000, Active: true})
	if err != nil {
		t.Fatal(err)
	}

	for _, key := range []string{"title", "priceFrom", "isActive"} {
		if _, err := svc.UpdatePost(ctx, c, p.ID, map[string]any{key: nil}); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("%s: null must be rejected, got %v", key, err)
		}
	}
	// nullable columns still clear
	if _, err := svc.UpdatePost(ctx, c, p.ID, map[string]any{"priceTo": nil, "validTo": nil}); err != nil {
		t.Fatalf("clearing nullable fields: %v", err)
	}
}

func TestPostsLifecycle(t *testing.T) {
	ctx := context.Background()
	s := newStore()
	svc := app.NewCatalogService(s, s, nil)
	c, h := seedHotel(s, "Grand", "Lisbon", 4)
	corp, _ := seedCorporate(s, "Acme")

	p, err := svc.CreatePost(ctx, c, domain.MarketingPost{Title: "Spring deal", PriceFrom: 9000, Active: true})
	if err != nil {
		t.Fatal(err)
	}
	if p.HotelID != h.ID || p.HotelName != "Grand" {
		t.Fatalf("unexpected post: %+v", p)
	}
	hidden, err := svc.CreatePost(ctx, c, domain.MarketingPost{Title: "Draft", PriceFrom: 100})
	if err != nil {
		t.Fatal(err)
	}

	public, err := svc.BrowsePosts(ctx, domain.NewPageRequest(1, 12))
	if err != nil {
		t.Fatal(err)
	}
	if public.Pagination.Total != 1 || public.Data[0].ID != p.ID {
		t.Fatalf("browse must list active posts only: %+v", public)
	}
	mine, _ := svc.MyPosts(ctx, c, domain.NewPageRequest(1, 12))
	if mine.Pagination.Total != 2 {
		t.Fatalf("owner sees every post: %+v", mine.Pagination)
	}

	if _, err := svc.GetPost(ctx, corp, hidden.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("inactive post must be hidden, got %v", err)
	}
	if _, err := svc.GetPost(ctx, c, hidden.ID); err != nil {
		t.Fatalf("owner must see inactive post: %v", err)
	}

	upd, err := svc.UpdatePost(ctx, c, p.ID, map[string]any{"priceTo": 120.0, "validFrom": "2025-03-01", "validTo": "2025-05-31"})
	if err != nil {
		t.Fatal(err)
	}
	if upd.PriceTo == nil || *upd.PriceTo != 12000 || upd.ValidTo.String() != "2025-05-31" {
		t.Fatalf("patch not applied: %+v", upd)
	}
	if _, err := svc.UpdatePost(ctx, c, p.ID, map[string]any{"validTo": "2025-01-01"}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("validTo before validFrom must fail, got %v", err)
	}
	if _, err := svc.UpdatePost(ctx, c, p.ID, map[string]any{"priceTo": 1.0}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("priceTo below priceFrom must fail, got %v", err)
	}

	if err := svc.DeletePost(ctx, c, p.ID); err != nil {
		t.Fatal(err)
	}
	if err := svc.DeletePost(ctx, c, p.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("second delete: want not found, got %v", err)
	}
}
