package app

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"time"

	"golang.org/x/sync/errgroup"

	"stayhub/internal/domain"
)

// DiscoveryService answers the public hotel search and detail reads.
type DiscoveryService struct {
	search    domain.SearchRepository
	profiles  domain.ProfileRepository
	catalog   domain.CatalogRepository
	cache     domain.Cache
	cacheTTL  time.Duration
	searchTTL time.Duration
}

func NewDiscoveryService(s domain.SearchRepository, p domain.ProfileRepository, c domain.CatalogRepository, cache domain.Cache, ttl, searchTTL time.Duration) *DiscoveryService {
	return &DiscoveryService{
		search:    s,
		profiles:  p,
		catalog:   c,
		cache:     cacheOrNop(cache),
		cacheTTL:  ttl,
		searchTTL: searchTTL,
	}
}

// searchKey hashes the normalized query so equal searches share an entry.
func searchKey(q domain.HotelSearch) string {
	b, _ := json.Marshal(q)
	sum := sha1.Sum(b)
	return "search:" + hex.EncodeToString(sum[:])
}

func (s *DiscoveryService) SearchHotels(ctx context.Context, q domain.HotelSearch) (domain.HotelSearchResult, error) {
	q.Sort = domain.ParseHotelSort(string(q.Sort))
	q.Page = domain.NewPageRequest(q.Page.Page, q.Page.Limit)

	key := searchKey(q)
	var out domain.HotelSearchResult
	if ok, _ := s.cache.Get(ctx, key, &out); ok {
		return out, nil
	}

	var (
		hits   []domain.HotelSummary
		total  int
		cities []string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		hits, err = s.search.SearchHotels(gctx, q)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.search.CountHotels(gctx, q)
		return err
	})
	g.Go(func() error {
		var err error
		cities, err = s.search.ListCities(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.HotelSearchResult{}, err
	}

	if hits == nil {
		hits = []domain.HotelSummary{}
	}
	if cities == nil {
		cities = []string{}
	}
	out = domain.HotelSearchResult{
		Data:       hits,
		Pagination: domain.Pagination{Total: total, Page: q.Page.Page, Limit: q.Page.Limit},
		Cities:     cities,
	}
	_ = s.cache.Set(ctx, key, out, int(s.searchTTL.Seconds()))
	return out, nil
}

// HotelDetail returns a hotel with its active room types.
func (s *DiscoveryService) HotelDetail(ctx context.Context, id int64) (domain.HotelDetail, error) {
	key := hotelKey(id)
	var hd domain.HotelDetail
	if ok, _ := s.cache.Get(ctx, key, &hd); ok {
		return hd, nil
	}
	h, err := s.profiles.GetHotelProfile(ctx, id)
	if err != nil {
		return domain.HotelDetail{}, notFound(err, "hotel not found")
	}
	rts, err := s.catalog.ListRoomTypes(ctx, id, true)
	if err != nil {
		return domain.HotelDetail{}, err
	}
	hd = domain.HotelDetail{HotelProfile: h, RoomTypes: rts}
	_ = s.cache.Set(ctx, key, hd, int(s.cacheTTL.Seconds()))
	return hd, nil
}

// AvailableRooms prices the hotel's active room types that fit guests for the
// stay. Corporate callers are quoted the corporate price when one is set.
func (s *DiscoveryService) AvailableRooms(ctx context.Context, c domain.Claims, hotelID int64, checkIn, checkOut domain.Date, guests int) ([]domain.RoomQuote, error) {
	if guests < 1 {
		guests = 1
	}
	if domain.Nights(checkIn, checkOut) < 1 {
		return nil, domain.Errorf(domain.ErrValidation, "checkOut must be after checkIn")
	}
	if _, err := s.profiles.GetHotelProfile(ctx, hotelID); err != nil {
		return nil, notFound(err, "hotel not found")
	}
	rts, err := s.catalog.ListRoomTypes(ctx, hotelID, true)
	if err != nil {
		return nil, err
	}

	corporate := c.IdentityType == domain.IdentityCorporate
	out := []domain.RoomQuote{}
	for _, rt := range rts {
		if rt.Capacity < guests {
			continue
		}
		q, err := domain.QuoteStay(rt, checkIn, checkOut, 1, corporate)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.RoomQuote{
			RoomType:       rt,
			AvailableRooms: rt.Capacity,
			QuotedPrice:    q.UnitPrice,
			Nights:         q.Nights,
			EstimatedTotal: q.TotalPrice,
		})
	}
	return out, nil
}
