package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"stayhub/internal/domain"
)

// nopCache stands in when no cache is configured.
type nopCache struct{}

func (nopCache) Get(context.Context, string, any) (bool, error) { return false, nil }
func (nopCache) Set(context.Context, string, any, int) error    { return nil }
func (nopCache) Del(context.Context, string) error              { return nil }

func cacheOrNop(c domain.Cache) domain.Cache {
	if c == nil {
		return nopCache{}
	}
	return c
}

func hotelKey(id int64) string { return fmt.Sprintf("hotel:%d", id) }

// invalidateHotel evicts the cached hotel detail; failures only cost freshness.
func invalidateHotel(ctx context.Context, c domain.Cache, id int64) {
	if err := c.Del(ctx, hotelKey(id)); err != nil {
		log.Warn().Err(err).Int64("hotel_id", id).Msg("hotel cache invalidation failed")
	}
}

// CatalogService manages the room types and marketing posts of the caller's hotel.
type CatalogService struct {
	profiles domain.ProfileRepository
	catalog  domain.CatalogRepository
	cache    domain.Cache
}

func NewCatalogService(p domain.ProfileRepository, c domain.CatalogRepository, cache domain.Cache) *CatalogService {
	return &CatalogService{profiles: p, catalog: c, cache: cacheOrNop(cache)}
}

/********** room types **********/

func (s *CatalogService) CreateRoomType(ctx context.Context, c domain.Claims, rt domain.RoomType) (domain.RoomType, error) {
	h, err := hotelOf(ctx, s.profiles, c)
	if err != nil {
		return domain.RoomType{}, err
	}
	rt.ID = 0
	rt.HotelID = h.ID
	rt.Name = strings.TrimSpace(rt.Name)
	if rt.Amenities == nil {
		rt.Amenities = []string{}
	}
	if err := rt.Validate(); err != nil {
		return domain.RoomType{}, err
	}
	if err := s.catalog.CreateRoomType(ctx, &rt); err != nil {
		return domain.RoomType{}, err
	}
	invalidateHotel(ctx, s.cache, h.ID)
	log.Info().Int64("hotel_id", h.ID).Int64("room_type_id", rt.ID).Msg("room type created")
	return rt, nil
}

func (s *CatalogService) ListRoomTypes(ctx context.Context, c domain.Claims) ([]domain.RoomType, error) {
	h, err := hotelOf(ctx, s.profiles, c)
	if err != nil {
		return nil, err
	}
	return s.catalog.ListRoomTypes(ctx, h.ID, false)
}

func (s *CatalogService) GetRoomType(ctx context.Context, c domain.Claims, id int64) (domain.RoomType, error) {
	h, err := hotelOf(ctx, s.profiles, c)
	if err != nil {
		return domain.RoomType{}, err
	}
	return s.ownedRoomType(ctx, h.ID, id)
}

// UpdateRoomType applies the keys present in patch to a room type of the caller's hotel.
func (s *CatalogService) UpdateRoomType(ctx context.Context, c domain.Claims, id int64, patch map[string]any) (domain.RoomType, error) {
	h, err := hotelOf(ctx, s.profiles, c)
	if err != nil {
		return domain.RoomType{}, err
	}
	rt, err := s.ownedRoomType(ctx, h.ID, id)
	if err != nil {
		return domain.RoomType{}, err
	}
	p, err := mapRoomTypePatch(patch)
	if err != nil {
		return domain.RoomType{}, err
	}
	p.Apply(&rt)
	if err := rt.Validate(); err != nil {
		return domain.RoomType{}, err
	}
	if err := s.catalog.UpdateRoomType(ctx, rt); err != nil {
		return domain.RoomType{}, err
	}
	invalidateHotel(ctx, s.cache, h.ID)
	return s.catalog.GetRoomType(ctx, rt.ID)
}

func (s *CatalogService) DeleteRoomType(ctx context.Context, c domain.Claims, id int64) error {
	h, err := hotelOf(ctx, s.profiles, c)
	if err != nil {
		return err
	}
	if err := s.catalog.DeleteRoomType(ctx, h.ID, id); err != nil {
		return notFound(err, "room type not found")
	}
	invalidateHotel(ctx, s.cache, h.ID)
	log.Info().Int64("hotel_id", h.ID).Int64("room_type_id", id).Msg("room type deleted")
	return nil
}

func (s *CatalogService) ownedRoomType(ctx context.Context, hotelID, id int64) (domain.RoomType, error) {
	rt, err := s.catalog.GetRoomType(ctx, id)
	if err != nil {
		return domain.RoomType{}, notFound(err, "room type not found")
	}
	if rt.HotelID != hotelID {
		return domain.RoomType{}, domain.Errorf(domain.ErrNotFound, "room type not found")
	}
	return rt, nil
}

/********** marketing posts **********/

func (s *CatalogService) CreatePost(ctx context.Context, c domain.Claims, p domain.MarketingPost) (domain.MarketingPost, error) {
	h, err := hotelOf(ctx, s.profiles, c)
	if err != nil {
		return domain.MarketingPost{}, err
	}
	p.ID = 0
	p.HotelID = h.ID
	p.HotelName = h.Name
	p.Title = strings.TrimSpace(p.Title)
	if err := p.Validate(); err != nil {
		return domain.MarketingPost{}, err
	}
	if err := s.catalog.CreatePost(ctx, &p); err != nil {
		return domain.MarketingPost{}, err
	}
	log.Info().Int64("hotel_id", h.ID).Int64("post_id", p.ID).Msg("marketing post created")
	return p, nil
}

func (s *CatalogService) MyPosts(ctx context.Context, c domain.Claims, page domain.PageRequest) (domain.Page[domain.MarketingPost], error) {
	h, err := hotelOf(ctx, s.profiles, c)
	if err != nil {
		return domain.Page[domain.MarketingPost]{}, err
	}
	posts, total, err := s.catalog.ListPosts(ctx, domain.PostFilter{HotelID: &h.ID, Page: page})
	if err != nil {
		return domain.Page[domain.MarketingPost]{}, err
	}
	return domain.NewPage(posts, total, page), nil
}

// BrowsePosts lists the active posts of every hotel.
func (s *CatalogService) BrowsePosts(ctx context.Context, page domain.PageRequest) (domain.Page[domain.MarketingPost], error) {
	posts, total, err := s.catalog.ListPosts(ctx, domain.PostFilter{ActiveOnly: true, Page: page})
	if err != nil {
		return domain.Page[domain.MarketingPost]{}, err
	}
	return domain.NewPage(posts, total, page), nil
}

// GetPost returns an active post; the owning hotel also sees its inactive posts.
func (s *CatalogService) GetPost(ctx context.Context, c domain.Claims, id int64) (domain.MarketingPost, error) {
	p, err := s.catalog.GetPost(ctx, id)
	if err != nil {
		return domain.MarketingPost{}, notFound(err, "post not found")
	}
	if p.Active {
		return p, nil
	}
	if h, err := s.profiles.GetHotelProfileByAccount(ctx, c.AccountID); err == nil && h.ID == p.HotelID {
		return p, nil
	}
	return domain.MarketingPost{}, domain.Errorf(domain.ErrNotFound, "post not found")
}

func (s *CatalogService) UpdatePost(ctx context.Context, c domain.Claims, id int64, patch map[string]any) (domain.MarketingPost, error) {
	h, err := hotelOf(ctx, s.profiles, c)
	if err != nil {
		return domain.MarketingPost{}, err
	}
	p, err := s.catalog.GetPost(ctx, id)
	if err != nil {
		return domain.MarketingPost{}, notFound(err, "post not found")
	}
	if p.HotelID != h.ID {
		return domain.MarketingPost{}, domain.Errorf(domain.ErrNotFound, "post not found")
	}
	pp, err := mapPostPatch(patch)
	if err != nil {
		return domain.MarketingPost{}, err
	}
	pp.Apply(&p)
	if err := p.Validate(); err != nil {
		return domain.MarketingPost{}, err
	}
	if err := s.catalog.UpdatePost(ctx, p); err != nil {
		return domain.MarketingPost{}, err
	}
	return s.catalog.GetPost(ctx, id)
}

func (s *CatalogService) DeletePost(ctx context.Context, c domain.Claims, id int64) error {
	h, err := hotelOf(ctx, s.profiles, c)
	if err != nil {
		return err
	}
	if err := s.catalog.DeletePost(ctx, h.ID, id); err != nil {
		return notFound(err, "post not found")
	}
	log.Info().Int64("hotel_id", h.ID).Int64("post_id", id).Msg("marketing post deleted")
	return nil
}

// notFound gives a bare ErrNotFound a caller-facing message; other errors pass through.
func notFound(err error, msg string) error {
	if err == domain.ErrNotFound {
		return domain.Errorf(domain.ErrNotFound, "%s", msg)
	}
	return err
}
