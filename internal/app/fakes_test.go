package app_test

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"stayhub/internal/domain"
)

func ptr[T any](v T) *T { return &v }

// ---- in-memory store implementing every repository port ----

type memStore struct {
	mu        sync.Mutex
	nextID    int64
	accounts  map[int64]domain.Account
	hotels    map[int64]domain.HotelProfile
	corps     map[int64]domain.CorporateProfile
	roomTypes map[int64]domain.RoomType
	posts     map[int64]domain.MarketingPost
	bookings  map[int64]domain.Booking
	messages  []domain.ChatMessage

	// beforeCreateAccount runs ahead of the uniqueness check; tests use it to
	// simulate a concurrent insert.
	beforeCreateAccount func(s *memStore, a *domain.Account)
	// duplicateBookings makes the next n CreateBooking calls collide.
	duplicateBookings int
	bookingAttempts   int
}

func newStore() *memStore {
	return &memStore{
		accounts:  map[int64]domain.Account{},
		hotels:    map[int64]domain.HotelProfile{},
		corps:     map[int64]domain.CorporateProfile{},
		roomTypes: map[int64]domain.RoomType{},
		posts:     map[int64]domain.MarketingPost{},
		bookings:  map[int64]domain.Booking{},
	}
}

func (s *memStore) id() int64 { s.nextID++; return s.nextID }

// accounts

func (s *memStore) CreateAccount(ctx context.Context, a *domain.Account) error {
	if s.beforeCreateAccount != nil {
		hook := s.beforeCreateAccount
		s.beforeCreateAccount = nil
		hook(s, a)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, x := range s.accounts {
		if x.Email == a.Email {
			return fmt.Errorf("%w: email", domain.ErrDuplicate)
		}
	}
	a.ID = s.id()
	a.CreatedAt = time.Now().UTC()
	s.accounts[a.ID] = *a
	return nil
}

func (s *memStore) GetAccountByID(ctx context.Context, id int64) (domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok {
		return domain.Account{}, domain.ErrNotFound
	}
	return a, nil
}

func (s *memStore) GetAccountByEmail(ctx context.Context, email string) (domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if a.Email == email {
			return a, nil
		}
	}
	return domain.Account{}, domain.ErrNotFound
}

func (s *memStore) updateAccount(id int64, f func(*domain.Account)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok {
		return domain.ErrNotFound
	}
	f(&a)
	s.accounts[id] = a
	return nil
}

func (s *memStore) LinkGoogleSubject(ctx context.Context, id int64, subject string) error {
	return s.updateAccount(id, func(a *domain.Account) { a.GoogleSubject = &subject })
}

func (s *memStore) UpdateRole(ctx context.Context, id int64, role domain.Role) error {
	return s.updateAccount(id, func(a *domain.Account) { a.Role = role })
}

func (s *memStore) SetIdentityType(ctx context.Context, id int64, t domain.IdentityType, completed bool) error {
	return s.updateAccount(id, func(a *domain.Account) { a.IdentityType, a.ProfileCompleted = t, completed })
}

func (s *memStore) TouchLogin(ctx context.Context, id int64, at time.Time) error {
	return s.updateAccount(id, func(a *domain.Account) { a.LastLoginAt = &at })
}

// profiles

func (s *memStore) UpsertHotelProfile(ctx context.Context, p *domain.HotelProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, x := range s.hotels {
		if x.AccountID == p.AccountID {
			p.ID = id
		}
	}
	if p.ID == 0 {
		p.ID = s.id()
	}
	s.hotels[p.ID] = *p
	return nil
}

func (s *memStore) GetHotelProfile(ctx context.Context, id int64) (domain.HotelProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.hotels[id]
	if !ok {
		return domain.HotelProfile{}, domain.ErrNotFound
	}
	return h, nil
}

func (s *memStore) GetHotelProfileByAccount(ctx context.Context, accountID int64) (domain.HotelProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, h := range s.hotels {
		if h.AccountID == accountID {
			return h, nil
		}
	}
	return domain.HotelProfile{}, domain.ErrNotFound
}

func (s *memStore) UpsertCorporateProfile(ctx context.Context, p *domain.CorporateProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, x := range s.corps {
		if x.AccountID == p.AccountID {
			p.ID = id
		}
	}
	if p.ID == 0 {
		p.ID = s.id()
	}
	s.corps[p.ID] = *p
	return nil
}

func (s *memStore) GetCorporateProfile(ctx context.Context, id int64) (domain.CorporateProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.corps[id]
	if !ok {
		return domain.CorporateProfile{}, domain.ErrNotFound
	}
	return c, nil
}

func (s *memStore) GetCorporateProfileByAccount(ctx context.Context, accountID int64) (domain.CorporateProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.corps {
		if c.AccountID == accountID {
			return c, nil
		}
	}
	return domain.CorporateProfile{}, domain.ErrNotFound
}

// catalog

func (s *memStore) CreateRoomType(ctx context.Context, rt *domain.RoomType) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rt.ID = s.id()
	s.roomTypes[rt.ID] = *rt
	return nil
}

func (s *memStore) GetRoomType(ctx context.Context, id int64) (domain.RoomType, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rt, ok := s.roomTypes[id]
	if !ok {
		return domain.RoomType{}, domain.ErrNotFound
	}
	return rt, nil
}

func (s *memStore) ListRoomTypes(ctx context.Context, hotelID int64, activeOnly bool) ([]domain.RoomType, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.RoomType{}
	for _, rt := range s.roomTypes {
		if rt.HotelID == hotelID && (rt.Active || !activeOnly) {
			out = append(out, rt)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memStore) UpdateRoomType(ctx context.Context, rt domain.RoomType) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.roomTypes[rt.ID]
	if !ok || cur.HotelID != rt.HotelID {
		return domain.ErrNotFound
	}
	s.roomTypes[rt.ID] = rt
	return nil
}

func (s *memStore) DeleteRoomType(ctx context.Context, hotelID, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.roomTypes[id]
	if !ok || cur.HotelID != hotelID {
		return domain.ErrNotFound
	}
	delete(s.roomTypes, id)
	return nil
}

func (s *memStore) CreatePost(ctx context.Context, p *domain.MarketingPost) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = s.id()
	s.posts[p.ID] = *p
	return nil
}

func (s *memStore) GetPost(ctx context.Context, id int64) (domain.MarketingPost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[id]
	if !ok {
		return domain.MarketingPost{}, domain.ErrNotFound
	}
	return p, nil
}

func (s *memStore) ListPosts(ctx context.Context, f domain.PostFilter) ([]domain.MarketingPost, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var all []domain.MarketingPost
	for _, p := range s.posts {
		if (f.HotelID == nil || p.HotelID == *f.HotelID) && (!f.ActiveOnly || p.Active) {
			all = append(all, p)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	return paginate(all, f.Page), len(all), nil
}

func (s *memStore) UpdatePost(ctx context.Context, p domain.MarketingPost) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.posts[p.ID]
	if !ok || cur.HotelID != p.HotelID {
		return domain.ErrNotFound
	}
	s.posts[p.ID] = p
	return nil
}

func (s *memStore) DeletePost(ctx context.Context, hotelID, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.posts[id]
	if !ok || cur.HotelID != hotelID {
		return domain.ErrNotFound
	}
	delete(s.posts, id)
	return nil
}

func paginate[T any](all []T, p domain.PageRequest) []T {
	start := p.Offset()
	if start >= len(all) {
		return []T{}
	}
	end := start + p.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end]
}

// search: a simplified rendition of the grouped query, enough for service tests

func (s *memStore) summaries(q domain.HotelSearch) []domain.HotelSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.HotelSummary
	for _, h := range s.hotels {
		if q.City != "" && !strings.Contains(strings.ToLower(h.City), strings.ToLower(q.City)) {
			continue
		}
		if q.MinStars != nil && h.StarRating < *q.MinStars {
			continue
		}
		sum := domain.HotelSummary{ID: h.ID, Name: h.Name, City: h.City, StarRating: h.StarRating}
		for _, rt := range s.roomTypes {
			if rt.HotelID != h.ID || !rt.Active {
				continue
			}
			if sum.RoomTypeCount == 0 || rt.BasePrice < sum.MinPrice {
				sum.MinPrice = rt.BasePrice
			}
			if rt.Capacity > sum.MaxCapacity {
				sum.MaxCapacity = rt.Capacity
			}
			sum.RoomTypeCount++
		}
		if sum.RoomTypeCount == 0 || (q.Guests != nil && sum.MaxCapacity < *q.Guests) {
			continue
		}
		out = append(out, sum)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *memStore) SearchHotels(ctx context.Context, q domain.HotelSearch) ([]domain.HotelSummary, error) {
	return paginate(s.summaries(q), q.Page), nil
}

func (s *memStore) CountHotels(ctx context.Context, q domain.HotelSearch) (int, error) {
	return len(s.summaries(q)), nil
}

func (s *memStore) ListCities(ctx context.Context) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, h := range s.summaries(domain.HotelSearch{}) {
		if h.City != "" && !seen[h.City] {
			seen[h.City] = true
			out = append(out, h.City)
		}
	}
	sort.Strings(out)
	return out, nil
}

// bookings

func (s *memStore) CreateBooking(ctx context.Context, b *domain.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bookingAttempts++
	if s.duplicateBookings > 0 {
		s.duplicateBookings--
		return fmt.Errorf("%w: booking_number", domain.ErrDuplicate)
	}
	for _, x := range s.bookings {
		if x.BookingNumber == b.BookingNumber {
			return fmt.Errorf("%w: booking_number", domain.ErrDuplicate)
		}
	}
	b.ID = s.id()
	s.bookings[b.ID] = *b
	return nil
}

func (s *memStore) GetBooking(ctx context.Context, id int64) (domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return domain.Booking{}, domain.ErrNotFound
	}
	return b, nil
}

func (s *memStore) ListBookings(ctx context.Context, f domain.BookingFilter) ([]domain.Booking, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var all []domain.Booking
	for _, b := range s.bookings {
		if f.AccountID != nil && b.AccountID != *f.AccountID {
			continue
		}
		if f.HotelID != nil && b.HotelID != *f.HotelID {
			continue
		}
		if f.Status != nil && b.Status != *f.Status {
			continue
		}
		all = append(all, b)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	return paginate(all, f.Page), len(all), nil
}

// TransitionBooking mirrors the conditional UPDATE: one atomic check-and-set.
func (s *memStore) TransitionBooking(ctx context.Context, t domain.BookingTransition) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[t.BookingID]
	if !ok {
		return false, nil
	}
	if t.HotelID != nil && b.HotelID != *t.HotelID {
		return false, nil
	}
	if t.AccountID != nil && b.AccountID != *t.AccountID {
		return false, nil
	}
	match := false
	for _, f := range t.From {
		if b.Status == f {
			match = true
		}
	}
	if !match {
		return false, nil
	}
	b.Status = t.To
	at := t.At
	switch t.To {
	case domain.BookingConfirmed:
		b.ApprovedAt = &at
	case domain.BookingRejected:
		b.RejectionReason = t.RejectionReason
	case domain.BookingCancelled:
		b.CancelledAt = &at
	}
	s.bookings[b.ID] = b
	return true, nil
}

// chat

func (s *memStore) CreateMessage(ctx context.Context, m *domain.ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m.ID = s.id()
	m.CreatedAt = time.Now().UTC()
	s.messages = append(s.messages, *m)
	return nil
}

func inConversation(m domain.ChatMessage, k domain.ConversationKey) bool {
	if m.CorporateID != k.CorporateID || m.HotelID != k.HotelID {
		return false
	}
	return k.PostID == nil || (m.PostID != nil && *m.PostID == *k.PostID)
}

func (s *memStore) History(ctx context.Context, k domain.ConversationKey) ([]domain.ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.ChatMessage{}
	for _, m := range s.messages {
		if inConversation(m, k) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *memStore) MarkRead(ctx context.Context, k domain.ConversationKey, reader domain.IdentityType) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, m := range s.messages {
		if inConversation(m, k) && m.SenderType != reader {
			s.messages[i].IsRead = true
		}
	}
	return nil
}

func (s *memStore) Inbox(ctx context.Context, viewer domain.IdentityType, profileID int64) ([]domain.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	byPartner := map[int64]*domain.Conversation{}
	var order []int64
	for _, m := range s.messages {
		partner := m.HotelID
		if viewer == domain.IdentityHotel {
			if m.HotelID != profileID {
				continue
			}
			partner = m.CorporateID
		} else if m.CorporateID != profileID {
			continue
		}
		c, ok := byPartner[partner]
		if !ok {
			c = &domain.Conversation{PartnerID: partner}
			byPartner[partner] = c
			order = append(order, partner)
		}
		c.LastMessage, c.LastMessageAt = m.Body, m.CreatedAt
		if m.SenderType != viewer && !m.IsRead {
			c.UnreadCount++
		}
	}
	out := []domain.Conversation{}
	for i := len(order) - 1; i >= 0; i-- {
		out = append(out, *byPartner[order[i]])
	}
	return out, nil
}

func (s *memStore) PostMessages(ctx context.Context, postID int64, corporateID *int64) ([]domain.ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.ChatMessage{}
	for _, m := range s.messages {
		if m.PostID == nil || *m.PostID != postID {
			continue
		}
		if corporateID != nil && m.CorporateID != *corporateID {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

// stats

func (s *memStore) Stats(ctx context.Context) (domain.Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := domain.Stats{
		Accounts:         int64(len(s.accounts)),
		Hotels:           int64(len(s.hotels)),
		Corporates:       int64(len(s.corps)),
		BookingsByStatus: map[domain.BookingStatus]int64{},
	}
	for _, b := range s.bookings {
		st.BookingsByStatus[b.Status]++
	}
	return st, nil
}

// ---- cache ----

type fakeCache struct {
	mu    sync.Mutex
	store map[string][]byte
	dels  []string
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(v, dst)
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store == nil {
		c.store = map[string][]byte{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.store[key] = b
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, key)
	c.dels = append(c.dels, key)
	return nil
}

// ---- credentials ----

type fakeHasher struct{}

func (fakeHasher) Hash(pw string) (string, error) { return "hashed:" + pw, nil }
func (fakeHasher) Compare(hash, pw string) error {
	if hash != "hashed:"+pw {
		return domain.ErrUnauthorized
	}
	return nil
}

type fakeTokens struct{}

func (fakeTokens) Issue(c domain.Claims) (string, error) {
	return fmt.Sprintf("tok:%d:%s:%s", c.AccountID, c.Role, c.IdentityType), nil
}
func (fakeTokens) Verify(string) (domain.Claims, error) { return domain.Claims{}, domain.ErrUnauthorized }

type fakeGoogle struct {
	id  domain.ExternalIdentity
	err error
}

func (g *fakeGoogle) AuthURL(state string) string { return "https://accounts.example/auth?state=" + state }
func (g *fakeGoogle) Exchange(ctx context.Context, code string) (domain.ExternalIdentity, error) {
	return g.id, g.err
}

// ---- fixtures ----

// seedHotel creates a Hotel account with a profile and returns its claims.
func seedHotel(s *memStore, name, city string, stars int) (domain.Claims, domain.HotelProfile) {
	a := domain.Account{Email: strings.ToLower(name) + "@hotel.test", Role: domain.RoleUser, IdentityType: domain.IdentityHotel, ProfileCompleted: true, Active: true}
	_ = s.CreateAccount(context.Background(), &a)
	h := domain.HotelProfile{AccountID: a.ID, Name: name, City: city, StarRating: stars}
	_ = s.UpsertHotelProfile(context.Background(), &h)
	return domain.ClaimsFor(a), h
}

func seedCorporate(s *memStore, name string) (domain.Claims, domain.CorporateProfile) {
	a := domain.Account{Email: strings.ToLower(name) + "@corp.test", Role: domain.RoleUser, IdentityType: domain.IdentityCorporate, ProfileCompleted: true, Active: true}
	_ = s.CreateAccount(context.Background(), &a)
	c := domain.CorporateProfile{AccountID: a.ID, CompanyName: name}
	_ = s.UpsertCorporateProfile(context.Background(), &c)
	return domain.ClaimsFor(a), c
}

func seedRoom(s *memStore, hotelID int64, name string, capacity int, base int64, corp *int64) domain.RoomType {
	rt := domain.RoomType{HotelID: hotelID, Name: name, Capacity: capacity, BasePrice: domain.Money(base), Active: true, Amenities: []string{}}
	if corp != nil {
		m := domain.Money(*corp)
		rt.CorporatePrice = &m
	}
	_ = s.CreateRoomType(context.Background(), &rt)
	return rt
}
