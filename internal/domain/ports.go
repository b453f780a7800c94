package domain

import (
	"context"
	"time"
)

type AccountRepository interface {
	// CreateAccount inserts a and sets its ID. Returns ErrDuplicate if the email exists.
	CreateAccount(ctx context.Context, a *Account) error
	GetAccountByID(ctx context.Context, id int64) (Account, error)
	GetAccountByEmail(ctx context.Context, email string) (Account, error)
	LinkGoogleSubject(ctx context.Context, id int64, subject string) error
	UpdateRole(ctx context.Context, id int64, role Role) error
	SetIdentityType(ctx context.Context, id int64, t IdentityType, profileCompleted bool) error
	TouchLogin(ctx context.Context, id int64, at time.Time) error
}

type ProfileRepository interface {
	UpsertHotelProfile(ctx context.Context, p *HotelProfile) error
	GetHotelProfile(ctx context.Context, id int64) (HotelProfile, error)
	GetHotelProfileByAccount(ctx context.Context, accountID int64) (HotelProfile, error)
	UpsertCorporateProfile(ctx context.Context, p *CorporateProfile) error
	GetCorporateProfile(ctx context.Context, id int64) (CorporateProfile, error)
	GetCorporateProfileByAccount(ctx context.Context, accountID int64) (CorporateProfile, error)
}

// CatalogRepository scopes every mutation by the owning hotel id; a record of
// another hotel is reported as ErrNotFound.
type CatalogRepository interface {
	CreateRoomType(ctx context.Context, rt *RoomType) error
	GetRoomType(ctx context.Context, id int64) (RoomType, error)
	ListRoomTypes(ctx context.Context, hotelID int64, activeOnly bool) ([]RoomType, error)
	UpdateRoomType(ctx context.Context, rt RoomType) error
	DeleteRoomType(ctx context.Context, hotelID, id int64) error

	CreatePost(ctx context.Context, p *MarketingPost) error
	GetPost(ctx context.Context, id int64) (MarketingPost, error)
	ListPosts(ctx context.Context, f PostFilter) ([]MarketingPost, int, error)
	UpdatePost(ctx context.Context, p MarketingPost) error
	DeletePost(ctx context.Context, hotelID, id int64) error
}

type SearchRepository interface {
	SearchHotels(ctx context.Context, q HotelSearch) ([]HotelSummary, error)
	CountHotels(ctx context.Context, q HotelSearch) (int, error)
	ListCities(ctx context.Context) ([]string, error)
}

type BookingRepository interface {
	// CreateBooking returns ErrDuplicate when the booking number is taken.
	CreateBooking(ctx context.Context, b *Booking) error
	GetBooking(ctx context.Context, id int64) (Booking, error)
	ListBookings(ctx context.Context, f BookingFilter) ([]Booking, int, error)
	// TransitionBooking reports whether the conditional update changed a row.
	TransitionBooking(ctx context.Context, t BookingTransition) (bool, error)
}

type ChatRepository interface {
	CreateMessage(ctx context.Context, m *ChatMessage) error
	History(ctx context.Context, key ConversationKey) ([]ChatMessage, error)
	// MarkRead flags as read the messages of key that were not sent by reader.
	MarkRead(ctx context.Context, key ConversationKey, reader IdentityType) error
	Inbox(ctx context.Context, viewer IdentityType, profileID int64) ([]Conversation, error)
	PostMessages(ctx context.Context, postID int64, corporateID *int64) ([]ChatMessage, error)
}

type StatsRepository interface {
	Stats(ctx context.Context) (Stats, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	// Compare returns nil when password matches hash.
	Compare(hash, password string) error
}

type TokenIssuer interface {
	Issue(c Claims) (string, error)
	Verify(token string) (Claims, error)
}

type IdentityProvider interface {
	AuthURL(state string) string
	Exchange(ctx context.Context, code string) (ExternalIdentity, error)
}
