package domain

import "time"

type ChatMessage struct {
	ID              int64        `json:"id"`
	CorporateID     int64        `json:"corporateId"`
	HotelID         int64        `json:"hotelId"`
	PostID          *int64       `json:"postId"`
	SenderType      IdentityType `json:"senderType"`
	SenderAccountID int64        `json:"senderId"`
	Body            string       `json:"message"`
	IsRead          bool         `json:"isRead"`
	CreatedAt       time.Time    `json:"createdAt"`
}

// ConversationKey identifies a thread between a corporate and a hotel profile,
// optionally narrowed to one marketing post.
type ConversationKey struct {
	CorporateID int64
	HotelID     int64
	PostID      *int64
}

// Conversation is one inbox row: the latest activity with a partner profile.
type Conversation struct {
	PartnerID     int64     `json:"partnerId"`
	PartnerName   string    `json:"partnerName"`
	LastMessage   string    `json:"lastMessage"`
	LastMessageAt time.Time `json:"lastMessageAt"`
	UnreadCount   int       `json:"unreadCount"`
}

const MaxMessageLength = 2000
