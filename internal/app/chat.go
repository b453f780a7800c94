package app

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"stayhub/internal/domain"
)

// ChatService carries messages between a corporate profile and a hotel profile.
type ChatService struct {
	chat     domain.ChatRepository
	profiles domain.ProfileRepository
	catalog  domain.CatalogRepository
}

func NewChatService(ch domain.ChatRepository, p domain.ProfileRepository, c domain.CatalogRepository) *ChatService {
	return &ChatService{chat: ch, profiles: p, catalog: c}
}

// conversationWith resolves the caller's own profile and the partner profile
// into a conversation key.
func (s *ChatService) conversationWith(ctx context.Context, c domain.Claims, partnerID int64) (domain.ConversationKey, error) {
	switch c.IdentityType {
	case domain.IdentityCorporate:
		own, err := corporateOf(ctx, s.profiles, c)
		if err != nil {
			return domain.ConversationKey{}, err
		}
		if _, err := s.profiles.GetHotelProfile(ctx, partnerID); err != nil {
			return domain.ConversationKey{}, notFound(err, "hotel not found")
		}
		return domain.ConversationKey{CorporateID: own.ID, HotelID: partnerID}, nil
	case domain.IdentityHotel:
		own, err := hotelOf(ctx, s.profiles, c)
		if err != nil {
			return domain.ConversationKey{}, err
		}
		if _, err := s.profiles.GetCorporateProfile(ctx, partnerID); err != nil {
			return domain.ConversationKey{}, notFound(err, "corporate not found")
		}
		return domain.ConversationKey{CorporateID: partnerID, HotelID: own.ID}, nil
	}
	return domain.ConversationKey{}, domain.Errorf(domain.ErrForbidden, "choose an identity type first")
}

// checkPost verifies that postID belongs to the hotel side of key.
func (s *ChatService) checkPost(ctx context.Context, key domain.ConversationKey, postID int64) error {
	p, err := s.catalog.GetPost(ctx, postID)
	if err != nil {
		return notFound(err, "post not found")
	}
	if p.HotelID != key.HotelID {
		return domain.Errorf(domain.ErrNotFound, "post not found")
	}
	return nil
}

func (s *ChatService) Send(ctx context.Context, c domain.Claims, recipientID int64, body string, postID *int64) (domain.ChatMessage, error) {
	body = strings.TrimSpace(body)
	if n := utf8.RuneCountInString(body); n == 0 || n > domain.MaxMessageLength {
		return domain.ChatMessage{}, domain.Errorf(domain.ErrValidation, "message must be between 1 and %d characters", domain.MaxMessageLength)
	}
	key, err := s.conversationWith(ctx, c, recipientID)
	if err != nil {
		return domain.ChatMessage{}, err
	}
	if postID != nil {
		if err := s.checkPost(ctx, key, *postID); err != nil {
			return domain.ChatMessage{}, err
		}
	}
	m := domain.ChatMessage{
		CorporateID:     key.CorporateID,
		HotelID:         key.HotelID,
		PostID:          postID,
		SenderType:      c.IdentityType,
		SenderAccountID: c.AccountID,
		Body:            body,
	}
	if err := s.chat.CreateMessage(ctx, &m); err != nil {
		return domain.ChatMessage{}, err
	}
	log.Debug().Int64("message_id", m.ID).Int64("corporate_id", m.CorporateID).Int64("hotel_id", m.HotelID).Msg("chat message sent")
	return m, nil
}

// History returns the conversation with partnerID oldest first and marks the
// partner's messages as read.
func (s *ChatService) History(ctx context.Context, c domain.Claims, partnerID int64, postID *int64) ([]domain.ChatMessage, error) {
	key, err := s.conversationWith(ctx, c, partnerID)
	if err != nil {
		return nil, err
	}
	key.PostID = postID
	msgs, err := s.chat.History(ctx, key)
	if err != nil {
		return nil, err
	}
	if err := s.chat.MarkRead(ctx, key, c.IdentityType); err != nil {
		log.Warn().Err(err).Int64("corporate_id", key.CorporateID).Int64("hotel_id", key.HotelID).Msg("mark read failed")
	}
	return msgs, nil
}

func (s *ChatService) Inbox(ctx context.Context, c domain.Claims) ([]domain.Conversation, error) {
	switch c.IdentityType {
	case domain.IdentityCorporate:
		own, err := corporateOf(ctx, s.profiles, c)
		if err != nil {
			return nil, err
		}
		return s.chat.Inbox(ctx, domain.IdentityCorporate, own.ID)
	case domain.IdentityHotel:
		own, err := hotelOf(ctx, s.profiles, c)
		if err != nil {
			return nil, err
		}
		return s.chat.Inbox(ctx, domain.IdentityHotel, own.ID)
	}
	return nil, domain.Errorf(domain.ErrForbidden, "choose an identity type first")
}

// PostThread lists the messages attached to a post: every message for the
// owning hotel, only its own for a corporate caller.
func (s *ChatService) PostThread(ctx context.Context, c domain.Claims, postID int64) ([]domain.ChatMessage, error) {
	p, err := s.catalog.GetPost(ctx, postID)
	if err != nil {
		return nil, notFound(err, "post not found")
	}
	switch c.IdentityType {
	case domain.IdentityHotel:
		own, err := hotelOf(ctx, s.profiles, c)
		if err != nil {
			return nil, err
		}
		if own.ID != p.HotelID {
			return nil, domain.Errorf(domain.ErrNotFound, "post not found")
		}
		return s.chat.PostMessages(ctx, postID, nil)
	case domain.IdentityCorporate:
		own, err := corporateOf(ctx, s.profiles, c)
		if err != nil {
			return nil, err
		}
		return s.chat.PostMessages(ctx, postID, &own.ID)
	}
	return nil, domain.Errorf(domain.ErrForbidden, "choose an identity type first")
}
