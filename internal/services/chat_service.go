package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/apperr"
	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/models"
	"github.com/vetsasatyasrikar/Flinx-Market-Place/internal/repository"
)

const (
	maxMessageLength = 2000
	messagePageSize  = 100
)

// ChatService stores per-listing messages that clients poll for.
type ChatService struct {
	ledger   *repository.Ledger
	listings *ListingService
	filter   *ContentFilter
}

func NewChatService(ledger *repository.Ledger, listings *ListingService, filter *ContentFilter) *ChatService {
	return &ChatService{ledger: ledger, listings: listings, filter: filter}
}

func (s *ChatService) Send(ctx context.Context, senderUID string, listingID uuid.UUID, body string) (*models.Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, apperr.New(apperr.InvalidArgument, "message is required")
	}
	if len(body) > maxMessageLength {
		return nil, apperr.New(apperr.InvalidArgument, "message is too long")
	}
	if ok, reason := s.filter.Check(body); !ok {
		return nil, apperr.New(apperr.InvalidArgument, RejectionMessage(reason))
	}
	if _, err := s.listings.Get(ctx, listingID); err != nil {
		return nil, err
	}

	msg := &models.Message{
		ListingID: listingID,
		SenderID:  senderUID,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.ledger.CreateMessage(ctx, msg); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "store message", err)
	}
	return msg, nil
}

// Since returns messages newer than after, oldest first. A zero after
// returns the conversation from the start.
func (s *ChatService) Since(ctx context.Context, listingID uuid.UUID, after time.Time) ([]models.Message, error) {
	msgs, err := s.ledger.ListMessages(ctx, listingID, after, messagePageSize)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "list messages", err)
	}
	return msgs, nil
}
