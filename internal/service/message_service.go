package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/band-vault/internal/domain"
	"github.com/spec-kit/band-vault/internal/events"
	"github.com/spec-kit/band-vault/internal/repository"
	apperrors "github.com/spec-kit/band-vault/pkg/util"
)

const previewLength = 80

// MessageService handles band and song chat. Clients poll List; there is no push delivery.
type MessageService struct {
	messages repository.MessageRepository
	songs    repository.SongRepository
	events   events.Dispatcher
	logger   *zap.Logger
}

// NewMessageService builds the service.
func NewMessageService(messages repository.MessageRepository, songs repository.SongRepository, dispatcher events.Dispatcher, logger *zap.Logger) *MessageService {
	return &MessageService{messages: messages, songs: songs, events: dispatcher, logger: logger}
}

// List returns the band chat (songID nil) or the chat of one song, oldest first.
func (s *MessageService) List(ctx context.Context, bandID string, songID *string) ([]domain.Message, error) {
	if songID != nil && !validID(*songID) {
		return nil, errSongNotFound()
	}
	return s.messages.List(ctx, bandID, songID)
}

// Post stores a message from user. A songID must name a song of the user's band.
func (s *MessageService) Post(ctx context.Context, user *domain.User, text string, songID *string) (*domain.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperrors.NewValidationError("Message text is required", nil)
	}
	if songID != nil {
		if !validID(*songID) {
			return nil, apperrors.NewValidationError("Invalid songId", nil)
		}
		if _, err := s.songs.GetByID(ctx, user.BandID, *songID); err != nil {
			return nil, songError(err)
		}
	}

	msg := &domain.Message{
		BandID: user.BandID,
		SongID: songID,
		UserID: user.ID,
		Text:   text,
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, err
	}

	publish(ctx, s.events, s.logger, events.Event{
		Type:      events.EventMessagePosted,
		BandID:    msg.BandID,
		ActorID:   user.ID,
		Timestamp: time.Now(),
		Payload: events.MessagePostedPayload{
			MessageID:   msg.ID,
			SongID:      msg.SongID,
			BodyPreview: preview(msg.Text),
		},
	})
	return msg, nil
}

func preview(text string) string {
	runes := []rune(text)
	if len(runes) <= previewLength {
		return text
	}
	return string(runes[:previewLength]) + "…"
}
