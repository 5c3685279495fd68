package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/band-vault/internal/domain"
	"github.com/spec-kit/band-vault/internal/events"
	"github.com/spec-kit/band-vault/internal/repository"
	apperrors "github.com/spec-kit/band-vault/pkg/util"
)

// MaxAudioSize bounds an uploaded song file.
const MaxAudioSize = 50 << 20

var validAudioTypes = map[string]struct{}{
	"audio/mpeg":      {},
	"audio/mp3":       {},
	"audio/wav":       {},
	"audio/wave":      {},
	"audio/x-wav":     {},
	"audio/aac":       {},
	"audio/m4a":       {},
	"audio/x-m4a":     {},
	"audio/mp4":       {},
	"audio/ogg":       {},
	"audio/flac":      {},
	"audio/webm":      {},
	"video/mp4":       {}, // voice memos
	"video/quicktime": {},
	"video/x-m4a":     {},
}

var validAudioExt = regexp.MustCompile(`(?i)\.(mp3|wav|m4a|aac|ogg|flac|webm|mp4|mov)$`)

// AudioStore persists uploaded audio and returns a public URL.
type AudioStore interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, objectURL string) error
}

// SongUpload is an audio file received from a client.
type SongUpload struct {
	Title       string
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// SongService manages a band's songs.
type SongService struct {
	songs  repository.SongRepository
	audio  AudioStore
	events events.Dispatcher
	logger *zap.Logger
}

// NewSongService builds the service.
func NewSongService(songs repository.SongRepository, audio AudioStore, dispatcher events.Dispatcher, logger *zap.Logger) *SongService {
	return &SongService{songs: songs, audio: audio, events: dispatcher, logger: logger}
}

// IsValidAudio accepts a known audio MIME type, falling back to the file extension.
func IsValidAudio(fileName, contentType string) bool {
	if _, ok := validAudioTypes[strings.ToLower(contentType)]; ok {
		return true
	}
	return validAudioExt.MatchString(fileName)
}

// List returns the band's songs, newest first.
func (s *SongService) List(ctx context.Context, bandID string) ([]domain.Song, error) {
	return s.songs.ListByBand(ctx, bandID)
}

// Get returns one song of the band.
func (s *SongService) Get(ctx context.Context, bandID, id string) (*domain.Song, error) {
	if !validID(id) {
		return nil, errSongNotFound()
	}
	song, err := s.songs.GetByID(ctx, bandID, id)
	if err != nil {
		return nil, songError(err)
	}
	return song, nil
}

// Create validates and stores the upload, then records the song for the user's band.
func (s *SongService) Create(ctx context.Context, user *domain.User, upload SongUpload) (*domain.Song, error) {
	title := strings.TrimSpace(upload.Title)
	if title == "" {
		return nil, apperrors.NewValidationError("Title is required", nil)
	}
	if upload.Body == nil {
		return nil, apperrors.NewValidationError("Audio file is required", nil)
	}
	if !IsValidAudio(upload.FileName, upload.ContentType) {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("Invalid file type: %s. Please upload an audio file (MP3, WAV, M4A, AAC, etc.)", upload.ContentType), nil)
	}
	if upload.Size > MaxAudioSize {
		return nil, apperrors.NewValidationError("File too large. Maximum size is 50MB", nil)
	}

	key := path.Join("songs", user.BandID, uuid.NewString()+strings.ToLower(path.Ext(upload.FileName)))
	audioURL, err := s.audio.Put(ctx, key, upload.Body, upload.Size, upload.ContentType)
	if err != nil {
		return nil, fmt.Errorf("upload audio: %w", err)
	}
	s.logger.Info("uploaded audio",
		zap.String("key", key),
		zap.String("content_type", upload.ContentType),
		zap.Int64("size", upload.Size))

	song := &domain.Song{BandID: user.BandID, Title: title, AudioURL: audioURL}
	if err := s.songs.Create(ctx, song); err != nil {
		if delErr := s.audio.Delete(ctx, audioURL); delErr != nil {
			s.logger.Warn("remove orphaned audio", zap.String("url", audioURL), zap.Error(delErr))
		}
		return nil, err
	}

	publish(ctx, s.events, s.logger, events.Event{
		Type:      events.EventSongCreated,
		BandID:    song.BandID,
		ActorID:   user.ID,
		Timestamp: time.Now(),
		Payload:   events.SongCreatedPayload{SongID: song.ID, Title: song.Title},
	})
	return song, nil
}

// UpdateLyrics attaches lyrics to a song. Blank lyrics clear them.
func (s *SongService) UpdateLyrics(ctx context.Context, bandID, id, lyrics string) (*domain.Song, error) {
	if !validID(id) {
		return nil, errSongNotFound()
	}
	var value *string
	if strings.TrimSpace(lyrics) != "" {
		value = &lyrics
	}
	song, err := s.songs.UpdateLyrics(ctx, bandID, id, value)
	if err != nil {
		return nil, songError(err)
	}
	return song, nil
}

// Delete removes the song and its audio.
func (s *SongService) Delete(ctx context.Context, bandID, id string) error {
	if !validID(id) {
		return errSongNotFound()
	}
	song, err := s.songs.GetByID(ctx, bandID, id)
	if err != nil {
		return songError(err)
	}
	if err := s.songs.Delete(ctx, bandID, id); err != nil {
		return songError(err)
	}
	if err := s.audio.Delete(ctx, song.AudioURL); err != nil {
		s.logger.Warn("remove song audio", zap.String("url", song.AudioURL), zap.Error(err))
	}
	return nil
}

func songError(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return errSongNotFound()
	}
	return err
}

func errSongNotFound() error {
	return apperrors.NewNotFound("Song", nil)
}

// validID reports whether id can name a row. Ids are UUIDs; anything else
// cannot match and must not reach the database.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
