// Package testutil provides in-memory fakes of the persistence and storage
// collaborators for tests.
package testutil

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/band-vault/internal/domain"
	"github.com/spec-kit/band-vault/internal/repository"
)

// TestSecret is a valid signing secret.
const TestSecret = "test-secret-0123456789abcdef-0123456789"

// FakeUserRepository implements repository.UserRepository in memory.
type FakeUserRepository struct {
	mu    sync.RWMutex
	Users map[string]*domain.User

	// Err, when set, is returned by every call.
	Err error
}

// NewFakeUserRepository creates an empty repository.
func NewFakeUserRepository() *FakeUserRepository {
	return &FakeUserRepository{Users: make(map[string]*domain.User)}
}

func (r *FakeUserRepository) Create(_ context.Context, user *domain.User) error {
	if r.Err != nil {
		return r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.Users {
		if u.Email == user.Email {
			return fmt.Errorf("email %s already exists", user.Email)
		}
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now()
	user.CreatedAt, user.UpdatedAt = now, now
	r.Users[user.ID] = user
	return nil
}

func (r *FakeUserRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if u, ok := r.Users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (r *FakeUserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.Users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

// Delete drops a user, simulating removal after a token was issued.
func (r *FakeUserRepository) Delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.Users, id)
}

// AddUser stores a user with a bcrypt hash of password and returns it.
func (r *FakeUserRepository) AddUser(email, name, password string, role domain.Role, bandID string) *domain.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	u := &domain.User{
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		Role:         role,
		BandID:       bandID,
	}
	if err := r.Create(context.Background(), u); err != nil {
		panic(err)
	}
	return u
}

// FakeSongRepository implements repository.SongRepository in memory.
type FakeSongRepository struct {
	mu    sync.RWMutex
	Songs map[string]*domain.Song
	clock time.Time

	CreateErr error
}

// NewFakeSongRepository creates an empty repository.
func NewFakeSongRepository() *FakeSongRepository {
	return &FakeSongRepository{Songs: make(map[string]*domain.Song), clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (r *FakeSongRepository) Create(_ context.Context, song *domain.Song) error {
	if r.CreateErr != nil {
		return r.CreateErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	song.ID = uuid.NewString()
	r.clock = r.clock.Add(time.Second)
	song.CreatedAt, song.UpdatedAt = r.clock, r.clock
	cp := *song
	r.Songs[song.ID] = &cp
	return nil
}

func (r *FakeSongRepository) GetByID(_ context.Context, bandID, id string) (*domain.Song, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if s, ok := r.Songs[id]; ok && s.BandID == bandID {
		cp := *s
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (r *FakeSongRepository) ListByBand(_ context.Context, bandID string) ([]domain.Song, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := []domain.Song{}
	for _, s := range r.Songs {
		if s.BandID == bandID {
			result = append(result, *s)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (r *FakeSongRepository) UpdateLyrics(_ context.Context, bandID, id string, lyrics *string) (*domain.Song, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.Songs[id]
	if !ok || s.BandID != bandID {
		return nil, repository.ErrNotFound
	}
	s.Lyrics = lyrics
	cp := *s
	return &cp, nil
}

func (r *FakeSongRepository) Delete(_ context.Context, bandID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.Songs[id]
	if !ok || s.BandID != bandID {
		return repository.ErrNotFound
	}
	delete(r.Songs, id)
	return nil
}

// FakeMessageRepository implements repository.MessageRepository in memory,
// resolving authors through Users.
type FakeMessageRepository struct {
	mu       sync.Mutex
	Messages []domain.Message
	Users    *FakeUserRepository
}

// NewFakeMessageRepository creates an empty repository.
func NewFakeMessageRepository(users *FakeUserRepository) *FakeMessageRepository {
	return &FakeMessageRepository{Users: users}
}

func (r *FakeMessageRepository) Create(ctx context.Context, msg *domain.Message) error {
	author, err := r.Users.GetByID(ctx, msg.UserID)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	msg.ID = uuid.NewString()
	msg.CreatedAt = time.Now()
	msg.User = domain.MessageAuthor{ID: author.ID, Name: author.Name, Email: author.Email}
	r.Messages = append(r.Messages, *msg)
	return nil
}

func (r *FakeMessageRepository) List(_ context.Context, bandID string, songID *string) ([]domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := []domain.Message{}
	for _, m := range r.Messages {
		if m.BandID != bandID {
			continue
		}
		if (songID == nil) != (m.SongID == nil) {
			continue
		}
		if songID != nil && *songID != *m.SongID {
			continue
		}
		result = append(result, m)
	}
	return result, nil
}

// FakeAudioStore keeps uploaded objects in memory.
type FakeAudioStore struct {
	mu      sync.Mutex
	Objects map[string][]byte
	PutErr  error
}

// NewFakeAudioStore creates an empty store.
func NewFakeAudioStore() *FakeAudioStore {
	return &FakeAudioStore{Objects: make(map[string][]byte)}
}

// URLPrefix is prepended to keys to form object URLs.
const URLPrefix = "https://blob.test/band-vault/"

func (s *FakeAudioStore) Put(_ context.Context, key string, body io.Reader, _ int64, _ string) (string, error) {
	if s.PutErr != nil {
		return "", s.PutErr
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, body); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Objects[key] = buf.Bytes()
	return URLPrefix + key, nil
}

func (s *FakeAudioStore) Delete(_ context.Context, objectURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.Objects, objectURL[len(URLPrefix):])
	return nil
}

// FakeLoginLimiter counts failures in memory.
type FakeLoginLimiter struct {
	mu          sync.Mutex
	MaxAttempts int
	Failures    map[string]int
	Err         error
}

// NewFakeLoginLimiter creates a limiter allowing maxAttempts failures.
func NewFakeLoginLimiter(maxAttempts int) *FakeLoginLimiter {
	return &FakeLoginLimiter{MaxAttempts: maxAttempts, Failures: make(map[string]int)}
}

func (l *FakeLoginLimiter) Allow(_ context.Context, email string) (bool, error) {
	if l.Err != nil {
		return false, l.Err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.Failures[email] < l.MaxAttempts, nil
}

func (l *FakeLoginLimiter) RecordFailure(_ context.Context, email string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Failures[email]++
	return nil
}

func (l *FakeLoginLimiter) Reset(_ context.Context, email string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.Failures, email)
	return nil
}
