package service_test

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/spec-kit/band-vault/internal/domain"
	"github.com/spec-kit/band-vault/internal/events"
	"github.com/spec-kit/band-vault/internal/service"
	"github.com/spec-kit/band-vault/internal/testutil"
)

func TestMessageService_PostAndList(t *testing.T) {
	ctx := context.Background()
	users := testutil.NewFakeUserRepository()
	author := users.AddUser("user@example.com", "Band Member", "password123", domain.RoleUser, "band-1")
	songs := testutil.NewFakeSongRepository()
	song := &domain.Song{BandID: "band-1", Title: "Demo", AudioURL: testutil.URLPrefix + "songs/band-1/x.mp3"}
	require.NoError(t, songs.Create(ctx, song))

	dispatcher := events.NewInMemoryDispatcher()
	var posted []events.MessagePostedPayload
	dispatcher.Subscribe(events.EventMessagePosted, func(_ context.Context, e events.Event) error {
		posted = append(posted, e.Payload.(events.MessagePostedPayload))
		return nil
	})

	svc := service.NewMessageService(testutil.NewFakeMessageRepository(users), songs, dispatcher, zaptest.NewLogger(t))

	bandMsg, err := svc.Post(ctx, author, "  hello band  ", nil)
	require.NoError(t, err)
	assert.Equal(t, "hello band", bandMsg.Text)
	assert.Equal(t, "Band Member", bandMsg.User.Name)

	_, err = svc.Post(ctx, author, strings.Repeat("a", 100), &song.ID)
	require.NoError(t, err)

	band, err := svc.List(ctx, "band-1", nil)
	require.NoError(t, err)
	require.Len(t, band, 1)
	assert.Equal(t, bandMsg.ID, band[0].ID)

	songChat, err := svc.List(ctx, "band-1", &song.ID)
	require.NoError(t, err)
	assert.Len(t, songChat, 1)

	require.Len(t, posted, 2)
	assert.Equal(t, 81, len([]rune(posted[1].BodyPreview)))
}

func TestMessageService_Validation(t *testing.T) {
	ctx := context.Background()
	users := testutil.NewFakeUserRepository()
	author := users.AddUser("user@example.com", "Band Member", "password123", domain.RoleUser, "band-1")
	svc := service.NewMessageService(testutil.NewFakeMessageRepository(users), testutil.NewFakeSongRepository(), nil, zaptest.NewLogger(t))

	_, err := svc.Post(ctx, author, "   ", nil)
	de := requireStatus(t, err, http.StatusBadRequest)
	assert.Equal(t, "Message text is required", de.Message)

	malformed := "no-such-song"
	_, err = svc.Post(ctx, author, "hi", &malformed)
	de = requireStatus(t, err, http.StatusBadRequest)
	assert.Equal(t, "Invalid songId", de.Message)

	_, err = svc.List(ctx, "band-1", &malformed)
	requireStatus(t, err, http.StatusNotFound)

	unknown := "3f1c2a4e-8d7b-4c6a-9e5f-0a1b2c3d4e5f"
	_, err = svc.Post(ctx, author, "hi", &unknown)
	requireStatus(t, err, http.StatusNotFound)
}
