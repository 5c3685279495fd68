package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/band-vault/internal/api/dto"
	"github.com/spec-kit/band-vault/internal/service"
	apperrors "github.com/spec-kit/band-vault/pkg/util"
)

// MessagesHandler exposes the polled band and song chat.
type MessagesHandler struct {
	messages *service.MessageService
}

// NewMessagesHandler constructs handler.
func NewMessagesHandler(messages *service.MessageService) *MessagesHandler {
	return &MessagesHandler{messages: messages}
}

// List handles GET /api/messages[?songId=].
func (h *MessagesHandler) List(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var songID *string
	if id := c.Query("songId"); id != "" {
		songID = &id
	}

	messages, err := h.messages.List(c.UserContext(), user.BandID, songID)
	if err != nil {
		return err
	}
	return c.JSON(messages)
}

// Create handles POST /api/messages.
func (h *MessagesHandler) Create(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req dto.MessageCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.SongID != nil && *req.SongID == "" {
		req.SongID = nil
	}

	msg, err := h.messages.Post(c.UserContext(), user, req.Text, req.SongID)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(msg)
}
