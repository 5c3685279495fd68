package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/band-vault/internal/api/dto"
	"github.com/spec-kit/band-vault/internal/auth"
	"github.com/spec-kit/band-vault/internal/domain"
	"github.com/spec-kit/band-vault/internal/service"
	apperrors "github.com/spec-kit/band-vault/pkg/util"
)

// SongsHandler exposes the band song library.
type SongsHandler struct {
	songs *service.SongService
}

// NewSongsHandler constructs handler.
func NewSongsHandler(songs *service.SongService) *SongsHandler {
	return &SongsHandler{songs: songs}
}

// List handles GET /api/songs. With ?id= it returns a single song.
func (h *SongsHandler) List(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	if id := c.Query("id"); id != "" {
		song, err := h.songs.Get(c.UserContext(), user.BandID, id)
		if err != nil {
			return err
		}
		return c.JSON(song)
	}

	songs, err := h.songs.List(c.UserContext(), user.BandID)
	if err != nil {
		return err
	}
	return c.JSON(songs)
}

// Get handles GET /api/songs/:id.
func (h *SongsHandler) Get(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	song, err := h.songs.Get(c.UserContext(), user.BandID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(song)
}

// Create handles multipart POST /api/songs with fields title and file.
func (h *SongsHandler) Create(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return apperrors.NewValidationError("Audio file is required", nil)
	}
	file, err := fileHeader.Open()
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	defer file.Close()

	song, err := h.songs.Create(c.UserContext(), user, service.SongUpload{
		Title:       c.FormValue("title"),
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get(fiber.HeaderContentType),
		Size:        fileHeader.Size,
		Body:        file,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.SongCreatedResponse{Message: "Song created successfully", Song: song})
}

// UpdateLyrics handles PUT /api/songs/:id/lyrics.
func (h *SongsHandler) UpdateLyrics(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.LyricsRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	song, err := h.songs.UpdateLyrics(c.UserContext(), user.BandID, c.Params("id"), req.Lyrics)
	if err != nil {
		return err
	}
	return c.JSON(song)
}

// Delete handles DELETE /api/songs/:id. Admin only.
func (h *SongsHandler) Delete(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	if err := h.songs.Delete(c.UserContext(), user.BandID, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func currentUser(c *fiber.Ctx) (*domain.User, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return nil, apperrors.NewUnauthorized("Unauthorized")
	}
	return principal.User, nil
}
