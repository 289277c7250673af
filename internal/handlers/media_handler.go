package handlers

import (
	"mime/multipart"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/veigarm/pixelfeed/backend/internal/models"
	"github.com/veigarm/pixelfeed/backend/internal/repositories"
	"github.com/veigarm/pixelfeed/backend/internal/services"
)

// MediaHandler handles HTTP requests mutating a post's media list
type MediaHandler struct {
	postService  *services.PostService
	mediaService *services.MediaService
	profiles     repositories.ProfileRepository
}

// NewMediaHandler creates a new MediaHandler
func NewMediaHandler(postService *services.PostService, mediaService *services.MediaService, profiles repositories.ProfileRepository) *MediaHandler {
	return &MediaHandler{
		postService:  postService,
		mediaService: mediaService,
		profiles:     profiles,
	}
}

// RegisterMediaRoutes registers media-related routes
func (h *MediaHandler) RegisterMediaRoutes(g *echo.Group) {
	g.POST("/posts/:id/media", h.AppendMedia)
	g.DELETE("/posts/:id/media", h.RemoveMedia)
	g.PATCH("/posts/:id/media/order", h.RepositionMedia)
}

// editablePost runs the authorization gate for the acting profile.
func (h *MediaHandler) editablePost(c echo.Context) (*models.Post, error) {
	profile, err := actingProfile(c, h.profiles)
	if err != nil {
		return nil, err
	}
	post, err := h.postService.FindEditable(c.Request().Context(), c.Param("id"), profile.ID)
	if err != nil {
		return nil, httpError(err)
	}
	return post, nil
}

// AppendMedia ingests uploaded "media" file parts and appends them to the
// end of the post's media list.
func (h *MediaHandler) AppendMedia(c echo.Context) error {
	post, err := h.editablePost(c)
	if err != nil {
		return err
	}

	uploads, err := formUploads(c)
	if err != nil {
		return err
	}
	defer closeUploads(uploads)
	if len(uploads) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "No media files in request")
	}

	files, err := h.mediaService.Append(c.Request().Context(), post, uploads)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, files)
}

// RemoveMedia detaches a media entry by url. Removing an absent url is a
// successful no-op.
func (h *MediaHandler) RemoveMedia(c echo.Context) error {
	post, err := h.editablePost(c)
	if err != nil {
		return err
	}

	var req models.RemoveMediaRequest
	if err := bindStrict(c, &req); err != nil {
		return err
	}

	if err := h.mediaService.Remove(c.Request().Context(), post, req.URL); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// RepositionMedia moves a media entry to a new display position.
func (h *MediaHandler) RepositionMedia(c echo.Context) error {
	post, err := h.editablePost(c)
	if err != nil {
		return err
	}

	var req models.RepositionMediaRequest
	if err := bindStrict(c, &req); err != nil {
		return err
	}

	files, err := h.mediaService.Reposition(c.Request().Context(), post, req.URL, req.MoveTo)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, files)
}

// formUploads collects the "media" file parts of a multipart request.
func formUploads(c echo.Context) ([]services.Upload, error) {
	form, err := c.MultipartForm()
	if err != nil {
		if err == http.ErrNotMultipart || err == http.ErrMissingBoundary {
			return nil, nil
		}
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid multipart form")
	}

	var uploads []services.Upload
	for _, fh := range form.File["media"] {
		src, err := fh.Open()
		if err != nil {
			closeUploads(uploads)
			return nil, echo.NewHTTPError(http.StatusBadRequest, "Unreadable media file: "+fh.Filename)
		}
		uploads = append(uploads, services.Upload{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Reader:      src,
		})
	}
	return uploads, nil
}

func closeUploads(uploads []services.Upload) {
	for _, up := range uploads {
		if closer, ok := up.Reader.(multipart.File); ok {
			closer.Close()
		}
	}
}
