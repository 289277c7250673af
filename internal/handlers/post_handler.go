package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/veigarm/pixelfeed/backend/internal/models"
	"github.com/veigarm/pixelfeed/backend/internal/repositories"
	"github.com/veigarm/pixelfeed/backend/internal/services"
)

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	postService  *services.PostService
	mediaService *services.MediaService
	profiles     repositories.ProfileRepository
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(postService *services.PostService, mediaService *services.MediaService, profiles repositories.ProfileRepository) *PostHandler {
	return &PostHandler{
		postService:  postService,
		mediaService: mediaService,
		profiles:     profiles,
	}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/posts", h.CreatePost)
	g.GET("/posts/:id", h.GetPost)
	g.GET("/posts", h.GetPosts)
	g.PUT("/posts/:id", h.UpdatePost)
}

// CreatePost creates a new post from a multipart form: a caption field plus
// zero or more "media" file parts.
func (h *PostHandler) CreatePost(c echo.Context) error {
	profile, err := actingProfile(c, h.profiles)
	if err != nil {
		return err
	}

	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	uploads, err := formUploads(c)
	if err != nil {
		return err
	}
	defer closeUploads(uploads)

	media, err := h.mediaService.Ingest(c.Request().Context(), uploads)
	if err != nil {
		return httpError(err)
	}

	post, err := h.postService.Create(c.Request().Context(), profile.ID, req.Caption, media)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, post)
}

// queryInt parses an optional non-negative integer query parameter. A missing
// parameter is zero; a malformed or negative one is a 400.
func queryInt(c echo.Context, name string) (int64, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v < 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid "+name+" query parameter")
	}
	return v, nil
}

// GetPost retrieves a post together with its owner's profile.
func (h *PostHandler) GetPost(c echo.Context) error {
	post, err := h.postService.GetWithOwnerProfile(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, post)
}

// GetPosts retrieves a profile's posts with pagination.
func (h *PostHandler) GetPosts(c echo.Context) error {
	profileID, err := strconv.ParseUint(c.QueryParam("profile_id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "profile_id query parameter is required")
	}
	skip, err := queryInt(c, "skip")
	if err != nil {
		return err
	}
	limit, err := queryInt(c, "limit")
	if err != nil {
		return err
	}

	posts, err := h.postService.GetByProfile(c.Request().Context(), uint(profileID), skip, limit)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, posts)
}

// UpdatePost applies a partial update to a post the caller owns.
func (h *PostHandler) UpdatePost(c echo.Context) error {
	profile, err := actingProfile(c, h.profiles)
	if err != nil {
		return err
	}
	postID := c.Param("id")

	var req models.UpdatePostRequest
	if err := bindStrict(c, &req); err != nil {
		return err
	}

	if _, err := h.postService.FindEditable(c.Request().Context(), postID, profile.ID); err != nil {
		return httpError(err)
	}

	if err := h.postService.Update(c.Request().Context(), postID, req); err != nil {
		return httpError(err)
	}

	post, err := h.postService.GetWithOwnerProfile(c.Request().Context(), postID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, post)
}
