package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/veigarm/pixelfeed/backend/internal/models"
	"github.com/veigarm/pixelfeed/backend/internal/repositories"
	"github.com/veigarm/pixelfeed/backend/internal/services"
)

// EngagementHandler handles likes, comments and replies. Any authenticated
// user may engage with any post; ownership is not checked here. Engagement
// is keyed on the acting profile's id, which exists for every account
// regardless of whether it signed in with a local JWT or Firebase.
type EngagementHandler struct {
	engagementService *services.EngagementService
	profiles          repositories.ProfileRepository
}

// NewEngagementHandler creates a new EngagementHandler
func NewEngagementHandler(engagementService *services.EngagementService, profiles repositories.ProfileRepository) *EngagementHandler {
	return &EngagementHandler{
		engagementService: engagementService,
		profiles:          profiles,
	}
}

// RegisterEngagementRoutes registers engagement-related routes
func (h *EngagementHandler) RegisterEngagementRoutes(g *echo.Group) {
	g.POST("/posts/:id/like", h.ToggleLike)
	g.POST("/posts/:id/comments", h.AddComment)
	g.POST("/posts/:id/comments/:comment_id/replies", h.AddReply)
}

// ToggleLike flips the caller's like on a post and reports the new state.
func (h *EngagementHandler) ToggleLike(c echo.Context) error {
	profile, err := actingProfile(c, h.profiles)
	if err != nil {
		return err
	}

	liked, err := h.engagementService.ToggleLike(c.Request().Context(), c.Param("id"), profile.ID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"liked": liked})
}

// AddComment appends a comment to a post.
func (h *EngagementHandler) AddComment(c echo.Context) error {
	profile, err := actingProfile(c, h.profiles)
	if err != nil {
		return err
	}

	var req models.AddCommentRequest
	if err := bindStrict(c, &req); err != nil {
		return err
	}

	post, err := h.engagementService.AddComment(c.Request().Context(), c.Param("id"), profile.ID, req.Text)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, post)
}

// AddReply appends a reply to one comment within a post.
func (h *EngagementHandler) AddReply(c echo.Context) error {
	profile, err := actingProfile(c, h.profiles)
	if err != nil {
		return err
	}

	var req models.AddReplyRequest
	if err := bindStrict(c, &req); err != nil {
		return err
	}

	post, err := h.engagementService.AddReply(c.Request().Context(), c.Param("id"), c.Param("comment_id"), profile.ID, req.Text)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, post)
}
