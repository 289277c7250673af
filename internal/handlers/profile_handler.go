package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/veigarm/pixelfeed/backend/internal/models"
	"github.com/veigarm/pixelfeed/backend/internal/repositories"
)

// ProfileHandler handles HTTP requests related to profiles
type ProfileHandler struct {
	profiles repositories.ProfileRepository
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(profiles repositories.ProfileRepository) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// RegisterProfileRoutes registers profile-related routes
func (h *ProfileHandler) RegisterProfileRoutes(g *echo.Group) {
	g.POST("/profiles", h.CreateProfile)
	g.GET("/profiles/me", h.GetOwnProfile)
}

// CreateProfile creates the caller's profile, linking it to the
// authenticated identity.
func (h *ProfileHandler) CreateProfile(c echo.Context) error {
	var req models.CreateProfileRequest
	if err := bindStrict(c, &req); err != nil {
		return err
	}

	profile := &models.Profile{
		Username:  req.Username,
		Bio:       req.Bio,
		AvatarURL: req.AvatarURL,
	}
	if claims, ok := c.Get("user").(*models.JwtCustomClaims); ok {
		profile.UserID = claims.UserID
	}
	if uid, ok := c.Get("firebaseUID").(string); ok {
		profile.FirebaseUID = uid
	}
	if profile.UserID == 0 && profile.FirebaseUID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "Missing authentication claims")
	}

	if err := h.profiles.CreateProfile(c.Request().Context(), profile); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, profile)
}

// GetOwnProfile returns the caller's profile.
func (h *ProfileHandler) GetOwnProfile(c echo.Context) error {
	profile, err := actingProfile(c, h.profiles)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}
