package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/veigarm/pixelfeed/backend/internal/apperrors"
	"github.com/veigarm/pixelfeed/backend/internal/models"
	"github.com/veigarm/pixelfeed/backend/internal/repositories"
)

// httpError translates a service error into an echo HTTP error, keeping the
// domain error's stable message. Anything outside the taxonomy is an
// infrastructure fault.
func httpError(err error) error {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		return echo.NewHTTPError(appErr.HTTPStatus(), appErr.Message)
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

// bindStrict decodes a JSON body rejecting unknown fields, then runs the
// request struct's validation tags. Malformed payloads never reach the
// services.
func bindStrict(c echo.Context, req interface{}) error {
	dec := json.NewDecoder(c.Request().Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload: "+err.Error())
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	return nil
}

// actingProfile resolves the caller's profile, trying the JWT identity first
// and falling back to the Firebase UID when that middleware served the
// request.
func actingProfile(c echo.Context, profiles repositories.ProfileRepository) (*models.Profile, error) {
	ctx := c.Request().Context()

	if claims, ok := c.Get("user").(*models.JwtCustomClaims); ok {
		profile, err := profiles.GetProfileByUserID(ctx, claims.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, echo.NewHTTPError(http.StatusUnauthorized, "Authenticated user has no profile")
			}
			return nil, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return profile, nil
	}

	if uid, ok := c.Get("firebaseUID").(string); ok {
		profile, err := profiles.GetProfileByFirebaseUID(ctx, uid)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, echo.NewHTTPError(http.StatusUnauthorized, "Authenticated user has no profile")
			}
			return nil, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return profile, nil
	}

	return nil, echo.NewHTTPError(http.StatusUnauthorized, "Missing authentication claims")
}
