package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	apierrors "github.com/yukikurage/taskboard-api/internal/errors"
	"github.com/yukikurage/taskboard-api/internal/repository"
)

const maxPreferenceSize = 64 << 10

// PreferenceHandler stores opaque per-user display preferences
type PreferenceHandler struct {
	prefs  repository.PreferenceRepository
	logger zerolog.Logger
}

func NewPreferenceHandler(prefs repository.PreferenceRepository, logger zerolog.Logger) *PreferenceHandler {
	return &PreferenceHandler{prefs: prefs, logger: logger}
}

// GetPreference returns the stored JSON value. Values that no longer parse
// are reported as absent.
func (h *PreferenceHandler) GetPreference(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	key := c.Param("key")
	value, err := h.prefs.Get(userID, key)
	if errors.Is(err, repository.ErrPreferenceNotFound) {
		apierrors.NotFound(c, "Preference not found")
		return
	}
	if err != nil {
		h.logger.Error().Err(err).Str("key", key).Msg("failed to read preference")
		apierrors.InternalError(c, "Failed to read preference")
		return
	}
	if !json.Valid([]byte(value)) {
		h.logger.Warn().Str("user_id", userID).Str("key", key).Msg("ignoring malformed preference")
		apierrors.NotFound(c, "Preference not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"key":   key,
		"value": json.RawMessage(value),
	})
}

// PutPreference replaces the value with the request body
func (h *PreferenceHandler) PutPreference(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	body, err := c.GetRawData()
	if err != nil || len(body) == 0 || len(body) > maxPreferenceSize || !json.Valid(body) {
		apierrors.BadRequest(c, "Preference value must be JSON")
		return
	}

	key := c.Param("key")
	if err := h.prefs.Put(userID, key, string(body)); err != nil {
		h.logger.Error().Err(err).Str("key", key).Msg("failed to store preference")
		apierrors.InternalError(c, "Failed to store preference")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"key":   key,
		"value": json.RawMessage(body),
	})
}

// DeletePreference forgets the value
func (h *PreferenceHandler) DeletePreference(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.prefs.Delete(userID, c.Param("key")); err != nil {
		apierrors.InternalError(c, "Failed to delete preference")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Preference deleted successfully",
	})
}
