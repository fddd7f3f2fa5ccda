package errors

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/taskboard-api/internal/constants"
	"github.com/yukikurage/taskboard-api/internal/i18n"
	"github.com/yukikurage/taskboard-api/internal/store"
)

// Localized resolves key through the translator attached to the request,
// or returns fallback when there is none.
func Localized(c *gin.Context, key, fallback string, params map[string]string) string {
	v, ok := c.Get(constants.ContextKeyTranslator)
	if !ok {
		return fallback
	}
	tr, ok := v.(*i18n.Translator)
	if !ok {
		return fallback
	}
	return tr.T(c.GetString(constants.ContextKeyLanguage), key, params)
}

// FromDomain maps store errors onto the API envelope. It reports whether
// err was one of them; unknown errors become a 500.
func FromDomain(c *gin.Context, err error) bool {
	var verr *store.ValidationError
	switch {
	case errors.As(err, &verr):
		msg := Localized(c, "errors.invalidInput", verr.Error(), map[string]string{
			"field":   verr.Field,
			"message": verr.Message,
		})
		RespondWithError(c, http.StatusBadRequest, NewAPIErrorWithDetails(ErrCodeInvalidInput, msg, gin.H{
			"field": verr.Field,
		}))
	case errors.Is(err, store.ErrNotFound):
		NotFound(c, Localized(c, "errors.notFound", "", nil))
	case errors.Is(err, store.ErrForbidden):
		Forbidden(c, Localized(c, "errors.forbidden", "", nil))
	case errors.Is(err, store.ErrNoAvailableColumn):
		Conflict(c, Localized(c, "errors.noAvailableColumn", "Target board has no active column", nil))
	default:
		InternalError(c, Localized(c, "errors.internal", "", nil))
		return false
	}
	return true
}
