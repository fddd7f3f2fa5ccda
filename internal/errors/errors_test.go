package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yukikurage/taskboard-api/internal/constants"
	"github.com/yukikurage/taskboard-api/internal/i18n"
	"github.com/yukikurage/taskboard-api/internal/store"
)

func respondDomain(t *testing.T, err error, lang string) (*httptest.ResponseRecorder, APIError) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	tr, trErr := i18n.New("en")
	require.NoError(t, trErr)
	c.Set(constants.ContextKeyTranslator, tr)
	c.Set(constants.ContextKeyLanguage, lang)

	FromDomain(c, err)

	var body APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestFromDomain(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{&store.ValidationError{Field: "title", Message: "is required"}, http.StatusBadRequest, ErrCodeInvalidInput},
		{fmt.Errorf("wrapped: %w", store.ErrNotFound), http.StatusNotFound, ErrCodeNotFound},
		{store.ErrForbidden, http.StatusForbidden, ErrCodeForbidden},
		{store.ErrNoAvailableColumn, http.StatusConflict, ErrCodeConflict},
		{fmt.Errorf("disk on fire"), http.StatusInternalServerError, ErrCodeInternalError},
	}
	for _, tc := range cases {
		w, body := respondDomain(t, tc.err, "en")
		assert.Equal(t, tc.status, w.Code, tc.err.Error())
		assert.Equal(t, tc.code, body.Code)
	}
}

func TestFromDomain_Localized(t *testing.T) {
	_, body := respondDomain(t, store.ErrForbidden, "fa")
	assert.Equal(t, "شما اجازه انجام این کار را ندارید", body.Message)

	_, body = respondDomain(t, &store.ValidationError{Field: "title", Message: "is required"}, "en")
	assert.Equal(t, "Invalid input: title is required", body.Message)
}

func TestHelpers_DefaultMessages(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		send    func(*gin.Context, string)
		status  int
		code    string
		message string
	}{
		{Unauthorized, http.StatusUnauthorized, ErrCodeUnauthorized, "Authentication required"},
		{NotFound, http.StatusNotFound, ErrCodeNotFound, "Resource not found"},
		{Unprocessable, http.StatusUnprocessableEntity, ErrCodeInvalidInput, "Request could not be processed"},
		{ServiceUnavailable, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Service temporarily unavailable"},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		tc.send(c, "")

		var body APIError
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, tc.status, w.Code)
		assert.Equal(t, tc.code, body.Code)
		assert.Equal(t, tc.message, body.Message)
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	Conflict(c, "email already registered")
	assert.Contains(t, w.Body.String(), "email already registered")
}
