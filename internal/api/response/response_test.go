package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "github.com/devcred/devcred-backend/internal/errors"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContext() (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestSuccess(t *testing.T) {
	c, rec := newTestContext()

	err := Success(c, map[string]string{"username": "alice"})
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.NotNil(t, body["data"])
}

func TestCreated(t *testing.T) {
	c, rec := newTestContext()

	err := Created(c, map[string]string{"id": "1"})
	require.NoError(t, err)

	assert.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
}

func TestPaginated(t *testing.T) {
	c, rec := newTestContext()

	err := Paginated(c, []string{"a", "b"}, 42, 20, 0)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	meta := body["meta"].(map[string]interface{})
	assert.Equal(t, float64(42), meta["total"])
	assert.Equal(t, float64(20), meta["limit"])
	assert.Equal(t, float64(0), meta["offset"])
}

func TestError_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", apperrors.ErrNotFound, http.StatusNotFound, apperrors.CodeNotFound},
		{"duplicate", apperrors.ErrDuplicateEntry, http.StatusConflict, apperrors.CodeDuplicateEntry},
		{"invalid input", apperrors.ErrInvalidInput, http.StatusBadRequest, apperrors.CodeInvalidInput},
		{"self request", apperrors.ErrSelfRequest, http.StatusBadRequest, apperrors.CodeInvalidInput},
		{"unauthorized", apperrors.ErrUnauthorized, http.StatusUnauthorized, apperrors.CodeUnauthorized},
		{"forbidden", apperrors.ErrForbidden, http.StatusForbidden, apperrors.CodeForbidden},
		{"no grant", apperrors.ErrNoGrant, http.StatusForbidden, apperrors.CodePermissionDenied},
		{"internal", apperrors.ErrInternal, http.StatusInternalServerError, apperrors.CodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newTestContext()

			err := Error(c, tt.err)
			require.NoError(t, err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decodeBody(t, rec)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.wantCode, body["code"])
		})
	}
}

func TestBadRequest(t *testing.T) {
	c, rec := newTestContext()

	err := BadRequest(c, "invalid payload")
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "invalid payload", body["error"])
	assert.Equal(t, apperrors.CodeInvalidInput, body["code"])
}

func TestUnauthorized(t *testing.T) {
	c, rec := newTestContext()

	err := Unauthorized(c, "missing token")
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, apperrors.CodeUnauthorized, body["code"])
}

func TestForbidden(t *testing.T) {
	c, rec := newTestContext()

	err := Forbidden(c, "not the recipient")
	require.NoError(t, err)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, apperrors.CodeForbidden, body["code"])
}

func TestConflict(t *testing.T) {
	c, rec := newTestContext()

	err := Conflict(c, "request already exists")
	require.NoError(t, err)

	assert.Equal(t, http.StatusConflict, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, apperrors.CodeDuplicateEntry, body["code"])
}

func TestNoContent(t *testing.T) {
	c, rec := newTestContext()

	err := NoContent(c)
	require.NoError(t, err)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}
