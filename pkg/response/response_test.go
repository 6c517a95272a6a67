package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/linskybing/orgflow/pkg/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusOf(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, StatusOf(apperrors.Validation("bad")))
	assert.Equal(t, http.StatusBadRequest, StatusOf(apperrors.InvalidState("done")))
	assert.Equal(t, http.StatusNotFound, StatusOf(apperrors.NotFound("route", 1)))
	assert.Equal(t, http.StatusForbidden, StatusOf(apperrors.Forbidden("no")))
	assert.Equal(t, http.StatusUnauthorized, StatusOf(apperrors.Unauthenticated("who")))
	assert.Equal(t, http.StatusInternalServerError, StatusOf(errors.New("db down")))
}

func TestError_HidesInternalDetails(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	Error(c, apperrors.Internal(errors.New("pq: password authentication failed"), "failed to load"))

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "internal server error", body.Error)
}

func TestError_ValidationDetails(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)

	Error(c, apperrors.Validation("", "Amount is required", "Title must be a string"))

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Amount is required; Title must be a string", body.Error)
	assert.Equal(t, []string{"Amount is required", "Title must be a string"}, body.Details)
}
