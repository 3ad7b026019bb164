package response_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	appErrors "github.com/shopmono/shopmono/internal/errors"
	"github.com/shopmono/shopmono/internal/utils/response"
	"github.com/stretchr/testify/assert"
)

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) response.APIResponse {
	t.Helper()

	var body response.APIResponse

	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	return body
}

func TestError_AppError(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   string
	}{
		{"Not found", appErrors.NotFoundError("Product not found"), http.StatusNotFound, appErrors.ErrCodeNotFound},
		{"Bad request", appErrors.BadRequestError("Cart is empty"), http.StatusBadRequest, appErrors.ErrCodeBadRequest},
		{"Unauthorized", appErrors.UnauthorizedError("Authentication required"), http.StatusUnauthorized, appErrors.ErrCodeUnauthorized},
		{"Duplicate maps to 400", appErrors.DuplicateEntryError("SKU exists"), http.StatusBadRequest, appErrors.ErrCodeDuplicateEntry},
		{"Database maps to 500", appErrors.DatabaseError("query failed"), http.StatusInternalServerError, appErrors.ErrCodeDatabaseError},
		{"Rate limited maps to 429", appErrors.TooManyRequestsError("Too many login attempts"), http.StatusTooManyRequests, appErrors.ErrCodeTooManyRequests},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()

			response.Error(w, tt.err)

			assert.Equal(t, tt.expectedStatus, w.Code)

			body := decodeBody(t, w)
			assert.False(t, body.Success)
			assert.Equal(t, tt.expectedCode, body.Error.Code)
		})
	}
}

func TestError_DetailIsSerialized(t *testing.T) {
	w := httptest.NewRecorder()

	response.Error(w, appErrors.TooManyRequestsError("Too many login attempts").WithDetail("Retry after 300 seconds"))

	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, []string{"Retry after 300 seconds"}, body.Error.Details)
}

func TestError_UnknownErrorDoesNotLeak(t *testing.T) {
	w := httptest.NewRecorder()

	response.Error(w, errors.New("dial tcp 10.0.0.7:27017: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	body := decodeBody(t, w)
	assert.False(t, body.Success)
	assert.Equal(t, appErrors.ErrCodeInternal, body.Error.Code)
	assert.Equal(t, "An unexpected error occurred", body.Error.Message)
	assert.NotContains(t, w.Body.String(), "10.0.0.7")
}

func TestError_WrappedCauseStaysInternal(t *testing.T) {
	w := httptest.NewRecorder()

	cause := errors.New("E11000 duplicate key error collection")
	response.Error(w, appErrors.DatabaseError("Failed to create product").WithError(cause))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "E11000")
}

func TestSuccess(t *testing.T) {
	w := httptest.NewRecorder()

	response.Success(w, http.StatusCreated, "Product created", map[string]string{"id": "p1"})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	body := decodeBody(t, w)
	assert.True(t, body.Success)
	assert.Equal(t, "Product created", body.Message)
}
