package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/feedoffice/backend/internal/domain/shared"
	"github.com/feedoffice/backend/internal/interfaces/http/dto"
	"github.com/feedoffice/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestBaseHandler_HandleError(t *testing.T) {
	h := &BaseHandler{}

	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantCode    string
		wantMessage string
	}{
		{
			name:        "not found code maps to 404",
			err:         shared.NewDomainError(shared.CodeOrderNotFound, "Order not found"),
			wantStatus:  http.StatusNotFound,
			wantCode:    shared.CodeOrderNotFound,
			wantMessage: "Order not found",
		},
		{
			name:        "wrapped domain error keeps its code",
			err:         fmt.Errorf("dispatch: %w", shared.ErrInsufficientStock.WithMessage("Only 3 bags left")),
			wantStatus:  http.StatusBadRequest,
			wantCode:    shared.CodeInsufficientStock,
			wantMessage: "Only 3 bags left",
		},
		{
			name:        "exists suffix maps to 409",
			err:         shared.NewDomainError(shared.CodeRawMaterialExists, "Raw material already exists"),
			wantStatus:  http.StatusConflict,
			wantCode:    shared.CodeRawMaterialExists,
			wantMessage: "Raw material already exists",
		},
		{
			name:        "unknown domain code is masked",
			err:         shared.NewDomainError("LEDGER_CORRUPT", "balance row missing for maize"),
			wantStatus:  http.StatusInternalServerError,
			wantCode:    dto.ErrCodeInternal,
			wantMessage: dto.InternalErrorMessage,
		},
		{
			name:        "plain error is masked",
			err:         errors.New("pq: connection refused"),
			wantStatus:  http.StatusInternalServerError,
			wantCode:    dto.ErrCodeInternal,
			wantMessage: dto.InternalErrorMessage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
			c.Set("request_id", "req-42")

			h.HandleError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			resp := decodeResponse(t, w)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			assert.Equal(t, tt.wantMessage, resp.Error.Message)
			assert.Equal(t, "req-42", resp.Error.RequestID)
			assert.NotContains(t, w.Body.String(), "connection refused")
		})
	}

	t.Run("nil error writes nothing", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

		h.HandleError(c, nil)

		assert.False(t, c.Writer.Written())
	})
}

func TestBaseHandler_PathID(t *testing.T) {
	h := &BaseHandler{}
	serve := func(path string) (*httptest.ResponseRecorder, uuid.UUID, bool) {
		var (
			got uuid.UUID
			ok  bool
		)
		r := gin.New()
		r.GET("/orders/:id", func(c *gin.Context) {
			got, ok = h.pathID(c, "id")
			if ok {
				c.Status(http.StatusNoContent)
			}
		})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		return w, got, ok
	}

	t.Run("valid uuid", func(t *testing.T) {
		id := uuid.New()
		w, got, ok := serve("/orders/" + id.String())
		assert.True(t, ok)
		assert.Equal(t, id, got)
		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("malformed uuid is a validation error", func(t *testing.T) {
		w, got, ok := serve("/orders/not-a-uuid")
		assert.False(t, ok)
		assert.Equal(t, uuid.Nil, got)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		resp := decodeResponse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		require.Len(t, resp.Error.Details, 1)
		assert.Equal(t, "id", resp.Error.Details[0].Field)
		assert.Equal(t, "Invalid UUID format", resp.Error.Details[0].Message)
	})
}

func TestBaseHandler_QueryID(t *testing.T) {
	h := &BaseHandler{}
	run := func(target string) (*httptest.ResponseRecorder, *uuid.UUID, bool) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, target, nil)
		var dst *uuid.UUID
		ok := h.queryID(c, "customer_id", &dst)
		return w, dst, ok
	}

	_, dst, ok := run("/orders")
	assert.True(t, ok)
	assert.Nil(t, dst)

	id := uuid.New()
	_, dst, ok = run("/orders?customer_id=" + id.String())
	assert.True(t, ok)
	require.NotNil(t, dst)
	assert.Equal(t, id, *dst)

	w, _, ok := run("/orders?customer_id=42")
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBaseHandler_AdminID(t *testing.T) {
	h := &BaseHandler{}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := h.adminID(c)
	assert.False(t, ok)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	id := uuid.New()
	c, _ = gin.CreateTestContext(httptest.NewRecorder())
	c.Set(middleware.JWTUserIDKey, id.String())
	got, ok := h.adminID(c)
	assert.True(t, ok)
	assert.Equal(t, id, got)
}
