package response_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/breeew/peer-api/internal/response"
	"github.com/breeew/peer-api/pkg/errors"
	"github.com/breeew/peer-api/pkg/i18n"
)

func newEngine(h gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	e := gin.New()
	e.Use(response.NewResponse(), response.ProvideResponseLocalizer(i18n.NewLocalizer("en", "zh-CN")))
	e.GET("/", h)
	return e
}

func do(t *testing.T, e *gin.Engine, lang string) (*httptest.ResponseRecorder, response.Body) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", lang)
	req.Header.Set(response.REQUEST_ID_HEADER_KEY, "req-1")
	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)

	var body response.Body
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestAPISuccess(t *testing.T) {
	e := newEngine(func(c *gin.Context) {
		response.APISuccess(c, map[string]int{"n": 1})
	})
	w, body := do(t, e, "en")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "req-1", body.Meta.RequestID)
	assert.Equal(t, "req-1", w.Header().Get(response.REQUEST_ID_HEADER_KEY))
	assert.Equal(t, map[string]any{"n": float64(1)}, body.Data)
}

func TestAPIErrorLocalizesMessage(t *testing.T) {
	e := newEngine(func(c *gin.Context) {
		response.APIError(c, errors.New("test", i18n.ERROR_WINDOW_NOT_OPEN, nil).Code(http.StatusForbidden))
	})
	w, body := do(t, e, "en")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, http.StatusForbidden, body.Meta.Code)
	assert.Equal(t, "Not currently active", body.Meta.Message)
}

func TestAPIErrorHidesInternalDetails(t *testing.T) {
	e := newEngine(func(c *gin.Context) {
		response.APIError(c, errors.New("test", i18n.ERROR_INTERNAL, assert.AnError))
	})
	w, body := do(t, e, "en")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Internal server error", body.Meta.Message)
	assert.NotContains(t, w.Body.String(), assert.AnError.Error())
}

func TestAPIErrorPlainError(t *testing.T) {
	e := newEngine(func(c *gin.Context) {
		response.APIError(c, assert.AnError)
	})
	w, body := do(t, e, "en")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Internal server error", body.Meta.Message)
}
