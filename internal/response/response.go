package response

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/breeew/peer-api/pkg/errors"
	"github.com/breeew/peer-api/pkg/i18n"
	"github.com/breeew/peer-api/pkg/utils"
)

const (
	LOCALIZER_KEY  = "__peer.response.localizer"
	REQUEST_ID_KEY = "__peer.request_id"

	REQUEST_ID_HEADER_KEY = "X-Request-Id"
)

type Meta struct {
	Code      int    `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
}

type Body struct {
	Meta Meta `json:"meta"`
	Data any  `json:"data"`
}

// NewResponse tags every request with an id echoed in the response meta.
func NewResponse() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(REQUEST_ID_HEADER_KEY)
		if requestID == "" {
			requestID = utils.GenSpecIDStr()
		}
		c.Set(REQUEST_ID_KEY, requestID)
		c.Header(REQUEST_ID_HEADER_KEY, requestID)
	}
}

func ProvideResponseLocalizer(l *i18n.Localizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(LOCALIZER_KEY, l)
	}
}

func localize(c *gin.Context, id string) string {
	val, exist := c.Get(LOCALIZER_KEY)
	if !exist {
		return id
	}
	l, ok := val.(*i18n.Localizer)
	if !ok || l == nil {
		return id
	}
	return l.Message(c.GetHeader("Accept-Language"), id)
}

func APISuccess(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Body{
		Meta: Meta{
			Code:      http.StatusOK,
			Message:   "success",
			RequestID: c.GetString(REQUEST_ID_KEY),
		},
		Data: data,
	})
}

// APIError aborts the request with the localized message of err. Only the
// i18n key reaches the client, internal details go to the log.
func APIError(c *gin.Context, err error) {
	code := errors.HttpCode(err)
	msg := i18n.ERROR_INTERNAL

	var ce *errors.CustomizedError
	if errors.As(err, &ce) && ce.Message() != "" {
		msg = ce.Message()
	}

	if code >= http.StatusInternalServerError {
		slog.Error("request failed",
			slog.String("component", "response.APIError"),
			slog.String("method", c.Request.Method),
			slog.String("path", c.FullPath()),
			slog.String("request_id", c.GetString(REQUEST_ID_KEY)),
			slog.String("error", err.Error()))
	} else {
		slog.Debug("request rejected",
			slog.String("component", "response.APIError"),
			slog.String("path", c.FullPath()),
			slog.Int("code", code),
			slog.String("error", err.Error()))
	}

	c.AbortWithStatusJSON(code, Body{
		Meta: Meta{
			Code:      code,
			Message:   localize(c, msg),
			RequestID: c.GetString(REQUEST_ID_KEY),
		},
	})
}
