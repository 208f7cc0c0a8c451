package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"

	"github.com/breeew/peer-api/internal/core"
	v1 "github.com/breeew/peer-api/internal/logic/v1"
	"github.com/breeew/peer-api/internal/response"
	"github.com/breeew/peer-api/pkg/errors"
	"github.com/breeew/peer-api/pkg/i18n"
	"github.com/breeew/peer-api/pkg/security"
)

const (
	USER_ID_HEADER_KEY = "X-User-Id"
)

func I18n(core *core.Core) gin.HandlerFunc {
	return response.ProvideResponseLocalizer(core.Localizer())
}

var languageMatcher = language.NewMatcher([]language.Tag{
	language.English,
	language.SimplifiedChinese,
})

// AcceptLanguage 目前服务端支持 en: English, zh-CN: 简体中文
func AcceptLanguage() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		lang := ctx.Request.Header.Get("Accept-Language")
		if lang == "" {
			ctx.Set(v1.LANGUAGE_KEY, i18n.DEFAULT_LANG)
			return
		}

		tags, _, err := language.ParseAcceptLanguage(lang)
		if err != nil || len(tags) == 0 {
			ctx.Set(v1.LANGUAGE_KEY, i18n.DEFAULT_LANG)
			return
		}

		_, idx, _ := languageMatcher.Match(tags...)
		if idx == 1 {
			ctx.Set(v1.LANGUAGE_KEY, "zh-CN")
			return
		}
		ctx.Set(v1.LANGUAGE_KEY, i18n.DEFAULT_LANG)
	}
}

// Authorization trusts the user id forwarded by the auth gateway.
func Authorization() gin.HandlerFunc {
	tracePrefix := "middleware.Authorization"
	return func(ctx *gin.Context) {
		raw := ctx.GetHeader(USER_ID_HEADER_KEY)
		if raw == "" {
			response.APIError(ctx, errors.New(tracePrefix+".GetHeader", i18n.ERROR_UNAUTHORIZED, nil).Code(http.StatusUnauthorized))
			return
		}

		userID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || userID <= 0 {
			response.APIError(ctx, errors.New(tracePrefix+".ParseInt", i18n.ERROR_UNAUTHORIZED, err).Code(http.StatusUnauthorized))
			return
		}

		ctx.Set(v1.TOKEN_CONTEXT_KEY, security.NewTokenClaims(userID))
	}
}

func Cors(c *gin.Context) {
	method := c.Request.Method
	origin := c.Request.Header.Get("Origin")
	if origin != "" {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")
		c.Header("Access-Control-Allow-Headers", "Origin, X-Requested-With, Content-Type, Accept, Accept-Language, X-User-Id, X-Request-Id")
		c.Header("Access-Control-Expose-Headers", "Content-Length, Content-Language, Content-Type, X-Request-Id")
	}
	if method == "OPTIONS" {
		c.AbortWithStatus(http.StatusNoContent)
	}
	c.Next()
}

func UseLimit(core *core.Core, operation string, genKeyFunc func(c *gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if core.Plugins == nil {
			return
		}
		if !core.UseLimiter(genKeyFunc(c), operation, 4).Allow() {
			response.APIError(c, errors.New("middleware.limiter", i18n.ERROR_TOO_MANY_REQUESTS, nil).Code(http.StatusTooManyRequests))
		}
	}
}

// Metrics observes the latency of every matched route.
func Metrics(core *core.Core) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		core.Metrics().RequestDuration.
			WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
