package i18n

var ALLOW_LANG = map[string]bool{
	"en":    true,
	"zh-CN": true,
}

const DEFAULT_LANG = "en"

const (
	ERROR_INTERNAL          = "error.internal"
	ERROR_NOTFOUND          = "error.notfound"
	ERROR_INVALIDARGUMENT   = "error.invalidargument"
	ERROR_PERMISSION_DENIED = "error.permission.denied"
	ERROR_UNAUTHORIZED      = "error.unauthorized"
	ERROR_EXIST             = "error.exist"
	ERROR_FORBIDDEN         = "error.forbidden"
	ERROR_TOO_MANY_REQUESTS = "error.tooManyRequests"

	ERROR_WINDOW_NOT_OPEN       = "error.window.notopen"
	ERROR_RATING_COUNT_MISMATCH = "error.rating.count.mismatch"
	ERROR_RATING_OUT_OF_RANGE   = "error.rating.outofrange"
	ERROR_INVALID_DATE          = "error.invalid.date"
	ERROR_ALREADY_STARTED       = "error.assignment.started"
)
