package v1

import (
	"database/sql"
	"net/http"

	"github.com/breeew/peer-api/pkg/errors"
	"github.com/breeew/peer-api/pkg/i18n"
)

const (
	DEFAULT_PAGE_SIZE = 10
	MAX_PAGE_SIZE     = 100
)

// normalizePage treats page < 1 as the first page and clamps perPage.
func normalizePage(page, perPage int) (uint64, uint64) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = DEFAULT_PAGE_SIZE
	}
	if perPage > MAX_PAGE_SIZE {
		perPage = MAX_PAGE_SIZE
	}
	return uint64(page), uint64(perPage)
}

// storeError turns sql.ErrNoRows into a 404, everything else is internal.
func storeError(trace string, err error) error {
	if err == sql.ErrNoRows {
		return errors.New(trace, i18n.ERROR_NOTFOUND, nil).Code(http.StatusNotFound)
	}
	return errors.New(trace, i18n.ERROR_INTERNAL, err)
}
