package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/breeew/peer-api/internal/core"
)

type HttpSrv struct {
	Core   *core.Core
	Engine *gin.Engine
}

type PageRequest struct {
	Page     int `form:"page"`
	PageSize int `form:"pagesize"`
}

// queryInt64 reads an optional numeric query value, 0 when absent or invalid.
func queryInt64(c *gin.Context, key string) int64 {
	v, _ := strconv.ParseInt(c.Query(key), 10, 64)
	return v
}
