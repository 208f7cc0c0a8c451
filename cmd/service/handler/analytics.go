package handler

import (
	"github.com/gin-gonic/gin"

	v1 "github.com/breeew/peer-api/internal/logic/v1"
	"github.com/breeew/peer-api/internal/response"
	"github.com/breeew/peer-api/pkg/types"
	"github.com/breeew/peer-api/pkg/utils"
)

type RankedAveragesResponse struct {
	List []types.RankedAverage `json:"list"`
}

func (s *HttpSrv) RankedAverages(c *gin.Context) {
	var (
		err error
		req PageRequest
	)
	id, err := utils.ParamInt64(c, "id")
	if err != nil {
		response.APIError(c, err)
		return
	}
	if err = utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	list, err := v1.NewAnalyticsLogic(c, s.Core).RankedAverages(id, req.Page, req.PageSize)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, RankedAveragesResponse{List: list})
}

func (s *HttpSrv) RankedCompletion(c *gin.Context) {
	var (
		err error
		req PageRequest
	)
	id, err := utils.ParamInt64(c, "id")
	if err != nil {
		response.APIError(c, err)
		return
	}
	if err = utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	res, err := v1.NewAnalyticsLogic(c, s.Core).RankedCompletion(id, req.Page, req.PageSize)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, res)
}

func (s *HttpSrv) RecomputeAnalytics(c *gin.Context) {
	id, err := utils.ParamInt64(c, "id")
	if err != nil {
		response.APIError(c, err)
		return
	}
	targetID, err := utils.ParamInt64(c, "userid")
	if err != nil {
		response.APIError(c, err)
		return
	}
	res, err := v1.NewAnalyticsLogic(c, s.Core).Recompute(targetID, id)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, res)
}
