package handler

import (
	"github.com/gin-gonic/gin"

	v1 "github.com/breeew/peer-api/internal/logic/v1"
	"github.com/breeew/peer-api/internal/response"
	"github.com/breeew/peer-api/pkg/types"
	"github.com/breeew/peer-api/pkg/utils"
)

type GenerateReviewsResponse struct {
	Reviews int `json:"reviews"`
}

func (s *HttpSrv) GenerateReviews(c *gin.Context) {
	id, err := utils.ParamInt64(c, "id")
	if err != nil {
		response.APIError(c, err)
		return
	}
	n, err := v1.NewReviewLogic(c, s.Core).GenerateReviews(id)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, GenerateReviewsResponse{Reviews: n})
}

func (s *HttpSrv) ListMyReviews(c *gin.Context) {
	id, err := utils.ParamInt64(c, "id")
	if err != nil {
		response.APIError(c, err)
		return
	}
	list, err := v1.NewReviewLogic(c, s.Core).GetReviewsForUser(id)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, list)
}

func (s *HttpSrv) ListTargetReviews(c *gin.Context) {
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
	list, err := v1.NewReviewLogic(c, s.Core).GetReviewsForTarget(id, targetID)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, list)
}

func (s *HttpSrv) GetReview(c *gin.Context) {
	id, err := utils.ParamInt64(c, "id")
	if err != nil {
		response.APIError(c, err)
		return
	}
	detail, err := v1.NewReviewLogic(c, s.Core).GetReview(id)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, detail)
}

type SubmitReviewRequest struct {
	Ratings     []int   `json:"ratings" binding:"required"`
	QuestionIDs []int64 `json:"question_ids"`
	Comment     *string `json:"comment" binding:"omitempty,max=4096"`
}

func (s *HttpSrv) SubmitReview(c *gin.Context) {
	var (
		err error
		req SubmitReviewRequest
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

	err = v1.NewReviewLogic(c, s.Core).SubmitReview(id, types.SubmitReviewArgs{
		Ratings:     req.Ratings,
		QuestionIDs: req.QuestionIDs,
		Comment:     req.Comment,
	})
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, nil)
}
