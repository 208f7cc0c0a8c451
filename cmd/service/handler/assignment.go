package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	v1 "github.com/breeew/peer-api/internal/logic/v1"
	"github.com/breeew/peer-api/internal/response"
	"github.com/breeew/peer-api/pkg/types"
	"github.com/breeew/peer-api/pkg/utils"
)

type CreateAssignmentRequest struct {
	WorkspaceID int64     `json:"workspace_id" binding:"required"`
	Name        string    `json:"name" binding:"required,max=128"`
	Description string    `json:"description"`
	StartDate   time.Time `json:"start_date" binding:"required"`
	DueDate     time.Time `json:"due_date" binding:"required"`
	Questions   []string  `json:"questions" binding:"required"`
}

type CreateAssignmentResponse struct {
	ID int64 `json:"id"`
}

func (s *HttpSrv) CreateAssignment(c *gin.Context) {
	var (
		err error
		req CreateAssignmentRequest
	)
	if err = utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	id, err := v1.NewAssignmentLogic(c, s.Core).CreateAssignment(types.CreateAssignmentArgs{
		WorkspaceID: req.WorkspaceID,
		Name:        req.Name,
		Description: req.Description,
		StartDate:   req.StartDate,
		DueDate:     req.DueDate,
		Questions:   req.Questions,
	})
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, CreateAssignmentResponse{ID: id})
}

type EditAssignmentRequest struct {
	Name        string    `json:"name" binding:"required,max=128"`
	Description string    `json:"description"`
	StartDate   time.Time `json:"start_date" binding:"required"`
	DueDate     time.Time `json:"due_date" binding:"required"`
	Questions   []string  `json:"questions"`
}

func (s *HttpSrv) EditAssignment(c *gin.Context) {
	var (
		err error
		req EditAssignmentRequest
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

	err = v1.NewAssignmentLogic(c, s.Core).EditAssignment(id, types.EditAssignmentArgs{
		Name:        req.Name,
		Description: req.Description,
		StartDate:   req.StartDate,
		DueDate:     req.DueDate,
		Questions:   req.Questions,
	})
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, nil)
}

func (s *HttpSrv) DeleteAssignment(c *gin.Context) {
	id, err := utils.ParamInt64(c, "id")
	if err != nil {
		response.APIError(c, err)
		return
	}
	if err = v1.NewAssignmentLogic(c, s.Core).DeleteAssignment(id); err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, nil)
}

func (s *HttpSrv) GetAssignment(c *gin.Context) {
	id, err := utils.ParamInt64(c, "id")
	if err != nil {
		response.APIError(c, err)
		return
	}
	detail, err := v1.NewAssignmentLogic(c, s.Core).GetAssignment(id)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, detail)
}

func (s *HttpSrv) ListAssignments(c *gin.Context) {
	workspaceID, err := utils.ParamInt64(c, "id")
	if err != nil {
		response.APIError(c, err)
		return
	}
	list, err := v1.NewAssignmentLogic(c, s.Core).ListAssignments(workspaceID)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, list)
}

func (s *HttpSrv) ActivateAssignment(c *gin.Context) {
	id, err := utils.ParamInt64(c, "id")
	if err != nil {
		response.APIError(c, err)
		return
	}
	res, err := v1.NewAssignmentLogic(c, s.Core).ActivateAssignment(id)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, res)
}
