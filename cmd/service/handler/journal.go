package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	v1 "github.com/breeew/peer-api/internal/logic/v1"
	"github.com/breeew/peer-api/internal/response"
	"github.com/breeew/peer-api/pkg/errors"
	"github.com/breeew/peer-api/pkg/i18n"
	"github.com/breeew/peer-api/pkg/types"
	"github.com/breeew/peer-api/pkg/utils"
	"github.com/breeew/peer-api/pkg/window"
)

type JournalWindowsRequest struct {
	StartDate string `json:"start_date" form:"start_date" binding:"required"`
	EndDate   string `json:"end_date" form:"end_date" binding:"required"`
	// Weekday is a day name ("monday", "mon") or 0-6 with Sunday as 0.
	Weekday   string `json:"weekday" form:"weekday" binding:"required"`
	SkipWeeks []int  `json:"skip_weeks" form:"skip_weeks"`
}

func (r JournalWindowsRequest) args() (types.CreateJournalAssignmentsArgs, error) {
	weekday, err := window.ParseWeekday(r.Weekday)
	if err != nil {
		return types.CreateJournalAssignmentsArgs{}, errors.New("JournalWindowsRequest.ParseWeekday", i18n.ERROR_INVALIDARGUMENT, err).Code(http.StatusBadRequest)
	}
	return types.CreateJournalAssignmentsArgs{
		StartDate: r.StartDate,
		EndDate:   r.EndDate,
		Weekday:   weekday,
		SkipWeeks: r.SkipWeeks,
	}, nil
}

func (s *HttpSrv) PreviewJournalWindows(c *gin.Context) {
	var (
		err error
		req JournalWindowsRequest
	)
	if err = utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	args, err := req.args()
	if err != nil {
		response.APIError(c, err)
		return
	}

	weeks, err := v1.NewJournalLogic(c, s.Core).GenerateJournalWindows(args)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, weeks)
}

func (s *HttpSrv) CreateJournalAssignments(c *gin.Context) {
	var (
		err error
		req JournalWindowsRequest
	)
	workspaceID, err := utils.ParamInt64(c, "id")
	if err != nil {
		response.APIError(c, err)
		return
	}
	if err = utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	args, err := req.args()
	if err != nil {
		response.APIError(c, err)
		return
	}

	list, err := v1.NewJournalLogic(c, s.Core).CreateJournalAssignments(workspaceID, args)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, list)
}

func (s *HttpSrv) ListJournalAssignments(c *gin.Context) {
	workspaceID, err := utils.ParamInt64(c, "id")
	if err != nil {
		response.APIError(c, err)
		return
	}
	list, err := v1.NewJournalLogic(c, s.Core).ListJournalAssignments(workspaceID)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, list)
}

func (s *HttpSrv) DeleteJournalAssignments(c *gin.Context) {
	workspaceID, err := utils.ParamInt64(c, "id")
	if err != nil {
		response.APIError(c, err)
		return
	}
	if err = v1.NewJournalLogic(c, s.Core).DeleteJournalAssignments(workspaceID); err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, nil)
}

func (s *HttpSrv) ClassifyJournalWeeks(c *gin.Context) {
	workspaceID, err := utils.ParamInt64(c, "id")
	if err != nil {
		response.APIError(c, err)
		return
	}
	res, err := v1.NewJournalLogic(c, s.Core).ClassifyWeeks(workspaceID)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, res)
}

type SubmitJournalEntryRequest struct {
	Content json.RawMessage `json:"content" binding:"required"`
}

func (s *HttpSrv) SubmitJournalEntry(c *gin.Context) {
	var (
		err error
		req SubmitJournalEntryRequest
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

	if err = v1.NewJournalLogic(c, s.Core).SubmitJournalEntry(id, req.Content); err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, nil)
}

// GetJournalEntry reads the caller's own entry unless user_id names another
// workspace member.
func (s *HttpSrv) GetJournalEntry(c *gin.Context) {
	id, err := utils.ParamInt64(c, "id")
	if err != nil {
		response.APIError(c, err)
		return
	}

	userID := queryInt64(c, "user_id")
	if userID == 0 {
		claims, _ := v1.InjectTokenClaim(c)
		userID = claims.User
	}

	entry, err := v1.NewJournalLogic(c, s.Core).GetJournalEntry(id, userID)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, entry)
}
