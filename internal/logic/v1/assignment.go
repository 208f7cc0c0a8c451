package v1

import (
	"context"
	"net/http"
	"strings"

	"github.com/samber/lo"

	"github.com/breeew/peer-api/internal/core"
	"github.com/breeew/peer-api/internal/core/srv"
	"github.com/breeew/peer-api/pkg/errors"
	"github.com/breeew/peer-api/pkg/i18n"
	"github.com/breeew/peer-api/pkg/types"
	"github.com/breeew/peer-api/pkg/utils"
)

type AssignmentLogic struct {
	ctx  context.Context
	core *core.Core
	UserInfo
}

func NewAssignmentLogic(ctx context.Context, core *core.Core) *AssignmentLogic {
	return &AssignmentLogic{
		ctx:      ctx,
		core:     core,
		UserInfo: setupUserInfo(ctx, core),
	}
}

func validateAssignment(trace string, args types.Assignment, questions []string, requireQuestions bool) error {
	if strings.TrimSpace(args.Name) == "" {
		return errors.New(trace+".Name", i18n.ERROR_INVALIDARGUMENT, nil).Code(http.StatusBadRequest)
	}
	if args.StartDate.IsZero() || !args.DueDate.After(args.StartDate) {
		return errors.New(trace+".DueDate", i18n.ERROR_INVALID_DATE, nil).Code(http.StatusBadRequest)
	}
	if requireQuestions && len(questions) == 0 {
		return errors.New(trace+".Questions", i18n.ERROR_INVALIDARGUMENT, nil).Code(http.StatusBadRequest)
	}
	for _, q := range questions {
		if strings.TrimSpace(q) == "" {
			return errors.New(trace+".Questions", i18n.ERROR_INVALIDARGUMENT, nil).Code(http.StatusBadRequest)
		}
	}
	return nil
}

func buildQuestions(assignmentID int64, questions []string) []types.Question {
	return lo.Map(questions, func(item string, i int) types.Question {
		return types.Question{
			ID:           utils.GenSpecID(),
			AssignmentID: assignmentID,
			Ordinal:      i + 1,
			Question:     strings.TrimSpace(item),
		}
	})
}

func (l *AssignmentLogic) CreateAssignment(args types.CreateAssignmentArgs) (int64, error) {
	if err := l.Identification(args.WorkspaceID, nil, srv.PermissionManage); err != nil {
		return 0, err
	}

	data := types.Assignment{
		ID:          utils.GenSpecID(),
		WorkspaceID: args.WorkspaceID,
		Name:        strings.TrimSpace(args.Name),
		Description: args.Description,
		StartDate:   args.StartDate,
		DueDate:     args.DueDate,
		CreatedAt:   l.core.Now(),
	}
	if err := validateAssignment("AssignmentLogic.CreateAssignment", data, args.Questions, true); err != nil {
		return 0, err
	}

	err := l.core.Store().Transaction(l.ctx, func(ctx context.Context) error {
		if err := l.core.Store().AssignmentStore().Create(ctx, data); err != nil {
			return errors.New("AssignmentLogic.CreateAssignment.AssignmentStore.Create", i18n.ERROR_INTERNAL, err)
		}
		if err := l.core.Store().QuestionStore().BatchCreate(ctx, buildQuestions(data.ID, args.Questions)); err != nil {
			return errors.New("AssignmentLogic.CreateAssignment.QuestionStore.BatchCreate", i18n.ERROR_INTERNAL, err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return data.ID, nil
}

func (l *AssignmentLogic) getAssignment(trace string, id int64) (*types.Assignment, error) {
	assignment, err := l.core.Store().AssignmentStore().Get(l.ctx, id)
	if err != nil {
		return nil, storeError(trace+".AssignmentStore.Get", err)
	}
	return assignment, nil
}

// EditAssignment updates the assignment fields. Questions are only replaced
// when given, and only while the assignment has neither started nor any
// review generated.
func (l *AssignmentLogic) EditAssignment(id int64, args types.EditAssignmentArgs) error {
	assignment, err := l.getAssignment("AssignmentLogic.EditAssignment", id)
	if err != nil {
		return err
	}
	if err = l.Identification(assignment.WorkspaceID, nil, srv.PermissionManage); err != nil {
		return err
	}

	data := types.Assignment{
		Name:        strings.TrimSpace(args.Name),
		Description: args.Description,
		StartDate:   args.StartDate,
		DueDate:     args.DueDate,
	}
	if err = validateAssignment("AssignmentLogic.EditAssignment", data, args.Questions, args.Questions != nil); err != nil {
		return err
	}
	if args.Questions != nil && assignment.Started {
		return errors.New("AssignmentLogic.EditAssignment.Started", i18n.ERROR_ALREADY_STARTED, nil).Code(http.StatusBadRequest)
	}

	return l.core.Store().Transaction(l.ctx, func(ctx context.Context) error {
		if err := l.core.Store().AssignmentStore().Update(ctx, id, data); err != nil {
			return errors.New("AssignmentLogic.EditAssignment.AssignmentStore.Update", i18n.ERROR_INTERNAL, err)
		}
		if args.Questions == nil {
			return nil
		}
		// ratings point at questions, so the set is frozen once reviews exist
		reviews, err := l.core.Store().ReviewStore().CountByAssignment(ctx, id)
		if err != nil {
			return errors.New("AssignmentLogic.EditAssignment.ReviewStore.CountByAssignment", i18n.ERROR_INTERNAL, err)
		}
		if reviews > 0 {
			return errors.New("AssignmentLogic.EditAssignment.ReviewsExist", i18n.ERROR_ALREADY_STARTED, nil).Code(http.StatusBadRequest)
		}
		if err := l.core.Store().QuestionStore().DeleteByAssignment(ctx, id); err != nil {
			return errors.New("AssignmentLogic.EditAssignment.QuestionStore.DeleteByAssignment", i18n.ERROR_INTERNAL, err)
		}
		if err := l.core.Store().QuestionStore().BatchCreate(ctx, buildQuestions(id, args.Questions)); err != nil {
			return errors.New("AssignmentLogic.EditAssignment.QuestionStore.BatchCreate", i18n.ERROR_INTERNAL, err)
		}
		return nil
	})
}

// DeleteAssignment removes the assignment together with its questions,
// reviews, ratings and analytics.
func (l *AssignmentLogic) DeleteAssignment(id int64) error {
	assignment, err := l.getAssignment("AssignmentLogic.DeleteAssignment", id)
	if err != nil {
		return err
	}
	if err = l.Identification(assignment.WorkspaceID, nil, srv.PermissionManage); err != nil {
		return err
	}

	return l.core.Store().Transaction(l.ctx, func(ctx context.Context) error {
		if err := l.core.Store().AnalyticsStore().DeleteByAssignment(ctx, id); err != nil {
			return errors.New("AssignmentLogic.DeleteAssignment.AnalyticsStore.DeleteByAssignment", i18n.ERROR_INTERNAL, err)
		}
		if err := l.core.Store().ReviewStore().DeleteByAssignment(ctx, id); err != nil {
			return errors.New("AssignmentLogic.DeleteAssignment.ReviewStore.DeleteByAssignment", i18n.ERROR_INTERNAL, err)
		}
		if err := l.core.Store().AssignmentStore().Delete(ctx, id); err != nil {
			return errors.New("AssignmentLogic.DeleteAssignment.AssignmentStore.Delete", i18n.ERROR_INTERNAL, err)
		}
		return nil
	})
}

func (l *AssignmentLogic) GetAssignment(id int64) (*types.AssignmentDetail, error) {
	assignment, err := l.getAssignment("AssignmentLogic.GetAssignment", id)
	if err != nil {
		return nil, err
	}
	if err = l.Identification(assignment.WorkspaceID, nil, srv.PermissionView); err != nil {
		return nil, err
	}

	questions, err := l.core.Store().QuestionStore().ListByAssignment(l.ctx, id)
	if err != nil {
		return nil, errors.New("AssignmentLogic.GetAssignment.QuestionStore.ListByAssignment", i18n.ERROR_INTERNAL, err)
	}
	return &types.AssignmentDetail{
		Assignment: *assignment,
		Questions:  questions,
	}, nil
}

func (l *AssignmentLogic) ListAssignments(workspaceID int64) ([]types.Assignment, error) {
	if err := l.Identification(workspaceID, nil, srv.PermissionView); err != nil {
		return nil, err
	}
	list, err := l.core.Store().AssignmentStore().ListByWorkspace(l.ctx, workspaceID)
	if err != nil {
		return nil, errors.New("AssignmentLogic.ListAssignments.AssignmentStore.ListByWorkspace", i18n.ERROR_INTERNAL, err)
	}
	return list, nil
}

// ActivateAssignment starts the assignment right away instead of waiting for
// the activation trigger.
func (l *AssignmentLogic) ActivateAssignment(id int64) (ActivationResult, error) {
	assignment, err := l.getAssignment("AssignmentLogic.ActivateAssignment", id)
	if err != nil {
		return ActivationResult{}, err
	}
	if err = l.Identification(assignment.WorkspaceID, nil, srv.PermissionManage); err != nil {
		return ActivationResult{}, err
	}
	if assignment.Started {
		return ActivationResult{}, errors.New("AssignmentLogic.ActivateAssignment.Started", i18n.ERROR_ALREADY_STARTED, nil).Code(http.StatusConflict)
	}

	res, err := ActivateAssignment(l.ctx, l.core, id)
	if err != nil {
		return ActivationResult{}, errors.Trace("AssignmentLogic.ActivateAssignment", err)
	}
	if !res.Activated {
		return res, errors.New("AssignmentLogic.ActivateAssignment.MarkStarted", i18n.ERROR_ALREADY_STARTED, nil).Code(http.StatusConflict)
	}
	return res, nil
}
