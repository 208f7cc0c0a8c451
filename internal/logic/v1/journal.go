package v1

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/samber/lo"

	"github.com/breeew/peer-api/internal/core"
	"github.com/breeew/peer-api/internal/core/srv"
	"github.com/breeew/peer-api/internal/store"
	"github.com/breeew/peer-api/pkg/errors"
	"github.com/breeew/peer-api/pkg/i18n"
	"github.com/breeew/peer-api/pkg/types"
	"github.com/breeew/peer-api/pkg/utils"
	"github.com/breeew/peer-api/pkg/window"
)

type JournalLogic struct {
	ctx  context.Context
	core *core.Core
	UserInfo
}

func NewJournalLogic(ctx context.Context, core *core.Core) *JournalLogic {
	return &JournalLogic{
		ctx:      ctx,
		core:     core,
		UserInfo: setupUserInfo(ctx, core),
	}
}

// GenerateJournalWindows previews the weekly windows without storing them.
func (l *JournalLogic) GenerateJournalWindows(args types.CreateJournalAssignmentsArgs) ([]window.Week, error) {
	weeks, err := window.GenerateWeekly(args.StartDate, args.EndDate, args.Weekday, args.SkipWeeks, l.core.Cfg().Journal.Location())
	if err != nil {
		return nil, errors.New("JournalLogic.GenerateJournalWindows.GenerateWeekly", i18n.ERROR_INVALID_DATE, err).Code(http.StatusBadRequest)
	}
	return weeks, nil
}

func (l *JournalLogic) CreateJournalAssignments(workspaceID int64, args types.CreateJournalAssignmentsArgs) ([]types.JournalAssignment, error) {
	if err := l.Identification(workspaceID, nil, srv.PermissionManage); err != nil {
		return nil, err
	}

	weeks, err := l.GenerateJournalWindows(args)
	if err != nil {
		return nil, errors.Trace("JournalLogic.CreateJournalAssignments", err)
	}

	list := lo.Map(weeks, func(item window.Week, _ int) types.JournalAssignment {
		return types.JournalAssignment{
			ID:          utils.GenSpecID(),
			WorkspaceID: workspaceID,
			Name:        fmt.Sprintf("Week %d", item.Number),
			WeekNumber:  item.Number,
			StartDate:   item.Start,
			EndDate:     item.End,
		}
	})

	err = l.core.Store().Transaction(l.ctx, func(ctx context.Context) error {
		exist, err := l.core.Store().JournalAssignmentStore().ListByWorkspace(ctx, workspaceID)
		if err != nil {
			return errors.New("JournalLogic.CreateJournalAssignments.JournalAssignmentStore.ListByWorkspace", i18n.ERROR_INTERNAL, err)
		}
		if len(exist) > 0 {
			return errors.New("JournalLogic.CreateJournalAssignments.Exist", i18n.ERROR_EXIST, nil).Code(http.StatusConflict)
		}
		if len(list) == 0 {
			return nil
		}
		if err = l.core.Store().JournalAssignmentStore().BatchCreate(ctx, list); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				return errors.New("JournalLogic.CreateJournalAssignments.JournalAssignmentStore.BatchCreate", i18n.ERROR_EXIST, err).Code(http.StatusConflict)
			}
			return errors.New("JournalLogic.CreateJournalAssignments.JournalAssignmentStore.BatchCreate", i18n.ERROR_INTERNAL, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (l *JournalLogic) ListJournalAssignments(workspaceID int64) ([]types.JournalAssignment, error) {
	if err := l.Identification(workspaceID, nil, srv.PermissionView); err != nil {
		return nil, err
	}
	list, err := l.core.Store().JournalAssignmentStore().ListByWorkspace(l.ctx, workspaceID)
	if err != nil {
		return nil, errors.New("JournalLogic.ListJournalAssignments.JournalAssignmentStore.ListByWorkspace", i18n.ERROR_INTERNAL, err)
	}
	return list, nil
}

// DeleteJournalAssignments drops every journal week of the workspace and the
// entries written for them.
func (l *JournalLogic) DeleteJournalAssignments(workspaceID int64) error {
	if err := l.Identification(workspaceID, nil, srv.PermissionManage); err != nil {
		return err
	}
	if err := l.core.Store().JournalAssignmentStore().DeleteByWorkspace(l.ctx, workspaceID); err != nil {
		return errors.New("JournalLogic.DeleteJournalAssignments.JournalAssignmentStore.DeleteByWorkspace", i18n.ERROR_INTERNAL, err)
	}
	return nil
}

func (l *JournalLogic) ClassifyWeeks(workspaceID int64) (types.WeekClassification, error) {
	list, err := l.ListJournalAssignments(workspaceID)
	if err != nil {
		return types.WeekClassification{}, err
	}

	weeks := lo.Map(list, func(item types.JournalAssignment, _ int) window.Week {
		return window.Week{
			Number: item.WeekNumber,
			Start:  item.StartDate,
			End:    item.EndDate,
		}
	})
	past, current, future := window.Classify(l.core.Now(), weeks)
	return types.WeekClassification{
		Past:    past,
		Current: current,
		Future:  future,
	}, nil
}

// SubmitJournalEntry stores the caller's entry, replacing an earlier one,
// while the week is open.
func (l *JournalLogic) SubmitJournalEntry(journalAssignmentID int64, content json.RawMessage) error {
	ja, err := l.core.Store().JournalAssignmentStore().Get(l.ctx, journalAssignmentID)
	if err != nil {
		return storeError("JournalLogic.SubmitJournalEntry.JournalAssignmentStore.Get", err)
	}
	if err = l.Identification(ja.WorkspaceID, nil, srv.PermissionReview); err != nil {
		return err
	}

	now := l.core.Now()
	if !window.IsOpen(now, ja.StartDate, ja.EndDate) {
		return errors.New("JournalLogic.SubmitJournalEntry.Window", i18n.ERROR_WINDOW_NOT_OPEN, nil).Code(http.StatusForbidden)
	}
	if len(content) == 0 || !json.Valid(content) {
		return errors.New("JournalLogic.SubmitJournalEntry.Content", i18n.ERROR_INVALIDARGUMENT, nil).Code(http.StatusBadRequest)
	}

	err = l.core.Store().JournalEntryStore().Upsert(l.ctx, types.JournalEntry{
		JournalAssignmentID: ja.ID,
		UserID:              l.GetUserInfo().User,
		Content:             types.JournalContent(content),
		SubmittedAt:         now,
	})
	if err != nil {
		return errors.New("JournalLogic.SubmitJournalEntry.JournalEntryStore.Upsert", i18n.ERROR_INTERNAL, err)
	}
	return nil
}

// GetJournalEntry returns the entry of userID, readable by its author and by
// instructors, with a markdown rendering of the editor blocks.
func (l *JournalLogic) GetJournalEntry(journalAssignmentID, userID int64) (*types.JournalEntryDetail, error) {
	ja, err := l.core.Store().JournalAssignmentStore().Get(l.ctx, journalAssignmentID)
	if err != nil {
		return nil, storeError("JournalLogic.GetJournalEntry.JournalAssignmentStore.Get", err)
	}
	if err = l.Identification(ja.WorkspaceID, srv.NewFixedRoler(userID), srv.PermissionManage); err != nil {
		return nil, err
	}

	entry, err := l.core.Store().JournalEntryStore().Get(l.ctx, journalAssignmentID, userID)
	if err != nil {
		return nil, storeError("JournalLogic.GetJournalEntry.JournalEntryStore.Get", err)
	}

	detail := &types.JournalEntryDetail{JournalEntry: *entry}
	if detail.Markdown, err = utils.ConvertEditorJSBlocksToMarkdown(json.RawMessage(entry.Content)); err != nil {
		slog.Warn("failed to render journal entry", slog.String("component", "JournalLogic.GetJournalEntry"),
			slog.Int64("journal_assignment_id", journalAssignmentID), slog.String("error", err.Error()))
	}
	return detail, nil
}
