package v1

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/breeew/peer-api/internal/core"
	"github.com/breeew/peer-api/internal/core/srv"
	"github.com/breeew/peer-api/pkg/errors"
	"github.com/breeew/peer-api/pkg/i18n"
	"github.com/breeew/peer-api/pkg/security"
)

type _userInfo struct {
	ctx  context.Context
	core *core.Core
	u    *security.TokenClaims
}

func (u *_userInfo) GetUserInfo() security.TokenClaims {
	return *u.u
}

// WorkspaceUser returns the caller's claims carrying the rbac role held in
// workspaceID. Callers outside the workspace are denied.
func (u *_userInfo) WorkspaceUser(workspaceID int64) (security.TokenClaims, error) {
	user := u.GetUserInfo()
	member, err := u.core.Store().MembershipStore().GetRole(u.ctx, user.User, workspaceID)
	if err != nil {
		if err == sql.ErrNoRows {
			return user, errors.New("_userInfo.WorkspaceUser.MembershipStore.GetRole", i18n.ERROR_PERMISSION_DENIED, nil).Code(http.StatusForbidden)
		}
		return user, errors.New("_userInfo.WorkspaceUser.MembershipStore.GetRole", i18n.ERROR_INTERNAL, err)
	}
	return user.WithRole(srv.RoleID(member.Role)), nil
}

// Identification checks permission inside workspaceID, falling back to the
// ownership of roler when it is not nil.
func (u *_userInfo) Identification(workspaceID int64, roler srv.RoleObject, permission string) error {
	user, err := u.WorkspaceUser(workspaceID)
	if err != nil {
		return errors.Trace("_userInfo.Identification", err)
	}
	if err := u.core.Srv().RBAC().Check(user, roler, permission); err != nil {
		return err
	}
	return nil
}

// IsInstructor reports whether the caller manages workspaceID.
func (u *_userInfo) IsInstructor(workspaceID int64) (bool, error) {
	user, err := u.WorkspaceUser(workspaceID)
	if err != nil {
		return false, err
	}
	return u.core.Srv().RBAC().CheckPermission(user.GetRole(), srv.PermissionManage), nil
}

func setupUserInfo(ctx context.Context, core *core.Core) UserInfo {
	userInfo, ok := InjectTokenClaim(ctx)
	if !ok {
		slog.Error("Not found user in context", slog.String("component", "logic.v1.setupUserInfo"))
		userInfo = security.TokenClaims{}
	}
	return &_userInfo{
		ctx:  ctx,
		u:    &userInfo,
		core: core,
	}
}

type UserInfo interface {
	GetUserInfo() security.TokenClaims
	WorkspaceUser(workspaceID int64) (security.TokenClaims, error)
	Identification(workspaceID int64, roler srv.RoleObject, permission string) error
	IsInstructor(workspaceID int64) (bool, error)
}
