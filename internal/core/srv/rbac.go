package srv

import (
	"net/http"

	"github.com/mikespook/gorbac/v2"

	"github.com/breeew/peer-api/pkg/errors"
	"github.com/breeew/peer-api/pkg/i18n"
	"github.com/breeew/peer-api/pkg/types"
)

const (
	RoleInstructor = "role-instructor"
	RoleStudent    = "role-student"

	PermissionManage = "manage"
	PermissionReview = "review"
	PermissionView   = "view"
)

func SetupRBACSrv() *RBACSrv {
	rbac := gorbac.New()

	pManage := gorbac.NewStdPermission(PermissionManage)
	pReview := gorbac.NewStdPermission(PermissionReview)
	pView := gorbac.NewStdPermission(PermissionView)

	roleInstructor := gorbac.NewStdRole(RoleInstructor)
	roleInstructor.Assign(pManage)

	roleStudent := gorbac.NewStdRole(RoleStudent)
	roleStudent.Assign(pReview)
	roleStudent.Assign(pView)

	rbac.Add(roleInstructor)
	rbac.Add(roleStudent)

	// instructors can do whatever students can
	rbac.SetParent(RoleInstructor, RoleStudent)
	return &RBACSrv{
		rbac: rbac,
	}
}

type RBACSrv struct {
	rbac *gorbac.RBAC
}

// RoleID maps a membership role onto its rbac role, empty for unknown roles.
func RoleID(membershipRole string) string {
	switch membershipRole {
	case types.ROLE_INSTRUCTOR:
		return RoleInstructor
	case types.ROLE_STUDENT:
		return RoleStudent
	}
	return ""
}

func (a *RBACSrv) CheckPermission(roleID, permissionID string) bool {
	if roleID == "" {
		return false
	}
	return a.rbac.IsGranted(roleID, gorbac.NewStdPermission(permissionID), nil)
}

type RoleObject interface {
	GetUser() (int64, error)
}

type fixedRoler int64

func (s fixedRoler) GetUser() (int64, error) {
	return int64(s), nil
}

// NewFixedRoler wraps an already known owner.
func NewFixedRoler(userID int64) RoleObject {
	return fixedRoler(userID)
}

type RoleUser interface {
	GetRole() string
	GetUser() int64
}

// Check passes when the role of user is granted permissionID, otherwise the
// resource described by obj must belong to user. A nil obj means the
// permission alone decides.
func (a *RBACSrv) Check(user RoleUser, obj RoleObject, permissionID string) *errors.CustomizedError {
	if a.CheckPermission(user.GetRole(), permissionID) {
		return nil
	}
	if obj == nil {
		return errors.New("RBACSrv.Check.CheckPermission", i18n.ERROR_PERMISSION_DENIED, nil).Code(http.StatusForbidden)
	}
	resourceUser, err := obj.GetUser()
	if err != nil {
		return errors.Trace("RBACSrv.Check", err)
	}
	if user.GetUser() != resourceUser {
		return errors.New("RBACSrv.Check.Owner", i18n.ERROR_PERMISSION_DENIED, nil).Code(http.StatusForbidden)
	}
	return nil
}
