package srv_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/breeew/peer-api/internal/core/srv"
	"github.com/breeew/peer-api/pkg/types"
)

type user struct {
	role string
	id   int64
}

func (u user) GetRole() string { return u.role }
func (u user) GetUser() int64  { return u.id }

func TestRolePermissions(t *testing.T) {
	r := srv.SetupRBACSrv()

	assert.True(t, r.CheckPermission(srv.RoleInstructor, srv.PermissionManage))
	assert.True(t, r.CheckPermission(srv.RoleInstructor, srv.PermissionReview))
	assert.True(t, r.CheckPermission(srv.RoleInstructor, srv.PermissionView))

	assert.False(t, r.CheckPermission(srv.RoleStudent, srv.PermissionManage))
	assert.True(t, r.CheckPermission(srv.RoleStudent, srv.PermissionReview))
	assert.False(t, r.CheckPermission("", srv.PermissionView))
}

func TestRoleID(t *testing.T) {
	assert.Equal(t, srv.RoleInstructor, srv.RoleID(types.ROLE_INSTRUCTOR))
	assert.Equal(t, srv.RoleStudent, srv.RoleID(types.ROLE_STUDENT))
	assert.Equal(t, "", srv.RoleID("guest"))
}

func TestCheckOwnerFallback(t *testing.T) {
	r := srv.SetupRBACSrv()
	student := user{role: srv.RoleStudent, id: 7}

	assert.Nil(t, r.Check(student, srv.NewFixedRoler(7), srv.PermissionManage))

	err := r.Check(student, srv.NewFixedRoler(8), srv.PermissionManage)
	if assert.NotNil(t, err) {
		assert.Equal(t, http.StatusForbidden, err.HttpCode())
	}

	err = r.Check(student, nil, srv.PermissionManage)
	if assert.NotNil(t, err) {
		assert.Equal(t, http.StatusForbidden, err.HttpCode())
	}

	assert.Nil(t, r.Check(user{role: srv.RoleInstructor, id: 1}, srv.NewFixedRoler(8), srv.PermissionManage))
}
