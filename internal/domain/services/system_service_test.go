package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"energy-ops-console/internal/domain/models"
	"energy-ops-console/internal/error/code"
	"energy-ops-console/internal/infrastructure/database"
	"energy-ops-console/pkg/utils"
)

func TestDept_SoftDeleteKeepsRow(t *testing.T) {
	db := newTestDB(t)
	svc := NewDeptService(db, newTestConfig(t))

	dept, err := svc.CreateDept(&DeptRequest{DeptName: ptr("运维一部")}, "admin")
	require.NoError(t, err)
	assert.Equal(t, models.StatusNormal, dept.Status)

	require.NoError(t, svc.DeleteDept(dept.DeptID, "admin"))

	depts, err := svc.ListDepts(query())
	require.NoError(t, err)
	assert.Empty(t, depts)

	var raw models.Dept
	require.NoError(t, db.Where("dept_id = ?", dept.DeptID).Take(&raw).Error)
	assert.Equal(t, models.DelFlagDeleted, raw.DelFlag)
	assert.Equal(t, "admin", raw.UpdateBy)

	requireCode(t, svc.DeleteDept(dept.DeptID, "admin"), code.StatusNotFound)
}

func TestDept_DeleteWithChildRejected(t *testing.T) {
	db := newTestDB(t)
	svc := NewDeptService(db, newTestConfig(t))

	parent, err := svc.CreateDept(&DeptRequest{DeptName: ptr("集团")}, "admin")
	require.NoError(t, err)
	child, err := svc.CreateDept(&DeptRequest{DeptName: ptr("北区"), ParentID: &parent.DeptID}, "admin")
	require.NoError(t, err)

	appErr := requireCode(t, svc.DeleteDept(parent.DeptID, "admin"), code.StatusBadRequest)
	assert.Equal(t, "存在下级部门,不允许删除", appErr.PublicMessage())

	depts, err := svc.ListDepts(query())
	require.NoError(t, err)
	assert.Len(t, depts, 2)

	tree, err := svc.DeptTree()
	require.NoError(t, err)
	require.Len(t, tree, 1)
	require.Len(t, tree[0].Children, 1)
	assert.Equal(t, child.DeptID, tree[0].Children[0].ID)

	// 删除子部门后父部门可删除
	require.NoError(t, svc.DeleteDept(child.DeptID, "admin"))
	require.NoError(t, svc.DeleteDept(parent.DeptID, "admin"))
}

func TestDept_UpdateKeepsUnspecifiedFields(t *testing.T) {
	db := newTestDB(t)
	svc := NewDeptService(db, newTestConfig(t))

	dept, err := svc.CreateDept(&DeptRequest{DeptName: ptr("运维"), Leader: ptr("张工"), OrderNum: ptr(3)}, "admin")
	require.NoError(t, err)

	require.NoError(t, svc.UpdateDept(&DeptRequest{DeptID: dept.DeptID, Phone: ptr("13800000000")}, "ops"))

	var got models.Dept
	require.NoError(t, db.Where("dept_id = ?", dept.DeptID).Take(&got).Error)
	assert.Equal(t, "张工", got.Leader)
	assert.Equal(t, 3, got.OrderNum)
	assert.Equal(t, "13800000000", got.Phone)

	requireCode(t, svc.UpdateDept(&DeptRequest{DeptID: dept.DeptID, ParentID: &dept.DeptID}, "ops"), code.StatusBadRequest)
	requireCode(t, svc.UpdateDept(&DeptRequest{DeptID: 999, Phone: ptr("1")}, "ops"), code.StatusNotFound)
}

func TestRole_DuplicateRejected(t *testing.T) {
	db := newTestDB(t)
	svc := NewRoleService(db, newTestConfig(t))

	_, err := svc.CreateRole(&RoleRequest{RoleName: ptr("运维"), RoleKey: ptr("ops")}, "admin")
	require.NoError(t, err)

	_, err = svc.CreateRole(&RoleRequest{RoleName: ptr("运维"), RoleKey: ptr("ops2")}, "admin")
	assert.Equal(t, "角色名称已存在", requireCode(t, err, code.StatusBadRequest).PublicMessage())

	_, err = svc.CreateRole(&RoleRequest{RoleName: ptr("运维2"), RoleKey: ptr("ops")}, "admin")
	assert.Equal(t, "角色权限已存在", requireCode(t, err, code.StatusBadRequest).PublicMessage())
}

func TestUser_CreateAndResetPassword(t *testing.T) {
	db := newTestDB(t)
	cfg := newTestConfig(t)
	roles := NewRoleService(db, cfg)
	users := NewUserService(db, cfg)

	role, err := roles.CreateRole(&RoleRequest{RoleName: ptr("运维"), RoleKey: ptr("ops")}, "admin")
	require.NoError(t, err)

	user, err := users.CreateUser(&UserRequest{
		UserName: ptr("operator01"),
		Password: ptr("Passw0rd!"),
		RoleIDs:  &[]uint{role.RoleID},
	}, "admin")
	require.NoError(t, err)
	assert.NotEqual(t, "Passw0rd!", user.Password)

	_, err = users.CreateUser(&UserRequest{UserName: ptr("operator01"), Password: ptr("x")}, "admin")
	requireCode(t, err, code.StatusBadRequest)

	ids, err := users.UserRoleIDs(user.UserID)
	require.NoError(t, err)
	assert.Equal(t, []uint{role.RoleID}, ids)

	requireCode(t, users.ResetPassword(&ResetPasswordRequest{UserID: user.UserID}, "admin"), code.StatusBadRequest)
	require.NoError(t, users.ResetPassword(&ResetPasswordRequest{UserID: user.UserID, Password: "NewPassw0rd!"}, "admin"))

	var stored models.User
	require.NoError(t, db.Where("user_id = ?", user.UserID).Take(&stored).Error)
	assert.True(t, utils.CheckPasswordHash("NewPassw0rd!", stored.Password))
}

func TestMenu_HardDeleteAndChildren(t *testing.T) {
	db := newTestDB(t)
	svc := NewMenuService(db, newTestConfig(t))

	root, err := svc.CreateMenu(&MenuRequest{MenuName: ptr("系统管理")}, "admin")
	require.NoError(t, err)
	assert.Equal(t, MenuDefaultIsFrame, root.IsFrame)
	assert.Equal(t, MenuDefaultIcon, root.Icon)

	child, err := svc.CreateMenu(&MenuRequest{MenuName: ptr("用户管理"), ParentID: &root.MenuID}, "admin")
	require.NoError(t, err)

	requireCode(t, svc.DeleteMenu(root.MenuID), code.StatusBadRequest)
	require.NoError(t, svc.DeleteMenu(child.MenuID))

	var count int64
	require.NoError(t, db.Model(&models.Menu{}).Where("menu_id = ?", child.MenuID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestJWT_Login(t *testing.T) {
	db := newTestDB(t)
	cfg := newTestConfig(t)
	require.NoError(t, database.EnsureAdmin(db, "admin123"))
	svc := NewJWTService(cfg, db)

	_, err := svc.Login("", "x")
	requireCode(t, err, code.StatusUnauthorized)

	_, err = svc.Login(database.AdminUserName, "wrong")
	requireCode(t, err, code.StatusUnauthorized)

	result, err := svc.Login(database.AdminUserName, "admin123")
	require.NoError(t, err)
	assert.Equal(t, database.AdminRoleKey, result.Role)

	claims, err := svc.ValidateToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, result.UserID, claims.UserID)

	var admin models.User
	require.NoError(t, db.Where("user_id = ?", result.UserID).Take(&admin).Error)
	assert.NotNil(t, admin.LastLogin)

	info, err := svc.GetUserInfo(result.UserID)
	require.NoError(t, err)
	assert.Equal(t, []string{database.AdminRoleKey}, info.Roles)

	require.NoError(t, db.Model(&models.User{}).Where("user_id = ?", result.UserID).Update("status", models.StatusDisabled).Error)
	_, err = svc.Login(database.AdminUserName, "admin123")
	requireCode(t, err, code.StatusForbidden)
}
