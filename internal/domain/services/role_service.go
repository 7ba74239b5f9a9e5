package services

import (
	"encoding/json"

	"gorm.io/gorm"

	"energy-ops-console/internal/domain/gateway"
	"energy-ops-console/internal/domain/models"
	"energy-ops-console/internal/error/code"
	"energy-ops-console/internal/infrastructure/config"
)

// RoleDescriptor 角色资源
var RoleDescriptor = &gateway.Descriptor{
	Name:       "role",
	PrimaryKey: "role_id",
	Order:      "role_sort, role_id",
	Filters: []gateway.FilterSpec{
		gateway.Contains("roleName", "role_name"),
		gateway.Contains("roleKey", "role_key"),
		gateway.Exact("status", "status"),
	},
	Deletion: gateway.SoftDelete,
}

// RoleRequest 角色新增与修改参数
type RoleRequest struct {
	RoleID      uint            `json:"roleId" example:"2"`
	RoleName    *string         `json:"roleName" binding:"required_without=RoleID" example:"运维人员"`
	RoleKey     *string         `json:"roleKey" binding:"required_without=RoleID" example:"operator"`
	RoleSort    *int            `json:"roleSort" example:"2"`
	Status      *string         `json:"status" binding:"omitempty,oneof=0 1" example:"0"`
	Remark      *string         `json:"remark"`
	Permissions json.RawMessage `json:"permissions" swaggertype:"object"`
	MenuIDs     *[]uint         `json:"menuIds"`
}

// InterfaceRoleService 角色服务接口
type InterfaceRoleService interface {
	ListRoles(params gateway.Params) (gateway.Page[models.Role], error)
	CreateRole(req *RoleRequest, operator string) (*models.Role, error)
	UpdateRole(req *RoleRequest, operator string) error
	DeleteRole(id uint, operator string) error
	RoleMenuIDs(roleID uint) ([]uint, error)
}

// RoleService 角色服务
type RoleService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewRoleService 创建角色服务
func NewRoleService(db *gorm.DB, cfg *config.Config) InterfaceRoleService {
	return &RoleService{DB: db, Config: cfg}
}

// 1 ListRoles 分页查询角色
func (s *RoleService) ListRoles(params gateway.Params) (gateway.Page[models.Role], error) {
	return gateway.List[models.Role](s.DB, RoleDescriptor, params)
}

// 2 CreateRole 新增角色，名称与权限字符均不能重复
func (s *RoleService) CreateRole(req *RoleRequest, operator string) (*models.Role, error) {
	role := &models.Role{
		RoleName:    deref(req.RoleName),
		RoleKey:     deref(req.RoleKey),
		Status:      stringOr(req.Status, models.StatusNormal),
		Permissions: jsonOrNil(req.Permissions),
		DelFlag:     models.DelFlagExist,
		Audit:       models.Audit{CreateBy: operator},
	}
	if req.RoleSort != nil {
		role.RoleSort = *req.RoleSort
	}
	if req.Remark != nil {
		role.Remark = *req.Remark
	}

	err := gateway.Mutate(s.DB, func(tx *gorm.DB) error {
		if err := checkRoleUnique(tx, 0, req.RoleName, req.RoleKey); err != nil {
			return err
		}
		if err := tx.Create(role).Error; err != nil {
			return err
		}
		if req.MenuIDs != nil {
			return replaceRoleMenus(tx, role.RoleID, *req.MenuIDs)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return role, nil
}

// 3 UpdateRole 修改角色，menuIds 存在时整体替换菜单授权
func (s *RoleService) UpdateRole(req *RoleRequest, operator string) error {
	return gateway.Mutate(s.DB, func(tx *gorm.DB) error {
		exists, err := RoleDescriptor.Exists(tx, &models.Role{}, req.RoleID)
		if err != nil {
			return err
		}
		if !exists {
			return code.New(code.ErrRecordNotFound, "角色不存在")
		}
		if err := checkRoleUnique(tx, req.RoleID, req.RoleName, req.RoleKey); err != nil {
			return err
		}

		updates := map[string]interface{}{"update_by": operator}
		setIf(updates, "role_name", req.RoleName)
		setIf(updates, "role_key", req.RoleKey)
		setIf(updates, "role_sort", req.RoleSort)
		setIf(updates, "status", req.Status)
		setIf(updates, "remark", req.Remark)
		setJSONIf(updates, "permissions", req.Permissions)
		if err := tx.Model(&models.Role{}).Where("role_id = ?", req.RoleID).Updates(updates).Error; err != nil {
			return err
		}
		if req.MenuIDs != nil {
			return replaceRoleMenus(tx, req.RoleID, *req.MenuIDs)
		}
		return nil
	})
}

// 4 DeleteRole 逻辑删除角色
func (s *RoleService) DeleteRole(id uint, operator string) error {
	return gateway.Mutate(s.DB, func(tx *gorm.DB) error {
		err := RoleDescriptor.Delete(tx, &models.Role{}, id, map[string]interface{}{"update_by": operator})
		return notFound(err, "角色不存在")
	})
}

// 5 RoleMenuIDs 角色已授权的菜单
func (s *RoleService) RoleMenuIDs(roleID uint) ([]uint, error) {
	ids := make([]uint, 0)
	err := s.DB.Model(&models.RoleMenu{}).Where("role_id = ?", roleID).Order("menu_id").Pluck("menu_id", &ids).Error
	return ids, err
}

func checkRoleUnique(tx *gorm.DB, selfID uint, name, key *string) error {
	if name != nil {
		var count int64
		if err := tx.Model(&models.Role{}).Where("role_name = ? AND role_id <> ?", *name, selfID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return code.New(code.ErrConflict, "角色名称已存在")
		}
	}
	if key != nil {
		var count int64
		if err := tx.Model(&models.Role{}).Where("role_key = ? AND role_id <> ?", *key, selfID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return code.New(code.ErrConflict, "角色权限已存在")
		}
	}
	return nil
}

func replaceRoleMenus(tx *gorm.DB, roleID uint, menuIDs []uint) error {
	if err := tx.Where("role_id = ?", roleID).Delete(&models.RoleMenu{}).Error; err != nil {
		return err
	}
	if len(menuIDs) == 0 {
		return nil
	}
	seen := make(map[uint]bool, len(menuIDs))
	links := make([]models.RoleMenu, 0, len(menuIDs))
	for _, id := range menuIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		links = append(links, models.RoleMenu{RoleID: roleID, MenuID: id})
	}
	return tx.Create(&links).Error
}
