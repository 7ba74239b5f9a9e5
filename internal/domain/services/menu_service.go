package services

import (
	"gorm.io/gorm"

	"energy-ops-console/internal/domain/gateway"
	"energy-ops-console/internal/domain/models"
	"energy-ops-console/internal/error/code"
	"energy-ops-console/internal/infrastructure/config"
)

// 菜单默认值
const (
	MenuDefaultIsFrame = 1
	MenuDefaultIsCache = 0
	MenuDefaultIcon    = "#"
)

// MenuDescriptor 菜单资源
var MenuDescriptor = &gateway.Descriptor{
	Name:       "menu",
	PrimaryKey: "menu_id",
	Order:      "parent_id, order_num, menu_id",
	Filters: []gateway.FilterSpec{
		gateway.Contains("menuName", "menu_name"),
		gateway.Exact("status", "status"),
	},
	Deletion: gateway.HardDelete,
}

// MenuRequest 菜单新增与修改参数
type MenuRequest struct {
	MenuID    uint    `json:"menuId" example:"10"`
	MenuName  *string `json:"menuName" binding:"required_without=MenuID" example:"设备台账"`
	ParentID  *uint   `json:"parentId" example:"0"`
	OrderNum  *int    `json:"orderNum" example:"1"`
	Path      *string `json:"path" example:"device"`
	Component *string `json:"component" example:"device/index"`
	IsFrame   *int    `json:"isFrame" binding:"omitempty,oneof=0 1" example:"1"`
	IsCache   *int    `json:"isCache" binding:"omitempty,oneof=0 1" example:"0"`
	MenuType  *string `json:"menuType" binding:"omitempty,oneof=M C F" example:"C"`
	Visible   *string `json:"visible" binding:"omitempty,oneof=0 1" example:"0"`
	Status    *string `json:"status" binding:"omitempty,oneof=0 1" example:"0"`
	Perms     *string `json:"perms" example:"device:list"`
	Icon      *string `json:"icon" example:"monitor"`
	Remark    *string `json:"remark"`
}

// InterfaceMenuService 菜单服务接口
type InterfaceMenuService interface {
	ListMenus(params gateway.Params) ([]models.Menu, error)
	CreateMenu(req *MenuRequest, operator string) (*models.Menu, error)
	UpdateMenu(req *MenuRequest, operator string) error
	DeleteMenu(id uint) error
	MenuTree() ([]gateway.TreeNode, error)
}

// MenuService 菜单服务
type MenuService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewMenuService 创建菜单服务
func NewMenuService(db *gorm.DB, cfg *config.Config) InterfaceMenuService {
	return &MenuService{DB: db, Config: cfg}
}

// 1 ListMenus 菜单平铺列表
func (s *MenuService) ListMenus(params gateway.Params) ([]models.Menu, error) {
	return gateway.All[models.Menu](s.DB, MenuDescriptor, params)
}

// 2 CreateMenu 新增菜单
func (s *MenuService) CreateMenu(req *MenuRequest, operator string) (*models.Menu, error) {
	menu := &models.Menu{
		MenuName: deref(req.MenuName),
		IsFrame:  MenuDefaultIsFrame,
		IsCache:  MenuDefaultIsCache,
		MenuType: stringOr(req.MenuType, "C"),
		Visible:  stringOr(req.Visible, "0"),
		Status:   stringOr(req.Status, models.StatusNormal),
		Icon:     stringOr(req.Icon, MenuDefaultIcon),
		Audit:    models.Audit{CreateBy: operator},
	}
	if req.ParentID != nil {
		menu.ParentID = *req.ParentID
	}
	if req.OrderNum != nil {
		menu.OrderNum = *req.OrderNum
	}
	if req.IsFrame != nil {
		menu.IsFrame = *req.IsFrame
	}
	if req.IsCache != nil {
		menu.IsCache = *req.IsCache
	}
	if req.Path != nil {
		menu.Path = *req.Path
	}
	if req.Component != nil {
		menu.Component = *req.Component
	}
	if req.Perms != nil {
		menu.Perms = *req.Perms
	}
	if req.Remark != nil {
		menu.Remark = *req.Remark
	}

	err := gateway.Mutate(s.DB, func(tx *gorm.DB) error {
		return tx.Create(menu).Error
	})
	if err != nil {
		return nil, err
	}
	return menu, nil
}

// 3 UpdateMenu 修改菜单
func (s *MenuService) UpdateMenu(req *MenuRequest, operator string) error {
	if req.ParentID != nil && *req.ParentID == req.MenuID {
		return code.New(code.ErrValidation, "上级菜单不能是自己")
	}
	updates := map[string]interface{}{"update_by": operator}
	setIf(updates, "menu_name", req.MenuName)
	setIf(updates, "parent_id", req.ParentID)
	setIf(updates, "order_num", req.OrderNum)
	setIf(updates, "path", req.Path)
	setIf(updates, "component", req.Component)
	setIf(updates, "is_frame", req.IsFrame)
	setIf(updates, "is_cache", req.IsCache)
	setIf(updates, "menu_type", req.MenuType)
	setIf(updates, "visible", req.Visible)
	setIf(updates, "status", req.Status)
	setIf(updates, "perms", req.Perms)
	setIf(updates, "icon", req.Icon)
	setIf(updates, "remark", req.Remark)
	return updateByID(s.DB, &models.Menu{}, "menu_id", req.MenuID, updates, "菜单不存在")
}

// 4 DeleteMenu 删除菜单，存在子菜单时拒绝
func (s *MenuService) DeleteMenu(id uint) error {
	return gateway.Mutate(s.DB, func(tx *gorm.DB) error {
		var children int64
		if err := tx.Model(&models.Menu{}).Where("parent_id = ?", id).Count(&children).Error; err != nil {
			return err
		}
		if children > 0 {
			return code.New(code.ErrHasChildren, "存在子菜单,不允许删除")
		}
		if err := MenuDescriptor.Delete(tx, &models.Menu{}, id, nil); err != nil {
			return notFound(err, "菜单不存在")
		}
		return tx.Where("menu_id = ?", id).Delete(&models.RoleMenu{}).Error
	})
}

// 5 MenuTree 启用菜单的树形结构
func (s *MenuService) MenuTree() ([]gateway.TreeNode, error) {
	menus := make([]models.Menu, 0)
	if err := s.DB.Where("status = ?", models.StatusNormal).Order(MenuDescriptor.Order).Find(&menus).Error; err != nil {
		return nil, err
	}
	return gateway.BuildTree(menus, func(m models.Menu) (uint, uint, string) {
		return m.MenuID, m.ParentID, m.MenuName
	}), nil
}
