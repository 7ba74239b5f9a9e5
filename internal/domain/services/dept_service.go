package services

import (
	"gorm.io/gorm"

	"energy-ops-console/internal/domain/gateway"
	"energy-ops-console/internal/domain/models"
	"energy-ops-console/internal/error/code"
	"energy-ops-console/internal/infrastructure/config"
)

// DeptDescriptor 部门资源
var DeptDescriptor = &gateway.Descriptor{
	Name:       "dept",
	PrimaryKey: "dept_id",
	Order:      "parent_id, order_num, dept_id",
	Filters: []gateway.FilterSpec{
		gateway.Contains("deptName", "dept_name"),
		gateway.Exact("status", "status"),
	},
	Deletion: gateway.SoftDelete,
}

// DeptRequest 部门新增与修改参数，修改时 deptId 必填
type DeptRequest struct {
	DeptID   uint    `json:"deptId" example:"3"`
	ParentID *uint   `json:"parentId" example:"0"`
	DeptName *string `json:"deptName" binding:"required_without=DeptID" example:"运维一部"`
	OrderNum *int    `json:"orderNum" example:"1"`
	Leader   *string `json:"leader" example:"张工"`
	Phone    *string `json:"phone" example:"13800000000"`
	Email    *string `json:"email" binding:"omitempty,email" example:"ops@example.com"`
	Status   *string `json:"status" binding:"omitempty,oneof=0 1" example:"0"`
}

// InterfaceDeptService 部门服务接口
type InterfaceDeptService interface {
	ListDepts(params gateway.Params) ([]models.Dept, error)
	CreateDept(req *DeptRequest, operator string) (*models.Dept, error)
	UpdateDept(req *DeptRequest, operator string) error
	DeleteDept(id uint, operator string) error
	DeptTree() ([]gateway.TreeNode, error)
}

// DeptService 部门服务
type DeptService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewDeptService 创建部门服务
func NewDeptService(db *gorm.DB, cfg *config.Config) InterfaceDeptService {
	return &DeptService{DB: db, Config: cfg}
}

// 1 ListDepts 部门平铺列表
func (s *DeptService) ListDepts(params gateway.Params) ([]models.Dept, error) {
	return gateway.All[models.Dept](s.DB, DeptDescriptor, params)
}

// 2 CreateDept 新增部门
func (s *DeptService) CreateDept(req *DeptRequest, operator string) (*models.Dept, error) {
	dept := &models.Dept{
		DeptName: deref(req.DeptName),
		Status:   stringOr(req.Status, models.StatusNormal),
		DelFlag:  models.DelFlagExist,
		Audit:    models.Audit{CreateBy: operator},
	}
	if req.ParentID != nil {
		dept.ParentID = *req.ParentID
	}
	if req.OrderNum != nil {
		dept.OrderNum = *req.OrderNum
	}
	if req.Leader != nil {
		dept.Leader = *req.Leader
	}
	if req.Phone != nil {
		dept.Phone = *req.Phone
	}
	if req.Email != nil {
		dept.Email = *req.Email
	}

	err := gateway.Mutate(s.DB, func(tx *gorm.DB) error {
		return tx.Create(dept).Error
	})
	if err != nil {
		return nil, err
	}
	return dept, nil
}

// 3 UpdateDept 修改部门，未提供的字段保持原值
func (s *DeptService) UpdateDept(req *DeptRequest, operator string) error {
	return gateway.Mutate(s.DB, func(tx *gorm.DB) error {
		exists, err := DeptDescriptor.Exists(tx, &models.Dept{}, req.DeptID)
		if err != nil {
			return err
		}
		if !exists {
			return code.New(code.ErrRecordNotFound, "部门不存在")
		}
		if req.ParentID != nil && *req.ParentID == req.DeptID {
			return code.New(code.ErrValidation, "上级部门不能是自己")
		}

		updates := map[string]interface{}{"update_by": operator}
		setIf(updates, "parent_id", req.ParentID)
		setIf(updates, "dept_name", req.DeptName)
		setIf(updates, "order_num", req.OrderNum)
		setIf(updates, "leader", req.Leader)
		setIf(updates, "phone", req.Phone)
		setIf(updates, "email", req.Email)
		setIf(updates, "status", req.Status)
		return tx.Model(&models.Dept{}).Where("dept_id = ?", req.DeptID).Updates(updates).Error
	})
}

// 4 DeleteDept 逻辑删除部门，存在有效下级部门时拒绝
func (s *DeptService) DeleteDept(id uint, operator string) error {
	return gateway.Mutate(s.DB, func(tx *gorm.DB) error {
		var children int64
		if err := tx.Model(&models.Dept{}).
			Where("parent_id = ? AND del_flag = ?", id, models.DelFlagExist).
			Count(&children).Error; err != nil {
			return err
		}
		if children > 0 {
			return code.New(code.ErrHasChildren, "存在下级部门,不允许删除")
		}
		err := DeptDescriptor.Delete(tx, &models.Dept{}, id, map[string]interface{}{"update_by": operator})
		return notFound(err, "部门不存在")
	})
}

// 5 DeptTree 启用部门的树形结构
func (s *DeptService) DeptTree() ([]gateway.TreeNode, error) {
	depts := make([]models.Dept, 0)
	err := s.DB.Where("del_flag = ? AND status = ?", models.DelFlagExist, models.StatusNormal).
		Order(DeptDescriptor.Order).
		Find(&depts).Error
	if err != nil {
		return nil, err
	}
	return gateway.BuildTree(depts, func(d models.Dept) (uint, uint, string) {
		return d.DeptID, d.ParentID, d.DeptName
	}), nil
}
