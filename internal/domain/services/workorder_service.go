package services

import (
	"mime/multipart"
	"os"
	"path/filepath"
	"time"

	"gorm.io/gorm"

	"energy-ops-console/internal/domain/fsm"
	"energy-ops-console/internal/domain/gateway"
	"energy-ops-console/internal/domain/models"
	"energy-ops-console/internal/error/code"
	"energy-ops-console/internal/infrastructure/config"
	"energy-ops-console/pkg/logger"
	"energy-ops-console/pkg/utils"
)

// WorkOrderDescriptor 工单
var WorkOrderDescriptor = &gateway.Descriptor{
	Name:       "work_order",
	PrimaryKey: "work_order_id",
	Order:      "created_at DESC, work_order_id DESC",
	Filters: []gateway.FilterSpec{
		gateway.ExactInt("deviceId", "device_id"),
		gateway.Exact("orderType", "order_type"),
		gateway.Exact("priority", "priority"),
		gateway.Exact("status", "status"),
		gateway.ExactInt("assignedTo", "assigned_to"),
		gateway.TimeRange("startTime", "endTime", "created_at"),
	},
	Deletion: gateway.HardDelete,
}

// WorkOrderRequest 工单新增与修改参数
type WorkOrderRequest struct {
	DeviceID      *uint   `json:"deviceId" example:"12"`
	AlertID       *uint   `json:"alertId" example:"31"`
	OrderType     *string `json:"orderType" example:"repair"`
	Title         *string `json:"title" example:"3号风机叶片检修"`
	Description   *string `json:"description" example:"叶片前缘磨损"`
	Priority      *string `json:"priority" example:"high"`
	Status        *string `json:"status" binding:"omitempty,oneof=pending processing completed cancelled" example:"processing"`
	AssignedTo    *uint   `json:"assignedTo" example:"5"`
	ScheduledTime *string `json:"scheduledTime" example:"2024-06-01 09:00:00"`
}

// InterfaceWorkOrderService 工单服务接口
type InterfaceWorkOrderService interface {
	ListWorkOrders(params gateway.Params) (gateway.Page[models.WorkOrder], error)
	CreateWorkOrder(req *WorkOrderRequest, userID uint) (*models.WorkOrder, error)
	UpdateWorkOrder(orderID uint, req *WorkOrderRequest, userID uint) error
	UploadImages(orderID uint, files []*multipart.FileHeader, imageType, description string, userID uint) ([]models.WorkOrderImage, error)
	ListImages(orderID uint) ([]models.WorkOrderImage, error)
}

// WorkOrderService 工单服务
type WorkOrderService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewWorkOrderService 创建工单服务
func NewWorkOrderService(db *gorm.DB, cfg *config.Config) InterfaceWorkOrderService {
	return &WorkOrderService{DB: db, Config: cfg}
}

// 1 ListWorkOrders 分页查询工单
func (s *WorkOrderService) ListWorkOrders(params gateway.Params) (gateway.Page[models.WorkOrder], error) {
	return gateway.List[models.WorkOrder](s.DB, WorkOrderDescriptor, params)
}

// 2 CreateWorkOrder 新建工单，初始状态为 pending
func (s *WorkOrderService) CreateWorkOrder(req *WorkOrderRequest, userID uint) (*models.WorkOrder, error) {
	scheduled, err := parseDateTime(req.ScheduledTime, "scheduledTime")
	if err != nil {
		return nil, err
	}
	order := &models.WorkOrder{
		AlertID:       req.AlertID,
		Priority:      stringOr(req.Priority, "normal"),
		Status:        fsm.WorkOrderPending,
		AssignedTo:    req.AssignedTo,
		CreatedBy:     userID,
		ScheduledTime: scheduled,
	}
	if req.DeviceID != nil {
		order.DeviceID = *req.DeviceID
	}
	if req.OrderType != nil {
		order.OrderType = *req.OrderType
	}
	if req.Title != nil {
		order.Title = *req.Title
	}
	if req.Description != nil {
		order.Description = *req.Description
	}

	err = gateway.Mutate(s.DB, func(tx *gorm.DB) error {
		return tx.Create(order).Error
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// 3 UpdateWorkOrder 修改工单，状态变更需满足流转规则，完成时记录完成人与时间
func (s *WorkOrderService) UpdateWorkOrder(orderID uint, req *WorkOrderRequest, userID uint) error {
	scheduled, err := parseDateTime(req.ScheduledTime, "scheduledTime")
	if err != nil {
		return err
	}

	return gateway.Mutate(s.DB, func(tx *gorm.DB) error {
		var order models.WorkOrder
		if err := tx.Where("work_order_id = ?", orderID).Take(&order).Error; err != nil {
			return notFound(err, "工单不存在")
		}

		updates := map[string]interface{}{}
		setIf(updates, "title", req.Title)
		setIf(updates, "description", req.Description)
		setIf(updates, "priority", req.Priority)
		setIf(updates, "assigned_to", req.AssignedTo)
		if scheduled != nil {
			updates["scheduled_time"] = *scheduled
		}

		if req.Status != nil && *req.Status != "" && *req.Status != order.Status {
			if err := fsm.WorkOrder.Move(order.Status, *req.Status); err != nil {
				return err
			}
			updates["status"] = *req.Status
			if *req.Status == fsm.WorkOrderCompleted {
				updates["completed_time"] = time.Now()
				updates["completed_by"] = userID
			}
		}
		if len(updates) == 0 {
			return nil
		}
		return tx.Model(&models.WorkOrder{}).Where("work_order_id = ?", orderID).Updates(updates).Error
	})
}

// 4 UploadImages 保存工单图片，写库失败时清理已保存的文件
func (s *WorkOrderService) UploadImages(orderID uint, files []*multipart.FileHeader, imageType, description string, userID uint) ([]models.WorkOrderImage, error) {
	if len(files) == 0 {
		return nil, code.New(code.ErrValidation, "未上传图片")
	}
	if err := s.checkOrder(s.DB, orderID); err != nil {
		return nil, err
	}
	if imageType == "" {
		imageType = "repair"
	}

	saved := make([]string, 0, len(files))
	images := make([]models.WorkOrderImage, 0, len(files))
	for _, fh := range files {
		path, err := utils.SaveUploadedFile(s.Config.UploadDir, fh)
		if err != nil {
			s.removeFiles(saved)
			return nil, code.WithMessage(code.ErrDatabase, "图片保存失败", err)
		}
		saved = append(saved, path)
		images = append(images, models.WorkOrderImage{
			OrderID:     orderID,
			ImagePath:   path,
			ImageType:   imageType,
			Description: description,
			UploadedBy:  userID,
		})
	}

	err := gateway.Mutate(s.DB, func(tx *gorm.DB) error {
		return tx.Create(&images).Error
	})
	if err != nil {
		s.removeFiles(saved)
		return nil, err
	}
	return images, nil
}

// 5 ListImages 工单图片
func (s *WorkOrderService) ListImages(orderID uint) ([]models.WorkOrderImage, error) {
	if err := s.checkOrder(s.DB, orderID); err != nil {
		return nil, err
	}
	images := make([]models.WorkOrderImage, 0)
	err := s.DB.Where("work_order_id = ?", orderID).Order("image_id").Find(&images).Error
	return images, err
}

func (s *WorkOrderService) checkOrder(db *gorm.DB, orderID uint) error {
	exists, err := WorkOrderDescriptor.Exists(db, &models.WorkOrder{}, orderID)
	if err != nil {
		return err
	}
	if !exists {
		return code.New(code.ErrRecordNotFound, "工单不存在")
	}
	return nil
}

func (s *WorkOrderService) removeFiles(paths []string) {
	for _, p := range paths {
		full := filepath.Join(filepath.Dir(s.Config.UploadDir), filepath.FromSlash(p))
		if err := os.Remove(full); err != nil {
			logger.Warning("[WorkOrder] 清理上传文件失败: %v", err)
		}
	}
}
