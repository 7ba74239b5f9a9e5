package services

import (
	"time"

	"gorm.io/gorm"

	"energy-ops-console/internal/domain/gateway"
	"energy-ops-console/internal/domain/models"
	"energy-ops-console/internal/error/code"
	"energy-ops-console/internal/infrastructure/config"
	"energy-ops-console/pkg/utils"
)

// DeviceDescriptor 设备资源，物理删除
var DeviceDescriptor = &gateway.Descriptor{
	Name:       "device",
	PrimaryKey: "device_id",
	Order:      "created_at DESC, device_id DESC",
	Filters: []gateway.FilterSpec{
		gateway.Exact("deviceType", "device_type"),
		gateway.Exact("subType", "sub_type"),
		gateway.Exact("region", "region"),
		gateway.Exact("healthStatus", "health_status"),
	},
	Deletion: gateway.HardDelete,
}

// MaintenanceDescriptor 设备维护记录，按设备限定范围后使用
var MaintenanceDescriptor = &gateway.Descriptor{
	Name:       "device_maintenance",
	PrimaryKey: "record_id",
	Order:      "performed_at DESC, record_id DESC",
	Filters: []gateway.FilterSpec{
		gateway.Exact("maintenanceType", "maintenance_type"),
		gateway.Exact("status", "status"),
	},
	Deletion: gateway.HardDelete,
}

// CreateDeviceRequest 新增设备参数
type CreateDeviceRequest struct {
	DeviceType   string `json:"deviceType" binding:"required" example:"wind_turbine"`
	SubType      string `json:"subType" example:"blade"`
	SerialNumber string `json:"serialNumber" example:"WT-2024-0001"`
	Location     string `json:"location" example:"北区3号机位"`
	Manufacturer string `json:"manufacturer" example:"金风"`
	Region       string `json:"region" example:"north"`
}

// DeviceRequest 设备修改参数，未提供的字段保持原值
type DeviceRequest struct {
	DeviceType   *string `json:"deviceType" example:"wind_turbine"`
	SubType      *string `json:"subType" example:"blade"`
	SerialNumber *string `json:"serialNumber" example:"WT-2024-0001"`
	Location     *string `json:"location" example:"北区3号机位"`
	Manufacturer *string `json:"manufacturer" example:"金风"`
	Region       *string `json:"region" example:"north"`
	HealthStatus *string `json:"healthStatus" binding:"omitempty,oneof=normal warning fault" example:"normal"`
}

// MaintenanceRequest 维护记录参数
type MaintenanceRequest struct {
	MaintenanceType string   `json:"maintenanceType" example:"routine"`
	Description     string   `json:"description" example:"更换齿轮箱润滑油"`
	DurationHours   *float64 `json:"durationHours" example:"2.5"`
	WorkOrderID     *uint    `json:"workOrderId" example:"7"`
	Status          *string  `json:"status" example:"completed"`
}

// InterfaceDeviceService 设备服务接口
type InterfaceDeviceService interface {
	ListDevices(params gateway.Params) (gateway.Page[models.Device], error)
	GetDevice(id uint) (*models.Device, error)
	CreateDevice(req *CreateDeviceRequest) (*models.Device, error)
	UpdateDevice(id uint, req *DeviceRequest) error
	DeleteDevice(id uint) error
	ListMaintenance(deviceID uint, params gateway.Params) (gateway.Page[models.DeviceMaintenance], error)
	AddMaintenance(deviceID uint, req *MaintenanceRequest, userID uint) (*models.DeviceMaintenance, error)
	ExportDevices(params gateway.Params) ([]byte, error)
}

// DeviceService 设备服务
type DeviceService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewDeviceService 创建设备服务
func NewDeviceService(db *gorm.DB, cfg *config.Config) InterfaceDeviceService {
	return &DeviceService{DB: db, Config: cfg}
}

// 1 ListDevices 分页查询设备，最新创建的在前
func (s *DeviceService) ListDevices(params gateway.Params) (gateway.Page[models.Device], error) {
	return gateway.List[models.Device](s.DB, DeviceDescriptor, params)
}

// 2 GetDevice 设备详情
func (s *DeviceService) GetDevice(id uint) (*models.Device, error) {
	device, err := gateway.Get[models.Device](s.DB, DeviceDescriptor, id)
	if err != nil {
		return nil, notFound(err, "设备不存在")
	}
	return device, nil
}

// 3 CreateDevice 新增设备，健康状态初始为 normal
func (s *DeviceService) CreateDevice(req *CreateDeviceRequest) (*models.Device, error) {
	device := &models.Device{
		DeviceType:   req.DeviceType,
		SubType:      req.SubType,
		Location:     req.Location,
		Manufacturer: req.Manufacturer,
		Region:       req.Region,
		HealthStatus: models.HealthNormal,
	}
	if req.SerialNumber != "" {
		serial := req.SerialNumber
		device.SerialNumber = &serial
	}

	err := gateway.Mutate(s.DB, func(tx *gorm.DB) error {
		if device.SerialNumber != nil {
			if err := s.checkSerialUnique(tx, *device.SerialNumber, 0); err != nil {
				return err
			}
		}
		return tx.Create(device).Error
	})
	if err != nil {
		return nil, err
	}
	return device, nil
}

// 4 UpdateDevice 修改设备
func (s *DeviceService) UpdateDevice(id uint, req *DeviceRequest) error {
	return gateway.Mutate(s.DB, func(tx *gorm.DB) error {
		exists, err := DeviceDescriptor.Exists(tx, &models.Device{}, id)
		if err != nil {
			return err
		}
		if !exists {
			return code.New(code.ErrRecordNotFound, "设备不存在")
		}

		updates := map[string]interface{}{}
		if req.SerialNumber != nil && *req.SerialNumber != "" {
			if err := s.checkSerialUnique(tx, *req.SerialNumber, id); err != nil {
				return err
			}
			updates["serial_number"] = *req.SerialNumber
		}
		setIf(updates, "device_type", req.DeviceType)
		setIf(updates, "sub_type", req.SubType)
		setIf(updates, "location", req.Location)
		setIf(updates, "manufacturer", req.Manufacturer)
		setIf(updates, "region", req.Region)
		setIf(updates, "health_status", req.HealthStatus)
		if len(updates) == 0 {
			return nil
		}
		return tx.Model(&models.Device{}).Where("device_id = ?", id).Updates(updates).Error
	})
}

// 5 DeleteDevice 物理删除设备
func (s *DeviceService) DeleteDevice(id uint) error {
	return gateway.Mutate(s.DB, func(tx *gorm.DB) error {
		return notFound(DeviceDescriptor.Delete(tx, &models.Device{}, id, nil), "设备不存在")
	})
}

// 6 ListMaintenance 设备维护记录
func (s *DeviceService) ListMaintenance(deviceID uint, params gateway.Params) (gateway.Page[models.DeviceMaintenance], error) {
	if _, err := s.GetDevice(deviceID); err != nil {
		return gateway.Page[models.DeviceMaintenance]{}, err
	}
	query := MaintenanceDescriptor.Query(s.DB.Model(&models.DeviceMaintenance{}), params).
		Where("device_id = ?", deviceID)
	return gateway.Paginate[models.DeviceMaintenance](query, gateway.ParsePage(params), MaintenanceDescriptor.Order)
}

// 7 AddMaintenance 新增维护记录并同步设备的最近维护时间
func (s *DeviceService) AddMaintenance(deviceID uint, req *MaintenanceRequest, userID uint) (*models.DeviceMaintenance, error) {
	record := &models.DeviceMaintenance{
		DeviceID:        deviceID,
		WorkOrderID:     req.WorkOrderID,
		MaintenanceType: req.MaintenanceType,
		Description:     req.Description,
		DurationHours:   req.DurationHours,
		PerformedBy:     userID,
		PerformedAt:     time.Now(),
		Status:          stringOr(req.Status, "completed"),
	}

	err := gateway.Mutate(s.DB, func(tx *gorm.DB) error {
		exists, err := DeviceDescriptor.Exists(tx, &models.Device{}, deviceID)
		if err != nil {
			return err
		}
		if !exists {
			return code.New(code.ErrRecordNotFound, "设备不存在")
		}
		if err := tx.Create(record).Error; err != nil {
			return err
		}
		return tx.Model(&models.Device{}).Where("device_id = ?", deviceID).
			Update("last_maintenance", record.PerformedAt).Error
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

var deviceExportHeaders = []string{
	"设备ID", "设备类型", "子类型", "序列号", "位置", "制造商", "区域", "健康状态", "最近维护", "创建时间",
}

// 8 ExportDevices 按过滤条件导出设备清单
func (s *DeviceService) ExportDevices(params gateway.Params) ([]byte, error) {
	devices, err := gateway.All[models.Device](s.DB, DeviceDescriptor, params)
	if err != nil {
		return nil, err
	}

	rows := make([][]interface{}, 0, len(devices))
	for _, d := range devices {
		var serial interface{}
		if d.SerialNumber != nil {
			serial = *d.SerialNumber
		}
		rows = append(rows, []interface{}{
			d.DeviceID, d.DeviceType, d.SubType, serial, d.Location,
			d.Manufacturer, d.Region, d.HealthStatus,
			gateway.FormatTimePtr(d.LastMaintenance), gateway.FormatTime(d.CreatedAt),
		})
	}
	return utils.BuildSheet("设备清单", deviceExportHeaders, rows)
}

func (s *DeviceService) checkSerialUnique(tx *gorm.DB, serial string, excludeID uint) error {
	var count int64
	query := tx.Model(&models.Device{}).Where("serial_number = ?", serial)
	if excludeID > 0 {
		query = query.Where("device_id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return code.New(code.ErrDeviceAlreadyExist, "")
	}
	return nil
}
