package models

import "time"

// 设备健康状态
const (
	HealthNormal  = "normal"
	HealthWarning = "warning"
	HealthFault   = "fault"
)

// Device 设备台账
type Device struct {
	DeviceID        uint       `gorm:"primaryKey;column:device_id" json:"deviceId"`
	DeviceType      string     `gorm:"type:varchar(50);not null;index" json:"deviceType"`
	SubType         string     `gorm:"type:varchar(50)" json:"subType"`
	SerialNumber    *string    `gorm:"type:varchar(100);uniqueIndex" json:"serialNumber"`
	Location        string     `gorm:"type:varchar(200)" json:"location"`
	Manufacturer    string     `gorm:"type:varchar(100)" json:"manufacturer"`
	Region          string     `gorm:"type:varchar(50);index" json:"region"`
	HealthStatus    string     `gorm:"type:varchar(20)" json:"healthStatus"`
	LastMaintenance *time.Time `json:"lastMaintenance"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"-"`
}

func (Device) TableName() string { return "devices" }

// DeviceMaintenance 设备维护记录
type DeviceMaintenance struct {
	RecordID        uint      `gorm:"primaryKey;column:record_id" json:"recordId"`
	DeviceID        uint      `gorm:"index;not null" json:"deviceId"`
	WorkOrderID     *uint     `json:"workOrderId"`
	MaintenanceType string    `gorm:"type:varchar(50)" json:"maintenanceType"`
	Description     string    `gorm:"type:text" json:"description"`
	DurationHours   *float64  `json:"durationHours"`
	PerformedBy     uint      `json:"performedBy"`
	PerformedAt     time.Time `gorm:"autoCreateTime" json:"performedAt"`
	Status          string    `gorm:"type:varchar(20)" json:"status"`
}

func (DeviceMaintenance) TableName() string { return "device_maintenance" }
