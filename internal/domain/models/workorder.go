package models

import "time"

// WorkOrder 运维工单
type WorkOrder struct {
	OrderID       uint       `gorm:"primaryKey;column:work_order_id" json:"orderId"`
	DeviceID      uint       `gorm:"index" json:"deviceId"`
	AlertID       *uint      `json:"alertId"`
	OrderType     string     `gorm:"type:varchar(50)" json:"orderType"`
	Title         string     `gorm:"type:varchar(200)" json:"title"`
	Description   string     `gorm:"type:text" json:"description"`
	Priority      string     `gorm:"type:varchar(20)" json:"priority"`
	Status        string     `gorm:"type:varchar(20);index" json:"status"`
	AssignedTo    *uint      `gorm:"index" json:"assignedTo"`
	CreatedBy     uint       `json:"createdBy"`
	ScheduledTime *time.Time `json:"scheduledTime"`
	CompletedTime *time.Time `json:"completedTime"`
	CompletedBy   *uint      `json:"completedBy"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"-"`
}

func (WorkOrder) TableName() string { return "work_orders" }

// WorkOrderImage 工单图片
type WorkOrderImage struct {
	ImageID     uint      `gorm:"primaryKey;column:image_id" json:"imageId"`
	OrderID     uint      `gorm:"column:work_order_id;index;not null" json:"orderId"`
	ImagePath   string    `gorm:"type:varchar(500);not null" json:"imagePath"`
	ImageType   string    `gorm:"type:varchar(50)" json:"imageType"`
	Description string    `gorm:"type:text" json:"description"`
	UploadedBy  uint      `json:"uploadedBy"`
	UploadedAt  time.Time `gorm:"autoCreateTime" json:"uploadedAt"`
}

func (WorkOrderImage) TableName() string { return "sys_workorder_image" }
