package models

import (
	"time"

	"gorm.io/datatypes"
)

// Drone 无人机，status: available/maintenance/offline
type Drone struct {
	DroneID         uint       `gorm:"primaryKey;column:drone_id" json:"droneId"`
	DroneCode       string     `gorm:"type:varchar(50);uniqueIndex;not null" json:"droneCode"`
	Model           string     `gorm:"type:varchar(100);not null" json:"model"`
	Status          string     `gorm:"type:varchar(20);default:'available'" json:"status"`
	BatteryLevel    float64    `gorm:"default:100" json:"batteryLevel"`
	Region          string     `gorm:"type:varchar(50)" json:"region"`
	CurrentLocation string     `gorm:"type:varchar(200)" json:"currentLocation"`
	LastMaintenance *time.Time `json:"lastMaintenance"`
	CreatedAt       time.Time  `json:"-"`
	UpdatedAt       time.Time  `json:"-"`
}

func (Drone) TableName() string { return "sys_drone" }

// DroneTask 无人机巡检任务
type DroneTask struct {
	TaskID             uint           `gorm:"primaryKey;column:drone_task_id" json:"taskId"`
	DroneID            uint           `gorm:"index" json:"droneId"`
	TaskType           string         `gorm:"type:varchar(50)" json:"taskType"`
	Priority           string         `gorm:"type:varchar(20)" json:"priority"`
	InspectionRoute    datatypes.JSON `json:"inspectionRoute"`
	TargetDevices      datatypes.JSON `json:"targetDevices"`
	ScheduledStartTime *time.Time     `json:"scheduledStartTime"`
	ActualStartTime    *time.Time     `json:"actualStartTime"`
	CompletedTime      *time.Time     `json:"completedTime"`
	Status             string         `gorm:"type:varchar(20);index" json:"status"`
	Progress           float64        `json:"progress"`
	CreatedBy          uint           `json:"createdBy"`
	CreatedAt          time.Time      `json:"createdAt"`
}

func (DroneTask) TableName() string { return "drone_tasks" }

// DroneInspectionData 巡检数据，data_type: image/video/sensor
type DroneInspectionData struct {
	DataID      uint           `gorm:"primaryKey;column:data_id" json:"dataId"`
	TaskID      uint           `gorm:"index;not null" json:"taskId"`
	DeviceID    uint           `gorm:"index;not null" json:"deviceId"`
	DataType    string         `gorm:"type:varchar(50);not null" json:"dataType"`
	DataContent datatypes.JSON `json:"dataContent"`
	Location    string         `gorm:"type:varchar(200)" json:"location"`
	Timestamp   time.Time      `gorm:"autoCreateTime" json:"timestamp"`
	UploadedBy  uint           `json:"uploadedBy"`
}

func (DroneInspectionData) TableName() string { return "sys_drone_inspection_data" }

// ControlCommand 下发给现场设备的控制指令
type ControlCommand struct {
	CommandID      uint           `gorm:"primaryKey;column:command_id" json:"commandId"`
	TaskID         *uint          `json:"taskId"`
	DroneTaskID    *uint          `gorm:"index" json:"droneTaskId"`
	RuleID         *uint          `json:"ruleId"`
	CommandType    string         `gorm:"type:varchar(50)" json:"commandType"`
	TargetDeviceID *uint          `json:"targetDeviceId"`
	Parameters     datatypes.JSON `json:"parameters"`
	Status         string         `gorm:"type:varchar(20)" json:"status"`
	CreatedAt      time.Time      `json:"createdAt"`
	ExecutedAt     *time.Time     `json:"executedAt"`
}

func (ControlCommand) TableName() string { return "control_commands" }
