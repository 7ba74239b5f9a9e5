package services

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"energy-ops-console/internal/domain/fsm"
	"energy-ops-console/internal/domain/gateway"
	"energy-ops-console/internal/domain/models"
	"energy-ops-console/internal/error/code"
	"energy-ops-console/internal/infrastructure/config"
	"energy-ops-console/internal/infrastructure/mqtt"
	"energy-ops-console/pkg/logger"
)

// DroneDescriptor 无人机
var DroneDescriptor = &gateway.Descriptor{
	Name:       "drone",
	PrimaryKey: "drone_id",
	Order:      "drone_id",
	Filters: []gateway.FilterSpec{
		gateway.Exact("status", "status"),
		gateway.Exact("region", "region"),
	},
	Deletion: gateway.HardDelete,
}

// DroneTaskDescriptor 无人机巡检任务
var DroneTaskDescriptor = &gateway.Descriptor{
	Name:       "drone_task",
	PrimaryKey: "drone_task_id",
	Order:      "created_at DESC, drone_task_id DESC",
	Filters: []gateway.FilterSpec{
		gateway.ExactInt("droneId", "drone_id"),
		gateway.Exact("taskType", "task_type"),
		gateway.Exact("status", "status"),
		gateway.Exact("priority", "priority"),
	},
	Deletion: gateway.HardDelete,
}

// InspectionDataDescriptor 巡检数据
var InspectionDataDescriptor = &gateway.Descriptor{
	Name:       "drone_inspection_data",
	PrimaryKey: "data_id",
	Order:      "timestamp DESC, data_id DESC",
	Filters: []gateway.FilterSpec{
		gateway.ExactInt("taskId", "task_id"),
		gateway.ExactInt("deviceId", "device_id"),
		gateway.Exact("dataType", "data_type"),
		gateway.TimeRange("startTime", "endTime", "timestamp"),
	},
	Deletion: gateway.HardDelete,
}

// DroneTaskRequest 巡检任务参数
type DroneTaskRequest struct {
	DroneID            uint            `json:"droneId" binding:"required" example:"1"`
	TaskType           string          `json:"taskType" example:"inspection"`
	Priority           *string         `json:"priority" example:"high"`
	InspectionRoute    json.RawMessage `json:"inspectionRoute" swaggertype:"object"`
	TargetDevices      json.RawMessage `json:"targetDevices" swaggertype:"array,integer"`
	ScheduledStartTime *string         `json:"scheduledStartTime" example:"2024-06-01 08:00:00"`
}

// DroneControlRequest 任务控制参数
type DroneControlRequest struct {
	Action string `json:"action" binding:"required,oneof=start pause resume complete cancel" example:"start"`
}

// InspectionDataRequest 巡检数据参数
type InspectionDataRequest struct {
	TaskID      uint            `json:"taskId" binding:"required" example:"3"`
	DeviceID    uint            `json:"deviceId" binding:"required" example:"12"`
	DataType    string          `json:"dataType" binding:"required" example:"image"`
	DataContent json.RawMessage `json:"dataContent" swaggertype:"object"`
	Location    string          `json:"location" example:"北区3号机位"`
}

// DroneCommand 下发给无人机的控制指令
type DroneCommand struct {
	CommandID uint   `json:"commandId"`
	TaskID    uint   `json:"taskId"`
	DroneID   uint   `json:"droneId"`
	Action    string `json:"action"`
	Status    string `json:"status"`
	IssuedAt  string `json:"issuedAt"`
}

// 控制指令状态
const (
	CommandPending   = "pending"
	CommandPublished = "published"
)

// InterfaceDroneService 无人机服务接口
type InterfaceDroneService interface {
	ListDrones(params gateway.Params) (gateway.Page[models.Drone], error)
	CreateTask(req *DroneTaskRequest, userID uint) (*models.DroneTask, error)
	ListTasks(params gateway.Params) (gateway.Page[models.DroneTask], error)
	ControlTask(taskID uint, action string) (*models.DroneTask, error)
	AddInspectionData(req *InspectionDataRequest, userID uint) (*models.DroneInspectionData, error)
	ListInspectionData(params gateway.Params) (gateway.Page[models.DroneInspectionData], error)
}

// DroneService 无人机服务
type DroneService struct {
	DB        *gorm.DB
	Config    *config.Config
	Publisher mqtt.Publisher
}

// NewDroneService 创建无人机服务
func NewDroneService(db *gorm.DB, cfg *config.Config, publisher mqtt.Publisher) InterfaceDroneService {
	if publisher == nil {
		publisher = mqtt.NopPublisher{}
	}
	return &DroneService{DB: db, Config: cfg, Publisher: publisher}
}

// 1 ListDrones 无人机列表
func (s *DroneService) ListDrones(params gateway.Params) (gateway.Page[models.Drone], error) {
	return gateway.List[models.Drone](s.DB, DroneDescriptor, params)
}

// 2 CreateTask 创建巡检任务
func (s *DroneService) CreateTask(req *DroneTaskRequest, userID uint) (*models.DroneTask, error) {
	scheduled, err := parseDateTime(req.ScheduledStartTime, "scheduledStartTime")
	if err != nil {
		return nil, err
	}
	task := &models.DroneTask{
		DroneID:            req.DroneID,
		TaskType:           req.TaskType,
		Priority:           stringOr(req.Priority, "normal"),
		InspectionRoute:    jsonOrNil(req.InspectionRoute),
		TargetDevices:      jsonOrNil(req.TargetDevices),
		ScheduledStartTime: scheduled,
		Status:             fsm.DroneTaskPending,
		CreatedBy:          userID,
	}
	err = gateway.Mutate(s.DB, func(tx *gorm.DB) error {
		return tx.Create(task).Error
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// 3 ListTasks 巡检任务列表
func (s *DroneService) ListTasks(params gateway.Params) (gateway.Page[models.DroneTask], error) {
	return gateway.List[models.DroneTask](s.DB, DroneTaskDescriptor, params)
}

// 4 ControlTask 控制巡检任务，指令记录与状态变更同一事务提交，提交后通过 MQTT 下发
func (s *DroneService) ControlTask(taskID uint, action string) (*models.DroneTask, error) {
	if !fsm.DroneTask.Events()[action] {
		return nil, code.New(code.ErrValidation, "不支持的操作")
	}

	var task models.DroneTask
	var command models.ControlCommand
	err := gateway.Mutate(s.DB, func(tx *gorm.DB) error {
		if err := tx.Where("drone_task_id = ?", taskID).Take(&task).Error; err != nil {
			return notFound(err, "任务不存在")
		}
		next, err := fsm.DroneTask.Fire(task.Status, action)
		if err != nil {
			return err
		}

		now := time.Now()
		updates := map[string]interface{}{"status": next}
		switch action {
		case fsm.DroneActionStart:
			updates["actual_start_time"] = now
			task.ActualStartTime = &now
		case fsm.DroneActionComplete:
			updates["completed_time"] = now
			updates["progress"] = 100
			task.CompletedTime = &now
			task.Progress = 100
		}
		if err := tx.Model(&models.DroneTask{}).Where("drone_task_id = ?", taskID).Updates(updates).Error; err != nil {
			return err
		}
		task.Status = next

		params, err := json.Marshal(map[string]interface{}{"action": action, "droneId": task.DroneID})
		if err != nil {
			return err
		}
		id := task.TaskID
		command = models.ControlCommand{
			DroneTaskID: &id,
			CommandType: "drone_" + action,
			Parameters:  datatypes.JSON(params),
			Status:      CommandPending,
		}
		return tx.Create(&command).Error
	})
	if err != nil {
		return nil, err
	}

	s.dispatch(&task, &command, action)
	return &task, nil
}

// dispatch 下发控制指令，发布失败只记录日志，指令保持 pending
func (s *DroneService) dispatch(task *models.DroneTask, command *models.ControlCommand, action string) {
	msg := DroneCommand{
		CommandID: command.CommandID,
		TaskID:    task.TaskID,
		DroneID:   task.DroneID,
		Action:    action,
		Status:    task.Status,
		IssuedAt:  command.CreatedAt.Format(gateway.DateTimeLayout),
	}
	if _, disabled := s.Publisher.(mqtt.NopPublisher); disabled {
		return
	}
	if err := s.Publisher.Publish(mqtt.DroneControlTopic(task.DroneID), msg); err != nil {
		logger.Warning("[Drone] 任务 %d 指令 %s 下发失败: %v", task.TaskID, action, err)
		return
	}
	err := s.DB.Model(&models.ControlCommand{}).Where("command_id = ?", command.CommandID).
		Updates(map[string]interface{}{"status": CommandPublished, "executed_at": time.Now()}).Error
	if err != nil {
		logger.Warning("[Drone] 指令 %d 状态更新失败: %v", command.CommandID, err)
	}
}

// 5 AddInspectionData 上传巡检数据
func (s *DroneService) AddInspectionData(req *InspectionDataRequest, userID uint) (*models.DroneInspectionData, error) {
	data := &models.DroneInspectionData{
		TaskID:      req.TaskID,
		DeviceID:    req.DeviceID,
		DataType:    req.DataType,
		DataContent: jsonOrNil(req.DataContent),
		Location:    req.Location,
		Timestamp:   time.Now(),
		UploadedBy:  userID,
	}
	err := gateway.Mutate(s.DB, func(tx *gorm.DB) error {
		return tx.Create(data).Error
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

// 6 ListInspectionData 巡检数据列表
func (s *DroneService) ListInspectionData(params gateway.Params) (gateway.Page[models.DroneInspectionData], error) {
	return gateway.List[models.DroneInspectionData](s.DB, InspectionDataDescriptor, params)
}
