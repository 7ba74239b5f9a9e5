package services

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"

	"energy-ops-console/internal/domain/fsm"
	"energy-ops-console/internal/domain/gateway"
	"energy-ops-console/internal/domain/models"
	"energy-ops-console/internal/error/code"
	"energy-ops-console/internal/infrastructure/config"
	"energy-ops-console/internal/infrastructure/mqtt"
	"energy-ops-console/pkg/logger"
)

// AlarmDescriptor 告警记录
var AlarmDescriptor = &gateway.Descriptor{
	Name:       "alarm",
	PrimaryKey: "alarm_id",
	Order:      "alarm_time DESC, alarm_id DESC",
	Filters: []gateway.FilterSpec{
		gateway.ExactInt("deviceId", "device_id"),
		gateway.Exact("alarmType", "alarm_type"),
		gateway.Exact("severity", "severity"),
		gateway.Exact("status", "status"),
		gateway.TimeRange("startTime", "endTime", "alarm_time"),
	},
	Deletion: gateway.HardDelete,
}

// AlarmRuleDescriptor 告警规则
var AlarmRuleDescriptor = &gateway.Descriptor{
	Name:       "alarm_rule",
	PrimaryKey: "rule_id",
	Order:      "rule_id",
	Filters: []gateway.FilterSpec{
		gateway.Exact("deviceType", "device_type"),
		gateway.Exact("alarmType", "alarm_type"),
		gateway.Exact("status", "status"),
	},
	Deletion: gateway.HardDelete,
}

// HandleAlarmRequest 告警处理参数
type HandleAlarmRequest struct {
	HandleResult string `json:"handleResult" example:"已远程复位变流器"`
}

// CreateAlarmRuleRequest 新增告警规则参数
type CreateAlarmRuleRequest struct {
	RuleName    string          `json:"ruleName" binding:"required" example:"风速超限"`
	DeviceType  string          `json:"deviceType" binding:"required" example:"wind_turbine"`
	AlarmType   string          `json:"alarmType" binding:"required" example:"overspeed"`
	Conditions  json.RawMessage `json:"conditions" swaggertype:"object"`
	Severity    string          `json:"severity" binding:"omitempty,oneof=high medium low" example:"high"`
	Description string          `json:"description" example:"风速持续10分钟超过25m/s"`
	Status      string          `json:"status" binding:"omitempty,oneof=enabled disabled" example:"enabled"`
}

// AlarmRuleRequest 告警规则修改参数
type AlarmRuleRequest struct {
	RuleName    *string         `json:"ruleName" example:"风速超限"`
	DeviceType  *string         `json:"deviceType" example:"wind_turbine"`
	AlarmType   *string         `json:"alarmType" example:"overspeed"`
	Conditions  json.RawMessage `json:"conditions" swaggertype:"object"`
	Severity    *string         `json:"severity" binding:"omitempty,oneof=high medium low" example:"high"`
	Description *string         `json:"description" example:"风速持续10分钟超过25m/s"`
	Status      *string         `json:"status" binding:"omitempty,oneof=enabled disabled" example:"enabled"`
}

// AlarmHandledEvent 告警处理完成后发布的消息
type AlarmHandledEvent struct {
	AlarmID      uint   `json:"alarmId"`
	DeviceID     uint   `json:"deviceId"`
	AlarmType    string `json:"alarmType"`
	Severity     string `json:"severity"`
	HandledBy    uint   `json:"handledBy"`
	HandleTime   string `json:"handleTime"`
	HandleResult string `json:"handleResult"`
}

// InterfaceAlarmService 告警服务接口
type InterfaceAlarmService interface {
	ListAlarms(params gateway.Params) (gateway.Page[models.Alarm], error)
	HandleAlarm(alarmID uint, req *HandleAlarmRequest, userID uint) (*models.Alarm, error)
	ListRules(params gateway.Params) (gateway.Page[models.AlarmRule], error)
	CreateRule(req *CreateAlarmRuleRequest, userID uint) (*models.AlarmRule, error)
	UpdateRule(ruleID uint, req *AlarmRuleRequest) error
}

// AlarmService 告警服务
type AlarmService struct {
	DB        *gorm.DB
	Config    *config.Config
	Publisher mqtt.Publisher
}

// NewAlarmService 创建告警服务
func NewAlarmService(db *gorm.DB, cfg *config.Config, publisher mqtt.Publisher) InterfaceAlarmService {
	if publisher == nil {
		publisher = mqtt.NopPublisher{}
	}
	return &AlarmService{DB: db, Config: cfg, Publisher: publisher}
}

// 1 ListAlarms 分页查询告警，按告警时间倒序
func (s *AlarmService) ListAlarms(params gateway.Params) (gateway.Page[models.Alarm], error) {
	return gateway.List[models.Alarm](s.DB, AlarmDescriptor, params)
}

// 2 HandleAlarm 处理告警并通知订阅者，提交成功后再发布事件
func (s *AlarmService) HandleAlarm(alarmID uint, req *HandleAlarmRequest, userID uint) (*models.Alarm, error) {
	var alarm models.Alarm
	err := gateway.Mutate(s.DB, func(tx *gorm.DB) error {
		if err := tx.Where("alarm_id = ?", alarmID).Take(&alarm).Error; err != nil {
			return notFound(err, "告警记录不存在")
		}
		if alarm.Status == fsm.AlarmHandled {
			return code.New(code.ErrInvalidTransition, "告警已处理")
		}
		next, err := fsm.Alarm.Fire(alarm.Status, fsm.AlarmHandle)
		if err != nil {
			return err
		}

		now := time.Now()
		updates := map[string]interface{}{
			"status":        next,
			"handled_by":    userID,
			"handle_time":   now,
			"handle_result": req.HandleResult,
		}
		// 状态条件写入 UPDATE，并发处理时只有一个能成功
		result := tx.Model(&models.Alarm{}).
			Where("alarm_id = ? AND status = ?", alarmID, alarm.Status).
			Updates(updates)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return code.New(code.ErrInvalidTransition, "告警已处理")
		}
		alarm.Status = next
		alarm.HandledBy = &userID
		alarm.HandleTime = &now
		alarm.HandleResult = req.HandleResult

		title := fmt.Sprintf("告警[%d]已处理", alarm.AlarmID)
		content := fmt.Sprintf("设备%d的%s告警已处理: %s", alarm.DeviceID, alarm.AlarmType, req.HandleResult)
		_, err = notifySubscribers(tx, "alarm", title, content, alarmPriority(alarm.Severity))
		return err
	})
	if err != nil {
		return nil, err
	}

	event := AlarmHandledEvent{
		AlarmID:      alarm.AlarmID,
		DeviceID:     alarm.DeviceID,
		AlarmType:    alarm.AlarmType,
		Severity:     alarm.Severity,
		HandledBy:    userID,
		HandleTime:   alarm.HandleTime.Format(gateway.DateTimeLayout),
		HandleResult: alarm.HandleResult,
	}
	if err := s.Publisher.Publish(mqtt.TopicAlarmHandled, event); err != nil {
		logger.Warning("[Alarm] 告警 %d 处理事件发布失败: %v", alarm.AlarmID, err)
	}
	return &alarm, nil
}

// 3 ListRules 告警规则列表
func (s *AlarmService) ListRules(params gateway.Params) (gateway.Page[models.AlarmRule], error) {
	return gateway.List[models.AlarmRule](s.DB, AlarmRuleDescriptor, params)
}

// 4 CreateRule 新增告警规则
func (s *AlarmService) CreateRule(req *CreateAlarmRuleRequest, userID uint) (*models.AlarmRule, error) {
	rule := &models.AlarmRule{
		RuleName:    req.RuleName,
		DeviceType:  req.DeviceType,
		AlarmType:   req.AlarmType,
		Conditions:  jsonOrNil(req.Conditions),
		Severity:    stringOr(&req.Severity, "medium"),
		Description: req.Description,
		Status:      stringOr(&req.Status, "enabled"),
		CreatedBy:   userID,
	}
	err := gateway.Mutate(s.DB, func(tx *gorm.DB) error {
		return tx.Create(rule).Error
	})
	if err != nil {
		return nil, err
	}
	return rule, nil
}

// 5 UpdateRule 修改告警规则
func (s *AlarmService) UpdateRule(ruleID uint, req *AlarmRuleRequest) error {
	updates := map[string]interface{}{}
	setIf(updates, "rule_name", req.RuleName)
	setIf(updates, "device_type", req.DeviceType)
	setIf(updates, "alarm_type", req.AlarmType)
	setJSONIf(updates, "conditions", req.Conditions)
	setIf(updates, "severity", req.Severity)
	setIf(updates, "description", req.Description)
	setIf(updates, "status", req.Status)
	return updateByID(s.DB, &models.AlarmRule{}, "rule_id", ruleID, updates, "告警规则不存在")
}

func alarmPriority(severity string) string {
	switch severity {
	case "high":
		return "high"
	case "low":
		return "low"
	default:
		return "normal"
	}
}
