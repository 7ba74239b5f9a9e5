package models

import (
	"time"

	"gorm.io/datatypes"
)

// Alarm 告警记录，status: active/handled
type Alarm struct {
	AlarmID      uint       `gorm:"primaryKey;column:alarm_id" json:"alarmId"`
	DeviceID     uint       `gorm:"index;not null" json:"deviceId"`
	AlarmType    string     `gorm:"type:varchar(50);not null" json:"alarmType"`
	Severity     string     `gorm:"type:varchar(20);not null" json:"severity"` // high/medium/low
	Description  string     `gorm:"type:text" json:"description"`
	AlarmTime    time.Time  `gorm:"autoCreateTime;index" json:"alarmTime"`
	Status       string     `gorm:"type:varchar(20);default:'active'" json:"status"`
	HandledBy    *uint      `json:"handledBy"`
	HandleTime   *time.Time `json:"handleTime"`
	HandleResult string     `gorm:"type:text" json:"handleResult"`
}

func (Alarm) TableName() string { return "sys_alarm" }

// AlarmRule 告警规则，conditions 原样保存
type AlarmRule struct {
	RuleID      uint           `gorm:"primaryKey;column:rule_id" json:"ruleId"`
	RuleName    string         `gorm:"type:varchar(100);not null" json:"ruleName"`
	DeviceType  string         `gorm:"type:varchar(50);not null" json:"deviceType"`
	AlarmType   string         `gorm:"type:varchar(50);not null" json:"alarmType"`
	Conditions  datatypes.JSON `json:"conditions"`
	Severity    string         `gorm:"type:varchar(20)" json:"severity"`
	Description string         `gorm:"type:text" json:"description"`
	Status      string         `gorm:"type:varchar(20)" json:"status"` // enabled/disabled
	CreatedBy   uint           `json:"createdBy"`
	CreatedAt   time.Time      `json:"createdAt"`
}

func (AlarmRule) TableName() string { return "sys_alarm_rule" }
