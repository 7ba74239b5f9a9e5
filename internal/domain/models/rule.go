package models

import (
	"time"

	"gorm.io/datatypes"
)

// BusinessRule 业务规则，condition_expr 只保存不求值
type BusinessRule struct {
	RuleID        uint      `gorm:"primaryKey;column:rule_id" json:"ruleId"`
	CreatedBy     uint      `json:"createdBy"`
	RuleName      string    `gorm:"type:varchar(100)" json:"ruleName"`
	Scenario      string    `gorm:"type:varchar(50)" json:"scenario"`
	ConditionExpr string    `gorm:"type:text" json:"conditionExpr"`
	ActionType    string    `gorm:"type:varchar(50)" json:"actionType"`
	Priority      int       `json:"priority"`
	Status        string    `gorm:"type:varchar(20)" json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
}

func (BusinessRule) TableName() string { return "business_rules" }

// BusinessStrategy 策略配置
type BusinessStrategy struct {
	StrategyID   uint           `gorm:"primaryKey;column:strategy_id" json:"strategyId"`
	RuleID       uint           `gorm:"index" json:"ruleId"`
	CreatedBy    uint           `json:"createdBy"`
	StrategyName string         `gorm:"type:varchar(100)" json:"strategyName"`
	Parameters   datatypes.JSON `json:"parameters"`
	Version      string         `gorm:"type:varchar(50)" json:"version"`
	Scenario     string         `gorm:"type:varchar(50)" json:"scenario"`
	Status       string         `gorm:"type:varchar(20)" json:"status"`
	CreatedAt    time.Time      `json:"createdAt"`
}

func (BusinessStrategy) TableName() string { return "business_strategies" }

// DecisionLog 决策日志
type DecisionLog struct {
	LogID           uint           `gorm:"primaryKey;column:log_id" json:"logId"`
	RuleID          uint           `gorm:"index" json:"ruleId"`
	UserID          uint           `json:"userId"`
	InputData       datatypes.JSON `json:"inputData"`
	OutputCommands  datatypes.JSON `json:"outputCommands"`
	ExecutionResult string         `gorm:"type:varchar(20)" json:"executionResult"`
	ErrorDetails    string         `gorm:"type:text" json:"errorDetails"`
	CreatedAt       time.Time      `json:"createdAt"`
}

func (DecisionLog) TableName() string { return "decision_logs" }
