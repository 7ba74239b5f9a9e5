package services

import (
	"gorm.io/gorm"

	"energy-ops-console/internal/domain/gateway"
	"energy-ops-console/internal/domain/models"
	"energy-ops-console/internal/infrastructure/config"
)

// RuleDescriptor 业务规则，按优先级升序
var RuleDescriptor = &gateway.Descriptor{
	Name:       "business_rule",
	PrimaryKey: "rule_id",
	Order:      "priority ASC, rule_id",
	Filters: []gateway.FilterSpec{
		gateway.Exact("scenario", "scenario"),
		gateway.Exact("actionType", "action_type"),
		gateway.Exact("status", "status"),
	},
	Deletion: gateway.HardDelete,
}

// StrategyDescriptor 业务策略
var StrategyDescriptor = &gateway.Descriptor{
	Name:       "business_strategy",
	PrimaryKey: "strategy_id",
	Order:      "created_at DESC, strategy_id DESC",
	Filters: []gateway.FilterSpec{
		gateway.ExactInt("ruleId", "rule_id"),
		gateway.Exact("scenario", "scenario"),
		gateway.Exact("status", "status"),
	},
	Deletion: gateway.HardDelete,
}

// DecisionLogDescriptor 规则执行日志
var DecisionLogDescriptor = &gateway.Descriptor{
	Name:       "decision_log",
	PrimaryKey: "log_id",
	Order:      "created_at DESC, log_id DESC",
	Filters: []gateway.FilterSpec{
		gateway.ExactInt("ruleId", "rule_id"),
		gateway.Exact("executionResult", "execution_result"),
		gateway.TimeRange("startTime", "endTime", "created_at"),
	},
	Deletion: gateway.HardDelete,
}

// CreateRuleRequest 新增业务规则参数，conditionExpr 只做存储
type CreateRuleRequest struct {
	RuleName      string `json:"ruleName" binding:"required" example:"低电价储能充电"`
	Scenario      string `json:"scenario" example:"storage"`
	ConditionExpr string `json:"conditionExpr" example:"price < 0.3"`
	ActionType    string `json:"actionType" example:"charge"`
	Priority      int    `json:"priority" example:"1"`
	Status        string `json:"status" binding:"omitempty,oneof=enabled disabled" example:"enabled"`
}

// RuleRequest 业务规则修改参数
type RuleRequest struct {
	RuleName      *string `json:"ruleName" example:"低电价储能充电"`
	Scenario      *string `json:"scenario" example:"storage"`
	ConditionExpr *string `json:"conditionExpr" example:"price < 0.3"`
	ActionType    *string `json:"actionType" example:"charge"`
	Priority      *int    `json:"priority" example:"1"`
	Status        *string `json:"status" binding:"omitempty,oneof=enabled disabled" example:"enabled"`
}

// InterfaceRuleService 业务规则服务接口
type InterfaceRuleService interface {
	ListRules(params gateway.Params) (gateway.Page[models.BusinessRule], error)
	CreateRule(req *CreateRuleRequest, userID uint) (*models.BusinessRule, error)
	UpdateRule(ruleID uint, req *RuleRequest) error
	DeleteRule(ruleID uint) error
	ListStrategies(params gateway.Params) (gateway.Page[models.BusinessStrategy], error)
	ListExecutionLogs(params gateway.Params) (gateway.Page[models.DecisionLog], error)
}

// RuleService 业务规则服务
type RuleService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewRuleService 创建业务规则服务
func NewRuleService(db *gorm.DB, cfg *config.Config) InterfaceRuleService {
	return &RuleService{DB: db, Config: cfg}
}

func (s *RuleService) ListRules(params gateway.Params) (gateway.Page[models.BusinessRule], error) {
	return gateway.List[models.BusinessRule](s.DB, RuleDescriptor, params)
}

func (s *RuleService) CreateRule(req *CreateRuleRequest, userID uint) (*models.BusinessRule, error) {
	rule := &models.BusinessRule{
		CreatedBy:     userID,
		RuleName:      req.RuleName,
		Scenario:      req.Scenario,
		ConditionExpr: req.ConditionExpr,
		ActionType:    req.ActionType,
		Priority:      req.Priority,
		Status:        stringOr(&req.Status, "enabled"),
	}
	err := gateway.Mutate(s.DB, func(tx *gorm.DB) error {
		return tx.Create(rule).Error
	})
	if err != nil {
		return nil, err
	}
	return rule, nil
}

func (s *RuleService) UpdateRule(ruleID uint, req *RuleRequest) error {
	updates := map[string]interface{}{}
	setIf(updates, "rule_name", req.RuleName)
	setIf(updates, "scenario", req.Scenario)
	setIf(updates, "condition_expr", req.ConditionExpr)
	setIf(updates, "action_type", req.ActionType)
	setIf(updates, "priority", req.Priority)
	setIf(updates, "status", req.Status)
	return updateByID(s.DB, &models.BusinessRule{}, "rule_id", ruleID, updates, "规则不存在")
}

func (s *RuleService) DeleteRule(ruleID uint) error {
	return gateway.Mutate(s.DB, func(tx *gorm.DB) error {
		return notFound(RuleDescriptor.Delete(tx, &models.BusinessRule{}, ruleID, nil), "规则不存在")
	})
}

func (s *RuleService) ListStrategies(params gateway.Params) (gateway.Page[models.BusinessStrategy], error) {
	return gateway.List[models.BusinessStrategy](s.DB, StrategyDescriptor, params)
}

func (s *RuleService) ListExecutionLogs(params gateway.Params) (gateway.Page[models.DecisionLog], error) {
	return gateway.List[models.DecisionLog](s.DB, DecisionLogDescriptor, params)
}
