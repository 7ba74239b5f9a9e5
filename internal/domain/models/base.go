package models

import "time"

// 逻辑删除标记
const (
	DelFlagExist   = "0"
	DelFlagDeleted = "2"
)

// 启用状态（系统管理类表）
const (
	StatusNormal   = "0"
	StatusDisabled = "1"
)

// Audit 系统管理表的审计字段
type Audit struct {
	CreateBy   string    `gorm:"type:varchar(64)" json:"createBy"`
	CreateTime time.Time `gorm:"autoCreateTime" json:"createTime"`
	UpdateBy   string    `gorm:"type:varchar(64)" json:"updateBy"`
	UpdateTime time.Time `gorm:"autoUpdateTime" json:"updateTime"`
}
