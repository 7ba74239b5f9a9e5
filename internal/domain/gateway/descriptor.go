// Package gateway 实现资源列表查询、字段投影与写入事务的通用流程。
//
// 每个资源通过 Descriptor 声明主键、默认排序、可识别的过滤参数与删除策略，
// 控制器只负责解析请求并把结果交给响应封装。
package gateway

import (
	"gorm.io/gorm"
)

// DeletePolicy 删除策略
type DeletePolicy int

const (
	// HardDelete 物理删除
	HardDelete DeletePolicy = iota
	// SoftDelete 将 del_flag 标记为 2
	SoftDelete
)

// 逻辑删除标记
const (
	DelFlagColumn  = "del_flag"
	DelFlagExist   = "0"
	DelFlagDeleted = "2"
)

// Descriptor 资源描述
type Descriptor struct {
	Name       string
	PrimaryKey string
	// Order 默认排序，需包含主键作为并列时的次序
	Order    string
	Filters  []FilterSpec
	Deletion DeletePolicy
	// Scope 基础查询范围，在所有过滤条件之前生效
	Scope func(*gorm.DB) *gorm.DB
}

// Query 构造带过滤条件但未分页的查询
func (d *Descriptor) Query(db *gorm.DB, params Params) *gorm.DB {
	query := db
	if d.Deletion == SoftDelete {
		query = query.Where(DelFlagColumn+" = ?", DelFlagExist)
	}
	if d.Scope != nil {
		query = query.Scopes(d.Scope)
	}
	return ApplyFilters(query, BuildFilters(d.Filters, params))
}

// List 执行过滤、计数与分页查询
func List[T any](db *gorm.DB, d *Descriptor, params Params) (Page[T], error) {
	query := d.Query(db.Model(new(T)), params)
	return Paginate[T](query, ParsePage(params), d.Order)
}

// All 执行过滤查询并返回全部结果（用于树形资源与导出）
func All[T any](db *gorm.DB, d *Descriptor, params Params) ([]T, error) {
	items := make([]T, 0)
	query := d.Query(db.Model(new(T)), params)
	if d.Order != "" {
		query = query.Order(d.Order)
	}
	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Get 按主键读取单条记录，逻辑删除的记录视为不存在
func Get[T any](db *gorm.DB, d *Descriptor, id interface{}) (*T, error) {
	var item T
	query := db.Model(new(T)).Where(d.PrimaryKey+" = ?", id)
	if d.Deletion == SoftDelete {
		query = query.Where(DelFlagColumn+" = ?", DelFlagExist)
	}
	if err := query.Take(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}
