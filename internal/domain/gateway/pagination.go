package gateway

import (
	"math"
	"strconv"

	"gorm.io/gorm"
)

// 分页参数默认值与上限
const (
	DefaultPageNum  = 1
	DefaultPageSize = 10
	MaxPageSize     = 500
	// MaxPageNum 保证偏移量不溢出
	MaxPageNum      = math.MaxInt / MaxPageSize
)

// PageRequest 分页请求
type PageRequest struct {
	PageNum  int
	PageSize int
}

// Page 分页结果，Total 为过滤后未分页的总数
type Page[T any] struct {
	Total int64
	Items []T
}

// ParsePage 读取 pageNum 与 pageSize，缺省或非法时使用默认值
func ParsePage(params Params) PageRequest {
	page := PageRequest{PageNum: DefaultPageNum, PageSize: DefaultPageSize}
	if params == nil {
		return page
	}
	if n, err := strconv.Atoi(params.Get("pageNum")); err == nil {
		page.PageNum = n
	}
	if n, err := strconv.Atoi(params.Get("pageSize")); err == nil {
		page.PageSize = n
	}
	return page.Normalize()
}

// Normalize 保证页码与页大小不小于 1，且均不超过上限
func (p PageRequest) Normalize() PageRequest {
	if p.PageNum < 1 {
		p.PageNum = 1
	}
	if p.PageNum > MaxPageNum {
		p.PageNum = MaxPageNum
	}
	if p.PageSize < 1 {
		p.PageSize = 1
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	return p
}

// Offset 偏移量
func (p PageRequest) Offset() int {
	return (p.PageNum - 1) * p.PageSize
}

// Paginate 先在过滤后的集合上计数，再按排序取出指定页
func Paginate[T any](query *gorm.DB, page PageRequest, order string) (Page[T], error) {
	page = page.Normalize()
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return Page[T]{}, err
	}

	items := make([]T, 0)
	offset := page.Offset()
	if offset >= 0 && total > int64(offset) {
		q := query
		if order != "" {
			q = q.Order(order)
		}
		if err := q.Limit(page.PageSize).Offset(offset).Find(&items).Error; err != nil {
			return Page[T]{}, err
		}
	}
	return Page[T]{Total: total, Items: items}, nil
}
