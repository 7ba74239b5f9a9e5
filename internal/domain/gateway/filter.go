package gateway

import (
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Params 请求参数来源，url.Values 满足该接口
type Params interface {
	Get(key string) string
}

// Mode 比较方式
type Mode int

const (
	// ModeExact 等值匹配
	ModeExact Mode = iota
	// ModeContains 子串匹配
	ModeContains
	// ModeRange 区间匹配，起止参数各自可选
	ModeRange
)

// Kind 参数类型
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindTime
)

// FilterSpec 外部参数到字段条件的映射
type FilterSpec struct {
	Param      string
	Column     string
	Mode       Mode
	Kind       Kind
	StartParam string
	EndParam   string
}

// likeEscaper 转义 LIKE 通配符，转义符为 '!'，MySQL 与 SQLite 写法一致
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// Predicate 单个查询条件
type Predicate struct {
	Query string
	Args  []interface{}
}

// Exact 字符串等值过滤
func Exact(param, column string) FilterSpec {
	return FilterSpec{Param: param, Column: column, Mode: ModeExact, Kind: KindString}
}

// ExactInt 整数等值过滤，无法解析时忽略
func ExactInt(param, column string) FilterSpec {
	return FilterSpec{Param: param, Column: column, Mode: ModeExact, Kind: KindInt}
}

// Contains 模糊匹配过滤
func Contains(param, column string) FilterSpec {
	return FilterSpec{Param: param, Column: column, Mode: ModeContains, Kind: KindString}
}

// TimeRange 时间区间过滤
func TimeRange(startParam, endParam, column string) FilterSpec {
	return FilterSpec{StartParam: startParam, EndParam: endParam, Column: column, Mode: ModeRange, Kind: KindTime}
}

// BuildFilters 将识别到的参数转换为条件列表，缺省参数不产生条件
func BuildFilters(specs []FilterSpec, params Params) []Predicate {
	predicates := make([]Predicate, 0, len(specs))
	if params == nil {
		return predicates
	}
	for _, spec := range specs {
		switch spec.Mode {
		case ModeExact:
			if v, ok := parseValue(spec.Kind, params.Get(spec.Param)); ok {
				predicates = append(predicates, Predicate{Query: spec.Column + " = ?", Args: []interface{}{v}})
			}
		case ModeContains:
			if raw := strings.TrimSpace(params.Get(spec.Param)); raw != "" {
				predicates = append(predicates, Predicate{
					Query: spec.Column + " LIKE ? ESCAPE '!'",
					Args:  []interface{}{"%" + likeEscaper.Replace(raw) + "%"},
				})
			}
		case ModeRange:
			if v, ok := parseValue(spec.Kind, params.Get(spec.StartParam)); ok {
				predicates = append(predicates, Predicate{Query: spec.Column + " >= ?", Args: []interface{}{v}})
			}
			if v, ok := parseValue(spec.Kind, params.Get(spec.EndParam)); ok {
				predicates = append(predicates, Predicate{Query: spec.Column + " <= ?", Args: []interface{}{v}})
			}
		}
	}
	return predicates
}

// ApplyFilters 以 AND 方式追加条件
func ApplyFilters(db *gorm.DB, predicates []Predicate) *gorm.DB {
	for _, p := range predicates {
		db = db.Where(p.Query, p.Args...)
	}
	return db
}

func parseValue(kind Kind, raw string) (interface{}, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, false
	}
	switch kind {
	case KindInt:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, false
		}
		return n, true
	case KindTime:
		t, err := ParseQueryTime(raw)
		if err != nil {
			return nil, false
		}
		return t, true
	default:
		return raw, true
	}
}

var queryTimeLayouts = []string{DateTimeLayout, "2006-01-02T15:04:05", "2006-01-02"}

// ParseQueryTime 解析查询参数中的时间，仅有日期时取当天零点
func ParseQueryTime(raw string) (time.Time, error) {
	var err error
	for _, layout := range queryTimeLayouts {
		var t time.Time
		if t, err = time.ParseInLocation(layout, raw, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}
