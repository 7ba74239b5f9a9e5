package gateway

import (
	"encoding/json"
	"reflect"
	"strings"
	"time"

	"gorm.io/datatypes"
)

// DateTimeLayout 对外时间格式
const DateTimeLayout = "2006-01-02 15:04:05"

var (
	timeType    = reflect.TypeOf(time.Time{})
	jsonType    = reflect.TypeOf(datatypes.JSON{})
	rawJSONType = reflect.TypeOf(json.RawMessage{})
)

// FormatTime 格式化时间，零值返回 nil
func FormatTime(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t.Format(DateTimeLayout)
}

// FormatTimePtr 格式化可空时间
func FormatTimePtr(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return FormatTime(*t)
}

// Project 按 json 标签把记录转换为对外字段，时间字段统一格式化，
// JSON 字段原样透传。嵌入结构体的字段会被展开
func Project(record interface{}) map[string]interface{} {
	out := make(map[string]interface{})
	v := reflect.ValueOf(record)
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return out
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return out
	}
	projectStruct(v, out)
	return out
}

// ProjectAll 批量投影
func ProjectAll[T any](items []T) []map[string]interface{} {
	rows := make([]map[string]interface{}, 0, len(items))
	for i := range items {
		rows = append(rows, Project(&items[i]))
	}
	return rows
}

func projectStruct(v reflect.Value, out map[string]interface{}) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		fv := v.Field(i)
		if field.Anonymous && field.Type.Kind() == reflect.Struct && field.Type != timeType {
			projectStruct(fv, out)
			continue
		}
		name := fieldName(field)
		if name == "" {
			continue
		}
		out[name] = projectValue(fv)
	}
}

func fieldName(field reflect.StructField) string {
	tag := field.Tag.Get("json")
	if tag == "-" {
		return ""
	}
	if name := strings.Split(tag, ",")[0]; name != "" {
		return name
	}
	return strings.ToLower(field.Name[:1]) + field.Name[1:]
}

func projectValue(v reflect.Value) interface{} {
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	switch v.Type() {
	case timeType:
		return FormatTime(v.Interface().(time.Time))
	case jsonType, rawJSONType:
		raw := v.Bytes()
		if len(raw) == 0 {
			return nil
		}
		return json.RawMessage(append([]byte(nil), raw...))
	}
	return v.Interface()
}
