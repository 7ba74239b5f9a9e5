package services

import (
	"encoding/json"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"energy-ops-console/internal/domain/fsm"
	"energy-ops-console/internal/domain/gateway"
	"energy-ops-console/internal/error/code"
	"energy-ops-console/pkg/logger"
)

// notFound 将记录不存在转换为带业务消息的 404，其余错误原样返回
func notFound(err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return code.New(code.ErrRecordNotFound, msg)
	}
	return err
}

// setIf 字段非空时写入更新集合
func setIf[T any](updates map[string]interface{}, column string, v *T) {
	if v != nil {
		updates[column] = *v
	}
}

// setJSONIf JSON 字段非空时写入更新集合
func setJSONIf(updates map[string]interface{}, column string, raw json.RawMessage) {
	if len(raw) > 0 {
		updates[column] = datatypes.JSON(raw)
	}
}

// jsonOrNil 空的 JSON 输入保存为 NULL
func jsonOrNil(raw json.RawMessage) datatypes.JSON {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return datatypes.JSON(raw)
}

// deref 取指针的值，nil 时返回零值
func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

func stringOr(v *string, def string) string {
	if v == nil || *v == "" {
		return def
	}
	return *v
}

// parseDateTime 解析固定格式的时间字段，空串返回 nil
func parseDateTime(raw *string, field string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	t, err := parseRequiredDateTime(*raw, field)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// parseRequiredDateTime 解析必填的时间字段
func parseRequiredDateTime(raw, field string) (time.Time, error) {
	t, err := time.ParseInLocation(gateway.DateTimeLayout, raw, time.Local)
	if err != nil {
		return time.Time{}, code.New(code.ErrValidation, field+"格式错误，应为 YYYY-MM-DD HH:MM:SS")
	}
	return t, nil
}

// updateByID 在事务中按主键更新，记录不存在时返回 msg 对应的 404
func updateByID(db *gorm.DB, model interface{}, pk string, id uint, updates map[string]interface{}, msg string) error {
	return gateway.Mutate(db, func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(model).Where(pk+" = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return code.New(code.ErrRecordNotFound, msg)
		}
		if len(updates) == 0 {
			return nil
		}
		return tx.Model(model).Where(pk+" = ?", id).Updates(updates).Error
	})
}

// markJobFailed 上游提交失败后把已提交的任务记录标记为 failed 并保留错误信息
func markJobFailed(db *gorm.DB, model interface{}, pk string, id uint, cause error) {
	err := db.Model(model).Where(pk+" = ?", id).Updates(map[string]interface{}{
		"status":        fsm.JobFailed,
		"error_message": cause.Error(),
	}).Error
	if err != nil {
		logger.Error("[Job] %s=%d 标记失败状态出错: %v", pk, id, err)
	}
}

// nextJobStatus 计算上游同步后的状态，非法的回退保持本地状态
func nextJobStatus(current string, upstream *string) string {
	if upstream == nil || *upstream == "" || *upstream == current {
		return current
	}
	if err := fsm.Job.Move(current, *upstream); err != nil {
		logger.Warning("[Job] 忽略上游状态 %s -> %s: %v", current, *upstream, err)
		return current
	}
	return *upstream
}
