package gateway

import (
	"gorm.io/gorm"
)

// Mutate 在单个事务中执行写操作，fn 返回错误时整体回滚
func Mutate(db *gorm.DB, fn func(tx *gorm.DB) error) error {
	return db.Transaction(fn)
}

// Delete 按删除策略删除记录。逻辑删除只更新 del_flag 及 extra 中的字段，
// 记录不存在或已删除时返回 gorm.ErrRecordNotFound
func (d *Descriptor) Delete(tx *gorm.DB, model interface{}, id interface{}, extra map[string]interface{}) error {
	var result *gorm.DB
	if d.Deletion == SoftDelete {
		updates := map[string]interface{}{DelFlagColumn: DelFlagDeleted}
		for k, v := range extra {
			updates[k] = v
		}
		result = tx.Model(model).
			Where(d.PrimaryKey+" = ? AND "+DelFlagColumn+" = ?", id, DelFlagExist).
			Updates(updates)
	} else {
		result = tx.Where(d.PrimaryKey+" = ?", id).Delete(model)
	}
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Exists 判断主键对应的有效记录是否存在
func (d *Descriptor) Exists(tx *gorm.DB, model interface{}, id interface{}) (bool, error) {
	var count int64
	query := tx.Model(model).Where(d.PrimaryKey+" = ?", id)
	if d.Deletion == SoftDelete {
		query = query.Where(DelFlagColumn+" = ?", DelFlagExist)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
