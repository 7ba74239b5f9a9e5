package database

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"energy-ops-console/internal/domain/models"
	"energy-ops-console/pkg/logger"
	"energy-ops-console/pkg/utils"
)

// 迁移模式
const (
	MigrationAuto = "auto"
	MigrationDrop = "drop"
)

// 默认管理员
const (
	AdminUserName = "admin"
	AdminRoleKey  = "admin"
)

// Migrate 按模式执行迁移，auto 只添加新表和新列，drop 删除后重建
func Migrate(db *gorm.DB, mode string) error {
	switch mode {
	case MigrationDrop:
		logger.Warning("在drop模式下运行，将删除并重建所有表")
		return DropAndRecreate(db)
	case MigrationAuto, "":
		logger.Info("在标准模式下运行，将只添加新列和新表")
		return AutoMigrate(db)
	default:
		return fmt.Errorf("未知的迁移模式: %s", mode)
	}
}

// AutoMigrate 自动迁移所有模型
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return err
	}
	logger.Info("数据库迁移完成，共 %d 张表", len(models.All()))
	return nil
}

// DropAndRecreate 删除并重建所有表
func DropAndRecreate(db *gorm.DB) error {
	all := models.All()
	for i := len(all) - 1; i >= 0; i-- {
		if err := db.Migrator().DropTable(all[i]); err != nil {
			logger.Error("删除表失败: %v", err)
		}
	}
	return AutoMigrate(db)
}

// EnsureAdmin 确保存在管理员角色与管理员账户
func EnsureAdmin(db *gorm.DB, password string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var role models.Role
		err := tx.Where("role_key = ?", AdminRoleKey).First(&role).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			role = models.Role{
				RoleName: "超级管理员",
				RoleKey:  AdminRoleKey,
				RoleSort: 1,
				Status:   models.StatusNormal,
				DelFlag:  models.DelFlagExist,
				Audit:    models.Audit{CreateBy: "system"},
			}
			if err := tx.Create(&role).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&models.User{}).Where("user_name = ?", AdminUserName).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		hashed, err := utils.HashPassword(password)
		if err != nil {
			return err
		}
		admin := models.User{
			UserName: AdminUserName,
			NickName: "管理员",
			Password: hashed,
			Status:   models.StatusNormal,
			DelFlag:  models.DelFlagExist,
			Audit:    models.Audit{CreateBy: "system"},
		}
		if err := tx.Create(&admin).Error; err != nil {
			return err
		}
		if err := tx.Create(&models.UserRole{UserID: admin.UserID, RoleID: role.RoleID}).Error; err != nil {
			return err
		}
		logger.Info("已创建默认管理员账户")
		return nil
	})
}
