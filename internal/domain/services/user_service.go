package services

import (
	"errors"

	"gorm.io/gorm"

	"energy-ops-console/internal/domain/gateway"
	"energy-ops-console/internal/domain/models"
	"energy-ops-console/internal/error/code"
	"energy-ops-console/internal/infrastructure/config"
	"energy-ops-console/pkg/utils"
)

// UserDescriptor 用户资源
var UserDescriptor = &gateway.Descriptor{
	Name:       "user",
	PrimaryKey: "user_id",
	Order:      "user_id",
	Filters: []gateway.FilterSpec{
		gateway.Contains("userName", "user_name"),
		gateway.Contains("phonenumber", "phonenumber"),
		gateway.Exact("status", "status"),
	},
	Deletion: gateway.SoftDelete,
}

// UserRequest 用户新增与修改参数，userName 与 password 只在新增时生效
type UserRequest struct {
	UserID      uint    `json:"userId" example:"2"`
	UserName    *string `json:"userName" binding:"required_without=UserID" example:"operator01"`
	NickName    *string `json:"nickName" example:"值班员"`
	Password    *string `json:"password,omitempty" binding:"required_without=UserID" example:"Passw0rd!"`
	Email       *string `json:"email" binding:"omitempty,email" example:"op@example.com"`
	Phonenumber *string `json:"phonenumber" example:"13900000000"`
	Sex         *string `json:"sex" binding:"omitempty,oneof=0 1 2" example:"0"`
	Status      *string `json:"status" binding:"omitempty,oneof=0 1" example:"0"`
	RoleIDs     *[]uint `json:"roleIds"`
}

// ResetPasswordRequest 重置密码参数
type ResetPasswordRequest struct {
	UserID   uint   `json:"userId" binding:"required" example:"2"`
	Password string `json:"password" binding:"required" example:"NewPassw0rd!"`
}

// InterfaceUserService 用户服务接口
type InterfaceUserService interface {
	ListUsers(params gateway.Params) (gateway.Page[models.User], error)
	CreateUser(req *UserRequest, operator string) (*models.User, error)
	UpdateUser(req *UserRequest, operator string) error
	DeleteUser(id uint, operator string) error
	ResetPassword(req *ResetPasswordRequest, operator string) error
	UserRoleIDs(userID uint) ([]uint, error)
}

// UserService 用户服务
type UserService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewUserService 创建用户服务
func NewUserService(db *gorm.DB, cfg *config.Config) InterfaceUserService {
	return &UserService{DB: db, Config: cfg}
}

// 1 ListUsers 分页查询用户
func (s *UserService) ListUsers(params gateway.Params) (gateway.Page[models.User], error) {
	return gateway.List[models.User](s.DB, UserDescriptor, params)
}

// 2 CreateUser 新增用户，密码以 bcrypt 保存
func (s *UserService) CreateUser(req *UserRequest, operator string) (*models.User, error) {
	hashed, err := utils.HashPassword(deref(req.Password))
	if errors.Is(err, utils.ErrEmptyPassword) {
		return nil, code.New(code.ErrValidation, "密码不能为空")
	}
	if err != nil {
		return nil, err
	}

	user := &models.User{
		UserName: deref(req.UserName),
		Password: hashed,
		Sex:      stringOr(req.Sex, "0"),
		Status:   stringOr(req.Status, models.StatusNormal),
		DelFlag:  models.DelFlagExist,
		Audit:    models.Audit{CreateBy: operator},
	}
	if req.NickName != nil {
		user.NickName = *req.NickName
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Phonenumber != nil {
		user.Phonenumber = *req.Phonenumber
	}

	err = gateway.Mutate(s.DB, func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("user_name = ?", user.UserName).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return code.New(code.ErrUserAlreadyExist, "")
		}
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		if req.RoleIDs != nil {
			return replaceUserRoles(tx, user.UserID, *req.RoleIDs)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// 3 UpdateUser 修改用户资料，roleIds 存在时整体替换角色
func (s *UserService) UpdateUser(req *UserRequest, operator string) error {
	return gateway.Mutate(s.DB, func(tx *gorm.DB) error {
		exists, err := UserDescriptor.Exists(tx, &models.User{}, req.UserID)
		if err != nil {
			return err
		}
		if !exists {
			return code.New(code.ErrUserNotFound, "")
		}

		updates := map[string]interface{}{"update_by": operator}
		setIf(updates, "nick_name", req.NickName)
		setIf(updates, "email", req.Email)
		setIf(updates, "phonenumber", req.Phonenumber)
		setIf(updates, "sex", req.Sex)
		setIf(updates, "status", req.Status)
		if err := tx.Model(&models.User{}).Where("user_id = ?", req.UserID).Updates(updates).Error; err != nil {
			return err
		}
		if req.RoleIDs != nil {
			return replaceUserRoles(tx, req.UserID, *req.RoleIDs)
		}
		return nil
	})
}

// 4 DeleteUser 逻辑删除用户
func (s *UserService) DeleteUser(id uint, operator string) error {
	return gateway.Mutate(s.DB, func(tx *gorm.DB) error {
		err := UserDescriptor.Delete(tx, &models.User{}, id, map[string]interface{}{"update_by": operator})
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return code.New(code.ErrUserNotFound, "")
		}
		return err
	})
}

// 5 ResetPassword 重置密码
func (s *UserService) ResetPassword(req *ResetPasswordRequest, operator string) error {
	hashed, err := utils.HashPassword(req.Password)
	if errors.Is(err, utils.ErrEmptyPassword) {
		return code.New(code.ErrValidation, "密码不能为空")
	}
	if err != nil {
		return err
	}
	return gateway.Mutate(s.DB, func(tx *gorm.DB) error {
		result := tx.Model(&models.User{}).
			Where("user_id = ? AND del_flag = ?", req.UserID, models.DelFlagExist).
			Updates(map[string]interface{}{"password": hashed, "update_by": operator})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return code.New(code.ErrUserNotFound, "")
		}
		return nil
	})
}

// 6 UserRoleIDs 用户拥有的角色
func (s *UserService) UserRoleIDs(userID uint) ([]uint, error) {
	ids := make([]uint, 0)
	err := s.DB.Model(&models.UserRole{}).Where("user_id = ?", userID).Order("role_id").Pluck("role_id", &ids).Error
	return ids, err
}

func replaceUserRoles(tx *gorm.DB, userID uint, roleIDs []uint) error {
	if err := tx.Where("user_id = ?", userID).Delete(&models.UserRole{}).Error; err != nil {
		return err
	}
	if len(roleIDs) == 0 {
		return nil
	}
	// 只关联有效角色
	valid := make([]uint, 0, len(roleIDs))
	if err := tx.Model(&models.Role{}).
		Where("role_id IN ? AND del_flag = ?", roleIDs, models.DelFlagExist).
		Order("role_id").
		Pluck("role_id", &valid).Error; err != nil {
		return err
	}
	if len(valid) == 0 {
		return nil
	}
	links := make([]models.UserRole, 0, len(valid))
	for _, id := range valid {
		links = append(links, models.UserRole{UserID: userID, RoleID: id})
	}
	return tx.Create(&links).Error
}
