package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"

	"energy-ops-console/internal/domain/models"
	"energy-ops-console/internal/error/code"
	"energy-ops-console/internal/infrastructure/config"
	"energy-ops-console/pkg/utils"
)

// DefaultRoleKey 用户未分配角色时令牌中的角色
const DefaultRoleKey = "user"

// InterfaceJWTService 定义JWT服务接口
type InterfaceJWTService interface {
	GenerateToken(userID uint, userName, role string) (string, error)
	ValidateToken(tokenString string) (*JWTClaims, error)
	Login(username, password string) (*LoginResult, error)
	GetUserInfo(userID uint) (*UserInfo, error)
}

// LoginResult 表示登录结果
type LoginResult struct {
	Token    string `json:"token"`
	UserID   uint   `json:"userId"`
	UserName string `json:"userName"`
	Role     string `json:"role"`
}

// UserInfo 当前登录用户信息
type UserInfo struct {
	UserID      uint     `json:"userId"`
	UserName    string   `json:"userName"`
	NickName    string   `json:"nickName"`
	Avatar      string   `json:"avatar"`
	Email       string   `json:"email"`
	Phonenumber string   `json:"phonenumber"`
	Sex         string   `json:"sex"`
	Roles       []string `json:"roles"`
}

// JWTService 提供JWT相关服务
type JWTService struct {
	secretKey string
	issuer    string
	expire    time.Duration
	DB        *gorm.DB
}

// JWTClaims 定义JWT令牌的声明结构
type JWTClaims struct {
	UserID   uint   `json:"user_id"`
	UserName string `json:"user_name"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// NewJWTService 创建一个新的JWT服务
func NewJWTService(cfg *config.Config, db *gorm.DB) InterfaceJWTService {
	return &JWTService{
		secretKey: cfg.JWTSecretKey,
		issuer:    "energy-ops-console",
		expire:    cfg.JWTExpiration(),
		DB:        db,
	}
}

// 1 GenerateToken 生成JWT令牌
func (s *JWTService) GenerateToken(userID uint, userName, role string) (string, error) {
	now := time.Now()
	claims := &JWTClaims{
		UserID:   userID,
		UserName: userName,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expire)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    s.issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secretKey))
}

// 2 ValidateToken 验证JWT令牌并返回声明
func (s *JWTService) ValidateToken(tokenString string) (*JWTClaims, error) {
	claims := &JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// 验证签名算法
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.secretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// 3 Login 校验用户名密码并签发令牌
func (s *JWTService) Login(username, password string) (*LoginResult, error) {
	var user models.User
	err := s.DB.Where("user_name = ? AND del_flag = ?", username, models.DelFlagExist).Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, code.New(code.ErrUserPasswordIncorrect, "")
	}
	if err != nil {
		return nil, err
	}
	if !utils.CheckPasswordHash(password, user.Password) {
		return nil, code.New(code.ErrUserPasswordIncorrect, "")
	}
	if user.Status != models.StatusNormal {
		return nil, code.New(code.ErrUserDisabled, "")
	}

	roles, err := s.roleKeys(user.UserID)
	if err != nil {
		return nil, err
	}
	role := DefaultRoleKey
	if len(roles) > 0 {
		role = roles[0]
	}

	token, err := s.GenerateToken(user.UserID, user.UserName, role)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err := s.DB.Model(&models.User{}).Where("user_id = ?", user.UserID).
		UpdateColumn("last_login", now).Error; err != nil {
		return nil, err
	}

	return &LoginResult{
		Token:    token,
		UserID:   user.UserID,
		UserName: user.UserName,
		Role:     role,
	}, nil
}

// 4 GetUserInfo 获取用户信息及角色标识
func (s *JWTService) GetUserInfo(userID uint) (*UserInfo, error) {
	var user models.User
	err := s.DB.Where("user_id = ? AND del_flag = ?", userID, models.DelFlagExist).Take(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.New(code.ErrUserNotFound, "")
		}
		return nil, err
	}

	roles, err := s.roleKeys(userID)
	if err != nil {
		return nil, err
	}

	return &UserInfo{
		UserID:      user.UserID,
		UserName:    user.UserName,
		NickName:    user.NickName,
		Avatar:      user.Avatar,
		Email:       user.Email,
		Phonenumber: user.Phonenumber,
		Sex:         user.Sex,
		Roles:       roles,
	}, nil
}

// roleKeys 用户的有效角色标识，按角色排序
func (s *JWTService) roleKeys(userID uint) ([]string, error) {
	roles := make([]string, 0)
	err := s.DB.Model(&models.Role{}).
		Joins("JOIN sys_user_role ur ON ur.role_id = sys_role.role_id").
		Where("ur.user_id = ? AND sys_role.del_flag = ? AND sys_role.status = ?", userID, models.DelFlagExist, models.StatusNormal).
		Order("sys_role.role_sort, sys_role.role_id").
		Pluck("sys_role.role_key", &roles).Error
	return roles, err
}
