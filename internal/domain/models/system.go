package models

import (
	"time"

	"gorm.io/datatypes"
)

// User 系统用户
type User struct {
	UserID      uint       `gorm:"primaryKey;column:user_id" json:"userId"`
	UserName    string     `gorm:"type:varchar(50);uniqueIndex;not null" json:"userName"`
	NickName    string     `gorm:"type:varchar(50)" json:"nickName"`
	Email       string     `gorm:"type:varchar(120);index" json:"email"`
	Phonenumber string     `gorm:"type:varchar(11)" json:"phonenumber"`
	Sex         string     `gorm:"type:char(1);default:'0'" json:"sex"` // 0男 1女 2未知
	Avatar      string     `gorm:"type:varchar(100)" json:"avatar"`
	Password    string     `gorm:"type:varchar(128)" json:"-"`
	Status      string     `gorm:"type:char(1);default:'0'" json:"status"` // 0正常 1停用
	LastLogin   *time.Time `json:"lastLogin"`
	DelFlag     string     `gorm:"type:char(1);default:'0'" json:"-"`
	Audit
}

func (User) TableName() string { return "sys_user" }

// Role 角色
type Role struct {
	RoleID      uint           `gorm:"primaryKey;column:role_id" json:"roleId"`
	RoleName    string         `gorm:"type:varchar(50);uniqueIndex;not null" json:"roleName"`
	RoleKey     string         `gorm:"type:varchar(100);uniqueIndex;not null" json:"roleKey"`
	RoleSort    int            `json:"roleSort"`
	Status      string         `gorm:"type:char(1);default:'0'" json:"status"`
	Permissions datatypes.JSON `json:"permissions"`
	Remark      string         `gorm:"type:varchar(500)" json:"remark"`
	DelFlag     string         `gorm:"type:char(1);default:'0'" json:"-"`
	Audit
}

func (Role) TableName() string { return "sys_role" }

// UserRole 用户与角色关联
type UserRole struct {
	UserID uint `gorm:"primaryKey;autoIncrement:false" json:"userId"`
	RoleID uint `gorm:"primaryKey;autoIncrement:false" json:"roleId"`
}

func (UserRole) TableName() string { return "sys_user_role" }

// RoleMenu 角色与菜单关联
type RoleMenu struct {
	RoleID uint `gorm:"primaryKey;autoIncrement:false" json:"roleId"`
	MenuID uint `gorm:"primaryKey;autoIncrement:false" json:"menuId"`
}

func (RoleMenu) TableName() string { return "sys_role_menu" }

// Dept 部门，parent_id = 0 为顶级
type Dept struct {
	DeptID   uint   `gorm:"primaryKey;column:dept_id" json:"deptId"`
	ParentID uint   `gorm:"index;default:0" json:"parentId"`
	DeptName string `gorm:"type:varchar(50);not null" json:"deptName"`
	OrderNum int    `json:"orderNum"`
	Leader   string `gorm:"type:varchar(20)" json:"leader"`
	Phone    string `gorm:"type:varchar(11)" json:"phone"`
	Email    string `gorm:"type:varchar(50)" json:"email"`
	Status   string `gorm:"type:char(1);default:'0'" json:"status"`
	DelFlag  string `gorm:"type:char(1);default:'0'" json:"-"`
	Audit
}

func (Dept) TableName() string { return "sys_dept" }

// Menu 菜单，menu_type: M目录 C菜单 F按钮
type Menu struct {
	MenuID    uint   `gorm:"primaryKey;column:menu_id" json:"menuId"`
	MenuName  string `gorm:"type:varchar(50);not null" json:"menuName"`
	ParentID  uint   `gorm:"index;default:0" json:"parentId"`
	OrderNum  int    `json:"orderNum"`
	Path      string `gorm:"type:varchar(200)" json:"path"`
	Component string `gorm:"type:varchar(255)" json:"component"`
	IsFrame   int    `json:"isFrame"`
	IsCache   int    `json:"isCache"`
	MenuType  string `gorm:"type:char(1)" json:"menuType"`
	Visible   string `gorm:"type:char(1)" json:"visible"`
	Status    string `gorm:"type:char(1)" json:"status"`
	Perms     string `gorm:"type:varchar(100)" json:"perms"`
	Icon      string `gorm:"type:varchar(100)" json:"icon"`
	Remark    string `gorm:"type:varchar(500)" json:"remark"`
	Audit
}

func (Menu) TableName() string { return "sys_menu" }
