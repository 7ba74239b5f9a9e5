package models

import (
	"time"

	"gorm.io/datatypes"
)

// 通知读取状态
const (
	NotificationUnread = "unread"
	NotificationRead   = "read"
)

// Notification 站内通知
type Notification struct {
	NotificationID   uint       `gorm:"primaryKey;column:notification_id" json:"notificationId"`
	UserID           uint       `gorm:"index;not null" json:"-"`
	NotificationType string     `gorm:"type:varchar(50);not null" json:"type"` // system/alarm/task
	Title            string     `gorm:"type:varchar(200);not null" json:"title"`
	Content          string     `gorm:"type:text" json:"content"`
	Priority         string     `gorm:"type:varchar(20);not null" json:"priority"` // high/normal/low
	ReadStatus       string     `gorm:"type:varchar(20);not null" json:"readStatus"`
	ReadTime         *time.Time `json:"readTime"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"-"`
}

func (Notification) TableName() string { return "sys_notification" }

// NotificationSubscription 通知订阅，channel: email/sms/app_push
type NotificationSubscription struct {
	SubscriptionID   uint           `gorm:"primaryKey;column:subscription_id" json:"subscriptionId"`
	UserID           uint           `gorm:"index;not null" json:"-"`
	NotificationType string         `gorm:"type:varchar(50);not null" json:"type"`
	Channel          string         `gorm:"type:varchar(20);not null" json:"channel"`
	Config           datatypes.JSON `json:"config"`
	Status           string         `gorm:"type:varchar(20);not null" json:"status"`
	CreatedAt        time.Time      `json:"createdAt"`
	UpdatedAt        time.Time      `json:"-"`
}

func (NotificationSubscription) TableName() string { return "sys_notification_subscription" }
