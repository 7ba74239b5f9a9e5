package services

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"

	"energy-ops-console/internal/domain/gateway"
	"energy-ops-console/internal/domain/models"
	"energy-ops-console/internal/error/code"
	"energy-ops-console/internal/infrastructure/config"
)

// 订阅状态
const (
	SubscriptionActive   = "active"
	SubscriptionInactive = "inactive"
)

// NotificationDescriptor 通知资源，查询时需再按当前用户限定
var NotificationDescriptor = &gateway.Descriptor{
	Name:       "notification",
	PrimaryKey: "notification_id",
	Order:      "created_at DESC, notification_id DESC",
	Filters: []gateway.FilterSpec{
		gateway.Exact("type", "notification_type"),
		gateway.Exact("priority", "priority"),
		gateway.Exact("readStatus", "read_status"),
		gateway.TimeRange("startTime", "endTime", "created_at"),
	},
	Deletion: gateway.HardDelete,
}

// SubscriptionDescriptor 通知订阅
var SubscriptionDescriptor = &gateway.Descriptor{
	Name:       "notification_subscription",
	PrimaryKey: "subscription_id",
	Order:      "created_at DESC, subscription_id DESC",
	Filters: []gateway.FilterSpec{
		gateway.Exact("type", "notification_type"),
		gateway.Exact("channel", "channel"),
		gateway.Exact("status", "status"),
	},
	Deletion: gateway.HardDelete,
}

// CreateSubscriptionRequest 新增订阅参数
type CreateSubscriptionRequest struct {
	Type    string          `json:"type" binding:"required" example:"alarm"`
	Channel string          `json:"channel" binding:"required" example:"email"`
	Config  json.RawMessage `json:"config" swaggertype:"object"`
	Status  string          `json:"status" binding:"omitempty,oneof=active inactive" example:"active"`
}

// SubscriptionRequest 修改订阅参数
type SubscriptionRequest struct {
	Type    *string         `json:"type" example:"alarm"`
	Channel *string         `json:"channel" example:"email"`
	Config  json.RawMessage `json:"config" swaggertype:"object"`
	Status  *string         `json:"status" binding:"omitempty,oneof=active inactive" example:"active"`
}

// InterfaceNotificationService 通知服务接口
type InterfaceNotificationService interface {
	ListNotifications(userID uint, params gateway.Params) (gateway.Page[models.Notification], error)
	UnreadCount(userID uint) (int64, error)
	MarkRead(userID, notificationID uint) error
	Send(userID uint, notificationType, title, content, priority string) (*models.Notification, error)
	ListSubscriptions(userID uint, params gateway.Params) (gateway.Page[models.NotificationSubscription], error)
	Subscribe(userID uint, req *CreateSubscriptionRequest) (*models.NotificationSubscription, error)
	UpdateSubscription(userID, subscriptionID uint, req *SubscriptionRequest) error
	Unsubscribe(userID, subscriptionID uint) error
}

// NotificationService 通知服务
type NotificationService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewNotificationService 创建通知服务
func NewNotificationService(db *gorm.DB, cfg *config.Config) InterfaceNotificationService {
	return &NotificationService{DB: db, Config: cfg}
}

// 1 ListNotifications 当前用户的通知
func (s *NotificationService) ListNotifications(userID uint, params gateway.Params) (gateway.Page[models.Notification], error) {
	query := NotificationDescriptor.Query(s.DB.Model(&models.Notification{}), params).
		Where("user_id = ?", userID)
	return gateway.Paginate[models.Notification](query, gateway.ParsePage(params), NotificationDescriptor.Order)
}

// 2 UnreadCount 未读数量
func (s *NotificationService) UnreadCount(userID uint) (int64, error) {
	var count int64
	err := s.DB.Model(&models.Notification{}).
		Where("user_id = ? AND read_status = ?", userID, models.NotificationUnread).
		Count(&count).Error
	return count, err
}

// 3 MarkRead 标记已读，只能操作自己的通知
func (s *NotificationService) MarkRead(userID, notificationID uint) error {
	return gateway.Mutate(s.DB, func(tx *gorm.DB) error {
		var n models.Notification
		if err := tx.Where("notification_id = ?", notificationID).Take(&n).Error; err != nil {
			return notFound(err, "通知不存在")
		}
		if n.UserID != userID {
			return code.New(code.ErrForbidden, "")
		}
		if n.ReadStatus == models.NotificationRead {
			return nil
		}
		return tx.Model(&models.Notification{}).Where("notification_id = ?", notificationID).
			Updates(map[string]interface{}{
				"read_status": models.NotificationRead,
				"read_time":   time.Now(),
			}).Error
	})
}

// 4 Send 写入一条通知，只落库不做渠道投递
func (s *NotificationService) Send(userID uint, notificationType, title, content, priority string) (*models.Notification, error) {
	var n *models.Notification
	err := gateway.Mutate(s.DB, func(tx *gorm.DB) error {
		var err error
		n, err = sendNotification(tx, userID, notificationType, title, content, priority)
		return err
	})
	if err != nil {
		return nil, err
	}
	return n, nil
}

// 5 ListSubscriptions 当前用户的订阅
func (s *NotificationService) ListSubscriptions(userID uint, params gateway.Params) (gateway.Page[models.NotificationSubscription], error) {
	query := SubscriptionDescriptor.Query(s.DB.Model(&models.NotificationSubscription{}), params).
		Where("user_id = ?", userID)
	return gateway.Paginate[models.NotificationSubscription](query, gateway.ParsePage(params), SubscriptionDescriptor.Order)
}

// 6 Subscribe 新增订阅
func (s *NotificationService) Subscribe(userID uint, req *CreateSubscriptionRequest) (*models.NotificationSubscription, error) {
	sub := &models.NotificationSubscription{
		UserID:           userID,
		NotificationType: req.Type,
		Channel:          req.Channel,
		Config:           jsonOrNil(req.Config),
		Status:           stringOr(&req.Status, SubscriptionActive),
	}
	err := gateway.Mutate(s.DB, func(tx *gorm.DB) error {
		return tx.Create(sub).Error
	})
	if err != nil {
		return nil, err
	}
	return sub, nil
}

// 7 UpdateSubscription 修改订阅
func (s *NotificationService) UpdateSubscription(userID, subscriptionID uint, req *SubscriptionRequest) error {
	return gateway.Mutate(s.DB, func(tx *gorm.DB) error {
		if err := checkSubscriptionOwner(tx, userID, subscriptionID); err != nil {
			return err
		}
		updates := map[string]interface{}{}
		setIf(updates, "notification_type", req.Type)
		setIf(updates, "channel", req.Channel)
		setIf(updates, "status", req.Status)
		setJSONIf(updates, "config", req.Config)
		if len(updates) == 0 {
			return nil
		}
		return tx.Model(&models.NotificationSubscription{}).
			Where("subscription_id = ?", subscriptionID).Updates(updates).Error
	})
}

// 8 Unsubscribe 取消订阅
func (s *NotificationService) Unsubscribe(userID, subscriptionID uint) error {
	return gateway.Mutate(s.DB, func(tx *gorm.DB) error {
		if err := checkSubscriptionOwner(tx, userID, subscriptionID); err != nil {
			return err
		}
		err := SubscriptionDescriptor.Delete(tx, &models.NotificationSubscription{}, subscriptionID, nil)
		return notFound(err, "订阅不存在")
	})
}

func checkSubscriptionOwner(tx *gorm.DB, userID, subscriptionID uint) error {
	var sub models.NotificationSubscription
	if err := tx.Where("subscription_id = ?", subscriptionID).Take(&sub).Error; err != nil {
		return notFound(err, "订阅不存在")
	}
	if sub.UserID != userID {
		return code.New(code.ErrForbidden, "")
	}
	return nil
}

func sendNotification(tx *gorm.DB, userID uint, notificationType, title, content, priority string) (*models.Notification, error) {
	n := &models.Notification{
		UserID:           userID,
		NotificationType: notificationType,
		Title:            title,
		Content:          content,
		Priority:         stringOr(&priority, "normal"),
		ReadStatus:       models.NotificationUnread,
	}
	if err := tx.Create(n).Error; err != nil {
		return nil, err
	}
	return n, nil
}

// notifySubscribers 给订阅了该类型的有效用户各写一条通知，返回通知条数
func notifySubscribers(tx *gorm.DB, notificationType, title, content, priority string) (int, error) {
	userIDs := make([]uint, 0)
	err := tx.Model(&models.NotificationSubscription{}).
		Where("notification_type = ? AND status = ?", notificationType, SubscriptionActive).
		Distinct("user_id").Pluck("user_id", &userIDs).Error
	if err != nil {
		return 0, err
	}
	for _, id := range userIDs {
		if _, err := sendNotification(tx, id, notificationType, title, content, priority); err != nil {
			return 0, err
		}
	}
	return len(userIDs), nil
}
