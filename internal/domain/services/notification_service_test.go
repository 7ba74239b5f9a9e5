package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"energy-ops-console/internal/domain/models"
	"energy-ops-console/internal/error/code"
)

func TestNotification_MarkReadOwnership(t *testing.T) {
	db := newTestDB(t)
	svc := NewNotificationService(db, newTestConfig(t))

	n, err := svc.Send(5, "system", "维护通知", "今晚停机检修", "")
	require.NoError(t, err)
	assert.Equal(t, "normal", n.Priority)
	assert.Equal(t, models.NotificationUnread, n.ReadStatus)

	requireCode(t, svc.MarkRead(6, n.NotificationID), code.StatusForbidden)
	requireCode(t, svc.MarkRead(5, 999), code.StatusNotFound)

	require.NoError(t, svc.MarkRead(5, n.NotificationID))
	require.NoError(t, svc.MarkRead(5, n.NotificationID))

	unread, err := svc.UnreadCount(5)
	require.NoError(t, err)
	assert.Zero(t, unread)

	page, err := svc.ListNotifications(5, query("readStatus", models.NotificationRead))
	require.NoError(t, err)
	require.EqualValues(t, 1, page.Total)
	assert.NotNil(t, page.Items[0].ReadTime)

	others, err := svc.ListNotifications(6, query())
	require.NoError(t, err)
	assert.Zero(t, others.Total)
}

func TestNotification_Subscriptions(t *testing.T) {
	svc := NewNotificationService(newTestDB(t), newTestConfig(t))

	sub, err := svc.Subscribe(5, &CreateSubscriptionRequest{
		Type:    "alarm",
		Channel: "email",
		Config:  []byte(`{"address":"ops@example.com"}`),
	})
	require.NoError(t, err)
	assert.Equal(t, SubscriptionActive, sub.Status)

	requireCode(t, svc.UpdateSubscription(6, sub.SubscriptionID, &SubscriptionRequest{Status: ptr(SubscriptionInactive)}), code.StatusForbidden)
	require.NoError(t, svc.UpdateSubscription(5, sub.SubscriptionID, &SubscriptionRequest{Status: ptr(SubscriptionInactive)}))

	page, err := svc.ListSubscriptions(5, query("status", SubscriptionInactive))
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)

	requireCode(t, svc.Unsubscribe(6, sub.SubscriptionID), code.StatusForbidden)
	require.NoError(t, svc.Unsubscribe(5, sub.SubscriptionID))
	requireCode(t, svc.Unsubscribe(5, sub.SubscriptionID), code.StatusNotFound)
}
