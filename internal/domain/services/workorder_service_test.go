package services

import (
	"bytes"
	"mime/multipart"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"energy-ops-console/internal/domain/fsm"
	"energy-ops-console/internal/domain/models"
	"energy-ops-console/internal/error/code"
)

func imageFiles(t *testing.T, names ...string) []*multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for _, name := range names {
		part, err := w.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = part.Write([]byte("fake-image-" + name))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(body, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["files"]
}

func TestWorkOrder_Lifecycle(t *testing.T) {
	db := newTestDB(t)
	svc := NewWorkOrderService(db, newTestConfig(t))

	order, err := svc.CreateWorkOrder(&WorkOrderRequest{
		DeviceID:      ptr(uint(3)),
		Title:         ptr("叶片检修"),
		ScheduledTime: ptr("2024-06-01 09:00:00"),
	}, 1)
	require.NoError(t, err)
	assert.Equal(t, fsm.WorkOrderPending, order.Status)
	assert.Equal(t, "normal", order.Priority)
	require.NotNil(t, order.ScheduledTime)

	// pending 不能直接完成
	err = svc.UpdateWorkOrder(order.OrderID, &WorkOrderRequest{Status: ptr(fsm.WorkOrderCompleted)}, 2)
	requireCode(t, err, code.StatusBadRequest)

	require.NoError(t, svc.UpdateWorkOrder(order.OrderID, &WorkOrderRequest{Status: ptr(fsm.WorkOrderProcessing)}, 2))
	require.NoError(t, svc.UpdateWorkOrder(order.OrderID, &WorkOrderRequest{Status: ptr(fsm.WorkOrderProcessing)}, 2))
	require.NoError(t, svc.UpdateWorkOrder(order.OrderID, &WorkOrderRequest{Status: ptr(fsm.WorkOrderCompleted)}, 2))

	var stored models.WorkOrder
	require.NoError(t, db.Where("work_order_id = ?", order.OrderID).Take(&stored).Error)
	assert.Equal(t, fsm.WorkOrderCompleted, stored.Status)
	require.NotNil(t, stored.CompletedBy)
	assert.EqualValues(t, 2, *stored.CompletedBy)
	assert.NotNil(t, stored.CompletedTime)

	err = svc.UpdateWorkOrder(order.OrderID, &WorkOrderRequest{Status: ptr(fsm.WorkOrderCancelled)}, 2)
	requireCode(t, err, code.StatusBadRequest)

	requireCode(t, svc.UpdateWorkOrder(999, &WorkOrderRequest{Title: ptr("x")}, 2), code.StatusNotFound)
}

func TestWorkOrder_BadScheduledTime(t *testing.T) {
	svc := NewWorkOrderService(newTestDB(t), newTestConfig(t))

	_, err := svc.CreateWorkOrder(&WorkOrderRequest{Title: ptr("x"), ScheduledTime: ptr("next monday")}, 1)
	requireCode(t, err, code.StatusBadRequest)
}

func TestWorkOrder_UploadImages(t *testing.T) {
	cfg := newTestConfig(t)
	svc := NewWorkOrderService(newTestDB(t), cfg)

	order, err := svc.CreateWorkOrder(&WorkOrderRequest{Title: ptr("巡检")}, 1)
	require.NoError(t, err)

	_, err = svc.UploadImages(order.OrderID, nil, "", "", 1)
	assert.Equal(t, "未上传图片", requireCode(t, err, code.StatusBadRequest).PublicMessage())

	_, err = svc.UploadImages(999, imageFiles(t, "a.jpg"), "", "", 1)
	requireCode(t, err, code.StatusNotFound)

	images, err := svc.UploadImages(order.OrderID, imageFiles(t, "a.jpg", "b.png"), "", "叶片裂纹", 1)
	require.NoError(t, err)
	require.Len(t, images, 2)
	for _, img := range images {
		assert.Equal(t, "repair", img.ImageType)
		full := filepath.Join(filepath.Dir(cfg.UploadDir), filepath.FromSlash(img.ImagePath))
		_, statErr := os.Stat(full)
		assert.NoError(t, statErr)
	}
	assert.Equal(t, ".png", filepath.Ext(images[1].ImagePath))

	listed, err := svc.ListImages(order.OrderID)
	require.NoError(t, err)
	assert.Len(t, listed, 2)
}
