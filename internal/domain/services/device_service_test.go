package services

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"energy-ops-console/internal/domain/models"
	"energy-ops-console/internal/error/code"
)

func TestDevice_CreateAndFilterByRegion(t *testing.T) {
	svc := NewDeviceService(newTestDB(t), newTestConfig(t))

	north, err := svc.CreateDevice(&CreateDeviceRequest{
		DeviceType:   "wind_turbine",
		SerialNumber: "WT-0001",
		Region:       "north",
	})
	require.NoError(t, err)
	assert.Equal(t, models.HealthNormal, north.HealthStatus)

	_, err = svc.CreateDevice(&CreateDeviceRequest{DeviceType: "pv_panel", Region: "south"})
	require.NoError(t, err)

	page, err := svc.ListDevices(query("region", "north"))
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, north.DeviceID, page.Items[0].DeviceID)

	page, err = svc.ListDevices(query())
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Total)
}

func TestDevice_Validation(t *testing.T) {
	svc := NewDeviceService(newTestDB(t), newTestConfig(t))

	_, err := svc.CreateDevice(&CreateDeviceRequest{DeviceType: "wind_turbine", SerialNumber: "WT-0001"})
	require.NoError(t, err)
	_, err = svc.CreateDevice(&CreateDeviceRequest{DeviceType: "wind_turbine", SerialNumber: "WT-0001"})
	assert.Equal(t, "设备序列号已存在", requireCode(t, err, code.StatusBadRequest).PublicMessage())

	requireCode(t, svc.UpdateDevice(404, &DeviceRequest{Region: ptr("east")}), code.StatusNotFound)
}

func TestDevice_HardDelete(t *testing.T) {
	db := newTestDB(t)
	svc := NewDeviceService(db, newTestConfig(t))

	device, err := svc.CreateDevice(&CreateDeviceRequest{DeviceType: "wind_turbine"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteDevice(device.DeviceID))

	_, err = svc.GetDevice(device.DeviceID)
	assert.Equal(t, "设备不存在", requireCode(t, err, code.StatusNotFound).PublicMessage())

	var count int64
	require.NoError(t, db.Model(&models.Device{}).Count(&count).Error)
	assert.Zero(t, count)

	requireCode(t, svc.DeleteDevice(device.DeviceID), code.StatusNotFound)
}

func TestDevice_MaintenanceStampsDevice(t *testing.T) {
	svc := NewDeviceService(newTestDB(t), newTestConfig(t))

	device, err := svc.CreateDevice(&CreateDeviceRequest{DeviceType: "wind_turbine"})
	require.NoError(t, err)
	assert.Nil(t, device.LastMaintenance)

	record, err := svc.AddMaintenance(device.DeviceID, &MaintenanceRequest{MaintenanceType: "routine"}, 1)
	require.NoError(t, err)
	assert.Equal(t, "completed", record.Status)

	got, err := svc.GetDevice(device.DeviceID)
	require.NoError(t, err)
	require.NotNil(t, got.LastMaintenance)

	page, err := svc.ListMaintenance(device.DeviceID, query())
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)

	_, err = svc.AddMaintenance(999, &MaintenanceRequest{MaintenanceType: "routine"}, 1)
	requireCode(t, err, code.StatusNotFound)
}

func TestDevice_Export(t *testing.T) {
	svc := NewDeviceService(newTestDB(t), newTestConfig(t))
	_, err := svc.CreateDevice(&CreateDeviceRequest{DeviceType: "wind_turbine", Region: "north"})
	require.NoError(t, err)

	data, err := svc.ExportDevices(query())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("设备清单")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "设备类型", rows[0][1])
	assert.Equal(t, "wind_turbine", rows[1][1])
}
