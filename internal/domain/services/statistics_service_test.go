package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"energy-ops-console/internal/domain/models"
)

func newStatistics(t *testing.T, db *gorm.DB, now time.Time) *StatisticsService {
	t.Helper()
	return &StatisticsService{DB: db, Config: newTestConfig(t), Now: func() time.Time { return now }}
}

func TestStatistics_DeviceOverview(t *testing.T) {
	db := newTestDB(t)
	for _, d := range []models.Device{
		{DeviceType: "wind_turbine", HealthStatus: "normal"},
		{DeviceType: "wind_turbine", HealthStatus: "warning"},
		{DeviceType: "pv_panel", HealthStatus: "normal"},
	} {
		d := d
		require.NoError(t, db.Create(&d).Error)
	}

	overview, err := newStatistics(t, db, time.Now()).DeviceOverview()
	require.NoError(t, err)
	assert.EqualValues(t, 3, overview.TotalDevices)
	assert.Equal(t, []map[string]interface{}{
		{"deviceType": "pv_panel", "count": int64(1)},
		{"deviceType": "wind_turbine", "count": int64(2)},
	}, overview.DeviceTypeStats)
	assert.Len(t, overview.HealthStatusStats, 2)
}

func TestStatistics_PowerGenerationHourlyBuckets(t *testing.T) {
	db := newTestDB(t)
	now := time.Date(2024, 6, 1, 12, 30, 0, 0, time.Local)

	north := models.Device{DeviceType: "wind_turbine", Region: "north"}
	south := models.Device{DeviceType: "wind_turbine", Region: "south"}
	require.NoError(t, db.Create(&north).Error)
	require.NoError(t, db.Create(&south).Error)

	readings := []struct {
		device uint
		at     time.Time
		power  float64
	}{
		{north.DeviceID, now.Add(-2*time.Hour + 5*time.Minute), 10},
		{north.DeviceID, now.Add(-2*time.Hour + 20*time.Minute), 5},
		{north.DeviceID, now.Add(-1 * time.Hour), 7},
		{south.DeviceID, now.Add(-1 * time.Hour), 100},
		{north.DeviceID, now.Add(-30 * time.Hour), 1000},
	}
	for _, r := range readings {
		power := r.power
		require.NoError(t, db.Create(&models.RealtimeData{DeviceID: r.device, Timestamp: r.at, PowerOutput: &power}).Error)
	}

	svc := newStatistics(t, db, now)
	points, err := svc.PowerGeneration("", "north", "")
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, now.Add(-2*time.Hour).Format("2006-01-02 15:00:00"), points[0].TimePoint)
	assert.InDelta(t, 15.0, points[0].TotalPower, 1e-9)
	assert.InDelta(t, 7.0, points[1].TotalPower, 1e-9)

	all, err := svc.PowerGeneration(RangeDay, "", "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.InDelta(t, 107.0, all[1].TotalPower, 1e-9)

	weekly, err := svc.PowerGeneration(RangeWeek, "north", "")
	require.NoError(t, err)
	require.Len(t, weekly, 2)
	assert.Equal(t, "2024-05-31", weekly[0].TimePoint)
}

func TestStatistics_AlarmAnalysis(t *testing.T) {
	db := newTestDB(t)
	device := models.Device{DeviceType: "pv_panel"}
	require.NoError(t, db.Create(&device).Error)
	now := time.Now()

	for _, a := range []models.Alarm{
		{DeviceID: device.DeviceID, AlarmType: "overheat", Severity: "high", AlarmTime: now.Add(-time.Hour)},
		{DeviceID: device.DeviceID, AlarmType: "overheat", Severity: "low", AlarmTime: now.Add(-2 * time.Hour)},
		{DeviceID: device.DeviceID, AlarmType: "offline", Severity: "high", AlarmTime: now.AddDate(0, 0, -60)},
	} {
		a := a
		require.NoError(t, db.Create(&a).Error)
	}

	analysis, err := newStatistics(t, db, now).AlarmAnalysis("")
	require.NoError(t, err)
	assert.Equal(t, []map[string]interface{}{{"alarmType": "overheat", "count": int64(2)}}, analysis.AlarmTypeStats)
	assert.Len(t, analysis.SeverityStats, 2)
	assert.Equal(t, []map[string]interface{}{{"deviceType": "pv_panel", "count": int64(2)}}, analysis.DeviceTypeStats)

	yearly, err := newStatistics(t, db, now).AlarmAnalysis(RangeYear)
	require.NoError(t, err)
	assert.Len(t, yearly.AlarmTypeStats, 2)
}

func TestStatistics_TradeAnalysis(t *testing.T) {
	db := newTestDB(t)
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.Local)

	for _, tr := range []models.EnergyTrade{
		{TradeType: "spot", Price: 0.4, Volume: 100, TradeTime: now.Add(-time.Hour)},
		{TradeType: "spot", Price: 0.6, Volume: 50, TradeTime: now.Add(-2 * time.Hour)},
		{TradeType: "contract", Price: 0.5, Volume: 300, TradeTime: now.AddDate(0, 0, -3)},
	} {
		tr := tr
		require.NoError(t, db.Create(&tr).Error)
	}

	analysis, err := newStatistics(t, db, now).TradeAnalysis("")
	require.NoError(t, err)
	require.Len(t, analysis.VolumeStats, 2)
	assert.Equal(t, "2024-06-07", analysis.VolumeStats[0].TimePoint)
	assert.InDelta(t, 150.0, analysis.VolumeStats[1].TotalVolume, 1e-9)
	assert.InDelta(t, 0.5, analysis.VolumeStats[1].AvgPrice, 1e-9)

	require.Len(t, analysis.TradeTypeStats, 2)
	assert.Equal(t, "contract", analysis.TradeTypeStats[0].TradeType)
	assert.EqualValues(t, 2, analysis.TradeTypeStats[1].Count)
}
