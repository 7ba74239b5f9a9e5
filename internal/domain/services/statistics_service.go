package services

import (
	"sort"
	"time"

	"gorm.io/gorm"

	"energy-ops-console/internal/domain/models"
	"energy-ops-console/internal/infrastructure/config"
)

// 统计时间范围
const (
	RangeDay   = "day"
	RangeWeek  = "week"
	RangeMonth = "month"
	RangeYear  = "year"
)

// TypeCount 分组计数
type TypeCount struct {
	Key   string
	Count int64
}

// DeviceOverview 设备概览
type DeviceOverview struct {
	TotalDevices      int64                    `json:"totalDevices"`
	DeviceTypeStats   []map[string]interface{} `json:"deviceTypeStats"`
	HealthStatusStats []map[string]interface{} `json:"healthStatusStats"`
}

// PowerPoint 发电量时间点
type PowerPoint struct {
	TimePoint  string  `json:"timePoint"`
	TotalPower float64 `json:"totalPower"`
}

// AlarmAnalysis 告警分析
type AlarmAnalysis struct {
	AlarmTypeStats  []map[string]interface{} `json:"alarmTypeStats"`
	SeverityStats   []map[string]interface{} `json:"severityStats"`
	DeviceTypeStats []map[string]interface{} `json:"deviceTypeStats"`
}

// VolumePoint 交易量时间点
type VolumePoint struct {
	TimePoint   string  `json:"timePoint"`
	TotalVolume float64 `json:"totalVolume"`
	AvgPrice    float64 `json:"avgPrice"`
}

// TradeTypeStat 按交易类型汇总
type TradeTypeStat struct {
	TradeType   string  `json:"tradeType"`
	Count       int64   `json:"count"`
	TotalVolume float64 `json:"totalVolume"`
}

// TradeAnalysis 交易分析
type TradeAnalysis struct {
	VolumeStats    []VolumePoint   `json:"volumeStats"`
	TradeTypeStats []TradeTypeStat `json:"tradeTypeStats"`
}

// InterfaceStatisticsService 统计服务接口
type InterfaceStatisticsService interface {
	DeviceOverview() (*DeviceOverview, error)
	PowerGeneration(timeRange, region, deviceType string) ([]PowerPoint, error)
	AlarmAnalysis(timeRange string) (*AlarmAnalysis, error)
	TradeAnalysis(timeRange string) (*TradeAnalysis, error)
}

// StatisticsService 统计服务，时间分桶在内存中完成，不依赖数据库方言
type StatisticsService struct {
	DB     *gorm.DB
	Config *config.Config
	Now    func() time.Time
}

// NewStatisticsService 创建统计服务
func NewStatisticsService(db *gorm.DB, cfg *config.Config) InterfaceStatisticsService {
	return &StatisticsService{DB: db, Config: cfg, Now: time.Now}
}

// rangeWindow 返回统计起点与分桶格式
func rangeWindow(now time.Time, timeRange, def string) (time.Time, string) {
	if timeRange == "" {
		timeRange = def
	}
	switch timeRange {
	case RangeDay:
		return now.Add(-24 * time.Hour), "2006-01-02 15:00:00"
	case RangeWeek:
		return now.AddDate(0, 0, -7), "2006-01-02"
	case RangeMonth:
		return now.AddDate(0, 0, -30), "2006-01-02"
	default:
		return now.AddDate(0, 0, -365), "2006-01"
	}
}

// 1 DeviceOverview 设备总数及按类型、健康状态的分布
func (s *StatisticsService) DeviceOverview() (*DeviceOverview, error) {
	overview := &DeviceOverview{}
	if err := s.DB.Model(&models.Device{}).Count(&overview.TotalDevices).Error; err != nil {
		return nil, err
	}
	byType, err := s.groupCount(s.DB.Model(&models.Device{}), "device_type", "device_id")
	if err != nil {
		return nil, err
	}
	byHealth, err := s.groupCount(s.DB.Model(&models.Device{}), "health_status", "device_id")
	if err != nil {
		return nil, err
	}
	overview.DeviceTypeStats = keyed(byType, "deviceType")
	overview.HealthStatusStats = keyed(byHealth, "healthStatus")
	return overview, nil
}

// 2 PowerGeneration 按时间点汇总发电量，默认最近一天按小时
func (s *StatisticsService) PowerGeneration(timeRange, region, deviceType string) ([]PowerPoint, error) {
	start, layout := rangeWindow(s.Now(), timeRange, RangeDay)

	type row struct {
		Timestamp   time.Time
		PowerOutput *float64
	}
	rows := make([]row, 0)
	query := s.DB.Table("realtime_data").
		Select("realtime_data.timestamp, realtime_data.power_output").
		Joins("JOIN devices ON realtime_data.device_id = devices.device_id").
		Where("realtime_data.timestamp >= ?", start)
	if region != "" {
		query = query.Where("devices.region = ?", region)
	}
	if deviceType != "" {
		query = query.Where("devices.device_type = ?", deviceType)
	}
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}

	sums := make(map[string]float64)
	for _, r := range rows {
		key := r.Timestamp.Format(layout)
		if r.PowerOutput != nil {
			sums[key] += *r.PowerOutput
		} else if _, ok := sums[key]; !ok {
			sums[key] = 0
		}
	}
	points := make([]PowerPoint, 0, len(sums))
	for _, key := range sortedKeys(sums) {
		points = append(points, PowerPoint{TimePoint: key, TotalPower: sums[key]})
	}
	return points, nil
}

// 3 AlarmAnalysis 告警按类型、严重程度与设备类型分布，默认最近30天
func (s *StatisticsService) AlarmAnalysis(timeRange string) (*AlarmAnalysis, error) {
	start, _ := rangeWindow(s.Now(), timeRange, RangeMonth)
	base := func() *gorm.DB {
		return s.DB.Model(&models.Alarm{}).Where("alarm_time >= ?", start)
	}

	byType, err := s.groupCount(base(), "alarm_type", "alarm_id")
	if err != nil {
		return nil, err
	}
	bySeverity, err := s.groupCount(base(), "severity", "alarm_id")
	if err != nil {
		return nil, err
	}
	byDevice, err := s.groupCount(
		s.DB.Table("sys_alarm").
			Joins("JOIN devices ON sys_alarm.device_id = devices.device_id").
			Where("sys_alarm.alarm_time >= ?", start),
		"devices.device_type", "sys_alarm.alarm_id")
	if err != nil {
		return nil, err
	}
	return &AlarmAnalysis{
		AlarmTypeStats:  keyed(byType, "alarmType"),
		SeverityStats:   keyed(bySeverity, "severity"),
		DeviceTypeStats: keyed(byDevice, "deviceType"),
	}, nil
}

// 4 TradeAnalysis 交易量与均价走势及按类型汇总，默认最近30天按天
func (s *StatisticsService) TradeAnalysis(timeRange string) (*TradeAnalysis, error) {
	if timeRange == RangeDay {
		timeRange = RangeWeek
	}
	start, layout := rangeWindow(s.Now(), timeRange, RangeMonth)

	trades := make([]models.EnergyTrade, 0)
	if err := s.DB.Where("trade_time >= ?", start).Find(&trades).Error; err != nil {
		return nil, err
	}

	type bucket struct {
		volume, priceSum float64
		count            int
	}
	points := make(map[string]*bucket)
	types := make(map[string]*TradeTypeStat)
	typeOrder := make([]string, 0)
	for _, t := range trades {
		key := t.TradeTime.Format(layout)
		b, ok := points[key]
		if !ok {
			b = &bucket{}
			points[key] = b
		}
		b.volume += t.Volume
		b.priceSum += t.Price
		b.count++

		ts, ok := types[t.TradeType]
		if !ok {
			ts = &TradeTypeStat{TradeType: t.TradeType}
			types[t.TradeType] = ts
			typeOrder = append(typeOrder, t.TradeType)
		}
		ts.Count++
		ts.TotalVolume += t.Volume
	}

	analysis := &TradeAnalysis{
		VolumeStats:    make([]VolumePoint, 0, len(points)),
		TradeTypeStats: make([]TradeTypeStat, 0, len(types)),
	}
	for _, key := range sortedKeys(points) {
		b := points[key]
		analysis.VolumeStats = append(analysis.VolumeStats, VolumePoint{
			TimePoint:   key,
			TotalVolume: b.volume,
			AvgPrice:    b.priceSum / float64(b.count),
		})
	}
	sort.Strings(typeOrder)
	for _, name := range typeOrder {
		analysis.TradeTypeStats = append(analysis.TradeTypeStats, *types[name])
	}
	return analysis, nil
}

func (s *StatisticsService) groupCount(query *gorm.DB, column, idColumn string) ([]TypeCount, error) {
	type row struct {
		GroupKey *string
		Count    int64
	}
	rows := make([]row, 0)
	err := query.Select(column + " AS group_key, COUNT(" + idColumn + ") AS count").
		Group(column).Order(column).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]TypeCount, 0, len(rows))
	for _, r := range rows {
		tc := TypeCount{Count: r.Count}
		if r.GroupKey != nil {
			tc.Key = *r.GroupKey
		}
		out = append(out, tc)
	}
	return out, nil
}

func keyed(counts []TypeCount, name string) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(counts))
	for _, c := range counts {
		out = append(out, map[string]interface{}{name: c.Key, "count": c.Count})
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
