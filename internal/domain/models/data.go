package models

import (
	"time"

	"gorm.io/datatypes"
)

// RealtimeData 设备实时数据
type RealtimeData struct {
	DataID        uint      `gorm:"primaryKey;column:data_id" json:"dataId"`
	DeviceID      uint      `gorm:"index" json:"deviceId"`
	TaskID        *uint     `json:"-"`
	Timestamp     time.Time `gorm:"autoCreateTime;index" json:"timestamp"`
	WindSpeed     *float64  `json:"windSpeed"`
	Temperature   *float64  `json:"temperature"`
	PowerOutput   *float64  `json:"powerOutput"`
	QualityStatus string    `gorm:"type:varchar(20)" json:"qualityStatus"`
	DataSource    string    `gorm:"type:varchar(50)" json:"-"`
}

func (RealtimeData) TableName() string { return "realtime_data" }

// WeatherData 气象数据
type WeatherData struct {
	WeatherID      uint      `gorm:"primaryKey;column:weather_id" json:"weatherId"`
	StationID      string    `gorm:"type:varchar(50)" json:"stationId"`
	Region         string    `gorm:"type:varchar(50);index" json:"region"`
	Timestamp      time.Time `gorm:"autoCreateTime;index" json:"timestamp"`
	WindSpeed      *float64  `json:"windSpeed"`
	SolarRadiation *float64  `json:"solarRadiation"`
	Temperature    *float64  `json:"temperature"`
	Humidity       *float64  `json:"humidity"`
	QualityStatus  string    `gorm:"type:varchar(20)" json:"qualityStatus"`
}

func (WeatherData) TableName() string { return "weather_data" }

// PredictionTask 预测任务
type PredictionTask struct {
	TaskID       uint           `gorm:"primaryKey;column:task_id" json:"taskId"`
	CreatedBy    uint           `json:"createdBy"`
	TaskType     string         `gorm:"type:varchar(50)" json:"taskType"`
	StartTime    time.Time      `json:"startTime"`
	EndTime      time.Time      `json:"endTime"`
	ModelVersion string         `gorm:"type:varchar(50)" json:"modelVersion"`
	Parameters   datatypes.JSON `json:"parameters"`
	Target       string         `gorm:"type:varchar(100)" json:"target"`
	Scenario     string         `gorm:"type:varchar(50)" json:"scenario"`
	Status       string         `gorm:"type:varchar(20)" json:"status"`
}

func (PredictionTask) TableName() string { return "prediction_tasks" }

// PredictionResult 预测结果
type PredictionResult struct {
	ResultID       uint      `gorm:"primaryKey;column:result_id" json:"resultId"`
	TaskID         uint      `gorm:"index" json:"taskId"`
	Timestamp      time.Time `json:"timestamp"`
	PredictedValue *float64  `json:"predictedValue"`
	Confidence     *float64  `json:"confidence"`
	ActualValue    *float64  `json:"actualValue"`
	ErrorRate      *float64  `json:"errorRate"`
}

func (PredictionResult) TableName() string { return "prediction_results" }
