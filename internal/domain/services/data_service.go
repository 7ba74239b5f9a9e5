package services

import (
	"encoding/json"

	"gorm.io/gorm"

	"energy-ops-console/internal/domain/gateway"
	"energy-ops-console/internal/domain/models"
	"energy-ops-console/internal/infrastructure/config"
)

// RealtimeDataDescriptor 设备实时数据
var RealtimeDataDescriptor = &gateway.Descriptor{
	Name:       "realtime_data",
	PrimaryKey: "data_id",
	Order:      "timestamp DESC, data_id DESC",
	Filters: []gateway.FilterSpec{
		gateway.ExactInt("deviceId", "device_id"),
		gateway.TimeRange("startTime", "endTime", "timestamp"),
	},
	Deletion: gateway.HardDelete,
}

// WeatherDataDescriptor 气象数据
var WeatherDataDescriptor = &gateway.Descriptor{
	Name:       "weather_data",
	PrimaryKey: "weather_id",
	Order:      "timestamp DESC, weather_id DESC",
	Filters: []gateway.FilterSpec{
		gateway.Exact("region", "region"),
		gateway.TimeRange("startTime", "endTime", "timestamp"),
	},
	Deletion: gateway.HardDelete,
}

// PredictionTaskDescriptor 预测任务
var PredictionTaskDescriptor = &gateway.Descriptor{
	Name:       "prediction_task",
	PrimaryKey: "task_id",
	Order:      "start_time DESC, task_id DESC",
	Filters: []gateway.FilterSpec{
		gateway.Exact("taskType", "task_type"),
		gateway.Exact("status", "status"),
	},
	Deletion: gateway.HardDelete,
}

// PredictionResultDescriptor 预测结果
var PredictionResultDescriptor = &gateway.Descriptor{
	Name:       "prediction_result",
	PrimaryKey: "result_id",
	Order:      "timestamp DESC, result_id DESC",
	Filters: []gateway.FilterSpec{
		gateway.ExactInt("taskId", "task_id"),
	},
	Deletion: gateway.HardDelete,
}

// PredictionTaskRequest 预测任务参数，起止时间必填
type PredictionTaskRequest struct {
	TaskType     string          `json:"taskType" example:"power"`
	StartTime    string          `json:"startTime" binding:"required" example:"2024-06-01 00:00:00"`
	EndTime      string          `json:"endTime" binding:"required" example:"2024-06-02 00:00:00"`
	ModelVersion string          `json:"modelVersion" example:"v1.2.0"`
	Parameters   json.RawMessage `json:"parameters" swaggertype:"object"`
	Target       string          `json:"target" example:"power_output"`
	Scenario     string          `json:"scenario" example:"day_ahead"`
}

// PredictionResultRequest 预测结果参数
type PredictionResultRequest struct {
	TaskID         uint     `json:"taskId" binding:"required" example:"4"`
	Timestamp      string   `json:"timestamp" binding:"required" example:"2024-06-01 01:00:00"`
	PredictedValue *float64 `json:"predictedValue" example:"532.1"`
	Confidence     *float64 `json:"confidence" example:"0.92"`
	ActualValue    *float64 `json:"actualValue" example:"540.3"`
	ErrorRate      *float64 `json:"errorRate" example:"0.015"`
}

// InterfaceDataService 数据与预测服务接口
type InterfaceDataService interface {
	ListRealtime(params gateway.Params) (gateway.Page[models.RealtimeData], error)
	ListWeather(params gateway.Params) (gateway.Page[models.WeatherData], error)
	ListPredictionTasks(params gateway.Params) (gateway.Page[models.PredictionTask], error)
	CreatePredictionTask(req *PredictionTaskRequest, userID uint) (*models.PredictionTask, error)
	ListPredictionResults(params gateway.Params) (gateway.Page[models.PredictionResult], error)
	AddPredictionResult(req *PredictionResultRequest) (*models.PredictionResult, error)
}

// DataService 数据与预测服务
type DataService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewDataService 创建数据服务
func NewDataService(db *gorm.DB, cfg *config.Config) InterfaceDataService {
	return &DataService{DB: db, Config: cfg}
}

func (s *DataService) ListRealtime(params gateway.Params) (gateway.Page[models.RealtimeData], error) {
	return gateway.List[models.RealtimeData](s.DB, RealtimeDataDescriptor, params)
}

func (s *DataService) ListWeather(params gateway.Params) (gateway.Page[models.WeatherData], error) {
	return gateway.List[models.WeatherData](s.DB, WeatherDataDescriptor, params)
}

func (s *DataService) ListPredictionTasks(params gateway.Params) (gateway.Page[models.PredictionTask], error) {
	return gateway.List[models.PredictionTask](s.DB, PredictionTaskDescriptor, params)
}

// CreatePredictionTask 新建预测任务，起止时间格式错误返回 400
func (s *DataService) CreatePredictionTask(req *PredictionTaskRequest, userID uint) (*models.PredictionTask, error) {
	start, err := parseRequiredDateTime(req.StartTime, "startTime")
	if err != nil {
		return nil, err
	}
	end, err := parseRequiredDateTime(req.EndTime, "endTime")
	if err != nil {
		return nil, err
	}
	task := &models.PredictionTask{
		CreatedBy:    userID,
		TaskType:     req.TaskType,
		StartTime:    start,
		EndTime:      end,
		ModelVersion: req.ModelVersion,
		Parameters:   jsonOrNil(req.Parameters),
		Target:       req.Target,
		Scenario:     req.Scenario,
		Status:       "pending",
	}
	err = gateway.Mutate(s.DB, func(tx *gorm.DB) error {
		return tx.Create(task).Error
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (s *DataService) ListPredictionResults(params gateway.Params) (gateway.Page[models.PredictionResult], error) {
	return gateway.List[models.PredictionResult](s.DB, PredictionResultDescriptor, params)
}

// AddPredictionResult 写入预测结果，时间格式错误返回 400
func (s *DataService) AddPredictionResult(req *PredictionResultRequest) (*models.PredictionResult, error) {
	ts, err := parseRequiredDateTime(req.Timestamp, "timestamp")
	if err != nil {
		return nil, err
	}
	result := &models.PredictionResult{
		TaskID:         req.TaskID,
		Timestamp:      ts,
		PredictedValue: req.PredictedValue,
		Confidence:     req.Confidence,
		ActualValue:    req.ActualValue,
		ErrorRate:      req.ErrorRate,
	}
	err = gateway.Mutate(s.DB, func(tx *gorm.DB) error {
		return tx.Create(result).Error
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
