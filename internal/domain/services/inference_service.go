package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"energy-ops-console/internal/error/code"
	"energy-ops-console/internal/infrastructure/config"
	"energy-ops-console/internal/infrastructure/forecaster"
)

// 推理参数
const (
	MaxLookbackLength     = 1024
	MaxForecastLength     = 1000
	DefaultForecastLength = 100
	ForecastSamples       = 20
)

// sampleDatasets 支持的示例数据集
var sampleDatasets = map[string]string{
	"ETTh1":       "ETTh1.csv",
	"ETTh2":       "ETTh2.csv",
	"ETTm1":       "ETTm1.csv",
	"ETTm2":       "ETTm2.csv",
	"Electricity": "Electricity.csv",
	"Wind":        "Wind.csv",
}

// InferenceRequest 时序预测参数
type InferenceRequest struct {
	Data           []map[string]interface{} `json:"data" binding:"required,min=1"`
	TargetVariable string                   `json:"target_variable" binding:"required" example:"OT"`
	StartPosition  *int                     `json:"start_position" example:"0"`
	MidPosition    *int                     `json:"mid_position" example:"0"`
	ForecastLength *int                     `json:"forecast_length" example:"96"`
}

// InferenceResult 预测结果，groundtruth 不足部分为 null
type InferenceResult struct {
	Labels         []int      `json:"labels"`
	History        []float64  `json:"history"`
	Prediction     []float64  `json:"prediction"`
	Groundtruth    []*float64 `json:"groundtruth"`
	StartPosition  int        `json:"start_position"`
	LookbackLength int        `json:"lookback_length"`
	ForecastLength int        `json:"forecast_length"`
}

// ModelInfo 预测模型信息
type ModelInfo struct {
	ModelName         string   `json:"model_name"`
	ModelType         string   `json:"model_type"`
	Parameters        string   `json:"parameters"`
	Framework         string   `json:"framework"`
	Capabilities      []string `json:"capabilities"`
	SupportedFormats  []string `json:"supported_formats"`
	MaxInputLength    int      `json:"max_input_length"`
	MaxForecastLength int      `json:"max_forecast_length"`
}

// InterfaceInferenceService 推理服务接口
type InterfaceInferenceService interface {
	SampleData(name string) ([]map[string]interface{}, error)
	Predict(ctx context.Context, req *InferenceRequest) (*InferenceResult, error)
	ModelInfo(ctx context.Context) (*ModelInfo, error)
}

// InferenceService 推理服务
type InferenceService struct {
	Config *config.Config
	Holder *forecaster.Holder
}

// NewInferenceService 创建推理服务
func NewInferenceService(cfg *config.Config, holder *forecaster.Holder) InterfaceInferenceService {
	return &InferenceService{Config: cfg, Holder: holder}
}

// 1 SampleData 读取示例数据集，数值列转换为数字
func (s *InferenceService) SampleData(name string) ([]map[string]interface{}, error) {
	file, ok := sampleDatasets[name]
	if !ok {
		return nil, code.New(code.ErrValidation, "不支持的数据集: "+name)
	}
	f, err := os.Open(filepath.Join(s.Config.InferenceDatasetDir, file))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, code.New(code.ErrRecordNotFound, "数据集文件不存在")
		}
		return nil, code.WithMessage(code.ErrDatabase, "加载数据集失败", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, code.WithMessage(code.ErrValidation, "加载数据集失败", err)
	}

	records := make([]map[string]interface{}, 0)
	if len(rows) == 0 {
		return records, nil
	}
	header := rows[0]
	for _, row := range rows[1:] {
		record := make(map[string]interface{}, len(header))
		for i, column := range header {
			if i >= len(row) {
				record[column] = nil
				continue
			}
			record[column] = csvValue(row[i])
		}
		records = append(records, record)
	}
	return records, nil
}

// 2 Predict 截取回看窗口，调用模型生成多条样本并取均值
func (s *InferenceService) Predict(ctx context.Context, req *InferenceRequest) (*InferenceResult, error) {
	if !hasColumn(req.Data, req.TargetVariable) {
		return nil, code.New(code.ErrValidation, fmt.Sprintf("目标变量 %s 不存在", req.TargetVariable))
	}
	values := numericColumn(req.Data, req.TargetVariable)
	if len(values) == 0 {
		return nil, code.New(code.ErrValidation, "目标变量没有有效的数值数据")
	}

	forecastLength := DefaultForecastLength
	if req.ForecastLength != nil {
		forecastLength = *req.ForecastLength
	}
	if forecastLength < 1 || forecastLength > MaxForecastLength {
		return nil, code.New(code.ErrValidation, fmt.Sprintf("预测长度必须在1到%d之间", MaxForecastLength))
	}
	start := 0
	if req.StartPosition != nil {
		start = *req.StartPosition
	}

	window, err := lookbackWindow(len(values), start, forecastLength)
	if err != nil {
		return nil, err
	}

	model, err := s.Holder.Get(ctx)
	if err != nil {
		return nil, code.WithMessage(code.ErrModelUnavailable, "模型加载失败", err)
	}
	history := values[window.start : window.start+window.lookback]
	samples, err := model.Generate(ctx, history, forecastLength, ForecastSamples)
	if err != nil {
		return nil, code.WithMessage(code.ErrModelUnavailable, "预测失败", err)
	}
	prediction, err := sampleMean(samples, forecastLength)
	if err != nil {
		return nil, code.WithMessage(code.ErrModelUnavailable, "预测失败", err)
	}

	result := &InferenceResult{
		Labels:         make([]int, 0, window.lookback+forecastLength),
		History:        history,
		Prediction:     prediction,
		Groundtruth:    make([]*float64, forecastLength),
		StartPosition:  window.start,
		LookbackLength: window.lookback,
		ForecastLength: forecastLength,
	}
	for i := 0; i < window.lookback+forecastLength; i++ {
		result.Labels = append(result.Labels, window.start+i)
	}
	gtStart := window.start + window.lookback
	for i := 0; i < forecastLength && gtStart+i < len(values); i++ {
		v := values[gtStart+i]
		result.Groundtruth[i] = &v
	}
	return result, nil
}

// 3 ModelInfo 模型信息，模型无法加载时返回错误
func (s *InferenceService) ModelInfo(ctx context.Context) (*ModelInfo, error) {
	if _, err := s.Holder.Get(ctx); err != nil {
		return nil, code.WithMessage(code.ErrModelUnavailable, "模型未加载", err)
	}
	return &ModelInfo{
		ModelName:         "Predenergy",
		ModelType:         "Causal Language Model",
		Parameters:        "128M",
		Framework:         "Transformers",
		Capabilities:      []string{"Zero-shot Time Series Forecasting", "Multi-step Prediction"},
		SupportedFormats:  []string{"CSV"},
		MaxInputLength:    MaxLookbackLength,
		MaxForecastLength: MaxForecastLength,
	}, nil
}

type window struct {
	start, lookback int
}

// lookbackWindow 回看长度不超过 1024 且为预测段留出空间，起点越界时向前收缩
func lookbackWindow(n, start, forecastLength int) (window, error) {
	lookback := n - forecastLength
	if lookback > MaxLookbackLength {
		lookback = MaxLookbackLength
	}
	if lookback < 1 {
		return window{}, code.New(code.ErrValidation, "数据长度不足以进行预测")
	}
	if start+lookback > n {
		start = n - lookback - forecastLength
	}
	if start < 0 {
		start = 0
	}
	return window{start: start, lookback: lookback}, nil
}

// sampleMean 按位置对各样本取均值
func sampleMean(samples [][]float64, horizon int) ([]float64, error) {
	if len(samples) == 0 {
		return nil, errors.New("模型未返回预测样本")
	}
	mean := make([]float64, horizon)
	for i := 0; i < horizon; i++ {
		sum, count := 0.0, 0
		for _, sample := range samples {
			if i < len(sample) {
				sum += sample[i]
				count++
			}
		}
		if count == 0 {
			return nil, fmt.Errorf("预测样本长度不足: %d", i)
		}
		mean[i] = sum / float64(count)
	}
	return mean, nil
}

func hasColumn(records []map[string]interface{}, column string) bool {
	for _, r := range records {
		if _, ok := r[column]; ok {
			return true
		}
	}
	return false
}

// numericColumn 取出可转换为数字的值，无法转换的跳过
func numericColumn(records []map[string]interface{}, column string) []float64 {
	values := make([]float64, 0, len(records))
	for _, r := range records {
		if v, ok := toFloat(r[column]); ok {
			values = append(values, v)
		}
	}
	return values
}

func toFloat(v interface{}) (float64, bool) {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func csvValue(raw string) interface{} {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return f
	}
	return raw
}
