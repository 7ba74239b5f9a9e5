// Package modelclient 是外部时序模型服务（训练、部署、预测、特征工程）的 HTTP 客户端。
//
// 调用失败不做重试，由调用方决定如何记录。
package modelclient

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"energy-ops-console/internal/infrastructure/config"
	"energy-ops-console/pkg/logger"
)

// TrainingRequest 提交训练任务
type TrainingRequest struct {
	TrainingID     uint            `json:"trainingId"`
	ModelType      string          `json:"modelType"`
	DatasetConfig  json.RawMessage `json:"datasetConfig"`
	TrainingParams json.RawMessage `json:"trainingParams"`
}

// DeploymentRequest 提交部署任务
type DeploymentRequest struct {
	DeploymentID uint            `json:"deploymentId"`
	VersionID    uint            `json:"versionId"`
	Environment  string          `json:"environment"`
	Config       json.RawMessage `json:"config"`
}

// PreprocessRequest 提交预处理任务
type PreprocessRequest struct {
	PreprocessingID uint            `json:"preprocessingId"`
	DatasetID       uint            `json:"datasetId"`
	Config          json.RawMessage `json:"config"`
}

// FeatureEngineeringRequest 提交特征工程任务
type FeatureEngineeringRequest struct {
	EngineeringID uint            `json:"engineeringId"`
	DatasetID     uint            `json:"datasetId"`
	Config        json.RawMessage `json:"config"`
}

// DatasetRequest 提交数据集构建任务
type DatasetRequest struct {
	DatasetID     uint            `json:"datasetId"`
	SourceType    string          `json:"sourceType"`
	SourceConfig  json.RawMessage `json:"sourceConfig"`
	FeatureConfig json.RawMessage `json:"featureConfig"`
}

// JobStatus 上游任务状态，缺失的字段为 nil
type JobStatus struct {
	Status       *string         `json:"status"`
	Progress     *float64        `json:"progress"`
	Metrics      json.RawMessage `json:"metrics"`
	ErrorMessage *string         `json:"errorMessage"`
}

// DatasetInfo 数据集信息
type DatasetInfo struct {
	Status       *string         `json:"status"`
	Statistics   json.RawMessage `json:"statistics"`
	Schema       json.RawMessage `json:"schema"`
	ErrorMessage *string         `json:"errorMessage"`
}

// DatasetPreview 数据集预览
type DatasetPreview struct {
	Columns []string          `json:"columns"`
	Records []json.RawMessage `json:"records"`
}

// Payload 透传给上游的请求体或上游返回的原始字段
type Payload map[string]json.RawMessage

// Client 模型服务接口
type Client interface {
	SubmitTraining(ctx context.Context, req TrainingRequest) error
	TrainingStatus(ctx context.Context, trainingID uint) (*JobStatus, error)
	SubmitDeployment(ctx context.Context, req DeploymentRequest) error
	Predict(ctx context.Context, body interface{}) (Payload, error)
	BatchPredict(ctx context.Context, body interface{}) (Payload, error)
	Evaluate(ctx context.Context, body interface{}) (Payload, error)
	SubmitPreprocessing(ctx context.Context, req PreprocessRequest) error
	SubmitFeatureEngineering(ctx context.Context, req FeatureEngineeringRequest) error
	SubmitDataset(ctx context.Context, req DatasetRequest) error
	DatasetInfo(ctx context.Context, datasetID uint) (*DatasetInfo, error)
	DatasetPreview(ctx context.Context, datasetID uint, limit int) (*DatasetPreview, error)
}

// RestyClient 基于 resty 的实现
type RestyClient struct {
	http *resty.Client
}

// New 按配置创建客户端
func New(cfg *config.Config) *RestyClient {
	timeout := cfg.ModelServiceTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return NewWithBaseURL(cfg.ModelServiceURL, timeout)
}

// NewWithBaseURL 指定地址与超时创建客户端
func NewWithBaseURL(baseURL string, timeout time.Duration) *RestyClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	return &RestyClient{http: client}
}

func (c *RestyClient) post(ctx context.Context, path string, body, result interface{}) error {
	req := c.http.R().SetContext(ctx).SetBody(body)
	if result != nil {
		req.SetResult(result)
	}
	resp, err := req.Post(path)
	return c.check(path, resp, err)
}

func (c *RestyClient) get(ctx context.Context, path string, query map[string]string, result interface{}) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(query).
		SetResult(result).
		Get(path)
	return c.check(path, resp, err)
}

func (c *RestyClient) check(path string, resp *resty.Response, err error) error {
	if err != nil {
		logger.L().Error("model service call failed", zap.String("path", path), zap.Error(err))
		return fmt.Errorf("模型服务调用失败: %w", err)
	}
	if resp.StatusCode() != 200 {
		logger.L().Error("model service returned error",
			zap.String("path", path),
			zap.Int("status_code", resp.StatusCode()),
		)
		return fmt.Errorf("模型服务返回错误: %s", resp.String())
	}
	return nil
}

// 1 SubmitTraining POST /train
func (c *RestyClient) SubmitTraining(ctx context.Context, req TrainingRequest) error {
	return c.post(ctx, "/train", req, nil)
}

// 2 TrainingStatus GET /train/{id}/status
func (c *RestyClient) TrainingStatus(ctx context.Context, trainingID uint) (*JobStatus, error) {
	var status JobStatus
	if err := c.get(ctx, fmt.Sprintf("/train/%d/status", trainingID), nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// 3 SubmitDeployment POST /deploy
func (c *RestyClient) SubmitDeployment(ctx context.Context, req DeploymentRequest) error {
	return c.post(ctx, "/deploy", req, nil)
}

// 4 Predict POST /predict
func (c *RestyClient) Predict(ctx context.Context, body interface{}) (Payload, error) {
	out := Payload{}
	if err := c.post(ctx, "/predict", body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// 5 BatchPredict POST /batch-predict
func (c *RestyClient) BatchPredict(ctx context.Context, body interface{}) (Payload, error) {
	out := Payload{}
	if err := c.post(ctx, "/batch-predict", body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// 6 Evaluate POST /evaluate
func (c *RestyClient) Evaluate(ctx context.Context, body interface{}) (Payload, error) {
	out := Payload{}
	if err := c.post(ctx, "/evaluate", body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// 7 SubmitPreprocessing POST /preprocess
func (c *RestyClient) SubmitPreprocessing(ctx context.Context, req PreprocessRequest) error {
	return c.post(ctx, "/preprocess", req, nil)
}

// 8 SubmitFeatureEngineering POST /feature-engineering
func (c *RestyClient) SubmitFeatureEngineering(ctx context.Context, req FeatureEngineeringRequest) error {
	return c.post(ctx, "/feature-engineering", req, nil)
}

// 9 SubmitDataset POST /dataset
func (c *RestyClient) SubmitDataset(ctx context.Context, req DatasetRequest) error {
	return c.post(ctx, "/dataset", req, nil)
}

// 10 DatasetInfo GET /dataset/{id}/info
func (c *RestyClient) DatasetInfo(ctx context.Context, datasetID uint) (*DatasetInfo, error) {
	var info DatasetInfo
	if err := c.get(ctx, fmt.Sprintf("/dataset/%d/info", datasetID), nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// 11 DatasetPreview GET /dataset/{id}/preview?limit=
func (c *RestyClient) DatasetPreview(ctx context.Context, datasetID uint, limit int) (*DatasetPreview, error) {
	preview := DatasetPreview{}
	query := map[string]string{"limit": strconv.Itoa(limit)}
	if err := c.get(ctx, fmt.Sprintf("/dataset/%d/preview", datasetID), query, &preview); err != nil {
		return nil, err
	}
	if preview.Columns == nil {
		preview.Columns = []string{}
	}
	if preview.Records == nil {
		preview.Records = []json.RawMessage{}
	}
	return &preview, nil
}

// Field 读取透传结果中的字段，缺失时为 nil
func (p Payload) Field(name string) json.RawMessage {
	if v, ok := p[name]; ok && len(v) > 0 {
		return v
	}
	return nil
}
