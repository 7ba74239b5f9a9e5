package services

import (
	"context"
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"energy-ops-console/internal/domain/fsm"
	"energy-ops-console/internal/domain/gateway"
	"energy-ops-console/internal/domain/models"
	"energy-ops-console/internal/error/code"
	"energy-ops-console/internal/infrastructure/config"
	"energy-ops-console/internal/infrastructure/modelclient"
	"energy-ops-console/pkg/logger"
)

// ModelVersionDescriptor 模型版本
var ModelVersionDescriptor = &gateway.Descriptor{
	Name:       "model_version",
	PrimaryKey: "version_id",
	Order:      "created_at DESC, version_id DESC",
	Filters: []gateway.FilterSpec{
		gateway.Exact("modelType", "model_type"),
		gateway.Exact("status", "status"),
	},
	Deletion: gateway.HardDelete,
}

var defaultEvaluateMetrics = []string{"mse", "mae", "rmse", "mape"}

// TrainingRequest 训练任务参数
type TrainingRequest struct {
	ModelType      string          `json:"modelType" example:"timer"`
	DatasetConfig  json.RawMessage `json:"datasetConfig" swaggertype:"object"`
	TrainingParams json.RawMessage `json:"trainingParams" swaggertype:"object"`
}

// DeploymentRequest 部署参数
type DeploymentRequest struct {
	VersionID   uint            `json:"versionId" example:"3"`
	Environment string          `json:"environment" example:"production"`
	Config      json.RawMessage `json:"config" swaggertype:"object"`
}

// PredictRequest 单次预测参数
type PredictRequest struct {
	ModelType  string          `json:"modelType" example:"timer"`
	InputData  json.RawMessage `json:"inputData" swaggertype:"object"`
	Parameters json.RawMessage `json:"parameters" swaggertype:"object"`
}

// BatchPredictRequest 批量预测参数
type BatchPredictRequest struct {
	ModelType     string          `json:"modelType" example:"timer"`
	InputDataList json.RawMessage `json:"inputDataList" swaggertype:"array,object"`
	Parameters    json.RawMessage `json:"parameters" swaggertype:"object"`
}

// EvaluateRequest 模型评估参数，metrics 缺省为 mse/mae/rmse/mape
type EvaluateRequest struct {
	ModelType string          `json:"modelType" example:"timer"`
	VersionID *uint           `json:"versionId" example:"3"`
	TestData  json.RawMessage `json:"testData" swaggertype:"object"`
	Metrics   []string        `json:"metrics"`
}

// TrainingStatus 训练状态
type TrainingStatus struct {
	TrainingID   uint            `json:"trainingId"`
	ModelType    string          `json:"modelType"`
	Status       string          `json:"status"`
	Progress     float64         `json:"progress"`
	Metrics      json.RawMessage `json:"metrics"`
	ErrorMessage string          `json:"errorMessage"`
	CreatedAt    interface{}     `json:"createdAt"`
	UpdatedAt    interface{}     `json:"updatedAt"`
}

// InterfaceModelService 模型服务接口
type InterfaceModelService interface {
	ListVersions(params gateway.Params) (gateway.Page[models.ModelVersion], error)
	StartTraining(ctx context.Context, req *TrainingRequest, userID uint) (uint, error)
	GetTrainingStatus(ctx context.Context, trainingID uint) (*TrainingStatus, error)
	SyncTrainings(ctx context.Context) (int, error)
	Deploy(ctx context.Context, req *DeploymentRequest, userID uint) (uint, error)
	Predict(ctx context.Context, req *PredictRequest) (map[string]json.RawMessage, error)
	BatchPredict(ctx context.Context, req *BatchPredictRequest) (map[string]json.RawMessage, error)
	Evaluate(ctx context.Context, req *EvaluateRequest) (map[string]json.RawMessage, error)
}

// ModelService 模型服务
type ModelService struct {
	DB     *gorm.DB
	Config *config.Config
	Client modelclient.Client
}

// NewModelService 创建模型服务
func NewModelService(db *gorm.DB, cfg *config.Config, client modelclient.Client) InterfaceModelService {
	return &ModelService{DB: db, Config: cfg, Client: client}
}

// 1 ListVersions 模型版本列表
func (s *ModelService) ListVersions(params gateway.Params) (gateway.Page[models.ModelVersion], error) {
	return gateway.List[models.ModelVersion](s.DB, ModelVersionDescriptor, params)
}

// 2 StartTraining 先落库训练记录再提交上游，上游失败时记录保留为 failed
func (s *ModelService) StartTraining(ctx context.Context, req *TrainingRequest, userID uint) (uint, error) {
	training := &models.ModelTraining{
		ModelType:      req.ModelType,
		DatasetConfig:  jsonOrNil(req.DatasetConfig),
		TrainingParams: jsonOrNil(req.TrainingParams),
		Status:         fsm.JobPending,
		CreatedBy:      userID,
	}
	if err := gateway.Mutate(s.DB, func(tx *gorm.DB) error {
		return tx.Create(training).Error
	}); err != nil {
		return 0, err
	}

	err := s.Client.SubmitTraining(ctx, modelclient.TrainingRequest{
		TrainingID:     training.TrainingID,
		ModelType:      training.ModelType,
		DatasetConfig:  json.RawMessage(training.DatasetConfig),
		TrainingParams: json.RawMessage(training.TrainingParams),
	})
	if err != nil {
		markJobFailed(s.DB, &models.ModelTraining{}, "training_id", training.TrainingID, err)
		return training.TrainingID, code.WithMessage(code.ErrUpstream, "提交训练任务失败", err)
	}
	return training.TrainingID, nil
}

// 3 GetTrainingStatus 从上游同步训练进度后返回
func (s *ModelService) GetTrainingStatus(ctx context.Context, trainingID uint) (*TrainingStatus, error) {
	var training models.ModelTraining
	if err := s.DB.Where("training_id = ?", trainingID).Take(&training).Error; err != nil {
		return nil, notFound(err, "训练记录不存在")
	}
	if err := s.syncTraining(ctx, &training); err != nil {
		return nil, code.WithMessage(code.ErrUpstream, "获取训练状态失败", err)
	}
	return &TrainingStatus{
		TrainingID:   training.TrainingID,
		ModelType:    training.ModelType,
		Status:       training.Status,
		Progress:     training.Progress,
		Metrics:      json.RawMessage(training.Metrics),
		ErrorMessage: training.ErrorMessage,
		CreatedAt:    gateway.FormatTime(training.CreatedAt),
		UpdatedAt:    gateway.FormatTime(training.UpdatedAt),
	}, nil
}

// 4 SyncTrainings 同步所有未结束的训练任务，单条失败不影响其他任务
func (s *ModelService) SyncTrainings(ctx context.Context) (int, error) {
	trainings := make([]models.ModelTraining, 0)
	err := s.DB.Where("status IN ?", []string{fsm.JobPending, fsm.JobRunning}).
		Order("training_id").Find(&trainings).Error
	if err != nil {
		return 0, err
	}
	synced := 0
	for i := range trainings {
		if ctx.Err() != nil {
			return synced, ctx.Err()
		}
		if err := s.syncTraining(ctx, &trainings[i]); err != nil {
			logger.Warning("[Model] 训练任务 %d 同步失败: %v", trainings[i].TrainingID, err)
			continue
		}
		synced++
	}
	return synced, nil
}

func (s *ModelService) syncTraining(ctx context.Context, training *models.ModelTraining) error {
	status, err := s.Client.TrainingStatus(ctx, training.TrainingID)
	if err != nil {
		return err
	}
	updates := map[string]interface{}{}
	if next := nextJobStatus(training.Status, status.Status); next != training.Status {
		updates["status"] = next
		training.Status = next
	}
	if status.Progress != nil {
		updates["progress"] = *status.Progress
		training.Progress = *status.Progress
	}
	if len(status.Metrics) > 0 && string(status.Metrics) != "null" {
		updates["metrics"] = datatypes.JSON(status.Metrics)
		training.Metrics = datatypes.JSON(status.Metrics)
	}
	if status.ErrorMessage != nil {
		updates["error_message"] = *status.ErrorMessage
		training.ErrorMessage = *status.ErrorMessage
	}
	if len(updates) == 0 {
		return nil
	}
	return gateway.Mutate(s.DB, func(tx *gorm.DB) error {
		if err := tx.Model(&models.ModelTraining{}).Where("training_id = ?", training.TrainingID).Updates(updates).Error; err != nil {
			return err
		}
		return tx.Where("training_id = ?", training.TrainingID).Take(training).Error
	})
}

// 5 Deploy 先落库部署记录再提交上游
func (s *ModelService) Deploy(ctx context.Context, req *DeploymentRequest, userID uint) (uint, error) {
	if req.Environment == "" {
		req.Environment = "production"
	}
	deployment := &models.ModelDeployment{
		VersionID:   req.VersionID,
		Environment: req.Environment,
		Config:      jsonOrNil(req.Config),
		Status:      fsm.JobPending,
		DeployedBy:  userID,
	}
	if err := gateway.Mutate(s.DB, func(tx *gorm.DB) error {
		return tx.Create(deployment).Error
	}); err != nil {
		return 0, err
	}

	err := s.Client.SubmitDeployment(ctx, modelclient.DeploymentRequest{
		DeploymentID: deployment.DeploymentID,
		VersionID:    deployment.VersionID,
		Environment:  deployment.Environment,
		Config:       json.RawMessage(deployment.Config),
	})
	if err != nil {
		markJobFailed(s.DB, &models.ModelDeployment{}, "deployment_id", deployment.DeploymentID, err)
		return deployment.DeploymentID, code.WithMessage(code.ErrUpstream, "提交部署任务失败", err)
	}
	return deployment.DeploymentID, nil
}

// 6 Predict 透传预测请求
func (s *ModelService) Predict(ctx context.Context, req *PredictRequest) (map[string]json.RawMessage, error) {
	out, err := s.Client.Predict(ctx, req)
	if err != nil {
		return nil, code.WithMessage(code.ErrUpstream, "预测失败", err)
	}
	return pick(out, "predictions", "confidence", "metadata"), nil
}

// 7 BatchPredict 透传批量预测请求
func (s *ModelService) BatchPredict(ctx context.Context, req *BatchPredictRequest) (map[string]json.RawMessage, error) {
	out, err := s.Client.BatchPredict(ctx, req)
	if err != nil {
		return nil, code.WithMessage(code.ErrUpstream, "批量预测失败", err)
	}
	return pick(out, "predictions", "metadata"), nil
}

// 8 Evaluate 透传模型评估请求
func (s *ModelService) Evaluate(ctx context.Context, req *EvaluateRequest) (map[string]json.RawMessage, error) {
	if len(req.Metrics) == 0 {
		req.Metrics = defaultEvaluateMetrics
	}
	out, err := s.Client.Evaluate(ctx, req)
	if err != nil {
		return nil, code.WithMessage(code.ErrUpstream, "评估失败", err)
	}
	return pick(out, "metrics", "details", "metadata"), nil
}

// pick 取出上游结果中的指定字段，缺失字段输出为 null
func pick(p modelclient.Payload, fields ...string) map[string]json.RawMessage {
	out := make(map[string]json.RawMessage, len(fields))
	for _, f := range fields {
		if v := p.Field(f); v != nil {
			out[f] = v
		} else {
			out[f] = json.RawMessage("null")
		}
	}
	return out
}
