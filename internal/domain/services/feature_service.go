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
)

// DefaultPreviewLimit 数据集预览默认行数
const DefaultPreviewLimit = 100

// PreprocessRequest 预处理参数
type PreprocessRequest struct {
	DatasetID            uint   `json:"datasetId" example:"2"`
	MissingValueStrategy string `json:"missingValueStrategy" example:"mean"`
	OutlierStrategy      string `json:"outlierStrategy" example:"iqr"`
	ScalingMethod        string `json:"scalingMethod" example:"standard"`
	EncodingMethod       string `json:"encodingMethod" example:"label"`
}

// EngineerRequest 特征工程参数
type EngineerRequest struct {
	DatasetID           uint            `json:"datasetId" example:"2"`
	TimeFeatures        json.RawMessage `json:"timeFeatures" swaggertype:"array,string"`
	StatisticalFeatures json.RawMessage `json:"statisticalFeatures" swaggertype:"array,string"`
	WindowFeatures      json.RawMessage `json:"windowFeatures" swaggertype:"array,object"`
	CustomFeatures      json.RawMessage `json:"customFeatures" swaggertype:"array,object"`
}

// DatasetRequest 数据集参数
type DatasetRequest struct {
	Name          string          `json:"name" binding:"required" example:"北区风机2024"`
	Description   string          `json:"description" example:"北区全部风机的小时级数据"`
	SourceType    string          `json:"sourceType" binding:"required" example:"database"`
	SourceConfig  json.RawMessage `json:"sourceConfig" swaggertype:"object"`
	FeatureConfig json.RawMessage `json:"featureConfig" swaggertype:"object"`
}

// InterfaceFeatureService 特征工程服务接口
type InterfaceFeatureService interface {
	Preprocess(ctx context.Context, req *PreprocessRequest, userID uint) (uint, error)
	Engineer(ctx context.Context, req *EngineerRequest, userID uint) (uint, error)
	CreateDataset(ctx context.Context, req *DatasetRequest, userID uint) (uint, error)
	GetDataset(ctx context.Context, datasetID uint) (*models.Dataset, error)
	PreviewDataset(ctx context.Context, datasetID uint, limit int) (*modelclient.DatasetPreview, error)
}

// FeatureService 特征工程服务
type FeatureService struct {
	DB     *gorm.DB
	Config *config.Config
	Client modelclient.Client
}

// NewFeatureService 创建特征工程服务
func NewFeatureService(db *gorm.DB, cfg *config.Config, client modelclient.Client) InterfaceFeatureService {
	return &FeatureService{DB: db, Config: cfg, Client: client}
}

// 1 Preprocess 提交预处理任务
func (s *FeatureService) Preprocess(ctx context.Context, req *PreprocessRequest, userID uint) (uint, error) {
	cfg, err := json.Marshal(map[string]string{
		"missing_value_strategy": orDefault(req.MissingValueStrategy, "mean"),
		"outlier_strategy":       orDefault(req.OutlierStrategy, "iqr"),
		"scaling_method":         orDefault(req.ScalingMethod, "standard"),
		"encoding_method":        orDefault(req.EncodingMethod, "label"),
	})
	if err != nil {
		return 0, err
	}
	job := &models.DataPreprocessing{
		DatasetID: req.DatasetID,
		Config:    datatypes.JSON(cfg),
		Status:    fsm.JobPending,
		CreatedBy: userID,
	}
	if err := gateway.Mutate(s.DB, func(tx *gorm.DB) error {
		return tx.Create(job).Error
	}); err != nil {
		return 0, err
	}

	err = s.Client.SubmitPreprocessing(ctx, modelclient.PreprocessRequest{
		PreprocessingID: job.PreprocessingID,
		DatasetID:       job.DatasetID,
		Config:          cfg,
	})
	if err != nil {
		markJobFailed(s.DB, &models.DataPreprocessing{}, "preprocessing_id", job.PreprocessingID, err)
		return job.PreprocessingID, code.WithMessage(code.ErrUpstream, "提交预处理任务失败", err)
	}
	return job.PreprocessingID, nil
}

// 2 Engineer 提交特征工程任务
func (s *FeatureService) Engineer(ctx context.Context, req *EngineerRequest, userID uint) (uint, error) {
	cfg, err := json.Marshal(map[string]json.RawMessage{
		"time_features":        emptyListOr(req.TimeFeatures),
		"statistical_features": emptyListOr(req.StatisticalFeatures),
		"window_features":      emptyListOr(req.WindowFeatures),
		"custom_features":      emptyListOr(req.CustomFeatures),
	})
	if err != nil {
		return 0, err
	}
	job := &models.FeatureEngineering{
		DatasetID: req.DatasetID,
		Config:    datatypes.JSON(cfg),
		Status:    fsm.JobPending,
		CreatedBy: userID,
	}
	if err := gateway.Mutate(s.DB, func(tx *gorm.DB) error {
		return tx.Create(job).Error
	}); err != nil {
		return 0, err
	}

	err = s.Client.SubmitFeatureEngineering(ctx, modelclient.FeatureEngineeringRequest{
		EngineeringID: job.EngineeringID,
		DatasetID:     job.DatasetID,
		Config:        cfg,
	})
	if err != nil {
		markJobFailed(s.DB, &models.FeatureEngineering{}, "engineering_id", job.EngineeringID, err)
		return job.EngineeringID, code.WithMessage(code.ErrUpstream, "提交特征工程任务失败", err)
	}
	return job.EngineeringID, nil
}

// 3 CreateDataset 提交数据集构建任务
func (s *FeatureService) CreateDataset(ctx context.Context, req *DatasetRequest, userID uint) (uint, error) {
	dataset := &models.Dataset{
		Name:          req.Name,
		Description:   req.Description,
		SourceType:    req.SourceType,
		SourceConfig:  jsonOrNil(req.SourceConfig),
		FeatureConfig: jsonOrNil(req.FeatureConfig),
		Status:        fsm.JobPending,
		CreatedBy:     userID,
	}
	if err := gateway.Mutate(s.DB, func(tx *gorm.DB) error {
		return tx.Create(dataset).Error
	}); err != nil {
		return 0, err
	}

	err := s.Client.SubmitDataset(ctx, modelclient.DatasetRequest{
		DatasetID:     dataset.DatasetID,
		SourceType:    dataset.SourceType,
		SourceConfig:  json.RawMessage(dataset.SourceConfig),
		FeatureConfig: json.RawMessage(dataset.FeatureConfig),
	})
	if err != nil {
		markJobFailed(s.DB, &models.Dataset{}, "dataset_id", dataset.DatasetID, err)
		return dataset.DatasetID, code.WithMessage(code.ErrUpstream, "提交数据集创建任务失败", err)
	}
	return dataset.DatasetID, nil
}

// 4 GetDataset 从上游同步数据集状态、统计与结构后返回
func (s *FeatureService) GetDataset(ctx context.Context, datasetID uint) (*models.Dataset, error) {
	dataset, err := s.findDataset(datasetID)
	if err != nil {
		return nil, err
	}
	info, err := s.Client.DatasetInfo(ctx, datasetID)
	if err != nil {
		return nil, code.WithMessage(code.ErrUpstream, "获取数据集信息失败", err)
	}

	updates := map[string]interface{}{}
	if next := nextJobStatus(dataset.Status, info.Status); next != dataset.Status {
		updates["status"] = next
	}
	if len(info.Statistics) > 0 && string(info.Statistics) != "null" {
		updates["statistics"] = datatypes.JSON(info.Statistics)
	}
	if len(info.Schema) > 0 && string(info.Schema) != "null" {
		updates["schema"] = datatypes.JSON(info.Schema)
	}
	if info.ErrorMessage != nil {
		updates["error_message"] = *info.ErrorMessage
	}
	if len(updates) == 0 {
		return dataset, nil
	}
	err = gateway.Mutate(s.DB, func(tx *gorm.DB) error {
		if err := tx.Model(&models.Dataset{}).Where("dataset_id = ?", datasetID).Updates(updates).Error; err != nil {
			return err
		}
		return tx.Where("dataset_id = ?", datasetID).Take(dataset).Error
	})
	if err != nil {
		return nil, err
	}
	return dataset, nil
}

// 5 PreviewDataset 数据集预览
func (s *FeatureService) PreviewDataset(ctx context.Context, datasetID uint, limit int) (*modelclient.DatasetPreview, error) {
	if _, err := s.findDataset(datasetID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultPreviewLimit
	}
	preview, err := s.Client.DatasetPreview(ctx, datasetID, limit)
	if err != nil {
		return nil, code.WithMessage(code.ErrUpstream, "获取数据集预览失败", err)
	}
	return preview, nil
}

func (s *FeatureService) findDataset(datasetID uint) (*models.Dataset, error) {
	var dataset models.Dataset
	if err := s.DB.Where("dataset_id = ?", datasetID).Take(&dataset).Error; err != nil {
		return nil, notFound(err, "数据集不存在")
	}
	return &dataset, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func emptyListOr(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 || string(raw) == "null" {
		return json.RawMessage("[]")
	}
	return raw
}
