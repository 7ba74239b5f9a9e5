package models

import (
	"time"

	"gorm.io/datatypes"
)

// ModelVersion 模型版本
type ModelVersion struct {
	VersionID          uint           `gorm:"primaryKey;column:version_id" json:"versionId"`
	ModelType          string         `gorm:"type:varchar(50);not null" json:"modelType"`
	VersionNumber      string         `gorm:"type:varchar(50);not null" json:"versionNumber"`
	Description        string         `gorm:"type:text" json:"description"`
	Parameters         datatypes.JSON `json:"parameters"`
	PerformanceMetrics datatypes.JSON `json:"performance"`
	Status             string         `gorm:"type:varchar(20);default:'active'" json:"status"`
	CreatedBy          uint           `json:"createdBy"`
	CreatedAt          time.Time      `json:"createdAt"`
}

func (ModelVersion) TableName() string { return "sys_model_version" }

// ModelTraining 训练任务
type ModelTraining struct {
	TrainingID     uint           `gorm:"primaryKey;column:training_id" json:"trainingId"`
	ModelType      string         `gorm:"type:varchar(50);not null" json:"modelType"`
	DatasetConfig  datatypes.JSON `json:"datasetConfig"`
	TrainingParams datatypes.JSON `json:"trainingParams"`
	Status         string         `gorm:"type:varchar(20);index" json:"status"`
	Progress       float64        `json:"progress"`
	Metrics        datatypes.JSON `json:"metrics"`
	ErrorMessage   string         `gorm:"type:text" json:"errorMessage"`
	CreatedBy      uint           `json:"createdBy"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

func (ModelTraining) TableName() string { return "sys_model_training" }

// ModelDeployment 部署任务，status: pending/deploying/active/failed
type ModelDeployment struct {
	DeploymentID uint           `gorm:"primaryKey;column:deployment_id" json:"deploymentId"`
	VersionID    uint           `gorm:"index;not null" json:"versionId"`
	Environment  string         `gorm:"type:varchar(50)" json:"environment"`
	Config       datatypes.JSON `json:"config"`
	Status       string         `gorm:"type:varchar(20)" json:"status"`
	ErrorMessage string         `gorm:"type:text" json:"errorMessage"`
	DeployedBy   uint           `json:"deployedBy"`
	DeployedAt   time.Time      `gorm:"autoCreateTime" json:"deployedAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

func (ModelDeployment) TableName() string { return "sys_model_deployment" }

// Dataset 数据集
type Dataset struct {
	DatasetID     uint           `gorm:"primaryKey;column:dataset_id" json:"datasetId"`
	Name          string         `gorm:"type:varchar(100);not null" json:"name"`
	Description   string         `gorm:"type:text" json:"description"`
	SourceType    string         `gorm:"type:varchar(50);not null" json:"sourceType"` // database/file/api
	SourceConfig  datatypes.JSON `json:"sourceConfig"`
	FeatureConfig datatypes.JSON `json:"featureConfig"`
	Status        string         `gorm:"type:varchar(20)" json:"status"`
	Statistics    datatypes.JSON `json:"statistics"`
	Schema        datatypes.JSON `gorm:"column:schema" json:"schema"`
	ErrorMessage  string         `gorm:"type:text" json:"errorMessage"`
	CreatedBy     uint           `json:"createdBy"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

func (Dataset) TableName() string { return "sys_dataset" }

// DataPreprocessing 数据预处理任务
type DataPreprocessing struct {
	PreprocessingID uint           `gorm:"primaryKey;column:preprocessing_id" json:"preprocessingId"`
	DatasetID       uint           `gorm:"index;not null" json:"datasetId"`
	Config          datatypes.JSON `json:"config"`
	Status          string         `gorm:"type:varchar(20)" json:"status"`
	ErrorMessage    string         `gorm:"type:text" json:"errorMessage"`
	CreatedBy       uint           `json:"createdBy"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
}

func (DataPreprocessing) TableName() string { return "sys_data_preprocessing" }

// FeatureEngineering 特征工程任务
type FeatureEngineering struct {
	EngineeringID uint           `gorm:"primaryKey;column:engineering_id" json:"engineeringId"`
	DatasetID     uint           `gorm:"index;not null" json:"datasetId"`
	Config        datatypes.JSON `json:"config"`
	Status        string         `gorm:"type:varchar(20)" json:"status"`
	ErrorMessage  string         `gorm:"type:text" json:"errorMessage"`
	CreatedBy     uint           `json:"createdBy"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

func (FeatureEngineering) TableName() string { return "sys_feature_engineering" }
