package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"energy-ops-console/internal/error/code"
	"energy-ops-console/internal/infrastructure/forecaster"
)

// constantModel 每条样本都在最后一个历史值基础上加 offset
type constantModel struct {
	offsets     []float64
	lastHistory []float64
}

func (m *constantModel) Generate(_ context.Context, history []float64, horizon, numSamples int) ([][]float64, error) {
	m.lastHistory = history
	samples := make([][]float64, 0, numSamples)
	for i := 0; i < numSamples; i++ {
		offset := m.offsets[i%len(m.offsets)]
		sample := make([]float64, horizon)
		for j := range sample {
			sample[j] = history[len(history)-1] + offset
		}
		samples = append(samples, sample)
	}
	return samples, nil
}

func (m *constantModel) Close() error { return nil }

func series(n int) []map[string]interface{} {
	rows := make([]map[string]interface{}, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, map[string]interface{}{"date": "t", "OT": float64(i)})
	}
	return rows
}

func newInference(t *testing.T, model forecaster.Model) InterfaceInferenceService {
	t.Helper()
	holder := forecaster.NewHolder(func(context.Context) (forecaster.Model, error) {
		if model == nil {
			return nil, errors.New("connection refused")
		}
		return model, nil
	})
	return NewInferenceService(newTestConfig(t), holder)
}

func TestInference_WindowAndGroundtruth(t *testing.T) {
	model := &constantModel{offsets: []float64{1, 3}}
	svc := newInference(t, model)

	result, err := svc.Predict(context.Background(), &InferenceRequest{
		Data:           series(200),
		TargetVariable: "OT",
		ForecastLength: ptr(50),
	})
	require.NoError(t, err)

	assert.Equal(t, 150, result.LookbackLength)
	assert.Equal(t, 0, result.StartPosition)
	assert.Len(t, result.History, 150)
	assert.Len(t, result.Labels, 200)
	assert.Equal(t, 199, result.Labels[199])
	require.Len(t, result.Prediction, 50)
	assert.InDelta(t, 151.0, result.Prediction[0], 1e-9)
	require.Len(t, result.Groundtruth, 50)
	require.NotNil(t, result.Groundtruth[0])
	assert.InDelta(t, 150.0, *result.Groundtruth[0], 1e-9)
	assert.Len(t, model.lastHistory, 150)
}

func TestInference_LookbackCappedAndStartShifted(t *testing.T) {
	svc := newInference(t, &constantModel{offsets: []float64{0}})

	result, err := svc.Predict(context.Background(), &InferenceRequest{
		Data:           series(2000),
		TargetVariable: "OT",
		StartPosition:  ptr(1500),
		ForecastLength: ptr(96),
	})
	require.NoError(t, err)
	assert.Equal(t, MaxLookbackLength, result.LookbackLength)
	assert.Equal(t, 2000-MaxLookbackLength-96, result.StartPosition)
	assert.InDelta(t, float64(result.StartPosition), result.History[0], 1e-9)
	for _, gt := range result.Groundtruth {
		assert.NotNil(t, gt)
	}
}

func TestInference_GroundtruthPaddedWithNull(t *testing.T) {
	svc := newInference(t, &constantModel{offsets: []float64{0}})

	// 起点 60 时回看窗口仍在数据内，预测段只剩 16 个真实值
	result, err := svc.Predict(context.Background(), &InferenceRequest{
		Data:           series(1100),
		TargetVariable: "OT",
		StartPosition:  ptr(60),
		ForecastLength: ptr(50),
	})
	require.NoError(t, err)
	assert.Equal(t, MaxLookbackLength, result.LookbackLength)
	assert.Equal(t, 60, result.StartPosition)
	require.Len(t, result.Groundtruth, 50)
	require.NotNil(t, result.Groundtruth[15])
	assert.InDelta(t, 1099.0, *result.Groundtruth[15], 1e-9)
	assert.Nil(t, result.Groundtruth[16])
	assert.Nil(t, result.Groundtruth[49])

	result, err = svc.Predict(context.Background(), &InferenceRequest{
		Data:           series(1100),
		TargetVariable: "OT",
	})
	require.NoError(t, err)
	assert.Equal(t, 1000, result.LookbackLength)
	assert.Len(t, result.Prediction, DefaultForecastLength)
	assert.NotNil(t, result.Groundtruth[99])
}

func TestInference_Validation(t *testing.T) {
	svc := newInference(t, &constantModel{offsets: []float64{0}})
	ctx := context.Background()

	_, err := svc.Predict(ctx, &InferenceRequest{Data: series(10), TargetVariable: "load"})
	assert.Equal(t, "目标变量 load 不存在", requireCode(t, err, code.StatusBadRequest).PublicMessage())

	_, err = svc.Predict(ctx, &InferenceRequest{
		Data:           []map[string]interface{}{{"OT": "n/a"}, {"OT": nil}},
		TargetVariable: "OT",
	})
	assert.Equal(t, "目标变量没有有效的数值数据", requireCode(t, err, code.StatusBadRequest).PublicMessage())

	_, err = svc.Predict(ctx, &InferenceRequest{Data: series(10), TargetVariable: "OT", ForecastLength: ptr(0)})
	requireCode(t, err, code.StatusBadRequest)

	_, err = svc.Predict(ctx, &InferenceRequest{Data: series(10), TargetVariable: "OT", ForecastLength: ptr(10)})
	assert.Equal(t, "数据长度不足以进行预测", requireCode(t, err, code.StatusBadRequest).PublicMessage())
}

func TestInference_ModelUnavailable(t *testing.T) {
	svc := newInference(t, nil)

	_, err := svc.Predict(context.Background(), &InferenceRequest{Data: series(200), TargetVariable: "OT"})
	assert.Equal(t, "模型加载失败", requireCode(t, err, code.StatusInternalServerError).PublicMessage())

	_, err = svc.ModelInfo(context.Background())
	assert.Equal(t, "模型未加载", requireCode(t, err, code.StatusInternalServerError).PublicMessage())
}

func TestInference_SampleData(t *testing.T) {
	holder := forecaster.NewHolder(func(context.Context) (forecaster.Model, error) {
		return &constantModel{offsets: []float64{0}}, nil
	})
	cfg := newTestConfig(t)
	svc := NewInferenceService(cfg, holder)

	csv := "date,HUFL,OT\n2016-07-01 00:00:00,5.827,30.531\n2016-07-01 01:00:00,,27.787\n"
	require.NoError(t, os.WriteFile(filepath.Join(cfg.InferenceDatasetDir, "ETTh1.csv"), []byte(csv), 0o644))

	rows, err := svc.SampleData("ETTh1")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "2016-07-01 00:00:00", rows[0]["date"])
	assert.InDelta(t, 30.531, rows[0]["OT"], 1e-9)
	assert.Nil(t, rows[1]["HUFL"])

	_, err = svc.SampleData("ETTh9")
	assert.Equal(t, "不支持的数据集: ETTh9", requireCode(t, err, code.StatusBadRequest).PublicMessage())

	_, err = svc.SampleData("Wind")
	assert.Equal(t, "数据集文件不存在", requireCode(t, err, code.StatusNotFound).PublicMessage())

	info, err := svc.ModelInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, MaxForecastLength, info.MaxForecastLength)
}
