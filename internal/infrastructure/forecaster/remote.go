package forecaster

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// RemoteModel 通过 HTTP 调用独立部署的推理进程
type RemoteModel struct {
	http *resty.Client
	Name string
}

type generateRequest struct {
	Inputs       []float64 `json:"inputs"`
	MaxNewTokens int       `json:"max_new_tokens"`
	NumSamples   int       `json:"num_samples"`
}

type generateResponse struct {
	Samples [][]float64 `json:"samples"`
}

type modelStatus struct {
	ModelName string `json:"model_name"`
	Ready     bool   `json:"ready"`
}

// RemoteLoader 返回加载远程模型的 Loader，加载时确认推理进程已就绪
func RemoteLoader(baseURL string, timeout time.Duration) Loader {
	return func(ctx context.Context) (Model, error) {
		client := resty.New().
			SetBaseURL(baseURL).
			SetTimeout(timeout).
			SetHeader("Accept", "application/json")

		var status modelStatus
		resp, err := client.R().SetContext(ctx).SetResult(&status).Get("/model")
		if err != nil {
			return nil, fmt.Errorf("连接推理服务失败: %w", err)
		}
		if resp.StatusCode() != 200 {
			return nil, fmt.Errorf("推理服务返回错误: %s", resp.String())
		}
		if !status.Ready {
			return nil, fmt.Errorf("推理服务模型未就绪")
		}
		return &RemoteModel{http: client, Name: status.ModelName}, nil
	}
}

// Generate POST /generate
func (m *RemoteModel) Generate(ctx context.Context, history []float64, horizon, numSamples int) ([][]float64, error) {
	var out generateResponse
	resp, err := m.http.R().
		SetContext(ctx).
		SetBody(generateRequest{Inputs: history, MaxNewTokens: horizon, NumSamples: numSamples}).
		SetResult(&out).
		Post("/generate")
	if err != nil {
		return nil, fmt.Errorf("调用推理服务失败: %w", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("推理服务返回错误: %s", resp.String())
	}
	if len(out.Samples) == 0 {
		return nil, fmt.Errorf("推理服务未返回样本")
	}
	return out.Samples, nil
}

func (m *RemoteModel) Close() error {
	m.http.GetClient().CloseIdleConnections()
	return nil
}
