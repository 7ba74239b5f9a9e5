// Package forecaster 管理进程内唯一的时序预测模型句柄。
//
// 模型在首次使用时加载，加载失败不会被缓存，下次调用会重新尝试；
// 服务退出时调用 Close 释放。
package forecaster

import (
	"context"
	"errors"
	"sync"

	"energy-ops-console/pkg/logger"
)

// ErrClosed 句柄已关闭
var ErrClosed = errors.New("forecaster: holder closed")

// Model 已加载的预测模型
type Model interface {
	// Generate 基于历史序列生成 numSamples 条长度为 horizon 的预测样本
	Generate(ctx context.Context, history []float64, horizon, numSamples int) ([][]float64, error)
	Close() error
}

// Loader 加载模型
type Loader func(ctx context.Context) (Model, error)

// Holder 模型句柄，所有状态由同一把锁保护
type Holder struct {
	mu     sync.Mutex
	loader Loader
	model  Model
	closed bool
}

// NewHolder 创建句柄，不立即加载
func NewHolder(loader Loader) *Holder {
	return &Holder{loader: loader}
}

// Get 返回已加载的模型，未加载时加载一次
func (h *Holder) Get(ctx context.Context) (Model, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, ErrClosed
	}
	if h.model != nil {
		return h.model, nil
	}
	m, err := h.loader(ctx)
	if err != nil {
		logger.Warning("预测模型加载失败: %v", err)
		return nil, err
	}
	logger.Info("预测模型加载成功")
	h.model = m
	return m, nil
}

// Loaded 模型是否已加载
func (h *Holder) Loaded() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.model != nil
}

// Close 释放模型，之后的 Get 返回 ErrClosed
func (h *Holder) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	if h.model == nil {
		return nil
	}
	err := h.model.Close()
	h.model = nil
	return err
}
