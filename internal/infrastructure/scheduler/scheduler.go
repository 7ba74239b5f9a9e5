// Package scheduler 封装进程内定时任务。
package scheduler

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"

	"energy-ops-console/pkg/logger"
)

// Scheduler 定时任务调度器，同一任务上一轮未结束时跳过本轮
type Scheduler struct {
	cron    *cron.Cron
	mu      sync.Mutex
	entries map[string]cron.EntryID
}

// New 创建调度器，spec 支持秒级字段可选的标准表达式与 @every 描述符
func New() *Scheduler {
	return &Scheduler{
		cron: cron.New(
			cron.WithParser(cron.NewParser(cron.SecondOptional|cron.Minute|cron.Hour|cron.Dom|cron.Month|cron.Dow|cron.Descriptor)),
			cron.WithChain(cron.Recover(cron.DefaultLogger), cron.SkipIfStillRunning(cron.DefaultLogger)),
		),
		entries: make(map[string]cron.EntryID),
	}
}

// AddJob 注册任务，同名任务会替换旧的
func (s *Scheduler) AddJob(name, spec string, fn func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.cron.AddFunc(spec, func() {
		logger.Debug("定时任务开始执行: %s", name)
		fn()
	})
	if err != nil {
		return fmt.Errorf("注册定时任务[%s]失败: %w", name, err)
	}
	if old, ok := s.entries[name]; ok {
		s.cron.Remove(old)
	}
	s.entries[name] = id
	logger.Info("已注册定时任务: %s (%s)", name, spec)
	return nil
}

// RunNow 立即同步执行一次指定任务
func (s *Scheduler) RunNow(name string) bool {
	s.mu.Lock()
	id, ok := s.entries[name]
	s.mu.Unlock()
	if !ok {
		return false
	}
	s.cron.Entry(id).WrappedJob.Run()
	return true
}

// Jobs 已注册的任务名
func (s *Scheduler) Jobs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.entries))
	for name := range s.entries {
		names = append(names, name)
	}
	return names
}

// Start 启动调度
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop 停止调度并等待运行中的任务结束，ctx 到期后直接返回
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		logger.Warning("等待定时任务结束超时")
	}
}
