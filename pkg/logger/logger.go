package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu    sync.RWMutex
	base  = zap.NewNop()
	sugar = base.Sugar()
)

// Options 日志配置
type Options struct {
	Level       string // debug, info, warn, error
	Format      string // json 或 console
	ServiceName string
	Dir         string // 为空时只输出到控制台
}

// SetupLogger 使用默认配置初始化日志（控制台 + logs 目录按天分文件）
func SetupLogger() error {
	return Setup(Options{
		Level:       os.Getenv("LOG_LEVEL"),
		Format:      os.Getenv("LOG_FORMAT"),
		ServiceName: "energy-ops-console",
		Dir:         "logs",
	})
}

// Setup 按配置初始化全局日志
func Setup(opts Options) error {
	l, err := New(opts)
	if err != nil {
		return err
	}
	SetLogger(l)
	return nil
}

// New 创建 zap Logger
func New(opts Options) (*zap.Logger, error) {
	var level zapcore.Level
	switch opts.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var cfg zap.Config
	if opts.Format == "console" {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "timestamp"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.OutputPaths = []string{"stdout"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	if opts.Dir != "" {
		if err := os.MkdirAll(opts.Dir, 0755); err != nil {
			return nil, fmt.Errorf("创建日志目录失败: %w", err)
		}
		logFile := filepath.Join(opts.Dir, time.Now().Format("2006-01-02")+".log")
		cfg.OutputPaths = append(cfg.OutputPaths, logFile)
	}

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, err
	}
	if opts.ServiceName != "" {
		l = l.With(zap.String("service_name", opts.ServiceName))
	}
	if hostname, err := os.Hostname(); err == nil && hostname != "" {
		l = l.With(zap.String("hostname", hostname))
	}
	return l, nil
}

// SetLogger 替换全局日志实例
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	mu.Lock()
	base = l
	sugar = l.Sugar()
	mu.Unlock()
}

// L 返回结构化日志实例
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

// Sync 刷新缓冲
func Sync() {
	_ = L().Sync()
}

func s() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return sugar
}

// Debug 记录调试级别的日志
func Debug(format string, v ...interface{}) {
	s().Debugf(format, v...)
}

// Info 记录信息级别的日志
func Info(format string, v ...interface{}) {
	s().Infof(format, v...)
}

// Warning 记录警告级别的日志
func Warning(format string, v ...interface{}) {
	s().Warnf(format, v...)
}

// Error 记录错误级别的日志
func Error(format string, v ...interface{}) {
	s().Errorf(format, v...)
}
