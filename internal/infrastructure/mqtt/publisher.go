// Package mqtt 向现场设备发布控制指令与事件通知。
package mqtt

import (
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"energy-ops-console/internal/infrastructure/config"
	"energy-ops-console/pkg/logger"
)

// 发布主题
const (
	// TopicDroneControlPrefix 无人机控制指令，后接无人机编号
	TopicDroneControlPrefix = "energy/drone/control/"
	// TopicAlarmHandled 告警处理完成事件
	TopicAlarmHandled = "energy/alarm/handled"
)

// ErrNotConnected 未连接时发布立即失败，重连在后台进行
var ErrNotConnected = errors.New("MQTT客户端未连接")

// DroneControlTopic 指定无人机的控制主题
func DroneControlTopic(droneID uint) string {
	return fmt.Sprintf("%s%d", TopicDroneControlPrefix, droneID)
}

// Publisher 消息发布接口
type Publisher interface {
	Publish(topic string, payload interface{}) error
	IsConnected() bool
	Disconnect()
}

// NewPublisher 按配置创建发布者，未启用时返回空实现
func NewPublisher(cfg *config.Config) Publisher {
	if !cfg.MQTTEnabled {
		logger.Info("[MQTT] 未启用，指令只写入数据库")
		return NopPublisher{}
	}
	p := NewPahoPublisher(cfg)
	if err := p.Connect(); err != nil {
		logger.Error("[MQTT] 服务连接失败: %v", err)
	}
	return p
}

// PahoPublisher 基于 paho 客户端的发布者
type PahoPublisher struct {
	Client     pahomqtt.Client
	QoS        byte
	MaxRetries int
	BrokerURL  string

	publishMutex   sync.Mutex
	connectedMutex sync.RWMutex
	connected      bool
	reconnecting   atomic.Bool
}

// NewPahoPublisher 创建客户端但不连接
func NewPahoPublisher(cfg *config.Config) *PahoPublisher {
	p := &PahoPublisher{
		QoS:        byte(cfg.MQTTQoS),
		MaxRetries: 3,
		BrokerURL:  cfg.MQTTBrokerURL,
	}

	opts := pahomqtt.NewClientOptions()
	opts.AddBroker(cfg.MQTTBrokerURL)
	// 多实例部署时客户端ID不能重复
	opts.SetClientID(fmt.Sprintf("%s-%s", cfg.MQTTClientID, uuid.New().String()[:8]))
	opts.SetAutoReconnect(true)
	opts.SetMaxReconnectInterval(30 * time.Second)
	opts.SetKeepAlive(60 * time.Second)
	opts.SetPingTimeout(10 * time.Second)
	opts.SetConnectTimeout(5 * time.Second)
	opts.SetCleanSession(true)
	opts.SetOrderMatters(true)

	if cfg.MQTTUsername != "" {
		opts.SetUsername(cfg.MQTTUsername)
		opts.SetPassword(cfg.MQTTPassword)
	}
	if IsTLSBroker(cfg.MQTTBrokerURL) {
		opts.SetTLSConfig(&tls.Config{MinVersion: tls.VersionTLS12})
	}

	opts.SetConnectionLostHandler(func(_ pahomqtt.Client, err error) {
		logger.Warning("[MQTT] 连接丢失: %v", err)
		p.setConnected(false)
	})
	opts.SetOnConnectHandler(func(_ pahomqtt.Client) {
		logger.Info("[MQTT] 成功连接到 %s", cfg.MQTTBrokerURL)
		p.setConnected(true)
	})
	opts.SetReconnectingHandler(func(pahomqtt.Client, *pahomqtt.ClientOptions) {
		logger.Info("[MQTT] 正在尝试重连...")
	})

	p.Client = pahomqtt.NewClient(opts)
	return p
}

func (p *PahoPublisher) setConnected(v bool) {
	p.connectedMutex.Lock()
	p.connected = v
	p.connectedMutex.Unlock()
}

// Connect 连接到 broker，失败时按指数退避重试
func (p *PahoPublisher) Connect() error {
	if p.IsConnected() {
		return nil
	}

	retries := p.MaxRetries
	if retries < 1 {
		retries = 1
	}
	var err error
	for i := 0; i < retries; i++ {
		token := p.Client.Connect()
		if token.WaitTimeout(5*time.Second) && token.Error() == nil {
			p.setConnected(true)
			return nil
		}
		err = token.Error()
		if err == nil {
			err = fmt.Errorf("连接超时")
		}
		if i < retries-1 {
			backoff := time.Duration(1<<uint(i)) * time.Second
			logger.Warning("[MQTT] 连接尝试 %d/%d 失败: %v, 将在 %v 后重试", i+1, retries, err, backoff)
			time.Sleep(backoff)
		}
	}
	return fmt.Errorf("[MQTT] 连接 %s 失败，已尝试 %d 次: %w", p.BrokerURL, retries, err)
}

// IsConnected 连接状态
func (p *PahoPublisher) IsConnected() bool {
	p.connectedMutex.RLock()
	defer p.connectedMutex.RUnlock()
	return p.connected && p.Client.IsConnected()
}

// reconnectAsync 客户端完全断开时在后台重连，paho 自动重连期间不介入
func (p *PahoPublisher) reconnectAsync() {
	if p.Client.IsConnected() || !p.reconnecting.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer p.reconnecting.Store(false)
		if err := p.Connect(); err != nil {
			logger.Warning("[MQTT] 后台重连失败: %v", err)
		}
	}()
}

// Publish 序列化为 JSON 后发布，等待 broker 确认；未连接时立即返回 ErrNotConnected
func (p *PahoPublisher) Publish(topic string, payload interface{}) error {
	if !p.IsConnected() {
		p.reconnectAsync()
		return ErrNotConnected
	}

	p.publishMutex.Lock()
	defer p.publishMutex.Unlock()

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("序列化消息失败: %w", err)
	}

	token := p.Client.Publish(topic, p.QoS, false, data)
	if !token.WaitTimeout(3 * time.Second) {
		return fmt.Errorf("发布消息超时: %s", topic)
	}
	if token.Error() != nil {
		return fmt.Errorf("发布消息失败: %w", token.Error())
	}
	logger.Debug("[MQTT] 已发布消息到主题: %s", topic)
	return nil
}

// Disconnect 断开连接
func (p *PahoPublisher) Disconnect() {
	if p.Client != nil && p.Client.IsConnected() {
		p.Client.Disconnect(250)
	}
	p.setConnected(false)
}

// NopPublisher 未启用 MQTT 时使用
type NopPublisher struct{}

func (NopPublisher) Publish(string, interface{}) error { return nil }
func (NopPublisher) IsConnected() bool                 { return false }
func (NopPublisher) Disconnect()                       {}

// IsTLSBroker 判断 broker 地址是否使用 TLS
func IsTLSBroker(url string) bool {
	return strings.HasPrefix(url, "ssl://") || strings.HasPrefix(url, "tls://")
}
