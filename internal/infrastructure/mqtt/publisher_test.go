package mqtt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"energy-ops-console/internal/infrastructure/config"
)

func TestDroneControlTopic(t *testing.T) {
	assert.Equal(t, "energy/drone/control/7", DroneControlTopic(7))
}

func TestNewPublisher_Disabled(t *testing.T) {
	p := NewPublisher(&config.Config{MQTTEnabled: false})

	_, ok := p.(NopPublisher)
	require.True(t, ok)
	assert.NoError(t, p.Publish(TopicAlarmHandled, map[string]int{"alarmId": 1}))
	assert.False(t, p.IsConnected())
}

func TestPahoPublisher_UnreachableBroker(t *testing.T) {
	p := NewPahoPublisher(&config.Config{
		MQTTBrokerURL: "tcp://127.0.0.1:1",
		MQTTClientID:  "test",
		MQTTQoS:       1,
	})
	p.MaxRetries = 1

	start := time.Now()
	for i := 0; i < 5; i++ {
		err := p.Publish(TopicAlarmHandled, map[string]int{"alarmId": i})
		require.ErrorIs(t, err, ErrNotConnected)
	}
	assert.Less(t, time.Since(start), 500*time.Millisecond)
	assert.False(t, p.IsConnected())

	// 等待后台重连结束
	assert.Eventually(t, func() bool { return !p.reconnecting.Load() }, 10*time.Second, 50*time.Millisecond)
	p.Disconnect()
}

func TestIsTLSBroker(t *testing.T) {
	assert.True(t, IsTLSBroker("ssl://broker:8883"))
	assert.False(t, IsTLSBroker("tcp://broker:1883"))
}
