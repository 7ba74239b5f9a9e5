package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func setRequired(t *testing.T, prefix string) {
	t.Setenv(prefix+"DB_HOST", "db.internal")
	t.Setenv(prefix+"DB_USER", "ops")
	t.Setenv(prefix+"DB_PASSWORD", "secret")
	t.Setenv(prefix+"DB_NAME", "energy")
	t.Setenv("DEFAULT_ADMIN_PASSWORD", "admin123")
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("ENV_TYPE", "LOCAL")
	setRequired(t, "LOCAL_")

	cfg := LoadConfig()

	assert.Equal(t, "LOCAL", cfg.EnvType)
	assert.Equal(t, "3306", cfg.DBPort)
	assert.Equal(t, "auto", cfg.DBMigrationMode)
	assert.Equal(t, "http://model-service:8000", cfg.ModelServiceURL)
	assert.Equal(t, 30*time.Second, cfg.ModelServiceTimeout)
	assert.Equal(t, 24*time.Hour, cfg.JWTExpiration())
	assert.False(t, cfg.MQTTEnabled)
	assert.Empty(t, cfg.TrainingSyncCron)
	assert.Equal(t, "ops:secret@tcp(db.internal:3306)/energy?charset=utf8mb4&parseTime=True&loc=Local&allowNativePasswords=true", cfg.GetDSN())
}

func TestLoadConfig_ServerPrefixAndOverrides(t *testing.T) {
	t.Setenv("ENV_TYPE", "server")
	setRequired(t, "SERVER_")
	t.Setenv("SERVER_REDIS_HOST", "cache.internal")
	t.Setenv("JWT_EXPIRE_HOURS", "2")
	t.Setenv("MQTT_ENABLED", "true")
	t.Setenv("CACHE_TTL_SECONDS", "not-a-number")

	cfg := LoadConfig()

	assert.Equal(t, "SERVER", cfg.EnvType)
	assert.Equal(t, "cache.internal:6379", cfg.GetRedisAddr())
	assert.Equal(t, 2*time.Hour, cfg.JWTExpiration())
	assert.True(t, cfg.MQTTEnabled)
	assert.Equal(t, 60*time.Second, cfg.CacheTTL)
}

func TestLoadConfig_MissingRequiredPanics(t *testing.T) {
	t.Setenv("ENV_TYPE", "LOCAL")
	t.Setenv("LOCAL_DB_HOST", "")

	assert.Panics(t, func() { LoadConfig() })
}
