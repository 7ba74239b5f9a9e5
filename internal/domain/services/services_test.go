package services

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"energy-ops-console/internal/domain/models"
	"energy-ops-console/internal/error/code"
	"energy-ops-console/internal/infrastructure/config"
	"energy-ops-console/internal/test/testdb"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	return testdb.Open(t, models.All()...)
}

func newTestConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		JWTSecretKey:        "test-secret",
		JWTExpireHours:      1,
		UploadDir:           t.TempDir(),
		CacheTTL:            time.Minute,
		InferenceDatasetDir: t.TempDir(),
	}
}

func query(kv ...string) url.Values {
	v := url.Values{}
	for i := 0; i+1 < len(kv); i += 2 {
		v.Set(kv[i], kv[i+1])
	}
	return v
}

func ptr[T any](v T) *T {
	return &v
}

// requireCode 断言业务错误的 HTTP 状态
func requireCode(t *testing.T, err error, status int) *code.Error {
	t.Helper()
	require.Error(t, err)
	appErr := code.From(err)
	require.Equal(t, status, appErr.Status(), appErr.Error())
	return appErr
}
