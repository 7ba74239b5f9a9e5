package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"energy-ops-console/internal/domain/fsm"
	"energy-ops-console/internal/domain/models"
	"energy-ops-console/internal/domain/services/container"
	"energy-ops-console/internal/infrastructure/cache"
	"energy-ops-console/internal/infrastructure/config"
	"energy-ops-console/internal/infrastructure/database"
	"energy-ops-console/internal/infrastructure/forecaster"
	"energy-ops-console/internal/infrastructure/modelclient"
	"energy-ops-console/internal/test/testdb"
)

const adminPassword = "admin123"

type testServer struct {
	router *gin.Engine
	db     *gorm.DB
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testdb.Open(t, models.All()...)
	require.NoError(t, database.EnsureAdmin(db, adminPassword))

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"unavailable"}`, http.StatusServiceUnavailable)
	}))
	t.Cleanup(upstream.Close)

	cfg := &config.Config{
		JWTSecretKey:        "test-secret",
		JWTExpireHours:      1,
		AllowOrigins:        "*",
		UploadDir:           t.TempDir(),
		CacheTTL:            time.Minute,
		InferenceDatasetDir: t.TempDir(),
	}
	c := container.NewServiceContainer(db, cfg, container.Infrastructure{
		Cache:       cache.NewMemoryStore(time.Minute),
		ModelClient: modelclient.NewWithBaseURL(upstream.URL, time.Second),
		Forecaster: forecaster.NewHolder(func(context.Context) (forecaster.Model, error) {
			return nil, errors.New("offline")
		}),
	})
	t.Cleanup(c.Close)

	return &testServer{router: SetupRouter(c, cfg), db: db}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	out := map[string]interface{}{}
	if w.Header().Get("Content-Type") != "" && bytes.HasPrefix(w.Body.Bytes(), []byte("{")) {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	}
	return w, out
}

func (s *testServer) login(t *testing.T) string {
	t.Helper()
	w, body := s.do(t, http.MethodPost, "/api/login", "", map[string]string{
		"username": "admin",
		"password": adminPassword,
	})
	require.Equal(t, http.StatusOK, w.Code)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestPublicRoutes(t *testing.T) {
	s := newTestServer(t)

	w, body := s.do(t, http.MethodGet, "/api/ping", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", body["status"])
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w, body = s.do(t, http.MethodGet, "/api/health/status", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "memory", data["cache"].(map[string]interface{})["backend"])
	assert.Equal(t, "disconnected", data["mqtt"])
	assert.Equal(t, false, data["modelLoaded"])

	w, _ = s.do(t, http.MethodGet, "/api/device/list", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = s.do(t, http.MethodGet, "/api/device/list", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginAndInfo(t *testing.T) {
	s := newTestServer(t)

	w, body := s.do(t, http.MethodPost, "/api/login", "", map[string]string{"username": "admin", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.EqualValues(t, http.StatusUnauthorized, body["code"])

	w, _ = s.do(t, http.MethodPost, "/api/login", "", map[string]string{"username": "admin"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	token := s.login(t)
	w, body = s.do(t, http.MethodGet, "/api/info", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	user := body["user"].(map[string]interface{})
	assert.Equal(t, "admin", user["userName"])
	assert.Equal(t, []interface{}{database.AdminRoleKey}, user["roles"])

	w, body = s.do(t, http.MethodPost, "/api/logout", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "退出成功", body["msg"])
}

func TestDeviceRoutes(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t)

	w, body := s.do(t, http.MethodPost, "/api/device", token, map[string]string{
		"deviceType":   "wind_turbine",
		"serialNumber": "WT-0001",
		"region":       "north",
	})
	require.Equal(t, http.StatusOK, w.Code)
	deviceID := body["deviceId"]
	require.NotNil(t, deviceID)

	w, _ = s.do(t, http.MethodPost, "/api/device", token, map[string]string{
		"deviceType":   "wind_turbine",
		"serialNumber": "WT-0001",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, body = s.do(t, http.MethodGet, "/api/device/list?region=north", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, body["total"])
	rows := body["rows"].([]interface{})
	require.Len(t, rows, 1)
	assert.Equal(t, "normal", rows[0].(map[string]interface{})["healthStatus"])

	w, _ = s.do(t, http.MethodGet, "/api/device/export", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")

	w, _ = s.do(t, http.MethodGet, "/api/device/9999", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = s.do(t, http.MethodGet, "/api/device/abc", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStatisticsCachePurgedOnDeviceWrite(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t)

	w, _ := s.do(t, http.MethodGet, "/api/statistics/device/overview", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))

	w, _ = s.do(t, http.MethodGet, "/api/statistics/device/overview", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "HIT", w.Header().Get("X-Cache"))

	w, _ = s.do(t, http.MethodPost, "/api/device", token, map[string]string{"deviceType": "pv_panel"})
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = s.do(t, http.MethodGet, "/api/statistics/device/overview", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))
}

func TestModelTrainUpstreamFailure(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t)

	w, body := s.do(t, http.MethodPost, "/api/model/train", token, map[string]interface{}{
		"modelType":      "timer",
		"trainingParams": map[string]int{"epochs": 3},
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "提交训练任务失败", body["msg"])

	var training models.ModelTraining
	require.NoError(t, s.db.Take(&training).Error)
	assert.Equal(t, fsm.JobFailed, training.Status)
}

func TestInferenceEnvelope(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t)

	w, body := s.do(t, http.MethodGet, "/api/inference/model-info", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "模型未加载", body["message"])

	w, body = s.do(t, http.MethodGet, "/api/inference/sample-data/Unknown", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, body["success"])

	w, body = s.do(t, http.MethodPost, "/api/inference/predict", token, map[string]interface{}{
		"data":            []map[string]float64{{"OT": 1}, {"OT": 2}},
		"target_variable": "missing",
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "目标变量 missing 不存在", body["message"])
}

func TestRequestBindingValidation(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t)

	cases := []struct {
		name   string
		method string
		path   string
		body   interface{}
		msg    string
	}{
		{"设备类型缺失", http.MethodPost, "/api/device", map[string]string{"serialNumber": "WT-0002"}, "deviceType不能为空"},
		{"无人机操作无效", http.MethodPost, "/api/drone/task/1/control", map[string]string{"action": "fly"}, "action取值无效，可选值: start pause resume complete cancel"},
		{"交易状态无效", http.MethodPut, "/api/trade/1/status", map[string]string{"status": "pending"}, "status取值无效，可选值: completed cancelled"},
		{"部门名称缺失", http.MethodPost, "/api/system/dept", map[string]string{"phone": "010-1234"}, "deptName不能为空"},
		{"角色字段缺失", http.MethodPost, "/api/system/role", map[string]string{}, "roleName不能为空；roleKey不能为空"},
		{"邮箱格式错误", http.MethodPost, "/api/system/user", map[string]string{"userName": "ops", "password": "p@ss", "email": "bad"}, "email格式错误"},
		{"订阅渠道缺失", http.MethodPost, "/api/notification/subscription", map[string]string{"type": "alarm"}, "channel不能为空"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w, body := s.do(t, tc.method, tc.path, token, tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tc.msg, body["msg"])
		})
	}

	w, body := s.do(t, http.MethodPost, "/api/device", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "请求参数格式错误", body["msg"])

	w, body = s.do(t, http.MethodPost, "/api/inference/predict", token, map[string]interface{}{"target_variable": "OT"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "缺少必要参数", body["message"])
}
