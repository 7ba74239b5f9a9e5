package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"energy-ops-console/internal/error/code"
)

func perform(t *testing.T, handler gin.HandlerFunc) (int, map[string]interface{}) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/x", handler)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestList(t *testing.T) {
	status, body := perform(t, func(c *gin.Context) {
		List(c, 7, []gin.H{{"alarmId": 1}, {"alarmId": 2}})
	})

	assert.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 200, body["code"])
	assert.Equal(t, "查询成功", body["msg"])
	assert.EqualValues(t, 7, body["total"])
	assert.Len(t, body["rows"], 2)
}

func TestCreated(t *testing.T) {
	_, body := perform(t, func(c *gin.Context) {
		Created(c, "创建成功", "deviceId", 12)
	})

	assert.EqualValues(t, 200, body["code"])
	assert.EqualValues(t, 12, body["deviceId"])
}

func TestError_ClientErrorsMirrorStatus(t *testing.T) {
	cases := []struct {
		err    error
		status int
		msg    string
	}{
		{code.New(code.ErrValidation, "告警已处理"), 400, "告警已处理"},
		{code.New(code.ErrForbidden, ""), 403, "无权限操作"},
		{code.New(code.ErrTokenInvalid, ""), 401, "无效的认证令牌"},
		{gorm.ErrRecordNotFound, 404, "记录不存在"},
		{fmt.Errorf("load: %w", gorm.ErrRecordNotFound), 404, "记录不存在"},
	}

	for _, tc := range cases {
		status, body := perform(t, func(c *gin.Context) { Error(c, tc.err) })
		assert.Equal(t, tc.status, status)
		assert.EqualValues(t, tc.status, body["code"])
		assert.Equal(t, tc.msg, body["msg"])
	}
}

func TestError_ServerErrorIsMasked(t *testing.T) {
	internal := errors.New("Error 1062: Duplicate entry 'x' for key 'secret_index'")

	status, body := perform(t, func(c *gin.Context) { Error(c, internal) })

	assert.Equal(t, http.StatusInternalServerError, status)
	assert.EqualValues(t, 500, body["code"])
	assert.Equal(t, "数据库错误", body["msg"])
	assert.NotContains(t, body["msg"], "Duplicate")
}

func TestError_UpstreamKeepsOperatorMessage(t *testing.T) {
	err := code.WithMessage(code.ErrUpstream, "提交训练任务失败", errors.New("dial tcp 10.0.0.3:8000: connection refused"))

	status, body := perform(t, func(c *gin.Context) { Error(c, err) })

	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "提交训练任务失败", body["msg"])
}
