package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"energy-ops-console/internal/domain/fsm"
	"energy-ops-console/internal/error/code"
)

func TestRule_OrderedByPriority(t *testing.T) {
	svc := NewRuleService(newTestDB(t), newTestConfig(t))

	low, err := svc.CreateRule(&CreateRuleRequest{RuleName: "削峰", Priority: 5}, 1)
	require.NoError(t, err)
	high, err := svc.CreateRule(&CreateRuleRequest{RuleName: "低价充电", Priority: 1}, 1)
	require.NoError(t, err)
	assert.Equal(t, "enabled", high.Status)

	page, err := svc.ListRules(query())
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, high.RuleID, page.Items[0].RuleID)

	require.NoError(t, svc.UpdateRule(low.RuleID, &RuleRequest{Status: ptr("disabled")}))
	require.NoError(t, svc.DeleteRule(low.RuleID))
	requireCode(t, svc.DeleteRule(low.RuleID), code.StatusNotFound)
	requireCode(t, svc.UpdateRule(low.RuleID, &RuleRequest{Status: ptr("enabled")}), code.StatusNotFound)
}

func TestData_PredictionTaskAndResult(t *testing.T) {
	svc := NewDataService(newTestDB(t), newTestConfig(t))

	_, err := svc.CreatePredictionTask(&PredictionTaskRequest{TaskType: "power", StartTime: "2024/06/01", EndTime: "2024-06-02 00:00:00"}, 1)
	assert.Equal(t, "startTime格式错误，应为 YYYY-MM-DD HH:MM:SS", requireCode(t, err, code.StatusBadRequest).PublicMessage())

	task, err := svc.CreatePredictionTask(&PredictionTaskRequest{
		TaskType:  "power",
		StartTime: "2024-06-01 00:00:00",
		EndTime:   "2024-06-02 00:00:00",
	}, 1)
	require.NoError(t, err)
	assert.Equal(t, fsm.JobPending, task.Status)

	_, err = svc.AddPredictionResult(&PredictionResultRequest{TaskID: task.TaskID, Timestamp: "01:00"})
	requireCode(t, err, code.StatusBadRequest)

	_, err = svc.AddPredictionResult(&PredictionResultRequest{
		TaskID:         task.TaskID,
		Timestamp:      "2024-06-01 01:00:00",
		PredictedValue: ptr(532.1),
	})
	require.NoError(t, err)

	results, err := svc.ListPredictionResults(query("taskId", "1"))
	require.NoError(t, err)
	assert.EqualValues(t, 1, results.Total)

	tasks, err := svc.ListPredictionTasks(query("taskType", "power"))
	require.NoError(t, err)
	assert.EqualValues(t, 1, tasks.Total)
}
