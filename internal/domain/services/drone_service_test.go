package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"energy-ops-console/internal/domain/fsm"
	"energy-ops-console/internal/domain/models"
	"energy-ops-console/internal/error/code"
	"energy-ops-console/internal/infrastructure/mqtt"
)

func TestDrone_ControlTaskPublishesCommand(t *testing.T) {
	db := newTestDB(t)
	publisher := &recordingPublisher{}
	svc := NewDroneService(db, newTestConfig(t), publisher)

	task, err := svc.CreateTask(&DroneTaskRequest{DroneID: 4, TaskType: "inspection"}, 1)
	require.NoError(t, err)
	assert.Equal(t, fsm.DroneTaskPending, task.Status)
	assert.Equal(t, "normal", task.Priority)

	started, err := svc.ControlTask(task.TaskID, fsm.DroneActionStart)
	require.NoError(t, err)
	assert.Equal(t, fsm.DroneTaskRunning, started.Status)
	assert.NotNil(t, started.ActualStartTime)

	require.Len(t, publisher.topics, 1)
	assert.Equal(t, mqtt.DroneControlTopic(4), publisher.topics[0])
	msg, ok := publisher.payloads[0].(DroneCommand)
	require.True(t, ok)
	assert.Equal(t, fsm.DroneActionStart, msg.Action)
	assert.Equal(t, fsm.DroneTaskRunning, msg.Status)

	var command models.ControlCommand
	require.NoError(t, db.Where("drone_task_id = ?", task.TaskID).Take(&command).Error)
	assert.Equal(t, CommandPublished, command.Status)
	assert.NotNil(t, command.ExecutedAt)

	done, err := svc.ControlTask(task.TaskID, fsm.DroneActionComplete)
	require.NoError(t, err)
	assert.EqualValues(t, 100, done.Progress)

	// 已完成的任务不能再启动
	_, err = svc.ControlTask(task.TaskID, fsm.DroneActionStart)
	requireCode(t, err, code.StatusBadRequest)
}

func TestDrone_ControlValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewDroneService(db, newTestConfig(t), nil)

	_, err := svc.ControlTask(1, "fly")
	assert.Equal(t, "不支持的操作", requireCode(t, err, code.StatusBadRequest).PublicMessage())

	_, err = svc.ControlTask(999, fsm.DroneActionStart)
	requireCode(t, err, code.StatusNotFound)
}

func TestDrone_CommandStaysPendingWithoutBroker(t *testing.T) {
	db := newTestDB(t)
	svc := NewDroneService(db, newTestConfig(t), mqtt.NopPublisher{})

	task, err := svc.CreateTask(&DroneTaskRequest{DroneID: 2, TaskType: "inspection"}, 1)
	require.NoError(t, err)
	_, err = svc.ControlTask(task.TaskID, fsm.DroneActionCancel)
	require.NoError(t, err)

	var command models.ControlCommand
	require.NoError(t, db.Where("drone_task_id = ?", task.TaskID).Take(&command).Error)
	assert.Equal(t, CommandPending, command.Status)
	assert.Equal(t, "drone_cancel", command.CommandType)
	assert.JSONEq(t, `{"action":"cancel","droneId":2}`, string(command.Parameters))
}

func TestDrone_InspectionData(t *testing.T) {
	svc := NewDroneService(newTestDB(t), newTestConfig(t), nil)

	data, err := svc.AddInspectionData(&InspectionDataRequest{
		TaskID:      1,
		DeviceID:    3,
		DataType:    "sensor",
		DataContent: []byte(`{"temperature":61.5}`),
	}, 1)
	require.NoError(t, err)
	assert.NotZero(t, data.DataID)

	page, err := svc.ListInspectionData(query("taskId", "1"))
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)
}
