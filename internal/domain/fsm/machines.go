package fsm

// 无人机任务状态
const (
	DroneTaskPending   = "pending"
	DroneTaskRunning   = "running"
	DroneTaskPaused    = "paused"
	DroneTaskCompleted = "completed"
	DroneTaskCancelled = "cancelled"
)

// 无人机控制指令
const (
	DroneActionStart    = "start"
	DroneActionPause    = "pause"
	DroneActionResume   = "resume"
	DroneActionComplete = "complete"
	DroneActionCancel   = "cancel"
)

// DroneTask 无人机任务状态机
var DroneTask = New("drone_task", []Transition{
	{DroneTaskPending, DroneActionStart, DroneTaskRunning},
	{DroneTaskRunning, DroneActionPause, DroneTaskPaused},
	{DroneTaskPaused, DroneActionResume, DroneTaskRunning},
	{DroneTaskRunning, DroneActionComplete, DroneTaskCompleted},
	{DroneTaskPending, DroneActionCancel, DroneTaskCancelled},
	{DroneTaskRunning, DroneActionCancel, DroneTaskCancelled},
	{DroneTaskPaused, DroneActionCancel, DroneTaskCancelled},
})

// 工单状态
const (
	WorkOrderPending    = "pending"
	WorkOrderProcessing = "processing"
	WorkOrderCompleted  = "completed"
	WorkOrderCancelled  = "cancelled"
)

// WorkOrder 工单状态机，事件名即目标状态
var WorkOrder = New("work_order", []Transition{
	{WorkOrderPending, WorkOrderProcessing, WorkOrderProcessing},
	{WorkOrderProcessing, WorkOrderCompleted, WorkOrderCompleted},
	{WorkOrderPending, WorkOrderCancelled, WorkOrderCancelled},
	{WorkOrderProcessing, WorkOrderCancelled, WorkOrderCancelled},
})

// 告警状态
const (
	AlarmActive  = "active"
	AlarmHandled = "handled"
	AlarmHandle  = "handle"
)

// Alarm 告警状态机
var Alarm = New("alarm", []Transition{
	{AlarmActive, AlarmHandle, AlarmHandled},
})

// 交易状态
const (
	TradePending   = "pending"
	TradeCompleted = "completed"
	TradeCancelled = "cancelled"
)

// Trade 交易状态机
var Trade = New("trade", []Transition{
	{TradePending, TradeCompleted, TradeCompleted},
	{TradePending, TradeCancelled, TradeCancelled},
})

// 模型训练、预处理、特征工程与数据集任务状态
const (
	JobPending   = "pending"
	JobRunning   = "running"
	JobCompleted = "completed"
	JobFailed    = "failed"
)

// Job 上游任务状态机，同步时允许从 pending 直接跳到终态
var Job = New("job", []Transition{
	{JobPending, JobRunning, JobRunning},
	{JobPending, JobCompleted, JobCompleted},
	{JobPending, JobFailed, JobFailed},
	{JobRunning, JobCompleted, JobCompleted},
	{JobRunning, JobFailed, JobFailed},
})

// IsJobTerminal 判断任务是否已结束
func IsJobTerminal(status string) bool {
	return status == JobCompleted || status == JobFailed
}
