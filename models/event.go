package models

// Action names the kind of change a notification reports.
type Action string

const (
	ActionInit    Action = "init"
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

// Event is pushed to every active streaming connection after a successful mutation.
type Event struct {
	Action Action `json:"action"`
	TaskID int64  `json:"task_id"`
}

// InitMessage is the one-time snapshot a streaming connection receives on connect.
type InitMessage struct {
	Action Action `json:"action"`
	Tasks  []Task `json:"tasks"`
}

func NewInitMessage(tasks []Task) InitMessage {
	if tasks == nil {
		tasks = []Task{}
	}
	return InitMessage{Action: ActionInit, Tasks: tasks}
}
