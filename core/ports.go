package core

import (
	"context"
	"time"
)

// Store is the persistence port. State-changing methods that touch more
// than one row run in a single transaction and re-check state under a lock
// on the task row; they return the package sentinels on precondition
// failures and leave no partial effect behind.
type Store interface {
	Ping(ctx context.Context) error

	CreateTask(ctx context.Context, t Task) (Task, error)
	GetTask(ctx context.Context, id int64) (Task, error)
	ListTasks(ctx context.Context, f ListTasksFilter) ([]Task, error)

	CreateApplication(ctx context.Context, a Application) (Application, error)
	GetApplication(ctx context.Context, id int64) (Application, error)
	ListTaskApplications(ctx context.Context, taskID int64) ([]TaskApplication, error)
	ListHelperApplications(ctx context.Context, helperID int64) ([]HelperApplication, error)

	AcceptApplication(ctx context.Context, applicationID, clientID int64) (AcceptResult, error)
	RejectApplication(ctx context.Context, applicationID, clientID int64) (Application, error)
	CompleteTask(ctx context.Context, taskID, clientID int64) (Task, error)
	CancelTask(ctx context.Context, taskID, clientID int64) (Task, error)
}

// Marketplace is the operation surface the transport layer consumes.
// *Service is the production implementation.
type Marketplace interface {
	Ping(ctx context.Context) error

	CreateTask(ctx context.Context, actor Actor, in CreateTaskInput) (Task, error)
	GetTask(ctx context.Context, id int64) (Task, error)
	ListTasks(ctx context.Context, f ListTasksFilter) ([]Task, error)
	CompleteTask(ctx context.Context, actor Actor, taskID int64) (Task, error)
	CancelTask(ctx context.Context, actor Actor, taskID int64) (Task, error)

	SubmitApplication(ctx context.Context, actor Actor, in SubmitApplicationInput) (Application, error)
	AcceptApplication(ctx context.Context, actor Actor, applicationID int64) (AcceptResult, error)
	RejectApplication(ctx context.Context, actor Actor, applicationID int64) (Application, error)

	ListTaskApplications(ctx context.Context, actor Actor, taskID int64) ([]TaskApplication, error)
	ListHelperApplications(ctx context.Context, actor Actor) ([]HelperApplication, error)
}

// Event types published after a successful commit.
const (
	EventTaskCreated          = "task.created"
	EventTaskCompleted        = "task.completed"
	EventTaskCancelled        = "task.cancelled"
	EventApplicationSubmitted = "application.submitted"
	EventApplicationAccepted  = "application.accepted"
	EventApplicationRejected  = "application.rejected"
)

type Event struct {
	Type          string    `json:"type"`
	TaskID        int64     `json:"task_id"`
	ApplicationID int64     `json:"application_id,omitempty"`
	ActorID       int64     `json:"actor_id"`
	At            time.Time `json:"at"`
}

// Events is the downstream-observer port. Delivery is best effort and must
// never fail the operation that emitted the event.
type Events interface {
	Publish(ctx context.Context, ev Event)
}

type NopEvents struct{}

func (NopEvents) Publish(context.Context, Event) {}
