package core

import (
	"time"

	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleClient Role = "client"
	RoleHelper Role = "helper"
)

// Actor is the authenticated user an operation runs on behalf of. It is
// built at the transport boundary and passed into every operation; the core
// never reads identity from ambient state.
type Actor struct {
	ID   int64
	Role Role
}

type TaskStatus string

const (
	StatusOpen       TaskStatus = "open"
	StatusInProgress TaskStatus = "in_progress"
	StatusCompleted  TaskStatus = "completed"
	StatusCancelled  TaskStatus = "cancelled"
)

type ApplicationStatus string

const (
	StatusPending  ApplicationStatus = "pending"
	StatusAccepted ApplicationStatus = "accepted"
	StatusRejected ApplicationStatus = "rejected"
)

type Task struct {
	ID            int64           `db:"id" json:"id"`
	ClientID      int64           `db:"client_id" json:"client_id"`
	Title         string          `db:"title" json:"title"`
	Description   string          `db:"description" json:"description"`
	Location      string          `db:"location" json:"location"`
	Budget        decimal.Decimal `db:"budget" json:"budget"`
	ScheduledTime time.Time       `db:"scheduled_time" json:"scheduled_time"`
	Status        TaskStatus      `db:"status" json:"status"`
	HelperID      *int64          `db:"helper_id" json:"helper_id,omitempty"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updated_at"`
}

type Application struct {
	ID        int64             `db:"id" json:"id"`
	TaskID    int64             `db:"task_id" json:"task_id"`
	HelperID  int64             `db:"helper_id" json:"helper_id"`
	Proposal  string            `db:"proposal" json:"proposal"`
	BidAmount decimal.Decimal   `db:"bid_amount" json:"bid_amount"`
	Status    ApplicationStatus `db:"status" json:"status"`
	CreatedAt time.Time         `db:"created_at" json:"created_at"`
}

// TaskApplication is the review read model: an application joined with its
// helper, as shown to the task's client.
type TaskApplication struct {
	Application
	HelperName string `db:"helper_name" json:"helper_name"`
}

// HelperApplication is the helper-side read model: an application joined
// with its task.
type HelperApplication struct {
	Application
	TaskTitle  string     `db:"task_title" json:"task_title"`
	TaskStatus TaskStatus `db:"task_status" json:"task_status"`
}

// AcceptResult carries everything the accept operation changed.
type AcceptResult struct {
	Task        Task        `json:"task"`
	Application Application `json:"application"`
	RejectedIDs []int64     `json:"rejected_application_ids,omitempty"`
}
