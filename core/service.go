package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Limits are the marketplace validation floors. Both come from config; the
// defaults match the product rules (50-char proposals, $5 minimum bid).
type Limits struct {
	MinProposalLen int
	MinBid         decimal.Decimal
}

func DefaultLimits() Limits {
	return Limits{
		MinProposalLen: 50,
		MinBid:         decimal.NewFromInt(5),
	}
}

type Service struct {
	store  Store
	events Events
	limits Limits
}

func NewService(store Store, events Events, limits Limits) *Service {
	if events == nil {
		events = NopEvents{}
	}
	if limits.MinProposalLen <= 0 {
		limits.MinProposalLen = DefaultLimits().MinProposalLen
	}
	if limits.MinBid.IsZero() {
		limits.MinBid = DefaultLimits().MinBid
	}
	return &Service{store: store, events: events, limits: limits}
}

func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// Tasks

type CreateTaskInput struct {
	Title         string
	Description   string
	Location      string
	Budget        decimal.Decimal
	ScheduledTime time.Time
}

func (s *Service) CreateTask(ctx context.Context, actor Actor, in CreateTaskInput) (Task, error) {
	if actor.Role != RoleClient {
		return Task{}, fmt.Errorf("%w: only clients post tasks", ErrForbidden)
	}

	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return Task{}, fmt.Errorf("%w: title is required", ErrInvalidArgs)
	}
	if !in.Budget.IsPositive() {
		return Task{}, fmt.Errorf("%w: budget must be positive", ErrInvalidArgs)
	}
	if !in.ScheduledTime.After(time.Now()) {
		return Task{}, fmt.Errorf("%w: scheduled time must be in the future", ErrInvalidArgs)
	}

	t, err := s.store.CreateTask(ctx, Task{
		ClientID:      actor.ID,
		Title:         in.Title,
		Description:   strings.TrimSpace(in.Description),
		Location:      strings.TrimSpace(in.Location),
		Budget:        in.Budget,
		ScheduledTime: in.ScheduledTime,
		Status:        StatusOpen,
	})
	if err != nil {
		return Task{}, err
	}

	s.emit(ctx, Event{Type: EventTaskCreated, TaskID: t.ID, ActorID: actor.ID})
	return t, nil
}

func (s *Service) GetTask(ctx context.Context, id int64) (Task, error) {
	if id <= 0 {
		return Task{}, ErrInvalidArgs
	}
	return s.store.GetTask(ctx, id)
}

func (s *Service) ListTasks(ctx context.Context, f ListTasksFilter) ([]Task, error) {
	if f.Limit < 0 || f.Offset < 0 {
		return nil, ErrInvalidArgs
	}
	if f.Status != nil {
		switch *f.Status {
		case StatusOpen, StatusInProgress, StatusCompleted, StatusCancelled:
		default:
			return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidArgs, *f.Status)
		}
	}
	if f.ClientID != nil && *f.ClientID <= 0 {
		return nil, ErrInvalidArgs
	}
	if f.HelperID != nil && *f.HelperID <= 0 {
		return nil, ErrInvalidArgs
	}
	return s.store.ListTasks(ctx, f)
}

func (s *Service) CompleteTask(ctx context.Context, actor Actor, taskID int64) (Task, error) {
	if actor.Role != RoleClient {
		return Task{}, fmt.Errorf("%w: only the task's client completes it", ErrForbidden)
	}
	if taskID <= 0 {
		return Task{}, ErrInvalidArgs
	}

	t, err := s.store.CompleteTask(ctx, taskID, actor.ID)
	if err != nil {
		return Task{}, err
	}

	s.emit(ctx, Event{Type: EventTaskCompleted, TaskID: t.ID, ActorID: actor.ID})
	return t, nil
}

func (s *Service) CancelTask(ctx context.Context, actor Actor, taskID int64) (Task, error) {
	if actor.Role != RoleClient {
		return Task{}, fmt.Errorf("%w: only the task's client cancels it", ErrForbidden)
	}
	if taskID <= 0 {
		return Task{}, ErrInvalidArgs
	}

	t, err := s.store.CancelTask(ctx, taskID, actor.ID)
	if err != nil {
		return Task{}, err
	}

	s.emit(ctx, Event{Type: EventTaskCancelled, TaskID: t.ID, ActorID: actor.ID})
	return t, nil
}

// Applications

type SubmitApplicationInput struct {
	TaskID    int64
	Proposal  string
	BidAmount decimal.Decimal
}

func (s *Service) SubmitApplication(ctx context.Context, actor Actor, in SubmitApplicationInput) (Application, error) {
	if actor.Role != RoleHelper {
		return Application{}, fmt.Errorf("%w: only helpers apply to tasks", ErrForbidden)
	}
	if in.TaskID <= 0 {
		return Application{}, ErrInvalidArgs
	}

	in.Proposal = strings.TrimSpace(in.Proposal)
	if len(in.Proposal) < s.limits.MinProposalLen {
		return Application{}, fmt.Errorf("%w: proposal must be at least %d characters", ErrInvalidArgs, s.limits.MinProposalLen)
	}
	if in.BidAmount.LessThan(s.limits.MinBid) {
		return Application{}, fmt.Errorf("%w: bid must be at least %s", ErrInvalidArgs, s.limits.MinBid)
	}

	a, err := s.store.CreateApplication(ctx, Application{
		TaskID:    in.TaskID,
		HelperID:  actor.ID,
		Proposal:  in.Proposal,
		BidAmount: in.BidAmount,
		Status:    StatusPending,
	})
	if err != nil {
		return Application{}, err
	}

	s.emit(ctx, Event{Type: EventApplicationSubmitted, TaskID: a.TaskID, ApplicationID: a.ID, ActorID: actor.ID})
	return a, nil
}

func (s *Service) AcceptApplication(ctx context.Context, actor Actor, applicationID int64) (AcceptResult, error) {
	if actor.Role != RoleClient {
		return AcceptResult{}, fmt.Errorf("%w: only the task's client accepts applications", ErrForbidden)
	}
	if applicationID <= 0 {
		return AcceptResult{}, ErrInvalidArgs
	}

	res, err := s.store.AcceptApplication(ctx, applicationID, actor.ID)
	if err != nil {
		return AcceptResult{}, err
	}

	s.emit(ctx, Event{Type: EventApplicationAccepted, TaskID: res.Task.ID, ApplicationID: res.Application.ID, ActorID: actor.ID})
	return res, nil
}

func (s *Service) RejectApplication(ctx context.Context, actor Actor, applicationID int64) (Application, error) {
	if actor.Role != RoleClient {
		return Application{}, fmt.Errorf("%w: only the task's client rejects applications", ErrForbidden)
	}
	if applicationID <= 0 {
		return Application{}, ErrInvalidArgs
	}

	a, err := s.store.RejectApplication(ctx, applicationID, actor.ID)
	if err != nil {
		return Application{}, err
	}

	s.emit(ctx, Event{Type: EventApplicationRejected, TaskID: a.TaskID, ApplicationID: a.ID, ActorID: actor.ID})
	return a, nil
}

// Read models

func (s *Service) ListTaskApplications(ctx context.Context, actor Actor, taskID int64) ([]TaskApplication, error) {
	if taskID <= 0 {
		return nil, ErrInvalidArgs
	}

	t, err := s.store.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if t.ClientID != actor.ID {
		return nil, fmt.Errorf("%w: not your task", ErrForbidden)
	}

	return s.store.ListTaskApplications(ctx, taskID)
}

func (s *Service) ListHelperApplications(ctx context.Context, actor Actor) ([]HelperApplication, error) {
	if actor.Role != RoleHelper {
		return nil, fmt.Errorf("%w: helpers only", ErrForbidden)
	}
	return s.store.ListHelperApplications(ctx, actor.ID)
}

func (s *Service) emit(ctx context.Context, ev Event) {
	ev.At = time.Now().UTC()
	s.events.Publish(ctx, ev)
}
