package core_test

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"helpify/core"
)

// fakeStore mirrors the Postgres adapter's semantics in memory, including
// the single-transaction behavior of the state-changing methods: everything
// under one mutex hold either fully applies or leaves no trace.
type fakeStore struct {
	mu sync.Mutex

	nextTaskID        int64
	nextApplicationID int64

	tasks        map[int64]core.Task
	applications map[int64]core.Application
	helperNames  map[int64]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		nextTaskID:        1,
		nextApplicationID: 1,
		tasks:             make(map[int64]core.Task),
		applications:      make(map[int64]core.Application),
		helperNames:       make(map[int64]string),
	}
}

func cloneTask(t core.Task) core.Task {
	out := t
	if t.HelperID != nil {
		hid := *t.HelperID
		out.HelperID = &hid
	}
	return out
}

func (s *fakeStore) Ping(context.Context) error {
	return nil
}

func (s *fakeStore) CreateTask(_ context.Context, t core.Task) (core.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t.ID = s.nextTaskID
	s.nextTaskID++

	now := time.Now()
	t.CreatedAt = now
	t.UpdatedAt = now

	s.tasks[t.ID] = cloneTask(t)
	return cloneTask(t), nil
}

func (s *fakeStore) GetTask(_ context.Context, id int64) (core.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return core.Task{}, fmt.Errorf("%w: task %d", core.ErrNotFound, id)
	}
	return cloneTask(t), nil
}

func (s *fakeStore) ListTasks(_ context.Context, f core.ListTasksFilter) ([]core.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]core.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if f.Status != nil && t.Status != *f.Status {
			continue
		}
		if f.ClientID != nil && t.ClientID != *f.ClientID {
			continue
		}
		if f.HelperID != nil {
			if t.HelperID == nil || *t.HelperID != *f.HelperID {
				continue
			}
		}
		out = append(out, cloneTask(t))
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].ID < out[j].ID
	})

	if f.Offset > len(out) {
		return []core.Task{}, nil
	}
	if f.Offset > 0 {
		out = out[f.Offset:]
	}
	if f.Limit > 0 && f.Limit < len(out) {
		out = out[:f.Limit]
	}

	return out, nil
}

func (s *fakeStore) CreateApplication(_ context.Context, a core.Application) (core.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[a.TaskID]
	if !ok {
		return core.Application{}, fmt.Errorf("%w: task %d", core.ErrNotFound, a.TaskID)
	}
	if t.ClientID == a.HelperID {
		return core.Application{}, fmt.Errorf("%w: cannot apply to your own task", core.ErrForbidden)
	}
	if t.Status != core.StatusOpen {
		return core.Application{}, fmt.Errorf("%w: task is %s, applications are closed", core.ErrInvalidState, t.Status)
	}

	for _, other := range s.applications {
		if other.TaskID == a.TaskID && other.HelperID == a.HelperID && other.Status != core.StatusRejected {
			return core.Application{}, core.ErrAlreadyApplied
		}
	}

	a.ID = s.nextApplicationID
	s.nextApplicationID++
	a.CreatedAt = time.Now()

	s.applications[a.ID] = a
	return a, nil
}

func (s *fakeStore) GetApplication(_ context.Context, id int64) (core.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.applications[id]
	if !ok {
		return core.Application{}, fmt.Errorf("%w: application %d", core.ErrNotFound, id)
	}
	return a, nil
}

func (s *fakeStore) ListTaskApplications(_ context.Context, taskID int64) ([]core.TaskApplication, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []core.TaskApplication
	for _, a := range s.applications {
		if a.TaskID != taskID {
			continue
		}
		name := s.helperNames[a.HelperID]
		if name == "" {
			name = fmt.Sprintf("helper-%d", a.HelperID)
		}
		out = append(out, core.TaskApplication{Application: a, HelperName: name})
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *fakeStore) ListHelperApplications(_ context.Context, helperID int64) ([]core.HelperApplication, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []core.HelperApplication
	for _, a := range s.applications {
		if a.HelperID != helperID {
			continue
		}
		t := s.tasks[a.TaskID]
		out = append(out, core.HelperApplication{Application: a, TaskTitle: t.Title, TaskStatus: t.Status})
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *fakeStore) AcceptApplication(_ context.Context, applicationID, clientID int64) (core.AcceptResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.applications[applicationID]
	if !ok {
		return core.AcceptResult{}, fmt.Errorf("%w: application %d", core.ErrNotFound, applicationID)
	}
	t, ok := s.tasks[a.TaskID]
	if !ok {
		return core.AcceptResult{}, fmt.Errorf("%w: task %d", core.ErrNotFound, a.TaskID)
	}
	if t.ClientID != clientID {
		return core.AcceptResult{}, fmt.Errorf("%w: not your task", core.ErrForbidden)
	}

	taskNext, err := t.Status.Transition(core.TaskEventAccept)
	if err != nil {
		return core.AcceptResult{}, err
	}
	appNext, err := a.Status.Transition(core.ApplicationEventAccept)
	if err != nil {
		return core.AcceptResult{}, err
	}

	a.Status = appNext
	s.applications[a.ID] = a

	var rejected []int64
	for id, other := range s.applications {
		if other.TaskID == a.TaskID && other.ID != a.ID && other.Status == core.StatusPending {
			other.Status = core.StatusRejected
			s.applications[id] = other
			rejected = append(rejected, id)
		}
	}
	sort.Slice(rejected, func(i, j int) bool { return rejected[i] < rejected[j] })

	hid := a.HelperID
	t.Status = taskNext
	t.HelperID = &hid
	t.UpdatedAt = time.Now()
	s.tasks[t.ID] = cloneTask(t)

	return core.AcceptResult{Task: cloneTask(t), Application: a, RejectedIDs: rejected}, nil
}

func (s *fakeStore) RejectApplication(_ context.Context, applicationID, clientID int64) (core.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.applications[applicationID]
	if !ok {
		return core.Application{}, fmt.Errorf("%w: application %d", core.ErrNotFound, applicationID)
	}
	t, ok := s.tasks[a.TaskID]
	if !ok {
		return core.Application{}, fmt.Errorf("%w: task %d", core.ErrNotFound, a.TaskID)
	}
	if t.ClientID != clientID {
		return core.Application{}, fmt.Errorf("%w: not your task", core.ErrForbidden)
	}

	next, err := a.Status.Transition(core.ApplicationEventReject)
	if err != nil {
		return core.Application{}, err
	}

	a.Status = next
	s.applications[a.ID] = a
	return a, nil
}

func (s *fakeStore) CompleteTask(_ context.Context, taskID, clientID int64) (core.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[taskID]
	if !ok {
		return core.Task{}, fmt.Errorf("%w: task %d", core.ErrNotFound, taskID)
	}
	if t.ClientID != clientID {
		return core.Task{}, fmt.Errorf("%w: not your task", core.ErrForbidden)
	}

	next, err := t.Status.Transition(core.TaskEventComplete)
	if err != nil {
		return core.Task{}, err
	}

	t.Status = next
	t.UpdatedAt = time.Now()
	s.tasks[t.ID] = cloneTask(t)
	return cloneTask(t), nil
}

func (s *fakeStore) CancelTask(_ context.Context, taskID, clientID int64) (core.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[taskID]
	if !ok {
		return core.Task{}, fmt.Errorf("%w: task %d", core.ErrNotFound, taskID)
	}
	if t.ClientID != clientID {
		return core.Task{}, fmt.Errorf("%w: not your task", core.ErrForbidden)
	}

	next, err := t.Status.Transition(core.TaskEventCancel)
	if err != nil {
		return core.Task{}, err
	}

	for id, a := range s.applications {
		if a.TaskID == taskID && a.Status == core.StatusPending {
			a.Status = core.StatusRejected
			s.applications[id] = a
		}
	}

	t.Status = next
	t.UpdatedAt = time.Now()
	s.tasks[t.ID] = cloneTask(t)
	return cloneTask(t), nil
}
