package core_test

import (
	"errors"
	"testing"

	"helpify/core"
)

func TestTaskStatusTransition(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		from    core.TaskStatus
		event   core.TaskEvent
		want    core.TaskStatus
		wantErr bool
	}{
		{"accept open", core.StatusOpen, core.TaskEventAccept, core.StatusInProgress, false},
		{"cancel open", core.StatusOpen, core.TaskEventCancel, core.StatusCancelled, false},
		{"complete in_progress", core.StatusInProgress, core.TaskEventComplete, core.StatusCompleted, false},
		{"complete open", core.StatusOpen, core.TaskEventComplete, "", true},
		{"accept in_progress", core.StatusInProgress, core.TaskEventAccept, "", true},
		{"cancel in_progress", core.StatusInProgress, core.TaskEventCancel, "", true},
		{"accept completed", core.StatusCompleted, core.TaskEventAccept, "", true},
		{"cancel cancelled", core.StatusCancelled, core.TaskEventCancel, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.from.Transition(tt.event)
			if tt.wantErr {
				if !errors.Is(err, core.ErrInvalidState) {
					t.Fatalf("expected ErrInvalidState, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestApplicationStatusTransition(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		from    core.ApplicationStatus
		event   core.ApplicationEvent
		want    core.ApplicationStatus
		wantErr bool
	}{
		{"accept pending", core.StatusPending, core.ApplicationEventAccept, core.StatusAccepted, false},
		{"reject pending", core.StatusPending, core.ApplicationEventReject, core.StatusRejected, false},
		{"accept accepted", core.StatusAccepted, core.ApplicationEventAccept, "", true},
		{"reject accepted", core.StatusAccepted, core.ApplicationEventReject, "", true},
		{"accept rejected", core.StatusRejected, core.ApplicationEventAccept, "", true},
		{"reject rejected", core.StatusRejected, core.ApplicationEventReject, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.from.Transition(tt.event)
			if tt.wantErr {
				if !errors.Is(err, core.ErrInvalidState) {
					t.Fatalf("expected ErrInvalidState, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, got)
			}
		})
	}
}
