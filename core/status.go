package core

import "fmt"

// Events driving the task status machine. open -> in_progress happens only
// through accepting an application; completed and cancelled are terminal.
type TaskEvent string

const (
	TaskEventAccept   TaskEvent = "accept"
	TaskEventComplete TaskEvent = "complete"
	TaskEventCancel   TaskEvent = "cancel"
)

// Transition returns the status a task moves to on ev, or ErrInvalidState
// when the machine has no such edge.
func (s TaskStatus) Transition(ev TaskEvent) (TaskStatus, error) {
	switch {
	case s == StatusOpen && ev == TaskEventAccept:
		return StatusInProgress, nil
	case s == StatusInProgress && ev == TaskEventComplete:
		return StatusCompleted, nil
	case s == StatusOpen && ev == TaskEventCancel:
		return StatusCancelled, nil
	}
	return s, fmt.Errorf("%w: task is %s, cannot %s", ErrInvalidState, s, ev)
}

type ApplicationEvent string

const (
	ApplicationEventAccept ApplicationEvent = "accept"
	ApplicationEventReject ApplicationEvent = "reject"
)

// Transition returns the status an application moves to on ev. Both accepted
// and rejected are terminal.
func (s ApplicationStatus) Transition(ev ApplicationEvent) (ApplicationStatus, error) {
	switch {
	case s == StatusPending && ev == ApplicationEventAccept:
		return StatusAccepted, nil
	case s == StatusPending && ev == ApplicationEventReject:
		return StatusRejected, nil
	}
	return s, fmt.Errorf("%w: application is %s, cannot %s", ErrInvalidState, s, ev)
}
