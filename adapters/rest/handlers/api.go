package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"helpify/core"
)

func Register(mux *http.ServeMux, log *slog.Logger, svc core.Marketplace, verifier ActorVerifier, timeout time.Duration) {
	// ping
	mux.Handle("GET /api/ping", NewPingHandler(log, svc, timeout))

	// tasks
	mux.Handle("POST /api/tasks", NewCreateTaskHandler(log, svc, verifier, timeout))
	mux.Handle("GET /api/tasks", NewListTasksHandler(log, svc, timeout))
	mux.Handle("GET /api/tasks/{id}", NewGetTaskHandler(log, svc, timeout))
	mux.Handle("POST /api/tasks/{id}/complete", NewCompleteTaskHandler(log, svc, verifier, timeout))
	mux.Handle("POST /api/tasks/{id}/cancel", NewCancelTaskHandler(log, svc, verifier, timeout))

	// applications
	mux.Handle("POST /api/tasks/{id}/applications", NewSubmitApplicationHandler(log, svc, verifier, timeout))
	mux.Handle("GET /api/tasks/{id}/applications", NewListTaskApplicationsHandler(log, svc, verifier, timeout))
	mux.Handle("GET /api/applications", NewListHelperApplicationsHandler(log, svc, verifier, timeout))
	mux.Handle("POST /api/applications/{id}/accept", NewAcceptApplicationHandler(log, svc, verifier, timeout))
	mux.Handle("POST /api/applications/{id}/reject", NewRejectApplicationHandler(log, svc, verifier, timeout))
}
