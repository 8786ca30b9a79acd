package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"helpify/adapters/rest"
	"helpify/core"
	"helpify/pkg/res"
)

func parseTaskStatus(s string) (core.TaskStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "open":
		return core.StatusOpen, true
	case "in_progress":
		return core.StatusInProgress, true
	case "completed":
		return core.StatusCompleted, true
	case "cancelled":
		return core.StatusCancelled, true
	default:
		return "", false
	}
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id, err == nil && id > 0
}

func NewCreateTaskHandler(_ *slog.Logger, svc core.Marketplace, verifier ActorVerifier, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := bearerActor(r, verifier)
		if err != nil {
			res.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var in rest.CreateTaskIn
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			res.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		t, err := svc.CreateTask(ctx, actor, core.CreateTaskInput{
			Title:         in.Title,
			Description:   in.Description,
			Location:      in.Location,
			Budget:        in.Budget,
			ScheduledTime: in.ScheduledTime,
		})
		if err != nil {
			rest.WriteErr(w, err)
			return
		}
		res.Json(w, t, http.StatusCreated)
	}
}

func NewGetTaskHandler(_ *slog.Logger, svc core.Marketplace, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r)
		if !ok {
			res.Error(w, "invalid id", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		t, err := svc.GetTask(ctx, id)
		if err != nil {
			rest.WriteErr(w, err)
			return
		}
		res.Json(w, t, http.StatusOK)
	}
}

func NewListTasksHandler(_ *slog.Logger, svc core.Marketplace, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		var f core.ListTasksFilter

		if s := q.Get("status"); s != "" {
			st, ok := parseTaskStatus(s)
			if !ok {
				res.Error(w, "invalid status", http.StatusBadRequest)
				return
			}
			f.Status = &st
		}

		if v := q.Get("client_id"); v != "" {
			id, err := strconv.ParseInt(v, 10, 64)
			if err != nil || id <= 0 {
				res.Error(w, "invalid client_id", http.StatusBadRequest)
				return
			}
			f.ClientID = &id
		}

		if v := q.Get("helper_id"); v != "" {
			id, err := strconv.ParseInt(v, 10, 64)
			if err != nil || id <= 0 {
				res.Error(w, "invalid helper_id", http.StatusBadRequest)
				return
			}
			f.HelperID = &id
		}

		if v := q.Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				res.Error(w, "invalid limit", http.StatusBadRequest)
				return
			}
			f.Limit = n
		}
		if v := q.Get("offset"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				res.Error(w, "invalid offset", http.StatusBadRequest)
				return
			}
			f.Offset = n
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		items, err := svc.ListTasks(ctx, f)
		if err != nil {
			rest.WriteErr(w, err)
			return
		}
		res.Json(w, map[string]any{"tasks": items}, http.StatusOK)
	}
}

func NewCompleteTaskHandler(_ *slog.Logger, svc core.Marketplace, verifier ActorVerifier, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := bearerActor(r, verifier)
		if err != nil {
			res.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		id, ok := pathID(r)
		if !ok {
			res.Error(w, "invalid id", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		t, err := svc.CompleteTask(ctx, actor, id)
		if err != nil {
			rest.WriteErr(w, err)
			return
		}
		res.Json(w, t, http.StatusOK)
	}
}

func NewCancelTaskHandler(_ *slog.Logger, svc core.Marketplace, verifier ActorVerifier, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := bearerActor(r, verifier)
		if err != nil {
			res.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		id, ok := pathID(r)
		if !ok {
			res.Error(w, "invalid id", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		t, err := svc.CancelTask(ctx, actor, id)
		if err != nil {
			rest.WriteErr(w, err)
			return
		}
		res.Json(w, t, http.StatusOK)
	}
}
