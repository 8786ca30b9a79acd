package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"helpify/adapters/rest"
	"helpify/core"
	"helpify/pkg/res"
)

func NewSubmitApplicationHandler(_ *slog.Logger, svc core.Marketplace, verifier ActorVerifier, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := bearerActor(r, verifier)
		if err != nil {
			res.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		taskID, ok := pathID(r)
		if !ok {
			res.Error(w, "invalid id", http.StatusBadRequest)
			return
		}

		var in rest.SubmitApplicationIn
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			res.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		a, err := svc.SubmitApplication(ctx, actor, core.SubmitApplicationInput{
			TaskID:    taskID,
			Proposal:  in.Proposal,
			BidAmount: in.BidAmount,
		})
		if err != nil {
			rest.WriteErr(w, err)
			return
		}
		res.Json(w, a, http.StatusCreated)
	}
}

func NewListTaskApplicationsHandler(_ *slog.Logger, svc core.Marketplace, verifier ActorVerifier, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := bearerActor(r, verifier)
		if err != nil {
			res.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		taskID, ok := pathID(r)
		if !ok {
			res.Error(w, "invalid id", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		items, err := svc.ListTaskApplications(ctx, actor, taskID)
		if err != nil {
			rest.WriteErr(w, err)
			return
		}
		res.Json(w, map[string]any{"applications": items}, http.StatusOK)
	}
}

func NewListHelperApplicationsHandler(_ *slog.Logger, svc core.Marketplace, verifier ActorVerifier, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := bearerActor(r, verifier)
		if err != nil {
			res.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		items, err := svc.ListHelperApplications(ctx, actor)
		if err != nil {
			rest.WriteErr(w, err)
			return
		}
		res.Json(w, map[string]any{"applications": items}, http.StatusOK)
	}
}

func NewAcceptApplicationHandler(_ *slog.Logger, svc core.Marketplace, verifier ActorVerifier, timeout time.Duration) http.HandlerFunc {
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

		out, err := svc.AcceptApplication(ctx, actor, id)
		if err != nil {
			rest.WriteErr(w, err)
			return
		}
		res.Json(w, out, http.StatusOK)
	}
}

func NewRejectApplicationHandler(_ *slog.Logger, svc core.Marketplace, verifier ActorVerifier, timeout time.Duration) http.HandlerFunc {
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

		a, err := svc.RejectApplication(ctx, actor, id)
		if err != nil {
			rest.WriteErr(w, err)
			return
		}
		res.Json(w, a, http.StatusOK)
	}
}
