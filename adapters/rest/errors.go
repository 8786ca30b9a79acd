package rest

import (
	"errors"
	"net/http"

	"helpify/core"
	"helpify/pkg/res"
)

func WriteErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrInvalidArgs):
		res.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, core.ErrNotFound):
		res.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, core.ErrForbidden):
		res.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, core.ErrInvalidState):
		res.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, core.ErrAlreadyApplied):
		res.Error(w, err.Error(), http.StatusConflict)
	default:
		res.Error(w, "internal error", http.StatusInternalServerError)
	}
}
