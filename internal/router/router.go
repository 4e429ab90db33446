// Package router maps serializable requests onto set manager operations.
package router

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/nikbrunner/bm/internal/model"
)

// Type names a request kind.
type Type string

const (
	GetSets   Type = "GET_SETS"
	CreateSet Type = "CREATE_SET"
	SwitchSet Type = "SWITCH_SET"
	DeleteSet Type = "DELETE_SET"
	RenameSet Type = "RENAME_SET"
)

// Request is one command from a UI.
type Request struct {
	Type          Type   `json:"type"`
	SetID         string `json:"setId,omitempty"`
	Name          string `json:"name,omitempty"`
	MergeTargetID string `json:"mergeTargetId,omitempty"`
}

// Response carries either the full set list or an error message.
type Response struct {
	Success bool                `json:"success"`
	Data    []model.BookmarkSet `json:"data,omitempty"`
	Error   string              `json:"error,omitempty"`
}

// Manager is the set of operations the router dispatches to.
type Manager interface {
	List(ctx context.Context) ([]model.BookmarkSet, error)
	Create(ctx context.Context, name string) ([]model.BookmarkSet, error)
	Switch(ctx context.Context, targetID string) ([]model.BookmarkSet, error)
	Delete(ctx context.Context, setID, mergeTargetID string) ([]model.BookmarkSet, error)
	Rename(ctx context.Context, setID, name string) ([]model.BookmarkSet, error)
}

// Router dispatches requests to a Manager.
type Router struct {
	manager Manager
	log     zerolog.Logger
}

// New creates a Router. A nil logger discards output.
func New(manager Manager, logger *zerolog.Logger) *Router {
	r := &Router{manager: manager, log: zerolog.Nop()}
	if logger != nil {
		r.log = *logger
	}
	return r
}

// Handle runs a single request. Failures never escape as Go errors; they
// are reported through Response.Error.
func (r *Router) Handle(ctx context.Context, req Request) Response {
	sets, err := r.dispatch(ctx, req)
	if err != nil {
		r.log.Warn().Str("type", string(req.Type)).Err(err).Msg("Request failed")
		return Response{Success: false, Error: err.Error()}
	}
	r.log.Debug().Str("type", string(req.Type)).Int("sets", len(sets)).Msg("Request handled")
	if sets == nil {
		sets = []model.BookmarkSet{}
	}
	return Response{Success: true, Data: sets}
}

func (r *Router) dispatch(ctx context.Context, req Request) ([]model.BookmarkSet, error) {
	switch req.Type {
	case GetSets:
		return r.manager.List(ctx)
	case CreateSet:
		return r.manager.Create(ctx, req.Name)
	case SwitchSet:
		return r.manager.Switch(ctx, req.SetID)
	case DeleteSet:
		return r.manager.Delete(ctx, req.SetID, req.MergeTargetID)
	case RenameSet:
		return r.manager.Rename(ctx, req.SetID, req.Name)
	default:
		return nil, fmt.Errorf("unknown message type %q", req.Type)
	}
}
