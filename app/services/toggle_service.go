package services

import (
	"context"
	"errors"
	"sync"

	"github.com/Rakhulsr/venue-admin/app/client"
	"github.com/Rakhulsr/venue-admin/app/repositories"
	"github.com/Rakhulsr/venue-admin/app/utils/liststate"
	"github.com/Rakhulsr/venue-admin/app/utils/logger"
	"go.uber.org/zap"
)

const (
	FieldIsActive  = "isActive"
	FieldIsTopPick = "isTopPick"
)

var (
	// ErrToggleInFlight is returned, without calling the remote, while the same
	// entity field is already being toggled.
	ErrToggleInFlight = errors.New("toggle already in progress")
	ErrToggleTarget   = errors.New("toggle target not found")
)

// BoolState is the local copy of the flags being toggled.
type BoolState interface {
	Generation() liststate.Epoch
	GetBool(id, field string) (bool, bool)
	SetBool(id, field string, value bool) bool
}

// RemoteToggle sends the change to the backend. It returns the value the
// server reports, or nil when the response does not carry one.
type RemoteToggle interface {
	Apply(ctx context.Context, entityID string, current, target bool) (*bool, error)
}

type RemoteToggleFunc func(ctx context.Context, entityID string, current, target bool) (*bool, error)

func (f RemoteToggleFunc) Apply(ctx context.Context, entityID string, current, target bool) (*bool, error) {
	return f(ctx, entityID, current, target)
}

func VenueActiveRemote(repo repositories.VenueRepositoryImpl) RemoteToggle {
	return RemoteToggleFunc(func(ctx context.Context, id string, _, _ bool) (*bool, error) {
		return repo.ToggleActive(ctx, id)
	})
}

func VenueTopPickRemote(repo repositories.VenueRepositoryImpl) RemoteToggle {
	return RemoteToggleFunc(func(ctx context.Context, id string, _, _ bool) (*bool, error) {
		return repo.ToggleTopPick(ctx, id)
	})
}

type CategoryStatusUpdater interface {
	Block(ctx context.Context, id, updatedBy string) (*bool, error)
	Reactivate(ctx context.Context, id, updatedBy string) (*bool, error)
}

// CategoryStatusRemote blocks an active category and reactivates an inactive
// one.
func CategoryStatusRemote(repo CategoryStatusUpdater, updatedBy string) RemoteToggle {
	return RemoteToggleFunc(func(ctx context.Context, id string, current, _ bool) (*bool, error) {
		if current {
			return repo.Block(ctx, id, updatedBy)
		}
		return repo.Reactivate(ctx, id, updatedBy)
	})
}

type ToggleRequest struct {
	EntityID string
	Field    string
	State    BoolState
	Remote   RemoteToggle
}

type ToggleResult struct {
	EntityID string
	Field    string
	Previous bool
	Value    bool
	// Stale is set when the list was refetched while the call was in flight.
	// The refetched data is kept as is.
	Stale bool
}

type ToggleService interface {
	Toggle(ctx context.Context, req ToggleRequest) (ToggleResult, error)
	InFlight(entityID, field string) bool
}

type toggleKey struct {
	entityID string
	field    string
}

type toggleService struct {
	mu       sync.Mutex
	inFlight map[toggleKey]struct{}
	notifier Notifier
	logger   *zap.Logger
}

func NewToggleService(notifier Notifier, log *zap.Logger) ToggleService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &toggleService{
		inFlight: make(map[toggleKey]struct{}),
		notifier: notifier,
		logger:   logger.OrNop(log),
	}
}

func (s *toggleService) InFlight(entityID, field string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.inFlight[toggleKey{entityID, field}]
	return ok
}

func (s *toggleService) acquire(key toggleKey) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[key]; busy {
		return false
	}
	s.inFlight[key] = struct{}{}
	return true
}

func (s *toggleService) release(key toggleKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, key)
}

// Toggle flips the field locally, sends it to the remote and then either
// settles on the server value or restores the previous one.
func (s *toggleService) Toggle(ctx context.Context, req ToggleRequest) (ToggleResult, error) {
	key := toggleKey{req.EntityID, req.Field}
	if !s.acquire(key) {
		s.logger.Debug("ToggleService.Toggle: ignored duplicate toggle",
			zap.String("entity_id", req.EntityID), zap.String("field", req.Field))
		return ToggleResult{EntityID: req.EntityID, Field: req.Field}, ErrToggleInFlight
	}
	defer s.release(key)

	current, ok := req.State.GetBool(req.EntityID, req.Field)
	if !ok {
		return ToggleResult{EntityID: req.EntityID, Field: req.Field}, ErrToggleTarget
	}

	generation := req.State.Generation()
	target := !current
	req.State.SetBool(req.EntityID, req.Field, target)

	result := ToggleResult{EntityID: req.EntityID, Field: req.Field, Previous: current, Value: target}

	server, err := req.Remote.Apply(ctx, req.EntityID, current, target)
	result.Stale = req.State.Generation() != generation

	if err != nil {
		if !result.Stale {
			req.State.SetBool(req.EntityID, req.Field, current)
		}
		result.Value = current
		s.logger.Warn("ToggleService.Toggle: remote toggle failed",
			zap.String("entity_id", req.EntityID), zap.String("field", req.Field), zap.Error(err))
		s.notifier.Notify(Notification{
			Status:   StatusError,
			EntityID: req.EntityID,
			Field:    req.Field,
			Message:  "Gagal memperbarui status: " + client.UserMessage(err),
		})
		return result, err
	}

	if server != nil {
		result.Value = *server
	}
	if !result.Stale {
		req.State.SetBool(req.EntityID, req.Field, result.Value)
	}
	s.notifier.Notify(Notification{
		Status:   StatusSuccess,
		EntityID: req.EntityID,
		Field:    req.Field,
		Message:  "Status berhasil diperbarui.",
	})
	return result, nil
}
