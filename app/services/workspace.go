package services

import (
	"context"
	"time"

	"github.com/Rakhulsr/venue-admin/app/models"
	"github.com/Rakhulsr/venue-admin/app/utils/liststate"
)

// WorkspaceTTL is how long an idle admin's lists stay cached.
const WorkspaceTTL = 2 * time.Hour

// Workspace is the list state of one admin's screens.
type Workspace struct {
	Categories    *liststate.Store[models.Category]
	Venues        *liststate.Store[models.Venue]
	CategoryFlags *liststate.BoolView[models.Category]
	VenueFlags    *liststate.BoolView[models.Venue]
}

func NewWorkspace() *Workspace {
	categories := liststate.New(func(c models.Category) string { return c.ID })
	venues := liststate.New(func(v models.Venue) string { return v.ID })

	return &Workspace{
		Categories: categories,
		Venues:     venues,
		CategoryFlags: liststate.NewBoolView(categories, map[string]liststate.BoolField[models.Category]{
			FieldIsActive: {
				Get: func(c models.Category) bool { return c.IsActive },
				Set: func(c *models.Category, v bool) { c.IsActive = v },
			},
		}),
		VenueFlags: liststate.NewBoolView(venues, map[string]liststate.BoolField[models.Venue]{
			FieldIsActive: {
				Get: func(v models.Venue) bool { return v.IsActive },
				Set: func(v *models.Venue, b bool) { v.IsActive = b },
			},
			FieldIsTopPick: {
				Get: func(v models.Venue) bool { return v.IsTopPick },
				Set: func(v *models.Venue, b bool) { v.IsTopPick = b },
			},
		}),
	}
}

func NewWorkspaceRegistry() *liststate.Registry[*Workspace] {
	return liststate.NewRegistry(WorkspaceTTL, NewWorkspace)
}

// Refresh fetches a list under a new epoch. On failure the store keeps its
// last good items and those are returned with the error. A result that lost
// the race to a newer refresh is dropped and the newer items are returned.
func Refresh[T any](ctx context.Context, store *liststate.Store[T], fetch func(context.Context) ([]T, error)) ([]T, error) {
	epoch := store.Begin()
	items, err := fetch(ctx)
	if err != nil {
		return store.Items(), err
	}
	store.Apply(epoch, items)
	return store.Items(), nil
}
