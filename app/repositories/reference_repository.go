package repositories

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Rakhulsr/venue-admin/app/client"
	"github.com/Rakhulsr/venue-admin/app/models"
)

type ModuleRepositoryImpl interface {
	GetAll(ctx context.Context) ([]models.Module, error)
}

type ZoneRepositoryImpl interface {
	GetAll(ctx context.Context) ([]models.Zone, error)
}

type moduleRepository struct {
	api client.API
}

func NewModuleRepository(api client.API) ModuleRepositoryImpl {
	return &moduleRepository{api: api}
}

func (r *moduleRepository) GetAll(ctx context.Context) ([]models.Module, error) {
	payload, err := r.api.Do(ctx, client.Request{Method: http.MethodGet, Path: "/modules"})
	if err != nil {
		return nil, err
	}
	modules, err := client.DecodeList[models.Module](payload, "modules")
	if err != nil {
		return nil, fmt.Errorf("failed to decode modules: %w", err)
	}
	return modules, nil
}

type zoneRepository struct {
	api client.API
}

func NewZoneRepository(api client.API) ZoneRepositoryImpl {
	return &zoneRepository{api: api}
}

func (r *zoneRepository) GetAll(ctx context.Context) ([]models.Zone, error) {
	payload, err := r.api.Do(ctx, client.Request{Method: http.MethodGet, Path: "/zones"})
	if err != nil {
		return nil, err
	}
	zones, err := client.DecodeList[models.Zone](payload, "zones")
	if err != nil {
		return nil, fmt.Errorf("failed to decode zones: %w", err)
	}
	return zones, nil
}
