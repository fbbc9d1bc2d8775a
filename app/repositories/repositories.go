package repositories

import (
	"github.com/Rakhulsr/venue-admin/app/client"
	"github.com/Rakhulsr/venue-admin/app/utils/logger"
	"go.uber.org/zap"
)

// Repositories groups the REST repositories bound to one token source.
type Repositories struct {
	Modules    ModuleRepositoryImpl
	Zones      ZoneRepositoryImpl
	Categories CategoryRepositoryImpl
	Venues     VenueRepositoryImpl
	Auth       AuthRepositoryImpl
}

func New(api client.API, imageBase string, log *zap.Logger) *Repositories {
	log = logger.OrNop(log)
	return &Repositories{
		Modules:    NewModuleRepository(api),
		Zones:      NewZoneRepository(api),
		Categories: NewCategoryRepository(api, imageBase, log),
		Venues:     NewVenueRepository(api, imageBase, log),
		Auth:       NewAuthRepository(api),
	}
}
