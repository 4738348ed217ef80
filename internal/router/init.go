package router

import (
	"github.com/roamlist/places-backend/internal/application"
	"github.com/roamlist/places-backend/internal/container"
	"github.com/roamlist/places-backend/internal/infrastructure/geocode"
	"github.com/roamlist/places-backend/internal/infrastructure/images"
	pginfra "github.com/roamlist/places-backend/internal/infrastructure/postgres"
	handlers "github.com/roamlist/places-backend/internal/interface/http"
	"github.com/roamlist/places-backend/internal/router/modules"
)

// InitModules builds all application modules from the container
// singletons and registers them with the router registry. Called once
// during startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()

	userRepo := pginfra.NewUserRepository(container.GetPGPool())
	placeRepo := pginfra.NewPlaceRepository(container.GetPGPool())
	txManager := pginfra.NewTxManager(container.GetPGPool())
	imageStore := images.NewGCSStore(container.GetGCS(), cfg.GCSBucket)
	geocoder := geocode.NewNominatim(cfg.GeocoderBaseURL, cfg.GeocoderUserAgent, cfg.GeocoderTimeout)

	userSvc := application.NewUserService(
		userRepo,
		container.GetJWT(),
		container.GetRedis(),
		container.GetLogger(),
		container.GetRabbitPub(),
		cfg.AppName,
	)
	placeSvc := application.NewPlaceService(
		placeRepo,
		userRepo,
		txManager,
		geocoder,
		imageStore,
		container.GetLogger(),
		container.GetES(),
		cfg.ESPlacesIndex,
	)

	userHandler := handlers.NewUserHandler(userSvc, imageStore, container.GetLogger())
	placeHandler := handlers.NewPlaceHandler(placeSvc, imageStore, container.GetLogger())

	r.Add(modules.NewUserModule(userHandler, container.GetJWT()))
	r.Add(modules.NewPlaceModule(placeHandler, container.GetJWT()))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
