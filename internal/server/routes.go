package server

import (
	"github.com/danielgtaylor/huma/v2"

	v1 "github.com/plankhq/plank/internal/api/v1"
	"github.com/plankhq/plank/internal/auth"
	"github.com/plankhq/plank/internal/collection"
)

func registerAuthRoutes(api huma.API, authSvc *auth.Service) {
	v1.RegisterAuthRoutes(api, authSvc)
}

func registerAPIRoutes(api huma.API, store v1.DataStore, mutator *collection.Service, access *auth.Access) {
	v1.RegisterBoardRoutes(api, store, access)
	v1.RegisterListRoutes(api, mutator)
	v1.RegisterCardRoutes(api, store, mutator, access)
}
