package http

import (
	"github.com/nats-io/nats.go"

	"github.com/tkaczmarek/geoscope/internal/adapters/postgres"
	"github.com/tkaczmarek/geoscope/internal/adapters/upstream"
	"github.com/tkaczmarek/geoscope/internal/adapters/valkey"
	"github.com/tkaczmarek/geoscope/internal/core/usecases"
	"github.com/tkaczmarek/geoscope/internal/health"
	"github.com/tkaczmarek/geoscope/internal/pkg/config"
)

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Aviation     *upstream.AviationAPI
	Hazards      *upstream.HazardsAPI
	Surveillance *upstream.SurveillanceAPI
	Military     *upstream.MilitaryAPI
	GDACS        *upstream.GDACSAPI
	Cables       *upstream.CablesAPI

	Lookup    *usecases.LookupService
	Workspace *usecases.WorkspaceService

	Health *health.Registry
	Auth   config.AuthConfig

	NATS  *nats.Conn
	DB    *postgres.DB
	Cache *valkey.Cache
}
