package main

import (
	"github.com/smallbiznis/pestdesk/internal/bootstrap"
	"github.com/smallbiznis/pestdesk/internal/clock"
	"github.com/smallbiznis/pestdesk/internal/config"
	"github.com/smallbiznis/pestdesk/internal/dashboard"
	"github.com/smallbiznis/pestdesk/internal/observability"
	"github.com/smallbiznis/pestdesk/internal/server"
	"github.com/smallbiznis/pestdesk/internal/servicerecord"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core Infrastructure
		config.Module,
		observability.Module,
		clock.Module,

		// Record store, opened once by the bootstrap policy
		servicerecord.Module,
		bootstrap.Module,

		dashboard.Module,
		server.Module,
	)
	app.Run()
}
