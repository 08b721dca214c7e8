package controllers_fx

import (
	"go.uber.org/fx"
	"waylit/internal/api/controllers"
)

var Module = fx.Options(
	fx.Provide(controllers.NewItineraryController),
	fx.Provide(controllers.NewNodeController))
