package main

import (
	"context"
	"log"
	"os"
	"waylit/cmd/fx/ai_fx"
	"waylit/cmd/fx/controllers_fx"
	"waylit/cmd/fx/db_fx"
	"waylit/cmd/fx/itinerary_fx"
	"waylit/cmd/fx/memcache_fx"
	"waylit/cmd/fx/node_fx"
	"waylit/cmd/fx/poi_fx"
	"waylit/internal/api/controllers"
	"waylit/pkg/middleware"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	app := fx.New(
		db_fx.Module,
		memcache_fx.Module,
		ai_fx.Module,
		poi_fx.Module,
		itinerary_fx.Module,
		node_fx.Module,
		controllers_fx.Module,

		fx.Invoke(StartServer),
		fx.Provide(ProvideRouter),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, engine *gin.Engine) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Println("Starting HTTP server at ${PORT}")
				if err := engine.Run(":" + os.Getenv("PORT")); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Println("Stopping HTTP server")
			return nil
		},
	})
}

func ProvideRouter(
	itineraryController *controllers.ItineraryController,
	nodeController *controllers.NodeController) *gin.Engine {

	r := gin.Default()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.TraceIDMiddleware())

	RegisterRoutes(r, itineraryController, nodeController)

	return r
}

func RegisterRoutes(r *gin.Engine,
	itineraryController *controllers.ItineraryController,
	nodeController *controllers.NodeController) {

	itinerariesGroup := r.Group("/itineraries")
	itinerariesGroup.Use(middleware.JWTAuthMiddleware())
	itinerariesGroup.POST("/generate", itineraryController.GenerateItinerary)
	itinerariesGroup.POST("/chat", itineraryController.UpdateWithPreference)
	itinerariesGroup.GET("/:tripId", itineraryController.GetItineraryByTripId)

	nodesGroup := r.Group("/nodes")
	nodesGroup.Use(middleware.JWTAuthMiddleware())
	nodesGroup.PATCH("/:nodeId", nodeController.ManualUpdateNode)
	nodesGroup.POST("/change", nodeController.ChangeItinerary)
	nodesGroup.POST("/unrealize", nodeController.MarkAsUnrealized)
	nodesGroup.POST("/light", nodeController.LightNode)
}
