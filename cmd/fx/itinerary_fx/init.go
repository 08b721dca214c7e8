package itinerary_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"
	"waylit/internal/repositories"
	"waylit/internal/services"
	mem "waylit/pkg/memcache"
	"waylit/pkg/utils"
)

var Module = fx.Provide(provideItineraryRepo, provideItineraryService, provideAssistantService)

func provideItineraryRepo(db *gorm.DB) repositories.ItineraryRepository {
	return repositories.NewItineraryRepository(db)
}

func provideItineraryService(
	itineraryRepo repositories.ItineraryRepository,
	poiService services.POIServiceInterface,
	chatClient utils.ChatClientInterface,
	tripLocks *mem.TripLocks,
) services.ItineraryServiceInterface {
	return services.NewItineraryService(itineraryRepo, poiService, chatClient, tripLocks)
}

func provideAssistantService(
	itineraryRepo repositories.ItineraryRepository,
	chatClient utils.ChatClientInterface,
	tripLocks *mem.TripLocks,
) services.AssistantServiceInterface {
	return services.NewAssistantService(itineraryRepo, chatClient, tripLocks)
}
