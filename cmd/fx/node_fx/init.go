package node_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"
	"waylit/internal/repositories"
	"waylit/internal/services"
	mem "waylit/pkg/memcache"
)

var Module = fx.Provide(provideNodeRepo, provideNodeService)

func provideNodeRepo(db *gorm.DB) repositories.NodeRepository {
	return repositories.NewNodeRepository(db)
}

func provideNodeService(
	nodeRepo repositories.NodeRepository,
	itineraryRepo repositories.ItineraryRepository,
	tripLocks *mem.TripLocks,
) services.NodeServiceInterface {
	return services.NewNodeService(nodeRepo, itineraryRepo, tripLocks)
}
