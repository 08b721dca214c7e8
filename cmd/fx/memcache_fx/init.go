package memcache_fx

import (
	"go.uber.org/fx"
	mem "waylit/pkg/memcache"
)

var Module = fx.Provide(provideTripLocks)

func provideTripLocks() *mem.TripLocks {
	return mem.NewTripLocks()
}
