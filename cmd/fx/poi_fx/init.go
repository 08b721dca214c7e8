package poi_fx

import (
	"os"
	"waylit/internal/services"
	"waylit/pkg/utils"

	"go.uber.org/fx"
)

var Module = fx.Provide(providePoiSearchClient, providePoiService)

func providePoiSearchClient() utils.PoiSearchClientInterface {
	return utils.NewPoiSearchClient(
		os.Getenv("POI_SEARCH_URL"),
		os.Getenv("POI_SEARCH_KEY"),
	)
}

func providePoiService(searchClient utils.PoiSearchClientInterface) services.POIServiceInterface {
	return services.NewPOIService(searchClient)
}
