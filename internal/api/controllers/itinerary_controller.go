package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"waylit/internal/models/request_models"
	"waylit/internal/services"
	"waylit/pkg/utils"
)

type ItineraryController struct {
	itineraryService services.ItineraryServiceInterface
	assistantService services.AssistantServiceInterface
}

func NewItineraryController(
	itineraryService services.ItineraryServiceInterface,
	assistantService services.AssistantServiceInterface,
) *ItineraryController {
	return &ItineraryController{
		itineraryService: itineraryService,
		assistantService: assistantService,
	}
}

// GenerateItinerary godoc
// @Summary Generate an itinerary for a trip
// @Description Build a day-by-day itinerary from the trip's search conditions, replacing any existing plan for the trip
// @Tags Itinerary
// @Accept json
// @Produce json
// @Param request body request_models.GenerateItineraryRequest true "Trip ID, destination, days, search conditions"
// @Success 200 {object} response_models.ItineraryResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 502 {object} utils.APIResponse
// @Security BearerAuth
// @Router /itineraries/generate [post]
func (i *ItineraryController) GenerateItinerary(c *gin.Context) {
	var req request_models.GenerateItineraryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "TripID, destination and days are required")
		return
	}

	itinerary, err := i.itineraryService.GenerateItinerary(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, itinerary, "Itinerary generated successfully")
}

// GetItineraryByTripId godoc
// @Summary Get the itinerary of a trip
// @Description Fetch the trip's itinerary with nodes grouped per day in travel order
// @Tags Itinerary
// @Accept json
// @Produce json
// @Param tripId path string true "Trip ID"
// @Success 200 {object} response_models.ItineraryResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /itineraries/{tripId} [get]
func (i *ItineraryController) GetItineraryByTripId(c *gin.Context) {
	tripId := c.Param("tripId")
	if tripId == "" {
		utils.RespondError(c, http.StatusBadRequest, "Trip ID is required")
		return
	}

	itinerary, err := i.itineraryService.GetItineraryByTripId(c.Request.Context(), tripId)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, itinerary, "Itinerary fetched successfully")
}

// UpdateWithPreference godoc
// @Summary Update an itinerary through conversation
// @Description Send a chat message about the trip; the assistant replies and rewrites the itinerary when the message asks for a change
// @Tags Itinerary
// @Accept json
// @Produce json
// @Param request body request_models.UpdateItineraryRequest true "Trip ID, message, recent chat history"
// @Success 200 {object} response_models.ItineraryChatResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /itineraries/chat [post]
func (i *ItineraryController) UpdateWithPreference(c *gin.Context) {
	var req request_models.UpdateItineraryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "TripID and message are required")
		return
	}

	result, err := i.assistantService.UpdateWithPreference(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, result, "Assistant replied successfully")
}
