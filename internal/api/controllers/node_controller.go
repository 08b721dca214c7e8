package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"waylit/internal/models/request_models"
	"waylit/internal/services"
	"waylit/pkg/utils"
)

type NodeController struct {
	nodeService services.NodeServiceInterface
}

func NewNodeController(nodeService services.NodeServiceInterface) *NodeController {
	return &NodeController{
		nodeService: nodeService,
	}
}

// ManualUpdateNode godoc
// @Summary Manually edit a node
// @Description Apply a partial edit to one itinerary node; omitted fields are left unchanged
// @Tags Node
// @Accept json
// @Produce json
// @Param tripId query string true "Trip ID"
// @Param nodeId path string true "Node ID"
// @Param request body request_models.ManualNodeUpdateRequest true "Fields to change"
// @Success 200 {object} response_models.NodeResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /nodes/{nodeId} [patch]
func (n *NodeController) ManualUpdateNode(c *gin.Context) {
	nodeId := c.Param("nodeId")
	tripId := c.Query("tripId")
	if nodeId == "" || tripId == "" {
		utils.RespondError(c, http.StatusBadRequest, "TripID and NodeID are required")
		return
	}

	var req request_models.ManualNodeUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid node update payload")
		return
	}

	node, err := n.nodeService.ManualUpdateNode(c.Request.Context(), tripId, nodeId, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, node, "Node updated successfully")
}

// ChangeItinerary godoc
// @Summary Replace a planned node mid-trip
// @Description Mark the node as changed_original and spawn its replacement right after it in the same day
// @Tags Node
// @Accept json
// @Produce json
// @Param request body request_models.ChangeNodeRequest true "Trip ID, node ID, reason, replacement node"
// @Success 200 {object} response_models.NodeChangeResponse
// @Failure 404 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Security BearerAuth
// @Router /nodes/change [post]
func (n *NodeController) ChangeItinerary(c *gin.Context) {
	var req request_models.ChangeNodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "TripID, NodeID and replacement are required")
		return
	}

	change, err := n.nodeService.ChangeItinerary(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, change, "Node changed successfully")
}

// MarkAsUnrealized godoc
// @Summary Mark a node as skipped
// @Description Record that the traveler did not visit the node; lit nodes cannot be skipped
// @Tags Node
// @Accept json
// @Produce json
// @Param request body request_models.UnrealizeNodeRequest true "Trip ID, node ID, reason"
// @Success 200 {object} response_models.NodeResponse
// @Failure 404 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Security BearerAuth
// @Router /nodes/unrealize [post]
func (n *NodeController) MarkAsUnrealized(c *gin.Context) {
	var req request_models.UnrealizeNodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "TripID and NodeID are required")
		return
	}

	node, err := n.nodeService.MarkAsUnrealized(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, node, "Node marked as unrealized")
}

// LightNode godoc
// @Summary Mark a node as experienced
// @Description Light the node; for a changed node the response also carries its original for the travel diary
// @Tags Node
// @Accept json
// @Produce json
// @Param request body request_models.LightNodeRequest true "Trip ID, node ID, optional note"
// @Success 200 {object} response_models.LitNodeResponse
// @Failure 404 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Security BearerAuth
// @Router /nodes/light [post]
func (n *NodeController) LightNode(c *gin.Context) {
	var req request_models.LightNodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "TripID and NodeID are required")
		return
	}

	node, err := n.nodeService.LightNode(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, node, "Node lit successfully")
}
