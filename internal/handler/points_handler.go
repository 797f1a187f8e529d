package handler

import (
	"net/http"
	"strconv"

	"classpoints/internal/dto"
	"classpoints/internal/service"
	"classpoints/pkg/response"
	"classpoints/pkg/validator"
	"github.com/gin-gonic/gin"
)

type PointsHandler struct {
	pointsService service.PointsService
}

func NewPointsHandler(pointsService service.PointsService) *PointsHandler {
	return &PointsHandler{pointsService: pointsService}
}

func (h *PointsHandler) Award(c *gin.Context) {
	supervisorID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var input dto.AwardPointsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	entry, err := h.pointsService.Award(c.Request.Context(), supervisorID, input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": entry})
}

func (h *PointsHandler) AllActivity(c *gin.Context) {
	entries, err := h.pointsService.RecentAll(c.Request.Context(), limitQuery(c))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": entries})
}

func (h *PointsHandler) MyActivity(c *gin.Context) {
	supervisorID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	entries, err := h.pointsService.RecentBySupervisor(c.Request.Context(), supervisorID, limitQuery(c))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": entries})
}

func limitQuery(c *gin.Context) int {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil {
		return service.DefaultActivityLimit
	}
	return limit
}
