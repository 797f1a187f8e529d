package handler

import (
	"net/http"

	"classpoints/internal/service"
	"classpoints/pkg/response"
	"github.com/gin-gonic/gin"
)

type StatHandler struct {
	statService service.StatService
}

func NewStatHandler(statService service.StatService) *StatHandler {
	return &StatHandler{statService: statService}
}

func (h *StatHandler) GetStats(c *gin.Context) {
	stats, err := h.statService.Stats(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
