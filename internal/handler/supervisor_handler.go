package handler

import (
	"net/http"

	"classpoints/internal/dto"
	"classpoints/internal/service"
	"classpoints/pkg/response"
	"classpoints/pkg/validator"
	"github.com/gin-gonic/gin"
)

type SupervisorHandler struct {
	supervisorService service.SupervisorService
}

func NewSupervisorHandler(supervisorService service.SupervisorService) *SupervisorHandler {
	return &SupervisorHandler{supervisorService: supervisorService}
}

func (h *SupervisorHandler) List(c *gin.Context) {
	supervisors, err := h.supervisorService.List(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": supervisors})
}

func (h *SupervisorHandler) Create(c *gin.Context) {
	var input dto.CreateSupervisorInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	supervisor, err := h.supervisorService.Create(c.Request.Context(), input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": supervisor})
}

func (h *SupervisorHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	if err := h.supervisorService.Delete(c.Request.Context(), id); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "supervisor deleted successfully"})
}
