package handler

import (
	"net/http"

	"classpoints/internal/dto"
	"classpoints/internal/repository"
	"classpoints/internal/service"
	"classpoints/pkg/response"
	"classpoints/pkg/validator"
	"github.com/gin-gonic/gin"
)

type ClassHandler struct {
	classService service.ClassService
}

func NewClassHandler(classService service.ClassService) *ClassHandler {
	return &ClassHandler{classService: classService}
}

func (h *ClassHandler) List(c *gin.Context) {
	order := repository.OrderByName
	if c.Query("sort") == "points" {
		order = repository.OrderByPointsDesc
	}

	classes, err := h.classService.List(c.Request.Context(), order)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": classes})
}

func (h *ClassHandler) Create(c *gin.Context) {
	var input dto.CreateClassInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	class, err := h.classService.Create(c.Request.Context(), input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": class})
}

func (h *ClassHandler) Update(c *gin.Context) {
	id := c.Param("id")

	var input dto.UpdateClassInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	class, err := h.classService.Update(c.Request.Context(), id, input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": class})
}

func (h *ClassHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	if err := h.classService.Delete(c.Request.Context(), id); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "class deleted successfully"})
}
