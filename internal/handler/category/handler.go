package category

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/legal-services-api/internal/handler"
	"github.com/jwalitptl/legal-services-api/internal/model"
	"github.com/jwalitptl/legal-services-api/internal/repository"
	categoryService "github.com/jwalitptl/legal-services-api/internal/service/category"
)

type Handler struct {
	service categoryService.CategoryServicer
}

func NewHandler(service categoryService.CategoryServicer) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	categories := r.Group("/categories")
	{
		categories.GET("/", h.ListCategories)
		categories.POST("/", h.CreateCategory)
		categories.GET("/:id/", h.GetCategory)
		categories.PUT("/:id/", h.UpdateCategory)
		categories.PATCH("/:id/", h.PartialUpdateCategory)
		categories.DELETE("/:id/", h.DeleteCategory)
	}
}

func (h *Handler) ListCategories(c *gin.Context) {
	ordering := repository.ParseOrdering(c.Query("ordering"), "order", "name")

	categories, err := h.service.ListCategories(c.Request.Context(), ordering)
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(categories))
}

func (h *Handler) GetCategory(c *gin.Context) {
	id, ok := handler.ParseID(c, "id")
	if !ok {
		return
	}

	category, err := h.service.GetCategory(c.Request.Context(), id)
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(category))
}

func (h *Handler) CreateCategory(c *gin.Context) {
	var in model.CategoryInput
	if !handler.BindJSON(c, &in) {
		return
	}

	category, err := h.service.CreateCategory(c.Request.Context(), handler.Actor(c), in)
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(category))
}

func (h *Handler) UpdateCategory(c *gin.Context) {
	h.update(c, false)
}

func (h *Handler) PartialUpdateCategory(c *gin.Context) {
	h.update(c, true)
}

func (h *Handler) update(c *gin.Context, partial bool) {
	id, ok := handler.ParseID(c, "id")
	if !ok {
		return
	}
	var in model.CategoryInput
	if !handler.BindJSON(c, &in) {
		return
	}

	category, err := h.service.UpdateCategory(c.Request.Context(), handler.Actor(c), id, in, partial)
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(category))
}

func (h *Handler) DeleteCategory(c *gin.Context) {
	id, ok := handler.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteCategory(c.Request.Context(), handler.Actor(c), id); err != nil {
		handler.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}
