package catalog

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/legal-services-api/internal/handler"
	"github.com/jwalitptl/legal-services-api/internal/model"
	"github.com/jwalitptl/legal-services-api/internal/repository"
	catalogService "github.com/jwalitptl/legal-services-api/internal/service/catalog"
)

type Handler struct {
	service catalogService.CatalogServicer
}

func NewHandler(service catalogService.CatalogServicer) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	services := r.Group("/services")
	{
		services.GET("/", h.ListServices)
		services.POST("/", h.CreateService)
		services.GET("/featured/", h.FeaturedServices)
		services.GET("/by_category/", h.ServicesByCategory)
		services.GET("/:slug/", h.GetService)
		services.PUT("/:slug/", h.UpdateService)
		services.PATCH("/:slug/", h.PartialUpdateService)
		services.DELETE("/:slug/", h.DeleteService)
	}
}

func (h *Handler) ListServices(c *gin.Context) {
	categoryID, err := handler.QueryInt64(c, "category")
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}

	q := catalogService.Query{
		CategoryID: categoryID,
		Status:     c.Query("status"),
		Search:     c.Query("search"),
		Ordering:   repository.ParseOrdering(c.Query("ordering"), "order", "title", "created_at", "price"),
	}

	services, err := h.service.ListServices(c.Request.Context(), handler.Actor(c), q)
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(services))
}

func (h *Handler) FeaturedServices(c *gin.Context) {
	services, err := h.service.FeaturedServices(c.Request.Context(), handler.Actor(c))
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(services))
}

func (h *Handler) ServicesByCategory(c *gin.Context) {
	raw := c.Query("category_id")
	if raw == "" {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("category_id parameter is required"))
		return
	}
	categoryID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("category_id must be an integer"))
		return
	}

	services, err := h.service.ServicesByCategory(c.Request.Context(), handler.Actor(c), categoryID)
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(services))
}

func (h *Handler) GetService(c *gin.Context) {
	service, err := h.service.GetService(c.Request.Context(), handler.Actor(c), c.Param("slug"))
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(service))
}

func (h *Handler) CreateService(c *gin.Context) {
	var in model.ServiceInput
	if !handler.BindJSON(c, &in) {
		return
	}

	service, err := h.service.CreateService(c.Request.Context(), handler.Actor(c), in)
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(service))
}

func (h *Handler) UpdateService(c *gin.Context) {
	h.update(c, false)
}

func (h *Handler) PartialUpdateService(c *gin.Context) {
	h.update(c, true)
}

func (h *Handler) update(c *gin.Context, partial bool) {
	var in model.ServiceInput
	if !handler.BindJSON(c, &in) {
		return
	}

	service, err := h.service.UpdateService(c.Request.Context(), handler.Actor(c), c.Param("slug"), in, partial)
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(service))
}

func (h *Handler) DeleteService(c *gin.Context) {
	if err := h.service.DeleteService(c.Request.Context(), handler.Actor(c), c.Param("slug")); err != nil {
		handler.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}
