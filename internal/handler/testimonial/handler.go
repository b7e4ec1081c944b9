package testimonial

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/legal-services-api/internal/handler"
	"github.com/jwalitptl/legal-services-api/internal/model"
	"github.com/jwalitptl/legal-services-api/internal/repository"
	testimonialService "github.com/jwalitptl/legal-services-api/internal/service/testimonial"
)

type Handler struct {
	service testimonialService.TestimonialServicer
}

func NewHandler(service testimonialService.TestimonialServicer) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	testimonials := r.Group("/testimonials")
	{
		testimonials.GET("/", h.ListTestimonials)
		testimonials.POST("/", h.CreateTestimonial)
		testimonials.GET("/featured/", h.FeaturedTestimonials)
		testimonials.GET("/:id/", h.GetTestimonial)
		testimonials.PUT("/:id/", h.UpdateTestimonial)
		testimonials.PATCH("/:id/", h.PartialUpdateTestimonial)
		testimonials.DELETE("/:id/", h.DeleteTestimonial)
	}
}

func parseQuery(c *gin.Context) (testimonialService.Query, error) {
	q := testimonialService.Query{
		Ordering: repository.ParseOrdering(c.Query("ordering"), "created_at", "rating"),
	}

	var err error
	if q.ServiceID, err = handler.QueryInt64(c, "service"); err != nil {
		return q, err
	}
	if q.IsFeatured, err = handler.QueryBool(c, "is_featured"); err != nil {
		return q, err
	}
	if q.IsActive, err = handler.QueryBool(c, "is_active"); err != nil {
		return q, err
	}
	rating, err := handler.QueryInt64(c, "rating")
	if err != nil {
		return q, err
	}
	q.Rating = int(rating)
	return q, nil
}

func (h *Handler) ListTestimonials(c *gin.Context) {
	q, err := parseQuery(c)
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}

	testimonials, err := h.service.ListTestimonials(c.Request.Context(), handler.Actor(c), q)
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(testimonials))
}

func (h *Handler) FeaturedTestimonials(c *gin.Context) {
	testimonials, err := h.service.FeaturedTestimonials(c.Request.Context(), handler.Actor(c))
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(testimonials))
}

func (h *Handler) GetTestimonial(c *gin.Context) {
	id, ok := handler.ParseID(c, "id")
	if !ok {
		return
	}

	testimonial, err := h.service.GetTestimonial(c.Request.Context(), handler.Actor(c), id)
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(testimonial))
}

func (h *Handler) CreateTestimonial(c *gin.Context) {
	var in model.TestimonialInput
	if !handler.BindJSON(c, &in) {
		return
	}

	testimonial, err := h.service.CreateTestimonial(c.Request.Context(), handler.Actor(c), in)
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(testimonial))
}

func (h *Handler) UpdateTestimonial(c *gin.Context) {
	h.update(c, false)
}

func (h *Handler) PartialUpdateTestimonial(c *gin.Context) {
	h.update(c, true)
}

func (h *Handler) update(c *gin.Context, partial bool) {
	id, ok := handler.ParseID(c, "id")
	if !ok {
		return
	}
	var in model.TestimonialInput
	if !handler.BindJSON(c, &in) {
		return
	}

	testimonial, err := h.service.UpdateTestimonial(c.Request.Context(), handler.Actor(c), id, in, partial)
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(testimonial))
}

func (h *Handler) DeleteTestimonial(c *gin.Context) {
	id, ok := handler.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteTestimonial(c.Request.Context(), handler.Actor(c), id); err != nil {
		handler.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}
