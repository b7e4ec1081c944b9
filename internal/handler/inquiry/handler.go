package inquiry

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/legal-services-api/internal/handler"
	"github.com/jwalitptl/legal-services-api/internal/model"
	"github.com/jwalitptl/legal-services-api/internal/repository"
	inquiryService "github.com/jwalitptl/legal-services-api/internal/service/inquiry"
)

type Handler struct {
	service     inquiryService.InquiryServicer
	createGuard []gin.HandlerFunc
}

// NewHandler builds the inquiry routes. createGuard runs before anonymous
// submissions, typically a rate limiter.
func NewHandler(service inquiryService.InquiryServicer, createGuard ...gin.HandlerFunc) *Handler {
	return &Handler{service: service, createGuard: createGuard}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	inquiries := r.Group("/inquiries")
	{
		inquiries.GET("/", h.ListInquiries)
		inquiries.POST("/", append(h.createGuard, h.CreateInquiry)...)
		inquiries.GET("/:id/", h.GetInquiry)
		inquiries.PUT("/:id/", h.UpdateInquiry)
		inquiries.PATCH("/:id/", h.PartialUpdateInquiry)
		inquiries.DELETE("/:id/", h.DeleteInquiry)
		inquiries.PATCH("/:id/update_status/", h.UpdateStatus)
	}
}

type updateStatusRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

func project(actor *model.Actor, records []*model.InquiryRecord) []interface{} {
	out := make([]interface{}, 0, len(records))
	for _, r := range records {
		out = append(out, r.Project(actor))
	}
	return out
}

func (h *Handler) CreateInquiry(c *gin.Context) {
	var in model.InquiryInput
	if !handler.BindJSON(c, &in) {
		return
	}

	actor := handler.Actor(c)
	record, err := h.service.CreateInquiry(c.Request.Context(), actor, in)
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(record.Project(actor)))
}

func (h *Handler) ListInquiries(c *gin.Context) {
	serviceID, err := handler.QueryInt64(c, "service")
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}

	q := inquiryService.Query{
		ServiceID: serviceID,
		Status:    c.Query("status"),
		Ordering:  repository.ParseOrdering(c.Query("ordering"), "created_at"),
	}

	actor := handler.Actor(c)
	records, err := h.service.ListInquiries(c.Request.Context(), actor, q)
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(project(actor, records)))
}

func (h *Handler) GetInquiry(c *gin.Context) {
	id, ok := handler.ParseID(c, "id")
	if !ok {
		return
	}

	actor := handler.Actor(c)
	record, err := h.service.GetInquiry(c.Request.Context(), actor, id)
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(record.Project(actor)))
}

func (h *Handler) UpdateInquiry(c *gin.Context) {
	h.update(c, false)
}

func (h *Handler) PartialUpdateInquiry(c *gin.Context) {
	h.update(c, true)
}

func (h *Handler) update(c *gin.Context, partial bool) {
	id, ok := handler.ParseID(c, "id")
	if !ok {
		return
	}
	var in model.InquiryInput
	if !handler.BindJSON(c, &in) {
		return
	}

	actor := handler.Actor(c)
	record, err := h.service.UpdateInquiry(c.Request.Context(), actor, id, in, partial)
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(record.Project(actor)))
}

func (h *Handler) DeleteInquiry(c *gin.Context) {
	id, ok := handler.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteInquiry(c.Request.Context(), handler.Actor(c), id); err != nil {
		handler.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id, ok := handler.ParseID(c, "id")
	if !ok {
		return
	}
	var req updateStatusRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	actor := handler.Actor(c)
	record, err := h.service.UpdateStatus(c.Request.Context(), actor, id, req.Status, req.Notes)
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(record.Project(actor)))
}
