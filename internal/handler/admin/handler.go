package admin

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/legal-services-api/internal/handler"
	"github.com/jwalitptl/legal-services-api/internal/service/spreadsheet"
	apperrors "github.com/jwalitptl/legal-services-api/pkg/errors"
)

const uploadField = "excel_file"

// Handler serves the staff-only spreadsheet import, export and template
// endpoints. Access control is applied by the router.
type Handler struct {
	codec spreadsheet.SpreadsheetServicer
}

func NewHandler(codec spreadsheet.SpreadsheetServicer) *Handler {
	return &Handler{codec: codec}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	admin := r.Group("/admin")
	{
		admin.POST("/categories/import-excel/", h.importFor(spreadsheet.EntityCategory))
		admin.POST("/services/import-excel/", h.importFor(spreadsheet.EntityService))
		admin.GET("/categories/export-excel/", h.exportFor(spreadsheet.EntityCategory))
		admin.GET("/services/export-excel/", h.exportFor(spreadsheet.EntityService))
		admin.GET("/download-template/:model_type/", h.DownloadTemplate)
	}
}

func (h *Handler) importFor(entity spreadsheet.Entity) gin.HandlerFunc {
	return func(c *gin.Context) {
		file, err := c.FormFile(uploadField)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("No file provided"))
			return
		}

		f, err := file.Open()
		if err != nil {
			handler.RespondWithError(c, fmt.Errorf("failed to open upload: %w", err))
			return
		}
		defer f.Close()

		actor := handler.Actor(c)
		result, err := h.codec.Import(c.Request.Context(), actor, entity, f)
		if err != nil {
			if result == nil {
				handler.RespondWithError(c, err)
				return
			}
			resp := handler.NewErrorResponse(result.Errors[0])
			resp.Data = result
			c.JSON(http.StatusBadRequest, resp)
			return
		}

		log.Info().
			Str("entity", string(entity)).
			Str("file", file.Filename).
			Int64("user_id", actor.UserID).
			Int("created", result.Created).
			Int("updated", result.Updated).
			Int("errors", len(result.Errors)).
			Msg("spreadsheet imported")

		c.JSON(http.StatusOK, handler.NewSuccessResponse(result))
	}
}

func (h *Handler) exportFor(entity spreadsheet.Entity) gin.HandlerFunc {
	return func(c *gin.Context) {
		ids, err := parseIDs(c.QueryArray("ids"))
		if err != nil {
			handler.RespondWithError(c, err)
			return
		}

		workbook, err := h.codec.Export(c.Request.Context(), entity, ids)
		if err != nil {
			handler.RespondWithError(c, err)
			return
		}
		serveWorkbook(c, workbook)
	}
}

func (h *Handler) DownloadTemplate(c *gin.Context) {
	entity, err := spreadsheet.ParseEntity(c.Param("model_type"))
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}

	workbook, err := h.codec.Template(entity)
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}
	serveWorkbook(c, workbook)
}

func serveWorkbook(c *gin.Context, wb *spreadsheet.Workbook) {
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, wb.Filename))
	c.Data(http.StatusOK, spreadsheet.ContentType, wb.Data)
}

// parseIDs accepts ids=1,2,3 as well as repeated ids parameters.
func parseIDs(values []string) ([]int64, error) {
	var ids []int64
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseInt(part, 10, 64)
			if err != nil {
				return nil, apperrors.Validation(map[string]string{
					"ids": fmt.Sprintf("'%s' is not a valid id.", part),
				})
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}
