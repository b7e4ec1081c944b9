package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/legal-services-api/internal/model"
	apperrors "github.com/jwalitptl/legal-services-api/pkg/errors"
)

const actorKey = "actor"

type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Status: "success",
		Data:   data,
	}
}

func NewErrorResponse(message string) *Response {
	return &Response{
		Status:  "error",
		Message: message,
	}
}

// RespondWithError writes err as an error envelope. Application errors keep
// their status and message; anything else is logged and reported as a 500.
func RespondWithError(c *gin.Context, err error) {
	appErr, ok := apperrors.As(err)
	if !ok || appErr.Code == apperrors.ErrInternal {
		log.Error().
			Err(err).
			Str("request_id", c.GetString("request_id")).
			Str("path", c.FullPath()).
			Msg("request failed")
		c.JSON(http.StatusInternalServerError, NewErrorResponse("internal server error"))
		return
	}

	resp := NewErrorResponse(appErr.Message)
	if len(appErr.Fields) > 0 {
		resp.Data = gin.H{"fields": appErr.Fields}
	}
	c.JSON(appErr.StatusCode(), resp)
}

// SetActor stores the resolved caller on the request context.
func SetActor(c *gin.Context, actor *model.Actor) {
	c.Set(actorKey, actor)
}

// Actor returns the caller, or nil for anonymous requests.
func Actor(c *gin.Context) *model.Actor {
	if v, ok := c.Get(actorKey); ok {
		if actor, ok := v.(*model.Actor); ok {
			return actor
		}
	}
	return nil
}

// ParseID reads a numeric path parameter. Malformed ids answer 404 like an
// unknown id would.
func ParseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusNotFound, NewErrorResponse("not found"))
		return 0, false
	}
	return id, true
}

// QueryInt64 reads an optional integer query parameter.
func QueryInt64(c *gin.Context, name string) (int64, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apperrors.Validation(map[string]string{name: "Enter a whole number."})
	}
	return n, nil
}

// QueryBool reads an optional boolean query parameter.
func QueryBool(c *gin.Context, name string) (*bool, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, apperrors.Validation(map[string]string{name: "Enter a valid boolean."})
	}
	return &b, nil
}

// BindJSON decodes the request body, answering 400 on malformed input.
func BindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse("invalid request body: "+err.Error()))
		return false
	}
	return true
}
