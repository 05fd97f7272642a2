package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/flicky/gourmethub-api/internal/dto"
	"github.com/flicky/gourmethub-api/internal/validation"
)

func ok(c *gin.Context, status int, data any) {
	c.JSON(status, dto.Envelope{Success: true, Data: data})
}

func okMessage(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, dto.Envelope{Success: true, Message: msg})
}

func fail(c *gin.Context, status int, msg string) {
	c.JSON(status, dto.Envelope{Success: false, Error: msg})
}

func badRequest(c *gin.Context, err error) {
	fail(c, http.StatusBadRequest, err.Error())
}

// validationFailed writes a 400 with the field map when err carries one.
func validationFailed(c *gin.Context, err error) bool {
	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		return false
	}
	c.JSON(http.StatusBadRequest, dto.Envelope{Success: false, Error: "Validation failed", Errors: verrs})
	return true
}

// internalError logs the cause and answers with a generic message.
func internalError(c *gin.Context, log *slog.Logger, msg string, err error) {
	log.Error(msg, "error", err, "method", c.Request.Method, "path", c.FullPath())
	fail(c, http.StatusInternalServerError, msg)
}

func paramID(c *gin.Context, name, what string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid "+what+" ID")
		return uuid.Nil, false
	}
	return id, true
}
