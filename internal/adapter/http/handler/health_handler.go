package handler

import (
	"net/http"

	. "todoapi/internal/adapter/http/helper"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	driver string
}

func NewHealthHandler(driver string) *HealthHandler {
	return &HealthHandler{driver: driver}
}

// Health reports liveness only; it never touches the store.
func (h *HealthHandler) Health(c *gin.Context) {
	SendSuccess(c, http.StatusOK, gin.H{
		"status": "ok",
		"store":  h.driver,
	})
}
