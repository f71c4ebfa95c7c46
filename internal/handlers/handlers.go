package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/xbe-inc/xbe-integration/internal/services"
)

const (
	defaultPageSize = 25
	maxPageSize     = 500
)

type Handler struct {
	records *services.RecordService
}

func New(records *services.RecordService) *Handler {
	return &Handler{
		records: records,
	}
}

// RegisterHandlers mounts the JSON:API routes on router (the /v1 group).
func RegisterHandlers(router gin.IRouter, h *Handler) {
	router.GET("/:resource", h.ListRecords)
	router.POST("/:resource", h.CreateRecord)
	router.GET("/:resource/:id", h.GetRecord)
	router.PATCH("/:resource/:id", h.UpdateRecord)
	router.DELETE("/:resource/:id", h.DeleteRecord)
}
