package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	srvErrors "github.com/xbe-inc/xbe-integration/pkg/errors"
	"github.com/xbe-inc/xbe-integration/pkg/jsonapi"
)

// ListRecords returns a page of records
// (GET /v1/:resource)
func (h *Handler) ListRecords(c *gin.Context) {
	params, err := jsonapi.ParseListParams(c.Request.URL.Query(), defaultPageSize)
	if err != nil {
		renderError(c, srvErrors.NewUsageError("%v", err))
		return
	}
	params.Limit = min(params.Limit, maxPageSize)

	result, err := h.records.List(c.Request.Context(), c.Param("resource"), params)
	if err != nil {
		renderError(c, err)
		return
	}

	resources := make([]jsonapi.Resource, 0, len(result.Records))
	for _, r := range result.Records {
		resources = append(resources, r.Resource())
	}
	doc, err := jsonapi.NewListDocument(resources, map[string]any{"record-count": result.Total})
	if err != nil {
		renderError(c, err)
		return
	}
	render(c, http.StatusOK, doc)
}

// GetRecord returns one record
// (GET /v1/:resource/:id)
func (h *Handler) GetRecord(c *gin.Context) {
	r, err := h.records.Get(c.Request.Context(), c.Param("resource"), c.Param("id"))
	if err != nil {
		renderError(c, err)
		return
	}
	renderResource(c, http.StatusOK, r.Resource())
}

// CreateRecord stores a new record
// (POST /v1/:resource)
func (h *Handler) CreateRecord(c *gin.Context) {
	body, err := readResource(c)
	if err != nil {
		renderError(c, err)
		return
	}

	r, err := h.records.Create(c.Request.Context(), c.Param("resource"), body)
	if err != nil {
		renderError(c, err)
		return
	}
	renderResource(c, http.StatusCreated, r.Resource())
}

// UpdateRecord changes the members present in the body
// (PATCH /v1/:resource/:id)
func (h *Handler) UpdateRecord(c *gin.Context) {
	body, err := readResource(c)
	if err != nil {
		renderError(c, err)
		return
	}

	r, err := h.records.Update(c.Request.Context(), c.Param("resource"), c.Param("id"), body)
	if err != nil {
		renderError(c, err)
		return
	}
	renderResource(c, http.StatusOK, r.Resource())
}

// DeleteRecord removes a record
// (DELETE /v1/:resource/:id)
func (h *Handler) DeleteRecord(c *gin.Context) {
	if err := h.records.Delete(c.Request.Context(), c.Param("resource"), c.Param("id")); err != nil {
		renderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func readResource(c *gin.Context) (jsonapi.Resource, error) {
	data, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return jsonapi.Resource{}, srvErrors.NewUsageError("failed to read body: %v", err)
	}
	var doc jsonapi.Document
	if err := jsonapi.Decode(data, &doc); err != nil {
		return jsonapi.Resource{}, srvErrors.NewUsageError("malformed JSON:API document: %v", err)
	}
	r, err := doc.One()
	if err != nil {
		return jsonapi.Resource{}, srvErrors.NewUsageError("%v", err)
	}
	return *r, nil
}

func renderResource(c *gin.Context, status int, r jsonapi.Resource) {
	doc, err := jsonapi.NewDocument(r)
	if err != nil {
		renderError(c, err)
		return
	}
	render(c, status, doc)
}

func render(c *gin.Context, status int, doc *jsonapi.Document) {
	data, err := json.Marshal(doc)
	if err != nil {
		zap.S().Named("sandbox").Errorw("failed to encode response", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Data(status, jsonapi.MediaType, data)
}
