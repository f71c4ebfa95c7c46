package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	srvErrors "github.com/xbe-inc/xbe-integration/pkg/errors"
	"github.com/xbe-inc/xbe-integration/pkg/jsonapi"
)

// renderError maps service errors to JSON:API error documents.
func renderError(c *gin.Context, err error) {
	status, objects := errorObjects(err)
	if status == http.StatusInternalServerError {
		zap.S().Named("sandbox").Errorw("request failed", "method", c.Request.Method, "path", c.Request.URL.Path, "error", err)
	}
	render(c, status, jsonapi.NewErrorDocument(objects...))
}

// AbortWithError renders err and stops the middleware chain.
func AbortWithError(c *gin.Context, err error) {
	renderError(c, err)
	c.Abort()
}

func errorObjects(err error) (int, []jsonapi.ErrorObject) {
	var validation *srvErrors.ValidationError
	if errors.As(err, &validation) {
		objects := make([]jsonapi.ErrorObject, 0, len(validation.Messages))
		for _, msg := range validation.Messages {
			objects = append(objects, errorObject(http.StatusUnprocessableEntity, "Record Invalid", msg))
		}
		return http.StatusUnprocessableEntity, objects
	}

	switch {
	case srvErrors.IsResourceNotFoundError(err):
		return http.StatusNotFound, []jsonapi.ErrorObject{errorObject(http.StatusNotFound, "Not Found", err.Error())}
	case srvErrors.IsConflictError(err):
		return http.StatusConflict, []jsonapi.ErrorObject{errorObject(http.StatusConflict, "Conflict", err.Error())}
	case srvErrors.IsUnauthorizedError(err):
		return http.StatusUnauthorized, []jsonapi.ErrorObject{errorObject(http.StatusUnauthorized, "Not Authorized", "")}
	case srvErrors.IsUsageError(err):
		return http.StatusBadRequest, []jsonapi.ErrorObject{errorObject(http.StatusBadRequest, "Bad Request", err.Error())}
	}

	var apiErr *srvErrors.APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode, []jsonapi.ErrorObject{errorObject(apiErr.StatusCode, http.StatusText(apiErr.StatusCode), "")}
	}
	return http.StatusInternalServerError, []jsonapi.ErrorObject{errorObject(http.StatusInternalServerError, "Internal Server Error", "")}
}

func errorObject(status int, title, detail string) jsonapi.ErrorObject {
	return jsonapi.ErrorObject{
		Status: strconv.Itoa(status),
		Title:  title,
		Detail: detail,
	}
}
