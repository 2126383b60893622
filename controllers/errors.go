package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/dressmaker-orders-api/logger"
	"github.com/kendall-kelly/dressmaker-orders-api/middleware"
	"github.com/kendall-kelly/dressmaker-orders-api/services"
	"github.com/kendall-kelly/dressmaker-orders-api/utils"
	"go.mongodb.org/mongo-driver/mongo"
)

type errorMapping struct {
	err    error
	status int
	code   string
}

var errorMappings = []errorMapping{
	{services.ErrOrderNotFound, http.StatusNotFound, "ORDER_NOT_FOUND"},
	{services.ErrMemberNotFound, http.StatusNotFound, "MEMBER_NOT_FOUND"},
	{services.ErrTailorNotFound, http.StatusNotFound, "TAILOR_NOT_FOUND"},
	{services.ErrNotATailor, http.StatusNotFound, "TAILOR_NOT_FOUND"},
	{services.ErrInvalidStatus, http.StatusBadRequest, "INVALID_STATUS"},
	{services.ErrInvalidTailorStatus, http.StatusBadRequest, "INVALID_TAILOR_STATUS"},
	{services.ErrInvalidTransition, http.StatusConflict, "INVALID_TRANSITION"},
	{services.ErrTailorMismatch, http.StatusForbidden, "FORBIDDEN"},
	{services.ErrOrderNumberTaken, http.StatusConflict, "ORDER_NUMBER_EXISTS"},
	{services.ErrInvalidAmount, http.StatusBadRequest, "VALIDATION_ERROR"},
	{services.ErrCustomerRequired, http.StatusBadRequest, "VALIDATION_ERROR"},
	{services.ErrInvalidRole, http.StatusBadRequest, "VALIDATION_ERROR"},
	{services.ErrLineUserIDRequired, http.StatusBadRequest, "VALIDATION_ERROR"},
	{services.ErrInvalidCredentials, http.StatusUnauthorized, "UNAUTHORIZED"},
}

// errorStatus maps a service error to its HTTP status and error code.
// Unknown errors are 500.
func errorStatus(err error) (int, string) {
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			return m.status, m.code
		}
	}

	var uploadErr *utils.FileUploadError
	if errors.As(err, &uploadErr) {
		return http.StatusBadRequest, uploadErr.Code
	}

	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) || mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
		return http.StatusInternalServerError, "DATABASE_ERROR"
	}
	return http.StatusInternalServerError, "INTERNAL_ERROR"
}

// handleError answers with the mapped error envelope. 500s are logged and
// the client only sees a generic message.
func handleError(c *gin.Context, err error) {
	status, code := errorStatus(err)
	if status >= http.StatusInternalServerError {
		logger.Errorw("request_failed",
			"request_id", middleware.GetRequestID(c),
			"path", c.FullPath(),
			"error", err,
		)
		_ = c.Error(err)
		respondError(c, status, code, "Something went wrong, please try again")
		return
	}
	respondError(c, status, code, err.Error())
}
