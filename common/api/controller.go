package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

const httpStatusCodeInternalError = 600

// Controller handles a request and returns the response data.
type Controller func(c *gin.Context) (interface{}, error)

// ErrorMapper converts a domain error into a business error. It returns nil
// for errors it does not know.
type ErrorMapper func(err error) *BusinessError

// Wrap adapts a controller to gin, rendering the result or error in a
// BusinessError envelope.
func Wrap(controller Controller, mappers ...ErrorMapper) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := controller(c)
		if err != nil {
			c.JSON(statusOf(err, mappers))
		} else if result == nil {
			c.JSON(http.StatusOK, ErrNil)
		} else {
			c.JSON(http.StatusOK, ErrNil.WithData(result))
		}
	}
}

func statusOf(err error, mappers []ErrorMapper) (int, *BusinessError) {
	var be *BusinessError
	if errors.As(err, &be) {
		// custom business error
		return http.StatusOK, be
	}

	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		// binding error
		return http.StatusOK, ErrValidation.WithData(ve.Error())
	}

	for _, mapper := range mappers {
		if be := mapper(err); be != nil {
			return http.StatusOK, be
		}
	}

	// internal server error
	return httpStatusCodeInternalError, ErrInternal.WithData(err.Error())
}
