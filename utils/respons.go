package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type JSONResponse struct {
	Status  bool        `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorStatus maps a sentinel error to the HTTP status it is answered with.
type ErrorStatus struct {
	Err  error
	Code int
}

// StatusFor returns the code of the first mapping whose error matches err,
// falling back to 500.
func StatusFor(err error, mappings ...ErrorStatus) int {
	for _, m := range mappings {
		if errors.Is(err, m.Err) {
			return m.Code
		}
	}
	return http.StatusInternalServerError
}

func RespondJSON(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, JSONResponse{
		Status:  code >= 200 && code < 300,
		Message: message,
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, err error) {
	RespondErrorData(c, code, err, nil)
}

// RespondErrorData reports err and still carries a payload, e.g. the stored
// state a client should fall back to.
func RespondErrorData(c *gin.Context, code int, err error, data interface{}) {
	c.JSON(code, JSONResponse{
		Status:  false,
		Message: err.Error(),
		Data:    data,
	})
}
