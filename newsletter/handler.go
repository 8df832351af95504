package newsletter

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-site/utils"
)

// Response is the body returned by the signup endpoint.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type Handler struct {
	Service *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Service: svc}
}

// Subscribe handles GET and POST signups. The email may come from the query
// string, a form body or a JSON body.
func (h *Handler) Subscribe(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		email = c.PostForm("email")
	}
	if email == "" && c.ContentType() == "application/json" {
		var body struct {
			Email string `json:"email"`
		}
		if err := c.ShouldBindJSON(&body); err == nil {
			email = body.Email
		}
	}

	_, err := h.Service.Subscribe(c.Request.Context(), email)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, Response{Success: true, Message: MessageSubscribed})
	case errors.Is(err, ErrEmailRequired), errors.Is(err, ErrInvalidEmail), errors.Is(err, ErrAlreadySubscribed):
		c.JSON(http.StatusOK, Response{Success: false, Message: err.Error()})
	default:
		utils.ErrorLogger.Printf("Newsletter signup failed: %v", err)
		c.JSON(http.StatusInternalServerError, Response{Success: false, Message: "Something went wrong, please try again later"})
	}
}
