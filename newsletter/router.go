package newsletter

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-site/middlewares"
)

// NewRouter builds the standalone signup endpoint.
func NewRouter(svc *Service, origins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.CORSMiddlewares(origins, "GET", "POST", "OPTIONS"))

	h := NewHandler(svc)
	limiter := middlewares.NewRateLimiter(20, time.Minute)

	signup := r.Group("/", limiter.RateLimit())
	{
		signup.GET("/", h.Subscribe)
		signup.POST("/", h.Subscribe)
		signup.GET("/subscribe", h.Subscribe)
		signup.POST("/subscribe", h.Subscribe)
	}
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})
	return r
}
