package router

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-site/controllers"
	"github.com/yeremiapane/restaurant-site/live"
	"github.com/yeremiapane/restaurant-site/middlewares"
	"github.com/yeremiapane/restaurant-site/newsletter"
	"github.com/yeremiapane/restaurant-site/services"
	"github.com/yeremiapane/restaurant-site/storage"
	"github.com/yeremiapane/restaurant-site/utils"
	"github.com/yeremiapane/restaurant-site/web"
	"gorm.io/gorm"
)

// Deps is everything the HTTP layer needs.
type Deps struct {
	DB          *gorm.DB
	Bucket      *storage.Bucket
	Hub         *live.Hub
	Newsletter  controllers.NewsletterForwarder
	Sheet       newsletter.Sheet
	SessionTTL  time.Duration
	CORSOrigins []string
	// Monitor, when set, sweeps the rate limiters on its tick.
	Monitor *services.ScheduleMonitor
}

func SetupRouter(d Deps) (*gin.Engine, error) {
	if d.DB == nil || d.Bucket == nil {
		return nil, errors.New("router: database and bucket are required")
	}
	if d.Newsletter == nil {
		return nil, errors.New("router: newsletter forwarder is required")
	}
	if d.Hub == nil {
		d.Hub = live.NewHub()
	}
	if d.Sheet == nil {
		d.Sheet = newsletter.NewGormSheet(d.DB)
	}
	if d.SessionTTL == 0 {
		d.SessionTTL = 24 * time.Hour
	}

	tmpl, err := web.Templates()
	if err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares(d.CORSOrigins))
	r.SetHTMLTemplate(tmpl)

	// Only image files are served from the bucket.
	storagePath := "/storage/" + d.Bucket.Name
	r.Use(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, storagePath+"/") && !storage.AllowedImage(filepath.Base(c.Request.URL.Path)) {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}
		c.Next()
	})
	r.Static(storagePath, d.Bucket.Root())

	media := controllers.NewMedia(d.Bucket)
	authCtrl := controllers.NewAuthController(d.DB, d.SessionTTL)
	publicCtrl := controllers.NewPublicController(d.DB, d.Newsletter)
	categoryCtrl := controllers.NewCategoryController(d.DB, d.Hub)
	menuCtrl := controllers.NewMenuItemController(d.DB, media, d.Hub)
	promoCtrl := controllers.NewPromoController(d.DB, d.Hub)
	posterCtrl := controllers.NewPosterController(d.DB, media, d.Hub)
	dashboardCtrl := controllers.NewDashboardController(d.DB, d.Sheet)
	liveCtrl := controllers.NewLiveController(d.Hub)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/", publicCtrl.SitePage)
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	signupLimiter := middlewares.NewRateLimiter(10, time.Minute)
	api := r.Group("/api")
	{
		api.GET("/categories", publicCtrl.GetCategories)
		api.GET("/menu", publicCtrl.GetMenu)
		api.GET("/promos/active", publicCtrl.GetActivePromos)
		api.GET("/promos/code/:code", publicCtrl.GetPromoByCode)
		api.GET("/posters/active", publicCtrl.GetActivePosters)
		api.POST("/newsletter", signupLimiter.RateLimit(), publicCtrl.Subscribe)
	}

	// ----------------------------------------------------------------
	//                      ADMIN PAGES
	// ----------------------------------------------------------------
	loginLimiter := middlewares.NewLoginLimiter(6*time.Second, 10)
	if d.Monitor != nil {
		d.Monitor.AddPruner(signupLimiter)
		d.Monitor.AddPruner(loginLimiter)
	}
	r.GET("/admin/login", authCtrl.LoginPage)
	r.POST("/admin/login", loginLimiter.Limit(), authCtrl.Login)
	r.POST("/admin/logout", authCtrl.Logout)
	r.GET("/admin", func(c *gin.Context) {
		c.Redirect(http.StatusSeeOther, "/admin/dashboard")
	})

	pages := r.Group("/admin", middlewares.PageAuthMiddleware(d.DB))
	{
		pages.GET("/dashboard", dashboardCtrl.DashboardPage)
		pages.GET("/ws", liveCtrl.HandleWebSocket)
	}

	// ----------------------------------------------------------------
	//                      ADMIN API
	// ----------------------------------------------------------------
	admin := r.Group("/admin/api", middlewares.AuthMiddleware(d.DB))
	{
		admin.GET("/dashboard", dashboardCtrl.GetStats)
		admin.GET("/live", liveCtrl.LiveStatus)
		admin.GET("/newsletter/export", dashboardCtrl.ExportSubscribers)

		admin.GET("/categories", categoryCtrl.GetAllCategories)
		admin.POST("/categories", categoryCtrl.CreateCategory)
		admin.PUT("/categories/reorder", categoryCtrl.ReorderCategories)
		admin.PUT("/categories/:category_id", categoryCtrl.UpdateCategory)
		admin.DELETE("/categories/:category_id", categoryCtrl.DeleteCategory)

		admin.GET("/menu-items", menuCtrl.GetAllMenuItems)
		admin.POST("/menu-items", menuCtrl.CreateMenuItem)
		admin.GET("/menu-items/:item_id", menuCtrl.GetMenuItemByID)
		admin.PUT("/menu-items/:item_id", menuCtrl.UpdateMenuItem)
		admin.DELETE("/menu-items/:item_id", menuCtrl.DeleteMenuItem)

		admin.GET("/promos", promoCtrl.GetAllPromos)
		admin.POST("/promos", promoCtrl.CreatePromo)
		admin.GET("/promos/:promo_id", promoCtrl.GetPromoByID)
		admin.PUT("/promos/:promo_id", promoCtrl.UpdatePromo)
		admin.DELETE("/promos/:promo_id", promoCtrl.DeletePromo)

		admin.GET("/posters", posterCtrl.GetAllPosters)
		admin.POST("/posters", posterCtrl.CreatePoster)
		admin.GET("/posters/:poster_id", posterCtrl.GetPosterByID)
		admin.PUT("/posters/:poster_id", posterCtrl.UpdatePoster)
		admin.DELETE("/posters/:poster_id", posterCtrl.DeletePoster)
	}

	r.NoRoute(func(c *gin.Context) {
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/api/") || strings.HasPrefix(path, "/admin/api/") {
			utils.RespondJSON(c, http.StatusNotFound, "Route not found", nil)
			return
		}
		c.HTML(http.StatusNotFound, "404.html", gin.H{"Path": path})
	})

	return r, nil
}
