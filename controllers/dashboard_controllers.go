package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-site/models"
	"github.com/yeremiapane/restaurant-site/newsletter"
	"github.com/yeremiapane/restaurant-site/services"
	"github.com/yeremiapane/restaurant-site/utils"
	"gorm.io/gorm"
)

type DashboardController struct {
	DB    *gorm.DB
	Sheet newsletter.Sheet
	Now   func() time.Time
}

func NewDashboardController(db *gorm.DB, sheet newsletter.Sheet) *DashboardController {
	return &DashboardController{DB: db, Sheet: sheet, Now: time.Now}
}

type DashboardStats struct {
	MenuItems    int64 `json:"menu_items"`
	Categories   int64 `json:"categories"`
	Promos       int64 `json:"promos"`
	LivePromos   int   `json:"live_promos"`
	Posters      int64 `json:"posters"`
	LivePosters  int   `json:"live_posters"`
	Subscribers  int64 `json:"subscribers"`
	PopularItems int64 `json:"popular_items"`
}

func (dc *DashboardController) stats() (DashboardStats, error) {
	var s DashboardStats
	counts := []struct {
		model   interface{}
		popular bool
		dest    *int64
	}{
		{&models.MenuItem{}, false, &s.MenuItems},
		{&models.MenuItem{}, true, &s.PopularItems},
		{&models.Category{}, false, &s.Categories},
		{&models.Promo{}, false, &s.Promos},
		{&models.PromoPoster{}, false, &s.Posters},
		{&models.Subscriber{}, false, &s.Subscribers},
	}
	for _, c := range counts {
		q := dc.DB.Model(c.model)
		if c.popular {
			q = q.Where("is_popular = ?", true)
		}
		if err := q.Count(c.dest).Error; err != nil {
			return s, err
		}
	}

	now := dc.Now()
	var promos []models.Promo
	if err := dc.DB.Where("is_active = ?", true).Find(&promos).Error; err != nil {
		return s, err
	}
	s.LivePromos = len(services.CurrentPromos(promos, now))

	var posters []models.PromoPoster
	if err := dc.DB.Where("is_active = ?", true).Find(&posters).Error; err != nil {
		return s, err
	}
	s.LivePosters = len(services.EligiblePosters(posters, now))
	return s, nil
}

func (dc *DashboardController) GetStats(c *gin.Context) {
	s, err := dc.stats()
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Dashboard stats", s)
}

// DashboardPage renders the admin dashboard with stats and the reorderable
// category list.
func (dc *DashboardController) DashboardPage(c *gin.Context) {
	s, err := dc.stats()
	if err != nil {
		utils.ErrorLogger.Printf("Loading dashboard stats failed: %v", err)
	}
	categories, err := services.LoadOrderedCategories(c.Request.Context(), dc.DB)
	if err != nil {
		utils.ErrorLogger.Printf("Loading dashboard categories failed: %v", err)
	}
	c.HTML(http.StatusOK, "dashboard.html", gin.H{"Stats": s, "Categories": categories})
}

// ExportSubscribers streams the newsletter sheet as CSV.
func (dc *DashboardController) ExportSubscribers(c *gin.Context) {
	rows, err := dc.Sheet.Rows(c.Request.Context())
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	filename := fmt.Sprintf("newsletter-%s.csv", dc.Now().Format("2006-01-02"))
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Status(http.StatusOK)
	if err := newsletter.WriteCSV(c.Writer, rows); err != nil {
		utils.ErrorLogger.Printf("Writing newsletter export failed: %v", err)
	}
}
