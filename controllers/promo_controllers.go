package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/yeremiapane/restaurant-site/live"
	"github.com/yeremiapane/restaurant-site/models"
	"github.com/yeremiapane/restaurant-site/services"
	"github.com/yeremiapane/restaurant-site/utils"
	"gorm.io/gorm"
)

type PromoController struct {
	DB  *gorm.DB
	Hub services.Broadcaster
}

func NewPromoController(db *gorm.DB, hub services.Broadcaster) *PromoController {
	return &PromoController{DB: db, Hub: hub}
}

type promoRequest struct {
	Name          string              `json:"name" binding:"required"`
	Description   string              `json:"description"`
	DiscountType  models.DiscountType `json:"discount_type" binding:"required"`
	DiscountValue decimal.Decimal     `json:"discount_value"`
	StartDate     time.Time           `json:"start_date"`
	EndDate       time.Time           `json:"end_date"`
	IsActive      *bool               `json:"is_active"`
	AppliesTo     models.PromoScope   `json:"applies_to" binding:"required"`
	CategoryIDs   []uint              `json:"category_ids"`
	ItemIDs       []uint              `json:"item_ids"`
	PromoCode     string              `json:"promo_code"`
	MaxUses       *int                `json:"max_uses"`
}

// apply validates the request and copies it onto p. current_uses is never
// touched here.
func (req promoRequest) apply(p *models.Promo) error {
	if !req.DiscountType.Valid() {
		return errors.New("discount_type must be percentage or fixed_amount")
	}
	if !req.AppliesTo.Valid() {
		return errors.New("applies_to must be all_items, specific_categories or specific_items")
	}
	if req.DiscountValue.IsNegative() {
		return errors.New("discount_value must not be negative")
	}
	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		return errors.New("start_date and end_date are required")
	}
	if req.EndDate.Before(req.StartDate) {
		return errors.New("end_date must not be before start_date")
	}
	if req.MaxUses != nil && *req.MaxUses < 0 {
		return errors.New("max_uses must not be negative")
	}

	p.Name = strings.TrimSpace(req.Name)
	p.Description = req.Description
	p.DiscountType = req.DiscountType
	p.DiscountValue = req.DiscountValue
	p.StartDate = req.StartDate
	p.EndDate = req.EndDate
	p.IsActive = req.IsActive == nil || *req.IsActive
	p.AppliesTo = req.AppliesTo
	p.CategoryIDs = req.CategoryIDs
	p.ItemIDs = req.ItemIDs
	p.MaxUses = req.MaxUses
	p.PromoCode = nil
	if code := NormalizePromoCode(req.PromoCode); code != "" {
		p.PromoCode = &code
	}
	p.NormalizeScope()
	return nil
}

// NormalizePromoCode trims and upper-cases a promo code.
func NormalizePromoCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (pc *PromoController) GetAllPromos(c *gin.Context) {
	var promos []models.Promo
	if err := pc.DB.Order("start_date DESC").Order("id DESC").Find(&promos).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All promos", promos)
}

func (pc *PromoController) GetPromoByID(c *gin.Context) {
	id, err := parseID(c, "promo_id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var promo models.Promo
	if err := pc.DB.First(&promo, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("promo not found"))
		return
	}

	var catalog []models.MenuItem
	if err := pc.DB.Find(&catalog).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Promo detail", gin.H{
		"promo":           promo,
		"currently_valid": services.IsPromoCurrentlyValid(promo, time.Now()),
		"items":           services.ItemsForPromo(promo, catalog),
	})
}

func (pc *PromoController) CreatePromo(c *gin.Context) {
	var body promoRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var promo models.Promo
	if err := body.apply(&promo); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if err := pc.DB.Create(&promo).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Promo created: %d %s (%s %s)", promo.ID, promo.Name, promo.DiscountType, promo.DiscountValue)
	broadcast(pc.Hub, live.EventPromoCreated, promo)
	utils.RespondJSON(c, http.StatusCreated, "Promo created", promo)
}

func (pc *PromoController) UpdatePromo(c *gin.Context) {
	id, err := parseID(c, "promo_id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var promo models.Promo
	if err := pc.DB.First(&promo, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("promo not found"))
		return
	}

	var body promoRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if err := body.apply(&promo); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if err := pc.DB.Save(&promo).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	broadcast(pc.Hub, live.EventPromoUpdated, promo)
	utils.RespondJSON(c, http.StatusOK, "Promo updated", promo)
}

func (pc *PromoController) DeletePromo(c *gin.Context) {
	id, err := parseID(c, "promo_id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	res := pc.DB.Delete(&models.Promo{}, id)
	if res.Error != nil {
		utils.RespondError(c, http.StatusInternalServerError, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		utils.RespondError(c, http.StatusNotFound, errors.New("promo not found"))
		return
	}

	broadcast(pc.Hub, live.EventPromoDeleted, gin.H{"promo_id": id})
	utils.RespondJSON(c, http.StatusOK, "Promo deleted", gin.H{"promo_id": id})
}
