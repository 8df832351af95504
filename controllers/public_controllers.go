package controllers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-site/models"
	"github.com/yeremiapane/restaurant-site/newsletter"
	"github.com/yeremiapane/restaurant-site/services"
	"github.com/yeremiapane/restaurant-site/utils"
	"gorm.io/gorm"
)

// NewsletterForwarder sends a signup to the newsletter endpoint.
type NewsletterForwarder interface {
	Subscribe(ctx context.Context, email string) (newsletter.Response, error)
}

type PublicController struct {
	DB         *gorm.DB
	Newsletter NewsletterForwarder
	Now        func() time.Time
}

func NewPublicController(db *gorm.DB, forwarder NewsletterForwarder) *PublicController {
	return &PublicController{DB: db, Newsletter: forwarder, Now: time.Now}
}

// MenuSection is one category of the public menu with priced items.
type MenuSection struct {
	Category models.Category       `json:"category"`
	Items    []services.PricedItem `json:"items"`
}

type catalog struct {
	categories []models.Category
	items      []models.MenuItem
	promos     []models.Promo
}

func (pc *PublicController) loadCatalog(ctx context.Context) (catalog, error) {
	var cat catalog
	var err error
	if cat.categories, err = services.LoadOrderedCategories(ctx, pc.DB); err != nil {
		return cat, err
	}
	if err = pc.DB.WithContext(ctx).Order("is_popular DESC").Order("name ASC").Find(&cat.items).Error; err != nil {
		return cat, err
	}
	if err = pc.DB.WithContext(ctx).Where("is_active = ?", true).Order("id ASC").Find(&cat.promos).Error; err != nil {
		return cat, err
	}
	return cat, nil
}

func (pc *PublicController) activePosters(ctx context.Context) ([]models.PromoPoster, error) {
	var posters []models.PromoPoster
	if err := pc.DB.WithContext(ctx).Where("is_active = ?", true).Order("created_at DESC").Find(&posters).Error; err != nil {
		return nil, err
	}
	return services.EligiblePosters(posters, pc.Now()), nil
}

// BuildSections groups priced items under their categories, skipping empty
// categories.
func BuildSections(categories []models.Category, priced []services.PricedItem) []MenuSection {
	byCategory := make(map[uint][]services.PricedItem)
	for _, p := range priced {
		byCategory[p.CategoryID] = append(byCategory[p.CategoryID], p)
	}
	sections := []MenuSection{}
	for _, cat := range categories {
		if items := byCategory[cat.ID]; len(items) > 0 {
			sections = append(sections, MenuSection{Category: cat, Items: items})
		}
	}
	return sections
}

// SitePage renders the single public page.
func (pc *PublicController) SitePage(c *gin.Context) {
	ctx := c.Request.Context()
	cat, err := pc.loadCatalog(ctx)
	if err != nil {
		utils.ErrorLogger.Printf("Loading menu for site page failed: %v", err)
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"Message": "The menu is unavailable right now."})
		return
	}
	posters, err := pc.activePosters(ctx)
	if err != nil {
		utils.ErrorLogger.Printf("Loading posters for site page failed: %v", err)
	}

	now := pc.Now()
	priced := services.PriceCatalog(cat.items, cat.promos, now)
	c.HTML(http.StatusOK, "index.html", gin.H{
		"Sections": BuildSections(cat.categories, priced),
		"Posters":  posters,
		"Promos":   services.CurrentPromos(cat.promos, now),
		"Year":     now.Year(),
	})
}

func (pc *PublicController) GetCategories(c *gin.Context) {
	categories, err := services.LoadOrderedCategories(c.Request.Context(), pc.DB)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Categories", categories)
}

// GetMenu returns every item priced against the live promos. With
// ?grouped=true the items are grouped by category.
func (pc *PublicController) GetMenu(c *gin.Context) {
	cat, err := pc.loadCatalog(c.Request.Context())
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	priced := services.PriceCatalog(cat.items, cat.promos, pc.Now())
	if formBool(c.Query("grouped")) {
		utils.RespondJSON(c, http.StatusOK, "Menu", BuildSections(cat.categories, priced))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu", priced)
}

func (pc *PublicController) GetActivePromos(c *gin.Context) {
	var promos []models.Promo
	if err := pc.DB.Where("is_active = ?", true).Order("end_date ASC").Find(&promos).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Active promos", services.CurrentPromos(promos, pc.Now()))
}

func (pc *PublicController) GetActivePosters(c *gin.Context) {
	posters, err := pc.activePosters(c.Request.Context())
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Active posters", posters)
}

// GetPromoByCode looks up a promo code that can be redeemed right now. The
// lookup does not count as a use.
func (pc *PublicController) GetPromoByCode(c *gin.Context) {
	code := NormalizePromoCode(c.Param("code"))
	if code == "" {
		utils.RespondError(c, http.StatusBadRequest, errors.New("promo code is required"))
		return
	}

	var promo models.Promo
	if err := pc.DB.Where("promo_code = ?", code).First(&promo).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("promo code not found"))
		return
	}
	if !services.IsPromoCurrentlyValid(promo, pc.Now()) || !services.WithinUsageLimit(promo) {
		utils.RespondError(c, http.StatusGone, errors.New("promo code is not valid right now"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Promo code is valid", promo)
}

// Subscribe forwards a newsletter signup and relays the endpoint's answer.
func (pc *PublicController) Subscribe(c *gin.Context) {
	var body struct {
		Email string `json:"email" form:"email"`
	}
	if err := c.ShouldBind(&body); err != nil {
		c.JSON(http.StatusBadRequest, newsletter.Response{Success: false, Message: err.Error()})
		return
	}
	email := strings.TrimSpace(body.Email)
	if email == "" {
		c.JSON(http.StatusBadRequest, newsletter.Response{Success: false, Message: newsletter.ErrEmailRequired.Error()})
		return
	}

	resp, err := pc.Newsletter.Subscribe(c.Request.Context(), email)
	if err != nil {
		utils.ErrorLogger.Printf("Newsletter forward failed: %v", err)
		c.JSON(http.StatusBadGateway, newsletter.Response{Success: false, Message: "Could not reach the newsletter service, please try again later"})
		return
	}
	c.JSON(http.StatusOK, resp)
}
