package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-site/live"
	"github.com/yeremiapane/restaurant-site/models"
	"github.com/yeremiapane/restaurant-site/services"
	"github.com/yeremiapane/restaurant-site/utils"
	"gorm.io/gorm"
)

type CategoryController struct {
	DB        *gorm.DB
	Reorderer *services.CategoryReorderer
	Hub       services.Broadcaster
}

func NewCategoryController(db *gorm.DB, hub services.Broadcaster) *CategoryController {
	return &CategoryController{
		DB:        db,
		Reorderer: services.NewCategoryReorderer(db),
		Hub:       hub,
	}
}

type categoryRequest struct {
	Name     string `json:"name" binding:"required"`
	Icon     string `json:"icon"`
	Gradient string `json:"gradient"`
}

// GetAllCategories lists categories in display order.
func (cc *CategoryController) GetAllCategories(c *gin.Context) {
	categories, err := services.LoadOrderedCategories(c.Request.Context(), cc.DB)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All categories", categories)
}

// CreateCategory appends a category after the current last one.
func (cc *CategoryController) CreateCategory(c *gin.Context) {
	var body categoryRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if strings.TrimSpace(body.Name) == "" {
		utils.RespondError(c, http.StatusBadRequest, errors.New("name is required"))
		return
	}

	next, err := cc.Reorderer.NextSortOrder(c.Request.Context())
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	category := models.Category{
		Name:      strings.TrimSpace(body.Name),
		Icon:      body.Icon,
		Gradient:  body.Gradient,
		SortOrder: next,
	}
	if err := cc.DB.Create(&category).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	broadcast(cc.Hub, live.EventCategoryCreated, category)
	utils.RespondJSON(c, http.StatusCreated, "Category created", category)
}

func (cc *CategoryController) UpdateCategory(c *gin.Context) {
	id, err := parseID(c, "category_id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var body categoryRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if strings.TrimSpace(body.Name) == "" {
		utils.RespondError(c, http.StatusBadRequest, errors.New("name is required"))
		return
	}

	var category models.Category
	if err := cc.DB.First(&category, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("category not found"))
		return
	}

	category.Name = strings.TrimSpace(body.Name)
	category.Icon = body.Icon
	category.Gradient = body.Gradient
	if err := cc.DB.Save(&category).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	broadcast(cc.Hub, live.EventCategoryUpdated, category)
	utils.RespondJSON(c, http.StatusOK, "Category updated", category)
}

// DeleteCategory refuses while menu items still reference the category, then
// renumbers the rest so sort orders stay dense.
func (cc *CategoryController) DeleteCategory(c *gin.Context) {
	id, err := parseID(c, "category_id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var category models.Category
	if err := cc.DB.First(&category, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("category not found"))
		return
	}

	var items int64
	if err := cc.DB.Model(&models.MenuItem{}).Where("category_id = ?", id).Count(&items).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if items > 0 {
		utils.RespondError(c, http.StatusConflict, errors.New("category still has menu items"))
		return
	}

	if err := cc.DB.Delete(&category).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	categories, err := cc.Reorderer.Renumber(c.Request.Context())
	if err != nil {
		utils.ErrorLogger.Printf("Renumbering categories after delete of %d failed: %v", id, err)
	}

	broadcast(cc.Hub, live.EventCategoryDeleted, gin.H{"category_id": id})
	utils.RespondJSON(c, http.StatusOK, "Category deleted", categories)
}

var reorderErrors = []utils.ErrorStatus{
	{Err: services.ErrReorderInProgress, Code: http.StatusConflict},
	{Err: services.ErrInvalidIndex, Code: http.StatusBadRequest},
}

// ReorderCategories moves the category at index from to index to.
func (cc *CategoryController) ReorderCategories(c *gin.Context) {
	var body struct {
		From *int `json:"from" binding:"required"`
		To   *int `json:"to" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	categories, err := cc.Reorderer.Reorder(c.Request.Context(), *body.From, *body.To)
	if err != nil {
		code := utils.StatusFor(err, reorderErrors...)
		if code != http.StatusInternalServerError {
			utils.RespondError(c, code, err)
			return
		}
		// The stored order goes back with the error so the dashboard can replace its optimistic order.
		utils.RespondErrorData(c, code, err, categories)
		return
	}

	broadcast(cc.Hub, live.EventCategoriesReordered, categories)
	utils.RespondJSON(c, http.StatusOK, "Categories reordered", categories)
}
