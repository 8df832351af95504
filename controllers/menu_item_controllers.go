package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/yeremiapane/restaurant-site/live"
	"github.com/yeremiapane/restaurant-site/models"
	"github.com/yeremiapane/restaurant-site/services"
	"github.com/yeremiapane/restaurant-site/storage"
	"github.com/yeremiapane/restaurant-site/utils"
	"gorm.io/gorm"
)

type MenuItemController struct {
	DB    *gorm.DB
	Media *Media
	Hub   services.Broadcaster
}

func NewMenuItemController(db *gorm.DB, media *Media, hub services.Broadcaster) *MenuItemController {
	return &MenuItemController{DB: db, Media: media, Hub: hub}
}

func (mc *MenuItemController) GetAllMenuItems(c *gin.Context) {
	query := mc.DB.Preload("Category").Order("category_id ASC").Order("name ASC")
	if cat := c.Query("category_id"); cat != "" {
		query = query.Where("category_id = ?", cat)
	}

	var items []models.MenuItem
	if err := query.Find(&items).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All menu items", items)
}

func (mc *MenuItemController) GetMenuItemByID(c *gin.Context) {
	id, err := parseID(c, "item_id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var item models.MenuItem
	if err := mc.DB.Preload("Category").First(&item, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("menu item not found"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu item detail", item)
}

// CreateMenuItem reads a multipart form with an optional "image" file.
func (mc *MenuItemController) CreateMenuItem(c *gin.Context) {
	var item models.MenuItem
	if err := mc.applyForm(c, &item, true); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	url, err := mc.Media.Upload(c, "image", storage.FolderMenuItems)
	if err != nil {
		utils.RespondError(c, uploadStatus(err), err)
		return
	}
	item.ImageURL = url

	if err := mc.DB.Create(&item).Error; err != nil {
		mc.Media.Remove(url)
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Menu item created: %d %s", item.ID, item.Name)
	broadcast(mc.Hub, live.EventMenuItemCreated, item)
	utils.RespondJSON(c, http.StatusCreated, "Menu item created", item)
}

// UpdateMenuItem changes only the fields present in the form. A new image
// replaces the old one, which is then removed.
func (mc *MenuItemController) UpdateMenuItem(c *gin.Context) {
	id, err := parseID(c, "item_id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var item models.MenuItem
	if err := mc.DB.First(&item, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("menu item not found"))
		return
	}

	if err := mc.applyForm(c, &item, false); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	url, err := mc.Media.Upload(c, "image", storage.FolderMenuItems)
	if err != nil {
		utils.RespondError(c, uploadStatus(err), err)
		return
	}
	oldURL := item.ImageURL
	if url != "" {
		item.ImageURL = url
	} else if _, ok := c.GetPostForm("remove_image"); ok && formBool(c.PostForm("remove_image")) {
		item.ImageURL = ""
	}

	item.Category = nil
	if err := mc.DB.Save(&item).Error; err != nil {
		mc.Media.Remove(url)
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if item.ImageURL != oldURL {
		mc.Media.Remove(oldURL)
	}

	broadcast(mc.Hub, live.EventMenuItemUpdated, item)
	utils.RespondJSON(c, http.StatusOK, "Menu item updated", item)
}

func (mc *MenuItemController) DeleteMenuItem(c *gin.Context) {
	id, err := parseID(c, "item_id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var item models.MenuItem
	if err := mc.DB.First(&item, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("menu item not found"))
		return
	}
	if err := mc.DB.Delete(&item).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	mc.Media.Remove(item.ImageURL)

	broadcast(mc.Hub, live.EventMenuItemDeleted, gin.H{"item_id": id})
	utils.RespondJSON(c, http.StatusOK, "Menu item deleted", gin.H{"item_id": id})
}

// applyForm copies form fields onto item. With required set, name, price
// and category_id must all be present.
func (mc *MenuItemController) applyForm(c *gin.Context, item *models.MenuItem, required bool) error {
	if name, ok := c.GetPostForm("name"); ok || required {
		name = strings.TrimSpace(name)
		if name == "" {
			return errors.New("name is required")
		}
		item.Name = name
	}
	if desc, ok := c.GetPostForm("description"); ok {
		item.Description = strings.TrimSpace(desc)
	}

	if raw, ok := c.GetPostForm("price"); ok || required {
		price, err := decimal.NewFromString(strings.TrimSpace(raw))
		if err != nil {
			return errors.New("invalid price")
		}
		if price.IsNegative() {
			return errors.New("price must not be negative")
		}
		item.Price = price.Round(2)
	}

	if raw, ok := c.GetPostForm("category_id"); ok || required {
		categoryID, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
		if err != nil || categoryID == 0 {
			return errors.New("invalid category_id")
		}
		var count int64
		if err := mc.DB.Model(&models.Category{}).Where("id = ?", categoryID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return fmt.Errorf("category %d does not exist", categoryID)
		}
		item.CategoryID = uint(categoryID)
	}

	if tags, ok := c.GetPostFormArray("dietary_tags"); ok {
		item.DietaryTags = formList(tags)
	} else if item.DietaryTags == nil {
		item.DietaryTags = []string{}
	}
	if popular, ok := c.GetPostForm("is_popular"); ok {
		item.IsPopular = formBool(popular)
	}
	return nil
}
