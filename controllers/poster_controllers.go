package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-site/live"
	"github.com/yeremiapane/restaurant-site/models"
	"github.com/yeremiapane/restaurant-site/services"
	"github.com/yeremiapane/restaurant-site/storage"
	"github.com/yeremiapane/restaurant-site/utils"
	"gorm.io/gorm"
)

type PosterController struct {
	DB    *gorm.DB
	Media *Media
	Hub   services.Broadcaster
}

func NewPosterController(db *gorm.DB, media *Media, hub services.Broadcaster) *PosterController {
	return &PosterController{DB: db, Media: media, Hub: hub}
}

func (pc *PosterController) GetAllPosters(c *gin.Context) {
	var posters []models.PromoPoster
	if err := pc.DB.Order("created_at DESC").Order("id DESC").Find(&posters).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All posters", posters)
}

func (pc *PosterController) GetPosterByID(c *gin.Context) {
	id, err := parseID(c, "poster_id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var poster models.PromoPoster
	if err := pc.DB.First(&poster, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("poster not found"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Poster detail", poster)
}

// CreatePoster requires an "image" file alongside the form fields.
func (pc *PosterController) CreatePoster(c *gin.Context) {
	var poster models.PromoPoster
	poster.IsActive = true
	if err := applyPosterForm(c, &poster, true); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	url, err := pc.Media.Upload(c, "image", storage.FolderPosters)
	if err != nil {
		utils.RespondError(c, uploadStatus(err), err)
		return
	}
	if url == "" {
		utils.RespondError(c, http.StatusBadRequest, errors.New("image is required"))
		return
	}
	poster.ImageURL = url

	if err := pc.DB.Create(&poster).Error; err != nil {
		pc.Media.Remove(url)
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	broadcast(pc.Hub, live.EventPosterCreated, poster)
	utils.RespondJSON(c, http.StatusCreated, "Poster created", poster)
}

func (pc *PosterController) UpdatePoster(c *gin.Context) {
	id, err := parseID(c, "poster_id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var poster models.PromoPoster
	if err := pc.DB.First(&poster, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("poster not found"))
		return
	}
	if err := applyPosterForm(c, &poster, false); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	url, err := pc.Media.Upload(c, "image", storage.FolderPosters)
	if err != nil {
		utils.RespondError(c, uploadStatus(err), err)
		return
	}
	oldURL := poster.ImageURL
	if url != "" {
		poster.ImageURL = url
	}

	if err := pc.DB.Save(&poster).Error; err != nil {
		pc.Media.Remove(url)
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if poster.ImageURL != oldURL {
		pc.Media.Remove(oldURL)
	}

	broadcast(pc.Hub, live.EventPosterUpdated, poster)
	utils.RespondJSON(c, http.StatusOK, "Poster updated", poster)
}

func (pc *PosterController) DeletePoster(c *gin.Context) {
	id, err := parseID(c, "poster_id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var poster models.PromoPoster
	if err := pc.DB.First(&poster, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("poster not found"))
		return
	}
	if err := pc.DB.Delete(&poster).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	pc.Media.Remove(poster.ImageURL)

	broadcast(pc.Hub, live.EventPosterDeleted, gin.H{"poster_id": id})
	utils.RespondJSON(c, http.StatusOK, "Poster deleted", gin.H{"poster_id": id})
}

func applyPosterForm(c *gin.Context, p *models.PromoPoster, required bool) error {
	if title, ok := c.GetPostForm("title"); ok || required {
		title = strings.TrimSpace(title)
		if title == "" {
			return errors.New("title is required")
		}
		p.Title = title
	}
	if desc, ok := c.GetPostForm("description"); ok {
		p.Description = nil
		if desc = strings.TrimSpace(desc); desc != "" {
			p.Description = &desc
		}
	}
	if raw, ok := c.GetPostForm("start_date"); ok {
		t, err := formTime(raw, false)
		if err != nil {
			return err
		}
		p.StartDate = t
	}
	if raw, ok := c.GetPostForm("end_date"); ok {
		t, err := formTime(raw, true)
		if err != nil {
			return err
		}
		p.EndDate = t
	}
	if p.StartDate != nil && p.EndDate != nil && p.EndDate.Before(*p.StartDate) {
		return errors.New("end_date must not be before start_date")
	}
	if active, ok := c.GetPostForm("is_active"); ok {
		p.IsActive = formBool(active)
	}
	return nil
}
