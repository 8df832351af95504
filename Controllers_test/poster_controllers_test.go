package Controllers_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/restaurant-site/models"
)

func TestPosterCRUD(t *testing.T) {
	env := setupTestEnv(t)
	img := pngBytes(t)

	w := env.doMultipart(t, http.MethodPost, "/admin/api/posters", map[string]string{"title": "Jazz night"}, "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code, "image is required")

	w = env.doMultipart(t, http.MethodPost, "/admin/api/posters", map[string]string{
		"title":       "Jazz night",
		"description": "Live trio every Friday",
	}, "jazz.png", img)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var poster models.PromoPoster
	decode(t, w, &poster)
	assert.True(t, poster.IsActive)
	assert.True(t, poster.IsAnnouncement())
	require.NotNil(t, poster.Description)
	oldImage := objectPath(t, env.Bucket, poster.ImageURL)

	w = env.doMultipart(t, http.MethodPut, fmt.Sprintf("/admin/api/posters/%d", poster.ID), map[string]string{
		"start_date": "2020-01-01",
		"end_date":   "2020-01-31",
	}, "jazz2.png", img)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated models.PromoPoster
	decode(t, w, &updated)
	assert.Equal(t, "Jazz night", updated.Title)
	require.NotNil(t, updated.EndDate)
	require.NotNil(t, updated.StartDate)
	assert.Equal(t, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), updated.StartDate.UTC())
	assert.Equal(t, time.Date(2020, 1, 31, 23, 59, 59, 999999999, time.UTC), updated.EndDate.UTC())
	assert.False(t, updated.IsAnnouncement())
	assert.NotEqual(t, poster.ImageURL, updated.ImageURL)
	assert.NoFileExists(t, oldImage)

	w = env.doMultipart(t, http.MethodPut, fmt.Sprintf("/admin/api/posters/%d", poster.ID), map[string]string{
		"start_date": "2020-02-01",
		"end_date":   "2020-01-01",
	}, "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodDelete, fmt.Sprintf("/admin/api/posters/%d", poster.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NoFileExists(t, objectPath(t, env.Bucket, updated.ImageURL))
}

func TestActivePosters(t *testing.T) {
	env := setupTestEnv(t)
	now := time.Now().UTC()
	past := now.Add(-48 * time.Hour)
	yesterday := now.Add(-24 * time.Hour)
	tomorrow := now.Add(24 * time.Hour)

	posters := []models.PromoPoster{
		{Title: "Announcement", ImageURL: "/a.png", IsActive: true},
		{Title: "Running", ImageURL: "/b.png", StartDate: &yesterday, EndDate: &tomorrow, IsActive: true},
		{Title: "Open ended", ImageURL: "/c.png", StartDate: &yesterday, IsActive: true},
		{Title: "Expired", ImageURL: "/d.png", StartDate: &past, EndDate: &yesterday, IsActive: true},
		{Title: "Upcoming", ImageURL: "/e.png", StartDate: &tomorrow, IsActive: true},
		{Title: "Hidden", ImageURL: "/f.png", IsActive: false},
	}
	for i := range posters {
		require.NoError(t, env.DB.Create(&posters[i]).Error)
	}

	w := env.do(t, http.MethodGet, "/api/posters/active", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var active []models.PromoPoster
	decode(t, w, &active)

	titles := []string{}
	for _, p := range active {
		titles = append(titles, p.Title)
	}
	assert.ElementsMatch(t, []string{"Announcement", "Running", "Open ended"}, titles)
}
