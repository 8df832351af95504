package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/restaurant-site/models"
	"golang.org/x/crypto/bcrypt"
)

func TestSeedAdminCreatesOnce(t *testing.T) {
	db, err := OpenMemory()
	require.NoError(t, err)

	require.NoError(t, SeedAdmin(db, " Owner@Example.com ", "hunter22"))
	require.NoError(t, SeedAdmin(db, "owner@example.com", "other-password"))

	var admins []models.AdminUser
	require.NoError(t, db.Find(&admins).Error)
	require.Len(t, admins, 1)
	assert.Equal(t, "owner@example.com", admins[0].Email)
	assert.Equal(t, models.RoleAdmin, admins[0].Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admins[0].Password), []byte("hunter22")))
}

func TestSeedAdminSkipsWithoutCredentials(t *testing.T) {
	db, err := OpenMemory()
	require.NoError(t, err)

	require.NoError(t, SeedAdmin(db, "", ""))

	var count int64
	db.Model(&models.AdminUser{}).Count(&count)
	assert.Zero(t, count)
}

func TestOpenMemoryIsolated(t *testing.T) {
	a, err := OpenMemory()
	require.NoError(t, err)
	b, err := OpenMemory()
	require.NoError(t, err)

	require.NoError(t, a.Create(&models.Category{Name: "Mains", SortOrder: 1}).Error)

	var count int64
	b.Model(&models.Category{}).Count(&count)
	assert.Zero(t, count)
}
