package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/restaurant-site/database"
	"github.com/yeremiapane/restaurant-site/newsletter"
	"github.com/yeremiapane/restaurant-site/services"
	"github.com/yeremiapane/restaurant-site/storage"
)

type stubForwarder struct{}

func (stubForwarder) Subscribe(context.Context, string) (newsletter.Response, error) {
	return newsletter.Response{Success: true, Message: "ok"}, nil
}

func testDeps(t *testing.T) Deps {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db, err := database.OpenMemory()
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	bucket, err := storage.NewBucket(t.TempDir(), "/storage", "menu-images")
	require.NoError(t, err)
	return Deps{DB: db, Bucket: bucket, Newsletter: stubForwarder{}}
}

func TestSetupRouterRequiresNewsletterForwarder(t *testing.T) {
	d := testDeps(t)
	d.Newsletter = nil

	r, err := SetupRouter(d)
	assert.Error(t, err)
	assert.Nil(t, r)
}

func TestSetupRouterRegistersLimitersWithMonitor(t *testing.T) {
	d := testDeps(t)
	now := time.Now()
	d.Monitor = services.NewScheduleMonitor(d.DB, nil, "schedule_changed")
	d.Monitor.Now = func() time.Time { return now }

	r, err := SetupRouter(d)
	require.NoError(t, err)

	req, _ := http.NewRequest(http.MethodPost, "/api/newsletter", strings.NewReader(`{"email":"a@b.co"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	now = now.Add(time.Hour)
	assert.GreaterOrEqual(t, d.Monitor.Sweep(), 1, "the signup limiter forgets the idle client")
}
