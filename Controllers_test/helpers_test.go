package Controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/restaurant-site/database"
	"github.com/yeremiapane/restaurant-site/models"
	"github.com/yeremiapane/restaurant-site/newsletter"
	"github.com/yeremiapane/restaurant-site/router"
	"github.com/yeremiapane/restaurant-site/storage"
	"github.com/yeremiapane/restaurant-site/utils"
	"gorm.io/gorm"
)

const (
	testAdminEmail    = "admin@example.com"
	testAdminPassword = "s3cret-pass"
)

type fakeForwarder struct {
	emails []string
	resp   newsletter.Response
	err    error
}

func (f *fakeForwarder) Subscribe(_ context.Context, email string) (newsletter.Response, error) {
	f.emails = append(f.emails, email)
	return f.resp, f.err
}

type testEnv struct {
	DB         *gorm.DB
	Bucket     *storage.Bucket
	Router     *gin.Engine
	Newsletter *fakeForwarder
	Token      string
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	utils.InitLogger("warn")

	db, err := database.OpenMemory()
	require.NoError(t, err)
	require.NoError(t, database.SeedAdmin(db, testAdminEmail, testAdminPassword))

	bucket, err := storage.NewBucket(t.TempDir(), "/storage", "menu-images")
	require.NoError(t, err)

	forwarder := &fakeForwarder{resp: newsletter.Response{Success: true, Message: newsletter.MessageSubscribed}}
	r, err := router.SetupRouter(router.Deps{
		DB:         db,
		Bucket:     bucket,
		Newsletter: forwarder,
		SessionTTL: time.Hour,
	})
	require.NoError(t, err)

	var admin models.AdminUser
	require.NoError(t, db.Where("email = ?", testAdminEmail).First(&admin).Error)
	token, err := utils.GenerateToken(admin.ID, admin.Role, time.Hour)
	require.NoError(t, err)

	return &testEnv{DB: db, Bucket: bucket, Router: r, Newsletter: forwarder, Token: token}
}

// do sends body as JSON (when not nil) with the admin token.
func (e *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+e.Token)

	w := httptest.NewRecorder()
	e.Router.ServeHTTP(w, req)
	return w
}

// doMultipart sends fields and an optional image file with the admin token.
func (e *testEnv) doMultipart(t *testing.T, method, path string, fields map[string]string, filename string, file []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if filename != "" {
		fw, err := mw.CreateFormFile("image", filename)
		require.NoError(t, err)
		_, err = fw.Write(file)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+e.Token)

	w := httptest.NewRecorder()
	e.Router.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder, data interface{}) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	if data != nil {
		require.NoError(t, json.Unmarshal(env.Data, data), string(env.Data))
	}
	return env
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 30), G: 80, B: uint8(y * 30), A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func seedCategories(t *testing.T, db *gorm.DB, names ...string) []models.Category {
	t.Helper()
	out := make([]models.Category, 0, len(names))
	for i, name := range names {
		c := models.Category{Name: name, SortOrder: i + 1}
		require.NoError(t, db.Create(&c).Error)
		out = append(out, c)
	}
	return out
}
