package controllers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-site/services"
	"github.com/yeremiapane/restaurant-site/storage"
	"github.com/yeremiapane/restaurant-site/utils"
)

const maxImageBytes = 10 << 20

var errImageTooLarge = errors.New("image must be 10MB or smaller")

// Media uploads compressed images to the bucket and removes replaced ones.
type Media struct {
	Bucket     *storage.Bucket
	Compressor storage.Compressor
}

func NewMedia(bucket *storage.Bucket) *Media {
	return &Media{Bucket: bucket, Compressor: storage.DefaultCompressor()}
}

// Upload stores the multipart file named field under folder. It returns an
// empty URL when the request carries no such file.
func (m *Media) Upload(c *gin.Context, field, folder string) (string, error) {
	header, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	if !storage.AllowedImage(header.Filename) {
		return "", storage.ErrUnsupportedImage
	}
	if header.Size > maxImageBytes {
		return "", errImageTooLarge
	}

	f, err := header.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", err
	}

	result, err := m.Compressor.Compress(data, header.Filename)
	if err != nil {
		return "", err
	}
	if result.Passes > 0 {
		utils.InfoLogger.Printf("Compressed %s from %d to %d bytes in %d passes", header.Filename, len(data), len(result.Data), result.Passes)
	}

	key, err := m.Bucket.Upload(folder, result.Filename, bytes.NewReader(result.Data))
	if err != nil {
		return "", err
	}
	return m.Bucket.PublicURL(key), nil
}

// Remove deletes the object behind url. Failures are logged and absorbed.
func (m *Media) Remove(url string) {
	if url == "" {
		return
	}
	if err := m.Bucket.DeleteURL(url); err != nil {
		utils.ErrorLogger.Printf("Could not remove old image %s: %v", url, err)
	}
}

// uploadStatus maps an upload failure to a response code.
func uploadStatus(err error) int {
	return utils.StatusFor(err,
		utils.ErrorStatus{Err: storage.ErrUnsupportedImage, Code: http.StatusBadRequest},
		utils.ErrorStatus{Err: errImageTooLarge, Code: http.StatusBadRequest},
	)
}

func parseID(c *gin.Context, param string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(param), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid %s", param)
	}
	return uint(id), nil
}

func broadcast(hub services.Broadcaster, event string, data interface{}) {
	if hub != nil {
		hub.Broadcast(event, data)
	}
}

// formBool reads checkbox style values: "true", "on", "1".
func formBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "on", "1", "yes":
		return true
	}
	return false
}

// formTime parses an optional RFC 3339, datetime-local or date-only value.
// A date-only end bound covers the whole day.
func formTime(value string, endOfDay bool) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04"} {
		if t, err := time.Parse(layout, value); err == nil {
			return &t, nil
		}
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		if endOfDay {
			t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
		}
		return &t, nil
	}
	return nil, fmt.Errorf("invalid date %q", value)
}

// formList accepts repeated fields or one comma separated value.
func formList(values []string) []string {
	out := []string{}
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
