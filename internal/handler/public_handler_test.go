package handler

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/budbeer/budbeer_api/internal/models"
	"github.com/budbeer/budbeer_api/internal/service"
)

// Validation failures never reach the repositories, so nil stores are fine here.
func newPublicRouter() *gin.Engine {
	bars := NewBarHandler(service.NewBarService(nil, nil))
	reports := NewReportHandler(service.NewReportService(nil, nil))

	r := gin.New()
	r.POST("/api/bars", bars.SubmitBar)
	r.POST("/api/bars/:id/report", reports.SubmitReport)
	return r
}

func TestBarHandler_SubmitValidation(t *testing.T) {
	r := newPublicRouter()

	tests := []struct {
		name string
		body string
	}{
		{"empty body", `{}`},
		{"missing price", `{"name":"Tap","latitude":1,"longitude":2}`},
		{"string latitude", `{"name":"Tap","latitude":"north","longitude":2,"regularPrice":4}`},
		{"latitude out of range", `{"name":"Tap","latitude":120,"longitude":2,"regularPrice":4}`},
		{"negative price", `{"name":"Tap","latitude":1,"longitude":2,"regularPrice":-4}`},
		{"malformed json", `{"name":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, env := doJSON(t, r, http.MethodPost, "/api/bars", tt.body, nil)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			require.NotNil(t, env.Error)
			assert.Equal(t, "INVALID_REQUEST", env.Error.Code)
		})
	}
}

func TestReportHandler_SubmitValidation(t *testing.T) {
	r := newPublicRouter()

	w, env := doJSON(t, r, http.MethodPost, "/api/bars/abc/report", `{"reason":"closed"}`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_ID", env.Error.Code)

	w, env = doJSON(t, r, http.MethodPost, "/api/bars/1/report", `{"reason":"   "}`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Reason is required", env.Error.Message)

	w, env = doJSON(t, r, http.MethodPost, "/api/bars/1/report", `{"reason":"`+strings.Repeat("x", 501)+`"}`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Reason is too long (max 500 characters)", env.Error.Message)
}

type memoryBanStore struct {
	bans []models.Ban
}

func (m *memoryBanStore) FindMatch(ctx context.Context, ip, deviceID string) (*models.Ban, error) {
	return nil, nil
}

func (m *memoryBanStore) List(ctx context.Context) ([]models.Ban, error) {
	return m.bans, nil
}

func (m *memoryBanStore) Create(ctx context.Context, ban *models.Ban) error {
	ban.ID = len(m.bans) + 1
	m.bans = append(m.bans, *ban)
	return nil
}

func (m *memoryBanStore) Delete(ctx context.Context, id int) error {
	return nil
}

func TestBanHandler_Create(t *testing.T) {
	store := &memoryBanStore{}
	h := NewBanHandler(service.NewBanService(store))
	r := gin.New()
	r.POST("/api/admin/banned-ips", h.CreateBan)

	w, env := doJSON(t, r, http.MethodPost, "/api/admin/banned-ips", `{"reason":"spam"}`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "IP or deviceId is required", env.Error.Message)

	w, env = doJSON(t, r, http.MethodPost, "/api/admin/banned-ips", `{"ip":"198.51.100.4"}`, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	data := decodeData(t, env)
	assert.Equal(t, "No reason provided", data["reason"])
	assert.Equal(t, "198.51.100.4", data["ip"])
	assert.Len(t, store.bans, 1)
}
