package location

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Narutostha/sanambar/internal/model"
	locationsvc "github.com/Narutostha/sanambar/internal/service/location"
	apperrors "github.com/Narutostha/sanambar/pkg/errors"
)

type stubLocationRepo struct {
	rows []*model.LocationSettings
}

func (s *stubLocationRepo) Get(_ context.Context) (*model.LocationSettings, error) {
	if len(s.rows) != 1 {
		return nil, apperrors.NotFound("location settings", nil)
	}
	copied := *s.rows[0]
	copied.Hours = make(model.BusinessHours, len(s.rows[0].Hours))
	for day, hours := range s.rows[0].Hours {
		copied.Hours[day] = hours
	}
	return &copied, nil
}

func (s *stubLocationRepo) GetPublic(_ context.Context) (*model.PublicLocation, error) {
	if len(s.rows) == 0 {
		return nil, apperrors.NotFound("location settings", nil)
	}
	return &model.PublicLocation{ID: s.rows[0].ID, MapURL: s.rows[0].MapURL}, nil
}

func (s *stubLocationRepo) Update(_ context.Context, settings *model.LocationSettings) error {
	for i, row := range s.rows {
		if row.ID == settings.ID {
			settings.UpdatedAt = time.Now()
			stored := *settings
			s.rows[i] = &stored
			return nil
		}
	}
	return apperrors.NotFound("location settings", nil)
}

func seededRepo() *stubLocationRepo {
	hours := model.BusinessHours{}
	for _, day := range model.Weekdays {
		hours[day] = model.DayHours{Open: "09:00", Close: "18:00"}
	}
	return &stubLocationRepo{rows: []*model.LocationSettings{{
		ID:      uuid.New(),
		Address: "123 Main St",
		City:    "Kathmandu",
		State:   "Bagmati",
		Zip:     "44600",
		Phone:   "+977-1-555-0100",
		Email:   "hello@sanambar.example",
		Hours:   hours,
		MapURL:  "https://maps.example/embed",
	}}}
}

func newTestRouter(repo *stubLocationRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(locationsvc.NewService(repo, zerolog.Nop()))

	r := gin.New()
	api := r.Group("/api/v1")
	h.RegisterPublicRoutes(api)
	h.RegisterAdminRoutes(api.Group("/admin"))
	return r
}

func TestGetPublicLocation(t *testing.T) {
	r := newTestRouter(seededRepo())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/location", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data model.PublicLocation `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "https://maps.example/embed", resp.Data.MapURL)
}

func TestGetPublicLocation_NotConfigured(t *testing.T) {
	r := newTestRouter(&stubLocationRepo{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/location", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetSettings(t *testing.T) {
	repo := seededRepo()
	r := newTestRouter(repo)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/admin/location", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data model.LocationSettings `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, repo.rows[0].ID, resp.Data.ID)
	assert.Len(t, resp.Data.Hours, len(model.Weekdays))
}

func TestUpdateSettings_SingleDayChange(t *testing.T) {
	r := newTestRouter(seededRepo())

	payload, err := json.Marshal(map[string]interface{}{
		"address": "456 New Rd",
		"city":    "Kathmandu",
		"state":   "Bagmati",
		"zip":     "44600",
		"phone":   "+977-1-555-0200",
		"email":   "front@sanambar.example",
		"map_url": "https://maps.example/embed2",
		"hours": map[string]interface{}{
			"sunday": map[string]string{"open": "11:00", "close": "15:00"},
		},
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/admin/location", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data model.LocationSettings `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, model.DayHours{Open: "11:00", Close: "15:00"}, resp.Data.Hours["sunday"])
	assert.Equal(t, model.DayHours{Open: "09:00", Close: "18:00"}, resp.Data.Hours["monday"])
	assert.Equal(t, "456 New Rd", resp.Data.Address)
}

func TestUpdateSettings_MissingField(t *testing.T) {
	r := newTestRouter(seededRepo())

	req := httptest.NewRequest(http.MethodPut, "/api/v1/admin/location",
		bytes.NewReader([]byte(`{"address":"only this"}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
