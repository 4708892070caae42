package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Narutostha/sanambar/internal/model"
	catalogsvc "github.com/Narutostha/sanambar/internal/service/catalog"
	apperrors "github.com/Narutostha/sanambar/pkg/errors"
)

type stubServiceRepo struct {
	services map[uuid.UUID]*model.Service
	clock    time.Time
}

func newStubServiceRepo() *stubServiceRepo {
	return &stubServiceRepo{
		services: make(map[uuid.UUID]*model.Service),
		clock:    time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (s *stubServiceRepo) Create(_ context.Context, svc *model.Service) error {
	s.clock = s.clock.Add(time.Minute)
	svc.ID = uuid.New()
	svc.CreatedAt = s.clock
	svc.UpdatedAt = s.clock
	stored := *svc
	s.services[svc.ID] = &stored
	return nil
}

func (s *stubServiceRepo) Get(_ context.Context, id uuid.UUID) (*model.Service, error) {
	svc, ok := s.services[id]
	if !ok {
		return nil, apperrors.NotFound("service", nil)
	}
	copied := *svc
	return &copied, nil
}

func (s *stubServiceRepo) List(_ context.Context) ([]*model.Service, error) {
	out := make([]*model.Service, 0, len(s.services))
	for _, svc := range s.services {
		copied := *svc
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].IsFavorite != out[j].IsFavorite {
			return out[i].IsFavorite
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *stubServiceRepo) Update(_ context.Context, svc *model.Service) error {
	current, ok := s.services[svc.ID]
	if !ok {
		return apperrors.NotFound("service", nil)
	}
	svc.CreatedAt = current.CreatedAt
	stored := *svc
	s.services[svc.ID] = &stored
	return nil
}

func (s *stubServiceRepo) UpdateFavorite(_ context.Context, id uuid.UUID, favorite bool) error {
	svc, ok := s.services[id]
	if !ok {
		return apperrors.NotFound("service", nil)
	}
	svc.IsFavorite = favorite
	return nil
}

func (s *stubServiceRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := s.services[id]; !ok {
		return apperrors.NotFound("service", nil)
	}
	delete(s.services, id)
	return nil
}

func newTestRouter() (*gin.Engine, *stubServiceRepo) {
	gin.SetMode(gin.TestMode)
	repo := newStubServiceRepo()
	h := NewHandler(catalogsvc.NewService(repo, zerolog.Nop()))

	r := gin.New()
	api := r.Group("/api/v1")
	h.RegisterPublicRoutes(api)
	h.RegisterAdminRoutes(api.Group("/admin"))
	return r, repo
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func createService(t *testing.T, r *gin.Engine, title string) model.Service {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/v1/admin/services", map[string]interface{}{
		"title":       title,
		"price":       25.0,
		"duration":    "30 min",
		"description": "test service",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Data struct {
			Service model.Service `json:"service"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Data.Service
}

func TestCreateService_FavoriteForcedOff(t *testing.T) {
	r, _ := newTestRouter()

	w := doJSON(t, r, http.MethodPost, "/api/v1/admin/services", map[string]interface{}{
		"title":       "Royal Shave",
		"price":       35.0,
		"duration":    "45 min",
		"description": "Hot towel shave",
		"is_favorite": true,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			Service  model.Service   `json:"service"`
			Services []model.Service `json:"services"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	assert.False(t, resp.Data.Service.IsFavorite)
	assert.Len(t, resp.Data.Services, 1)
}

func TestCreateService_ZeroPriceAccepted(t *testing.T) {
	r, _ := newTestRouter()

	w := doJSON(t, r, http.MethodPost, "/api/v1/admin/services", map[string]interface{}{
		"title":       "Free Consultation",
		"price":       0.0,
		"duration":    "15 min",
		"description": "First visit consultation",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Data struct {
			Service model.Service `json:"service"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Zero(t, resp.Data.Service.Price)
}

func TestCreateService_NegativePriceRejected(t *testing.T) {
	r, _ := newTestRouter()

	w := doJSON(t, r, http.MethodPost, "/api/v1/admin/services", map[string]interface{}{
		"title":       "Impossible",
		"price":       -5.0,
		"duration":    "15 min",
		"description": "negative price",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListServices_FavoriteFirst(t *testing.T) {
	r, _ := newTestRouter()

	createService(t, r, "Classic Cut")
	second := createService(t, r, "Beard Trim")

	w := doJSON(t, r, http.MethodPut, "/api/v1/admin/services/"+second.ID.String()+"/favorite",
		map[string]interface{}{"is_favorite": true})
	require.Equal(t, http.StatusOK, w.Code)

	rec := doJSON(t, r, http.MethodGet, "/api/v1/services", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data []model.Service `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 2)
	assert.Equal(t, second.ID, resp.Data[0].ID)
	assert.True(t, resp.Data[0].IsFavorite)
}

func TestUpdateService(t *testing.T) {
	r, _ := newTestRouter()
	created := createService(t, r, "Fade")

	w := doJSON(t, r, http.MethodPut, "/api/v1/admin/services/"+created.ID.String(), map[string]interface{}{
		"title":       "Mid Fade",
		"price":       32.0,
		"duration":    "40 min",
		"description": "updated",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Service model.Service `json:"service"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Mid Fade", resp.Data.Service.Title)
}

func TestUpdateService_NotFound(t *testing.T) {
	r, _ := newTestRouter()

	w := doJSON(t, r, http.MethodPut, "/api/v1/admin/services/"+uuid.New().String(), map[string]interface{}{
		"title":       "Ghost",
		"price":       1.0,
		"duration":    "1 min",
		"description": "nope",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteService_ReturnsRemaining(t *testing.T) {
	r, _ := newTestRouter()
	first := createService(t, r, "Classic Cut")
	second := createService(t, r, "Beard Trim")

	w := doJSON(t, r, http.MethodDelete, "/api/v1/admin/services/"+first.ID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Services []model.Service `json:"services"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data.Services, 1)
	assert.Equal(t, second.ID, resp.Data.Services[0].ID)
}

func TestToggleFavorite_MissingFlag(t *testing.T) {
	r, _ := newTestRouter()
	created := createService(t, r, "Fade")

	w := doJSON(t, r, http.MethodPut, "/api/v1/admin/services/"+created.ID.String()+"/favorite",
		map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
