package location

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Narutostha/sanambar/internal/handler"
	"github.com/Narutostha/sanambar/internal/model"
	"github.com/Narutostha/sanambar/internal/service/location"
)

type Handler struct {
	service *location.Service
}

func NewHandler(service *location.Service) *Handler {
	return &Handler{service: service}
}

// RegisterPublicRoutes exposes the map-embed subset for the marketing
// page.
func (h *Handler) RegisterPublicRoutes(r *gin.RouterGroup) {
	r.GET("/location", h.GetPublicLocation)
}

// RegisterAdminRoutes exposes the settings editor read and save.
func (h *Handler) RegisterAdminRoutes(r *gin.RouterGroup) {
	r.GET("/location", h.GetSettings)
	r.PUT("/location", h.UpdateSettings)
}

func (h *Handler) GetPublicLocation(c *gin.Context) {
	loc, err := h.service.GetPublic(c.Request.Context())
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(loc))
}

func (h *Handler) GetSettings(c *gin.Context) {
	settings, err := h.service.Get(c.Request.Context())
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(settings))
}

func (h *Handler) UpdateSettings(c *gin.Context) {
	var req model.UpdateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	settings, err := h.service.Update(c.Request.Context(), &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(settings))
}
