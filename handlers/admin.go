package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pawrescue/models"
)

type adminLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AdminLoginHandler issues an admin session token.
func (h *Handlers) AdminLoginHandler(c *gin.Context) {
	var req adminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	token, err := h.svc.AdminLogin(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// DashboardHandler returns the admin landing counts.
func (h *Handlers) DashboardHandler(c *gin.Context) {
	counts, err := h.svc.Dashboard(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, counts)
}

// SettingsHandler returns all runtime settings.
func (h *Handlers) SettingsHandler(c *gin.Context) {
	settings, err := h.svc.Settings(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

type setSettingRequest struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// SetSettingHandler upserts one runtime setting.
func (h *Handlers) SetSettingHandler(c *gin.Context) {
	var req setSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := h.svc.SetSetting(c.Request.Context(), req.Key, req.Value); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"saved": true})
}

// AdminUsersHandler returns the user directory.
func (h *Handlers) AdminUsersHandler(c *gin.Context) {
	users, err := h.svc.Users(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	views := make([]models.UserView, 0, len(users))
	for i := range users {
		views = append(views, models.ViewFromUser(&users[i]))
	}
	c.JSON(http.StatusOK, views)
}

// StatsOverviewHandler returns the public headline statistics.
func (h *Handlers) StatsOverviewHandler(c *gin.Context) {
	overview, err := h.svc.Overview(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}

// StatsTrendsHandler returns the last week of daily activity.
func (h *Handlers) StatsTrendsHandler(c *gin.Context) {
	trends, err := h.svc.Trends(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, trends)
}

// StatsRegionsHandler returns report counts by region.
func (h *Handlers) StatsRegionsHandler(c *gin.Context) {
	regions, err := h.svc.Regions(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, regions)
}
