package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"pawrescue/models"
)

type loginRequest struct {
	Code string `json:"code"`
}

// LoginHandler exchanges a provider login code for a profile. Provider
// outages still produce a usable anonymous session.
func (h *Handlers) LoginHandler(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	profile, anonymous, err := h.svc.Login(c.Request.Context(), req.Code)
	if err != nil {
		writeError(c, err)
		return
	}
	view := models.ViewFromUser(profile)
	view.Anonymous = anonymous
	c.JSON(http.StatusOK, view)
}

type registerRequest struct {
	Identity  string `json:"identity"`
	Nickname  string `json:"nickname"`
	AvatarURL string `json:"avatarUrl"`
}

// RegisterHandler upserts the mutable profile fields for an identity.
func (h *Handlers) RegisterHandler(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	profile, err := h.svc.RegisterOrUpdate(c.Request.Context(), req.Identity, req.Nickname, req.AvatarURL)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ViewFromUser(profile))
}

// ProfileHandler returns the profile for an identity, creating it on
// first sight.
func (h *Handlers) ProfileHandler(c *gin.Context) {
	profile, err := h.svc.Profile(c.Request.Context(), c.Query("identity"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ViewFromUser(profile))
}

// UploadHandler stores one multipart media file and returns its URL.
func (h *Handlers) UploadHandler(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file"})
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable file"})
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable file"})
		return
	}

	url, err := h.svc.Upload(c.Request.Context(), fileHeader.Filename, data)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"url": url})
}
