package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cart-store/apperrors"
	"cart-store/models"
	"cart-store/repository"
)

// SessionController handles the locally cached login session.
type SessionController struct {
	sessions repository.SessionRepository
}

// NewSessionController creates a new SessionController.
func NewSessionController(sessions repository.SessionRepository) *SessionController {
	return &SessionController{sessions: sessions}
}

// SaveSession handles PUT /session.
func (sc *SessionController) SaveSession(ctx *gin.Context) {
	var req models.SaveSessionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	session := &models.Session{AuthToken: req.AuthToken, Email: req.Email}
	if err := sc.sessions.Save(ctx.Request.Context(), session); err != nil {
		if apperrors.IsValidation(err) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save session"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"session": session})
}

// GetSession handles GET /session.
func (sc *SessionController) GetSession(ctx *gin.Context) {
	session, err := sc.sessions.Get(ctx.Request.Context())
	if err != nil {
		if apperrors.IsNotFound(err) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "no active session"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get session"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"session": session})
}

// ClearSession handles DELETE /session.
func (sc *SessionController) ClearSession(ctx *gin.Context) {
	if err := sc.sessions.Clear(ctx.Request.Context()); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to clear session"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "session cleared"})
}
