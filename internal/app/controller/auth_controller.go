package controller

import (
	"net/http"

	"github.com/avlawson/candyshop-backend/config"
	apperrors "github.com/avlawson/candyshop-backend/internal/errors"
	"github.com/avlawson/candyshop-backend/internal/middleware"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// AuthController issues admin tokens. There is a single admin identity, the
// shop owner, authenticated by password only.
type AuthController struct {
	cfg *config.Config
}

func NewAuthController(cfg *config.Config) *AuthController {
	return &AuthController{cfg: cfg}
}

type LoginRequest struct {
	Password string `json:"password" binding:"required"`
}

// Login verifies the admin password and returns a bearer token
// POST /api/v1/admin/login
func (ctrl *AuthController) Login(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Password is required",
		})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(ctrl.cfg.Admin.PasswordHash), []byte(req.Password)); err != nil {
		log.Warn("Failed admin login attempt", nil)
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Invalid password",
			"code":  apperrors.AuthInvalidCredentials,
		})
		return
	}

	token, err := middleware.IssueAdminToken(ctrl.cfg.Admin.JWTSecret, ctrl.cfg.Admin.TokenExpiry)
	if err != nil {
		log.Error("Failed to issue admin token", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to issue token",
		})
		return
	}

	log.Info("Admin logged in", nil)
	c.JSON(http.StatusOK, gin.H{
		"token":      token,
		"expires_in": int(ctrl.cfg.Admin.TokenExpiry.Seconds()),
	})
}
