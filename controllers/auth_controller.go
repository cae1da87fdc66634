package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/blogsterhq/blogster/config"
	"github.com/blogsterhq/blogster/forms"
	"github.com/blogsterhq/blogster/middleware"
	"github.com/blogsterhq/blogster/models"
	"github.com/blogsterhq/blogster/utils"
)

// AuthController handles signup, login, logout and session introspection.
type AuthController struct {
	db *gorm.DB
}

// NewAuthController creates an AuthController.
func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{db: db}
}

// Signup registers a new account and signs the caller in. A duplicate email is
// reported as a conflict without creating a second row; the unique index on
// users.email is the arbiter, so concurrent signups race safely.
func (a *AuthController) Signup(ctx *gin.Context) {
	var form forms.SignupForm
	if fields := forms.Bind(ctx, &form); fields != nil {
		utils.ValidationFailed(ctx, fields)
		return
	}

	email := strings.ToLower(strings.TrimSpace(form.Email))

	hash, err := utils.HashPassword(form.Password)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50001, "failed to hash password")
		return
	}

	role := models.RoleReader
	if config.IsAdminEmail(email) {
		role = models.RoleAdmin
	}

	user := models.User{
		Email:        email,
		FirstName:    strings.TrimSpace(form.FirstName),
		LastName:     strings.TrimSpace(form.LastName),
		PasswordHash: hash,
		Role:         role,
	}

	if err := a.db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.Error(ctx, http.StatusConflict, 40901, "email already registered, please login instead")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50002, "failed to create user")
		return
	}

	a.establishSession(ctx, user)
}

// Login verifies credentials and establishes a session.
func (a *AuthController) Login(ctx *gin.Context) {
	var form forms.LoginForm
	if fields := forms.Bind(ctx, &form); fields != nil {
		utils.ValidationFailed(ctx, fields)
		return
	}

	email := strings.ToLower(strings.TrimSpace(form.Email))

	var user models.User
	if err := a.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusUnauthorized, 40110, "email not registered")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50003, "failed to look up user")
		return
	}

	if !utils.CheckPassword(user.PasswordHash, form.Password) {
		utils.Error(ctx, http.StatusUnauthorized, 40111, "incorrect password")
		return
	}

	a.establishSession(ctx, user)
}

// Logout revokes the current session and clears the cookie. Revoking an
// already-revoked token is a no-op, so repeated calls are harmless.
func (a *AuthController) Logout(ctx *gin.Context) {
	if v, ok := ctx.Get(middleware.ContextSessionTokenKey); ok {
		if token, ok := v.(string); ok && token != "" {
			if claims, err := utils.ParseSession(token); err == nil && claims.ExpiresAt != nil {
				utils.RevokeSession(token, claims.ExpiresAt.Time)
			}
		}
	}
	utils.ClearSessionCookie(ctx)
	utils.RedirectHome(ctx)
}

// Me returns the current authenticated user's information.
func (a *AuthController) Me(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}

	var user models.User
	if err := a.db.First(&user, userID).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40401, "user not found")
		return
	}

	utils.Success(ctx, userPayload(user))
}

// establishSession issues the session cookie and redirects to the listing.
func (a *AuthController) establishSession(ctx *gin.Context, user models.User) {
	ttl := utils.SessionTTL()
	token, err := utils.IssueSession(user.ID, user.Email, user.Role, ttl)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50004, "failed to establish session")
		return
	}
	utils.SetSessionCookie(ctx, token, ttl)
	utils.RedirectHome(ctx)
}

func userPayload(user models.User) gin.H {
	return gin.H{
		"id":         user.ID,
		"email":      user.Email,
		"first_name": user.FirstName,
		"last_name":  user.LastName,
		"role":       user.Role,
		"created_at": user.CreatedAt,
	}
}
