package auth

import (
	"net/http"
	"time"

	"github.com/cookzilla/cookzilla/pkg/cookzilla/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// actionTokenTTL is how long confirmation/reset/email-change tokens
// stay valid.
const actionTokenTTL = time.Hour

// Handler handles authentication requests
type Handler struct {
	db          *gorm.DB
	adminEmails []string
}

// NewHandler creates a new auth handler. adminEmails is the allowlist
// of addresses that sign up straight into the Administrator role.
func NewHandler(db *gorm.DB, adminEmails []string) *Handler {
	return &Handler{db: db, adminEmails: adminEmails}
}

// RegisterRequest represents the registration request body
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Username string `json:"username" binding:"required,min=3,max=64"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name"`
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse represents the authentication response
type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`

	// ConfirmationToken is returned on registration; a mail sender
	// would deliver it instead once one is wired up.
	ConfirmationToken string `json:"confirmation_token,omitempty"`
}

// UserResponse represents user data in responses
type UserResponse struct {
	ID        uint   `json:"id"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	Confirmed bool   `json:"confirmed"`
	Avatar    string `json:"avatar"`
}

func userToResponse(user *models.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Username:  user.Username,
		Name:      user.Name,
		Role:      user.Role.Name,
		Confirmed: user.Confirmed,
		Avatar:    user.Gravatar(100),
	}
}

// Register handles user registration
// @Summary Register a new user
// @Description Create a new account; the user starts following themself and gets a confirmation token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration details"
// @Success 201 {object} AuthResponse
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 409 {object} map[string]string "Email or username already registered"
// @Router /auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var existing models.User
	if err := h.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
		return
	}
	if err := h.db.Where("username = ?", req.Username).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Username already taken"})
		return
	}

	hashedPassword, err := HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process password"})
		return
	}

	user := models.User{
		Email:        req.Email,
		Username:     req.Username,
		Name:         req.Name,
		PasswordHash: hashedPassword,
	}
	if err := models.CreateUser(h.db, &user, h.adminEmails); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	token, err := GenerateToken(user.ID, user.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}
	confirmToken, err := GenerateActionToken(user.ID, TokenPurposeConfirm, "", actionTokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusCreated, AuthResponse{
		Token:             token,
		User:              userToResponse(&user),
		ConfirmationToken: confirmToken,
	})
}

// Login handles user login
// @Summary Login
// @Description Authenticate with email and password to receive a session token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} AuthResponse
// @Failure 401 {object} map[string]string "Invalid credentials"
// @Router /auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := h.db.Preload("Role").Where("email = ?", req.Email).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	if !CheckPassword(req.Password, user.PasswordHash) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	token, err := GenerateToken(user.ID, user.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	user.Ping(h.db)

	c.JSON(http.StatusOK, AuthResponse{Token: token, User: userToResponse(&user)})
}

// Me returns the current authenticated user
// @Summary Get current user
// @Tags auth
// @Produce json
// @Success 200 {object} UserResponse
// @Security BearerAuth
// @Router /auth/me [get]
func (h *Handler) Me(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}
	c.JSON(http.StatusOK, userToResponse(user))
}

// Logout handles user logout (client-side token invalidation)
// @Summary Logout
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]string "Logged out successfully"
// @Router /auth/logout [post]
func (h *Handler) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// Confirm marks the account as confirmed
// @Summary Confirm account
// @Description Redeem an emailed confirmation token for the logged-in user
// @Tags auth
// @Produce json
// @Param token path string true "Confirmation token"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string "Invalid or expired token"
// @Security BearerAuth
// @Router /auth/confirm/{token} [post]
func (h *Handler) Confirm(c *gin.Context) {
	user, _ := CurrentUser(c)

	claims, err := ValidateActionToken(c.Param("token"), TokenPurposeConfirm)
	if err != nil || claims.UserID != user.ID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "The confirmation link is invalid or has expired"})
		return
	}

	if err := h.db.Model(user).Update("confirmed", true).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to confirm account"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "You have confirmed your account"})
}

// ResendConfirmation issues a fresh confirmation token
// @Summary Resend confirmation
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /auth/confirm [post]
func (h *Handler) ResendConfirmation(c *gin.Context) {
	user, _ := CurrentUser(c)
	if user.Confirmed {
		c.JSON(http.StatusOK, gin.H{"message": "Account already confirmed"})
		return
	}

	token, err := GenerateActionToken(user.ID, TokenPurposeConfirm, "", actionTokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"confirmation_token": token})
}

// ResetRequest represents a password reset request
type ResetRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetConfirmRequest redeems a reset token for a new password
type ResetConfirmRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

// RequestPasswordReset issues a password reset token
// @Summary Request password reset
// @Description The response is intentionally identical whether or not the email exists
// @Tags auth
// @Accept json
// @Produce json
// @Param request body ResetRequest true "Account email"
// @Success 200 {object} map[string]string
// @Router /auth/reset [post]
func (h *Handler) RequestPasswordReset(c *gin.Context) {
	var req ResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp := gin.H{"message": "If the address is registered, reset instructions have been sent"}

	var user models.User
	if err := h.db.Where("email = ?", req.Email).First(&user).Error; err == nil {
		token, err := GenerateActionToken(user.ID, TokenPurposeReset, "", actionTokenTTL)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
			return
		}
		resp["reset_token"] = token
	}

	c.JSON(http.StatusOK, resp)
}

// ResetPassword sets a new password from a reset token
// @Summary Reset password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body ResetConfirmRequest true "Reset token and new password"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string "Invalid or expired token"
// @Router /auth/reset [put]
func (h *Handler) ResetPassword(c *gin.Context) {
	var req ResetConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	claims, err := ValidateActionToken(req.Token, TokenPurposeReset)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "The reset link is invalid or has expired"})
		return
	}

	hashedPassword, err := HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process password"})
		return
	}

	result := h.db.Model(&models.User{}).Where("id = ?", claims.UserID).
		Update("password_hash", hashedPassword)
	if result.Error != nil || result.RowsAffected == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "The reset link is invalid or has expired"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Your password has been updated"})
}

// EmailChangeRequest asks for an email change token
type EmailChangeRequest struct {
	NewEmail string `json:"new_email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// EmailChangeConfirmRequest redeems an email change token
type EmailChangeConfirmRequest struct {
	Token string `json:"token" binding:"required"`
}

// RequestEmailChange issues an email change token
// @Summary Request email change
// @Tags auth
// @Accept json
// @Produce json
// @Param request body EmailChangeRequest true "New address and current password"
// @Success 200 {object} map[string]string
// @Failure 401 {object} map[string]string "Wrong password"
// @Failure 409 {object} map[string]string "Email already in use"
// @Security BearerAuth
// @Router /auth/email [post]
func (h *Handler) RequestEmailChange(c *gin.Context) {
	user, _ := CurrentUser(c)

	var req EmailChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !CheckPassword(req.Password, user.PasswordHash) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid password"})
		return
	}

	var existing models.User
	if err := h.db.Where("email = ?", req.NewEmail).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
		return
	}

	token, err := GenerateActionToken(user.ID, TokenPurposeChangeEmail, req.NewEmail, actionTokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"email_change_token": token})
}

// ChangeEmail applies a pending email change
// @Summary Confirm email change
// @Description Updates the address and recomputes the avatar fingerprint
// @Tags auth
// @Accept json
// @Produce json
// @Param request body EmailChangeConfirmRequest true "Email change token"
// @Success 200 {object} UserResponse
// @Failure 400 {object} map[string]string "Invalid or expired token"
// @Security BearerAuth
// @Router /auth/email [put]
func (h *Handler) ChangeEmail(c *gin.Context) {
	user, _ := CurrentUser(c)

	var req EmailChangeConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	claims, err := ValidateActionToken(req.Token, TokenPurposeChangeEmail)
	if err != nil || claims.UserID != user.ID || claims.NewEmail == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "The email change link is invalid or has expired"})
		return
	}

	var existing models.User
	if err := h.db.Where("email = ?", claims.NewEmail).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
		return
	}

	updates := map[string]interface{}{
		"email":       claims.NewEmail,
		"avatar_hash": models.AvatarHash(claims.NewEmail),
	}
	if err := h.db.Model(user).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to change email"})
		return
	}

	c.JSON(http.StatusOK, userToResponse(user))
}

// RegisterRoutes registers auth routes on the given router group
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/register", h.Register)
	rg.POST("/login", h.Login)
	rg.POST("/logout", h.Logout)
	rg.POST("/reset", h.RequestPasswordReset)
	rg.PUT("/reset", h.ResetPassword)

	authed := rg.Group("", RequireAuth(h.db))
	authed.GET("/me", h.Me)
	authed.POST("/confirm", h.ResendConfirmation)
	authed.POST("/confirm/:token", h.Confirm)
	authed.POST("/email", h.RequestEmailChange)
	authed.PUT("/email", h.ChangeEmail)
}
