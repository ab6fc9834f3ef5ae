package handlers

import (
	"errors"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hireloop-dev/hireloop/internal/auth"
	"github.com/hireloop-dev/hireloop/internal/models"
	"github.com/hireloop-dev/hireloop/internal/types"
	"github.com/hireloop-dev/hireloop/internal/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegisterRequest struct {
	FullName    string `json:"fullname" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	PhoneNumber string `json:"phone_number" binding:"required"`
	Password    string `json:"password" binding:"required,min=8"`
	Role        string `json:"role" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required"`
}

type UpdateProfileRequest struct {
	FullName    string `json:"fullname"`
	Email       string `json:"email" binding:"omitempty,email"`
	PhoneNumber string `json:"phone_number"`
	Bio         string `json:"bio"`
	Skills      string `json:"skills"` // comma-separated
	ResumeURL   string `json:"resume_url"`
	ResumeName  string `json:"resume_name"`
}

var (
	Domain = os.Getenv("DOMAIN")
)

type AuthHandler struct {
	gdb *gorm.DB
}

func NewAuthHandler(gdb *gorm.DB) *AuthHandler {
	return &AuthHandler{gdb: gdb}
}

func (h *AuthHandler) Register(ctx *gin.Context) {
	var req RegisterRequest

	if err := ctx.BindJSON(&req); err != nil {
		log.Printf("Failed to bind JSON: %v", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request"})
		return
	}

	if !types.IsValidRole(req.Role) {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Role must be job_seeker or employer"})
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	var existingUser models.User

	err := h.gdb.Where("email = ?", req.Email).First(&existingUser).Error

	if err == nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "User already exists with this email"})
		return
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("Database error when checking existing user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
		return
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)

	if err != nil {
		log.Printf("Failed to hash password: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
		return
	}

	newUser := models.User{
		FullName:     req.FullName,
		Email:        req.Email,
		PhoneNumber:  req.PhoneNumber,
		PasswordHash: string(passwordHash),
		Role:         req.Role,
	}

	if err := h.gdb.Create(&newUser).Error; err != nil {
		log.Printf("Failed to create user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Account created successfully",
		"user":    userView(&newUser),
	})
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req LoginRequest

	if err := ctx.BindJSON(&req); err != nil {
		log.Printf("Failed to bind JSON: %v", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request"})
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User

	err := h.gdb.Where("email = ?", req.Email).First(&user).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Incorrect email or password"})
			return
		}
		log.Printf("Database error when fetching user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Incorrect email or password"})
		return
	}

	if req.Role != user.Role {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Account doesn't exist with current role"})
		return
	}

	token, err := auth.GenerateJWT(user.ID, user.Email, user.Role)

	if err != nil {
		log.Printf("Failed to generate JWT: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
		return
	}

	http.SetCookie(ctx.Writer, &http.Cookie{
		Name:     "token",
		Value:    token,
		Path:     "/",
		Domain:   Domain,
		MaxAge:   60 * 60 * 24,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteNoneMode,
	})

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Welcome back " + user.FullName,
		"user":    userView(&user),
	})
}

func (h *AuthHandler) Logout(ctx *gin.Context) {
	http.SetCookie(ctx.Writer, &http.Cookie{
		Name:     "token",
		Value:    "",
		Path:     "/",
		Domain:   Domain,
		MaxAge:   -1,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteNoneMode,
	})

	ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged out successfully"})
}

func (h *AuthHandler) Me(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	var user models.User

	if err := h.gdb.First(&user, currentUser.ID).Error; err != nil {
		log.Printf("Failed to fetch user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "user": userView(&user)})
}

func (h *AuthHandler) UpdateProfile(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	var user models.User

	if err := h.gdb.First(&user, currentUser.ID).Error; err != nil {
		log.Printf("Failed to fetch user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
		return
	}

	var req UpdateProfileRequest

	if err := ctx.BindJSON(&req); err != nil {
		log.Printf("Failed to bind JSON: %v", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request"})
		return
	}

	if req.FullName != "" {
		user.FullName = strings.TrimSpace(req.FullName)
	}

	if req.Email != "" {
		newEmail := strings.ToLower(strings.TrimSpace(req.Email))

		if newEmail != user.Email {
			var existingUser models.User
			err := h.gdb.Where("email = ? AND id != ?", newEmail, user.ID).First(&existingUser).Error
			if err == nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Email already exists"})
				return
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				log.Printf("Database error when checking existing email: %v", err)
				ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
				return
			}
		}

		user.Email = newEmail
	}

	if req.PhoneNumber != "" {
		user.PhoneNumber = strings.TrimSpace(req.PhoneNumber)
	}

	if req.Bio != "" {
		user.Profile.Bio = req.Bio
	}

	if req.Skills != "" {
		parts := strings.Split(req.Skills, ",")
		skills := make([]string, 0, len(parts))
		for _, part := range parts {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				skills = append(skills, trimmed)
			}
		}
		user.Profile.Skills = skills
	}

	// The resume file lives in the external blob store; the client sends
	// the uploaded URL.
	if req.ResumeURL != "" {
		user.Profile.ResumeURL = req.ResumeURL
		user.Profile.ResumeName = req.ResumeName
	}

	if err := h.gdb.Save(&user).Error; err != nil {
		log.Printf("Failed to update user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Profile updated successfully",
		"user":    userView(&user),
	})
}

func userView(user *models.User) types.UserResponse {
	return types.UserResponse{
		ID:          user.ID,
		FullName:    user.FullName,
		Email:       user.Email,
		PhoneNumber: user.PhoneNumber,
		Role:        user.Role,
		Profile: types.ProfileResponse{
			Bio:        user.Profile.Bio,
			Skills:     user.Profile.Skills,
			ResumeURL:  user.Profile.ResumeURL,
			ResumeName: user.Profile.ResumeName,
		},
	}
}
