package controllers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/triplink-app/TripLink/config"
	"github.com/triplink-app/TripLink/models"
	"github.com/triplink-app/TripLink/utils"
)

// RegisterRequest represents the user registration request
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Phone    string `json:"phone"`
}

// Register creates a new user account
func Register(c *gin.Context) {
	utils.LogInfo("Register called")
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid registration request: %v", err)
		utils.BadRequest(c, "Invalid input", err.Error())
		return
	}

	if valid, msg := utils.ValidateUsername(req.Username); !valid {
		utils.ValidationError(c, msg, nil)
		return
	}
	if valid, msg := utils.ValidateEmail(req.Email); !valid {
		utils.ValidationError(c, msg, nil)
		return
	}
	if valid, msg := utils.ValidatePassword(req.Password); !valid {
		utils.ValidationError(c, msg, nil)
		return
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.LogError("Failed to hash password: %v", err)
		utils.InternalServerError(c, "Failed to create account", nil)
		return
	}

	user := models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: hashed,
		Phone:    req.Phone,
	}
	if err := utils.CreateUser(&user); err != nil {
		utils.LogError("Failed to create user: %v", err)
		utils.Conflict(c, "Username or email already registered", nil)
		return
	}

	utils.LogInfo("Registered user ID: %d", user.ID)
	utils.Created(c, utils.MsgRegisterSuccess, gin.H{
		"id":       user.ID,
		"username": user.Username,
		"email":    user.Email,
	})
}

// LoginRequest represents the user login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login authenticates a user and returns a JWT
func Login(c *gin.Context) {
	utils.LogInfo("Login called")
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid login request: %v", err)
		utils.BadRequest(c, "Invalid input", err.Error())
		return
	}

	user, err := utils.GetUserByEmail(req.Email)
	if err != nil {
		utils.LogError("User not found for email: %s: %v", req.Email, err)
		utils.Unauthorized(c, utils.ErrInvalidCredentials)
		return
	}

	if user.IsBlocked {
		utils.LogError("Blocked user attempted login: %s", user.Email)
		utils.Forbidden(c, utils.ErrUserBlocked)
		return
	}

	if !utils.CheckPassword(req.Password, user.Password) {
		utils.LogError("Invalid password for user: %s", user.Email)
		utils.Unauthorized(c, utils.ErrInvalidCredentials)
		return
	}

	user.LastLoginAt = time.Now()
	if err := config.DB.Save(user).Error; err != nil {
		utils.LogError("Failed to update last login for user: %s: %v", user.Email, err)
	}

	token, err := utils.GenerateToken(user)
	if err != nil {
		utils.LogError("Failed to generate token for user: %s: %v", user.Email, err)
		utils.InternalServerError(c, "Failed to generate token", nil)
		return
	}

	utils.LogInfo("User login successful: %s", user.Email)
	utils.Success(c, utils.MsgLoginSuccess, gin.H{
		"token": token,
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
		},
	})
}
