package utils

import (
	"github.com/triplink-app/TripLink/config"
	"github.com/triplink-app/TripLink/models"
)

// CreateUser creates a new user
func CreateUser(user *models.User) error {
	return config.DB.Create(user).Error
}

// GetUserByID retrieves a user by ID
func GetUserByID(id uint) (*models.User, error) {
	var user models.User
	err := config.DB.First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by email
func GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	err := config.DB.Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}
