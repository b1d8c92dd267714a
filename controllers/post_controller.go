package controllers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/triplink-app/TripLink/config"
	"github.com/triplink-app/TripLink/models"
	"github.com/triplink-app/TripLink/utils"
)

func postJSON(post models.Post) gin.H {
	out := gin.H{
		"id":           post.ID,
		"author_id":    post.AuthorID,
		"origin":       post.Origin,
		"destination":  post.Destination,
		"departure_at": post.DepartureAt.Format("2006-01-02 15:04:05"),
		"price":        utils.FormatMinor(post.Price),
		"status":       post.Status,
		"created_at":   post.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if post.ReturnAt != nil {
		out["return_at"] = post.ReturnAt.Format("2006-01-02 15:04:05")
	}
	return out
}

// CreatePost publishes a trip post on the market
func CreatePost(c *gin.Context) {
	utils.LogInfo("CreatePost called")
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req struct {
		Origin      string `json:"origin" binding:"required"`
		Destination string `json:"destination" binding:"required"`
		DepartureAt string `json:"departure_at" binding:"required"`
		ReturnAt    string `json:"return_at"`
		Points      int64  `json:"points" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid request body for user ID: %d: %v", user.ID, err)
		utils.BadRequest(c, "Invalid request. Origin, destination, departure and price are required", err.Error())
		return
	}

	departureAt, err := time.Parse(time.RFC3339, req.DepartureAt)
	if err != nil {
		utils.BadRequest(c, "Invalid departure time, expected RFC3339", err.Error())
		return
	}
	var returnAt *time.Time
	if req.ReturnAt != "" {
		t, err := time.Parse(time.RFC3339, req.ReturnAt)
		if err != nil {
			utils.BadRequest(c, "Invalid return time, expected RFC3339", err.Error())
			return
		}
		if t.Before(departureAt) {
			utils.BadRequest(c, "Return time cannot be before departure", nil)
			return
		}
		returnAt = &t
	}
	if departureAt.Before(time.Now()) {
		utils.BadRequest(c, "Departure time must be in the future", nil)
		return
	}

	post := models.Post{
		AuthorID:    user.ID,
		Origin:      req.Origin,
		Destination: req.Destination,
		DepartureAt: departureAt,
		ReturnAt:    returnAt,
		Price:       utils.PointsToMinor(req.Points),
		Status:      models.PostStatusAvailable,
	}
	if err := config.DB.Create(&post).Error; err != nil {
		utils.LogError("Failed to create post for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to create post", err.Error())
		return
	}

	utils.LogInfo("Post ID: %d created by user ID: %d", post.ID, user.ID)
	utils.Created(c, "Post published successfully", gin.H{
		"post": postJSON(post),
	})
}

// ListPosts returns available posts, newest departure first
func ListPosts(c *gin.Context) {
	utils.LogInfo("ListPosts called")

	pagination := utils.NewPagination(c)

	query := config.DB.Model(&models.Post{})
	status := c.DefaultQuery("status", models.PostStatusAvailable)
	if status != "all" {
		query = query.Where("status = ?", status)
	}
	if origin := c.Query("origin"); origin != "" {
		query = query.Where("origin ILIKE ?", "%"+origin+"%")
	}
	if destination := c.Query("destination"); destination != "" {
		query = query.Where("destination ILIKE ?", "%"+destination+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.LogError("Failed to count posts: %v", err)
		utils.InternalServerError(c, "Failed to count posts", err.Error())
		return
	}

	var posts []models.Post
	if err := query.Order("departure_at ASC").
		Limit(pagination.Limit).Offset(pagination.Offset).
		Find(&posts).Error; err != nil {
		utils.LogError("Failed to get posts: %v", err)
		utils.InternalServerError(c, "Failed to get posts", err.Error())
		return
	}

	formatted := make([]gin.H, len(posts))
	for i, post := range posts {
		formatted[i] = postJSON(post)
	}

	utils.SuccessWithPagination(c, "Posts retrieved successfully", gin.H{
		"posts": formatted,
	}, total, pagination.Page, pagination.Limit)
}

// GetPost returns a single post
func GetPost(c *gin.Context) {
	utils.LogInfo("GetPost called")

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.BadRequest(c, "Invalid post ID", nil)
		return
	}

	var post models.Post
	if err := config.DB.First(&post, uint(id)).Error; err != nil {
		utils.NotFound(c, "Post not found")
		return
	}

	utils.Success(c, "Post retrieved successfully", gin.H{
		"post": postJSON(post),
	})
}
