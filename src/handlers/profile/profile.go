package profile

import (
	"net/http"
	"strings"

	"github.com/accountd/api/src/database"
	domain "github.com/accountd/api/src/domain/account"
	profile_repo "github.com/accountd/api/src/repository/profile"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// cacheKey builds the Redis key for a profile view
func cacheKey(userID string) string {
	return "profile:" + userID
}

// GetUserHandler serves the profile record for an id, read-through cached
func GetUserHandler(
	repo profile_repo.ProfileRepositoryInterface,
	cache *database.ViewCache[domain.Profile],
	logger *logrus.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("userId")

		ctx := c.Request.Context()

		if cached, ok := cache.Get(ctx, cacheKey(userID)); ok {
			c.JSON(http.StatusOK, gin.H{"user": cached})
			return
		}

		record, err := repo.GetByUserID(ctx, userID)
		if err != nil {
			downstreamError(c, "An error occurred while fetching user data")
			return
		}
		if record == nil {
			errorResponse(c, http.StatusNotFound, "not_found", "User not found")
			return
		}

		cache.Set(ctx, cacheKey(userID), record)
		c.JSON(http.StatusOK, gin.H{"user": record})
	}
}

type updateDisplayNameRequest struct {
	DisplayName string `json:"displayName"`
}

// UpdateDisplayNameHandler replaces the caller's display name.
// Runs behind the auth middleware.
func UpdateDisplayNameHandler(
	repo profile_repo.ProfileRepositoryInterface,
	cache *database.ViewCache[domain.Profile],
	logger *logrus.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateDisplayNameRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			validationError(c, map[string]string{"body": "request body must be valid JSON"})
			return
		}

		if strings.TrimSpace(req.DisplayName) == "" {
			validationError(c, map[string]string{"displayName": "displayName is required"})
			return
		}

		userID := c.GetString("user_id")
		ctx := c.Request.Context()

		if err := repo.UpdateDisplayName(ctx, userID, req.DisplayName); err != nil {
			logger.WithError(err).WithField("user_id", userID).Error("Failed to update display name")
			downstreamError(c, err.Error())
			return
		}

		cache.Delete(ctx, cacheKey(userID))

		logger.WithFields(logrus.Fields{
			"user_id":    userID,
			"request_id": c.GetString("request_id"),
		}).Info("Display name updated")

		c.JSON(http.StatusOK, gin.H{"message": "Display name updated successfully"})
	}
}
