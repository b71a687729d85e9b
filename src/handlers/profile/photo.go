package profile

import (
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/accountd/api/src/database"
	domain "github.com/accountd/api/src/domain/account"
	"github.com/accountd/api/src/drivers/storage"
	profile_repo "github.com/accountd/api/src/repository/profile"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// UpdateProfilePhotoHandler stores the uploaded photo and replaces the
// record's photo URL wholesale. Auth is checked by the middleware before the
// body is parsed, so a missing session wins over a missing file. Old blobs
// are kept; uploads only ever add.
func UpdateProfilePhotoHandler(
	repo profile_repo.ProfileRepositoryInterface,
	store storage.BlobStore,
	cache *database.ViewCache[domain.Profile],
	publicURL string,
	logger *logrus.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		fileHeader, err := c.FormFile("photo")
		if err != nil {
			errorResponse(c, http.StatusBadRequest, "missing_file", "multipart field 'photo' is required")
			return
		}

		userID := c.GetString("user_id")
		ctx := c.Request.Context()

		f, err := fileHeader.Open()
		if err != nil {
			downstreamError(c, err.Error())
			return
		}
		defer f.Close()

		// Key is namespaced by user id and upload timestamp
		key := fmt.Sprintf("%s/%d_%s", userID, time.Now().Unix(), filepath.Base(fileHeader.Filename))

		if _, err := store.Write(ctx, key, f, fileHeader.Header.Get("Content-Type")); err != nil {
			logger.WithError(err).WithField("user_id", userID).Error("Photo upload failed")
			downstreamError(c, err.Error())
			return
		}

		photoURL := publicURL + "/static/" + key

		if err := repo.UpdatePhotoURL(ctx, userID, photoURL); err != nil {
			logger.WithError(err).WithField("user_id", userID).Error("Failed to update photo url")
			downstreamError(c, err.Error())
			return
		}

		cache.Delete(ctx, cacheKey(userID))

		logger.WithFields(logrus.Fields{
			"user_id":    userID,
			"key":        key,
			"size":       fileHeader.Size,
			"request_id": c.GetString("request_id"),
		}).Info("Profile photo updated")

		c.JSON(http.StatusOK, gin.H{
			"message":  "Profile photo updated successfully",
			"photoURL": photoURL,
		})
	}
}
