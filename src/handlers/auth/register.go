package auth

import (
	"net/http"

	domain "github.com/accountd/api/src/domain/account"
	auth_repo "github.com/accountd/api/src/repository/auth"
	profile_repo "github.com/accountd/api/src/repository/profile"
	"github.com/accountd/api/src/services/operations"
	"github.com/accountd/api/src/services/security"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type registerRequest struct {
	Email       string  `json:"email"`
	Password    string  `json:"password"`
	DisplayName string  `json:"displayName"`
	BirthDay    *int    `json:"birthDay"`
	BirthMonth  *int    `json:"birthMonth"`
	BirthYear   *int    `json:"birthYear"`
	Gender      *string `json:"gender"`
}

// RegisterHandler creates the credential row, the profile record, and
// dispatches the verification email. If the profile write fails the credential
// row is deleted again so no orphaned account remains.
func RegisterHandler(
	userRepo auth_repo.UserRepositoryInterface,
	profileRepo profile_repo.ProfileRepositoryInterface,
	passwordService security.PasswordHasher,
	tokenService security.TokenStore,
	mailer operations.Mailer,
	logger *logrus.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req registerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			validationError(c, map[string]string{"body": "request body must be valid JSON"})
			return
		}

		fields := missingFields(map[string]string{
			"email":       req.Email,
			"password":    req.Password,
			"displayName": req.DisplayName,
		})

		// Extended fields are all-or-none
		extended := req.BirthDay != nil || req.BirthMonth != nil || req.BirthYear != nil || req.Gender != nil
		if extended {
			if fields == nil {
				fields = make(map[string]string)
			}
			if req.BirthDay == nil {
				fields["birthDay"] = "birthDay is required with other birth fields"
			}
			if req.BirthMonth == nil {
				fields["birthMonth"] = "birthMonth is required with other birth fields"
			}
			if req.BirthYear == nil {
				fields["birthYear"] = "birthYear is required with other birth fields"
			}
			if req.Gender == nil {
				fields["gender"] = "gender is required with other birth fields"
			}
			if len(fields) == 0 {
				fields = nil
			}
		}

		profile := &domain.Profile{
			Email:       req.Email,
			DisplayName: req.DisplayName,
			Gender:      req.Gender,
		}
		if fields == nil && extended {
			bd, err := domain.ComposeBirthdate(*req.BirthDay, *req.BirthMonth, *req.BirthYear)
			if err != nil {
				fields = map[string]string{"birthDay": err.Error()}
			} else {
				profile.Birthdate = &bd
			}
		}

		if fields != nil {
			validationError(c, fields)
			return
		}

		hash, err := passwordService.HashPassword(req.Password)
		if err != nil {
			downstreamError(c, err.Error())
			return
		}

		ctx := c.Request.Context()

		user, err := userRepo.CreateUser(ctx, req.Email, hash)
		if err != nil {
			logger.WithError(err).WithField("email", req.Email).Error("Registration failed")
			downstreamError(c, err.Error())
			return
		}

		profile.UserID = user.ID
		if err := profileRepo.Save(ctx, profile); err != nil {
			// Compensating action: remove the credential row again
			if delErr := userRepo.DeleteUser(ctx, user.ID); delErr != nil {
				logger.WithError(delErr).WithField("user_id", user.ID).Error("Failed to unwind credential row")
			}
			logger.WithError(err).WithField("user_id", user.ID).Error("Profile write failed, registration rolled back")
			downstreamError(c, err.Error())
			return
		}

		// Email dispatch failure fails the whole operation. The account and
		// profile remain; verification can be re-requested.
		token, err := tokenService.GenerateVerificationToken(ctx, user.ID)
		if err != nil {
			logger.WithError(err).WithField("user_id", user.ID).Error("Failed to generate verification token")
			downstreamError(c, err.Error())
			return
		}
		if err := mailer.SendVerificationEmail(ctx, user.Email, token); err != nil {
			logger.WithError(err).WithField("user_id", user.ID).Error("Failed to send verification email")
			downstreamError(c, err.Error())
			return
		}

		logger.WithFields(logrus.Fields{
			"user_id":    user.ID,
			"request_id": c.GetString("request_id"),
		}).Info("User registered")

		c.JSON(http.StatusCreated, gin.H{
			"message": "Verification email sent! User created successfully!",
			"userId":  user.ID,
		})
	}
}
