package auth

import (
	"github.com/timekeep-ph/dtr-backend-go/internal/domain/user"
	"github.com/timekeep-ph/dtr-backend-go/internal/pkg/validator"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email is required",
		})
	} else if !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email format is invalid",
		})
	}

	if validator.IsEmpty(r.Password) {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type FaceLoginRequest struct {
	Image      []byte   `json:"-"`
	Latitude   *float64 `json:"latitude,omitempty"`
	Longitude  *float64 `json:"longitude,omitempty"`
	DeviceInfo *string  `json:"device_info,omitempty"`
	IPAddress  *string  `json:"-"`
	UserAgent  *string  `json:"-"`
}

func (r *FaceLoginRequest) Validate() error {
	var errs validator.ValidationErrors

	if len(r.Image) == 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "image",
			Message: "face image is required",
		})
	}

	if r.Latitude != nil && !validator.IsValidLatitude(*r.Latitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude must be between -90 and 90",
		})
	}

	if r.Longitude != nil && !validator.IsValidLongitude(*r.Longitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude must be between -180 and 180",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type VerifyFaceRequest struct {
	UserID     string   `json:"-"`
	Image      []byte   `json:"-"`
	Latitude   *float64 `json:"latitude,omitempty"`
	Longitude  *float64 `json:"longitude,omitempty"`
	DeviceInfo *string  `json:"device_info,omitempty"`
	IPAddress  *string  `json:"-"`
	UserAgent  *string  `json:"-"`
}

func (r *VerifyFaceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "user_id",
			Message: "user_id is required",
		})
	}

	if len(r.Image) == 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "image",
			Message: "face image is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type LoginResponse struct {
	AccessToken  string            `json:"access_token"`
	RefreshToken string            `json:"-"`
	ExpiresAt    int64             `json:"expires_at"`
	Confidence   *float64          `json:"confidence,omitempty"`
	User         user.UserResponse `json:"user"`
}

type VerifyFaceResponse struct {
	Verified bool    `json:"verified"`
	Score    float64 `json:"score"`
}

type RefreshTokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresAt   int64  `json:"expires_at"`
}

type AttemptFilter struct {
	UserID *string `json:"user_id,omitempty"`
	Status *string `json:"status,omitempty"`
	Limit  int     `json:"limit"`
}

func (f *AttemptFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Status != nil {
		valid := []string{AttemptStatusPending, AttemptStatusSuccess, AttemptStatusFailed}
		if !validator.IsInSlice(*f.Status, valid) {
			errs = append(errs, validator.ValidationError{
				Field:   "status",
				Message: "status must be one of: pending, success, failed",
			})
		}
	}

	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if f.Limit == 0 {
		f.Limit = 50
	}
	if f.Limit > 200 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 200",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type AttemptResponse struct {
	ID            string   `json:"id"`
	MatchedUserID *string  `json:"matched_user_id,omitempty"`
	Status        string   `json:"status"`
	FailureReason *string  `json:"failure_reason,omitempty"`
	Confidence    *float64 `json:"confidence,omitempty"`
	Latitude      *float64 `json:"latitude,omitempty"`
	Longitude     *float64 `json:"longitude,omitempty"`
	IPAddress     *string  `json:"ip_address,omitempty"`
	AttemptedAt   string   `json:"attempted_at"`
}
