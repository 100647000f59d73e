package face

import (
	"github.com/timekeep-ph/dtr-backend-go/internal/pkg/validator"
)

const maxImageBytes = 10 << 20 // 10MB

type RegisterFaceRequest struct {
	UserID       string  `json:"-"`
	Image        []byte  `json:"-"`
	ConfirmImage []byte  `json:"-"`
	DeviceInfo   *string `json:"device_info,omitempty"`
}

func (r *RegisterFaceRequest) Validate() error {
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
	} else if len(r.Image) > maxImageBytes {
		errs = append(errs, validator.ValidationError{
			Field:   "image",
			Message: "face image size must not exceed 10MB",
		})
	}

	if len(r.ConfirmImage) > maxImageBytes {
		errs = append(errs, validator.ValidationError{
			Field:   "confirm_image",
			Message: "confirmation image size must not exceed 10MB",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type RegisterFaceResponse struct {
	EmbeddingID  string   `json:"embedding_id"`
	ImageURL     *string  `json:"image_url,omitempty"`
	ConfirmScore *float64 `json:"confirm_score,omitempty"`
	IsPrimary    bool     `json:"is_primary"`
}

type VerifyFaceResult struct {
	Verified bool    `json:"verified"`
	Score    float64 `json:"score"`
}

type IdentifyResult struct {
	UserID string  `json:"user_id"`
	Score  float64 `json:"score"`
}

type RegistrationStatusResponse struct {
	Registered     bool    `json:"registered"`
	EmbeddingCount int     `json:"embedding_count"`
	RegisteredAt   *string `json:"registered_at,omitempty"`
}
