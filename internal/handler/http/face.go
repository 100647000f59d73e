package http

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/timekeep-ph/dtr-backend-go/internal/domain/face"
	"github.com/timekeep-ph/dtr-backend-go/internal/handler/http/response"
)

type FaceHandler struct {
	faceService face.FaceService
}

func NewFaceHandler(faceService face.FaceService) FaceHandler {
	return FaceHandler{faceService: faceService}
}

type registerFacePayload struct {
	Image        string  `json:"image"`                   // base64
	ConfirmImage string  `json:"confirm_image,omitempty"` // base64, optional
	DeviceInfo   *string `json:"device_info,omitempty"`
}

func (h *FaceHandler) Register(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromRequest(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	var payload registerFacePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	image, err := base64.StdEncoding.DecodeString(payload.Image)
	if err != nil {
		response.BadRequest(w, "Image must be base64 encoded", nil)
		return
	}

	var confirmImage []byte
	if payload.ConfirmImage != "" {
		confirmImage, err = base64.StdEncoding.DecodeString(payload.ConfirmImage)
		if err != nil {
			response.BadRequest(w, "Confirmation image must be base64 encoded", nil)
			return
		}
	}

	resp, err := h.faceService.RegisterFace(r.Context(), face.RegisterFaceRequest{
		UserID:       userID,
		Image:        image,
		ConfirmImage: confirmImage,
		DeviceInfo:   payload.DeviceInfo,
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Face registered", resp)
}

func (h *FaceHandler) Status(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromRequest(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	resp, err := h.faceService.RegistrationStatus(r.Context(), userID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}
