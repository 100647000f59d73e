package http

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/timekeep-ph/dtr-backend-go/internal/domain/auth"
	"github.com/timekeep-ph/dtr-backend-go/internal/handler/http/response"
	"github.com/timekeep-ph/dtr-backend-go/internal/pkg/jwt"
)

type AuthHandler struct {
	authService auth.AuthService
	jwtService  jwt.Service
}

func NewAuthHandler(authService auth.AuthService, jwtService jwt.Service) AuthHandler {
	return AuthHandler{
		authService: authService,
		jwtService:  jwtService,
	}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req auth.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	resp, err := h.authService.Login(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	h.setRefreshCookie(w, resp.RefreshToken)
	response.Success(w, resp)
}

type faceLoginPayload struct {
	Image      string   `json:"image"` // base64
	Latitude   *float64 `json:"latitude,omitempty"`
	Longitude  *float64 `json:"longitude,omitempty"`
	DeviceInfo *string  `json:"device_info,omitempty"`
}

func (h *AuthHandler) LoginWithFace(w http.ResponseWriter, r *http.Request) {
	var payload faceLoginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	image, err := base64.StdEncoding.DecodeString(payload.Image)
	if err != nil {
		response.BadRequest(w, "Image must be base64 encoded", nil)
		return
	}

	ip, userAgent := clientMeta(r)
	resp, err := h.authService.LoginWithFace(r.Context(), auth.FaceLoginRequest{
		Image:      image,
		Latitude:   payload.Latitude,
		Longitude:  payload.Longitude,
		DeviceInfo: payload.DeviceInfo,
		IPAddress:  ip,
		UserAgent:  userAgent,
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	h.setRefreshCookie(w, resp.RefreshToken)
	response.Success(w, resp)
}

func (h *AuthHandler) VerifyFace(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromRequest(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	var payload faceLoginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	image, err := base64.StdEncoding.DecodeString(payload.Image)
	if err != nil {
		response.BadRequest(w, "Image must be base64 encoded", nil)
		return
	}

	ip, userAgent := clientMeta(r)
	resp, err := h.authService.VerifyFace(r.Context(), auth.VerifyFaceRequest{
		UserID:     userID,
		Image:      image,
		Latitude:   payload.Latitude,
		Longitude:  payload.Longitude,
		DeviceInfo: payload.DeviceInfo,
		IPAddress:  ip,
		UserAgent:  userAgent,
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}

func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie("refresh_token")
	if err != nil {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	resp, err := h.authService.RefreshToken(r.Context(), cookie.Value)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie("refresh_token"); err == nil {
		h.jwtService.RevokeToken(cookie.Value)
	}

	expired := h.jwtService.RefreshTokenCookie("", 0)
	expired.MaxAge = -1
	http.SetCookie(w, expired)

	response.SuccessWithMessage(w, "Logged out", nil)
}

func (h *AuthHandler) ListAttempts(w http.ResponseWriter, r *http.Request) {
	filter := auth.AttemptFilter{}
	q := r.URL.Query()
	if v := q.Get("user_id"); v != "" {
		filter.UserID = &v
	}
	if v := q.Get("status"); v != "" {
		filter.Status = &v
	}

	attempts, err := h.authService.ListAttempts(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, attempts)
}

func (h *AuthHandler) setRefreshCookie(w http.ResponseWriter, refreshToken string) {
	if refreshToken == "" {
		return
	}
	// Cookie lifetime mirrors the refresh token's own expiry
	token, err := h.jwtService.JWTAuth().Decode(refreshToken)
	if err != nil {
		return
	}
	http.SetCookie(w, h.jwtService.RefreshTokenCookie(refreshToken, token.Expiration().Unix()))
}
