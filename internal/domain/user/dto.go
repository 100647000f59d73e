package user

type UserResponse struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	Position       *string `json:"position,omitempty"`
	IsAdmin        bool    `json:"is_admin"`
	FaceRegistered bool    `json:"face_registered"`
}

func ToUserResponse(u User) UserResponse {
	return UserResponse{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		Position:       u.Position,
		IsAdmin:        u.IsAdmin,
		FaceRegistered: u.FaceRegisteredAt != nil,
	}
}
