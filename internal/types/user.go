package types

type UserResponse struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	AvatarPath string `json:"avatar_path,omitempty"`
}
