package dto

type RegisterRequest struct {
	Email              string `json:"email"`
	Password           string `json:"password"`
	Hostel             string `json:"hostel"`
	Phone              string `json:"phone"`
	EmailNotifications bool   `json:"email_notifications"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type AuthResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	User         UserResponse `json:"user"`
}

type UserResponse struct {
	UID                string `json:"uid"`
	Email              string `json:"email"`
	Hostel             string `json:"hostel"`
	Phone              string `json:"phone"`
	EmailNotifications bool   `json:"email_notifications"`
	Role               string `json:"role"`
	Status             string `json:"status"`
}

// UpdateProfileRequest only changes the fields that are present.
type UpdateProfileRequest struct {
	Hostel             *string `json:"hostel"`
	Phone              *string `json:"phone"`
	EmailNotifications *bool   `json:"email_notifications"`
}

type ErrorResponse struct {
	Error   bool   `json:"error"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
	Blob      string `json:"blob"`
	Provider  string `json:"provider"`
}
