package dto

// RegisterRequest is the payload for student self-registration
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email" example:"student@example.com"`
	Password string `json:"password" binding:"required,min=8" example:"s3cret-pass"`
	Name     string `json:"name" binding:"required" example:"Jane Doe"`
}

// LoginRequest is the payload for credential login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"student@example.com"`
	Password string `json:"password" binding:"required" example:"s3cret-pass"`
}

// UserResponse is the public view of a user record
type UserResponse struct {
	ID        int64  `json:"id" example:"1"`
	Email     string `json:"email" example:"student@example.com"`
	Name      string `json:"name" example:"Jane Doe"`
	RoleType  string `json:"roleType" example:"STUDENT"`
	CreatedAt string `json:"createdAt" example:"2024-01-01T10:00:00Z"`
}

// TokenResponse carries an issued access token
type TokenResponse struct {
	AccessToken string       `json:"accessToken"`
	TokenType   string       `json:"tokenType" example:"Bearer"`
	ExpiresIn   int          `json:"expiresIn" example:"86400"`
	User        UserResponse `json:"user"`
}
