package model

// Admin is an entry of the admin directory. Email is stored lower-case.
type Admin struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	AddedBy   string    `json:"added_by"`
	CreatedAt Timestamp `json:"created_at"`
}

// CreateAdminRequest is the payload for adding an administrator.
type CreateAdminRequest struct {
	Email   string `json:"email" binding:"required,email,max=255"`
	Name    string `json:"name" binding:"required,max=100"`
	AddedBy string `json:"added_by" binding:"omitempty,max=255"`
}

// LoginRequest is the payload for obtaining a bearer token.
type LoginRequest struct {
	Username string `json:"username" binding:"required,max=255"`
	Password string `json:"password" binding:"required,max=128"`
}

// LoginResponse is returned after a successful login.
type LoginResponse struct {
	Token    string `json:"token"`
	Role     string `json:"role"`
	Username string `json:"username"`
}
