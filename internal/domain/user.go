package domain

import "time"

// AdminLevel is the minimum level with admin rights
const AdminLevel = 10

// User is an account. Coins is the current balance; every change to it is
// mirrored by a CoinTransaction row.
// Table: users
type User struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Email     string    `gorm:"column:email;size:255;uniqueIndex" json:"email"`
	Password  string    `gorm:"column:password;size:255" json:"-"`
	Nickname  string    `gorm:"column:nickname;size:50" json:"nickname"`
	Level     int       `gorm:"column:level;default:1" json:"level"`
	Coins     int64     `gorm:"column:coins;default:0" json:"coins"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

// TableName specifies the table name for User model
func (User) TableName() string {
	return "users"
}

// IsAdmin reports admin rights
func (u *User) IsAdmin() bool {
	return u.Level >= AdminLevel
}

// SignUpRequest represents a sign up request
type SignUpRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Nickname string `json:"nickname" validate:"required,min=2,max=50"`
}

// SignInRequest represents a sign in request
type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest carries a refresh token
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// TokenResponse is returned by sign in and refresh
type TokenResponse struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	User         *UserResponse `json:"user"`
}

// UserResponse is the API response format for a user
type UserResponse struct {
	ID       uint64 `json:"id"`
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
	Level    int    `json:"level"`
	Coins    int64  `json:"coins"`
	IsAdmin  bool   `json:"is_admin"`
}

// ToResponse converts User to UserResponse
func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:       u.ID,
		Email:    u.Email,
		Nickname: u.Nickname,
		Level:    u.Level,
		Coins:    u.Coins,
		IsAdmin:  u.IsAdmin(),
	}
}
