package domain

import "time"

type UserId = string

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	Id        UserId    `json:"id"`
	Email     string    `json:"email"`
	Nom       string    `json:"nom"`
	PassHash  string    `json:"-"`
	Role      string    `json:"role"`
	Favorites []int64   `json:"favorites"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

type Credentials struct {
	Email    string
	Nom      string
	Password string
}
