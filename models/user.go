package models

import "time"

type Role string

const (
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleMember || r == RoleAdmin
}

type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

type User struct {
	ID           int64          `json:"id"`
	Name         string         `json:"name"`
	Username     string         `json:"username,omitempty"`
	Email        string         `json:"email"`
	MobileNumber string         `json:"mobileNumber,omitempty"`
	AvatarURL    string         `json:"imageUrl,omitempty"`
	Role         Role           `json:"role"`
	Approval     ApprovalStatus `json:"approvalStatus"`
	CreatedAt    time.Time      `json:"createdAt"`
}

func (u User) AsAuthor() Author {
	return Author{ID: u.ID, Name: u.Name, Username: u.Username, AvatarURL: u.AvatarURL, Role: u.Role}
}

type RegisterRequest struct {
	Name            string `json:"name" validate:"required,max=100"`
	Email           string `json:"email" validate:"required,email"`
	MobileNumber    string `json:"mobileNumber" validate:"required,min=7,max=20"`
	Password        string `json:"password" validate:"required,min=6,max=64"`
	ConfirmPassword string `json:"-"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type JwtResponse struct {
	Token            string `json:"token"`
	TokenType        string `json:"tokenType"`
	ExpiresInSeconds int64  `json:"expiresInSeconds,omitempty"`
}

type LoginResponse struct {
	ID        int64          `json:"id"`
	Email     string         `json:"email"`
	Name      string         `json:"name"`
	Role      Role           `json:"role"`
	Approval  ApprovalStatus `json:"approvalStatus"`
	AvatarURL string         `json:"imageUrl,omitempty"`
	Jwt       JwtResponse    `json:"jwt"`
}

// UserUpdateRequest changes profile fields. Empty fields are left as they are.
type UserUpdateRequest struct {
	Name         string `json:"name,omitempty" validate:"omitempty,max=100"`
	Username     string `json:"username,omitempty" validate:"omitempty,min=3,max=30,alphanum"`
	MobileNumber string `json:"mobileNumber,omitempty" validate:"omitempty,min=7,max=20"`
	AvatarURL    string `json:"imageUrl,omitempty" validate:"omitempty,url"`
}

func (r UserUpdateRequest) Empty() bool {
	return r.Name == "" && r.Username == "" && r.MobileNumber == "" && r.AvatarURL == ""
}

func (s ApprovalStatus) Valid() bool {
	return s == ApprovalPending || s == ApprovalApproved || s == ApprovalRejected
}
