package coach

import "time"

type Status string

const (
	StatusActive    Status = "active"
	StatusInactive  Status = "inactive"
	StatusSuspended Status = "suspended"
)

func ValidStatus(s Status) bool {
	switch s {
	case StatusActive, StatusInactive, StatusSuspended:
		return true
	}
	return false
}

// Coach is a subscriber coach managed through the back office. Coaches do
// not log in here; the password hash exists for the member-facing product.
type Coach struct {
	ID              int        `db:"id" json:"id"`
	Name            string     `db:"name" json:"name"`
	Email           string     `db:"email" json:"email"`
	PasswordHash    string     `db:"password_hash" json:"-"`
	Phone           *string    `db:"phone" json:"phone"`
	ProfilePhotoURL *string    `db:"profile_photo_url" json:"profile_photo_url"`
	Status          Status     `db:"status" json:"status"`
	Bio             *string    `db:"bio" json:"bio"`
	Specialization  *string    `db:"specialization" json:"specialization"`
	LastLogin       *time.Time `db:"last_login" json:"last_login"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updated_at"`
}

type CreateParams struct {
	Name            string
	Email           string
	Password        string
	Phone           *string
	ProfilePhotoURL *string
	Status          Status
	Bio             *string
	Specialization  *string
}

type UpdatePatch struct {
	Name            *string
	Email           *string
	Password        *string
	Phone           *string
	ProfilePhotoURL *string
	Status          *Status
	Bio             *string
	Specialization  *string
}

type ListFilter struct {
	Status Status
	Search string
	Page   int
	Limit  int
}

type ListResponse struct {
	Total   int     `json:"total"`
	Page    int     `json:"page"`
	Pages   int     `json:"pages"`
	Coaches []Coach `json:"coaches"`
}

type CreateRequest struct {
	Name            string  `json:"name" binding:"required"`
	Email           string  `json:"email" binding:"required,email"`
	Password        string  `json:"password" binding:"required,min=8"`
	Phone           *string `json:"phone"`
	ProfilePhotoURL *string `json:"profile_photo_url"`
	Status          string  `json:"status"`
	Bio             *string `json:"bio"`
	Specialization  *string `json:"specialization"`
}

type UpdateRequest struct {
	Name            *string `json:"name"`
	Email           *string `json:"email" binding:"omitempty,email"`
	Password        *string `json:"password" binding:"omitempty,min=8"`
	Phone           *string `json:"phone"`
	ProfilePhotoURL *string `json:"profile_photo_url"`
	Status          *string `json:"status"`
	Bio             *string `json:"bio"`
	Specialization  *string `json:"specialization"`
}
