// Package models contains the domain structures of the platform (users,
// contests, registrations, payments, subscriptions, quiz content) plus the
// Dummy* types that receive JSON or multipart request data before it is
// validated and converted.
package models

import "time"

// User is a registered account. Email is the unique identifier used to
// authenticate; IsAdmin gates the admin endpoints.
type User struct {
	ID           int64      `json:"id"`
	Email        string     `json:"email"`
	Nom          string     `json:"nom"`
	Prenom       string     `json:"prenom"`
	Telephone    string     `json:"telephone"`
	PasswordHash string     `json:"-"`
	PhotoPath    *string    `json:"photo,omitempty"`
	IsAdmin      bool       `json:"is_admin"`
	IsActive     bool       `json:"is_active"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// FullName returns "Prenom Nom", the display form used in emails.
func (u *User) FullName() string {
	return u.Prenom + " " + u.Nom
}

// Role returns the role string embedded in issued tokens.
func (u *User) Role() string {
	if u.IsAdmin {
		return "admin"
	}
	return "user"
}

// DummyRegister receives the registration request body.
type DummyRegister struct {
	Email           string `json:"email" validate:"required,email"`
	Nom             string `json:"nom" validate:"required"`
	Prenom          string `json:"prenom" validate:"required"`
	Telephone       string `json:"telephone" validate:"required"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
}

// DummyLogin receives the login request body.
type DummyLogin struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// DummyUpdateProfile receives a partial profile update.
type DummyUpdateProfile struct {
	Nom       string `json:"nom,omitempty" validate:"omitempty"`
	Prenom    string `json:"prenom,omitempty" validate:"omitempty"`
	Telephone string `json:"telephone,omitempty" validate:"omitempty"`
}

// DummyChangePassword receives a password change for an authenticated user.
type DummyChangePassword struct {
	OldPassword        string `json:"old_password" validate:"required"`
	NewPassword        string `json:"new_password" validate:"required,min=8"`
	NewPasswordConfirm string `json:"new_password_confirm" validate:"required,eqfield=NewPassword"`
}

// DummyResetRequest asks for a password-reset code.
type DummyResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// DummyResetVerify exchanges a reset code for a reset token.
type DummyResetVerify struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=6,numeric"`
}

// DummyResetConfirm sets the new password using a reset token.
type DummyResetConfirm struct {
	ResetToken      string `json:"reset_token" validate:"required"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
}
