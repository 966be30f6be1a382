package dto

import "strings"

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=200"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,bcrypt_len"`
	Role     string `json:"role,omitempty" validate:"omitempty,oneof=dealer customer"`
}

func (r *RegisterRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.Role = strings.TrimSpace(r.Role)
	return validateStruct(r)
}

// LoginRequest is not tag-validated: empty credentials must fail the same way
// as wrong ones.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
