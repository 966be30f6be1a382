package dto

import (
	"time"

	"github.com/baechuer/lease-service/internal/application/auth"
	"github.com/baechuer/lease-service/internal/application/lease"
	"github.com/baechuer/lease-service/internal/domain"
)

// UserView is the public user payload. It never carries the password hash.
type UserView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type LoginResponse struct {
	Token     string   `json:"token"`
	TokenType string   `json:"token_type"` // "Bearer"
	ExpiresIn int64    `json:"expires_in"` // seconds
	User      UserView `json:"user"`
}

type VehicleView struct {
	ID        string  `json:"id"`
	Brand     string  `json:"brand"`
	Model     string  `json:"model"`
	Price     float64 `json:"price"`
	Available bool    `json:"available"`
}

type LeaseView struct {
	ID          string      `json:"id"`
	UserID      string      `json:"user_id"`
	VehicleID   string      `json:"vehicle_id"`
	LeaseTerm   int         `json:"lease_term"`
	DownPayment float64     `json:"down_payment"`
	Status      string      `json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
	DecidedAt   *time.Time  `json:"decided_at,omitempty"`
	Vehicle     VehicleView `json:"vehicle"`
}

type CreditCheckResponse struct {
	LeaseID string `json:"lease_id"`
	Status  string `json:"status"`
	Applied bool   `json:"applied"`
}

func NewUserView(u domain.User) UserView {
	return UserView{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

func NewLoginResponse(res auth.LoginResult) LoginResponse {
	return LoginResponse{
		Token:     res.Token.AccessToken,
		TokenType: res.Token.TokenType,
		ExpiresIn: res.Token.ExpiresIn,
		User:      NewUserView(res.User),
	}
}

func NewVehicleView(v domain.Vehicle) VehicleView {
	return VehicleView{
		ID:        v.ID,
		Brand:     v.Brand,
		Model:     v.Model,
		Price:     v.Price,
		Available: v.Available,
	}
}

func NewVehicleViews(vs []domain.Vehicle) []VehicleView {
	out := make([]VehicleView, 0, len(vs))
	for _, v := range vs {
		out = append(out, NewVehicleView(v))
	}
	return out
}

func NewLeaseView(lw domain.LeaseWithVehicle) LeaseView {
	l := lw.Lease
	return LeaseView{
		ID:          l.ID,
		UserID:      l.UserID,
		VehicleID:   l.VehicleID,
		LeaseTerm:   l.LeaseTerm,
		DownPayment: l.DownPayment,
		Status:      string(l.Status),
		CreatedAt:   l.CreatedAt,
		DecidedAt:   l.DecidedAt,
		Vehicle:     NewVehicleView(lw.Vehicle),
	}
}

func NewLeaseViews(ls []domain.LeaseWithVehicle) []LeaseView {
	out := make([]LeaseView, 0, len(ls))
	for _, l := range ls {
		out = append(out, NewLeaseView(l))
	}
	return out
}

func NewCreditCheckResponse(res lease.CreditCheckResult) CreditCheckResponse {
	return CreditCheckResponse{
		LeaseID: res.LeaseID,
		Status:  string(res.Status),
		Applied: res.Applied,
	}
}
