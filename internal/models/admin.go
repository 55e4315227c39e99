package models

import "time"

type Admin struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CurrentToken *string   `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// AdminSummary is what login and registration hand back to the client.
type AdminSummary struct {
	Email string `json:"email"`
	ID    string `json:"id"`
}

func (a *Admin) Summary() AdminSummary {
	return AdminSummary{Email: a.Email, ID: a.ID}
}
