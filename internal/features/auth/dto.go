package auth

import "time"

type IssueTokenRequestDTO struct {
	Password string `json:"password" binding:"required"`
}

type IssueTokenResponseDTO struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}
