package model

import "github.com/golang-jwt/jwt/v5"

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token      string `json:"token"`
	OperatorID string `json:"operatorId"`
}

// OperatorClaims authorize the full management API.
type OperatorClaims struct {
	OperatorID string `json:"operatorId"`
	jwt.RegisteredClaims
}

// FeedClaims authorize the read-only live feed for one game.
type FeedClaims struct {
	GameID    string `json:"gameId"`
	WatcherID string `json:"watcherId"`
	jwt.RegisteredClaims
}
