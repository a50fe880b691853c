package model

import "time"

// Token is a signed bearer credential. It is never persisted server-side.
type Token struct {
	Value     string    `json:"token"`
	Subject   string    `json:"sub"`
	IssuedAt  time.Time `json:"iat"`
	ExpiresAt time.Time `json:"exp"`
}
