package model

import "time"

// Customer represents a registered member of the loyalty program.
type Customer struct {
	ID           int64
	Login        string
	PasswordHash string
	CreatedAt    time.Time
}
