package domain

import (
	"errors"
	"time"
)

var (
	ErrInvalidEmail     = errors.New("invalid email")
	ErrMailingNotConfig = errors.New("mailing list is not configured")
	ErrRateLimited      = errors.New("too many requests")
)

type WaitlistRequest struct {
	Email string `json:"email"`
}

type WaitlistEntry struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"createdAt"`
}

// Scan: запись о запуске скана через консоль
type Scan struct {
	ID          string    `json:"id"`
	EngineScan  string    `json:"engineScanId"`
	Target      string    `json:"target"`
	Status      string    `json:"status"`
	RequestedBy string    `json:"requestedBy"`
	CreatedAt   time.Time `json:"createdAt"`
}
