package entity

import "time"

// Category agrupa productos por tipo.
type Category struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
}
