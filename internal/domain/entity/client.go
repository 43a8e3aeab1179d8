package entity

import "time"

// Client representa un cliente destinatario de manifiestos.
type Client struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	Address   string
	RucDNI    string
	CreatedAt time.Time
	UpdatedAt time.Time
}
