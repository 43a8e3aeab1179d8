package entity

import "time"

// Label es la etiqueta generada para un producto (imagen QR persistida en disco).
type Label struct {
	ID        string
	ProductID string
	Type      string // qr_producto
	FilePath  string
	Format    string // png
	CreatedAt time.Time
}
