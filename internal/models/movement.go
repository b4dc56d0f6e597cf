package models

import "time"

// Movement directions.
const (
	MovementEntrada = "entrada" // stock-in
	MovementSalida  = "salida"  // stock-out
)

// StockMovement is the event published after a successful stock mutation.
type StockMovement struct {
	ProductID  uint      `json:"product_id"`
	OwnerID    string    `json:"owner_id"`
	Direction  string    `json:"direction"`
	Quantity   int64     `json:"quantity"`
	StockAfter int64     `json:"stock_after"`
	OccurredAt time.Time `json:"occurred_at"`
}
