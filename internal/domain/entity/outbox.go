package entity

import (
	"encoding/json"
	"time"
)

// Estados de un mensaje del outbox.
const (
	OutboxPending    = "PENDING"
	OutboxDispatched = "DISPATCHED"
	OutboxFailed     = "FAILED"
)

// TopicOrderStatusChanged tópico de las notificaciones de cambio de estado de orden.
const TopicOrderStatusChanged = "order.status_changed"

// OutboxMessage notificación pendiente, escrita en la misma transacción que la mutación que la origina.
type OutboxMessage struct {
	ID           string
	Topic        string
	Payload      json.RawMessage
	Status       string
	Attempts     int
	LastError    string
	CreatedAt    time.Time
	DispatchedAt *time.Time
	// LockedUntil fin de la reserva de un despachador; vencida, el mensaje vuelve a estar disponible.
	LockedUntil *time.Time
}

// OrderStatusNotification payload de TopicOrderStatusChanged. Lleva todo lo necesario para
// redactar el correo sin volver a consultar la base de datos.
type OrderStatusNotification struct {
	OrderID            string `json:"orderId"`
	OrderNumber        string `json:"orderNumber"`
	Email              string `json:"email"`
	CustomerName       string `json:"customerName"`
	Status             string `json:"status"`
	StatusLabel        string `json:"statusLabel"`
	PaymentStatus      string `json:"paymentStatus"`
	PaymentStatusLabel string `json:"paymentStatusLabel"`
	StatusChanged      bool   `json:"statusChanged"`
	PaymentChanged     bool   `json:"paymentChanged"`
}
