package ports

import "github.com/jhoicas/ferreteria-api/internal/domain/entity"

// OrderMetrics contadores del ciclo de vida de órdenes (Prometheus en producción).
type OrderMetrics interface {
	OrderCreated(paymentMethod string)
	OrderRejected(reason string)
	OrderTransition(field, to string)
}

// NopOrderMetrics no registra nada.
type NopOrderMetrics struct{}

func (NopOrderMetrics) OrderCreated(string)            {}
func (NopOrderMetrics) OrderRejected(string)           {}
func (NopOrderMetrics) OrderTransition(string, string) {}

// Kicker despierta al despachador de notificaciones tras un commit.
type Kicker interface {
	Kick()
}

// ReceiptRenderer genera el comprobante PDF de una orden.
type ReceiptRenderer interface {
	RenderOrderReceipt(r Receipt) ([]byte, error)
}

// Receipt datos que necesita el comprobante.
type Receipt struct {
	StoreName string
	Order     *entity.Order
	Items     []*entity.OrderItem
	Customer  *entity.User
	Address   *entity.Address
}
