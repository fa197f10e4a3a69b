package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"

	"github.com/jhoicas/ferreteria-api/internal/application/ports"
	"github.com/jhoicas/ferreteria-api/internal/domain/entity"
)

var statusEmail = template.Must(template.New("status").Parse(`<p>Hola {{if .CustomerName}}{{.CustomerName}}{{else}}cliente{{end}},</p>
<p>Tu orden <strong>{{.OrderNumber}}</strong> fue actualizada.</p>
<ul>
{{- if .StatusChanged}}
<li>Estado del pedido: <strong>{{.StatusLabel}}</strong></li>
{{- end}}
{{- if .PaymentChanged}}
<li>Estado del pago: <strong>{{.PaymentStatusLabel}}</strong></li>
{{- end}}
</ul>
<p>Gracias por tu compra.</p>`))

// RenderStatusEmail arma asunto y cuerpo HTML del aviso de cambio de estado.
func RenderStatusEmail(n entity.OrderStatusNotification) (string, string, error) {
	var buf bytes.Buffer
	if err := statusEmail.Execute(&buf, n); err != nil {
		return "", "", err
	}
	label := n.StatusLabel
	if !n.StatusChanged && n.PaymentChanged {
		label = n.PaymentStatusLabel
	}
	return fmt.Sprintf("Orden %s: %s", n.OrderNumber, label), buf.String(), nil
}

// Deliver decodifica el payload de un mensaje y envía el correo. Lo usan MailPublisher y el consumidor del broker.
func Deliver(ctx context.Context, mailer ports.Mailer, topic string, payload []byte) error {
	if topic != entity.TopicOrderStatusChanged {
		return fmt.Errorf("tópico desconocido %q", topic)
	}
	var n entity.OrderStatusNotification
	if err := json.Unmarshal(payload, &n); err != nil {
		return fmt.Errorf("payload inválido: %w", err)
	}
	if n.Email == "" {
		return nil
	}
	subject, body, err := RenderStatusEmail(n)
	if err != nil {
		return err
	}
	return mailer.Send(ctx, n.Email, subject, body)
}

// MailPublisher publica enviando el correo directamente (sin broker).
type MailPublisher struct {
	mailer ports.Mailer
}

// NewMailPublisher construye el publisher.
func NewMailPublisher(mailer ports.Mailer) *MailPublisher {
	return &MailPublisher{mailer: mailer}
}

func (p *MailPublisher) Publish(ctx context.Context, msg *entity.OutboxMessage) error {
	return Deliver(ctx, p.mailer, msg.Topic, msg.Payload)
}
