// Package pdf genera el comprobante de compra de una orden.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Tienda              │  N° Orden + Fecha             │
//	│  CLIENTE: Nombre / Email / Tel   DESPACHO: Dirección         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Producto | P.Unit | Desc% | Subtotal          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Subtotal / Descuento / Envío / TOTAL               │
//	│  PAGO: método, referencia, estado  +  QR con el N° de orden  │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/ferreteria-api/internal/application/ports"
	"github.com/jhoicas/ferreteria-api/internal/domain/entity"
)

var (
	colorPrimary = &props.Color{Red: 191, Green: 64, Blue: 0}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var _ ports.ReceiptRenderer = (*ReceiptGenerator)(nil)

// ReceiptGenerator implementa ports.ReceiptRenderer con Maroto v2.
type ReceiptGenerator struct{}

// NewReceiptGenerator construye el generador.
func NewReceiptGenerator() *ReceiptGenerator { return &ReceiptGenerator{} }

// RenderOrderReceipt genera el PDF y devuelve sus bytes.
func (g *ReceiptGenerator) RenderOrderReceipt(r ports.Receipt) ([]byte, error) {
	if r.Order == nil {
		return nil, fmt.Errorf("pdf: orden vacía")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Comprobante "+r.Order.OrderNumber, true).
		WithAuthor(r.StoreName, true).
		Build()

	m := maroto.New(cfg)
	m.AddRows(headerRow(r.StoreName, r.Order))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(partiesRow(r.Customer, r.Address))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(tableHeaderRow())
	m.AddRows(itemRows(r.Items)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(r.Order))
	m.AddRows(line.NewRow(3))
	m.AddRows(paymentRow(r.Order))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

func headerRow(store string, o *entity.Order) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(store, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
			text.New("Comprobante de compra", props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("ORDEN", props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1}),
			text.New(o.OrderNumber, props.Text{Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7}),
			text.New("Fecha: "+o.CreatedAt.Format("02/01/2006 15:04"), props.Text{Size: 8, Align: align.Right, Top: 14, Color: colorGray}),
		),
	)
}

func partiesRow(u *entity.User, a *entity.Address) core.Row {
	name, contact := "—", "—"
	if u != nil {
		name = u.Name
		contact = fmt.Sprintf("Email: %s   |   Tel: %s", nonEmpty(u.Email, "—"), nonEmpty(u.Phone, "—"))
	}
	shipTo := "—"
	if a != nil {
		shipTo = strings.Join(nonEmptyParts(a.Line, a.City, a.Zip), ", ")
	}
	return row.New(16).Add(
		col.New(6).Add(
			text.New("CLIENTE", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(name, props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
			text.New(contact, props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
		col.New(6).Add(
			text.New("DESPACHO", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(shipTo, props.Text{Size: 9, Top: 6}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 1, align.Center),
		h("Producto", 5, align.Left),
		h("Precio Unit.", 2, align.Right),
		h("Desc.%", 1, align.Center),
		h("Subtotal", 3, align.Right),
	)
}

func itemRows(items []*entity.OrderItem) []core.Row {
	out := make([]core.Row, 0, len(items))
	for _, it := range items {
		out = append(out, row.New(7).Add(
			col.New(1).Add(text.New(fmt.Sprint(it.Quantity), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(5).Add(text.New(it.ProductName, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(formatMoney(it.UnitPrice), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(1).Add(text.New(it.Discount.StringFixed(0)+"%", props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(3).Add(text.New(formatMoney(it.Subtotal), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return out
}

func totalsRow(o *entity.Order) core.Row {
	label := func(s string, strong bool) core.Component {
		p := props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2}
		if strong {
			p.Size, p.Color = 10, colorPrimary
		}
		return text.New(s, p)
	}
	value := func(d decimal.Decimal, strong bool) core.Component {
		p := props.Text{Size: 9, Align: align.Right, Right: 1}
		if strong {
			p.Style, p.Size, p.Color = fontstyle.Bold, 10, colorPrimary
		}
		return text.New(formatMoney(d), p)
	}
	return row.New(26).Add(
		col.New(6),
		col.New(3).Add(label("Subtotal:", false), label("Descuento:", false), label("Envío:", false), label("TOTAL:", true)),
		col.New(3).Add(value(o.Subtotal, false), value(o.Discount.Neg(), false), value(o.ShippingCost, false), value(o.Total, true)),
	)
}

func paymentRow(o *entity.Order) core.Row {
	lines := []string{
		"Método de pago: " + paymentMethodLabel(o.PaymentMethod),
		"Referencia: " + nonEmpty(o.PaymentReference, "—"),
		"Estado del pago: " + entity.PaymentStatusLabel(o.PaymentStatus),
		"Estado de la orden: " + entity.StatusLabel(o.Status),
	}
	if o.CouponCode != "" {
		lines = append(lines, "Cupón: "+o.CouponCode)
	}
	return row.New(36).Add(
		col.New(8).Add(text.New(strings.Join(lines, "\n"), props.Text{Size: 8, Top: 2, Color: colorGray})),
		col.New(4).Add(code.NewQr(o.OrderNumber, props.Rect{Percent: 90, Center: true})),
	)
}

func paymentMethodLabel(m string) string {
	switch m {
	case entity.PaymentMethodMobile:
		return "Pago móvil"
	case entity.PaymentMethodTransfer:
		return "Transferencia"
	case entity.PaymentMethodCash:
		return "Efectivo"
	}
	return m
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func nonEmptyParts(parts ...string) []string {
	out := parts[:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return out
}

// formatMoney formato local con punto de miles y coma decimal: 1234.5 → "$1.234,50".
func formatMoney(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	s := d.StringFixed(2)
	intPart, frac := s[:len(s)-3], s[len(s)-2:]
	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i := 0; i < n; i++ {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, intPart[i])
	}
	return sign + "$" + string(buf) + "," + frac
}
