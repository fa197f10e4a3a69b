package ports

import (
	"context"
	"errors"
)

// ErrCopyWriterUnavailable el proveedor de texto generativo no está configurado.
var ErrCopyWriterUnavailable = errors.New("servicio de IA no configurado")

// CopyWriter define el puerto de salida para los servicios de texto generativo.
// Cualquier adaptador (Gemini, Anthropic, mock) debe implementar esta interfaz.
type CopyWriter interface {
	// SuggestProductDescription redacta la descripción comercial de un producto de ferretería.
	// El contexto debe llevar un timeout para evitar bloqueos en llamadas externas.
	SuggestProductDescription(ctx context.Context, name, category string, keywords []string) (string, error)
	// Provider nombre del proveedor para trazabilidad en la respuesta.
	Provider() string
}
