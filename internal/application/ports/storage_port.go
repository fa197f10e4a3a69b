package ports

import "context"

// ObjectStore almacenamiento de archivos subidos (disco local, memoria o bucket).
type ObjectStore interface {
	// Put guarda data bajo key y devuelve la URL pública con la que se sirve.
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)
	Delete(ctx context.Context, key string) error
}

// Mailer envío de correo transaccional.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}
