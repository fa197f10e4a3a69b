package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/ferreteria-api/internal/domain"
	"github.com/jhoicas/ferreteria-api/internal/domain/entity"
	"github.com/jhoicas/ferreteria-api/internal/domain/repository"
)

var _ repository.AddressRepository = (*AddressRepo)(nil)

const addressColumns = `id, user_id, label, line, city, zip, is_default, created_at, updated_at`

// AddressRepo direcciones de despacho.
type AddressRepo struct {
	q Querier
}

// NewAddressRepository construye el adaptador de direcciones.
func NewAddressRepository(q Querier) *AddressRepo {
	return &AddressRepo{q: q}
}

func scanAddress(row pgx.Row) (*entity.Address, error) {
	var a entity.Address
	if err := row.Scan(&a.ID, &a.UserID, &a.Label, &a.Line, &a.City, &a.Zip, &a.IsDefault, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

// Create inserta una dirección. El índice parcial garantiza una sola predeterminada por usuario.
func (r *AddressRepo) Create(ctx context.Context, a *entity.Address) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO addresses (`+addressColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		a.ID, a.UserID, a.Label, a.Line, a.City, a.Zip, a.IsDefault, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrUserNotFound
		}
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("insert address: %w", err)
	}
	return nil
}

func (r *AddressRepo) GetByID(ctx context.Context, id string) (*entity.Address, error) {
	a, err := scanAddress(r.q.QueryRow(ctx, `SELECT `+addressColumns+` FROM addresses WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get address: %w", err)
	}
	return a, nil
}

// ListByUser la predeterminada primero, luego por antigüedad.
func (r *AddressRepo) ListByUser(ctx context.Context, userID string) ([]*entity.Address, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+addressColumns+` FROM addresses
		WHERE user_id = $1
		ORDER BY is_default DESC, created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("list addresses: %w", err)
	}
	defer rows.Close()
	var list []*entity.Address
	for rows.Next() {
		a, err := scanAddress(rows)
		if err != nil {
			return nil, fmt.Errorf("scan address: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

func (r *AddressRepo) Update(ctx context.Context, a *entity.Address) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE addresses SET label = $2, line = $3, city = $4, zip = $5, is_default = $6, updated_at = $7
		WHERE id = $1`,
		a.ID, a.Label, a.Line, a.City, a.Zip, a.IsDefault, a.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("update address: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina la dirección; si alguna orden la referencia → domain.ErrConflict.
func (r *AddressRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM addresses WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("delete address: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ClearDefault desmarca la predeterminada actual del usuario (si hay).
func (r *AddressRepo) ClearDefault(ctx context.Context, userID string) error {
	if _, err := r.q.Exec(ctx, `
		UPDATE addresses SET is_default = FALSE, updated_at = now()
		WHERE user_id = $1 AND is_default`, userID); err != nil {
		return fmt.Errorf("clear default address: %w", err)
	}
	return nil
}
