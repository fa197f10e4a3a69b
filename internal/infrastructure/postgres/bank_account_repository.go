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

var _ repository.BankAccountRepository = (*BankAccountRepo)(nil)

const bankAccountColumns = `id, type, bank_name, holder_name, holder_id, phone, account_number, active, created_at, updated_at`

// BankAccountRepo cuentas donde los clientes pagan.
type BankAccountRepo struct {
	q Querier
}

func NewBankAccountRepository(q Querier) *BankAccountRepo {
	return &BankAccountRepo{q: q}
}

func scanBankAccount(row pgx.Row) (*entity.BankAccount, error) {
	var a entity.BankAccount
	err := row.Scan(&a.ID, &a.Type, &a.BankName, &a.HolderName, &a.HolderID, &a.Phone, &a.AccountNumber,
		&a.Active, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *BankAccountRepo) Create(ctx context.Context, a *entity.BankAccount) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO bank_accounts (`+bankAccountColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		a.ID, a.Type, a.BankName, a.HolderName, a.HolderID, a.Phone, a.AccountNumber,
		a.Active, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert bank account: %w", err)
	}
	return nil
}

func (r *BankAccountRepo) GetByID(ctx context.Context, id string) (*entity.BankAccount, error) {
	a, err := scanBankAccount(r.q.QueryRow(ctx, `SELECT `+bankAccountColumns+` FROM bank_accounts WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get bank account: %w", err)
	}
	return a, nil
}

func (r *BankAccountRepo) List(ctx context.Context, onlyActive bool) ([]*entity.BankAccount, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+bankAccountColumns+` FROM bank_accounts
		WHERE active OR NOT $1
		ORDER BY bank_name, created_at`, onlyActive)
	if err != nil {
		return nil, fmt.Errorf("list bank accounts: %w", err)
	}
	defer rows.Close()
	var list []*entity.BankAccount
	for rows.Next() {
		a, err := scanBankAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan bank account: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

func (r *BankAccountRepo) Update(ctx context.Context, a *entity.BankAccount) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE bank_accounts SET type = $2, bank_name = $3, holder_name = $4, holder_id = $5,
			phone = $6, account_number = $7, active = $8, updated_at = $9
		WHERE id = $1`,
		a.ID, a.Type, a.BankName, a.HolderName, a.HolderID, a.Phone, a.AccountNumber, a.Active, a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update bank account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *BankAccountRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM bank_accounts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete bank account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
