package usecase

import (
	"context"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/jhoicas/ferreteria-api/internal/application/dto"
	"github.com/jhoicas/ferreteria-api/internal/domain"
	"github.com/jhoicas/ferreteria-api/internal/domain/entity"
	"github.com/jhoicas/ferreteria-api/internal/domain/repository"
)

// BankAccountUseCase cuentas donde los clientes pagan (pago móvil o transferencia).
type BankAccountUseCase struct {
	repo repository.BankAccountRepository
}

// NewBankAccountUseCase construye el caso de uso.
func NewBankAccountUseCase(repo repository.BankAccountRepository) *BankAccountUseCase {
	return &BankAccountUseCase{repo: repo}
}

// validateAccount campos obligatorios según el tipo:
// MOBILE_PAYMENT → phone + holderId; TRANSFER → accountNumber de 20 dígitos + holderName + holderId.
func validateAccount(a *entity.BankAccount) error {
	verr := &domain.ValidationError{Fields: map[string]string{}}
	if a.HolderID == "" {
		verr.Fields["holderId"] = "es obligatorio"
	}
	switch a.Type {
	case entity.BankAccountMobilePayment:
		if a.Phone == "" {
			verr.Fields["phone"] = "es obligatorio para pago móvil"
		}
	case entity.BankAccountTransfer:
		if a.HolderName == "" {
			verr.Fields["holderName"] = "es obligatorio para transferencia"
		}
		if len(a.AccountNumber) != 20 || strings.IndexFunc(a.AccountNumber, func(r rune) bool { return !unicode.IsDigit(r) }) >= 0 {
			verr.Fields["accountNumber"] = "debe tener 20 dígitos"
		}
	default:
		verr.Fields["type"] = "debe ser MOBILE_PAYMENT o TRANSFER"
	}
	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}

// Create registra una cuenta; por defecto queda activa.
func (uc *BankAccountUseCase) Create(ctx context.Context, in dto.BankAccountRequest) (*dto.BankAccountResponse, error) {
	now := time.Now()
	a := &entity.BankAccount{
		ID:            uuid.New().String(),
		Type:          in.Type,
		BankName:      strings.TrimSpace(in.BankName),
		HolderName:    strings.TrimSpace(in.HolderName),
		HolderID:      strings.TrimSpace(in.HolderID),
		Phone:         strings.TrimSpace(in.Phone),
		AccountNumber: strings.TrimSpace(in.AccountNumber),
		Active:        in.Active == nil || *in.Active,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := validateAccount(a); err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return toBankAccountResponse(a), nil
}

// List cuentas; el público solo ve las activas.
func (uc *BankAccountUseCase) List(ctx context.Context, onlyActive bool) ([]dto.BankAccountResponse, error) {
	list, err := uc.repo.List(ctx, onlyActive)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BankAccountResponse, 0, len(list))
	for _, a := range list {
		out = append(out, *toBankAccountResponse(a))
	}
	return out, nil
}

// Update edición parcial; revalida los campos requeridos por el tipo.
func (uc *BankAccountUseCase) Update(ctx context.Context, id string, in dto.UpdateBankAccountRequest) (*dto.BankAccountResponse, error) {
	a, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, domain.ErrNotFound
	}
	if in.BankName != nil {
		a.BankName = strings.TrimSpace(*in.BankName)
	}
	if in.HolderName != nil {
		a.HolderName = strings.TrimSpace(*in.HolderName)
	}
	if in.HolderID != nil {
		a.HolderID = strings.TrimSpace(*in.HolderID)
	}
	if in.Phone != nil {
		a.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.AccountNumber != nil {
		a.AccountNumber = strings.TrimSpace(*in.AccountNumber)
	}
	if in.Active != nil {
		a.Active = *in.Active
	}
	if err := validateAccount(a); err != nil {
		return nil, err
	}
	a.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return toBankAccountResponse(a), nil
}

// Delete elimina la cuenta.
func (uc *BankAccountUseCase) Delete(ctx context.Context, id string) error {
	return uc.repo.Delete(ctx, id)
}

func toBankAccountResponse(a *entity.BankAccount) *dto.BankAccountResponse {
	return &dto.BankAccountResponse{
		ID:            a.ID,
		Type:          a.Type,
		BankName:      a.BankName,
		HolderName:    a.HolderName,
		HolderID:      a.HolderID,
		Phone:         a.Phone,
		AccountNumber: a.AccountNumber,
		Active:        a.Active,
		CreatedAt:     a.CreatedAt,
	}
}
