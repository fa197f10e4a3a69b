package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/ferreteria-api/internal/application/dto"
	"github.com/jhoicas/ferreteria-api/internal/application/ports"
	"github.com/jhoicas/ferreteria-api/internal/domain"
	"github.com/jhoicas/ferreteria-api/internal/domain/entity"
	"github.com/jhoicas/ferreteria-api/internal/domain/location"
	"github.com/jhoicas/ferreteria-api/internal/domain/repository"
)

// AddressUseCase direcciones de despacho del usuario autenticado.
// La marca de predeterminada se cambia dentro de una transacción: como máximo una por usuario.
type AddressUseCase struct {
	repo      repository.AddressRepository
	tx        ports.AccountTxRunner
	storeCity string
}

// NewAddressUseCase construye el caso de uso.
func NewAddressUseCase(repo repository.AddressRepository, tx ports.AccountTxRunner, storeCity string) *AddressUseCase {
	return &AddressUseCase{repo: repo, tx: tx, storeCity: storeCity}
}

// List direcciones del usuario, la predeterminada incluida.
func (uc *AddressUseCase) List(ctx context.Context, userID string) ([]dto.AddressResponse, error) {
	list, err := uc.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AddressResponse, 0, len(list))
	for _, a := range list {
		out = append(out, toAddressResponse(a))
	}
	return out, nil
}

// Create agrega una dirección. La primera del usuario queda como predeterminada.
func (uc *AddressUseCase) Create(ctx context.Context, userID string, in dto.AddressRequest) (*dto.AddressResponse, error) {
	if !location.SameCity(in.City, uc.storeCity) {
		return nil, domain.ErrInvalidCity
	}
	now := time.Now()
	addr := &entity.Address{
		ID:        uuid.New().String(),
		UserID:    userID,
		Label:     in.Label,
		Line:      in.Line,
		City:      uc.storeCity,
		Zip:       in.Zip,
		IsDefault: in.IsDefault,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := uc.tx.RunAccount(ctx, func(_ repository.UserRepository, addresses repository.AddressRepository) error {
		existing, err := addresses.ListByUser(ctx, userID)
		if err != nil {
			return err
		}
		if len(existing) == 0 {
			addr.IsDefault = true
		}
		if addr.IsDefault {
			if err := addresses.ClearDefault(ctx, userID); err != nil {
				return err
			}
		}
		return addresses.Create(ctx, addr)
	})
	if err != nil {
		return nil, err
	}
	out := toAddressResponse(addr)
	return &out, nil
}

// Update edita una dirección propia. IsDefault=true la convierte en la predeterminada.
func (uc *AddressUseCase) Update(ctx context.Context, userID, id string, in dto.AddressRequest) (*dto.AddressResponse, error) {
	if !location.SameCity(in.City, uc.storeCity) {
		return nil, domain.ErrInvalidCity
	}
	var addr *entity.Address
	err := uc.tx.RunAccount(ctx, func(_ repository.UserRepository, addresses repository.AddressRepository) error {
		var err error
		addr, err = ownedAddress(ctx, addresses, userID, id)
		if err != nil {
			return err
		}
		addr.Label = in.Label
		addr.Line = in.Line
		addr.Zip = in.Zip
		addr.UpdatedAt = time.Now()
		if in.IsDefault && !addr.IsDefault {
			if err := addresses.ClearDefault(ctx, userID); err != nil {
				return err
			}
			addr.IsDefault = true
		}
		return addresses.Update(ctx, addr)
	})
	if err != nil {
		return nil, err
	}
	out := toAddressResponse(addr)
	return &out, nil
}

// SetDefault marca la dirección como predeterminada y desmarca las demás de forma atómica.
func (uc *AddressUseCase) SetDefault(ctx context.Context, userID, id string) error {
	return uc.tx.RunAccount(ctx, func(_ repository.UserRepository, addresses repository.AddressRepository) error {
		addr, err := ownedAddress(ctx, addresses, userID, id)
		if err != nil {
			return err
		}
		if err := addresses.ClearDefault(ctx, userID); err != nil {
			return err
		}
		addr.IsDefault = true
		addr.UpdatedAt = time.Now()
		return addresses.Update(ctx, addr)
	})
}

// Delete elimina una dirección propia.
func (uc *AddressUseCase) Delete(ctx context.Context, userID, id string) error {
	if _, err := ownedAddress(ctx, uc.repo, userID, id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id)
}

// ownedAddress una dirección ajena se reporta como inexistente.
func ownedAddress(ctx context.Context, repo repository.AddressRepository, userID, id string) (*entity.Address, error) {
	addr, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if addr == nil || addr.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return addr, nil
}

func toAddressResponse(a *entity.Address) dto.AddressResponse {
	return dto.AddressResponse{
		ID:        a.ID,
		Label:     a.Label,
		Line:      a.Line,
		City:      a.City,
		Zip:       a.Zip,
		IsDefault: a.IsDefault,
	}
}
