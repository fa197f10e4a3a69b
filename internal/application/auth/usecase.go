package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/ferreteria-api/internal/application/dto"
	"github.com/jhoicas/ferreteria-api/internal/application/ports"
	"github.com/jhoicas/ferreteria-api/internal/domain"
	"github.com/jhoicas/ferreteria-api/internal/domain/entity"
	"github.com/jhoicas/ferreteria-api/internal/domain/location"
	"github.com/jhoicas/ferreteria-api/internal/domain/repository"
	"github.com/jhoicas/ferreteria-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: registro, login y recuperación de clave.
type AuthUseCase struct {
	userRepo  repository.UserRepository
	tx        ports.AccountTxRunner
	jwtCfg    JWTConfig
	storeCity string
}

// NewAuthUseCase construye el caso de uso de auth. storeCity es la única ciudad con despacho.
func NewAuthUseCase(userRepo repository.UserRepository, tx ports.AccountTxRunner, jwtCfg JWTConfig, storeCity string) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, tx: tx, jwtCfg: jwtCfg, storeCity: storeCity}
}

// StoreCity ciudad configurada, usada en los mensajes de error.
func (uc *AuthUseCase) StoreCity() string { return uc.storeCity }

// Register crea un cliente: valida ciudad, hashea password con bcrypt y persiste.
// Si viene dirección se guarda como predeterminada en la misma transacción.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.AuthResponse, error) {
	if !location.SameCity(in.City, uc.storeCity) {
		return nil, domain.ErrInvalidCity
	}
	email := entity.NormalizeEmail(in.Email)
	existing, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("register: buscar email: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: string(hash),
		Phone:        strings.TrimSpace(in.Phone),
		Role:         entity.RoleCustomer,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	err = uc.tx.RunAccount(ctx, func(users repository.UserRepository, addresses repository.AddressRepository) error {
		if err := users.Create(ctx, user); err != nil {
			return err
		}
		if strings.TrimSpace(in.Address) == "" {
			return nil
		}
		return addresses.Create(ctx, &entity.Address{
			ID:        uuid.New().String(),
			UserID:    user.ID,
			Label:     "Principal",
			Line:      strings.TrimSpace(in.Address),
			City:      uc.storeCity,
			Zip:       strings.TrimSpace(in.Zip),
			IsDefault: true,
			CreatedAt: now,
			UpdatedAt: now,
		})
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.ErrEmailAlreadyExists
		}
		return nil, err
	}
	return &dto.AuthResponse{Status: "success", User: *ToUserResponse(user)}, nil
}

// Login verifica email/password, genera JWT y retorna token + usuario.
// Email inexistente y clave incorrecta devuelven el mismo ErrInvalidCredentials.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := uc.userRepo.GetByEmail(ctx, entity.NormalizeEmail(in.Email))
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if user == nil {
		return nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if !user.Active {
		return nil, domain.ErrForbidden
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponse{
		Status: "success",
		Token:  token,
		User:   *ToUserResponse(user),
	}, nil
}

// ResetPassword reemplaza la clave del usuario con ese email. ErrUserNotFound si no existe.
func (uc *AuthUseCase) ResetPassword(ctx context.Context, in dto.ResetPasswordRequest) error {
	user, err := uc.userRepo.GetByEmail(ctx, entity.NormalizeEmail(in.Email))
	if err != nil {
		return fmt.Errorf("reset password: %w", err)
	}
	if user == nil {
		return domain.ErrUserNotFound
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hash)
	user.UpdatedAt = time.Now()
	return uc.userRepo.Update(ctx, user)
}

// VerifyEmail indica si el email ya está registrado.
func (uc *AuthUseCase) VerifyEmail(ctx context.Context, email string) (*dto.VerifyEmailResponse, error) {
	user, err := uc.userRepo.GetByEmail(ctx, entity.NormalizeEmail(email))
	if err != nil {
		return nil, fmt.Errorf("verify email: %w", err)
	}
	return &dto.VerifyEmailResponse{Exists: user != nil}, nil
}

// ToUserResponse mapea la entidad a su DTO público (sin hash).
func ToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Phone:      u.Phone,
		Role:       u.Role,
		Active:     u.Active,
		Subscribed: u.Subscribed,
		CreatedAt:  u.CreatedAt,
	}
}
