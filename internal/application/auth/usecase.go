package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/stock-peinture-api/internal/application/dto"
	"github.com/jhoicas/stock-peinture-api/internal/domain"
	"github.com/jhoicas/stock-peinture-api/internal/domain/entity"
	"github.com/jhoicas/stock-peinture-api/internal/domain/repository"
	"github.com/jhoicas/stock-peinture-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: registro y login.
type AuthUseCase struct {
	userRepo   repository.UserRepository
	orgRepo    repository.OrganizationRepository
	memberRepo repository.MemberRepository
	jwtCfg     JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(
	userRepo repository.UserRepository,
	orgRepo repository.OrganizationRepository,
	memberRepo repository.MemberRepository,
	jwtCfg JWTConfig,
) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, orgRepo: orgRepo, memberRepo: memberRepo, jwtCfg: jwtCfg}
}

// Register crea un usuario con password bcrypt. ErrEmailAlreadyExists si el email ya existe.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.UserResponse, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	existing, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, domain.FetchErr("de l'utilisateur", err)
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = email
	}
	user := &entity.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, domain.CreateErr("de l'utilisateur", err)
	}
	return toUserResponse(user), nil
}

// Login verifica email/password, genera JWT y retorna token, usuario y sus organizaciones.
// Email desconocido y password incorrecto devuelven el mismo ErrUnauthorized.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil {
		return nil, domain.FetchErr("de l'utilisateur", err)
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Email, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	orgs, err := uc.organizationsOf(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token:         token,
		ExpiresIn:     uc.jwtCfg.ExpMinutes * 60,
		User:          *toUserResponse(user),
		Organizations: orgs,
	}, nil
}

// Me devuelve el usuario autenticado.
func (uc *AuthUseCase) Me(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, domain.FetchErr("de l'utilisateur", err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return toUserResponse(user), nil
}

func (uc *AuthUseCase) organizationsOf(ctx context.Context, userID string) ([]dto.OrganizationResponse, error) {
	orgs, err := uc.orgRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, domain.FetchErr("des organisations", err)
	}
	out := make([]dto.OrganizationResponse, 0, len(orgs))
	for _, o := range orgs {
		m, err := uc.memberRepo.Get(ctx, o.ID, userID)
		if err != nil {
			return nil, domain.FetchErr("des organisations", err)
		}
		r := dto.OrganizationResponse{
			ID: o.ID, Name: o.Name, Slug: o.Slug, LogoURL: o.LogoURL,
			CreatedAt: o.CreatedAt, UpdatedAt: o.UpdatedAt,
		}
		if m != nil {
			r.Role = m.Role
		}
		out = append(out, r)
	}
	return out, nil
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		CreatedAt: u.CreatedAt,
	}
}
