package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	pkgauth "github.com/nengoo-market/nengoo-backend/pkg/auth"
	"github.com/nengoo-market/nengoo-backend/pkg/config"
	"github.com/nengoo-market/nengoo-backend/pkg/db/models"
	"github.com/nengoo-market/nengoo-backend/pkg/enums"
	pkgerrors "github.com/nengoo-market/nengoo-backend/pkg/errors"
	"github.com/nengoo-market/nengoo-backend/pkg/logger"
	"github.com/nengoo-market/nengoo-backend/pkg/security"
)

const invalidCredentialsMessage = "invalid credentials"

// Service defines the behavior needed by the auth controller.
type Service interface {
	BuyerLogin(ctx context.Context, req BuyerLoginRequest) (*LoginResponse, error)
	SellerLogin(ctx context.Context, req SellerLoginRequest) (*LoginResponse, error)
	AdminLogin(ctx context.Context, req AdminLoginRequest) (*LoginResponse, error)
	RegisterBuyer(ctx context.Context, req BuyerRegisterRequest) (*RegisterResponse, error)
	RegisterSeller(ctx context.Context, req SellerRegisterRequest) (*RegisterResponse, error)
}

type buyerRepository interface {
	FindByPhone(ctx context.Context, phone string) (*models.Buyer, error)
	Create(ctx context.Context, buyer *models.Buyer) (*models.Buyer, error)
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error
}

type sellerRepository interface {
	FindByWhatsapp(ctx context.Context, whatsapp string) (*models.Seller, error)
	Create(ctx context.Context, seller *models.Seller) (*models.Seller, error)
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error
}

type adminRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.Admin, error)
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error
}

type service struct {
	buyers      buyerRepository
	sellers     sellerRepository
	admins      adminRepository
	jwtCfg      config.JWTConfig
	passwordCfg config.PasswordConfig
	logg        *logger.Logger
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	BuyerRepo      buyerRepository
	SellerRepo     sellerRepository
	AdminRepo      adminRepository
	JWTConfig      config.JWTConfig
	PasswordConfig config.PasswordConfig
	Logger         *logger.Logger
}

// NewService constructs the auth service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.BuyerRepo == nil {
		return nil, fmt.Errorf("buyer repository is required")
	}
	if params.SellerRepo == nil {
		return nil, fmt.Errorf("seller repository is required")
	}
	if params.AdminRepo == nil {
		return nil, fmt.Errorf("admin repository is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &service{
		buyers:      params.BuyerRepo,
		sellers:     params.SellerRepo,
		admins:      params.AdminRepo,
		jwtCfg:      params.JWTConfig,
		passwordCfg: params.PasswordConfig,
		logg:        params.Logger,
	}, nil
}

func (s *service) BuyerLogin(ctx context.Context, req BuyerLoginRequest) (*LoginResponse, error) {
	phone := strings.TrimSpace(req.Phone)
	if phone == "" || req.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	buyer, err := s.buyers.FindByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup buyer")
	}
	// Guest accounts provisioned at checkout carry no password yet.
	if buyer.PasswordHash == nil || *buyer.PasswordHash == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	if buyer.Status != enums.AccountStatusActive {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	if err := s.checkPassword(ctx, req.Password, *buyer.PasswordHash, func(hash string) error {
		return s.buyers.UpdatePasswordHash(ctx, buyer.ID, hash)
	}); err != nil {
		return nil, err
	}

	return s.loginResponse(buyer.ID, buyer.Name, enums.ActorRoleBuyer)
}

func (s *service) SellerLogin(ctx context.Context, req SellerLoginRequest) (*LoginResponse, error) {
	whatsapp := strings.TrimSpace(req.Whatsapp)
	if whatsapp == "" || req.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	seller, err := s.sellers.FindByWhatsapp(ctx, whatsapp)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup seller")
	}
	if err := s.checkPassword(ctx, req.Password, seller.PasswordHash, func(hash string) error {
		return s.sellers.UpdatePasswordHash(ctx, seller.ID, hash)
	}); err != nil {
		return nil, err
	}
	if seller.Status == enums.AccountStatusPending {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "account pending approval")
	}
	if seller.Status != enums.AccountStatusApproved && seller.Status != enums.AccountStatusActive {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	return s.loginResponse(seller.ID, seller.BusinessName, enums.ActorRoleSeller)
}

func (s *service) AdminLogin(ctx context.Context, req AdminLoginRequest) (*LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	admin, err := s.admins.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup admin")
	}
	if !admin.Active {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	if err := s.checkPassword(ctx, req.Password, admin.PasswordHash, func(hash string) error {
		return s.admins.UpdatePasswordHash(ctx, admin.ID, hash)
	}); err != nil {
		return nil, err
	}

	role := admin.Role
	if !role.IsSupportOrHigher() {
		role = enums.ActorRoleSupport
	}
	return s.loginResponse(admin.ID, admin.Name, role)
}

func (s *service) RegisterBuyer(ctx context.Context, req BuyerRegisterRequest) (*RegisterResponse, error) {
	phone := strings.TrimSpace(req.Phone)
	hash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	existing, err := s.buyers.FindByPhone(ctx, phone)
	switch {
	case err == nil:
		if existing.PasswordHash != nil && *existing.PasswordHash != "" {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "phone already registered")
		}
		// Claim the guest record created by a previous checkout so the
		// order history stays attached.
		if err := s.buyers.UpdatePasswordHash(ctx, existing.ID, hash); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "claim guest account")
		}
		return s.registerResponse(existing.ID, existing.Name, enums.ActorRoleBuyer, enums.AccountStatusActive, true)
	case errors.Is(err, gorm.ErrRecordNotFound):
		// fall through to create
	default:
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup buyer")
	}

	buyer := &models.Buyer{
		Phone:        phone,
		Name:         strings.TrimSpace(req.Name),
		Email:        req.Email,
		City:         req.City,
		Status:       enums.AccountStatusActive,
		PasswordHash: &hash,
	}
	created, err := s.buyers.Create(ctx, buyer)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create buyer")
	}
	return s.registerResponse(created.ID, created.Name, enums.ActorRoleBuyer, enums.AccountStatusActive, true)
}

func (s *service) RegisterSeller(ctx context.Context, req SellerRegisterRequest) (*RegisterResponse, error) {
	whatsapp := strings.TrimSpace(req.Whatsapp)

	if _, err := s.sellers.FindByWhatsapp(ctx, whatsapp); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "whatsapp already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup seller")
	}

	hash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	seller := &models.Seller{
		Whatsapp:      whatsapp,
		Name:          strings.TrimSpace(req.Name),
		BusinessName:  strings.TrimSpace(req.BusinessName),
		Email:         strings.ToLower(strings.TrimSpace(req.Email)),
		City:          req.City,
		Region:        req.Region,
		Categories:    pq.StringArray(req.Categories),
		Status:        enums.AccountStatusPending,
		DeliveryPrice: req.DeliveryPrice,
		PasswordHash:  hash,
	}
	created, err := s.sellers.Create(ctx, seller)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create seller")
	}

	// Pending sellers cannot log in until an admin approves them, so no
	// token is issued here.
	return s.registerResponse(created.ID, created.BusinessName, enums.ActorRoleSeller, enums.AccountStatusPending, false)
}

// checkPassword verifies the supplied password and transparently upgrades
// legacy bcrypt hashes to argon2id on successful login.
func (s *service) checkPassword(ctx context.Context, password, encoded string, rehash func(hash string) error) error {
	ok, legacy, err := security.VerifyPassword(password, encoded)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	if legacy {
		upgraded, hashErr := security.HashPassword(password, s.passwordCfg)
		if hashErr != nil {
			s.logg.Error(ctx, "legacy hash upgrade failed", hashErr)
			return nil
		}
		if err := rehash(upgraded); err != nil {
			s.logg.Error(ctx, "legacy hash persist failed", err)
		}
	}
	return nil
}

func (s *service) loginResponse(actorID uuid.UUID, name string, role enums.ActorRole) (*LoginResponse, error) {
	token, err := pkgauth.MintAccessToken(s.jwtCfg, time.Now().UTC(), pkgauth.AccessTokenPayload{
		ActorID: actorID,
		Role:    role,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	return &LoginResponse{
		AccessToken: token,
		Actor:       ActorSummary{ID: actorID, Name: name, Role: role},
	}, nil
}

func (s *service) registerResponse(actorID uuid.UUID, name string, role enums.ActorRole, status enums.AccountStatus, withToken bool) (*RegisterResponse, error) {
	resp := &RegisterResponse{
		Actor:  ActorSummary{ID: actorID, Name: name, Role: role},
		Status: status,
	}
	if withToken {
		token, err := pkgauth.MintAccessToken(s.jwtCfg, time.Now().UTC(), pkgauth.AccessTokenPayload{
			ActorID: actorID,
			Role:    role,
		})
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
		}
		resp.AccessToken = token
	}
	return resp, nil
}
