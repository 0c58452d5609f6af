package auth

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/nengoo-market/nengoo-backend/pkg/config"
	"github.com/nengoo-market/nengoo-backend/pkg/db/models"
	"github.com/nengoo-market/nengoo-backend/pkg/enums"
	pkgerrors "github.com/nengoo-market/nengoo-backend/pkg/errors"
	"github.com/nengoo-market/nengoo-backend/pkg/logger"
	"github.com/nengoo-market/nengoo-backend/pkg/security"
)

type stubAuthBuyers struct {
	buyer    *models.Buyer
	created  []*models.Buyer
	rehashed []string
}

func (s *stubAuthBuyers) FindByPhone(ctx context.Context, phone string) (*models.Buyer, error) {
	if s.buyer == nil || s.buyer.Phone != phone {
		return nil, gorm.ErrRecordNotFound
	}
	return s.buyer, nil
}

func (s *stubAuthBuyers) Create(ctx context.Context, buyer *models.Buyer) (*models.Buyer, error) {
	buyer.ID = uuid.New()
	s.created = append(s.created, buyer)
	return buyer, nil
}

func (s *stubAuthBuyers) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error {
	s.rehashed = append(s.rehashed, hash)
	return nil
}

type stubAuthSellers struct {
	seller  *models.Seller
	created []*models.Seller
}

func (s *stubAuthSellers) FindByWhatsapp(ctx context.Context, whatsapp string) (*models.Seller, error) {
	if s.seller == nil || s.seller.Whatsapp != whatsapp {
		return nil, gorm.ErrRecordNotFound
	}
	return s.seller, nil
}

func (s *stubAuthSellers) Create(ctx context.Context, seller *models.Seller) (*models.Seller, error) {
	seller.ID = uuid.New()
	s.created = append(s.created, seller)
	return seller, nil
}

func (s *stubAuthSellers) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error {
	return nil
}

type stubAuthAdmins struct {
	admin *models.Admin
}

func (s *stubAuthAdmins) FindByEmail(ctx context.Context, email string) (*models.Admin, error) {
	if s.admin == nil || s.admin.Email != email {
		return nil, gorm.ErrRecordNotFound
	}
	return s.admin, nil
}

func (s *stubAuthAdmins) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error {
	return nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "test-secret", Issuer: "nengoo-test", ExpirationMinutes: 60}
}

func buildAuthService(t *testing.T, buyers *stubAuthBuyers, sellers *stubAuthSellers, admins *stubAuthAdmins) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		BuyerRepo:      buyers,
		SellerRepo:     sellers,
		AdminRepo:      admins,
		JWTConfig:      testJWTConfig(),
		PasswordConfig: config.PasswordConfig{ArgonMemoryKB: 8192, ArgonTime: 1, ArgonParallelism: 1, ArgonSaltLen: 16, ArgonKeyLen: 32},
		Logger:         logger.New(logger.Options{ServiceName: "auth-test", Level: zerolog.ErrorLevel, Output: io.Discard}),
	})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{ArgonMemoryKB: 8192, ArgonTime: 1, ArgonParallelism: 1, ArgonSaltLen: 16, ArgonKeyLen: 32})
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return hash
}

func TestBuyerLoginSucceeds(t *testing.T) {
	hash := mustHash(t, "s3cret-pass")
	buyer := &models.Buyer{ID: uuid.New(), Phone: "+237670000001", Name: "Aissatou", Status: enums.AccountStatusActive, PasswordHash: &hash}
	svc := buildAuthService(t, &stubAuthBuyers{buyer: buyer}, &stubAuthSellers{}, &stubAuthAdmins{})

	resp, err := svc.BuyerLogin(context.Background(), BuyerLoginRequest{Phone: "+237670000001", Password: "s3cret-pass"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.AccessToken == "" {
		t.Fatal("expected access token")
	}
	if resp.Actor.Role != enums.ActorRoleBuyer || resp.Actor.ID != buyer.ID {
		t.Fatalf("unexpected actor %+v", resp.Actor)
	}
}

func TestBuyerLoginRejectsGuestAccount(t *testing.T) {
	buyer := &models.Buyer{ID: uuid.New(), Phone: "+237670000001", Status: enums.AccountStatusActive}
	svc := buildAuthService(t, &stubAuthBuyers{buyer: buyer}, &stubAuthSellers{}, &stubAuthAdmins{})

	_, err := svc.BuyerLogin(context.Background(), BuyerLoginRequest{Phone: "+237670000001", Password: "anything"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized for guest, got %v", err)
	}
}

func TestBuyerLoginWrongPassword(t *testing.T) {
	hash := mustHash(t, "right-pass")
	buyer := &models.Buyer{ID: uuid.New(), Phone: "+237670000001", Status: enums.AccountStatusActive, PasswordHash: &hash}
	svc := buildAuthService(t, &stubAuthBuyers{buyer: buyer}, &stubAuthSellers{}, &stubAuthAdmins{})

	_, err := svc.BuyerLogin(context.Background(), BuyerLoginRequest{Phone: "+237670000001", Password: "wrong-pass"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestBuyerLoginUpgradesLegacyBcryptHash(t *testing.T) {
	legacy, err := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	hash := string(legacy)
	buyer := &models.Buyer{ID: uuid.New(), Phone: "+237670000001", Status: enums.AccountStatusActive, PasswordHash: &hash}
	buyers := &stubAuthBuyers{buyer: buyer}
	svc := buildAuthService(t, buyers, &stubAuthSellers{}, &stubAuthAdmins{})

	if _, err := svc.BuyerLogin(context.Background(), BuyerLoginRequest{Phone: "+237670000001", Password: "s3cret-pass"}); err != nil {
		t.Fatalf("login: %v", err)
	}
	if len(buyers.rehashed) != 1 {
		t.Fatalf("expected one rehash, got %d", len(buyers.rehashed))
	}
	ok, legacyStill, err := security.VerifyPassword("s3cret-pass", buyers.rehashed[0])
	if err != nil || !ok {
		t.Fatalf("upgraded hash does not verify: ok=%v err=%v", ok, err)
	}
	if legacyStill {
		t.Fatal("expected upgraded hash to be argon2id")
	}
}

func TestSellerLoginPendingAccountForbidden(t *testing.T) {
	seller := &models.Seller{ID: uuid.New(), Whatsapp: "+237690000001", BusinessName: "Alpha", Status: enums.AccountStatusPending, PasswordHash: mustHash(t, "s3cret-pass")}
	svc := buildAuthService(t, &stubAuthBuyers{}, &stubAuthSellers{seller: seller}, &stubAuthAdmins{})

	_, err := svc.SellerLogin(context.Background(), SellerLoginRequest{Whatsapp: "+237690000001", Password: "s3cret-pass"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden for pending seller, got %v", err)
	}
}

func TestSellerLoginApprovedSucceeds(t *testing.T) {
	seller := &models.Seller{ID: uuid.New(), Whatsapp: "+237690000001", BusinessName: "Alpha", Status: enums.AccountStatusApproved, PasswordHash: mustHash(t, "s3cret-pass")}
	svc := buildAuthService(t, &stubAuthBuyers{}, &stubAuthSellers{seller: seller}, &stubAuthAdmins{})

	resp, err := svc.SellerLogin(context.Background(), SellerLoginRequest{Whatsapp: "+237690000001", Password: "s3cret-pass"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.Actor.Role != enums.ActorRoleSeller {
		t.Fatalf("expected seller role, got %s", resp.Actor.Role)
	}
}

func TestAdminLoginInactiveRejected(t *testing.T) {
	admin := &models.Admin{ID: uuid.New(), Email: "ops@nengoo.cm", Role: enums.ActorRoleSuperAdmin, Active: false, PasswordHash: mustHash(t, "s3cret-pass")}
	svc := buildAuthService(t, &stubAuthBuyers{}, &stubAuthSellers{}, &stubAuthAdmins{admin: admin})

	_, err := svc.AdminLogin(context.Background(), AdminLoginRequest{Email: "ops@nengoo.cm", Password: "s3cret-pass"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestAdminLoginCarriesRole(t *testing.T) {
	admin := &models.Admin{ID: uuid.New(), Email: "ops@nengoo.cm", Name: "Ops", Role: enums.ActorRoleSuperAdmin, Active: true, PasswordHash: mustHash(t, "s3cret-pass")}
	svc := buildAuthService(t, &stubAuthBuyers{}, &stubAuthSellers{}, &stubAuthAdmins{admin: admin})

	resp, err := svc.AdminLogin(context.Background(), AdminLoginRequest{Email: "ops@nengoo.cm", Password: "s3cret-pass"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.Actor.Role != enums.ActorRoleSuperAdmin {
		t.Fatalf("expected super_admin role, got %s", resp.Actor.Role)
	}
}

func TestRegisterBuyerCreatesAccount(t *testing.T) {
	buyers := &stubAuthBuyers{}
	svc := buildAuthService(t, buyers, &stubAuthSellers{}, &stubAuthAdmins{})

	resp, err := svc.RegisterBuyer(context.Background(), BuyerRegisterRequest{
		Phone:    "+237670000001",
		Name:     "Aissatou",
		Password: "s3cret-pass",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if len(buyers.created) != 1 {
		t.Fatalf("expected one created buyer, got %d", len(buyers.created))
	}
	if resp.AccessToken == "" {
		t.Fatal("expected access token for active buyer")
	}
}

func TestRegisterBuyerClaimsGuestRecord(t *testing.T) {
	guest := &models.Buyer{ID: uuid.New(), Phone: "+237670000001", Name: "Aissatou", Status: enums.AccountStatusActive}
	buyers := &stubAuthBuyers{buyer: guest}
	svc := buildAuthService(t, buyers, &stubAuthSellers{}, &stubAuthAdmins{})

	resp, err := svc.RegisterBuyer(context.Background(), BuyerRegisterRequest{
		Phone:    "+237670000001",
		Name:     "Aissatou",
		Password: "s3cret-pass",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if len(buyers.created) != 0 {
		t.Fatal("expected guest record reuse, not a new account")
	}
	if len(buyers.rehashed) != 1 {
		t.Fatal("expected password attached to guest record")
	}
	if resp.Actor.ID != guest.ID {
		t.Fatal("expected response to reference the guest account")
	}
}

func TestRegisterBuyerConflictOnRegisteredPhone(t *testing.T) {
	hash := mustHash(t, "old-pass")
	existing := &models.Buyer{ID: uuid.New(), Phone: "+237670000001", Status: enums.AccountStatusActive, PasswordHash: &hash}
	svc := buildAuthService(t, &stubAuthBuyers{buyer: existing}, &stubAuthSellers{}, &stubAuthAdmins{})

	_, err := svc.RegisterBuyer(context.Background(), BuyerRegisterRequest{
		Phone:    "+237670000001",
		Name:     "Aissatou",
		Password: "s3cret-pass",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestRegisterSellerStartsPending(t *testing.T) {
	sellers := &stubAuthSellers{}
	svc := buildAuthService(t, &stubAuthBuyers{}, sellers, &stubAuthAdmins{})

	resp, err := svc.RegisterSeller(context.Background(), SellerRegisterRequest{
		Whatsapp:     "+237690000001",
		Name:         "Jean",
		BusinessName: "Alpha Boutique",
		Email:        "alpha@example.com",
		Password:     "s3cret-pass",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if resp.Status != enums.AccountStatusPending {
		t.Fatalf("expected pending status, got %s", resp.Status)
	}
	if resp.AccessToken != "" {
		t.Fatal("pending seller must not receive a token")
	}
	if len(sellers.created) != 1 || sellers.created[0].Status != enums.AccountStatusPending {
		t.Fatalf("unexpected created seller %+v", sellers.created)
	}
}

func TestRegisterSellerConflict(t *testing.T) {
	existing := &models.Seller{ID: uuid.New(), Whatsapp: "+237690000001", Status: enums.AccountStatusApproved}
	svc := buildAuthService(t, &stubAuthBuyers{}, &stubAuthSellers{seller: existing}, &stubAuthAdmins{})

	_, err := svc.RegisterSeller(context.Background(), SellerRegisterRequest{
		Whatsapp:     "+237690000001",
		Name:         "Jean",
		BusinessName: "Alpha Boutique",
		Email:        "alpha@example.com",
		Password:     "s3cret-pass",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}
