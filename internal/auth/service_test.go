package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jeevaraksha/hospital-api/internal/loginlog"
	pkgauth "github.com/jeevaraksha/hospital-api/pkg/auth"
	"github.com/jeevaraksha/hospital-api/pkg/config"
	"github.com/jeevaraksha/hospital-api/pkg/db/models"
	"github.com/jeevaraksha/hospital-api/pkg/enums"
	pkgerrors "github.com/jeevaraksha/hospital-api/pkg/errors"
	"github.com/jeevaraksha/hospital-api/pkg/security"
	"gorm.io/gorm"
)

var testJWT = config.JWTConfig{
	Secret:            "secret",
	Issuer:            "jeeva-raksha",
	ExpirationMinutes: 480,
}

var testLockout = config.LockoutConfig{
	MaxAttempts:  5,
	LockDuration: 15 * time.Minute,
}

type stubUserRepo struct {
	users []*models.User
}

func (r *stubUserRepo) byID(id uuid.UUID) *models.User {
	for _, u := range r.users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	if u := r.byID(id); u != nil && u.Status != enums.UserStatusDeleted {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) FindOldestActiveByRole(_ context.Context, role enums.Role) (*models.User, error) {
	var oldest *models.User
	for _, u := range r.users {
		if u.RoleName() != role || u.Status != enums.UserStatusActive {
			continue
		}
		if oldest == nil || u.CreatedAt.Before(oldest.CreatedAt) {
			oldest = u
		}
	}
	if oldest == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return oldest, nil
}

func (r *stubUserRepo) FindForUpdate(_ context.Context, _ *gorm.DB, id uuid.UUID) (*models.User, error) {
	if u := r.byID(id); u != nil {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) UpdateLockState(_ context.Context, _ *gorm.DB, id uuid.UUID, attempts int, lockedUntil *time.Time) error {
	u := r.byID(id)
	if u == nil {
		return gorm.ErrRecordNotFound
	}
	u.LoginAttempts = attempts
	u.LockedUntil = lockedUntil
	return nil
}

func (r *stubUserRepo) ResetLoginState(_ context.Context, id uuid.UUID, at time.Time) error {
	u := r.byID(id)
	if u == nil {
		return gorm.ErrRecordNotFound
	}
	u.LoginAttempts = 0
	u.LockedUntil = nil
	u.LastLoginAt = &at
	return nil
}

type stubLoginRecorder struct {
	entries []loginlog.Entry
}

func (r *stubLoginRecorder) Record(_ context.Context, entry loginlog.Entry) {
	r.entries = append(r.entries, entry)
}

func (r *stubLoginRecorder) last() loginlog.Entry {
	return r.entries[len(r.entries)-1]
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(_ context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type fixture struct {
	svc     Service
	repo    *stubUserRepo
	logs    *stubLoginRecorder
	nowFunc func() time.Time
}

func newFixture(t *testing.T, users ...*models.User) *fixture {
	t.Helper()
	repo := &stubUserRepo{users: users}
	logs := &stubLoginRecorder{}
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	f := &fixture{repo: repo, logs: logs, nowFunc: func() time.Time { return now }}

	svc, err := NewService(ServiceParams{
		UserRepo:      repo,
		LoginRecorder: logs,
		TxRunner:      stubTxRunner{},
		JWTConfig:     testJWT,
		LockoutConfig: testLockout,
		Now:           func() time.Time { return f.nowFunc() },
	})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	f.svc = svc
	return f
}

func testUser(t *testing.T, email, password string, role enums.Role) *models.User {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{BcryptCost: 4})
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: &hash,
		Name:         "Test User",
		EmployeeID:   "EMP-001",
		Status:       enums.UserStatusActive,
		Role:         &models.Role{Name: role},
		CreatedAt:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestLoginSuccessIssuesTokenAndResetsCounter(t *testing.T) {
	user := testUser(t, "doc@hospital.test", "s3cret", enums.RoleDoctor)
	user.LoginAttempts = 3
	f := newFixture(t, user)

	result, err := f.svc.Login(context.Background(), LoginRequest{
		Email:    "Doc@Hospital.Test",
		Password: "s3cret",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	claims, err := pkgauth.Parse(testJWT, result.Token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.Role != enums.RoleDoctor {
		t.Fatalf("expected doctor role claim, got %s", claims.Role)
	}
	if claims.IsDemo() {
		t.Fatalf("real login must not mint a demo token")
	}
	if user.LoginAttempts != 0 {
		t.Fatalf("expected counter reset, got %d", user.LoginAttempts)
	}
	if user.LastLoginAt == nil {
		t.Fatalf("expected last login stamp")
	}
	if got := f.logs.last().Action; got != enums.LoginActionSuccess {
		t.Fatalf("expected success log entry, got %s", got)
	}
	if result.User.Role != enums.RoleDoctor {
		t.Fatalf("expected real role in payload, got %s", result.User.Role)
	}
}

func TestLoginUnknownEmailLogsRawValue(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Login(context.Background(), LoginRequest{
		Email:    "Nobody@Example.COM",
		Password: "whatever",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}

	entry := f.logs.last()
	if entry.UserID != nil {
		t.Fatalf("unknown email must log nil user id")
	}
	if entry.Email != "Nobody@Example.COM" {
		t.Fatalf("expected raw submitted email in log, got %q", entry.Email)
	}
	if entry.Action != enums.LoginActionFailed {
		t.Fatalf("expected failed action, got %s", entry.Action)
	}
}

func TestLoginWrongPasswordCountsDown(t *testing.T) {
	user := testUser(t, "nurse@hospital.test", "right", enums.RoleNurse)
	f := newFixture(t, user)

	// Four consecutive failures count 4, 3, 2, 1 remaining; the account
	// stays unlocked the whole way down.
	for attempt := 1; attempt <= 4; attempt++ {
		_, err := f.svc.Login(context.Background(), LoginRequest{
			Email:    user.Email,
			Password: "wrong",
		})
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
			t.Fatalf("attempt %d: expected unauthorized, got %v", attempt, err)
		}
		want := testLockout.MaxAttempts - attempt
		if got := typed.Details()["remaining_attempts"]; got != want {
			t.Fatalf("attempt %d: expected %d remaining attempts, got %v", attempt, want, got)
		}
		if user.LoginAttempts != attempt {
			t.Fatalf("attempt %d: expected durable counter at %d, got %d", attempt, attempt, user.LoginAttempts)
		}
		if user.LockedUntil != nil {
			t.Fatalf("attempt %d: account must not be locked yet", attempt)
		}
	}

	// Still one attempt left: the right password gets in.
	if _, err := f.svc.Login(context.Background(), LoginRequest{
		Email:    user.Email,
		Password: "right",
	}); err != nil {
		t.Fatalf("expected login to succeed after 4 failures, got %v", err)
	}
}

func TestLoginLocksAtThreshold(t *testing.T) {
	user := testUser(t, "locked@hospital.test", "right", enums.RoleNurse)
	f := newFixture(t, user)

	var lastErr error
	for i := 0; i < testLockout.MaxAttempts; i++ {
		_, lastErr = f.svc.Login(context.Background(), LoginRequest{
			Email:    user.Email,
			Password: "wrong",
		})
	}

	typed := pkgerrors.As(lastErr)
	if typed == nil || typed.Code() != pkgerrors.CodeLocked {
		t.Fatalf("expected locked error on attempt %d, got %v", testLockout.MaxAttempts, lastErr)
	}
	if user.LockedUntil == nil {
		t.Fatalf("expected durable lock deadline")
	}
	wantUntil := f.nowFunc().Add(testLockout.LockDuration)
	if !user.LockedUntil.Equal(wantUntil) {
		t.Fatalf("expected lock until %v, got %v", wantUntil, user.LockedUntil)
	}
	if got := f.logs.last().Action; got != enums.LoginActionLocked {
		t.Fatalf("expected locked log entry, got %s", got)
	}

	// Correct password while the window is open still refuses.
	_, err := f.svc.Login(context.Background(), LoginRequest{
		Email:    user.Email,
		Password: "right",
	})
	typed = pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeLocked {
		t.Fatalf("expected locked while window open, got %v", err)
	}
}

func TestLoginSucceedsAfterLockExpires(t *testing.T) {
	user := testUser(t, "waited@hospital.test", "right", enums.RoleDoctor)
	f := newFixture(t, user)

	for i := 0; i < testLockout.MaxAttempts; i++ {
		f.svc.Login(context.Background(), LoginRequest{Email: user.Email, Password: "wrong"})
	}
	if user.LockedUntil == nil {
		t.Fatalf("expected lock to engage")
	}

	base := f.nowFunc()
	f.nowFunc = func() time.Time { return base.Add(testLockout.LockDuration + time.Second) }

	result, err := f.svc.Login(context.Background(), LoginRequest{
		Email:    user.Email,
		Password: "right",
	})
	if err != nil {
		t.Fatalf("login after lock expiry: %v", err)
	}
	if result.Token == "" {
		t.Fatalf("expected fresh token")
	}
	if user.LoginAttempts != 0 || user.LockedUntil != nil {
		t.Fatalf("expected lock state cleared, got attempts=%d locked=%v", user.LoginAttempts, user.LockedUntil)
	}
}

func TestLoginDeactivatedAccount(t *testing.T) {
	user := testUser(t, "gone@hospital.test", "right", enums.RoleNurse)
	user.Status = enums.UserStatusInactive
	f := newFixture(t, user)

	_, err := f.svc.Login(context.Background(), LoginRequest{
		Email:    user.Email,
		Password: "right",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden for deactivated account, got %v", err)
	}
}

func TestDemoLoginMintsSentinelRole(t *testing.T) {
	older := testUser(t, "senior@hospital.test", "x", enums.RoleDoctor)
	older.CreatedAt = time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := testUser(t, "junior@hospital.test", "x", enums.RoleDoctor)
	newer.CreatedAt = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	f := newFixture(t, newer, older)

	result, err := f.svc.DemoLogin(context.Background(), DemoRequest{Role: "Doctor"})
	if err != nil {
		t.Fatalf("demo login: %v", err)
	}

	claims, err := pkgauth.Parse(testJWT, result.Token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.Role != enums.RoleDemo {
		t.Fatalf("demo token must carry the demo sentinel, got %s", claims.Role)
	}
	if claims.UserID != older.ID {
		t.Fatalf("expected oldest matching account, got %s", claims.UserID)
	}
	if result.User.Role != enums.RoleDemo {
		t.Fatalf("payload must not reveal real role, got %s", result.User.Role)
	}
	if result.User.DemoAs != "doctor" {
		t.Fatalf("expected demo_as label, got %q", result.User.DemoAs)
	}
	if !result.IsDemo {
		t.Fatalf("expected isDemo marker")
	}
	if got := f.logs.last().Action; got != enums.LoginActionDemo {
		t.Fatalf("expected demo log entry, got %s", got)
	}
}

func TestDemoLoginUnknownLabel(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.DemoLogin(context.Background(), DemoRequest{Role: "astronaut"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for unknown label, got %v", err)
	}
}

func TestCurrentUserKeepsDemoSentinel(t *testing.T) {
	user := testUser(t, "demo-backed@hospital.test", "x", enums.RolePharmacist)
	f := newFixture(t, user)

	identity := pkgauth.Identity{
		UserID: user.ID,
		Role:   enums.RoleDemo,
	}
	result, err := f.svc.CurrentUser(context.Background(), identity)
	if err != nil {
		t.Fatalf("current user: %v", err)
	}
	if result.User.Role != enums.RoleDemo {
		t.Fatalf("expected demo role echoed from token, got %s", result.User.Role)
	}
	if !result.IsDemo {
		t.Fatalf("expected demo marker")
	}
}

func TestCurrentUserAnonymous(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CurrentUser(context.Background(), pkgauth.Identity{})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized for anonymous caller, got %v", err)
	}
}

func TestLogoutAcceptsExpiredToken(t *testing.T) {
	user := testUser(t, "leaving@hospital.test", "x", enums.RoleNurse)
	f := newFixture(t, user)

	minted := time.Now().Add(-24 * time.Hour)
	token, err := pkgauth.Mint(testJWT, minted, pkgauth.TokenPayload{
		UserID: user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Role:   enums.RoleNurse,
	})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if _, err := pkgauth.Parse(testJWT, token); err == nil {
		t.Fatalf("sanity: token should be expired")
	}

	f.svc.Logout(context.Background(), token, RequestMeta{})
	if len(f.logs.entries) == 0 {
		t.Fatalf("expected logout log entry")
	}
	entry := f.logs.last()
	if entry.Action != enums.LoginActionLogout {
		t.Fatalf("expected logout action, got %s", entry.Action)
	}
	if entry.UserID == nil || *entry.UserID != user.ID {
		t.Fatalf("expected logout attributed to token subject")
	}
}
