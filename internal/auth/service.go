package auth

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jeevaraksha/hospital-api/internal/loginlog"
	"github.com/jeevaraksha/hospital-api/internal/users"
	pkgauth "github.com/jeevaraksha/hospital-api/pkg/auth"
	"github.com/jeevaraksha/hospital-api/pkg/config"
	"github.com/jeevaraksha/hospital-api/pkg/db/models"
	"github.com/jeevaraksha/hospital-api/pkg/enums"
	pkgerrors "github.com/jeevaraksha/hospital-api/pkg/errors"
	"github.com/jeevaraksha/hospital-api/pkg/metrics"
	"github.com/jeevaraksha/hospital-api/pkg/security"
	"gorm.io/gorm"
)

const (
	invalidCredentialsMessage = "invalid email or password"
	deactivatedMessage        = "Your account has been deactivated. Please contact the administrator."
)

// Service defines the behavior needed by the auth controller.
type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)
	DemoLogin(ctx context.Context, req DemoRequest) (*DemoResult, error)
	CurrentUser(ctx context.Context, identity pkgauth.Identity) (*MeResult, error)
	Logout(ctx context.Context, rawToken string, meta RequestMeta)
}

type userRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindOldestActiveByRole(ctx context.Context, role enums.Role) (*models.User, error)
	FindForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.User, error)
	UpdateLockState(ctx context.Context, tx *gorm.DB, id uuid.UUID, attempts int, lockedUntil *time.Time) error
	ResetLoginState(ctx context.Context, id uuid.UUID, at time.Time) error
}

type loginRecorder interface {
	Record(ctx context.Context, entry loginlog.Entry)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	users   userRepository
	logins  loginRecorder
	tx      txRunner
	jwtCfg  config.JWTConfig
	lockout config.LockoutConfig
	metrics *metrics.AuthMetrics
	now     func() time.Time
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	UserRepo      userRepository
	LoginRecorder loginRecorder
	TxRunner      txRunner
	JWTConfig     config.JWTConfig
	LockoutConfig config.LockoutConfig
	Metrics       *metrics.AuthMetrics

	// Now overrides the clock, for tests. Defaults to time.Now.
	Now func() time.Time
}

// NewService constructs a login service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.LoginRecorder == nil {
		return nil, fmt.Errorf("login recorder is required")
	}
	if params.TxRunner == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	if params.LockoutConfig.MaxAttempts <= 0 {
		return nil, fmt.Errorf("lockout max attempts must be positive")
	}
	if params.LockoutConfig.LockDuration <= 0 {
		return nil, fmt.Errorf("lockout duration must be positive")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		users:   params.UserRepo,
		logins:  params.LoginRecorder,
		tx:      params.TxRunner,
		jwtCfg:  params.JWTConfig,
		lockout: params.LockoutConfig,
		metrics: params.Metrics,
		now:     now,
	}, nil
}

// Login walks the lockout state machine: unknown email, deactivated account,
// open lock window, failed verification (with transactional increment), and
// finally success, which resets the counter and mints a token.
func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	rawEmail := strings.TrimSpace(req.Email)
	if rawEmail == "" || req.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email and password are required")
	}
	now := s.now().UTC()

	user, err := s.users.FindByEmail(ctx, strings.ToLower(rawEmail))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// The submitted email is logged as received, user_id null.
			s.recordLoginEvent(ctx, nil, rawEmail, enums.LoginActionFailed, req.Meta)
			s.metrics.IncLogin("failed")
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	if !user.Status.CanLogin() {
		s.recordLoginEvent(ctx, &user.ID, rawEmail, enums.LoginActionFailed, req.Meta)
		s.metrics.IncLogin("deactivated")
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "account deactivated").
			WithDetail("message", deactivatedMessage)
	}

	if user.IsLocked(now) {
		remaining := remainingMinutes(*user.LockedUntil, now)
		s.recordLoginEvent(ctx, &user.ID, rawEmail, enums.LoginActionLocked, req.Meta)
		s.metrics.IncLogin("locked")
		return nil, pkgerrors.New(pkgerrors.CodeLocked, "account locked").
			WithDetail("message", fmt.Sprintf("Too many failed attempts. Account locked for %d more minute(s).", remaining))
	}

	if user.PasswordHash == nil {
		s.recordLoginEvent(ctx, &user.ID, rawEmail, enums.LoginActionFailed, req.Meta)
		s.metrics.IncLogin("failed")
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "password not set, contact administrator")
	}

	valid, err := security.VerifyPassword(req.Password, *user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid {
		return nil, s.registerFailure(ctx, user, rawEmail, now, req.Meta)
	}

	if err := s.users.ResetLoginState(ctx, user.ID, now); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reset login state")
	}

	role := user.RoleName()
	if !role.IsValid() || role == enums.RoleDemo {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "user has no usable role")
	}

	token, err := s.mint(user, role, now)
	if err != nil {
		return nil, err
	}

	s.recordLoginEvent(ctx, &user.ID, rawEmail, enums.LoginActionSuccess, req.Meta)
	s.metrics.IncLogin("success")

	return &LoginResult{
		Token: token,
		User:  users.FromModel(user, ""),
	}, nil
}

// registerFailure increments the durable counter under a row lock so
// concurrent failures against one account can neither under-count nor
// double-lock, and flips the account into the lock window at the threshold.
func (s *service) registerFailure(ctx context.Context, user *models.User, rawEmail string, now time.Time, meta RequestMeta) error {
	var (
		attempts  int
		lockedNow bool
	)

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		current, err := s.users.FindForUpdate(ctx, tx, user.ID)
		if err != nil {
			return err
		}

		attempts = current.LoginAttempts + 1
		var lockedUntil *time.Time
		if current.LockedUntil != nil {
			lockedUntil = current.LockedUntil
		}
		if attempts >= s.lockout.MaxAttempts && !current.IsLocked(now) {
			until := now.Add(s.lockout.LockDuration)
			lockedUntil = &until
			lockedNow = true
		}
		return s.users.UpdateLockState(ctx, tx, user.ID, attempts, lockedUntil)
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "register failed attempt")
	}

	if lockedNow {
		s.recordLoginEvent(ctx, &user.ID, rawEmail, enums.LoginActionLocked, meta)
		s.metrics.IncLogin("locked")
		return pkgerrors.New(pkgerrors.CodeLocked, "account locked").
			WithDetail("message", fmt.Sprintf("Too many failed attempts. Account locked for %d minutes.", int(s.lockout.LockDuration.Minutes())))
	}

	s.recordLoginEvent(ctx, &user.ID, rawEmail, enums.LoginActionFailed, meta)
	s.metrics.IncLogin("failed")
	return pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage).
		WithDetail("remaining_attempts", s.lockout.MaxAttempts-attempts)
}

// DemoLogin issues an observe-only token bound to a real account. The token
// role is always the demo sentinel, never the account's real role.
func (s *service) DemoLogin(ctx context.Context, req DemoRequest) (*DemoResult, error) {
	label := strings.ToLower(strings.TrimSpace(req.Role))
	if label == "" {
		label = "demo"
	}

	role, ok := enums.ParseRoleLabel(label)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("no %s account available for demo", label))
	}

	user, err := s.users.FindOldestActiveByRole(ctx, role)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("no %s account available for demo", label))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup demo user")
	}

	token, err := s.mint(user, enums.RoleDemo, s.now().UTC())
	if err != nil {
		return nil, err
	}

	s.recordLoginEvent(ctx, &user.ID, user.Email, enums.LoginActionDemo, req.Meta)
	s.metrics.IncLogin("demo")

	dto := users.FromModel(user, enums.RoleDemo)
	dto.DemoAs = label

	return &DemoResult{
		Token:  token,
		User:   dto,
		IsDemo: true,
	}, nil
}

// CurrentUser resolves verified claims back to fresh user data. The role in
// the response comes from the token, so demo sessions stay demo.
func (s *service) CurrentUser(ctx context.Context, identity pkgauth.Identity) (*MeResult, error) {
	if identity.Anonymous() {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "no token provided")
	}

	user, err := s.users.FindByID(ctx, identity.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user not found or deactivated")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	return &MeResult{
		User:   users.FromModel(user, identity.Role),
		IsDemo: identity.IsDemo(),
	}, nil
}

// Logout logs the event best-effort, accepting expired tokens so the event
// can still be attributed.
func (s *service) Logout(ctx context.Context, rawToken string, meta RequestMeta) {
	if rawToken == "" {
		return
	}
	claims, err := pkgauth.ParseAllowExpired(s.jwtCfg, rawToken)
	if err != nil {
		return
	}
	userID := claims.UserID
	s.recordLoginEvent(ctx, &userID, claims.Email, enums.LoginActionLogout, meta)
}

func (s *service) mint(user *models.User, role enums.Role, now time.Time) (string, error) {
	token, err := pkgauth.Mint(s.jwtCfg, now, pkgauth.TokenPayload{
		UserID:     user.ID,
		Name:       user.Name,
		Email:      user.Email,
		Role:       role,
		EmployeeID: user.EmployeeID,
	})
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	return token, nil
}

func (s *service) recordLoginEvent(ctx context.Context, userID *uuid.UUID, email string, action enums.LoginAction, meta RequestMeta) {
	s.logins.Record(ctx, loginlog.Entry{
		UserID:    userID,
		Email:     email,
		Action:    action,
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
	})
}

func remainingMinutes(until, now time.Time) int {
	mins := int(math.Ceil(until.Sub(now).Minutes()))
	if mins < 1 {
		mins = 1
	}
	return mins
}
