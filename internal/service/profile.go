package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/maulidiphilip/money-manager-api/internal/config"
	"github.com/maulidiphilip/money-manager-api/internal/db"
	"github.com/maulidiphilip/money-manager-api/internal/model"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotActivated       = errors.New("account not activated")
	ErrConflict           = errors.New("conflict")
	ErrNotFound           = errors.New("not found")
)

// profileStore is the keyed lookup/insert/update surface the service needs
// from persistence. *db.Postgres satisfies it.
type profileStore interface {
	CreateProfile(ctx context.Context, p *model.Profile) (*model.Profile, error)
	GetProfileByEmail(ctx context.Context, email string) (*model.Profile, error)
	GetProfileByActivationToken(ctx context.Context, token string) (*model.Profile, error)
	SetProfileActive(ctx context.Context, profileID int64) error
}

type mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

type ProfileService struct {
	store   profileStore
	mail    mailer
	tokens  *TokenCodec
	baseURL string

	// checkPassword compares a stored bcrypt hash against a plaintext
	// candidate. A field rather than a direct call so tests can observe
	// that the login gate short-circuits before credential checking.
	checkPassword func(hashedPassword, plaintext string) error
}

func NewProfileService(store profileStore, mail mailer, tokens *TokenCodec, cfg config.AppConfig) *ProfileService {
	return &ProfileService{
		store:   store,
		mail:    mail,
		tokens:  tokens,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		checkPassword: func(hashedPassword, plaintext string) error {
			return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(plaintext))
		},
	}
}

// Register creates an inactive profile with a fresh activation token and
// mails the activation link. A mail failure fails the whole call even though
// the row is already persisted at that point; registration and delivery are
// not transactional, the user can simply register again from the client's
// point of view once the duplicate surfaces.
func (s *ProfileService) Register(ctx context.Context, req model.RegisterRequest) (*model.ProfileResponse, error) {
	fullName := strings.TrimSpace(req.FullName)
	email := strings.TrimSpace(strings.ToLower(req.Email))

	if fullName == "" || email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: full name and email are required", ErrInvalidInput)
	}
	if len(req.Password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	// UUID-grade entropy; collisions are not checked for.
	activationToken := uuid.NewString()

	profile := &model.Profile{
		FullName:        fullName,
		Email:           email,
		PasswordHash:    string(hash),
		ProfileImageURL: req.ProfileImageURL,
		IsActive:        false,
		ActivationToken: &activationToken,
	}

	created, err := s.store.CreateProfile(ctx, profile)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: email already registered", ErrConflict)
		}
		return nil, err
	}

	if err := s.sendActivationMail(ctx, created); err != nil {
		return nil, fmt.Errorf("failed to send activation email: %w", err)
	}

	resp := created.PublicProfile()
	return &resp, nil
}

func (s *ProfileService) sendActivationMail(ctx context.Context, p *model.Profile) error {
	link := fmt.Sprintf("%s/api/v1/profiles/activate?activationToken=%s", s.baseURL, *p.ActivationToken)
	subject := "Activate your Account"
	body := fmt.Sprintf(`<h2>Welcome to Money Manager, %s!</h2>`+
		`<p>Click the button below to activate your account:</p>`+
		`<a href=%q style="display:inline-block;padding:10px 20px;background-color:#4CAF50;color:white;text-decoration:none;border-radius:5px;">Activate Account</a>`+
		`<p>If the button doesn't work, copy and paste this link into your browser:</p>`+
		`<p><a href=%q>%s</a></p>`,
		p.FullName, link, link, link)
	return s.mail.Send(ctx, p.Email, subject, body)
}

// Activate resolves an activation token and marks the owning profile active.
// An unresolvable token is a normal not-found outcome, not an error.
// Re-presenting a still-resolvable token succeeds again and leaves the
// profile active; the token is never consumed.
func (s *ProfileService) Activate(ctx context.Context, token string) (bool, error) {
	if token == "" {
		return false, nil
	}

	profile, err := s.store.GetProfileByActivationToken(ctx, token)
	if err != nil {
		if db.IsNoRows(err) {
			return false, nil
		}
		return false, err
	}

	if err := s.store.SetProfileActive(ctx, profile.ID); err != nil {
		return false, err
	}
	return true, nil
}

// IsAccountActive reports whether the profile exists and has been activated.
// A missing profile and an inactive one both report false; callers that need
// the distinction must do their own existence lookup.
func (s *ProfileService) IsAccountActive(ctx context.Context, email string) (bool, error) {
	profile, err := s.store.GetProfileByEmail(ctx, email)
	if err != nil {
		if db.IsNoRows(err) {
			return false, nil
		}
		return false, err
	}
	return profile.IsActive, nil
}

// Login gates on activation state before any credential work, then verifies
// the password and issues an identity token for the profile's email. The
// activation gate responding differently from a wrong password makes
// activation state observable pre-auth; that matches the product behavior.
func (s *ProfileService) Login(ctx context.Context, email, password string) (*model.LoginResponse, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	active, err := s.IsAccountActive(ctx, email)
	if err != nil {
		return nil, err
	}
	if !active {
		return nil, ErrNotActivated
	}

	profile, err := s.store.GetProfileByEmail(ctx, email)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := s.checkPassword(profile.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(profile.Email)
	if err != nil {
		return nil, err
	}

	return &model.LoginResponse{
		Token: token,
		User:  profile.PublicProfile(),
	}, nil
}

// CurrentProfile resolves the profile behind an authenticated request's
// identity email.
func (s *ProfileService) CurrentProfile(ctx context.Context, email string) (*model.Profile, error) {
	profile, err := s.store.GetProfileByEmail(ctx, email)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, fmt.Errorf("%w: profile %s", ErrNotFound, email)
		}
		return nil, err
	}
	return profile, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
