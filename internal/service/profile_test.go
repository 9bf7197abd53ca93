package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/maulidiphilip/money-manager-api/internal/config"
	"github.com/maulidiphilip/money-manager-api/internal/model"
	"golang.org/x/crypto/bcrypt"
)

// memStore is an in-memory stand-in for *db.Postgres covering both the
// profile and category surfaces.
type memStore struct {
	nextID     int64
	profiles   map[string]*model.Profile // keyed by email
	categories []model.Category
}

func newMemStore() *memStore {
	return &memStore{nextID: 1, profiles: map[string]*model.Profile{}}
}

func (m *memStore) CreateProfile(_ context.Context, p *model.Profile) (*model.Profile, error) {
	if _, exists := m.profiles[p.Email]; exists {
		return nil, &pgconn.PgError{Code: "23505"}
	}
	created := *p
	created.ID = m.nextID
	m.nextID++
	m.profiles[created.Email] = &created
	out := created
	return &out, nil
}

func (m *memStore) GetProfileByEmail(_ context.Context, email string) (*model.Profile, error) {
	p, ok := m.profiles[email]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	out := *p
	return &out, nil
}

func (m *memStore) GetProfileByActivationToken(_ context.Context, token string) (*model.Profile, error) {
	for _, p := range m.profiles {
		if p.ActivationToken != nil && *p.ActivationToken == token {
			out := *p
			return &out, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *memStore) SetProfileActive(_ context.Context, profileID int64) error {
	for _, p := range m.profiles {
		if p.ID == profileID {
			p.IsActive = true
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (m *memStore) CreateCategory(_ context.Context, c *model.Category) (*model.Category, error) {
	for _, existing := range m.categories {
		if existing.ProfileID == c.ProfileID && existing.Name == c.Name {
			return nil, &pgconn.PgError{Code: "23505"}
		}
	}
	created := *c
	created.ID = m.nextID
	m.nextID++
	m.categories = append(m.categories, created)
	out := created
	return &out, nil
}

func (m *memStore) ListCategoriesByProfile(_ context.Context, profileID int64) ([]model.Category, error) {
	list := []model.Category{}
	for _, c := range m.categories {
		if c.ProfileID == profileID {
			list = append(list, c)
		}
	}
	return list, nil
}

type recordingMailer struct {
	sent []sentMail
	err  error
}

type sentMail struct {
	to      string
	subject string
	body    string
}

func (m *recordingMailer) Send(_ context.Context, to, subject, htmlBody string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: htmlBody})
	return nil
}

func newTestProfileService(t *testing.T, store *memStore, mail *recordingMailer) *ProfileService {
	t.Helper()
	return NewProfileService(store, mail, newTestCodec(t), config.AppConfig{
		BaseURL: "http://localhost:8080",
	})
}

func registerTestProfile(t *testing.T, svc *ProfileService, email string) *model.ProfileResponse {
	t.Helper()
	resp, err := svc.Register(context.Background(), model.RegisterRequest{
		FullName: "Test User",
		Email:    email,
		Password: "secret-pw-1",
	})
	if err != nil {
		t.Fatalf("Register(%s): %v", email, err)
	}
	return resp
}

func TestRegisterCreatesInactiveProfileWithHashedPassword(t *testing.T) {
	store := newMemStore()
	mail := &recordingMailer{}
	svc := newTestProfileService(t, store, mail)

	resp := registerTestProfile(t, svc, "a@x.com")
	if resp.Email != "a@x.com" {
		t.Fatalf("unexpected email %q", resp.Email)
	}

	row := store.profiles["a@x.com"]
	if row == nil {
		t.Fatal("profile not persisted")
	}
	if row.IsActive {
		t.Fatal("new profile must be inactive")
	}
	if row.ActivationToken == nil || *row.ActivationToken == "" {
		t.Fatal("activation token not set")
	}
	if row.PasswordHash == "secret-pw-1" {
		t.Fatal("password stored in plaintext")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(row.PasswordHash), []byte("secret-pw-1")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
}

func TestRegisterSendsActivationLink(t *testing.T) {
	store := newMemStore()
	mail := &recordingMailer{}
	svc := newTestProfileService(t, store, mail)

	registerTestProfile(t, svc, "a@x.com")

	if len(mail.sent) != 1 {
		t.Fatalf("expected 1 mail, got %d", len(mail.sent))
	}
	msg := mail.sent[0]
	if msg.to != "a@x.com" {
		t.Fatalf("mail sent to %q", msg.to)
	}
	token := *store.profiles["a@x.com"].ActivationToken
	link := "http://localhost:8080/api/v1/profiles/activate?activationToken=" + token
	if !strings.Contains(msg.body, link) {
		t.Fatalf("mail body missing activation link %q:\n%s", link, msg.body)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := newTestProfileService(t, newMemStore(), &recordingMailer{})

	cases := []model.RegisterRequest{
		{FullName: "", Email: "a@x.com", Password: "secret-pw-1"},
		{FullName: "Test", Email: "", Password: "secret-pw-1"},
		{FullName: "Test", Email: "not-an-email", Password: "secret-pw-1"},
		{FullName: "Test", Email: "a@x.com", Password: "short"},
	}
	for _, req := range cases {
		if _, err := svc.Register(context.Background(), req); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("Register(%+v): expected ErrInvalidInput, got %v", req, err)
		}
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newTestProfileService(t, newMemStore(), &recordingMailer{})

	registerTestProfile(t, svc, "a@x.com")
	_, err := svc.Register(context.Background(), model.RegisterRequest{
		FullName: "Other User",
		Email:    "a@x.com",
		Password: "secret-pw-2",
	})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestRegisterMailFailureFailsTheCall(t *testing.T) {
	store := newMemStore()
	mail := &recordingMailer{err: fmt.Errorf("smtp unreachable")}
	svc := newTestProfileService(t, store, mail)

	_, err := svc.Register(context.Background(), model.RegisterRequest{
		FullName: "Test User",
		Email:    "a@x.com",
		Password: "secret-pw-1",
	})
	if err == nil {
		t.Fatal("expected registration to fail when mail delivery fails")
	}
	// Registration and delivery are not transactional; the row stays behind.
	if store.profiles["a@x.com"] == nil {
		t.Fatal("expected profile row to remain persisted")
	}
}

func TestActivateIsIdempotent(t *testing.T) {
	store := newMemStore()
	svc := newTestProfileService(t, store, &recordingMailer{})
	registerTestProfile(t, svc, "a@x.com")
	token := *store.profiles["a@x.com"].ActivationToken

	for i := 0; i < 2; i++ {
		activated, err := svc.Activate(context.Background(), token)
		if err != nil {
			t.Fatalf("Activate attempt %d: %v", i+1, err)
		}
		if !activated {
			t.Fatalf("Activate attempt %d: expected true", i+1)
		}
		if !store.profiles["a@x.com"].IsActive {
			t.Fatalf("Activate attempt %d: profile not active", i+1)
		}
	}
}

func TestActivateUnknownToken(t *testing.T) {
	svc := newTestProfileService(t, newMemStore(), &recordingMailer{})

	for _, token := range []string{"", "no-such-token"} {
		activated, err := svc.Activate(context.Background(), token)
		if err != nil {
			t.Fatalf("Activate(%q): %v", token, err)
		}
		if activated {
			t.Fatalf("Activate(%q): expected false", token)
		}
	}
}

func TestIsAccountActiveConflatesMissingAndInactive(t *testing.T) {
	store := newMemStore()
	svc := newTestProfileService(t, store, &recordingMailer{})
	registerTestProfile(t, svc, "a@x.com")

	for _, email := range []string{"missing@x.com", "a@x.com"} {
		active, err := svc.IsAccountActive(context.Background(), email)
		if err != nil {
			t.Fatalf("IsAccountActive(%s): %v", email, err)
		}
		if active {
			t.Fatalf("IsAccountActive(%s): expected false", email)
		}
	}

	token := *store.profiles["a@x.com"].ActivationToken
	if _, err := svc.Activate(context.Background(), token); err != nil {
		t.Fatalf("Activate: %v", err)
	}

	active, err := svc.IsAccountActive(context.Background(), "a@x.com")
	if err != nil {
		t.Fatalf("IsAccountActive: %v", err)
	}
	if !active {
		t.Fatal("expected active after activation")
	}
}

func TestLoginInactiveSkipsCredentialCheck(t *testing.T) {
	store := newMemStore()
	svc := newTestProfileService(t, store, &recordingMailer{})
	registerTestProfile(t, svc, "a@x.com")

	credentialCheckCalls := 0
	svc.checkPassword = func(hashedPassword, plaintext string) error {
		credentialCheckCalls++
		return nil
	}

	_, err := svc.Login(context.Background(), "a@x.com", "secret-pw-1")
	if !errors.Is(err, ErrNotActivated) {
		t.Fatalf("expected ErrNotActivated, got %v", err)
	}
	if credentialCheckCalls != 0 {
		t.Fatalf("credential checker invoked %d times for inactive account", credentialCheckCalls)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	store := newMemStore()
	svc := newTestProfileService(t, store, &recordingMailer{})
	registerTestProfile(t, svc, "a@x.com")
	if _, err := svc.Activate(context.Background(), *store.profiles["a@x.com"].ActivationToken); err != nil {
		t.Fatalf("Activate: %v", err)
	}

	_, err := svc.Login(context.Background(), "a@x.com", "wrong-password")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginSuccessIssuesVerifiableToken(t *testing.T) {
	store := newMemStore()
	codec := newTestCodec(t)
	svc := NewProfileService(store, &recordingMailer{}, codec, config.AppConfig{BaseURL: "http://localhost:8080"})
	registerTestProfile(t, svc, "a@x.com")
	if _, err := svc.Activate(context.Background(), *store.profiles["a@x.com"].ActivationToken); err != nil {
		t.Fatalf("Activate: %v", err)
	}

	resp, err := svc.Login(context.Background(), "a@x.com", "secret-pw-1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.User.Email != "a@x.com" {
		t.Fatalf("unexpected user %+v", resp.User)
	}

	subject, err := codec.Verify(resp.Token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if subject != "a@x.com" {
		t.Fatalf("token subject %q", subject)
	}
}

func TestCurrentProfile(t *testing.T) {
	store := newMemStore()
	svc := newTestProfileService(t, store, &recordingMailer{})
	registerTestProfile(t, svc, "a@x.com")

	profile, err := svc.CurrentProfile(context.Background(), "a@x.com")
	if err != nil {
		t.Fatalf("CurrentProfile: %v", err)
	}
	if profile.Email != "a@x.com" {
		t.Fatalf("unexpected profile %+v", profile)
	}

	if _, err := svc.CurrentProfile(context.Background(), "missing@x.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
