package identity

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/newsstand/internal/domain"
	"github.com/MrSnakeDoc/newsstand/internal/errors"
	"github.com/MrSnakeDoc/newsstand/internal/logger"
)

// memUserStore is an in-memory UserStore for tests.
type memUserStore struct {
	users  map[string]*domain.User
	emails map[string]string
}

func newMemUserStore() *memUserStore {
	return &memUserStore{
		users:  make(map[string]*domain.User),
		emails: make(map[string]string),
	}
}

func (m *memUserStore) SaveUser(_ context.Context, user *domain.User) error {
	u := *user
	m.users[user.ID] = &u
	m.emails[strings.ToLower(user.Email)] = user.ID
	return nil
}

func (m *memUserStore) GetUser(_ context.Context, id string) (*domain.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (m *memUserStore) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	id, ok := m.emails[strings.ToLower(email)]
	if !ok {
		return nil, nil
	}
	return m.GetUser(ctx, id)
}

func (m *memUserStore) EmailExists(_ context.Context, email string) (bool, error) {
	_, ok := m.emails[strings.ToLower(email)]
	return ok, nil
}

func (m *memUserStore) GetAllUsers(_ context.Context) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(m.users))
	for _, u := range m.users {
		cp := *u
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memUserStore) DeleteUser(_ context.Context, id string) error {
	if u, ok := m.users[id]; ok {
		delete(m.emails, strings.ToLower(u.Email))
	}
	delete(m.users, id)
	return nil
}

func (m *memUserStore) RemoveEmailIndex(_ context.Context, email string) error {
	delete(m.emails, strings.ToLower(email))
	return nil
}

func newTestService() (*Service, *memUserStore) {
	store := newMemUserStore()
	tokens := NewTokenManager("test-secret-do-not-use", time.Hour)
	svc := New(store, tokens, logger.New("error", false))
	return svc, store
}

const goodPassword = "Sup3r-secret"

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	user, err := svc.Register(ctx, "Reader@Example.com", goodPassword, "Reader")
	require.NoError(t, err)
	assert.Equal(t, "reader@example.com", user.Email)
	assert.Equal(t, domain.RoleUser, user.Role)
	assert.True(t, user.IsActive)
	assert.NotEmpty(t, user.ID)
	assert.NotEqual(t, goodPassword, user.PasswordHash)

	got, token, err := svc.Login(ctx, "reader@example.com", goodPassword)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.False(t, got.LastLogin.IsZero())

	claims, err := svc.Tokens().ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.Sub)
	assert.Equal(t, domain.RoleUser, claims.Role)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "reader@example.com", goodPassword, "First")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "READER@example.com", goodPassword, "Second")
	assert.True(t, errors.Is(err, errors.AlreadyExists("")))
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"bad email", "not-an-email", goodPassword},
		{"empty email", "", goodPassword},
		{"short password", "reader@example.com", "Ab1!"},
		{"no uppercase", "reader@example.com", "sup3r-secret"},
		{"no digit", "reader@example.com", "Super-secret"},
		{"no special", "reader@example.com", "Sup3rSecret"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.email, tt.password, "x")
			assert.True(t, errors.Is(err, errors.Validation("")), "got %v", err)
		})
	}
}

func TestLoginWrongCredentials(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "reader@example.com", goodPassword, "Reader")
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "reader@example.com", "Wrong-pass1")
	assert.True(t, errors.Is(err, errors.InvalidCredentials("")))

	// Unknown email must look identical to a wrong password.
	_, _, err = svc.Login(ctx, "nobody@example.com", goodPassword)
	assert.True(t, errors.Is(err, errors.InvalidCredentials("")))
}

func TestLoginDeactivatedAccount(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	user, err := svc.Register(ctx, "reader@example.com", goodPassword, "Reader")
	require.NoError(t, err)

	_, err = svc.SetActive(ctx, user.ID, false)
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "reader@example.com", goodPassword)
	assert.True(t, errors.Is(err, errors.Forbidden("")))
}

func TestChangePassword(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	user, err := svc.Register(ctx, "reader@example.com", goodPassword, "Reader")
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, user.ID, "wrong", "N3w-secret!")
	assert.True(t, errors.Is(err, errors.InvalidCredentials("")))

	require.NoError(t, svc.ChangePassword(ctx, user.ID, goodPassword, "N3w-secret!"))

	_, _, err = svc.Login(ctx, "reader@example.com", goodPassword)
	assert.Error(t, err)
	_, _, err = svc.Login(ctx, "reader@example.com", "N3w-secret!")
	assert.NoError(t, err)
}

func TestUpdateProfileEmailChange(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	user, err := svc.Register(ctx, "old@example.com", goodPassword, "Reader")
	require.NoError(t, err)
	taken, err := svc.Register(ctx, "taken@example.com", goodPassword, "Other")
	require.NoError(t, err)
	_ = taken

	_, err = svc.UpdateProfile(ctx, user.ID, nil, strptr("taken@example.com"))
	assert.True(t, errors.Is(err, errors.AlreadyExists("")))

	updated, err := svc.UpdateProfile(ctx, user.ID, strptr("New Name"), strptr("new@example.com"))
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", updated.Email)
	assert.Equal(t, "New Name", updated.Name)

	// Old index entry is gone, the new one resolves.
	_, ok := store.emails["old@example.com"]
	assert.False(t, ok)
	got, err := store.GetUserByEmail(ctx, "new@example.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, user.ID, got.ID)
}

func TestEnsureAdmin(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	require.NoError(t, svc.EnsureAdmin(ctx, "admin@example.com", "Adm1n-secret"))

	user, _, err := svc.Login(ctx, "admin@example.com", "Adm1n-secret")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, user.Role)

	// Second call is a no-op.
	require.NoError(t, svc.EnsureAdmin(ctx, "admin@example.com", "Adm1n-secret"))
	users, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestDeleteUser(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	user, err := svc.Register(ctx, "reader@example.com", goodPassword, "Reader")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteUser(ctx, user.ID))
	err = svc.DeleteUser(ctx, user.ID)
	assert.True(t, errors.Is(err, errors.NotFound("")))
}

func strptr(s string) *string { return &s }
