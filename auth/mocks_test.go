package auth

import (
	"context"
	"database/sql"
	"errors"
	"sync"

	"github.com/uptrace/bun"

	"github.com/cashtrackr/api/repository"
)

type testConfig struct {
	signingKey string
	expiration int
	issuer     string
}

func (c testConfig) GetSigningKey() string   { return c.signingKey }
func (c testConfig) GetTokenExpiration() int { return c.expiration }
func (c testConfig) GetIssuer() string       { return c.issuer }

func newTestConfig() testConfig {
	return testConfig{
		signingKey: "test-signing-key-not-a-secret",
		expiration: 1,
		issuer:     "cashtrackr-test",
	}
}

// captureCourier records dispatched messages; set fail to simulate an
// unreachable mail relay.
type captureCourier struct {
	mu   sync.Mutex
	sent []MailMessage
	fail error
}

func (c *captureCourier) Send(_ context.Context, msg MailMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.fail != nil {
		return c.fail
	}

	c.sent = append(c.sent, msg)
	return nil
}

func (c *captureCourier) last() (MailMessage, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.sent) == 0 {
		return MailMessage{}, false
	}
	return c.sent[len(c.sent)-1], true
}

// fakeManager is an in-memory repository.Manager for handler tests. RunInTx
// snapshots the store before running the callback and restores it on failure,
// mimicking a rolled back transaction.
type fakeManager struct {
	users *fakeUsers
}

func newFakeManager() *fakeManager {
	return &fakeManager{
		users: &fakeUsers{records: map[int64]repository.User{}},
	}
}

func (m *fakeManager) Users() repository.Users       { return m.users }
func (m *fakeManager) Budgets() repository.Budgets   { return nil }
func (m *fakeManager) Expenses() repository.Expenses { return nil }
func (m *fakeManager) Validate() error               { return nil }
func (m *fakeManager) MustValidate()                 {}

func (m *fakeManager) RunInTx(ctx context.Context, _ *sql.TxOptions, f func(context.Context, bun.Tx) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	snapshot := m.users.snapshot()
	if err := f(ctx, bun.Tx{}); err != nil {
		m.users.restore(snapshot)
		return err
	}
	return nil
}

// userFixture builds a user with a hashed credential for seeding the fake
// store.
func userFixture(email, password string, confirmed bool) repository.User {
	hash, err := HashPassword(password)
	if err != nil {
		panic(err)
	}
	return repository.User{
		Name:      "Fixture User",
		Email:     email,
		Password:  hash,
		Confirmed: confirmed,
	}
}

type fakeUsers struct {
	mu      sync.Mutex
	records map[int64]repository.User
	nextID  int64
}

func (r *fakeUsers) snapshot() map[int64]repository.User {
	r.mu.Lock()
	defer r.mu.Unlock()

	snap := make(map[int64]repository.User, len(r.records))
	for id, user := range r.records {
		snap[id] = user
	}
	return snap
}

func (r *fakeUsers) restore(snap map[int64]repository.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = snap
}

// add seeds a user directly, bypassing the lifecycle.
func (r *fakeUsers) add(user repository.User) repository.User {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	user.ID = r.nextID
	user.Email = repository.NormalizeEmail(user.Email)
	r.records[user.ID] = user
	return user
}

func (r *fakeUsers) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

func (r *fakeUsers) get(id int64) (repository.User, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.records[id]
	return user, ok
}

func (r *fakeUsers) GetByID(_ context.Context, id int64) (*repository.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.records[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &user, nil
}

func (r *fakeUsers) GetProjection(_ context.Context, id int64) (*repository.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.records[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &repository.User{ID: user.ID, Name: user.Name, Email: user.Email}, nil
}

func (r *fakeUsers) GetByEmail(ctx context.Context, email string) (*repository.User, error) {
	return r.GetByEmailTx(ctx, nil, email)
}

func (r *fakeUsers) GetByEmailTx(_ context.Context, _ bun.IDB, email string) (*repository.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	email = repository.NormalizeEmail(email)
	for _, user := range r.records {
		if user.Email == email {
			match := user
			return &match, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r *fakeUsers) GetByToken(_ context.Context, token string) (*repository.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if token == "" {
		return nil, sql.ErrNoRows
	}

	for _, user := range r.records {
		if user.Token == token {
			match := user
			return &match, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r *fakeUsers) Create(ctx context.Context, user *repository.User) (*repository.User, error) {
	return r.CreateTx(ctx, nil, user)
}

func (r *fakeUsers) CreateTx(_ context.Context, _ bun.IDB, user *repository.User) (*repository.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user.Email = repository.NormalizeEmail(user.Email)
	for _, existing := range r.records {
		if existing.Email == user.Email {
			return nil, errors.New("UNIQUE constraint failed: users.email")
		}
	}

	r.nextID++
	user.ID = r.nextID
	r.records[user.ID] = *user
	return user, nil
}

func (r *fakeUsers) Update(ctx context.Context, user *repository.User) error {
	return r.UpdateTx(ctx, nil, user)
}

func (r *fakeUsers) UpdateTx(_ context.Context, _ bun.IDB, user *repository.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[user.ID]; !ok {
		return sql.ErrNoRows
	}
	r.records[user.ID] = *user
	return nil
}
