package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/gomail.v2"

	"debt-service/configs"
	"debt-service/internal/models"
	"debt-service/internal/repository"
	"debt-service/pkg/crypto"
)

// =============================================================================
// IN-MEMORY REPOSITORIES
// =============================================================================

type memoryStore struct {
	mu       sync.Mutex
	users    map[int]*models.User
	debts    map[string]*models.Debt
	payments map[string][]*models.DebtPayment
	nextUser int

	// Returned by RecordPayment for the listed debt ids
	failPayments map[string]error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		users:        make(map[int]*models.User),
		debts:        make(map[string]*models.Debt),
		payments:     make(map[string][]*models.DebtPayment),
		failPayments: make(map[string]error),
	}
}

func (m *memoryStore) repository() *repository.Repository {
	return &repository.Repository{
		User:    fakeUserRepo{m},
		Debt:    fakeDebtRepo{m},
		Payment: fakePaymentRepo{m},
	}
}

type fakeUserRepo struct{ m *memoryStore }

func (r fakeUserRepo) Create(_ context.Context, user *models.User) (int, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	for _, u := range r.m.users {
		if u.Username == user.Username || u.Email == user.Email {
			return 0, models.ErrUserExists
		}
	}

	r.m.nextUser++
	stored := *user
	stored.ID = r.m.nextUser
	r.m.users[stored.ID] = &stored
	return stored.ID, nil
}

func (r fakeUserRepo) GetByID(_ context.Context, id int) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.ID == id })
}

func (r fakeUserRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.Username == username })
}

func (r fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.Email == email })
}

func (r fakeUserRepo) find(match func(*models.User) bool) (*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	for _, u := range r.m.users {
		if match(u) {
			found := *u
			return &found, nil
		}
	}
	return nil, models.ErrUserNotFound
}

type fakeDebtRepo struct{ m *memoryStore }

func (r fakeDebtRepo) Create(_ context.Context, debt *models.Debt) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	stored := *debt
	r.m.debts[debt.ID] = &stored
	return nil
}

func (r fakeDebtRepo) GetByID(_ context.Context, id string) (*models.Debt, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	debt, ok := r.m.debts[id]
	if !ok {
		return nil, fmt.Errorf("debt %s: %w", id, models.ErrDebtNotFound)
	}
	found := *debt
	return &found, nil
}

func (r fakeDebtRepo) GetByUserID(_ context.Context, userID int) ([]*models.Debt, error) {
	return r.filter(func(d *models.Debt) bool { return d.UserID == userID }), nil
}

func (r fakeDebtRepo) Update(_ context.Context, debt *models.Debt) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if err := r.m.checkVersion(debt); err != nil {
		return err
	}
	debt.Version++
	stored := *debt
	r.m.debts[debt.ID] = &stored
	return nil
}

func (r fakeDebtRepo) Delete(_ context.Context, id string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if _, ok := r.m.debts[id]; !ok {
		return models.ErrDebtNotFound
	}
	delete(r.m.debts, id)
	delete(r.m.payments, id)
	return nil
}

func (r fakeDebtRepo) GetDueAutoPay(_ context.Context, before time.Time) ([]*models.Debt, error) {
	return r.filter(func(d *models.Debt) bool {
		return d.AutoPay && d.RemainingAmount > 0 && d.RemainingMonths > 0 && !d.NextPaymentDate.After(before)
	}), nil
}

func (r fakeDebtRepo) RecordPayment(_ context.Context, debt *models.Debt, payment *models.DebtPayment) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if err := r.m.failPayments[debt.ID]; err != nil {
		return err
	}
	if err := r.m.checkVersion(debt); err != nil {
		return err
	}

	debt.Version++
	stored := *debt
	r.m.debts[debt.ID] = &stored
	recorded := *payment
	r.m.payments[debt.ID] = append([]*models.DebtPayment{&recorded}, r.m.payments[debt.ID]...)
	return nil
}

// Caller holds the lock
func (m *memoryStore) checkVersion(debt *models.Debt) error {
	stored, ok := m.debts[debt.ID]
	if !ok {
		return models.ErrDebtNotFound
	}
	if stored.Version != debt.Version {
		return fmt.Errorf("debt %s: %w", debt.ID, models.ErrDebtChanged)
	}
	return nil
}

func (r fakeDebtRepo) filter(match func(*models.Debt) bool) []*models.Debt {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	var debts []*models.Debt
	for _, d := range r.m.debts {
		if match(d) {
			found := *d
			debts = append(debts, &found)
		}
	}
	sort.Slice(debts, func(i, j int) bool { return debts[i].CreatedAt.After(debts[j].CreatedAt) })
	return debts
}

type fakePaymentRepo struct{ m *memoryStore }

func (r fakePaymentRepo) GetByDebtID(_ context.Context, debtID string) ([]*models.DebtPayment, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	return append([]*models.DebtPayment(nil), r.m.payments[debtID]...), nil
}

// =============================================================================
// NOTIFIERS
// =============================================================================

type recordingNotifier struct {
	mu            sync.Mutex
	notifications []*models.PaymentNotification
	err           error
}

func (n *recordingNotifier) NotifyPayment(_ context.Context, notification *models.PaymentNotification) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.notifications = append(n.notifications, notification)
	return n.err
}

func (n *recordingNotifier) received() []*models.PaymentNotification {
	n.mu.Lock()
	defer n.mu.Unlock()

	return append([]*models.PaymentNotification(nil), n.notifications...)
}

type recordingSender struct {
	messages []*gomail.Message
	err      error
}

func (s *recordingSender) DialAndSend(m ...*gomail.Message) error {
	s.messages = append(s.messages, m...)
	return s.err
}

type recordingPublisher struct {
	published []*models.PaymentNotification
	err       error
}

func (p *recordingPublisher) PublishPayment(_ context.Context, n *models.PaymentNotification) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, n)
	return nil
}

// =============================================================================
// SETUP
// =============================================================================

const tolerance = 1e-6

var errStorage = errors.New("storage unavailable")

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func testConfig() *configs.Config {
	return &configs.Config{
		JWT: configs.JWTConfig{Secret: "test-secret", TTL: 24},
	}
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type testEnv struct {
	store    *memoryStore
	clock    *testClock
	notifier *recordingNotifier
	deps     Dependencies
}

func newTestEnv() *testEnv {
	store := newMemoryStore()
	clock := &testClock{now: time.Date(2025, time.January, 15, 9, 0, 0, 0, time.UTC)}
	notifier := &recordingNotifier{}

	return &testEnv{
		store:    store,
		clock:    clock,
		notifier: notifier,
		deps: Dependencies{
			Repos:    store.repository(),
			Logger:   testLogger(),
			Config:   testConfig(),
			Notifier: notifier,
			Hasher:   crypto.NewPasswordHasherWithCost(bcrypt.MinCost),
			Clock:    clock.Now,
		},
	}
}

func (e *testEnv) addUser(username string) int {
	id, err := fakeUserRepo{e.store}.Create(context.Background(), &models.User{
		Username:  username,
		Email:     username + "@example.com",
		FirstName: "Test",
		LastName:  "User",
	})
	if err != nil {
		panic(err)
	}
	return id
}

func loanRequest() *models.DebtRequest {
	return &models.DebtRequest{
		Name:            "Car loan",
		Category:        models.DebtCategoryAutoLoan,
		RemainingAmount: 1_000_000,
		MonthlyPayment:  100_000,
		InterestRate:    12,
		RemainingMonths: 12,
	}
}
