package application

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/oksasatya/invest-marketplace/config"
	"github.com/oksasatya/invest-marketplace/internal/domain/entity"
	"github.com/oksasatya/invest-marketplace/internal/infrastructure/memory"
	"github.com/oksasatya/invest-marketplace/pkg/helpers"
	"github.com/oksasatya/invest-marketplace/pkg/mailer"
)

func init() { helpers.PasswordCost = bcrypt.MinCost }

var testNow = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

type recordingPublisher struct {
	mu   sync.Mutex
	jobs []mailer.EmailJob
}

func (p *recordingPublisher) PublishJSON(_ context.Context, body any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.jobs = append(p.jobs, body.(mailer.EmailJob))
	return nil
}

func (p *recordingPublisher) Jobs() []mailer.EmailJob {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]mailer.EmailJob(nil), p.jobs...)
}

type memUploader struct {
	paths []string
}

func (u *memUploader) Upload(_ context.Context, objectPath, _ string, r io.Reader) (string, error) {
	if _, err := io.ReadAll(r); err != nil {
		return "", err
	}
	u.paths = append(u.paths, objectPath)
	return "https://storage.example/" + objectPath, nil
}

type fixture struct {
	store *memory.Store
	pub   *recordingPublisher
	core  *Core
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	clock := func() time.Time { return testNow }
	store := memory.NewStore(clock)
	pub := &recordingPublisher{}
	cfg := &config.Config{AppName: "invest-marketplace", MarketplaceName: "Invest Marketplace", FrontendURL: "http://localhost:3000", MailSendEnabled: true}
	core := NewCore(store, pub, cfg, nil)
	core.Clock = clock
	return &fixture{store: store, pub: pub, core: core}
}

func (f *fixture) user(t *testing.T, first string, role entity.UserRole) *entity.User {
	t.Helper()
	u := &entity.User{FirstName: first, LastName: "Test", Email: first + "@example.com", Role: role}
	require.NoError(t, f.store.Repos().Users().Create(context.Background(), u))
	return u
}

// subscriber creates a user whose subscription runs for another month.
func (f *fixture) subscriber(t *testing.T, first string, role entity.UserRole) *entity.User {
	t.Helper()
	u := f.user(t, first, role)
	start, end := entity.SubscriptionWindow(testNow, 1)
	require.NoError(t, f.store.Repos().Users().UpdateSubscription(context.Background(), u.ID, start, end))
	u.Paid, u.SubscriptionStart, u.SubscriptionEnd = true, &start, &end
	return u
}

// company registers a company through the service so founder is its active owner.
func (f *fixture) company(t *testing.T, founder *entity.User, name string) *entity.Company {
	t.Helper()
	c, err := NewCompanyService(f.core).RegisterCompany(context.Background(), founder.ID, RegisterCompanyInput{
		Name:         name,
		ContactEmail: name + "@company.example",
		Industry:     "Tech",
		Location:     "Jakarta",
		FounderYear:  2015,
		Valuation:    decimal.NewFromInt(1_000_000),
	})
	require.NoError(t, err)
	return c
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func (f *fixture) notificationsFor(t *testing.T, userID string) []entity.Notification {
	t.Helper()
	items, err := f.store.Repos().Notifications().ListFeed(context.Background(), userID, 0, 100)
	require.NoError(t, err)
	return items
}
