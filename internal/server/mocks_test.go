package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tuinue/internal/mpesa"
	"tuinue/pkg/types"

	"github.com/sirupsen/logrus"
)

type mockDonorStore struct {
	DonorFunc              func(ctx context.Context, donorID string) (*types.Donor, error)
	DonorByEmailFunc       func(ctx context.Context, email string) (*types.Donor, error)
	CreateFunc             func(ctx context.Context, donor *types.Donor) error
	DonorsFunc             func(ctx context.Context, limit, offset uint64) ([]*types.Donor, error)
	NonAnonymousDonorsFunc func(ctx context.Context, limit, offset uint64) ([]*types.Donor, error)

	created []*types.Donor
}

func (m *mockDonorStore) Donor(ctx context.Context, donorID string) (*types.Donor, error) {
	if m.DonorFunc != nil {
		return m.DonorFunc(ctx, donorID)
	}
	return nil, types.ErrDonorNotFound
}

func (m *mockDonorStore) DonorByEmail(ctx context.Context, email string) (*types.Donor, error) {
	if m.DonorByEmailFunc != nil {
		return m.DonorByEmailFunc(ctx, email)
	}
	return nil, types.ErrDonorNotFound
}

func (m *mockDonorStore) Create(ctx context.Context, donor *types.Donor) error {
	m.created = append(m.created, donor)
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, donor)
	}
	return nil
}

func (m *mockDonorStore) Donors(ctx context.Context, limit, offset uint64) ([]*types.Donor, error) {
	if m.DonorsFunc != nil {
		return m.DonorsFunc(ctx, limit, offset)
	}
	return []*types.Donor{}, nil
}

func (m *mockDonorStore) NonAnonymousDonors(ctx context.Context, limit, offset uint64) ([]*types.Donor, error) {
	if m.NonAnonymousDonorsFunc != nil {
		return m.NonAnonymousDonorsFunc(ctx, limit, offset)
	}
	return []*types.Donor{}, nil
}

type mockCharityStore struct {
	CharityFunc           func(ctx context.Context, charityID string) (*types.Charity, error)
	CharityByEmailFunc    func(ctx context.Context, email string) (*types.Charity, error)
	CreateFunc            func(ctx context.Context, charity *types.Charity) error
	SetStatusFunc         func(ctx context.Context, charityID string, status types.CharityStatus) error
	DeleteFunc            func(ctx context.Context, charityID string) error
	CharitiesFunc         func(ctx context.Context, limit, offset uint64) ([]*types.Charity, error)
	CharitiesByStatusFunc func(ctx context.Context, status types.CharityStatus, limit, offset uint64) ([]*types.Charity, error)

	created   []*types.Charity
	statusSet map[string]types.CharityStatus
	deleted   []string
}

func (m *mockCharityStore) Charity(ctx context.Context, charityID string) (*types.Charity, error) {
	if m.CharityFunc != nil {
		return m.CharityFunc(ctx, charityID)
	}
	return nil, types.ErrCharityNotFound
}

func (m *mockCharityStore) CharityByEmail(ctx context.Context, email string) (*types.Charity, error) {
	if m.CharityByEmailFunc != nil {
		return m.CharityByEmailFunc(ctx, email)
	}
	return nil, types.ErrCharityNotFound
}

func (m *mockCharityStore) Create(ctx context.Context, charity *types.Charity) error {
	m.created = append(m.created, charity)
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, charity)
	}
	return nil
}

func (m *mockCharityStore) SetStatus(ctx context.Context, charityID string, status types.CharityStatus) error {
	if m.statusSet == nil {
		m.statusSet = map[string]types.CharityStatus{}
	}
	m.statusSet[charityID] = status
	if m.SetStatusFunc != nil {
		return m.SetStatusFunc(ctx, charityID, status)
	}
	return nil
}

func (m *mockCharityStore) Delete(ctx context.Context, charityID string) error {
	m.deleted = append(m.deleted, charityID)
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, charityID)
	}
	return nil
}

func (m *mockCharityStore) Charities(ctx context.Context, limit, offset uint64) ([]*types.Charity, error) {
	if m.CharitiesFunc != nil {
		return m.CharitiesFunc(ctx, limit, offset)
	}
	return []*types.Charity{}, nil
}

func (m *mockCharityStore) CharitiesByStatus(ctx context.Context, status types.CharityStatus, limit, offset uint64) ([]*types.Charity, error) {
	if m.CharitiesByStatusFunc != nil {
		return m.CharitiesByStatusFunc(ctx, status, limit, offset)
	}
	return []*types.Charity{}, nil
}

type mockAdministratorStore struct {
	AdministratorFunc           func(ctx context.Context, administratorID string) (*types.Administrator, error)
	AdministratorByUsernameFunc func(ctx context.Context, username string) (*types.Administrator, error)
	CreateFunc                  func(ctx context.Context, administrator *types.Administrator) error
	AdministratorsFunc          func(ctx context.Context, limit, offset uint64) ([]*types.Administrator, error)
}

func (m *mockAdministratorStore) Administrator(ctx context.Context, administratorID string) (*types.Administrator, error) {
	if m.AdministratorFunc != nil {
		return m.AdministratorFunc(ctx, administratorID)
	}
	return nil, types.ErrAdministratorNotFound
}

func (m *mockAdministratorStore) AdministratorByUsername(ctx context.Context, username string) (*types.Administrator, error) {
	if m.AdministratorByUsernameFunc != nil {
		return m.AdministratorByUsernameFunc(ctx, username)
	}
	return nil, types.ErrAdministratorNotFound
}

func (m *mockAdministratorStore) Create(ctx context.Context, administrator *types.Administrator) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, administrator)
	}
	return nil
}

func (m *mockAdministratorStore) Administrators(ctx context.Context, limit, offset uint64) ([]*types.Administrator, error) {
	if m.AdministratorsFunc != nil {
		return m.AdministratorsFunc(ctx, limit, offset)
	}
	return []*types.Administrator{}, nil
}

type mockBeneficiaryStore struct {
	BeneficiaryFunc            func(ctx context.Context, beneficiaryID string) (*types.Beneficiary, error)
	CreateFunc                 func(ctx context.Context, beneficiary *types.Beneficiary) error
	BeneficiariesByCharityFunc func(ctx context.Context, charityID string, limit, offset uint64) ([]*types.Beneficiary, error)

	created []*types.Beneficiary
}

func (m *mockBeneficiaryStore) Beneficiary(ctx context.Context, beneficiaryID string) (*types.Beneficiary, error) {
	if m.BeneficiaryFunc != nil {
		return m.BeneficiaryFunc(ctx, beneficiaryID)
	}
	return nil, types.ErrBeneficiaryNotFound
}

func (m *mockBeneficiaryStore) Create(ctx context.Context, beneficiary *types.Beneficiary) error {
	m.created = append(m.created, beneficiary)
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, beneficiary)
	}
	return nil
}

func (m *mockBeneficiaryStore) BeneficiariesByCharity(ctx context.Context, charityID string, limit, offset uint64) ([]*types.Beneficiary, error) {
	if m.BeneficiariesByCharityFunc != nil {
		return m.BeneficiariesByCharityFunc(ctx, charityID, limit, offset)
	}
	return []*types.Beneficiary{}, nil
}

type mockDonationStore struct {
	CreateFunc             func(ctx context.Context, donation *types.Donation) error
	DonationsFunc          func(ctx context.Context, limit, offset uint64) ([]*types.Donation, error)
	AnonymousDonationsFunc func(ctx context.Context, limit, offset uint64) ([]*types.Donation, error)
	TotalForCharityFunc    func(ctx context.Context, charityID string) (float64, error)

	created []*types.Donation
}

func (m *mockDonationStore) Create(ctx context.Context, donation *types.Donation) error {
	m.created = append(m.created, donation)
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, donation)
	}
	return nil
}

func (m *mockDonationStore) Donations(ctx context.Context, limit, offset uint64) ([]*types.Donation, error) {
	if m.DonationsFunc != nil {
		return m.DonationsFunc(ctx, limit, offset)
	}
	return []*types.Donation{}, nil
}

func (m *mockDonationStore) AnonymousDonations(ctx context.Context, limit, offset uint64) ([]*types.Donation, error) {
	if m.AnonymousDonationsFunc != nil {
		return m.AnonymousDonationsFunc(ctx, limit, offset)
	}
	return []*types.Donation{}, nil
}

func (m *mockDonationStore) TotalForCharity(ctx context.Context, charityID string) (float64, error) {
	if m.TotalForCharityFunc != nil {
		return m.TotalForCharityFunc(ctx, charityID)
	}
	return 0, nil
}

type mockStoryStore struct {
	StoryFunc   func(ctx context.Context, storyID string) (*types.Story, error)
	CreateFunc  func(ctx context.Context, story *types.Story) error
	StoriesFunc func(ctx context.Context, limit, offset uint64) ([]*types.Story, error)

	created []*types.Story
}

func (m *mockStoryStore) Story(ctx context.Context, storyID string) (*types.Story, error) {
	if m.StoryFunc != nil {
		return m.StoryFunc(ctx, storyID)
	}
	return nil, types.ErrStoryNotFound
}

func (m *mockStoryStore) Create(ctx context.Context, story *types.Story) error {
	m.created = append(m.created, story)
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, story)
	}
	return nil
}

func (m *mockStoryStore) Stories(ctx context.Context, limit, offset uint64) ([]*types.Story, error) {
	if m.StoriesFunc != nil {
		return m.StoriesFunc(ctx, limit, offset)
	}
	return []*types.Story{}, nil
}

type mockGateway struct {
	STKPushFunc func(ctx context.Context, phoneNumber string, amount float64) (*mpesa.STKPushResponse, error)

	calls int
}

func (m *mockGateway) STKPush(ctx context.Context, phoneNumber string, amount float64) (*mpesa.STKPushResponse, error) {
	m.calls++
	if m.STKPushFunc != nil {
		return m.STKPushFunc(ctx, phoneNumber, amount)
	}
	return &mpesa.STKPushResponse{ResponseCode: "0"}, nil
}

// mockMailer delivers each send on a channel so tests can wait for the
// fire-and-forget goroutine.
type mockMailer struct {
	thankYou chan *types.Charity
	approved chan *types.Charity
	rejected chan *types.Charity
	reminder chan *types.Donor
}

func newMockMailer() *mockMailer {
	return &mockMailer{
		thankYou: make(chan *types.Charity, 8),
		approved: make(chan *types.Charity, 8),
		rejected: make(chan *types.Charity, 8),
		reminder: make(chan *types.Donor, 8),
	}
}

func (m *mockMailer) SendCharityThankYou(ctx context.Context, charity *types.Charity) error {
	m.thankYou <- charity
	return nil
}

func (m *mockMailer) SendCharityApproved(ctx context.Context, charity *types.Charity) error {
	m.approved <- charity
	return nil
}

func (m *mockMailer) SendCharityRejected(ctx context.Context, charity *types.Charity) error {
	m.rejected <- charity
	return nil
}

func (m *mockMailer) SendMonthlyReminder(ctx context.Context, donor *types.Donor) error {
	m.reminder <- donor
	return nil
}

type testEnv struct {
	donors        *mockDonorStore
	charities     *mockCharityStore
	admins        *mockAdministratorStore
	beneficiaries *mockBeneficiaryStore
	donations     *mockDonationStore
	stories       *mockStoryStore
	gateway       *mockGateway
	mailer        *mockMailer

	svc *Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	config := &types.Config{
		ServerPort:         0,
		ReadTimeoutSec:     5,
		WriteTimeoutSec:    5,
		SessionTokenSecret: "0123456789abcdef0123456789abcdef",
		SessionMaxAgeSec:   3600,
		CookieHashKey:      base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{0x42}, 32)),
		CookieBlockKey:     base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{0x24}, 16)),
	}

	env := &testEnv{
		donors:        &mockDonorStore{},
		charities:     &mockCharityStore{},
		admins:        &mockAdministratorStore{},
		beneficiaries: &mockBeneficiaryStore{},
		donations:     &mockDonationStore{},
		stories:       &mockStoryStore{},
		gateway:       &mockGateway{},
		mailer:        newMockMailer(),
	}

	svc, err := New(
		config,
		logger,
		env.donors,
		env.charities,
		env.admins,
		env.beneficiaries,
		env.donations,
		env.stories,
		env.gateway,
		env.mailer,
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	env.svc = svc
	return env
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.svc.server.Handler.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) sessionCookie(t *testing.T, principalID string, role principalRole) *http.Cookie {
	t.Helper()

	value, err := e.svc.issueSessionCookie(principalID, role)
	if err != nil {
		t.Fatalf("issueSessionCookie: %v", err)
	}

	return &http.Cookie{Name: sessionCookieName, Value: value}
}

func waitForCharityMail(t *testing.T, ch chan *types.Charity) *types.Charity {
	t.Helper()

	select {
	case charity := <-ch:
		return charity
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for notification email")
		return nil
	}
}

func assertNoCharityMail(t *testing.T, ch chan *types.Charity) {
	t.Helper()

	select {
	case charity := <-ch:
		t.Fatalf("unexpected notification email to %s", charity.Email)
	case <-time.After(100 * time.Millisecond):
	}
}
