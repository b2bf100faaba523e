package server

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	"tuinue/internal/mailer"
	"tuinue/internal/mpesa"
	"tuinue/pkg/types"

	"github.com/alexedwards/flow"
	"github.com/go-playground/form/v4"
	"github.com/gorilla/securecookie"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/sirupsen/logrus"
)

var decoder = form.NewDecoder()

// Store interfaces cover exactly the methods handlers call, so tests can
// substitute function-field mocks for the pgx-backed repositories.

type DonorStore interface {
	Donor(ctx context.Context, donorID string) (*types.Donor, error)
	DonorByEmail(ctx context.Context, email string) (*types.Donor, error)
	Create(ctx context.Context, donor *types.Donor) error
	Donors(ctx context.Context, limit, offset uint64) ([]*types.Donor, error)
	NonAnonymousDonors(ctx context.Context, limit, offset uint64) ([]*types.Donor, error)
}

type CharityStore interface {
	Charity(ctx context.Context, charityID string) (*types.Charity, error)
	CharityByEmail(ctx context.Context, email string) (*types.Charity, error)
	Create(ctx context.Context, charity *types.Charity) error
	SetStatus(ctx context.Context, charityID string, status types.CharityStatus) error
	Delete(ctx context.Context, charityID string) error
	Charities(ctx context.Context, limit, offset uint64) ([]*types.Charity, error)
	CharitiesByStatus(ctx context.Context, status types.CharityStatus, limit, offset uint64) ([]*types.Charity, error)
}

type AdministratorStore interface {
	Administrator(ctx context.Context, administratorID string) (*types.Administrator, error)
	AdministratorByUsername(ctx context.Context, username string) (*types.Administrator, error)
	Create(ctx context.Context, administrator *types.Administrator) error
	Administrators(ctx context.Context, limit, offset uint64) ([]*types.Administrator, error)
}

type BeneficiaryStore interface {
	Beneficiary(ctx context.Context, beneficiaryID string) (*types.Beneficiary, error)
	Create(ctx context.Context, beneficiary *types.Beneficiary) error
	BeneficiariesByCharity(ctx context.Context, charityID string, limit, offset uint64) ([]*types.Beneficiary, error)
}

type DonationStore interface {
	Create(ctx context.Context, donation *types.Donation) error
	Donations(ctx context.Context, limit, offset uint64) ([]*types.Donation, error)
	AnonymousDonations(ctx context.Context, limit, offset uint64) ([]*types.Donation, error)
	TotalForCharity(ctx context.Context, charityID string) (float64, error)
}

type StoryStore interface {
	Story(ctx context.Context, storyID string) (*types.Story, error)
	Create(ctx context.Context, story *types.Story) error
	Stories(ctx context.Context, limit, offset uint64) ([]*types.Story, error)
}

// PaymentGateway is the outbound push-payment call. Its immediate response
// is treated as authoritative; there is no callback handling.
type PaymentGateway interface {
	STKPush(ctx context.Context, phoneNumber string, amount float64) (*mpesa.STKPushResponse, error)
}

type Service struct {
	logger *logrus.Logger
	config *types.Config

	donorsRepo         DonorStore
	charitiesRepo      CharityStore
	administratorsRepo AdministratorStore
	beneficiariesRepo  BeneficiaryStore
	donationsRepo      DonationStore
	storiesRepo        StoryStore

	gateway PaymentGateway
	mailer  mailer.Mailer

	cookie   *securecookie.SecureCookie
	tokenKey jwk.Key

	server *http.Server
}

func New(
	config *types.Config,
	logger *logrus.Logger,
	donorsRepo DonorStore,
	charitiesRepo CharityStore,
	administratorsRepo AdministratorStore,
	beneficiariesRepo BeneficiaryStore,
	donationsRepo DonationStore,
	storiesRepo StoryStore,
	gateway PaymentGateway,
	m mailer.Mailer,
) (*Service, error) {
	mux := flow.New()

	hashKey, _ := base64.StdEncoding.DecodeString(config.CookieHashKey)
	blockKey, _ := base64.StdEncoding.DecodeString(config.CookieBlockKey)

	tokenKey, err := jwk.Import([]byte(config.SessionTokenSecret))
	if err != nil {
		return nil, fmt.Errorf("import session token key: %w", err)
	}

	s := &Service{
		logger: logger,
		config: config,

		donorsRepo:         donorsRepo,
		charitiesRepo:      charitiesRepo,
		administratorsRepo: administratorsRepo,
		beneficiariesRepo:  beneficiariesRepo,
		donationsRepo:      donationsRepo,
		storiesRepo:        storiesRepo,

		gateway: gateway,
		mailer:  m,

		cookie:   securecookie.New(hashKey, blockKey),
		tokenKey: tokenKey,

		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", config.ServerPort),
			Handler:           mux,
			ReadTimeout:       time.Duration(config.ReadTimeoutSec) * time.Second,
			ReadHeaderTimeout: time.Duration(config.ReadTimeoutSec) * time.Second,
			WriteTimeout:      time.Duration(config.WriteTimeoutSec) * time.Second,
			MaxHeaderBytes:    1 << 20,
		},
	}

	s.buildRouter(mux)

	return s, nil
}

func (s *Service) Start() error {
	return s.server.ListenAndServe()
}

func (s *Service) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Service) buildRouter(r *flow.Mux) {
	r.Use(s.StripTrailingSlash)
	r.Use(s.LoggingMiddleware)

	r.HandleFunc("/healthz", s.handleHealth, http.MethodGet)

	r.HandleFunc("/api/donors/register", s.handleRegisterDonor, http.MethodPost)
	r.HandleFunc("/api/donors/login", s.handleLoginDonor, http.MethodPost)
	r.HandleFunc("/api/donors", s.handleListDonors, http.MethodGet)

	r.HandleFunc("/api/charities/register", s.handleRegisterCharity, http.MethodPost)
	r.HandleFunc("/api/charities/login", s.handleLoginCharity, http.MethodPost)
	r.HandleFunc("/api/charities", s.handleListCharities, http.MethodGet)

	r.HandleFunc("/api/stories", s.handleListStories, http.MethodGet)
	r.HandleFunc("/api/stories/:id", s.handleGetStory, http.MethodGet)

	r.HandleFunc("/api/administrators/login", s.handleLoginAdministrator, http.MethodPost)

	r.Group(func(r *flow.Mux) {
		r.Use(s.RequireDonor)

		r.HandleFunc("/api/donors/logout", s.handleLogout, http.MethodGet)
		r.HandleFunc("/api/donations/donate", s.handleDonate, http.MethodPost)
	})

	r.Group(func(r *flow.Mux) {
		r.Use(s.RequireCharity)

		r.HandleFunc("/api/charities/beneficiaries", s.handleListBeneficiaries, http.MethodGet)
		r.HandleFunc("/api/charities/beneficiaries", s.handleCreateBeneficiary, http.MethodPost)
		r.HandleFunc("/api/charities/stories", s.handlePostStory, http.MethodPost)
		r.HandleFunc("/api/charities/non_anonymous_donors", s.handleNonAnonymousDonors, http.MethodGet)
		r.HandleFunc("/api/charities/anonymous_donations", s.handleAnonymousDonations, http.MethodGet)
		r.HandleFunc("/api/charities/total_donations", s.handleTotalDonations, http.MethodGet)
	})

	r.Group(func(r *flow.Mux) {
		r.Use(s.RequireAdministrator)

		r.HandleFunc("/api/administrators/register", s.handleRegisterAdministrator, http.MethodPost)
		r.HandleFunc("/api/administrators", s.handleListAdministrators, http.MethodGet)
		r.HandleFunc("/api/administrators/:id", s.handleGetAdministrator, http.MethodGet)

		r.HandleFunc("/api/admin/pending_charities", s.handlePendingCharities, http.MethodGet)
		r.HandleFunc("/api/admin/charities", s.handleAllCharities, http.MethodGet)
		r.HandleFunc("/api/admin/charities/:id/approve", s.handleApproveCharity, http.MethodPost)
		r.HandleFunc("/api/admin/charities/:id/reject", s.handleRejectCharity, http.MethodPost)
		r.HandleFunc("/api/admin/charities/:id", s.handleDeleteCharity, http.MethodDelete)

		r.HandleFunc("/api/donations", s.handleListDonations, http.MethodGet)
	})

	// Registered after the literal routes so :id does not shadow them.
	r.HandleFunc("/api/donors/:id", s.handleGetDonor, http.MethodGet)
	r.HandleFunc("/api/charities/:id", s.handleGetCharity, http.MethodGet)
}

func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
