package server

import (
	"context"
	"errors"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"tuinue/internal/utils"
	"tuinue/pkg/types"

	"github.com/alexedwards/flow"
	"golang.org/x/crypto/bcrypt"
)

type registerCharityRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Description string `json:"description"`
	Password    string `json:"password"`
}

func (s *Service) handleRegisterCharity(w http.ResponseWriter, r *http.Request) {
	var ctx = r.Context()

	var req registerCharityRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)

	if req.Name == "" || req.Password == "" {
		s.writeError(w, http.StatusBadRequest, "name and password are required")
		return
	}

	if _, err := mail.ParseAddress(req.Email); err != nil {
		s.writeError(w, http.StatusBadRequest, "Enter a valid email address")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.WithError(err).Error("failed to hash charity password")
		s.writeError(w, http.StatusInternalServerError, "Unable to register right now")
		return
	}

	var description *string
	if strings.TrimSpace(req.Description) != "" {
		description = utils.StringPtr(strings.TrimSpace(req.Description))
	}

	charity := &types.Charity{
		Name:         req.Name,
		Email:        req.Email,
		Description:  description,
		Status:       types.CharityStatusPending,
		PasswordHash: string(hash),
	}

	err = s.charitiesRepo.Create(ctx, charity)
	if err != nil {
		if errors.Is(err, types.ErrDuplicateEmail) {
			s.writeError(w, http.StatusBadRequest, "An account with this email already exists")
			return
		}
		s.logger.WithError(err).Error("failed to create charity")
		s.writeError(w, http.StatusInternalServerError, "Unable to register right now")
		return
	}

	s.sendMail("thank you", charity.Email, func(ctx context.Context) error {
		return s.mailer.SendCharityThankYou(ctx, charity)
	})

	s.writeMessage(w, http.StatusCreated, "Charity registration submitted for review.")
}

func (s *Service) handleLoginCharity(w http.ResponseWriter, r *http.Request) {
	var ctx = r.Context()

	var req loginRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	charity, err := s.charitiesRepo.CharityByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if !errors.Is(err, types.ErrCharityNotFound) {
			s.logger.WithError(err).Error("failed to fetch charity for login")
		}
		s.writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(charity.PasswordHash), []byte(req.Password)); err != nil {
		s.writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	cookie, err := s.issueSessionCookie(charity.ID, roleCharity)
	if err != nil {
		s.logger.WithError(err).Error("failed to issue charity session")
		s.writeError(w, http.StatusInternalServerError, "Login failed")
		return
	}

	s.setSessionCookie(w, cookie)
	s.writeMessage(w, http.StatusOK, "Login successful!")
}

// handleListCharities is the public listing; only approved charities are
// shown.
func (s *Service) handleListCharities(w http.ResponseWriter, r *http.Request) {
	var ctx = r.Context()

	params := s.pageParams(r.URL.Query())

	charities, err := s.charitiesRepo.CharitiesByStatus(ctx, types.CharityStatusApproved, params.Limit(), params.Offset())
	if err != nil {
		s.logger.WithError(err).Error("failed to list charities")
		s.writeError(w, http.StatusInternalServerError, "Unable to list charities")
		return
	}

	s.writeJSON(w, http.StatusOK, charities)
}

func (s *Service) handleGetCharity(w http.ResponseWriter, r *http.Request) {
	var ctx = r.Context()

	charityID := flow.Param(ctx, "id")

	charity, err := s.charitiesRepo.Charity(ctx, charityID)
	if err != nil {
		if errors.Is(err, types.ErrCharityNotFound) {
			s.writeError(w, http.StatusNotFound, "Charity not found")
			return
		}
		s.logger.WithError(err).Error("failed to fetch charity")
		s.writeError(w, http.StatusInternalServerError, "Unable to fetch charity")
		return
	}

	s.writeJSON(w, http.StatusOK, charity)
}

type createBeneficiaryRequest struct {
	Name     string `json:"name"`
	Age      int    `json:"age"`
	Location string `json:"location"`
	Story    string `json:"story"`
}

func (s *Service) handleCreateBeneficiary(w http.ResponseWriter, r *http.Request) {
	var ctx = r.Context()

	charityID, ok := s.principalIDFromContext(ctx)
	if !ok {
		s.writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req createBeneficiaryRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || req.Location == "" || req.Story == "" || req.Age <= 0 {
		s.writeError(w, http.StatusBadRequest, "name, age, location and story are required")
		return
	}

	beneficiary := &types.Beneficiary{
		CharityID: charityID,
		Name:      req.Name,
		Age:       req.Age,
		Location:  req.Location,
		Story:     req.Story,
	}

	if err := s.beneficiariesRepo.Create(ctx, beneficiary); err != nil {
		s.logger.WithError(err).Error("failed to create beneficiary")
		s.writeError(w, http.StatusInternalServerError, "Unable to create beneficiary")
		return
	}

	s.writeJSON(w, http.StatusCreated, beneficiary)
}

func (s *Service) handleListBeneficiaries(w http.ResponseWriter, r *http.Request) {
	var ctx = r.Context()

	charityID, ok := s.principalIDFromContext(ctx)
	if !ok {
		s.writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	params := s.pageParams(r.URL.Query())

	beneficiaries, err := s.beneficiariesRepo.BeneficiariesByCharity(ctx, charityID, params.Limit(), params.Offset())
	if err != nil {
		s.logger.WithError(err).Error("failed to list beneficiaries")
		s.writeError(w, http.StatusInternalServerError, "Unable to list beneficiaries")
		return
	}

	s.writeJSON(w, http.StatusOK, beneficiaries)
}

type postStoryRequest struct {
	BeneficiaryID string `json:"beneficiary_id"`
	Title         string `json:"title"`
	Content       string `json:"content"`
}

func (s *Service) handlePostStory(w http.ResponseWriter, r *http.Request) {
	var ctx = r.Context()

	charityID, ok := s.principalIDFromContext(ctx)
	if !ok {
		s.writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req postStoryRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	if req.BeneficiaryID == "" || strings.TrimSpace(req.Content) == "" {
		s.writeError(w, http.StatusBadRequest, "beneficiary_id and content are required")
		return
	}

	beneficiary, err := s.beneficiariesRepo.Beneficiary(ctx, req.BeneficiaryID)
	if err != nil {
		if errors.Is(err, types.ErrBeneficiaryNotFound) {
			s.writeError(w, http.StatusNotFound, "Beneficiary not found")
			return
		}
		s.logger.WithError(err).Error("failed to fetch beneficiary for story")
		s.writeError(w, http.StatusInternalServerError, "Unable to post story")
		return
	}

	if beneficiary.CharityID != charityID {
		s.writeError(w, http.StatusForbidden, "Beneficiary belongs to another charity")
		return
	}

	story := &types.Story{
		CharityID:     charityID,
		BeneficiaryID: beneficiary.ID,
		Title:         strings.TrimSpace(req.Title),
		Content:       req.Content,
		DatePosted:    time.Now().UTC(),
	}

	if err := s.storiesRepo.Create(ctx, story); err != nil {
		s.logger.WithError(err).Error("failed to create story")
		s.writeError(w, http.StatusInternalServerError, "Unable to post story")
		return
	}

	s.writeMessage(w, http.StatusCreated, "Story posted successfully!")
}

func (s *Service) handleNonAnonymousDonors(w http.ResponseWriter, r *http.Request) {
	var ctx = r.Context()

	params := s.pageParams(r.URL.Query())

	donors, err := s.donorsRepo.NonAnonymousDonors(ctx, params.Limit(), params.Offset())
	if err != nil {
		s.logger.WithError(err).Error("failed to list non-anonymous donors")
		s.writeError(w, http.StatusInternalServerError, "Unable to list donors")
		return
	}

	s.writeJSON(w, http.StatusOK, donors)
}

func (s *Service) handleAnonymousDonations(w http.ResponseWriter, r *http.Request) {
	var ctx = r.Context()

	params := s.pageParams(r.URL.Query())

	donations, err := s.donationsRepo.AnonymousDonations(ctx, params.Limit(), params.Offset())
	if err != nil {
		s.logger.WithError(err).Error("failed to list anonymous donations")
		s.writeError(w, http.StatusInternalServerError, "Unable to list donations")
		return
	}

	s.writeJSON(w, http.StatusOK, donations)
}

func (s *Service) handleTotalDonations(w http.ResponseWriter, r *http.Request) {
	var ctx = r.Context()

	charityID, ok := s.principalIDFromContext(ctx)
	if !ok {
		s.writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	total, err := s.donationsRepo.TotalForCharity(ctx, charityID)
	if err != nil {
		s.logger.WithError(err).Error("failed to compute donation total")
		s.writeError(w, http.StatusInternalServerError, "Unable to compute total")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]float64{"total_donations": total})
}
