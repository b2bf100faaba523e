package server

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"tuinue/pkg/types"

	"github.com/alexedwards/flow"
	"golang.org/x/crypto/bcrypt"
)

type registerAdministratorRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Service) handleRegisterAdministrator(w http.ResponseWriter, r *http.Request) {
	var ctx = r.Context()

	var req registerAdministratorRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		s.writeError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.WithError(err).Error("failed to hash administrator password")
		s.writeError(w, http.StatusInternalServerError, "Unable to register right now")
		return
	}

	administrator := &types.Administrator{
		Username:     req.Username,
		PasswordHash: string(hash),
	}

	err = s.administratorsRepo.Create(ctx, administrator)
	if err != nil {
		if errors.Is(err, types.ErrDuplicateUsername) {
			s.writeError(w, http.StatusBadRequest, "An account with this username already exists")
			return
		}
		s.logger.WithError(err).Error("failed to create administrator")
		s.writeError(w, http.StatusInternalServerError, "Unable to register right now")
		return
	}

	s.writeMessage(w, http.StatusCreated, "Administrator registered successfully!")
}

type loginAdministratorRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Service) handleLoginAdministrator(w http.ResponseWriter, r *http.Request) {
	var ctx = r.Context()

	var req loginAdministratorRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	administrator, err := s.administratorsRepo.AdministratorByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if !errors.Is(err, types.ErrAdministratorNotFound) {
			s.logger.WithError(err).Error("failed to fetch administrator for login")
		}
		s.writeError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(administrator.PasswordHash), []byte(req.Password)); err != nil {
		s.writeError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}

	cookie, err := s.issueSessionCookie(administrator.ID, roleAdministrator)
	if err != nil {
		s.logger.WithError(err).Error("failed to issue administrator session")
		s.writeError(w, http.StatusInternalServerError, "Login failed")
		return
	}

	s.setSessionCookie(w, cookie)
	s.writeMessage(w, http.StatusOK, "Login successful!")
}

func (s *Service) handleListAdministrators(w http.ResponseWriter, r *http.Request) {
	var ctx = r.Context()

	params := s.pageParams(r.URL.Query())

	administrators, err := s.administratorsRepo.Administrators(ctx, params.Limit(), params.Offset())
	if err != nil {
		s.logger.WithError(err).Error("failed to list administrators")
		s.writeError(w, http.StatusInternalServerError, "Unable to list administrators")
		return
	}

	s.writeJSON(w, http.StatusOK, administrators)
}

func (s *Service) handleGetAdministrator(w http.ResponseWriter, r *http.Request) {
	var ctx = r.Context()

	administratorID := flow.Param(ctx, "id")

	administrator, err := s.administratorsRepo.Administrator(ctx, administratorID)
	if err != nil {
		if errors.Is(err, types.ErrAdministratorNotFound) {
			s.writeError(w, http.StatusNotFound, "Administrator not found")
			return
		}
		s.logger.WithError(err).Error("failed to fetch administrator")
		s.writeError(w, http.StatusInternalServerError, "Unable to fetch administrator")
		return
	}

	s.writeJSON(w, http.StatusOK, administrator)
}

func (s *Service) handlePendingCharities(w http.ResponseWriter, r *http.Request) {
	var ctx = r.Context()

	params := s.pageParams(r.URL.Query())

	charities, err := s.charitiesRepo.CharitiesByStatus(ctx, types.CharityStatusPending, params.Limit(), params.Offset())
	if err != nil {
		s.logger.WithError(err).Error("failed to list pending charities")
		s.writeError(w, http.StatusInternalServerError, "Unable to list charities")
		return
	}

	s.writeJSON(w, http.StatusOK, charities)
}

func (s *Service) handleAllCharities(w http.ResponseWriter, r *http.Request) {
	var ctx = r.Context()

	params := s.pageParams(r.URL.Query())

	charities, err := s.charitiesRepo.Charities(ctx, params.Limit(), params.Offset())
	if err != nil {
		s.logger.WithError(err).Error("failed to list charities")
		s.writeError(w, http.StatusInternalServerError, "Unable to list charities")
		return
	}

	s.writeJSON(w, http.StatusOK, charities)
}

func (s *Service) handleApproveCharity(w http.ResponseWriter, r *http.Request) {
	var ctx = r.Context()

	charityID := flow.Param(ctx, "id")

	charity, err := s.charitiesRepo.Charity(ctx, charityID)
	if err != nil {
		if errors.Is(err, types.ErrCharityNotFound) {
			s.writeError(w, http.StatusNotFound, "Charity not found")
			return
		}
		s.logger.WithError(err).Error("failed to fetch charity for approval")
		s.writeError(w, http.StatusInternalServerError, "Unable to approve charity")
		return
	}

	if charity.Status != types.CharityStatusPending {
		s.writeError(w, http.StatusBadRequest, "Charity is not pending review")
		return
	}

	if err := s.charitiesRepo.SetStatus(ctx, charity.ID, types.CharityStatusApproved); err != nil {
		s.logger.WithError(err).Error("failed to approve charity")
		s.writeError(w, http.StatusInternalServerError, "Unable to approve charity")
		return
	}
	charity.Status = types.CharityStatusApproved

	s.sendMail("approval", charity.Email, func(ctx context.Context) error {
		return s.mailer.SendCharityApproved(ctx, charity)
	})

	s.writeMessage(w, http.StatusOK, "Charity approved!")
}

// handleRejectCharity marks the charity Rejected and keeps the row.
// Removing a charity is a separate delete operation.
func (s *Service) handleRejectCharity(w http.ResponseWriter, r *http.Request) {
	var ctx = r.Context()

	charityID := flow.Param(ctx, "id")

	charity, err := s.charitiesRepo.Charity(ctx, charityID)
	if err != nil {
		if errors.Is(err, types.ErrCharityNotFound) {
			s.writeError(w, http.StatusNotFound, "Charity not found")
			return
		}
		s.logger.WithError(err).Error("failed to fetch charity for rejection")
		s.writeError(w, http.StatusInternalServerError, "Unable to reject charity")
		return
	}

	if charity.Status != types.CharityStatusPending {
		s.writeError(w, http.StatusBadRequest, "Charity is not pending review")
		return
	}

	if err := s.charitiesRepo.SetStatus(ctx, charity.ID, types.CharityStatusRejected); err != nil {
		s.logger.WithError(err).Error("failed to reject charity")
		s.writeError(w, http.StatusInternalServerError, "Unable to reject charity")
		return
	}
	charity.Status = types.CharityStatusRejected

	s.sendMail("rejection", charity.Email, func(ctx context.Context) error {
		return s.mailer.SendCharityRejected(ctx, charity)
	})

	s.writeMessage(w, http.StatusOK, "Charity rejected!")
}

func (s *Service) handleDeleteCharity(w http.ResponseWriter, r *http.Request) {
	var ctx = r.Context()

	charityID := flow.Param(ctx, "id")

	if _, err := s.charitiesRepo.Charity(ctx, charityID); err != nil {
		if errors.Is(err, types.ErrCharityNotFound) {
			s.writeError(w, http.StatusNotFound, "Charity not found")
			return
		}
		s.logger.WithError(err).Error("failed to fetch charity for deletion")
		s.writeError(w, http.StatusInternalServerError, "Unable to delete charity")
		return
	}

	if err := s.charitiesRepo.Delete(ctx, charityID); err != nil {
		s.logger.WithError(err).Error("failed to delete charity")
		s.writeError(w, http.StatusInternalServerError, "Unable to delete charity")
		return
	}

	s.writeMessage(w, http.StatusOK, "Charity deleted!")
}

func (s *Service) handleListDonations(w http.ResponseWriter, r *http.Request) {
	var ctx = r.Context()

	params := s.pageParams(r.URL.Query())

	donations, err := s.donationsRepo.Donations(ctx, params.Limit(), params.Offset())
	if err != nil {
		s.logger.WithError(err).Error("failed to list donations")
		s.writeError(w, http.StatusInternalServerError, "Unable to list donations")
		return
	}

	s.writeJSON(w, http.StatusOK, donations)
}
