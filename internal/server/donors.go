package server

import (
	"errors"
	"net/http"
	"net/mail"
	"strings"

	"tuinue/pkg/types"

	"github.com/alexedwards/flow"
	"golang.org/x/crypto/bcrypt"
)

type registerDonorRequest struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	IsAnonymous bool   `json:"is_anonymous"`
}

func (s *Service) handleRegisterDonor(w http.ResponseWriter, r *http.Request) {
	var ctx = r.Context()

	var req registerDonorRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Email = strings.TrimSpace(req.Email)

	if req.FirstName == "" || req.LastName == "" || req.Password == "" {
		s.writeError(w, http.StatusBadRequest, "first_name, last_name and password are required")
		return
	}

	if _, err := mail.ParseAddress(req.Email); err != nil {
		s.writeError(w, http.StatusBadRequest, "Enter a valid email address")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.WithError(err).Error("failed to hash donor password")
		s.writeError(w, http.StatusInternalServerError, "Unable to register right now")
		return
	}

	donor := &types.Donor{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: string(hash),
		IsAnonymous:  req.IsAnonymous,
	}

	err = s.donorsRepo.Create(ctx, donor)
	if err != nil {
		if errors.Is(err, types.ErrDuplicateEmail) {
			s.writeError(w, http.StatusBadRequest, "An account with this email already exists")
			return
		}
		s.logger.WithError(err).Error("failed to create donor")
		s.writeError(w, http.StatusInternalServerError, "Unable to register right now")
		return
	}

	s.writeMessage(w, http.StatusCreated, "Donor registered successfully!")
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Service) handleLoginDonor(w http.ResponseWriter, r *http.Request) {
	var ctx = r.Context()

	var req loginRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	donor, err := s.donorsRepo.DonorByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if !errors.Is(err, types.ErrDonorNotFound) {
			s.logger.WithError(err).Error("failed to fetch donor for login")
		}
		s.writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(donor.PasswordHash), []byte(req.Password)); err != nil {
		s.writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	cookie, err := s.issueSessionCookie(donor.ID, roleDonor)
	if err != nil {
		s.logger.WithError(err).Error("failed to issue donor session")
		s.writeError(w, http.StatusInternalServerError, "Login failed")
		return
	}

	s.setSessionCookie(w, cookie)
	s.writeMessage(w, http.StatusOK, "Login successful!")
}

func (s *Service) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.clearSessionCookie(w)
	s.writeMessage(w, http.StatusOK, "Logout successful!")
}

func (s *Service) handleListDonors(w http.ResponseWriter, r *http.Request) {
	var ctx = r.Context()

	params := s.pageParams(r.URL.Query())

	donors, err := s.donorsRepo.Donors(ctx, params.Limit(), params.Offset())
	if err != nil {
		s.logger.WithError(err).Error("failed to list donors")
		s.writeError(w, http.StatusInternalServerError, "Unable to list donors")
		return
	}

	s.writeJSON(w, http.StatusOK, donors)
}

func (s *Service) handleGetDonor(w http.ResponseWriter, r *http.Request) {
	var ctx = r.Context()

	donorID := flow.Param(ctx, "id")

	donor, err := s.donorsRepo.Donor(ctx, donorID)
	if err != nil {
		if errors.Is(err, types.ErrDonorNotFound) {
			s.writeError(w, http.StatusNotFound, "Donor not found")
			return
		}
		s.logger.WithError(err).Error("failed to fetch donor")
		s.writeError(w, http.StatusInternalServerError, "Unable to fetch donor")
		return
	}

	s.writeJSON(w, http.StatusOK, donor)
}
