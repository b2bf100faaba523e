package server

import (
	"errors"
	"net/http"
	"strings"

	"tuinue/pkg/types"

	"github.com/sirupsen/logrus"
)

type donateRequest struct {
	DonorID           string  `json:"donor_id"`
	CharityID         string  `json:"charity_id"`
	Amount            float64 `json:"amount"`
	PhoneNumber       string  `json:"phone_number"`
	IsAnonymous       bool    `json:"is_anonymous"`
	IsOneTimeDonation bool    `json:"is_one_time_donation"`
}

// handleDonate validates the donor and charity, submits the push payment
// and records the donation only when the gateway reports acceptance.
// Nothing is persisted for failed or pending attempts.
func (s *Service) handleDonate(w http.ResponseWriter, r *http.Request) {
	var ctx = r.Context()

	var req donateRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	if req.Amount <= 0 {
		s.writeError(w, http.StatusBadRequest, "amount must be greater than zero")
		return
	}

	if strings.TrimSpace(req.PhoneNumber) == "" {
		s.writeError(w, http.StatusBadRequest, "phone_number is required")
		return
	}

	donor, err := s.donorsRepo.Donor(ctx, req.DonorID)
	if err != nil {
		if errors.Is(err, types.ErrDonorNotFound) {
			s.writeError(w, http.StatusNotFound, "Donor not found")
			return
		}
		s.logger.WithError(err).Error("failed to fetch donor for donation")
		s.writeError(w, http.StatusInternalServerError, "Unable to process donation")
		return
	}

	charity, err := s.charitiesRepo.Charity(ctx, req.CharityID)
	if err != nil {
		if errors.Is(err, types.ErrCharityNotFound) {
			s.writeError(w, http.StatusNotFound, "Charity not found")
			return
		}
		s.logger.WithError(err).Error("failed to fetch charity for donation")
		s.writeError(w, http.StatusInternalServerError, "Unable to process donation")
		return
	}

	resp, err := s.gateway.STKPush(ctx, req.PhoneNumber, req.Amount)
	if err != nil {
		s.logger.WithError(err).Error("stk push failed")
		s.writeError(w, http.StatusBadRequest, "Payment request failed. Please try again.")
		return
	}

	if !resp.Accepted() {
		s.logger.WithFields(logrus.Fields{
			"response_code": resp.ResponseCode,
			"description":   resp.ResponseDescription,
		}).Warn("gateway rejected stk push")
		s.writeError(w, http.StatusBadRequest, "Payment request failed. Please try again.")
		return
	}

	donation := &types.Donation{
		DonorID:           donor.ID,
		CharityID:         charity.ID,
		Amount:            req.Amount,
		IsAnonymous:       req.IsAnonymous || donor.IsAnonymous,
		IsOneTimeDonation: req.IsOneTimeDonation,
	}

	if err := s.donationsRepo.Create(ctx, donation); err != nil {
		// The prompt already reached the payer's phone at this point;
		// the row insert is the only record of it.
		s.logger.WithError(err).Error("failed to record donation after accepted push")
		s.writeError(w, http.StatusInternalServerError, "Unable to record donation")
		return
	}

	s.writeMessage(w, http.StatusCreated, "Donation initiated successfully!")
}
