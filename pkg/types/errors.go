package types

import "errors"

var (
	ErrDonorNotFound         = errors.New("donor not found")
	ErrCharityNotFound       = errors.New("charity not found")
	ErrAdministratorNotFound = errors.New("administrator not found")
	ErrBeneficiaryNotFound   = errors.New("beneficiary not found")
	ErrDonationNotFound      = errors.New("donation not found")
	ErrStoryNotFound         = errors.New("story not found")

	ErrDuplicateEmail    = errors.New("email already registered")
	ErrDuplicateUsername = errors.New("username already registered")
)
