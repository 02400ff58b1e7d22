package wallet

import "errors"

var (
	ErrInvalidAmount         = errors.New("invalid amount")
	ErrEvidenceRequired      = errors.New("UTR number or screenshot required")
	ErrProofNotFound         = errors.New("payment proof not found")
	ErrProofAlreadyProcessed = errors.New("payment proof already processed")
	ErrInvalidProofStatus    = errors.New("invalid proof status")
)
