package carrot

import "errors"

var (
	ErrBadAddressPoints               = errors.New("address contains invalid or torsioned points")
	ErrDeviceError                    = errors.New("device error")
	ErrInvalidInternalMessage         = errors.New("internal message is invalid for this type of payment")
	ErrMismatchedEnoteEphemeralPubkey = errors.New("conflicting enote ephemeral pubkeys for a self-send payment")
	ErrMissingEnoteEphemeralPubkey    = errors.New("no enote ephemeral pubkey for a self-send payment")
	ErrMissingPaymentId               = errors.New("missing dummy encrypted payment id")
	ErrMissingRandomness              = errors.New("missing or reused randomness")
	ErrWrongAddressType               = errors.New("address type cannot be used in this payment set")
	ErrWrongOutputNumber              = errors.New("wrong number of outputs")
)
