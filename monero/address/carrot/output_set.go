package carrot

import (
	"bytes"
	"io"
	"slices"

	"git.gammaspectra.live/P2Pool/carrot/monero/crypto/curve25519"
	"git.gammaspectra.live/P2Pool/carrot/utils"
)

type AdditionalOutputType uint8

const (
	// AdditionalOutputNone the set is already complete
	AdditionalOutputNone = AdditionalOutputType(iota)
	// AdditionalOutputPaymentShared self-send payment type, sharing D_e with the other output
	AdditionalOutputPaymentShared
	// AdditionalOutputChangeShared self-send change type, sharing D_e with the other output
	AdditionalOutputChangeShared
	// AdditionalOutputChangeUnique self-send change type, with its own D_e
	AdditionalOutputChangeUnique
	// AdditionalOutputDummy zero amount output to a random address
	AdditionalOutputDummy
)

func (t AdditionalOutputType) String() string {
	switch t {
	case AdditionalOutputNone:
		return "none"
	case AdditionalOutputPaymentShared:
		return "payment shared"
	case AdditionalOutputChangeShared:
		return "change shared"
	case AdditionalOutputChangeUnique:
		return "change unique"
	case AdditionalOutputDummy:
		return "dummy"
	default:
		return "unknown"
	}
}

// GetAdditionalOutputType decides which extra output, if any, brings the set to at least MinOutputSetSize
// outputs with at least one self-send
func GetAdditionalOutputType(numOutgoing, numSelfSend int, needChangeOutput, havePaymentTypeSelfSend bool) AdditionalOutputType {
	numOutputs := numOutgoing + numSelfSend
	alreadyCompleted := numOutputs >= MinOutputSetSize && numSelfSend >= 1 && !needChangeOutput

	switch {
	case alreadyCompleted:
		return AdditionalOutputNone
	case numOutputs < MinOutputSetSize:
		if numSelfSend == 0 {
			return AdditionalOutputChangeShared
		} else if !needChangeOutput {
			return AdditionalOutputDummy
		} else if havePaymentTypeSelfSend {
			// numSelfSend == 1 && needChangeOutput
			return AdditionalOutputChangeShared
		} else {
			return AdditionalOutputPaymentShared
		}
	default:
		return AdditionalOutputChangeUnique
	}
}

// AdditionalOutputProposal at most one of Normal and SelfSend is set
type AdditionalOutputProposal struct {
	Type     AdditionalOutputType
	Normal   *PaymentProposalV1
	SelfSend *PaymentProposalSelfSendV1
}

// GetAdditionalOutputProposal builds the extra output chosen by GetAdditionalOutputType
// Change goes to changeSpendPub, dummy outputs draw their destination and randomness from r
func GetAdditionalOutputProposal(numOutgoing, numSelfSend int, neededChangeAmount uint64, havePaymentTypeSelfSend bool, changeSpendPub curve25519.PublicKeyBytes, r io.Reader) (proposal AdditionalOutputProposal, err error) {
	proposal.Type = GetAdditionalOutputType(numOutgoing, numSelfSend, neededChangeAmount != 0, havePaymentTypeSelfSend)

	utils.Debugf("Carrot", "additional output for %d outgoing, %d self-send, change %d: %s", numOutgoing, numSelfSend, neededChangeAmount, proposal.Type)

	switch proposal.Type {
	case AdditionalOutputPaymentShared:
		proposal.SelfSend = &PaymentProposalSelfSendV1{
			DestinationSpendPub: changeSpendPub,
			Amount:              neededChangeAmount,
			EnoteType:           EnoteTypePayment,
		}
	case AdditionalOutputChangeShared, AdditionalOutputChangeUnique:
		proposal.SelfSend = &PaymentProposalSelfSendV1{
			DestinationSpendPub: changeSpendPub,
			Amount:              neededChangeAmount,
			EnoteType:           EnoteTypeChange,
		}
	case AdditionalOutputDummy:
		dummy, err := NewRandomPaymentProposal(r, 0, false, false)
		if err != nil {
			return proposal, err
		}
		proposal.Normal = &dummy
	}
	return proposal, nil
}

// PaymentProposalOrder where a finalized output came from: the Index of either the normal or the self-send proposals
type PaymentProposalOrder struct {
	IsSelfSend bool `json:"is_selfsend"`
	Index      int  `json:"index"`
}

func checkNormalProposalsRandomness(proposals []PaymentProposalV1) error {
	// assert anchor_norm != 0 for payments
	for i := range proposals {
		if proposals[i].Randomness == NullJanusAnchor {
			return ErrMissingRandomness
		}
	}

	// assert uniqueness of randomness for each payment
	for i := range proposals {
		for j := i + 1; j < len(proposals); j++ {
			if proposals[i].Randomness == proposals[j].Randomness {
				return ErrMissingRandomness
			}
		}
	}
	return nil
}

// sortPermutation indices of onetimeAddresses in ascending byte order
func sortPermutation(onetimeAddresses []curve25519.PublicKeyBytes) []int {
	permutation := make([]int, len(onetimeAddresses))
	for i := range permutation {
		permutation[i] = i
	}
	slices.SortStableFunc(permutation, func(a, b int) int {
		return bytes.Compare(onetimeAddresses[a][:], onetimeAddresses[b][:])
	})
	return permutation
}

// checkSortedOnetimeAddresses all Ko must be valid, torsion free and strictly ascending
func checkSortedOnetimeAddresses(onetimeAddresses []curve25519.PublicKeyBytes) error {
	for i := range onetimeAddresses {
		if curve25519.IsInvalidOrHasTorsion(onetimeAddresses[i]) {
			return ErrBadAddressPoints
		} else if i > 0 && bytes.Compare(onetimeAddresses[i-1][:], onetimeAddresses[i][:]) >= 0 {
			return ErrMissingRandomness
		}
	}
	return nil
}

func hasUniqueEphemeralPubs(ephemeralPubs []curve25519.MontgomeryPoint) bool {
	for i := range ephemeralPubs {
		for j := i + 1; j < len(ephemeralPubs); j++ {
			if ephemeralPubs[i] == ephemeralPubs[j] {
				return false
			}
		}
	}
	return true
}

// GetOutputEnoteProposals get_output_enote_proposals
// Builds every enote of a transaction, then sorts them by Ko. Self-sends are internal when viewBalanceDevice is set,
// special otherwise. The returned order maps each output back to the proposal it was made from.
func GetOutputEnoteProposals(normalProposals []PaymentProposalV1, selfSendProposals []PaymentProposalSelfSendV1, dummyEncryptedPaymentId *EncryptedPaymentId, viewBalanceDevice ViewBalanceSecretDevice, viewIncomingDevice ViewIncomingKeyDevice, firstKeyImage curve25519.PublicKeyBytes) (outputs []RCTOutputEnoteProposal, encryptedPaymentId EncryptedPaymentId, order []PaymentProposalOrder, err error) {
	// assert payment proposals numbers
	numProposals := len(normalProposals) + len(selfSendProposals)
	if numProposals < MinOutputSetSize || len(selfSendProposals) == 0 {
		return nil, encryptedPaymentId, nil, ErrWrongOutputNumber
	}

	// assert there is a max of 1 integrated address payment proposals
	var numIntegrated int
	for i := range normalProposals {
		if normalProposals[i].Destination.IsIntegrated() {
			numIntegrated++
		}
	}
	if numIntegrated > 1 {
		return nil, encryptedPaymentId, nil, ErrWrongAddressType
	}

	if err = checkNormalProposalsRandomness(normalProposals); err != nil {
		return nil, encryptedPaymentId, nil, err
	}

	outputs = make([]RCTOutputEnoteProposal, 0, numProposals)
	order = make([]PaymentProposalOrder, 0, numProposals)

	// D^other_e
	var otherEphemeralPub *curve25519.MontgomeryPoint

	// construct normal enotes
	for i := range normalProposals {
		output, pidEnc, err := normalProposals[i].GetNormalOutputProposal(firstKeyImage)
		if err != nil {
			return nil, encryptedPaymentId, nil, err
		}

		// if 1 normal and 1 self-send, set D^other_e equal to this D_e
		if numProposals == 2 {
			ephemeralPub := output.Enote.EphemeralPub
			otherEphemeralPub = &ephemeralPub
		}

		// pid_enc comes from the integrated address proposal
		if normalProposals[i].Destination.IsIntegrated() {
			encryptedPaymentId = pidEnc
		}

		outputs = append(outputs, output)
		order = append(order, PaymentProposalOrder{IsSelfSend: false, Index: i})
	}

	// with no integrated destination, pid_enc is the provided dummy
	if numIntegrated == 0 {
		if dummyEncryptedPaymentId == nil {
			return nil, encryptedPaymentId, nil, ErrMissingPaymentId
		}
		encryptedPaymentId = *dummyEncryptedPaymentId
	}

	// if 0 normal and 2 self-send, set D^other_e equal to whichever has a D_e
	if numProposals == 2 && len(selfSendProposals) == 2 {
		if selfSendProposals[0].EphemeralPub != nil {
			otherEphemeralPub = selfSendProposals[0].EphemeralPub
		} else {
			otherEphemeralPub = selfSendProposals[1].EphemeralPub
		}
	}

	// construct self-send enotes, preferring internal enotes over special enotes when possible
	for i := range selfSendProposals {
		var output RCTOutputEnoteProposal
		switch {
		case viewBalanceDevice != nil:
			output, err = selfSendProposals[i].GetInternalOutputProposal(viewBalanceDevice, firstKeyImage, otherEphemeralPub)
		case viewIncomingDevice != nil:
			output, err = selfSendProposals[i].GetSpecialOutputProposal(viewIncomingDevice, firstKeyImage, otherEphemeralPub)
		default:
			err = ErrDeviceError
		}
		if err != nil {
			return nil, encryptedPaymentId, nil, err
		}

		outputs = append(outputs, output)
		order = append(order, PaymentProposalOrder{IsSelfSend: true, Index: i})
	}

	// sort enotes by Ko
	onetimeAddresses := make([]curve25519.PublicKeyBytes, len(outputs))
	for i := range outputs {
		onetimeAddresses[i] = outputs[i].Enote.OnetimeAddress
	}
	permutation := sortPermutation(onetimeAddresses)
	ApplyPermutationBackwards(permutation, outputs)
	ApplyPermutationBackwards(permutation, order)
	ApplyPermutationBackwards(permutation, onetimeAddresses)

	// assert uniqueness of D_e if >2-out, shared otherwise
	ephemeralPubs := make([]curve25519.MontgomeryPoint, len(outputs))
	for i := range outputs {
		ephemeralPubs[i] = outputs[i].Enote.EphemeralPub
	}
	uniqueEphemeralPubs := hasUniqueEphemeralPubs(ephemeralPubs)
	if numProposals > 2 && !uniqueEphemeralPubs {
		return nil, encryptedPaymentId, nil, ErrMissingRandomness
	} else if numProposals == 2 && uniqueEphemeralPubs {
		return nil, encryptedPaymentId, nil, ErrMismatchedEnoteEphemeralPubkey
	}

	// assert uniqueness of Ko, all Ko lie in prime order subgroup, and Ko is sorted
	if err = checkSortedOnetimeAddresses(onetimeAddresses); err != nil {
		return nil, encryptedPaymentId, nil, err
	}

	// assert unique and non-trivial k_a
	for i := range outputs {
		if curve25519.ScalarIsZero(outputs[i].AmountBlindingFactor.Scalar()) {
			return nil, encryptedPaymentId, nil, ErrMissingRandomness
		}
		for j := i + 1; j < len(outputs); j++ {
			if outputs[i].AmountBlindingFactor.Scalar().Equal(outputs[j].AmountBlindingFactor.Scalar()) == 1 {
				return nil, encryptedPaymentId, nil, ErrMissingRandomness
			}
		}
	}

	utils.Debugf("Carrot", "finalized %d outputs (%d normal, %d self-send)", len(outputs), len(normalProposals), len(selfSendProposals))

	return outputs, encryptedPaymentId, order, nil
}

// GetCoinbaseOutputEnotes get_coinbase_output_enotes
// Only main addresses can be paid. The returned order holds the proposal index of each sorted enote.
func GetCoinbaseOutputEnotes(proposals []PaymentProposalV1, blockIndex uint64) (enotes []CoinbaseEnoteV1, order []int, err error) {
	if len(proposals) == 0 {
		return nil, nil, ErrWrongOutputNumber
	}

	// assert there are no subaddress or integrated address payment proposals
	for i := range proposals {
		if proposals[i].Destination.IsSubaddress || proposals[i].Destination.IsIntegrated() {
			return nil, nil, ErrWrongAddressType
		}
	}

	if err = checkNormalProposalsRandomness(proposals); err != nil {
		return nil, nil, err
	}

	enotes = make([]CoinbaseEnoteV1, len(proposals))
	for i := range proposals {
		if enotes[i], err = proposals[i].GetCoinbaseOutputProposal(blockIndex); err != nil {
			return nil, nil, err
		}
	}

	// assert uniqueness of D_e
	ephemeralPubs := make([]curve25519.MontgomeryPoint, len(enotes))
	for i := range enotes {
		ephemeralPubs[i] = enotes[i].EphemeralPub
	}
	if !hasUniqueEphemeralPubs(ephemeralPubs) {
		return nil, nil, ErrMissingRandomness
	}

	// sort enotes by Ko
	onetimeAddresses := make([]curve25519.PublicKeyBytes, len(enotes))
	for i := range enotes {
		onetimeAddresses[i] = enotes[i].OnetimeAddress
	}
	order = sortPermutation(onetimeAddresses)
	ApplyPermutationBackwards(order, enotes)
	ApplyPermutationBackwards(order, onetimeAddresses)

	// assert uniqueness of Ko, all Ko lie in prime order subgroup, and Ko is sorted
	if err = checkSortedOnetimeAddresses(onetimeAddresses); err != nil {
		return nil, nil, err
	}

	utils.Debugf("Carrot", "finalized %d coinbase outputs at block %d", len(enotes), blockIndex)

	return enotes, order, nil
}
