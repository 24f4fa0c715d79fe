package carrot

import (
	"bytes"
	"crypto/rand"
	"testing"

	"git.gammaspectra.live/P2Pool/carrot/monero/crypto/curve25519"
	"github.com/sclevine/spec"
	"github.com/sclevine/spec/report"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestGetAdditionalOutputType(t *testing.T) {
	t.Parallel()

	type vector struct {
		NumOutgoing             int
		NumSelfSend             int
		NeedChange              bool
		HavePaymentTypeSelfSend bool
		Expected                AdditionalOutputType
	}

	vectors := []vector{
		{1, 0, false, false, AdditionalOutputChangeShared},
		{1, 0, true, false, AdditionalOutputChangeShared},
		{0, 1, false, false, AdditionalOutputDummy},
		{0, 1, false, true, AdditionalOutputDummy},
		{0, 1, true, false, AdditionalOutputPaymentShared},
		{0, 1, true, true, AdditionalOutputChangeShared},
		{1, 1, false, false, AdditionalOutputNone},
		{0, 2, false, true, AdditionalOutputNone},
		{1, 1, true, false, AdditionalOutputChangeUnique},
		{2, 0, false, false, AdditionalOutputChangeUnique},
		{2, 0, true, false, AdditionalOutputChangeUnique},
		{5, 3, true, true, AdditionalOutputChangeUnique},
		{5, 3, false, true, AdditionalOutputNone},
	}

	for _, v := range vectors {
		result := GetAdditionalOutputType(v.NumOutgoing, v.NumSelfSend, v.NeedChange, v.HavePaymentTypeSelfSend)
		if result != v.Expected {
			t.Fatalf("%+v: expected: %s, got: %s", v, v.Expected, result)
		}
	}
}

func TestGetAdditionalOutputProposal(t *testing.T) {
	t.Parallel()

	proposal, err := GetAdditionalOutputProposal(1, 0, 500, false, testSpendPub, rand.Reader)
	require.NoError(t, err)
	require.Equal(t, AdditionalOutputChangeShared, proposal.Type)
	require.Nil(t, proposal.Normal)
	require.Equal(t, PaymentProposalSelfSendV1{DestinationSpendPub: testSpendPub, Amount: 500, EnoteType: EnoteTypeChange}, *proposal.SelfSend)

	proposal, err = GetAdditionalOutputProposal(0, 1, 500, false, testSpendPub, rand.Reader)
	require.NoError(t, err)
	require.Equal(t, AdditionalOutputPaymentShared, proposal.Type)
	require.Equal(t, EnoteTypePayment, proposal.SelfSend.EnoteType)

	proposal, err = GetAdditionalOutputProposal(0, 1, 0, false, testSpendPub, rand.Reader)
	require.NoError(t, err)
	require.Equal(t, AdditionalOutputDummy, proposal.Type)
	require.Nil(t, proposal.SelfSend)
	require.NotNil(t, proposal.Normal)
	require.Zero(t, proposal.Normal.Amount)
	require.NotEqual(t, NullJanusAnchor, proposal.Normal.Randomness)
	require.False(t, proposal.Normal.Destination.IsSubaddress)
	require.False(t, proposal.Normal.Destination.IsIntegrated())

	proposal, err = GetAdditionalOutputProposal(1, 1, 0, false, testSpendPub, rand.Reader)
	require.NoError(t, err)
	require.Equal(t, AdditionalOutputNone, proposal.Type)
	require.Nil(t, proposal.Normal)
	require.Nil(t, proposal.SelfSend)

	// dummy outputs need entropy
	_, err = GetAdditionalOutputProposal(0, 1, 0, false, testSpendPub, bytes.NewReader(nil))
	require.Error(t, err)
}

func randomEphemeralPub(t require.TestingT) *curve25519.MontgomeryPoint {
	p, err := NewRandomPaymentProposal(rand.Reader, 0, false, false)
	require.NoError(t, err)
	ephemeralPub, err := p.EphemeralPub(MakeInputContext(testFirstKeyImage))
	require.NoError(t, err)
	return &ephemeralPub
}

func randomNormalProposal(t require.TestingT, amount uint64, isSubaddress, isIntegrated bool) PaymentProposalV1 {
	p, err := NewRandomPaymentProposal(rand.Reader, amount, isSubaddress, isIntegrated)
	require.NoError(t, err)
	return p
}

// checkOutputSet verifies sorting, D_e sharing and that order maps each output back to its proposal
func checkOutputSet(t require.TestingT, outputs []RCTOutputEnoteProposal, order []PaymentProposalOrder, normal []PaymentProposalV1, selfSend []PaymentProposalSelfSendV1) {
	numProposals := len(normal) + len(selfSend)
	require.Len(t, outputs, numProposals)
	require.Len(t, order, numProposals)

	for i := 1; i < len(outputs); i++ {
		require.Negative(t, bytes.Compare(outputs[i-1].Enote.OnetimeAddress[:], outputs[i].Enote.OnetimeAddress[:]))
	}

	ephemeralPubs := make([]curve25519.MontgomeryPoint, len(outputs))
	for i := range outputs {
		ephemeralPubs[i] = outputs[i].Enote.EphemeralPub
		require.Equal(t, testFirstKeyImage, outputs[i].Enote.FirstKeyImage)
	}
	if numProposals == 2 {
		require.Equal(t, ephemeralPubs[0], ephemeralPubs[1])
	} else {
		require.True(t, hasUniqueEphemeralPubs(ephemeralPubs))
	}

	seenNormal := make(map[int]bool)
	seenSelfSend := make(map[int]bool)
	for i, o := range order {
		if o.IsSelfSend {
			require.False(t, seenSelfSend[o.Index])
			seenSelfSend[o.Index] = true
			require.Equal(t, selfSend[o.Index].Amount, outputs[i].Amount)
		} else {
			require.False(t, seenNormal[o.Index])
			seenNormal[o.Index] = true
			require.Equal(t, normal[o.Index].Amount, outputs[i].Amount)

			expected, _, err := normal[o.Index].GetNormalOutputProposal(testFirstKeyImage)
			require.NoError(t, err)
			require.Equal(t, expected.Enote, outputs[i].Enote)
		}
	}
	require.Len(t, seenNormal, len(normal))
	require.Len(t, seenSelfSend, len(selfSend))
}

func TestGetOutputEnoteProposals(t *testing.T) {
	a := NewAccount(testMasterSecret)
	t.Cleanup(a.Wipe)

	dummyEncryptedPaymentId := EncryptedPaymentId{0xde, 0xad, 0xbe, 0xef}

	spec.Run(t, "GetOutputEnoteProposals", func(t *testing.T, when spec.G, it spec.S) {
		when("finalizing a 2-out set", func() {
			it("shares D_e with an internal self-send", func() {
				normal := []PaymentProposalV1{randomNormalProposal(t, 100, true, false)}
				selfSend := []PaymentProposalSelfSendV1{{DestinationSpendPub: a.SpendPub, Amount: 200, EnoteType: EnoteTypeChange}}

				outputs, encryptedPaymentId, order, err := GetOutputEnoteProposals(normal, selfSend, &dummyEncryptedPaymentId, a.ViewBalanceSecretDevice(), nil, testFirstKeyImage)
				require.NoError(t, err)
				require.Equal(t, dummyEncryptedPaymentId, encryptedPaymentId)
				checkOutputSet(t, outputs, order, normal, selfSend)

				for i, o := range order {
					if o.IsSelfSend {
						result, ok := TryScanEnoteInternalReceiver(&outputs[i].Enote, a.ViewBalanceSecretDevice())
						require.True(t, ok)
						require.Equal(t, uint64(200), result.Amount)
						require.Equal(t, EnoteTypeChange, result.EnoteType)
					}
				}
			})

			it("shares D_e with a special self-send", func() {
				normal := []PaymentProposalV1{randomNormalProposal(t, 100, false, false)}
				selfSend := []PaymentProposalSelfSendV1{{DestinationSpendPub: a.SpendPub, Amount: 200, EnoteType: EnoteTypeChange}}

				outputs, _, order, err := GetOutputEnoteProposals(normal, selfSend, &dummyEncryptedPaymentId, nil, a.ViewIncomingKeyDevice(), testFirstKeyImage)
				require.NoError(t, err)
				checkOutputSet(t, outputs, order, normal, selfSend)

				for i, o := range order {
					if o.IsSelfSend {
						senderReceiverUnctx, err := MakeUncontextualizedSharedKeyReceiver(a.ViewIncomingKeyDevice(), outputs[i].Enote.EphemeralPub)
						require.NoError(t, err)
						result, ok := TryScanEnoteExternalReceiver(&outputs[i].Enote, nil, &senderReceiverUnctx, []curve25519.PublicKeyBytes{a.SpendPub}, a.ViewIncomingKeyDevice())
						require.True(t, ok)
						require.Equal(t, uint64(200), result.Amount)
					}
				}
			})

			it("takes pid_enc from the integrated destination", func() {
				normal := []PaymentProposalV1{{Destination: a.IntegratedDestination(testPaymentId), Amount: 100, Randomness: testAnchorNorm}}
				selfSend := []PaymentProposalSelfSendV1{{DestinationSpendPub: a.SpendPub, Amount: 200, EnoteType: EnoteTypeChange}}

				outputs, encryptedPaymentId, order, err := GetOutputEnoteProposals(normal, selfSend, nil, a.ViewBalanceSecretDevice(), nil, testFirstKeyImage)
				require.NoError(t, err)
				checkOutputSet(t, outputs, order, normal, selfSend)

				_, expected, err := normal[0].GetNormalOutputProposal(testFirstKeyImage)
				require.NoError(t, err)
				require.Equal(t, expected, encryptedPaymentId)
			})

			it("shares D_e between two self-sends", func() {
				selfSend := []PaymentProposalSelfSendV1{
					{DestinationSpendPub: a.SpendPub, Amount: 100, EnoteType: EnoteTypePayment},
					{DestinationSpendPub: a.SpendPub, Amount: 200, EnoteType: EnoteTypeChange, EphemeralPub: randomEphemeralPub(t)},
				}

				outputs, _, order, err := GetOutputEnoteProposals(nil, selfSend, &dummyEncryptedPaymentId, a.ViewBalanceSecretDevice(), nil, testFirstKeyImage)
				require.NoError(t, err)
				checkOutputSet(t, outputs, order, nil, selfSend)
				require.Equal(t, *selfSend[1].EphemeralPub, outputs[0].Enote.EphemeralPub)
			})

			it("fails with a conflicting self-send D_e", func() {
				normal := []PaymentProposalV1{randomNormalProposal(t, 100, false, false)}
				selfSend := []PaymentProposalSelfSendV1{{DestinationSpendPub: a.SpendPub, Amount: 200, EnoteType: EnoteTypeChange, EphemeralPub: randomEphemeralPub(t)}}

				_, _, _, err := GetOutputEnoteProposals(normal, selfSend, &dummyEncryptedPaymentId, a.ViewBalanceSecretDevice(), nil, testFirstKeyImage)
				require.ErrorIs(t, err, ErrMismatchedEnoteEphemeralPubkey)
			})
		})

		when("finalizing a set with more than 2 outputs", func() {
			it("makes unique D_e", func() {
				normal := []PaymentProposalV1{
					randomNormalProposal(t, 100, false, false),
					randomNormalProposal(t, 101, true, false),
					randomNormalProposal(t, 102, false, true),
				}
				selfSend := []PaymentProposalSelfSendV1{{DestinationSpendPub: a.SpendPub, Amount: 200, EnoteType: EnoteTypeChange, EphemeralPub: randomEphemeralPub(t)}}

				outputs, _, order, err := GetOutputEnoteProposals(normal, selfSend, nil, a.ViewBalanceSecretDevice(), nil, testFirstKeyImage)
				require.NoError(t, err)
				checkOutputSet(t, outputs, order, normal, selfSend)
			})

			it("requires a D_e for each self-send", func() {
				normal := []PaymentProposalV1{
					randomNormalProposal(t, 100, false, false),
					randomNormalProposal(t, 101, false, false),
				}
				selfSend := []PaymentProposalSelfSendV1{{DestinationSpendPub: a.SpendPub, Amount: 200, EnoteType: EnoteTypeChange}}

				_, _, _, err := GetOutputEnoteProposals(normal, selfSend, &dummyEncryptedPaymentId, a.ViewBalanceSecretDevice(), nil, testFirstKeyImage)
				require.ErrorIs(t, err, ErrMissingEnoteEphemeralPubkey)
			})

			it("rejects shared D_e", func() {
				ephemeralPub := randomEphemeralPub(t)
				normal := []PaymentProposalV1{randomNormalProposal(t, 100, false, false)}
				selfSend := []PaymentProposalSelfSendV1{
					{DestinationSpendPub: a.SpendPub, Amount: 200, EnoteType: EnoteTypeChange, EphemeralPub: ephemeralPub},
					{DestinationSpendPub: a.SpendPub, Amount: 201, EnoteType: EnoteTypePayment, EphemeralPub: ephemeralPub},
				}

				_, _, _, err := GetOutputEnoteProposals(normal, selfSend, &dummyEncryptedPaymentId, a.ViewBalanceSecretDevice(), nil, testFirstKeyImage)
				require.ErrorIs(t, err, ErrMissingRandomness)
			})
		})

		when("the proposals are invalid", func() {
			selfSend := []PaymentProposalSelfSendV1{{DestinationSpendPub: a.SpendPub, Amount: 200, EnoteType: EnoteTypeChange}}

			it("fails with too few outputs", func() {
				_, _, _, err := GetOutputEnoteProposals(nil, selfSend, &dummyEncryptedPaymentId, a.ViewBalanceSecretDevice(), nil, testFirstKeyImage)
				require.ErrorIs(t, err, ErrWrongOutputNumber)
			})

			it("fails without self-sends", func() {
				normal := []PaymentProposalV1{randomNormalProposal(t, 100, false, false), randomNormalProposal(t, 101, false, false)}
				_, _, _, err := GetOutputEnoteProposals(normal, nil, &dummyEncryptedPaymentId, a.ViewBalanceSecretDevice(), nil, testFirstKeyImage)
				require.ErrorIs(t, err, ErrWrongOutputNumber)
			})

			it("fails with two integrated destinations", func() {
				normal := []PaymentProposalV1{randomNormalProposal(t, 100, false, true), randomNormalProposal(t, 101, false, true)}
				_, _, _, err := GetOutputEnoteProposals(normal, selfSend, nil, a.ViewBalanceSecretDevice(), nil, testFirstKeyImage)
				require.ErrorIs(t, err, ErrWrongAddressType)
			})

			it("fails without a dummy pid_enc", func() {
				normal := []PaymentProposalV1{randomNormalProposal(t, 100, false, false)}
				_, _, _, err := GetOutputEnoteProposals(normal, selfSend, nil, a.ViewBalanceSecretDevice(), nil, testFirstKeyImage)
				require.ErrorIs(t, err, ErrMissingPaymentId)
			})

			it("fails with reused randomness", func() {
				first := randomNormalProposal(t, 100, false, false)
				second := randomNormalProposal(t, 101, false, false)
				second.Randomness = first.Randomness
				_, _, _, err := GetOutputEnoteProposals([]PaymentProposalV1{first, second}, selfSend, &dummyEncryptedPaymentId, a.ViewBalanceSecretDevice(), nil, testFirstKeyImage)
				require.ErrorIs(t, err, ErrMissingRandomness)
			})

			it("fails with missing randomness", func() {
				normal := []PaymentProposalV1{randomNormalProposal(t, 100, false, false)}
				normal[0].Randomness = NullJanusAnchor
				_, _, _, err := GetOutputEnoteProposals(normal, selfSend, &dummyEncryptedPaymentId, a.ViewBalanceSecretDevice(), nil, testFirstKeyImage)
				require.ErrorIs(t, err, ErrMissingRandomness)
			})

			it("fails without any device", func() {
				normal := []PaymentProposalV1{randomNormalProposal(t, 100, false, false)}
				_, _, _, err := GetOutputEnoteProposals(normal, selfSend, &dummyEncryptedPaymentId, nil, nil, testFirstKeyImage)
				require.ErrorIs(t, err, ErrDeviceError)
			})

			it("fails with a locked device", func() {
				normal := []PaymentProposalV1{randomNormalProposal(t, 100, false, false)}
				_, _, _, err := GetOutputEnoteProposals(normal, selfSend, &dummyEncryptedPaymentId, LockedDevice{Kind: DeviceNotConnected}, nil, testFirstKeyImage)
				require.ErrorIs(t, err, ErrDeviceError)
			})
		})
	}, spec.Report(report.Terminal{}), spec.Parallel(), spec.Random())
}

func TestGetOutputEnoteProposalsProperty(t *testing.T) {
	t.Parallel()

	a := NewAccount(testMasterSecret)
	defer a.Wipe()

	dummyEncryptedPaymentId := EncryptedPaymentId{1, 2, 3, 4, 5, 6, 7, 8}

	rapid.Check(t, func(t *rapid.T) {
		numNormal := rapid.IntRange(0, 4).Draw(t, "numNormal")
		numSelfSend := rapid.IntRange(max(1, MinOutputSetSize-numNormal), 3).Draw(t, "numSelfSend")
		numProposals := numNormal + numSelfSend

		normal := make([]PaymentProposalV1, numNormal)
		for i := range normal {
			normal[i] = randomNormalProposal(t, rapid.Uint64().Draw(t, "amount"), rapid.Bool().Draw(t, "isSubaddress"), false)
		}

		selfSend := make([]PaymentProposalSelfSendV1, numSelfSend)
		for i := range selfSend {
			selfSend[i] = PaymentProposalSelfSendV1{
				DestinationSpendPub: a.SpendPub,
				// self-sends to the same K_s sharing D_e must differ in amount
				Amount:              rapid.Uint64Range(0, 1<<60).Draw(t, "amount")*4 + uint64(i),
				EnoteType:           EnoteType(rapid.IntRange(0, 1).Draw(t, "enoteType")),
			}
			if numProposals > 2 || (numNormal == 0 && i == 0) {
				selfSend[i].EphemeralPub = randomEphemeralPub(t)
			}
		}

		outputs, encryptedPaymentId, order, err := GetOutputEnoteProposals(normal, selfSend, &dummyEncryptedPaymentId, a.ViewBalanceSecretDevice(), nil, testFirstKeyImage)
		if err != nil {
			t.Fatal(err)
		}
		if encryptedPaymentId != dummyEncryptedPaymentId {
			t.Fatalf("expected: %s, got: %s", dummyEncryptedPaymentId, encryptedPaymentId)
		}
		checkOutputSet(t, outputs, order, normal, selfSend)
	})
}

func TestGetCoinbaseOutputEnotes(t *testing.T) {
	t.Parallel()

	proposals := make([]PaymentProposalV1, 5)
	for i := range proposals {
		proposals[i] = randomNormalProposal(t, uint64(i+1)*1000, false, false)
	}

	enotes, order, err := GetCoinbaseOutputEnotes(proposals, testBlockIndex)
	require.NoError(t, err)
	require.Len(t, enotes, len(proposals))
	require.Len(t, order, len(proposals))

	for i := range enotes {
		if i > 0 {
			require.Negative(t, bytes.Compare(enotes[i-1].OnetimeAddress[:], enotes[i].OnetimeAddress[:]))
		}
		expected, err := proposals[order[i]].GetCoinbaseOutputProposal(testBlockIndex)
		require.NoError(t, err)
		require.Equal(t, expected, enotes[i])
		require.Equal(t, uint64(testBlockIndex), enotes[i].BlockIndex)
	}

	t.Run("empty", func(t *testing.T) {
		_, _, err := GetCoinbaseOutputEnotes(nil, testBlockIndex)
		require.ErrorIs(t, err, ErrWrongOutputNumber)
	})

	t.Run("subaddress", func(t *testing.T) {
		_, _, err := GetCoinbaseOutputEnotes([]PaymentProposalV1{proposals[0], randomNormalProposal(t, 1, true, false)}, testBlockIndex)
		require.ErrorIs(t, err, ErrWrongAddressType)
	})

	t.Run("integrated", func(t *testing.T) {
		_, _, err := GetCoinbaseOutputEnotes([]PaymentProposalV1{randomNormalProposal(t, 1, false, true)}, testBlockIndex)
		require.ErrorIs(t, err, ErrWrongAddressType)
	})

	t.Run("reused randomness", func(t *testing.T) {
		other := randomNormalProposal(t, 1, false, false)
		other.Randomness = proposals[0].Randomness
		_, _, err := GetCoinbaseOutputEnotes([]PaymentProposalV1{proposals[0], other}, testBlockIndex)
		require.ErrorIs(t, err, ErrMissingRandomness)
	})
}
