package carrot

import (
	"testing"

	"git.gammaspectra.live/P2Pool/carrot/monero/crypto"
	"git.gammaspectra.live/P2Pool/carrot/monero/crypto/curve25519"
	"git.gammaspectra.live/P2Pool/carrot/types"
	"github.com/tmthrgd/go-hex"
	"pgregory.net/rapid"
)

const testAmount = 23000000000000

var testAnchorNorm = types.MustBytesFromString[JanusAnchor]("caee1381775487a0982557f0d2680b55")
var testPaymentId = types.MustBytesFromString[PaymentId]("4321734f56621440")
var testInputContext = types.MustBytesFromString[InputContext]("9423f74f3e869dc8427d8b35bb24c917480409c3f4750bff3c742f8e4d5af7bef7")

// 2 G, any valid point works as a first key image
var testFirstKeyImage = types.MustBytes32FromString[curve25519.PublicKeyBytes]("c9a3f86aae465f0e56513864510f3997561fa2c9e85ea21dc2292309f3cd6022")

var testConvergeSpendPub = types.MustBytes32FromString[curve25519.PublicKeyBytes]("1ebcddd5d98e26788ed8d8510de7f520e973902238e107a070aad104e166b6a0")
var testConvergeViewPub = types.MustBytes32FromString[curve25519.PublicKeyBytes]("75b7bc7759da5d9ad5ff421650949b27a13ea369685eb4d1bd59abc518e25fe2")
var testConvergeEphemeralPrivateKey = types.MustBytes32FromString[curve25519.PrivateKeyBytes]("f57ff2d7c898b755137b69e8d826801945ed72e9951850de908e9d645a0bb00d")
var testConvergeEphemeralPub = types.MustBytes32FromString[curve25519.MontgomeryPoint]("d8b8ce01943edd05d7db66aeb15109c58ec270796f0c76c03d58a398926aca55")
var testConvergeSenderReceiverUnctx = MontgomeryECDH(types.MustBytes32FromString[curve25519.MontgomeryPoint]("baa47cfc380374b15cb5a3048099968962a66e287d78654c75b550d711e58451"))
var testConvergeSenderReceiverSecret = SenderReceiverSecret(types.MustHashFromString("232e62041ee1262cb3fce0d10fdbd018cca5b941ff92283676d6112aa426f76c"))
var testConvergeAmountCommitment = types.MustBytes32FromString[curve25519.PublicKeyBytes]("ca5f0fc2fe7a4fe628e6f08b2c0eb44f3af3b87e1619b2ed2de296f7e425512b")
var testConvergeOnetimeAddress = types.MustBytes32FromString[curve25519.PublicKeyBytes]("4c93cf2d7ff8556eac73025ab3019a0db220b56bdf0387e0524724cc0e409d92")

func TestConverge(t *testing.T) {
	t.Parallel()

	// tests from Carrot convergence testing
	// https://github.com/seraphis-migration/monero/pull/121

	t.Run("make_carrot_enote_ephemeral_privkey", func(t *testing.T) {
		expected := types.MustBytes32FromString[curve25519.PrivateKeyBytes]("6d4645a0e398ff430f68eaa78240dd2c04051e9a50438cd9c9c3c0e12af68b0b")
		result := MakeEnoteEphemeralPrivateKey(testAnchorNorm, testInputContext, testConvergeSpendPub, testPaymentId)
		if result.Bytes() != expected {
			t.Fatalf("expected: %s, got: %s", expected.String(), result.Bytes().String())
		}
	})

	t.Run("make_carrot_enote_ephemeral_pubkey_cryptonote", func(t *testing.T) {
		expected := types.MustBytes32FromString[curve25519.MontgomeryPoint]("2987777565c02409dfe871cc27b2334f5ade9d4ad014012c568367b80e99c666")
		ephemeralPrivateKey := EnoteEphemeralKey(*testConvergeEphemeralPrivateKey.Scalar())
		result := MakeEnoteEphemeralPubCryptonote(&ephemeralPrivateKey)
		if result != expected {
			t.Fatalf("expected: %s, got: %s", expected.String(), result.String())
		}
	})

	t.Run("make_carrot_enote_ephemeral_pubkey_subaddress", func(t *testing.T) {
		ephemeralPrivateKey := EnoteEphemeralKey(*testConvergeEphemeralPrivateKey.Scalar())
		result, ok := MakeEnoteEphemeralPubSubaddress(&ephemeralPrivateKey, testConvergeSpendPub)
		if !ok || result != testConvergeEphemeralPub {
			t.Fatalf("expected: %s, got: %s", testConvergeEphemeralPub.String(), result.String())
		}
	})

	t.Run("make_carrot_uncontextualized_shared_key_receiver", func(t *testing.T) {
		viewIncoming := ViewIncomingKey(*testViewIncoming.Scalar())
		result, err := MakeUncontextualizedSharedKeyReceiver(&viewIncoming, testConvergeEphemeralPub)
		if err != nil {
			t.Fatal(err)
		}
		if result != testConvergeSenderReceiverUnctx {
			t.Fatalf("expected: %x, got: %x", testConvergeSenderReceiverUnctx, result)
		}
	})

	t.Run("make_carrot_uncontextualized_shared_key_sender", func(t *testing.T) {
		ephemeralPrivateKey := EnoteEphemeralKey(*testConvergeEphemeralPrivateKey.Scalar())
		result, ok := MakeUncontextualizedSharedKeySender(&ephemeralPrivateKey, testConvergeViewPub)
		if !ok || result != testConvergeSenderReceiverUnctx {
			t.Fatalf("expected: %x, got: %x", testConvergeSenderReceiverUnctx, result)
		}
	})

	t.Run("make_carrot_sender_receiver_secret", func(t *testing.T) {
		result := MakeSenderReceiverSecret(testConvergeSenderReceiverUnctx[:], testConvergeEphemeralPub, testInputContext)
		if result != testConvergeSenderReceiverSecret {
			t.Fatalf("expected: %x, got: %x", testConvergeSenderReceiverSecret, result)
		}
	})

	t.Run("make_carrot_amount_blinding_factor_payment", func(t *testing.T) {
		expected := types.MustBytes32FromString[curve25519.PrivateKeyBytes]("9fc3581e926a844877479d829ff9deeae17ce77feaf2c3c972923510e04f1f02")
		result := MakeAmountBlindingFactor(&testConvergeSenderReceiverSecret, testAmount, testConvergeSpendPub, EnoteTypePayment)
		if result.Bytes() != expected {
			t.Fatalf("expected: %s, got: %s", expected.String(), result.Bytes().String())
		}
	})

	t.Run("make_carrot_amount_blinding_factor_change", func(t *testing.T) {
		expected := types.MustBytes32FromString[curve25519.PrivateKeyBytes]("dda34eac46030e4084f5a2c808d0a82ffaa82cbf01d4a74d7ee0d4fe72c31a0f")
		result := MakeAmountBlindingFactor(&testConvergeSenderReceiverSecret, testAmount, testConvergeSpendPub, EnoteTypeChange)
		if result.Bytes() != expected {
			t.Fatalf("expected: %s, got: %s", expected.String(), result.Bytes().String())
		}
	})

	t.Run("make_carrot_amount_commitment", func(t *testing.T) {
		amountBlindingFactor := AmountBlindingKey(*types.MustBytes32FromString[curve25519.PrivateKeyBytes]("9fc3581e926a844877479d829ff9deeae17ce77feaf2c3c972923510e04f1f02").Scalar())
		result := MakeAmountCommitment(testAmount, &amountBlindingFactor)
		if result != testConvergeAmountCommitment {
			t.Fatalf("expected: %s, got: %s", testConvergeAmountCommitment.String(), result.String())
		}
	})

	t.Run("make_carrot_onetime_address", func(t *testing.T) {
		result, ok := MakeOnetimeAddress(testConvergeSpendPub, &testConvergeSenderReceiverSecret, testConvergeAmountCommitment)
		if !ok || result != testConvergeOnetimeAddress {
			t.Fatalf("expected: %s, got: %s", testConvergeOnetimeAddress.String(), result.String())
		}
	})

	t.Run("recover_address_spend_pubkey", func(t *testing.T) {
		result, ok := RecoverAddressSpendPub(testConvergeOnetimeAddress, &testConvergeSenderReceiverSecret, testConvergeAmountCommitment)
		if !ok || result != testConvergeSpendPub {
			t.Fatalf("expected: %s, got: %s", testConvergeSpendPub.String(), result.String())
		}
	})

	t.Run("make_carrot_view_tag", func(t *testing.T) {
		expected := types.MustBytesFromString[ViewTag]("0176f6")
		result := MakeViewTag(testConvergeSenderReceiverUnctx[:], testInputContext, testConvergeOnetimeAddress)
		if result != expected {
			t.Fatalf("expected: %s, got: %s", expected.String(), result.String())
		}
		if !VerifyViewTag(testConvergeSenderReceiverUnctx[:], testInputContext, testConvergeOnetimeAddress, expected) {
			t.Fatal("view tag did not verify")
		}
		for i := range expected {
			flipped := expected
			flipped[i] ^= 0x01
			if VerifyViewTag(testConvergeSenderReceiverUnctx[:], testInputContext, testConvergeOnetimeAddress, flipped) {
				t.Fatalf("flipped view tag %s verified", flipped.String())
			}
		}
	})

	t.Run("make_carrot_anchor_encryption_mask", func(t *testing.T) {
		expected := hex.MustDecodeString("52d95a8e441f26a056f55094938cbfa8")
		result := makeAnchorEncryptionMask(&testConvergeSenderReceiverSecret, testConvergeOnetimeAddress)
		if string(result[:]) != string(expected) {
			t.Fatalf("expected: %x, got: %x", expected, result)
		}
	})

	t.Run("make_carrot_amount_encryption_mask", func(t *testing.T) {
		expected := hex.MustDecodeString("98d25d1db65b6a3e")
		result := makeAmountEncryptionMask(&testConvergeSenderReceiverSecret, testConvergeOnetimeAddress)
		if string(result[:]) != string(expected) {
			t.Fatalf("expected: %x, got: %x", expected, result)
		}
	})

	t.Run("make_carrot_payment_id_encryption_mask", func(t *testing.T) {
		expected := hex.MustDecodeString("b57a1560e82e2483")
		result := makePaymentIdEncryptionMask(&testConvergeSenderReceiverSecret, testConvergeOnetimeAddress)
		if string(result[:]) != string(expected) {
			t.Fatalf("expected: %x, got: %x", expected, result)
		}
	})

	t.Run("make_carrot_janus_anchor_special", func(t *testing.T) {
		expected := types.MustBytesFromString[JanusAnchor]("31afa8f580feaf736cd424ecc9ae5fd2")
		viewIncoming := ViewIncomingKey(*testViewIncoming.Scalar())
		result := MakeJanusAnchorSpecial(testConvergeEphemeralPub, testInputContext, testConvergeOnetimeAddress, &viewIncoming)
		if result != expected {
			t.Fatalf("expected: %s, got: %s", expected.String(), result.String())
		}
	})
}

func TestInputContext(t *testing.T) {
	t.Parallel()

	coinbase := MakeCoinbaseInputContext(123456)
	expected := types.MustBytesFromString[InputContext]("4340e2010000000000000000000000000000000000000000000000000000000000")
	if coinbase != expected {
		t.Fatalf("expected: %s, got: %s", expected.String(), coinbase.String())
	}

	ringct := MakeInputContext(testFirstKeyImage)
	if ringct[0] != 'R' || curve25519.PublicKeyBytes(ringct[1:]) != testFirstKeyImage {
		t.Fatalf("unexpected input context %s", ringct.String())
	}
}

func TestEncryption(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		var senderReceiverSecret SenderReceiverSecret
		copy(senderReceiverSecret[:], rapid.SliceOfN(rapid.Byte(), 32, 32).Draw(t, "s_sr"))
		var onetimeAddress curve25519.PublicKeyBytes
		copy(onetimeAddress[:], rapid.SliceOfN(rapid.Byte(), 32, 32).Draw(t, "Ko"))

		amount := rapid.Uint64().Draw(t, "amount")
		if got := EncryptAmount(amount, &senderReceiverSecret, onetimeAddress).Decrypt(&senderReceiverSecret, onetimeAddress); got != amount {
			t.Fatalf("amount: expected %d, got %d", amount, got)
		}

		var anchor JanusAnchor
		copy(anchor[:], rapid.SliceOfN(rapid.Byte(), 16, 16).Draw(t, "anchor"))
		if got := anchor.Encrypt(&senderReceiverSecret, onetimeAddress).Decrypt(&senderReceiverSecret, onetimeAddress); got != anchor {
			t.Fatalf("anchor: expected %s, got %s", anchor, got)
		}

		var paymentId PaymentId
		copy(paymentId[:], rapid.SliceOfN(rapid.Byte(), 8, 8).Draw(t, "pid"))
		if got := paymentId.Encrypt(&senderReceiverSecret, onetimeAddress).Decrypt(&senderReceiverSecret, onetimeAddress); got != paymentId {
			t.Fatalf("pid: expected %s, got %s", paymentId, got)
		}
	})
}

// TestECDHCompleteness sender and receiver agree on s_sr for any d_e and k_v, main address or subaddress
func TestECDHCompleteness(t *testing.T) {
	t.Parallel()

	a := NewAccount(testMasterSecret)
	defer a.Wipe()

	subaddress := a.SubaddressDestination(testSubaddressIndex)

	rapid.Check(t, func(t *rapid.T) {
		var buf [64]byte
		copy(buf[:], rapid.SliceOfN(rapid.Byte(), 64, 64).Draw(t, "d_e"))
		var ephemeralPrivateKey EnoteEphemeralKey
		curve25519.BytesToScalar64(ephemeralPrivateKey.Scalar(), buf)

		for _, d := range []*DestinationV1{subaddress, {AddressSpendPub: a.SpendPub, AddressViewPub: a.PrimaryViewPub}} {
			ephemeralPub, ok := MakeEnoteEphemeralPub(&ephemeralPrivateKey, d.AddressSpendPub, d.IsSubaddress)
			if !ok {
				t.Fatal("could not make D_e")
			}
			senderSide, ok := MakeUncontextualizedSharedKeySender(&ephemeralPrivateKey, d.AddressViewPub)
			if !ok {
				t.Fatal("could not make sender s_sr")
			}
			receiverSide, err := MakeUncontextualizedSharedKeyReceiver(a.ViewIncomingKeyDevice(), ephemeralPub)
			if err != nil {
				t.Fatal(err)
			}
			if senderSide != receiverSide {
				t.Fatalf("s_sr mismatch: sender %x, receiver %x", senderSide, receiverSide)
			}
		}
	})
}

// TestAmountTypeConfusion an amount commitment only opens under the enote type it was made with
func TestAmountTypeConfusion(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		var senderReceiverSecret SenderReceiverSecret
		copy(senderReceiverSecret[:], rapid.SliceOfN(rapid.Byte(), 32, 32).Draw(t, "s_ctx"))
		amount := rapid.Uint64().Draw(t, "amount")
		enoteType := EnoteType(rapid.IntRange(0, 1).Draw(t, "type"))

		amountBlindingFactor := MakeAmountBlindingFactor(&senderReceiverSecret, amount, testConvergeSpendPub, enoteType)
		amountCommitment := MakeAmountCommitment(amount, &amountBlindingFactor)
		onetimeAddress, ok := MakeOnetimeAddress(testConvergeSpendPub, &senderReceiverSecret, amountCommitment)
		if !ok {
			t.Fatal("could not make Ko")
		}
		encryptedAmount := EncryptAmount(amount, &senderReceiverSecret, onetimeAddress)

		gotAmount, gotAmountBlindingFactor, gotType, ok := TryGetAmount(&senderReceiverSecret, encryptedAmount, onetimeAddress, testConvergeSpendPub, amountCommitment)
		if !ok {
			t.Fatal("amount did not open")
		}
		if gotAmount != amount || gotType != enoteType || gotAmountBlindingFactor.Scalar().Equal(amountBlindingFactor.Scalar()) != 1 {
			t.Fatalf("expected (%d, %s), got (%d, %s)", amount, enoteType, gotAmount, gotType)
		}

		if _, ok = TryRecomputeAmountCommitment(&senderReceiverSecret, amount, testConvergeSpendPub, enoteType^1, amountCommitment); ok {
			t.Fatal("amount opened with the wrong enote type")
		}

		// a different spend pubkey does not open either
		if _, _, _, ok = TryGetAmount(&senderReceiverSecret, encryptedAmount, onetimeAddress, testSpendPub, amountCommitment); ok {
			t.Fatal("amount opened with the wrong spend pubkey")
		}
	})
}

func TestVerifyNormalJanusProtection(t *testing.T) {
	t.Parallel()

	ephemeralPrivateKey := MakeEnoteEphemeralPrivateKey(testAnchorNorm, testInputContext, testConvergeSpendPub, testPaymentId)
	ephemeralPub, ok := MakeEnoteEphemeralPub(&ephemeralPrivateKey, testConvergeSpendPub, true)
	if !ok {
		t.Fatal("could not make D_e")
	}

	if !VerifyNormalJanusProtection(testAnchorNorm, testInputContext, testConvergeSpendPub, true, testPaymentId, ephemeralPub) {
		t.Fatal("expected pass")
	}
	if VerifyNormalJanusProtection(testAnchorNorm, testInputContext, testConvergeSpendPub, false, testPaymentId, ephemeralPub) {
		t.Fatal("expected fail with wrong address type")
	}
	if VerifyNormalJanusProtection(testAnchorNorm, testInputContext, testConvergeSpendPub, true, NullPaymentId, ephemeralPub) {
		t.Fatal("expected fail with wrong payment id")
	}
	if VerifyNormalJanusProtection(testAnchorNorm, testInputContext, testSpendPub, true, testPaymentId, ephemeralPub) {
		t.Fatal("expected fail with wrong spend pubkey")
	}
	var otherAnchor JanusAnchor
	otherAnchor[0] = 1
	if VerifyNormalJanusProtection(otherAnchor, testInputContext, testConvergeSpendPub, true, testPaymentId, ephemeralPub) {
		t.Fatal("expected fail with wrong anchor")
	}
}

func TestTorsionedViewPub(t *testing.T) {
	t.Parallel()

	ephemeralPrivateKey := EnoteEphemeralKey(*testConvergeEphemeralPrivateKey.Scalar())
	source := testViewIncoming.Scalar()

	torsioned := crypto.EvilPointGenerator(source, crypto.EvilKindTorsion)
	if len(torsioned) == 0 {
		t.Fatal("no torsioned points")
	}

	for _, evil := range torsioned {
		if _, ok := MakeUncontextualizedSharedKeySender(&ephemeralPrivateKey, evil.Key); ok {
			t.Fatalf("expected torsioned K^j_v %s to be rejected", evil.Key.String())
		}

		p := PaymentProposalV1{
			Destination: MakeMainAddress(testConvergeSpendPub, evil.Key),
			Amount:      testAmount,
			Randomness:  testAnchorNorm,
		}
		if _, _, err := p.GetNormalOutputProposal(testFirstKeyImage); err != ErrBadAddressPoints {
			t.Fatalf("expected: %s, got: %v", ErrBadAddressPoints, err)
		}
	}

	// untorsioned points still work
	for _, evil := range crypto.EvilPointGenerator(source, crypto.EvilKindGenerator) {
		if _, ok := MakeUncontextualizedSharedKeySender(&ephemeralPrivateKey, evil.Key); !ok {
			t.Fatalf("expected K^j_v %s to be accepted", evil.Key.String())
		}
	}
}
