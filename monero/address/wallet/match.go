package wallet

import (
	"errors"

	"git.gammaspectra.live/P2Pool/carrot/monero/address"
	"git.gammaspectra.live/P2Pool/carrot/monero/address/carrot"
)

var (
	ErrMixedFirstKeyImage = errors.New("enotes of a transaction must share the first key image")
	ErrMixedBlockIndex    = errors.New("coinbase enotes must share the block index")
)

// MatchEnotes calls carrotMatch for every enote of one transaction owned by wallet
// index is relative to enotes
func MatchEnotes[ViewWallet ViewWalletInterface](
	wallet ViewWallet,
	carrotMatch func(index int, scan *carrot.ScanResult, ix address.SubaddressIndex),
	enotes []carrot.EnoteV1,
	encryptedPaymentId *carrot.EncryptedPaymentId,
) error {
	if len(enotes) == 0 || carrotMatch == nil {
		return nil
	}

	for i := range enotes[1:] {
		if enotes[i+1].FirstKeyImage != enotes[0].FirstKeyImage {
			return ErrMixedFirstKeyImage
		}
	}

	var i, offset int
	var scan *carrot.ScanResult
	var ix address.SubaddressIndex
	for i != -1 && offset < len(enotes) {
		i, scan, ix = wallet.MatchCarrot(enotes[offset:], encryptedPaymentId)
		if i != -1 {
			carrotMatch(offset+i, scan, ix)
			offset += i + 1
		}
	}
	return nil
}

// MatchCoinbaseEnotes calls carrotMatch for every coinbase enote of one block owned by wallet
// index is relative to enotes
func MatchCoinbaseEnotes[ViewWallet ViewWalletInterface](
	wallet ViewWallet,
	carrotMatch func(index int, scan *carrot.ScanResult, ix address.SubaddressIndex),
	enotes []carrot.CoinbaseEnoteV1,
) error {
	if len(enotes) == 0 || carrotMatch == nil {
		return nil
	}

	for i := range enotes[1:] {
		if enotes[i+1].BlockIndex != enotes[0].BlockIndex {
			return ErrMixedBlockIndex
		}
	}

	var i, offset int
	var scan *carrot.ScanResult
	var ix address.SubaddressIndex
	for i != -1 && offset < len(enotes) {
		i, scan, ix = wallet.MatchCarrotCoinbase(enotes[offset:])
		if i != -1 {
			carrotMatch(offset+i, scan, ix)
			offset += i + 1
		}
	}
	return nil
}
