package wallet

import (
	"git.gammaspectra.live/P2Pool/carrot/monero/address"
	"git.gammaspectra.live/P2Pool/carrot/monero/address/carrot"
	"git.gammaspectra.live/P2Pool/carrot/monero/crypto/curve25519"
)

type ViewWalletInterface interface {
	Get(ix address.SubaddressIndex) *address.Address
	Track(ix address.SubaddressIndex) error
	HasSpend(spendPub curve25519.PublicKeyBytes) (address.SubaddressIndex, bool)

	// MatchCarrot returns the index within enotes of the first owned enote, or -1
	MatchCarrot(enotes []carrot.EnoteV1, encryptedPaymentId *carrot.EncryptedPaymentId) (index int, scan *carrot.ScanResult, addressIndex address.SubaddressIndex)
	// MatchCarrotCoinbase returns the index within enotes of the first owned enote, or -1
	MatchCarrotCoinbase(enotes []carrot.CoinbaseEnoteV1) (index int, scan *carrot.ScanResult, addressIndex address.SubaddressIndex)
}

var _ ViewWalletInterface = (*CarrotViewWallet)(nil)
