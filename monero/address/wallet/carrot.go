package wallet

import (
	"errors"
	"fmt"
	"sync"

	"git.gammaspectra.live/P2Pool/carrot/monero/address"
	"git.gammaspectra.live/P2Pool/carrot/monero/address/carrot"
	"git.gammaspectra.live/P2Pool/carrot/monero/crypto"
	"git.gammaspectra.live/P2Pool/carrot/monero/crypto/curve25519"
	"git.gammaspectra.live/P2Pool/carrot/utils"
	"github.com/dolthub/swiss"
	"github.com/floatdrop/lru"
	"lukechampine.com/uint128"
)

// DefaultScanCacheSize number of matches kept along with their opening material
const DefaultScanCacheSize = 4096

var (
	ErrInvalidPrimaryAddress = errors.New("address must be a main valid one")
	ErrMissingDevice         = errors.New("view incoming and generate address devices must be set")
	ErrViewKeyMismatch       = errors.New("view incoming key public must be equal to primary address pub key")
	ErrCannotDerive          = errors.New("cannot derive subaddress")
	ErrWrongAccount          = errors.New("account does not own this wallet")
	ErrCannotOpen            = errors.New("cannot open onetime address")
	ErrNoLegacyDevice        = errors.New("view incoming device cannot derive legacy subaddresses")
)

// Match an owned enote as recovered by the wallet
type Match struct {
	OnetimeAddress curve25519.PublicKeyBytes `json:"onetime_address"`
	AddressIndex   address.SubaddressIndex   `json:"address_index"`
	Scan           carrot.ScanResult         `json:"scan"`

	Coinbase bool `json:"coinbase"`
	// Internal set when matched via the view-balance secret
	Internal bool `json:"internal"`
	// Legacy set when received on a CryptoNote subaddress of the account
	Legacy bool `json:"legacy"`
}

// trackedIndex a spend key owner, legacy and Carrot subaddresses share index space
type trackedIndex struct {
	Index  address.SubaddressIndex
	Legacy bool
}

type CarrotViewWallet struct {
	primaryAddress *address.Address

	viewIncoming carrot.ViewIncomingKeyDevice
	// viewBalance can be nil, internal enotes are not matched then
	viewBalance     carrot.ViewBalanceSecretDevice
	generateAddress carrot.GenerateAddressSecretDevice

	// K_s
	accountSpendPub curve25519.PublicKeyBytes
	// K_v
	accountViewPub curve25519.PublicKeyBytes

	lock sync.Mutex

	// spendMap used to lookup spend keys to subaddress index
	spendMap *swiss.Map[curve25519.PublicKeyBytes, trackedIndex]
	// seen onetime addresses already tallied into balances
	seen     *swiss.Map[curve25519.PublicKeyBytes, address.SubaddressIndex]
	balances *swiss.Map[trackedIndex, uint128.Uint128]

	cache *lru.LRU[curve25519.PublicKeyBytes, *Match]
}

// NewCarrotViewWalletFromAccount Creates a view wallet over the devices of a, including internal enote scanning
func NewCarrotViewWalletFromAccount(a *carrot.Account, baseNetwork uint8, accountDepth, indexDepth, cacheSize int) (*CarrotViewWallet, error) {
	primaryAddress := a.Address(baseNetwork, address.ZeroSubaddressIndex)
	if primaryAddress == nil {
		return nil, ErrInvalidPrimaryAddress
	}
	return NewCarrotViewWallet(primaryAddress, a.ViewIncomingKeyDevice(), a.ViewBalanceSecretDevice(), a.GenerateAddressSecretDevice(), accountDepth, indexDepth, cacheSize)
}

// NewCarrotViewWallet Creates a new CarrotViewWallet with the specified account and index depth. The main address is always tracked
// viewBalance can be nil
func NewCarrotViewWallet(primaryAddress *address.Address, viewIncoming carrot.ViewIncomingKeyDevice, viewBalance carrot.ViewBalanceSecretDevice, generateAddress carrot.GenerateAddressSecretDevice, accountDepth, indexDepth, cacheSize int) (*CarrotViewWallet, error) {
	if primaryAddress == nil || primaryAddress.IsSubaddress() || primaryAddress.IsIntegrated() || primaryAddress.BaseNetwork() == 0 {
		return nil, ErrInvalidPrimaryAddress
	}

	if curve25519.DecodeCompressedPoint(new(curve25519.Point), *primaryAddress.SpendPublicKey()) == nil {
		return nil, ErrInvalidPrimaryAddress
	}

	if viewIncoming == nil || generateAddress == nil {
		return nil, ErrMissingDevice
	}

	// K^0_v = k_v G
	primaryViewPub, err := viewIncoming.ViewKeyScalarMultEd25519(crypto.GeneratorG.Bytes())
	if err != nil {
		return nil, err
	}
	if primaryViewPub != *primaryAddress.ViewPublicKey() {
		return nil, ErrViewKeyMismatch
	}

	// K_v = k_v K_s
	accountViewPub, err := viewIncoming.ViewKeyScalarMultEd25519(*primaryAddress.SpendPublicKey())
	if err != nil {
		return nil, err
	}

	if cacheSize <= 0 {
		cacheSize = DefaultScanCacheSize
	}

	w := &CarrotViewWallet{
		primaryAddress:  primaryAddress,
		viewIncoming:    viewIncoming,
		viewBalance:     viewBalance,
		generateAddress: generateAddress,
		accountSpendPub: *primaryAddress.SpendPublicKey(),
		accountViewPub:  accountViewPub,
		spendMap:        swiss.NewMap[curve25519.PublicKeyBytes, trackedIndex](uint32(max(1, (accountDepth+1)*(indexDepth+1)))),
		seen:            swiss.NewMap[curve25519.PublicKeyBytes, address.SubaddressIndex](64),
		balances:        swiss.NewMap[trackedIndex, uint128.Uint128](16),
		cache:           lru.New[curve25519.PublicKeyBytes, *Match](cacheSize),
	}

	w.spendMap.Put(w.accountSpendPub, trackedIndex{Index: address.ZeroSubaddressIndex})

	if accountDepth != 0 || indexDepth != 0 {
		for account := range accountDepth + 1 {
			for index := range indexDepth + 1 {
				if err := w.track(address.SubaddressIndex{Account: uint32(account), Offset: uint32(index)}); err != nil {
					return nil, err
				}
			}
		}
	}

	utils.Debugf("Wallet", "tracking %d spend keys for %s", w.spendMap.Count(), primaryAddress)

	return w, nil
}

// Track Adds the subaddress index to track map
func (w *CarrotViewWallet) Track(ix address.SubaddressIndex) error {
	w.lock.Lock()
	defer w.lock.Unlock()
	return w.track(ix)
}

func (w *CarrotViewWallet) track(ix address.SubaddressIndex) error {
	if ix.IsZero() {
		return nil
	}

	d := carrot.MakeSubaddress(w.accountSpendPub, w.accountViewPub, w.generateAddress, ix.Account, ix.Offset)
	if d == nil {
		return fmt.Errorf("%w %s", ErrCannotDerive, ix)
	}
	w.spendMap.Put(d.AddressSpendPub, trackedIndex{Index: ix})
	return nil
}

// TrackLegacy Adds the CryptoNote subaddress index of a mixed account to track map
// The view incoming device must implement carrot.LegacySubaddressDevice
func (w *CarrotViewWallet) TrackLegacy(ix address.SubaddressIndex) error {
	if ix.IsZero() {
		return nil
	}

	d := w.legacySubaddress(ix)
	if d == nil {
		if _, ok := w.viewIncoming.(carrot.LegacySubaddressDevice); !ok {
			return ErrNoLegacyDevice
		}
		return fmt.Errorf("%w %s", ErrCannotDerive, ix)
	}

	w.lock.Lock()
	defer w.lock.Unlock()
	w.spendMap.Put(d.AddressSpendPub, trackedIndex{Index: ix, Legacy: true})
	return nil
}

func (w *CarrotViewWallet) legacySubaddress(ix address.SubaddressIndex) *carrot.DestinationV1 {
	device, ok := w.viewIncoming.(carrot.LegacyViewIncomingKeyDevice)
	if !ok {
		return nil
	}
	return carrot.MakeLegacySubaddress(w.accountSpendPub, device, ix)
}

func (w *CarrotViewWallet) HasSpend(spendPub curve25519.PublicKeyBytes) (address.SubaddressIndex, bool) {
	w.lock.Lock()
	defer w.lock.Unlock()
	tracked, ok := w.spendMap.Get(spendPub)
	return tracked.Index, ok
}

// IsLegacySpend whether spendPub is a tracked CryptoNote subaddress spend key
func (w *CarrotViewWallet) IsLegacySpend(spendPub curve25519.PublicKeyBytes) bool {
	w.lock.Lock()
	defer w.lock.Unlock()
	tracked, ok := w.spendMap.Get(spendPub)
	return ok && tracked.Legacy
}

// Tracked number of spend keys in the lookup table, including the main address
func (w *CarrotViewWallet) Tracked() int {
	w.lock.Lock()
	defer w.lock.Unlock()
	return w.spendMap.Count()
}

func (w *CarrotViewWallet) Get(ix address.SubaddressIndex) *address.Address {
	if ix.IsZero() {
		return w.primaryAddress
	}

	d := carrot.MakeSubaddress(w.accountSpendPub, w.accountViewPub, w.generateAddress, ix.Account, ix.Offset)
	if d == nil {
		return nil
	}

	typeNetwork := address.SubaddressNetwork(w.primaryAddress.BaseNetwork())
	if typeNetwork == 0 {
		return nil
	}
	return address.FromRawAddress(typeNetwork, d.AddressSpendPub, d.AddressViewPub)
}

// GetLegacy CryptoNote subaddress of the account at ix, nil if the device cannot derive it
func (w *CarrotViewWallet) GetLegacy(ix address.SubaddressIndex) *address.Address {
	if ix.IsZero() {
		return w.primaryAddress
	}

	d := w.legacySubaddress(ix)
	if d == nil {
		return nil
	}

	typeNetwork := address.SubaddressNetwork(w.primaryAddress.BaseNetwork())
	if typeNetwork == 0 {
		return nil
	}
	return address.FromRawAddress(typeNetwork, d.AddressSpendPub, d.AddressViewPub)
}

func (w *CarrotViewWallet) MatchCarrot(enotes []carrot.EnoteV1, encryptedPaymentId *carrot.EncryptedPaymentId) (index int, scan *carrot.ScanResult, addressIndex address.SubaddressIndex) {
	mainSpendPubs := []curve25519.PublicKeyBytes{w.accountSpendPub}

	var ecdh receiverECDH
	defer ecdh.Wipe()

	for i := range enotes {
		enote := &enotes[i]

		if senderReceiverUnctx := ecdh.get(w.viewIncoming, enote.EphemeralPub); senderReceiverUnctx != nil {
			if result, ok := carrot.TryScanEnoteExternalReceiver(enote, encryptedPaymentId, senderReceiverUnctx, mainSpendPubs, w.viewIncoming); ok {
				if m, ok := w.record(enote.OnetimeAddress, result, false, false); ok {
					return i, &m.Scan, m.AddressIndex
				}
			}
		}

		if w.viewBalance != nil {
			if result, ok := carrot.TryScanEnoteInternalReceiver(enote, w.viewBalance); ok {
				if m, ok := w.record(enote.OnetimeAddress, result, false, true); ok {
					return i, &m.Scan, m.AddressIndex
				}
			}
		}
	}
	return -1, nil, address.ZeroSubaddressIndex
}

func (w *CarrotViewWallet) MatchCarrotCoinbase(enotes []carrot.CoinbaseEnoteV1) (index int, scan *carrot.ScanResult, addressIndex address.SubaddressIndex) {
	mainSpendPubs := []curve25519.PublicKeyBytes{w.accountSpendPub}

	var ecdh receiverECDH
	defer ecdh.Wipe()

	for i := range enotes {
		enote := &enotes[i]

		senderReceiverUnctx := ecdh.get(w.viewIncoming, enote.EphemeralPub)
		if senderReceiverUnctx == nil {
			continue
		}
		if result, ok := carrot.TryScanCoinbaseEnoteReceiver(enote, senderReceiverUnctx, mainSpendPubs); ok {
			if m, ok := w.record(enote.OnetimeAddress, result, true, false); ok {
				return i, &m.Scan, m.AddressIndex
			}
		}
	}
	return -1, nil, address.ZeroSubaddressIndex
}

// record resolves the recovered spend pubkey, tallies new matches and caches the result
func (w *CarrotViewWallet) record(onetimeAddress curve25519.PublicKeyBytes, result carrot.ScanResult, coinbase, internal bool) (Match, bool) {
	w.lock.Lock()
	defer w.lock.Unlock()

	tracked, ok := w.spendMap.Get(result.AddressSpendPub)
	if !ok {
		result.Wipe()
		return Match{}, false
	}

	m := Match{
		OnetimeAddress: onetimeAddress,
		AddressIndex:   tracked.Index,
		Scan:           result,
		Coinbase:       coinbase,
		Internal:       internal,
		Legacy:         tracked.Legacy,
	}

	if !w.seen.Has(onetimeAddress) {
		w.seen.Put(onetimeAddress, tracked.Index)
		balance, _ := w.balances.Get(tracked)
		w.balances.Put(tracked, balance.Add64(result.Amount))
		utils.Debugf("Wallet", "matched %s amount %s XMR at %s legacy %t", onetimeAddress, utils.XMRUnits(result.Amount), tracked.Index, tracked.Legacy)
	}

	if cached := w.cache.Get(onetimeAddress); cached != nil {
		return m, true
	}

	// the cache owns its own copy, wiped on eviction
	stored := m
	if evicted := w.cache.Set(onetimeAddress, &stored); evicted != nil && *evicted != &stored {
		utils.Debugf("Wallet", "evicted cached match %s", (*evicted).OnetimeAddress)
		(*evicted).Scan.Wipe()
	}

	return m, true
}

// Lookup returns the cached match for onetimeAddress, if still present
func (w *CarrotViewWallet) Lookup(onetimeAddress curve25519.PublicKeyBytes) (Match, bool) {
	w.lock.Lock()
	defer w.lock.Unlock()

	if m := w.cache.Get(onetimeAddress); m != nil {
		return **m, true
	}
	return Match{}, false
}

// Seen whether onetimeAddress was matched before, even if no longer cached
func (w *CarrotViewWallet) Seen(onetimeAddress curve25519.PublicKeyBytes) (address.SubaddressIndex, bool) {
	w.lock.Lock()
	defer w.lock.Unlock()
	return w.seen.Get(onetimeAddress)
}

// Balance sum of matched amounts sent to the Carrot address ix
func (w *CarrotViewWallet) Balance(ix address.SubaddressIndex) uint128.Uint128 {
	w.lock.Lock()
	defer w.lock.Unlock()

	balance, _ := w.balances.Get(trackedIndex{Index: ix})
	return balance
}

// LegacyBalance sum of matched amounts sent to the CryptoNote subaddress ix
func (w *CarrotViewWallet) LegacyBalance(ix address.SubaddressIndex) uint128.Uint128 {
	if ix.IsZero() {
		return w.Balance(ix)
	}

	w.lock.Lock()
	defer w.lock.Unlock()

	balance, _ := w.balances.Get(trackedIndex{Index: ix, Legacy: true})
	return balance
}

func (w *CarrotViewWallet) TotalBalance() (total uint128.Uint128) {
	w.lock.Lock()
	defer w.lock.Unlock()

	w.balances.Iter(func(_ trackedIndex, balance uint128.Uint128) (stop bool) {
		total = total.Add(balance)
		return false
	})
	return total
}

// Opening x, y such that x G + y T = K_o of a match. Needs the full account
func (w *CarrotViewWallet) Opening(a *carrot.Account, m *Match) (x, y curve25519.Scalar, err error) {
	if a.SpendPub != w.accountSpendPub {
		return x, y, ErrWrongAccount
	}

	if m.Legacy {
		x, y = a.LegacyOnetimeAddressOpening(m.AddressIndex, &m.Scan.ExtensionG, &m.Scan.ExtensionT)
	} else {
		x, y = a.OnetimeAddressOpening(m.AddressIndex, &m.Scan.ExtensionG, &m.Scan.ExtensionT)
	}
	if !carrot.CanOpenOnetimeAddress(&x, &y, m.OnetimeAddress) {
		x, y = curve25519.Scalar{}, curve25519.Scalar{}
		return x, y, ErrCannotOpen
	}
	return x, y, nil
}

// KeyImage L = x Hp(K_o) of a match
func (w *CarrotViewWallet) KeyImage(a *carrot.Account, m *Match) (curve25519.PublicKeyBytes, error) {
	if a.SpendPub != w.accountSpendPub {
		return curve25519.PublicKeyBytes{}, ErrWrongAccount
	}
	if m.Legacy {
		return a.LegacyKeyImage(m.AddressIndex, &m.Scan.ExtensionG, m.OnetimeAddress)
	}
	return a.KeyImage(m.AddressIndex, &m.Scan.ExtensionG, m.OnetimeAddress)
}

func (w *CarrotViewWallet) PrimaryAddress() *address.Address {
	return w.primaryAddress
}

// AccountViewPub K_v
func (w *CarrotViewWallet) AccountViewPub() curve25519.PublicKeyBytes {
	return w.accountViewPub
}

// receiverECDH memoizes s_sr for consecutive enotes sharing D_e
type receiverECDH struct {
	ephemeralPub        curve25519.MontgomeryPoint
	senderReceiverUnctx carrot.MontgomeryECDH
	ok                  bool
}

func (e *receiverECDH) get(viewIncoming carrot.ViewIncomingKeyDevice, ephemeralPub curve25519.MontgomeryPoint) *carrot.MontgomeryECDH {
	if e.ok && e.ephemeralPub == ephemeralPub {
		return &e.senderReceiverUnctx
	}

	senderReceiverUnctx, err := carrot.MakeUncontextualizedSharedKeyReceiver(viewIncoming, ephemeralPub)
	if err != nil {
		utils.Debugf("Wallet", "view incoming device: %s", err)
		e.Wipe()
		return nil
	}
	e.ephemeralPub, e.senderReceiverUnctx, e.ok = ephemeralPub, senderReceiverUnctx, true
	return &e.senderReceiverUnctx
}

func (e *receiverECDH) Wipe() {
	e.senderReceiverUnctx.Wipe()
	e.ok = false
}
