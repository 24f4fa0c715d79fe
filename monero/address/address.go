package address

import (
	"bytes"
	"errors"

	"git.gammaspectra.live/P2Pool/carrot/monero"
	"git.gammaspectra.live/P2Pool/carrot/monero/crypto"
	"git.gammaspectra.live/P2Pool/carrot/monero/crypto/curve25519"
	base58 "git.gammaspectra.live/P2Pool/monero-base58"
)

type Address struct {
	SpendPub    curve25519.PublicKeyBytes
	ViewPub     curve25519.PublicKeyBytes
	TypeNetwork uint8
	// PaymentId set only on integrated addresses
	PaymentId   [monero.PaymentIdSize]byte
	hasChecksum bool
	checksum    Checksum
}

const ChecksumLength = 4

// raw address sizes, network byte + keys (+ payment id) + checksum
const (
	rawAddressLength           = 1 + curve25519.PublicKeySize*2 + ChecksumLength
	rawIntegratedAddressLength = rawAddressLength + monero.PaymentIdSize
)

type Checksum [ChecksumLength]byte

var (
	ErrInvalidAddress  = errors.New("invalid address")
	ErrInvalidChecksum = errors.New("invalid address checksum")
)

func (a *Address) Compare(b Interface) int {
	if r := bytes.Compare(a.SpendPub[:], b.SpendPublicKey()[:]); r != 0 {
		return r
	}
	return bytes.Compare(a.ViewPub[:], b.ViewPublicKey()[:])
}

func (a *Address) SpendPublicKey() *curve25519.PublicKeyBytes {
	return &a.SpendPub
}

func (a *Address) ViewPublicKey() *curve25519.PublicKeyBytes {
	return &a.ViewPub
}

func (a *Address) ToAddress(network uint8, err ...error) *Address {
	if a.TypeNetwork != network || (len(err) > 0 && err[0] != nil) {
		return nil
	}
	return a
}

func (a *Address) BaseNetwork() uint8 {
	return BaseNetwork(a.TypeNetwork)
}

// BaseNetwork maps any address type network byte to its standard address network byte, 0 if unknown
func BaseNetwork(typeNetwork uint8) uint8 {
	switch typeNetwork {
	case monero.MainNetwork, monero.IntegratedMainNetwork, monero.SubAddressMainNetwork:
		return monero.MainNetwork
	case monero.TestNetwork, monero.IntegratedTestNetwork, monero.SubAddressTestNetwork:
		return monero.TestNetwork
	case monero.StageNetwork, monero.IntegratedStageNetwork, monero.SubAddressStageNetwork:
		return monero.StageNetwork
	default:
		return 0
	}
}

// SubaddressNetwork network byte of subaddresses on baseNetwork
func SubaddressNetwork(baseNetwork uint8) uint8 {
	switch baseNetwork {
	case monero.MainNetwork:
		return monero.SubAddressMainNetwork
	case monero.TestNetwork:
		return monero.SubAddressTestNetwork
	case monero.StageNetwork:
		return monero.SubAddressStageNetwork
	default:
		return 0
	}
}

// IntegratedNetwork network byte of integrated addresses on baseNetwork
func IntegratedNetwork(baseNetwork uint8) uint8 {
	switch baseNetwork {
	case monero.MainNetwork:
		return monero.IntegratedMainNetwork
	case monero.TestNetwork:
		return monero.IntegratedTestNetwork
	case monero.StageNetwork:
		return monero.IntegratedStageNetwork
	default:
		return 0
	}
}

func (a *Address) IsSubaddress() bool {
	return a.TypeNetwork == monero.SubAddressMainNetwork || a.TypeNetwork == monero.SubAddressTestNetwork || a.TypeNetwork == monero.SubAddressStageNetwork
}

func (a *Address) IsIntegrated() bool {
	return a.TypeNetwork == monero.IntegratedMainNetwork || a.TypeNetwork == monero.IntegratedTestNetwork || a.TypeNetwork == monero.IntegratedStageNetwork
}

func FromBase58(address string) *Address {
	a, err := decodeBase58([]byte(address), true)
	if err != nil {
		return nil
	}
	return a
}

func FromBase58NoChecksumCheck(address []byte) *Address {
	a, err := decodeBase58(address, false)
	if err != nil {
		return nil
	}
	return a
}

func decodeBase58(address []byte, verifyChecksum bool) (*Address, error) {
	preAllocatedBuf := make([]byte, 0, rawIntegratedAddressLength)
	raw := base58.DecodeMoneroBase58PreAllocated(preAllocatedBuf, address)

	if len(raw) != rawAddressLength && len(raw) != rawIntegratedAddressLength {
		return nil, ErrInvalidAddress
	}

	a := &Address{
		TypeNetwork: raw[0],
	}

	if BaseNetwork(a.TypeNetwork) == 0 {
		return nil, ErrInvalidAddress
	}

	// integrated addresses carry the payment id, nothing else may
	if a.IsIntegrated() != (len(raw) == rawIntegratedAddressLength) {
		return nil, ErrInvalidAddress
	}

	body := raw[:len(raw)-ChecksumLength]
	copy(a.checksum[:], raw[len(body):])
	a.hasChecksum = true

	if verifyChecksum && checksumHash(body) != a.checksum {
		return nil, ErrInvalidChecksum
	}

	copy(a.SpendPub[:], body[1:])
	copy(a.ViewPub[:], body[1+curve25519.PublicKeySize:])
	if a.IsIntegrated() {
		copy(a.PaymentId[:], body[1+curve25519.PublicKeySize*2:])
	}

	return a, nil
}

func FromRawAddress(typeNetwork uint8, spend, view curve25519.PublicKeyBytes) *Address {
	a := &Address{
		TypeNetwork: typeNetwork,
		SpendPub:    spend,
		ViewPub:     view,
	}
	a.verifyChecksum()
	return a
}

func FromRawIntegratedAddress(typeNetwork uint8, spend, view curve25519.PublicKeyBytes, paymentId [monero.PaymentIdSize]byte) *Address {
	a := &Address{
		TypeNetwork: typeNetwork,
		SpendPub:    spend,
		ViewPub:     view,
		PaymentId:   paymentId,
	}
	a.verifyChecksum()
	return a
}

func (a *Address) rawBody() []byte {
	buf := make([]byte, 0, rawIntegratedAddressLength)
	buf = append(buf, a.TypeNetwork)
	buf = append(buf, a.SpendPub[:]...)
	buf = append(buf, a.ViewPub[:]...)
	if a.IsIntegrated() {
		buf = append(buf, a.PaymentId[:]...)
	}
	return buf
}

func checksumHash(data []byte) (sum Checksum) {
	h := crypto.GetKeccak256Hasher()
	defer crypto.PutKeccak256Hasher(h)
	_, _ = h.Write(data)
	_, _ = h.Read(sum[:])
	return sum
}

func (a *Address) verifyChecksum() {
	if !a.hasChecksum {
		//this race is ok
		a.checksum = checksumHash(a.rawBody())
		a.hasChecksum = true
	}
}

func (a *Address) ToBase58() []byte {
	a.verifyChecksum()
	buf := make([]byte, 0, 106)
	return base58.EncodeMoneroBase58PreAllocated(buf, a.rawBody(), a.checksum[:])
}

func (a *Address) String() string {
	return string(a.ToBase58())
}

func (a *Address) MarshalJSON() ([]byte, error) {
	encoded := a.ToBase58()
	buf := make([]byte, 0, len(encoded)+2)
	buf = append(buf, '"')
	buf = append(buf, encoded...)
	buf = append(buf, '"')
	return buf, nil
}

func (a *Address) UnmarshalJSON(b []byte) error {
	if len(b) < 2 || b[0] != '"' || b[len(b)-1] != '"' {
		return errors.New("unsupported length")
	}

	addr, err := decodeBase58(b[1:len(b)-1], true)
	if err != nil {
		return err
	}
	*a = *addr
	return nil
}
