package types

import (
	"errors"
	"unsafe"

	fasthex "github.com/tmthrgd/go-hex"
)

const HashSize = 32

//nolint:recvcheck
type Hash [HashSize]byte

var ZeroHash Hash

var ErrWrongSize = errors.New("wrong size")

func (h Hash) MarshalJSON() ([]byte, error) {
	return MarshalHexJSON(h[:]), nil
}

func (h *Hash) UnmarshalJSON(b []byte) error {
	return UnmarshalHexJSON(h[:], b)
}

func (h Hash) Slice() []byte {
	return h[:]
}

func (h Hash) String() string {
	return fasthex.EncodeToString(h[:])
}

func MustBytes32FromString[T ~[32]byte](s string) T {
	if h, err := Bytes32FromString[T](s); err != nil {
		panic(err)
	} else {
		return h
	}
}

func Bytes32FromString[T ~[32]byte](s string) (T, error) {
	var h T
	if buf, err := fasthex.DecodeString(s); err != nil {
		return h, err
	} else {
		if len(buf) != 32 {
			return h, ErrWrongSize
		}
		copy(h[:], buf)
		return h, nil
	}
}

// MustBytesFromString decodes a hex string into any fixed size byte array
func MustBytesFromString[T ~[3]byte | ~[8]byte | ~[16]byte | ~[32]byte | ~[33]byte | ~[64]byte](s string) (h T) {
	buf, err := fasthex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	if len(buf) != len(h) {
		panic(ErrWrongSize)
	}
	// no core type to slice through, view h as its backing bytes
	copy(unsafe.Slice((*byte)(unsafe.Pointer(&h)), len(h)), buf)
	return h
}

func MustHashFromString(s string) Hash {
	return MustBytes32FromString[Hash](s)
}

func HashFromString(s string) (Hash, error) {
	return Bytes32FromString[Hash](s)
}

func HashFromBytes(buf []byte) (h Hash) {
	if len(buf) != HashSize {
		return
	}
	copy(h[:], buf)
	return
}

// MarshalHexJSON encodes b as a quoted hex JSON string
func MarshalHexJSON(b []byte) []byte {
	buf := make([]byte, len(b)*2+2)
	buf[0] = '"'
	buf[len(buf)-1] = '"'
	fasthex.Encode(buf[1:], b)
	return buf
}

// UnmarshalHexJSON decodes a quoted hex JSON string of exactly len(dst) bytes.
// Empty strings and null leave dst untouched.
func UnmarshalHexJSON(dst, b []byte) error {
	if len(b) == 0 || len(b) == 2 || string(b) == "null" {
		return nil
	}
	if len(b) < 2 || b[0] != '"' || b[len(b)-1] != '"' {
		return errors.New("invalid hex string")
	}
	if len(b) != len(dst)*2+2 {
		return ErrWrongSize
	}
	if _, err := fasthex.Decode(dst, b[1:len(b)-1]); err != nil {
		return err
	}
	return nil
}
