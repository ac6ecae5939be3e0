package entity

import (
	"strings"

	"github.com/mr-tron/base58"
)

const (
	controlKeyPrefix = "EOS"
	decodedKeyLength = 37
	keyPayloadLength = 33
)

// ControlKey is the compressed public key material installed as an account's
// authority after a purchase.
type ControlKey [keyPayloadLength]byte

// DecodeControlKey decodes a buyer-supplied public key string of the form
// "EOS" + base58 data. The decoded data must be exactly 37 bytes; the usable
// key payload is bytes [1..34).
func DecodeControlKey(s string) (ControlKey, error) {
	var key ControlKey

	if !strings.HasPrefix(s, controlKeyPrefix) {
		return key, ErrInvalidKey
	}

	decoded, err := base58.Decode(strings.TrimPrefix(s, controlKeyPrefix))
	if err != nil {
		return key, ErrInvalidKey
	}
	if len(decoded) != decodedKeyLength {
		return key, ErrInvalidKey
	}

	copy(key[:], decoded[1:1+keyPayloadLength])

	return key, nil
}
