package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"io"

	"golang.org/x/crypto/hkdf"
)

const (
	keyInfo = "maplehr/field-encryption/v1"
	// envelopeV1 prefixes every sealed value: version byte, GCM nonce, ciphertext.
	envelopeV1 byte = 1
)

var (
	ErrDisabled        = errors.New("field encryption is not configured")
	ErrMalformed       = errors.New("sealed value is malformed")
	ErrUnknownEnvelope = errors.New("sealed value has an unknown envelope version")
)

// Sealer encrypts single column values at rest. The column name is bound as associated data,
// so a value sealed for one column cannot be opened as another.
type Sealer struct {
	aead cipher.AEAD
}

// New builds a Sealer from DATA_ENCRYPTION_KEY. An empty key yields a disabled Sealer.
func New(key string) (*Sealer, error) {
	if key == "" {
		return &Sealer{}, nil
	}
	raw, err := decodeKey(key)
	if err != nil {
		return nil, err
	}
	block, err := aes.NewCipher(raw)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &Sealer{aead: aead}, nil
}

func (s *Sealer) Enabled() bool {
	return s != nil && s.aead != nil
}

func (s *Sealer) Seal(column, value string) ([]byte, error) {
	if !s.Enabled() {
		return nil, ErrDisabled
	}
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	out := append([]byte{envelopeV1}, nonce...)
	return s.aead.Seal(out, nonce, []byte(value), []byte(column)), nil
}

func (s *Sealer) Open(column string, sealed []byte) (string, error) {
	if !s.Enabled() {
		return "", ErrDisabled
	}
	if len(sealed) < 1+s.aead.NonceSize() {
		return "", ErrMalformed
	}
	if sealed[0] != envelopeV1 {
		return "", ErrUnknownEnvelope
	}
	body := sealed[1:]
	n := s.aead.NonceSize()
	plain, err := s.aead.Open(nil, body[:n], body[n:], []byte(column))
	if err != nil {
		return "", err
	}
	return string(plain), nil
}

// decodeKey accepts a 32-byte key as hex or base64. Anything else is a passphrase
// stretched with HKDF-SHA256.
func decodeKey(raw string) ([]byte, error) {
	if len(raw) == 64 {
		if decoded, err := hex.DecodeString(raw); err == nil {
			return decoded, nil
		}
	}
	for _, enc := range []*base64.Encoding{base64.StdEncoding, base64.RawStdEncoding} {
		if decoded, err := enc.DecodeString(raw); err == nil && len(decoded) == 32 {
			return decoded, nil
		}
	}
	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(raw), nil, []byte(keyInfo)), key); err != nil {
		return nil, err
	}
	return key, nil
}
