package crypto

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSealOpenWithHexKey(t *testing.T) {
	s, err := New(hex.EncodeToString(bytes.Repeat([]byte{7}, 32)))
	require.NoError(t, err)
	require.True(t, s.Enabled())

	sealed, err := s.Seal("salary", "85000.00")
	require.NoError(t, err)
	assert.Equal(t, envelopeV1, sealed[0])
	assert.NotContains(t, string(sealed), "85000")

	plain, err := s.Open("salary", sealed)
	require.NoError(t, err)
	assert.Equal(t, "85000.00", plain)
}

func TestPassphraseKeysAgree(t *testing.T) {
	a, err := New("correct horse battery staple")
	require.NoError(t, err)
	b, err := New("correct horse battery staple")
	require.NoError(t, err)

	sealed, err := a.Seal("salary", "1")
	require.NoError(t, err)
	plain, err := b.Open("salary", sealed)
	require.NoError(t, err)
	assert.Equal(t, "1", plain)
}

func TestOpenIsBoundToColumn(t *testing.T) {
	s, err := New("passphrase")
	require.NoError(t, err)
	sealed, err := s.Seal("salary", "42")
	require.NoError(t, err)

	_, err = s.Open("bonus", sealed)
	assert.Error(t, err)
}

func TestOpenRejectsBadEnvelopes(t *testing.T) {
	s, err := New("passphrase")
	require.NoError(t, err)

	_, err = s.Open("salary", []byte{envelopeV1, 2})
	assert.ErrorIs(t, err, ErrMalformed)

	sealed, err := s.Seal("salary", "42")
	require.NoError(t, err)
	sealed[0] = 9
	_, err = s.Open("salary", sealed)
	assert.ErrorIs(t, err, ErrUnknownEnvelope)
}

func TestDisabledSealer(t *testing.T) {
	s, err := New("")
	require.NoError(t, err)
	assert.False(t, s.Enabled())

	_, err = s.Seal("salary", "1")
	assert.ErrorIs(t, err, ErrDisabled)
	_, err = s.Open("salary", []byte{1})
	assert.ErrorIs(t, err, ErrDisabled)
}
