package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode(t *testing.T) {
	ed := NewEncodeDecoder([]byte("test signing key"))

	token, err := ed.Encode(42)
	require.NoError(t, err)

	userID, err := ed.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, 42, userID)
}

func TestDecode_WrongKey(t *testing.T) {
	token, err := NewEncodeDecoder([]byte("key one")).Encode(42)
	require.NoError(t, err)

	_, err = NewEncodeDecoder([]byte("key two")).Decode(token)
	assert.Error(t, err)
}
