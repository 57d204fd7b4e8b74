// Copyright (c) 2026 Kertas. All rights reserved.
// Author: ad.kurnia.ws@gmail.com

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kertasdev/kertas/internal/platform/sec"
)

/*
TestFieldCodec_RoundTrip verifies seal/open symmetry and that empty values
pass through untouched.
*/
func TestFieldCodec_RoundTrip(t *testing.T) {
	codec, err := sec.NewFieldCodec([]byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)

	sealed, err := codec.EncryptString("+628111222333")
	require.NoError(t, err)
	assert.NotEqual(t, "+628111222333", sealed)

	opened, err := codec.DecryptString(sealed)
	require.NoError(t, err)
	assert.Equal(t, "+628111222333", opened)

	// Empty stays empty in both directions.
	sealed, err = codec.EncryptString("")
	require.NoError(t, err)
	assert.Empty(t, sealed)

	opened, err = codec.DecryptString("")
	require.NoError(t, err)
	assert.Empty(t, opened)
}

/*
TestFieldCodec_WrongKey verifies that ciphertext is bound to the key that
produced it.
*/
func TestFieldCodec_WrongKey(t *testing.T) {
	first, err := sec.NewFieldCodec([]byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)
	second, err := sec.NewFieldCodec([]byte("fedcba9876543210fedcba9876543210"))
	require.NoError(t, err)

	sealed, err := first.EncryptString("secret-phone")
	require.NoError(t, err)

	_, err = second.DecryptString(sealed)
	assert.Error(t, err)
}

/*
TestFieldCodec_BadKeyLength verifies constructor validation.
*/
func TestFieldCodec_BadKeyLength(t *testing.T) {
	_, err := sec.NewFieldCodec([]byte("short"))
	assert.Error(t, err)
}

/*
TestFieldCodec_Garbage verifies corrupted input surfaces as an error rather
than silent garbage output.
*/
func TestFieldCodec_Garbage(t *testing.T) {
	codec, err := sec.NewFieldCodec([]byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)

	_, err = codec.DecryptString("!!not-base64!!")
	assert.Error(t, err)

	_, err = codec.DecryptString("c2hvcnQ=") // valid base64, too short for a nonce
	assert.Error(t, err)
}
