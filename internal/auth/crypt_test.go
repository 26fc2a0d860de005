package auth

import (
	"testing"

	"github.com/GehirnInc/crypt/md5_crypt"
	"github.com/GehirnInc/crypt/sha256_crypt"
	"github.com/GehirnInc/crypt/sha512_crypt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestVerifyPassword_CryptSchemes(t *testing.T) {
	tests := []struct {
		name string
		gen  func(password string) (string, error)
	}{
		{
			name: "md5-crypt",
			gen: func(p string) (string, error) {
				return md5_crypt.New().Generate([]byte(p), []byte("$1$saltsalt"))
			},
		},
		{
			name: "sha256-crypt",
			gen: func(p string) (string, error) {
				return sha256_crypt.New().Generate([]byte(p), []byte("$5$saltsalt"))
			},
		},
		{
			name: "sha512-crypt",
			gen: func(p string) (string, error) {
				return sha512_crypt.New().Generate([]byte(p), []byte("$6$saltsalt"))
			},
		},
		{
			name: "sha512-crypt with rounds",
			gen: func(p string) (string, error) {
				return sha512_crypt.New().Generate([]byte(p), []byte("$6$rounds=5000$saltsalt"))
			},
		},
		{
			name: "bcrypt",
			gen: func(p string) (string, error) {
				h, err := bcrypt.GenerateFromPassword([]byte(p), bcrypt.MinCost)
				return string(h), err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := tt.gen("correct horse")
			require.NoError(t, err)

			assert.True(t, VerifyPassword("correct horse", hash))
			assert.False(t, VerifyPassword("correct horse ", hash))
			assert.False(t, VerifyPassword("wrong", hash))
			assert.False(t, VerifyPassword("", hash))
		})
	}
}

func TestVerifyPassword_PHPBcryptPrefix(t *testing.T) {
	h, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	require.NoError(t, err)
	// ISPConfig installs built on PHP emit $2y$ hashes
	phpHash := "$2y$" + string(h[4:])

	assert.True(t, VerifyPassword("secret", phpHash))
	assert.False(t, VerifyPassword("Secret", phpHash))
}

func TestVerifyPassword_DifferentSaltDifferentHash(t *testing.T) {
	a, err := sha512_crypt.New().Generate([]byte("pw"), []byte("$6$aaaaaaaa"))
	require.NoError(t, err)
	b, err := sha512_crypt.New().Generate([]byte("pw"), []byte("$6$bbbbbbbb"))
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.True(t, VerifyPassword("pw", a))
	assert.True(t, VerifyPassword("pw", b))
}

func TestVerifyPassword_UnsupportedOrEmpty(t *testing.T) {
	assert.False(t, VerifyPassword("pw", ""))
	assert.False(t, VerifyPassword("pw", "plaintext"))
	assert.False(t, VerifyPassword("pw", "$argon2id$v=19$m=65536,t=3,p=4$c2FsdA$aGFzaA"))
}

func TestHashScheme(t *testing.T) {
	assert.Equal(t, "$6$", hashScheme("$6$salt$digest"))
	assert.Equal(t, "$argon2id$", hashScheme("$argon2id$v=19$..."))
	assert.Equal(t, "des-or-unknown", hashScheme("abJnggxhB/yWI"))
}
