package auth

import (
	"log"
	"strings"

	"github.com/GehirnInc/crypt"
	_ "github.com/GehirnInc/crypt/md5_crypt"    // $1$
	_ "github.com/GehirnInc/crypt/sha256_crypt" // $5$
	_ "github.com/GehirnInc/crypt/sha512_crypt" // $6$
	"golang.org/x/crypto/bcrypt"
)

var bcryptPrefixes = []string{"$2a$", "$2b$", "$2y$"}

// VerifyPassword reports whether plaintext matches a crypt(3)-style hash.
// The algorithm and salt are taken from storedHash itself.
func VerifyPassword(plaintext, storedHash string) bool {
	if storedHash == "" {
		return false
	}

	if isBcrypt(storedHash) {
		return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(plaintext)) == nil
	}

	if !crypt.IsHashSupported(storedHash) {
		log.Printf("[Auth] Unsupported password hash scheme: %s", hashScheme(storedHash))
		return false
	}

	return crypt.NewFromHash(storedHash).Verify(storedHash, []byte(plaintext)) == nil
}

func isBcrypt(hash string) bool {
	for _, p := range bcryptPrefixes {
		if strings.HasPrefix(hash, p) {
			return true
		}
	}
	return false
}

// hashScheme returns the "$id$" part of a hash for logging, never the salt or digest.
func hashScheme(hash string) string {
	if !strings.HasPrefix(hash, "$") {
		return "des-or-unknown"
	}
	if end := strings.Index(hash[1:], "$"); end >= 0 {
		return hash[:end+2]
	}
	return "unknown"
}
