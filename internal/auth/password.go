package auth

import (
	"golang.org/x/crypto/bcrypt"
	"go.uber.org/zap"
)

// DefaultBcryptCost is the work factor used when none is configured.
const DefaultBcryptCost = 12

// PasswordHasher hashes and verifies stored credentials.
type PasswordHasher struct {
	cost                 int
	allowLegacyPlaintext bool
	logger               *zap.Logger
}

// NewPasswordHasher builds a hasher. allowLegacyPlaintext enables the insecure
// verbatim comparison for stored values that are not bcrypt digests.
func NewPasswordHasher(cost int, allowLegacyPlaintext bool, logger *zap.Logger) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PasswordHasher{cost: cost, allowLegacyPlaintext: allowLegacyPlaintext, logger: logger}
}

// Hash hashes a plaintext password with the configured cost.
func (h *PasswordHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify reports whether password matches the stored digest.
func (h *PasswordHasher) Verify(password, digest string) bool {
	if _, err := bcrypt.Cost([]byte(digest)); err != nil {
		return h.verifyLegacy(password, digest)
	}
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}

// verifyLegacy is the INSECURE plaintext path kept for unmigrated rows.
func (h *PasswordHasher) verifyLegacy(password, stored string) bool {
	if !h.allowLegacyPlaintext {
		return false
	}
	if stored == "" || password != stored {
		return false
	}
	h.logger.Warn("password matched through insecure legacy plaintext comparison")
	return true
}
