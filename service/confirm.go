package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/dizegn/Prevtech-sub001/config"
	"github.com/golang-jwt/jwt/v5"
)

// Archival is a two-step operation: the first request mints a short-lived
// signed token naming the target process, and the actual status change only
// happens when that token is echoed back. This keeps the confirmation
// server-side verifiable without any session storage.

var ErrInvalidConfirmToken = errors.New("invalid or expired confirmation token")

// ArchiveClaims binds a confirmation token to one process.
type ArchiveClaims struct {
	ProcessID string `json:"process_id"`
	jwt.RegisteredClaims
}

// NewArchiveToken mints a confirmation token for archiving the process.
func NewArchiveToken(processID string, cfg *config.ArchiveConfig) (string, time.Time, error) {
	expiresAt := time.Now().Add(time.Duration(cfg.ConfirmTTLMinutes) * time.Minute)

	claims := ArchiveClaims{
		ProcessID: processID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "archive",
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(cfg.ConfirmSecret))
	if err != nil {
		return "", time.Time{}, err
	}

	return tokenString, expiresAt, nil
}

// VerifyArchiveToken checks the token signature, expiry and target process.
func VerifyArchiveToken(tokenString, processID string, cfg *config.ArchiveConfig) error {
	claims := &ArchiveClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(cfg.ConfirmSecret), nil
	})
	if err != nil || !token.Valid {
		return ErrInvalidConfirmToken
	}
	if claims.ProcessID != processID {
		return fmt.Errorf("%w: token targets another process", ErrInvalidConfirmToken)
	}
	return nil
}
