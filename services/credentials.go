package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"livraison-telegram/db"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	passwordLen  = 8
	symbols      = "!@#$%&*"
	upperLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	lowerLetters = "abcdefghijklmnopqrstuvwxyz"
	digits       = "0123456789"
)

// CreateAdmin upserts an admin account for the HTTP API and returns the
// generated plain password. Do not log the returned string.
func CreateAdmin(ctx context.Context, username string) (plainPassword string, err error) {
	plainPassword, err = GenerateSecurePassword()
	if err != nil {
		return "", fmt.Errorf("generate password: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plainPassword), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	_, err = db.Pool.Exec(ctx, `
		INSERT INTO admin_credentials (username, password_hash, is_active, updated_at)
		VALUES ($1, $2, true, now())
		ON CONFLICT (username) DO UPDATE SET password_hash = EXCLUDED.password_hash, is_active = true, updated_at = now()`,
		username, string(hash),
	)
	if err != nil {
		return "", fmt.Errorf("upsert admin credential: %w", err)
	}
	return plainPassword, nil
}

// VerifyAdminCredential checks a password against admin_credentials;
// true only when the account exists, is active and the password matches.
func VerifyAdminCredential(ctx context.Context, username, plainPassword string) (bool, error) {
	var hash string
	var isActive bool
	err := db.Pool.QueryRow(ctx, `
		SELECT password_hash, is_active FROM admin_credentials WHERE username = $1`,
		username,
	).Scan(&hash, &isActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	if !isActive {
		return false, nil
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plainPassword)) == nil, nil
}

// GenerateSecurePassword returns an 8-character password with at least one
// uppercase, one lowercase, one digit, one symbol. Uses crypto/rand.
func GenerateSecurePassword() (string, error) {
	pick := func(s string) (byte, error) {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(s))))
		if err != nil {
			return 0, err
		}
		return s[n.Int64()], nil
	}
	result := make([]byte, passwordLen)
	var err error
	result[0], err = pick(upperLetters)
	if err != nil {
		return "", err
	}
	result[1], err = pick(lowerLetters)
	if err != nil {
		return "", err
	}
	result[2], err = pick(digits)
	if err != nil {
		return "", err
	}
	result[3], err = pick(symbols)
	if err != nil {
		return "", err
	}
	all := upperLetters + lowerLetters + digits + symbols
	for i := 4; i < passwordLen; i++ {
		result[i], err = pick(all)
		if err != nil {
			return "", err
		}
	}
	// Shuffle Fisher-Yates with crypto/rand
	for i := passwordLen - 1; i >= 1; i-- {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return "", fmt.Errorf("shuffle: %w", err)
		}
		j := int(n.Int64())
		result[i], result[j] = result[j], result[i]
	}
	return string(result), nil
}
