package config

import (
	"fmt"
	"os"
	"strconv"
)

// DefaultJWTExpirationHours is used when JWT_EXPIRATION_HOURS is unset.
const DefaultJWTExpirationHours = 24

// JWTConfig holds configuration for JWT token generation and validation.
type JWTConfig struct {
	Secret          string
	ExpirationHours int
}

// LoadJWTConfig reads JWT_SECRET and JWT_EXPIRATION_HOURS. It returns nil
// without error when JWT_SECRET is unset; the server then runs without auth
// and records history against the anonymous user.
func LoadJWTConfig() (*JWTConfig, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, nil
	}
	return NewJWTConfig(secret, os.Getenv("JWT_EXPIRATION_HOURS"))
}

// NewJWTConfig builds a validated JWTConfig. An empty expiration uses
// DefaultJWTExpirationHours.
func NewJWTConfig(secret, expiration string) (*JWTConfig, error) {
	expirationHours := DefaultJWTExpirationHours
	if expiration != "" {
		n, err := strconv.Atoi(expiration)
		if err != nil {
			return nil, fmt.Errorf("invalid JWT_EXPIRATION_HOURS: %v", err)
		}
		expirationHours = n
	}

	config := &JWTConfig{
		Secret:          secret,
		ExpirationHours: expirationHours,
	}

	if err := config.normalize(); err != nil {
		return nil, err
	}

	return config, nil
}

// normalize validates the configuration.
func (c *JWTConfig) normalize() error {
	if c.Secret == "" {
		return fmt.Errorf("JWT_SECRET cannot be empty")
	}
	if len(c.Secret) < 16 {
		return fmt.Errorf("JWT_SECRET must be at least 16 characters")
	}
	if c.ExpirationHours < 1 {
		return fmt.Errorf("JWT_EXPIRATION_HOURS must be at least 1 hour, got: %d", c.ExpirationHours)
	}
	return nil
}
