package cryptoio

import (
	"fmt"
	"os"
)

// LoadVotingKey reads a BLS secret key from disk and restores the
// VotingSecretKey handle.
func LoadVotingKey(path string) (*VotingSecretKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cryptoio: read voting key from %s: %w", path, err)
	}
	return VotingSecretKeyFromBytes(data)
}

// SaveVotingKey writes a BLS secret key to disk with restrictive
// permissions.
func SaveVotingKey(k *VotingSecretKey, path string) error {
	if err := os.WriteFile(path, k.Bytes(), 0o600); err != nil {
		return fmt.Errorf("cryptoio: write voting key to %s: %w", path, err)
	}
	return nil
}

// LoadSigningKey reads a proposer signing key from disk.
func LoadSigningKey(path string) (*SigningKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cryptoio: read signing key from %s: %w", path, err)
	}
	return SigningKeyFromBytes(data)
}

// SaveSigningKey writes a proposer signing key to disk with restrictive
// permissions.
func SaveSigningKey(k *SigningKey, path string) error {
	data, err := k.Bytes()
	if err != nil {
		return fmt.Errorf("cryptoio: serialize signing key: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("cryptoio: write signing key to %s: %w", path, err)
	}
	return nil
}
