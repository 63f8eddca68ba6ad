package cryptoio

import (
	"fmt"

	lcrypto "github.com/libp2p/go-libp2p/core/crypto"
)

// SigningKey is a proposer's per-block signing key (a "Schnorr
// Ed25519-like" primitive), bound here to go-libp2p's Ed25519
// implementation rather than a hand-rolled Schnorr scheme.
type SigningKey struct {
	priv lcrypto.PrivKey
}

// SigningPublicKey is the public half of a SigningKey, used to verify
// proposer signatures over micro/macro header hashes.
type SigningPublicKey struct {
	pub lcrypto.PubKey
}

// GenerateSigningKey creates a fresh Ed25519 proposer signing key.
func GenerateSigningKey() (*SigningKey, error) {
	priv, _, err := lcrypto.GenerateEd25519Key(nil)
	if err != nil {
		return nil, fmt.Errorf("cryptoio: generate signing key: %w", err)
	}
	return &SigningKey{priv: priv}, nil
}

// SigningKeyFromBytes restores a signing key from its protobuf-encoded
// serialized form.
func SigningKeyFromBytes(data []byte) (*SigningKey, error) {
	priv, err := lcrypto.UnmarshalPrivateKey(data)
	if err != nil {
		return nil, fmt.Errorf("cryptoio: unmarshal signing key: %w", err)
	}
	return &SigningKey{priv: priv}, nil
}

// Bytes serializes the signing key.
func (k *SigningKey) Bytes() ([]byte, error) {
	return lcrypto.MarshalPrivateKey(k.priv)
}

// PublicKey derives the public verification key.
func (k *SigningKey) PublicKey() *SigningPublicKey {
	return &SigningPublicKey{pub: k.priv.GetPublic()}
}

// Sign signs a message (a header hash) with this key.
func (k *SigningKey) Sign(message []byte) ([]byte, error) {
	return k.priv.Sign(message)
}

// SigningPublicKeyFromBytes parses a protobuf-encoded public key.
func SigningPublicKeyFromBytes(data []byte) (*SigningPublicKey, error) {
	pub, err := lcrypto.UnmarshalPublicKey(data)
	if err != nil {
		return nil, fmt.Errorf("cryptoio: unmarshal signing public key: %w", err)
	}
	return &SigningPublicKey{pub: pub}, nil
}

// Bytes serializes the public key.
func (k *SigningPublicKey) Bytes() ([]byte, error) {
	return lcrypto.MarshalPublicKey(k.pub)
}

// Verify checks a proposer signature over message.
func (k *SigningPublicKey) Verify(message, sig []byte) bool {
	ok, err := k.pub.Verify(message, sig)
	return err == nil && ok
}
