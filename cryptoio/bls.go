// Package cryptoio binds the core's abstract "BLS voting key" and
// "Schnorr signing key" primitives to concrete libraries: an opaque
// keypair handle with Sign/Verify and disk load/save, using a pure BLS
// binding appropriate to aggregate/threshold voting-key signatures.
//
// BLS operations are delegated to github.com/herumi/bls-eth-go-binary;
// proposer signing-key operations are delegated to the Ed25519
// implementation already vendored by go-libp2p's core/crypto package.
// No primitive is reimplemented here — the core treats cryptography as
// an assumed-correct collaborator.
package cryptoio

import (
	"fmt"
	"sync"

	bls "github.com/herumi/bls-eth-go-binary/bls"
)

var initOnce sync.Once
var initErr error

func ensureInit() error {
	initOnce.Do(func() {
		initErr = bls.Init(bls.BLS12_381)
		if initErr == nil {
			bls.SetETHmode(bls.EthModeDraft07)
		}
	})
	return initErr
}

// VotingKeySize is the width of a compressed BLS public key as used for
// validator voting keys and pk_tree leaves.
const VotingKeySize = 48

// SignatureSize is the width of a compressed BLS signature, used for
// VRF seeds, skip-block proofs and Tendermint justifications.
const SignatureSize = 96

// VotingSecretKey wraps a BLS secret key used to sign VRF seeds, skip
// block proofs, and Tendermint votes.
type VotingSecretKey struct {
	sk bls.SecretKey
}

// GenerateVotingKey creates a fresh BLS keypair by CSPRNG.
func GenerateVotingKey() (*VotingSecretKey, error) {
	if err := ensureInit(); err != nil {
		return nil, fmt.Errorf("cryptoio: bls init: %w", err)
	}
	var sk bls.SecretKey
	sk.SetByCSPRNG()
	return &VotingSecretKey{sk: sk}, nil
}

// VotingSecretKeyFromBytes restores a secret key from its serialized
// form, as persisted by keystore.SaveVotingKey.
func VotingSecretKeyFromBytes(data []byte) (*VotingSecretKey, error) {
	if err := ensureInit(); err != nil {
		return nil, fmt.Errorf("cryptoio: bls init: %w", err)
	}
	var sk bls.SecretKey
	if err := sk.Deserialize(data); err != nil {
		return nil, fmt.Errorf("cryptoio: deserialize voting secret key: %w", err)
	}
	return &VotingSecretKey{sk: sk}, nil
}

// Bytes returns the serialized secret key.
func (k *VotingSecretKey) Bytes() []byte { return k.sk.Serialize() }

// PublicKey derives this secret key's voting public key.
func (k *VotingSecretKey) PublicKey() *VotingKey {
	pk := k.sk.GetPublicKey()
	return &VotingKey{pk: *pk}
}

// Sign signs an arbitrary message, returning a compressed signature.
func (k *VotingSecretKey) Sign(message []byte) *Signature {
	sig := k.sk.SignByte(message)
	return &Signature{sig: *sig}
}

// VotingKey is a compressed BLS public key identifying a validator's
// voting weight.
type VotingKey struct {
	pk bls.PublicKey
}

// VotingKeyFromBytes parses a compressed voting key.
func VotingKeyFromBytes(data []byte) (*VotingKey, error) {
	if err := ensureInit(); err != nil {
		return nil, fmt.Errorf("cryptoio: bls init: %w", err)
	}
	var pk bls.PublicKey
	if err := pk.Deserialize(data); err != nil {
		return nil, fmt.Errorf("cryptoio: deserialize voting key: %w", err)
	}
	return &VotingKey{pk: pk}, nil
}

// Bytes returns the compressed voting key.
func (k *VotingKey) Bytes() []byte { return k.pk.Serialize() }

// Verify checks a single signature against this key.
func (k *VotingKey) Verify(message []byte, sig *Signature) bool {
	return sig.sig.VerifyByte(&k.pk, message)
}

// Signature is a compressed BLS signature.
type Signature struct {
	sig bls.Sign
}

// SignatureFromBytes parses a compressed signature.
func SignatureFromBytes(data []byte) (*Signature, error) {
	if err := ensureInit(); err != nil {
		return nil, fmt.Errorf("cryptoio: bls init: %w", err)
	}
	var sig bls.Sign
	if err := sig.Deserialize(data); err != nil {
		return nil, fmt.Errorf("cryptoio: deserialize signature: %w", err)
	}
	return &Signature{sig: sig}, nil
}

// Bytes returns the compressed signature.
func (s *Signature) Bytes() []byte { return s.sig.Serialize() }

// AggregatePublicKeys sums a set of voting keys into the aggregate
// public key used to verify a multi-signer justification (skip-block
// proof or Tendermint proof).
func AggregatePublicKeys(keys []*VotingKey) *VotingKey {
	if len(keys) == 0 {
		return &VotingKey{}
	}
	agg := keys[0].pk
	for _, k := range keys[1:] {
		agg.Add(&k.pk)
	}
	return &VotingKey{pk: agg}
}

// AggregateSignatures sums a set of signatures into a single aggregate
// signature, matching the additive structure of the public-key
// aggregation above.
func AggregateSignatures(sigs []*Signature) *Signature {
	if len(sigs) == 0 {
		return &Signature{}
	}
	agg := sigs[0].sig
	for _, s := range sigs[1:] {
		agg.Add(&s.sig)
	}
	return &Signature{sig: agg}
}

// VerifyAggregate checks an aggregate signature against the aggregate
// of the given signers' voting keys over a single shared message — the
// structure used by both SkipBlockProof and TendermintProof, which
// sign one canonical message under a subset of slots.
func VerifyAggregate(signers []*VotingKey, message []byte, aggSig *Signature) bool {
	agg := AggregatePublicKeys(signers)
	return agg.Verify(message, aggSig)
}
