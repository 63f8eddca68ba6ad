package cryptoio

import "testing"

func TestVotingKeySignVerify(t *testing.T) {
	sk, err := GenerateVotingKey()
	if err != nil {
		t.Fatal(err)
	}
	msg := []byte("nano_zkp_hash")
	sig := sk.Sign(msg)
	if !sk.PublicKey().Verify(msg, sig) {
		t.Fatal("expected signature to verify")
	}
	if sk.PublicKey().Verify([]byte("other"), sig) {
		t.Fatal("signature should not verify against a different message")
	}
}

func TestAggregateSignatureVerify(t *testing.T) {
	const n = 4
	var keys []*VotingKey
	var sigs []*Signature
	msg := []byte("skip-block-info")
	for i := 0; i < n; i++ {
		sk, err := GenerateVotingKey()
		if err != nil {
			t.Fatal(err)
		}
		keys = append(keys, sk.PublicKey())
		sigs = append(sigs, sk.Sign(msg))
	}
	agg := AggregateSignatures(sigs)
	if !VerifyAggregate(keys, msg, agg) {
		t.Fatal("expected aggregate signature to verify")
	}

	// Dropping a signer from the key set must break verification.
	if VerifyAggregate(keys[:n-1], msg, agg) {
		t.Fatal("aggregate verification should fail against a mismatched signer set")
	}
}

func TestVotingKeyRoundTrip(t *testing.T) {
	sk, err := GenerateVotingKey()
	if err != nil {
		t.Fatal(err)
	}
	restored, err := VotingSecretKeyFromBytes(sk.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	msg := []byte("round-trip")
	sig := restored.Sign(msg)
	if !sk.PublicKey().Verify(msg, sig) {
		t.Fatal("restored key should produce verifiable signatures")
	}
}
