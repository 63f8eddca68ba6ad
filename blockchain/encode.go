package blockchain

import (
	"github.com/albatross-chain/albacore/block"
	"github.com/albatross-chain/albacore/cryptoio"
	"github.com/albatross-chain/albacore/primitives"
	"github.com/albatross-chain/albacore/wire"
)

// encodeCandidate serializes a Candidate for chainstore persistence.
// chainstore treats the result as an opaque blob; only this package
// interprets it. A leading discriminant byte selects micro vs. macro.
func encodeCandidate(c Candidate) ([]byte, error) {
	buf := make([]byte, 0, 512)
	if c.IsMacro() {
		buf = append(buf, 1)
		hdr, err := c.Macro.Header.MarshalSSZ()
		if err != nil {
			return nil, err
		}
		buf = wire.PutBytes(buf, hdr)
		buf = encodeMacroBody(buf, c.Macro.Body)
		buf = encodeTendermintProof(buf, c.Macro.Justification)
		return buf, nil
	}
	buf = append(buf, 0)
	hdr, err := c.Micro.Header.MarshalSSZ()
	if err != nil {
		return nil, err
	}
	buf = wire.PutBytes(buf, hdr)
	buf = encodeMicroBody(buf, c.Micro.Body)
	buf = encodeMicroJustification(buf, c.Micro.Justification)
	return buf, nil
}

// decodeCandidate is the inverse of encodeCandidate.
func decodeCandidate(data []byte) (Candidate, error) {
	if len(data) < 1 {
		return Candidate{}, wire.ErrTruncated
	}
	isMacro := data[0] != 0
	rest := data[1:]
	if isMacro {
		hdrBytes, rest2, err := wire.ReadBytes(rest)
		if err != nil {
			return Candidate{}, err
		}
		rest = rest2
		hdr := &block.MacroHeader{}
		if err := hdr.UnmarshalSSZ(hdrBytes); err != nil {
			return Candidate{}, err
		}
		body, rest3, err := decodeMacroBody(rest)
		if err != nil {
			return Candidate{}, err
		}
		rest = rest3
		proof, _, err := decodeTendermintProof(rest)
		if err != nil {
			return Candidate{}, err
		}
		return Candidate{Macro: &block.MacroBlock{Header: hdr, Body: body, Justification: proof}}, nil
	}
	hdrBytes, rest2, err := wire.ReadBytes(rest)
	if err != nil {
		return Candidate{}, err
	}
	rest = rest2
	hdr := &block.MicroHeader{}
	if err := hdr.UnmarshalSSZ(hdrBytes); err != nil {
		return Candidate{}, err
	}
	body, rest3, err := decodeMicroBody(rest)
	if err != nil {
		return Candidate{}, err
	}
	rest = rest3
	just, _, err := decodeMicroJustification(rest)
	if err != nil {
		return Candidate{}, err
	}
	return Candidate{Micro: &block.MicroBlock{Header: hdr, Body: body, Justification: just}}, nil
}

func encodeMicroBody(buf []byte, body *block.MicroBody) []byte {
	if body == nil {
		return wire.PutUint16(buf, 0)
	}
	buf = wire.PutUint16(buf, 1)
	buf = wire.PutUint32(buf, uint32(len(body.ForkProofs)))
	for _, fp := range body.ForkProofs {
		buf = encodeForkProof(buf, fp)
	}
	buf = wire.PutUint32(buf, uint32(len(body.Transactions)))
	for _, tx := range body.Transactions {
		buf = append(buf, tx.Hash[:]...)
		buf = wire.PutUint64(buf, tx.ValidFrom)
		buf = wire.PutUint64(buf, tx.ValidUntil)
		buf = wire.PutBytes(buf, tx.Payload)
	}
	return buf
}

func decodeMicroBody(buf []byte) (*block.MicroBody, []byte, error) {
	present, rest, err := wire.ReadUint16(buf)
	if err != nil {
		return nil, nil, err
	}
	if present == 0 {
		return nil, rest, nil
	}
	n, rest, err := wire.ReadUint32(rest)
	if err != nil {
		return nil, nil, err
	}
	body := &block.MicroBody{}
	for i := uint32(0); i < n; i++ {
		var fp *block.ForkProof
		fp, rest, err = decodeForkProof(rest)
		if err != nil {
			return nil, nil, err
		}
		body.ForkProofs = append(body.ForkProofs, fp)
	}
	n, rest, err = wire.ReadUint32(rest)
	if err != nil {
		return nil, nil, err
	}
	for i := uint32(0); i < n; i++ {
		tx := &block.Transaction{}
		rest, err = wire.ReadFixed(rest, tx.Hash[:])
		if err != nil {
			return nil, nil, err
		}
		tx.ValidFrom, rest, err = wire.ReadUint64(rest)
		if err != nil {
			return nil, nil, err
		}
		tx.ValidUntil, rest, err = wire.ReadUint64(rest)
		if err != nil {
			return nil, nil, err
		}
		tx.Payload, rest, err = wire.ReadBytes(rest)
		if err != nil {
			return nil, nil, err
		}
		body.Transactions = append(body.Transactions, tx)
	}
	return body, rest, nil
}

func encodeForkProof(buf []byte, fp *block.ForkProof) []byte {
	h1, _ := fp.Header1.MarshalSSZ()
	h2, _ := fp.Header2.MarshalSSZ()
	buf = wire.PutBytes(buf, h1)
	buf = wire.PutBytes(buf, h2)
	buf = wire.PutBytes(buf, fp.Signature1)
	buf = wire.PutBytes(buf, fp.Signature2)
	buf = append(buf, fp.PrevVrfSeed[:]...)
	return buf
}

func decodeForkProof(buf []byte) (*block.ForkProof, []byte, error) {
	h1b, rest, err := wire.ReadBytes(buf)
	if err != nil {
		return nil, nil, err
	}
	h1 := &block.MicroHeader{}
	if err := h1.UnmarshalSSZ(h1b); err != nil {
		return nil, nil, err
	}
	h2b, rest, err := wire.ReadBytes(rest)
	if err != nil {
		return nil, nil, err
	}
	h2 := &block.MicroHeader{}
	if err := h2.UnmarshalSSZ(h2b); err != nil {
		return nil, nil, err
	}
	sig1, rest, err := wire.ReadBytes(rest)
	if err != nil {
		return nil, nil, err
	}
	sig2, rest, err := wire.ReadBytes(rest)
	if err != nil {
		return nil, nil, err
	}
	fp := &block.ForkProof{Header1: h1, Header2: h2, Signature1: sig1, Signature2: sig2}
	rest, err = wire.ReadFixed(rest, fp.PrevVrfSeed[:])
	if err != nil {
		return nil, nil, err
	}
	return fp, rest, nil
}

func encodeMacroBody(buf []byte, body *block.MacroBody) []byte {
	if body == nil {
		return wire.PutUint16(buf, 0)
	}
	buf = wire.PutUint16(buf, 1)
	if body.Validators != nil {
		buf = wire.PutUint32(buf, uint32(len(body.Validators)))
		for _, v := range body.Validators {
			buf = append(buf, v.Address[:]...)
			buf = wire.PutBytes(buf, v.VotingKey)
			buf = wire.PutBytes(buf, v.SigningKey)
			buf = append(buf, v.RewardAddress[:]...)
			buf = wire.PutUint32(buf, v.NumSlots)
		}
	} else {
		buf = wire.PutUint32(buf, 0)
	}
	buf = wire.PutBytes(buf, body.PkTreeRoot)
	buf = encodeBitSet(buf, body.LostRewardSet)
	buf = encodeBitSet(buf, body.DisabledSet)
	return buf
}

func decodeMacroBody(buf []byte) (*block.MacroBody, []byte, error) {
	present, rest, err := wire.ReadUint16(buf)
	if err != nil {
		return nil, nil, err
	}
	if present == 0 {
		return nil, rest, nil
	}
	n, rest, err := wire.ReadUint32(rest)
	if err != nil {
		return nil, nil, err
	}
	body := &block.MacroBody{}
	if n > 0 {
		body.Validators = make([]*block.ValidatorInfo, n)
		for i := uint32(0); i < n; i++ {
			v := &block.ValidatorInfo{}
			rest, err = wire.ReadFixed(rest, v.Address[:])
			if err != nil {
				return nil, nil, err
			}
			v.VotingKey, rest, err = wire.ReadBytes(rest)
			if err != nil {
				return nil, nil, err
			}
			v.SigningKey, rest, err = wire.ReadBytes(rest)
			if err != nil {
				return nil, nil, err
			}
			rest, err = wire.ReadFixed(rest, v.RewardAddress[:])
			if err != nil {
				return nil, nil, err
			}
			v.NumSlots, rest, err = wire.ReadUint32(rest)
			if err != nil {
				return nil, nil, err
			}
			body.Validators[i] = v
		}
	}
	body.PkTreeRoot, rest, err = wire.ReadBytes(rest)
	if err != nil {
		return nil, nil, err
	}
	if len(body.PkTreeRoot) == 0 {
		body.PkTreeRoot = nil
	}
	body.LostRewardSet, rest, err = decodeBitSet(rest)
	if err != nil {
		return nil, nil, err
	}
	body.DisabledSet, rest, err = decodeBitSet(rest)
	if err != nil {
		return nil, nil, err
	}
	return body, rest, nil
}

func encodeBitSet(buf []byte, bs *primitives.BitSet) []byte {
	if bs == nil {
		return wire.PutUint16(buf, 0)
	}
	buf = wire.PutUint16(buf, 1)
	data, _ := bs.MarshalBinary()
	return wire.PutBytes(buf, data)
}

func decodeBitSet(buf []byte) (*primitives.BitSet, []byte, error) {
	present, rest, err := wire.ReadUint16(buf)
	if err != nil {
		return nil, nil, err
	}
	if present == 0 {
		return nil, rest, nil
	}
	data, rest, err := wire.ReadBytes(rest)
	if err != nil {
		return nil, nil, err
	}
	bs := &primitives.BitSet{}
	if err := bs.UnmarshalBinary(data); err != nil {
		return nil, nil, err
	}
	return bs, rest, nil
}

func encodeMicroJustification(buf []byte, j *block.MicroJustification) []byte {
	if j == nil {
		return wire.PutUint16(buf, 0)
	}
	buf = wire.PutUint16(buf, 1)
	buf = wire.PutUint16(buf, uint16(j.Kind))
	buf = wire.PutBytes(buf, j.Signature)
	if j.SkipProof != nil {
		buf = wire.PutUint16(buf, 1)
		buf = wire.PutBytes(buf, j.SkipProof.Signature.Bytes())
		data, _ := j.SkipProof.Signers.MarshalBinary()
		buf = wire.PutBytes(buf, data)
	} else {
		buf = wire.PutUint16(buf, 0)
	}
	return buf
}

func decodeMicroJustification(buf []byte) (*block.MicroJustification, []byte, error) {
	present, rest, err := wire.ReadUint16(buf)
	if err != nil {
		return nil, nil, err
	}
	if present == 0 {
		return nil, rest, nil
	}
	kind, rest, err := wire.ReadUint16(rest)
	if err != nil {
		return nil, nil, err
	}
	j := &block.MicroJustification{Kind: block.JustificationKind(kind)}
	j.Signature, rest, err = wire.ReadBytes(rest)
	if err != nil {
		return nil, nil, err
	}
	hasSkip, rest, err := wire.ReadUint16(rest)
	if err != nil {
		return nil, nil, err
	}
	if hasSkip != 0 {
		sigBytes, rest2, err := wire.ReadBytes(rest)
		if err != nil {
			return nil, nil, err
		}
		rest = rest2
		sig, err := cryptoio.SignatureFromBytes(sigBytes)
		if err != nil {
			return nil, nil, err
		}
		signersBytes, rest3, err := wire.ReadBytes(rest)
		if err != nil {
			return nil, nil, err
		}
		rest = rest3
		signers := &primitives.BitSet{}
		if err := signers.UnmarshalBinary(signersBytes); err != nil {
			return nil, nil, err
		}
		j.SkipProof = &block.SkipBlockProof{Signature: sig, Signers: signers}
	}
	if len(j.Signature) == 0 {
		j.Signature = nil
	}
	return j, rest, nil
}

func encodeTendermintProof(buf []byte, p *block.TendermintProof) []byte {
	if p == nil {
		return wire.PutUint16(buf, 0)
	}
	buf = wire.PutUint16(buf, 1)
	buf = wire.PutUint32(buf, p.Round)
	var sigBytes, data []byte
	if p.Signature != nil {
		sigBytes = p.Signature.Bytes()
	}
	if p.Signers != nil {
		data, _ = p.Signers.MarshalBinary()
	}
	buf = wire.PutBytes(buf, sigBytes)
	buf = wire.PutBytes(buf, data)
	return buf
}

func decodeTendermintProof(buf []byte) (*block.TendermintProof, []byte, error) {
	present, rest, err := wire.ReadUint16(buf)
	if err != nil {
		return nil, nil, err
	}
	if present == 0 {
		return nil, rest, nil
	}
	round, rest, err := wire.ReadUint32(rest)
	if err != nil {
		return nil, nil, err
	}
	sigBytes, rest, err := wire.ReadBytes(rest)
	if err != nil {
		return nil, nil, err
	}
	sig, err := cryptoio.SignatureFromBytes(sigBytes)
	if err != nil {
		return nil, nil, err
	}
	signersBytes, rest, err := wire.ReadBytes(rest)
	if err != nil {
		return nil, nil, err
	}
	signers := &primitives.BitSet{}
	if err := signers.UnmarshalBinary(signersBytes); err != nil {
		return nil, nil, err
	}
	return &block.TendermintProof{Round: round, Signature: sig, Signers: signers}, rest, nil
}
