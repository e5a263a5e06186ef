package ps

import (
	"math/big"

	bn254 "github.com/consensys/gnark-crypto/ecc/bn254"

	"github.com/anonloc-labs/anonloc/internal/encoding"
)

// Wire encodings. Group elements travel in gnark-crypto's Marshal form,
// which is the uncompressed point encoding (no point compression is
// applied), scalars as fixed-width big-endian bytes, maps as a count
// followed by index/value pairs in increasing index order.

func writeAttrMap(w *encoding.Writer, m AttributeMap) {
	w.WriteUint32(uint32(len(m)))
	for _, i := range sortedIndices(m) {
		w.WriteUint32(uint32(i))
		w.WriteBytes(m[i])
	}
}

func readAttrMap(r *encoding.Reader) (AttributeMap, error) {
	n, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}
	m := make(AttributeMap, n)
	for j := uint32(0); j < n; j++ {
		i, err := r.ReadUint32()
		if err != nil {
			return nil, err
		}
		b, err := r.ReadBytes()
		if err != nil {
			return nil, err
		}
		m[int(i)] = append([]byte(nil), b...)
	}
	return m, nil
}

func writeScalarMap(w *encoding.Writer, m map[int]*big.Int) {
	w.WriteUint32(uint32(len(m)))
	for _, i := range sortedIndices(m) {
		w.WriteUint32(uint32(i))
		w.WriteScalar(m[i], FrBytes)
	}
}

func readScalarMap(r *encoding.Reader) (map[int]*big.Int, error) {
	n, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}
	m := make(map[int]*big.Int, n)
	for j := uint32(0); j < n; j++ {
		i, err := r.ReadUint32()
		if err != nil {
			return nil, err
		}
		s, err := r.ReadScalar(FrBytes)
		if err != nil {
			return nil, err
		}
		m[int(i)] = s
	}
	return m, nil
}

func readG1(r *encoding.Reader, p *bn254.G1Affine) error {
	b, err := r.ReadBytes()
	if err != nil {
		return err
	}
	if err := p.Unmarshal(b); err != nil {
		return ErrInvalidWireData
	}
	return nil
}

func readG2(r *encoding.Reader, p *bn254.G2Affine) error {
	b, err := r.ReadBytes()
	if err != nil {
		return err
	}
	if err := p.Unmarshal(b); err != nil {
		return ErrInvalidWireData
	}
	return nil
}

// MarshalBinary encodes a SecretKey.
func (sk *SecretKey) MarshalBinary() ([]byte, error) {
	w := encoding.NewWriter()
	w.WriteScalar(sk.X, FrBytes)
	w.WriteBytes(sk.XG.Marshal())
	w.WriteUint32(uint32(len(sk.Y)))
	for _, y := range sk.Y {
		w.WriteScalar(y, FrBytes)
	}
	return w.Bytes(), nil
}

// UnmarshalBinary decodes a SecretKey.
func (sk *SecretKey) UnmarshalBinary(data []byte) error {
	r := encoding.NewReader(data)
	x, err := r.ReadScalar(FrBytes)
	if err != nil {
		return ErrInvalidKeyData
	}
	sk.X = x
	if err := readG1(r, &sk.XG); err != nil {
		return ErrInvalidKeyData
	}
	n, err := r.ReadUint32()
	if err != nil {
		return ErrInvalidKeyData
	}
	sk.Y = make([]*big.Int, n)
	for i := uint32(0); i < n; i++ {
		if sk.Y[i], err = r.ReadScalar(FrBytes); err != nil {
			return ErrInvalidKeyData
		}
	}
	return nil
}

// MarshalBinary encodes a PublicKey.
func (pk *PublicKey) MarshalBinary() ([]byte, error) {
	w := encoding.NewWriter()
	writePublicKey(w, pk)
	return w.Bytes(), nil
}

// UnmarshalBinary decodes a PublicKey.
func (pk *PublicKey) UnmarshalBinary(data []byte) error {
	r := encoding.NewReader(data)
	if err := readG1(r, &pk.G); err != nil {
		return ErrInvalidKeyData
	}
	n, err := r.ReadUint32()
	if err != nil {
		return ErrInvalidKeyData
	}
	pk.Y = make([]bn254.G1Affine, n)
	for i := uint32(0); i < n; i++ {
		if err := readG1(r, &pk.Y[i]); err != nil {
			return ErrInvalidKeyData
		}
	}
	if err := readG2(r, &pk.GTilde); err != nil {
		return ErrInvalidKeyData
	}
	if err := readG2(r, &pk.XTilde); err != nil {
		return ErrInvalidKeyData
	}
	m, err := r.ReadUint32()
	if err != nil || m != n {
		return ErrInvalidKeyData
	}
	pk.YTilde = make([]bn254.G2Affine, m)
	for i := uint32(0); i < m; i++ {
		if err := readG2(r, &pk.YTilde[i]); err != nil {
			return ErrInvalidKeyData
		}
	}
	return nil
}

// MarshalBinary encodes an IssueRequest.
func (req *IssueRequest) MarshalBinary() ([]byte, error) {
	w := encoding.NewWriter()
	w.WriteBytes(req.C.Marshal())
	w.WriteBytes(req.Alpha.Marshal())
	writeScalarMap(w, req.S)
	w.WriteScalar(req.T, FrBytes)
	return w.Bytes(), nil
}

// UnmarshalBinary decodes an IssueRequest.
func (req *IssueRequest) UnmarshalBinary(data []byte) error {
	r := encoding.NewReader(data)
	if err := readG1(r, &req.C); err != nil {
		return ErrInvalidWireData
	}
	if err := readG1(r, &req.Alpha); err != nil {
		return ErrInvalidWireData
	}
	s, err := readScalarMap(r)
	if err != nil {
		return ErrInvalidWireData
	}
	req.S = s
	if req.T, err = r.ReadScalar(FrBytes); err != nil {
		return ErrInvalidWireData
	}
	return nil
}

// MarshalBinary encodes a BlindSignature.
func (bs *BlindSignature) MarshalBinary() ([]byte, error) {
	w := encoding.NewWriter()
	w.WriteBytes(bs.Sigma1.Marshal())
	w.WriteBytes(bs.Sigma2.Marshal())
	writeAttrMap(w, bs.Attrs)
	return w.Bytes(), nil
}

// UnmarshalBinary decodes a BlindSignature.
func (bs *BlindSignature) UnmarshalBinary(data []byte) error {
	r := encoding.NewReader(data)
	if err := readG1(r, &bs.Sigma1); err != nil {
		return ErrInvalidWireData
	}
	if err := readG1(r, &bs.Sigma2); err != nil {
		return ErrInvalidWireData
	}
	attrs, err := readAttrMap(r)
	if err != nil {
		return ErrInvalidWireData
	}
	bs.Attrs = attrs
	return nil
}

// MarshalBinary encodes a Credential.
func (cred *Credential) MarshalBinary() ([]byte, error) {
	w := encoding.NewWriter()
	w.WriteBytes(cred.Sig.Sigma1.Marshal())
	w.WriteBytes(cred.Sig.Sigma2.Marshal())
	writeAttrMap(w, cred.Attrs)
	return w.Bytes(), nil
}

// UnmarshalBinary decodes a Credential.
func (cred *Credential) UnmarshalBinary(data []byte) error {
	r := encoding.NewReader(data)
	if err := readG1(r, &cred.Sig.Sigma1); err != nil {
		return ErrInvalidWireData
	}
	if err := readG1(r, &cred.Sig.Sigma2); err != nil {
		return ErrInvalidWireData
	}
	attrs, err := readAttrMap(r)
	if err != nil {
		return ErrInvalidWireData
	}
	cred.Attrs = attrs
	return nil
}

// MarshalBinary encodes a DisclosureProof.
func (proof *DisclosureProof) MarshalBinary() ([]byte, error) {
	w := encoding.NewWriter()
	w.WriteBytes(proof.S1.Marshal())
	w.WriteBytes(proof.S2.Marshal())
	w.WriteBytes(gtBytes(&proof.K))
	w.WriteBytes(gtBytes(&proof.Alpha))
	writeScalarMap(w, proof.SHidden)
	w.WriteScalar(proof.T, FrBytes)
	writeAttrMap(w, proof.Disclosed)
	return w.Bytes(), nil
}

// UnmarshalBinary decodes a DisclosureProof.
func (proof *DisclosureProof) UnmarshalBinary(data []byte) error {
	r := encoding.NewReader(data)
	if err := readG1(r, &proof.S1); err != nil {
		return ErrInvalidWireData
	}
	if err := readG1(r, &proof.S2); err != nil {
		return ErrInvalidWireData
	}
	kb, err := r.ReadBytes()
	if err != nil {
		return ErrInvalidWireData
	}
	if proof.K, err = gtFromBytes(kb); err != nil {
		return ErrInvalidWireData
	}
	ab, err := r.ReadBytes()
	if err != nil {
		return ErrInvalidWireData
	}
	if proof.Alpha, err = gtFromBytes(ab); err != nil {
		return ErrInvalidWireData
	}
	if proof.SHidden, err = readScalarMap(r); err != nil {
		return ErrInvalidWireData
	}
	if proof.T, err = r.ReadScalar(FrBytes); err != nil {
		return ErrInvalidWireData
	}
	if proof.Disclosed, err = readAttrMap(r); err != nil {
		return ErrInvalidWireData
	}
	return nil
}
