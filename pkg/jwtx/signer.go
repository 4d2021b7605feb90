package jwtx

// Supported JWT signing algorithms.
const (
	AlgorithmHS256 = "HS256"
	AlgorithmRS256 = "RS256"
	AlgorithmES256 = "ES256"
	AlgorithmEdDSA = "EdDSA"
)

// Signer is our interface for anything that can sign JWTs.
type Signer interface {
	Alg() string
	KID() string
	Sign(Claims) (string, error)

	// VerificationKey is the key a Verifier needs for tokens from this
	// signer: the public key, or the shared secret for HMAC.
	VerificationKey() any

	// PublicJWK returns the publishable key. Symmetric signers return false.
	PublicJWK() (JWK, bool)

	Validate() error
}

// NewSignerHS256 creates an HS256 signer from raw key bytes.
func NewSignerHS256(kid string, key []byte) (Signer, error) {
	return newHS256Signer(kid, key)
}

// NewSignerRS256 creates an RS256 signer from PEM bytes.
func NewSignerRS256(kid string, pemKey []byte) (Signer, error) {
	return newRS256Signer(kid, pemKey)
}

// NewSignerEdDSA creates an EdDSA signer from PEM bytes.
// Ed25519 keys must be in PKCS8 format.
func NewSignerEdDSA(kid string, pemKey []byte) (Signer, error) {
	return newEdDSASigner(kid, pemKey)
}

// NewSignerES256 creates an ES256 signer from PEM bytes.
// ECDSA P-256 keys must be in PKCS8 format.
func NewSignerES256(kid string, pemKey []byte) (Signer, error) {
	return newES256Signer(kid, pemKey)
}

// NewSigner dispatches on algorithm. key is raw bytes for HS256 and PEM
// for everything else.
func NewSigner(algorithm, kid string, key []byte) (Signer, error) {
	switch algorithm {
	case AlgorithmHS256:
		return NewSignerHS256(kid, key)
	case AlgorithmRS256:
		return NewSignerRS256(kid, key)
	case AlgorithmES256:
		return NewSignerES256(kid, key)
	case AlgorithmEdDSA:
		return NewSignerEdDSA(kid, key)
	default:
		return nil, unsupportedAlgorithm(algorithm)
	}
}
