package token

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/hex"
	"encoding/pem"
)

// KeyBits is the size of generated signing keys.
const KeyBits = 2048

// Key is an RSA signing key together with its fingerprint.
type Key struct {
	privateKey  *rsa.PrivateKey
	fingerprint string
}

// GenerateKey generates a new RSA key for token signing.
func GenerateKey() (*Key, error) {
	pkey, err := rsa.GenerateKey(rand.Reader, KeyBits)
	if err != nil {
		return nil, err
	}
	return newKey(pkey)
}

func newKey(pkey *rsa.PrivateKey) (*Key, error) {
	der, err := x509.MarshalPKIXPublicKey(&pkey.PublicKey)
	if err != nil {
		return nil, err
	}
	sum := sha256.Sum256(der)
	return &Key{privateKey: pkey, fingerprint: hex.EncodeToString(sum[:])}, nil
}

// Public returns the verification half of the key.
func (k *Key) Public() *rsa.PublicKey {
	return &k.privateKey.PublicKey
}

// PublicPem returns the PKIX public key in PEM form.
func (k *Key) PublicPem() []byte {
	der, err := x509.MarshalPKIXPublicKey(&k.privateKey.PublicKey)
	if err != nil {
		panic(err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})
}

// Fingerprint is the hex SHA-256 digest of the PKIX public key.
func (k *Key) Fingerprint() string {
	return k.fingerprint
}
