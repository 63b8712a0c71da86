package crypto

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"fmt"
	"io"
	"math/big"
	mrand "math/rand"
	"time"
)

// GenerateCertificates derives a CA and a fresh leaf certificate. With
// the same seed the CA comes out identical on both ends, so host and
// client can verify each other without exchanging anything up front.
// An empty seed produces a one-off random CA.
func GenerateCertificates(seed string) (*x509.CertPool, tls.Certificate, error) {
	var pool *x509.CertPool
	var cert tls.Certificate
	var err error

	if seed == "" {
		seed, err = GenerateRandomString(32)
		if err != nil {
			return pool, cert, fmt.Errorf("GenerateRandomString(32): %s", err)
		}
	}

	caKeyPEM, caCertPEM, err := generateCA(seed)
	if err != nil {
		return pool, cert, fmt.Errorf("generateCA(%s): %s", seed, err)
	}

	pool = x509.NewCertPool()
	pool.AppendCertsFromPEM(caCertPEM)

	cert, err = generateLeaf(caCertPEM, caKeyPEM)
	if err != nil {
		return pool, cert, fmt.Errorf("generateLeaf(cert, key): %s", err)
	}

	return pool, cert, nil
}

// generateCA builds a self-signed ECDSA P256 CA from the seed and
// returns PEM-encoded key and certificate.
func generateCA(seed string) ([]byte, []byte, error) {
	rng := getRandReader(seed)

	key, err := deriveKey(elliptic.P256(), rng)
	if err != nil {
		return nil, nil, fmt.Errorf("deriveKey(P256): %s", err)
	}

	cn, err := generateRandomString(8, rng)
	if err != nil {
		return nil, nil, fmt.Errorf("generating random common name: %s", err)
	}

	org, err := generateRandomString(8, rng)
	if err != nil {
		return nil, nil, fmt.Errorf("generating random organization: %s", err)
	}

	tmpl := x509.Certificate{
		NotBefore:    time.Date(1970, 0, 0, 0, 0, 0, 0, time.UTC),
		NotAfter:     time.Date(2063, 4, 5, 11, 0, 0, 0, time.UTC),
		SerialNumber: big.NewInt(mrand.Int63()),
		Subject: pkix.Name{
			CommonName:   cn,
			Organization: []string{org},
		},
		BasicConstraintsValid: true,
		IsCA:                  true,
		KeyUsage:              x509.KeyUsageCertSign,
	}

	cert, err := x509.CreateCertificate(rand.Reader, &tmpl, &tmpl, &key.PublicKey, key)
	if err != nil {
		return nil, nil, fmt.Errorf("creating CA certificate: %s", err)
	}

	keyDER, err := x509.MarshalECPrivateKey(key)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to marshal ECDSA private key: %v", err)
	}

	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER})
	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: cert})

	return keyPEM, certPEM, nil
}

// deriveKey builds an ECDSA key whose scalar comes straight from rng.
// ecdsa.GenerateKey cannot be used here: it randomizes how many bytes
// it consumes from its reader, so a seeded stream would not yield the
// same key on both ends.
func deriveKey(curve elliptic.Curve, rng io.Reader) (*ecdsa.PrivateKey, error) {
	// extra bytes keep the bias from the mod reduction negligible
	buf := make([]byte, (curve.Params().N.BitLen()+7)/8+8)
	if _, err := io.ReadFull(rng, buf); err != nil {
		return nil, fmt.Errorf("reading key material: %s", err)
	}

	// 1 <= d <= N-1
	nMinusOne := new(big.Int).Sub(curve.Params().N, big.NewInt(1))
	d := new(big.Int).SetBytes(buf)
	d.Mod(d, nMinusOne)
	d.Add(d, big.NewInt(1))

	key := &ecdsa.PrivateKey{
		D:         d,
		PublicKey: ecdsa.PublicKey{Curve: curve},
	}
	key.PublicKey.X, key.PublicKey.Y = curve.ScalarBaseMult(d.Bytes())

	return key, nil
}

// generateLeaf creates a short-lived certificate with a fresh random
// key, signed by the CA. Leaves are never reused across sessions.
func generateLeaf(caCertPEM, caKeyPEM []byte) (tls.Certificate, error) {
	var out tls.Certificate

	caKeyDER, _ := pem.Decode(caKeyPEM)
	if caKeyDER == nil {
		return out, fmt.Errorf("failed to decode PEM block from key")
	}

	caKey, err := x509.ParseECPrivateKey(caKeyDER.Bytes)
	if err != nil {
		return out, fmt.Errorf("x509.ParseECPrivateKey(key): %s", err)
	}

	caCertDER, _ := pem.Decode(caCertPEM)
	if caCertDER == nil {
		return out, fmt.Errorf("failed to decode PEM block from cert")
	}

	caCert, err := x509.ParseCertificate(caCertDER.Bytes)
	if err != nil {
		return out, fmt.Errorf("x509.ParseCertificate(cert): %s", err)
	}

	key, err := ecdsa.GenerateKey(caCert.PublicKey.(*ecdsa.PublicKey).Curve, rand.Reader)
	if err != nil {
		return out, fmt.Errorf("failed to generate key pair: %v", err)
	}

	cn, err := generateRandomString(8, getRandReader(""))
	if err != nil {
		return out, fmt.Errorf("generating random common name: %s", err)
	}

	tmpl := x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: cn},
		NotBefore:    time.Date(1970, 0, 0, 0, 0, 0, 0, time.UTC),
		NotAfter:     time.Date(2063, 4, 5, 11, 0, 0, 0, time.UTC),
		KeyUsage:     x509.KeyUsageDigitalSignature,
	}

	cert, err := x509.CreateCertificate(rand.Reader, &tmpl, caCert, &key.PublicKey, caKey)
	if err != nil {
		return out, fmt.Errorf("failed to create leaf certificate: %v", err)
	}

	out = tls.Certificate{
		Certificate: [][]byte{cert},
		PrivateKey:  key,
	}

	return out, nil
}
