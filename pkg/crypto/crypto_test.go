package crypto

import (
	"bytes"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"testing"
)

func TestGenerateCertificates_WithSeed(t *testing.T) {
	t.Parallel()

	seed := "shared-console-key"
	pool, cert, err := GenerateCertificates(seed)

	if err != nil {
		t.Fatalf("GenerateCertificates(%q) error = %v, want nil", seed, err)
	}
	if pool == nil {
		t.Error("GenerateCertificates() returned nil CA pool")
	}
	if cert.PrivateKey == nil {
		t.Error("GenerateCertificates() returned certificate with nil PrivateKey")
	}
	if len(cert.Certificate) == 0 {
		t.Error("GenerateCertificates() returned certificate with no certificate data")
	}
}

func TestGenerateCertificates_WithoutSeed(t *testing.T) {
	t.Parallel()

	pool, cert, err := GenerateCertificates("")

	if err != nil {
		t.Fatalf("GenerateCertificates(\"\") error = %v, want nil", err)
	}
	if pool == nil {
		t.Error("GenerateCertificates() returned nil CA pool")
	}
	if cert.PrivateKey == nil {
		t.Error("GenerateCertificates() returned certificate with nil PrivateKey")
	}
}

func TestGenerateCertificates_LeafVerifiesAgainstSameSeedCA(t *testing.T) {
	t.Parallel()

	seed := "deterministic-seed"

	pool1, _, err := GenerateCertificates(seed)
	if err != nil {
		t.Fatalf("first GenerateCertificates() error = %v", err)
	}

	_, cert2, err := GenerateCertificates(seed)
	if err != nil {
		t.Fatalf("second GenerateCertificates() error = %v", err)
	}

	// both ends derive the same CA, so a leaf from one end must chain
	// to the pool built on the other
	leaf, err := x509.ParseCertificate(cert2.Certificate[0])
	if err != nil {
		t.Fatalf("parsing leaf certificate: %v", err)
	}

	if _, err := leaf.Verify(x509.VerifyOptions{
		Roots:     pool1,
		KeyUsages: []x509.ExtKeyUsage{x509.ExtKeyUsageAny},
	}); err != nil {
		t.Errorf("leaf from same seed did not verify: %v", err)
	}
}

func TestGenerateCertificates_DifferentSeedsDoNotChain(t *testing.T) {
	t.Parallel()

	pool1, _, err := GenerateCertificates("seed1")
	if err != nil {
		t.Fatalf("GenerateCertificates(\"seed1\") error = %v", err)
	}

	_, cert2, err := GenerateCertificates("seed2")
	if err != nil {
		t.Fatalf("GenerateCertificates(\"seed2\") error = %v", err)
	}

	leaf, err := x509.ParseCertificate(cert2.Certificate[0])
	if err != nil {
		t.Fatalf("parsing leaf certificate: %v", err)
	}

	if _, err := leaf.Verify(x509.VerifyOptions{
		Roots:     pool1,
		KeyUsages: []x509.ExtKeyUsage{x509.ExtKeyUsageAny},
	}); err == nil {
		t.Error("leaf from a different seed verified against the wrong CA")
	}
}

// The whole key-based verification scheme rests on both ends deriving
// the same CA key from the same seed, every time.
func TestGenerateCA_DeterministicKey(t *testing.T) {
	t.Parallel()

	var firstKey []byte
	var firstSubject []byte
	for i := 0; i < 8; i++ {
		keyPEM, certPEM, err := generateCA("fixed-seed")
		if err != nil {
			t.Fatalf("generateCA() error = %v", err)
		}

		cert := parseCertPEM(t, certPEM)

		if i == 0 {
			firstKey = keyPEM
			firstSubject = cert.RawSubject
			continue
		}
		if !bytes.Equal(keyPEM, firstKey) {
			t.Fatalf("run %d derived a different CA key from the same seed", i)
		}
		if !bytes.Equal(cert.RawSubject, firstSubject) {
			t.Fatalf("run %d derived a different CA subject from the same seed", i)
		}
	}
}

func TestDeriveKey_OnCurve(t *testing.T) {
	t.Parallel()

	key, err := deriveKey(elliptic.P256(), getRandReader("scalar-seed"))
	if err != nil {
		t.Fatalf("deriveKey() error = %v", err)
	}

	if key.D.Sign() <= 0 || key.D.Cmp(elliptic.P256().Params().N) >= 0 {
		t.Errorf("scalar %v out of range", key.D)
	}
	if !elliptic.P256().IsOnCurve(key.X, key.Y) {
		t.Error("derived public key is not on the curve")
	}
}

func parseCertPEM(t *testing.T, certPEM []byte) *x509.Certificate {
	t.Helper()

	block, _ := pem.Decode(certPEM)
	if block == nil {
		t.Fatal("failed to decode certificate PEM")
	}
	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		t.Fatalf("x509.ParseCertificate() error = %v", err)
	}
	return cert
}

func TestGetRandReader_Deterministic(t *testing.T) {
	t.Parallel()

	buf1 := make([]byte, 32)
	buf2 := make([]byte, 32)

	r1 := getRandReader("test-seed")
	r2 := getRandReader("test-seed")

	if _, err := r1.Read(buf1); err != nil {
		t.Fatalf("first read error = %v", err)
	}
	if _, err := r2.Read(buf2); err != nil {
		t.Fatalf("second read error = %v", err)
	}

	if !bytes.Equal(buf1, buf2) {
		t.Error("same seed produced different random bytes")
	}
}

func TestGetRandReader_WithoutSeed(t *testing.T) {
	t.Parallel()

	if r := getRandReader(""); r != rand.Reader {
		t.Error("getRandReader(\"\") should return crypto/rand.Reader")
	}
}

func TestGenerateRandomString(t *testing.T) {
	t.Parallel()

	for _, length := range []int{8, 16, 32} {
		s, err := GenerateRandomString(length)
		if err != nil {
			t.Fatalf("GenerateRandomString(%d) error = %v", length, err)
		}
		if len(s) != length {
			t.Errorf("GenerateRandomString(%d) length = %d", length, len(s))
		}
	}
}
