package crypto

import (
	"crypto/rand"
	"crypto/sha512"
	"encoding/base64"
	"io"
)

// GenerateRandomString returns a URL-safe random string of the given length.
func GenerateRandomString(length int) (string, error) {
	return generateRandomString(length, rand.Reader)
}

func generateRandomString(length int, rng io.Reader) (string, error) {
	bytes := make([]byte, length)
	if _, err := io.ReadFull(rng, bytes); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(bytes)[:length], nil
}

// getRandReader returns a reader seeded deterministically, or the
// system CSPRNG when no seed is given.
func getRandReader(seed string) io.Reader {
	if seed == "" {
		return rand.Reader
	}
	return &dRand{next: []byte(seed)}
}

// dRand is a deterministic byte stream built on repeated sha512. Half
// of each digest feeds the next state, the other half is output.
type dRand struct {
	next []byte
}

func (d *dRand) cycle() []byte {
	result := sha512.Sum512(d.next)
	d.next = result[:sha512.Size/2]
	return result[sha512.Size/2:]
}

func (d *dRand) Read(b []byte) (int, error) {
	n := 0
	for n < len(b) {
		out := d.cycle()
		n += copy(b[n:], out)
	}
	return n, nil
}
