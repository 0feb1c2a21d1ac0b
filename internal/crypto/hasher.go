// Package crypto hashes account credentials with argon2id.
package crypto

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// HashPrefix marks values produced by Argon2Hasher. Stored credentials
// without it are legacy plaintext.
const HashPrefix = "$argon2id$"

// ErrMalformedHash is returned when a prefixed value cannot be decoded.
var ErrMalformedHash = errors.New("malformed argon2id hash")

// Hasher turns credentials into storable hashes and checks them.
type Hasher interface {
	Hash(credential string) (string, error)
	// Verify reports whether credential matches stored, and whether stored
	// should be replaced by a fresh hash.
	Verify(credential, stored string) (ok bool, needsRehash bool, err error)
}

// Params are the argon2id cost parameters.
type Params struct {
	Time    uint32
	Memory  uint32 // KiB
	Threads uint8
	SaltLen uint32
	KeyLen  uint32
}

// DefaultParams follows the RFC 9106 second recommended option.
var DefaultParams = Params{
	Time:    3,
	Memory:  64 * 1024,
	Threads: 4,
	SaltLen: 16,
	KeyLen:  32,
}

// Upper bounds accepted when decoding a stored hash, so a tampered record
// cannot make Verify allocate or spin without limit.
const (
	maxMemory = 1024 * 1024 // KiB
	maxTime   = 64
)

// Argon2Hasher implements Hasher with argon2.IDKey.
type Argon2Hasher struct {
	params Params
}

// NewArgon2Hasher creates a hasher with the given parameters.
func NewArgon2Hasher(p Params) *Argon2Hasher {
	return &Argon2Hasher{params: p}
}

// Hash returns $argon2id$v=19$m=..,t=..,p=..$salt$key with unpadded base64.
func (h *Argon2Hasher) Hash(credential string) (string, error) {
	salt := make([]byte, h.params.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	key := argon2.IDKey([]byte(credential), salt, h.params.Time, h.params.Memory, h.params.Threads, h.params.KeyLen)

	return fmt.Sprintf("%sv=%d$m=%d,t=%d,p=%d$%s$%s",
		HashPrefix, argon2.Version,
		h.params.Memory, h.params.Time, h.params.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify checks credential against stored in constant time.
func (h *Argon2Hasher) Verify(credential, stored string) (bool, bool, error) {
	if !strings.HasPrefix(stored, HashPrefix) {
		// legacy plaintext record
		ok := subtle.ConstantTimeCompare([]byte(credential), []byte(stored)) == 1
		return ok, ok, nil
	}

	p, salt, key, err := decode(stored)
	if err != nil {
		return false, false, err
	}

	other := argon2.IDKey([]byte(credential), salt, p.Time, p.Memory, p.Threads, p.KeyLen)
	if subtle.ConstantTimeCompare(key, other) != 1 {
		return false, false, nil
	}

	rehash := p.Time != h.params.Time || p.Memory != h.params.Memory || p.Threads != h.params.Threads
	return true, rehash, nil
}

func decode(stored string) (Params, []byte, []byte, error) {
	// "", "argon2id", "v=19", "m=..,t=..,p=..", salt, key
	parts := strings.Split(stored, "$")
	if len(parts) != 6 {
		return Params{}, nil, nil, ErrMalformedHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return Params{}, nil, nil, ErrMalformedHash
	}

	var p Params
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.Memory, &p.Time, &p.Threads); err != nil {
		return Params{}, nil, nil, ErrMalformedHash
	}
	// argon2.IDKey panics on zero time or threads
	if p.Time == 0 || p.Time > maxTime || p.Threads == 0 || p.Memory == 0 || p.Memory > maxMemory {
		return Params{}, nil, nil, ErrMalformedHash
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil || len(salt) == 0 {
		return Params{}, nil, nil, ErrMalformedHash
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(key) == 0 {
		return Params{}, nil, nil, ErrMalformedHash
	}

	p.SaltLen = uint32(len(salt))
	p.KeyLen = uint32(len(key))
	return p, salt, key, nil
}
