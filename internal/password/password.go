// Package password implements the credential value type: password policy
// enforcement, argon2id hashing, and verification.
package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"

	"github.com/skillforge/skillforge/internal/errs"
)

// Argon2id parameters (tuned for server-side hashing).
const (
	argonTime    uint32 = 3         // iterations
	argonMemory  uint32 = 64 * 1024 // 64 MB
	argonThreads uint8  = 1
	argonKeyLen  uint32 = 32
	argonSaltLen        = 16
)

// Credential holds an irreversibly hashed password. The plaintext is never
// retained, and no equality is defined: the only exposed operation over the
// secret is Verify.
type Credential struct {
	encoded string
}

// New validates plaintext against the password policy and, on success,
// hashes it with argon2id over a fresh random salt. The first violated rule
// is returned as a *PolicyError.
func New(plaintext string) (Credential, error) {
	if perr := checkPolicy(plaintext); perr != nil {
		return Credential{}, perr
	}

	salt := make([]byte, argonSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return Credential{}, fmt.Errorf("generate salt: %w", err)
	}
	hash := argon2.IDKey([]byte(plaintext), salt, argonTime, argonMemory, argonThreads, argonKeyLen)

	encoded := fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, argonMemory, argonTime, argonThreads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	)
	return Credential{encoded: encoded}, nil
}

// FromHash rehydrates a Credential from its stored encoding. No policy is
// applied: policy is a creation-time gate only.
func FromHash(encoded string) Credential {
	return Credential{encoded: encoded}
}

// Encoded returns the stored hash encoding for persistence.
func (c Credential) Encoded() string { return c.encoded }

// Verify recomputes the hash over candidate using the parameters and salt
// embedded in the stored encoding and compares in constant time. A mismatch
// is (false, nil); an error is returned only when the stored encoding itself
// cannot be parsed, which wraps errs.ErrHashCorruption.
func (c Credential) Verify(candidate string) (bool, error) {
	salt, hash, params, err := decodeHash(c.encoded)
	if err != nil {
		return false, err
	}
	got := argon2.IDKey([]byte(candidate), salt, params.time, params.memory, params.threads, uint32(len(hash)))
	return subtle.ConstantTimeCompare(got, hash) == 1, nil
}

type hashParams struct {
	memory  uint32
	time    uint32
	threads uint8
}

// decodeHash parses a PHC-format argon2id encoding:
// $argon2id$v=19$m=65536,t=3,p=1$<salt>$<hash>
func decodeHash(encoded string) ([]byte, []byte, hashParams, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 {
		return nil, nil, hashParams{}, fmt.Errorf("%w: want 6 segments, got %d", errs.ErrHashCorruption, len(parts))
	}
	if parts[1] != "argon2id" {
		return nil, nil, hashParams{}, fmt.Errorf("%w: unsupported algorithm %q", errs.ErrHashCorruption, parts[1])
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return nil, nil, hashParams{}, fmt.Errorf("%w: bad version segment", errs.ErrHashCorruption)
	}
	if version != argon2.Version {
		return nil, nil, hashParams{}, fmt.Errorf("%w: unsupported version %d", errs.ErrHashCorruption, version)
	}

	var memory, iterations, threads uint32
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &threads); err != nil {
		return nil, nil, hashParams{}, fmt.Errorf("%w: bad parameter segment", errs.ErrHashCorruption)
	}
	if threads == 0 || threads > 255 {
		return nil, nil, hashParams{}, fmt.Errorf("%w: parallelism %d out of range", errs.ErrHashCorruption, threads)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return nil, nil, hashParams{}, fmt.Errorf("%w: bad salt encoding", errs.ErrHashCorruption)
	}
	hash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return nil, nil, hashParams{}, fmt.Errorf("%w: bad hash encoding", errs.ErrHashCorruption)
	}
	if len(hash) == 0 {
		return nil, nil, hashParams{}, fmt.Errorf("%w: empty hash", errs.ErrHashCorruption)
	}

	return salt, hash, hashParams{memory: memory, time: iterations, threads: uint8(threads)}, nil
}
