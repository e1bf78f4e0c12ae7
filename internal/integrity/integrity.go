// Package integrity checks downloaded images against their published
// SHA-256 digests.
package integrity

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/afero"

	"isodepot/internal/entity"
)

const blockSize = 4096

// Verifier computes streaming SHA-256 digests of files on the injected
// filesystem.
type Verifier struct {
	fs  afero.Fs
	log *slog.Logger
}

func NewVerifier(fs afero.Fs, log *slog.Logger) *Verifier {
	return &Verifier{
		fs:  fs,
		log: log.With(slog.String("item", "Verifier")),
	}
}

// Verify compares the file digest against expected. An empty or placeholder
// expected value skips verification and reports a nominal pass; the Skipped
// flag is the caller's cue to warn. I/O problems count as a failed
// verification, they are never raised.
func (v *Verifier) Verify(filePath, expected string) entity.VerifyResult {
	if expected == "" || expected == entity.ChecksumUnset {
		v.log.Warn("Checksum verification skipped, no checksum configured", slog.String("path", filePath))

		return entity.VerifyResult{OK: true, Skipped: true}
	}

	expected = strings.TrimPrefix(expected, "sha256:")

	computed, err := v.digest(filePath)
	if err != nil {
		v.log.Error("Cannot compute file digest", slog.String("path", filePath), slog.Any("error", err))

		return entity.VerifyResult{Expected: expected}
	}

	return entity.VerifyResult{
		OK:       strings.EqualFold(computed, expected),
		Expected: expected,
		Computed: computed,
	}
}

func (v *Verifier) digest(filePath string) (string, error) {
	file, err := v.fs.Open(filePath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hasher := sha256.New()
	buf := make([]byte, blockSize)
	for {
		n, err := file.Read(buf)
		if n > 0 {
			hasher.Write(buf[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}
