package integrity

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"isodepot/internal/entity"
)

func testLog() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func writeImage(t *testing.T, fs afero.Fs, path string, content []byte) string {
	t.Helper()

	require.NoError(t, afero.WriteFile(fs, path, content, 0o644))

	sum := sha256.Sum256(content)

	return hex.EncodeToString(sum[:])
}

func TestVerifyRoundTrip(t *testing.T) {
	fs := afero.NewMemMapFs()
	// Larger than one 4 KiB block so the streaming path is exercised.
	content := []byte(strings.Repeat("isodepot", 1024))
	digest := writeImage(t, fs, "/dl/test.iso", content)

	v := NewVerifier(fs, testLog())

	testCases := []struct {
		name     string
		expected string
	}{
		{"plain digest", digest},
		{"sha256 prefix", "sha256:" + digest},
		{"upper case", strings.ToUpper(digest)},
		{"prefixed upper case", "sha256:" + strings.ToUpper(digest)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := v.Verify("/dl/test.iso", tc.expected)
			require.True(t, result.OK)
			require.False(t, result.Skipped)
		})
	}
}

func TestVerifyDetectsMutation(t *testing.T) {
	fs := afero.NewMemMapFs()
	content := []byte(strings.Repeat("isodepot", 1024))
	digest := writeImage(t, fs, "/dl/test.iso", content)

	mutated := make([]byte, len(content))
	copy(mutated, content)
	mutated[42] ^= 0x01
	require.NoError(t, afero.WriteFile(fs, "/dl/test.iso", mutated, 0o644))

	v := NewVerifier(fs, testLog())

	result := v.Verify("/dl/test.iso", digest)
	require.False(t, result.OK)
	require.False(t, result.Skipped)
	require.NotEqual(t, result.Expected, result.Computed)
}

func TestVerifySkipsWithoutChecksum(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeImage(t, fs, "/dl/test.iso", []byte("content"))

	v := NewVerifier(fs, testLog())

	for _, expected := range []string{"", entity.ChecksumUnset} {
		result := v.Verify("/dl/test.iso", expected)
		require.True(t, result.OK)
		require.True(t, result.Skipped)
	}
}

func TestVerifyMissingFileFails(t *testing.T) {
	v := NewVerifier(afero.NewMemMapFs(), testLog())

	result := v.Verify("/dl/missing.iso", "sha256:deadbeef")
	require.False(t, result.OK)
	require.False(t, result.Skipped)
}
