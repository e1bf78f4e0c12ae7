package catalog

import (
	"io"
	"log/slog"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"isodepot/internal/entity"
)

const testSkeleton = `
distributions:
  - id: ubuntu
    name: Ubuntu
    icon: "U"
    releases:
      - label: 24.04 LTS
        key: ubuntu_24.04
        url: ""
        checksum: "sha256:..."
  - id: mint
    name: Linux Mint
    icon: "M"
    releases:
      - label: 21.3 Cinnamon
        key: mint_21.3_cinnamon
        url: https://mirror.example.org/mint.iso
        checksum: "sha256:..."
`

func testLog() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func loadTestCatalog(t *testing.T) *Catalog {
	t.Helper()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "distributions.yml", []byte(testSkeleton), 0o644))

	c, err := Load(fs, "distributions.yml", testLog())
	require.NoError(t, err)

	return c
}

func TestLoadEmbeddedSkeleton(t *testing.T) {
	c, err := Load(afero.NewMemMapFs(), "", testLog())
	require.NoError(t, err)

	distros := c.Snapshot()
	require.NotEmpty(t, distros)

	// The seeded Mint URL from the skeleton must survive loading.
	_, release, exists := c.Lookup("mint_21.3_cinnamon")
	require.True(t, exists)
	require.NotEmpty(t, release.URL)
	require.Equal(t, entity.ChecksumUnset, release.Checksum)
}

func TestMergeIsIdempotent(t *testing.T) {
	c := loadTestCatalog(t)

	links := map[string]string{
		"ubuntu_24.04": "https://releases.example.org/ubuntu.iso",
	}

	c.Merge(links)
	first := c.Snapshot()

	c.Merge(links)
	second := c.Snapshot()

	require.Equal(t, first, second)

	_, release, exists := c.Lookup("ubuntu_24.04")
	require.True(t, exists)
	require.Equal(t, "https://releases.example.org/ubuntu.iso", release.URL)
}

func TestMergeKeepsUnresolvedEntries(t *testing.T) {
	c := loadTestCatalog(t)

	c.Merge(map[string]string{"ubuntu_24.04": "https://releases.example.org/ubuntu.iso"})

	// Mint was not in the resolved set, its seeded URL stays.
	_, release, exists := c.Lookup("mint_21.3_cinnamon")
	require.True(t, exists)
	require.Equal(t, "https://mirror.example.org/mint.iso", release.URL)
}

func TestMergeIgnoresUnknownKeys(t *testing.T) {
	c := loadTestCatalog(t)

	before := c.Snapshot()
	c.Merge(map[string]string{"slackware_15": "https://example.org/slack.iso"})
	require.Equal(t, before, c.Snapshot())
}

func TestSnapshotIsACopy(t *testing.T) {
	c := loadTestCatalog(t)

	snap := c.Snapshot()
	snap[0].Releases[0].URL = "mutated"

	_, release, _ := c.Lookup("ubuntu_24.04")
	require.Empty(t, release.URL)
}

func TestLookupUnknownKey(t *testing.T) {
	c := loadTestCatalog(t)

	_, _, exists := c.Lookup("nope")
	require.False(t, exists)
}
