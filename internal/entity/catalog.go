package entity

// ChecksumUnset is the placeholder the catalog carries for releases whose
// checksum is not published in a machine-readable form. Verification against
// it is skipped, not failed.
const ChecksumUnset = "sha256:..."

// Release is one downloadable image of a distribution. URL starts empty (or
// pre-seeded for fixed links) and is overwritten by the catalog binder as
// resolution succeeds.
type Release struct {
	Label    string `yaml:"label" json:"label"`
	Key      string `yaml:"key" json:"key"`
	URL      string `yaml:"url" json:"url"`
	Checksum string `yaml:"checksum" json:"checksum"`
}

// Distribution groups the releases of one OS together with its presentation
// metadata.
type Distribution struct {
	// ID is the stable slug used in resolution keys and note file names.
	ID           string     `yaml:"id" json:"id"`
	Name         string     `yaml:"name" json:"name"`
	Icon         string     `yaml:"icon" json:"icon"`
	Note         string     `yaml:"note,omitempty" json:"note,omitempty"`
	OfficialPage string     `yaml:"official_page,omitempty" json:"official_page,omitempty"`
	Releases     []*Release `yaml:"releases" json:"releases"`
}
