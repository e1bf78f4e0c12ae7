package entity

// DownloadResult describes the outcome of a single download invocation. It is
// transient and never persisted.
type DownloadResult struct {
	OK          bool   `json:"ok"`
	FinalURL    string `json:"final_url"`
	Bytes       int64  `json:"bytes"`
	Destination string `json:"destination"`
}

// LinkCheck is the outcome of probing a download URL before exposing it.
type LinkCheck struct {
	Usable bool   `json:"usable"`
	Reason string `json:"reason"`
}

// VerifyResult is the outcome of a checksum verification. Skipped means no
// real checksum was configured and the pass is nominal only.
type VerifyResult struct {
	OK       bool   `json:"ok"`
	Skipped  bool   `json:"skipped"`
	Expected string `json:"expected,omitempty"`
	Computed string `json:"computed,omitempty"`
}
