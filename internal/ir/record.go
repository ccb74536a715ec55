package ir

// VersionRecord is one stored version of a keyed fact on a bi-temporal field.
//
// Valid time comes from the writer. Transaction time is assigned by the store
// from its logical clock; TtTo stays NOW until a later version of the same key
// supersedes this one.
type VersionRecord struct {
	ID        string         `json:"id"` // Content-addressed hash
	Field     string         `json:"field"`
	Key       string         `json:"key"`
	VtFrom    Instant        `json:"vt_from"`
	VtTo      Instant        `json:"vt_to"`
	TtFrom    Instant        `json:"tt_from"`
	TtTo      Instant        `json:"tt_to"`
	Payload   map[string]any `json:"payload,omitempty"`
	IRVersion string         `json:"ir_version"`
}

// Current reports whether the version has not been superseded.
func (v VersionRecord) Current() bool {
	return v.TtTo.IsNow()
}
