package ir

// Version constants for the storage schema and engine.
const (
	// IRVersion is the shape encoding version stored with every record version.
	IRVersion = "1"

	// EngineVersion is the bitemp engine version.
	EngineVersion = "0.1.0"
)
