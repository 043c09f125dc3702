package ir

// Version constants for the event model and generator.
const (
	// IRVersion is the event model schema version.
	IRVersion = "1"

	// EngineVersion is the mdaq generator version.
	EngineVersion = "0.1.0"
)
