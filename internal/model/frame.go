package model

// Frame represents a single extracted video image offered as a screenshot
// candidate. Frames are created by the extraction collaborator before a
// matching run begins and are read-only during matching except for the
// cached OCR text.
type Frame struct {
	ID   int    `json:"id"`   // Sequence index in extraction order
	Path string `json:"path"` // Image file location; the engine only reads it

	Timestamp    float64 `json:"timestamp,omitempty"` // Seconds from video start
	HasTimestamp bool    `json:"has_timestamp"`       // False in transcript-only mode; never fabricated

	Transcript string `json:"transcript,omitempty"` // Spoken text near the frame's timestamp, may be empty

	// ExtractedText caches the OCR result for the frame's lifetime so
	// scoring against multiple steps never re-runs extraction. Populated
	// exactly once by the batch extractor; empty text is a valid result.
	ExtractedText string `json:"extracted_text,omitempty"`
	Extracted     bool   `json:"-"`
}

// Step is one textual description of a process action to be illustrated.
// The ID is the ordinal position in the detailed-step list and defines the
// canonical ordering.
type Step struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
}

// ScoreEntry is one cell of the pairwise score matrix. Entries are
// ephemeral and exist only for the duration of a single matching run.
type ScoreEntry struct {
	FrameID int
	StepID  int
	Score   float64 // Always within [0,1]
}
