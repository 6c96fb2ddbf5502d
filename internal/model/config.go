package model

import "fmt"

// Config is the complete stepshot configuration. Scoring heuristics that
// used to be hardcoded (keyword lists, synonym tables, weights) live here as
// injectable data so they can be tuned or substituted in tests without code
// changes.
type Config struct {
	Matching MatchingConfig `yaml:"matching" mapstructure:"matching"`
	OCR      OCRConfig      `yaml:"ocr" mapstructure:"ocr"`
	Steps    StepsConfig    `yaml:"steps" mapstructure:"steps"`
	Video    VideoConfig    `yaml:"video" mapstructure:"video"`
	Output   OutputConfig   `yaml:"output" mapstructure:"output"`
}

// MatchingConfig controls the similarity scorer, the matrix builder and the
// greedy solver.
type MatchingConfig struct {
	// MinConfidence is the minimum combined score for the greedy solver to
	// accept a pair. Pairs below it fall through to the chronological
	// filler. Must be within [0,1].
	MinConfidence float64 `yaml:"min_confidence_threshold" mapstructure:"min_confidence_threshold"`

	// Signal weights. All must be non-negative and the text weights must
	// not both be zero.
	OCRWeight        float64 `yaml:"ocr_weight" mapstructure:"ocr_weight"`
	TranscriptWeight float64 `yaml:"transcript_weight" mapstructure:"transcript_weight"`
	TemporalWeight   float64 `yaml:"temporal_weight" mapstructure:"temporal_weight"`

	// ImportanceKeywords are domain terms (action verbs, UI nouns) whose
	// presence in both texts counts extra toward similarity.
	ImportanceKeywords []string `yaml:"importance_keywords" mapstructure:"importance_keywords"`

	// SynonymTable lets distinct tokens count as overlapping, e.g.
	// "click" ≈ "select". The relation is applied symmetrically.
	SynonymTable map[string][]string `yaml:"synonym_table" mapstructure:"synonym_table"`

	// Stopwords are excluded from tokenization entirely.
	Stopwords []string `yaml:"stopwords" mapstructure:"stopwords"`
}

// OCRConfig selects and tunes the text-extraction backend.
type OCRConfig struct {
	// Backend is "tesseract", "vision" (OpenAI-compatible vision model) or
	// "none" for transcript-only matching.
	Backend string `yaml:"backend" mapstructure:"backend"`

	// Binary is the tesseract executable, looked up on PATH when empty.
	Binary string `yaml:"binary" mapstructure:"binary"`

	// Concurrency bounds the extraction worker pool. OCR is CPU-bound and
	// independent per frame, so this typically tracks core count.
	Concurrency int `yaml:"concurrency" mapstructure:"concurrency"`

	// Vision backend settings.
	Model             string  `yaml:"model" mapstructure:"model"`
	APIKey            string  `yaml:"-" mapstructure:"-"`
	BaseURL           string  `yaml:"base_url" mapstructure:"base_url"`
	TimeoutSeconds    int     `yaml:"timeout_seconds" mapstructure:"timeout_seconds"`
	MaxRetries        int     `yaml:"max_retries" mapstructure:"max_retries"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
}

// StepsConfig configures LLM-based detailed-step generation.
type StepsConfig struct {
	// Provider is "openai", "ollama" or "" to use the keyword fallback.
	Provider       string `yaml:"provider" mapstructure:"provider"`
	Model          string `yaml:"model" mapstructure:"model"`
	APIKey         string `yaml:"-" mapstructure:"-"`
	BaseURL        string `yaml:"base_url" mapstructure:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds" mapstructure:"timeout_seconds"`
	MaxTokens      int    `yaml:"max_tokens" mapstructure:"max_tokens"`
	MaxSteps       int    `yaml:"max_steps" mapstructure:"max_steps"`
}

// VideoConfig configures the ffmpeg frame-extraction collaborator.
type VideoConfig struct {
	FFmpeg          string `yaml:"ffmpeg" mapstructure:"ffmpeg"`
	FFprobe         string `yaml:"ffprobe" mapstructure:"ffprobe"`
	Format          string `yaml:"format" mapstructure:"format"`
	IntervalSeconds int    `yaml:"interval_seconds" mapstructure:"interval_seconds"`
}

// OutputConfig controls report rendering.
type OutputConfig struct {
	Verbose       bool `yaml:"verbose" mapstructure:"verbose"`
	IncludeScores bool `yaml:"include_scores" mapstructure:"include_scores"`
}

// ConfigError reports a configuration invariant violation. It is fatal at
// run start, before any matrix work begins, since it indicates a caller
// defect rather than a runtime condition.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

// Validate checks the value ranges the engine depends on.
func (c *Config) Validate() error {
	m := c.Matching
	if m.MinConfidence < 0 || m.MinConfidence > 1 {
		return &ConfigError{Field: "matching.min_confidence_threshold", Reason: fmt.Sprintf("must be within [0,1], got %v", m.MinConfidence)}
	}
	if m.OCRWeight < 0 {
		return &ConfigError{Field: "matching.ocr_weight", Reason: fmt.Sprintf("must be non-negative, got %v", m.OCRWeight)}
	}
	if m.TranscriptWeight < 0 {
		return &ConfigError{Field: "matching.transcript_weight", Reason: fmt.Sprintf("must be non-negative, got %v", m.TranscriptWeight)}
	}
	if m.TemporalWeight < 0 {
		return &ConfigError{Field: "matching.temporal_weight", Reason: fmt.Sprintf("must be non-negative, got %v", m.TemporalWeight)}
	}
	if m.OCRWeight == 0 && m.TranscriptWeight == 0 && m.TemporalWeight == 0 {
		return &ConfigError{Field: "matching", Reason: "all signal weights are zero"}
	}
	if c.OCR.Concurrency < 1 {
		return &ConfigError{Field: "ocr.concurrency", Reason: fmt.Sprintf("must be at least 1, got %d", c.OCR.Concurrency)}
	}
	if c.OCR.MaxRetries < 0 {
		return &ConfigError{Field: "ocr.max_retries", Reason: fmt.Sprintf("must be non-negative, got %d", c.OCR.MaxRetries)}
	}
	return nil
}

// DefaultConfig returns the tuned defaults. The keyword and synonym lists
// target screen-recorded business process walkthroughs; callers matching a
// different domain should override them.
func DefaultConfig() *Config {
	return &Config{
		Matching: MatchingConfig{
			MinConfidence:    0.02,
			OCRWeight:        0.7,
			TranscriptWeight: 0.4,
			TemporalWeight:   0.3,
			ImportanceKeywords: []string{
				"click", "select", "open", "login", "submit", "download",
				"export", "settings", "button", "menu", "filter", "search",
				"update", "delete", "verify", "schedule", "report",
			},
			SynonymTable: map[string][]string{
				"connect":     {"login", "log", "sign", "authenticate", "access", "open", "launch"},
				"login":       {"connect", "sign", "log", "authenticate", "credentials", "password", "username"},
				"navigate":    {"go", "open", "click", "select", "menu", "tab", "page", "home", "dashboard"},
				"extract":     {"download", "export", "get", "pull", "fetch", "retrieve", "save"},
				"download":    {"extract", "export", "save", "get", "fetch"},
				"export":      {"download", "extract", "save", "csv", "excel", "file"},
				"validate":    {"check", "verify", "confirm", "ensure", "review", "inspect", "compare"},
				"filter":      {"sort", "search", "find", "select", "criteria", "column", "remove"},
				"process":     {"handle", "execute", "perform", "run", "action", "apply"},
				"generate":    {"create", "produce", "build", "make", "report", "output"},
				"update":      {"modify", "change", "edit", "set", "status", "save"},
				"credentials": {"login", "password", "username", "user", "authentication"},
				"application": {"portal", "system", "app", "tool", "platform", "software", "website"},
				"portal":      {"application", "website", "system", "dashboard", "console", "platform"},
				"user":        {"account", "member", "person", "employee", "staff", "admin"},
				"remove":      {"delete", "revoke", "deactivate", "disable", "clear", "unassign"},
				"license":     {"licence", "subscription", "seat", "entitlement", "assignment"},
				"server":      {"machine", "host", "instance", "node", "system"},
				"schedule":    {"template", "cron", "trigger", "timer", "recurring"},
				"scan":        {"check", "detect", "analyze", "inspect", "audit", "assess"},
				"status":      {"state", "result", "outcome", "condition", "progress"},
				"click":       {"press", "select", "tap", "choose", "button", "hit"},
				"search":      {"find", "look", "query", "filter", "locate"},
				"email":       {"mail", "notification", "send", "message", "alert"},
				"active":      {"enabled", "running", "online", "live", "operational"},
				"inactive":    {"disabled", "offline", "dormant", "idle", "unused"},
			},
			Stopwords: []string{
				"the", "and", "for", "that", "this", "with", "from", "are",
				"was", "were", "been", "have", "has", "had", "not", "but",
				"all", "can", "will", "would", "should", "could", "may",
				"its", "than", "then", "them", "they", "their", "there",
				"each", "which", "when", "where", "how", "who", "whom",
				"into", "through", "during", "before", "after", "above",
				"below", "between", "under", "over", "some", "any", "also",
				"shall", "must", "using", "based", "upon",
			},
		},
		OCR: OCRConfig{
			Backend:           "tesseract",
			Concurrency:       4,
			Model:             "gpt-4o-mini",
			TimeoutSeconds:    30,
			MaxRetries:        2,
			RequestsPerSecond: 2,
		},
		Steps: StepsConfig{
			Provider:       "",
			Model:          "gpt-4o-mini",
			TimeoutSeconds: 60,
			MaxTokens:      1500,
			MaxSteps:       25,
		},
		Video: VideoConfig{
			FFmpeg:          "ffmpeg",
			FFprobe:         "ffprobe",
			Format:          "jpg",
			IntervalSeconds: 10,
		},
		Output: OutputConfig{
			IncludeScores: true,
		},
	}
}
