package core

import (
	"time"
)

// AuthVerdict is the outcome of an email authentication check as reported
// by the ingestion pipeline.
type AuthVerdict string

const (
	VerdictPass AuthVerdict = "pass"
	VerdictFail AuthVerdict = "fail"
	VerdictNone AuthVerdict = "none"
)

// RiskLevel is the coarse bucket derived from the numeric score.
type RiskLevel string

const (
	LevelOK         RiskLevel = "ok"
	LevelWarn       RiskLevel = "warn"
	LevelSuspicious RiskLevel = "suspicious"
)

// Attachment describes a single attachment of a normalized message.
type Attachment struct {
	Filename string `json:"filename"`
	MimeType string `json:"mime_type"`
	Size     int64  `json:"size"`
}

// NormalizedMessage is the read-only input record produced by the ingestion
// collaborator. ProviderMessageID is the alternate identity used by the
// fallback index when the canonical lookup misses.
type NormalizedMessage struct {
	MessageID         string              `json:"message_id"`
	ProviderMessageID string              `json:"provider_message_id,omitempty"`
	FromDomain        string              `json:"from_domain"`
	ReplyToDomain     string              `json:"reply_to_domain,omitempty"`
	SPF               AuthVerdict         `json:"spf"`
	DKIM              AuthVerdict         `json:"dkim"`
	DMARC             AuthVerdict         `json:"dmarc"`
	Attachments       []Attachment        `json:"attachments,omitempty"`
	URLs              []string            `json:"urls,omitempty"`
	Headers           map[string][]string `json:"headers,omitempty"`
}

// RiskAssessment is the pipeline's output: a bounded score, its level, and
// the ranked explanation list for the UI to render.
type RiskAssessment struct {
	Score        int       `json:"score"`
	Level        RiskLevel `json:"level"`
	Explanations []string  `json:"explanations"`
	Signals      []string  `json:"signals"`
	ComputedAt   time.Time `json:"computed_at"`
	ProcessingID string    `json:"processing_id"`
}

// CacheEntry wraps a RiskAssessment with its expiry. Owned by the cache;
// readers get the assessment, never the entry.
type CacheEntry struct {
	MessageID  string
	Assessment *RiskAssessment
	ExpiresAt  time.Time
}
