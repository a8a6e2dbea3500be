package detect

import (
	"net/url"
	"path/filepath"
	"strings"

	"github.com/mikey/mailrisk/internal/core"
)

// Detector evaluates one signal against a normalized message. Detectors are
// pure, deterministic, and independent; no detector observes another's
// result, so they may run in any order or in parallel.
type Detector interface {
	// ID returns the catalog identifier of the signal this detector emits.
	ID() string

	// Evaluate inspects the message and reports whether the signal fired.
	Evaluate(msg *core.NormalizedMessage) SignalResult
}

// DefaultRiskyExtensions is the built-in attachment denylist, overridable
// via configuration.
var DefaultRiskyExtensions = []string{
	".exe", ".scr", ".pif", ".com", ".bat", ".cmd",
	".js", ".jse", ".vbs", ".vbe", ".wsf", ".ps1",
	".jar", ".msi", ".hta",
}

// DefaultShortenerDomains is the built-in URL shortener host list,
// overridable via configuration.
var DefaultShortenerDomains = []string{
	"bit.ly", "tinyurl.com", "t.co", "goo.gl", "ow.ly",
	"is.gd", "buff.ly", "cutt.ly", "rebrand.ly", "tiny.cc",
}

// NewDetectors returns the standard detector set. The set is fixed at
// startup; extending it means adding a detector here and a matching catalog
// entry.
func NewDetectors(riskyExtensions, shortenerDomains []string) []Detector {
	if len(riskyExtensions) == 0 {
		riskyExtensions = DefaultRiskyExtensions
	}
	if len(shortenerDomains) == 0 {
		shortenerDomains = DefaultShortenerDomains
	}
	return []Detector{
		authDetector{id: SignalSPFFail, verdict: func(m *core.NormalizedMessage) core.AuthVerdict { return m.SPF }},
		authDetector{id: SignalDKIMFail, verdict: func(m *core.NormalizedMessage) core.AuthVerdict { return m.DKIM }},
		authDetector{id: SignalDMARCFail, verdict: func(m *core.NormalizedMessage) core.AuthVerdict { return m.DMARC }},
		replyToDetector{},
		attachmentDetector{denylist: normalizeSet(riskyExtensions)},
		shortenerDetector{hosts: normalizeSet(shortenerDomains)},
	}
}

func normalizeSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" {
			set[v] = struct{}{}
		}
	}
	return set
}

// authDetector covers the SPF/DKIM/DMARC signals. Only an explicit fail
// verdict triggers; an absent or unknown verdict gets the benefit of the
// doubt so that messages without authentication metadata are not penalized.
type authDetector struct {
	id      string
	verdict func(*core.NormalizedMessage) core.AuthVerdict
}

func (d authDetector) ID() string { return d.id }

func (d authDetector) Evaluate(msg *core.NormalizedMessage) SignalResult {
	if d.verdict(msg) != core.VerdictFail {
		return SignalResult{ID: d.id}
	}
	return SignalResult{ID: d.id, Triggered: true, Detail: msg.FromDomain}
}

// replyToDetector triggers only when a Reply-To header is present and its
// domain differs from the From domain. Absence of Reply-To never triggers.
type replyToDetector struct{}

func (replyToDetector) ID() string { return SignalReplyToMismatch }

func (replyToDetector) Evaluate(msg *core.NormalizedMessage) SignalResult {
	replyTo := strings.ToLower(strings.TrimSpace(msg.ReplyToDomain))
	if replyTo == "" {
		return SignalResult{ID: SignalReplyToMismatch}
	}
	from := strings.ToLower(strings.TrimSpace(msg.FromDomain))
	if replyTo == from {
		return SignalResult{ID: SignalReplyToMismatch}
	}
	return SignalResult{ID: SignalReplyToMismatch, Triggered: true, Detail: msg.ReplyToDomain}
}

// attachmentDetector triggers when any attachment's extension is in the
// executable/script denylist, regardless of size.
type attachmentDetector struct {
	denylist map[string]struct{}
}

func (attachmentDetector) ID() string { return SignalRiskyAttachment }

func (d attachmentDetector) Evaluate(msg *core.NormalizedMessage) SignalResult {
	for _, att := range msg.Attachments {
		ext := strings.ToLower(filepath.Ext(att.Filename))
		if _, risky := d.denylist[ext]; risky {
			return SignalResult{ID: SignalRiskyAttachment, Triggered: true, Detail: att.Filename}
		}
	}
	return SignalResult{ID: SignalRiskyAttachment}
}

// shortenerDetector triggers when any extracted URL's host is a known URL
// shortener.
type shortenerDetector struct {
	hosts map[string]struct{}
}

func (shortenerDetector) ID() string { return SignalURLShortener }

func (d shortenerDetector) Evaluate(msg *core.NormalizedMessage) SignalResult {
	for _, raw := range msg.URLs {
		u, err := url.Parse(raw)
		if err != nil {
			continue
		}
		host := strings.ToLower(u.Hostname())
		if _, known := d.hosts[host]; known {
			return SignalResult{ID: SignalURLShortener, Triggered: true, Detail: host}
		}
	}
	return SignalResult{ID: SignalURLShortener}
}
