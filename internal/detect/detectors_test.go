package detect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikey/mailrisk/internal/core"
)

func detectorByID(t *testing.T, id string) Detector {
	t.Helper()
	for _, d := range NewDetectors(nil, nil) {
		if d.ID() == id {
			return d
		}
	}
	t.Fatalf("no detector with id %s", id)
	return nil
}

func TestAuthDetectors(t *testing.T) {
	tests := []struct {
		name      string
		signal    string
		msg       core.NormalizedMessage
		triggered bool
	}{
		{"spf explicit fail triggers", SignalSPFFail, core.NormalizedMessage{FromDomain: "evil.test", SPF: core.VerdictFail}, true},
		{"spf pass does not trigger", SignalSPFFail, core.NormalizedMessage{SPF: core.VerdictPass}, false},
		{"spf none gets benefit of the doubt", SignalSPFFail, core.NormalizedMessage{SPF: core.VerdictNone}, false},
		{"spf absent verdict does not trigger", SignalSPFFail, core.NormalizedMessage{}, false},
		{"dkim fail triggers", SignalDKIMFail, core.NormalizedMessage{DKIM: core.VerdictFail}, true},
		{"dkim none does not trigger", SignalDKIMFail, core.NormalizedMessage{DKIM: core.VerdictNone}, false},
		{"dmarc fail triggers", SignalDMARCFail, core.NormalizedMessage{DMARC: core.VerdictFail}, true},
		{"dmarc pass does not trigger", SignalDMARCFail, core.NormalizedMessage{DMARC: core.VerdictPass}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := detectorByID(t, tt.signal).Evaluate(&tt.msg)
			assert.Equal(t, tt.signal, res.ID)
			assert.Equal(t, tt.triggered, res.Triggered)
		})
	}
}

func TestReplyToDetector(t *testing.T) {
	tests := []struct {
		name      string
		msg       core.NormalizedMessage
		triggered bool
	}{
		{"absent reply-to never triggers", core.NormalizedMessage{FromDomain: "corp.test"}, false},
		{"matching domains do not trigger", core.NormalizedMessage{FromDomain: "corp.test", ReplyToDomain: "corp.test"}, false},
		{"case difference is not a mismatch", core.NormalizedMessage{FromDomain: "Corp.Test", ReplyToDomain: "corp.test"}, false},
		{"different domain triggers", core.NormalizedMessage{FromDomain: "corp.test", ReplyToDomain: "attacker.test"}, true},
	}

	d := detectorByID(t, SignalReplyToMismatch)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := d.Evaluate(&tt.msg)
			assert.Equal(t, tt.triggered, res.Triggered)
		})
	}
}

func TestAttachmentDetector(t *testing.T) {
	tests := []struct {
		name      string
		msg       core.NormalizedMessage
		triggered bool
		detail    string
	}{
		{"no attachments", core.NormalizedMessage{}, false, ""},
		{
			"pdf is fine",
			core.NormalizedMessage{Attachments: []core.Attachment{{Filename: "invoice.pdf", Size: 12345}}},
			false, "",
		},
		{
			"exe triggers regardless of size",
			core.NormalizedMessage{Attachments: []core.Attachment{{Filename: "setup.exe", Size: 1}}},
			true, "setup.exe",
		},
		{
			"uppercase extension still triggers",
			core.NormalizedMessage{Attachments: []core.Attachment{{Filename: "PAYROLL.JS"}}},
			true, "PAYROLL.JS",
		},
		{
			"risky among safe triggers",
			core.NormalizedMessage{Attachments: []core.Attachment{{Filename: "a.txt"}, {Filename: "run.ps1"}}},
			true, "run.ps1",
		},
	}

	d := detectorByID(t, SignalRiskyAttachment)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := d.Evaluate(&tt.msg)
			require.Equal(t, tt.triggered, res.Triggered)
			if tt.triggered {
				assert.Equal(t, tt.detail, res.Detail)
			}
		})
	}
}

func TestShortenerDetector(t *testing.T) {
	tests := []struct {
		name      string
		urls      []string
		triggered bool
	}{
		{"no urls", nil, false},
		{"plain url does not trigger", []string{"https://example.test/report"}, false},
		{"shortener host triggers", []string{"https://bit.ly/3xyzzy"}, true},
		{"shortener with port triggers", []string{"http://tinyurl.com:80/a"}, true},
		{"unparseable url is skipped", []string{"://notaurl", "https://t.co/abc"}, true},
		{"shortener as path does not trigger", []string{"https://example.test/bit.ly"}, false},
	}

	d := detectorByID(t, SignalURLShortener)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := d.Evaluate(&core.NormalizedMessage{URLs: tt.urls})
			assert.Equal(t, tt.triggered, res.Triggered)
		})
	}
}

func TestCustomDenylists(t *testing.T) {
	detectors := NewDetectors([]string{".xyz"}, []string{"short.test"})

	var att, short Detector
	for _, d := range detectors {
		switch d.ID() {
		case SignalRiskyAttachment:
			att = d
		case SignalURLShortener:
			short = d
		}
	}
	require.NotNil(t, att)
	require.NotNil(t, short)

	res := att.Evaluate(&core.NormalizedMessage{Attachments: []core.Attachment{{Filename: "x.xyz"}}})
	assert.True(t, res.Triggered)
	res = att.Evaluate(&core.NormalizedMessage{Attachments: []core.Attachment{{Filename: "x.exe"}}})
	assert.False(t, res.Triggered, "custom denylist replaces the built-in one")

	res = short.Evaluate(&core.NormalizedMessage{URLs: []string{"https://short.test/a"}})
	assert.True(t, res.Triggered)
	res = short.Evaluate(&core.NormalizedMessage{URLs: []string{"https://bit.ly/a"}})
	assert.False(t, res.Triggered)
}
