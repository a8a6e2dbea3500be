package detect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposeOrdersBySeverityThenDeclaration(t *testing.T) {
	catalog, err := NewCatalog(nil)
	require.NoError(t, err)

	// Deliberately shuffled relative to severity and declaration order.
	triggered := []SignalResult{
		{ID: SignalURLShortener, Triggered: true, Detail: "bit.ly"},
		{ID: SignalRiskyAttachment, Triggered: true, Detail: "run.exe"},
		{ID: SignalReplyToMismatch, Triggered: true, Detail: "attacker.test"},
		{ID: SignalSPFFail, Triggered: true, Detail: "corp.test"},
	}

	explanations, signals, err := Compose(catalog, triggered)
	require.NoError(t, err)

	assert.Equal(t, []string{
		SignalSPFFail, SignalRiskyAttachment,
		SignalReplyToMismatch, SignalURLShortener,
	}, signals)
	require.Len(t, explanations, 4)
	assert.Equal(t, "SPF check failed for sending domain corp.test", explanations[0])
	assert.Equal(t, "Attachment run.exe has an executable or script file type", explanations[1])
}

func TestComposeOnlyTriggeredSignals(t *testing.T) {
	catalog, err := NewCatalog(nil)
	require.NoError(t, err)

	explanations, signals, err := Compose(catalog, nil)
	require.NoError(t, err)
	assert.Empty(t, explanations)
	assert.Empty(t, signals)
}

func TestComposeDeduplicatesIdenticalStrings(t *testing.T) {
	catalog, err := NewCatalog(nil)
	require.NoError(t, err)

	triggered := []SignalResult{
		{ID: SignalSPFFail, Triggered: true, Detail: "corp.test"},
		{ID: SignalSPFFail, Triggered: true, Detail: "corp.test"},
	}

	explanations, signals, err := Compose(catalog, triggered)
	require.NoError(t, err)
	assert.Len(t, explanations, 1)
	assert.Len(t, signals, 1)
}

func TestComposeUnknownSignalFails(t *testing.T) {
	catalog, err := NewCatalog(nil)
	require.NoError(t, err)

	_, _, err = Compose(catalog, []SignalResult{{ID: "bogus", Triggered: true}})
	assert.ErrorIs(t, err, ErrUnknownSignal)
}

func TestRenderFallsBackOnEmptyDetail(t *testing.T) {
	assert.Equal(t, "SPF check failed for sending domain unknown",
		render("SPF check failed for sending domain %s", ""))
	assert.Equal(t, "static text", render("static text", "ignored"))
}
