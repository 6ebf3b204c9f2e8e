package docfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scribe-editor/scribe/internal/engine/style"
)

func TestDecodeStyledDocument(t *testing.T) {
	raw := "META\n" +
		"DEFAULT|Monospaced|18|0|0|0|0|0|0|0\n" +
		"RUN|0|5|Serif|24|1|0|0|0|255|0|0\n" +
		"RUN|5|11|Monospaced|18|0|0|0|0|0|0|0\n" +
		"TEXT\n" +
		"hello world"

	p := Decode(raw)

	require.NotNil(t, p.Default)
	assert.Equal(t, "hello world", p.Text)
	assert.Equal(t, "Monospaced", p.Default.Family)
	assert.Equal(t, 18, p.Default.Size)

	require.Len(t, p.Runs, 2)
	assert.Equal(t, 0, p.Runs[0].From)
	assert.Equal(t, 5, p.Runs[0].To)
	assert.True(t, p.Runs[0].Style.Bold)
	assert.Equal(t, "Serif", p.Runs[0].Style.Family)
	assert.Equal(t, uint8(255), p.Runs[0].Style.Color.R)
}

func TestDecodeFallbacks(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"no META", "hello\nworld"},
		{"META prefix but not exact line", "METADATA\nTEXT\nhi"},
		{"missing TEXT", "META\nDEFAULT|Monospaced|18|0|0|0|0|0|0|0\n"},
		{"DEFAULT wrong field count", "META\nDEFAULT|Monospaced|18\nTEXT\nhi"},
		{"RUN wrong field count", "META\nRUN|0|5|Serif\nTEXT\nhi"},
		{"non-numeric field", "META\nDEFAULT|Monospaced|big|0|0|0|0|0|0|0\nTEXT\nhi"},
		{"unknown token", "META\nBOGUS|1|2\nTEXT\nhi"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Decode(tt.raw)
			assert.Equal(t, tt.raw, p.Text, "fallback must keep the raw bytes as text")
			assert.Nil(t, p.Default)
			assert.Nil(t, p.Runs)
		})
	}
}

func TestDecodeEmpty(t *testing.T) {
	p := Decode("")
	assert.Equal(t, "", p.Text)
	assert.Nil(t, p.Runs)
}

func TestDecodeSkipsBlankHeaderLines(t *testing.T) {
	raw := "META\n\nDEFAULT|Monospaced|18|0|0|0|0|0|0|0\n\nTEXT\nbody"
	p := Decode(raw)

	require.NotNil(t, p.Default)
	assert.Equal(t, "body", p.Text)
}

func TestDecodeMultilineText(t *testing.T) {
	raw := "META\nDEFAULT|Monospaced|18|0|0|0|0|0|0|0\nTEXT\nline one\r\nline two\nline three"
	p := Decode(raw)

	// the text section is rejoined with plain newlines
	assert.Equal(t, "line one\nline two\nline three", p.Text)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	def := style.Default()
	bold := def.WithBold(true).WithColor(style.Color{R: 1, G: 2, B: 3})
	runs := []style.Run{
		{From: 0, To: 4, Style: bold},
		{From: 4, To: 9, Style: def},
		{From: 7, To: 7, Style: bold}, // empty, skipped by Encode
	}

	out := Encode("some text", def, runs)
	p := Decode(out)

	require.NotNil(t, p.Default)
	assert.Equal(t, "some text", p.Text)
	assert.Equal(t, def, *p.Default)
	require.Len(t, p.Runs, 2)
	assert.Equal(t, bold, p.Runs[0].Style)
	assert.Equal(t, def, p.Runs[1].Style)
}

func TestDecodeClampsColors(t *testing.T) {
	raw := "META\nDEFAULT|Monospaced|18|0|0|0|0|999|-4|128\nTEXT\nx"
	p := Decode(raw)

	require.NotNil(t, p.Default)
	assert.Equal(t, style.Color{R: 255, G: 0, B: 128}, p.Default.Color)
}

func TestLoadAndSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.txt")

	raw := "META\n" +
		"DEFAULT|Monospaced|18|0|0|0|0|0|0|0\n" +
		"RUN|0|5|Serif|24|1|0|0|0|0|0|0\n" +
		"TEXT\n" +
		"hello world"
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	doc, err := Load(path, style.Default())
	require.NoError(t, err)
	assert.Equal(t, "hello world", doc.Text())
	assert.True(t, doc.StyleAt(0).Bold)
	assert.False(t, doc.StyleAt(5).Bold)

	// save, reload, compare
	out := filepath.Join(dir, "saved.txt")
	require.NoError(t, Save(out, doc))

	doc2, err := Load(out, style.Default())
	require.NoError(t, err)
	assert.Equal(t, doc.Text(), doc2.Text())
	assert.Equal(t, doc.Runs(), doc2.Runs())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.txt"), style.Default())
	assert.Error(t, err)
}

func TestLoadClampsRunBounds(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.txt")

	raw := "META\n" +
		"DEFAULT|Monospaced|18|0|0|0|0|0|0|0\n" +
		"RUN|2|999|Serif|24|1|0|0|0|0|0|0\n" + // clamped to [2,5)
		"RUN|4|1|Serif|24|1|0|0|0|0|0|0\n" + // inverted, dropped
		"TEXT\n" +
		"abcde"
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	doc, err := Load(path, style.Default())
	require.NoError(t, err)
	assert.False(t, doc.StyleAt(1).Bold)
	assert.True(t, doc.StyleAt(2).Bold)
	assert.True(t, doc.StyleAt(4).Bold)
}
