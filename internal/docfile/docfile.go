// Package docfile reads and writes the document persistence format.
//
// The format is line oriented:
//
//	META
//	DEFAULT|family|size|bold|italic|underline|strike|r|g|b
//	RUN|from|to|family|size|bold|italic|underline|strike|r|g|b
//	...
//	TEXT
//	<raw document text to end of file>
//
// Decoding never fails: a file that does not follow the format, lacks the
// TEXT marker, or contains a malformed DEFAULT or RUN line is loaded in its
// entirety as plain text under the default style. Only the collaborator
// boundary (opening or writing the file itself) reports errors.
package docfile

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/scribe-editor/scribe/internal/engine/document"
	"github.com/scribe-editor/scribe/internal/engine/style"
)

// Parsed is the result of decoding a persisted document.
type Parsed struct {
	Text    string
	Default *style.Style // nil when the file carried no DEFAULT line
	Runs    []style.Run  // nil when styling fell back to plain text
}

// Decode parses raw file content. On any malformation the whole content is
// returned as plain text with no styling.
func Decode(raw string) Parsed {
	fallback := Parsed{Text: raw}

	if raw == "" || !strings.HasPrefix(raw, "META") {
		return fallback
	}

	lines := splitLines(raw)
	if len(lines) == 0 || lines[0] != "META" {
		return fallback
	}

	var def *style.Style
	var runs []style.Run

	i := 1
	for {
		if i >= len(lines) {
			// no TEXT marker
			return fallback
		}
		line := lines[i]
		i++

		if line == "TEXT" {
			break
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		parts := strings.Split(line, "|")
		switch parts[0] {
		case "DEFAULT":
			if len(parts) != 10 {
				return fallback
			}
			st, err := parseStyleParts(parts[1:])
			if err != nil {
				return fallback
			}
			def = &st
		case "RUN":
			if len(parts) != 12 {
				return fallback
			}
			from, err1 := strconv.Atoi(parts[1])
			to, err2 := strconv.Atoi(parts[2])
			st, err3 := parseStyleParts(parts[3:])
			if err1 != nil || err2 != nil || err3 != nil {
				return fallback
			}
			runs = append(runs, style.Run{From: from, To: to, Style: st})
		default:
			return fallback
		}
	}

	// remaining lines are the text, rejoined with plain newlines
	return Parsed{Text: strings.Join(lines[i:], "\n"), Default: def, Runs: runs}
}

// Encode renders the document in the persistence format.
func Encode(text string, def style.Style, runs []style.Run) string {
	var sb strings.Builder

	sb.WriteString("META\n")
	sb.WriteString("DEFAULT|")
	sb.WriteString(encodeStyle(def))
	sb.WriteByte('\n')

	for _, r := range runs {
		if r.From >= r.To {
			continue
		}
		fmt.Fprintf(&sb, "RUN|%d|%d|%s\n", r.From, r.To, encodeStyle(r.Style))
	}

	sb.WriteString("TEXT\n")
	sb.WriteString(text)
	return sb.String()
}

// Load reads and decodes the file at path into a document. The fallback
// default style is used when the file carries no DEFAULT line. Only file
// access errors are reported.
func Load(path string, fallbackDefault style.Style) (*document.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	parsed := Decode(string(data))
	def := fallbackDefault
	if parsed.Default != nil {
		def = *parsed.Default
	}
	if len(parsed.Runs) == 0 {
		return document.New(parsed.Text, def), nil
	}
	return document.NewWithRuns(parsed.Text, def, parsed.Runs), nil
}

// Save writes the document to path in the persistence format.
func Save(path string, doc *document.Document) error {
	out := Encode(doc.Text(), doc.DefaultStyle(), doc.Runs())
	return os.WriteFile(path, []byte(out), 0o644)
}

func encodeStyle(s style.Style) string {
	return fmt.Sprintf("%s|%d|%d|%d|%d|%d|%d|%d|%d",
		s.Family, s.Size,
		boolBit(s.Bold), boolBit(s.Italic), boolBit(s.Underline), boolBit(s.Strike),
		s.Color.R, s.Color.G, s.Color.B)
}

// parseStyleParts parses family|size|bold|italic|underline|strike|r|g|b.
func parseStyleParts(parts []string) (style.Style, error) {
	nums := make([]int, 8)
	for i := 0; i < 8; i++ {
		n, err := strconv.Atoi(parts[1+i])
		if err != nil {
			return style.Style{}, err
		}
		nums[i] = n
	}

	return style.Style{
		Family:    parts[0],
		Size:      nums[0],
		Bold:      nums[1] != 0,
		Italic:    nums[2] != 0,
		Underline: nums[3] != 0,
		Strike:    nums[4] != 0,
		Color: style.Color{
			R: clamp255(nums[5]),
			G: clamp255(nums[6]),
			B: clamp255(nums[7]),
		},
	}, nil
}

func boolBit(b bool) int {
	if b {
		return 1
	}
	return 0
}

func clamp255(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// splitLines splits on \r\n, \n, or \r, mirroring line-reader semantics:
// terminators are consumed and a trailing terminator does not produce an
// extra empty line.
func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\n':
			lines = append(lines, s[start:i])
			start = i + 1
		case '\r':
			lines = append(lines, s[start:i])
			if i+1 < len(s) && s[i+1] == '\n' {
				i++
			}
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}
