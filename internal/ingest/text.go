package ingest

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Matches markdown headings ("## Fund Overview") and underlined or
// all-caps heading lines common in text exports.
var headingRe = regexp.MustCompile(`^#{1,6}\s+(.+?)\s*$`)

// ParseTextFile extracts titled sections from a plain-text or markdown
// factsheet. Heading lines open a new section; everything else
// accumulates into the current one.
func ParseTextFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	out := &Document{Name: filepath.Base(path)}
	var current Section
	var buf strings.Builder

	flush := func() {
		current.Text = strings.TrimSpace(buf.String())
		if current.Text != "" {
			out.Sections = append(out.Sections, current)
		}
		buf.Reset()
	}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024) // 1MB buffer

	for scanner.Scan() {
		line := scanner.Text()

		if m := headingRe.FindStringSubmatch(line); m != nil {
			flush()
			current = Section{Title: m[1]}
			continue
		}
		buf.WriteString(line)
		buf.WriteString("\n")
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}
	return out, nil
}
