package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ParseHTMLFile extracts titled sections from a factsheet exported as
// HTML. Headings open a new section; paragraphs, list items and table
// rows accumulate into the current one.
func ParseHTMLFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("parse HTML: %w", err)
	}

	out := &Document{Name: filepath.Base(path)}
	var current Section

	flush := func() {
		current.Text = strings.TrimSpace(current.Text)
		if current.Text != "" {
			out.Sections = append(out.Sections, current)
		}
	}

	doc.Find("h1, h2, h3, h4, p, li, tr").Each(func(i int, s *goquery.Selection) {
		switch goquery.NodeName(s) {
		case "h1", "h2", "h3", "h4":
			flush()
			current = Section{Title: strings.TrimSpace(s.Text())}
		case "tr":
			// Flatten table rows so figures stay next to their labels.
			var cells []string
			s.Find("td, th").Each(func(j int, c *goquery.Selection) {
				if t := strings.TrimSpace(c.Text()); t != "" {
					cells = append(cells, t)
				}
			})
			if len(cells) > 0 {
				current.Text += strings.Join(cells, " | ") + "\n"
			}
		default:
			// Skip li nodes nested in already-captured structures that
			// yield empty text.
			if t := strings.TrimSpace(s.Text()); t != "" && s.ParentsFiltered("li").Length() == 0 {
				current.Text += t + "\n"
			}
		}
	})
	flush()

	if len(out.Sections) == 0 {
		// Fall back to the whole body when the markup has no structure
		// we recognize.
		if t := strings.TrimSpace(doc.Find("body").Text()); t != "" {
			out.Sections = append(out.Sections, Section{Text: t})
		}
	}
	return out, nil
}
