package palette

import (
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jo-hoe/brandkit/internal/assets"
)

const (
	// prominentSelector lists the elements whose inline styles are scanned.
	prominentSelector = "header, nav, button, a"
	maxProminent      = 50
	maxCSSColors      = 3
)

var hexColorPattern = regexp.MustCompile(`#([0-9a-fA-F]{6})`)

// styleText collects inline <style> text followed by the style attributes of the first
// prominent elements, in document order.
func styleText(doc *goquery.Document) []string {
	var chunks []string
	doc.Find("style").Each(func(_ int, s *goquery.Selection) {
		chunks = append(chunks, s.Text())
	})
	doc.Find(prominentSelector).EachWithBreak(func(i int, s *goquery.Selection) bool {
		if i >= maxProminent {
			return false
		}
		if style, ok := s.Attr("style"); ok {
			chunks = append(chunks, style)
		}
		return true
	})
	return chunks
}

// hexLiterals returns every 6-digit hex color literal in chunks, upper-cased.
func hexLiterals(chunks []string) []string {
	var out []string
	for _, chunk := range chunks {
		for _, m := range hexColorPattern.FindAllStringSubmatch(chunk, -1) {
			out = append(out, "#"+strings.ToUpper(m[1]))
		}
	}
	return out
}

// rankColors orders distinct brand colors by descending frequency. Ties keep the order
// of first appearance.
func rankColors(literals []string) []assets.RGB {
	type entry struct {
		color assets.RGB
		count int
	}
	var ranked []*entry
	index := map[string]*entry{}
	for _, lit := range literals {
		if e, ok := index[lit]; ok {
			e.count++
			continue
		}
		c, err := assets.ParseHex(lit)
		if err != nil || !IsBrandColor(c) {
			continue
		}
		e := &entry{color: c, count: 1}
		index[lit] = e
		ranked = append(ranked, e)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].count > ranked[j].count
	})

	out := make([]assets.RGB, 0, len(ranked))
	for _, e := range ranked {
		out = append(out, e.color)
	}
	return out
}

// cssColors returns up to three brand colors declared in the page's inline styles.
func cssColors(doc *goquery.Document) []assets.RGB {
	ranked := rankColors(hexLiterals(styleText(doc)))
	if len(ranked) > maxCSSColors {
		ranked = ranked[:maxCSSColors]
	}
	return ranked
}
