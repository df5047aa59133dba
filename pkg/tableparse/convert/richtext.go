package convert

import (
	"html"
	"strings"

	"github.com/ukaji3/tableparse-go/pkg/tableparse/models"
)

// Unicode super/subscript characters and their ASCII equivalents. Text
// like "H₂O" or "x²" becomes real <sub>/<sup> markup on the HTML path.
var superscriptRunes = map[rune]rune{
	'⁰': '0', '¹': '1', '²': '2', '³': '3', '⁴': '4',
	'⁵': '5', '⁶': '6', '⁷': '7', '⁸': '8', '⁹': '9',
	'ⁿ': 'n', '⁺': '+', '⁻': '-', '⁼': '=', '⁽': '(', '⁾': ')',
}

var subscriptRunes = map[rune]rune{
	'₀': '0', '₁': '1', '₂': '2', '₃': '3', '₄': '4',
	'₅': '5', '₆': '6', '₇': '7', '₈': '8', '₉': '9',
	'₊': '+', '₋': '-', '₌': '=', '₍': '(', '₎': ')',
}

// HasUnicodeScripts reports whether the text contains super- or
// subscript characters.
func HasUnicodeScripts(text string) bool {
	for _, r := range text {
		if _, ok := superscriptRunes[r]; ok {
			return true
		}
		if _, ok := subscriptRunes[r]; ok {
			return true
		}
	}
	return false
}

// ConvertUnicodeScripts HTML-escapes text and rewrites runs of unicode
// super/subscript characters as <sup>/<sub> elements.
func ConvertUnicodeScripts(text string) string {
	var b strings.Builder
	runes := []rune(text)
	for i := 0; i < len(runes); {
		if _, ok := superscriptRunes[runes[i]]; ok {
			var group strings.Builder
			for i < len(runes) {
				mapped, ok := superscriptRunes[runes[i]]
				if !ok {
					break
				}
				group.WriteRune(mapped)
				i++
			}
			b.WriteString("<sup>")
			b.WriteString(html.EscapeString(group.String()))
			b.WriteString("</sup>")
			continue
		}
		if _, ok := subscriptRunes[runes[i]]; ok {
			var group strings.Builder
			for i < len(runes) {
				mapped, ok := subscriptRunes[runes[i]]
				if !ok {
					break
				}
				group.WriteRune(mapped)
				i++
			}
			b.WriteString("<sub>")
			b.WriteString(html.EscapeString(group.String()))
			b.WriteString("</sub>")
			continue
		}
		b.WriteString(html.EscapeString(string(runes[i])))
		i++
	}
	return b.String()
}

// runsToHTML renders rich-text runs with real script markup.
func runsToHTML(runs []models.RichRun) string {
	var b strings.Builder
	for _, run := range runs {
		text := html.EscapeString(run.Text)
		switch run.VertAlign {
		case models.VertAlignSuperscript:
			b.WriteString("<sup>" + text + "</sup>")
		case models.VertAlignSubscript:
			b.WriteString("<sub>" + text + "</sub>")
		default:
			b.WriteString(text)
		}
	}
	return b.String()
}

// runsToMarkdown renders rich-text runs with the sigil convention:
// ^text^ for superscript, ~text~ for subscript. Markdown tables cannot
// carry real script typesetting.
func runsToMarkdown(runs []models.RichRun) string {
	var b strings.Builder
	for _, run := range runs {
		switch run.VertAlign {
		case models.VertAlignSuperscript:
			b.WriteString("^" + run.Text + "^")
		case models.VertAlignSubscript:
			b.WriteString("~" + run.Text + "~")
		default:
			b.WriteString(run.Text)
		}
	}
	return b.String()
}
