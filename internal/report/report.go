// Package report renders significance results as Markdown tables and HTML.
package report

import (
	"fmt"
	"math"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"sigplot/domain/significance"
)

// Markdown renders one section per group: the directional matrix in star
// notation, the pairwise comparisons and, when present, the omnibus test.
// Row i, column j reads "i is greater than j at this level".
func Markdown(result *significance.Result) string {
	var b strings.Builder
	b.WriteString("# Significance report\n\n")
	if result == nil {
		b.WriteString("No result.\n")
		return b.String()
	}

	th := result.Thresholds
	fmt.Fprintf(&b, "Strategy `%s`. Levels: %s p < %g, %s p < %g, %s p < %g, %s p < %g.\n\n",
		result.Strategy,
		stars(significance.LevelVeryStrong), th.VeryStrong,
		stars(significance.LevelStrong), th.Strong,
		stars(significance.LevelModerate), th.Moderate,
		stars(significance.LevelWeak), th.Weak)
	if p := result.MinPValue(); !math.IsNaN(p) {
		fmt.Fprintf(&b, "Smallest p-value: %s.\n\n", formatP(p))
	}

	for _, g := range result.Groups {
		writeGroup(&b, g)
	}
	return b.String()
}

func writeGroup(b *strings.Builder, g significance.GroupResult) {
	fmt.Fprintf(b, "## Group %s\n\n", g.Group)
	fmt.Fprintf(b, "Plan: %s.", g.Plan)
	if o := g.Omnibus; o != nil {
		fmt.Fprintf(b, " One-way ANOVA F(%d, %d) = %.4g, p = %s.", o.DFBetween, o.DFWithin, o.FStatistic, formatP(o.PValue))
	}
	b.WriteString("\n\n")

	if len(g.Categories) == 0 {
		return
	}
	b.WriteString("| |")
	for _, c := range g.Categories {
		fmt.Fprintf(b, " %s |", c)
	}
	b.WriteString("\n|---|")
	for range g.Categories {
		b.WriteString("---|")
	}
	b.WriteString("\n")
	for i, c := range g.Categories {
		fmt.Fprintf(b, "| %s |", c)
		for j := range g.Categories {
			if i == j {
				b.WriteString(" - |")
				continue
			}
			fmt.Fprintf(b, " %s |", stars(g.Matrix.At(i, j)))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if len(g.Comparisons) == 0 {
		return
	}
	b.WriteString("| A | B | mean(A) - mean(B) | statistic | p |\n|---|---|---|---|---|\n")
	for _, c := range g.Comparisons {
		fmt.Fprintf(b, "| %s | %s | %.4g | %.4g | %s |\n", c.A, c.B, c.MeanDiff, c.Statistic, formatP(c.PValue))
	}
	b.WriteString("\n")
}

// stars escapes asterisks so Markdown does not read them as emphasis.
func stars(l significance.Level) string {
	return strings.ReplaceAll(l.Stars(), "*", `\*`)
}

func formatP(p float64) string {
	if p < 1e-4 {
		return fmt.Sprintf("%.2e", p)
	}
	return fmt.Sprintf("%.4f", p)
}

// HTML renders the Markdown report as a complete HTML page.
func HTML(result *significance.Result) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	doc := p.Parse([]byte(Markdown(result)))
	renderer := html.NewRenderer(html.RendererOptions{
		Flags: html.CommonFlags | html.CompletePage,
		Title: "Significance report",
	})
	return markdown.Render(doc, renderer)
}
