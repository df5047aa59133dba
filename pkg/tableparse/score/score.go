// Package score rates the structural and content complexity of a tabular
// document and recommends an output representation.
package score

import (
	"log/slog"

	"github.com/ukaji3/tableparse-go/pkg/tableparse/models"
)

// Level is the classified complexity band.
type Level string

const (
	LevelSimple  Level = "simple"
	LevelMedium  Level = "medium"
	LevelComplex Level = "complex"
)

// Recommended output formats.
const (
	FormatMarkdown = "markdown"
	FormatHTML     = "html"
)

// Override reasons, in priority order.
const (
	ReasonHasImages   = "has_images"
	ReasonHasStyles   = "has_styles"
	ReasonHasRichText = "has_rich_text"
)

// ComplexityScore is the engine's result: total, per-dimension breakdown,
// the active weight profile and the format recommendation.
type ComplexityScore struct {
	// Total is the weighted score, 0-100.
	Total float64 `json:"total"`
	// Breakdown maps each active dimension to its 0-100 sub-score.
	Breakdown map[Dimension]float64 `json:"breakdown"`
	// Profile names the weight profile used ("base" or "advanced").
	Profile string `json:"profile"`
	// Recommended is "markdown" or "html".
	Recommended string `json:"recommended"`
	// OverrideReason is set when the content-fidelity override forced
	// the recommendation to HTML.
	OverrideReason string `json:"override_reason,omitempty"`
	// Features is the raw feature vector the score was computed from.
	Features FeatureVector `json:"features"`

	classifyBounds
}

// Level derives the complexity band from the total score. Scores built
// outside the engine (for example decoded from JSON) fall back to the
// default bounds.
func (s *ComplexityScore) Level() Level {
	sm, mm := s.simpleMax, s.mediumMax
	if sm == 0 && mm == 0 {
		d := DefaultThresholds()
		sm, mm = d.SimpleMax, d.MediumMax
	}
	switch {
	case s.Total <= sm:
		return LevelSimple
	case s.Total <= mm:
		return LevelMedium
	default:
		return LevelComplex
	}
}

// Classification bounds are kept on the score so Level stays derived
// rather than stored.
type classifyBounds struct {
	simpleMax, mediumMax float64
}

// Engine computes complexity scores. The zero value uses default
// thresholds and the default logger.
type Engine struct {
	Thresholds Thresholds
	Logger     *slog.Logger
}

// NewEngine returns an engine with default thresholds.
func NewEngine() *Engine {
	return &Engine{Thresholds: DefaultThresholds()}
}

func (e *Engine) logger() *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return slog.Default()
}

func (e *Engine) thresholds() Thresholds {
	if e.Thresholds == (Thresholds{}) {
		return DefaultThresholds()
	}
	return e.Thresholds
}

// Analyze scores a document. It never fails on a valid document: provider
// errors degrade to zero feature contributions.
func (e *Engine) Analyze(doc *models.TabularDocument, providers Providers) *ComplexityScore {
	th := e.thresholds()

	var meta Meta
	if providers.Meta != nil {
		m, err := providers.Meta.Extract()
		if err != nil {
			e.logger().Debug("metadata provider failed, scoring without advanced features",
				"error", err)
		} else {
			meta = m
		}
	}

	fv := extractFeatures(doc, meta, th)
	profile := profileFor(fv)

	breakdown := map[Dimension]float64{}
	total := 0.0
	for dim, weight := range profile.Weights {
		sub := subScore(dim, fv)
		breakdown[dim] = sub
		total += sub * weight
	}

	score := &ComplexityScore{
		Total:          total,
		Breakdown:      breakdown,
		Profile:        profile.Name,
		Features:       fv,
		classifyBounds: classifyBounds{simpleMax: th.SimpleMax, mediumMax: th.MediumMax},
	}

	if score.Level() == LevelComplex {
		score.Recommended = FormatHTML
	} else {
		score.Recommended = FormatMarkdown
	}

	// Content-fidelity override: markdown cannot carry images, color or
	// real super/subscript, so high richness forces HTML. Upgrades only.
	if richness := breakdown[DimRichness]; richness >= th.RichnessOverride {
		score.Recommended = FormatHTML
		switch {
		case fv.ImageCount > 0:
			score.OverrideReason = ReasonHasImages
		case fv.StyledCells > 0:
			score.OverrideReason = ReasonHasStyles
		case fv.RichTextCells > 0:
			score.OverrideReason = ReasonHasRichText
		}
	}

	e.logger().Debug("complexity analyzed",
		"total", score.Total, "level", score.Level(),
		"profile", score.Profile, "recommended", score.Recommended)
	return score
}

// subScore maps one dimension of the feature vector to a 0-100 sub-score.
// Every mapping is monotonic in its raw counts and saturates at 100.
func subScore(dim Dimension, fv FeatureVector) float64 {
	switch dim {
	case DimMerge:
		return mergeScore(fv)
	case DimHeader:
		return headerScore(fv)
	case DimFormulaLink:
		return formulaLinkScore(fv)
	case DimRichness:
		return richnessScore(fv)
	case DimPivot:
		return pivotScore(fv)
	case DimCharts:
		return chartScore(fv)
	case DimMacro:
		if fv.HasMacros {
			return 100
		}
		return 0
	case DimScale:
		return scaleScore(fv)
	}
	return 0
}

// mergeScore bands the merged-area ratio, with a bonus for merges that
// span both rows and columns.
func mergeScore(fv FeatureVector) float64 {
	if fv.MergeCount == 0 || fv.TotalCells == 0 {
		return 0
	}
	ratio := float64(fv.MergeArea) / float64(fv.TotalCells)
	score := 20.0
	switch {
	case ratio >= 0.15:
		score = 80
	case ratio >= 0.05:
		score = 50
	}
	if fv.HasComplexMerge {
		score += 20
	}
	return capped(score)
}

// headerScore maps header depth: single-level headers are trivial, four
// or more levels saturate.
func headerScore(fv FeatureVector) float64 {
	switch {
	case fv.HeaderLevels >= 4:
		return 100
	case fv.HeaderLevels == 3:
		return 60
	case fv.HeaderLevels == 2:
		return 30
	default:
		return 0
	}
}

func formulaLinkScore(fv FeatureVector) float64 {
	return capped(float64(fv.FormulaCells+fv.HyperlinkCells) * 5)
}

// richnessScore composes the content-richness sub-score. Each present
// feature class contributes at least the override threshold's worth, so
// any of images, styling or rich text alone is enough to force HTML.
func richnessScore(fv FeatureVector) float64 {
	score := 0.0
	if fv.ImageCount > 0 {
		score += 40 + capped2(float64(fv.ImageCount-1)*5, 20)
	}
	if fv.StyledCells > 0 {
		score += 40 + capped2(float64(fv.StyledCells-1), 20)
	}
	if fv.RichTextCells > 0 {
		score += 40
	}
	return capped(score)
}

// pivotScore saturates quickly: a single pivot table already signals a
// report-style workbook.
func pivotScore(fv FeatureVector) float64 {
	if fv.PivotTables == 0 {
		return 0
	}
	return capped(55 + float64(fv.PivotTables)*15)
}

func chartScore(fv FeatureVector) float64 {
	return capped(float64(fv.Charts) * 40)
}

// scaleScore bands the cell count against fixed reference sizes.
func scaleScore(fv FeatureVector) float64 {
	switch cells := fv.TotalCells; {
	case cells >= 10000:
		return 80
	case cells >= 1000:
		return 50
	case cells >= 100:
		return 20
	default:
		return 0
	}
}

func capped(v float64) float64 {
	if v > 100 {
		return 100
	}
	return v
}

func capped2(v, max float64) float64 {
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}
