package score

// Dimension identifies one scoring axis.
type Dimension string

const (
	DimMerge       Dimension = "merged_cells"
	DimHeader      Dimension = "header_depth"
	DimFormulaLink Dimension = "formula_hyperlink"
	DimRichness    Dimension = "content_richness"
	DimPivot       Dimension = "pivot_tables"
	DimCharts      Dimension = "charts"
	DimMacro       Dimension = "macros"
	DimScale       Dimension = "scale"
)

// WeightProfile is a named set of per-dimension weights. Active weights
// sum to 1.0.
type WeightProfile struct {
	Name    string
	Weights map[Dimension]float64
}

// baseProfile applies when no advanced feature is present: structure
// dominates.
var baseProfile = WeightProfile{
	Name: "base",
	Weights: map[Dimension]float64{
		DimMerge:       0.35,
		DimHeader:      0.25,
		DimFormulaLink: 0.15,
		DimRichness:    0.15,
		DimScale:       0.10,
	},
}

// advancedProfile applies when pivots, charts or macros are detected;
// every nonzero dimension keeps a nonzero weight so advanced sub-scores
// are never silently discarded.
var advancedProfile = WeightProfile{
	Name: "advanced",
	Weights: map[Dimension]float64{
		DimMerge:       0.20,
		DimHeader:      0.10,
		DimFormulaLink: 0.15,
		DimRichness:    0.10,
		DimPivot:       0.15,
		DimCharts:      0.10,
		DimMacro:       0.10,
		DimScale:       0.10,
	},
}

// WeightSum returns the sum of the profile's weights.
func (p WeightProfile) WeightSum() float64 {
	total := 0.0
	for _, w := range p.Weights {
		total += w
	}
	return total
}

// profileFor selects the weight profile for a feature vector.
func profileFor(fv FeatureVector) WeightProfile {
	if fv.HasAdvancedFeatures {
		return advancedProfile
	}
	return baseProfile
}
