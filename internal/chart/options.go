package chart

// Options is the static rendering configuration handed to the chart widget
// together with a Dataset.
type Options struct {
	IndexAxis string      `json:"indexAxis"`
	Scales    Scales      `json:"scales"`
	Labels    PointLabels `json:"labels"`
	Legend    Legend      `json:"legend"`
}

// Scales configures the two chart axes.
type Scales struct {
	X TimeAxis     `json:"x"`
	Y CategoryAxis `json:"y"`
}

// TimeAxis is the time-scaled value axis.
type TimeAxis struct {
	Type string `json:"type"`
	Unit string `json:"unit"`
}

// CategoryAxis lists rows in dataset category order.
type CategoryAxis struct {
	Type   string   `json:"type"`
	Labels []string `json:"labels"`
}

// PointLabels controls the text drawn on each bar.
type PointLabels struct {
	Field  string `json:"field"`
	Anchor string `json:"anchor"`
	Align  string `json:"align"`
}

// Legend toggles the built-in legend.
type Legend struct {
	Display bool `json:"display"`
}

// DefaultTimeUnit is the gridline unit of the time axis.
const DefaultTimeUnit = "year"

// NewOptions returns the options for ds: horizontal bars, a time axis with
// gridlines every unit, rows ordered by ds.Categories, bar labels showing the
// milestone title and no legend.
func NewOptions(ds *Dataset, unit string) Options {
	if unit == "" {
		unit = DefaultTimeUnit
	}
	var labels []string
	if ds != nil {
		labels = append(labels, ds.Categories...)
	}
	return Options{
		IndexAxis: "y",
		Scales: Scales{
			X: TimeAxis{Type: "time", Unit: unit},
			Y: CategoryAxis{Type: "category", Labels: labels},
		},
		Labels: PointLabels{Field: "title", Anchor: "center", Align: "center"},
		Legend: Legend{Display: false},
	}
}
