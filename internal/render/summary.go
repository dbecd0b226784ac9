package render

import (
	"fmt"
	"strings"

	"dayplan/internal/model"
)

// Targets are the daily goals progress is measured against. Zero disables a bar.
type Targets struct {
	Protein float64 `json:"protein" yaml:"protein"`
	Fat     float64 `json:"fat" yaml:"fat"`
	Carbon  float64 `json:"carbon" yaml:"carbon"`
	WaterML float64 `json:"water" yaml:"water"`
}

type Nutrients struct {
	Protein float64 `json:"protein"`
	Fat     float64 `json:"fat"`
	Carbon  float64 `json:"carbon"`
}

func (n *Nutrients) add(o Nutrients) {
	n.Protein += o.Protein
	n.Fat += o.Fat
	n.Carbon += o.Carbon
}

type MealTotal struct {
	Meal  string `json:"meal"`
	Items int    `json:"items"`
	Nutrients
}

type Progress struct {
	Label   string  `json:"label"`
	Current float64 `json:"current"`
	Target  float64 `json:"target"`
	Unit    string  `json:"unit"`
}

// Ratio is Current/Target capped at 1; 0 when there is no target.
func (p Progress) Ratio() float64 {
	if p.Target <= 0 {
		return 0
	}
	r := p.Current / p.Target
	if r > 1 {
		r = 1
	}
	return r
}

func (p Progress) Percent() int { return int(p.Ratio() * 100) }

type Summary struct {
	Meals    []MealTotal `json:"meals"`
	Total    Nutrients   `json:"total"`
	WaterML  float64     `json:"water"`
	Progress []Progress  `json:"progress"`
}

// Summarize totals nutrients per meal and for the day, and measures them and
// water against targets. Meals missing from the document count as empty.
func Summarize(doc *model.Document, t Targets) Summary {
	var s Summary
	for _, meal := range model.Meals {
		mt := MealTotal{Meal: meal}
		if doc != nil && doc.Food != nil {
			foods, _ := doc.Food.Lookup(meal)
			mt.Items = len(foods)
			for _, f := range foods {
				mt.add(Nutrients{Protein: f.Protein, Fat: f.Fat, Carbon: f.Carbon})
			}
		}
		s.Total.add(mt.Nutrients)
		s.Meals = append(s.Meals, mt)
	}
	s.WaterML = doc.WaterML()
	s.Progress = []Progress{
		{Label: "Protein", Current: s.Total.Protein, Target: t.Protein, Unit: "g"},
		{Label: "Fat", Current: s.Total.Fat, Target: t.Fat, Unit: "g"},
		{Label: "Carbon", Current: s.Total.Carbon, Target: t.Carbon, Unit: "g"},
		{Label: "Water", Current: s.WaterML, Target: t.WaterML, Unit: "ml"},
	}
	return s
}

// Bar draws a fixed-width ASCII progress bar: |####------|.
func Bar(ratio float64, width int) string {
	if width <= 0 {
		width = 10
	}
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	filled := int(ratio * float64(width))
	return "|" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "|"
}

// SummaryText formats a summary the way the planner prints it in a terminal.
func SummaryText(s Summary) string {
	var b strings.Builder
	for _, m := range s.Meals {
		fmt.Fprintf(&b, "%s: %d item(s)  P %.1fg  F %.1fg  C %.1fg\n", Capitalize(m.Meal), m.Items, m.Protein, m.Fat, m.Carbon)
	}
	b.WriteString("\nTotal:\n")
	fmt.Fprintf(&b, "  Protein: %.1fg\n", s.Total.Protein)
	fmt.Fprintf(&b, "  Fat: %.1fg\n", s.Total.Fat)
	fmt.Fprintf(&b, "  Carbon: %.1fg\n", s.Total.Carbon)
	fmt.Fprintf(&b, "  Water: %s ml\n", model.FormatAmount(s.WaterML))
	b.WriteString("\nProgress:\n")
	for _, p := range s.Progress {
		fmt.Fprintf(&b, "  %-8s %s %3d%% (%.1f/%.1f%s)\n", p.Label, Bar(p.Ratio(), 10), p.Percent(), p.Current, p.Target, p.Unit)
	}
	return b.String()
}
