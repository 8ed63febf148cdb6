// Package metrics derives per-population vaccination ratios from raw
// country records and filters out negligible or data-sparse countries.
package metrics

import (
	"errors"
	"math"
)

var (
	ErrUnknownMetric = errors.New("unknown metric")
	ErrNoRows        = errors.New("no rows")
)

// Record is one input row. Callers own it; nothing here mutates it.
type Record struct {
	CountryISO            string  `json:"countryISO"`
	Population            float64 `json:"population"`
	TotalDoses            float64 `json:"totalDoses"`
	PeopleVaccinated      float64 `json:"peopleVaccinated"`
	PeopleFullyVaccinated float64 `json:"peopleFullyVaccinated"`
	LatestWeekDoses       float64 `json:"latestWeekDoses"`
}

// Derived is a record plus its ratios to population.
type Derived struct {
	Record

	TotalDosesPerPop      float64
	VaccinatedPerPop      float64
	FullyVaccinatedPerPop float64
	// LatestWeekDosesPerPop is the rollout pace.
	LatestWeekDosesPerPop float64
}

// Derive returns new derived records. Records whose population is not a
// positive finite number are dropped before any division.
func Derive(records []Record) []Derived {
	out := make([]Derived, 0, len(records))
	for _, r := range records {
		if !(r.Population > 0) || math.IsInf(r.Population, 0) {
			continue
		}
		out = append(out, Derived{
			Record:                r,
			TotalDosesPerPop:      r.TotalDoses / r.Population,
			VaccinatedPerPop:      r.PeopleVaccinated / r.Population,
			FullyVaccinatedPerPop: r.PeopleFullyVaccinated / r.Population,
			LatestWeekDosesPerPop: r.LatestWeekDoses / r.Population,
		})
	}
	return out
}

// Predicate decides whether a derived record is drawn.
type Predicate func(Derived) bool

// Threshold is the inclusion rule: a country is kept when it is populous
// enough or its coverage is high enough.
type Threshold struct {
	MinPopulation float64
	MinCoverage   float64
}

func (t Threshold) Predicate() Predicate {
	return func(d Derived) bool {
		return d.Population > t.MinPopulation || d.VaccinatedPerPop > t.MinCoverage
	}
}

// All combines predicates with logical and.
func All(preds ...Predicate) Predicate {
	return func(d Derived) bool {
		for _, p := range preds {
			if p != nil && !p(d) {
				return false
			}
		}
		return true
	}
}

// Filter keeps the records accepted by pred, preserving order.
func Filter(ds []Derived, pred Predicate) []Derived {
	if pred == nil {
		return append([]Derived(nil), ds...)
	}
	out := make([]Derived, 0, len(ds))
	for _, d := range ds {
		if pred(d) {
			out = append(out, d)
		}
	}
	return out
}

// Index maps records by country ISO code. Later duplicates win.
func Index(ds []Derived) map[string]Derived {
	m := make(map[string]Derived, len(ds))
	for _, d := range ds {
		m[d.CountryISO] = d
	}
	return m
}

// Metric names a derived ratio.
type Metric string

const (
	TotalDosesPerPop      Metric = "totalDosesPerPop"
	VaccinatedPerPop      Metric = "vaccinatedPerPop"
	FullyVaccinatedPerPop Metric = "fullyVaccinatedPerPop"
	LatestWeekDosesPerPop Metric = "latestWeekDosesPerPop"
)

func ParseMetric(name string) (Metric, error) {
	switch m := Metric(name); m {
	case TotalDosesPerPop, VaccinatedPerPop, FullyVaccinatedPerPop, LatestWeekDosesPerPop:
		return m, nil
	}
	return "", ErrUnknownMetric
}

// Value reads the metric from d.
func (m Metric) Value(d Derived) float64 {
	switch m {
	case TotalDosesPerPop:
		return d.TotalDosesPerPop
	case VaccinatedPerPop:
		return d.VaccinatedPerPop
	case FullyVaccinatedPerPop:
		return d.FullyVaccinatedPerPop
	case LatestWeekDosesPerPop:
		return d.LatestWeekDosesPerPop
	}
	return math.NaN()
}

// Values extracts the metric for every record.
func (m Metric) Values(ds []Derived) []float64 {
	out := make([]float64, len(ds))
	for i, d := range ds {
		out[i] = m.Value(d)
	}
	return out
}
