package metrics

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestDeriveFormula(t *testing.T) {
	in := []Record{{CountryISO: "AA", Population: 1000, PeopleVaccinated: 500, PeopleFullyVaccinated: 200, TotalDoses: 700, LatestWeekDoses: 50}}
	ds := Derive(in)
	if len(ds) != 1 {
		t.Fatalf("expected 1 record, got %d", len(ds))
	}
	d := ds[0]
	if d.TotalDosesPerPop != 700.0/1000 || d.VaccinatedPerPop != 500.0/1000 ||
		d.FullyVaccinatedPerPop != 200.0/1000 || d.LatestWeekDosesPerPop != 50.0/1000 {
		t.Fatalf("unexpected ratios %+v", d)
	}
	if d.Record != in[0] {
		t.Fatal("expected original fields carried over")
	}
}

func TestDeriveExcludesNonPositivePopulation(t *testing.T) {
	in := []Record{
		{CountryISO: "ZERO", Population: 0, PeopleVaccinated: 10},
		{CountryISO: "NEG", Population: -5},
		{CountryISO: "NAN", Population: math.NaN()},
		{CountryISO: "INF", Population: math.Inf(1)},
		{CountryISO: "OK", Population: 10, PeopleVaccinated: 1},
	}
	ds := Derive(in)
	if len(ds) != 1 || ds[0].CountryISO != "OK" {
		t.Fatalf("expected only OK, got %+v", ds)
	}
	for _, d := range ds {
		for _, v := range []float64{d.TotalDosesPerPop, d.VaccinatedPerPop, d.FullyVaccinatedPerPop, d.LatestWeekDosesPerPop} {
			if math.IsNaN(v) || v < 0 {
				t.Fatalf("ratio out of range: %v", v)
			}
		}
	}
}

func TestDeriveLeavesInputUntouched(t *testing.T) {
	in := []Record{{CountryISO: "AA", Population: 1000, PeopleVaccinated: 500}}
	snapshot := append([]Record(nil), in...)
	_ = Derive(in)
	if !reflect.DeepEqual(in, snapshot) {
		t.Fatal("input mutated")
	}
}

func TestThresholdPredicate(t *testing.T) {
	pred := Threshold{MinPopulation: 100000, MinCoverage: 0.4}.Predicate()
	tests := []struct {
		name string
		d    Derived
		want bool
	}{
		{"populous", Derived{Record: Record{Population: 200000}}, true},
		{"small but covered", Derived{Record: Record{Population: 500}, VaccinatedPerPop: 0.5}, true},
		{"small and sparse", Derived{Record: Record{Population: 500}, VaccinatedPerPop: 0.1}, false},
		{"boundary", Derived{Record: Record{Population: 100000}, VaccinatedPerPop: 0.4}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pred(tt.d); got != tt.want {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilterDeterministic(t *testing.T) {
	ds := Derive([]Record{
		{CountryISO: "A", Population: 200000, PeopleVaccinated: 1},
		{CountryISO: "B", Population: 10, PeopleVaccinated: 1},
		{CountryISO: "C", Population: 10, PeopleVaccinated: 9},
	})
	pred := Threshold{MinPopulation: 100000, MinCoverage: 0.5}.Predicate()
	first := Filter(ds, pred)
	second := Filter(ds, pred)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("filter not deterministic")
	}
	if len(first) != 2 || first[0].CountryISO != "A" || first[1].CountryISO != "C" {
		t.Fatalf("unexpected subset %+v", first)
	}
}

func TestAllPredicate(t *testing.T) {
	p := All(
		func(d Derived) bool { return d.Population > 1 },
		nil,
		func(d Derived) bool { return d.CountryISO != "X" },
	)
	if !p(Derived{Record: Record{CountryISO: "A", Population: 2}}) {
		t.Fatal("expected pass")
	}
	if p(Derived{Record: Record{CountryISO: "X", Population: 2}}) {
		t.Fatal("expected fail")
	}
}

func TestParseMetric(t *testing.T) {
	m, err := ParseMetric("vaccinatedPerPop")
	if err != nil || m != VaccinatedPerPop {
		t.Fatalf("unexpected %v %v", m, err)
	}
	if _, err := ParseMetric("bogus"); !errors.Is(err, ErrUnknownMetric) {
		t.Fatalf("expected ErrUnknownMetric, got %v", err)
	}
	d := Derived{VaccinatedPerPop: 0.25}
	if VaccinatedPerPop.Value(d) != 0.25 {
		t.Fatal("wrong value")
	}
	if !math.IsNaN(Metric("bogus").Value(d)) {
		t.Fatal("expected NaN for unknown metric")
	}
}

func TestLoadCSV(t *testing.T) {
	in := "Country_ISO, Population, total_doses, People Vaccinated, people_fully_vaccinated\n" +
		"AA, 1000, 700, 500, 200\n" +
		", 5, 5, 5, 5\n" +
		"BB, abc, 1, 1, 1\n"
	recs, err := LoadCSV(strings.NewReader(in))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	want := Record{CountryISO: "AA", Population: 1000, TotalDoses: 700, PeopleVaccinated: 500, PeopleFullyVaccinated: 200}
	if recs[0] != want {
		t.Fatalf("got %+v", recs[0])
	}
	if recs[1].Population != 0 {
		t.Fatal("expected unparsable population to read as 0")
	}
}

func TestLoadCSVMissingColumns(t *testing.T) {
	if _, err := LoadCSV(strings.NewReader("name,value\nx,1\n")); err == nil {
		t.Fatal("expected error")
	}
}

func TestLoadFileJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.json")
	body := `[{"countryISO":"AA","population":1000,"peopleVaccinated":500,"peopleFullyVaccinated":200,"totalDoses":700}]`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	recs, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(recs) != 1 || recs[0].PeopleVaccinated != 500 {
		t.Fatalf("unexpected %+v", recs)
	}

	empty := filepath.Join(dir, "empty.json")
	if err := os.WriteFile(empty, []byte("[]"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(empty); !errors.Is(err, ErrNoRows) {
		t.Fatalf("expected ErrNoRows, got %v", err)
	}
}
