package metrics

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// LoadFile reads a dataset from a .json or .csv file.
func LoadFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return LoadCSV(f)
	case ".json":
		return LoadJSON(f)
	}
	return nil, fmt.Errorf("unsupported dataset file: %s", filepath.Base(path))
}

// LoadJSON decodes an array of records.
func LoadJSON(r io.Reader) ([]Record, error) {
	var recs []Record
	if err := json.NewDecoder(r).Decode(&recs); err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}
	if len(recs) == 0 {
		return nil, ErrNoRows
	}
	return recs, nil
}

// LoadCSV reads records from a CSV with a header row.
// Column detection is case-insensitive and ignores '_' and ' ':
// countryiso|iso|iso2|country, population|pop, totaldoses|doses,
// peoplevaccinated|vaccinated, peoplefullyvaccinated|fullyvaccinated,
// latestweekdoses|weekdoses.
func LoadCSV(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	recs, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(recs) == 0 {
		return nil, errors.New("empty csv")
	}
	header := recs[0]
	idx := map[string]int{}
	norm := func(s string) string {
		s = strings.ToLower(strings.TrimSpace(s))
		s = strings.ReplaceAll(s, "_", "")
		return strings.ReplaceAll(s, " ", "")
	}
	for i, h := range header {
		var key string
		switch norm(h) {
		case "countryiso", "iso", "iso2", "country":
			key = "iso"
		case "population", "pop":
			key = "population"
		case "totaldoses", "doses":
			key = "totalDoses"
		case "peoplevaccinated", "vaccinated":
			key = "peopleVaccinated"
		case "peoplefullyvaccinated", "fullyvaccinated":
			key = "peopleFullyVaccinated"
		case "latestweekdoses", "weekdoses":
			key = "latestWeekDoses"
		default:
			continue
		}
		if _, seen := idx[key]; !seen {
			idx[key] = i
		}
	}
	if _, ok := idx["iso"]; !ok {
		return nil, errors.New("csv: country column not found")
	}
	if _, ok := idx["population"]; !ok {
		return nil, errors.New("csv: population column not found")
	}
	num := func(row []string, key string) float64 {
		i, ok := idx[key]
		if !ok || i >= len(row) {
			return 0
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(row[i]), 64)
		if err != nil {
			return 0
		}
		return v
	}
	var out []Record
	for _, row := range recs[1:] {
		i := idx["iso"]
		if i >= len(row) || strings.TrimSpace(row[i]) == "" {
			continue
		}
		out = append(out, Record{
			CountryISO:            strings.TrimSpace(row[i]),
			Population:            num(row, "population"),
			TotalDoses:            num(row, "totalDoses"),
			PeopleVaccinated:      num(row, "peopleVaccinated"),
			PeopleFullyVaccinated: num(row, "peopleFullyVaccinated"),
			LatestWeekDoses:       num(row, "latestWeekDoses"),
		})
	}
	if len(out) == 0 {
		return nil, ErrNoRows
	}
	return out, nil
}
