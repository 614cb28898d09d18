package normalize

import (
	"fmt"
	"sort"

	"footballetl/internal/schema"
	"footballetl/internal/table"
	"footballetl/pkg/records"
)

var countryColumns = []string{"country_id", "country_name"}

// ConsolidateCountries harvests (country_id, country_name) pairs from every
// table that carries both columns and returns the de-duplicated Country
// table together with the inputs minus their country_name column. Tables
// without the pair are returned unchanged.
//
// Pairs with a null id are not countries and are not harvested. The Country
// rows are ordered by id, then name, so the result does not depend on the
// order of tables.
func ConsolidateCountries(tables ...table.Table) (table.Table, []table.Table) {
	var harvested []table.Table
	stripped := make([]table.Table, len(tables))
	for i, t := range tables {
		if !t.Has("country_id") || !t.Has("country_name") {
			stripped[i] = t
			continue
		}
		// Harvest before dropping: the name only lives in this table.
		harvested = append(harvested, t.Project(countryColumns...))
		stripped[i] = t.Drop("country_name").Compact()
	}

	country := table.Concat(schema.Country, harvested...).Project(countryColumns...)
	kept := country.Rows[:0:0]
	for _, r := range country.Rows {
		if r["country_id"] != nil {
			kept = append(kept, r)
		}
	}
	country.Rows = kept
	return country.Compact().SortBy(byCountry), stripped
}

func byCountry(a, b records.Record) bool {
	if c := compareValues(a["country_id"], b["country_id"]); c != 0 {
		return c < 0
	}
	return compareValues(a["country_name"], b["country_name"]) < 0
}

// compareValues orders nil first, then int64, then string. Other kinds
// compare by their printed form.
func compareValues(a, b any) int {
	ra, rb := rank(a), rank(b)
	if ra != rb {
		return ra - rb
	}
	switch x := a.(type) {
	case nil:
		return 0
	case int64:
		y := b.(int64)
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return 0
	case string:
		y := b.(string)
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return 0
	}
	sa, sb := fmt.Sprint(a), fmt.Sprint(b)
	switch {
	case sa < sb:
		return -1
	case sa > sb:
		return 1
	}
	return 0
}

func rank(v any) int {
	switch v.(type) {
	case nil:
		return 0
	case int64:
		return 1
	case string:
		return 2
	}
	return 3
}

// LinkCompetitionCountries replaces Competition.country_name with a
// country_id looked up by name in country. Names Country does not know
// (regions such as "Europe" or "International") are appended to Country
// with ids allocated above the current maximum, in name order, so every
// Competition row resolves and reruns allocate the same ids.
func LinkCompetitionCountries(competition, country table.Table) (table.Table, table.Table, error) {
	if !competition.Has("country_name") {
		return competition, country, nil
	}
	if competition.Has("country_id") {
		return competition.Drop("country_name").Compact(), country, nil
	}

	ids := make(map[string]any, country.Len())
	var maxID int64
	for _, r := range country.Rows {
		id, ok := r["country_id"].(int64)
		if !ok {
			return table.Table{}, table.Table{}, fmt.Errorf("link countries: country_id %v is %T, want int64", r["country_id"], r["country_id"])
		}
		if id > maxID {
			maxID = id
		}
		if name, ok := r["country_name"].(string); ok {
			if _, seen := ids[name]; !seen {
				ids[name] = id
			}
		}
	}

	var missing []string
	for _, r := range competition.Rows {
		name, ok := r["country_name"].(string)
		if !ok {
			continue
		}
		if _, known := ids[name]; !known {
			ids[name] = nil
			missing = append(missing, name)
		}
	}
	sort.Strings(missing)
	added := make([]records.Record, len(missing))
	for i, name := range missing {
		maxID++
		ids[name] = maxID
		added[i] = records.Record{"country_id": maxID, "country_name": name}
	}

	cols := make([]string, len(competition.Columns))
	for i, c := range competition.Columns {
		if c == "country_name" {
			c = "country_id"
		}
		cols[i] = c
	}
	linked, err := competition.Map(cols, func(r records.Record) (records.Record, error) {
		if name, ok := r["country_name"].(string); ok {
			r["country_id"] = ids[name]
		} else {
			r["country_id"] = nil
		}
		return r, nil
	})
	if err != nil {
		return table.Table{}, table.Table{}, err
	}

	country = table.Concat(schema.Country, country, table.New(schema.Country, countryColumns, added))
	return linked.Compact(), country.Compact().SortBy(byCountry), nil
}
