package normalize

import (
	"strconv"
	"strings"

	"footballetl/internal/schema"
	"footballetl/internal/table"
	"footballetl/pkg/records"
)

var seasonColumns = []string{"competition_id", "season_id", "season_start_year", "season_end_year"}

// Competitions is the output of DecomposeCompetitions.
type Competitions struct {
	Competition table.Table
	Season      table.Table
}

// All returns the tables in creation order.
func (c Competitions) All() []table.Table {
	return []table.Table{c.Competition, c.Season}
}

// DecomposeCompetitions splits competition-season documents into the
// Competition and Season tables. Match-scoped fields (match_updated,
// match_available, ...) are dropped, season boundary years are derived from
// the "YYYY/YYYY" season label, and the youth/international flags are
// renamed to explicit competition_is_* columns.
//
// Competition still carries country_name; see LinkCompetitionCountries.
func DecomposeCompetitions(docs []records.Record) (Competitions, error) {
	flat, err := flattenAll(docs, CompetitionSchema)
	if err != nil {
		return Competitions{}, err
	}
	rows := table.FromRecords("competitions", flat)

	var matchScoped []string
	for _, c := range rows.Columns {
		if strings.HasPrefix(c, "match") {
			matchScoped = append(matchScoped, c)
		}
	}
	rows = rows.Drop(matchScoped...)

	season, err := rows.Project("competition_id", "season_id", "season_name").Compact().
		Map(seasonColumns, splitSeason)
	if err != nil {
		return Competitions{}, err
	}

	competition := rows.Drop("season_id", "season_name").
		Rename("competition_youth", "competition_is_youth").
		Rename("competition_international", "competition_is_international")

	return Competitions{
		Competition: competition.Compact().WithName(schema.Competition),
		Season:      season.Compact().WithName(schema.Season),
	}, nil
}

// splitSeason derives season_start_year and season_end_year from
// season_name: "2019/2020" gives 2019 and 2020, "2020" gives 2020 twice.
func splitSeason(r records.Record) (records.Record, error) {
	label, _ := r["season_name"].(string)
	start, end, found := strings.Cut(label, "/")
	if !found {
		end = start
	}
	sy, err1 := strconv.Atoi(strings.TrimSpace(start))
	ey, err2 := strconv.Atoi(strings.TrimSpace(end))
	if err1 != nil || err2 != nil {
		return nil, &MalformedDocumentError{
			Kind: "competition", Index: -1, ID: r["competition_id"], Path: "season_name",
			Reason: "season label " + strconv.Quote(label) + " is not YYYY or YYYY/YYYY",
		}
	}
	r["season_start_year"] = int64(sy)
	r["season_end_year"] = int64(ey)
	return r, nil
}
