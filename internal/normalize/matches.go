// Package normalize decomposes football match and competition documents
// into de-duplicated, foreign-key-linked relational tables.
//
// The working row-set is a table.Table threaded through a sequence of
// table.Extract calls: each call returns the satellite table it peeled off
// and a narrower row-set for the next step. Nothing is mutated in place.
package normalize

import (
	"footballetl/internal/schema"
	"footballetl/internal/table"
	"footballetl/pkg/records"
)

// MatchTables is the output of DecomposeMatches.
type MatchTables struct {
	Match            table.Table
	CompetitionStage table.Table
	Stadium          table.Table
	Referee          table.Table
	TeamBaseInfo     table.Table
	TeamManagerMatch table.Table
	ManagerBaseData  table.Table
	Country          table.Table
}

// All returns the tables in creation order.
func (m MatchTables) All() []table.Table {
	return []table.Table{
		m.Country,
		m.CompetitionStage,
		m.Stadium,
		m.Referee,
		m.TeamBaseInfo,
		m.ManagerBaseData,
		m.Match,
		m.TeamManagerMatch,
	}
}

// step is one extraction against the working rows. Its extracted table is
// kept unless name is empty.
type step struct {
	name    string
	mapping table.Mapping
	retain  []string
}

var matchSteps = []step{
	{
		name: schema.CompetitionStage,
		mapping: table.Mapping{
			table.Col("competition_stage.id", "competition_stage_id"),
			table.Col("competition_stage.name", "competition_stage_name"),
		},
		retain: []string{"competition_stage.id"},
	},
	{
		name: schema.Stadium,
		mapping: table.Mapping{
			table.Col("stadium.id", "stadium_id"),
			table.Col("stadium.name", "stadium_name"),
			table.Col("stadium.country.id", "country_id"),
			table.Col("stadium.country.name", "country_name"),
		},
		retain: []string{"stadium.id"},
	},
	{
		name: schema.Referee,
		mapping: table.Mapping{
			table.Col("referee.id", "referee_id"),
			table.Col("referee.name", "referee_name"),
			table.Col("referee.country.id", "country_id"),
			table.Col("referee.country.name", "country_name"),
		},
		retain: []string{"referee.id"},
	},
	// The embedded competition and season live in their own document set;
	// only their ids stay on the match.
	{
		mapping: table.Mapping{
			table.Col("competition.competition_id", "competition_id"),
			table.Col("competition.competition_name", "competition_name"),
			table.Col("competition.country_name", "competition_country_name"),
		},
		retain: []string{"competition.competition_id"},
	},
	{
		mapping: table.Mapping{
			table.Col("season.season_id", "season_id"),
			table.Col("season.season_name", "season_name"),
		},
		retain: []string{"season.season_id"},
	},
	{
		mapping: table.Mapping{
			table.Col("metadata.data_version", "data_version"),
			table.Col("metadata.shot_fidelity_version", "shot_fidelity_version"),
			table.Col("metadata.xy_fidelity_version", "xy_fidelity_version"),
		},
		retain: []string{"metadata.data_version", "metadata.shot_fidelity_version", "metadata.xy_fidelity_version"},
	},
}

// DecomposeMatches normalizes match documents into the Match,
// CompetitionStage, Stadium, Referee, TeamBaseInfo, TeamManagerMatch,
// ManagerBaseData and Country tables.
//
// The run is all-or-nothing: the first malformed document or unparsable
// date aborts it and no tables are returned.
func DecomposeMatches(docs []records.Record) (MatchTables, error) {
	flat, err := flattenAll(docs, MatchSchema)
	if err != nil {
		return MatchTables{}, err
	}
	rows := table.FromRecords("match", flat)

	rows, err = rows.Map(append(rows.Drop("match_date", "kick_off").Columns, "match_datetime"),
		func(r records.Record) (records.Record, error) {
			dt, err := mergeDateTime(r["match_date"], r["kick_off"])
			if err != nil {
				return nil, atDocument(err, "match", -1, r["match_id"])
			}
			r["match_datetime"] = dt
			return r, nil
		})
	if err != nil {
		return MatchTables{}, err
	}

	extracted := map[string]table.Table{}
	for _, s := range matchSteps {
		var ext table.Table
		ext, rows, err = table.Extract(rows, s.name, s.mapping, s.retain)
		if err != nil {
			return MatchTables{}, err
		}
		if s.name != "" {
			extracted[s.name] = ext
		}
	}

	teams, rows, err := decomposeTeams(rows)
	if err != nil {
		return MatchTables{}, err
	}

	def, _ := schema.Lookup(schema.Match)
	match := rows.Project(def.ColumnNames()...).Compact().WithName(schema.Match)

	country, stripped := ConsolidateCountries(
		extracted[schema.Stadium],
		extracted[schema.Referee],
		teams.teams,
		teams.managers,
	)

	return MatchTables{
		Match:            match,
		CompetitionStage: extracted[schema.CompetitionStage],
		Stadium:          stripped[0],
		Referee:          stripped[1],
		TeamBaseInfo:     stripped[2],
		TeamManagerMatch: teams.links,
		ManagerBaseData:  stripped[3],
		Country:          country,
	}, nil
}
