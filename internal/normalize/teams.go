package normalize

import (
	"fmt"

	"footballetl/internal/schema"
	"footballetl/internal/table"
	"footballetl/pkg/records"
)

var (
	teamColumns    = []string{"team_id", "team_name", "team_gender", "country_id", "country_name"}
	linkColumns    = []string{"match_id", "team_id", "manager_id"}
	managerColumns = []string{"manager_id", "manager_name", "manager_nickname", "manager_dob", "country_id", "country_name"}
	unnestColumns  = append([]string{"match_id", "team_id"}, managerColumns...)
)

// teamTables are the three tables one team side contributes. Country names
// are still present; the consolidator strips them.
type teamTables struct {
	teams    table.Table
	links    table.Table
	managers table.Table
}

func sideMapping(side string) table.Mapping {
	p := side + "_team."
	return table.Mapping{
		table.Col("match_id", "match_id"),
		table.Col(p+side+"_team_id", "team_id"),
		table.Col(p+side+"_team_name", "team_name"),
		table.Col(p+side+"_team_gender", "team_gender"),
		table.Col(p+side+"_team_group", "team_group"),
		table.Col(p+"country.id", "country_id"),
		table.Col(p+"country.name", "country_name"),
		table.Col(p+"managers", "managers"),
	}
}

// decomposeSide peels one team side ("home" or "away") off the working
// rows. The returned rows keep match_id and the side's team id as
// {side}_team_id; every other side column is consumed.
func decomposeSide(rows table.Table, side string) (teamTables, table.Table, error) {
	idCol := side + "_team." + side + "_team_id"
	sideRows, rest, err := table.Extract(rows, side+"_team", sideMapping(side), []string{"match_id", idCol})
	if err != nil {
		return teamTables{}, table.Table{}, err
	}
	rest = rest.Rename("team_id", side+"_team_id")

	unnested, err := unnestManagers(sideRows, side)
	if err != nil {
		return teamTables{}, table.Table{}, err
	}

	return teamTables{
		teams:    sideRows.Project(teamColumns...).Compact().WithName(schema.TeamBaseInfo),
		links:    unnested.Project(linkColumns...).Compact().WithName(schema.TeamManagerMatch),
		managers: unnested.Project(managerColumns...).Compact().WithName(schema.ManagerBaseData),
	}, rest, nil
}

// unnestManagers expands each side row's managers list into one row per
// manager. Expansion and flattening happen in the same loop over the list
// index, so a manager's attributes can never pair with another manager's
// (match_id, team_id). An empty or null list contributes nothing.
func unnestManagers(sideRows table.Table, side string) (table.Table, error) {
	path := side + "_team.managers"
	var out []records.Record
	for _, r := range sideRows.Rows {
		list, ok := r["managers"].([]any)
		if !ok && r["managers"] != nil {
			return table.Table{}, &MalformedDocumentError{
				Kind: "match", Index: -1, ID: r["match_id"], Path: path,
				Reason: fmt.Sprintf("expected list, got %T", r["managers"]),
			}
		}
		for i, elem := range list {
			m, err := ManagerSchema.element(path, i, elem)
			if err != nil {
				return table.Table{}, atDocument(err, "match", -1, r["match_id"])
			}
			dob, err := parseDate(fmt.Sprintf("%s[%d].dob", path, i), m["dob"])
			if err != nil {
				return table.Table{}, atDocument(err, "match", -1, r["match_id"])
			}
			out = append(out, records.Record{
				"match_id":         r["match_id"],
				"team_id":          r["team_id"],
				"manager_id":       m["id"],
				"manager_name":     m["name"],
				"manager_nickname": m["nickname"],
				"manager_dob":      dob,
				"country_id":       m["country.id"],
				"country_name":     m["country.name"],
			})
		}
	}
	return table.New("managers", unnestColumns, out), nil
}

// decomposeTeams runs decomposeSide for home then away and unions the
// results. A team or manager seen on both sides collapses to one row.
func decomposeTeams(rows table.Table) (teamTables, table.Table, error) {
	var sides []teamTables
	for _, side := range []string{"home", "away"} {
		tt, rest, err := decomposeSide(rows, side)
		if err != nil {
			return teamTables{}, table.Table{}, err
		}
		sides = append(sides, tt)
		rows = rest
	}
	return teamTables{
		teams:    table.Concat(schema.TeamBaseInfo, sides[0].teams, sides[1].teams).Compact(),
		links:    table.Concat(schema.TeamManagerMatch, sides[0].links, sides[1].links).Compact(),
		managers: table.Concat(schema.ManagerBaseData, sides[0].managers, sides[1].managers).Compact(),
	}, rows, nil
}
