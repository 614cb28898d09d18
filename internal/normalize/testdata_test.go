package normalize

import (
	"footballetl/pkg/records"
)

func country(id int, name string) map[string]any {
	return map[string]any{"id": id, "name": name}
}

func manager(id int, name string, c map[string]any) map[string]any {
	return map[string]any{
		"id":       id,
		"name":     name,
		"nickname": nil,
		"dob":      "1970-01-02",
		"country":  c,
	}
}

func team(side string, id int, name string, c map[string]any, managers ...any) map[string]any {
	t := map[string]any{
		side + "_team_id":     id,
		side + "_team_name":   name,
		side + "_team_gender": "male",
		side + "_team_group":  nil,
		"country":             c,
	}
	if managers != nil {
		t["managers"] = managers
	}
	return t
}

// matchDoc builds a match document in the shape of the open-data export.
func matchDoc(id int, home, away map[string]any) records.Record {
	return records.Record{
		"match_id":   id,
		"match_date": "2021-05-01",
		"kick_off":   "15:00:00.000",
		"competition": map[string]any{
			"competition_id":   2,
			"country_name":     "England",
			"competition_name": "Premier League",
		},
		"season": map[string]any{
			"season_id":   44,
			"season_name": "2020/2021",
		},
		"home_team":        home,
		"away_team":        away,
		"home_score":       2,
		"away_score":       1,
		"match_status":     "available",
		"match_status_360": "scheduled",
		"last_updated":     "2021-06-13T16:17:31.694",
		"last_updated_360": nil,
		"metadata": map[string]any{
			"data_version":          "1.1.0",
			"shot_fidelity_version": "2",
			"xy_fidelity_version":   "2",
		},
		"match_week": 35,
		"competition_stage": map[string]any{
			"id":   1,
			"name": "Regular Season",
		},
		"stadium": map[string]any{
			"id":      5,
			"name":    "Anfield",
			"country": country(68, "England"),
		},
		"referee": map[string]any{
			"id":      7,
			"name":    "M. Oliver",
			"country": country(68, "England"),
		},
	}
}

// scenarioDoc is the single match of the end-to-end scenario: the home team
// lists managers 10 and 11, the away team lists manager 10.
func scenarioDoc() records.Record {
	return matchDoc(100,
		team("home", 1, "Liverpool", country(68, "England"),
			manager(10, "A", country(68, "England")),
			manager(11, "B", country(214, "Spain"))),
		team("away", 2, "Everton", country(68, "England"),
			manager(10, "A", country(68, "England"))),
	)
}
