// Package schema declares the relational model the normalizer produces: the
// ten table names, their columns with logical kinds, primary keys and
// foreign keys. Storage backends render these definitions through their
// ddl.Dialect; the pipeline uses them to conform produced tables before load.
package schema

import (
	"footballetl/internal/ddl"
)

// Table names. They are part of the storage contract and must not change.
const (
	Match            = "Match"
	CompetitionStage = "CompetitionStage"
	Stadium          = "Stadium"
	Referee          = "Referee"
	TeamBaseInfo     = "TeamBaseInfo"
	TeamManagerMatch = "TeamManagerMatch"
	ManagerBaseData  = "ManagerBaseData"
	Country          = "Country"
	Competition      = "Competition"
	Season           = "Season"
)

func pk(name, kind string) ddl.ColumnDef {
	return ddl.ColumnDef{Name: name, Kind: kind, PrimaryKey: true}
}

func req(name, kind string) ddl.ColumnDef {
	return ddl.ColumnDef{Name: name, Kind: kind}
}

func opt(name, kind string) ddl.ColumnDef {
	return ddl.ColumnDef{Name: name, Kind: kind, Nullable: true}
}

func fk(cols []string, ref string, refCols ...string) ddl.ForeignKeyDef {
	if len(refCols) == 0 {
		refCols = cols
	}
	return ddl.ForeignKeyDef{Columns: cols, RefTable: ref, RefColumns: refCols}
}

func cols(c ...string) []string { return c }

var countryFK = fk(cols("country_id"), Country)

// definitions lists every table in creation order: a table only references
// tables that appear before it.
var definitions = []ddl.TableDef{
	{
		FQN: Country,
		Columns: []ddl.ColumnDef{
			pk("country_id", ddl.KindInt),
			opt("country_name", ddl.KindText),
		},
	},
	{
		FQN: Competition,
		Columns: []ddl.ColumnDef{
			pk("competition_id", ddl.KindInt),
			opt("competition_name", ddl.KindText),
			opt("competition_gender", ddl.KindText),
			opt("country_id", ddl.KindInt),
			opt("competition_is_youth", ddl.KindBool),
			opt("competition_is_international", ddl.KindBool),
		},
		ForeignKeys: []ddl.ForeignKeyDef{countryFK},
	},
	{
		FQN: Season,
		Columns: []ddl.ColumnDef{
			pk("competition_id", ddl.KindInt),
			pk("season_id", ddl.KindInt),
			req("season_start_year", ddl.KindInt),
			req("season_end_year", ddl.KindInt),
		},
		ForeignKeys: []ddl.ForeignKeyDef{fk(cols("competition_id"), Competition)},
	},
	{
		FQN: CompetitionStage,
		Columns: []ddl.ColumnDef{
			pk("competition_stage_id", ddl.KindInt),
			opt("competition_stage_name", ddl.KindText),
		},
	},
	{
		FQN: Stadium,
		Columns: []ddl.ColumnDef{
			pk("stadium_id", ddl.KindInt),
			opt("stadium_name", ddl.KindText),
			opt("country_id", ddl.KindInt),
		},
		ForeignKeys: []ddl.ForeignKeyDef{countryFK},
	},
	{
		FQN: Referee,
		Columns: []ddl.ColumnDef{
			pk("referee_id", ddl.KindInt),
			opt("referee_name", ddl.KindText),
			opt("country_id", ddl.KindInt),
		},
		ForeignKeys: []ddl.ForeignKeyDef{countryFK},
	},
	{
		FQN: TeamBaseInfo,
		Columns: []ddl.ColumnDef{
			pk("team_id", ddl.KindInt),
			opt("team_name", ddl.KindText),
			opt("team_gender", ddl.KindText),
			opt("country_id", ddl.KindInt),
		},
		ForeignKeys: []ddl.ForeignKeyDef{countryFK},
	},
	{
		FQN: ManagerBaseData,
		Columns: []ddl.ColumnDef{
			pk("manager_id", ddl.KindInt),
			opt("manager_name", ddl.KindText),
			opt("manager_nickname", ddl.KindText),
			opt("manager_dob", ddl.KindDate),
			opt("country_id", ddl.KindInt),
		},
		ForeignKeys: []ddl.ForeignKeyDef{countryFK},
	},
	{
		FQN: Match,
		Columns: []ddl.ColumnDef{
			pk("match_id", ddl.KindInt),
			req("match_datetime", ddl.KindDateTime),
			req("competition_id", ddl.KindInt),
			req("season_id", ddl.KindInt),
			req("home_team_id", ddl.KindInt),
			req("away_team_id", ddl.KindInt),
			opt("home_score", ddl.KindInt),
			opt("away_score", ddl.KindInt),
			opt("match_week", ddl.KindInt),
			opt("competition_stage_id", ddl.KindInt),
			opt("stadium_id", ddl.KindInt),
			opt("referee_id", ddl.KindInt),
			opt("match_status", ddl.KindText),
			opt("match_status_360", ddl.KindText),
			opt("last_updated", ddl.KindText),
			opt("last_updated_360", ddl.KindText),
			opt("data_version", ddl.KindText),
			opt("shot_fidelity_version", ddl.KindText),
			opt("xy_fidelity_version", ddl.KindText),
		},
		ForeignKeys: []ddl.ForeignKeyDef{
			fk(cols("competition_id"), Competition),
			fk(cols("competition_id", "season_id"), Season),
			fk(cols("home_team_id"), TeamBaseInfo, "team_id"),
			fk(cols("away_team_id"), TeamBaseInfo, "team_id"),
			fk(cols("competition_stage_id"), CompetitionStage),
			fk(cols("stadium_id"), Stadium),
			fk(cols("referee_id"), Referee),
		},
	},
	{
		FQN: TeamManagerMatch,
		Columns: []ddl.ColumnDef{
			pk("match_id", ddl.KindInt),
			pk("team_id", ddl.KindInt),
			pk("manager_id", ddl.KindInt),
		},
		ForeignKeys: []ddl.ForeignKeyDef{
			fk(cols("match_id"), Match),
			fk(cols("team_id"), TeamBaseInfo),
			fk(cols("manager_id"), ManagerBaseData),
		},
	},
}

// Tables returns a copy of every table definition in creation order.
func Tables() []ddl.TableDef {
	out := make([]ddl.TableDef, len(definitions))
	copy(out, definitions)
	return out
}

// Names returns the table names in creation order.
func Names() []string {
	out := make([]string, len(definitions))
	for i, d := range definitions {
		out[i] = d.FQN
	}
	return out
}

// Lookup returns the definition of the named table.
func Lookup(name string) (ddl.TableDef, bool) {
	for _, d := range definitions {
		if d.FQN == name {
			return d, true
		}
	}
	return ddl.TableDef{}, false
}
