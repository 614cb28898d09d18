package normalize

import (
	"reflect"
	"testing"

	"footballetl/internal/table"
	"footballetl/pkg/records"
)

func flatMatches(t *testing.T, docs ...records.Record) table.Table {
	t.Helper()
	flat, err := flattenAll(docs, MatchSchema)
	if err != nil {
		t.Fatalf("flattenAll: %v", err)
	}
	return table.FromRecords("match", flat)
}

func TestManagerExpansionCount(t *testing.T) {
	t.Parallel()

	rows := flatMatches(t, scenarioDoc())
	total := 0
	for _, side := range []string{"home", "away"} {
		sideRows, rest, err := table.Extract(rows, side, sideMapping(side), []string{"match_id"})
		if err != nil {
			t.Fatalf("Extract(%s): %v", side, err)
		}
		unnested, err := unnestManagers(sideRows, side)
		if err != nil {
			t.Fatalf("unnestManagers(%s): %v", side, err)
		}
		total += unnested.Len()
		rows = rest
	}
	if total != 3 {
		t.Fatalf("expanded %d manager rows; want 3", total)
	}
}

func TestUnnestManagersKeepsAlignment(t *testing.T) {
	t.Parallel()

	side := table.New("home", []string{"match_id", "team_id", "managers"}, []records.Record{
		{"match_id": int64(1), "team_id": int64(5), "managers": []any{
			map[string]any{"id": 20, "name": "first"},
			map[string]any{"id": 21, "name": "second"},
		}},
		{"match_id": int64(2), "team_id": int64(5), "managers": []any{}},
		{"match_id": int64(3), "team_id": int64(5), "managers": nil},
		{"match_id": int64(4), "team_id": int64(5), "managers": []any{
			map[string]any{"id": 22, "name": "third"},
		}},
	})

	got, err := unnestManagers(side, "home")
	if err != nil {
		t.Fatalf("unnestManagers: %v", err)
	}
	var pairs [][3]any
	for _, r := range got.Rows {
		pairs = append(pairs, [3]any{r["match_id"], r["manager_id"], r["manager_name"]})
	}
	want := [][3]any{
		{int64(1), int64(20), "first"},
		{int64(1), int64(21), "second"},
		{int64(4), int64(22), "third"},
	}
	if !reflect.DeepEqual(pairs, want) {
		t.Fatalf("pairs = %v; want %v", pairs, want)
	}
}

func TestDecomposeSideRetainsTeamID(t *testing.T) {
	t.Parallel()

	rows := flatMatches(t, scenarioDoc())
	got, rest, err := decomposeSide(rows, "home")
	if err != nil {
		t.Fatalf("decomposeSide: %v", err)
	}
	if !rest.Has("home_team_id") || !rest.Has("match_id") {
		t.Fatalf("rest columns = %v; want match_id and home_team_id", rest.Columns)
	}
	for _, c := range rest.Columns {
		if len(c) > len("home_team.") && c[:len("home_team.")] == "home_team." {
			t.Fatalf("rest still carries %s", c)
		}
	}
	if got.teams.Len() != 1 || got.links.Len() != 2 || got.managers.Len() != 2 {
		t.Fatalf("teams=%d links=%d managers=%d; want 1/2/2", got.teams.Len(), got.links.Len(), got.managers.Len())
	}
	if rest.Rows[0]["home_team_id"] != int64(1) {
		t.Fatalf("home_team_id = %#v", rest.Rows[0]["home_team_id"])
	}
}

func TestDecomposeTeamsUnionCollapsesSharedManager(t *testing.T) {
	t.Parallel()

	got, _, err := decomposeTeams(flatMatches(t, scenarioDoc()))
	if err != nil {
		t.Fatalf("decomposeTeams: %v", err)
	}
	if got.managers.Len() != 2 {
		t.Fatalf("ManagerBaseData rows = %d; want 2 (manager 10 on both sides)", got.managers.Len())
	}
	if got.links.Len() != 3 {
		t.Fatalf("TeamManagerMatch rows = %d; want 3", got.links.Len())
	}
}
