package ddl

import (
	"strings"
	"testing"
)

// TestBuildCreateTableSQL verifies that BuildCreateTableSQL generates the
// expected CREATE TABLE statements and surfaces appropriate errors for invalid
// inputs.
func TestBuildCreateTableSQL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		def         TableDef
		wantSQL     string
		wantErr     bool
		errContains string
	}{
		{
			name:        "empty FQN returns error",
			def:         TableDef{FQN: "", Columns: []ColumnDef{{Name: "id", SQLType: "INT"}}},
			wantErr:     true,
			errContains: "table FQN must not be empty",
		},
		{
			name:        "no columns returns error",
			def:         TableDef{FQN: "public.t"},
			wantErr:     true,
			errContains: "at least one column is required",
		},
		{
			name:        "column with empty name returns error",
			def:         TableDef{FQN: "t", Columns: []ColumnDef{{Name: "", SQLType: "INT"}}},
			wantErr:     true,
			errContains: "column with empty name",
		},
		{
			name:        "kind without a type mapper returns error",
			def:         TableDef{FQN: "t", Columns: []ColumnDef{{Name: "id", Kind: KindInt}}},
			wantErr:     true,
			errContains: "missing SQLType",
		},
		{
			name: "primary key and default",
			def: TableDef{
				FQN: "t",
				Columns: []ColumnDef{
					{Name: "id", SQLType: "INT", PrimaryKey: true},
					{Name: "created_at", SQLType: "TIMESTAMP", Default: "CURRENT_TIMESTAMP"},
					{Name: "name", SQLType: "TEXT", Nullable: true},
				},
			},
			wantSQL: "CREATE TABLE t (\n  id INT NOT NULL,\n  created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,\n  name TEXT,\n  PRIMARY KEY (id)\n);",
		},
		{
			name: "whitespace around names and types is trimmed",
			def: TableDef{
				FQN:     "  my_schema.my_table  ",
				Columns: []ColumnDef{{Name: "  col1  ", SQLType: "  INT  ", Nullable: true}},
			},
			wantSQL: "CREATE TABLE my_schema.my_table (\n  col1 INT\n);",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			gotSQL, err := BuildCreateTableSQL(tt.def)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("BuildCreateTableSQL() error = nil, want non-nil")
				}
				if tt.errContains != "" && !strings.Contains(err.Error(), tt.errContains) {
					t.Fatalf("BuildCreateTableSQL() error = %q, want substring %q", err.Error(), tt.errContains)
				}
				return
			}
			if err != nil {
				t.Fatalf("BuildCreateTableSQL() unexpected error = %v", err)
			}
			if gotSQL != tt.wantSQL {
				t.Fatalf("BuildCreateTableSQL() =\n%s\nwant:\n%s", gotSQL, tt.wantSQL)
			}
		})
	}
}

var testStyle = Style{
	Name:        "test ddl",
	Quote:       func(s string) string { return `"` + s + `"` },
	MapType:     func(k string) string { return strings.ToUpper(k) },
	IfNotExists: true,
}

var seasonDef = TableDef{
	FQN: "Season",
	Columns: []ColumnDef{
		{Name: "competition_id", Kind: KindInt, PrimaryKey: true},
		{Name: "season_id", Kind: KindInt, PrimaryKey: true},
		{Name: "season_start_year", Kind: KindInt},
		{Name: "label", Kind: KindText, SQLType: "VARCHAR(9)", Nullable: true},
	},
	ForeignKeys: []ForeignKeyDef{
		{Columns: []string{"competition_id"}, RefTable: "Competition", RefColumns: []string{"competition_id"}},
	},
}

func TestStyleCreateTable(t *testing.T) {
	t.Parallel()

	got, err := testStyle.CreateTable(seasonDef)
	if err != nil {
		t.Fatalf("CreateTable: %v", err)
	}
	want := "CREATE TABLE IF NOT EXISTS \"Season\" (\n" +
		"  \"competition_id\" INT NOT NULL,\n" +
		"  \"season_id\" INT NOT NULL,\n" +
		"  \"season_start_year\" INT NOT NULL,\n" +
		"  \"label\" VARCHAR(9),\n" +
		"  PRIMARY KEY (\"competition_id\", \"season_id\")\n);"
	if got != want {
		t.Fatalf("CreateTable =\n%s\nwant:\n%s", got, want)
	}
}

func TestStyleAddForeignKey(t *testing.T) {
	t.Parallel()

	got, err := testStyle.AddForeignKey(seasonDef, seasonDef.ForeignKeys[0])
	if err != nil {
		t.Fatalf("AddForeignKey: %v", err)
	}
	want := `ALTER TABLE "Season" ADD CONSTRAINT "fk_Season_competition_id" FOREIGN KEY ("competition_id") REFERENCES "Competition" ("competition_id");`
	if got != want {
		t.Fatalf("AddForeignKey =\n%s\nwant:\n%s", got, want)
	}

	_, err = testStyle.AddForeignKey(seasonDef, ForeignKeyDef{
		Columns: []string{"a", "b"}, RefTable: "X", RefColumns: []string{"a"},
	})
	if err == nil || !strings.Contains(err.Error(), "column count mismatch") {
		t.Fatalf("mismatched foreign key error = %v", err)
	}
}

// skipFK is a dialect that cannot add constraints after creation.
type skipFK struct{ Style }

func (skipFK) AddForeignKey(TableDef, ForeignKeyDef) (string, error) { return "", nil }

func TestScripts(t *testing.T) {
	t.Parallel()

	defs := []TableDef{
		{FQN: "Competition", Columns: []ColumnDef{{Name: "competition_id", Kind: KindInt, PrimaryKey: true}}},
		seasonDef,
	}

	create, err := CreateScript(testStyle, defs)
	if err != nil {
		t.Fatalf("CreateScript: %v", err)
	}
	if len(create) != 2 || !strings.Contains(create[0], `"Competition"`) {
		t.Fatalf("CreateScript = %q", create)
	}

	fks, err := ForeignKeyScript(testStyle, defs)
	if err != nil {
		t.Fatalf("ForeignKeyScript: %v", err)
	}
	if len(fks) != 1 {
		t.Fatalf("ForeignKeyScript returned %d statements; want 1", len(fks))
	}

	fks, err = ForeignKeyScript(skipFK{testStyle}, defs)
	if err != nil {
		t.Fatalf("ForeignKeyScript(skip): %v", err)
	}
	if len(fks) != 0 {
		t.Fatalf("unsupported foreign keys were emitted: %q", fks)
	}
}

func TestConstraintNameStripsSchema(t *testing.T) {
	t.Parallel()

	fk := ForeignKeyDef{Columns: []string{"competition_id", "season_id"}}
	if got := fk.ConstraintName("dbo.Match"); got != "fk_Match_competition_id_season_id" {
		t.Fatalf("ConstraintName = %q", got)
	}
}

// benchmarkSink is a package-level variable used to prevent the compiler from
// optimizing away the results of CreateTable in benchmarks.
var benchmarkSink string

func BenchmarkStyleCreateTable(b *testing.B) {
	for i := 0; i < b.N; i++ {
		sql, err := testStyle.CreateTable(seasonDef)
		if err != nil {
			b.Fatalf("CreateTable() error = %v", err)
		}
		benchmarkSink = sql
	}
}
