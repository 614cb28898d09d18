package normalize

import (
	"fmt"
	"time"

	"footballetl/pkg/records"
)

// Kind is the expected type of a flattened field.
type Kind int

const (
	KindInt Kind = iota
	KindString
	KindBool
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindList:
		return "list"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Field declares one dotted path of a document kind. Elem, when set on a
// list field, is the schema every list element must satisfy.
type Field struct {
	Path     string
	Kind     Kind
	Required bool
	Elem     *Schema
}

// Schema is the explicit shape of one document kind. Fields not declared
// are tolerated and simply never extracted.
type Schema struct {
	Kind   string
	IDPath string
	Fields []Field
}

// Check validates a flattened document against s. Null is accepted for
// optional fields.
func (s Schema) Check(r records.Record) error {
	for _, f := range s.Fields {
		v := r[f.Path]
		if v == nil {
			if f.Required {
				return malformed(f.Path, "missing required %s field", f.Kind)
			}
			continue
		}
		if !f.Kind.matches(v) {
			return malformed(f.Path, "expected %s, got %T", f.Kind, v)
		}
		if f.Elem == nil {
			continue
		}
		for i, elem := range v.([]any) {
			if _, err := f.Elem.element(f.Path, i, elem); err != nil {
				return err
			}
		}
	}
	return nil
}

// element flattens and checks the i-th element of the list at path.
// Errors carry the element's full path.
func (s Schema) element(path string, i int, v any) (records.Record, error) {
	at := fmt.Sprintf("%s[%d]", path, i)
	obj, ok := asObject(v)
	if !ok {
		return nil, malformed(at, "expected object, got %T", v)
	}
	flat, err := Flatten(obj)
	if err == nil {
		err = s.Check(flat)
	}
	if m, ok := err.(*MalformedDocumentError); ok {
		m.Path = at + "." + m.Path
		return nil, m
	}
	return flat, err
}

func (k Kind) matches(v any) bool {
	switch k {
	case KindInt:
		_, ok := v.(int64)
		return ok
	case KindString:
		_, ok := v.(string)
		return ok
	case KindBool:
		_, ok := v.(bool)
		return ok
	case KindList:
		_, ok := v.([]any)
		return ok
	}
	return false
}

// ManagerSchema is the shape of one element of a team's managers list.
var ManagerSchema = Schema{
	Kind:   "manager",
	IDPath: "id",
	Fields: []Field{
		{Path: "id", Kind: KindInt, Required: true},
		{Path: "name", Kind: KindString},
		{Path: "nickname", Kind: KindString},
		{Path: "dob", Kind: KindString},
		{Path: "country.id", Kind: KindInt},
		{Path: "country.name", Kind: KindString},
	},
}

func teamFields(side string) []Field {
	p := side + "_team."
	return []Field{
		{Path: p + side + "_team_id", Kind: KindInt, Required: true},
		{Path: p + side + "_team_name", Kind: KindString},
		{Path: p + side + "_team_gender", Kind: KindString},
		{Path: p + "country.id", Kind: KindInt},
		{Path: p + "country.name", Kind: KindString},
		{Path: p + "managers", Kind: KindList, Elem: &ManagerSchema},
	}
}

func entityFields(prefix string) []Field {
	return []Field{
		{Path: prefix + ".id", Kind: KindInt},
		{Path: prefix + ".name", Kind: KindString},
		{Path: prefix + ".country.id", Kind: KindInt},
		{Path: prefix + ".country.name", Kind: KindString},
	}
}

// MatchSchema is the shape of a flattened match document.
var MatchSchema = Schema{
	Kind:   "match",
	IDPath: "match_id",
	Fields: concat(
		[]Field{
			{Path: "match_id", Kind: KindInt, Required: true},
			{Path: "match_date", Kind: KindString, Required: true},
			{Path: "kick_off", Kind: KindString},
			{Path: "home_score", Kind: KindInt},
			{Path: "away_score", Kind: KindInt},
			{Path: "match_week", Kind: KindInt},
			{Path: "match_status", Kind: KindString},
			{Path: "match_status_360", Kind: KindString},
			{Path: "last_updated", Kind: KindString},
			{Path: "last_updated_360", Kind: KindString},
			{Path: "competition.competition_id", Kind: KindInt, Required: true},
			{Path: "competition.competition_name", Kind: KindString},
			{Path: "competition.country_name", Kind: KindString},
			{Path: "season.season_id", Kind: KindInt, Required: true},
			{Path: "season.season_name", Kind: KindString},
			{Path: "competition_stage.id", Kind: KindInt},
			{Path: "competition_stage.name", Kind: KindString},
			{Path: "metadata.data_version", Kind: KindString},
			{Path: "metadata.shot_fidelity_version", Kind: KindString},
			{Path: "metadata.xy_fidelity_version", Kind: KindString},
		},
		teamFields("home"),
		teamFields("away"),
		entityFields("stadium"),
		entityFields("referee"),
	),
}

// CompetitionSchema is the shape of one competition-season document.
var CompetitionSchema = Schema{
	Kind:   "competition",
	IDPath: "competition_id",
	Fields: []Field{
		{Path: "competition_id", Kind: KindInt, Required: true},
		{Path: "season_id", Kind: KindInt, Required: true},
		{Path: "season_name", Kind: KindString, Required: true},
		{Path: "competition_name", Kind: KindString},
		{Path: "competition_gender", Kind: KindString},
		{Path: "country_name", Kind: KindString},
		{Path: "competition_youth", Kind: KindBool},
		{Path: "competition_international", Kind: KindBool},
	},
}

func concat(groups ...[]Field) []Field {
	var out []Field
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// flattenAll flattens and checks every document of one kind. The first
// failure aborts the whole set.
func flattenAll(docs []records.Record, s Schema) ([]records.Record, error) {
	out := make([]records.Record, 0, len(docs))
	for i, d := range docs {
		r, err := Flatten(d)
		if err != nil {
			return nil, atDocument(err, s.Kind, i, d[s.IDPath])
		}
		if err := s.Check(r); err != nil {
			return nil, atDocument(err, s.Kind, i, r[s.IDPath])
		}
		out = append(out, r)
	}
	return out, nil
}

const (
	dateLayout     = "2006-01-02"
	clockLayout    = "15:04:05"
	DateTimeLayout = "2006-01-02 15:04:05"
)

// parseDate parses a YYYY-MM-DD field. Null and empty strings stay null.
func parseDate(path string, v any) (any, error) {
	s, ok := v.(string)
	if v == nil || (ok && s == "") {
		return nil, nil
	}
	if !ok {
		return nil, malformed(path, "expected string date, got %T", v)
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, dateError(path, s, dateLayout, err)
	}
	return t, nil
}

// mergeDateTime combines match_date and kick_off into one UTC timestamp
// truncated to the second. A null kick_off means midnight.
func mergeDateTime(date, kickOff any) (time.Time, error) {
	d, err := parseDate("match_date", date)
	if err != nil {
		return time.Time{}, err
	}
	day, ok := d.(time.Time)
	if !ok {
		return time.Time{}, malformed("match_date", "missing required string field")
	}
	var clock time.Time
	if s, _ := kickOff.(string); s != "" {
		// time.Parse accepts a fractional second after the seconds field
		// even when the layout has none, so "15:00:00.000" parses.
		clock, err = time.Parse(clockLayout, s)
		if err != nil {
			return time.Time{}, dateError("kick_off", s, clockLayout, err)
		}
	}
	return time.Date(day.Year(), day.Month(), day.Day(),
		clock.Hour(), clock.Minute(), clock.Second(), 0, time.UTC), nil
}
