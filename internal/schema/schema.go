package schema

// Kind is the semantic type a source column is coerced to.
type Kind int

const (
	Str Kind = iota
	Int
	Float
	Date
	JSON
)

type Column struct {
	Name   string // source column name
	Target string // destination column when the source name is a reserved word
	Kind   Kind
}

// Dest returns the destination column name.
func (c Column) Dest() string {
	if c.Target != "" {
		return c.Target
	}
	return c.Name
}

// Table is the immutable expected schema of one target table: ordered columns
// define positional mapping for delimited sources, and ConflictKey is the
// natural key used for upsert conflict resolution.
type Table struct {
	Name        string
	Columns     []Column
	ConflictKey []string
}

// DestNames returns the destination column names in schema order.
func (t Table) DestNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Dest()
	}
	return names
}

// Results is the fixed 39-column historical results schema. Positional order
// matters: delimited rows are mapped onto it by index after repair. The last
// column is the free-text comment the repair heuristic rejoins into.
func Results() Table {
	return Table{
		Name: "historical_racing_results",
		Columns: []Column{
			{Name: "date", Kind: Date},
			{Name: "region"},
			{Name: "course"},
			{Name: "off"},
			{Name: "race_name"},
			{Name: "type"},
			{Name: "class"},
			{Name: "pattern"},
			{Name: "rating_band"},
			{Name: "age_band"},
			{Name: "sex_rest"},
			{Name: "dist"},
			{Name: "dist_f"},
			{Name: "dist_m", Kind: Int},
			{Name: "going"},
			{Name: "ran", Kind: Int},
			{Name: "num", Kind: Int},
			{Name: "pos", Kind: Int},
			{Name: "draw", Kind: Int},
			{Name: "ovr_btn", Kind: Float},
			{Name: "btn", Kind: Float},
			{Name: "horse"},
			{Name: "age", Kind: Int},
			{Name: "sex"},
			{Name: "lbs", Kind: Int},
			{Name: "headgear"},
			{Name: "time"},
			{Name: "secs", Kind: Float},
			{Name: "dec", Kind: Float},
			{Name: "jockey"},
			{Name: "trainer"},
			{Name: "prize", Kind: Float},
			// "or" is a reserved word in the target store.
			{Name: "or", Target: "or_rating", Kind: Int},
			{Name: "rpr", Kind: Int},
			{Name: "sire"},
			{Name: "dam"},
			{Name: "damsire"},
			{Name: "owner"},
			{Name: "comment"},
		},
		ConflictKey: []string{"date", "course", "race_name", "horse", "pos"},
	}
}

// Racecards is the flattened racecard schema: race-level scalars merged with
// per-runner fields. The source is self-describing JSON, so column order only
// matters for upload statements, not for repair.
func Racecards() Table {
	return Table{
		Name: "racecards",
		Columns: []Column{
			{Name: "race_id"},
			{Name: "date", Kind: Date},
			{Name: "course"},
			{Name: "course_id", Kind: Int},
			{Name: "region"},
			{Name: "off_time"},
			{Name: "race_name"},
			{Name: "distance_round"},
			{Name: "distance"},
			{Name: "distance_f", Kind: Float},
			{Name: "pattern"},
			{Name: "race_class"},
			{Name: "type"},
			{Name: "age_band"},
			{Name: "rating_band"},
			{Name: "prize"},
			{Name: "field_size", Kind: Int},
			{Name: "going"},
			{Name: "going_detailed"},
			{Name: "rail_movements", Kind: JSON},
			{Name: "stalls"},
			{Name: "weather"},
			{Name: "surface"},
			{Name: "horse_id", Kind: Int},
			{Name: "horse_name"},
			{Name: "number", Kind: Int},
			{Name: "draw", Kind: Int},
			{Name: "age", Kind: Int},
			{Name: "sex"},
			{Name: "sex_code"},
			{Name: "colour"},
			{Name: "horse_region"},
			{Name: "dob", Kind: Date},
			{Name: "breeder"},
			{Name: "sire"},
			{Name: "sire_region"},
			{Name: "dam"},
			{Name: "dam_region"},
			{Name: "grandsire"},
			{Name: "damsire"},
			{Name: "damsire_region"},
			{Name: "trainer"},
			{Name: "trainer_id", Kind: Int},
			{Name: "trainer_location"},
			{Name: "trainer_14_days", Kind: JSON},
			{Name: "trainer_rtf"},
			{Name: "owner"},
			{Name: "jockey"},
			{Name: "jockey_id", Kind: Int},
			{Name: "lbs", Kind: Int},
			{Name: "ofr", Kind: Int},
			{Name: "rpr", Kind: Int},
			{Name: "ts", Kind: Int},
			{Name: "headgear"},
			{Name: "headgear_first"},
			{Name: "last_run"},
			{Name: "form"},
			{Name: "prev_trainers", Kind: JSON},
			{Name: "prev_owners", Kind: JSON},
			{Name: "comment"},
			{Name: "spotlight"},
			{Name: "medical", Kind: JSON},
			{Name: "quotes", Kind: JSON},
			{Name: "stable_tour", Kind: JSON},
			{Name: "stats", Kind: JSON},
		},
		ConflictKey: []string{"race_id", "horse_id"},
	}
}
