package parser

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/Yorktech/rpscrape/internal/models"
)

// raceDoc is the nested racecard shape: region -> course -> off time -> race.
type raceDoc map[string]map[string]map[string]map[string]any

// raceFields are the race-level keys copied onto every runner row. Keys map
// source name -> flattened column name.
var raceFields = map[string]string{
	"race_id":        "race_id",
	"date":           "date",
	"course":         "course",
	"course_id":      "course_id",
	"region":         "region",
	"off_time":       "off_time",
	"race_name":      "race_name",
	"distance_round": "distance_round",
	"distance":       "distance",
	"distance_f":     "distance_f",
	"pattern":        "pattern",
	"race_class":     "race_class",
	"type":           "type",
	"age_band":       "age_band",
	"rating_band":    "rating_band",
	"prize":          "prize",
	"field_size":     "field_size",
	"going":          "going",
	"going_detailed": "going_detailed",
	"rail_movements": "rail_movements",
	"stalls":         "stalls",
	"weather":        "weather",
	"surface":        "surface",
}

// runnerFields maps runner-level keys to flattened column names. "name" and
// "region" are renamed so they do not collide with the race-level fields.
var runnerFields = map[string]string{
	"horse_id":         "horse_id",
	"name":             "horse_name",
	"number":           "number",
	"draw":             "draw",
	"age":              "age",
	"sex":              "sex",
	"sex_code":         "sex_code",
	"colour":           "colour",
	"region":           "horse_region",
	"dob":              "dob",
	"breeder":          "breeder",
	"sire":             "sire",
	"sire_region":      "sire_region",
	"dam":              "dam",
	"dam_region":       "dam_region",
	"grandsire":        "grandsire",
	"damsire":          "damsire",
	"damsire_region":   "damsire_region",
	"trainer":          "trainer",
	"trainer_id":       "trainer_id",
	"trainer_location": "trainer_location",
	"trainer_14_days":  "trainer_14_days",
	"trainer_rtf":      "trainer_rtf",
	"owner":            "owner",
	"jockey":           "jockey",
	"jockey_id":        "jockey_id",
	"lbs":              "lbs",
	"ofr":              "ofr",
	"rpr":              "rpr",
	"ts":               "ts",
	"headgear":         "headgear",
	"headgear_first":   "headgear_first",
	"last_run":         "last_run",
	"form":             "form",
	"prev_trainers":    "prev_trainers",
	"prev_owners":      "prev_owners",
	"comment":          "comment",
	"spotlight":        "spotlight",
	"medical":          "medical",
	"quotes":           "quotes",
	"stable_tour":      "stable_tour",
	"stats":            "stats",
}

// ParseRacecards walks the three-level racecard nesting and flattens each
// runner into one RawRecord merged with its race's scalar fields. The source
// is self-describing, so no column-count repair applies; absent optional
// structures stay nil and serialize to null downstream. Group keys are walked
// in sorted order so output order is deterministic.
func ParseRacecards(path string) ([]models.RawRecord, []models.AppError, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}

	var doc raceDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("failed to decode racecards JSON %s: %w", path, err)
	}

	var records []models.RawRecord
	for _, region := range sortedKeys(doc) {
		courses := doc[region]
		for _, course := range sortedKeys(courses) {
			times := courses[course]
			for _, offTime := range sortedKeys(times) {
				records = append(records, flattenRace(times[offTime])...)
			}
		}
	}

	return records, nil, nil
}

func flattenRace(race map[string]any) []models.RawRecord {
	raceInfo := make(models.RawRecord, len(raceFields))
	for src, dst := range raceFields {
		raceInfo[dst] = race[src]
	}

	runners, _ := race["runners"].([]any)
	records := make([]models.RawRecord, 0, len(runners))
	for _, r := range runners {
		runner, ok := r.(map[string]any)
		if !ok {
			continue
		}
		record := make(models.RawRecord, len(raceFields)+len(runnerFields))
		for k, v := range raceInfo {
			record[k] = v
		}
		for src, dst := range runnerFields {
			record[dst] = runner[src]
		}
		records = append(records, record)
	}
	return records
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
