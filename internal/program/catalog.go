package program

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

const (
	documentProgram   = "program"
	documentExercises = "exercises"
)

var requiredProgramFields = []string{"id", "name", "version", "description", "workoutTypes", "schedule"}

// LoadFiles reads the program definition and the exercise catalog from disk
// and validates them. Both JSON and YAML documents are accepted.
func LoadFiles(programPath, exercisesPath string) (*Catalog, error) {
	programDoc, err := os.ReadFile(programPath)
	if err != nil {
		return nil, fmt.Errorf("read program document: %w", err)
	}
	exercisesDoc, err := os.ReadFile(exercisesPath)
	if err != nil {
		return nil, fmt.Errorf("read exercises document: %w", err)
	}
	return Load(programDoc, exercisesDoc)
}

// Load validates both documents and decodes them into a Catalog.
// Any structural problem yields a *MalformedProgramDataError listing every
// failed check; no partially loaded catalog is ever returned.
func Load(programDoc, exercisesDoc []byte) (*Catalog, error) {
	programRaw, programParseErr := parseDocument(documentProgram, programDoc)
	exercisesRaw, exercisesParseErr := parseDocument(documentExercises, exercisesDoc)

	var problems error
	if programParseErr != nil {
		problems = programParseErr
	} else {
		problems = validateProgram(programRaw)
	}
	if exercisesParseErr != nil {
		problems = multierr.Append(problems, exercisesParseErr)
	} else {
		problems = multierr.Append(problems, validateExercises(exercisesRaw))
	}
	if problems != nil {
		return nil, &MalformedProgramDataError{err: problems}
	}

	var program Program
	if err := decodeTyped(documentProgram, programRaw, &program); err != nil {
		return nil, err
	}
	var exercises ExerciseCatalog
	if err := decodeTyped(documentExercises, exercisesRaw, &exercises); err != nil {
		return nil, err
	}
	for id, ex := range exercises.Exercises {
		if ex.ID == "" {
			ex.ID = id
			exercises.Exercises[id] = ex
		}
	}

	log.Debugf("program [%s] v%s loaded: %d weeks, %d workout types, %d catalog exercises",
		program.ID, program.Version, len(program.Schedule.Weeks), len(program.WorkoutTypes), len(exercises.Exercises))

	return &Catalog{
		Program:   &program,
		Exercises: &exercises,
	}, nil
}

func parseDocument(document string, data []byte) (any, error) {
	var raw any
	unmarshal := yaml.Unmarshal
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		unmarshal = json.Unmarshal
	}
	if err := unmarshal(data, &raw); err != nil {
		c := &problemCollector{document: document}
		c.add("$", "unparsable document: %s", err)
		return nil, c.err
	}
	return raw, nil
}

func decodeTyped(document string, raw any, target any) error {
	payload, err := json.Marshal(raw)
	if err == nil {
		err = json.Unmarshal(payload, target)
	}
	if err != nil {
		c := &problemCollector{document: document}
		c.add("$", "decode: %s", err)
		return &MalformedProgramDataError{err: c.err}
	}
	return nil
}

func validateProgram(raw any) error {
	c := &problemCollector{document: documentProgram}

	root, ok := raw.(map[string]any)
	if !ok {
		c.add("$", "document must be an object")
		return c.err
	}

	// (a) required top-level fields
	for _, field := range requiredProgramFields {
		if isMissing(root[field]) {
			c.add(field, "required field missing")
		}
	}

	// (b) workoutTypes must be a non-array object
	workoutTypes, workoutTypesOK := root["workoutTypes"].(map[string]any)
	if !isMissing(root["workoutTypes"]) && !workoutTypesOK {
		c.add("workoutTypes", "must be an object")
	}
	for key, wt := range workoutTypes {
		wtObj, ok := wt.(map[string]any)
		if !ok {
			c.add("workoutTypes."+key, "must be an object")
			continue
		}
		if sections, present := wtObj["sections"]; present {
			if _, ok := sections.([]any); !ok {
				c.add("workoutTypes."+key+".sections", "must be a list")
			}
		}
	}

	if isMissing(root["schedule"]) {
		return c.err
	}
	schedule, ok := root["schedule"].(map[string]any)
	if !ok {
		c.add("schedule", "must be an object")
		return c.err
	}

	// (c) schedule.weeks must be a list
	weeks, ok := schedule["weeks"].([]any)
	if !ok {
		c.add("schedule.weeks", "must be a list")
		return c.err
	}

	// (d) every week has an id and a list of days, (f) every day resolves
	for w, week := range weeks {
		weekField := fmt.Sprintf("schedule.weeks[%d]", w)
		weekObj, ok := week.(map[string]any)
		if !ok {
			c.add(weekField, "must be an object")
			continue
		}
		if id, ok := weekObj["id"].(string); !ok || id == "" {
			c.add(weekField+".id", "required string field missing")
		}
		days, ok := weekObj["days"].([]any)
		if !ok {
			c.add(weekField+".days", "must be a list")
			continue
		}
		for d, day := range days {
			dayField := fmt.Sprintf("%s.days[%d]", weekField, d)
			dayKey, ok := day.(string)
			if !ok {
				c.add(dayField, "must be a string")
				continue
			}
			if strings.TrimSpace(dayKey) == "" || !workoutTypesOK {
				continue
			}
			if _, ok := workoutTypes[BaseWorkoutKey(dayKey)]; !ok {
				c.add(dayField, "unknown workout type %q (base key %q)", dayKey, BaseWorkoutKey(dayKey))
			}
		}
	}

	return c.err
}

func validateExercises(raw any) error {
	c := &problemCollector{document: documentExercises}

	root, ok := raw.(map[string]any)
	if !ok {
		c.add("$", "document must be an object")
		return c.err
	}

	// (e) categories and exercises must be non-array objects
	for _, field := range []string{"categories", "exercises"} {
		if isMissing(root[field]) {
			c.add(field, "required field missing")
			continue
		}
		if _, ok := root[field].(map[string]any); !ok {
			c.add(field, "must be an object")
		}
	}

	return c.err
}

func isMissing(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	default:
		return false
	}
}
