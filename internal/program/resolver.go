package program

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
)

const (
	alternateMarker = " OR "
	emphasisMarker  = "*"

	DefaultResolverCacheSize = 4 * 1024 * 1024
)

// BaseWorkoutKey strips the alternate and emphasis markers off a day key:
//
//	"Hybrid A OR Recovery*" -> "Hybrid A"
//	"Hybrid B*"             -> "Hybrid B"
func BaseWorkoutKey(dayKey string) string {
	base, _, _ := strings.Cut(dayKey, alternateMarker)
	base = strings.Trim(strings.TrimSpace(base), emphasisMarker)
	return strings.TrimSpace(base)
}

// WorkoutProgram is a workout type with every exercise merged against the
// catalog defaults. It is computed on demand and never persisted.
type WorkoutProgram struct {
	Key         string            `json:"key"`
	Name        string            `json:"name"`
	ColorClass  string            `json:"colorClass,omitempty"`
	Description string            `json:"description,omitempty"`
	RPERange    string            `json:"rpeRange,omitempty"`
	Notes       string            `json:"notes,omitempty"`
	Sections    []ResolvedSection `json:"sections"`
}

type ResolvedSection struct {
	Name      string             `json:"name"`
	Exercises []ResolvedExercise `json:"exercises"`
}

type ResolvedExercise struct {
	Exercise
	// InstanceID is only set on programs returned by ForDay.
	InstanceID string `json:"instanceId,omitempty"`
}

// Section finds a section by name, ignoring case.
func (wp *WorkoutProgram) Section(name string) (ResolvedSection, bool) {
	for _, s := range wp.Sections {
		if strings.EqualFold(s.Name, name) {
			return s, true
		}
	}
	return ResolvedSection{}, false
}

// ForDay returns a copy of the program with the instance id of every
// exercise filled in for the given schedule slot.
func (wp *WorkoutProgram) ForDay(week, day int) *WorkoutProgram {
	dayProgram := *wp
	dayProgram.Sections = make([]ResolvedSection, len(wp.Sections))
	for i, s := range wp.Sections {
		exercises := make([]ResolvedExercise, len(s.Exercises))
		for j, ex := range s.Exercises {
			ex.InstanceID = NewExerciseKey(week, day, s.Name, ex.ID).String()
			exercises[j] = ex
		}
		dayProgram.Sections[i] = ResolvedSection{Name: s.Name, Exercises: exercises}
	}
	return &dayProgram
}

// InstanceIDs lists the completion keys of every exercise for the given slot,
// in section order.
func (wp *WorkoutProgram) InstanceIDs(week, day int) []string {
	var ids []string
	for _, s := range wp.Sections {
		for _, ex := range s.Exercises {
			ids = append(ids, NewExerciseKey(week, day, s.Name, ex.ID).String())
		}
	}
	return ids
}

func (wp *WorkoutProgram) ExercisesCount() int {
	count := 0
	for _, s := range wp.Sections {
		count += len(s.Exercises)
	}
	return count
}

// Resolver turns day keys into WorkoutPrograms. Resolution is pure, results
// are cached per base key.
type Resolver struct {
	catalog *Catalog
	cache   *freecache.Cache
}

func NewResolver(catalog *Catalog, cacheSize int) *Resolver {
	if cacheSize <= 0 {
		cacheSize = DefaultResolverCacheSize
	}
	return &Resolver{
		catalog: catalog,
		cache:   freecache.NewCache(cacheSize),
	}
}

// Resolve returns the merged workout for a day key. An unknown workout type
// is not an error: callers get (nil, false) and render nothing.
func (r *Resolver) Resolve(dayKey string) (*WorkoutProgram, bool) {
	if r == nil || r.catalog == nil || r.catalog.Program == nil {
		log.Warnln("resolve workout: program catalog not initialized")
		return nil, false
	}

	baseKey := BaseWorkoutKey(dayKey)
	if cached, ok := r.fromCache(baseKey); ok {
		return cached, true
	}

	workoutType, ok := r.catalog.Program.WorkoutTypes[baseKey]
	if !ok {
		log.Tracef("resolve workout: no workout type for [%s] (base key [%s])", dayKey, baseKey)
		return nil, false
	}

	wp := &WorkoutProgram{
		Key:         baseKey,
		Name:        workoutType.Name,
		ColorClass:  workoutType.ColorClass,
		Description: workoutType.Description,
		RPERange:    workoutType.RPERange,
		Notes:       workoutType.Notes,
		Sections:    make([]ResolvedSection, 0, len(workoutType.Sections)),
	}
	for _, section := range workoutType.Sections {
		resolved := ResolvedSection{
			Name:      section.Name,
			Exercises: make([]ResolvedExercise, 0, len(section.Exercises)),
		}
		for _, override := range section.Exercises {
			resolved.Exercises = append(resolved.Exercises, ResolvedExercise{
				Exercise: r.merge(override),
			})
		}
		wp.Sections = append(wp.Sections, resolved)
	}

	r.toCache(baseKey, wp)
	return wp, true
}

func (r *Resolver) merge(override Exercise) Exercise {
	var base Exercise
	var found bool
	if r.catalog.Exercises != nil {
		base, found = r.catalog.Exercises.Exercises[override.ID]
	}
	if !found {
		return override
	}
	return MergeExercise(base, override)
}

// MergeExercise overlays override on top of the catalog entry field by
// field: a field set in override wins, otherwise the catalog default stays.
// An empty string or a nil count counts as not set, so an override cannot
// blank a catalog value.
func MergeExercise(catalogEntry, override Exercise) Exercise {
	merged := catalogEntry
	merged.ID = override.ID
	merged.Name = pick(override.Name, catalogEntry.Name)
	merged.Category = pick(override.Category, catalogEntry.Category)
	merged.VideoURL = pick(override.VideoURL, catalogEntry.VideoURL)
	merged.DefaultSets = pickInt(override.DefaultSets, catalogEntry.DefaultSets)
	merged.DefaultReps = pick(override.DefaultReps, catalogEntry.DefaultReps)
	merged.DefaultRPE = pick(override.DefaultRPE, catalogEntry.DefaultRPE)
	merged.DefaultNotes = pick(override.DefaultNotes, catalogEntry.DefaultNotes)
	merged.Sets = pickInt(override.Sets, catalogEntry.Sets)
	merged.Reps = pick(override.Reps, catalogEntry.Reps)
	merged.RPE = pick(override.RPE, catalogEntry.RPE)
	merged.Notes = pick(override.Notes, catalogEntry.Notes)
	return merged
}

func pick(override, fallback string) string {
	if override != "" {
		return override
	}
	return fallback
}

func pickInt(override, fallback *int) *int {
	if override != nil {
		v := *override
		return &v
	}
	if fallback != nil {
		v := *fallback
		return &v
	}
	return nil
}

func (r *Resolver) fromCache(baseKey string) (*WorkoutProgram, bool) {
	cached, err := r.cache.Get([]byte(baseKey))
	if err != nil {
		if !errors.Is(err, freecache.ErrNotFound) {
			log.Warnf("resolver cache get [%s]: %s", baseKey, err)
		}
		return nil, false
	}
	wp := &WorkoutProgram{}
	if err := json.Unmarshal(cached, wp); err != nil {
		log.Warnf("resolver cache unmarshal [%s]: %s", baseKey, err)
		return nil, false
	}
	return wp, true
}

func (r *Resolver) toCache(baseKey string, wp *WorkoutProgram) {
	payload, err := json.Marshal(wp)
	if err != nil {
		log.Warnf("resolver cache marshal [%s]: %s", baseKey, err)
		return
	}
	// the catalog is immutable for the session, entries never expire
	if err := r.cache.Set([]byte(baseKey), payload, 0); err != nil {
		log.Warnf("resolver cache set [%s]: %s", baseKey, err)
	}
}

// CacheStats exposes hit/miss counters of the resolver cache.
func (r *Resolver) CacheStats() (hits, misses int64) {
	return r.cache.HitCount(), r.cache.MissCount()
}
