package workout

import (
	"errors"
	"time"
)

type SaveStatus string

const (
	SaveStatusSaved     SaveStatus = "saved"
	SaveStatusFailed    SaveStatus = "failed"
	SaveStatusDiscarded SaveStatus = "discarded"
)

// SaveResult is the outcome of one write-behind save of a day.
//
// A discarded save either never reached the store (the generation moved
// before an attempt) or was Written but its record id was not applied,
// because the generation moved while the write was in flight.
type SaveResult struct {
	Week       int
	Day        int
	Date       string
	Generation uint64
	RecordID   string
	Written    bool
	Attempts   int
	Duration   time.Duration
	Err        error
}

func (r SaveResult) Status() SaveStatus {
	switch {
	case r.Err == nil:
		return SaveStatusSaved
	case errors.Is(r.Err, ErrStaleGeneration):
		return SaveStatusDiscarded
	default:
		return SaveStatusFailed
	}
}

// SaveReporter is told about every finished save. ReportSave is called from
// the syncer's goroutines.
type SaveReporter interface {
	ReportSave(result SaveResult)
}

type SaveReporterFunc func(result SaveResult)

func (f SaveReporterFunc) ReportSave(result SaveResult) {
	f(result)
}

// MultiReporter fans a result out to several reporters.
type MultiReporter []SaveReporter

func (mr MultiReporter) ReportSave(result SaveResult) {
	for _, r := range mr {
		if r != nil {
			r.ReportSave(result)
		}
	}
}
