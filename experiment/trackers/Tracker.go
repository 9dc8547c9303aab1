// Package trackers implements Trackers, which track data during an
// experiment and save it to CSV files
package trackers

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"
	"github.com/maferozuone/Proyecto-Walker-ML-Agents/environment"
	ts "github.com/maferozuone/Proyecto-Walker-ML-Agents/timestep"
)

// Tracker keeps track of experiment data and saves the data after the
// experiment has finished
type Tracker interface {
	Track(t ts.TimeStep)
	Save() error
}

// valueRecord is one row of a per-episode data file
type valueRecord struct {
	Episode int     `csv:"episode"`
	Value   float64 `csv:"value"`
}

// saveValues writes one row per episode to filename
func saveValues(filename string, values []float64) error {
	records := make([]valueRecord, len(values))
	for i, v := range values {
		records[i] = valueRecord{Episode: i + 1, Value: v}
	}
	return saveRecords(filename, &records)
}

// saveRecords writes records, a pointer to a slice of structs with csv
// tags, to filename
func saveRecords(filename string, records interface{}) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("could not open save file: %w", err)
	}
	defer file.Close()

	if err := gocsv.MarshalFile(records, file); err != nil {
		return fmt.Errorf("could not encode data: %w", err)
	}
	return nil
}

// LoadData loads and returns the per-episode values saved by a Return
// or EpisodeLength Tracker
func LoadData(filename string) ([]float64, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("loadData: could not open data file: %w", err)
	}
	defer file.Close()

	var records []valueRecord
	if err := gocsv.UnmarshalFile(file, &records); err != nil {
		return nil, fmt.Errorf("loadData: could not decode data: %w", err)
	}

	data := make([]float64, len(records))
	for i, r := range records {
		data[i] = r.Value
	}
	return data, nil
}

// registeredTracker registers an Environment with some Tracker so
// that the Tracker tracks data from the registered Environment only.
// registeredTracker itself is a Tracker.
//
// The Track() and Save() methods of a register call those of the
// embedded Tracker. The only difference is that registeredTracker calls
// the Track() method of the embedded Tracker using the most recent
// TimeStep of the registered Environment, and the argument to
// registeredTracker.Track() is ignored.
type registeredTracker struct {
	Tracker
	env environment.Environment
}

// Register registers a new Tracker with an Environment, to track data
// from the registered Environment only. Register returns a copy of the
// argument Tracker that is registered with the argument Environment.
//
// Note: the underlying concrete type of the registered Tracker is
// lost when registering an Environment with a Tracker.
func Register(t Tracker, env environment.Environment) Tracker {
	return &registeredTracker{t, env}
}

// Track calls Track() on the embedded Tracker using the most recent
// TimeStep from the registered Environment
func (r *registeredTracker) Track(ts.TimeStep) {
	r.Tracker.Track(r.env.CurrentTimeStep())
}
