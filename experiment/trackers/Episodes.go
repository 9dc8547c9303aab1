package trackers

import (
	"fmt"
	"math"
	"os"

	"github.com/gocarina/gocsv"
	"github.com/maferozuone/Proyecto-Walker-ML-Agents/environment/walker"
	ts "github.com/maferozuone/Proyecto-Walker-ML-Agents/timestep"
)

// SummarySource reports the summary of the current walker episode
type SummarySource interface {
	Summary() walker.EpisodeSummary
}

// EpisodeRecord is one row of the file saved by an Episodes Tracker
type EpisodeRecord struct {
	Episode     int     `csv:"episode"`
	Steps       int     `csv:"steps"`
	Return      float64 `csv:"return"`
	End         string  `csv:"end"`
	Touches     int     `csv:"touches"`
	TargetSpeed float64 `csv:"target_speed"`
	YawDeg      float64 `csv:"yaw_deg"`
}

// Episodes tracks one record per finished episode: its length, return
// and why it ended. If a SummarySource is given, the record also holds
// the walker's touches, target speed and starting heading.
type Episodes struct {
	source   SummarySource
	filename string

	current EpisodeRecord
	records []EpisodeRecord
}

// NewEpisodes returns a new Episodes Tracker saving to filename. The
// source may be nil.
func NewEpisodes(filename string, source SummarySource) *Episodes {
	return &Episodes{source: source, filename: filename}
}

// Track satisfies the Tracker interface
func (e *Episodes) Track(t ts.TimeStep) {
	if t.First() {
		e.current = EpisodeRecord{Episode: len(e.records) + 1}
		return
	}

	e.current.Steps = t.Number
	e.current.Return += t.Reward
	if !t.Last() {
		return
	}

	e.current.End = t.EndType().String()
	if e.source != nil {
		s := e.source.Summary()
		e.current.Touches = s.Touches
		e.current.TargetSpeed = s.TargetSpeed
		e.current.YawDeg = s.Yaw * 180 / math.Pi
	}
	e.records = append(e.records, e.current)
	e.current = EpisodeRecord{Episode: len(e.records) + 1}
}

// Records returns the records of all finished episodes
func (e *Episodes) Records() []EpisodeRecord {
	return append([]EpisodeRecord(nil), e.records...)
}

// Save satisfies the Tracker interface
func (e *Episodes) Save() error {
	if err := saveRecords(e.filename, &e.records); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	return nil
}

// LoadEpisodes loads the records saved by an Episodes Tracker
func LoadEpisodes(filename string) ([]EpisodeRecord, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("loadEpisodes: could not open data file: %w",
			err)
	}
	defer file.Close()

	var records []EpisodeRecord
	if err := gocsv.UnmarshalFile(file, &records); err != nil {
		return nil, fmt.Errorf("loadEpisodes: could not decode data: %w",
			err)
	}
	return records, nil
}
