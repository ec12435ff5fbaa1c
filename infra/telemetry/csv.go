package telemetry

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/kilianp07/pitwall/core/model"
	"github.com/kilianp07/pitwall/infra/logger"
)

// Expected CSV columns, matching the session exporter's output.
const (
	colLap      = "LapNumber"
	colStint    = "Stint"
	colCompound = "Compound"
	colTireLife = "TyreLife"
	colTemp     = "TrackTemp"
	colLapTime  = "LapTime_Sec"
	colDelta    = "Degradation_Delta"
)

// CSVSource replays laps from a session export.
type CSVSource struct {
	path string
	log  logger.Logger
}

// NewCSVSource creates a source for the given file.
func NewCSVSource(path string) *CSVSource {
	return &CSVSource{path: path, log: logger.New("csv-telemetry")}
}

// Read parses the whole file and returns the laps in file order.
func (s *CSVSource) Read() ([]LapSample, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open telemetry file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			s.log.Warnf("close telemetry file: %v", cerr)
		}
	}()
	return parseCSV(f)
}

func parseCSV(r io.Reader) ([]LapSample, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[name] = i
	}
	for _, required := range []string{colLap, colStint, colCompound, colTireLife, colDelta} {
		if _, ok := idx[required]; !ok {
			return nil, fmt.Errorf("telemetry file missing column %s", required)
		}
	}

	var samples []LapSample
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		sample, err := parseRecord(rec, idx)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		samples = append(samples, sample)
	}
	return samples, nil
}

func parseRecord(rec []string, idx map[string]int) (LapSample, error) {
	var s LapSample
	var err error
	if s.Lap, err = intField(rec, idx, colLap); err != nil {
		return s, err
	}
	if s.StintNumber, err = intField(rec, idx, colStint); err != nil {
		return s, err
	}
	if s.Compound, err = model.ParseCompound(rec[idx[colCompound]]); err != nil {
		return s, err
	}
	if s.TireLife, err = intField(rec, idx, colTireLife); err != nil {
		return s, err
	}
	if i, ok := idx[colTemp]; ok {
		if s.TrackTemp, err = strconv.ParseFloat(rec[i], 64); err != nil {
			return s, fmt.Errorf("%s: %w", colTemp, err)
		}
	}
	if i, ok := idx[colLapTime]; ok {
		if s.LapTimeSec, err = strconv.ParseFloat(rec[i], 64); err != nil {
			return s, fmt.Errorf("%s: %w", colLapTime, err)
		}
	}
	if s.DegradationDelta, err = strconv.ParseFloat(rec[idx[colDelta]], 64); err != nil {
		return s, fmt.Errorf("%s: %w", colDelta, err)
	}
	return s, nil
}

// intField parses a column the exporter may write as a float ("12.0").
func intField(rec []string, idx map[string]int, col string) (int, error) {
	v, err := strconv.ParseFloat(rec[idx[col]], 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", col, err)
	}
	return int(v), nil
}
