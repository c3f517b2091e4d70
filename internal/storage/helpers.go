package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/roman-kulish/satlink-analyzer/internal/analysis"
	"github.com/roman-kulish/satlink-analyzer/internal/spectrum"
)

// maxRowsPerInsert keeps multi-row inserts well under SQLite's bound parameter limit.
const maxRowsPerInsert = 500

func closeWithError(cl interface{ Close() error }, err *error) {
	if cErr := cl.Close(); cErr != nil && *err == nil {
		*err = cErr
	}
}

func rollbackWithError(rb interface{ Rollback() error }, err *error) {
	if cErr := rb.Rollback(); cErr != nil && cErr != sql.ErrTxDone && *err == nil {
		*err = cErr
	}
}

func runSQLCommand(db *sql.DB, sql string) error {
	_, err := db.Exec(sql)
	return err
}

// batchInsert inserts n rows with multi-row INSERT statements. The statement
// prefix ends with VALUES; row returns the bound values of the i-th row.
func batchInsert(ctx context.Context, tx *sql.Tx, prefix string, n int, row func(i int) []any) error {
	for start := 0; start < n; start += maxRowsPerInsert {
		end := min(start+maxRowsPerInsert, n)

		var sb strings.Builder
		sb.WriteString(prefix)

		values := make([]any, 0, (end-start)*8)
		for i := start; i < end; i++ {
			args := row(i)
			if i > start {
				sb.WriteString(", ")
			}
			sb.WriteString("(?")
			sb.WriteString(strings.Repeat(", ?", len(args)-1))
			sb.WriteString(")")
			values = append(values, args...)
		}

		if _, err := tx.ExecContext(ctx, sb.String(), values...); err != nil {
			return err
		}
	}
	return nil
}

func toRunData(r *analysis.Result) (*runData, error) {
	config, err := json.Marshal(r.Config)
	if err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}

	return &runData{
		ID:         r.ID,
		CreatedAt:  r.CreatedAt.UTC(),
		Source:     sql.NullString{String: r.Source, Valid: r.Source != ""},
		Status:     string(r.Status),
		NoiseFloor: r.NoiseFloor,
		Delay:      r.Delay,
		Config:     string(config),
	}, nil
}

func fromRunData(d *runData) (*analysis.Result, error) {
	var config analysis.Config
	if err := json.Unmarshal([]byte(d.Config), &config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &analysis.Result{
		ID:           d.ID,
		CreatedAt:    d.CreatedAt.UTC(),
		Source:       d.Source.String,
		Config:       config,
		NoiseFloor:   d.NoiseFloor,
		Status:       analysis.Status(d.Status),
		Delay:        d.Delay,
		Features:     []spectrum.SignalFeature{},
		Interference: []spectrum.InterferenceRecord{},
		Attenuation:  []spectrum.AttenuationEstimate{},
	}, nil
}

func toFeatureData(f spectrum.SignalFeature) featureData {
	return featureData{
		Index:           f.Index,
		PeakIndex:       f.PeakIndex,
		FrequencyLower:  f.FrequencyLower,
		FrequencyCenter: f.FrequencyCenter,
		FrequencyUpper:  f.FrequencyUpper,
		Bandwidth:       f.Bandwidth,
		PeakPower:       f.PeakPower,
		NoiseFloor:      f.NoiseFloor,
		SNR:             f.SNR,
		ChannelPower:    f.ChannelPower,
		Satellite:       f.Satellite,
	}
}

func (d featureData) toSignalFeature() spectrum.SignalFeature {
	return spectrum.SignalFeature{
		Index:           d.Index,
		PeakIndex:       d.PeakIndex,
		FrequencyLower:  d.FrequencyLower,
		FrequencyCenter: d.FrequencyCenter,
		FrequencyUpper:  d.FrequencyUpper,
		Bandwidth:       d.Bandwidth,
		PeakPower:       d.PeakPower,
		NoiseFloor:      d.NoiseFloor,
		SNR:             d.SNR,
		ChannelPower:    d.ChannelPower,
		Satellite:       d.Satellite,
	}
}
