package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/roman-kulish/satlink-analyzer/internal/analysis"
	"github.com/roman-kulish/satlink-analyzer/internal/spectrum"
)

var _ Store = (*SqliteStore)(nil)

// SqliteStore handles database operations
type SqliteStore struct {
	dbPath string

	writeDB     *sql.DB
	writeDBOnce sync.Once
	writeDBErr  error

	readDB     *sql.DB
	readDBOnce sync.Once
	readDBErr  error

	closeOnce sync.Once
	closeErr  error
}

// NewSqliteStore creates a store backed by the SQLite database at dbPath.
// Connections are opened and the schema is initialized on first use.
func NewSqliteStore(dbPath string) *SqliteStore {
	return &SqliteStore{dbPath: dbPath}
}

func (s *SqliteStore) getWriteDB() (*sql.DB, error) {
	s.writeDBOnce.Do(func() {
		db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?%s", s.dbPath, "_journal_mode=WAL&_synchronous=NORMAL&_foreign_keys=1"))
		if err != nil {
			s.writeDBErr = fmt.Errorf("opening write connection: %w", err)
			return
		}

		if err = runSQLCommand(db, initSchemaSQL); err != nil {
			_ = db.Close()
			s.writeDBErr = fmt.Errorf("initializing schema: %w", err)
			return
		}

		s.writeDB = db
	})

	return s.writeDB, s.writeDBErr
}

func (s *SqliteStore) getReadDB() (*sql.DB, error) {
	s.readDBOnce.Do(func() {
		// the read-only connection needs the database file and schema to exist
		if _, err := s.getWriteDB(); err != nil {
			s.readDBErr = err
			return
		}

		db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?%s", s.dbPath, "mode=ro"))
		if err != nil {
			s.readDBErr = fmt.Errorf("opening read connection: %w", err)
			return
		}
		s.readDB = db
	})

	return s.readDB, s.readDBErr
}

func (s *SqliteStore) SaveRun(ctx context.Context, r *analysis.Result) (err error) {
	if r == nil || r.ID == "" {
		return errors.New("run ID required")
	}

	run, err := toRunData(r)
	if err != nil {
		return err
	}

	db, err := s.getWriteDB()
	if err != nil {
		return fmt.Errorf("getting write connection: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer rollbackWithError(tx, &err)

	if _, err = tx.ExecContext(ctx, insertRunSQL,
		run.ID,
		run.CreatedAt,
		run.Source,
		run.Status,
		run.NoiseFloor,
		run.Delay,
		run.Config,
	); err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}

	samples := r.Trace.Samples()
	if err = batchInsert(ctx, tx, insertSamplesSQL, len(samples), func(i int) []any {
		return []any{run.ID, i, samples[i].Frequency, samples[i].Power}
	}); err != nil {
		return fmt.Errorf("batch inserting samples: %w", err)
	}

	if err = batchInsert(ctx, tx, insertFeaturesSQL, len(r.Features), func(i int) []any {
		f := toFeatureData(r.Features[i])
		return []any{
			run.ID,
			f.Index,
			f.PeakIndex,
			f.FrequencyLower,
			f.FrequencyCenter,
			f.FrequencyUpper,
			f.Bandwidth,
			f.PeakPower,
			f.NoiseFloor,
			f.SNR,
			f.ChannelPower,
			f.Satellite,
		}
	}); err != nil {
		return fmt.Errorf("batch inserting features: %w", err)
	}

	if err = batchInsert(ctx, tx, insertInterferenceSQL, len(r.Interference), func(i int) []any {
		rec := r.Interference[i]
		return []any{run.ID, rec.Index, rec.Kind, rec.FrequencyCenter, rec.SNR}
	}); err != nil {
		return fmt.Errorf("batch inserting interference: %w", err)
	}

	if err = batchInsert(ctx, tx, insertAttenuationSQL, len(r.Attenuation), func(i int) []any {
		est := r.Attenuation[i]
		return []any{run.ID, est.Index, est.FrequencyCenter, est.Attenuation}
	}); err != nil {
		return fmt.Errorf("batch inserting attenuation: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

func (s *SqliteStore) Run(ctx context.Context, id string) (result *analysis.Result, err error) {
	db, err := s.getReadDB()
	if err != nil {
		err = fmt.Errorf("getting read connection: %w", err)
		return
	}

	// a read transaction gives a consistent view of the run and its rows
	tx, err := db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		err = fmt.Errorf("beginning transaction: %w", err)
		return
	}
	defer rollbackWithError(tx, &err)

	var run runData
	if err = tx.QueryRowContext(ctx, selectRunSQL, id).Scan(
		&run.ID,
		&run.CreatedAt,
		&run.Source,
		&run.Status,
		&run.NoiseFloor,
		&run.Delay,
		&run.Config,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = fmt.Errorf("%w: %s", ErrRunNotFound, id)
			return
		}
		err = fmt.Errorf("scanning run: %w", err)
		return
	}

	if result, err = fromRunData(&run); err != nil {
		return
	}

	steps := []struct {
		msg string
		fn  func(context.Context, *sql.Tx, *analysis.Result) error
	}{
		{msg: "loading samples", fn: loadSamples},
		{msg: "loading features", fn: loadFeatures},
		{msg: "loading interference", fn: loadInterference},
		{msg: "loading attenuation", fn: loadAttenuation},
	}
	for _, step := range steps {
		if err = step.fn(ctx, tx, result); err != nil {
			err = fmt.Errorf("%s: %w", step.msg, err)
			return nil, err
		}
	}

	return result, nil
}

func loadSamples(ctx context.Context, tx *sql.Tx, r *analysis.Result) (err error) {
	rows, err := tx.QueryContext(ctx, selectSamplesSQL, r.ID)
	if err != nil {
		return err
	}
	defer closeWithError(rows, &err)

	var samples []spectrum.Sample
	for rows.Next() {
		var sample spectrum.Sample
		if err = rows.Scan(&sample.Frequency, &sample.Power); err != nil {
			return fmt.Errorf("scanning sample: %w", err)
		}
		samples = append(samples, sample)
	}
	if err = rows.Err(); err != nil {
		return err
	}

	r.Trace, err = spectrum.NewTrace(samples)
	return err
}

func loadFeatures(ctx context.Context, tx *sql.Tx, r *analysis.Result) (err error) {
	rows, err := tx.QueryContext(ctx, selectFeaturesSQL, r.ID)
	if err != nil {
		return err
	}
	defer closeWithError(rows, &err)

	for rows.Next() {
		var f featureData
		if err = rows.Scan(
			&f.Index,
			&f.PeakIndex,
			&f.FrequencyLower,
			&f.FrequencyCenter,
			&f.FrequencyUpper,
			&f.Bandwidth,
			&f.PeakPower,
			&f.NoiseFloor,
			&f.SNR,
			&f.ChannelPower,
			&f.Satellite,
		); err != nil {
			return fmt.Errorf("scanning feature: %w", err)
		}
		r.Features = append(r.Features, f.toSignalFeature())
	}
	return rows.Err()
}

func loadInterference(ctx context.Context, tx *sql.Tx, r *analysis.Result) (err error) {
	rows, err := tx.QueryContext(ctx, selectInterferenceSQL, r.ID)
	if err != nil {
		return err
	}
	defer closeWithError(rows, &err)

	for rows.Next() {
		var rec spectrum.InterferenceRecord
		if err = rows.Scan(&rec.Index, &rec.Kind, &rec.FrequencyCenter, &rec.SNR); err != nil {
			return fmt.Errorf("scanning interference: %w", err)
		}
		r.Interference = append(r.Interference, rec)
	}
	return rows.Err()
}

func loadAttenuation(ctx context.Context, tx *sql.Tx, r *analysis.Result) (err error) {
	rows, err := tx.QueryContext(ctx, selectAttenuationSQL, r.ID)
	if err != nil {
		return err
	}
	defer closeWithError(rows, &err)

	for rows.Next() {
		var est spectrum.AttenuationEstimate
		if err = rows.Scan(&est.Index, &est.FrequencyCenter, &est.Attenuation); err != nil {
			return fmt.Errorf("scanning attenuation: %w", err)
		}
		r.Attenuation = append(r.Attenuation, est)
	}
	return rows.Err()
}

func (s *SqliteStore) Runs(ctx context.Context) (runs []*RunSummary, err error) {
	db, err := s.getReadDB()
	if err != nil {
		err = fmt.Errorf("getting read connection: %w", err)
		return
	}

	rows, err := db.QueryContext(ctx, selectRunsSQL)
	if err != nil {
		err = fmt.Errorf("querying runs: %w", err)
		return
	}
	defer closeWithError(rows, &err)

	for rows.Next() {
		var run RunSummary
		var source sql.NullString
		if err = rows.Scan(
			&run.ID,
			&run.CreatedAt,
			&source,
			&run.Status,
			&run.NoiseFloor,
			&run.Samples,
			&run.Signals,
			&run.Interference,
		); err != nil {
			err = fmt.Errorf("scanning run: %w", err)
			return
		}
		run.CreatedAt = run.CreatedAt.UTC()
		run.Source = source.String
		runs = append(runs, &run)
	}
	err = rows.Err()
	return
}

func (s *SqliteStore) Close() error {
	s.closeOnce.Do(func() {
		var writeErr, readErr error

		if s.readDB != nil {
			readErr = s.readDB.Close()
			s.readDB = nil
		}

		if s.writeDB != nil {
			_ = runSQLCommand(s.writeDB, initIndexesSQL)

			writeErr = s.writeDB.Close()
			s.writeDB = nil
		}

		s.closeErr = errors.Join(writeErr, readErr)
	})

	return s.closeErr
}
