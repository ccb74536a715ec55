package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/roach88/bitemp/internal/ir"
	"github.com/roach88/bitemp/internal/queryir"
	"github.com/roach88/bitemp/internal/shape"
)

// versionColumns is the column list scanVersion expects.
const versionColumns = `id, field, key, vt_from, vt_to, tt_from, tt_to, payload, ir_version`

// Hit is one search result.
type Hit struct {
	Version ir.VersionRecord `json:"version"`
	Score   float64          `json:"score"`
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVersion(row rowScanner) (ir.VersionRecord, error) {
	var (
		v           ir.VersionRecord
		vtFrom      int64
		ttFrom      int64
		vtTo, ttTo  sql.NullInt64
		payloadJSON string
	)
	if err := row.Scan(&v.ID, &v.Field, &v.Key, &vtFrom, &vtTo, &ttFrom, &ttTo, &payloadJSON, &v.IRVersion); err != nil {
		return ir.VersionRecord{}, err
	}
	payload, err := unmarshalPayload(payloadJSON)
	if err != nil {
		return ir.VersionRecord{}, fmt.Errorf("version %s: %w", v.ID, err)
	}
	v.VtFrom = ir.At(vtFrom)
	v.VtTo = columnToInstant(vtTo)
	v.TtFrom = ir.At(ttFrom)
	v.TtTo = columnToInstant(ttTo)
	v.Payload = payload
	return v, nil
}

func collectVersions(rows *sql.Rows) ([]ir.VersionRecord, error) {
	defer rows.Close()

	var out []ir.VersionRecord
	for rows.Next() {
		v, err := scanVersion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Search returns the versions of field whose shapes satisfy pred, ordered by
// version ID. Every hit carries the predicate's weight as its score.
func (s *Store) Search(ctx context.Context, field string, pred queryir.Predicate) ([]Hit, error) {
	start := time.Now()

	idSQL, params, err := s.compiler.Compile(field, pred)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", field, err)
	}

	query := `SELECT ` + versionColumns + ` FROM versions WHERE id IN (` + idSQL + `) ORDER BY id COLLATE BINARY ASC`
	rows, err := s.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", field, err)
	}
	versions, err := collectVersions(rows)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", field, err)
	}

	score := queryir.Weight(pred)
	hits := make([]Hit, len(versions))
	for i, v := range versions {
		hits[i] = Hit{Version: v, Score: score}
	}

	elapsed := time.Since(start)
	s.metrics.ObserveSearch(field, elapsed, len(hits))
	s.logger.Debug("search", "field", field, "hits", len(hits), "elapsed", elapsed)
	return hits, nil
}

// Get returns the version with the given ID.
func (s *Store) Get(ctx context.Context, id string) (ir.VersionRecord, bool, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+versionColumns+` FROM versions WHERE id = ?`, id)
	v, err := scanVersion(row)
	if errors.Is(err, sql.ErrNoRows) {
		return ir.VersionRecord{}, false, nil
	}
	if err != nil {
		return ir.VersionRecord{}, false, fmt.Errorf("get %s: %w", id, err)
	}
	return v, true, nil
}

// Versions returns every version of field ordered by key, then transaction
// start.
func (s *Store) Versions(ctx context.Context, field string) ([]ir.VersionRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+versionColumns+`
		FROM versions
		WHERE field = ?
		ORDER BY key COLLATE BINARY ASC, tt_from ASC, id COLLATE BINARY ASC
	`, field)
	if err != nil {
		return nil, fmt.Errorf("versions %s: %w", field, err)
	}
	out, err := collectVersions(rows)
	if err != nil {
		return nil, fmt.Errorf("versions %s: %w", field, err)
	}
	return out, nil
}

// History returns the versions of one key in transaction order.
func (s *Store) History(ctx context.Context, field, key string) ([]ir.VersionRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+versionColumns+`
		FROM versions
		WHERE field = ? AND key = ?
		ORDER BY tt_from ASC, id COLLATE BINARY ASC
	`, field, key)
	if err != nil {
		return nil, fmt.Errorf("history %s/%s: %w", field, key, err)
	}
	out, err := collectVersions(rows)
	if err != nil {
		return nil, fmt.Errorf("history %s/%s: %w", field, key, err)
	}
	return out, nil
}

// Shapes returns the shape index of field ordered by version ID.
func (s *Store) Shapes(ctx context.Context, field string) ([]shape.Shape, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT version_id, partition, vt_start, vt_end, tt_start, tt_end
		FROM shapes
		WHERE field = ?
		ORDER BY version_id COLLATE BINARY ASC
	`, field)
	if err != nil {
		return nil, fmt.Errorf("shapes %s: %w", field, err)
	}
	defer rows.Close()

	var out []shape.Shape
	for rows.Next() {
		var (
			sh        shape.Shape
			partition int64
		)
		if err := rows.Scan(&sh.VersionID, &partition, &sh.Valid.Start, &sh.Valid.End, &sh.Transaction.Start, &sh.Transaction.End); err != nil {
			return nil, fmt.Errorf("shapes %s: %w", field, err)
		}
		sh.Partition = ir.Partition(partition)
		out = append(out, sh)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("shapes %s: %w", field, err)
	}
	return out, nil
}
