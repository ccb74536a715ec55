package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/bitemp/internal/ir"
	"github.com/roach88/bitemp/internal/shape"
)

// Put records a new version of key on field, valid over [vtFrom, vtTo].
//
// The transaction time of the new version comes from the store's Clock. If
// key has an open version, that version is closed at the same instant and
// its shape is re-encoded. vtTo may be NOW for a version that is valid until
// further notice.
//
// Payload values are hashed as canonical JSON, so floats and nulls are
// rejected. Store fractional amounts as strings or scaled integers.
func (s *Store) Put(ctx context.Context, field, key string, vtFrom, vtTo ir.Instant, payload map[string]any) (ir.VersionRecord, error) {
	if field == "" || key == "" {
		return ir.VersionRecord{}, fmt.Errorf("put: field and key are required")
	}
	if vtFrom.IsNow() {
		return ir.VersionRecord{}, fmt.Errorf("put %s/%s: vt_from must not be NOW", field, key)
	}
	if !vtTo.IsNow() && ir.Compare(vtFrom, vtTo) > 0 {
		return ir.VersionRecord{}, fmt.Errorf("put %s/%s: vt_from %s is after vt_to %s", field, key, vtFrom, vtTo)
	}

	payloadJSON, err := marshalPayload(payload)
	if err != nil {
		return ir.VersionRecord{}, fmt.Errorf("put %s/%s: %w", field, key, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ir.VersionRecord{}, fmt.Errorf("put: begin: %w", err)
	}
	defer tx.Rollback()

	tt := ir.At(s.clock.Next())

	if err := closeOpenVersion(ctx, tx, field, key, tt); err != nil {
		return ir.VersionRecord{}, fmt.Errorf("put %s/%s: %w", field, key, err)
	}

	id, err := ir.VersionID(field, key, vtFrom, vtTo, tt, payload)
	if err != nil {
		return ir.VersionRecord{}, fmt.Errorf("put %s/%s: %w", field, key, err)
	}
	v := ir.VersionRecord{
		ID:        id,
		Field:     field,
		Key:       key,
		VtFrom:    vtFrom,
		VtTo:      vtTo,
		TtFrom:    tt,
		TtTo:      ir.Now(),
		Payload:   payload,
		IRVersion: ir.IRVersion,
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO versions
		(id, field, key, vt_from, vt_to, tt_from, tt_to, payload, ir_version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		v.ID,
		v.Field,
		v.Key,
		v.VtFrom.Timestamp(),
		instantToColumn(v.VtTo),
		v.TtFrom.Timestamp(),
		instantToColumn(v.TtTo),
		payloadJSON,
		v.IRVersion,
	)
	if err != nil {
		return ir.VersionRecord{}, fmt.Errorf("put %s/%s: insert version: %w", field, key, err)
	}

	if err := writeShape(ctx, tx, v); err != nil {
		return ir.VersionRecord{}, fmt.Errorf("put %s/%s: %w", field, key, err)
	}

	if err := tx.Commit(); err != nil {
		return ir.VersionRecord{}, fmt.Errorf("put: commit: %w", err)
	}

	s.metrics.ObserveWrite(field)
	s.logger.Debug("version written", "field", field, "key", key, "id", v.ID, "tt_from", tt.String())
	return v, nil
}

// Retract closes the open version of key without writing a successor.
// Returns false when key has no open version.
func (s *Store) Retract(ctx context.Context, field, key string) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("retract: begin: %w", err)
	}
	defer tx.Rollback()

	var open int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM versions WHERE field = ? AND key = ? AND tt_to IS NULL`,
		field, key,
	).Scan(&open)
	if err != nil {
		return false, fmt.Errorf("retract %s/%s: %w", field, key, err)
	}
	if open == 0 {
		return false, nil
	}

	tt := ir.At(s.clock.Next())
	if err := closeOpenVersion(ctx, tx, field, key, tt); err != nil {
		return false, fmt.Errorf("retract %s/%s: %w", field, key, err)
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("retract: commit: %w", err)
	}

	s.logger.Debug("version retracted", "field", field, "key", key, "tt_to", tt.String())
	return true, nil
}

// closeOpenVersion sets tt_to on the open version of key, if any, and
// re-encodes its shape.
func closeOpenVersion(ctx context.Context, tx *sql.Tx, field, key string, tt ir.Instant) error {
	row := tx.QueryRowContext(ctx, `
		SELECT `+versionColumns+`
		FROM versions
		WHERE field = ? AND key = ? AND tt_to IS NULL
	`, field, key)

	open, err := scanVersion(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load open version: %w", err)
	}
	if ir.Compare(open.TtFrom, tt) >= 0 {
		return fmt.Errorf("clock did not advance: open version starts at %s, now %s", open.TtFrom, tt)
	}

	open.TtTo = tt
	if _, err := tx.ExecContext(ctx,
		`UPDATE versions SET tt_to = ? WHERE id = ?`,
		tt.Timestamp(), open.ID,
	); err != nil {
		return fmt.Errorf("close version %s: %w", open.ID, err)
	}
	return writeShape(ctx, tx, open)
}

// writeShape inserts or replaces the shape row of v.
func writeShape(ctx context.Context, tx *sql.Tx, v ir.VersionRecord) error {
	sh, err := shape.Encode(v)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO shapes
		(version_id, field, partition, vt_start, vt_end, tt_start, tt_end)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(version_id) DO UPDATE SET
			partition = excluded.partition,
			vt_start = excluded.vt_start,
			vt_end = excluded.vt_end,
			tt_start = excluded.tt_start,
			tt_end = excluded.tt_end
	`,
		sh.VersionID,
		v.Field,
		int64(sh.Partition),
		sh.Valid.Start,
		sh.Valid.End,
		sh.Transaction.Start,
		sh.Transaction.End,
	)
	if err != nil {
		return fmt.Errorf("write shape %s: %w", v.ID, err)
	}
	return nil
}
