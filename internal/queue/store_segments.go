package queue

import (
	"context"
	"fmt"
	"time"

	"streamscribe/internal/transcript"
)

// InsertSegment persists a transcribed chunk. Re-running a chunk replaces
// the earlier row so retries never duplicate segments.
func (s *Store) InsertSegment(ctx context.Context, jobID int64, seg transcript.Segment) error {
	if err := seg.Validate(); err != nil {
		return fmt.Errorf("insert segment: %w", err)
	}
	if err := s.execWithoutResultRetry(
		ctx,
		`INSERT INTO segments (job_id, chunk_index, start_time, end_time, text, language, created_at)
         VALUES (?, ?, ?, ?, ?, ?, ?)
         ON CONFLICT(job_id, chunk_index) DO UPDATE SET
             start_time = excluded.start_time,
             end_time = excluded.end_time,
             text = excluded.text,
             language = excluded.language`,
		jobID,
		seg.ChunkIndex,
		seg.Start,
		seg.End,
		seg.Text,
		nullableString(seg.Language),
		time.Now().UTC().Format(time.RFC3339Nano),
	); err != nil {
		return fmt.Errorf("insert segment: %w", err)
	}
	return nil
}

// SegmentsForJob returns a job's segments ordered by chunk index.
func (s *Store) SegmentsForJob(ctx context.Context, jobID int64) ([]transcript.Segment, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT chunk_index, start_time, end_time, text, COALESCE(language, '')
         FROM segments WHERE job_id = ? ORDER BY chunk_index`,
		jobID,
	)
	if err != nil {
		return nil, fmt.Errorf("query segments: %w", err)
	}
	defer rows.Close()

	var segments []transcript.Segment
	for rows.Next() {
		var seg transcript.Segment
		if err := rows.Scan(&seg.ChunkIndex, &seg.Start, &seg.End, &seg.Text, &seg.Language); err != nil {
			return nil, err
		}
		segments = append(segments, seg)
	}
	return segments, rows.Err()
}

// SegmentCount returns how many segments a job has persisted.
func (s *Store) SegmentCount(ctx context.Context, jobID int64) (int, error) {
	var count int
	row := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM segments WHERE job_id = ?`, jobID)
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("count segments: %w", err)
	}
	return count, nil
}

// DeleteSegments removes all of a job's segments. Used when a job restarts
// from scratch rather than resuming.
func (s *Store) DeleteSegments(ctx context.Context, jobID int64) error {
	if err := s.execWithoutResultRetry(ctx, `DELETE FROM segments WHERE job_id = ?`, jobID); err != nil {
		return fmt.Errorf("delete segments: %w", err)
	}
	return nil
}
