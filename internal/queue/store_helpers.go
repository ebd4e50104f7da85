package queue

import (
	"database/sql"
	"errors"
	"time"
)

const jobColumns = "id, url, video_id, title, uploader, duration_seconds, audio_url, status, model, chunk_seconds, overlap_seconds, language, detected_language, output_dir, text_path, json_path, srt_path, last_chunk, error_message, created_at, updated_at, progress_stage, progress_percent, progress_message, last_heartbeat"

func scanJob(scanner interface{ Scan(dest ...any) error }) (*Job, error) {
	var (
		id               int64
		url              string
		videoID          sql.NullString
		title            sql.NullString
		uploader         sql.NullString
		durationSeconds  sql.NullFloat64
		audioURL         sql.NullString
		statusStr        string
		model            string
		chunkSeconds     int
		overlapSeconds   int
		language         sql.NullString
		detectedLanguage sql.NullString
		outputDir        sql.NullString
		textPath         sql.NullString
		jsonPath         sql.NullString
		srtPath          sql.NullString
		lastChunk        int
		errorMessage     sql.NullString
		createdRaw       sql.NullString
		updatedRaw       sql.NullString
		progressStage    sql.NullString
		progressPercent  sql.NullFloat64
		progressMessage  sql.NullString
		lastHeartbeatRaw sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&url,
		&videoID,
		&title,
		&uploader,
		&durationSeconds,
		&audioURL,
		&statusStr,
		&model,
		&chunkSeconds,
		&overlapSeconds,
		&language,
		&detectedLanguage,
		&outputDir,
		&textPath,
		&jsonPath,
		&srtPath,
		&lastChunk,
		&errorMessage,
		&createdRaw,
		&updatedRaw,
		&progressStage,
		&progressPercent,
		&progressMessage,
		&lastHeartbeatRaw,
	); err != nil {
		return nil, err
	}

	job := &Job{
		ID:               id,
		URL:              url,
		VideoID:          videoID.String,
		Title:            title.String,
		Uploader:         uploader.String,
		DurationSeconds:  durationSeconds.Float64,
		AudioURL:         audioURL.String,
		Status:           Status(statusStr),
		Model:            model,
		ChunkSeconds:     chunkSeconds,
		OverlapSeconds:   overlapSeconds,
		Language:         language.String,
		DetectedLanguage: detectedLanguage.String,
		OutputDir:        outputDir.String,
		TextPath:         textPath.String,
		JSONPath:         jsonPath.String,
		SRTPath:          srtPath.String,
		LastChunk:        lastChunk,
		ErrorMessage:     errorMessage.String,
		ProgressStage:    progressStage.String,
		ProgressPercent:  progressPercent.Float64,
		ProgressMessage:  progressMessage.String,
	}

	if created, err := parseTimeString(createdRaw.String); err == nil {
		job.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		job.UpdatedAt = updated
	}
	if lastHeartbeatRaw.Valid {
		if heartbeat, err := parseTimeString(lastHeartbeatRaw.String); err == nil {
			job.LastHeartbeat = &heartbeat
		}
	}
	return job, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableTime(value *time.Time) any {
	if value == nil {
		return nil
	}
	return value.UTC().Format(time.RFC3339Nano)
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	placeholders := make([]byte, 0, count*2)
	for i := 0; i < count; i++ {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
	}
	return string(placeholders)
}
