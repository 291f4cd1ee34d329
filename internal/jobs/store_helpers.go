package jobs

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// timestampLayout is fixed width so stored timestamps sort lexically.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

const jobColumns = "id, status, mode, title, output_path, subtitle_path, audio_seconds, video_seconds, sections, placeholders, clips, error_kind, error_message, created_at, updated_at"

func scanJob(scanner interface{ Scan(dest ...any) error }) (*Job, error) {
	var (
		idRaw        string
		statusStr    string
		mode         string
		title        sql.NullString
		outputPath   sql.NullString
		subtitlePath sql.NullString
		audioSeconds sql.NullFloat64
		videoSeconds sql.NullFloat64
		sections     sql.NullInt64
		placeholders sql.NullInt64
		clips        sql.NullInt64
		errorKind    sql.NullString
		errorMessage sql.NullString
		createdRaw   sql.NullString
		updatedRaw   sql.NullString
	)
	if err := scanner.Scan(
		&idRaw,
		&statusStr,
		&mode,
		&title,
		&outputPath,
		&subtitlePath,
		&audioSeconds,
		&videoSeconds,
		&sections,
		&placeholders,
		&clips,
		&errorKind,
		&errorMessage,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	id, err := uuid.Parse(idRaw)
	if err != nil {
		return nil, fmt.Errorf("parse job id %q: %w", idRaw, err)
	}
	job := &Job{
		ID:           id,
		Status:       Status(statusStr),
		Mode:         mode,
		Title:        title.String,
		OutputPath:   outputPath.String,
		SubtitlePath: subtitlePath.String,
		AudioSeconds: audioSeconds.Float64,
		VideoSeconds: videoSeconds.Float64,
		Sections:     int(sections.Int64),
		Placeholders: int(placeholders.Int64),
		Clips:        int(clips.Int64),
		ErrorKind:    errorKind.String,
		ErrorMessage: errorMessage.String,
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		job.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		job.UpdatedAt = updated
	}
	return job, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
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
	return strings.TrimSuffix(strings.Repeat("?,", count), ",")
}
