package store

import "time"

// VideoRecord is the catalog row for an uploaded video object.
type VideoRecord struct {
	ID          string
	Title       string
	ObjectKey   string
	ContentType string
	Size        int64
	UploadedAt  time.Time
}
