package domain

import "time"

// Video is an uploaded piece of workout content.
type Video struct {
	ID          string
	Title       string
	ObjectKey   string
	ContentType string
	Size        int64
	UploadedAt  time.Time
}
