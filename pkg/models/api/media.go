package api

import "time"

type Video struct {
	Id          string    `json:"id"`
	Title       string    `json:"title"`
	ObjectKey   string    `json:"object_key"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

type VideoURL struct {
	Id  string `json:"id"`
	URL string `json:"url"`
}
