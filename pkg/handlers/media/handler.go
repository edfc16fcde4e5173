package media

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/wellfit-labs/wellfit/pkg/adapters"
	"github.com/wellfit-labs/wellfit/pkg/models/api"
	"github.com/wellfit-labs/wellfit/pkg/services/media"
)

// maxUploadBytes caps admin video uploads at 2 GiB.
const maxUploadBytes = 2 << 30

type Handler struct {
	videos media.Service
}

func NewHandler(videos media.Service) *Handler {
	return &Handler{videos: videos}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	videos, err := h.videos.List(ctx)
	if err != nil {
		writeError(ctx, w, http.StatusInternalServerError, err)
		return
	}

	response := make([]api.Video, 0, len(videos))
	for _, v := range videos {
		response = append(response, adapters.MapVideoDomainToApi(v))
	}
	writeJSON(ctx, w, http.StatusOK, response)
}

func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(ctx, w, http.StatusBadRequest, err)
		return
	}
	defer file.Close()

	title := r.FormValue("title")
	contentType := header.Header.Get("Content-Type")

	video, err := h.videos.Upload(ctx, title, contentType, file, header.Size)
	if err != nil {
		writeError(ctx, w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(ctx, w, http.StatusCreated, adapters.MapVideoDomainToApi(video))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	if err := h.videos.Delete(ctx, id); err != nil {
		writeError(ctx, w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) SignedURL(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	url, err := h.videos.SignedURL(ctx, id)
	if err != nil {
		writeError(ctx, w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, api.VideoURL{Id: id, URL: url})
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		zerolog.Ctx(ctx).Error().
			Err(err).
			Msg("failed to encode response")
	}
}

func writeError(ctx context.Context, w http.ResponseWriter, status int, err error) {
	zerolog.Ctx(ctx).Error().
		Err(err).
		Msg("video request failed")
	http.Error(w, err.Error(), status)
}
