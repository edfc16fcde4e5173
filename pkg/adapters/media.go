package adapters

import (
	"github.com/wellfit-labs/wellfit/pkg/models/api"
	"github.com/wellfit-labs/wellfit/pkg/models/domain"
	"github.com/wellfit-labs/wellfit/pkg/models/store"
)

func MapVideoDomainToApi(v domain.Video) api.Video {
	return api.Video{
		Id:          v.ID,
		Title:       v.Title,
		ObjectKey:   v.ObjectKey,
		ContentType: v.ContentType,
		Size:        v.Size,
		UploadedAt:  v.UploadedAt,
	}
}

func MapVideoRecordStoreToDomain(r store.VideoRecord) domain.Video {
	return domain.Video{
		ID:          r.ID,
		Title:       r.Title,
		ObjectKey:   r.ObjectKey,
		ContentType: r.ContentType,
		Size:        r.Size,
		UploadedAt:  r.UploadedAt,
	}
}

func MapVideoDomainToStoreRecord(v domain.Video) store.VideoRecord {
	return store.VideoRecord{
		ID:          v.ID,
		Title:       v.Title,
		ObjectKey:   v.ObjectKey,
		ContentType: v.ContentType,
		Size:        v.Size,
		UploadedAt:  v.UploadedAt,
	}
}
