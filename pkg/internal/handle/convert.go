package handle

import (
	"github.com/alsulaimanm93/minifixwood/pkg/internal/model"
	"github.com/alsulaimanm93/minifixwood/pkg/internal/types"
)

func toFileResponse(f *model.File) types.FileResponse {
	resp := types.FileResponse{
		ID:        f.ID,
		Kind:      f.Kind,
		Name:      f.Name,
		Mime:      f.Mime,
		SizeBytes: f.SizeBytes,
		CreatedBy: f.CreatedBy,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
	if f.ProjectID != nil {
		resp.ProjectID = *f.ProjectID
	}

	if f.CurrentVersionID != nil {
		resp.CurrentVersionID = *f.CurrentVersionID
	}

	return resp
}

func toLockResponse(l *model.Lock) types.LockResponse {
	return types.LockResponse{
		LockID:    l.ID,
		FileID:    l.FileID,
		LockedBy:  l.LockedBy,
		ClientID:  l.ClientID,
		Mode:      l.Mode,
		LockedAt:  l.LockedAt,
		ExpiresAt: l.ExpiresAt,
		Active:    l.Active,
	}
}

func toVersionInfo(v *model.FileVersion, latestID string) types.FileVersionInfo {
	return types.FileVersionInfo{
		VersionID: v.ID,
		FileID:    v.FileID,
		VersionNo: v.VersionNo,
		IsLatest:  v.ID == latestID,
		ObjectKey: v.ObjectKey,
		SizeBytes: v.SizeBytes,
		SHA256:    v.SHA256,
		ETag:      v.ETag,
		CreatedBy: v.CreatedBy,
		CreatedAt: v.CreatedAt,
	}
}
