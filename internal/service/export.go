package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"

	"weatherops/internal/model"
	"weatherops/internal/render"
	"weatherops/internal/storage"
)

// presignExpiry bounds how long an export download link stays valid.
const presignExpiry = 15 * time.Minute

// ExportResult pairs a stored artifact with a presigned download URL.
type ExportResult struct {
	Artifact model.Artifact `json:"artifact"`
	URL      string         `json:"url"`
}

func (s *planService) Export(ctx context.Context, planID string, kind model.ArtifactKind, zeroHourID string) (*ExportResult, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: unknown export kind %q", ErrInvalidInput, kind)
	}
	p, err := s.Get(ctx, planID)
	if err != nil {
		return nil, err
	}
	acts, err := s.GetSchedule(ctx, planID)
	if err != nil {
		return nil, err
	}

	var (
		body        []byte
		contentType string
		ext         string
	)
	switch kind {
	case model.ArtifactGantt:
		windows, err := s.Windows(ctx, planID, 0)
		if err != nil {
			return nil, err
		}
		points, err := s.tides.PointsByPlan(ctx, planID)
		if err != nil {
			return nil, err
		}
		body, err = render.Gantt(render.GanttInput{
			Plan:        *p,
			Activities:  acts,
			Daylight:    windows.Daylight,
			TideWindows: windows.Tide,
			TidePoints:  points,
		})
		if err != nil {
			return nil, err
		}
		contentType = "text/html; charset=utf-8"
		ext = ".html"
	case model.ArtifactCSV:
		body, err = render.ScheduleCSV(acts, zeroHourID)
		if err != nil {
			return nil, invalid(err)
		}
		contentType = "text/csv"
		ext = ".csv"
	}

	key := path.Join("plans", planID, uuid.New().String()+ext)
	objInfo, err := s.store.Put(ctx, key, bytes.NewReader(body), storage.PutObjectOptions{
		Size:        int64(len(body)),
		ContentType: contentType,
		Metadata:    map[string]string{"plan-name": p.Name},
	})
	if err != nil {
		return nil, fmt.Errorf("upload artifact: %w", err)
	}

	artifact := &model.Artifact{
		ID:          uuid.New().String(),
		PlanID:      planID,
		Kind:        kind,
		StoragePath: objInfo.Key,
		Size:        objInfo.Size,
		ContentType: contentType,
		CreatedAt:   s.now().UTC(),
	}
	stored, err := s.artifacts.Create(ctx, artifact)
	if err != nil {
		// Roll the object back so storage does not accumulate orphans.
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("save artifact failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("save artifact: %w", err)
	}

	url, err := s.store.PresignGet(ctx, stored.StoragePath, presignExpiry)
	if err != nil {
		return nil, fmt.Errorf("presign artifact: %w", err)
	}
	return &ExportResult{Artifact: *stored, URL: url}, nil
}

func (s *planService) GetArtifact(ctx context.Context, id string) (*ExportResult, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	a, err := s.artifacts.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrArtifactNotFound
		}
		return nil, err
	}
	url, err := s.store.PresignGet(ctx, a.StoragePath, presignExpiry)
	if err != nil {
		return nil, fmt.Errorf("presign artifact: %w", err)
	}
	return &ExportResult{Artifact: *a, URL: url}, nil
}
