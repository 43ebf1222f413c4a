package processing

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/meshvault/meshvault/internal/analysis"
	"github.com/meshvault/meshvault/internal/progress"
	"github.com/meshvault/meshvault/internal/store"
	"github.com/meshvault/meshvault/internal/utils/logger"
)

// processTask persists the model, metadata and analysis records as one
// transactional unit, then renders the thumbnail. A thumbnail failure
// is logged and swallowed; the import still counts as a success.
func (p *WorkerPool) processTask(workerID int, task Task) Result {
	startTime := time.Now()
	name := modelName(task.FilePath)

	if task.Tracker != nil {
		task.Tracker.StartStage(progress.StageRendering, fmt.Sprintf("registering %s", name))
	}

	measurements := analysis.Measure(task.Mesh)

	model := store.ModelRecord{
		Name:          name,
		FilePath:      task.FilePath,
		FileSize:      task.FileSize,
		Format:        string(task.Mesh.Format),
		TriangleCount: measurements.TriangleCount,
		VertexCount:   measurements.VertexCount,
	}
	meta := store.MetadataRecord{
		SourcePath: task.FilePath,
		FileSize:   task.FileSize,
		Precision:  task.Mesh.Precision.String(),
		Warnings:   strings.Join(task.Mesh.Warnings, "; "),
		DecodeMs:   task.DecodeElapsed.Milliseconds(),
	}
	an := store.AnalysisRecord{
		MinX: measurements.BoundingBox.Min.X, MinY: measurements.BoundingBox.Min.Y, MinZ: measurements.BoundingBox.Min.Z,
		MaxX: measurements.BoundingBox.Max.X, MaxY: measurements.BoundingBox.Max.Y, MaxZ: measurements.BoundingBox.Max.Z,
		Width:  measurements.Dimensions.X,
		Height: measurements.Dimensions.Y,
		Depth:  measurements.Dimensions.Z,
		SurfaceArea:   measurements.SurfaceArea,
		Volume:        measurements.Volume,
		EdgeCount:     measurements.EdgeCount,
		MinEdgeLength: measurements.MinEdgeLength,
		MaxEdgeLength: measurements.MaxEdgeLength,
		AvgEdgeLength: measurements.AvgEdgeLength,
	}

	modelID, err := p.store.SaveImport(model, meta, an)
	if err != nil {
		logger.Error("Processing worker %d failed to persist %s: %v", workerID, name, err)
		if task.Tracker != nil {
			task.Tracker.Complete(fmt.Sprintf("failed to register %s", name))
		}
		return Result{TaskIndex: task.TaskIndex, FilePath: task.FilePath, Err: err}
	}

	summary := store.ModelSummary{
		ID:            modelID,
		Name:          name,
		TriangleCount: measurements.TriangleCount,
	}

	if task.Tracker != nil {
		task.Tracker.Advance(1, 2)
	}

	thumbPath := filepath.Join(p.thumbsDir, modelID+".png")
	if err := p.renderer.RenderToFile(task.Mesh, thumbPath); err != nil {
		// Non-fatal: the record stands, just without a preview.
		logger.Warn("Processing worker %d could not thumbnail %s: %v", workerID, name, err)
	} else {
		summary.ThumbnailPath = thumbPath
		if err := p.store.SetThumbnail(modelID, thumbPath); err != nil {
			logger.Warn("Processing worker %d could not record thumbnail for %s: %v", workerID, name, err)
		}
	}

	if task.Tracker != nil {
		task.Tracker.Complete(fmt.Sprintf("imported %s", name))
	}

	logger.Debug("Processing worker %d finished %s in %v", workerID, name, time.Since(startTime))
	return Result{TaskIndex: task.TaskIndex, FilePath: task.FilePath, Summary: summary}
}

// modelName derives the library display name from the file path
func modelName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
