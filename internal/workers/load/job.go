package load

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/meshvault/meshvault/internal/mesh"
	"github.com/meshvault/meshvault/internal/progress"
	"github.com/meshvault/meshvault/internal/utils/logger"
)

// readChunkSize bounds how much a worker reads between cancellation
// checks, so gigabyte files stay responsive to batch cancellation.
const readChunkSize = 4 * 1024 * 1024

// processTask reads and decodes one file. The returned tracker has run
// through the metadata, read and parse stages and is handed onward so
// the processing task can finish the rendering stage on it.
func (p *WorkerPool) processTask(workerID int, task Task) (*mesh.ParsedMesh, *progress.Tracker, error) {
	if err := task.Context.Err(); err != nil {
		return nil, nil, mesh.WrapDecodeError(mesh.KindCancelled, err, "%s", task.FilePath)
	}

	file, err := os.Open(task.FilePath)
	if err != nil {
		return nil, nil, mesh.WrapDecodeError(mesh.KindIoFailure, err, "opening %s", task.FilePath)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, nil, mesh.WrapDecodeError(mesh.KindIoFailure, err, "inspecting %s", task.FilePath)
	}
	size := info.Size()
	name := filepath.Base(task.FilePath)

	tracker := progress.NewTracker(0, size, p.throttle, task.Callback)
	tracker.StartStage(progress.StageMetadata, fmt.Sprintf("inspecting %s", name))
	tracker.Advance(1, 1)

	tracker.StartStage(progress.StageIoRead, p.stageMessage(progress.StageIoRead, name, size, 0))
	data, err := p.readChunked(file, size, task, tracker)
	if err != nil {
		return nil, tracker, err
	}

	tracker.StartStage(progress.StageParsing, p.stageMessage(progress.StageParsing, name, size, estimateTriangles(size)))
	if err := task.Context.Err(); err != nil {
		return nil, tracker, mesh.WrapDecodeError(mesh.KindCancelled, err, "%s", task.FilePath)
	}

	m, err := mesh.Decode(task.FilePath, data, mesh.Options{Precision: task.Precision})
	if err != nil {
		return nil, tracker, err
	}
	tracker.SetTriangleHint(m.TriangleCount())
	tracker.Advance(1, 1)

	logger.Debug("Load worker %d decoded %s: %d triangles, %d vertices",
		workerID, name, m.TriangleCount(), m.VertexCount())
	return m, tracker, nil
}

// readChunked reads the whole file in bounded chunks, advancing the
// tracker and honoring cancellation between chunks.
func (p *WorkerPool) readChunked(file *os.File, size int64, task Task, tracker *progress.Tracker) ([]byte, error) {
	data := make([]byte, 0, size)
	buf := make([]byte, readChunkSize)

	for {
		if err := task.Context.Err(); err != nil {
			return nil, mesh.WrapDecodeError(mesh.KindCancelled, err, "%s", task.FilePath)
		}

		n, err := file.Read(buf)
		if n > 0 {
			data = append(data, buf[:n]...)
			tracker.Advance(int64(len(data)), size)
		}
		if err == io.EOF {
			return data, nil
		}
		if err != nil {
			return nil, mesh.WrapDecodeError(mesh.KindIoFailure, err, "reading %s", task.FilePath)
		}
	}
}

// stageMessage builds the human-facing message, with an ETA when the
// configured throughput constants allow one.
func (p *WorkerPool) stageMessage(stage progress.Stage, name string, size int64, triangles int) string {
	var msg string
	switch stage {
	case progress.StageIoRead:
		msg = fmt.Sprintf("reading %s (%s)", name, humanize.Bytes(uint64(size)))
	case progress.StageParsing:
		msg = fmt.Sprintf("decoding %s", name)
	default:
		msg = name
	}
	if eta := p.throughput.EstimateStage(stage, size, triangles); eta > 0 {
		msg = fmt.Sprintf("%s, ~%s", msg, eta.Round(100*time.Millisecond))
	}
	return msg
}

// estimateTriangles guesses a binary STL triangle count from the file
// size, for ETA text before the real count is known.
func estimateTriangles(size int64) int {
	if size <= 84 {
		return 0
	}
	return int((size - 84) / 50)
}
