// Package store persists imported model records. The import pipeline
// consumes only this contract; schema and query details stay here.
package store

// ModelRecord is the primary row for an imported model.
type ModelRecord struct {
	ID            string `db:"id"`
	Name          string `db:"name"`
	FilePath      string `db:"file_path"`
	FileSize      int64  `db:"file_size"`
	Format        string `db:"format"`
	TriangleCount int    `db:"triangle_count"`
	VertexCount   int    `db:"vertex_count"`
	ThumbnailPath string `db:"thumbnail_path"`
	ImportedAt    string `db:"imported_at"`
}

// MetadataRecord captures how a model entered the library.
type MetadataRecord struct {
	SourcePath string `db:"source_path"`
	FileSize   int64  `db:"file_size"`
	Precision  string `db:"precision"`
	Warnings   string `db:"warnings"`
	DecodeMs   int64  `db:"decode_ms"`
}

// AnalysisRecord holds the measurements derived during import.
type AnalysisRecord struct {
	MinX          float64 `db:"min_x"`
	MinY          float64 `db:"min_y"`
	MinZ          float64 `db:"min_z"`
	MaxX          float64 `db:"max_x"`
	MaxY          float64 `db:"max_y"`
	MaxZ          float64 `db:"max_z"`
	Width         float64 `db:"width"`
	Height        float64 `db:"height"`
	Depth         float64 `db:"depth"`
	SurfaceArea   float64 `db:"surface_area"`
	Volume        float64 `db:"volume"`
	EdgeCount     int     `db:"edge_count"`
	MinEdgeLength float64 `db:"min_edge"`
	MaxEdgeLength float64 `db:"max_edge"`
	AvgEdgeLength float64 `db:"avg_edge"`
}

// ModelSummary is the completion payload reported back to the batch.
type ModelSummary struct {
	ID            string
	Name          string
	TriangleCount int
	ThumbnailPath string
}

// Store is the persistence contract the pipeline consumes. The three
// inserts of SaveImport run as one transaction: a failure in any of
// them leaves none of them committed.
type Store interface {
	SaveImport(model ModelRecord, meta MetadataRecord, an AnalysisRecord) (string, error)
	SetThumbnail(modelID, thumbnailPath string) error
	FindModelByPath(path string) (*ModelRecord, error)
	ListModels() ([]ModelRecord, error)
	Close() error
}
