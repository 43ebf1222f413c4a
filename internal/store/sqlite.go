package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pocketbase/dbx"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS models (
	id             TEXT PRIMARY KEY,
	name           TEXT NOT NULL,
	file_path      TEXT NOT NULL,
	file_size      INTEGER NOT NULL,
	format         TEXT NOT NULL,
	triangle_count INTEGER NOT NULL,
	vertex_count   INTEGER NOT NULL,
	thumbnail_path TEXT NOT NULL DEFAULT '',
	imported_at    TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_models_file_path ON models(file_path);

CREATE TABLE IF NOT EXISTS model_metadata (
	model_id    TEXT NOT NULL REFERENCES models(id),
	source_path TEXT NOT NULL,
	file_size   INTEGER NOT NULL,
	precision   TEXT NOT NULL,
	warnings    TEXT NOT NULL DEFAULT '',
	decode_ms   INTEGER NOT NULL,
	created     TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS model_analysis (
	model_id     TEXT NOT NULL REFERENCES models(id),
	min_x REAL NOT NULL, min_y REAL NOT NULL, min_z REAL NOT NULL,
	max_x REAL NOT NULL, max_y REAL NOT NULL, max_z REAL NOT NULL,
	width REAL NOT NULL, height REAL NOT NULL, depth REAL NOT NULL,
	surface_area REAL NOT NULL,
	volume       REAL NOT NULL,
	edge_count   INTEGER NOT NULL,
	min_edge REAL NOT NULL, max_edge REAL NOT NULL, avg_edge REAL NOT NULL,
	created      TEXT NOT NULL
);
`

// SQLiteStore implements Store on a local sqlite database.
type SQLiteStore struct {
	db *dbx.DB
}

// Open opens (creating if needed) the library database at path.
func Open(path string) (*SQLiteStore, error) {
	db, err := dbx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	if _, err := db.NewQuery(schema).Execute(); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: create schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// SaveImport inserts the model, metadata and analysis rows in one
// transaction and returns the generated model id.
func (s *SQLiteStore) SaveImport(model ModelRecord, meta MetadataRecord, an AnalysisRecord) (string, error) {
	if model.ID == "" {
		model.ID = uuid.NewString()
	}
	now := time.Now().UTC().Format(time.RFC3339)
	if model.ImportedAt == "" {
		model.ImportedAt = now
	}

	err := s.db.Transactional(func(tx *dbx.Tx) error {
		if _, err := tx.Insert("models", dbx.Params{
			"id":             model.ID,
			"name":           model.Name,
			"file_path":      model.FilePath,
			"file_size":      model.FileSize,
			"format":         model.Format,
			"triangle_count": model.TriangleCount,
			"vertex_count":   model.VertexCount,
			"thumbnail_path": model.ThumbnailPath,
			"imported_at":    model.ImportedAt,
		}).Execute(); err != nil {
			return fmt.Errorf("insert model: %w", err)
		}

		if _, err := tx.Insert("model_metadata", dbx.Params{
			"model_id":    model.ID,
			"source_path": meta.SourcePath,
			"file_size":   meta.FileSize,
			"precision":   meta.Precision,
			"warnings":    meta.Warnings,
			"decode_ms":   meta.DecodeMs,
			"created":     now,
		}).Execute(); err != nil {
			return fmt.Errorf("insert metadata: %w", err)
		}

		if _, err := tx.Insert("model_analysis", dbx.Params{
			"model_id":     model.ID,
			"min_x":        an.MinX,
			"min_y":        an.MinY,
			"min_z":        an.MinZ,
			"max_x":        an.MaxX,
			"max_y":        an.MaxY,
			"max_z":        an.MaxZ,
			"width":        an.Width,
			"height":       an.Height,
			"depth":        an.Depth,
			"surface_area": an.SurfaceArea,
			"volume":       an.Volume,
			"edge_count":   an.EdgeCount,
			"min_edge":     an.MinEdgeLength,
			"max_edge":     an.MaxEdgeLength,
			"avg_edge":     an.AvgEdgeLength,
			"created":      now,
		}).Execute(); err != nil {
			return fmt.Errorf("insert analysis: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("store: save import for %s: %w", model.FilePath, err)
	}
	return model.ID, nil
}

// SetThumbnail records the rendered thumbnail location for a model
func (s *SQLiteStore) SetThumbnail(modelID, thumbnailPath string) error {
	_, err := s.db.Update("models",
		dbx.Params{"thumbnail_path": thumbnailPath},
		dbx.HashExp{"id": modelID},
	).Execute()
	if err != nil {
		return fmt.Errorf("store: set thumbnail for %s: %w", modelID, err)
	}
	return nil
}

// FindModelByPath returns the most recent model imported from path,
// or nil when the path has never been imported.
func (s *SQLiteStore) FindModelByPath(path string) (*ModelRecord, error) {
	var rec ModelRecord
	err := s.db.Select("*").
		From("models").
		Where(dbx.HashExp{"file_path": path}).
		OrderBy("imported_at DESC").
		One(&rec)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: lookup %s: %w", path, err)
	}
	return &rec, nil
}

// ListModels returns all imported models, newest first
func (s *SQLiteStore) ListModels() ([]ModelRecord, error) {
	var recs []ModelRecord
	err := s.db.Select("*").
		From("models").
		OrderBy("imported_at DESC", "name").
		All(&recs)
	if err != nil {
		return nil, fmt.Errorf("store: list models: %w", err)
	}
	return recs, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
