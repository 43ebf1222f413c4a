package store

import (
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "library.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleRecords(path string) (ModelRecord, MetadataRecord, AnalysisRecord) {
	model := ModelRecord{
		Name:          "bracket",
		FilePath:      path,
		FileSize:      1234,
		Format:        "stl-binary",
		TriangleCount: 42,
		VertexCount:   23,
	}
	meta := MetadataRecord{
		SourcePath: path,
		FileSize:   1234,
		Precision:  "native",
		DecodeMs:   7,
	}
	an := AnalysisRecord{
		MaxX: 10, MaxY: 5, MaxZ: 2,
		Width: 10, Height: 5, Depth: 2,
		SurfaceArea:   120.5,
		Volume:        100,
		EdgeCount:     126,
		MinEdgeLength: 0.5,
		MaxEdgeLength: 4.2,
		AvgEdgeLength: 1.7,
	}
	return model, meta, an
}

func TestSaveImportAndLookup(t *testing.T) {
	s := openTestStore(t)

	model, meta, an := sampleRecords("/models/bracket.stl")
	id, err := s.SaveImport(model, meta, an)
	if err != nil {
		t.Fatalf("save import: %v", err)
	}
	if id == "" {
		t.Fatal("expected a generated model id")
	}

	found, err := s.FindModelByPath("/models/bracket.stl")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if found == nil {
		t.Fatal("expected to find the imported model")
	}
	if found.ID != id {
		t.Errorf("id: expected %s, got %s", id, found.ID)
	}
	if found.TriangleCount != 42 {
		t.Errorf("triangle count: expected 42, got %d", found.TriangleCount)
	}
}

func TestFindModelByPathAbsent(t *testing.T) {
	s := openTestStore(t)

	found, err := s.FindModelByPath("/never/imported.stl")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if found != nil {
		t.Errorf("expected nil for an absent path, got %+v", found)
	}
}

func TestSetThumbnail(t *testing.T) {
	s := openTestStore(t)

	model, meta, an := sampleRecords("/models/gear.stl")
	id, err := s.SaveImport(model, meta, an)
	if err != nil {
		t.Fatalf("save import: %v", err)
	}

	if err := s.SetThumbnail(id, "/thumbs/gear.png"); err != nil {
		t.Fatalf("set thumbnail: %v", err)
	}

	found, err := s.FindModelByPath("/models/gear.stl")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if found.ThumbnailPath != "/thumbs/gear.png" {
		t.Errorf("thumbnail path: got %q", found.ThumbnailPath)
	}
}

func TestListModels(t *testing.T) {
	s := openTestStore(t)

	for _, path := range []string{"/m/a.stl", "/m/b.stl", "/m/c.stl"} {
		model, meta, an := sampleRecords(path)
		if _, err := s.SaveImport(model, meta, an); err != nil {
			t.Fatalf("save %s: %v", path, err)
		}
	}

	models, err := s.ListModels()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(models) != 3 {
		t.Errorf("expected 3 models, got %d", len(models))
	}
}
