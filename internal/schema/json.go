package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/stratadb/strata/internal/diag"
)

// LoadModel reads a persisted model file. A missing file is not an
// error: it returns (nil, nil) so the first generation pass starts from
// an empty model.
func LoadModel(path string) (*ModelInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read model file %s: %w", path, err)
	}

	var model ModelInfo
	if err := json.Unmarshal(data, &model); err != nil {
		return nil, diag.New(diag.CodeModelParse, "failed to parse model file %s: %v", path, err)
	}
	if model.ModelVersionParserMinimum > ModelVersion {
		return nil, diag.New(diag.CodeModelParse,
			"model file %s requires parser version >= %d, this toolchain supports %d",
			path, model.ModelVersionParserMinimum, ModelVersion)
	}
	if err := checkCounters(&model); err != nil {
		return nil, err
	}
	return &model, nil
}

// checkCounters verifies the model's id counters are not behind the ids
// actually in use. A hand-edited model file that regressed a counter
// would make the next merge hand out ids a second time.
func checkCounters(model *ModelInfo) error {
	for _, e := range model.Entities {
		if e.ID.ID > model.LastEntityID.ID {
			return diag.Entityf(diag.CodeIDRegression, e.Name,
				"entity id %d is beyond lastEntityId %d", e.ID.ID, model.LastEntityID.ID)
		}
		for _, p := range e.Properties {
			if p.ID.ID > e.LastPropertyID.ID {
				return diag.Fieldf(diag.CodeIDRegression, e.Name, p.Name,
					"property id %d is beyond lastPropertyId %d", p.ID.ID, e.LastPropertyID.ID)
			}
			if p.IndexID != nil && p.IndexID.ID > model.LastIndexID.ID {
				return diag.Fieldf(diag.CodeIDRegression, e.Name, p.Name,
					"index id %d is beyond lastIndexId %d", p.IndexID.ID, model.LastIndexID.ID)
			}
		}
		for _, r := range e.Relations {
			if r.ID.ID > model.LastRelationID.ID {
				return diag.Fieldf(diag.CodeIDRegression, e.Name, r.Name,
					"relation id %d is beyond lastRelationId %d", r.ID.ID, model.LastRelationID.ID)
			}
		}
	}
	return nil
}

// SaveModel writes the model file. Output is deterministic: entities
// sorted by name, two-space indentation, trailing newline. A pass that
// makes no schema changes rewrites the file byte-for-byte identically.
func SaveModel(model *ModelInfo, path string) error {
	data, err := MarshalModel(model)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create model directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return diag.New(diag.CodeModelWrite, "failed to write model file %s: %v", path, err)
	}
	return nil
}

// MarshalModel renders the model to its canonical byte form.
func MarshalModel(model *ModelInfo) ([]byte, error) {
	model.SortEntities()

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(model); err != nil {
		return nil, diag.New(diag.CodeModelWrite, "failed to encode model: %v", err)
	}
	return buf.Bytes(), nil
}
