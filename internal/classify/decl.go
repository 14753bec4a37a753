// Package classify turns declarative record-type descriptions into
// schema entities. Classification is data-driven: record types are
// described in a declaration file with explicit typed fields instead of
// host-language introspection, so the same declarations can drive any
// generation target.
package classify

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// DeclFile is the root of a declaration file (entities.yaml).
type DeclFile struct {
	Entities []EntityDecl `yaml:"entities" validate:"required,min=1,dive"`
}

// EntityDecl declares one persistent record type.
type EntityDecl struct {
	Name   string      `yaml:"name" validate:"required"`
	Fields []FieldDecl `yaml:"fields" validate:"required,min=1,dive"`
}

// FieldDecl declares one field of a record type.
//
// Type is a Go-flavored type token: bool, int8..int64, uint8..uint64,
// rune, float32, float64, string, bytes, strings, date, dateNano,
// toOne, toMany. Relation tokens require Target.
type FieldDecl struct {
	Name string `yaml:"name" validate:"required"`
	Type string `yaml:"type" validate:"required"`

	// SchemaName overrides the schema-visible name when it should
	// differ from the Go field name.
	SchemaName string `yaml:"schemaName,omitempty"`
	// RenamedFrom is the previous schema name of this field. Supplying
	// it preserves the field's uid across the rename.
	RenamedFrom string `yaml:"renamedFrom,omitempty"`

	ID           bool `yaml:"id,omitempty"`
	IDAssignable bool `yaml:"idAssignable,omitempty"`

	Index bool `yaml:"index,omitempty"`
	// IndexType overrides the default index strategy: hash, hash64 or
	// value. Empty picks the default for the field's storage type.
	IndexType         string `yaml:"indexType,omitempty"`
	Unique            bool   `yaml:"unique,omitempty"`
	OnConflictReplace bool   `yaml:"onConflictReplace,omitempty"`

	Optional bool `yaml:"optional,omitempty"`

	// Target names the related entity for toOne/toMany fields.
	Target string `yaml:"target,omitempty"`
}

// LoadDecls reads and validates a declaration file.
func LoadDecls(path string) (*DeclFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read declaration file %s: %w", path, err)
	}

	var decls DeclFile
	if err := yaml.Unmarshal(data, &decls); err != nil {
		return nil, fmt.Errorf("failed to parse declaration file %s: %w", path, err)
	}

	if err := validator.New().Struct(&decls); err != nil {
		return nil, fmt.Errorf("invalid declaration file %s: %w", path, err)
	}
	return &decls, nil
}
