// Package schema defines the versioned model that describes every
// persisted entity, its properties and its relations, and the merge
// rules that keep ids and uids stable across regenerations.
//
// The model is rebuilt from the declared record types on every
// generation pass, merged against the previously persisted model to
// preserve uids, then written back and handed to the code generator.
package schema

import (
	"sort"
	"strings"
)

// Model file note lines. The model file is meant to be checked into
// version control; these explain why.
const (
	note1 = "KEEP THIS FILE! Check it into a version control system (VCS) like git."
	note2 = "Strata manages crucial IDs for your object model. See docs for details."
	note3 = "If you have VCS merge conflicts, you must resolve them according to Strata docs."
)

// ModelInfo is the root of the persisted schema description.
type ModelInfo struct {
	Note1                     string         `json:"_note1"`
	Note2                     string         `json:"_note2"`
	Note3                     string         `json:"_note3"`
	Entities                  []*ModelEntity `json:"entities"`
	LastEntityID              IdUid          `json:"lastEntityId"`
	LastIndexID               IdUid          `json:"lastIndexId"`
	LastRelationID            IdUid          `json:"lastRelationId"`
	LastSequenceID            IdUid          `json:"lastSequenceId"`
	ModelVersion              uint64         `json:"modelVersion"`
	ModelVersionParserMinimum uint64         `json:"modelVersionParserMinimum"`
	RetiredEntityUIDs         []uint64       `json:"retiredEntityUids"`
	RetiredIndexUIDs          []uint64       `json:"retiredIndexUids"`
	RetiredPropertyUIDs       []uint64       `json:"retiredPropertyUids"`
	RetiredRelationUIDs       []uint64       `json:"retiredRelationUids"`
	Version                   uint64         `json:"version"`
}

// NewModelInfo creates an empty model with notes and version numbers
// filled in and retired lists initialized so they serialize as [].
func NewModelInfo() *ModelInfo {
	return &ModelInfo{
		Note1:                     note1,
		Note2:                     note2,
		Note3:                     note3,
		Entities:                  []*ModelEntity{},
		ModelVersion:              ModelVersion,
		ModelVersionParserMinimum: ModelVersionParserMinimum,
		RetiredEntityUIDs:         []uint64{},
		RetiredIndexUIDs:          []uint64{},
		RetiredPropertyUIDs:       []uint64{},
		RetiredRelationUIDs:       []uint64{},
		Version:                   1,
	}
}

// FindEntity returns the entity with the given name, or nil.
func (m *ModelInfo) FindEntity(name string) *ModelEntity {
	for _, e := range m.Entities {
		if e.Name == name {
			return e
		}
	}
	return nil
}

// SortEntities orders entities by name. The model file is written in
// this order so a no-op regeneration stays byte-stable.
func (m *ModelInfo) SortEntities() {
	sort.Slice(m.Entities, func(i, j int) bool {
		return m.Entities[i].Name < m.Entities[j].Name
	})
}

// ModelEntity describes one persisted record type.
type ModelEntity struct {
	ID             IdUid            `json:"id"`
	LastPropertyID IdUid            `json:"lastPropertyId"`
	Name           string           `json:"name"`
	Properties     []*ModelProperty `json:"properties"`
	Relations      []*ModelRelation `json:"relations,omitempty"`
}

// FindProperty returns the property with the given schema name, or nil.
func (e *ModelEntity) FindProperty(name string) *ModelProperty {
	for _, p := range e.Properties {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// IDProperty returns the property carrying the ID flag, or nil.
func (e *ModelEntity) IDProperty() *ModelProperty {
	for _, p := range e.Properties {
		if p.Flags.Has(FlagID) {
			return p
		}
	}
	return nil
}

// FindRelation returns the standalone relation with the given name, or nil.
func (e *ModelEntity) FindRelation(name string) *ModelRelation {
	for _, r := range e.Relations {
		if r.Name == name {
			return r
		}
	}
	return nil
}

// ModelProperty describes one stored property of an entity.
//
// Name is the schema-visible name; when the Go field name differs (for
// example a renamed field, or a single-target relation field "customer"
// stored as "customerId") HostName records the Go side.
type ModelProperty struct {
	ID      IdUid         `json:"id"`
	Name    string        `json:"name"`
	Type    PropertyType  `json:"type"`
	Flags   PropertyFlags `json:"flags,omitempty"`
	IndexID *IdUid        `json:"indexId,omitempty"`

	// HostType is the Go type of the declared field ("string",
	// "*int32", "relation.ToOne[Customer]", ...). A leading "*" marks
	// an optional field.
	HostType string `json:"hostType,omitempty"`
	// HostName is the Go field name when it differs from Name.
	HostName string `json:"hostName,omitempty"`

	// Classifier-to-merger rename hint: the previous schema name of
	// this property. Never serialized.
	PrevName string `json:"-"`

	// Relation linkage for TypeRelation properties. Used during code
	// generation only.
	RelationField  string `json:"-"`
	RelationTarget string `json:"-"`
}

// IsOptional reports whether absent values decode to "no value" instead
// of a type default.
func (p *ModelProperty) IsOptional() bool {
	return strings.HasPrefix(p.HostType, "*")
}

// IsRelation reports whether this property backs a single-target
// relation field.
func (p *ModelProperty) IsRelation() bool {
	return p.Type == TypeRelation
}

// HostFieldName returns the Go field name backing this property.
func (p *ModelProperty) HostFieldName() string {
	if p.HostName != "" {
		return p.HostName
	}
	return p.Name
}

// StructFieldName returns the name of the struct field the generated
// code reads and writes. For single-target relations the schema name
// "customerId" maps back to the field "customer".
func (p *ModelProperty) StructFieldName() string {
	if p.Type == TypeRelation {
		if p.RelationField != "" {
			return p.RelationField
		}
		return strings.TrimSuffix(p.HostFieldName(), "Id")
	}
	return p.HostFieldName()
}

// ModelRelation describes a standalone multi-target relation. The link
// is stored in its own table, independent of either endpoint's record.
type ModelRelation struct {
	ID       IdUid  `json:"id"`
	Name     string `json:"name"`
	TargetID *IdUid `json:"targetId,omitempty"`

	// TargetName is resolved to TargetID during the merge. Not
	// serialized.
	TargetName string `json:"-"`
}
