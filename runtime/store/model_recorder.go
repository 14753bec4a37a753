package store

// ModelRecorder is a ModelBuilder that captures the replayed schema so
// a store implementation can look up entities by name. The reference
// bolt store uses it to size its buckets; tests use it to assert on
// the generated invocation sequence.
type ModelRecorder struct {
	Entities []*RecordedEntity
}

// RecordedEntity is one entity declaration captured from the builder
// sequence.
type RecordedEntity struct {
	Name               string
	ID, UID            uint64
	LastPropertyID     uint64
	LastPropertyUID    uint64
	Properties         []*RecordedProperty
	Relations          []*RecordedRelation
}

// RecordedProperty is one property declaration, including its index and
// relation-target sub-calls.
type RecordedProperty struct {
	Name             string
	ID, UID          uint64
	Type             uint16
	Flags            uint32
	IndexID, IndexUID uint64
	RelationTarget   string
}

// RecordedRelation is one standalone relation declaration.
type RecordedRelation struct {
	ID, UID, TargetID, TargetUID uint64
}

// NewModelRecorder creates an empty recorder.
func NewModelRecorder() *ModelRecorder {
	return &ModelRecorder{}
}

func (m *ModelRecorder) current() *RecordedEntity {
	if len(m.Entities) == 0 {
		return nil
	}
	return m.Entities[len(m.Entities)-1]
}

// Entity implements ModelBuilder.
func (m *ModelRecorder) Entity(name string, id, uid uint64) ModelBuilder {
	m.Entities = append(m.Entities, &RecordedEntity{Name: name, ID: id, UID: uid})
	return m
}

// Property implements ModelBuilder.
func (m *ModelRecorder) Property(name string, id, uid uint64, propertyType uint16, flags uint32) ModelBuilder {
	if e := m.current(); e != nil {
		e.Properties = append(e.Properties, &RecordedProperty{
			Name: name, ID: id, UID: uid, Type: propertyType, Flags: flags,
		})
	}
	return m
}

// PropertyIndex implements ModelBuilder.
func (m *ModelRecorder) PropertyIndex(id, uid uint64) ModelBuilder {
	if e := m.current(); e != nil && len(e.Properties) > 0 {
		p := e.Properties[len(e.Properties)-1]
		p.IndexID, p.IndexUID = id, uid
	}
	return m
}

// PropertyRelation implements ModelBuilder.
func (m *ModelRecorder) PropertyRelation(targetEntity string, indexID, indexUID uint64) ModelBuilder {
	if e := m.current(); e != nil && len(e.Properties) > 0 {
		p := e.Properties[len(e.Properties)-1]
		p.RelationTarget = targetEntity
		p.IndexID, p.IndexUID = indexID, indexUID
	}
	return m
}

// Relation implements ModelBuilder.
func (m *ModelRecorder) Relation(id, uid, targetID, targetUID uint64) ModelBuilder {
	if e := m.current(); e != nil {
		e.Relations = append(e.Relations, &RecordedRelation{
			ID: id, UID: uid, TargetID: targetID, TargetUID: targetUID,
		})
	}
	return m
}

// LastPropertyID implements ModelBuilder.
func (m *ModelRecorder) LastPropertyID(id, uid uint64) ModelBuilder {
	if e := m.current(); e != nil {
		e.LastPropertyID, e.LastPropertyUID = id, uid
	}
	return m
}

// EntityByName returns the recorded entity with the given name, or nil.
func (m *ModelRecorder) EntityByName(name string) *RecordedEntity {
	for _, e := range m.Entities {
		if e.Name == name {
			return e
		}
	}
	return nil
}
