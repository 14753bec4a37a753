package schema

import (
	"sort"

	"github.com/stratadb/strata/internal/diag"
)

// Merger reconciles a freshly classified entity set against the
// previously persisted model, carrying uids for everything that
// survived and minting ids/uids for additions.
//
// Retirement policy: entities, properties, indexes and relations that
// exist in the previous model but not in the fresh set are retired
// automatically. Their uids move to the model's retired lists so the
// audit history is never erased, and are never handed out again.
type Merger struct {
	newUID func() uint64
}

// NewMerger creates a merger minting uids with NewUID.
func NewMerger() *Merger {
	return &Merger{newUID: NewUID}
}

// Merge produces the next model from the previous persisted model (nil
// for a first pass) and the freshly classified entities. The fresh
// entities are annotated in place with their assigned ids.
//
// Ids continue from the previous model's counters and are never reused,
// even after a removal. A uid ending up on two differently named
// entities is a fatal error, never silently resolved.
func (m *Merger) Merge(prev *ModelInfo, fresh []*ModelEntity) (*ModelInfo, error) {
	if prev == nil {
		prev = NewModelInfo()
	}

	result := NewModelInfo()
	result.RetiredEntityUIDs = append(result.RetiredEntityUIDs[:0], prev.RetiredEntityUIDs...)
	result.RetiredIndexUIDs = append(result.RetiredIndexUIDs[:0], prev.RetiredIndexUIDs...)
	result.RetiredPropertyUIDs = append(result.RetiredPropertyUIDs[:0], prev.RetiredPropertyUIDs...)
	result.RetiredRelationUIDs = append(result.RetiredRelationUIDs[:0], prev.RetiredRelationUIDs...)

	// Monotonic counters continue from the previous pass.
	lastEntity := prev.LastEntityID
	lastIndex := prev.LastIndexID
	lastRelation := prev.LastRelationID

	sorted := make([]*ModelEntity, len(fresh))
	copy(sorted, fresh)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	seen := make(map[string]bool, len(sorted))
	matchedPrev := make(map[string]bool, len(prev.Entities))

	for _, e := range sorted {
		if seen[e.Name] {
			return nil, diag.Entityf(diag.CodeDuplicateEntity, e.Name, "entity declared more than once")
		}
		seen[e.Name] = true
		if err := checkPropertyNames(e); err != nil {
			return nil, err
		}

		prevE := prev.FindEntity(e.Name)
		if prevE != nil {
			matchedPrev[e.Name] = true
			e.ID = prevE.ID
			m.mergeProperties(prevE, e, &lastIndex, result)
			m.mergeRelations(prevE, e, &lastRelation, result)
		} else {
			lastEntity = IdUid{ID: lastEntity.ID + 1, UID: m.newUID()}
			e.ID = lastEntity
			m.assignFreshEntity(e, &lastIndex, &lastRelation)
		}
		result.Entities = append(result.Entities, e)
	}

	// Previous entities absent from the fresh set are retired, with
	// every uid they owned recorded.
	for _, prevE := range prev.Entities {
		if matchedPrev[prevE.Name] {
			continue
		}
		result.RetiredEntityUIDs = append(result.RetiredEntityUIDs, prevE.ID.UID)
		for _, p := range prevE.Properties {
			result.RetiredPropertyUIDs = append(result.RetiredPropertyUIDs, p.ID.UID)
			if p.IndexID != nil {
				result.RetiredIndexUIDs = append(result.RetiredIndexUIDs, p.IndexID.UID)
			}
		}
		for _, r := range prevE.Relations {
			result.RetiredRelationUIDs = append(result.RetiredRelationUIDs, r.ID.UID)
		}
	}

	result.LastEntityID = lastEntity
	result.LastIndexID = lastIndex
	result.LastRelationID = lastRelation
	result.LastSequenceID = prev.LastSequenceID

	if err := resolveRelationTargets(result); err != nil {
		return nil, err
	}
	if err := checkUIDCollisions(result); err != nil {
		return nil, err
	}

	result.SortEntities()
	return result, nil
}

// mergeProperties matches fresh properties against the previous entity,
// first by schema name, then by the recorded previous name for renames.
func (m *Merger) mergeProperties(prevE, e *ModelEntity, lastIndex *IdUid, result *ModelInfo) {
	lastProp := prevE.LastPropertyID
	matched := make(map[string]bool, len(prevE.Properties))

	for _, p := range e.Properties {
		prevP := prevE.FindProperty(p.Name)
		if prevP == nil && p.PrevName != "" {
			prevP = prevE.FindProperty(p.PrevName)
			if prevP == nil {
				prevP = findPropertyByHostName(prevE, p.PrevName)
			}
		}
		if prevP != nil && !matched[prevP.Name] {
			matched[prevP.Name] = true
			p.ID = prevP.ID
			switch {
			case p.IndexID != nil && prevP.IndexID != nil && !prevP.IndexID.IsZero():
				idx := *prevP.IndexID
				p.IndexID = &idx
			case p.IndexID != nil:
				*lastIndex = IdUid{ID: lastIndex.ID + 1, UID: m.newUID()}
				idx := *lastIndex
				p.IndexID = &idx
			case prevP.IndexID != nil:
				// Index dropped: retire its uid.
				result.RetiredIndexUIDs = append(result.RetiredIndexUIDs, prevP.IndexID.UID)
			}
		} else {
			lastProp = IdUid{ID: lastProp.ID + 1, UID: m.newUID()}
			p.ID = lastProp
			if p.IndexID != nil {
				*lastIndex = IdUid{ID: lastIndex.ID + 1, UID: m.newUID()}
				idx := *lastIndex
				p.IndexID = &idx
			}
		}
	}

	for _, prevP := range prevE.Properties {
		if matched[prevP.Name] {
			continue
		}
		result.RetiredPropertyUIDs = append(result.RetiredPropertyUIDs, prevP.ID.UID)
		if prevP.IndexID != nil {
			result.RetiredIndexUIDs = append(result.RetiredIndexUIDs, prevP.IndexID.UID)
		}
	}

	e.LastPropertyID = lastProp
}

// mergeRelations matches standalone relations by name. A relation is
// never duplicated across regenerations for the same field name.
func (m *Merger) mergeRelations(prevE, e *ModelEntity, lastRelation *IdUid, result *ModelInfo) {
	matched := make(map[string]bool, len(prevE.Relations))

	for _, r := range e.Relations {
		prevR := prevE.FindRelation(r.Name)
		if prevR != nil && !matched[prevR.Name] {
			matched[prevR.Name] = true
			r.ID = prevR.ID
		} else {
			*lastRelation = IdUid{ID: lastRelation.ID + 1, UID: m.newUID()}
			r.ID = *lastRelation
		}
	}

	for _, prevR := range prevE.Relations {
		if !matched[prevR.Name] {
			result.RetiredRelationUIDs = append(result.RetiredRelationUIDs, prevR.ID.UID)
		}
	}
}

// assignFreshEntity mints ids for every property and relation of an
// entity seen for the first time.
func (m *Merger) assignFreshEntity(e *ModelEntity, lastIndex, lastRelation *IdUid) {
	var lastProp IdUid
	for _, p := range e.Properties {
		lastProp = IdUid{ID: lastProp.ID + 1, UID: m.newUID()}
		p.ID = lastProp
		if p.IndexID != nil {
			*lastIndex = IdUid{ID: lastIndex.ID + 1, UID: m.newUID()}
			idx := *lastIndex
			p.IndexID = &idx
		}
	}
	e.LastPropertyID = lastProp

	for _, r := range e.Relations {
		*lastRelation = IdUid{ID: lastRelation.ID + 1, UID: m.newUID()}
		r.ID = *lastRelation
	}
}

func findPropertyByHostName(e *ModelEntity, hostName string) *ModelProperty {
	for _, p := range e.Properties {
		if p.HostName == hostName {
			return p
		}
	}
	return nil
}

func checkPropertyNames(e *ModelEntity) error {
	seen := make(map[string]bool, len(e.Properties))
	for _, p := range e.Properties {
		if seen[p.Name] {
			return diag.Fieldf(diag.CodeDuplicateName, e.Name, p.Name, "duplicate schema name")
		}
		seen[p.Name] = true
	}
	return nil
}

// resolveRelationTargets fills in target entity ids for standalone
// relations once every entity has its id assigned.
func resolveRelationTargets(model *ModelInfo) error {
	for _, e := range model.Entities {
		for _, r := range e.Relations {
			if r.TargetName == "" {
				if r.TargetID == nil {
					return diag.Fieldf(diag.CodeMissingTarget, e.Name, r.Name, "relation has no target entity")
				}
				continue
			}
			target := model.FindEntity(r.TargetName)
			if target == nil {
				return diag.Fieldf(diag.CodeMissingTarget, e.Name, r.Name,
					"target entity %q not found", r.TargetName)
			}
			id := target.ID
			r.TargetID = &id
		}
	}
	return nil
}

// checkUIDCollisions verifies no uid ended up assigned to two
// differently named items. Discarding a uid to resolve this would
// destroy cross-regeneration identity, so it is always fatal.
func checkUIDCollisions(model *ModelInfo) error {
	entityByUID := make(map[uint64]string)
	propByUID := make(map[uint64]string)
	for _, e := range model.Entities {
		if other, ok := entityByUID[e.ID.UID]; ok {
			return diag.Entityf(diag.CodeUIDCollision, e.Name,
				"uid %d already assigned to entity %q", e.ID.UID, other)
		}
		entityByUID[e.ID.UID] = e.Name
		for _, p := range e.Properties {
			key := e.Name + "." + p.Name
			if other, ok := propByUID[p.ID.UID]; ok {
				return diag.Fieldf(diag.CodeUIDCollision, e.Name, p.Name,
					"uid %d already assigned to property %q", p.ID.UID, other)
			}
			propByUID[p.ID.UID] = key
		}
	}
	return nil
}
