package classify

import (
	"github.com/stratadb/strata/internal/diag"
	"github.com/stratadb/strata/internal/schema"
)

// Relation type tokens.
const (
	tokenToOne  = "toOne"
	tokenToMany = "toMany"
)

// scalarTypes maps declaration type tokens to storage types, the extra
// flags they imply, and the Go type of the generated field.
var scalarTypes = map[string]struct {
	storage  schema.PropertyType
	flags    schema.PropertyFlags
	hostType string
}{
	"bool":     {schema.TypeBool, 0, "bool"},
	"int8":     {schema.TypeByte, 0, "int8"},
	"uint8":    {schema.TypeByte, schema.FlagUnsigned, "uint8"},
	"int16":    {schema.TypeShort, 0, "int16"},
	"uint16":   {schema.TypeShort, schema.FlagUnsigned, "uint16"},
	"int32":    {schema.TypeInt, 0, "int32"},
	"uint32":   {schema.TypeInt, schema.FlagUnsigned, "uint32"},
	"int64":    {schema.TypeLong, 0, "int64"},
	"uint64":   {schema.TypeLong, schema.FlagUnsigned, "uint64"},
	"rune":     {schema.TypeChar, 0, "rune"},
	"float32":  {schema.TypeFloat, 0, "float32"},
	"float64":  {schema.TypeDouble, 0, "float64"},
	"string":   {schema.TypeString, 0, "string"},
	"bytes":    {schema.TypeByteVector, 0, "[]byte"},
	"strings":  {schema.TypeStringVector, 0, "[]string"},
	"date":     {schema.TypeDate, 0, "int64"},
	"dateNano": {schema.TypeDateNano, 0, "int64"},
}

// Entity classifies every field of a declared record type into
// properties and standalone relations. Ids are left unassigned; the
// merger fills them in.
//
// Any field that cannot be mapped aborts classification for the record
// with a field-qualified error. Silent skipping would leave the
// generated table layout out of sync with the declaration, so it is
// never done.
func Entity(decl *EntityDecl) (*schema.ModelEntity, error) {
	entity := &schema.ModelEntity{Name: decl.Name}

	if len(decl.Fields) == 0 {
		return nil, diag.Entityf(diag.CodeEmptyEntity, decl.Name, "entity has no classifiable fields")
	}

	idSeen := false
	for i := range decl.Fields {
		field := &decl.Fields[i]
		switch field.Type {
		case tokenToMany:
			rel, err := classifyToMany(decl.Name, field)
			if err != nil {
				return nil, err
			}
			entity.Relations = append(entity.Relations, rel)
		default:
			prop, err := classifyProperty(decl.Name, field)
			if err != nil {
				return nil, err
			}
			if prop.Flags.Has(schema.FlagID) {
				if idSeen {
					return nil, diag.Fieldf(diag.CodeMultipleIDFields, decl.Name, field.Name,
						"entity already has an identifier field")
				}
				idSeen = true
			}
			entity.Properties = append(entity.Properties, prop)
		}
	}

	if len(entity.Properties) == 0 {
		return nil, diag.Entityf(diag.CodeEmptyEntity, decl.Name, "entity has no classifiable fields")
	}
	if !idSeen {
		return nil, diag.Entityf(diag.CodeMissingIDField, decl.Name, "entity has no identifier field")
	}
	return entity, nil
}

// Entities classifies a whole declaration file.
func Entities(decls *DeclFile) ([]*schema.ModelEntity, error) {
	entities := make([]*schema.ModelEntity, 0, len(decls.Entities))
	for i := range decls.Entities {
		entity, err := Entity(&decls.Entities[i])
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, nil
}

func classifyProperty(entityName string, field *FieldDecl) (*schema.ModelProperty, error) {
	prop := &schema.ModelProperty{
		Name:     field.Name,
		PrevName: field.RenamedFrom,
	}
	if field.SchemaName != "" {
		prop.Name = field.SchemaName
		prop.HostName = field.Name
	}

	// The identifier modifier wins over the declared type: identifiers
	// are always stored as unsigned 64-bit values.
	if field.ID {
		prop.Type = schema.TypeLong
		prop.Flags |= schema.FlagID
		if field.IDAssignable {
			prop.Flags |= schema.FlagIDSelfAssignable
		}
		prop.HostType = "uint64"
		return prop, nil
	}

	if field.Type == tokenToOne {
		return classifyToOne(entityName, field, prop)
	}

	spec, ok := scalarTypes[field.Type]
	if !ok {
		return nil, diag.Fieldf(diag.CodeUnsupportedType, entityName, field.Name,
			"unsupported field type %q", field.Type)
	}
	prop.Type = spec.storage
	prop.Flags |= spec.flags
	prop.HostType = spec.hostType
	if field.Optional {
		prop.HostType = "*" + spec.hostType
	}

	if field.Unique {
		prop.Flags |= schema.FlagUnique
		if field.OnConflictReplace {
			prop.Flags |= schema.FlagUniqueOnConflictReplace
		}
	}
	if field.Index || field.Unique {
		indexFlag, err := indexStrategy(entityName, field, spec.storage)
		if err != nil {
			return nil, err
		}
		prop.Flags |= indexFlag
		prop.IndexID = &schema.IdUid{} // requested; merger assigns
	}
	return prop, nil
}

// classifyToOne turns a single-target relation field into a Relation
// property named "<field>Id". The reference is automatically indexed,
// skipping zero ids so unset references stay out of the index.
func classifyToOne(entityName string, field *FieldDecl, prop *schema.ModelProperty) (*schema.ModelProperty, error) {
	if field.Target == "" {
		return nil, diag.Fieldf(diag.CodeMissingTarget, entityName, field.Name,
			"toOne field requires a target entity")
	}
	if field.Optional {
		return nil, diag.Fieldf(diag.CodeUnsupportedType, entityName, field.Name,
			"toOne fields cannot be optional; an empty relation already means no target")
	}

	prop.Name = field.Name + "Id"
	if field.SchemaName != "" {
		prop.Name = field.SchemaName
	}
	prop.HostName = ""
	prop.Type = schema.TypeRelation
	prop.Flags |= schema.FlagIndexed | schema.FlagIndexPartialSkipZero
	prop.IndexID = &schema.IdUid{}
	prop.HostType = "relation.ToOne[*" + field.Target + "]"
	prop.RelationField = field.Name
	prop.RelationTarget = field.Target
	return prop, nil
}

// classifyToMany turns a multi-target relation field into a standalone
// relation descriptor. It is never given flags or an index.
func classifyToMany(entityName string, field *FieldDecl) (*schema.ModelRelation, error) {
	if field.Target == "" {
		return nil, diag.Fieldf(diag.CodeMissingTarget, entityName, field.Name,
			"toMany field requires a target entity")
	}
	if field.Index || field.Unique {
		return nil, diag.Fieldf(diag.CodeUnsupportedType, entityName, field.Name,
			"toMany fields cannot be indexed")
	}
	if field.Optional {
		return nil, diag.Fieldf(diag.CodeUnsupportedType, entityName, field.Name,
			"toMany fields cannot be optional; an empty relation already means no targets")
	}
	return &schema.ModelRelation{
		Name:       field.Name,
		TargetName: field.Target,
	}, nil
}

// indexStrategy picks the index flag for an indexed or unique field.
// Text defaults to a hashed index, everything else to a value index;
// an explicit override must be one of hash, hash64 or value.
func indexStrategy(entityName string, field *FieldDecl, storage schema.PropertyType) (schema.PropertyFlags, error) {
	switch field.IndexType {
	case "hash":
		return schema.FlagIndexHash, nil
	case "hash64":
		return schema.FlagIndexHash64, nil
	case "value":
		return schema.FlagIndexed, nil
	case "":
		if storage == schema.TypeString {
			return schema.FlagIndexHash, nil
		}
		return schema.FlagIndexed, nil
	default:
		return 0, diag.Fieldf(diag.CodeBadIndexStrategy, entityName, field.Name,
			"unknown index type %q: use hash, hash64 or value", field.IndexType)
	}
}
