package codegen

import (
	"fmt"
	"sort"
	"strings"

	"github.com/stratadb/strata/internal/diag"
	"github.com/stratadb/strata/internal/schema"
)

const generatedHeader = "// Code generated by strata. DO NOT EDIT.\n\n"

// Generator emits one Go source file per entity plus a model
// registration file, all in the configured output package.
type Generator struct {
	pkg string
}

// NewGenerator creates a generator targeting the given package name.
func NewGenerator(pkg string) *Generator {
	if pkg == "" {
		pkg = "model"
	}
	return &Generator{pkg: pkg}
}

// FileFor returns the output file name for an entity.
func (g *Generator) FileFor(e *schema.ModelEntity) string {
	return toSnakeCase(e.Name) + ".gen.go"
}

// GenerateAll generates binding files for every entity in the model,
// keyed by file name. A model.gen.go file registering all entities is
// included.
func (g *Generator) GenerateAll(m *schema.ModelInfo) (map[string][]byte, error) {
	files := make(map[string][]byte, len(m.Entities)+1)
	for _, e := range m.Entities {
		src, err := g.GenerateEntity(m, e)
		if err != nil {
			return nil, err
		}
		files[g.FileFor(e)] = src
	}
	files["model.gen.go"] = g.generateModelFile(m)
	return files, nil
}

// GenerateEntity generates the binding source for one entity: the
// record struct, identity accessors, default constructor, model-builder
// registration, table decode and encode routines and the typed
// condition factory.
func (g *Generator) GenerateEntity(m *schema.ModelInfo, e *schema.ModelEntity) ([]byte, error) {
	if e.IDProperty() == nil {
		return nil, diag.Entityf(diag.CodeMissingIDField, e.Name, "entity has no identifier property")
	}
	for _, p := range e.Properties {
		if p.HostType == "" {
			return nil, diag.Fieldf(diag.CodeUnresolvableProperty, e.Name, p.Name,
				"property has no host type")
		}
		if p.IsRelation() && relationTargetOf(p) == "" {
			return nil, diag.Fieldf(diag.CodeUnknownRelationRef, e.Name, p.Name,
				"relation property has no resolvable target")
		}
	}
	for _, r := range e.Relations {
		if relationTargetName(m, r) == "" {
			return nil, diag.Fieldf(diag.CodeUnknownRelationRef, e.Name, r.Name,
				"relation has no resolvable target")
		}
	}

	var b strings.Builder
	b.WriteString(generatedHeader)
	fmt.Fprintf(&b, "package %s\n\n", g.pkg)
	g.writeImports(&b, e)
	g.writeStruct(&b, m, e)
	g.writeAccessors(&b, e)
	g.writeConstructor(&b, e)
	g.writeRegister(&b, e)
	g.writeDecode(&b, e)
	g.writeEncode(&b, e)
	g.writeConditions(&b, e)
	return []byte(b.String()), nil
}

func (g *Generator) writeImports(b *strings.Builder, e *schema.ModelEntity) {
	needsRelation := len(e.Relations) > 0
	for _, p := range e.Properties {
		if p.IsRelation() {
			needsRelation = true
		}
	}
	b.WriteString("import (\n")
	if needsRelation {
		b.WriteString("\t\"github.com/stratadb/strata/runtime/relation\"\n")
	}
	b.WriteString("\t\"github.com/stratadb/strata/runtime/query\"\n")
	b.WriteString("\t\"github.com/stratadb/strata/runtime/store\"\n")
	b.WriteString("\t\"github.com/stratadb/strata/runtime/table\"\n")
	b.WriteString(")\n\n")
}

func (g *Generator) writeStruct(b *strings.Builder, m *schema.ModelInfo, e *schema.ModelEntity) {
	fmt.Fprintf(b, "// %s is a persisted record type.\n", e.Name)
	fmt.Fprintf(b, "type %s struct {\n", e.Name)
	for _, p := range e.Properties {
		fmt.Fprintf(b, "\t%s %s\n", exportName(p.StructFieldName()), fieldType(p))
	}
	for _, r := range e.Relations {
		fmt.Fprintf(b, "\t%s relation.ToMany[*%s]\n", exportName(r.Name), relationTargetName(m, r))
	}
	b.WriteString("}\n\n")
}

func (g *Generator) writeAccessors(b *strings.Builder, e *schema.ModelEntity) {
	recv := receiverName(e.Name)
	idField := exportName(e.IDProperty().StructFieldName())
	fmt.Fprintf(b, "// EntityID returns the record's persisted id, zero when unstored.\n")
	fmt.Fprintf(b, "func (%s *%s) EntityID() uint64 { return %s.%s }\n\n", recv, e.Name, recv, idField)
	fmt.Fprintf(b, "// SetEntityID records the id assigned by a put.\n")
	fmt.Fprintf(b, "func (%s *%s) SetEntityID(id uint64) { %s.%s = id }\n\n", recv, e.Name, recv, idField)
}

func (g *Generator) writeConstructor(b *strings.Builder, e *schema.ModelEntity) {
	var vectors []*schema.ModelProperty
	for _, p := range e.Properties {
		if !p.IsOptional() && (p.Type == schema.TypeByteVector || p.Type == schema.TypeStringVector) {
			vectors = append(vectors, p)
		}
	}
	fmt.Fprintf(b, "// New%s returns a record with vector fields initialized and every\n", e.Name)
	b.WriteString("// other field at its declared default.\n")
	fmt.Fprintf(b, "func New%s() *%s {\n", e.Name, e.Name)
	if len(vectors) == 0 {
		fmt.Fprintf(b, "\treturn &%s{}\n", e.Name)
	} else {
		fmt.Fprintf(b, "\treturn &%s{\n", e.Name)
		for _, p := range vectors {
			fmt.Fprintf(b, "\t\t%s: %s{},\n", exportName(p.StructFieldName()), strings.TrimPrefix(p.HostType, "*"))
		}
		b.WriteString("\t}\n")
	}
	b.WriteString("}\n\n")
}

func (g *Generator) writeRegister(b *strings.Builder, e *schema.ModelEntity) {
	fmt.Fprintf(b, "// Register%sModel replays the %s schema on a model builder.\n", e.Name, e.Name)
	fmt.Fprintf(b, "func Register%sModel(mb store.ModelBuilder) {\n", e.Name)
	fmt.Fprintf(b, "\tmb.Entity(%q, %d, %d).\n", e.Name, e.ID.ID, e.ID.UID)
	for _, p := range e.Properties {
		fmt.Fprintf(b, "\t\tProperty(%q, %d, %d, %d, %d).\n", p.Name, p.ID.ID, p.ID.UID, uint16(p.Type), uint32(p.Flags))
		if p.IsRelation() {
			var idxID, idxUID uint64
			if p.IndexID != nil {
				idxID, idxUID = p.IndexID.ID, p.IndexID.UID
			}
			fmt.Fprintf(b, "\t\tPropertyRelation(%q, %d, %d).\n", relationTargetOf(p), idxID, idxUID)
		} else if p.IndexID != nil {
			fmt.Fprintf(b, "\t\tPropertyIndex(%d, %d).\n", p.IndexID.ID, p.IndexID.UID)
		}
	}
	fmt.Fprintf(b, "\t\tLastPropertyID(%d, %d)", e.LastPropertyID.ID, e.LastPropertyID.UID)
	for _, r := range e.Relations {
		var tid, tuid uint64
		if r.TargetID != nil {
			tid, tuid = r.TargetID.ID, r.TargetID.UID
		}
		fmt.Fprintf(b, ".\n\t\tRelation(%d, %d, %d, %d)", r.ID.ID, r.ID.UID, tid, tuid)
	}
	b.WriteString("\n}\n\n")
}

func (g *Generator) writeDecode(b *strings.Builder, e *schema.ModelEntity) {
	recv := receiverName(e.Name)
	fmt.Fprintf(b, "// Decode fills the record from a table row.\n")
	fmt.Fprintf(b, "func (%s *%s) Decode(src table.Table) {\n", recv, e.Name)
	for i, p := range LayoutOrder(e) {
		g.writeDecodeField(b, recv, p, offsetAt(i))
	}
	b.WriteString("}\n\n")
}

func (g *Generator) writeDecodeField(b *strings.Builder, recv string, p *schema.ModelProperty, off int) {
	field := recv + "." + exportName(p.StructFieldName())

	if p.Flags.Has(schema.FlagID) {
		fmt.Fprintf(b, "\t%s, _ = src.Uint64(%d)\n", field, off)
		return
	}
	if p.IsRelation() {
		target := relationTargetOf(p)
		fmt.Fprintf(b, "\tif v, ok := src.Int64(%d); ok {\n", off)
		fmt.Fprintf(b, "\t\t%s = relation.OneWithID[*%s](uint64(v))\n", field, target)
		b.WriteString("\t} else {\n")
		fmt.Fprintf(b, "\t\t%s = relation.ToOne[*%s]{}\n", field, target)
		b.WriteString("\t}\n")
		return
	}

	accessor, accType := tableAccessor(p)
	base := strings.TrimPrefix(p.HostType, "*")
	needsCast := base != accType

	switch {
	case p.IsOptional() && needsCast:
		fmt.Fprintf(b, "\tif v, ok := src.%s(%d); ok {\n", accessor, off)
		fmt.Fprintf(b, "\t\tval := %s(v)\n", base)
		fmt.Fprintf(b, "\t\t%s = &val\n", field)
		b.WriteString("\t} else {\n")
		fmt.Fprintf(b, "\t\t%s = nil\n", field)
		b.WriteString("\t}\n")
	case p.IsOptional():
		fmt.Fprintf(b, "\tif v, ok := src.%s(%d); ok {\n", accessor, off)
		fmt.Fprintf(b, "\t\t%s = &v\n", field)
		b.WriteString("\t} else {\n")
		fmt.Fprintf(b, "\t\t%s = nil\n", field)
		b.WriteString("\t}\n")
	case needsCast:
		fmt.Fprintf(b, "\tif v, ok := src.%s(%d); ok {\n", accessor, off)
		fmt.Fprintf(b, "\t\t%s = %s(v)\n", field, base)
		b.WriteString("\t}\n")
	default:
		fmt.Fprintf(b, "\t%s, _ = src.%s(%d)\n", field, accessor, off)
	}
}

func (g *Generator) writeEncode(b *strings.Builder, e *schema.ModelEntity) {
	recv := receiverName(e.Name)
	fmt.Fprintf(b, "// Encode writes the record into a table row.\n")
	fmt.Fprintf(b, "func (%s *%s) Encode(dst *table.Builder) {\n", recv, e.Name)
	for i, p := range LayoutOrder(e) {
		g.writeEncodeField(b, recv, p, offsetAt(i))
	}
	b.WriteString("}\n\n")
}

func (g *Generator) writeEncodeField(b *strings.Builder, recv string, p *schema.ModelProperty, off int) {
	field := recv + "." + exportName(p.StructFieldName())

	if p.Flags.Has(schema.FlagID) {
		fmt.Fprintf(b, "\tdst.PutUint64(%d, %s)\n", off, field)
		return
	}
	if p.IsRelation() {
		fmt.Fprintf(b, "\tdst.PutInt64(%d, int64(%s.TargetID()))\n", off, field)
		return
	}

	accessor, accType := tableAccessor(p)
	base := strings.TrimPrefix(p.HostType, "*")
	value := field
	if p.IsOptional() {
		value = "*" + field
	}
	if base != accType {
		value = fmt.Sprintf("%s(%s)", accType, value)
	}

	if p.IsOptional() {
		fmt.Fprintf(b, "\tif %s != nil {\n", field)
		fmt.Fprintf(b, "\t\tdst.Put%s(%d, %s)\n", accessor, off, value)
		b.WriteString("\t}\n")
	} else {
		fmt.Fprintf(b, "\tdst.Put%s(%d, %s)\n", accessor, off, value)
	}
}

func (g *Generator) writeConditions(b *strings.Builder, e *schema.ModelEntity) {
	var props []*schema.ModelProperty
	for _, p := range e.Properties {
		if p.Type == schema.TypeStringVector {
			continue
		}
		props = append(props, p)
	}
	fmt.Fprintf(b, "// %sFields exposes one typed condition builder per comparable\n", e.Name)
	fmt.Fprintf(b, "// property of %s.\n", e.Name)
	fmt.Fprintf(b, "var %sFields = struct {\n", e.Name)
	for _, p := range props {
		fmt.Fprintf(b, "\t%s query.Property[%s]\n", exportName(p.Name), conditionType(p))
	}
	b.WriteString("}{\n")
	for _, p := range props {
		fmt.Fprintf(b, "\t%s: query.Property[%s]{EntityID: %d, PropertyID: %d},\n",
			exportName(p.Name), conditionType(p), e.ID.ID, p.ID.ID)
	}
	b.WriteString("}\n")
}

// generateModelFile emits model.gen.go, which registers every entity on
// a model builder in name order.
func (g *Generator) generateModelFile(m *schema.ModelInfo) []byte {
	names := make([]string, 0, len(m.Entities))
	for _, e := range m.Entities {
		names = append(names, e.Name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(generatedHeader)
	fmt.Fprintf(&b, "package %s\n\n", g.pkg)
	b.WriteString("import \"github.com/stratadb/strata/runtime/store\"\n\n")
	b.WriteString("// RegisterModel replays the full schema on a model builder.\n")
	b.WriteString("func RegisterModel(mb store.ModelBuilder) {\n")
	for _, name := range names {
		fmt.Fprintf(&b, "\tRegister%sModel(mb)\n", name)
	}
	b.WriteString("}\n")
	return []byte(b.String())
}

// fieldType returns the Go type of the generated struct field.
func fieldType(p *schema.ModelProperty) string {
	if p.IsRelation() {
		return "relation.ToOne[*" + relationTargetOf(p) + "]"
	}
	return p.HostType
}

// tableAccessor returns the Table/Builder accessor suffix for a
// property and the Go type that accessor traffics in.
func tableAccessor(p *schema.ModelProperty) (name, goType string) {
	switch p.Type {
	case schema.TypeBool:
		return "Bool", "bool"
	case schema.TypeFloat:
		return "Float32", "float32"
	case schema.TypeDouble:
		return "Float64", "float64"
	case schema.TypeString:
		return "String", "string"
	case schema.TypeByteVector:
		return "Bytes", "[]byte"
	case schema.TypeStringVector:
		return "Strings", "[]string"
	default:
		if p.Flags.Has(schema.FlagUnsigned) {
			return "Uint64", "uint64"
		}
		return "Int64", "int64"
	}
}

// conditionType returns the value type of the generated condition
// builder for a property.
func conditionType(p *schema.ModelProperty) string {
	if p.IsRelation() || p.Flags.Has(schema.FlagID) {
		return "uint64"
	}
	return strings.TrimPrefix(p.HostType, "*")
}

// relationTargetOf returns the target entity name of a single-target
// relation property. When the classifier linkage is absent, for example
// on a model loaded from disk, the name is recovered from the host
// type.
func relationTargetOf(p *schema.ModelProperty) string {
	if p.RelationTarget != "" {
		return p.RelationTarget
	}
	const prefix = "relation.ToOne[*"
	if strings.HasPrefix(p.HostType, prefix) && strings.HasSuffix(p.HostType, "]") {
		return p.HostType[len(prefix) : len(p.HostType)-1]
	}
	return ""
}

// relationTargetName returns the target entity name of a standalone
// relation, resolving through the model when the classifier linkage is
// absent.
func relationTargetName(m *schema.ModelInfo, r *schema.ModelRelation) string {
	if r.TargetName != "" {
		return r.TargetName
	}
	if r.TargetID == nil {
		return ""
	}
	for _, e := range m.Entities {
		if e.ID.ID == r.TargetID.ID {
			return e.Name
		}
	}
	return ""
}
