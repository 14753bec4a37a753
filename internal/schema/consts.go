package schema

// PropertyType identifies the storage type of a property in the binary
// table format. The numeric values are part of the model file format and
// must never change.
type PropertyType uint16

const (
	TypeBool         PropertyType = 1
	TypeByte         PropertyType = 2
	TypeShort        PropertyType = 3
	TypeChar         PropertyType = 4
	TypeInt          PropertyType = 5
	TypeLong         PropertyType = 6
	TypeFloat        PropertyType = 7
	TypeDouble       PropertyType = 8
	TypeString       PropertyType = 9
	TypeDate         PropertyType = 10
	TypeRelation     PropertyType = 11
	TypeDateNano     PropertyType = 12
	TypeByteVector   PropertyType = 23
	TypeStringVector PropertyType = 30
)

// String returns the string representation of the property type
func (t PropertyType) String() string {
	switch t {
	case TypeBool:
		return "bool"
	case TypeByte:
		return "byte"
	case TypeShort:
		return "short"
	case TypeChar:
		return "char"
	case TypeInt:
		return "int"
	case TypeLong:
		return "long"
	case TypeFloat:
		return "float"
	case TypeDouble:
		return "double"
	case TypeString:
		return "string"
	case TypeDate:
		return "date"
	case TypeDateNano:
		return "dateNano"
	case TypeRelation:
		return "relation"
	case TypeByteVector:
		return "byteVector"
	case TypeStringVector:
		return "stringVector"
	default:
		return "unknown"
	}
}

// PropertyFlags is a bit set of property modifiers. Values are part of
// the model file format.
type PropertyFlags uint32

const (
	FlagID                      PropertyFlags = 1
	FlagIndexed                 PropertyFlags = 8
	FlagUnique                  PropertyFlags = 32
	FlagIDSelfAssignable        PropertyFlags = 128
	FlagIndexPartialSkipZero    PropertyFlags = 1024
	FlagIndexHash               PropertyFlags = 2048
	FlagIndexHash64             PropertyFlags = 4096
	FlagUnsigned                PropertyFlags = 8192
	FlagUniqueOnConflictReplace PropertyFlags = 32768
)

// Has reports whether all bits of mask are set.
func (f PropertyFlags) Has(mask PropertyFlags) bool {
	return f&mask == mask
}

// ModelVersion is the version of the model file format produced by this
// toolchain, with ModelVersionParserMinimum the oldest parser that can
// still read it.
const (
	ModelVersion              = 5
	ModelVersionParserMinimum = 5
)
