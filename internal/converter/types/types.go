package types

// DataType is the closed set of pseudocode data types every expression and
// declaration resolves to.
type DataType string

const (
	Integer DataType = "INTEGER"
	Real    DataType = "REAL"
	String  DataType = "STRING"
	Boolean DataType = "BOOLEAN"
	Array   DataType = "ARRAY"
	Record  DataType = "RECORD"
	Any     DataType = "ANY"
)

// IsNumeric reports whether t participates in arithmetic without promotion.
func (t DataType) IsNumeric() bool {
	return t == Integer || t == Real
}

// annotations maps source-level type annotations to target types.
var annotations = map[string]DataType{
	"int":   Integer,
	"float": Real,
	"str":   String,
	"bool":  Boolean,
	"list":  Array,
}

// FromAnnotation resolves a source annotation like "int" or "float". An
// explicit annotation always beats inference, so callers check ok first.
func FromAnnotation(s string) (DataType, bool) {
	t, ok := annotations[s]
	return t, ok
}
