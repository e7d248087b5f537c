package framesql

import "strings"

// Kind is the declared value kind of a frame column. It plays the role a
// dtype plays in columnar libraries: it describes what the column holds, and
// it decides the SQL storage class the column maps to.
type Kind string

// Supported column kinds. Any other Kind string is legal and stored as TEXT.
const (
	KindInt      Kind = "int"
	KindInt8     Kind = "int8"
	KindInt16    Kind = "int16"
	KindInt32    Kind = "int32"
	KindInt64    Kind = "int64"
	KindUint     Kind = "uint"
	KindUint8    Kind = "uint8"
	KindUint16   Kind = "uint16"
	KindUint32   Kind = "uint32"
	KindUint64   Kind = "uint64"
	KindFloat32  Kind = "float32"
	KindFloat64  Kind = "float64"
	KindBool     Kind = "bool"
	KindDatetime Kind = "datetime"
	KindCategory Kind = "category"
	KindObject   Kind = "object"
)

// SQL storage class strings.
const (
	sqlTypeText    = "TEXT"
	sqlTypeInteger = "INTEGER"
	sqlTypeReal    = "REAL"
)

// storageClassEntry pairs a kind-name prefix with its storage class.
type storageClassEntry struct {
	prefix string
	class  string
}

// storageClassTable maps kind-name prefixes to SQLite storage classes.
// Entries are checked in order and the first matching prefix wins.
// Booleans become 0/1 INTEGER; datetimes become ISO-8601 TEXT.
var storageClassTable = []storageClassEntry{
	{"int", sqlTypeInteger},
	{"uint", sqlTypeInteger},
	{"float", sqlTypeReal},
	{"bool", sqlTypeInteger},
	{"datetime", sqlTypeText},
	{"category", sqlTypeText},
	{"object", sqlTypeText},
}

// String returns the kind name.
func (k Kind) String() string {
	return string(k)
}

// StorageClass returns the SQLite storage class for the kind: one of
// INTEGER, REAL, or TEXT. Unrecognized kinds default to TEXT, so the
// mapping is total and never fails.
func (k Kind) StorageClass() string {
	name := string(k)
	for _, entry := range storageClassTable {
		if strings.HasPrefix(name, entry.prefix) {
			return entry.class
		}
	}
	return sqlTypeText
}
