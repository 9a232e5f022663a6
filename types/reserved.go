package types

var reservedNames = []string{
	"int",
	"int8",
	"int16",
	"int32",
	"int64",
	"uint",
	"uint8",
	"uint16",
	"uint32",
	"uint64",
	"byte",
	"rune",
	"float32",
	"float64",
	"string",
	"bool",
	"true",
	"false",
	"array",
	"len",
}

var reservedSet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(reservedNames))
	for _, t := range reservedNames {
		m[t] = struct{}{}
	}
	return m
}()

// ReservedNames returns a copy of the type and builtin names that cannot be
// used as declaration names.
func ReservedNames() []string {
	return append([]string(nil), reservedNames...)
}

// IsReserved reports whether name is reserved for a type or builtin.
func IsReserved(name string) bool {
	_, ok := reservedSet[name]
	return ok
}
