package snapshot

import "strings"

// Markers shared by the generator and the legacy source parser. Text between
// a BEGIN/END pair is read back unchanged by the next regeneration.
const (
	UserBegin = "// --- BEGIN: user defines and implements ---"
	UserEnd   = "// --- END: user defines and implements ---"
	FuncBegin = "    // --- BEGIN: user implements ---"
	FuncEnd   = "    // --- END: user implements ---"

	// RetiredAnnotation prefixes the signature of a function that is no
	// longer declared by the kernel interface.
	RetiredAnnotation = "/** this api was removed from kernel **/"
)

// ReturnTag is the symbolic return type of a function, e.g. "OPERATE_RET" or "VOID*".
type ReturnTag string

// Known return tags.
const (
	TagOperateRet ReturnTag = "OPERATE_RET"
	TagVoidPtr    ReturnTag = "VOID*"
	TagVoid       ReturnTag = "VOID"
	TagVoidTPtr   ReturnTag = "VOID_T*"
	TagVoidT      ReturnTag = "VOID_T"
	TagUint64     ReturnTag = "UINT64_T"
	TagInt64      ReturnTag = "INT64_T"
	TagUint32     ReturnTag = "UINT32_T"
	TagInt32      ReturnTag = "INT32_T"
	TagInt        ReturnTag = "INT_T"
	TagUint       ReturnTag = "UINT_T"
	TagUint16     ReturnTag = "UINT16_T"
	TagInt16      ReturnTag = "INT16_T"
	TagUint8      ReturnTag = "UINT8_T"
	TagInt8       ReturnTag = "INT8_T"
	TagChar       ReturnTag = "CHAR_T"
	TagSchar      ReturnTag = "SCHAR_T"
)

var storageQualifiers = map[string]bool{
	"extern": true,
	"static": true,
	"inline": true,
}

// TagFor derives the return tag of a C return type: storage qualifiers are
// dropped, the rest is upper-cased with all whitespace removed, so
// "void *" becomes "VOID*".
func TagFor(returnType string) ReturnTag {
	var parts []string
	for _, tok := range strings.Fields(strings.ReplaceAll(returnType, "*", " * ")) {
		if storageQualifiers[tok] {
			continue
		}
		parts = append(parts, tok)
	}
	return ReturnTag(strings.ToUpper(strings.Join(parts, "")))
}

// Function describes one adapter function.
type Function struct {
	// Name identifies the function within its file (exact, case-sensitive).
	Name string `json:"name" yaml:"name"`

	// Signature is the full declaration text emitted as the function head.
	Signature string `json:"signature" yaml:"signature"`

	// Return selects the default stub return expression.
	Return ReturnTag `json:"return" yaml:"return"`

	// Body is the previously written body text; empty means no prior implementation.
	Body string `json:"body,omitempty" yaml:"body,omitempty"`

	// IsNew is true when no legacy counterpart existed.
	IsNew bool `json:"is_new" yaml:"is_new"`

	// Retired is true when the function exists only in the legacy file.
	Retired bool `json:"retired" yaml:"retired"`
}

// File describes one adapter source file.
type File struct {
	// Name is the source file name, e.g. "tkl_uart.c".
	Name string `json:"name" yaml:"name"`

	// Header is the paired interface header name, e.g. "tkl_uart.h".
	Header string `json:"header" yaml:"header"`

	// Functions is in interface order, retired functions last.
	Functions []Function `json:"functions" yaml:"functions"`

	// UserRegion is the verbatim user define block between the user markers.
	UserRegion string `json:"user_region,omitempty" yaml:"user_region,omitempty"`

	// IsNewFile is true when no legacy source existed.
	IsNewFile bool `json:"is_new_file" yaml:"is_new_file"`
}

// Clone returns a deep copy of f.
func (f *File) Clone() *File {
	if f == nil {
		return nil
	}
	c := *f
	c.Functions = append([]Function(nil), f.Functions...)
	return &c
}

// FunctionNames returns the function names in order.
func (f *File) FunctionNames() []string {
	names := make([]string, 0, len(f.Functions))
	for _, fn := range f.Functions {
		names = append(names, fn.Name)
	}
	return names
}

// Lookup finds a function by exact name.
func (f *File) Lookup(name string) (Function, bool) {
	for _, fn := range f.Functions {
		if fn.Name == name {
			return fn, true
		}
	}
	return Function{}, false
}

// Counts returns the number of new, preserved and retired functions.
func (f *File) Counts() (added, kept, retired int) {
	for _, fn := range f.Functions {
		switch {
		case fn.Retired:
			retired++
		case fn.IsNew:
			added++
		default:
			kept++
		}
	}
	return added, kept, retired
}

// Group is the set of adapter files of one interface sub-directory
// (an ability domain such as "wifi" or "security").
type Group struct {
	// Name is the directory base name.
	Name string `json:"name" yaml:"name"`

	// Dir is the slash path of the directory relative to the include root.
	Dir string `json:"dir" yaml:"dir"`

	// Headers are the slash paths of the headers of this group, relative to the include root.
	Headers []string `json:"headers" yaml:"headers"`

	// Files are the merged descriptors produced for the headers of this group.
	Files []*File `json:"files,omitempty" yaml:"files,omitempty"`
}
