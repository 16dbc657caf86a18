package adapter

import (
	"strings"

	"github.com/fulmenhq/tklport/pkg/snapshot"
)

// DefaultReturn returns the return expression of a stub for tag. ok is false
// for void tags, whose stubs carry no return statement. Unknown tags fall
// back to "0".
func DefaultReturn(tag snapshot.ReturnTag) (expr string, ok bool) {
	switch tag {
	case snapshot.TagOperateRet:
		return "OPRT_NOT_SUPPORTED", true
	case snapshot.TagVoidPtr, snapshot.TagVoidTPtr:
		return "NULL", true
	case snapshot.TagVoid, snapshot.TagVoidT:
		return "", false
	case snapshot.TagUint64, snapshot.TagInt64,
		snapshot.TagUint32, snapshot.TagInt32,
		snapshot.TagInt, snapshot.TagUint,
		snapshot.TagUint16, snapshot.TagInt16,
		snapshot.TagUint8, snapshot.TagInt8,
		snapshot.TagChar, snapshot.TagSchar:
		return "0", true
	default:
		return "0", true
	}
}

// StubBody is the body emitted for a function without an implementation.
func StubBody(tag snapshot.ReturnTag) string {
	var b strings.Builder
	b.WriteString(snapshot.FuncBegin)
	b.WriteByte('\n')
	if expr, ok := DefaultReturn(tag); ok {
		b.WriteString("    return ")
		b.WriteString(expr)
		b.WriteString(";\n")
	}
	b.WriteString(snapshot.FuncEnd)
	b.WriteByte('\n')
	return b.String()
}
