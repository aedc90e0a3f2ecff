// Package diagnostics implements the err(kind, msg, line, column) shim from
// spec §4.7: a closed ErrKind taxonomy, templated messages, and a reporter
// that threads the analyzer's current position.
package diagnostics

import "fmt"

// ErrKind is the closed tagged union of error kinds the analyzer and
// lowering layer can raise.
type ErrKind string

const (
	UndeclaredVar       ErrKind = "UndeclaredVar"
	VarAlreadyDeclared  ErrKind = "VarAlreadyDeclared"
	OperationNotGranted ErrKind = "OperationNotGranted"
	CannotConvertRight  ErrKind = "CannotConvertRight"
)

var errorTemplates = map[ErrKind]string{
	UndeclaredVar:       "undeclared identifier: %s",
	VarAlreadyDeclared:  "variable already declared in this scope: %s",
	OperationNotGranted: "operation not granted: %s",
	CannotConvertRight:  "cannot convert: %s",
}

// DiagnosticError is the error type the analyzer and lowering layer return.
// It implements error so it can be propagated with plain Go control flow.
type DiagnosticError struct {
	Kind   ErrKind
	Msg    string
	Line   int
	Column int
}

func (e *DiagnosticError) Error() string {
	template, ok := errorTemplates[e.Kind]
	message := e.Msg
	if ok {
		message = fmt.Sprintf(template, e.Msg)
	}
	if e.Line > 0 {
		return fmt.Sprintf("%d:%d: error [%s]: %s", e.Line, e.Column, e.Kind, message)
	}
	return fmt.Sprintf("error [%s]: %s", e.Kind, message)
}

// Err constructs a DiagnosticError at the given position. It mirrors the
// err(kind, msg, line, column) contract from spec §4.7: the caller is
// expected to report it (it already renders a full message via Error())
// and then propagate it upward, terminating analysis of the current node.
func Err(kind ErrKind, msg string, line, column int) *DiagnosticError {
	return &DiagnosticError{Kind: kind, Msg: msg, Line: line, Column: column}
}
