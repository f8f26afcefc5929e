package document

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
)

// ErrMissingMeta reports a document without a top-level meta block.
// Callers map it to a not-found response.
var ErrMissingMeta = errors.New("missing meta object")

// ParseError wraps the syntax diagnostics for a malformed document.
type ParseError struct {
	Filename string
	Diags    hcl.Diagnostics
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %s: %s", e.Filename, e.Diags.Error())
}

// ConflictError reports a reserved-block merge violation. Keys holds the
// offending keys in document order.
type ConflictError struct {
	Block string
	Keys  []string

	// Const marks a collision with the const block; otherwise the
	// collision is against already-merged variables.
	Const bool
}

func (e *ConflictError) Error() string {
	if e.Const {
		return fmt.Sprintf("cannot override const values in %q block for keys: %s", e.Block, strings.Join(e.Keys, ", "))
	}
	return fmt.Sprintf("conflicting variables in %q block for keys: %s", e.Block, strings.Join(e.Keys, ", "))
}
