package tablegen

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Sentinel errors for load-time failures. Every typed error below matches one
// of them with errors.Is.
var (
	// ErrAlreadyLoaded is returned when a table or dataset is loaded twice.
	ErrAlreadyLoaded = errors.New("tablegen: already loaded")
	// ErrNotLoaded is returned when a table is used before it was loaded.
	ErrNotLoaded = errors.New("tablegen: not loaded")
	// ErrUnresolvedLink is the panic value of Link.MustGet on an unresolved link.
	ErrUnresolvedLink = errors.New("tablegen: link not resolved")
	// ErrSource indicates a workbook could not be opened or a sheet read.
	ErrSource = errors.New("tablegen: source unavailable")
	// ErrParse indicates a cell could not be converted to its field type.
	ErrParse = errors.New("tablegen: parse failed")
	// ErrConstraint indicates a unique, min or max constraint was violated.
	ErrConstraint = errors.New("tablegen: constraint violated")
	// ErrDuplicateID indicates two rows share an identifier.
	ErrDuplicateID = errors.New("tablegen: duplicate id")
	// ErrMissingLink indicates a link refers to an id absent from its target table.
	ErrMissingLink = errors.New("tablegen: missing link target")
)

// ParseKind classifies a ParseError.
type ParseKind uint8

// Parse error kinds.
const (
	ColumnCount ParseKind = iota + 1
	InvalidFormat
	InvalidEnumValue
	OutOfRange
	ItemCount
)

// String returns the kind name.
func (k ParseKind) String() string {
	switch k {
	case ColumnCount:
		return "column count"
	case InvalidFormat:
		return "invalid format"
	case InvalidEnumValue:
		return "invalid enum value"
	case OutOfRange:
		return "out of range"
	case ItemCount:
		return "item count"
	default:
		return "ParseKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// ParseError reports a cell or row that could not be converted.
type ParseError struct {
	Kind ParseKind
	// Type is the name of the target type.
	Type string
	// Value is the offending input, formatted for display.
	Value string
	// Expected describes the accepted input for InvalidFormat errors.
	Expected string
	// Want and Got hold counts for ColumnCount and ItemCount errors.
	Want, Got int
	// Min and Max hold the accepted range for OutOfRange errors.
	Min, Max string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	switch e.Kind {
	case ColumnCount:
		return fmt.Sprintf("tablegen: expected at least %d columns, got %d", e.Want, e.Got)
	case ItemCount:
		return fmt.Sprintf("tablegen: %s expects %d items, got %d", e.Type, e.Want, e.Got)
	case InvalidEnumValue:
		return fmt.Sprintf("tablegen: %s is not a valid %s", e.Value, e.Type)
	case OutOfRange:
		return fmt.Sprintf("tablegen: %s out of range for %s [%s, %s]", e.Value, e.Type, e.Min, e.Max)
	default:
		return fmt.Sprintf("tablegen: invalid %s: expected %s, got %s", e.Type, e.Expected, e.Value)
	}
}

// Is reports whether the target matches ErrParse.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// ConstraintKind classifies a ConstraintError.
type ConstraintKind uint8

// Constraint kinds.
const (
	Unique ConstraintKind = iota + 1
	Min
	Max
)

// String returns the constraint name.
func (k ConstraintKind) String() string {
	switch k {
	case Unique:
		return "unique"
	case Min:
		return "min"
	case Max:
		return "max"
	default:
		return "ConstraintKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// ConstraintError reports a value rejected by a field constraint.
type ConstraintError struct {
	Kind  ConstraintKind
	Value string
	// Bound is the limit of a Min or Max constraint.
	Bound int64
	// FirstRow is the row that already holds a Unique value.
	FirstRow int
}

// Error implements the error interface.
func (e *ConstraintError) Error() string {
	switch e.Kind {
	case Unique:
		if e.FirstRow > 0 {
			return fmt.Sprintf("tablegen: unique constraint: %s already used in row %d", e.Value, e.FirstRow)
		}
		return fmt.Sprintf("tablegen: unique constraint: %s already used", e.Value)
	case Min:
		return fmt.Sprintf("tablegen: min constraint: %s < %d", e.Value, e.Bound)
	case Max:
		return fmt.Sprintf("tablegen: max constraint: %s > %d", e.Value, e.Bound)
	default:
		return "tablegen: constraint violated: " + e.Value
	}
}

// Is reports whether the target matches ErrConstraint.
func (e *ConstraintError) Is(target error) bool {
	return target == ErrConstraint
}

// RowError locates a parse or constraint failure within a workbook.
type RowError struct {
	Workbook string
	Sheet    string
	Row      int
	// Column is the field name. It is empty for row-level errors.
	Column string
	Err    error
}

// Error implements the error interface.
func (e *RowError) Error() string {
	var b strings.Builder
	b.WriteString(e.Workbook)
	b.WriteString(" [")
	b.WriteString(e.Sheet)
	b.WriteString("] row ")
	b.WriteString(strconv.Itoa(e.Row))
	if e.Column != "" {
		b.WriteString(" column ")
		b.WriteString(e.Column)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *RowError) Unwrap() error {
	return e.Err
}

// DuplicateIDError reports a second row using an identifier already present
// in a table or, for abstract tables, anywhere in the hierarchy.
type DuplicateIDError struct {
	Table string
	ID    DataID
	// Row is the row of the second occurrence, when known.
	Row int
	// FirstRow is the row of the first occurrence, when known.
	FirstRow int
}

// Error implements the error interface.
func (e *DuplicateIDError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "tablegen: duplicate id %d in %s", e.ID, e.Table)
	if e.Row > 0 {
		fmt.Fprintf(&b, " at row %d", e.Row)
	}
	if e.FirstRow > 0 {
		fmt.Fprintf(&b, " (first seen at row %d)", e.FirstRow)
	}
	return b.String()
}

// Is reports whether the target matches ErrDuplicateID.
func (e *DuplicateIDError) Is(target error) bool {
	return target == ErrDuplicateID
}

// MissingLinkError reports a link id absent from the target table.
type MissingLinkError struct {
	Target string
	ID     DataID
}

// Error implements the error interface.
func (e *MissingLinkError) Error() string {
	return fmt.Sprintf("tablegen: %s has no row with id %d", e.Target, e.ID)
}

// Is reports whether the target matches ErrMissingLink.
func (e *MissingLinkError) Is(target error) bool {
	return target == ErrMissingLink
}

// LinkError locates a link resolution failure by the id of the referencing row.
type LinkError struct {
	Workbook string
	Sheet    string
	ID       DataID
	Column   string
	Err      error
}

// Error implements the error interface.
func (e *LinkError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s [%s] id %d", e.Workbook, e.Sheet, e.ID)
	if e.Column != "" {
		b.WriteString(" column ")
		b.WriteString(e.Column)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *LinkError) Unwrap() error {
	return e.Err
}

// SourceError reports a workbook that could not be opened or read.
type SourceError struct {
	Workbook string
	Sheet    string
	Err      error
}

// Error implements the error interface.
func (e *SourceError) Error() string {
	if e.Sheet != "" {
		return fmt.Sprintf("tablegen: read %s [%s]: %v", e.Workbook, e.Sheet, e.Err)
	}
	return fmt.Sprintf("tablegen: open %s: %v", e.Workbook, e.Err)
}

// Unwrap returns the underlying error.
func (e *SourceError) Unwrap() error {
	return e.Err
}

// Is reports whether the target matches ErrSource.
func (e *SourceError) Is(target error) bool {
	return target == ErrSource
}

// IsParseError reports whether the error is a ParseError.
func IsParseError(err error) bool {
	var e *ParseError
	return errors.As(err, &e)
}

// IsConstraintError reports whether the error is a ConstraintError.
func IsConstraintError(err error) bool {
	var e *ConstraintError
	return errors.As(err, &e)
}

// IsDuplicateID reports whether the error is a DuplicateIDError.
func IsDuplicateID(err error) bool {
	var e *DuplicateIDError
	return errors.As(err, &e)
}

// IsLinkError reports whether the error is a link resolution failure.
func IsLinkError(err error) bool {
	var e *LinkError
	return errors.As(err, &e) || errors.Is(err, ErrMissingLink)
}

// IsSourceError reports whether the error is a SourceError.
func IsSourceError(err error) bool {
	var e *SourceError
	return errors.As(err, &e)
}
