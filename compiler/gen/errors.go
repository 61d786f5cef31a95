package gen

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the compile-time failure classes.
var (
	// ErrInvalidDeclarationFilename indicates a malformed schema file name or
	// a declaration entry that does not fit its schema.
	ErrInvalidDeclarationFilename = errors.New("tablegen: invalid declaration filename")
	// ErrNamespaceCollision indicates two entities with the same type id.
	ErrNamespaceCollision = errors.New("tablegen: namespace collision")
	// ErrUnknownParent indicates an extend target that is not a table.
	ErrUnknownParent = errors.New("tablegen: unknown parent table")
	// ErrUnknownLinkTarget indicates a link to a type that is not a table.
	ErrUnknownLinkTarget = errors.New("tablegen: unknown link target")
	// ErrUnknownEnum indicates an enum field referencing an unknown enumeration.
	ErrUnknownEnum = errors.New("tablegen: unknown enumeration")
	// ErrCircularDependency indicates a cycle in the link graph.
	ErrCircularDependency = errors.New("tablegen: circular dependency")
	// ErrInheritanceCycle indicates a cycle in extend chains.
	ErrInheritanceCycle = errors.New("tablegen: inheritance cycle")
	// ErrInvalidAttribute indicates an invalid combination of field or
	// entity attributes.
	ErrInvalidAttribute = errors.New("tablegen: invalid attribute")
	// ErrMissingConfig indicates a configuration error.
	ErrMissingConfig = errors.New("tablegen: missing configuration")
	// ErrGenerationFailed indicates a code generation failure.
	ErrGenerationFailed = errors.New("tablegen: code generation failed")
)

// DeclarationError reports a schema file that cannot be collected.
type DeclarationError struct {
	File    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *DeclarationError) Error() string {
	var b strings.Builder
	b.WriteString("tablegen: invalid declaration")
	if e.File != "" {
		b.WriteString(" ")
		b.WriteString(e.File)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *DeclarationError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches ErrInvalidDeclarationFilename.
func (e *DeclarationError) Is(target error) bool {
	return target == ErrInvalidDeclarationFilename
}

// NewDeclarationError creates a new DeclarationError.
func NewDeclarationError(file, message string, cause error) *DeclarationError {
	return &DeclarationError{File: file, Message: message, Cause: cause}
}

// CollisionError reports two entities sharing a name.
type CollisionError struct {
	// Name is the colliding type id or generated identifier.
	Name string
	// File is the declaration that collided with an earlier one.
	File string
}

// Error implements the error interface.
func (e *CollisionError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("tablegen: namespace collision: %s (declared again in %s)", e.Name, e.File)
	}
	return "tablegen: namespace collision: " + e.Name
}

// Is reports whether the target matches ErrNamespaceCollision.
func (e *CollisionError) Is(target error) bool {
	return target == ErrNamespaceCollision
}

// RefKind classifies a type reference.
type RefKind int

// Reference kinds.
const (
	RefParent RefKind = iota
	RefLink
	RefEnum
)

// ReferenceError reports a type reference that does not resolve.
type ReferenceError struct {
	Kind RefKind
	// Type is the referencing entity.
	Type  string
	Field string
	// Ref is the unresolved type id.
	Ref     string
	Message string
}

// Error implements the error interface.
func (e *ReferenceError) Error() string {
	var b strings.Builder
	switch e.Kind {
	case RefParent:
		b.WriteString("tablegen: unknown parent")
	case RefLink:
		b.WriteString("tablegen: unknown link target")
	default:
		b.WriteString("tablegen: unknown enumeration")
	}
	b.WriteString(" ")
	b.WriteString(e.Ref)
	if e.Type != "" {
		b.WriteString(" in ")
		b.WriteString(e.Type)
		if e.Field != "" {
			b.WriteString(".")
			b.WriteString(e.Field)
		}
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}

// Is reports whether the target matches the sentinel of the reference kind.
func (e *ReferenceError) Is(target error) bool {
	switch e.Kind {
	case RefParent:
		return target == ErrUnknownParent
	case RefLink:
		return target == ErrUnknownLinkTarget
	default:
		return target == ErrUnknownEnum
	}
}

// CycleError reports a dependency or inheritance cycle. Types lists the
// tables left on or behind the cycle, in qualified name order.
type CycleError struct {
	Inheritance bool
	Types       []string
}

// Error implements the error interface.
func (e *CycleError) Error() string {
	prefix := "tablegen: circular dependency between "
	if e.Inheritance {
		prefix = "tablegen: inheritance cycle through "
	}
	return prefix + strings.Join(e.Types, ", ")
}

// Is reports whether the target matches ErrCircularDependency or, for
// inheritance cycles, ErrInheritanceCycle.
func (e *CycleError) Is(target error) bool {
	if e.Inheritance {
		return target == ErrInheritanceCycle
	}
	return target == ErrCircularDependency
}

// AttributeError reports an invalid attribute combination on an entity or
// field.
type AttributeError struct {
	Type    string
	Field   string
	Message string
}

// Error implements the error interface.
func (e *AttributeError) Error() string {
	var b strings.Builder
	b.WriteString("tablegen: invalid attribute")
	if e.Type != "" {
		b.WriteString(" on ")
		b.WriteString(e.Type)
	}
	if e.Field != "" {
		b.WriteString(" field ")
		b.WriteString(e.Field)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}

// Is reports whether the target matches ErrInvalidAttribute.
func (e *AttributeError) Is(target error) bool {
	return target == ErrInvalidAttribute
}

// NewAttributeError creates a new AttributeError.
func NewAttributeError(typeName, field, message string) *AttributeError {
	return &AttributeError{Type: typeName, Field: field, Message: message}
}

// ConfigError represents a configuration error.
type ConfigError struct {
	Option  string
	Value   any
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("tablegen: config error for %q (value: %v): %s", e.Option, e.Value, e.Message)
	}
	return fmt.Sprintf("tablegen: config error for %q: %s", e.Option, e.Message)
}

// Is reports whether the target matches ErrMissingConfig.
func (e *ConfigError) Is(target error) bool {
	return target == ErrMissingConfig
}

// NewConfigError creates a new ConfigError.
func NewConfigError(option string, value any, message string) *ConfigError {
	return &ConfigError{Option: option, Value: value, Message: message}
}

// GenerationError represents a code generation error.
type GenerationError struct {
	Printer string // "golang", "protocol", "relational", "graphql"
	File    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *GenerationError) Error() string {
	var b strings.Builder
	b.WriteString("tablegen: generation error")
	if e.Printer != "" {
		b.WriteString(" in printer ")
		b.WriteString(e.Printer)
	}
	if e.File != "" {
		b.WriteString(" (file: ")
		b.WriteString(e.File)
		b.WriteString(")")
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches ErrGenerationFailed.
func (e *GenerationError) Is(target error) bool {
	return target == ErrGenerationFailed
}

// NewGenerationError creates a new GenerationError.
func NewGenerationError(printer, file, message string, cause error) *GenerationError {
	return &GenerationError{Printer: printer, File: file, Message: message, Cause: cause}
}

// IsDeclarationError reports whether the error is a DeclarationError.
func IsDeclarationError(err error) bool {
	var target *DeclarationError
	return errors.As(err, &target)
}

// IsCollisionError reports whether the error is a CollisionError.
func IsCollisionError(err error) bool {
	var target *CollisionError
	return errors.As(err, &target)
}

// IsReferenceError reports whether the error is a ReferenceError.
func IsReferenceError(err error) bool {
	var target *ReferenceError
	return errors.As(err, &target)
}

// IsCycleError reports whether the error is a CycleError.
func IsCycleError(err error) bool {
	var target *CycleError
	return errors.As(err, &target)
}

// IsAttributeError reports whether the error is an AttributeError.
func IsAttributeError(err error) bool {
	var target *AttributeError
	return errors.As(err, &target)
}

// IsConfigError reports whether the error is a ConfigError.
func IsConfigError(err error) bool {
	var target *ConfigError
	return errors.As(err, &target)
}

// IsGenerationError reports whether the error is a GenerationError.
func IsGenerationError(err error) bool {
	var target *GenerationError
	return errors.As(err, &target)
}
