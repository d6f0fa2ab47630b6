package core

import (
	"fmt"

	"github.com/pkg/errors"
)

// StateError covers missing reads against a StateReader. Storage reads are
// the one exception -- an absent storage key is zero, not an error.
type StateError struct {
	Kind StateErrorKind
	Key  string
}

type StateErrorKind int

const (
	ErrKindNoneClassHash StateErrorKind = iota
	ErrKindNoneNonce
	ErrKindNoneCompiledClass
	ErrKindNoneCompiledHash
)

func (e *StateError) Error() string {
	switch e.Kind {
	case ErrKindNoneClassHash:
		return fmt.Sprintf("no class hash recorded at address %s", e.Key)
	case ErrKindNoneNonce:
		return fmt.Sprintf("no nonce recorded at address %s", e.Key)
	case ErrKindNoneCompiledClass:
		return fmt.Sprintf("no compiled class found for hash %s", e.Key)
	case ErrKindNoneCompiledHash:
		return fmt.Sprintf("no compiled class hash found for class %s", e.Key)
	default:
		return "unknown state error"
	}
}

func NewStateError(kind StateErrorKind, key string) error {
	return errors.WithStack(&StateError{Kind: kind, Key: key})
}

// SyscallHandlerError covers malformed syscall requests or syscalls that are
// forbidden in the current execution context (e.g. a storage write issued
// during the validate phase).
type SyscallHandlerError struct {
	Syscall string
	Reason  string
}

func (e *SyscallHandlerError) Error() string {
	return fmt.Sprintf("syscall %q failed: %s", e.Syscall, e.Reason)
}

func NewSyscallHandlerError(syscall, reason string) error {
	return errors.WithStack(&SyscallHandlerError{Syscall: syscall, Reason: reason})
}

var ErrEntryPointNotFound = errors.New("entry point not found")
