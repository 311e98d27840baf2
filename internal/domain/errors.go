package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrPartialWrite       = errors.New("escritura parcial revertida")
	ErrExhausted          = errors.New("rango de unidades agotado")
	ErrCompensationFailed = errors.New("falló la compensación")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrUnauthorized       = errors.New("no autorizado")
)

// ErrorKind clasifica un error en la taxonomía cerrada del núcleo.
type ErrorKind string

const (
	KindValidation   ErrorKind = "validation"
	KindNotFound     ErrorKind = "not_found"
	KindPartialWrite ErrorKind = "partial_write"
	KindExhaustion   ErrorKind = "exhaustion"
	KindCompensation ErrorKind = "compensation_failure"
	KindInternal     ErrorKind = "internal"
)

// KindOf devuelve la clase del error para que el caller decida sin comparar mensajes.
// Las variantes que envuelven a otra causa (compensación, escritura parcial) se evalúan primero.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrCompensationFailed):
		return KindCompensation
	case errors.Is(err, ErrPartialWrite):
		return KindPartialWrite
	case errors.Is(err, ErrExhausted):
		return KindExhaustion
	case errors.Is(err, ErrInvalidInput):
		return KindValidation
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	}
	return KindInternal
}

// ValidationError entrada mal formada; se detecta antes de cualquier escritura.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", ErrInvalidInput, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", ErrInvalidInput, e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

// StatusMismatch la cabecera ya no estaba en el estado esperado al intentar la transición.
func StatusMismatch(current, expected string) error {
	return &ValidationError{Field: "status", Reason: fmt.Sprintf("estado %s, se esperaba %s", current, expected)}
}

// Invalid atajo para construir un ValidationError.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// NotFoundError el recurso referenciado no existe (p. ej. SKU sin precio).
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: %s %q", ErrNotFound, e.Resource, e.Key)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// PartialWriteError un paso de escritura falló después de que al menos la cabecera quedó insertada.
// Cuando se devuelve, la compensación ya se ejecutó completa.
type PartialWriteError struct {
	MovementID string
	Step       string
	Err        error
}

func (e *PartialWriteError) Error() string {
	return fmt.Sprintf("%s: movimiento %s, paso %s: %v", ErrPartialWrite, e.MovementID, e.Step, e.Err)
}

func (e *PartialWriteError) Unwrap() error { return e.Err }

func (e *PartialWriteError) Is(target error) bool { return target == ErrPartialWrite }

// ExhaustionError el rango pedido supera el techo de numeración de unidades.
type ExhaustionError struct {
	Requested int
	Limit     int
}

func (e *ExhaustionError) Error() string {
	return fmt.Sprintf("%s: unidad %d supera el límite %d", ErrExhausted, e.Requested, e.Limit)
}

func (e *ExhaustionError) Is(target error) bool { return target == ErrExhausted }

// CompensationFailure un borrado de reversa falló. No se reintenta: quedan filas huérfanas
// (Pending) que requieren conciliación manual.
type CompensationFailure struct {
	MovementID string
	Pending    []string
	Cause      error
	Err        error
}

func (e *CompensationFailure) Error() string {
	return fmt.Sprintf("%s: movimiento %s, pendiente [%s]: %v (causa original: %v)",
		ErrCompensationFailed, e.MovementID, strings.Join(e.Pending, ", "), e.Err, e.Cause)
}

// Unwrap expone tanto el error del borrado como la causa que disparó el rollback.
func (e *CompensationFailure) Unwrap() []error { return []error{e.Err, e.Cause} }

func (e *CompensationFailure) Is(target error) bool { return target == ErrCompensationFailed }
