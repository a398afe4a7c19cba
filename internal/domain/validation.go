package domain

import (
	"fmt"
	"strings"
)

// FieldError describe un error de validación sobre un campo concreto.
// Field usa la ruta JSON con índices, ej. "items.0.sku_id".
type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

func (e FieldError) String() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError agrupa los errores de campo de una entrada estructuralmente inválida.
// errors.Is(err, ErrInvalidInput) es verdadero para cualquier ValidationError.
type ValidationError struct {
	Fields []FieldError
}

// NewValidationError construye el error a partir de una lista de campos.
func NewValidationError(fields ...FieldError) *ValidationError {
	return &ValidationError{Fields: fields}
}

// Invalid atajo para un único campo inválido.
func Invalid(field, rule, message string) *ValidationError {
	return NewValidationError(FieldError{Field: field, Rule: rule, Message: message})
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrInvalidInput.Error()
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.String())
	}
	return ErrInvalidInput.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}
