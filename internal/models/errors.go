package models

import "fmt"

// ValidationError representa un error de validación sobre un campo.
// Record es la posición del producto dentro del lote, o -1 si la
// validación no se refiere a un registro (por ejemplo, un parámetro).
type ValidationError struct {
	Record  int
	Name    string
	Field   string
	Message string
}

// NewValidationError crea un ValidationError que no pertenece a ningún registro.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Record: -1, Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Record < 0 {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	if e.Name != "" {
		return fmt.Sprintf("product %d (%q): %s: %s", e.Record, e.Name, e.Field, e.Message)
	}
	return fmt.Sprintf("product %d: %s: %s", e.Record, e.Field, e.Message)
}

// NotFoundError indica que una operación direccionada por id o SKU no encontró nada.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}

// StorageUnavailableError indica que la base de datos no respondió a tiempo
// o no es alcanzable.
type StorageUnavailableError struct {
	Op  string
	Err error
}

func (e *StorageUnavailableError) Error() string {
	return fmt.Sprintf("storage unavailable during %s: %v", e.Op, e.Err)
}

func (e *StorageUnavailableError) Unwrap() error { return e.Err }
