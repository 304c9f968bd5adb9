package models

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Los errores usan los nombres JSON de los campos: variants[1].sku
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return Category(fl.Field().String()).Valid()
	})

	return v
}

// ValidateProduct valida las restricciones de campo de un producto.
// record es su posición dentro del lote y se copia en el error.
func ValidateProduct(record int, p *Product) error {
	err := validate.Struct(p)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &ValidationError{Record: record, Name: p.Name, Field: "product", Message: err.Error()}
	}

	fe := fieldErrs[0]
	return &ValidationError{
		Record:  record,
		Name:    p.Name,
		Field:   fieldPath(fe.Namespace()),
		Message: fieldMessage(fe),
	}
}

// ValidateProducts valida un lote completo y la unicidad de SKU dentro del
// lote. Devuelve el primer error encontrado.
func ValidateProducts(products []Product) error {
	for i := range products {
		if err := ValidateProduct(i, &products[i]); err != nil {
			return err
		}
	}

	seen := make(map[string]int)
	for i, p := range products {
		for j, v := range p.Variants {
			if other, dup := seen[v.SKU]; dup {
				return &ValidationError{
					Record:  i,
					Name:    p.Name,
					Field:   fmt.Sprintf("variants[%d].sku", j),
					Message: fmt.Sprintf("duplicate sku %q (already used by product %d)", v.SKU, other),
				}
			}
			seen[v.SKU] = i
		}
	}
	return nil
}

// ValidateStock valida un nuevo valor de stock para una variante.
func ValidateStock(stock int) error {
	if stock < 0 {
		return NewValidationError("stock", "must be greater than or equal to 0")
	}
	return nil
}

// ValidateCategory valida una categoría recibida como argumento de consulta.
func ValidateCategory(c Category) error {
	if !c.Valid() {
		return NewValidationError("category", categoryMessage())
	}
	return nil
}

// fieldPath quita el nombre del struct raíz: "Product.variants[0].sku" -> "variants[0].sku".
func fieldPath(namespace string) string {
	if i := strings.IndexByte(namespace, '.'); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	case "category":
		return categoryMessage()
	default:
		return fmt.Sprintf("failed %q constraint", fe.Tag())
	}
}

func categoryMessage() string {
	names := make([]string, len(Categories))
	for i, c := range Categories {
		names[i] = string(c)
	}
	return "must be one of " + strings.Join(names, ", ")
}
