package validator

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-erp/internal/domain"
)

var (
	validate  = validator.New()
	indexExpr = regexp.MustCompile(`\[(\d+)\]`)
)

func init() {
	// Los errores se reportan con el nombre JSON del campo.
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})

	// decimal.Decimal se compara exacto contra el parámetro; nunca pasa por float64.
	for tag, ok := range map[string]func(cmp int) bool{
		"decimal_gt":  func(c int) bool { return c > 0 },
		"decimal_gte": func(c int) bool { return c >= 0 },
		"decimal_lte": func(c int) bool { return c <= 0 },
	} {
		if err := validate.RegisterValidation(tag, decimalCmp(ok)); err != nil {
			panic(err)
		}
	}
}

func decimalCmp(ok func(cmp int) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		d, isDecimal := fl.Field().Interface().(decimal.Decimal)
		if !isDecimal {
			return false
		}
		return ok(d.Cmp(decimal.RequireFromString(fl.Param())))
	}
}

// ValidateStruct valida data según sus tags `validate` y devuelve un FieldError por cada
// regla incumplida. Vacío si data es válido.
func ValidateStruct(data interface{}) []domain.FieldError {
	err := validate.Struct(data)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []domain.FieldError{{Field: "", Rule: "invalid", Message: err.Error()}}
	}
	out := make([]domain.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, domain.FieldError{
			Field:   fieldPath(fe.Namespace()),
			Rule:    rule(fe.Tag()),
			Message: message(fe),
		})
	}
	return out
}

// Validate igual que ValidateStruct pero como error (*domain.ValidationError) o nil.
func Validate(data interface{}) error {
	if fields := ValidateStruct(data); len(fields) > 0 {
		return domain.NewValidationError(fields...)
	}
	return nil
}

// fieldPath convierte "CreateSaleInput.items[0].sku_id" en "items.0.sku_id".
func fieldPath(ns string) string {
	if i := strings.Index(ns, "."); i >= 0 {
		ns = ns[i+1:]
	}
	return indexExpr.ReplaceAllString(ns, ".$1")
}

// rule nombre de la regla sin el prefijo de tipo (decimal_gte -> gte).
func rule(tag string) string {
	return strings.TrimPrefix(tag, "decimal_")
}

func message(fe validator.FieldError) string {
	switch rule(fe.Tag()) {
	case "required":
		return "es obligatorio"
	case "gt":
		return fmt.Sprintf("debe ser mayor que %s", fe.Param())
	case "gte":
		return fmt.Sprintf("debe ser mayor o igual que %s", fe.Param())
	case "lte":
		return fmt.Sprintf("debe ser menor o igual que %s", fe.Param())
	case "min":
		return fmt.Sprintf("debe tener al menos %s elemento(s)", fe.Param())
	case "max":
		return fmt.Sprintf("no debe superar %s caracteres", fe.Param())
	case "oneof":
		return fmt.Sprintf("debe ser uno de: %s", fe.Param())
	case "datetime":
		return fmt.Sprintf("debe tener el formato %s", fe.Param())
	case "nefield":
		return fmt.Sprintf("debe ser distinto de %s", fe.Param())
	}
	return fmt.Sprintf("no cumple la regla %s", rule(fe.Tag()))
}
