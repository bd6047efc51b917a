// Package validation concentra as regras de formato aplicadas na fronteira HTTP.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	apperror "warehub/internal/errors"
)

var (
	pincodeRegex = regexp.MustCompile(`^[1-9][0-9]{5}$`)
	phoneRegex   = regexp.MustCompile(`^\+?[1-9][0-9]{9,14}$`)
	whCodeRegex  = regexp.MustCompile(`^[A-Z0-9_-]{3,50}$`)
)

// Validator encapsula o validator do go-playground com as tags customizadas do projeto.
type Validator struct {
	v *validator.Validate
}

// New cria um Validator com as tags pincode, phone e whcode registradas.
func New() *Validator {
	v := validator.New()

	// Usa o nome do campo JSON nas mensagens de erro.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	v.RegisterValidation("pincode", func(fl validator.FieldLevel) bool {
		return pincodeRegex.MatchString(fl.Field().String())
	})
	v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phoneRegex.MatchString(fl.Field().String())
	})
	v.RegisterValidation("whcode", func(fl validator.FieldLevel) bool {
		return whCodeRegex.MatchString(fl.Field().String())
	})

	return &Validator{v: v}
}

// Struct valida a struct e retorna um *ValidationError com os campos inválidos, ou nil.
func (val *Validator) Struct(s interface{}) error {
	err := val.v.Struct(s)
	if err == nil {
		return nil
	}

	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) {
		return apperror.NewInternalError("Falha ao validar payload.", err)
	}

	fields := make([]apperror.FieldError, 0, len(vErrs))
	for _, fe := range vErrs {
		fields = append(fields, apperror.FieldError{
			Field:   fieldPath(fe),
			Message: message(fe),
		})
	}
	return apperror.NewFieldValidationError("Um ou mais campos são inválidos.", fields...)
}

// fieldPath remove o nome da struct raiz do namespace ("Warehouse.address.pincode" -> "address.pincode").
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "campo obrigatório"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("deve ter no mínimo %s caracteres", fe.Param())
		}
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("deve ter no mínimo %s itens", fe.Param())
		}
		return fmt.Sprintf("deve ser no mínimo %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("deve ter no máximo %s caracteres", fe.Param())
		}
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("deve ter no máximo %s itens", fe.Param())
		}
		return fmt.Sprintf("deve ser no máximo %s", fe.Param())
	case "gte":
		return fmt.Sprintf("deve ser maior ou igual a %s", fe.Param())
	case "lte":
		return fmt.Sprintf("deve ser menor ou igual a %s", fe.Param())
	case "ltefield":
		return fmt.Sprintf("não pode ser maior que %s", strings.ToLower(fe.Param()))
	case "oneof":
		return fmt.Sprintf("deve ser um de: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "email":
		return "deve ser um e-mail válido"
	case "uuid":
		return "deve ser um UUID válido"
	case "pincode":
		return "deve ser um PIN code de 6 dígitos"
	case "phone":
		return "deve ser um telefone válido (ex.: +919876543210)"
	case "whcode":
		return "deve conter de 3 a 50 caracteres entre A-Z, 0-9, _ ou -"
	default:
		return fmt.Sprintf("falhou na regra '%s'", fe.Tag())
	}
}
