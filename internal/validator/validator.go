package validator

import (
	"errors"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/pt_BR"
	ut "github.com/go-playground/universal-translator"
	govalidator "github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	ptbr_translations "github.com/go-playground/validator/v10/translations/pt_BR"
	"github.com/stemsi/questbank/internal/model"
	"github.com/stemsi/questbank/internal/schema"
)

// trans is the singleton pt-BR translator for validation errors.
var trans ut.Translator

// Setup registers the validator with pt-BR translations and the custom tags on Gin's
// binding engine. Call once during application startup.
func Setup() {
	v, ok := binding.Validator.Engine().(*govalidator.Validate)
	if !ok {
		return
	}

	// Use JSON tag name for field names in error messages, falling back to the form name.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		if name == "-" {
			return ""
		}
		return name
	})

	ptLocale := pt_BR.New()
	uni := ut.New(ptLocale, ptLocale)
	trans, _ = uni.GetTranslator("pt_BR")
	_ = ptbr_translations.RegisterDefaultTranslations(v, trans)

	_ = v.RegisterValidation("notblank", validators.NotBlank)
	_ = v.RegisterTranslation("notblank", trans,
		func(t ut.Translator) error {
			return t.Add("notblank", "{0} não pode ficar em branco", true)
		},
		func(t ut.Translator, fe govalidator.FieldError) string {
			msg, _ := t.T("notblank", fe.Field())
			return msg
		},
	)

	_ = v.RegisterValidation("difficulty", validDifficulty)
	_ = v.RegisterTranslation("difficulty", trans,
		func(t ut.Translator) error {
			return t.Add("difficulty", "{0} deve ser Fácil, Médio ou Difícil", true)
		},
		func(t ut.Translator, fe govalidator.FieldError) string {
			msg, _ := t.T("difficulty", fe.Field())
			return msg
		},
	)
}

// validDifficulty accepts any spelling ParseDifficulty understands.
func validDifficulty(fl govalidator.FieldLevel) bool {
	_, ok := model.ParseDifficulty(schema.Normalize(fl.Field().String()))
	return ok
}

// TranslateErrors takes a binding/validation error and returns a map of
// field name to human-readable error message. If the error is not a
// validation error, it returns a single-key map with "detail".
func TranslateErrors(err error) map[string]string {
	fields := make(map[string]string)

	var ve govalidator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			if trans == nil {
				fields[fe.Field()] = fe.Error()
				continue
			}
			fields[fe.Field()] = fe.Translate(trans)
		}
		return fields
	}

	// Not a validation error (e.g., JSON syntax error).
	fields["detail"] = err.Error()
	return fields
}

// Bind binds and validates the JSON request body into dst.
// Returns nil on success or a translated field error map on failure.
func Bind(c *gin.Context, dst interface{}) map[string]string {
	if err := c.ShouldBindJSON(dst); err != nil {
		return TranslateErrors(err)
	}
	return nil
}

// BindForm binds and validates an urlencoded or multipart form into dst.
func BindForm(c *gin.Context, dst interface{}) map[string]string {
	if err := c.ShouldBindWith(dst, binding.Form); err != nil {
		return TranslateErrors(err)
	}
	return nil
}

// BindQuery binds and validates the query string into dst.
func BindQuery(c *gin.Context, dst interface{}) map[string]string {
	if err := c.ShouldBindQuery(dst); err != nil {
		return TranslateErrors(err)
	}
	return nil
}
