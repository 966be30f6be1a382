package dto

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/baechuer/lease-service/internal/domain"
)

// bcrypt ignores everything past 72 bytes.
const maxPasswordBytes = 72

var (
	initOnce sync.Once
	validate *validator.Validate
	trans    ut.Translator
)

func validatorInstance() (*validator.Validate, ut.Translator) {
	initOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())

		// Report json names so error meta matches what the client sent.
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		_ = v.RegisterValidation("bcrypt_len", func(fl validator.FieldLevel) bool {
			return len(fl.Field().String()) <= maxPasswordBytes
		})

		locale := en.New()
		t, _ := ut.New(locale, locale).GetTranslator("en")
		_ = en_translations.RegisterDefaultTranslations(v, t)
		_ = v.RegisterTranslation("bcrypt_len", t,
			func(t ut.Translator) error {
				return t.Add("bcrypt_len", "{0} must be at most 72 bytes", true)
			},
			func(t ut.Translator, fe validator.FieldError) string {
				msg, _ := t.T("bcrypt_len", fe.Field())
				return msg
			},
		)

		validate, trans = v, t
	})
	return validate, trans
}

// validateStruct runs tag validation and converts the first failure into a
// domain validation error.
func validateStruct(s any) error {
	v, t := validatorInstance()

	err := v.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return domain.ErrInvalidField("body", err.Error())
	}

	fe := verrs[0]
	switch {
	case fe.Tag() == "required":
		return domain.ErrMissingField(fe.Field())
	case fe.Field() == "role" && fe.Tag() == "oneof":
		role, _ := fe.Value().(string)
		return domain.ErrInvalidRole(role)
	default:
		return domain.ErrInvalidField(fe.Field(), fe.Translate(t))
	}
}
