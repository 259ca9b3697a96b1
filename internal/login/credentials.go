package login

import (
	"errors"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"unicode/utf16"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	fiberlog "github.com/gofiber/fiber/v2/log"
)

// Input is the raw, unvalidated content of the login form.
type Input struct {
	Email    string `form:"email" validate:"emailshape"`
	Password string `form:"password" validate:"minunits=6,hasalnum"`
}

// Registration is the raw content of the sign-up form.
type Registration struct {
	Email                string `form:"email" validate:"emailshape"`
	Password             string `form:"password" validate:"minunits=6,hasalnum"`
	PasswordConfirmation string `form:"password_confirmation" validate:"eqfield=Password"`
}

// Credentials are login values that passed validation.
type Credentials struct {
	Email    string
	Password string
}

// Rule names the validation rule a field violated.
type Rule string

const (
	RuleInvalidFormat   Rule = "invalid_format"
	RuleTooShort        Rule = "too_short"
	RuleNotAlphanumeric Rule = "not_alphanumeric"
	RuleMismatch        Rule = "mismatch"
	RuleInvalid         Rule = "invalid"
)

const (
	tagEmailShape = "emailshape"
	tagMinUnits   = "minunits"
	tagHasAlnum   = "hasalnum"
)

var (
	// The local part ends in [A-Za-z0-9_+-]; a leading dot and ".." are rejected in emailShape.
	emailShapeRegex   = regexp.MustCompile(`^[A-Za-z0-9_'+\-.]*[A-Za-z0-9_+\-]@([A-Za-z0-9][A-Za-z0-9\-]*\.)+[A-Za-z]{2,}$`)
	alphanumericRegex = regexp.MustCompile(`[a-zA-Z0-9]`)

	rulesByTag = map[string]Rule{
		tagEmailShape: RuleInvalidFormat,
		tagMinUnits:   RuleTooShort,
		tagHasAlnum:   RuleNotAlphanumeric,
		"eqfield":     RuleMismatch,
	}
)

func emailShape(email string) bool {
	if !emailShapeRegex.MatchString(email) {
		return false
	}
	local := email[:strings.LastIndex(email, "@")]
	return !strings.HasPrefix(local, ".") && !strings.Contains(local, "..")
}

// utf16Len counts UTF-16 code units, the unit browsers use for string length.
func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

// FieldError is the single surfaced message for one field.
type FieldError struct {
	Field   string
	Rule    Rule
	Message string
}

// FieldErrors are kept in field declaration order.
type FieldErrors []FieldError

func (e FieldErrors) Get(field string) (FieldError, bool) {
	for _, fe := range e {
		if fe.Field == field {
			return fe, true
		}
	}
	return FieldError{}, false
}

// Message returns the message for field, or "" when the field is valid.
func (e FieldErrors) Message(field string) string {
	fe, _ := e.Get(field)
	return fe.Message
}

func (e FieldErrors) Fields() []string {
	fields := make([]string, len(e))
	for i, fe := range e {
		fields[i] = fe.Field
	}
	return fields
}

// ValidationResult holds either validated Credentials or the field errors, never both.
type ValidationResult struct {
	credentials Credentials
	errors      FieldErrors
}

func (r ValidationResult) Valid() bool {
	return len(r.errors) == 0
}

func (r ValidationResult) Credentials() (Credentials, bool) {
	if !r.Valid() {
		return Credentials{}, false
	}
	return r.credentials, true
}

func (r ValidationResult) Errors() FieldErrors {
	return r.errors
}

// Schema evaluates the login and registration rules and renders their messages in English.
type Schema struct {
	validate *validator.Validate
	trans    ut.Translator
}

var (
	defaultSchema     *Schema
	defaultSchemaOnce sync.Once
)

// DefaultSchema returns the process-wide Schema.
func DefaultSchema() *Schema {
	defaultSchemaOnce.Do(func() {
		defaultSchema = NewSchema()
	})
	return defaultSchema
}

// Validate checks input against the default schema.
func Validate(in Input) ValidationResult {
	return DefaultSchema().Validate(in)
}

func NewSchema() *Schema {
	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator(enLocale.Locale())

	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation(tagEmailShape, func(fl validator.FieldLevel) bool {
		return emailShape(fl.Field().String())
	})
	_ = v.RegisterValidation(tagMinUnits, func(fl validator.FieldLevel) bool {
		want, err := strconv.Atoi(fl.Param())
		if err != nil {
			panic(err)
		}
		return utf16Len(fl.Field().String()) >= want
	})
	_ = v.RegisterValidation(tagHasAlnum, func(fl validator.FieldLevel) bool {
		return alphanumericRegex.MatchString(fl.Field().String())
	})

	s := &Schema{validate: v, trans: trans}
	s.registerTranslations()
	return s
}

func (s *Schema) registerTranslations() {
	translations := map[string]string{
		tagEmailShape: "Invalid email address",
		tagMinUnits:   "{0} must be at least {1} characters long",
		tagHasAlnum:   "{0} must be alphanumeric",
		"eqfield":     "Passwords do not match",
	}

	for tag, message := range translations {
		tag, message := tag, message
		_ = s.validate.RegisterTranslation(tag, s.trans,
			func(trans ut.Translator) error {
				return trans.Add(tag, message, true)
			},
			func(trans ut.Translator, fe validator.FieldError) string {
				t, err := trans.T(tag, displayName(fe.Field()), fe.Param())
				if err != nil {
					return fe.Error()
				}
				return t
			},
		)
	}
}

func (s *Schema) Validate(in Input) ValidationResult {
	errs := s.check(in)
	if len(errs) > 0 {
		return ValidationResult{errors: errs}
	}
	return ValidationResult{credentials: Credentials{Email: in.Email, Password: in.Password}}
}

// ValidateRegistration checks a sign-up form. The confirmation must equal the password.
func (s *Schema) ValidateRegistration(r Registration) FieldErrors {
	return s.check(r)
}

func (s *Schema) check(form any) FieldErrors {
	err := s.validate.Struct(form)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		// only reachable with a programmer error such as a nil form
		fiberlog.Error("login: schema check failed: ", err)
		return FieldErrors{{Field: "form", Rule: RuleInvalid, Message: err.Error()}}
	}

	out := make(FieldErrors, 0, len(validationErrors))
	for _, fe := range validationErrors {
		rule, ok := rulesByTag[fe.Tag()]
		if !ok {
			rule = RuleInvalid
		}
		out = append(out, FieldError{
			Field:   fe.Field(),
			Rule:    rule,
			Message: fe.Translate(s.trans),
		})
	}
	return out
}

func displayName(field string) string {
	if field == "" {
		return field
	}
	return strings.ToUpper(field[:1]) + strings.ReplaceAll(field[1:], "_", " ")
}
