package calendar

import (
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/pkg/errors"

	"learnhub/database/models"
	"learnhub/helper"
)

// FieldError is used to indicate an error with a specific form field.
type FieldError struct {
	Field string
	Error string
}

// ValidationError rejects a whole form; nothing is stored.
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

var (
	validate   *validator.Validate
	translator ut.Translator

	notBlankTag = "notblank"
)

func init() {
	validate = validator.New()

	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Use form tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation(notBlankTag, func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	for _, tag := range []string{"required", notBlankTag} {
		_ = validate.RegisterTranslation(tag, translator,
			func(t ut.Translator) error { return t.Add(tag, "Please fill out all fields", true) },
			func(t ut.Translator, fe validator.FieldError) string {
				s, _ := t.T(fe.Tag())
				return s
			},
		)
	}
}

// AppointmentForm is the add-appointment form. Time is 24h, as sent by a time input.
type AppointmentForm struct {
	Date     string `form:"date" validate:"required,datetime=2006-01-02"`
	Time     string `form:"time" validate:"required,datetime=15:04"`
	Subject  string `form:"subject" validate:"required,notblank"`
	Tutor    string `form:"tutor" validate:"required,notblank"`
	Location string `form:"location"`
}

// Session validates the form and converts it into a calendar session with a 12h time.
func (f AppointmentForm) Session() (models.Session, error) {
	if err := validate.Struct(f); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return models.Session{}, errors.Wrap(err, "validating appointment")
		}
		fields := make([]FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, FieldError{Field: fe.Field(), Error: fe.Translate(translator)})
		}
		return models.Session{}, &ValidationError{Err: errors.New("Please fill out all fields"), Fields: fields}
	}

	clock, err := helper.To12Hour(f.Time)
	if err != nil {
		return models.Session{}, errors.Wrap(err, "converting time")
	}
	return models.Session{
		Date:     f.Date,
		Time:     clock,
		Subject:  strings.TrimSpace(f.Subject),
		Tutor:    strings.TrimSpace(f.Tutor),
		Location: strings.TrimSpace(f.Location),
	}, nil
}
