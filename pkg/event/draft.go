package event

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/eventnexus/eventnexus/internal/utils"
	"github.com/eventnexus/eventnexus/pkg/taxonomy"
	"github.com/go-playground/validator/v10"
)

const (
	dateLayout     = "2006-01-02"
	timeLayout     = "15:04"
	dateTimeLayout = dateLayout + "T" + timeLayout
)

// Draft is an event submission as typed by a user: dates and times are
// still text.
type Draft struct {
	Title       string `json:"title" validate:"required,max=100"`
	Category    string `json:"category" validate:"required,category"`
	Date        string `json:"date" validate:"required,datetime=2006-01-02"`
	Time        string `json:"time" validate:"required,datetime=15:04"`
	Location    string `json:"location" validate:"required,max=100"`
	Description string `json:"description" validate:"required,min=10,max=500"`
}

// FieldErrors maps a field name to a message fit for display next to it.
type FieldErrors map[string]string

func (f FieldErrors) Error() string {
	parts := make([]string, 0, len(f))
	for field, msg := range f {
		parts = append(parts, field+": "+msg)
	}
	return "invalid event: " + strings.Join(parts, "; ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	})
	if err := v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return taxonomy.IsSelectable(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

var messages = map[string]map[string]string{
	"title": {
		"required": "Event title is required",
		"max":      "Title must be less than 100 characters",
	},
	"category": {
		"required": "Category is required",
		"category": "Please choose one of the listed categories",
	},
	"date": {
		"required": "Date is required",
		"datetime": "Date must be in YYYY-MM-DD format",
		"past":     "Event date cannot be in the past",
	},
	"time": {
		"required": "Time is required",
		"datetime": "Time must be in HH:MM format",
	},
	"location": {
		"required": "Location is required",
		"max":      "Location must be less than 100 characters",
	},
	"description": {
		"required": "Description is required",
		"min":      "Description must be at least 10 characters",
		"max":      "Description must be less than 500 characters",
	},
}

// Trimmed returns the draft with surrounding whitespace removed from every field.
func (d Draft) Trimmed() Draft {
	return Draft{
		Title:       strings.TrimSpace(d.Title),
		Category:    strings.ToLower(strings.TrimSpace(d.Category)),
		Date:        strings.TrimSpace(d.Date),
		Time:        strings.TrimSpace(d.Time),
		Location:    strings.TrimSpace(d.Location),
		Description: strings.TrimSpace(d.Description),
	}
}

// Validate checks the trimmed draft. The date must not lie before the
// calendar day of now, in now's location. A nil result means valid.
func (d Draft) Validate(now time.Time) FieldErrors {
	d = d.Trimmed()
	fieldErrors := FieldErrors{}

	err := validate.Struct(d)
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, fe := range validationErrors {
			fieldErrors[fe.Field()] = message(fe.Field(), fe.Tag())
		}
	} else if err != nil {
		fieldErrors["form"] = err.Error()
	}

	if _, failed := fieldErrors["date"]; !failed {
		day, err := time.ParseInLocation(dateLayout, d.Date, now.Location())
		if err == nil && day.Before(utils.StartOfDay(now)) {
			fieldErrors["date"] = message("date", "past")
		}
	}

	if len(fieldErrors) == 0 {
		return nil
	}
	return fieldErrors
}

func message(field, tag string) string {
	if msg, ok := messages[field][tag]; ok {
		return msg
	}
	return fmt.Sprintf("%s is invalid", field)
}

// Input combines date and time in loc and picks the category glyph. The
// draft must have passed Validate.
func (d Draft) Input(loc *time.Location) (CreateInput, error) {
	d = d.Trimmed()
	start, err := time.ParseInLocation(dateTimeLayout, d.Date+"T"+d.Time, loc)
	if err != nil {
		return CreateInput{}, fmt.Errorf("failed to parse event start: %w", err)
	}
	return CreateInput{
		Title:       d.Title,
		Category:    d.Category,
		Date:        start,
		Location:    d.Location,
		Description: d.Description,
		Image:       taxonomy.IconFor(d.Category),
	}, nil
}
