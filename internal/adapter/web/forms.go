package web

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/eslsoft/vocabbook/internal/entity"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// vocabForm is the typed input for create/edit, shared by the HTML form and
// the JSON API.
type vocabForm struct {
	Word    string `form:"word" json:"word" validate:"required,max=128"`
	Context string `form:"context" json:"context" validate:"max=2048"`
	Source  string `form:"source" json:"source" validate:"max=512"`
}

// Validate returns a field -> message map, or nil when the form is valid.
func (f *vocabForm) Validate() map[string]string {
	err := validate.Struct(f)
	if err == nil {
		return nil
	}
	fieldErrs := make(map[string]string)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		fieldErrs["form"] = err.Error()
		return fieldErrs
	}
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			fieldErrs[field] = "is required"
		case "max":
			fieldErrs[field] = "is too long (max " + fe.Param() + " characters)"
		default:
			fieldErrs[field] = "is invalid"
		}
	}
	return fieldErrs
}

func (f *vocabForm) vocab(id int64) *entity.Vocab {
	return &entity.Vocab{
		ID:      id,
		Word:    f.Word,
		Context: strings.TrimSpace(f.Context),
		Source:  strings.TrimSpace(f.Source),
	}
}
