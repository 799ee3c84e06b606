package entity

import (
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// submission - нормализованный черновик с правилами обязательных полей
type submission struct {
	ProductName string   `json:"product_name" validate:"required"`
	Category    Category `json:"category" validate:"required,review_category"`
	Rating      int      `json:"rating" validate:"min=1,max=5"`
	Content     string   `json:"content" validate:"required"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("review_category", func(fl validator.FieldLevel) bool {
		return Category(fl.Field().String()).Valid()
	}); err != nil {
		panic(err)
	}
	return v
}

// Normalize обрезает пробелы и подставляет автора по умолчанию
func (d ReviewDraft) Normalize() ReviewDraft {
	d.Author = strings.TrimSpace(d.Author)
	if d.Author == "" {
		d.Author = AnonymousAuthor
	}
	d.ProductName = strings.TrimSpace(d.ProductName)
	d.Category = Category(strings.TrimSpace(string(d.Category)))
	d.Content = strings.TrimSpace(d.Content)
	return d
}

// Validate проверяет обязательные поля нормализованного черновика.
// Возвращает *ValidationError со всеми невалидными полями.
func (d ReviewDraft) Validate() error {
	n := d.Normalize()
	err := validate.Struct(submission{
		ProductName: n.ProductName,
		Category:    n.Category,
		Rating:      n.Rating,
		Content:     n.Content,
	})
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	out := NewValidationError()
	for _, fe := range verrs {
		out.Add(fe.Field(), fieldMessage(fe))
	}
	return out.OrNil()
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min", "max":
		return "must be between 1 and 5"
	case "review_category":
		return "must be one of the known categories"
	default:
		return "is invalid"
	}
}

// ValidateVoterID проверяет идентификатор голосующего; он используется как ключ поля в MongoDB
func ValidateVoterID(id string) error {
	err := validate.Var(id, "required,max=64,printascii,excludesall=.$")
	if err == nil && strings.IndexFunc(id, unicode.IsSpace) >= 0 {
		err = errInvalidVoterID
	}
	if err != nil {
		ve := NewValidationError()
		ve.Add("voter_id", "must be 1-64 printable characters without '.', '$' or spaces")
		return ve
	}
	return nil
}

// ValidateRequest проверяет теги validate у DTO запроса
func ValidateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	out := NewValidationError()
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			out.Add(fe.Field(), "is required")
		case "max":
			out.Add(fe.Field(), "must be at most "+fe.Param())
		case "min":
			out.Add(fe.Field(), "must be at least "+fe.Param())
		default:
			out.Add(fe.Field(), "is invalid")
		}
	}
	return out.OrNil()
}
