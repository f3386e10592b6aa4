package domain

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	TitleMaxLen    = 200
	AbstractMinLen = 20
	AbstractMaxLen = 5000
)

var doiPattern = regexp.MustCompile(`\b(10[.][0-9]{4,}(?:[.][0-9]+)*[^\s"&'<>]+)\b`)

// Basics holds the fields of the "Basics" panel.
type Basics struct {
	Title    string   `json:"title" yaml:"title"`
	Abstract string   `json:"abstract" yaml:"abstract"`
	DOI      string   `json:"doi,omitempty" yaml:"doi"`
	Tags     []string `json:"tags,omitempty" yaml:"tags"`
}

// FieldErrors maps a field description to its messages.
type FieldErrors map[string][]string

// BasicsValidation is the outcome of validating Basics.
type BasicsValidation struct {
	Errors FieldErrors
}

func (v BasicsValidation) IsValid() bool { return len(v.Errors) == 0 }

// Messages returns the messages for one field, in rule order.
func (v BasicsValidation) Messages(field string) []string { return v.Errors[field] }

// Error flattens the messages, fields in display order.
func (v BasicsValidation) Error() string {
	var parts []string
	for _, f := range []string{"Title", "Abstract", "DOI"} {
		parts = append(parts, v.Errors[f]...)
	}
	return strings.Join(parts, "; ")
}

// ValidateBasics checks presence and length of title and abstract, and the DOI format.
func ValidateBasics(b Basics) BasicsValidation {
	errs := FieldErrors{}
	add := func(field, msg string) { errs[field] = append(errs[field], msg) }

	if msg, ok := presence("Title", b.Title); !ok {
		add("Title", msg)
	}
	if msg, ok := length("Title", b.Title, 0, TitleMaxLen); !ok {
		add("Title", msg)
	}

	if msg, ok := presence("Abstract", b.Abstract); !ok {
		add("Abstract", msg)
	}
	if msg, ok := length("Abstract", b.Abstract, AbstractMinLen, AbstractMaxLen); !ok {
		add("Abstract", msg)
	}

	if doi := strings.TrimSpace(b.DOI); doi != "" && !doiPattern.MatchString(doi) {
		add("DOI", "Please use a valid DOI")
	}

	return BasicsValidation{Errors: errs}
}

func presence(desc, s string) (string, bool) {
	if strings.TrimSpace(s) == "" {
		return desc + " can't be blank", false
	}
	return "", true
}

func length(desc, s string, min, max int) (string, bool) {
	n := utf8.RuneCountInString(s)
	if max > 0 && n > max {
		return fmt.Sprintf("%s is too long (maximum is %d characters)", desc, max), false
	}
	if min > 0 && n < min {
		return fmt.Sprintf("%s is too short (minimum is %d characters)", desc, min), false
	}
	return "", true
}
