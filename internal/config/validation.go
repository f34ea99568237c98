package config

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var bucketNamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]{1,220}[a-z0-9]$`)

// newValidator builds the struct validator used for configuration
func newValidator() *validator.Validate {
	v := validator.New()

	// Register custom validators
	_ = v.RegisterValidation("keyword", isValidKeyword)
	_ = v.RegisterValidation("bucketname", isValidBucketName)
	v.RegisterStructValidation(storageStructLevel, StorageConfig{})

	// Use YAML tag names in error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return v
}

// Validate checks the configuration against its struct tags and returns
// every violation joined into one error
func (c *Config) Validate() error {
	err := newValidator().Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		messages = append(messages, formatValidationError(fe))
	}
	return errors.New(strings.Join(messages, "; "))
}

// formatValidationError formats validation error messages
func formatValidationError(err validator.FieldError) string {
	field := strings.TrimPrefix(err.Namespace(), "Config.")
	tag := err.Tag()
	param := err.Param()

	switch tag {
	case "required", "required_if", "required_unless":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must have at least %s entries", field, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.Replace(param, " ", ", ", -1))
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "keyword":
		return fmt.Sprintf("%s must be a non-empty filename keyword", field)
	case "bucketname":
		return fmt.Sprintf("%s must be a valid bucket name", field)
	case "nefield":
		return fmt.Sprintf("%s must differ from %s", field, param)
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, param)
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, param)
	default:
		return fmt.Sprintf("%s failed %s validation", field, tag)
	}
}

// isValidKeyword accepts filename keywords without path separators
func isValidKeyword(fl validator.FieldLevel) bool {
	keyword := strings.TrimSpace(fl.Field().String())
	if keyword == "" {
		return false
	}
	return !strings.ContainsAny(keyword, `/\`)
}

// isValidBucketName validates object storage bucket naming rules
func isValidBucketName(fl validator.FieldLevel) bool {
	name := fl.Field().String()
	if strings.Contains(name, "..") {
		return false
	}
	return bucketNamePattern.MatchString(name)
}

// storageStructLevel requires a bucket once the mirror is enabled
func storageStructLevel(sl validator.StructLevel) {
	s := sl.Current().Interface().(StorageConfig)
	if s.Enabled && s.Bucket == "" {
		sl.ReportError(s.Bucket, "bucket", "Bucket", "required_if", "Enabled true")
	}
}
