// Package validation checks retrokit configuration structs.
//
// Struct tag validation uses go-playground/validator; field names in
// messages follow the yaml tag so they match the config file:
//
//	type Config struct {
//	    BaseURL string `yaml:"base_url" validate:"omitempty,url"`
//	}
//	err := validation.ValidateStruct(cfg)
//
// Checks that tags cannot express are collected programmatically:
//
//	v := validation.New()
//	v.Check(timeout >= 0, "timeout", "must not be negative")
//	err := v.Validate()
//
// Both return *errors.Error with code INVALID_CONFIG and a "fields" detail.
package validation
