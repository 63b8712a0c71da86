package config

import "fmt"

// Validate checks a shared config together with optional share/join configs.
// It returns all problems found rather than stopping at the first.
func Validate(c *Shared, extra ...Validator) []error {
	var errors []error

	if !c.SSL && c.Key != "" {
		errors = append(errors, fmt.Errorf("You must use '--ssl' to use '--key'"))
	}

	if c.Host != "" || c.Port != 0 {
		if c.Port < 1 || c.Port > 65535 {
			errors = append(errors, fmt.Errorf("port must be in [1, 65535]"))
		}
	}

	for _, v := range extra {
		errors = append(errors, v.Validate()...)
	}

	return errors
}

// Validator is implemented by command-specific configs.
type Validator interface {
	Validate() []error
}

// Validate checks the share config.
func (s *Share) Validate() []error {
	var errors []error

	if s.VTNum < 0 {
		errors = append(errors, fmt.Errorf("'--vt' must not be negative"))
	}
	if s.MinVT < 0 {
		errors = append(errors, fmt.Errorf("'--min' must not be negative"))
	}
	if s.VTNum != 0 && s.MinVT != 0 {
		errors = append(errors, fmt.Errorf("'--vt' and '--min' are mutually exclusive"))
	}

	return errors
}

// Validate checks the join config.
func (j *Join) Validate() []error {
	var errors []error

	if j.RequestVT < 0 {
		errors = append(errors, fmt.Errorf("'--request-vt' must not be negative"))
	}

	return errors
}
