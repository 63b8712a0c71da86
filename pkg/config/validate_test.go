package config

import (
	"testing"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		cfg      *Shared
		extra    []Validator
		wantErrs int
	}{
		{
			name:     "local-only config",
			cfg:      &Shared{},
			wantErrs: 0,
		},
		{
			name:     "valid network config",
			cfg:      &Shared{Host: "localhost", Port: 8080},
			wantErrs: 0,
		},
		{
			name:     "key without ssl",
			cfg:      &Shared{Host: "localhost", Port: 8080, Key: "secret"},
			wantErrs: 1,
		},
		{
			name:     "port out of range",
			cfg:      &Shared{Host: "localhost", Port: 65536},
			wantErrs: 1,
		},
		{
			name:     "errors accumulate across configs",
			cfg:      &Shared{Host: "localhost", Port: 0, Key: "secret"},
			extra:    []Validator{&Share{VTNum: -1}},
			wantErrs: 3,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			errs := Validate(tc.cfg, tc.extra...)
			if len(errs) != tc.wantErrs {
				t.Errorf("Validate() returned %d errors (%v), want %d", len(errs), errs, tc.wantErrs)
			}
		})
	}
}

func TestShare_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		cfg      *Share
		wantErrs int
	}{
		{"defaults", &Share{}, 0},
		{"fixed vt", &Share{VTNum: 3}, 0},
		{"minimum", &Share{MinVT: 10}, 0},
		{"negative vt", &Share{VTNum: -1}, 1},
		{"negative minimum", &Share{MinVT: -1}, 1},
		{"vt and minimum together", &Share{VTNum: 3, MinVT: 10}, 1},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if errs := tc.cfg.Validate(); len(errs) != tc.wantErrs {
				t.Errorf("Validate() returned %d errors (%v), want %d", len(errs), errs, tc.wantErrs)
			}
		})
	}
}

func TestJoin_Validate(t *testing.T) {
	t.Parallel()

	if errs := (&Join{RequestVT: 2}).Validate(); len(errs) != 0 {
		t.Errorf("Validate() returned %v, want no errors", errs)
	}
	if errs := (&Join{RequestVT: -2}).Validate(); len(errs) != 1 {
		t.Errorf("Validate() returned %d errors, want 1", len(errs))
	}
}
