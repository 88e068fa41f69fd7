package dateutil

import (
	"errors"
	"testing"
	"time"
)

func TestParseDateFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		format  string
		want    string
		wantErr error
	}{
		{name: "year", format: "YYYY", want: "2006"},
		{name: "short year", format: "YY", want: "06"},
		{name: "full month", format: "MMMM", want: "January"},
		{name: "short month", format: "MMM", want: "Jan"},
		{name: "padded month", format: "MM", want: "01"},
		{name: "month", format: "M", want: "1"},
		{name: "padded day", format: "DD", want: "02"},
		{name: "day", format: "D", want: "2"},
		{name: "time tokens", format: "HH:mm:ss", want: "15:04:05"},
		{name: "month vs minute", format: "MM/mm", want: "01/04"},
		{name: "iso", format: "YYYY-MM-DD", want: "2006-01-02"},
		{name: "bracket literal", format: "[Updated] YYYY", want: "Updated 2006"},
		{name: "literal characters", format: "DD.MM.YYYY", want: "02.01.2006"},
		{name: "empty", format: "", wantErr: ErrInvalidDateFormat},
		{name: "unclosed bracket", format: "[oops YYYY", wantErr: ErrInvalidDateFormat},
		{name: "too long", format: "YYYY-MM-DD YYYY-MM-DD YYYY-MM-DD YYYY-MM-DD YYYY-MM-DD", wantErr: ErrInvalidDateFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseDateFormat(tt.format)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("ParseDateFormat(%q) error = %v, want %v", tt.format, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDateFormat(%q) unexpected error: %v", tt.format, err)
			}
			if got != tt.want {
				t.Errorf("ParseDateFormat(%q) = %q, want %q", tt.format, got, tt.want)
			}
		})
	}
}

func TestFormat(t *testing.T) {
	t.Parallel()

	ts := time.Date(2024, time.March, 7, 9, 5, 0, 0, time.UTC)

	tests := []struct {
		name    string
		value   string
		time    time.Time
		want    string
		wantErr error
	}{
		{name: "default", value: "", time: ts, want: "2024-03-07"},
		{name: "preset", value: "long", time: ts, want: "March 7, 2024"},
		{name: "preset case-insensitive", value: "EUROPEAN", time: ts, want: "07/03/2024"},
		{name: "datetime preset", value: "datetime", time: ts, want: "2024-03-07 09:05"},
		{name: "custom", value: "D MMM YY", time: ts, want: "7 Mar 24"},
		{name: "zero time", value: "iso", time: time.Time{}, want: ""},
		{name: "invalid", value: "[YYYY", time: ts, wantErr: ErrInvalidDateFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Format(tt.value, tt.time)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Format(%q) error = %v, want %v", tt.value, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Format(%q) unexpected error: %v", tt.value, err)
			}
			if got != tt.want {
				t.Errorf("Format(%q) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	for _, ok := range []string{"", "iso", "us", "YYYY/MM"} {
		if err := Validate(ok); err != nil {
			t.Errorf("Validate(%q) = %v, want nil", ok, err)
		}
	}
	if err := Validate("[broken"); !errors.Is(err, ErrInvalidDateFormat) {
		t.Errorf("Validate([broken) = %v, want ErrInvalidDateFormat", err)
	}
}
