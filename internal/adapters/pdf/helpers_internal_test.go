package pdf

import (
	"testing"

	"github.com/csg33k/wages-generator/internal/domain"
)

func TestEmployeeName(t *testing.T) {
	rec := &domain.EncodedRecord{Fields: []domain.FieldSlot{
		{Name: "FirstName", Value: "JUAN            "},
		{Name: "MiddleInitial", Value: "C"},
		{Name: "PaternalLastName", Value: "PEREZ           "},
		{Name: "MaternalLastName", Value: "LOPEZ           "},
	}}
	if got := employeeName(rec); got != "PEREZ LOPEZ, JUAN C" {
		t.Errorf("got %q", got)
	}
	rec.Fields[1].Value = " "
	rec.Fields[3].Value = "                "
	if got := employeeName(rec); got != "PEREZ, JUAN" {
		t.Errorf("got %q", got)
	}
}

func TestFormatSSN(t *testing.T) {
	cases := map[string]string{"123456789": "123-45-6789", "12345": "12345"}
	for in, want := range cases {
		if got := formatSSN(in); got != want {
			t.Errorf("formatSSN(%q): want %q, got %q", in, want, got)
		}
	}
}
