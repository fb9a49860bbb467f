package manual_test

import (
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/csg33k/wages-generator/internal/adapters/manual"
	"github.com/csg33k/wages-generator/internal/adapters/wages"
)

func TestRows(t *testing.T) {
	grid := []manual.Cells{
		{"", " ", "", "", ""},
		{" ana torres ", "1", "2", "34", "003"},
		{},
		{"JUAN PEREZ", "9", "10.5", "77", "004"},
	}
	rows, err := manual.Rows(grid)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("want 2 rows, got %d", len(rows))
	}
	if rows[0].RowNumber != 3 || rows[0].FullName != "ana torres" {
		t.Errorf("row 0: %+v", rows[0])
	}
	if rows[1].RowNumber != 5 || rows[1].Salary != "10.5" {
		t.Errorf("row 1: %+v", rows[1])
	}
}

func TestRows_PartialRow(t *testing.T) {
	_, err := manual.Rows([]manual.Cells{{"ANA TORRES", "1", "2", "", "003"}})
	var ve *wages.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("want *ValidationError, got %v", err)
	}
	if ve.Row != 2 || ve.Column != "Numero de cuenta patronal" {
		t.Errorf("unexpected error: %+v", ve)
	}
}

func TestDecodeJSON(t *testing.T) {
	grid, err := manual.DecodeJSON(strings.NewReader(`[
		{"full_name":"ANA TORRES","ssn":"1","salary":"2","account_number":"34","quarter":"003"}
	]`))
	if err != nil {
		t.Fatal(err)
	}
	want := manual.Cells{"ANA TORRES", "1", "2", "34", "003"}
	if len(grid) != 1 || grid[0] != want {
		t.Errorf("want [%v], got %v", want, grid)
	}
	if _, err := manual.DecodeJSON(strings.NewReader(`{`)); err == nil {
		t.Error("malformed JSON accepted")
	}
}

func TestFromForm(t *testing.T) {
	v := url.Values{
		"full_name":      {"ANA TORRES", "JUAN PEREZ"},
		"ssn":            {"1", "2"},
		"salary":         {"3"},
		"account_number": {"44", "55"},
		"quarter":        {"001", "002"},
	}
	grid := manual.FromForm(v)
	if len(grid) != 2 {
		t.Fatalf("want 2 rows, got %d", len(grid))
	}
	if grid[1] != (manual.Cells{"JUAN PEREZ", "2", "", "55", "002"}) {
		t.Errorf("row 1: %v", grid[1])
	}
	if len(manual.FromForm(url.Values{})) != 0 {
		t.Error("empty form produced rows")
	}
}
