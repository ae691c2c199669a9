package inventory_health

import (
	"errors"
	"testing"
)

type columnLabel string

func (c columnLabel) String() string { return string(c) }

func TestLocateHeader(t *testing.T) {
	tests := []struct {
		name  string
		table RawTable
		want  int
	}{
		{
			name:  "sub header after title rows",
			table: ledgerTable(),
			want:  2,
		},
		{
			name:  "keyword as substring",
			table: RawTable{{"Company"}, {"Closing Value (INR)"}},
			want:  1,
		},
		{
			name:  "first matching row wins",
			table: RawTable{{"Rate card"}, {nil, "Quantity"}},
			want:  0,
		},
		{
			name:  "numeric cells are rendered before matching",
			table: RawTable{{1.5, 2.0}, {nil, "Value"}},
			want:  1,
		},
		{
			name:  "stringer cells are matched by their text",
			table: RawTable{{int64(42), true}, {nil, columnLabel("Closing Quantity")}},
			want:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LocateHeader(tt.table)
			if err != nil {
				t.Fatalf("LocateHeader() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("LocateHeader() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestLocateHeaderNoKeyword(t *testing.T) {
	tables := map[string]RawTable{
		"empty":           nil,
		"lower case":      {{"quantity", "rate", "value"}},
		"no header cells": {{"Particulars", "Opening", "Closing"}, {"Item A", 1.0, 2.0}},
	}
	for name, table := range tables {
		t.Run(name, func(t *testing.T) {
			_, err := LocateHeader(table)
			if !errors.Is(err, ErrMalformedInput) {
				t.Fatalf("expected ErrMalformedInput, got %v", err)
			}
		})
	}
}
