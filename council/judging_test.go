package council

import (
	"reflect"
	"testing"
)

func TestNormalizeNotes(t *testing.T) {
	tests := []struct {
		name  string
		notes interface{}
		want  interface{}
	}{
		{"string passes", "looks solid", "looks solid"},
		{"array passes", []interface{}{"point one", "point two"}, []interface{}{"point one", "point two"}},
		{"object passes", map[string]interface{}{"strength": "depth"}, map[string]interface{}{"strength": "depth"}},
		{"number becomes empty", float64(7), ""},
		{"bool becomes empty", true, ""},
		{"nil becomes empty", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizeNotes(tt.notes); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("normalizeNotes(%v) = %v, want %v", tt.notes, got, tt.want)
			}
		})
	}
}
