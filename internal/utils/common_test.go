package utils

import (
	"reflect"
	"testing"
)

func TestSplitAndTrim(t *testing.T) {
	got := SplitAndTrim(" a, ,b ,, c", ",")
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SplitAndTrim: got %v, want %v", got, want)
	}
	if got := SplitAndTrim("", ","); len(got) != 0 {
		t.Errorf("SplitAndTrim empty: got %v", got)
	}
}

func TestParseLineNumbers(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    []int
		wantErr bool
	}{
		{name: "single", args: []string{"3"}, want: []int{3}},
		{name: "several args", args: []string{"3", "1"}, want: []int{3, 1}},
		{name: "comma list", args: []string{"1,4", "2"}, want: []int{1, 4, 2}},
		{name: "zero", args: []string{"0"}, wantErr: true},
		{name: "word", args: []string{"one"}, wantErr: true},
		{name: "none", args: nil, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLineNumbers(tt.args)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLineNumbers(%v) error = %v, wantErr %v", tt.args, err, tt.wantErr)
			}
			if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseLineNumbers(%v): got %v, want %v", tt.args, got, tt.want)
			}
		})
	}
}

func TestJSONPointerToPath(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"#", ""},
		{"/version", "version"},
		{"#/sort/0", "sort[0]"},
		{"/a~1b/c~0d", "a/b.c~d"},
		{"/priorities/2/x", "priorities[2].x"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := JSONPointerToPath(tt.input); got != tt.want {
				t.Errorf("JSONPointerToPath(%q): got %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
