package keywords

import (
	"reflect"
	"testing"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "tuition question keeps discriminative terms",
			in:   "What are the tuition fees?",
			want: []string{"tuition", "fees"},
		},
		{
			name: "stop words and short tokens dropped",
			in:   "Can you please tell me about the MS program at the university?",
			want: []string{"program", "ms"},
		},
		{
			name: "longer tokens rank first",
			in:   "fees scholarship merit",
			want: []string{"scholarship", "merit", "fees"},
		},
		{
			name: "duplicates removed keeping first-seen order on ties",
			in:   "hostel fees hostel mess fees",
			want: []string{"hostel", "fees", "mess"},
		},
		{
			name: "punctuation split to whitespace",
			in:   "B.Sc(Hons) admission-2024, deadline?",
			want: []string{"admission", "deadline", "hons", "2024", "sc"},
		},
		{
			name: "empty input",
			in:   "",
			want: nil,
		},
		{
			name: "only stop words",
			in:   "please tell me about the university",
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Extract(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestExtract_CapsAtMax(t *testing.T) {
	in := "biology chemistry physics mathematics economics psychology sociology philosophy linguistics astronomy"
	got := Extract(in)
	if len(got) != MaxKeywords {
		t.Fatalf("expected %d keywords, got %d: %v", MaxKeywords, len(got), got)
	}
}

func TestExtract_Deterministic(t *testing.T) {
	in := "merit list engineering admission fall 2024 lahore campus hostel fee structure"
	first := Extract(in)
	for i := 0; i < 20; i++ {
		if got := Extract(in); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d produced %v, first run produced %v", i, got, first)
		}
	}
}
