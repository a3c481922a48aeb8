package knowledge_test

import (
	"reflect"
	"testing"

	"loom/internal/knowledge"
)

func TestExtractLinks(t *testing.T) {
	cases := []struct {
		name     string
		fragment string
		want     []string
	}{
		{"none", "<p>plain</p>", nil},
		{"single", `<p><a data-knowledge-id="kb-1">x</a></p>`, []string{"kb-1"}},
		{
			"ordered and deduped",
			`<span data-knowledge-id="b"></span><span data-knowledge-id="a"></span><span data-knowledge-id="b"></span>`,
			[]string{"b", "a"},
		},
		{"empty value ignored", `<span data-knowledge-id="">x</span>`, nil},
		{"malformed fragment", `<p data-knowledge-id="kb-2"><div>`, []string{"kb-2"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := knowledge.ExtractLinks(tc.fragment)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}
