package course

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/ternarybob/discere/internal/common"
)

func TestRefineQuery(t *testing.T) {
	h := common.DefaultHeuristics()

	tests := []struct {
		name      string
		title     string
		objective string
		want      string
	}{
		{
			name:      "strips stopwords and short tokens",
			title:     "Introduction to Kubernetes",
			objective: "Understand what Kubernetes is and where it is used.",
			want:      "kubernetes understand used",
		},
		{
			name:      "deduplicates preserving first-seen order",
			title:     "Python Python Decorators",
			objective: "Write python decorators",
			want:      "python decorators write",
		},
		{
			name:      "caps at six tokens",
			title:     "alpha bravo charlie delta echo foxtrot golf hotel",
			objective: "",
			want:      "alpha bravo charlie delta echo foxtrot",
		},
		{
			name:      "strips punctuation",
			title:     "C.I./C.D. pipelines (modern)",
			objective: "",
			want:      "pipelines modern",
		},
		{
			name:      "falls back to raw title when nothing survives",
			title:     "Go & IT",
			objective: "",
			want:      "Go & IT",
		},
		{
			name:      "falls back to raw objective when title empty",
			title:     "",
			objective: "an AI",
			want:      "an AI",
		},
		{
			name:      "empty inputs yield empty query",
			title:     "",
			objective: "  ",
			want:      "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RefineQuery(h, tt.title, tt.objective))
		})
	}
}
