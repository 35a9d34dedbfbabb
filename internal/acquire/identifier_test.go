// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package acquire

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pdiddy/scholar-fetch/pkg/types"
)

func TestExtractArxivID(t *testing.T) {
	tests := []struct {
		name  string
		paper *types.Paper
		want  string
	}{
		{
			name:  "journal volume with abs prefix",
			paper: &types.Paper{Journal: &types.Journal{Name: "ArXiv", Volume: "abs/2101.12345"}},
			want:  "2101.12345",
		},
		{
			name:  "journal volume with arXiv prefix and version",
			paper: &types.Paper{Journal: &types.Journal{Name: "arXiv", Volume: "arXiv:2101.12345v2"}},
			want:  "2101.12345v2",
		},
		{
			name:  "journal name other than arxiv is ignored",
			paper: &types.Paper{Journal: &types.Journal{Name: "Nature", Volume: "521"}},
			want:  "",
		},
		{
			name: "journal wins over url",
			paper: &types.Paper{
				Journal: &types.Journal{Name: "ArXiv", Volume: "abs/2101.11111"},
				URL:     "https://arxiv.org/abs/2202.22222",
			},
			want: "2101.11111",
		},
		{
			name:  "modern abs url",
			paper: &types.Paper{URL: "https://arxiv.org/abs/1706.03762"},
			want:  "1706.03762",
		},
		{
			name:  "modern pdf url with version",
			paper: &types.Paper{URL: "https://arxiv.org/pdf/1706.03762v5"},
			want:  "1706.03762v5",
		},
		{
			name:  "legacy url",
			paper: &types.Paper{URL: "http://arxiv.org/abs/hep-th/9901001"},
			want:  "hep-th/9901001",
		},
		{
			name:  "legacy url with subject class",
			paper: &types.Paper{URL: "https://arxiv.org/abs/math.AG/0309136v1"},
			want:  "math.AG/0309136v1",
		},
		{
			name: "url wins over external id",
			paper: &types.Paper{
				URL:         "https://arxiv.org/abs/2202.22222",
				ExternalIDs: map[string]any{"ArXiv": "2101.00001"},
			},
			want: "2202.22222",
		},
		{
			name: "external id",
			paper: &types.Paper{
				URL:         "https://www.semanticscholar.org/paper/abc",
				ExternalIDs: map[string]any{"ArXiv": "2101.00001", "DOI": "10.1/x"},
			},
			want: "2101.00001",
		},
		{
			name: "alternate version",
			paper: &types.Paper{
				URL: "https://www.semanticscholar.org/paper/abc",
				AlternateVersions: []types.AlternateVersion{
					{URL: "https://example.org/mirror"},
					{URL: "https://arxiv.org/abs/1901.00002"},
				},
			},
			want: "1901.00002",
		},
		{
			name:  "no source",
			paper: &types.Paper{URL: "https://www.semanticscholar.org/paper/abc"},
			want:  "",
		},
		{
			name:  "nil paper",
			paper: nil,
			want:  "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractArxivID(tt.paper))
		})
	}
}
