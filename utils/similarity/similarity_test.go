package similarity

import (
	"testing"
)

func TestTokenSetRatio(t *testing.T) {
	tests := []struct {
		name     string
		s1       string
		s2       string
		minScore int
		maxScore int
	}{
		{
			name:     "Identical strings",
			s1:       "The.Matrix.1999.1080p.BluRay.x264",
			s2:       "The.Matrix.1999.1080p.BluRay.x264",
			minScore: 100,
			maxScore: 100,
		},
		{
			name:     "Case and separator insensitive",
			s1:       "The.Matrix.1999",
			s2:       "the matrix_1999",
			minScore: 100,
			maxScore: 100,
		},
		{
			name:     "Token order does not matter",
			s1:       "Matrix The 1999",
			s2:       "The Matrix 1999",
			minScore: 100,
			maxScore: 100,
		},
		{
			name:     "Subset scores as full match",
			s1:       "The Matrix",
			s2:       "The.Matrix.1999.1080p.BluRay.x264",
			minScore: 100,
			maxScore: 100,
		},
		{
			name:     "Ampersand vs and",
			s1:       "Me, MYSELF & I",
			s2:       "Me Myself and I",
			minScore: 100,
			maxScore: 100,
		},
		{
			name:     "Partially shared release",
			s1:       "Show.S01E05.1080p.WEB-DL-GRP",
			s2:       "Show.S01E05.720p.HDTV-OTHER",
			minScore: 40,
			maxScore: 99,
		},
		{
			name:     "Completely different",
			s1:       "abc",
			s2:       "xyz",
			minScore: 0,
			maxScore: 0,
		},
		{
			name:     "Empty input",
			s1:       "",
			s2:       "The Matrix",
			minScore: 0,
			maxScore: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := TokenSetRatio(tt.s1, tt.s2)
			if score < tt.minScore || score > tt.maxScore {
				t.Errorf("TokenSetRatio(%q, %q) = %d, want within [%d, %d]",
					tt.s1, tt.s2, score, tt.minScore, tt.maxScore)
			}
		})
	}
}

func TestTokenSetRatioSymmetric(t *testing.T) {
	a := "Movie.Title.2023.1080p.WEB-DL-RARBG"
	b := "Movie Title 2023 720p WEBRip"
	if TokenSetRatio(a, b) != TokenSetRatio(b, a) {
		t.Fatalf("expected symmetric ratio, got %d vs %d", TokenSetRatio(a, b), TokenSetRatio(b, a))
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"The Matrix", "the matrix"},
		{"THE.MATRIX", "the matrix"},
		{"The_Matrix-1999", "the matrix 1999"},
		{"[SubsPlease] Show (1080p)", "subsplease show 1080p"},
		{"  Multiple   Spaces  ", "multiple spaces"},
		{"Me & You", "me and you"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if result := normalize(tt.input); result != tt.expected {
				t.Errorf("normalize(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}
