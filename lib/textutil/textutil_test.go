package textutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeSpace(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"  1 234,56 ", "1 234,56"},
		{"ул.\n\tЛенина,   1", "ул. Ленина, 1"},
		{"", ""},
		{"-", "-"},
	}

	for _, test := range testCases {
		require.Equal(t, test.expected, NormalizeSpace(test.input))
	}
}

func TestMatchName(t *testing.T) {
	require.True(t, MatchName("Холодное  водоснабжение", []string{"холодноеводоснабжение"}))
	require.False(t, MatchName("Электроэнергия", []string{"газ"}))
}
