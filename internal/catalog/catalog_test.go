package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormats_OrderedAndCopied(t *testing.T) {
	docs := Formats(GroupDocuments)
	require.Equal(t, []string{"DOCX", "PDF", "TXT"}, docs)

	docs[0] = "XXX"
	assert.Equal(t, []string{"DOCX", "PDF", "TXT"}, Formats(GroupDocuments), "caller must not mutate the catalog")

	assert.Nil(t, Formats("Неизвестная группа"))
}

func TestNormalize_CaseInsensitiveExactOnly(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"docx", "DOCX", true},
		{"DOCX", "DOCX", true},
		{"  pdf ", "PDF", true},
		{".txt", "TXT", true},
		{"doc", "", false},
		{"docxx", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := Normalize(tt.in)
		assert.Equal(t, tt.ok, ok, "input %q", tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
}

func TestIsConvertiblePair(t *testing.T) {
	assert.True(t, IsConvertiblePair("DOCX", "PDF"))
	assert.True(t, IsConvertiblePair("mp4", "mp3"))

	// Самоконвертация запрещена.
	assert.False(t, IsConvertiblePair("DOCX", "docx"))
	// Разные группы не смешиваются.
	assert.False(t, IsConvertiblePair("DOCX", "MP3"))
	assert.False(t, IsConvertiblePair("DOCX", "FLAC"))
	assert.False(t, IsConvertiblePair("", "PDF"))
}

func TestOutputOptions_ExcludesInput(t *testing.T) {
	assert.Equal(t, []string{"PDF", "TXT"}, OutputOptions("DOCX"))
	assert.Equal(t, []string{"DOCX", "TXT"}, OutputOptions("pdf"))
	assert.Nil(t, OutputOptions("bogus"))

	// Все предлагаемые пары легальны.
	for _, in := range Formats(GroupDocuments) {
		for _, out := range OutputOptions(in) {
			assert.True(t, IsConvertiblePair(in, out), "%s -> %s", in, out)
		}
	}
}

func TestGroupOf(t *testing.T) {
	assert.Equal(t, GroupDocuments, GroupOf("txt"))
	assert.Equal(t, GroupMedia, GroupOf("WAV"))
	assert.Equal(t, "", GroupOf("flac"))
}
