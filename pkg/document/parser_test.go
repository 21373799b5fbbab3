package document

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildDocx(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(documentXML))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestParseTextDocx(t *testing.T) {
	docXML := `<w:document><w:body>` +
		`<w:p><w:r><w:t>Section 1: coverage starts after 30 days.</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>Section 2: claims need</w:t><w:tab/><w:t>a written notice.</w:t></w:r></w:p>` +
		`</w:body></w:document>`

	text, err := ParseText(FormatDOCX, buildDocx(t, docXML))
	require.NoError(t, err)
	assert.Contains(t, text, "Section 1: coverage starts after 30 days.")
	assert.Contains(t, text, "Section 2: claims need")
	assert.Contains(t, text, "a written notice.")
	assert.NotContains(t, text, "<w:")
}

func TestParseTextDocxWithoutDocumentXML(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/other.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte("<x/>"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	_, err = ParseText(FormatDOCX, buf.Bytes())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "document.xml")
}

func TestParseTextDocxRejectsGarbage(t *testing.T) {
	_, err := ParseText(FormatDOCX, []byte("definitely not a zip archive"))
	assert.Error(t, err)
}

func TestParseTextPDFRejectsGarbage(t *testing.T) {
	_, err := ParseText(FormatPDF, []byte("definitely not a pdf"))
	assert.Error(t, err)
}

func TestParseTextUnsupportedFormat(t *testing.T) {
	_, err := ParseText(Format("rtf"), []byte("{}"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file format")
}

func TestNormalizeWhitespace(t *testing.T) {
	in := "hello   world\t!\n\n\nnext line  "
	out := normalizeWhitespace(in)
	assert.Equal(t, "hello world !\nnext line", out)
}
