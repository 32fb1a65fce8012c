package util

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fadilmartias/resume-ingestor/internal/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubReaders(e *DocumentExtractor, called *[]string) {
	e.readers[".pdf"] = func(string) (string, error) {
		*called = append(*called, "pdf")
		return "page one", nil
	}
	e.readers[".docx"] = func(string) (string, error) {
		*called = append(*called, "docx")
		return "paragraph one", nil
	}
}

func TestExtractTextDispatchesByExtension(t *testing.T) {
	tests := []struct {
		filename string
		want     string
		reader   string
	}{
		{"resume.pdf", "page one", "pdf"},
		{"Resume.PDF", "page one", "pdf"},
		{"resume.docx", "paragraph one", "docx"},
	}
	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			var called []string
			e := NewDocumentExtractor(nil, false)
			stubReaders(e, &called)

			text, err := e.ExtractText("/tmp/staged", ExtOf(tt.filename))

			require.NoError(t, err)
			assert.Equal(t, tt.want, text)
			assert.Equal(t, []string{tt.reader}, called)
		})
	}
}

func TestExtractTextUnsupportedFormat(t *testing.T) {
	var called []string
	e := NewDocumentExtractor(nil, false)
	stubReaders(e, &called)

	text, err := e.ExtractText("/tmp/staged", ExtOf("resume.txt"))

	assert.Empty(t, text)
	assert.True(t, errors.Is(err, apperror.ErrUnsupportedFormat))
	assert.Empty(t, called, "no reader may run for an unsupported format")
	assert.False(t, e.Supports(".txt"))
	assert.True(t, e.Supports("pdf"))
}

func TestExtractTextReaderFailureDegradesToEmpty(t *testing.T) {
	e := NewDocumentExtractor(nil, false)
	e.readers[".pdf"] = func(string) (string, error) {
		return "", errors.New("password protected")
	}

	text, err := e.ExtractText("/tmp/staged", ".pdf")

	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestCorruptPDFDegradesToEmpty(t *testing.T) {
	e := NewDocumentExtractor(nil, false)

	text, err := e.ExtractText("/nonexistent/resume.pdf", ".pdf")

	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestJoinSegments(t *testing.T) {
	assert.Equal(t, "Jane Doe Senior Engineer Go, SQL",
		joinSegments([]string{"Jane Doe", "", "  Senior Engineer ", "\n", "Go, SQL"}))
	assert.Equal(t, "", joinSegments(nil))
}

func writeDOCX(t *testing.T, paragraphs ...string) string {
	t.Helper()
	var body strings.Builder
	for _, p := range paragraphs {
		fmt.Fprintf(&body, "<w:p><w:r><w:t>%s</w:t></w:r></w:p>", p)
	}

	path := filepath.Join(t.TempDir(), "resume.docx")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	files := map[string]string{
		"[Content_Types].xml": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
			`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
			`<Default Extension="xml" ContentType="application/xml"/>` +
			`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
			`</Types>`,
		"word/document.xml": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
			`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
			body.String() +
			`</w:body></w:document>`,
	}
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return path
}

// writePDF builds an uncompressed PDF with one line of Helvetica text per page.
func writePDF(t *testing.T, pages ...string) string {
	t.Helper()
	n := len(pages)
	fontID := 3 + 2*n
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
	}
	kids := make([]string, n)
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", 3+2*i)
	}
	objects = append(objects, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), n))
	for i, text := range pages {
		stream := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
		objects = append(objects,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 %d 0 R >> >> /Contents %d 0 R >>", fontID, 4+2*i),
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream),
		)
	}
	objects = append(objects, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>")

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)

	path := filepath.Join(t.TempDir(), "resume.pdf")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))
	return path
}

func TestExtractTextReadsDOCXParagraphs(t *testing.T) {
	path := writeDOCX(t, "Jane Doe", "  Senior Engineer ", "", "jane@x.com")
	e := NewDocumentExtractor(nil, false)

	text, err := e.ExtractText(path, ".docx")

	require.NoError(t, err)
	assert.Equal(t, "Jane Doe Senior Engineer jane@x.com", text)
}

func TestExtractTextReadsPDFPages(t *testing.T) {
	path := writePDF(t, "Jane Doe", "Senior Engineer")
	e := NewDocumentExtractor(nil, false)

	text, err := e.ExtractText(path, ".pdf")

	require.NoError(t, err)
	assert.Equal(t, "Jane Doe Senior Engineer", text)
}
