package util

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"code.sajari.com/docconv"
	"github.com/fadilmartias/resume-ingestor/internal/apperror"
	"github.com/gen2brain/go-fitz"
	"go.uber.org/zap"
)

type readerFunc func(path string) (string, error)

// DocumentExtractor turns a staged upload into plain text. PDFs are read
// page by page, DOCX files paragraph by paragraph; both join their pieces
// with single spaces.
type DocumentExtractor struct {
	readers     map[string]readerFunc
	ocrFallback bool
	logger      *zap.Logger
}

func NewDocumentExtractor(logger *zap.Logger, ocrFallback bool) *DocumentExtractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &DocumentExtractor{ocrFallback: ocrFallback, logger: logger}
	e.readers = map[string]readerFunc{
		".pdf":  e.readPDF,
		".docx": e.readDOCX,
	}
	return e
}

// Supports reports whether ext (with or without the dot) has a reader.
func (e *DocumentExtractor) Supports(ext string) bool {
	_, ok := e.readers[normalizeExt(ext)]
	return ok
}

// ExtractText returns the text of the document at path. An unknown ext is
// an UnsupportedFormat error. Reader failures are logged and yield "".
func (e *DocumentExtractor) ExtractText(path, ext string) (string, error) {
	ext = normalizeExt(ext)
	read, ok := e.readers[ext]
	if !ok {
		return "", apperror.Newf(apperror.KindUnsupportedFormat, nil, "unsupported file format %q", ext)
	}

	text, err := read(path)
	if err != nil {
		e.logger.Warn("extract.reader.failed",
			zap.String("path", path),
			zap.String("ext", ext),
			zap.Error(err),
		)
		return "", nil
	}
	return text, nil
}

func (e *DocumentExtractor) readPDF(path string) (string, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	if doc.NumPage() == 0 {
		return "", fmt.Errorf("PDF has no pages")
	}

	pages := make([]string, 0, doc.NumPage())
	for n := 0; n < doc.NumPage(); n++ {
		text, err := doc.Text(n)
		if err != nil {
			e.logger.Warn("extract.pdf.page_failed", zap.Int("page", n+1), zap.Error(err))
			continue
		}
		pages = append(pages, text)
	}

	text := joinSegments(pages)
	if text == "" && e.ocrFallback {
		e.logger.Info("extract.pdf.ocr_fallback", zap.String("path", path))
		return e.ocrPDF(doc)
	}
	return text, nil
}

func (e *DocumentExtractor) readDOCX(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open DOCX: %w", err)
	}
	defer f.Close()

	body, _, err := docconv.ConvertDocx(f)
	if err != nil {
		return "", fmt.Errorf("failed to convert DOCX: %w", err)
	}
	return joinSegments(strings.Split(body, "\n")), nil
}

// ocrPDF rasterises each page and runs tesseract over it.
func (e *DocumentExtractor) ocrPDF(doc *fitz.Document) (string, error) {
	if err := checkTesseract(); err != nil {
		return "", fmt.Errorf("tesseract check failed: %w", err)
	}

	var pages []string
	var lastErr error
	for n := 0; n < doc.NumPage(); n++ {
		img, err := doc.Image(n)
		if err != nil {
			lastErr = fmt.Errorf("page %d: failed to extract image: %w", n+1, err)
			continue
		}

		text, err := ocrImage(img)
		if err != nil {
			lastErr = fmt.Errorf("page %d: %w", n+1, err)
			e.logger.Warn("extract.ocr.page_failed", zap.Error(lastErr))
			continue
		}
		pages = append(pages, text)
	}

	result := joinSegments(pages)
	if result == "" && lastErr != nil {
		return "", fmt.Errorf("failed to extract text via OCR: %w", lastErr)
	}
	return result, nil
}

func ocrImage(img image.Image) (string, error) {
	tmpFile, err := os.CreateTemp("", "page-*.png")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)

	err = png.Encode(tmpFile, img)
	tmpFile.Close()
	if err != nil {
		return "", fmt.Errorf("failed to encode PNG: %w", err)
	}

	out, err := exec.Command("tesseract", tmpPath, "stdout", "-l", "eng").CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("tesseract error: %w, output: %s", err, string(out))
	}
	return strings.TrimSpace(string(out)), nil
}

func checkTesseract() error {
	out, err := exec.Command("tesseract", "-v").CombinedOutput()
	if err != nil {
		return fmt.Errorf("tesseract not found or not executable: %w\nOutput: %s", err, string(out))
	}
	return nil
}

// joinSegments trims each piece, drops blanks and joins with single spaces.
func joinSegments(segments []string) string {
	kept := make([]string, 0, len(segments))
	for _, s := range segments {
		if s = strings.TrimSpace(s); s != "" {
			kept = append(kept, s)
		}
	}
	return strings.Join(kept, " ")
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// ExtOf returns the lower-cased extension of a filename, dot included.
func ExtOf(filename string) string {
	return normalizeExt(filepath.Ext(filename))
}
