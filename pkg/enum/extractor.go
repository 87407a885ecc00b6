package enum

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"
)

// Extractable document formats.
const (
	FormatDOCX = "docx"
	FormatXLSX = "xlsx"
	FormatPDF  = "pdf"
)

// extractableFormat returns the format of path by extension, or "".
func extractableFormat(path string) string {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".docx", ".xlsx", ".pdf":
		return ext[1:]
	default:
		return ""
	}
}

// ExtractText returns the plain text of a docx, xlsx or pdf document.
// Paragraphs, shared strings and rows each end up on their own line.
func ExtractText(path string, content []byte) (string, error) {
	switch format := extractableFormat(path); format {
	case FormatDOCX:
		return extractZipParts(content, format, func(name string) string {
			if name == "word/document.xml" {
				return "p"
			}
			return ""
		})
	case FormatXLSX:
		return extractZipParts(content, format, func(name string) string {
			switch {
			case name == "xl/sharedStrings.xml":
				return "si"
			case strings.HasPrefix(name, "xl/worksheets/sheet") && strings.HasSuffix(name, ".xml"):
				return "row"
			}
			return ""
		})
	case FormatPDF:
		return extractPDF(content)
	default:
		return "", fmt.Errorf("unsupported file type: %s", filepath.Ext(path))
	}
}

// extractZipParts reads the members of an office zip container for which
// lineElement returns an element name, and joins their text.
func extractZipParts(content []byte, format string, lineElement func(name string) string) (string, error) {
	zipReader, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("failed to open %s as zip: %w", format, err)
	}

	var parts []string
	for _, file := range zipReader.File {
		elem := lineElement(file.Name)
		if elem == "" {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			continue
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			continue
		}
		if text := extractXMLText(data, elem); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "\n"), nil
}

// extractPDF extracts the plain text of every page using ledongthuc/pdf.
func extractPDF(content []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	var text strings.Builder
	for pageNum := 1; pageNum <= r.NumPage(); pageNum++ {
		page := r.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			// keep what the other pages yield
			continue
		}
		text.WriteString(pageText)
		text.WriteString("\n")
	}

	if strings.TrimSpace(text.String()) == "" {
		return "", nil
	}
	return text.String(), nil
}

// extractXMLText collects the character data of an XML part. Text inside one
// lineElement is joined with spaces; each lineElement ends a line.
func extractXMLText(data []byte, lineElement string) string {
	var (
		out  strings.Builder
		line []string
	)
	flush := func() {
		if len(line) > 0 {
			out.WriteString(strings.Join(line, " "))
			out.WriteByte('\n')
			line = line[:0]
		}
	}

	decoder := xml.NewDecoder(bytes.NewReader(data))
	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		switch t := token.(type) {
		case xml.CharData:
			if s := cleanText(string(t)); s != "" {
				line = append(line, s)
			}
		case xml.EndElement:
			if t.Name.Local == lineElement {
				flush()
			}
		}
	}
	flush()
	return strings.TrimSuffix(out.String(), "\n")
}

// cleanText collapses whitespace and drops non-printable characters.
func cleanText(s string) string {
	var result strings.Builder
	lastSpace := false

	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastSpace {
				result.WriteRune(' ')
				lastSpace = true
			}
		} else if unicode.IsPrint(r) {
			result.WriteRune(r)
			lastSpace = false
		}
	}

	return strings.TrimSpace(result.String())
}
