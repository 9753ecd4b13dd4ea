package source

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// extractPDFText pulls page content streams out of a PDF and decodes the
// text-show operands. Layout is not preserved beyond page order; statement
// lines come through as whitespace-separated tokens, which is enough for the
// downstream model prompts.
func extractPDFText(path string) (string, error) {
	if _, err := api.PageCountFile(path); err != nil {
		return "", fmt.Errorf("unreadable PDF %s: %w", path, err)
	}

	outDir, err := os.MkdirTemp("", "ledgerloop-pdf-")
	if err != nil {
		return "", err
	}
	defer os.RemoveAll(outDir)

	if err := api.ExtractContentFile(path, outDir, nil, nil); err != nil {
		return "", fmt.Errorf("extract content from %s: %w", path, err)
	}

	entries, err := os.ReadDir(outDir)
	if err != nil {
		return "", err
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	var sb strings.Builder
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(outDir, name))
		if err != nil {
			return "", err
		}
		page := decodeContentText(string(data))
		if page != "" {
			sb.WriteString(page)
			sb.WriteString("\n")
		}
	}

	return strings.TrimSpace(sb.String()), nil
}

// decodeContentText scans a PDF content stream for string literals fed to
// the text-show operators and concatenates them. Escaped parentheses and
// backslashes inside literals are unescaped; everything else in the stream
// (positioning, fonts, graphics) is ignored.
func decodeContentText(stream string) string {
	var sb strings.Builder
	depth := 0
	escaped := false

	for i := 0; i < len(stream); i++ {
		c := stream[i]
		if depth == 0 {
			if c == '(' {
				depth = 1
			}
			continue
		}

		if escaped {
			switch c {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case '(', ')', '\\':
				sb.WriteByte(c)
			}
			escaped = false
			continue
		}

		switch c {
		case '\\':
			escaped = true
		case '(':
			depth++
			sb.WriteByte(c)
		case ')':
			depth--
			if depth == 0 {
				sb.WriteByte(' ')
			} else {
				sb.WriteByte(c)
			}
		default:
			sb.WriteByte(c)
		}
	}

	return strings.TrimSpace(sb.String())
}
