package parser

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/I-SHANKAR-NARAYANA/Adobe-Hackathon-1b/internal/doctree"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// extractPdfcpu decodes text-showing operators from each page's content
// stream. It carries no font metadata, so pages have text but no runs.
func extractPdfcpu(data []byte) (*doctree.Document, error) {
	conf := model.NewDefaultConfiguration()
	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), conf)
	if err != nil {
		return nil, fmt.Errorf("pdfcpu read: %w", err)
	}

	doc := &doctree.Document{}
	for pageNr := 1; pageNr <= ctx.PageCount; pageNr++ {
		r, err := pdfcpu.ExtractPageContent(ctx, pageNr)
		if err != nil || r == nil {
			continue
		}
		stream, err := io.ReadAll(r)
		if err != nil {
			continue
		}
		doc.Pages = append(doc.Pages, &doctree.Page{
			Number: pageNr,
			Text:   textFromStream(stream),
		})
	}
	if len(doc.Pages) == 0 {
		return nil, fmt.Errorf("no readable pages")
	}
	return doc, nil
}

// kernWordGap is the TJ adjustment, in thousandths of an em, at or below
// which the displacement is read as a word space.
const kernWordGap = -200

// textFromStream tokenizes a content stream. String operands are collected
// until a text-showing operator (Tj, TJ, ', ") consumes them; BT, ET, T*, Td,
// TD, Tm and the quote operators start a new line. Inside a TJ array a large
// negative adjustment between strings becomes a space.
func textFromStream(data []byte) string {
	var sb strings.Builder
	var line strings.Builder
	var pending []string
	inArray := false
	flushLine := func() {
		if t := strings.TrimSpace(line.String()); t != "" {
			sb.WriteString(t)
			sb.WriteByte('\n')
		}
		line.Reset()
	}

	for i := 0; i < len(data); {
		c := data[i]
		switch {
		case c == '(':
			lit, next := readLiteral(data, i)
			pending = append(pending, decodePDFString(lit))
			i = next
		case c == '[':
			inArray = true
			i++
		case c == ']':
			inArray = false
			i++
		case isNumberByte(c):
			start := i
			for i < len(data) && isNumberByte(data[i]) {
				i++
			}
			if !inArray || len(pending) == 0 {
				continue
			}
			if v, err := strconv.ParseFloat(string(data[start:i]), 64); err == nil && v <= kernWordGap {
				pending = append(pending, " ")
			}
		case c == '%':
			for i < len(data) && data[i] != '\n' && data[i] != '\r' {
				i++
			}
		case isOperatorByte(c):
			start := i
			for i < len(data) && isOperatorByte(data[i]) {
				i++
			}
			switch string(data[start:i]) {
			case "Tj", "TJ":
				line.WriteString(strings.Join(pending, ""))
			case "'", "\"":
				flushLine()
				line.WriteString(strings.Join(pending, ""))
			case "BT", "ET", "T*", "Td", "TD", "Tm":
				flushLine()
			}
			pending = pending[:0]
		default:
			i++
		}
	}
	flushLine()
	return strings.TrimSpace(sb.String())
}

func isNumberByte(c byte) bool {
	return (c >= '0' && c <= '9') || c == '-' || c == '+' || c == '.'
}

func isOperatorByte(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '*' || c == '\'' || c == '"'
}

// readLiteral returns the raw bytes of the balanced string literal starting
// at data[start] == '(' and the index just past its closing parenthesis.
func readLiteral(data []byte, start int) ([]byte, int) {
	depth := 0
	for i := start; i < len(data); i++ {
		switch data[i] {
		case '\\':
			i++
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return data[start+1 : i], i + 1
			}
		}
	}
	return data[start+1:], len(data)
}

// decodePDFString handles PDF literal string escapes.
func decodePDFString(raw []byte) string {
	var sb strings.Builder
	for i := 0; i < len(raw); i++ {
		if raw[i] != '\\' || i+1 >= len(raw) {
			sb.WriteByte(raw[i])
			continue
		}
		i++
		switch raw[i] {
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case '\\', '(', ')':
			sb.WriteByte(raw[i])
		default:
			if raw[i] < '0' || raw[i] > '7' {
				sb.WriteByte(raw[i])
				continue
			}
			val := int(raw[i] - '0')
			for n := 0; n < 2 && i+1 < len(raw) && raw[i+1] >= '0' && raw[i+1] <= '7'; n++ {
				i++
				val = val*8 + int(raw[i]-'0')
			}
			sb.WriteByte(byte(val))
		}
	}
	return sb.String()
}
