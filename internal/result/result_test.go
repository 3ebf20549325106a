package result

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/I-SHANKAR-NARAYANA/Adobe-Hackathon-1b/internal/outline"
	"github.com/I-SHANKAR-NARAYANA/Adobe-Hackathon-1b/internal/segment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOutline_EmptyEncodesAsArray(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, NewOutline(outline.Outline{})))
	assert.JSONEq(t, `{"title":"","outline":[]}`, buf.String())
}

func TestNewOutline(t *testing.T) {
	o := NewOutline(outline.Outline{
		Title:    "Guide",
		Headings: []outline.HeadingInfo{{Level: outline.H1, Text: "Intro", Page: 1}, {Level: outline.H2, Text: "Setup", Page: 2}},
	})
	data, err := json.Marshal(o)
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"Guide","outline":[{"level":"H1","text":"Intro","page":1},{"level":"H2","text":"Setup","page":2}]}`, string(data))
	assert.NoError(t, ValidateOutlineJSON(data))
}

func TestNewAnalysis_HidesScore(t *testing.T) {
	a := NewAnalysis(
		Metadata{InputDocuments: []string{"a.pdf"}, Persona: "Chef", JobToBeDone: "Plan a menu", ProcessingTimestamp: "2025-01-02T03:04:05.000000Z"},
		[]segment.Section{{Document: "a.pdf", Page: 2, Title: "Mains", Content: "...", Score: 9.5, Rank: 1}},
		nil,
	)
	data, err := json.Marshal(a)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "score")
	assert.NotContains(t, string(data), "9.5")
	assert.Contains(t, string(data), `"subsection_analysis":[]`)
	assert.JSONEq(t, `{"document":"a.pdf","page_number":2,"section_title":"Mains","importance_rank":1}`, mustJSON(t, a.ExtractedSections[0]))
	assert.NoError(t, ValidateAnalysisJSON(data))
}

func TestNewAnalysis_NilDocuments(t *testing.T) {
	a := NewAnalysis(Metadata{}, nil, nil)
	assert.Contains(t, mustJSON(t, a), `"input_documents":[]`)
}

func TestValidateOutlineJSON(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		problem string
	}{
		{"valid empty", `{"title":"","outline":[]}`, ""},
		{"missing title", `{"outline":[]}`, "title: required"},
		{"missing outline", `{"title":"x"}`, "outline: required"},
		{"bad level", `{"title":"x","outline":[{"level":"H4","text":"a","page":1}]}`, "outline[0].level: oneof"},
		{"page zero", `{"title":"x","outline":[{"level":"H1","text":"a","page":0}]}`, "outline[0].page: min=1"},
		{"page float", `{"title":"x","outline":[{"level":"H1","text":"a","page":1.5}]}`, "invalid JSON"},
		{"missing text", `{"title":"x","outline":[{"level":"H1","page":1}]}`, "outline[0].text: required"},
		{"not json", `nope`, "invalid JSON"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutlineJSON([]byte(tt.doc))
			if tt.problem == "" {
				assert.NoError(t, err)
				return
			}
			var ve *ValidationError
			require.True(t, errors.As(err, &ve), "got %v", err)
			assert.Contains(t, ve.Error(), tt.problem)
		})
	}
}

func validAnalysis(sections, subs int) map[string]any {
	var ex []map[string]any
	for i := 0; i < sections; i++ {
		ex = append(ex, map[string]any{"document": "a.pdf", "page_number": 1, "section_title": "t", "importance_rank": i + 1})
	}
	var sa []map[string]any
	for i := 0; i < subs; i++ {
		sa = append(sa, map[string]any{"document": "a.pdf", "refined_text": "r", "page_number": 1})
	}
	if ex == nil {
		ex = []map[string]any{}
	}
	if sa == nil {
		sa = []map[string]any{}
	}
	return map[string]any{
		"metadata": map[string]any{
			"input_documents": []string{"a.pdf"}, "persona": "p", "job_to_be_done": "j",
			"processing_timestamp": "2025-01-02T03:04:05.000000Z",
		},
		"extracted_sections":  ex,
		"subsection_analysis": sa,
	}
}

func TestValidateAnalysisJSON(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(m map[string]any)
		problem string
	}{
		{"valid", func(map[string]any) {}, ""},
		{"missing metadata", func(m map[string]any) { delete(m, "metadata") }, "metadata: required"},
		{"missing persona", func(m map[string]any) { delete(m["metadata"].(map[string]any), "persona") }, "metadata.persona: required"},
		{"too many sections", func(m map[string]any) {
			m["extracted_sections"] = validAnalysis(11, 0)["extracted_sections"]
		}, "extracted_sections: max=10"},
		{"too many subsections", func(m map[string]any) {
			m["subsection_analysis"] = validAnalysis(0, 6)["subsection_analysis"]
		}, "subsection_analysis: max=5"},
		{"refined text too long", func(m map[string]any) {
			m["subsection_analysis"].([]map[string]any)[0]["refined_text"] = strings.Repeat("é", 501)
		}, "refined_text: max=500"},
		{"rank gap", func(m map[string]any) {
			m["extracted_sections"].([]map[string]any)[1]["importance_rank"] = 3
		}, "importance_rank: want 2, got 3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := validAnalysis(3, 2)
			tt.mutate(m)
			data, err := json.Marshal(m)
			require.NoError(t, err)

			err = ValidateAnalysisJSON(data)
			if tt.problem == "" {
				assert.NoError(t, err)
				return
			}
			var ve *ValidationError
			require.True(t, errors.As(err, &ve), "got %v", err)
			assert.Contains(t, ve.Error(), tt.problem)
		})
	}
}

func TestValidateAnalysisJSON_RefinedTextAtLimit(t *testing.T) {
	m := validAnalysis(1, 1)
	m["subsection_analysis"].([]map[string]any)[0]["refined_text"] = strings.Repeat("é", 500)
	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.NoError(t, ValidateAnalysisJSON(data))
}

func TestWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.json")
	require.NoError(t, WriteJSON(path, Outline{Title: "Café <menu> & more", Outline: []OutlineEntry{}}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Café <menu> & more")
	assert.Contains(t, string(data), "\n  \"outline\": []")
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return string(data)
}
