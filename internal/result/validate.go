package result

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError lists every problem found in an output document.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid output: " + strings.Join(e.Problems, "; ")
}

// Wire types track key presence with pointers and non-nil slices.
type outlineWire struct {
	Title   *string            `json:"title" validate:"required"`
	Outline []outlineEntryWire `json:"outline" validate:"required,dive"`
}

type outlineEntryWire struct {
	Level *string `json:"level" validate:"required,oneof=H1 H2 H3"`
	Text  *string `json:"text" validate:"required"`
	Page  *int    `json:"page" validate:"required,min=1"`
}

type analysisWire struct {
	Metadata           *metadataWire    `json:"metadata" validate:"required"`
	ExtractedSections  []sectionWire    `json:"extracted_sections" validate:"required,max=10,dive"`
	SubsectionAnalysis []subsectionWire `json:"subsection_analysis" validate:"required,max=5,dive"`
}

type metadataWire struct {
	InputDocuments      []string `json:"input_documents" validate:"required"`
	Persona             *string  `json:"persona" validate:"required"`
	JobToBeDone         *string  `json:"job_to_be_done" validate:"required"`
	ProcessingTimestamp *string  `json:"processing_timestamp" validate:"required"`
}

type sectionWire struct {
	Document       *string `json:"document" validate:"required"`
	PageNumber     *int    `json:"page_number" validate:"required,min=1"`
	SectionTitle   *string `json:"section_title" validate:"required"`
	ImportanceRank *int    `json:"importance_rank" validate:"required,min=1"`
}

type subsectionWire struct {
	Document    *string `json:"document" validate:"required"`
	RefinedText *string `json:"refined_text" validate:"required,max=500"`
	PageNumber  *int    `json:"page_number" validate:"required,min=1"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateOutlineJSON checks an outline document's shape.
func ValidateOutlineJSON(data []byte) error {
	var w outlineWire
	if err := decode(data, &w); err != nil {
		return err
	}
	return check(&w)
}

// ValidateAnalysisJSON checks an analysis document's shape, including that
// importance ranks run 1..n in order.
func ValidateAnalysisJSON(data []byte) error {
	var w analysisWire
	if err := decode(data, &w); err != nil {
		return err
	}
	if err := check(&w); err != nil {
		return err
	}
	for i, s := range w.ExtractedSections {
		if *s.ImportanceRank != i+1 {
			return &ValidationError{Problems: []string{
				fmt.Sprintf("extracted_sections[%d].importance_rank: want %d, got %d", i, i+1, *s.ImportanceRank),
			}}
		}
	}
	return nil
}

func decode(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return &ValidationError{Problems: []string{"invalid JSON: " + err.Error()}}
	}
	return nil
}

func check(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	ve := &ValidationError{}
	for _, fe := range verrs {
		field := fe.Namespace()
		if _, rest, ok := strings.Cut(field, "."); ok {
			field = rest
		}
		problem := field + ": " + fe.Tag()
		if fe.Param() != "" {
			problem += "=" + fe.Param()
		}
		ve.Problems = append(ve.Problems, problem)
	}
	return ve
}
