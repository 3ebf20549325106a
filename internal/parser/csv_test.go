package parser

import (
	"errors"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/I-SHANKAR-NARAYANA/Adobe-Hackathon-1b/internal/segment"
)

func TestCSVParser_HeaderThenRows(t *testing.T) {
	input := "city,hotel,price\nNice,Hotel Azur,85\nCannes,\"Le Port, Annex\",120\n"
	p := &CSVParser{}
	doc, err := p.Parse(strings.NewReader(input), "hotels.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Name != "hotels.csv" {
		t.Errorf("expected name %q, got %q", "hotels.csv", doc.Name)
	}
	if len(doc.Pages) != 1 {
		t.Fatalf("expected 1 page, got %d", len(doc.Pages))
	}
	want := "city, hotel, price\n" +
		"city: Nice, hotel: Hotel Azur, price: 85\n" +
		"city: Cannes, hotel: Le Port, Annex, price: 120"
	if doc.Pages[0].Text != want {
		t.Errorf("expected %q, got %q", want, doc.Pages[0].Text)
	}

	// The header row titles the table's section.
	sections := segment.Sections(doc.Pages[0].Text, 1, doc.Name)
	if len(sections) != 1 || sections[0].Title != "city, hotel, price" {
		t.Errorf("sections = %+v", sections)
	}
}

func TestCSVParser_RaggedRows(t *testing.T) {
	p := &CSVParser{}
	doc, err := p.Parse(strings.NewReader("name,role\nAda\nGrace,admiral,navy\n"), "people.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "name, role\nname: Ada\nname: Grace, role: admiral, navy"
	if doc.Pages[0].Text != want {
		t.Errorf("expected %q, got %q", want, doc.Pages[0].Text)
	}
}

func TestCSVParser_EmptyInput(t *testing.T) {
	p := &CSVParser{}
	doc, err := p.Parse(strings.NewReader(""), "empty.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Pages) != 1 || doc.Pages[0].Text != "" {
		t.Errorf("expected one empty page, got %+v", doc.Pages)
	}
}

func TestCSVParser_ReadError(t *testing.T) {
	p := &CSVParser{}
	_, err := p.Parse(iotest.ErrReader(errors.New("disk gone")), "bad.csv")
	if !errors.Is(err, ErrParseFailure) {
		t.Errorf("expected ErrParseFailure, got %v", err)
	}
}

func TestForFile_CSV(t *testing.T) {
	p, err := ForFile("Data.CSV")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := p.(*CSVParser); !ok {
		t.Errorf("expected *CSVParser, got %T", p)
	}
}
