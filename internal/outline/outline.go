// Package outline derives a document title and an H1-H3 heading outline
// from font runs.
//
// Classification is relative to the document's body size, the most common
// font size weighted by text length. A candidate is a heading when it is
// noticeably larger than body text, or bold and standing alone on its line
// at body size or above. Distinct heading sizes are ranked largest first and
// mapped to H1, H2 and H3; bold body-size headings take their level from a
// numbering prefix such as "2.1".
package outline

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/I-SHANKAR-NARAYANA/Adobe-Hackathon-1b/internal/doctree"
	"github.com/I-SHANKAR-NARAYANA/Adobe-Hackathon-1b/internal/segment"
)

// Level is a heading level.
type Level string

const (
	H1 Level = "H1"
	H2 Level = "H2"
	H3 Level = "H3"
)

// HeadingInfo is one outline entry.
type HeadingInfo struct {
	Level Level
	Text  string
	Page  int
}

// Outline is a document's title and ordered headings.
type Outline struct {
	Title    string
	Headings []HeadingInfo
}

// Config holds the classification thresholds.
type Config struct {
	MaxHeadingRunes     int     // longer candidates are body text
	MaxHeadingWords     int     // candidates with more words are body text
	RepeatPageThreshold int     // text on this many pages is a running header or footer
	TitleRatio          float64 // minimum title size as a multiple of body size
	HeadingRatio        float64 // minimum heading size as a multiple of body size
	BucketSize          float64 // font sizes are compared in buckets of this many points
	MergeGapRatio       float64 // max vertical gap, in font sizes, between lines of one heading
}

// DefaultConfig returns the standard thresholds.
func DefaultConfig() Config {
	return Config{
		MaxHeadingRunes:     120,
		MaxHeadingWords:     20,
		RepeatPageThreshold: 3,
		TitleRatio:          1.25,
		HeadingRatio:        1.15,
		BucketSize:          0.5,
		MergeGapRatio:       0.6,
	}
}

// Builder classifies heading candidates. It holds no per-document state.
type Builder struct {
	cfg Config
}

// NewBuilder fills zero fields of cfg from DefaultConfig.
func NewBuilder(cfg Config) *Builder {
	def := DefaultConfig()
	if cfg.MaxHeadingRunes <= 0 {
		cfg.MaxHeadingRunes = def.MaxHeadingRunes
	}
	if cfg.MaxHeadingWords <= 0 {
		cfg.MaxHeadingWords = def.MaxHeadingWords
	}
	if cfg.RepeatPageThreshold <= 0 {
		cfg.RepeatPageThreshold = def.RepeatPageThreshold
	}
	if cfg.TitleRatio <= 0 {
		cfg.TitleRatio = def.TitleRatio
	}
	if cfg.HeadingRatio <= 0 {
		cfg.HeadingRatio = def.HeadingRatio
	}
	if cfg.BucketSize <= 0 {
		cfg.BucketSize = def.BucketSize
	}
	if cfg.MergeGapRatio <= 0 {
		cfg.MergeGapRatio = def.MergeGapRatio
	}
	return &Builder{cfg: cfg}
}

type kind int

const (
	kindBody kind = iota
	kindSized
	kindBold
)

type candidate struct {
	segment.HeadingCandidate
	bucket int
	kind   kind
}

// Build never fails: a document without usable runs yields its metadata
// title and no headings.
func (b *Builder) Build(doc *doctree.Document) Outline {
	out := Outline{Title: doc.MetaTitle, Headings: []HeadingInfo{}}
	if !doc.HasRuns() {
		return out
	}

	raw := segment.HeadingCandidates(doc)
	cands := make([]candidate, 0, len(raw))
	for _, hc := range raw {
		hc.Text = cleanText(hc.Text)
		if hc.Text == "" || hc.FontSize <= 0 {
			continue
		}
		cands = append(cands, candidate{HeadingCandidate: hc, bucket: b.bucket(hc.FontSize)})
	}
	if len(cands) == 0 {
		return out
	}

	body := bodyBucket(cands)
	for i := range cands {
		cands[i].kind = b.classify(cands, i, body)
	}
	headings := b.filter(b.merge(cands), len(doc.Pages))

	titleIdx := b.titleIndex(headings, body)
	if titleIdx >= 0 {
		out.Title = headings[titleIdx].Text
	}

	ranks := sizeRanks(headings, titleIdx)
	for i, h := range headings {
		if i == titleIdx {
			continue
		}
		level := H3
		if h.kind == kindSized {
			level = levelForRank(ranks[h.bucket])
		} else if depth := numberingDepth(h.Text); depth > 0 {
			level = levelForRank(depth - 1)
		}
		out.Headings = append(out.Headings, HeadingInfo{Level: level, Text: h.Text, Page: h.Page})
	}

	sort.SliceStable(out.Headings, func(i, j int) bool {
		return out.Headings[i].Page < out.Headings[j].Page
	})
	return out
}

func (b *Builder) bucket(size float64) int {
	return int(math.Round(size / b.cfg.BucketSize))
}

func (b *Builder) classify(cands []candidate, i, body int) kind {
	c := cands[i]
	bodySize := float64(body) * b.cfg.BucketSize
	if c.FontSize >= bodySize*b.cfg.HeadingRatio {
		return kindSized
	}
	if c.Bold() && c.bucket >= body && standalone(cands, i) {
		return kindBold
	}
	return kindBody
}

// standalone reports whether no neighbouring run shares cands[i]'s baseline.
func standalone(cands []candidate, i int) bool {
	c := cands[i]
	for _, j := range []int{i - 1, i + 1} {
		if j < 0 || j >= len(cands) || cands[j].Page != c.Page {
			continue
		}
		if math.Abs(cands[j].BBox.Y1-c.BBox.Y1) < c.FontSize*0.5 {
			return false
		}
	}
	return true
}

// merge joins consecutive heading runs that continue one another: same
// page, size bucket and flags, on the same line or the next line down.
// Body runs are dropped.
func (b *Builder) merge(cands []candidate) []candidate {
	var out []candidate
	prevHeading := false
	for _, c := range cands {
		if c.kind == kindBody {
			prevHeading = false
			continue
		}
		if prevHeading {
			last := &out[len(out)-1]
			if last.Page == c.Page && last.bucket == c.bucket && last.FontFlags == c.FontFlags && b.adjacent(last.BBox, c.BBox, c.FontSize) {
				last.Text += " " + c.Text
				last.BBox.X1 = math.Max(last.BBox.X1, c.BBox.X1)
				last.BBox.Y1 = math.Max(last.BBox.Y1, c.BBox.Y1)
				continue
			}
		}
		out = append(out, c)
		prevHeading = true
	}
	return out
}

func (b *Builder) adjacent(prev, next doctree.BBox, size float64) bool {
	if math.Abs(next.Y1-prev.Y1) < size*0.5 {
		return true
	}
	gap := next.Y0 - prev.Y1
	return gap >= -size*0.5 && gap <= size*b.cfg.MergeGapRatio
}

// filter drops candidates that cannot be headings by their text alone, and
// running headers or footers.
func (b *Builder) filter(cands []candidate, pageCount int) []candidate {
	repeated := map[string]bool{}
	if pageCount >= b.cfg.RepeatPageThreshold {
		pages := map[string]map[int]bool{}
		for _, c := range cands {
			key := strings.ToLower(c.Text)
			if pages[key] == nil {
				pages[key] = map[int]bool{}
			}
			pages[key][c.Page] = true
		}
		for key, set := range pages {
			if len(set) >= b.cfg.RepeatPageThreshold {
				repeated[key] = true
			}
		}
	}

	out := cands[:0]
	for _, c := range cands {
		switch {
		case utf8.RuneCountInString(c.Text) > b.cfg.MaxHeadingRunes:
		case len(strings.Fields(c.Text)) > b.cfg.MaxHeadingWords:
		case !hasLetter(c.Text):
		case repeated[strings.ToLower(c.Text)]:
		default:
			out = append(out, c)
		}
	}
	return out
}

// titleIndex picks the first candidate on page 1 with the largest size on
// that page, when it is large enough relative to body text.
func (b *Builder) titleIndex(cands []candidate, body int) int {
	best := -1
	for i, c := range cands {
		if c.Page != 1 {
			continue
		}
		if best < 0 || c.bucket > cands[best].bucket {
			best = i
		}
	}
	if best < 0 {
		return -1
	}
	bodySize := float64(body) * b.cfg.BucketSize
	if cands[best].FontSize < bodySize*b.cfg.TitleRatio {
		return -1
	}
	return best
}

// bodyBucket returns the size bucket holding the most text. Ties go to the
// smaller size.
func bodyBucket(cands []candidate) int {
	weight := map[int]int{}
	for _, c := range cands {
		weight[c.bucket] += utf8.RuneCountInString(c.Text)
	}
	best, bestWeight := 0, -1
	for bucket, w := range weight {
		if w > bestWeight || (w == bestWeight && bucket < best) {
			best, bestWeight = bucket, w
		}
	}
	return best
}

// sizeRanks maps each size bucket used by a size-qualified heading to its
// rank, largest first.
func sizeRanks(cands []candidate, skip int) map[int]int {
	seen := map[int]bool{}
	var buckets []int
	for i, c := range cands {
		if i == skip || c.kind != kindSized || seen[c.bucket] {
			continue
		}
		seen[c.bucket] = true
		buckets = append(buckets, c.bucket)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(buckets)))
	ranks := make(map[int]int, len(buckets))
	for i, bk := range buckets {
		ranks[bk] = i
	}
	return ranks
}

func levelForRank(rank int) Level {
	switch rank {
	case 0:
		return H1
	case 1:
		return H2
	default:
		return H3
	}
}

var numberingRe = regexp.MustCompile(`^(\d+(?:\.\d+)*)\.?\s+\S`)

// numberingDepth returns 1 for "3 Scope" or "3. Scope", 2 for "3.1 Scope",
// and 0 when the text is not numbered.
func numberingDepth(text string) int {
	m := numberingRe.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	return strings.Count(m[1], ".") + 1
}

func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
