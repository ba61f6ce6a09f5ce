package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"advisorlens/internal/util"

	"github.com/ledongthuc/pdf"
)

const (
	clientStateFile      = "client_state.csv"
	productPortfolioPDF  = "product_portfolio.pdf"
	productPortfolioText = "product_portfolio.txt"
	transcriptFile       = "transcript.txt"
)

// Loader reads the run's input corpora from the data-in root. Corpus
// sources are allowed to be missing (the pipeline degrades to empty
// retrieval); only the transcript is mandatory.
type Loader struct {
	dataIn string
}

func New(dataIn string) *Loader {
	return &Loader{dataIn: dataIn}
}

type ClientFact struct {
	Category string `json:"category"`
	Value    string `json:"value"`
}

// ClientState reads the client profile CSV as ordered Category/Value rows.
// A missing or unreadable file yields no facts, not an error.
func (l *Loader) ClientState() []ClientFact {
	f, err := os.Open(filepath.Join(l.dataIn, clientStateFile))
	if err != nil {
		return nil
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	facts := make([]ClientFact, 0)
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return facts
		}
		if len(rec) < 2 {
			continue
		}
		category := strings.TrimSpace(rec[0])
		value := strings.TrimSpace(rec[1])
		if category == "" || value == "" {
			continue
		}
		if strings.EqualFold(category, "category") && strings.EqualFold(value, "value") {
			continue
		}
		facts = append(facts, ClientFact{Category: category, Value: value})
	}
	return facts
}

// ClientStateText flattens client facts to "key: value" lines for indexing.
func ClientStateText(facts []ClientFact) string {
	lines := make([]string, 0, len(facts))
	for _, f := range facts {
		lines = append(lines, f.Category+": "+f.Value)
	}
	return strings.Join(lines, "\n")
}

// ProductPortfolio extracts the product catalog text, preferring the PDF
// source and falling back to a plain-text export. Missing sources yield "".
func (l *Loader) ProductPortfolio() string {
	if text, err := extractPDFText(filepath.Join(l.dataIn, productPortfolioPDF)); err == nil && text != "" {
		return text
	}
	raw, err := os.ReadFile(filepath.Join(l.dataIn, productPortfolioText))
	if err != nil {
		return ""
	}
	return util.SanitizeText(string(raw))
}

// Transcript loads the meeting transcript. path overrides the default
// location; a missing transcript is fatal for the run.
func (l *Loader) Transcript(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		path = filepath.Join(l.dataIn, transcriptFile)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s", util.ErrTranscriptMissing, path)
	}
	text := util.SanitizeText(string(raw))
	if text == "" {
		return "", fmt.Errorf("%w: %s is empty", util.ErrTranscriptMissing, path)
	}
	return text, nil
}

func extractPDFText(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	reader, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}
	buf := new(strings.Builder)
	if _, err := io.Copy(buf, reader); err != nil {
		return "", fmt.Errorf("read extracted text: %w", err)
	}
	text := util.SanitizeText(buf.String())
	if text == "" {
		return "", util.ErrNoExtractableText
	}
	return text, nil
}
