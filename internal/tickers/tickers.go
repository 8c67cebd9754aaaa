// Package tickers serves symbol autocomplete from a Ticker,Name CSV file.
package tickers

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/samber/lo"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// MaxResults caps a search response.
const MaxResults = 10

// Ticker is one row of the lookup table.
type Ticker struct {
	Ticker string `json:"Ticker"`
	Name   string `json:"Name"`
}

// Fallback is used when the CSV file is missing or unreadable.
var Fallback = []Ticker{
	{Ticker: "AAPL", Name: "Apple Inc."},
	{Ticker: "MSFT", Name: "Microsoft Corporation"},
	{Ticker: "GOOGL", Name: "Alphabet Inc."},
	{Ticker: "AMZN", Name: "Amazon.com, Inc."},
	{Ticker: "UNH", Name: "UnitedHealth Group"},
}

// Directory is an in-memory ticker table.
type Directory struct {
	entries []Ticker
}

// NewDirectory wraps a fixed list of tickers.
func NewDirectory(entries []Ticker) *Directory {
	return &Directory{entries: entries}
}

// Load reads the CSV at path, falling back to the built-in list on error.
func Load(path string) *Directory {
	f, err := os.Open(path)
	if err != nil {
		log.Printf("[WARN] %s not found, using fallback ticker list: %v", path, err)
		return NewDirectory(Fallback)
	}
	defer f.Close()

	entries, err := Parse(f)
	if err != nil || len(entries) == 0 {
		log.Printf("[WARN] could not load %s, using fallback ticker list: %v", path, err)
		return NewDirectory(Fallback)
	}
	log.Printf("[INFO] loaded %d tickers from %s", len(entries), path)
	return NewDirectory(entries)
}

// Parse reads a CSV with a header naming the Ticker and Name columns.
// A leading byte order mark is ignored.
func Parse(r io.Reader) ([]Ticker, error) {
	cr := csv.NewReader(transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder())))
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	tickerCol, nameCol := -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "ticker":
			tickerCol = i
		case "name":
			nameCol = i
		}
	}
	if tickerCol < 0 || nameCol < 0 {
		return nil, fmt.Errorf("header must contain Ticker and Name columns, got %v", header)
	}

	var out []Ticker
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		if tickerCol >= len(rec) {
			continue
		}
		t := Ticker{Ticker: strings.TrimSpace(rec[tickerCol])}
		if nameCol < len(rec) {
			t.Name = strings.TrimSpace(rec[nameCol])
		}
		if t.Ticker == "" {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

// Len returns the number of known tickers.
func (d *Directory) Len() int { return len(d.entries) }

// Search returns up to MaxResults tickers whose symbol or name contains q,
// case-insensitively. An empty query matches nothing.
func (d *Directory) Search(q string) []Ticker {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return []Ticker{}
	}
	matches := lo.Filter(d.entries, func(t Ticker, _ int) bool {
		return strings.Contains(strings.ToLower(t.Ticker), q) || strings.Contains(strings.ToLower(t.Name), q)
	})
	if len(matches) > MaxResults {
		matches = matches[:MaxResults]
	}
	return matches
}
