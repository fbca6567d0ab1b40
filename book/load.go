package book

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/notnil/chess"
)

//go:embed openings.csv
var defaultOpenings []byte

// moveNumbers strips "1." and "12..." prefixes from opening lines.
var moveNumbers = regexp.MustCompile(`[0-9]+\.+`)

// Default returns the book built from the embedded opening lines.
func Default() (*Book, error) {
	b := New()
	if err := b.ReadCSV(bytes.NewReader(defaultOpenings)); err != nil {
		return nil, fmt.Errorf("embedded openings: %w", err)
	}
	return b, nil
}

// LoadFile reads a book from disk. ".json" files hold weighted positions, anything
// else is read as CSV opening lines.
func LoadFile(path string) (*Book, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	b := New()
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = b.ReadJSON(f)
	} else {
		err = b.ReadCSV(f)
	}
	if err != nil {
		return nil, fmt.Errorf("load book %s: %w", path, err)
	}
	return b, nil
}

type jsonBook struct {
	Positions map[string]struct {
		Moves []BookMove `json:"moves"`
	} `json:"positions"`
}

// ReadJSON adds the positions of a JSON book:
//
//	{"positions": {"<fen>": {"moves": [{"uci": "e2e4", "weight": 10}]}}}
func (b *Book) ReadJSON(r io.Reader) error {
	var jb jsonBook
	if err := json.NewDecoder(r).Decode(&jb); err != nil {
		return err
	}
	for fen, pos := range jb.Positions {
		for _, m := range pos.Moves {
			b.Add(fen, m.UCI, m.Weight)
		}
	}
	return nil
}

// ReadCSV adds opening lines of the form `eco,name,"1.e4 e5 2.Nf3 Nc6"`. Every line
// is replayed from the initial position and each position along it gets the next move
// with weight one, so moves shared by many lines weigh more. A header row starting
// with "eco" is skipped.
func (b *Book) ReadCSV(r io.Reader) error {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.Comment = '#'

	for line := 1; ; line++ {
		records, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if len(records) < 3 {
			return fmt.Errorf("line %d: want eco,name,moves", line)
		}
		if line == 1 && strings.EqualFold(records[0], "eco") {
			continue
		}
		sans := strings.Fields(moveNumbers.ReplaceAllString(records[2], " "))
		if err := b.addLine(sans); err != nil {
			return fmt.Errorf("line %d (%s): %w", line, records[1], err)
		}
	}
}

func (b *Book) addLine(sans []string) error {
	pos := chess.StartingPosition()
	for _, san := range sans {
		mv, err := chess.AlgebraicNotation{}.Decode(pos, san)
		if err != nil {
			return err
		}
		b.Add(pos.String(), chess.UCINotation{}.Encode(pos, mv), 1)
		pos = pos.Update(mv)
	}
	return nil
}
