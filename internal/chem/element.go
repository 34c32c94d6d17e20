package chem

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// MaxAtomicNumber is the highest element the index will ever accept.
const MaxAtomicNumber = 118

// ErrUnknownElement is returned when a lookup misses the table.
var ErrUnknownElement = errors.New("unknown element")

// Element is the static metadata for one material tier.
type Element struct {
	Number int    `yaml:"number" json:"number"`
	Symbol string `yaml:"symbol" json:"symbol"`
	Name   string `yaml:"name" json:"name"`
	Attack int    `yaml:"attack" json:"attack"`
	Health int    `yaml:"health" json:"health"`
}

// ElementFile represents the top-level YAML structure of elements.yaml.
type ElementFile struct {
	Elements []Element `yaml:"elements"`
}

// Index is a read-only lookup between atomic number, symbol and element metadata.
type Index struct {
	byNumber map[int]Element
	bySymbol map[string]int
	max      int
}

// NewIndex builds an index from a list of elements. Entries with an out-of-range
// number or an empty symbol are rejected, as are duplicates.
func NewIndex(elems []Element) (*Index, error) {
	idx := &Index{
		byNumber: make(map[int]Element, len(elems)),
		bySymbol: make(map[string]int, len(elems)),
	}
	for _, e := range elems {
		if e.Number < 1 || e.Number > MaxAtomicNumber {
			return nil, fmt.Errorf("element %q: atomic number %d out of range", e.Symbol, e.Number)
		}
		if e.Symbol == "" {
			return nil, fmt.Errorf("element %d: empty symbol", e.Number)
		}
		if _, dup := idx.byNumber[e.Number]; dup {
			return nil, fmt.Errorf("element %d listed twice", e.Number)
		}
		if _, dup := idx.bySymbol[e.Symbol]; dup {
			return nil, fmt.Errorf("symbol %q listed twice", e.Symbol)
		}
		idx.byNumber[e.Number] = e
		idx.bySymbol[e.Symbol] = e.Number
		if e.Number > idx.max {
			idx.max = e.Number
		}
	}
	return idx, nil
}

// Symbol returns the symbol for atomic number z.
func (idx *Index) Symbol(z int) (string, bool) {
	e, ok := idx.byNumber[z]
	return e.Symbol, ok
}

// Number returns the atomic number for a symbol.
func (idx *Index) Number(symbol string) (int, bool) {
	z, ok := idx.bySymbol[symbol]
	return z, ok
}

// Element returns the full metadata for atomic number z.
func (idx *Index) Element(z int) (Element, error) {
	e, ok := idx.byNumber[z]
	if !ok {
		return Element{}, fmt.Errorf("atomic number %d: %w", z, ErrUnknownElement)
	}
	return e, nil
}

// Max returns the highest atomic number present in the index.
func (idx *Index) Max() int {
	return idx.max
}

// Len returns the number of known elements.
func (idx *Index) Len() int {
	return len(idx.byNumber)
}

// Elements returns every element in ascending atomic number order.
func (idx *Index) Elements() []Element {
	out := make([]Element, 0, len(idx.byNumber))
	for _, e := range idx.byNumber {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}

// StaticIndex returns the built-in table covering hydrogen through iron.
func StaticIndex() *Index {
	idx, err := NewIndex(staticElements)
	if err != nil {
		panic(fmt.Sprintf("static element table: %v", err))
	}
	return idx
}

// LoadIndex reads an element table from a YAML file. A missing or broken file
// falls back to the static table so fusion up to iron keeps working.
func LoadIndex(path string) *Index {
	idx, err := ParseElementFile(path)
	if err != nil {
		slog.Warn("element table unavailable, using static table", "path", path, "error", err)
		return StaticIndex()
	}
	return idx
}

// ParseElementFile reads and validates an element YAML file.
func ParseElementFile(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var ef ElementFile
	if err := yaml.Unmarshal(data, &ef); err != nil {
		return nil, fmt.Errorf("parse element YAML: %w", err)
	}
	if len(ef.Elements) == 0 {
		return nil, fmt.Errorf("parse element YAML: no elements in %s", path)
	}
	return NewIndex(ef.Elements)
}

var staticElements = []Element{
	{1, "H", "Hydrogen", 1, 2},
	{2, "He", "Helium", 1, 4},
	{3, "Li", "Lithium", 2, 3},
	{4, "Be", "Beryllium", 2, 5},
	{5, "B", "Boron", 3, 5},
	{6, "C", "Carbon", 3, 7},
	{7, "N", "Nitrogen", 4, 6},
	{8, "O", "Oxygen", 5, 6},
	{9, "F", "Fluorine", 6, 5},
	{10, "Ne", "Neon", 4, 9},
	{11, "Na", "Sodium", 6, 7},
	{12, "Mg", "Magnesium", 6, 9},
	{13, "Al", "Aluminium", 7, 9},
	{14, "Si", "Silicon", 7, 10},
	{15, "P", "Phosphorus", 8, 9},
	{16, "S", "Sulfur", 8, 10},
	{17, "Cl", "Chlorine", 9, 9},
	{18, "Ar", "Argon", 7, 13},
	{19, "K", "Potassium", 10, 10},
	{20, "Ca", "Calcium", 10, 12},
	{21, "Sc", "Scandium", 11, 12},
	{22, "Ti", "Titanium", 11, 14},
	{23, "V", "Vanadium", 12, 13},
	{24, "Cr", "Chromium", 12, 15},
	{25, "Mn", "Manganese", 13, 14},
	{26, "Fe", "Iron", 14, 16},
}
