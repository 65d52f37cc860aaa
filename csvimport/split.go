package csvimport

import (
	"strings"
)

// Splitter cuts a delimited line into fields.
//
// Any protector character opens a protected span, where the delimiter is kept
// in the field, and the next protector closes it. Protectors never appear in
// the fields. A trailing delimiter does not produce an empty last field.
type Splitter struct {
	Delimiter  rune
	Protectors string
}

// Split returns the fields of line, after trimming surrounding blanks.
func (s Splitter) Split(line string) []string {
	line = strings.TrimSpace(line)
	var fields []string
	var field strings.Builder
	protected := false
	for _, c := range line {
		switch {
		case !protected && c == s.Delimiter:
			fields = append(fields, field.String())
			field.Reset()
		case strings.ContainsRune(s.Protectors, c):
			protected = !protected
		default:
			field.WriteRune(c)
		}
	}
	if !strings.HasSuffix(line, string(s.Delimiter)) || protected {
		fields = append(fields, field.String())
	}
	return fields
}

// SymbolMapper turns broker symbols into asset names.
type SymbolMapper struct {
	StripSuffixes []string          // series suffixes removed first, like "-BE".
	Map           map[string]string // renames applied after the suffixes.
}

// Normalize returns the asset name of symbol.
func (m SymbolMapper) Normalize(symbol string) string {
	symbol = strings.TrimSpace(symbol)
	for _, suffix := range m.StripSuffixes {
		if s, ok := strings.CutSuffix(symbol, suffix); ok {
			symbol = s
			break
		}
	}
	if name, ok := m.Map[symbol]; ok {
		return name
	}
	return symbol
}
