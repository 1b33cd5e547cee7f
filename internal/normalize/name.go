package normalize

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sells-group/customer360-cli/internal/table"
)

// ParsedName holds the decomposed parts of a person name. Unparseable parts
// are null.
type ParsedName struct {
	First table.Value
	Last  table.Value
	Full  table.Value
}

// NameParser decomposes a free-text person name. Implementations must not
// panic; names they cannot parse report ok=false and the caller records
// nulls for that row.
type NameParser interface {
	Parse(name string) (ParsedName, bool)
}

// WhitespaceNameParser is the default NameParser: it splits on whitespace,
// takes the first token as the first name and the last token as the last
// name, and title-cases the standardized full name.
type WhitespaceNameParser struct {
	caser cases.Caser
}

// NewWhitespaceNameParser returns a ready-to-use parser.
func NewWhitespaceNameParser() *WhitespaceNameParser {
	return &WhitespaceNameParser{caser: cases.Title(language.English)}
}

// Parse implements NameParser.
func (p *WhitespaceNameParser) Parse(name string) (ParsedName, bool) {
	tokens := strings.Fields(name)
	if len(tokens) == 0 {
		return ParsedName{First: table.Null(), Last: table.Null(), Full: table.Null()}, false
	}

	parsed := ParsedName{
		First: table.String(p.caser.String(strings.ToLower(tokens[0]))),
		Last:  table.Null(),
		Full:  table.String(p.caser.String(strings.ToLower(strings.Join(tokens, " ")))),
	}
	if len(tokens) > 1 {
		parsed.Last = table.String(p.caser.String(strings.ToLower(tokens[len(tokens)-1])))
	}
	return parsed, true
}

// StandardizeNames decomposes each value with the given parser. Null, empty,
// and unparseable values yield nulls for all three parts of that row only.
func StandardizeNames(vals []table.Value, parser NameParser) []ParsedName {
	out := make([]ParsedName, len(vals))
	for i, v := range vals {
		if !v.Valid || strings.TrimSpace(v.Str) == "" {
			out[i] = ParsedName{First: table.Null(), Last: table.Null(), Full: table.Null()}
			continue
		}
		parsed, ok := parser.Parse(v.Str)
		if !ok {
			out[i] = ParsedName{First: table.Null(), Last: table.Null(), Full: table.Null()}
			continue
		}
		out[i] = parsed
	}
	return out
}
