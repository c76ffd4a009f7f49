// Package csvimport parses delimited reservation exports (Airbnb/Booking CSV
// downloads and similar) into reservation candidates. The format is never
// declared: the delimiter is voted on, columns are located by fuzzy header
// synonyms, and property names are matched by normalized substring.
package csvimport

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"limpiabnb-backend/internal/model"
)

// ErrInvalidImport is returned when the document cannot yield a single
// reservation: too few lines, required columns missing, or no parseable rows.
// No partial import occurs.
var ErrInvalidImport = errors.New("import format invalid")

// Result is the outcome of a successful import parse.
type Result struct {
	Reservations []model.Reservation
	Count        int
	Type         string
}

var (
	nonAlnumRe    = regexp.MustCompile(`[^a-z0-9\s]`)
	whitespaceRe  = regexp.MustCompile(`\s+`)
	lineBreakRe   = regexp.MustCompile(`\r?\n`)
	dateCleanupRe = regexp.MustCompile(`\s+`)
)

// Column synonym sets, tested by substring membership against normalized
// header cells. Spanish first: the exports this tool sees are mostly Spanish.
var (
	codeSynonyms     = []string{"codigo", "confirmation", "conf"}
	propertySynonyms = []string{"anuncio", "listing", "propiedad", "habitacion"}
	guestSynonyms    = []string{"huesped", "nombre", "guest", "persona"}
	checkInSynonyms  = []string{"llegada", "inicio", "start", "check in"}
	checkOutSynonyms = []string{"salida", "finalizacion", "end", "check out"}
	adultsSynonyms   = []string{"adultos", "adults"}
	childrenSynonyms = []string{"ninos", "children"}
)

const defaultGuestName = "Huésped CSV"

// Parse converts a delimited text document into reservation candidates,
// matching each row to one of the known properties by fuzzy name comparison.
func Parse(content string, properties []model.Property) (*Result, error) {
	var rawLines []string
	for _, line := range lineBreakRe.Split(content, -1) {
		line = strings.TrimSpace(line)
		if line != "" {
			rawLines = append(rawLines, line)
		}
	}
	if len(rawLines) < 2 {
		return nil, fmt.Errorf("%w: need a header and at least one row", ErrInvalidImport)
	}

	firstLine := strings.TrimPrefix(rawLines[0], "\uFEFF")
	delimiter := detectDelimiter(firstLine)

	rawHeaders := strings.Split(firstLine, delimiter)
	headers := make([]string, len(rawHeaders))
	for i, h := range rawHeaders {
		headers[i] = Normalize(strings.TrimSpace(h))
	}

	codeIdx := findColumn(headers, codeSynonyms)
	propIdx := findColumn(headers, propertySynonyms)
	guestIdx := findColumn(headers, guestSynonyms)
	startIdx := findColumn(headers, checkInSynonyms)
	endIdx := findColumn(headers, checkOutSynonyms)
	adultsIdx := findColumn(headers, adultsSynonyms)
	childrenIdx := findColumn(headers, childrenSynonyms)

	if startIdx == -1 || propIdx == -1 {
		return nil, fmt.Errorf("%w: check-in and property columns are required", ErrInvalidImport)
	}

	var reservations []model.Reservation
	for index, line := range rawLines[1:] {
		vals := splitFields(line, rune(delimiter[0]))
		if len(vals) < len(headers) {
			continue
		}

		propRaw := at(vals, propIdx)
		if propRaw == "" {
			continue
		}

		propertyID := MatchProperty(propRaw, properties)

		guests := atoiOrZero(at(vals, adultsIdx)) + atoiOrZero(at(vals, childrenIdx))
		if guests == 0 {
			guests = 1
		}

		guestName := at(vals, guestIdx)
		if guestName == "" {
			guestName = defaultGuestName
		}

		code := at(vals, codeIdx)
		if code == "" {
			code = fmt.Sprintf("CSV-%d-%d", index, time.Now().UnixMilli())
		}

		reservations = append(reservations, model.Reservation{
			ReservationCode: code,
			PropertyID:      propertyID,
			SourceID:        model.SourceManual,
			GuestName:       strings.ToUpper(guestName),
			CheckIn:         normalizeDate(at(vals, startIdx)),
			CheckOut:        normalizeDate(at(vals, endIdx)),
			GuestCount:      guests,
			Status:          model.StatusUpcoming,
		})
	}

	if len(reservations) == 0 {
		return nil, fmt.Errorf("%w: no parseable rows", ErrInvalidImport)
	}

	return &Result{
		Reservations: reservations,
		Count:        len(reservations),
		Type:         "Reservas CSV",
	}, nil
}

// detectDelimiter picks whichever of comma, semicolon, tab splits the header
// into the most fields. Comma wins ties.
func detectDelimiter(header string) string {
	best := ","
	for _, candidate := range []string{";", "\t"} {
		if len(strings.Split(header, candidate)) > len(strings.Split(header, best)) {
			best = candidate
		}
	}
	return best
}

// Normalize lowercases, strips diacritics and non-alphanumerics, and
// collapses whitespace, so that "Código" and "codigo" compare equal.
func Normalize(s string) string {
	s = strings.ToLower(s)
	s = stripDiacritics(s)
	s = nonAlnumRe.ReplaceAllString(s, " ")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

func stripDiacritics(s string) string {
	decomposed := norm.NFD.String(s)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// MatchProperty resolves a raw property cell to a known property ID. The
// normalized row text may equal, contain, or be contained by the normalized
// property name; first match wins. With no match, the first known property is
// assumed; with no properties at all, the manual sentinel.
func MatchProperty(raw string, properties []model.Property) string {
	rowNorm := Normalize(raw)
	for _, p := range properties {
		propNorm := Normalize(p.Name)
		if rowNorm == propNorm || strings.Contains(rowNorm, propNorm) || strings.Contains(propNorm, rowNorm) {
			return p.ID
		}
	}
	if len(properties) > 0 {
		return properties[0].ID
	}
	return model.SourceManual
}

func findColumn(headers []string, synonyms []string) int {
	for i, h := range headers {
		for _, syn := range synonyms {
			if strings.Contains(h, syn) {
				return i
			}
		}
	}
	return -1
}

// splitFields is a quoted-field-aware splitter: a double quote toggles the
// in-quotes state, and the delimiter is literal while inside quotes. One
// leading and one trailing quote are stripped per field.
func splitFields(line string, delimiter rune) []string {
	var vals []string
	var current strings.Builder
	inQuotes := false

	for _, ch := range line {
		switch {
		case ch == '"':
			inQuotes = !inQuotes
		case ch == delimiter && !inQuotes:
			vals = append(vals, cleanField(current.String()))
			current.Reset()
		default:
			current.WriteRune(ch)
		}
	}
	vals = append(vals, cleanField(current.String()))
	return vals
}

func cleanField(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, `"`)
	s = strings.TrimSuffix(s, `"`)
	return s
}

// normalizeDate accepts YYYY-MM-DD / YYYY/MM/DD / DD-MM-YYYY / DD/MM/YYYY,
// disambiguated by whether the first component has four digits, and returns
// the dashed zero-padded form. Unrecognized shapes pass through cleaned.
func normalizeDate(d string) string {
	if d == "" {
		return ""
	}
	clean := dateCleanupRe.ReplaceAllString(d, "")
	clean = strings.ReplaceAll(clean, "/", "-")
	parts := strings.Split(clean, "-")
	if len(parts) != 3 {
		return clean
	}
	if len(parts[0]) == 4 {
		return clean
	}
	return parts[2] + "-" + pad2(parts[1]) + "-" + pad2(parts[0])
}

func pad2(s string) string {
	if len(s) < 2 {
		return "0" + s
	}
	return s
}

func at(vals []string, idx int) string {
	if idx >= 0 && idx < len(vals) {
		return vals[idx]
	}
	return ""
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
