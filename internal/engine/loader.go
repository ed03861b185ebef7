package engine

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrMalformedCSV is returned by LoadProfile for content it cannot parse.
var ErrMalformedCSV = errors.New("engine: malformed csv")

// fixedColumns precede the quantity columns in every profile file.
const fixedColumns = 4

var (
	fieldSep = []byte{','}
	listSep  = []byte{';'}
)

// --- 1. FAST PARSERS ---

// fastUint8 parses "123" -> 123.
func fastUint8(b []byte) (uint8, bool) {
	if len(b) == 0 || len(b) > 3 {
		return 0, false
	}
	n := 0
	for _, c := range b {
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	if n > math.MaxUint8 {
		return 0, false
	}
	return uint8(n), true
}

// fastInt8 parses "-9" -> -9.
func fastInt8(b []byte) (int8, bool) {
	neg := false
	if len(b) > 0 && (b[0] == '-' || b[0] == '+') {
		neg = b[0] == '-'
		b = b[1:]
	}
	if len(b) == 0 || len(b) > 3 {
		return 0, false
	}
	n := 0
	for _, c := range b {
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	if neg {
		n = -n
	}
	if n < math.MinInt8 || n > math.MaxInt8 {
		return 0, false
	}
	return int8(n), true
}

var pow10 = [...]float64{1, 1e1, 1e2, 1e3, 1e4, 1e5, 1e6, 1e7, 1e8, 1e9, 1e10, 1e11, 1e12, 1e13, 1e14, 1e15}

// fastFloat parses "123.45" -> 123.45. Anything beyond a signed decimal of
// at most 15 digits goes through strconv.
func fastFloat(b []byte) (float64, bool) {
	s := b
	neg := false
	if len(s) > 0 && (s[0] == '-' || s[0] == '+') {
		neg = s[0] == '-'
		s = s[1:]
	}
	var mantissa int64
	digits, scale := 0, 0
	dot := false
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
			mantissa = mantissa*10 + int64(c-'0')
			digits++
			if dot {
				scale++
			}
		case c == '.' && !dot:
			dot = true
		default:
			digits = len(pow10) // not a plain decimal
		}
		if digits >= len(pow10) {
			v, err := strconv.ParseFloat(string(b), 64)
			return v, err == nil
		}
	}
	if digits == 0 {
		return 0, false
	}
	v := float64(mantissa) / pow10[scale]
	if neg {
		v = -v
	}
	return v, true
}

// --- 2. CHUNKING ---

// splitChunks cuts content into at most n pieces that end on line
// boundaries.
func splitChunks(content []byte, n int) [][]byte {
	size := len(content) / n
	chunks := make([][]byte, 0, n)
	for i := 0; i < n; i++ {
		start := alignLine(content, i*size)
		end := len(content)
		if i < n-1 {
			end = alignLine(content, (i+1)*size)
		}
		if start < end {
			chunks = append(chunks, content[start:end])
		}
	}
	return chunks
}

// alignLine moves pos past the next newline. Both ends of neighbouring
// chunks go through it, so every line lands in exactly one chunk.
func alignLine(content []byte, pos int) int {
	if pos == 0 || pos >= len(content) {
		return min(pos, len(content))
	}
	if i := bytes.IndexByte(content[pos:], '\n'); i != -1 {
		return pos + i + 1
	}
	return len(content)
}

// eachLine calls fn with every non-blank line of chunk.
func eachLine(chunk []byte, fn func(line []byte) error) error {
	pos := 0
	for pos < len(chunk) {
		next := len(chunk)
		if i := bytes.IndexByte(chunk[pos:], '\n'); i != -1 {
			next = pos + i
		}
		line := bytes.TrimSpace(chunk[pos:next])
		pos = next + 1
		if len(line) == 0 {
			continue
		}
		if err := fn(line); err != nil {
			return err
		}
	}
	return nil
}

// --- 3. ROW PARSING ---

func splitList(b []byte) [][]byte {
	if len(b) == 0 {
		return nil
	}
	items := bytes.Split(b, listSep)
	for i := range items {
		items[i] = bytes.TrimSpace(items[i])
	}
	return items
}

// parseBonds zips the three ';' separated lists. An empty list stands for
// as many nulls as the others have elements.
func parseBonds(index, isomerism, unsaturation []byte) ([]bond, error) {
	lists := [3][][]byte{splitList(index), splitList(isomerism), splitList(unsaturation)}
	n := 0
	for _, l := range lists {
		if len(l) == 0 {
			continue
		}
		if n != 0 && len(l) != n {
			return nil, fmt.Errorf("%w: bond lists differ in length", ErrMalformedCSV)
		}
		n = len(l)
	}
	bonds := make([]bond, n)
	for i, f := range lists[0] {
		if len(f) == 0 {
			continue
		}
		v, ok := fastUint8(f)
		if !ok {
			return nil, fmt.Errorf("%w: index %q", ErrMalformedCSV, f)
		}
		bonds[i].index = v
		bonds[i].known |= knownIndex
	}
	for i, f := range lists[1] {
		if len(f) == 0 {
			continue
		}
		v, ok := fastInt8(f)
		if !ok {
			return nil, fmt.Errorf("%w: isomerism %q", ErrMalformedCSV, f)
		}
		bonds[i].isomerism = v
		bonds[i].known |= knownIsomerism
	}
	for i, f := range lists[2] {
		if len(f) == 0 {
			continue
		}
		v, ok := fastUint8(f)
		if !ok {
			return nil, fmt.Errorf("%w: unsaturation %q", ErrMalformedCSV, f)
		}
		bonds[i].unsaturation = v
		bonds[i].known |= knownUnsaturation
	}
	return bonds, nil
}

// table is the loader's struct-of-arrays output, allocated once.
type table struct {
	rows   []row
	values [][]float64
	valid  [][]bool
}

func newTable(rows, columns int) *table {
	t := &table{
		rows:   make([]row, rows),
		values: make([][]float64, columns),
		valid:  make([][]bool, columns),
	}
	for j := range t.values {
		t.values[j] = make([]float64, rows)
		t.valid[j] = make([]bool, rows)
	}
	return t
}

// parseLine hops over the fields of one line with bytes.Cut. Empty fields
// are null.
func (t *table) parseLine(line []byte, at int) error {
	r := &t.rows[at]
	rest := line

	// 0: Carbons
	field, rest, _ := bytes.Cut(rest, fieldSep)
	if field = bytes.TrimSpace(field); len(field) > 0 {
		v, ok := fastUint8(field)
		if !ok {
			return fmt.Errorf("%w: carbons %q", ErrMalformedCSV, field)
		}
		r.carbons, r.hasCarbons = v, true
	}

	// 1-3: Index, Isomerism, Unsaturation
	index, rest, _ := bytes.Cut(rest, fieldSep)
	isomerism, rest, _ := bytes.Cut(rest, fieldSep)
	unsaturation, rest, _ := bytes.Cut(rest, fieldSep)
	bonds, err := parseBonds(bytes.TrimSpace(index), bytes.TrimSpace(isomerism), bytes.TrimSpace(unsaturation))
	if err != nil {
		return err
	}
	r.bonds = bonds

	// 4..: Quantities
	for j := range t.values {
		field, rest, _ = bytes.Cut(rest, fieldSep)
		if field = bytes.TrimSpace(field); len(field) == 0 {
			continue
		}
		v, ok := fastFloat(field)
		if !ok {
			return fmt.Errorf("%w: value %q", ErrMalformedCSV, field)
		}
		t.values[j][at] = v
		t.valid[j][at] = true
	}
	return nil
}

func parseHeader(header []byte) ([]string, error) {
	fields := bytes.Split(bytes.TrimSpace(header), fieldSep)
	if len(fields) < fixedColumns {
		return nil, fmt.Errorf("%w: header has %d columns, want at least %d", ErrMalformedCSV, len(fields), fixedColumns)
	}
	names := make([]string, 0, len(fields)-fixedColumns)
	for _, f := range fields[fixedColumns:] {
		name := string(bytes.TrimSpace(f))
		if name == "" {
			return nil, fmt.Errorf("%w: empty column name", ErrMalformedCSV)
		}
		names = append(names, name)
	}
	return names, nil
}

// --- 4. MAIN LOADER ---

// LoadProfile parses a profile file into a record with a ColumnName column
// followed by one float64 column per quantity.
//
// The header names the columns; the first four are carbons, index,
// isomerism and unsaturation, the rest are quantities. List fields separate
// bonds with ';', a negative isomerism is trans and an empty field is null:
//
//	carbons,index,isomerism,unsaturation,Mean
//	18,9;12,1;1,,15.2
//	18,9,-1,1,0.8
func LoadProfile(content []byte, opts ...Option) (arrow.Record, error) {
	start := time.Now()
	o := newOptions(opts)

	// A. Header
	header, body, _ := bytes.Cut(content, []byte{'\n'})
	names, err := parseHeader(header)
	if err != nil {
		return nil, err
	}

	chunks := splitChunks(body, o.workers)

	// B. Count Rows (Parallel) for Exact Allocation
	rowCounts := make([]int, len(chunks))
	var count errgroup.Group
	for i, chunk := range chunks {
		count.Go(func() error {
			return eachLine(chunk, func([]byte) error {
				rowCounts[i]++
				return nil
			})
		})
	}
	_ = count.Wait()

	offsets := make([]int, len(chunks))
	totalRows := 0
	for i, c := range rowCounts {
		offsets[i] = totalRows
		totalRows += c
	}

	// C. Allocate ONCE, then parse in parallel into disjoint ranges
	t := newTable(totalRows, len(names))
	var parse errgroup.Group
	for i, chunk := range chunks {
		parse.Go(func() error {
			at := offsets[i]
			return eachLine(chunk, func(line []byte) error {
				if err := t.parseLine(line, at); err != nil {
					return fmt.Errorf("data row %d: %w", at+1, err)
				}
				at++
				return nil
			})
		})
	}
	if err := parse.Wait(); err != nil {
		return nil, err
	}

	// D. Build Arrow columns
	rec := t.record(o, names)
	o.logger.Info("profile loaded",
		zap.Int("rows", totalRows),
		zap.Strings("quantities", names),
		zap.Int("workers", len(chunks)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return rec, nil
}

func (t *table) record(o options, names []string) arrow.Record {
	fields := make([]arrow.Field, 0, 1+len(names))
	columns := make([]arrow.Array, 0, 1+len(names))

	fb := NewColumnBuilder(o.mem)
	defer fb.Release()
	for _, r := range t.rows {
		fb.appendRow(r)
	}
	fields = append(fields, FattyAcidField())
	columns = append(columns, fb.NewArray())

	for j, name := range names {
		vb := array.NewFloat64Builder(o.mem)
		vb.AppendValues(t.values[j], t.valid[j])
		fields = append(fields, arrow.Field{Name: name, Type: arrow.PrimitiveTypes.Float64, Nullable: true})
		columns = append(columns, vb.NewFloat64Array())
		vb.Release()
	}

	rec := array.NewRecord(arrow.NewSchema(fields, nil), columns, int64(len(t.rows)))
	for _, c := range columns {
		c.Release()
	}
	return rec
}
