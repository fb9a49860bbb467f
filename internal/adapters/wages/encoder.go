// Package wages encodes employee rows into the 150-character quarterly wages
// record and assembles them into a submission file.
package wages

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/csg33k/wages-generator/internal/adapters/wages/spec"
	"github.com/csg33k/wages-generator/internal/domain"
)

const (
	dateLayout = "060102" // yyMMdd
	timeLayout = "150405" // HHmmss
)

type Encoder struct {
	fields   []spec.Field
	fallback NumberFormat
}

type Option func(*Encoder)

// WithFallbackLocale sets the number format tried when a salary does not
// parse in the invariant format.
func WithFallbackLocale(nf NumberFormat) Option {
	return func(e *Encoder) { e.fallback = nf }
}

func New(opts ...Option) *Encoder {
	e := &Encoder{fields: spec.Layout(), fallback: locales["es"]}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Encode builds the record for one row. now supplies the date and time
// stamps; batch is the raw batch number shared by the whole file. The first
// invalid field aborts the row with a *ValidationError.
func (e *Encoder) Encode(row domain.InputRow, now time.Time, batch string) (*domain.EncodedRecord, error) {
	n := row.RowNumber

	name, err := ParseName(n, row.FullName)
	if err != nil {
		return nil, err
	}
	ssn, err := NormalizeSSN(n, row.SSN)
	if err != nil {
		return nil, err
	}
	quarter, err := BuildQuarter(n, row.QuarterCode)
	if err != nil {
		return nil, err
	}
	salary, err := BuildSalary(n, row.Salary, e.fallback)
	if err != nil {
		return nil, err
	}
	account, err := BuildAccount(n, row.AccountNumber)
	if err != nil {
		return nil, err
	}
	batchField, err := BuildBatch(n, batch)
	if err != nil {
		return nil, err
	}

	date := now.Format(dateLayout)

	b := newRecordBuf(e.fields, n)
	b.put("SSN", ssn)
	b.put("PaternalShort", name.PaternalLast)
	b.put("Date", date)
	b.put("Time", now.Format(timeLayout))
	b.put("Quarter", quarter)
	b.put("Salary", salary)
	b.put("Account", account)
	b.put("Batch", batchField)
	b.put("BatchDate", date)
	b.put("FirstName", name.First)
	b.put("MiddleInitial", name.MiddleInitial)
	b.put("PaternalLastName", name.PaternalLast)
	b.put("MaternalLastName", name.MaternalLast)
	return b.record()
}

// EncodeAll encodes rows in order and stops at the first error, so a file
// is only ever produced from a fully valid batch.
func (e *Encoder) EncodeAll(ctx context.Context, rows []domain.InputRow, now time.Time, batch string) ([]domain.EncodedRecord, error) {
	out := make([]domain.EncodedRecord, 0, len(rows))
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, err := e.Encode(row, now, batch)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Record buffer
// ---------------------------------------------------------------------------

type recordBuf struct {
	fields []spec.Field
	row    int
	values map[string]string
}

func newRecordBuf(fields []spec.Field, row int) *recordBuf {
	return &recordBuf{fields: fields, row: row, values: make(map[string]string, len(fields))}
}

// put stores the raw value of a derived or stamped field.
// Panics on unknown or literal fields: an encoder bug, not user error.
func (b *recordBuf) put(name, value string) {
	f, ok := spec.Find(b.fields, name)
	if !ok {
		panic(fmt.Sprintf("wages: field %q not found in layout (encoder bug)", name))
	}
	if f.Type == spec.Fixed {
		panic(fmt.Sprintf("wages: field %q is a literal (encoder bug)", name))
	}
	b.values[name] = value
}

// record renders every field in layout order, checks each width, then the
// line width.
func (b *recordBuf) record() (*domain.EncodedRecord, error) {
	slots := make([]domain.FieldSlot, 0, len(b.fields))
	var line strings.Builder
	for _, f := range b.fields {
		var v string
		switch f.Type {
		case spec.Fixed:
			v = f.Literal
		case spec.Stamp:
			v = b.mustValue(f.Name)
		default:
			v = Format(b.mustValue(f.Name), f.Len, f.Align, f.Pad)
		}
		slot := domain.FieldSlot{Index: f.Index, Name: f.Name, ExpectedLength: f.Len, Value: v}
		if got := slot.ActualLength(); got != f.Len {
			return nil, &ConsistencyError{Row: b.row, Field: f.Index, Got: got, Want: f.Len}
		}
		slots = append(slots, slot)
		line.WriteString(v)
	}
	out := line.String()
	if got := len([]rune(out)); got != spec.RecordLen {
		return nil, &ConsistencyError{Row: b.row, Got: got, Want: spec.RecordLen}
	}
	return &domain.EncodedRecord{RowNumber: b.row, Line: out, Fields: slots}, nil
}

func (b *recordBuf) mustValue(name string) string {
	v, ok := b.values[name]
	if !ok {
		panic(fmt.Sprintf("wages: field %q was never set (encoder bug)", name))
	}
	return v
}
