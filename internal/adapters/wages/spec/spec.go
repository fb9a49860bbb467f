// Package spec defines the quarterly wages record layout: 27 positional
// fields, 150 characters per line. The layout is fixed; nothing here is
// configurable at runtime.
package spec

import "fmt"

const (
	RecordLen  = 150
	FieldCount = 27
)

type Field struct {
	Index       int
	Name        string
	Len         int
	Type        FieldType
	Align       Align
	Pad         rune
	Literal     string // set only for Fixed fields
	Description string
}

type FieldType int

const (
	Derived FieldType = iota // computed from the input row, aligned by the codec
	Fixed                    // literal constant
	Stamp                    // date/time taken from the run timestamp
)

type Align int

const (
	Left  Align = iota // pad on the right
	Right              // pad on the left
)

// Start returns the 1-based position of the first character of the field.
func (f Field) Start() int {
	start := 1
	for _, g := range layout[:f.Index-1] {
		start += g.Len
	}
	return start
}

// End returns the 1-based position of the last character of the field.
func (f Field) End() int { return f.Start() + f.Len - 1 }

// Layout returns a copy of the record layout in output order.
func Layout() []Field {
	out := make([]Field, len(layout))
	copy(out, layout)
	return out
}

// Find returns the field of fields with the given name.
func Find(fields []Field, name string) (Field, bool) {
	for _, f := range fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Verify checks the static invariants of a layout: indexes are 1..27 in
// order, fixed literals match their width, and the widths sum to RecordLen.
func Verify(fields []Field) error {
	if len(fields) != FieldCount {
		return fmt.Errorf("layout has %d fields, want %d", len(fields), FieldCount)
	}
	total := 0
	for i, f := range fields {
		if f.Index != i+1 {
			return fmt.Errorf("field %q: index %d at position %d", f.Name, f.Index, i+1)
		}
		if f.Len <= 0 {
			return fmt.Errorf("field %d %q: non-positive width %d", f.Index, f.Name, f.Len)
		}
		if f.Type == Fixed && len([]rune(f.Literal)) != f.Len {
			return fmt.Errorf("field %d %q: literal %q is %d wide, want %d",
				f.Index, f.Name, f.Literal, len([]rune(f.Literal)), f.Len)
		}
		total += f.Len
	}
	if total != RecordLen {
		return fmt.Errorf("layout widths sum to %d, want %d", total, RecordLen)
	}
	return nil
}

func init() {
	if err := Verify(layout); err != nil {
		panic("spec: " + err.Error())
	}
}

//	 1-  9  SSN                 right, '0'
//	10      Blank2              ' '
//	11- 12  FormCode            'W4'
//	13- 16  PaternalShort       left, ' '
//	17- 24  EmployerCode        '12345678'
//	25- 28  SystemCode          'SWCA'
//	29- 34  Date                yyMMdd
//	35- 40  Time                HHmmss
//	41- 43  Quarter             left, ' '
//	44      RecordType          '2'
//	45- 51  Salary              right, '0'
//	52- 60  Account             left, ' '
//	61- 64  Blank13             spaces
//	65- 72  Zeros14             '00000000'
//	73- 74  Blank15             spaces
//	75      Indicator           '1'
//	76- 81  Batch               six characters
//	82- 87  BatchDate           yyMMdd
//	88- 90  Zeros19             '000'
//	91- 93  Zeros20             '000'
//	94- 95  Code21              '04'
//	96-111  FirstName           left, ' '
//	112     MiddleInitial       left, ' '
//	113-128 PaternalLastName    left, ' '
//	129-144 MaternalLastName    left, ' '
//	145     Flag                'N'
//	146-150 Blank27             spaces
var layout = []Field{
	{Index: 1, Name: "SSN", Len: 9, Type: Derived, Align: Right, Pad: '0', Description: "SSN digits"},
	{Index: 2, Name: "Blank2", Len: 1, Type: Fixed, Literal: " "},
	{Index: 3, Name: "FormCode", Len: 2, Type: Fixed, Literal: "W4"},
	{Index: 4, Name: "PaternalShort", Len: 4, Type: Derived, Align: Left, Pad: ' ', Description: "Paternal last name, first four characters"},
	{Index: 5, Name: "EmployerCode", Len: 8, Type: Fixed, Literal: "12345678"},
	{Index: 6, Name: "SystemCode", Len: 4, Type: Fixed, Literal: "SWCA"},
	{Index: 7, Name: "Date", Len: 6, Type: Stamp, Description: "Run date yyMMdd"},
	{Index: 8, Name: "Time", Len: 6, Type: Stamp, Description: "Run time HHmmss"},
	{Index: 9, Name: "Quarter", Len: 3, Type: Derived, Align: Left, Pad: ' ', Description: "Quarter code"},
	{Index: 10, Name: "RecordType", Len: 1, Type: Fixed, Literal: "2"},
	{Index: 11, Name: "Salary", Len: 7, Type: Derived, Align: Right, Pad: '0', Description: "Salary in cents, no decimal point"},
	{Index: 12, Name: "Account", Len: 9, Type: Derived, Align: Left, Pad: ' ', Description: "Employer account number minus last character"},
	{Index: 13, Name: "Blank13", Len: 4, Type: Fixed, Literal: "    "},
	{Index: 14, Name: "Zeros14", Len: 8, Type: Fixed, Literal: "00000000"},
	{Index: 15, Name: "Blank15", Len: 2, Type: Fixed, Literal: "  "},
	{Index: 16, Name: "Indicator", Len: 1, Type: Fixed, Literal: "1"},
	{Index: 17, Name: "Batch", Len: 6, Type: Derived, Align: Right, Pad: '0', Description: "Batch number"},
	{Index: 18, Name: "BatchDate", Len: 6, Type: Stamp, Description: "Run date yyMMdd (repeat)"},
	{Index: 19, Name: "Zeros19", Len: 3, Type: Fixed, Literal: "000"},
	{Index: 20, Name: "Zeros20", Len: 3, Type: Fixed, Literal: "000"},
	{Index: 21, Name: "Code21", Len: 2, Type: Fixed, Literal: "04"},
	{Index: 22, Name: "FirstName", Len: 16, Type: Derived, Align: Left, Pad: ' '},
	{Index: 23, Name: "MiddleInitial", Len: 1, Type: Derived, Align: Left, Pad: ' '},
	{Index: 24, Name: "PaternalLastName", Len: 16, Type: Derived, Align: Left, Pad: ' '},
	{Index: 25, Name: "MaternalLastName", Len: 16, Type: Derived, Align: Left, Pad: ' '},
	{Index: 26, Name: "Flag", Len: 1, Type: Fixed, Literal: "N"},
	{Index: 27, Name: "Blank27", Len: 5, Type: Fixed, Literal: "     "},
}
