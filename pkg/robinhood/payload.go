package robinhood

import (
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
)

// orderedForm is a form-encoded body that keeps fields in declaration order,
// so the same request always serializes to the same bytes.
type orderedForm struct {
	fields []formField
}

type formField struct {
	name  string
	value string
}

func newOrderedForm() *orderedForm { return &orderedForm{} }

func (f *orderedForm) add(name, value string) {
	f.fields = append(f.fields, formField{name: name, value: value})
}

// addOpt appends the field only when a value is present. Optional order
// fields flow through here so null never reaches the wire.
func (f *orderedForm) addOpt(name string, value *string) {
	if value != nil {
		f.add(name, *value)
	}
}

func (f *orderedForm) Encode() string {
	var b strings.Builder
	for i, fd := range f.fields {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(fd.name))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(fd.value))
	}
	return b.String()
}

func decimalString(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}
