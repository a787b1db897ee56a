// Package inspector renders entity components as text, driven by `inspect`
// struct tags on the component types.
package inspector

import (
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/pthm-cable/habitat/components"
)

// Inspector writes component panels for entities.
type Inspector struct {
	w        io.Writer
	barWidth int
}

// New creates an inspector writing to w.
func New(w io.Writer) *Inspector {
	return &Inspector{w: w, barWidth: 20}
}

// Section is one component's rendered fields.
type Section struct {
	Name  string
	Lines []string
}

// Sections renders every component present in b, in component type order.
// Components without visible fields are listed with no lines.
func (ins *Inspector) Sections(b components.Bundle) []Section {
	v := reflect.ValueOf(b)
	t := v.Type()

	var out []Section
	for i := 0; i < v.NumField(); i++ {
		fv := v.Field(i)
		if fv.Kind() != reflect.Ptr || fv.IsNil() {
			continue
		}

		sec := Section{Name: t.Field(i).Name}
		for _, f := range fields(fv) {
			sec.Lines = append(sec.Lines, ins.render(f))
		}
		out = append(out, sec)
	}
	return out
}

// Print writes the panel for one entity.
func (ins *Inspector) Print(id uint32, b components.Bundle) error {
	var sb strings.Builder

	title := fmt.Sprintf("Entity %d", id)
	if b.Species != nil {
		title += " (" + b.Species.Kind.String() + ")"
	}
	sb.WriteString(title + "\n")
	sb.WriteString(strings.Repeat("=", len(title)) + "\n")

	for _, sec := range ins.Sections(b) {
		sb.WriteString(sec.Name + "\n")
		for _, line := range sec.Lines {
			sb.WriteString("  " + line + "\n")
		}
	}

	_, err := io.WriteString(ins.w, sb.String())
	return err
}

func (ins *Inspector) render(f Field) string {
	switch f.Tag.Widget {
	case WidgetBar:
		if v, ok := floatOf(f.Value); ok {
			return Bar(f.Name, v, f.Max, ins.barWidth)
		}
	case WidgetAngle:
		if v, ok := floatOf(f.Value); ok {
			return Angle(f.Name, v)
		}
	case WidgetBool:
		if f.Value.Kind() == reflect.Bool {
			return Bool(f.Name, f.Value.Bool())
		}
	}
	return Label(f.Name, formatValue(f.Value, f.Tag.Format))
}
