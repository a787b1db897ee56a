package inspector

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Widget selects how a component field is rendered.
type Widget int

const (
	WidgetAuto Widget = iota
	WidgetLabel
	WidgetBar
	WidgetAngle
	WidgetBool
	WidgetSkip
)

var widgetNames = map[string]Widget{
	"label": WidgetLabel,
	"bar":   WidgetBar,
	"angle": WidgetAngle,
	"bool":  WidgetBool,
	"skip":  WidgetSkip,
}

// Tag is a parsed `inspect` struct tag:
//
//	`inspect:"bar"`            bar over [0, 1]
//	`inspect:"bar,max:200"`    bar over [0, 200]
//	`inspect:"bar,max:MaxAge"` bar over [0, value of sibling field MaxAge]
//	`inspect:"label,fmt:%.1f"`
type Tag struct {
	Widget   Widget
	Format   string
	Max      float32
	MaxField string
}

// ParseTag parses an inspect tag. Unknown widgets fall back to WidgetAuto
// and unknown options are ignored.
func ParseTag(tag string) Tag {
	parts := strings.Split(tag, ",")
	t := Tag{Widget: widgetNames[strings.TrimSpace(parts[0])], Max: 1}

	for _, part := range parts[1:] {
		key, val, ok := strings.Cut(strings.TrimSpace(part), ":")
		if !ok {
			continue
		}
		switch key {
		case "fmt":
			t.Format = val
		case "max":
			if f, err := strconv.ParseFloat(val, 32); err == nil {
				t.Max = float32(f)
			} else {
				t.MaxField = val
			}
		}
	}
	return t
}

// Field is one visible component field, with its bar maximum resolved.
type Field struct {
	Name  string
	Value reflect.Value
	Tag   Tag
	Max   float32
}

// fields lists the visible fields of a component struct in declaration
// order. Pointers are followed; anything else yields nothing.
func fields(component reflect.Value) []Field {
	if component.Kind() == reflect.Ptr {
		if component.IsNil() {
			return nil
		}
		component = component.Elem()
	}
	if component.Kind() != reflect.Struct {
		return nil
	}

	typ := component.Type()
	var out []Field
	for i := 0; i < typ.NumField(); i++ {
		sf := typ.Field(i)
		if !sf.IsExported() {
			continue
		}
		tag := ParseTag(sf.Tag.Get("inspect"))
		if tag.Widget == WidgetSkip {
			continue
		}

		fv := component.Field(i)
		if tag.Widget == WidgetAuto {
			tag.Widget = WidgetLabel
			if fv.Kind() == reflect.Bool {
				tag.Widget = WidgetBool
			}
		}

		limit := tag.Max
		if tag.MaxField != "" {
			if m, ok := floatOf(component.FieldByName(tag.MaxField)); ok {
				limit = m
			}
		}
		out = append(out, Field{Name: sf.Name, Value: fv, Tag: tag, Max: limit})
	}
	return out
}

// formatValue renders v with format, or with two decimals for floats.
// A nil pointer renders as "-".
func formatValue(v reflect.Value, format string) string {
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return "-"
		}
		v = v.Elem()
	}
	if format != "" {
		return fmt.Sprintf(format, v.Interface())
	}
	if v.Kind() == reflect.Float32 || v.Kind() == reflect.Float64 {
		return strconv.FormatFloat(v.Float(), 'f', 2, 64)
	}
	return fmt.Sprint(v.Interface())
}

// floatOf reads a numeric field as float32.
func floatOf(v reflect.Value) (float32, bool) {
	switch v.Kind() {
	case reflect.Float32, reflect.Float64:
		return float32(v.Float()), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float32(v.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float32(v.Uint()), true
	}
	return 0, false
}
