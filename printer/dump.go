package printer

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/csurf/csurf/ast"
)

// Dump renders the node structure of a tree, one node per line with
// indentation showing depth. Scalar fields ride on the node's own line
// and child nodes get nested lines. When colorize is set, node type
// names are wrapped in ANSI cyan.
func Dump(tu *ast.TranslationUnit, colorize bool) string {
	d := &dumper{color: colorize}
	d.node("", reflect.ValueOf(tu), 0)
	return d.sb.String()
}

type dumper struct {
	sb    strings.Builder
	color bool
}

var locType = reflect.TypeOf(ast.Loc{})

func (d *dumper) node(label string, v reflect.Value, depth int) {
	for v.Kind() == reflect.Interface || v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return
	}

	scalars, children := d.fields(v)
	head := d.paint(v.Type().Name())
	if label != "" {
		head = label + ": " + head
	}
	if len(scalars) > 0 {
		head += " " + strings.Join(scalars, " ")
	}
	for range depth {
		d.sb.WriteByte('\t')
	}
	d.sb.WriteString(head)
	d.sb.WriteByte('\n')

	for _, c := range children {
		d.node(c.label, c.val, depth+1)
	}
}

type childField struct {
	label string
	val   reflect.Value
}

// fields splits a struct into inline scalars and nested children.
// Embedded structs flatten into their owner; zero locations are elided.
func (d *dumper) fields(v reflect.Value) (scalars []string, children []childField) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		fv := v.Field(i)
		if !f.IsExported() {
			continue
		}

		if f.Type == locType {
			if loc := fv.Interface().(ast.Loc); loc != (ast.Loc{}) {
				scalars = append(scalars, "loc="+loc.String())
			}
			continue
		}
		if f.Anonymous && fv.Kind() == reflect.Struct {
			es, ec := d.fields(fv)
			scalars = append(scalars, es...)
			children = append(children, ec...)
			continue
		}

		switch fv.Kind() {
		case reflect.String:
			scalars = append(scalars, fmt.Sprintf("%s=%q", f.Name, fv.String()))
		case reflect.Bool:
			scalars = append(scalars, fmt.Sprintf("%s=%v", f.Name, fv.Bool()))
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			if s, ok := fv.Interface().(fmt.Stringer); ok {
				scalars = append(scalars, fmt.Sprintf("%s=%s", f.Name, s))
			} else {
				scalars = append(scalars, fmt.Sprintf("%s=%d", f.Name, fv.Int()))
			}
		case reflect.Slice:
			if fv.Type().Elem().Kind() == reflect.String {
				if fv.Len() > 0 {
					scalars = append(scalars, fmt.Sprintf("%s=%v", f.Name, fv.Interface()))
				}
				continue
			}
			for j := 0; j < fv.Len(); j++ {
				children = append(children, childField{f.Name, fv.Index(j)})
			}
		case reflect.Interface, reflect.Pointer:
			if !fv.IsNil() {
				children = append(children, childField{f.Name, fv})
			}
		case reflect.Struct:
			children = append(children, childField{f.Name, fv})
		}
	}
	return scalars, children
}

func (d *dumper) paint(s string) string {
	if !d.color {
		return s
	}
	return "\x1b[36m" + s + "\x1b[0m"
}
