package compiler

import (
	"fmt"

	"cuelang.org/go/cue"

	"github.com/roach88/bitemp/internal/schema"
)

// fieldAttributes lists the keys a field declaration may carry.
var fieldAttributes = map[string]bool{
	"type":      true,
	"pattern":   true,
	"now_value": true,
}

// mapperTypes lists the accepted values of "type".
var mapperTypes = map[string]bool{
	schema.TypeBitemporal: true,
	schema.TypeString:     true,
	schema.TypeInteger:    true,
	schema.TypeBoolean:    true,
}

// CompileSchema parses the root CUE value of a schema into a schema.Schema.
//
// The value must declare a "field" struct:
//
//	field: tenancy: {
//		type:      "bitemporal"
//		pattern:   "2006/01/02"   // optional, Go time layout
//		now_value: 253402300799000 // optional
//	}
//	field: name: type: "string"
func CompileSchema(v cue.Value) (*schema.Schema, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	fieldsVal := v.LookupPath(cue.ParsePath("field"))
	if !fieldsVal.Exists() {
		return nil, &CompileError{
			Field:   "field",
			Message: "at least one field is required",
			Pos:     v.Pos(),
		}
	}

	iter, err := fieldsVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var mappers []schema.Mapper
	for iter.Next() {
		m, err := CompileField(iter.Value())
		if err != nil {
			return nil, err
		}
		mappers = append(mappers, m)
	}
	if len(mappers) == 0 {
		return nil, &CompileError{
			Field:   "field",
			Message: "at least one field is required",
			Pos:     fieldsVal.Pos(),
		}
	}

	s, err := schema.New(mappers...)
	if err != nil {
		return nil, &CompileError{Field: "field", Message: err.Error(), Pos: fieldsVal.Pos()}
	}
	return s, nil
}

// CompileField parses one field declaration. The field name is taken from
// the value's path, e.g. field.tenancy → "tenancy".
func CompileField(v cue.Value) (schema.Mapper, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	var name string
	labels := v.Path().Selectors()
	if len(labels) > 0 {
		name = labels[len(labels)-1].String()
	}

	attrs, err := v.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}
	for attrs.Next() {
		if !fieldAttributes[attrs.Label()] {
			return nil, &CompileError{
				Field:   name,
				Message: fmt.Sprintf("unknown attribute %q", attrs.Label()),
				Pos:     attrs.Value().Pos(),
			}
		}
	}

	typeVal := v.LookupPath(cue.ParsePath("type"))
	if !typeVal.Exists() {
		return nil, &CompileError{Field: "type", Message: fmt.Sprintf("field %s: type is required", name), Pos: v.Pos()}
	}
	typeName, err := typeVal.String()
	if err != nil {
		return nil, formatCUEError(err)
	}
	if !mapperTypes[typeName] {
		return nil, &CompileError{
			Field:   "type",
			Message: fmt.Sprintf("field %s: unsupported type %q", name, typeName),
			Pos:     typeVal.Pos(),
		}
	}

	if typeName != schema.TypeBitemporal {
		for _, attr := range []string{"pattern", "now_value"} {
			if av := v.LookupPath(cue.ParsePath(attr)); av.Exists() {
				return nil, &CompileError{
					Field:   attr,
					Message: fmt.Sprintf("field %s: %s applies to bitemporal fields only", name, attr),
					Pos:     av.Pos(),
				}
			}
		}
		return &schema.PlainMapper{Name: name, TypeName: typeName}, nil
	}

	m := &schema.BitemporalMapper{Name: name}

	if pv := v.LookupPath(cue.ParsePath("pattern")); pv.Exists() {
		pattern, err := pv.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		if pattern == "" {
			return nil, &CompileError{Field: "pattern", Message: fmt.Sprintf("field %s: pattern must not be empty", name), Pos: pv.Pos()}
		}
		m.Pattern = pattern
	}

	if nv := v.LookupPath(cue.ParsePath("now_value")); nv.Exists() {
		now, err := nv.Int64()
		if err != nil {
			return nil, formatCUEError(err)
		}
		if now <= 0 {
			return nil, &CompileError{Field: "now_value", Message: fmt.Sprintf("field %s: now_value must be positive", name), Pos: nv.Pos()}
		}
		m.NowValue = now
	}

	return m, nil
}
