package schema

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Parse decodes a YAML or JSON schema document and checks it.
func Parse(data []byte) (*Schema, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: empty document", ErrInvalidDocument)
	}
	return FromMap(raw)
}

// Load reads and parses a schema document from r.
func Load(r io.Reader) (*Schema, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}
	return Parse(data)
}

// LoadFile reads and parses the schema document at path.
func LoadFile(path string) (*Schema, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open schema: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// FromMap decodes a generic map, e.g. a section of a larger config file,
// into a Schema and checks it. Unknown keys are rejected.
func FromMap(m map[string]any) (*Schema, error) {
	var s Schema
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "yaml",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           &s,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if err := dec.Decode(m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if err := Check(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Check verifies that every node names a known type and carries the
// sub-schemas its type needs. All problems are reported together.
func Check(s *Schema) error {
	var errs []error
	check(s, "$", &errs)
	for name, def := range s.Definitions {
		check(def, "definitions."+name, &errs)
	}
	return errors.Join(errs...)
}

func check(s *Schema, path string, errs *[]error) {
	if s == nil {
		*errs = append(*errs, fmt.Errorf("%w: %s: missing schema", ErrInvalidSchema, path))
		return
	}
	bad := func(format string, args ...any) {
		*errs = append(*errs, fmt.Errorf("%w: %s: %s", ErrInvalidSchema, path, fmt.Sprintf(format, args...)))
	}

	switch s.Type {
	case TypeAny, TypeNone, TypeStr, TypeBytes, TypeBool, TypeInt, TypeFloat,
		TypeDate, TypeTime, TypeDatetime, TypeTimedelta, TypeUUID:
	case TypeLiteral:
		if len(s.Expected) == 0 {
			bad("literal needs at least one expected value")
		}
	case TypeDict:
		if s.KeysSchema != nil {
			check(s.KeysSchema, path+".keys_schema", errs)
		}
		if s.ValuesSchema != nil {
			check(s.ValuesSchema, path+".values_schema", errs)
		}
	case TypeList, TypeSet, TypeIterable:
		if s.ItemsSchema != nil {
			check(s.ItemsSchema, path+".items_schema", errs)
		}
	case TypeTuple:
		for i, item := range s.PrefixItems {
			check(item, fmt.Sprintf("%s.prefix_items.%d", path, i), errs)
		}
		if s.ItemsSchema != nil {
			check(s.ItemsSchema, path+".items_schema", errs)
		}
	case TypeUnion:
		if len(s.Choices) == 0 {
			bad("union needs at least one choice")
		}
		for i, c := range s.Choices {
			check(c, fmt.Sprintf("%s.choices.%d", path, i), errs)
		}
	case TypeTaggedUnion:
		if s.Discriminator == "" {
			bad("tagged_union needs a discriminator")
		}
		if len(s.Tagged) == 0 {
			bad("tagged_union needs tagged_choices")
		}
		for tag, c := range s.Tagged {
			check(c, path+".tagged_choices."+tag, errs)
		}
	case TypeNullable, TypeDefault, TypeJSON:
		if s.Schema == nil {
			if s.Type != TypeJSON {
				bad("%s needs an inner schema", s.Type)
			}
			break
		}
		check(s.Schema, path+".schema", errs)
	case TypeModelFields:
		seen := make(map[string]bool, len(s.Fields))
		for _, f := range s.Fields {
			if f.Name == "" {
				bad("field without a name")
				continue
			}
			if seen[f.Name] {
				bad("duplicate field %q", f.Name)
			}
			seen[f.Name] = true
			check(f.Schema, path+".fields."+f.Name, errs)
		}
	case TypeArguments:
		for _, a := range s.Arguments {
			switch a.Mode {
			case "", PositionalOnly, PositionalOrKeyword, KeywordOnly:
			default:
				bad("argument %q has unknown mode %q", a.Name, a.Mode)
			}
			check(a.Schema, path+".arguments_schema."+a.Name, errs)
		}
		if s.VarArgsSchema != nil {
			check(s.VarArgsSchema, path+".var_args_schema", errs)
		}
		if s.VarKwargsSchema != nil {
			check(s.VarKwargsSchema, path+".var_kwargs_schema", errs)
		}
	case TypeDefinitionRef:
		if s.SchemaRef == "" {
			bad("definition_ref needs schema_ref")
		}
	case "":
		bad("missing type")
	default:
		*errs = append(*errs, fmt.Errorf("%w: %s: %q", ErrUnknownType, path, s.Type))
	}
}
