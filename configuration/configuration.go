// Package configuration resolves named options from maps, YAML files and the process environment,
// letting callers stack them in priority order with Overlay.
package configuration

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Interface describes a generic interface for providing a configuration for named options.
type Interface interface {
	// GetConfiguration returns the set of configured values for a given name.  This typically returns
	// either nil or a slice with a single string value.  Nil indicates that there was no
	// configuration, and therefore a default can be used.
	GetConfiguration(name string) []string

	// Configured returns the list of items that have been configured.  This list does not need to be
	// unique or sorted.
	Configured() []string
}

// Get resolves ref from a named configuration item.  Ref must be a pointer to a string, a slice of
// strings, a boolean, an integer or a float.  If the item is unconfigured, the ref is left unchanged.
func Get(ref any, cf Interface, name string) error {
	values := cf.GetConfiguration(name)
	if values == nil {
		return nil
	}
	if ref, ok := ref.(*[]string); ok {
		*ref = values
		return nil
	}
	if len(values) == 0 {
		return nil
	}
	if len(values) > 1 {
		return fmt.Errorf(`only one value allowed for %q, got %d`, name, len(values))
	}
	value := values[0]

	switch ref := ref.(type) {
	case *string:
		*ref = value
	case *bool:
		switch value {
		case `true`, `TRUE`, `YES`, `ON`, `1`:
			*ref = true
		case `false`, `FALSE`, `NO`, `OFF`, `0`:
			*ref = false
		default:
			return fmt.Errorf(`invalid boolean value %q for %q`, value, name)
		}
	case *int:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf(`%w for %q`, err, name)
		}
		*ref = n
	case *float64:
		n, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf(`%w for %q`, err, name)
		}
		*ref = n
	default:
		return fmt.Errorf(`unsupported type %T for %q`, ref, name)
	}
	return nil
}

// Unmarshal uses the provided configuration to fill the exported fields of v, which must be a pointer
// to a struct.  Field names are used to look up configuration values, overridden by the following
// struct tags, in order of precedence: "cfg", "yaml", "json".  Unconfigured fields are left unchanged
// and the supported field types are those of Get.
func Unmarshal(v any, cf Interface) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return fmt.Errorf(`unmarshal can only be used with struct pointers, got %T`, v)
	}
	rv = rv.Elem()
	if rv.Kind() != reflect.Struct {
		return fmt.Errorf(`unmarshal can only be used with struct pointers, got %T`, v)
	}
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		ft := rt.Field(i)
		if ft.PkgPath != `` {
			continue
		}
		name := ft.Name
		for _, tag := range []string{`cfg`, `yaml`, `json`} {
			if t := ft.Tag.Get(tag); t != `` {
				name = strings.SplitN(t, `,`, 2)[0]
				break
			}
		}
		if name == `` || name == `-` {
			continue
		}
		if err := Get(rv.Field(i).Addr().Interface(), cf, name); err != nil {
			return err
		}
	}
	return nil
}

// An Overlay combines multiple configurations, possibly of different types, into a single
// configuration.  The first item offering a named configuration item "wins" so it is best to put them
// in priority order, such as "Overlay(Environment(`SPAWN_`), file, defaults)".
type Overlay []Interface

// GetConfiguration returns the first non-nil answer among the overlaid configurations.
func (cf Overlay) GetConfiguration(name string) []string {
	for _, it := range cf {
		if it == nil {
			continue
		}
		items := it.GetConfiguration(name)
		if items != nil {
			return items
		}
	}
	return nil
}

// Configured returns the configured items of each overlaid configuration in presence order, with
// duplicates removed.
func (cf Overlay) Configured() []string {
	seen := make(map[string]struct{})
	items := make([]string, 0, 16)
	for _, it := range cf {
		if it == nil {
			continue
		}
		for _, item := range it.Configured() {
			if _, ok := seen[item]; ok {
				continue
			}
			seen[item] = struct{}{}
			items = append(items, item)
		}
	}
	return items
}

// Map uses a map of strings to provide a configuration.  This is useful for defaults and for
// inclusion in a YAML structure, since it knows how to unmarshal itself.
type Map map[string][]string

// GetConfiguration returns the values for the given name, or nil if there are none.
func (cf Map) GetConfiguration(name string) []string { return cf[name] }

// Configured returns the list of items present in the map.
func (cf Map) Configured() []string {
	items := make([]string, 0, len(cf))
	for item := range cf {
		items = append(items, item)
	}
	return items
}

// UnmarshalYAML satisfies yaml.Unmarshaler using a mapping of scalars or sequences of scalars;
// nested mappings are refused.
func (cf *Map) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf(`expected a mapping, got yaml kind %d`, value.Kind)
	}
	m := make(Map, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		key, item := value.Content[i], value.Content[i+1]
		switch item.Kind {
		case yaml.ScalarNode:
			m[key.Value] = []string{item.Value}
		case yaml.SequenceNode:
			values := make([]string, 0, len(item.Content))
			for _, it := range item.Content {
				if it.Kind != yaml.ScalarNode {
					return fmt.Errorf(`only scalars allowed in the sequence for %q`, key.Value)
				}
				values = append(values, it.Value)
			}
			m[key.Value] = values
		default:
			return fmt.Errorf(`nested structures not supported for %q`, key.Value)
		}
	}
	*cf = m
	return nil
}

// File loads a YAML configuration file as a Map.  A missing file is not an error, it is simply an
// empty configuration, so optional files can be overlaid without a stat dance.
func File(path string) (Interface, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Map{}, nil
		}
		return nil, err
	}
	var cf Map
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf(`%w while loading %q`, err, path)
	}
	return cf, nil
}

// Environment provides configuration items from environment variables with the given prefix.  If the
// prefix is entirely uppercase, names are uppercased before the lookup, so Environment("SPAWN_")
// resolves "iterations" from SPAWN_ITERATIONS.
func Environment(prefix string) Interface {
	return environment{
		prefix != `` && strings.ToUpper(prefix) == prefix,
		prefix,
	}
}

type environment struct {
	uppercase bool
	prefix    string
}

func (cf environment) Configured() []string {
	var items []string
	for _, it := range os.Environ() {
		if !strings.HasPrefix(it, cf.prefix) {
			continue
		}
		it = it[len(cf.prefix):]
		if ix := strings.IndexByte(it, '='); ix >= 0 {
			it = it[:ix]
		}
		if cf.uppercase {
			it = strings.ToLower(it)
		}
		items = append(items, it)
	}
	return items
}

func (cf environment) GetConfiguration(name string) []string {
	if cf.uppercase {
		name = cf.prefix + strings.ToUpper(name)
	} else {
		name = cf.prefix + name
	}
	value, ok := os.LookupEnv(name)
	if !ok {
		return nil
	}
	return []string{value}
}
