package tmx

import (
	"sort"
	"strconv"
)

const (
	// Property types
	// see doc.mapeditor.org/en/stable/reference/tmx-map-format/#properties
	PropString = "string"
	PropInt    = "int"
	PropBool   = "bool"
)

// Properties wraps the raw []*Property of the XML with typed accessors.
// Setting a key under one type removes it from the others.
type Properties struct {
	ints    map[string]int
	strings map[string]string
	bools   map[string]bool
}

// NewProperties returns an empty properties
func NewProperties() *Properties {
	return &Properties{
		ints:    map[string]int{},
		strings: map[string]string{},
		bools:   map[string]bool{},
	}
}

// toList turns properties back into []*Property, sorted by name so output
// is stable.
func (p *Properties) toList() []*Property {
	ps := []*Property{}
	for k, v := range p.ints {
		ps = append(ps, &Property{Name: k, Value: strconv.Itoa(v), Type: PropInt})
	}
	for k, v := range p.bools {
		ps = append(ps, &Property{Name: k, Value: strconv.FormatBool(v), Type: PropBool})
	}
	for k, v := range p.strings {
		ps = append(ps, &Property{Name: k, Value: v, Type: PropString})
	}
	sort.Slice(ps, func(i, j int) bool { return ps[i].Name < ps[j].Name })
	return ps
}

// newPropertiesFromList reads the XML []*Property.
// Types we don't use (float, file, color ..) are kept as strings.
func newPropertiesFromList(in []*Property) *Properties {
	ps := NewProperties()
	for _, i := range in {
		switch i.Type {
		case PropInt:
			v, err := strconv.Atoi(i.Value)
			if err != nil {
				ps.SetString(i.Name, i.Value)
				continue
			}
			ps.SetInt(i.Name, v)
		case PropBool:
			ps.SetBool(i.Name, i.Value == "true")
		default:
			ps.SetString(i.Name, i.Value)
		}
	}
	return ps
}

func (p *Properties) String(key string) (string, bool) {
	v, ok := p.strings[key]
	return v, ok
}

func (p *Properties) SetString(key, value string) {
	p.strings[key] = value
	delete(p.ints, key)
	delete(p.bools, key)
}

func (p *Properties) Int(key string) (int, bool) {
	v, ok := p.ints[key]
	return v, ok
}

func (p *Properties) SetInt(key string, value int) {
	p.ints[key] = value
	delete(p.strings, key)
	delete(p.bools, key)
}

func (p *Properties) Bool(key string) (bool, bool) {
	v, ok := p.bools[key]
	return v, ok
}

func (p *Properties) SetBool(key string, value bool) {
	p.bools[key] = value
	delete(p.strings, key)
	delete(p.ints, key)
}
