package persona

import "fmt"

// Default keys used when a caller supplies an unknown persona, culture or
// style. Lookups never fail; they substitute these instead.
const (
	DefaultPersona = "friend"
	DefaultCulture = "delhi"
	DefaultStyle   = "creative"
)

// Definition describes a behavioral archetype applied to generated responses.
type Definition struct {
	Key         string   `json:"key" yaml:"key"`
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	Traits      []string `json:"traits" yaml:"traits"`
}

// Culture describes a cultural framing layered onto a persona.
type Culture struct {
	Key             string   `json:"key" yaml:"key"`
	Name            string   `json:"name" yaml:"name"`
	Characteristics []string `json:"characteristics" yaml:"characteristics"`
	Greetings       []string `json:"greetings" yaml:"greetings"`
	Elements        []string `json:"cultural_elements" yaml:"cultural_elements"`
}

// Style describes a free-form text generation style with its sampling params.
type Style struct {
	Key         string  `json:"key" yaml:"key"`
	Name        string  `json:"name" yaml:"name"`
	Prompt      string  `json:"prompt" yaml:"prompt"`
	Temperature float64 `json:"temperature" yaml:"temperature"`
	TopP        float64 `json:"top_p" yaml:"top_p"`
}

// Combination is one persona × culture pair from the static catalog.
type Combination struct {
	Persona     string `json:"persona"`
	Culture     string `json:"culture"`
	PersonaName string `json:"persona_name"`
	CultureName string `json:"culture_name"`
	Description string `json:"description"`
}

// Registry is the static persona/culture/style catalog. It is built once at
// process start and never mutated afterwards; all methods are safe for
// concurrent use.
type Registry struct {
	personas     map[string]Definition
	cultures     map[string]Culture
	styles       map[string]Style
	personaOrder []string
	cultureOrder []string
	styleOrder   []string
}

// NewRegistry returns a Registry populated with the built-in catalog.
func NewRegistry() *Registry {
	r := &Registry{
		personas: make(map[string]Definition),
		cultures: make(map[string]Culture),
		styles:   make(map[string]Style),
	}
	for _, p := range builtinPersonas {
		r.addPersona(p)
	}
	for _, c := range builtinCultures {
		r.addCulture(c)
	}
	for _, s := range builtinStyles {
		r.addStyle(s)
	}
	return r
}

func (r *Registry) addPersona(p Definition) {
	if _, ok := r.personas[p.Key]; !ok {
		r.personaOrder = append(r.personaOrder, p.Key)
	}
	r.personas[p.Key] = p
}

func (r *Registry) addCulture(c Culture) {
	if _, ok := r.cultures[c.Key]; !ok {
		r.cultureOrder = append(r.cultureOrder, c.Key)
	}
	r.cultures[c.Key] = c
}

func (r *Registry) addStyle(s Style) {
	if _, ok := r.styles[s.Key]; !ok {
		r.styleOrder = append(r.styleOrder, s.Key)
	}
	r.styles[s.Key] = s
}

// resolveOrDefault makes the silent-default substitution an explicit step:
// an unknown key resolves to fallback rather than failing the pipeline.
func resolveOrDefault(key, fallback string, known func(string) bool) string {
	if known(key) {
		return key
	}
	return fallback
}

// LookupPersona resolves a persona key, substituting DefaultPersona on miss.
func (r *Registry) LookupPersona(key string) Definition {
	key = resolveOrDefault(key, DefaultPersona, func(k string) bool {
		_, ok := r.personas[k]
		return ok
	})
	return r.personas[key]
}

// LookupCulture resolves a culture key, substituting DefaultCulture on miss.
func (r *Registry) LookupCulture(key string) Culture {
	key = resolveOrDefault(key, DefaultCulture, func(k string) bool {
		_, ok := r.cultures[k]
		return ok
	})
	return r.cultures[key]
}

// LookupStyle resolves a style key, substituting DefaultStyle on miss.
func (r *Registry) LookupStyle(key string) Style {
	key = resolveOrDefault(key, DefaultStyle, func(k string) bool {
		_, ok := r.styles[k]
		return ok
	})
	return r.styles[key]
}

// HasCombination reports whether both keys are registered as-is, without
// default substitution.
func (r *Registry) HasCombination(personaKey, cultureKey string) bool {
	_, pok := r.personas[personaKey]
	_, cok := r.cultures[cultureKey]
	return pok && cok
}

// Personas returns the catalog in registration order.
func (r *Registry) Personas() []Definition {
	out := make([]Definition, 0, len(r.personaOrder))
	for _, k := range r.personaOrder {
		out = append(out, r.personas[k])
	}
	return out
}

// Cultures returns the catalog in registration order.
func (r *Registry) Cultures() []Culture {
	out := make([]Culture, 0, len(r.cultureOrder))
	for _, k := range r.cultureOrder {
		out = append(out, r.cultures[k])
	}
	return out
}

// Styles returns the catalog in registration order.
func (r *Registry) Styles() []Style {
	out := make([]Style, 0, len(r.styleOrder))
	for _, k := range r.styleOrder {
		out = append(out, r.styles[k])
	}
	return out
}

// Combinations returns the full persona × culture cross product, personas
// outer and cultures inner, each with a synthesized description containing
// both display names.
func (r *Registry) Combinations() []Combination {
	out := make([]Combination, 0, len(r.personaOrder)*len(r.cultureOrder))
	for _, pk := range r.personaOrder {
		p := r.personas[pk]
		for _, ck := range r.cultureOrder {
			c := r.cultures[ck]
			out = append(out, Combination{
				Persona:     pk,
				Culture:     ck,
				PersonaName: p.Name,
				CultureName: c.Name,
				Description: fmt.Sprintf("%s (%s) with %s cultural background", p.Description, p.Name, c.Name),
			})
		}
	}
	return out
}
