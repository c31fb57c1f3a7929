package countries

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"sort"
)

// symbolPattern mirrors the solver-side constraint on names. Normalization
// failing to produce a matching symbol is a structural error in the input
// data, caught at load time.
var symbolPattern = regexp.MustCompile(`^[a-z][A-Za-z0-9]*$`)

// rawCountry matches one entry of the countries.json format from
// github.com/mledoze/countries.
type rawCountry struct {
	CCA3 string `json:"cca3"`
	Name struct {
		Official string `json:"official"`
	} `json:"name"`
	Region    string   `json:"region"`
	Subregion string   `json:"subregion"`
	Borders   []string `json:"borders"`
}

// Region is one entry of the region index: a region name together with the
// sorted, distinct subregion names observed among its countries.
type Region struct {
	Name       string
	Subregions []string
}

// Registry is the immutable table of all known countries, keyed by
// normalized name and preserving input order. It is built once per run and
// shared read-only across all sample generations.
type Registry struct {
	names     []string
	countries map[string]Country
	regions   []Region
}

// Load reads the countries.json file at path and builds a registry from it.
// ISO codes in border lists are resolved to official names; neighbor
// references to unknown codes are a structural error.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading country data %q: %w", path, err)
	}

	var raw []rawCountry
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing country data %q: %w", path, err)
	}

	officialByCode := make(map[string]string, len(raw))
	for _, rc := range raw {
		officialByCode[rc.CCA3] = rc.Name.Official
	}

	reg := &Registry{countries: make(map[string]Country, len(raw))}
	for _, rc := range raw {
		name := Normalize(rc.Name.Official)
		if !symbolPattern.MatchString(name) {
			return nil, fmt.Errorf("country %q normalizes to illegal symbol %q", rc.Name.Official, name)
		}
		region := Normalize(rc.Region)
		if !symbolPattern.MatchString(region) {
			return nil, fmt.Errorf("region %q of %q normalizes to illegal symbol %q", rc.Region, rc.Name.Official, region)
		}
		subregion := ""
		if rc.Subregion != "" {
			subregion = Normalize(rc.Subregion)
			if !symbolPattern.MatchString(subregion) {
				return nil, fmt.Errorf("subregion %q of %q normalizes to illegal symbol %q", rc.Subregion, rc.Name.Official, subregion)
			}
		}

		neighbors := make([]string, 0, len(rc.Borders))
		for _, code := range rc.Borders {
			official, ok := officialByCode[code]
			if !ok {
				return nil, fmt.Errorf("country %q borders unknown code %q", rc.Name.Official, code)
			}
			neighbors = append(neighbors, Normalize(official))
		}

		if _, dup := reg.countries[name]; dup {
			return nil, fmt.Errorf("duplicate country name %q", name)
		}
		reg.names = append(reg.names, name)
		reg.countries[name] = Country{
			Name:      name,
			Neighbors: neighbors,
			Region:    region,
			Subregion: subregion,
		}
	}

	reg.regions = buildRegionIndex(reg)
	return reg, nil
}

// NewRegistry builds a registry directly from normalized countries, in the
// given order. Used by tests and callers that assemble their own geography.
func NewRegistry(list []Country) (*Registry, error) {
	reg := &Registry{countries: make(map[string]Country, len(list))}
	for _, c := range list {
		if !symbolPattern.MatchString(c.Name) {
			return nil, fmt.Errorf("illegal country name %q", c.Name)
		}
		if _, dup := reg.countries[c.Name]; dup {
			return nil, fmt.Errorf("duplicate country name %q", c.Name)
		}
		reg.names = append(reg.names, c.Name)
		reg.countries[c.Name] = c
	}
	reg.regions = buildRegionIndex(reg)
	return reg, nil
}

// buildRegionIndex derives the region -> sorted subregions mapping. One
// level of nesting only; deterministic order for reproducible samples.
func buildRegionIndex(reg *Registry) []Region {
	subs := make(map[string]map[string]bool)
	for _, name := range reg.names {
		c := reg.countries[name]
		if subs[c.Region] == nil {
			subs[c.Region] = make(map[string]bool)
		}
		if c.Subregion != "" {
			subs[c.Region][c.Subregion] = true
		}
	}

	regions := make([]Region, 0, len(subs))
	for r, set := range subs {
		names := make([]string, 0, len(set))
		for s := range set {
			names = append(names, s)
		}
		sort.Strings(names)
		regions = append(regions, Region{Name: r, Subregions: names})
	}
	sort.Slice(regions, func(i, j int) bool { return regions[i].Name < regions[j].Name })
	return regions
}

// Len returns the number of countries.
func (r *Registry) Len() int { return len(r.names) }

// Names returns the country names in input order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Get returns the country with the given normalized name.
func (r *Registry) Get(name string) (Country, bool) {
	c, ok := r.countries[name]
	return c, ok
}

// Regions returns the region index, sorted by region name.
func (r *Registry) Regions() []Region { return r.regions }
