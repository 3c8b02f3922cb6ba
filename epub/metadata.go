package epub

import (
	"sort"
	"strconv"
	"strings"
)

// Metadata holds the Dublin Core fields of a package document. A field
// the package does not carry is left as the zero value; empty and
// whitespace-only elements are treated as missing.
type Metadata struct {
	// Version is the ePub version declared on <package> ("2.0" when absent).
	Version string

	// Titles lists dc:title values, ordered by ePub 3 display-seq when present.
	Titles []string

	// Creators lists dc:creator entries in document order.
	Creators []Creator

	// Description is the first non-empty dc:description, as written.
	Description string

	Language    []string
	Publisher   string
	Date        string
	Subjects    []string
	Identifiers []Identifier

	// UniqueIdentifier is the value of the identifier the package names
	// through its unique-identifier attribute.
	UniqueIdentifier string
}

// Creator is a dc:creator entry.
type Creator struct {
	Name   string
	FileAs string
	Role   string
}

// Identifier is a dc:identifier entry.
type Identifier struct {
	Value  string
	Scheme string
	ID     string
}

// Title returns the primary title.
func (m Metadata) Title() (string, bool) {
	if len(m.Titles) == 0 {
		return "", false
	}
	return m.Titles[0], true
}

// Author returns the first creator's display name.
func (m Metadata) Author() (string, bool) {
	if len(m.Creators) == 0 {
		return "", false
	}
	return m.Creators[0].Name, true
}

// ISBN returns the first identifier that is an ISBN, either by scheme or
// by an "urn:isbn:" / "isbn:" prefix.
func (m Metadata) ISBN() (string, bool) {
	for _, id := range m.Identifiers {
		if strings.EqualFold(id.Scheme, "isbn") {
			return id.Value, true
		}
		lower := strings.ToLower(id.Value)
		for _, prefix := range []string{"urn:isbn:", "isbn:"} {
			if strings.HasPrefix(lower, prefix) {
				return strings.TrimSpace(id.Value[len(prefix):]), true
			}
		}
	}
	return "", false
}

// readMetadata converts the raw OPF metadata block.
func readMetadata(pkg *packageDoc) Metadata {
	raw := &pkg.Metadata
	refines := indexRefines(raw.Metas)

	md := Metadata{
		Version:     pkg.Version,
		Titles:      orderedTitles(raw.Titles, refines),
		Creators:    creators(raw.Creators, refines),
		Description: firstValue(raw.Descriptions),
		Language:    allValues(raw.Languages),
		Publisher:   firstValue(raw.Publishers),
		Date:        firstValue(raw.Dates),
		Subjects:    allValues(raw.Subjects),
	}

	for _, el := range raw.Identifiers {
		v := strings.TrimSpace(el.Value)
		if v == "" {
			continue
		}
		id := Identifier{Value: v, Scheme: el.Scheme, ID: el.ID}
		if id.Scheme == "" && el.ID != "" {
			id.Scheme = refines.get(el.ID, "identifier-type")
		}
		if el.ID != "" && el.ID == pkg.UniqueIdentifier && md.UniqueIdentifier == "" {
			md.UniqueIdentifier = v
		}
		md.Identifiers = append(md.Identifiers, id)
	}
	return md
}

// refineIndex maps an element id to the <meta refines="#id"> entries
// that describe it.
type refineIndex map[string][]metaEl

func indexRefines(metas []metaEl) refineIndex {
	idx := make(refineIndex)
	for _, m := range metas {
		id, ok := strings.CutPrefix(strings.TrimSpace(m.Refines), "#")
		if !ok || id == "" {
			continue
		}
		idx[id] = append(idx[id], m)
	}
	return idx
}

// get returns the first non-empty value of property refining id.
func (idx refineIndex) get(id, property string) string {
	for _, m := range idx[id] {
		if m.Property != property {
			continue
		}
		if v := strings.TrimSpace(m.Value); v != "" {
			return v
		}
	}
	return ""
}

// orderedTitles sorts titles carrying a display-seq ahead of those
// without one; ties keep document order.
func orderedTitles(els []dcElement, refines refineIndex) []string {
	type title struct {
		value string
		seq   int
	}

	titles := make([]title, 0, len(els))
	for _, el := range els {
		v := strings.TrimSpace(el.Value)
		if v == "" {
			continue
		}
		t := title{value: v}
		if el.ID != "" {
			if n, err := strconv.Atoi(refines.get(el.ID, "display-seq")); err == nil && n > 0 {
				t.seq = n
			}
		}
		titles = append(titles, t)
	}
	if len(titles) == 0 {
		return nil
	}

	sort.SliceStable(titles, func(i, j int) bool {
		a, b := titles[i].seq, titles[j].seq
		switch {
		case a == 0:
			return false
		case b == 0:
			return true
		default:
			return a < b
		}
	})

	out := make([]string, len(titles))
	for i, t := range titles {
		out[i] = t.value
	}
	return out
}

func creators(els []dcElement, refines refineIndex) []Creator {
	var out []Creator
	for _, el := range els {
		name := strings.TrimSpace(el.Value)
		if name == "" {
			continue
		}
		c := Creator{Name: name, FileAs: el.FileAs, Role: el.Role}
		if el.ID != "" {
			if c.FileAs == "" {
				c.FileAs = refines.get(el.ID, "file-as")
			}
			if c.Role == "" {
				c.Role = refines.get(el.ID, "role")
			}
		}
		out = append(out, c)
	}
	return out
}

func firstValue(els []dcElement) string {
	for _, el := range els {
		if v := strings.TrimSpace(el.Value); v != "" {
			return v
		}
	}
	return ""
}

func allValues(els []dcElement) []string {
	var out []string
	for _, el := range els {
		if v := strings.TrimSpace(el.Value); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func (m Metadata) clone() Metadata {
	out := m
	out.Titles = append([]string(nil), m.Titles...)
	out.Creators = append([]Creator(nil), m.Creators...)
	out.Language = append([]string(nil), m.Language...)
	out.Subjects = append([]string(nil), m.Subjects...)
	out.Identifiers = append([]Identifier(nil), m.Identifiers...)
	return out
}
