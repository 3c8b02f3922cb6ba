package epub

import (
	"encoding/xml"
	"fmt"
	"strings"
)

// packageDoc is the root <package> element of an OPF file.
type packageDoc struct {
	XMLName          xml.Name     `xml:"package"`
	Version          string       `xml:"version,attr"`
	UniqueIdentifier string       `xml:"unique-identifier,attr"`
	Metadata         metadataDoc  `xml:"metadata"`
	Manifest         []manifestEl `xml:"manifest>item"`
	Spine            []itemRefEl  `xml:"spine>itemref"`
	Guide            []guideRefEl `xml:"guide>reference"`
}

type metadataDoc struct {
	Titles       []dcElement `xml:"http://purl.org/dc/elements/1.1/ title"`
	Creators     []dcElement `xml:"http://purl.org/dc/elements/1.1/ creator"`
	Languages    []dcElement `xml:"http://purl.org/dc/elements/1.1/ language"`
	Identifiers  []dcElement `xml:"http://purl.org/dc/elements/1.1/ identifier"`
	Publishers   []dcElement `xml:"http://purl.org/dc/elements/1.1/ publisher"`
	Dates        []dcElement `xml:"http://purl.org/dc/elements/1.1/ date"`
	Descriptions []dcElement `xml:"http://purl.org/dc/elements/1.1/ description"`
	Subjects     []dcElement `xml:"http://purl.org/dc/elements/1.1/ subject"`
	Metas        []metaEl    `xml:"meta"`
}

// dcElement is a Dublin Core element. ePub 2 carries file-as, role and
// scheme as opf: attributes; ePub 3 moves them into refining <meta>s.
type dcElement struct {
	Value  string `xml:",chardata"`
	ID     string `xml:"id,attr"`
	FileAs string `xml:"file-as,attr"`
	Role   string `xml:"role,attr"`
	Scheme string `xml:"scheme,attr"`
}

// metaEl covers both <meta name content/> (ePub 2) and
// <meta property refines>value</meta> (ePub 3).
type metaEl struct {
	Name     string `xml:"name,attr"`
	Content  string `xml:"content,attr"`
	Property string `xml:"property,attr"`
	Refines  string `xml:"refines,attr"`
	Value    string `xml:",chardata"`
}

type manifestEl struct {
	ID         string `xml:"id,attr"`
	Href       string `xml:"href,attr"`
	MediaType  string `xml:"media-type,attr"`
	Properties string `xml:"properties,attr"`
}

type itemRefEl struct {
	IDRef string `xml:"idref,attr"`
}

type guideRefEl struct {
	Type string `xml:"type,attr"`
	Href string `xml:"href,attr"`
}

// parsePackage decodes OPF content. HTML named entities, which
// encoding/xml rejects, are rewritten to numeric references first.
func parsePackage(data []byte) (*packageDoc, error) {
	data = stripBOM(replaceNamedEntities(data))

	var pkg packageDoc
	if err := xml.Unmarshal(data, &pkg); err != nil {
		return nil, fmt.Errorf("epub: parse OPF: %w", err)
	}
	if strings.TrimSpace(pkg.Version) == "" {
		pkg.Version = "2.0"
	}
	return &pkg, nil
}

// hasProperty reports whether the space separated properties list contains p.
func (m manifestEl) hasProperty(p string) bool {
	for _, f := range strings.Fields(m.Properties) {
		if f == p {
			return true
		}
	}
	return false
}

func (m manifestEl) isImage() bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(m.MediaType)), "image/")
}
