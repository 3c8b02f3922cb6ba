package epub

import (
	"bytes"
	"errors"
	"io"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// namedEntities maps HTML entity names seen in real-world OPF files to
// XML numeric references that encoding/xml accepts.
var namedEntities = map[string]string{
	"nbsp": "&#160;", "mdash": "&#8212;", "ndash": "&#8211;", "hellip": "&#8230;",
	"lsquo": "&#8216;", "rsquo": "&#8217;", "ldquo": "&#8220;", "rdquo": "&#8221;",
	"copy": "&#169;", "reg": "&#174;", "trade": "&#8482;",
	"bull": "&#8226;", "middot": "&#183;", "deg": "&#176;", "sect": "&#167;",
	"laquo": "&#171;", "raquo": "&#187;", "times": "&#215;",
	"eacute": "&#233;", "egrave": "&#232;", "ecirc": "&#234;", "euml": "&#235;",
	"aacute": "&#225;", "agrave": "&#224;", "acirc": "&#226;", "auml": "&#228;",
	"iacute": "&#237;", "icirc": "&#238;", "iuml": "&#239;",
	"oacute": "&#243;", "ocirc": "&#244;", "ouml": "&#246;",
	"uacute": "&#250;", "ucirc": "&#251;", "uuml": "&#252;",
	"ntilde": "&#241;", "ccedil": "&#231;", "szlig": "&#223;",
}

var namedEntityPattern = regexp.MustCompile(`&([A-Za-z]+);`)

// replaceNamedEntities rewrites known HTML entities (case-insensitively)
// and leaves everything else, including the five XML entities, untouched.
func replaceNamedEntities(data []byte) []byte {
	if !bytes.Contains(data, []byte("&")) {
		return data
	}
	return namedEntityPattern.ReplaceAllFunc(data, func(m []byte) []byte {
		name := strings.ToLower(string(m[1 : len(m)-1]))
		if ref, ok := namedEntities[name]; ok {
			return []byte(ref)
		}
		return m
	})
}

// breakTags start a new line when converting markup to text.
var breakTags = map[atom.Atom]bool{
	atom.P: true, atom.Br: true, atom.Div: true, atom.Li: true, atom.Tr: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Blockquote: true, atom.Hr: true,
}

// PlainText converts an HTML fragment, as often found in dc:description,
// to plain text. Block elements become line breaks, script and style
// content is dropped and runs of whitespace collapse to one space.
// Input without markup is returned trimmed.
func PlainText(fragment string) (string, error) {
	if !strings.ContainsRune(fragment, '<') {
		return strings.TrimSpace(fragment), nil
	}

	z := html.NewTokenizer(strings.NewReader(fragment))
	var (
		lines   []string
		line    strings.Builder
		skipped int
	)
	flush := func() {
		if s := strings.Join(strings.Fields(line.String()), " "); s != "" {
			lines = append(lines, s)
		}
		line.Reset()
	}

	for {
		switch z.Next() {
		case html.ErrorToken:
			if err := z.Err(); !errors.Is(err, io.EOF) {
				return "", err
			}
			flush()
			return strings.Join(lines, "\n"), nil
		case html.StartTagToken:
			name, _ := z.TagName()
			a := atom.Lookup(name)
			if a == atom.Script || a == atom.Style {
				skipped++
			} else if breakTags[a] {
				flush()
			}
		case html.SelfClosingTagToken:
			name, _ := z.TagName()
			if breakTags[atom.Lookup(name)] {
				flush()
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			a := atom.Lookup(name)
			if a == atom.Script || a == atom.Style {
				if skipped > 0 {
					skipped--
				}
			} else if breakTags[a] {
				flush()
			}
		case html.TextToken:
			if skipped == 0 {
				line.Write(z.Text())
			}
		}
	}
}

// firstImageRef returns the archive path of the first <img src> or SVG
// <image href|xlink:href> in an XHTML document located at docPath.
func firstImageRef(doc []byte, docPath string) string {
	z := html.NewTokenizer(bytes.NewReader(doc))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			return ""
		}
		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			continue
		}
		name, hasAttr := z.TagName()
		if !hasAttr {
			continue
		}
		var keys []string
		switch atom.Lookup(name) {
		case atom.Img:
			keys = []string{"src"}
		case atom.Image:
			keys = []string{"href", "xlink:href"}
		default:
			continue
		}
		for {
			key, val, more := z.TagAttr()
			for _, k := range keys {
				if string(key) == k && len(val) > 0 {
					if p := resolveHref(docPath, string(val)); p != "" {
						return p
					}
				}
			}
			if !more {
				break
			}
		}
	}
}
