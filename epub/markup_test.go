package epub

import "testing"

func TestPlainText(t *testing.T) {
	tests := []struct {
		name, in, want string
	}{
		{"plain", "  A quiet story.  ", "A quiet story."},
		{"paragraphs", "<p>First  line.</p>\n<p>Second <b>bold</b> line.</p>", "First line.\nSecond bold line."},
		{"breaks", "one<br/>two<br>three", "one\ntwo\nthree"},
		{"entities", "<p>Tom &amp; Jerry&nbsp;&mdash; a tale</p>", "Tom & Jerry — a tale"},
		{"script dropped", "<div>keep<script>var x = 1;</script></div><style>p{}</style>", "keep"},
		{"inline adjacency", "<i>un</i><b>broken</b>", "unbroken"},
		{"empty markup", "<p> </p>", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PlainText(tt.in)
			if err != nil {
				t.Fatalf("PlainText() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("PlainText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestReplaceNamedEntities(t *testing.T) {
	in := `<t>&Eacute;t&eacute; &amp; &unknown; &lt;</t>`
	want := `<t>&#233;t&#233; &amp; &unknown; &lt;</t>`
	if got := string(replaceNamedEntities([]byte(in))); got != want {
		t.Errorf("replaceNamedEntities() = %q, want %q", got, want)
	}
}

func TestFirstImageRef(t *testing.T) {
	tests := []struct {
		name, doc, want string
	}{
		{"img", `<html><body><img src="img/a.jpg"/></body></html>`, "OEBPS/text/img/a.jpg"},
		{"parent dir", `<img alt="x" src="../img/a.jpg">`, "OEBPS/img/a.jpg"},
		{"svg xlink", `<svg><image width="1" xlink:href="c.png"/></svg>`, "OEBPS/text/c.png"},
		{"svg href", `<svg><image href="d.png"></image></svg>`, "OEBPS/text/d.png"},
		{"skips escaping src", `<img src="../../../x.jpg"><img src="ok.jpg">`, "OEBPS/text/ok.jpg"},
		{"none", `<p>no images</p>`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := firstImageRef([]byte(tt.doc), "OEBPS/text/page.xhtml"); got != tt.want {
				t.Errorf("firstImageRef() = %q, want %q", got, tt.want)
			}
		})
	}
}
