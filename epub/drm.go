package epub

import (
	"encoding/xml"
	"strings"
)

const (
	encryptionPath = "META-INF/encryption.xml"
	// sinfPath only exists in Apple FairPlay protected books.
	sinfPath = "META-INF/sinf.xml"
)

// obfuscationAlgorithms are font mangling schemes. They hide embedded
// fonts but leave the rest of the container readable.
var obfuscationAlgorithms = map[string]bool{
	"http://www.idpf.org/2008/embedding": true,
	"http://ns.adobe.com/pdf/enc#RC":     true,
}

type encryptionDoc struct {
	XMLName xml.Name        `xml:"encryption"`
	Data    []encryptedData `xml:"EncryptedData"`
}

type encryptedData struct {
	Method struct {
		Algorithm string `xml:"Algorithm,attr"`
	} `xml:"EncryptionMethod"`
	Cipher struct {
		Reference struct {
			URI string `xml:"URI,attr"`
		} `xml:"CipherReference"`
	} `xml:"CipherData"`
}

// protection describes what encryption.xml declares.
type protection struct {
	// obfuscatedFonts lists font entries mangled by an obfuscation algorithm.
	obfuscatedFonts []string
}

// inspectProtection returns ErrDRMProtected when the container carries a
// DRM marker or any encrypted resource that is not an obfuscated font.
// An unparsable encryption.xml is treated as DRM.
func inspectProtection(a *archive) (protection, error) {
	var p protection
	if a.lookup(sinfPath) != nil {
		return p, ErrDRMProtected
	}

	f := a.lookup(encryptionPath)
	if f == nil {
		return p, nil
	}
	data, err := readEntry(f, a.limit)
	if err != nil {
		return p, err
	}

	var doc encryptionDoc
	if err := xml.Unmarshal(stripBOM(data), &doc); err != nil {
		return p, ErrDRMProtected
	}
	for _, ed := range doc.Data {
		if !obfuscationAlgorithms[strings.TrimSpace(ed.Method.Algorithm)] {
			return p, ErrDRMProtected
		}
		p.obfuscatedFonts = append(p.obfuscatedFonts, ed.Cipher.Reference.URI)
	}
	return p, nil
}
