package epub

import (
	"encoding/xml"
	"fmt"
	"strings"
)

// containerPath is the fixed location of the container descriptor.
const containerPath = "META-INF/container.xml"

// packageMediaType identifies an OPF rootfile in container.xml.
const packageMediaType = "application/oebps-package+xml"

type containerDoc struct {
	XMLName   xml.Name      `xml:"container"`
	RootFiles []rootFileRef `xml:"rootfiles>rootfile"`
}

type rootFileRef struct {
	FullPath  string `xml:"full-path,attr"`
	MediaType string `xml:"media-type,attr"`
}

// locatePackage returns the archive path of the OPF package document.
//
// container.xml is consulted first; a rootfile with the OPF media type is
// preferred over any other non-empty rootfile. Without container.xml the
// first *.opf entry is used.
func locatePackage(a *archive) (string, error) {
	f := a.lookup(containerPath)
	if f == nil {
		if name, ok := a.firstWithSuffix(".opf"); ok {
			return name, nil
		}
		return "", fmt.Errorf("epub: no OPF file found in archive: %w", ErrInvalidEPub)
	}

	data, err := readEntry(f, a.limit)
	if err != nil {
		return "", fmt.Errorf("epub: read container.xml: %w", err)
	}

	var doc containerDoc
	if err := xml.Unmarshal(stripBOM(data), &doc); err != nil {
		return "", fmt.Errorf("epub: parse container.xml: %w", err)
	}

	var fallback string
	for _, rf := range doc.RootFiles {
		full := strings.TrimSpace(rf.FullPath)
		if full == "" {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(rf.MediaType), packageMediaType) {
			return full, nil
		}
		if fallback == "" {
			fallback = full
		}
	}
	if fallback == "" {
		return "", fmt.Errorf("epub: container.xml names no rootfile: %w", ErrInvalidEPub)
	}
	return fallback, nil
}
