package feed

import (
	"bytes"
	"encoding/xml"
	"io"
	"strings"
)

// Candidate is one episode slot collected from a feed document: the text of
// the most recent title element plus the enclosure url/type attributes seen
// since. An empty Title means the slot never saw usable title text.
type Candidate struct {
	Title   string
	URL     string
	EncType string
}

// Parse walks the document once, in token order. Every title element closes
// the slot that is currently open (dropping it if it never collected a url
// attribute) and starts the next one; url and type attributes on any element
// attach to the open slot. Unknown elements and attributes are ignored, so
// feeds with vendor extensions parse fine. Only a document that is not
// well-formed XML is an error.
func Parse(document []byte) ([]Candidate, error) {
	dec := xml.NewDecoder(bytes.NewReader(document))
	dec.Entity = xml.HTMLEntity
	// Feeds declare all kinds of legacy encodings; the byte stream is
	// treated as UTF-8 either way.
	dec.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		return input, nil
	}

	var (
		candidates []Candidate
		cur        Candidate
		depth      int
		titleDepth int
		inTitle    bool
		text       strings.Builder
	)

	flush := func() {
		if cur.URL == "" {
			return
		}
		candidates = append(candidates, cur)
		cur = Candidate{}
	}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, ParseError{Err: err}
		}

		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if t.Name.Local == "title" {
				flush()
				inTitle = true
				titleDepth = depth
				text.Reset()
			} else if inTitle {
				// Markup nested inside a title ends the text capture.
				inTitle = false
			}
			for _, attr := range t.Attr {
				switch attr.Name.Local {
				case "url":
					cur.URL = attr.Value
				case "type":
					cur.EncType = attr.Value
				}
			}
		case xml.EndElement:
			if inTitle && depth == titleDepth {
				// An empty title element keeps the previous text.
				if s := text.String(); s != "" {
					cur.Title = s
				}
				inTitle = false
			}
			depth--
		case xml.CharData:
			if inTitle && depth == titleDepth {
				text.Write(t)
			}
		}
	}

	flush()
	return candidates, nil
}
