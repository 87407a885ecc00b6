package grammar

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// errNotXML marks input that the XML reader does not recognize as a
// document at all, so another format may be tried.
var errNotXML = errors.New("not an XML document")

// ParseXML reads the two-level form: every child of the root element is an
// entity carrying its id as its only attribute, and the text of every child
// of an entity is one of its names.
func ParseXML(src []byte) ([]Entry, error) {
	if !looksLikeXML(src) {
		return nil, errNotXML
	}

	dec := xml.NewDecoder(bytes.NewReader(src))
	var (
		entries []Entry
		current Entry
		name    strings.Builder
		depth   int
		sawRoot bool
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", errNotXML, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			switch depth {
			case 1:
				sawRoot = true
			case 2:
				if len(t.Attr) != 1 {
					line, _ := dec.InputPos()
					return nil, &SyntaxError{
						Format:  FormatXML,
						Line:    line,
						Element: t.Name.Local,
						Reason:  fmt.Sprintf("entity element must have exactly one attribute, found %d", len(t.Attr)),
					}
				}
				current = Entry{ID: t.Attr[0].Value}
			case 3:
				name.Reset()
			}
		case xml.CharData:
			if depth >= 3 {
				name.Write(t)
			}
		case xml.EndElement:
			switch depth {
			case 3:
				current.Names = append(current.Names, name.String())
			case 2:
				if current.ID == "" {
					line, _ := dec.InputPos()
					return nil, &SyntaxError{Format: FormatXML, Line: line, Element: t.Name.Local, Reason: "empty entity id"}
				}
				entries = append(entries, current)
			}
			depth--
		}
	}
	if !sawRoot {
		return nil, fmt.Errorf("%w: no root element", errNotXML)
	}
	return entries, nil
}

func looksLikeXML(src []byte) bool {
	src = bytes.TrimPrefix(src, []byte("\xef\xbb\xbf"))
	src = bytes.TrimLeft(src, " \t\r\n")
	return len(src) > 0 && src[0] == '<'
}

// MarshalXML renders entries in the two-level form.
func MarshalXML(entries []Entry) ([]byte, error) {
	type nameElem struct {
		Value string `xml:",chardata"`
	}
	type entityElem struct {
		ID    string     `xml:"id,attr"`
		Names []nameElem `xml:"name"`
	}
	type grammarElem struct {
		XMLName  xml.Name     `xml:"grammar"`
		Entities []entityElem `xml:"entity"`
	}

	doc := grammarElem{}
	for _, e := range entries {
		el := entityElem{ID: e.ID}
		for _, n := range e.Names {
			el.Names = append(el.Names, nameElem{Value: n})
		}
		doc.Entities = append(doc.Entities, el)
	}
	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal grammar: %w", err)
	}
	return append([]byte(xml.Header), out...), nil
}
