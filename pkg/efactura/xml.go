package efactura

import (
	"errors"
	"fmt"
	"os"

	"github.com/beevik/etree"
)

// XML is a well-formed invoice document ready to be uploaded.
type XML struct {
	raw  []byte
	root string
}

// LoadXML reads path and checks that it holds a well-formed XML document.
func LoadXML(path string) (XML, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return XML{}, fmt.Errorf("read xml file: %w", err)
	}
	return ParseXML(raw)
}

// ParseXML checks raw for well-formedness. The bytes are kept verbatim.
func ParseXML(raw []byte) (XML, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(raw); err != nil {
		return XML{}, fmt.Errorf("parse xml: %w", err)
	}
	root := doc.Root()
	if root == nil {
		return XML{}, errors.New("parse xml: document has no root element")
	}
	return XML{raw: append([]byte{}, raw...), root: root.Tag}, nil
}

// RootTag returns the local name of the root element (e.g. "Invoice", "CreditNote").
func (x XML) RootTag() string { return x.root }

func (x XML) Bytes() []byte { return append([]byte{}, x.raw...) }
