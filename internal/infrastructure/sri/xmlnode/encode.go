package xmlnode

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
)

// Header declaración XML que antecede a todo comprobante.
const Header = `<?xml version="1.0" encoding="UTF-8"?>` + "\n"

// Marshal serializa el árbol con declaración XML e indentación de dos espacios.
func Marshal(root Node) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(Header)
	if err := Encode(&buf, root); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Encode escribe el árbol en w. Es total sobre los cuatro tipos de nodo.
func Encode(w io.Writer, root Node) error {
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := encodeNode(enc, root); err != nil {
		return err
	}
	return enc.Flush()
}

func encodeNode(enc *xml.Encoder, n Node) error {
	switch v := n.(type) {
	case Scalar:
		return writeText(enc, start(v.Name, nil), v.Value)
	case AttributedScalar:
		return writeText(enc, start(v.Name, v.Attrs), v.Value)
	case Object:
		st := start(v.Name, v.Attrs)
		if err := enc.EncodeToken(st); err != nil {
			return err
		}
		for _, c := range v.Children {
			if err := encodeNode(enc, c); err != nil {
				return err
			}
		}
		return enc.EncodeToken(st.End())
	case Repeated:
		if len(v.Items) == 0 {
			return nil
		}
		st := start(v.Name, nil)
		if err := enc.EncodeToken(st); err != nil {
			return err
		}
		for _, it := range v.Items {
			if err := encodeNode(enc, it); err != nil {
				return err
			}
		}
		return enc.EncodeToken(st.End())
	case nil:
		return nil
	default:
		return fmt.Errorf("xmlnode: tipo de nodo no soportado %T", n)
	}
}

func start(name string, attrs []Attr) xml.StartElement {
	st := xml.StartElement{Name: xml.Name{Local: name}}
	for _, a := range attrs {
		st.Attr = append(st.Attr, xml.Attr{Name: xml.Name{Local: a.Name}, Value: a.Value})
	}
	return st
}

func writeText(enc *xml.Encoder, st xml.StartElement, value string) error {
	if err := enc.EncodeToken(st); err != nil {
		return err
	}
	if value != "" {
		if err := enc.EncodeToken(xml.CharData(value)); err != nil {
			return err
		}
	}
	return enc.EncodeToken(st.End())
}
