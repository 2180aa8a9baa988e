package xmlnode

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
)

// Decode reconstruye el árbol desde XML. Los contenedores se leen como Object:
// Repeated no es distinguible en el texto, Paths los trata igual.
func Decode(data []byte) (Object, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return Object{}, fmt.Errorf("xmlnode: parsear XML: %w", err)
	}
	root := doc.Root()
	if root == nil {
		return Object{}, fmt.Errorf("xmlnode: documento sin raíz")
	}
	n := fromElement(root)
	if o, ok := n.(Object); ok {
		return o, nil
	}
	return Object{Name: root.Tag, Attrs: attrsOf(root)}, nil
}

func fromElement(el *etree.Element) Node {
	children := el.ChildElements()
	attrs := attrsOf(el)
	if len(children) == 0 {
		text := strings.TrimSpace(el.Text())
		if len(attrs) > 0 {
			return AttributedScalar{Name: el.Tag, Attrs: attrs, Value: text}
		}
		return Scalar{Name: el.Tag, Value: text}
	}
	obj := Object{Name: el.Tag, Attrs: attrs}
	for _, c := range children {
		obj.Children = append(obj.Children, fromElement(c))
	}
	return obj
}

func attrsOf(el *etree.Element) []Attr {
	if len(el.Attr) == 0 {
		return nil
	}
	out := make([]Attr, 0, len(el.Attr))
	for _, a := range el.Attr {
		name := a.Key
		if a.Space != "" {
			name = a.Space + ":" + a.Key
		}
		out = append(out, Attr{Name: name, Value: a.Value})
	}
	return out
}

// Paths aplana el árbol en una secuencia ordenada "a/b/c=valor". Dos árboles con la
// misma secuencia de Paths emiten los mismos campos en el mismo orden.
func Paths(n Node) []string {
	var out []string
	walk(n, "", &out)
	return out
}

func walk(n Node, prefix string, out *[]string) {
	switch v := n.(type) {
	case Scalar:
		*out = append(*out, prefix+v.Name+"="+v.Value)
	case AttributedScalar:
		*out = append(*out, prefix+v.Name+attrString(v.Attrs)+"="+v.Value)
	case Object:
		p := prefix + v.Name + attrString(v.Attrs) + "/"
		for _, c := range v.Children {
			walk(c, p, out)
		}
	case Repeated:
		if len(v.Items) == 0 {
			return
		}
		p := prefix + v.Name + "/"
		for _, it := range v.Items {
			walk(it, p, out)
		}
	}
}

func attrString(attrs []Attr) string {
	if len(attrs) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, a := range attrs {
		sb.WriteString("[" + a.Name + "=" + a.Value + "]")
	}
	return sb.String()
}
