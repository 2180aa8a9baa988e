// Package xmlnode modela el árbol ordenado de un comprobante como unión cerrada
// {Scalar, AttributedScalar, Object, Repeated}. El orden de los hijos es el orden
// de la secuencia XSD; nunca proviene de iterar un mapa.
package xmlnode

// Node es cualquiera de los cuatro tipos de nodo del paquete.
type Node interface {
	NodeName() string
	isNode()
}

// Attr atributo de un elemento, en orden de emisión.
type Attr struct {
	Name  string
	Value string
}

// Scalar elemento con solo texto: <ambiente>1</ambiente>.
type Scalar struct {
	Name  string
	Value string
}

// AttributedScalar elemento con atributos y texto: <campoAdicional nombre="Email">x</campoAdicional>.
type AttributedScalar struct {
	Name  string
	Attrs []Attr
	Value string
}

// Object elemento con hijos ordenados.
type Object struct {
	Name     string
	Attrs    []Attr
	Children []Node
}

// Repeated contenedor de elementos repetidos: <detalles><detalle/>...</detalles>.
// Un Repeated sin elementos no se emite.
type Repeated struct {
	Name  string
	Items []Node
}

func (s Scalar) NodeName() string           { return s.Name }
func (s AttributedScalar) NodeName() string { return s.Name }
func (o Object) NodeName() string           { return o.Name }
func (r Repeated) NodeName() string         { return r.Name }

func (Scalar) isNode()           {}
func (AttributedScalar) isNode() {}
func (Object) isNode()           {}
func (Repeated) isNode()         {}

// Fields acumula hijos en orden de secuencia.
type Fields []Node

// Add agrega un escalar obligatorio (se emite aunque esté vacío).
func (f *Fields) Add(name, value string) *Fields {
	*f = append(*f, Scalar{Name: name, Value: value})
	return f
}

// AddOptional agrega el escalar solo si tiene valor.
func (f *Fields) AddOptional(name, value string) *Fields {
	if value != "" {
		*f = append(*f, Scalar{Name: name, Value: value})
	}
	return f
}

// AddNode agrega un nodo ya construido; nil se ignora.
func (f *Fields) AddNode(n Node) *Fields {
	if n == nil {
		return f
	}
	if r, ok := n.(Repeated); ok && len(r.Items) == 0 {
		return f
	}
	*f = append(*f, n)
	return f
}

// Object construye el objeto con los campos acumulados.
func (f Fields) Object(name string, attrs ...Attr) Object {
	return Object{Name: name, Attrs: attrs, Children: []Node(f)}
}

// Lookup busca el primer hijo directo con ese nombre.
func (o Object) Lookup(name string) (Node, bool) {
	for _, c := range o.Children {
		if c.NodeName() == name {
			return c, true
		}
	}
	return nil, false
}

// Text devuelve el texto de un nodo escalar; vacío para objetos.
func Text(n Node) string {
	switch v := n.(type) {
	case Scalar:
		return v.Value
	case AttributedScalar:
		return v.Value
	default:
		return ""
	}
}
