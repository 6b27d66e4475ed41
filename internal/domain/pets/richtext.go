package pets

import "encoding/json"

// Tipos de nodo de rich text que generamos o esperamos leer.
const (
	NodeDocument  = "document"
	NodeParagraph = "paragraph"
	NodeHeading1  = "heading-1"
	NodeHeading2  = "heading-2"
	NodeHyperlink = "hyperlink"
	NodeText      = "text"
)

// Document es el árbol de rich text del CMS. Se guarda sin interpretar más allá
// de la estructura (nodeType/value/marks/data/content).
type Document = Node

type Node struct {
	NodeType string         `json:"nodeType"`
	Value    string         `json:"value,omitempty"`
	Marks    []Mark         `json:"marks,omitempty"`
	Data     map[string]any `json:"data"`
	Content  []Node         `json:"content,omitempty"`
}

type Mark struct {
	Type string `json:"type"`
}

// MarshalJSON sigue el formato del CMS: los nodos de texto siempre llevan
// value y marks, los de bloque siempre llevan content, todos llevan data.
func (n Node) MarshalJSON() ([]byte, error) {
	type wire struct {
		NodeType string         `json:"nodeType"`
		Value    *string        `json:"value,omitempty"`
		Marks    *[]Mark        `json:"marks,omitempty"`
		Data     map[string]any `json:"data"`
		Content  *[]Node        `json:"content,omitempty"`
	}
	w := wire{NodeType: n.NodeType, Data: n.Data}
	if w.Data == nil {
		w.Data = map[string]any{}
	}
	if n.NodeType == NodeText {
		v, m := n.Value, n.Marks
		if m == nil {
			m = []Mark{}
		}
		w.Value, w.Marks = &v, &m
	} else {
		c := n.Content
		if c == nil {
			c = []Node{}
		}
		w.Content = &c
	}
	return json.Marshal(w)
}

// Paragraphs arma un documento con un párrafo de texto plano por valor.
func Paragraphs(values ...string) *Document {
	content := make([]Node, 0, len(values))
	for _, v := range values {
		content = append(content, Node{
			NodeType: NodeParagraph,
			Data:     map[string]any{},
			Content: []Node{{
				NodeType: NodeText,
				Value:    v,
				Marks:    []Mark{},
				Data:     map[string]any{},
			}},
		})
	}
	return &Document{
		NodeType: NodeDocument,
		Data:     map[string]any{},
		Content:  content,
	}
}

// PlainText concatena los textos del árbol (un bloque por línea).
func (n *Node) PlainText() string {
	if n == nil {
		return ""
	}
	var out []byte
	var walk func(Node, bool)
	walk = func(x Node, top bool) {
		if x.NodeType == NodeText {
			out = append(out, x.Value...)
		}
		for _, c := range x.Content {
			walk(c, false)
		}
		if !top && x.NodeType != NodeText && x.NodeType != NodeHyperlink && len(out) > 0 && out[len(out)-1] != '\n' {
			out = append(out, '\n')
		}
	}
	walk(*n, true)
	if len(out) > 0 && out[len(out)-1] == '\n' {
		out = out[:len(out)-1]
	}
	return string(out)
}
