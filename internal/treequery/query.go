// Package treequery implementa la ricerca generica di antenati e discendenti
// su un albero di cui conosce solo la navigazione parent/child. Il significato
// dei nodi è del chiamante: la ricerca restringe il payload al tipo cercato e
// applica un predicato.
package treequery

// Node è la capability minima richiesta a un nodo: genitori, figli e payload.
// Un nodo può avere più genitori (albero con condivisione).
type Node interface {
	Parents() []Node
	Children() []Node
	Payload() any
}

// As restringe il payload di un nodo al tipo T.
func As[T any](n Node) (T, bool) {
	t, ok := n.Payload().(T)
	return t, ok
}

// FindAncestor risale l'albero in profondità: per ogni genitore diretto prova
// prima il genitore stesso, poi i suoi antenati, poi passa al genitore
// successivo. Ritorna il primo nodo il cui payload è un T che soddisfa pred.
// Un pred nil accetta qualunque T.
func FindAncestor[T any](n Node, pred func(T) bool) (T, bool) {
	for _, parent := range n.Parents() {
		if t, ok := As[T](parent); ok && (pred == nil || pred(t)) {
			return t, true
		}
		if t, ok := FindAncestor[T](parent, pred); ok {
			return t, true
		}
	}
	var zero T
	return zero, false
}

// FindDescendant è la ricerca speculare verso il basso: figlio, poi il suo
// sottoalbero, poi il fratello successivo. Primo match vince.
func FindDescendant[T any](n Node, pred func(T) bool) (T, bool) {
	for _, child := range n.Children() {
		if child == nil {
			continue
		}
		if t, ok := As[T](child); ok && (pred == nil || pred(t)) {
			return t, true
		}
		if t, ok := FindDescendant[T](child, pred); ok {
			return t, true
		}
	}
	var zero T
	return zero, false
}

// HasAncestor riporta se esiste un antenato con payload T che soddisfa pred.
func HasAncestor[T any](n Node, pred func(T) bool) bool {
	_, ok := FindAncestor[T](n, pred)
	return ok
}

// HasDescendant riporta se esiste un discendente con payload T che soddisfa pred.
func HasDescendant[T any](n Node, pred func(T) bool) bool {
	_, ok := FindDescendant[T](n, pred)
	return ok
}

// BasicNode è l'implementazione pronta di Node che i frontend costruiscono
// mentre adattano il proprio albero sintattico.
type BasicNode struct {
	payload  any
	parents  []Node
	children []Node
}

// NewNode crea un nodo con il payload dato.
func NewNode(payload any) *BasicNode {
	return &BasicNode{payload: payload}
}

// AddChild collega child come figlio di n e n come genitore di child.
func (n *BasicNode) AddChild(child *BasicNode) *BasicNode {
	n.children = append(n.children, child)
	child.parents = append(child.parents, n)
	return child
}

func (n *BasicNode) Parents() []Node  { return n.parents }
func (n *BasicNode) Children() []Node { return n.children }
func (n *BasicNode) Payload() any     { return n.payload }
