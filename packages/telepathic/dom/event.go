package dom

// Event is dispatched synchronously to the listeners of its target
type Event struct {
	Type   string
	Target *Node
}

// NewEvent creates an event of the given type
func NewEvent(eventType string) *Event {
	return &Event{Type: eventType}
}

// Listener handles a dispatched event
type Listener func(*Event)

// AddEventListener registers fn for events of the given type
func (n *Node) AddEventListener(eventType string, fn Listener) {
	if fn == nil {
		return
	}
	if n.listeners == nil {
		n.listeners = make(map[string][]Listener)
	}
	n.listeners[eventType] = append(n.listeners[eventType], fn)
}

// ListenerCount returns the number of listeners registered for eventType
func (n *Node) ListenerCount(eventType string) int {
	return len(n.listeners[eventType])
}

// DispatchEvent invokes the listeners registered on n for the event type in
// registration order. Listeners added during dispatch run on the next dispatch.
func (n *Node) DispatchEvent(e *Event) {
	e.Target = n
	for _, fn := range append([]Listener{}, n.listeners[e.Type]...) {
		fn(e)
	}
}

// MutationKind classifies a Mutation
type MutationKind int

const (
	AttributeMutation MutationKind = iota
	PropertyMutation
	ChildListMutation
	CharacterDataMutation
)

func (k MutationKind) String() string {
	switch k {
	case AttributeMutation:
		return "attributes"
	case PropertyMutation:
		return "property"
	case ChildListMutation:
		return "childList"
	case CharacterDataMutation:
		return "characterData"
	default:
		return "unknown"
	}
}

// Mutation records one write applied to Target
type Mutation struct {
	Kind     MutationKind
	Target   *Node
	Name     string
	OldValue string
}

// Observe registers fn to receive every mutation applied directly to n
func (n *Node) Observe(fn func(Mutation)) {
	if fn != nil {
		n.observers = append(n.observers, fn)
	}
}

func (n *Node) notify(m Mutation) {
	for _, fn := range n.observers {
		fn(m)
	}
}
