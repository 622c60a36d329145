package sim

// Named is implemented by everything with a name.
type Named interface {
	Name() string
}

// A Component is a named, hookable event handler. NotifyRecv wakes it up
// when a wire or port it listens to changes.
type Component interface {
	Named
	Handler
	Hookable

	NotifyRecv()
}

// ComponentBase gives a component its name and hook list.
type ComponentBase struct {
	HookableBase

	name string
}

// NewComponentBase creates a ComponentBase.
func NewComponentBase(name string) *ComponentBase {
	return &ComponentBase{name: name}
}

// Name returns the name of the component.
func (c *ComponentBase) Name() string {
	return c.name
}
