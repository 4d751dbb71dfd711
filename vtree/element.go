package vtree

import "github.com/delaneyj/refparty/ref"

// Component renders a declarative element against its owner. The owner is
// threaded explicitly through the render call; there is no ambient
// current-owner state anywhere in the engine.
type Component interface {
	Render(o *ref.Owner) Element
}

// ComponentFunc adapts a plain render function.
type ComponentFunc func(o *ref.Owner) Element

func (f ComponentFunc) Render(o *ref.Owner) Element { return f(o) }

// Mounter is implemented by components that want a hook after the commit
// that mounted them. By the time it runs, refs inside the committed tree
// are attached.
type Mounter interface {
	Component
	Mounted(o *ref.Owner)
}

// Unmounter is implemented by components that want a hook in the commit
// that removes them. It runs before the owner's own detaches fire. A
// component that bridged a subtree into another engine must unmount it
// here, nothing does that automatically.
type Unmounter interface {
	Component
	WillUnmount(o *ref.Owner)
}

const textTag = "#text"

// Element is one declarative tree node. The zero value is "nothing here".
// A non-nil Comp makes the element composite; Tag is then the component
// name used for sibling matching.
type Element struct {
	Tag      string
	Key      string
	Ref      ref.Descriptor
	Attrs    map[string]string
	Text     string
	Children []Element
	Comp     Component
}

// H builds a host element.
func H(tag string, children ...Element) Element {
	return Element{Tag: tag, Children: children}
}

// C builds a composite element. Siblings are matched across renders by
// name and key, so renaming a component remounts it.
func C(name string, c Component) Element {
	return Element{Tag: name, Comp: c}
}

// Text builds a text node.
func Text(s string) Element {
	return Element{Tag: textTag, Text: s}
}

func (el Element) WithKey(key string) Element {
	el.Key = key
	return el
}

func (el Element) WithRef(d ref.Descriptor) Element {
	el.Ref = d
	return el
}

func (el Element) WithAttr(k, v string) Element {
	attrs := make(map[string]string, len(el.Attrs)+1)
	for ak, av := range el.Attrs {
		attrs[ak] = av
	}
	attrs[k] = v
	el.Attrs = attrs
	return el
}

func (el Element) isZero() bool {
	return el.Tag == "" && el.Comp == nil
}
