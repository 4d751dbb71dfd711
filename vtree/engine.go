package vtree

import (
	"errors"

	"github.com/delaneyj/refparty/ref"
)

var (
	ErrNilContainer = errors.New("vtree: nil container")
	ErrEmptyElement = errors.New("vtree: empty element")
	ErrReentrant    = errors.New("vtree: engine re-entered during its own commit")
)

// Engine is one reconciler. Engines are plain instances so several can
// coexist in a process, each owning its own roots and sharing no mutable
// state with any other. An engine runs one pass at a time on one logical
// thread; it may be driven from another engine's commit hooks (that is
// how bridging works) but never re-entered from its own.
type Engine struct {
	roots      map[*HostNode]*node
	committing bool
}

func New() *Engine {
	return &Engine{roots: map[*HostNode]*node{}}
}

// Render mounts el into container, or reconciles it against whatever a
// previous Render mounted there. Ref obligations collected during the
// structural pass fire only at commit, every detach strictly before any
// attach; when Render returns an error the pass was abandoned and no
// attach or detach was observably issued.
func (e *Engine) Render(el Element, container *HostNode) error {
	if container == nil {
		return ErrNilContainer
	}
	if el.isZero() {
		return ErrEmptyElement
	}
	if e.committing {
		return ErrReentrant
	}

	p := &pass{}
	next := p.reconcile(e.roots[container], el)

	e.committing = true
	err := p.commit()
	e.committing = false
	if err != nil {
		return err
	}

	e.roots[container] = next
	syncNode(next)
	container.Children = nil
	if h := topHost(next); h != nil {
		container.Children = []*HostNode{h}
	}
	return nil
}

// Unmount tears down whatever is mounted at container and reports whether
// anything was. Every owner in the subtree detaches its own attachments;
// unmount hooks run before the detaches of the owner that declared them.
func (e *Engine) Unmount(container *HostNode) bool {
	if container == nil {
		return false
	}
	root, ok := e.roots[container]
	if !ok {
		return false
	}

	p := &pass{}
	p.remove(root)

	e.committing = true
	_ = p.commit() // removal passes queue no attaches, commit cannot fail
	e.committing = false

	delete(e.roots, container)
	container.Children = nil
	return true
}

// Mounted reports whether a root is currently mounted at container.
func (e *Engine) Mounted(container *HostNode) bool {
	_, ok := e.roots[container]
	return ok
}

// Root returns the instance mounted at container, or nil.
func (e *Engine) Root(container *HostNode) ref.Instance {
	root, ok := e.roots[container]
	if !ok {
		return nil
	}
	return root.instance()
}
