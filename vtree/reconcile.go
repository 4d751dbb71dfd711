package vtree

import "github.com/delaneyj/refparty/ref"

// pass accumulates one reconciliation's obligations. The structural walk
// only queues; everything observable fires in commit, in this order:
// attach pre-validation, unmount hooks, detaches, owner teardowns,
// attaches, mount hooks. Failing the pre-validation abandons the pass
// with zero ref calls issued.
type pass struct {
	detaches     []ref.Descriptor
	attaches     []attachOp
	teardowns    []*ref.Owner
	unmountHooks []func()
	mountHooks   []func()
}

type attachOp struct {
	desc ref.Descriptor
	inst ref.Instance
}

func sameIdentity(a, b Element) bool {
	return a.Tag == b.Tag && a.Key == b.Key && (a.Comp == nil) == (b.Comp == nil)
}

// reconcile diffs one position: prev is what was committed there, el what
// the new render wants there.
func (p *pass) reconcile(prev *node, el Element) *node {
	if el.isZero() {
		if prev != nil {
			p.remove(prev)
		}
		return nil
	}
	if prev == nil {
		return p.mount(el)
	}
	if !sameIdentity(prev.el, el) {
		p.remove(prev)
		return p.mount(el)
	}
	return p.update(prev, el)
}

func renderComponent(ci *CompositeInstance) Element {
	o := ci.owner
	o.BeginWork()
	defer o.EndWork()
	return ci.comp.Render(o)
}

func (p *pass) mount(el Element) *node {
	n := &node{el: el}
	if el.Comp != nil {
		owner := ref.NewOwner()
		n.comp = &CompositeInstance{name: el.Tag, comp: el.Comp, owner: owner}
		rendered := renderComponent(n.comp)
		if !rendered.isZero() {
			n.rendered = p.mount(rendered)
		}
		// children mount first, so hooks run child-first
		if m, ok := el.Comp.(Mounter); ok {
			p.mountHooks = append(p.mountHooks, func() {
				owner.BeginWork()
				defer owner.EndWork()
				m.Mounted(owner)
			})
		}
	} else {
		n.host = &HostNode{Tag: el.Tag}
		for _, child := range el.Children {
			if child.isZero() {
				continue
			}
			n.children = append(n.children, p.mount(child))
		}
	}
	if !el.Ref.IsZero() {
		n.desc = el.Ref
		p.attaches = append(p.attaches, attachOp{desc: el.Ref, inst: n.instance()})
	}
	return n
}

func (p *pass) update(n *node, el Element) *node {
	next := &node{el: el, host: n.host, comp: n.comp, desc: n.desc}
	p.diffRef(n.desc, el.Ref, next)

	if next.comp != nil {
		// same identity, same instance, fresh behavior for this render
		next.comp.comp = el.Comp
		rendered := renderComponent(next.comp)
		switch {
		case rendered.isZero():
			if n.rendered != nil {
				p.remove(n.rendered)
			}
		case n.rendered == nil:
			next.rendered = p.mount(rendered)
		default:
			next.rendered = p.reconcile(n.rendered, rendered)
		}
	} else {
		next.children = p.reconcileChildren(n.children, el.Children)
	}
	return next
}

// diffRef applies the per-position descriptor comparison. Equal
// descriptors need no cycle; any change queues the detach and, when a new
// descriptor is present, the attach. Ordering across the whole pass is
// commit's job.
func (p *pass) diffRef(old, next ref.Descriptor, target *node) {
	switch {
	case old.IsZero() && next.IsZero():
	case old.IsZero():
		target.desc = next
		p.attaches = append(p.attaches, attachOp{desc: next, inst: target.instance()})
	case next.IsZero():
		target.desc = ref.Descriptor{}
		p.detaches = append(p.detaches, old)
	case old.Equal(next):
		target.desc = old
	default:
		target.desc = next
		p.detaches = append(p.detaches, old)
		p.attaches = append(p.attaches, attachOp{desc: next, inst: target.instance()})
	}
}

// reconcileChildren matches siblings by (composite-ness, tag, key,
// occurrence index) and mounts, updates or removes accordingly.
func (p *pass) reconcileChildren(prev []*node, next []Element) []*node {
	type occKey struct {
		composite bool
		tag, key  string
	}
	type childKey struct {
		occKey
		idx int
	}

	prevByKey := make(map[childKey]*node, len(prev))
	occ := map[occKey]int{}
	for _, c := range prev {
		k := occKey{c.el.Comp != nil, c.el.Tag, c.el.Key}
		prevByKey[childKey{k, occ[k]}] = c
		occ[k]++
	}

	var out []*node
	used := make(map[*node]bool, len(prev))
	occ = map[occKey]int{}
	for _, el := range next {
		if el.isZero() {
			continue
		}
		k := occKey{el.Comp != nil, el.Tag, el.Key}
		ck := childKey{k, occ[k]}
		occ[k]++
		if old, found := prevByKey[ck]; found {
			used[old] = true
			out = append(out, p.update(old, el))
		} else {
			out = append(out, p.mount(el))
		}
	}
	for _, c := range prev {
		if !used[c] {
			p.remove(c)
		}
	}
	return out
}

// remove queues the teardown of a committed subtree: unmount hooks
// parent-first, a detach for every attached position, and the teardown of
// every owner in the subtree.
func (p *pass) remove(n *node) {
	if n == nil {
		return
	}
	if n.comp != nil {
		if u, ok := n.comp.comp.(Unmounter); ok {
			owner := n.comp.owner
			p.unmountHooks = append(p.unmountHooks, func() {
				owner.BeginWork()
				defer owner.EndWork()
				u.WillUnmount(owner)
			})
		}
	}
	if !n.desc.IsZero() {
		p.detaches = append(p.detaches, n.desc)
	}
	if n.comp != nil {
		p.teardowns = append(p.teardowns, n.comp.owner)
		p.remove(n.rendered)
	}
	for _, c := range n.children {
		p.remove(c)
	}
}

func (p *pass) commit() error {
	// pre-validate so an abandoned pass issues nothing
	for _, op := range p.attaches {
		if op.desc.Owner() == nil {
			return &ref.OwnerlessRefError{Slot: op.desc.SlotName()}
		}
	}
	for _, h := range p.unmountHooks {
		h()
	}
	for _, d := range p.detaches {
		ref.Detach(d)
	}
	for _, o := range p.teardowns {
		o.Teardown()
	}
	for _, op := range p.attaches {
		if err := ref.Attach(op.desc, op.inst); err != nil {
			return err
		}
	}
	for _, h := range p.mountHooks {
		h()
	}
	return nil
}

// syncNode pushes the committed tree's text, attrs and child lists onto
// the host nodes. Runs only after a successful commit.
func syncNode(n *node) {
	if n == nil {
		return
	}
	if n.host != nil {
		n.host.Text = n.el.Text
		n.host.Attrs = cloneAttrs(n.el.Attrs)
		n.host.Children = nil
		for _, c := range n.children {
			syncNode(c)
			if h := topHost(c); h != nil {
				n.host.Children = append(n.host.Children, h)
			}
		}
		return
	}
	syncNode(n.rendered)
}

// topHost walks through composites to the nearest host node.
func topHost(n *node) *HostNode {
	for n != nil {
		if n.host != nil {
			return n.host
		}
		n = n.rendered
	}
	return nil
}

func cloneAttrs(attrs map[string]string) map[string]string {
	if len(attrs) == 0 {
		return nil
	}
	out := make(map[string]string, len(attrs))
	for k, v := range attrs {
		out[k] = v
	}
	return out
}
