package soak

import (
	"errors"
	"slices"

	"fixedcap/config"
	"fixedcap/ilist"
)

type listNode struct {
	id   int
	link ilist.Link[listNode]
}

func (n *listNode) ListLink() *ilist.Link[listNode] { return &n.link }

// RunList checks ilist against a slice of member ids.  Two lists share one
// node population so cross-list misuse is exercised and must be refused.
func RunList(cfg *config.Config, seed int64) Result {
	r := newRun(List, seed)
	nodes := make([]listNode, cfg.List.Nodes)
	for i := range nodes {
		nodes[i].id = i
	}
	defer lockStorage(cfg.LockMemory, List, nodes)()

	l, other := ilist.New[listNode](), ilist.New[listNode]()
	var model []int // ids in l, front to back
	inOther := make([]bool, len(nodes))

	member := func(id int) int { return slices.Index(model, id) }

	r.loop(cfg.Ops, func() {
		n := &nodes[r.rng.Intn(len(nodes))]
		switch r.rng.Intn(8) {
		case 0:
			ok := member(n.id) < 0 && !inOther[n.id]
			r.checkLinkErr("PushBack", l.PushBack(n), ok, ilist.ErrLinked)
			if ok {
				model = append(model, n.id)
			}
		case 1:
			ok := member(n.id) < 0 && !inOther[n.id]
			r.checkLinkErr("PushFront", l.PushFront(n), ok, ilist.ErrLinked)
			if ok {
				model = slices.Insert(model, 0, n.id)
			}
		case 2:
			// insert after a random member, or after the sentinel when empty
			pos, at := l.End(), 0
			if len(model) > 0 {
				i := r.rng.Intn(len(model))
				pos, at = nodes[model[i]].ListLink(), i+1
			}
			ok := member(n.id) < 0 && !inOther[n.id]
			r.checkLinkErr("Insert", l.Insert(pos, n), ok, ilist.ErrLinked)
			if ok {
				model = slices.Insert(model, at, n.id)
			}
		case 3:
			i := member(n.id)
			r.checkLinkErr("Remove", l.Remove(n), i >= 0, ilist.ErrNotMember)
			if i >= 0 {
				model = slices.Delete(model, i, i+1)
			}
		case 4:
			got := l.PopFront()
			if len(model) == 0 {
				r.expect("PopFront on empty", got, (*listNode)(nil))
				break
			}
			r.expect("PopFront", got, &nodes[model[0]])
			model = model[1:]
		case 5:
			got := l.PopBack()
			if len(model) == 0 {
				r.expect("PopBack on empty", got, (*listNode)(nil))
				break
			}
			r.expect("PopBack", got, &nodes[model[len(model)-1]])
			model = model[:len(model)-1]
		case 6:
			// park a free node on the other list, or pull one back
			if inOther[n.id] {
				r.checkLinkErr("other.Remove", other.Remove(n), true, nil)
				inOther[n.id] = false
			} else if member(n.id) < 0 {
				r.checkLinkErr("other.PushBack", other.PushBack(n), true, nil)
				inOther[n.id] = true
			} else {
				r.checkLinkErr("other.Remove foreign", other.Remove(n), false, ilist.ErrNotMember)
			}
		case 7:
			r.checkOrder(l, nodes, model)
		}
		r.expect("Len", l.Len(), len(model))
	})
	r.checkOrder(l, nodes, model)
	return r.finish()
}

func (r *run) checkLinkErr(op string, err error, wantOK bool, wantErr error) {
	switch {
	case wantOK && err != nil:
		r.failf("%s: unexpected error %v", op, err)
	case !wantOK && !errors.Is(err, wantErr):
		r.failf("%s: error %v, want %v", op, err, wantErr)
	}
}

// checkOrder walks the list both ways and compares it with the model.
func (r *run) checkOrder(l *ilist.List[listNode, *listNode], nodes []listNode, model []int) {
	i := 0
	for n := range l.All() {
		if i >= len(model) || n != &nodes[model[i]] {
			r.failf("forward walk diverges at position %d", i)
			return
		}
		i++
	}
	r.expect("forward walk length", i, len(model))
	for n := range l.Backward() {
		i--
		if i < 0 || n != &nodes[model[i]] {
			r.failf("backward walk diverges at position %d", i)
			return
		}
	}
}
