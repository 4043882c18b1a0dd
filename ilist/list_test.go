package ilist

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	val  int
	link Link[item]
}

func (it *item) ListLink() *Link[item] { return &it.link }

func values(l *List[item, *item]) []int {
	var out []int
	for k := l.Begin(); k != l.End(); k = k.Next() {
		out = append(out, k.Elem().val)
	}
	return out
}

// checkLinks walks both directions and verifies next.prev == self for every
// link, the sentinel included.
func checkLinks(t *testing.T, l *List[item, *item]) {
	t.Helper()
	n := 0
	for k := l.Begin(); k != l.End(); k = k.Next() {
		require.Same(t, k, k.next.prev)
		require.Same(t, k, k.prev.next)
		n++
	}
	require.Equal(t, l.Len(), n)
	end := l.End()
	require.NotNil(t, end.next)
	require.NotNil(t, end.prev)
}

func TestPushBackOrder(t *testing.T) {
	l := New[item]()
	a, b, c := &item{val: 1}, &item{val: 2}, &item{val: 3}

	require.NoError(t, l.PushBack(a))
	require.NoError(t, l.PushBack(b))
	require.NoError(t, l.PushBack(c))

	assert.Equal(t, 3, l.Len())
	assert.Equal(t, []int{1, 2, 3}, values(l))
	checkLinks(t, l)

	assert.Same(t, a, l.PopFront())
	assert.Equal(t, 2, l.Len())
	assert.Equal(t, []int{2, 3}, values(l))
	checkLinks(t, l)
}

func TestPopEmpty(t *testing.T) {
	l := New[item]()
	assert.Nil(t, l.PopFront())
	assert.Nil(t, l.PopBack())
	assert.Nil(t, l.Front())
	assert.Nil(t, l.Back())
	assert.Equal(t, 0, l.Len())
	assert.True(t, l.Empty())
}

func TestZeroValueList(t *testing.T) {
	var l List[item, *item]
	assert.Nil(t, l.PopFront())
	x := &item{val: 9}
	require.NoError(t, l.PushBack(x))
	assert.Same(t, x, l.Front())
	assert.Same(t, x, l.Back())
}

func TestPopBackAndPushFront(t *testing.T) {
	l := New[item]()
	a, b := &item{val: 1}, &item{val: 2}
	require.NoError(t, l.PushFront(a))
	require.NoError(t, l.PushFront(b))
	assert.Equal(t, []int{2, 1}, values(l))

	assert.Same(t, a, l.PopBack())
	assert.Same(t, b, l.PopBack())
	assert.Nil(t, l.PopBack())
	assert.False(t, a.link.Linked())
}

func TestInsertAfterPosition(t *testing.T) {
	l := New[item]()
	a, b, c := &item{val: 1}, &item{val: 2}, &item{val: 3}
	require.NoError(t, l.PushBack(a))
	require.NoError(t, l.PushBack(c))
	require.NoError(t, l.Insert(a.ListLink(), b))
	assert.Equal(t, []int{1, 2, 3}, values(l))

	d := &item{val: 0}
	require.NoError(t, l.Insert(l.End(), d))
	assert.Equal(t, []int{0, 1, 2, 3}, values(l))
	checkLinks(t, l)
}

func TestRemoveMiddle(t *testing.T) {
	l := New[item]()
	items := []*item{{val: 1}, {val: 2}, {val: 3}}
	for _, it := range items {
		require.NoError(t, l.PushBack(it))
	}
	require.NoError(t, l.Remove(items[1]))
	assert.Equal(t, []int{1, 3}, values(l))
	assert.False(t, l.Contains(items[1]))
	checkLinks(t, l)

	// an unlinked node can join again
	require.NoError(t, l.PushBack(items[1]))
	assert.Equal(t, []int{1, 3, 2}, values(l))
}

func TestDoubleInsertRejected(t *testing.T) {
	l1, l2 := New[item](), New[item]()
	x := &item{val: 1}
	require.NoError(t, l1.PushBack(x))

	assert.ErrorIs(t, l1.PushBack(x), ErrLinked)
	assert.ErrorIs(t, l2.PushBack(x), ErrLinked)
	assert.Equal(t, 1, l1.Len())
	assert.Equal(t, 0, l2.Len())
	checkLinks(t, l1)
}

func TestForeignRemoveRejected(t *testing.T) {
	l1, l2 := New[item](), New[item]()
	x, y := &item{val: 1}, &item{val: 2}
	require.NoError(t, l1.PushBack(x))

	assert.ErrorIs(t, l2.Remove(x), ErrNotMember)
	assert.ErrorIs(t, l1.Remove(y), ErrNotMember)
	assert.ErrorIs(t, l1.Remove(nil), ErrNilNode)
	assert.ErrorIs(t, l1.PushBack(nil), ErrNilNode)

	require.NoError(t, l1.Remove(x))
	assert.ErrorIs(t, l1.Remove(x), ErrNotMember, "second remove must fail")
	assert.Equal(t, 0, l1.Len())
}

func TestForeignPositionRejected(t *testing.T) {
	l1, l2 := New[item](), New[item]()
	x, y := &item{val: 1}, &item{val: 2}
	require.NoError(t, l1.PushBack(x))

	assert.ErrorIs(t, l2.Insert(x.ListLink(), y), ErrForeignPosition)
	assert.ErrorIs(t, l2.Insert(l1.End(), y), ErrForeignPosition)
	assert.ErrorIs(t, l1.Insert(nil, y), ErrForeignPosition)
	assert.False(t, y.link.Linked())
	assert.Equal(t, 0, l2.Len())
}

func TestSentinelElemIsNil(t *testing.T) {
	l := New[item]()
	assert.Nil(t, l.End().Elem())
	assert.Same(t, l.End(), l.Begin())
}

func TestAllAllowsRemovingCurrent(t *testing.T) {
	l := New[item]()
	for i := 1; i <= 6; i++ {
		require.NoError(t, l.PushBack(&item{val: i}))
	}
	for it := range l.All() {
		if it.val%2 == 0 {
			require.NoError(t, l.Remove(it))
		}
	}
	assert.Equal(t, []int{1, 3, 5}, values(l))

	var back []int
	for it := range l.Backward() {
		back = append(back, it.val)
	}
	assert.Equal(t, []int{5, 3, 1}, back)

	var first []int
	for it := range l.All() {
		first = append(first, it.val)
		break
	}
	assert.Equal(t, []int{1}, first)
}

func TestBeginEndAllowsRemovingCurrent(t *testing.T) {
	l := New[item]()
	a, b, c := &item{val: 1}, &item{val: 2}, &item{val: 3}
	require.NoError(t, l.PushBack(a))
	require.NoError(t, l.PushBack(b))
	require.NoError(t, l.PushBack(c))

	var seen []int
	for k := l.Begin(); k != l.End(); k = k.Next() {
		it := k.Elem()
		require.NotNil(t, it)
		seen = append(seen, it.val)
		require.NoError(t, l.Remove(it))
	}
	assert.Equal(t, []int{1, 2, 3}, seen)
	assert.True(t, l.Empty())
	checkLinks(t, l)

	// removed nodes are free to join another list
	other := New[item]()
	require.NoError(t, other.PushBack(b))
	require.NoError(t, other.PushBack(a))
	assert.Equal(t, []int{2, 1}, values(other))
	assert.Nil(t, c.link.Elem())
	assert.False(t, c.link.Linked())
}

func TestBeginEndRemoveSome(t *testing.T) {
	l := New[item]()
	for i := 1; i <= 7; i++ {
		require.NoError(t, l.PushBack(&item{val: i}))
	}
	for k := l.Begin(); k != l.End(); k = k.Next() {
		if it := k.Elem(); it.val%3 != 0 {
			require.NoError(t, l.Remove(it))
		}
	}
	assert.Equal(t, []int{3, 6}, values(l))
	checkLinks(t, l)

	// same rule walking backwards
	for k := l.End().Prev(); k != l.End(); k = k.Prev() {
		if it := k.Elem(); it.val == 6 {
			require.NoError(t, l.Remove(it))
		}
	}
	assert.Equal(t, []int{3}, values(l))
	checkLinks(t, l)
}

func TestOperationsDoNotAllocate(t *testing.T) {
	l := New[item]()
	nodes := make([]item, 8)
	sum := 0
	allocs := testing.AllocsPerRun(100, func() {
		for i := range nodes {
			_ = l.PushBack(&nodes[i])
		}
		for it := range l.All() {
			sum += it.val
		}
		for k := l.Begin(); k != l.End(); k = k.Next() {
			sum += k.Elem().val
		}
		_ = l.Remove(&nodes[3])
		_ = l.PushFront(&nodes[3])
		for !l.Empty() {
			l.PopFront()
		}
	})
	assert.Zero(t, allocs)
	assert.Zero(t, sum)
}

func TestRandomAgainstSlice(t *testing.T) {
	const n = 64
	pool := make([]item, n)
	for i := range pool {
		pool[i].val = i
	}
	l := New[item]()
	var model []int
	r := rand.New(rand.NewSource(99))

	for step := 0; step < 10_000; step++ {
		it := &pool[r.Intn(n)]
		switch r.Intn(4) {
		case 0:
			err := l.PushBack(it)
			if slices.Contains(model, it.val) {
				require.ErrorIs(t, err, ErrLinked)
			} else {
				require.NoError(t, err)
				model = append(model, it.val)
			}
		case 1:
			err := l.Remove(it)
			if i := slices.Index(model, it.val); i >= 0 {
				require.NoError(t, err)
				model = slices.Delete(model, i, i+1)
			} else {
				require.ErrorIs(t, err, ErrNotMember)
			}
		case 2:
			got := l.PopFront()
			if len(model) == 0 {
				require.Nil(t, got)
			} else {
				require.Equal(t, model[0], got.val)
				model = model[1:]
			}
		case 3:
			got := l.PopBack()
			if len(model) == 0 {
				require.Nil(t, got)
			} else {
				require.Equal(t, model[len(model)-1], got.val)
				model = model[:len(model)-1]
			}
		}
		require.Equal(t, len(model), l.Len())
	}
	if len(model) == 0 {
		model = nil
	}
	assert.Equal(t, model, values(l))
	checkLinks(t, l)
}
