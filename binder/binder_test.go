package binder

import (
	"testing"

	"github.com/RLabs-Inc/sparktui/internal/color"
	"github.com/RLabs-Inc/sparktui/reactive"
	"github.com/RLabs-Inc/sparktui/sns"
)

func newTestTree(t *testing.T) *Tree {
	t.Helper()
	store, err := sns.Allocate(64, 4096, 64)
	if err != nil {
		t.Fatalf("allocate store: %v", err)
	}
	return NewTree(store)
}

func TestBoxAllocatesAndParentsChildren(t *testing.T) {
	tree := newTestTree(t)

	var childIdx int32
	rootIdx, err := Box(tree, BoxConfig{
		Width: Fixed(80), Height: Fixed(24),
		Children: func() {
			idx, err := Box(tree, BoxConfig{Width: Fixed(10)})
			if err != nil {
				t.Fatalf("child box: %v", err)
			}
			childIdx = idx
		},
	})
	if err != nil {
		t.Fatalf("root box: %v", err)
	}

	child := tree.Store().NodeAt(childIdx)
	if child.ParentIndex != rootIdx {
		t.Errorf("expected child parent %d, got %d", rootIdx, child.ParentIndex)
	}
	root := tree.Store().NodeAt(rootIdx)
	if root.Width != 80 {
		t.Errorf("expected root width 80, got %v", root.Width)
	}
}

func TestTextReactiveContentRewrites(t *testing.T) {
	tree := newTestTree(t)
	label := reactive.New("hello")

	idx, err := Text(tree, TextConfig{Content: label})
	if err != nil {
		t.Fatalf("text: %v", err)
	}
	if got := tree.Store().ReadText(idx); got != "hello" {
		t.Errorf("expected %q, got %q", "hello", got)
	}

	label.Set("world")
	if got := tree.Store().ReadText(idx); got != "world" {
		t.Errorf("expected %q after update, got %q", "world", got)
	}
}

func TestTextStaticContent(t *testing.T) {
	tree := newTestTree(t)
	idx, err := Text(tree, TextConfig{Content: "static"})
	if err != nil {
		t.Fatalf("text: %v", err)
	}
	if got := tree.Store().ReadText(idx); got != "static" {
		t.Errorf("expected %q, got %q", "static", got)
	}
}

func TestInputEditingAndCaret(t *testing.T) {
	tree := newTestTree(t)
	value := reactive.New("ab")

	idx, err := Input(tree, InputConfig{Value: value})
	if err != nil {
		t.Fatalf("input: %v", err)
	}

	tree.Focus(idx)
	tree.DispatchKey(sns.Event{Type: sns.EventKey, Keycode: KeyEnd})
	tree.DispatchKey(sns.Event{Type: sns.EventKey, Keycode: int32('c')})

	if value.Peek() != "abc" {
		t.Errorf("expected %q, got %q", "abc", value.Peek())
	}

	tree.DispatchKey(sns.Event{Type: sns.EventKey, Keycode: KeyBackspace})
	if value.Peek() != "ab" {
		t.Errorf("expected %q after backspace, got %q", "ab", value.Peek())
	}
}

func TestInputSubmit(t *testing.T) {
	tree := newTestTree(t)
	value := reactive.New("go")
	var submitted string

	idx, err := Input(tree, InputConfig{
		Value:    value,
		OnSubmit: func(v string) { submitted = v },
	})
	if err != nil {
		t.Fatalf("input: %v", err)
	}
	tree.Focus(idx)
	tree.DispatchKey(sns.Event{Type: sns.EventKey, Keycode: KeyEnter})

	if submitted != "go" {
		t.Errorf("expected submit value %q, got %q", "go", submitted)
	}
}

func TestFocusNextCyclesFocusableNodes(t *testing.T) {
	tree := newTestTree(t)
	var a, b int32
	_, err := Box(tree, BoxConfig{
		Children: func() {
			var ierr error
			a, ierr = Input(tree, InputConfig{Value: reactive.New("")})
			if ierr != nil {
				t.Fatalf("input a: %v", ierr)
			}
			b, ierr = Input(tree, InputConfig{Value: reactive.New("")})
			if ierr != nil {
				t.Fatalf("input b: %v", ierr)
			}
		},
	})
	if err != nil {
		t.Fatalf("box: %v", err)
	}

	tree.FocusNext()
	first := tree.Focused.Peek()
	tree.FocusNext()
	second := tree.Focused.Peek()

	if first == second {
		t.Fatalf("expected focus to move between nodes, stayed at %d", first)
	}
	if first != a && first != b {
		t.Errorf("unexpected first focus target %d", first)
	}
}

func TestEachReconcilesByKey(t *testing.T) {
	tree := newTestTree(t)
	list := reactive.New([]string{"a", "b", "c"})
	var textIdx = map[string]int32{}

	_, err := Box(tree, BoxConfig{
		Children: func() {
			Each(tree, func() []string { return list.Get() }, func(s string) string { return s },
				func(tr *Tree, item *reactive.Signal[string], index int) int32 {
					idx, err := Text(tr, TextConfig{Content: item})
					if err != nil {
						t.Fatalf("each text: %v", err)
					}
					textIdx[item.Peek()] = idx
					return idx
				})
		},
	})
	if err != nil {
		t.Fatalf("box: %v", err)
	}

	bIdx, ok := textIdx["b"]
	if !ok {
		t.Fatalf("expected entry for b")
	}
	if got := tree.Store().ReadText(bIdx); got != "b" {
		t.Errorf("expected text %q, got %q", "b", got)
	}

	list.Set([]string{"a", "c"})
	if n := tree.Store().NodeAt(bIdx); n != nil && n.ComponentType != sns.ComponentNone {
		t.Errorf("expected node for removed key b to be released")
	}
}

func TestShowSwapsBranchOnToggle(t *testing.T) {
	tree := newTestTree(t)
	flag := reactive.New(true)
	var built []string

	Show(tree,
		func() bool { return flag.Get() },
		func(t *Tree) int32 {
			idx, _ := Text(t, TextConfig{Content: "on"})
			built = append(built, "on")
			return idx
		},
		func(t *Tree) int32 {
			idx, _ := Text(t, TextConfig{Content: "off"})
			built = append(built, "off")
			return idx
		},
	)

	if len(built) != 1 || built[0] != "on" {
		t.Fatalf("expected initial branch 'on', got %v", built)
	}

	flag.Set(false)
	if len(built) != 2 || built[1] != "off" {
		t.Fatalf("expected branch swap to 'off', got %v", built)
	}
}

func TestThemeSlotIsReactive(t *testing.T) {
	th := NewTheme(nil)
	primary := th.Slot(color.SlotPrimary)
	rev := primary.Revision()

	th.Set(color.SlotPrimary, color.Opaque(1, 2, 3))
	if primary.Revision() == rev {
		t.Errorf("expected revision to change after Set")
	}
}

func TestPulseProducesBooleanCell(t *testing.T) {
	p := Pulse(CycleOptions{FPS: 1000, Active: func() bool { return false }})
	if p.Get() != true {
		t.Errorf("expected frozen pulse to read first frame (true), got %v", p.Get())
	}
}
