package sparktui

import (
	"bytes"
	"strconv"
	"strings"
	"testing"

	"github.com/RLabs-Inc/sparktui/binder"
	"github.com/RLabs-Inc/sparktui/compositor"
	"github.com/RLabs-Inc/sparktui/layout"
	"github.com/RLabs-Inc/sparktui/reactive"
	"github.com/RLabs-Inc/sparktui/render"
	"github.com/RLabs-Inc/sparktui/sns"
)

// newPipeline wires binder+layout+compositor+render the way engine.Loop's
// tick does, without a terminal, so the four packages' contract with each
// other is exercised end to end (§8 scenarios) in one test.
func newPipeline(t *testing.T, cols, rows int) (*sns.Store, *binder.Tree, *layout.Engine, *compositor.Engine, *compositor.Buffer, *render.Renderer, *bytes.Buffer) {
	t.Helper()
	store, err := sns.Allocate(256, 1<<16, 64)
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	store.SetTerminalSize(cols, rows)

	tree := binder.NewTree(store)
	le := layout.New(store)
	fc := compositor.New(store)
	fb := compositor.NewBuffer(cols, rows)
	var out bytes.Buffer
	dr := render.New(&out, render.ModeInline, cols, rows)
	return store, tree, le, fc, fb, dr, &out
}

func runFrame(t *testing.T, le *layout.Engine, fc *compositor.Engine, fb *compositor.Buffer, dr *render.Renderer, tree *binder.Tree) {
	t.Helper()
	if err := le.Run(); err != nil {
		t.Fatalf("layout run: %v", err)
	}
	caret := fc.Compose(fb, tree.Focused.Peek())
	if err := dr.Render(fb, caret); err != nil {
		t.Fatalf("render: %v", err)
	}
}

// TestScenarioReactiveCounter mirrors §8 scenario 1: a derived label tied
// to a signal updates the rendered frame on Set, with no tree rebuild.
func TestScenarioReactiveCounter(t *testing.T) {
	store, tree, le, fc, fb, dr, out := newPipeline(t, 20, 3)

	count := reactive.New(0)
	label := reactive.NewDerived(func() string { return "count " + strconv.Itoa(count.Get()) })

	_, err := binder.Box(tree, binder.BoxConfig{
		Width:  binder.Fixed(20),
		Height: binder.Fixed(3),
		Children: func() {
			binder.Text(tree, binder.TextConfig{Content: label})
		},
	})
	if err != nil {
		t.Fatalf("box: %v", err)
	}

	runFrame(t, le, fc, fb, dr, tree)
	if !bytes.Contains(out.Bytes(), []byte("count 0")) {
		t.Fatalf("expected first frame to contain %q, got %q", "count 0", out.String())
	}

	out.Reset()
	count.Set(1)
	if !store.AnyDirty(sns.DirtyLayout | sns.DirtyHierarchy | sns.DirtyVisual | sns.DirtyText) {
		t.Fatalf("expected Set to mark the store dirty")
	}

	runFrame(t, le, fc, fb, dr, tree)
	if !bytes.Contains(out.Bytes(), []byte("\x1b[1;7H1")) {
		t.Fatalf("expected second frame to repaint only the changed digit at column 7, got %q", out.String())
	}
}

// TestScenarioEachKeyedReorder mirrors §8's keyed-list scenario: reversing
// a backing slice reorders rendered rows in place instead of rebuilding
// them, verified by reading back SiblingOrder after the reconcile runs.
func TestScenarioEachKeyedReorder(t *testing.T) {
	store, tree, le, _, _, _, _ := newPipeline(t, 20, 5)

	items := reactive.New([]string{"a", "b", "c"})
	roots := make(map[string]int32)

	_, err := binder.Box(tree, binder.BoxConfig{
		Width:  binder.Fixed(20),
		Height: binder.Fixed(5),
		Children: func() {
			binder.Each(tree, func() []string { return items.Get() },
				func(s string) string { return s },
				func(bt *binder.Tree, item *reactive.Signal[string], index int) int32 {
					idx, berr := binder.Text(bt, binder.TextConfig{Content: item})
					if berr != nil {
						t.Fatalf("text: %v", berr)
					}
					roots[item.Peek()] = idx
					return idx
				})
		},
	})
	if err != nil {
		t.Fatalf("box: %v", err)
	}

	if err := le.Run(); err != nil {
		t.Fatalf("layout run: %v", err)
	}

	firstA := roots["a"]
	if store.NodeAt(firstA).SiblingOrder != 0 {
		t.Fatalf("expected 'a' at sibling order 0 before reorder")
	}

	items.Set([]string{"c", "b", "a"})
	if store.NodeAt(firstA).SiblingOrder != 2 {
		t.Fatalf("expected 'a' moved to sibling order 2 after reorder, got %d", store.NodeAt(firstA).SiblingOrder)
	}
}

// TestScenarioFlexboxBaseline mirrors §8's row-of-two-boxes scenario: two
// flex-grow children split the parent's width evenly.
func TestScenarioFlexboxBaseline(t *testing.T) {
	store, tree, le, _, _, _, _ := newPipeline(t, 40, 5)

	_, err := binder.Box(tree, binder.BoxConfig{
		Width:         binder.Fixed(40),
		Height:        binder.Fixed(5),
		FlexDirection: sns.DirectionRow,
		Children: func() {
			binder.Box(tree, binder.BoxConfig{Width: binder.AutoSize(), FlexGrow: 1})
			binder.Box(tree, binder.BoxConfig{Width: binder.AutoSize(), FlexGrow: 1})
		},
	})
	if err != nil {
		t.Fatalf("box: %v", err)
	}
	if err := le.Run(); err != nil {
		t.Fatalf("layout run: %v", err)
	}

	left := store.NodeAt(1)
	right := store.NodeAt(2)
	if left.ComputedW != 20 || right.ComputedW != 20 {
		t.Fatalf("expected even 20/20 split, got %v/%v", left.ComputedW, right.ComputedW)
	}
}

// TestScenarioResizePropagatesToLayout mirrors §8's resize scenario: a
// terminal size change is picked up by the next layout run without any
// tree mutation.
func TestScenarioResizePropagatesToLayout(t *testing.T) {
	store, tree, le, _, _, _, _ := newPipeline(t, 40, 10)

	_, err := binder.Box(tree, binder.BoxConfig{Width: binder.Percent(100), Height: binder.Percent(100)})
	if err != nil {
		t.Fatalf("box: %v", err)
	}
	if err := le.Run(); err != nil {
		t.Fatalf("layout run: %v", err)
	}
	if w := store.NodeAt(0).ComputedW; w != 40 {
		t.Fatalf("expected initial width 40, got %v", w)
	}

	store.SetTerminalSize(100, 30)
	store.MarkDirty(0, sns.DirtyLayout)
	if err := le.Run(); err != nil {
		t.Fatalf("layout run after resize: %v", err)
	}
	if w := store.NodeAt(0).ComputedW; w != 100 {
		t.Fatalf("expected resized width 100, got %v", w)
	}
}

// TestScenarioCycleDetection mirrors §8's cycle scenario: two derived
// values that read each other must surface ErrReactiveCycle rather than
// deadlock or stack-overflow.
func TestScenarioCycleDetection(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected a cycle panic/error, got none")
		}
		if !strings.Contains(toString(r), "cycle") {
			t.Fatalf("expected cycle-related panic, got %v", r)
		}
	}()

	var a, b *reactive.Derived[int]
	a = reactive.NewDerived(func() int { return b.Get() + 1 })
	b = reactive.NewDerived(func() int { return a.Get() + 1 })
	_ = a.Get()
}

func toString(v any) string {
	if err, ok := v.(error); ok {
		return err.Error()
	}
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
