package remotefields

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func mustDescriptor(t *testing.T, name, source string) *Descriptor {
	t.Helper()
	d, err := NewDescriptor(name, source, []string{"id"}, map[Context]Endpoint{
		ContextList:   NewMockEndpoint(name + "-list"),
		ContextDetail: NewMockEndpoint(name + "-detail"),
	})
	if err != nil {
		t.Fatalf("descriptor %s: %v", name, err)
	}
	return d
}

func mustSchema(t *testing.T, name string, fields ...Field) *Schema {
	t.Helper()
	s, err := NewSchema(name, fields...)
	if err != nil {
		t.Fatalf("schema %s: %v", name, err)
	}
	return s
}

func pathStrings(entries []planEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.path.String()
	}
	return out
}

func TestWalkSchema_YieldsEveryDescriptorWithItsPath(t *testing.T) {
	gadget := mustDescriptor(t, "gadget", "gadget_id")
	owner := mustDescriptor(t, "owner", "owner_id")
	thing := mustDescriptor(t, "thing", "thing_id")

	comment := mustSchema(t, "comment",
		Local("text"),
		RemoteField(owner),
	)
	item := mustSchema(t, "item",
		Local("id"),
		RemoteField(gadget),
		NestedMany("comments", comment),
	)
	root := mustSchema(t, "widget",
		Local("id"),
		RemoteField(thing),
		NestedMany("items", item),
		Nested("featured", item),
	)

	entries, err := walkSchema(root, defaultMaxDepth)
	if err != nil {
		t.Fatalf("walk: %v", err)
	}

	want := []string{
		"thing",
		"items[].gadget",
		"items[].comments[].owner",
		"featured.gadget",
		"featured.comments[].owner",
	}
	if diff := cmp.Diff(want, pathStrings(entries)); diff != "" {
		t.Fatalf("plan paths mismatch (-want +got):\n%s", diff)
	}
}

func TestWalkSchema_NoRemoteFields(t *testing.T) {
	root := mustSchema(t, "plain", Local("id"), Local("label"))
	entries, err := walkSchema(root, defaultMaxDepth)
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("got %d entries, want 0", len(entries))
	}
}

func TestWalkSchema_DepthGuard(t *testing.T) {
	leaf := mustSchema(t, "leaf", RemoteField(mustDescriptor(t, "thing", "thing_id")))
	node := leaf
	for i := 0; i < 40; i++ {
		node = mustSchema(t, fmt.Sprintf("level%d", i), Nested("child", node))
	}

	_, err := walkSchema(node, defaultMaxDepth)
	requireConfigError(t, err)

	// A generous limit admits the same tree.
	if _, err := walkSchema(node, 64); err != nil {
		t.Fatalf("walk with raised limit: %v", err)
	}
}

func TestPlanEntry_ContextSelection(t *testing.T) {
	direct := planEntry{path: Path{{Field: "thing"}}}
	fanned := planEntry{path: Path{{Field: "items", Many: true}, {Field: "thing"}}}

	if got := direct.context(true); got != ContextList {
		t.Fatalf("many pass context = %q, want list", got)
	}
	if got := direct.context(false); got != ContextDetail {
		t.Fatalf("single pass context = %q, want detail", got)
	}
	// A fan-out hop forces the list endpoint even in a single pass.
	if got := fanned.context(false); got != ContextList {
		t.Fatalf("fanned single pass context = %q, want list", got)
	}
}
