package observability

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	r := NoopRebuildHooks{}
	r.OnRebuildStart(ctx, "tree")
	r.OnRebuildComplete(ctx, "tree", 7, 6, time.Millisecond, nil)
	r.OnRebuildComplete(ctx, "parametric", 0, 0, time.Millisecond, errors.New("boom"))

	s := NoopSelectionHooks{}
	s.OnGestureComplete(ctx, "lasso", 3, time.Second)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "GET", "/api/graph")
	h.OnResponse(ctx, "GET", "/api/graph", 200, time.Millisecond)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Rebuild().(NoopRebuildHooks); !ok {
		t.Error("Rebuild() should return NoopRebuildHooks by default")
	}
	if _, ok := Selection().(NoopSelectionHooks); !ok {
		t.Error("Selection() should return NoopSelectionHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	customRebuild := &testRebuildHooks{}
	SetRebuildHooks(customRebuild)
	if Rebuild() != customRebuild {
		t.Error("SetRebuildHooks should set custom hooks")
	}

	customSelection := &testSelectionHooks{}
	SetSelectionHooks(customSelection)
	if Selection() != customSelection {
		t.Error("SetSelectionHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	Reset()
	if _, ok := Rebuild().(NoopRebuildHooks); !ok {
		t.Error("Reset() should restore NoopRebuildHooks")
	}
	if _, ok := Selection().(NoopSelectionHooks); !ok {
		t.Error("Reset() should restore NoopSelectionHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testRebuildHooks{}
	SetRebuildHooks(custom)
	SetRebuildHooks(nil)

	if Rebuild() != custom {
		t.Error("SetRebuildHooks(nil) should be ignored")
	}

	Reset()
}

type testRebuildHooks struct{ NoopRebuildHooks }
type testSelectionHooks struct{ NoopSelectionHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
