package wiredriver

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/wiredriver/wiredriver/wire"
)

func TestExecute(t *testing.T) {
	t.Parallel()

	d := newFakeDriver(t)
	d.mu.Lock()
	d.exec = func(script string, args []json.RawMessage) (interface{}, int) {
		if script != "return 6*7;" {
			return nil, 17
		}
		return 42, 0
	}
	d.mu.Unlock()
	s, ctx := testSession(t, d)

	v, err := NewCommand(s).Execute("return 6*7;").Value(ctx)
	if err != nil {
		t.Fatalf("got error: %v", err)
	}
	if v != float64(42) {
		t.Errorf("expected 42, got %v (%T)", v, v)
	}
}

func TestExecuteNullValue(t *testing.T) {
	t.Parallel()

	d := newFakeDriver(t)
	d.mu.Lock()
	d.exec = func(string, []json.RawMessage) (interface{}, int) { return nil, 0 }
	d.mu.Unlock()
	s, ctx := testSession(t, d)

	v, err := NewCommand(s).Execute("return null;").Value(ctx)
	if err != nil {
		t.Fatalf("got error: %v", err)
	}
	if v != nil {
		t.Errorf("expected nil for a null script value, got %v", v)
	}
}

func TestExecuteError(t *testing.T) {
	t.Parallel()

	d := newFakeDriver(t)
	d.mu.Lock()
	d.exec = func(string, []json.RawMessage) (interface{}, int) { return nil, 17 }
	d.mu.Unlock()
	s, ctx := testSession(t, d)

	err := NewCommand(s).Execute("throw new Error('nope');").Wait(ctx)
	if wire.StatusOf(err) != wire.StatusJavaScriptError {
		t.Errorf("expected a javascript error, got %v", err)
	}
}

func TestExecuteElementArgument(t *testing.T) {
	t.Parallel()

	d := newFakeDriver(t)
	d.mu.Lock()
	d.exec = func(script string, args []json.RawMessage) (interface{}, int) {
		if len(args) != 1 || !strings.Contains(string(args[0]), `"ELEMENT":"button"`) {
			return nil, 13
		}
		return "clicked", 0
	}
	d.mu.Unlock()
	s, ctx := testSession(t, d)

	el, err := s.Find(ctx, ByCSSSelector, "#button")
	if err != nil {
		t.Fatalf("find: %v", err)
	}

	var res string
	if err := s.Execute(ctx, "arguments[0].click();", []interface{}{el}, &res); err != nil {
		t.Fatalf("got error: %v", err)
	}
	if res != "clicked" {
		t.Errorf("expected the element reference to be serialized, got %q", res)
	}
}
