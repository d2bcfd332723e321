package backend

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestRegistry_RegisterAndGet(t *testing.T) {
	reg := NewRegistry()
	b := &mockBackend{kind: "local", name: "workspace", enabled: true}

	if err := reg.Register(b); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	got, ok := reg.Get("workspace")
	if !ok {
		t.Fatal("Get() returned false for registered backend")
	}
	if got.Name() != "workspace" {
		t.Errorf("Get() name = %q, want %q", got.Name(), "workspace")
	}
}

func TestRegistry_RegisterDuplicate(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register(&mockBackend{name: "dup"}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	err := reg.Register(&mockBackend{name: "dup"})
	if !errors.Is(err, ErrBackendExists) {
		t.Errorf("Register() error = %v, want ErrBackendExists", err)
	}
}

func TestRegistry_RegisterInvalid(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register(nil); err == nil {
		t.Error("Register(nil) should fail")
	}
	if err := reg.Register(&mockBackend{}); err == nil {
		t.Error("Register() with empty name should fail")
	}
}

func TestRegistry_Unregister(t *testing.T) {
	reg := NewRegistry()
	b := &mockBackend{name: "temp"}
	if err := reg.Register(b); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	reg.Unregister("temp")
	if !b.stopped {
		t.Error("Unregister() did not stop the backend")
	}
	if _, ok := reg.Get("temp"); ok {
		t.Error("Get() found backend after Unregister()")
	}
}

func TestRegistry_Factory(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterFactory("local", func(name string) (Backend, error) {
		return &mockBackend{kind: "local", name: name, enabled: true}, nil
	})

	b, err := reg.Create("local", "tools")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if b.Name() != "tools" {
		t.Errorf("Create() name = %q, want %q", b.Name(), "tools")
	}
	if _, ok := reg.Get("tools"); !ok {
		t.Error("Create() did not register the backend")
	}

	if _, err := reg.Create("unknown", "x"); !errors.Is(err, ErrBackendNotFound) {
		t.Errorf("Create() error = %v, want ErrBackendNotFound", err)
	}
}

func TestRegistry_FactoryError(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterFactory("failing", func(string) (Backend, error) {
		return nil, fmt.Errorf("no capacity")
	})
	if _, err := reg.Create("failing", "x"); err == nil {
		t.Error("Create() should propagate factory errors")
	}
}

func TestRegistry_ListEnabled(t *testing.T) {
	reg := NewRegistry()
	for _, b := range []*mockBackend{
		{name: "a", enabled: true},
		{name: "b", enabled: false},
		{name: "c", enabled: true},
	} {
		if err := reg.Register(b); err != nil {
			t.Fatalf("Register(%s) error = %v", b.name, err)
		}
	}

	if got := len(reg.List()); got != 3 {
		t.Errorf("List() returned %d backends, want 3", got)
	}
	if got := len(reg.ListEnabled()); got != 2 {
		t.Errorf("ListEnabled() returned %d backends, want 2", got)
	}
}

func TestRegistry_Names(t *testing.T) {
	reg := NewRegistry()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		if err := reg.Register(&mockBackend{name: name}); err != nil {
			t.Fatalf("Register(%s) error = %v", name, err)
		}
	}

	names := reg.Names()
	want := []string{"alpha", "mid", "zeta"}
	if len(names) != len(want) {
		t.Fatalf("Names() returned %d names, want %d", len(names), len(want))
	}
	for i, name := range want {
		if names[i] != name {
			t.Errorf("Names()[%d] = %q, want %q", i, names[i], name)
		}
	}
}

func TestRegistry_StartStopAll(t *testing.T) {
	reg := NewRegistry()
	a := &mockBackend{name: "a", enabled: true}
	b := &mockBackend{name: "b", enabled: false}
	for _, m := range []*mockBackend{a, b} {
		if err := reg.Register(m); err != nil {
			t.Fatalf("Register(%s) error = %v", m.name, err)
		}
	}

	if err := reg.StartAll(context.Background()); err != nil {
		t.Fatalf("StartAll() error = %v", err)
	}
	if !a.started {
		t.Error("StartAll() did not start enabled backend")
	}
	if b.started {
		t.Error("StartAll() started disabled backend")
	}

	if err := reg.StopAll(); err != nil {
		t.Fatalf("StopAll() error = %v", err)
	}
	if !a.stopped || !b.stopped {
		t.Error("StopAll() did not stop all backends")
	}
}
