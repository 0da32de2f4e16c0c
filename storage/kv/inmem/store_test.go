package inmemkv

import (
	"bytes"
	"testing"
)

func TestStore(t *testing.T) {
	s := Open()

	if _, ok, err := s.Get("missing"); ok || err != nil {
		t.Errorf("Get(missing) = %v, %v; want absent", ok, err)
	}

	if err := s.Set("k", []byte("v1")); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	val, ok, err := s.Get("k")
	if err != nil || !ok {
		t.Fatalf("Get() = %v, %v", ok, err)
	}
	if !bytes.Equal(val, []byte("v1")) {
		t.Errorf("Get() = %q, want v1", val)
	}

	// overwrite
	if err := s.Set("k", []byte("v2")); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	val, _, _ = s.Get("k")
	if !bytes.Equal(val, []byte("v2")) {
		t.Errorf("Get() = %q, want v2", val)
	}

	// the returned slice is a copy
	val[0] = 'X'
	val, _, _ = s.Get("k")
	if !bytes.Equal(val, []byte("v2")) {
		t.Errorf("stored value was mutated through the returned slice: %q", val)
	}

	if err := s.Delete("k"); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if _, ok, _ := s.Get("k"); ok {
		t.Error("Get() after Delete() still finds the key")
	}
	if err := s.Delete("k"); err != nil {
		t.Errorf("Delete(missing) = %v, want nil", err)
	}

	_ = s.Set("a", []byte("1"))
	_ = s.Set("b", []byte("2"))
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear() failed: %v", err)
	}
	if _, ok, _ := s.Get("a"); ok {
		t.Error("Clear() left keys behind")
	}
}
