package cache

import (
	"context"
	"testing"
)

func TestNilClientIsAMiss(t *testing.T) {
	SetClient(nil)
	ctx := context.Background()

	if err := SetObject(ctx, "k", map[string]int{"a": 1}, 0); err != nil {
		t.Fatalf("SetObject: %v", err)
	}
	var out map[string]int
	found, err := GetObject(ctx, "k", &out)
	if err != nil {
		t.Fatalf("GetObject: %v", err)
	}
	if found {
		t.Fatal("expected miss without a client")
	}
	if err := Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
}
