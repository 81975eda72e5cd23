package repository

import (
	"reflect"
	"testing"
)

func TestFieldSetPreservesInsertionOrder(t *testing.T) {
	fs := &FieldSet{}
	fs.Set("lead_name", "Jane Doe")
	fs.Set("status", "Confirmed")
	fs.Set("phone", "+15550001111")

	want := []string{"lead_name", "status", "phone"}
	if !reflect.DeepEqual(fs.Columns(), want) {
		t.Fatalf("columns = %v, want %v", fs.Columns(), want)
	}
	if fs.Len() != 3 {
		t.Fatalf("len = %d", fs.Len())
	}
}

func TestFieldSetSetReplacesInPlace(t *testing.T) {
	fs := &FieldSet{}
	fs.Set("status", "Confirmed")
	fs.Set("phone", "+15550001111")
	fs.Set("status", "Cancelled")

	if fs.Len() != 2 {
		t.Fatalf("replacing must not grow the set, len = %d", fs.Len())
	}
	if v, ok := fs.Get("status"); !ok || v != "Cancelled" {
		t.Fatalf("status = %v", v)
	}
	if fs.Columns()[0] != "status" {
		t.Fatal("replaced column must keep its position")
	}
}

func TestFieldSetHasAndGet(t *testing.T) {
	fs := &FieldSet{}
	fs.Set("email", "jane@example.com")

	if !fs.Has("email") {
		t.Fatal("expected email to be present")
	}
	if fs.Has("phone") {
		t.Fatal("phone was never set")
	}
	if _, ok := fs.Get("phone"); ok {
		t.Fatal("Get on an absent column must report false")
	}
	if !reflect.DeepEqual(fs.Values(), []interface{}{"jane@example.com"}) {
		t.Fatalf("values = %v", fs.Values())
	}
}
