package decode

import (
	"reflect"
	"testing"
)

func TestParseTableWithHeader(t *testing.T) {
	t.Parallel()

	table, err := ParseTable([]byte("id,name\n1,Alice\n2,Bob\n"))
	if err != nil {
		t.Fatalf("ParseTable error: %v", err)
	}
	if !reflect.DeepEqual(table.Columns, []string{"id", "name"}) {
		t.Fatalf("unexpected columns: %v", table.Columns)
	}
	if len(table.Rows) != 2 || table.Rows[0][1] != "Alice" {
		t.Fatalf("unexpected rows: %v", table.Rows)
	}
}

func TestParseTableHeaderless(t *testing.T) {
	t.Parallel()

	table, err := ParseTable([]byte("1,Alice\n2,Bob\n"))
	if err != nil {
		t.Fatalf("ParseTable error: %v", err)
	}
	if !reflect.DeepEqual(table.Columns, []string{"0", "1"}) {
		t.Fatalf("expected positional columns, got %v", table.Columns)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("headerless data must keep the first record, got %v", table.Rows)
	}
}

func TestParseTableRaggedRows(t *testing.T) {
	t.Parallel()

	table, err := ParseTable([]byte("id,name,value\n1,Alice\n2,Bob,7,extra\n"))
	if err != nil {
		t.Fatalf("ParseTable error: %v", err)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("unexpected rows: %v", table.Rows)
	}
}

func TestParseTableLatin1Bytes(t *testing.T) {
	t.Parallel()

	// 0xE9 is é in Latin-1; the parse must not reject non-UTF-8 cells.
	table, err := ParseTable([]byte("id,name\n1,Ren\xe9\n"))
	if err != nil {
		t.Fatalf("ParseTable error: %v", err)
	}
	if len(table.Rows) != 1 || table.Rows[0][0] != "1" {
		t.Fatalf("unexpected rows: %v", table.Rows)
	}
}

func TestParseTableEmpty(t *testing.T) {
	t.Parallel()

	if _, err := ParseTable(nil); err == nil {
		t.Fatal("expected error for empty input")
	}
}

func TestParseJSON(t *testing.T) {
	t.Parallel()

	value, err := ParseJSON([]byte(`{"a": [1, 2]}`))
	if err != nil {
		t.Fatalf("ParseJSON error: %v", err)
	}
	m, ok := value.(map[string]any)
	if !ok {
		t.Fatalf("unexpected type: %T", value)
	}
	if _, ok := m["a"]; !ok {
		t.Fatalf("missing key in %v", m)
	}

	if _, err := ParseJSON([]byte("not json")); err == nil {
		t.Fatal("expected error for invalid json")
	}
}
