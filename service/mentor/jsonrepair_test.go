package mentor

import (
	"errors"
	"reflect"
	"testing"
)

func TestRepairJSON_DirectObject(t *testing.T) {
	value, err := RepairJSON(`{"response": "hello", "suggestions": ["a", "b"]}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	object, ok := value.(map[string]any)
	if !ok {
		t.Fatalf("expected object, got %T", value)
	}
	if object["response"] != "hello" {
		t.Errorf("expected response 'hello', got %v", object["response"])
	}
}

func TestRepairJSON_BareArray(t *testing.T) {
	value, err := RepairJSON(`["q1", "q2"]`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	list, ok := value.([]any)
	if !ok {
		t.Fatalf("expected array, got %T", value)
	}
	if len(list) != 2 || list[0] != "q1" {
		t.Errorf("unexpected array content: %v", list)
	}
}

func TestRepairJSON_DoubleEncoded(t *testing.T) {
	// 外层对象的 response 字段本身是一段JSON
	raw := `{"response": "{\"reply\": \"inner\", \"suggestions\": [\"x\"]}"}`

	value, err := RepairJSON(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	object, ok := value.(map[string]any)
	if !ok {
		t.Fatalf("expected object, got %T", value)
	}
	if object["reply"] != "inner" {
		t.Errorf("expected inner object, got %v", object)
	}
}

func TestRepairJSON_NestedResponseNotJSON(t *testing.T) {
	value, err := RepairJSON(`{"response": "plain text reply"}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	object, ok := value.(map[string]any)
	if !ok {
		t.Fatalf("expected object, got %T", value)
	}
	if object["response"] != "plain text reply" {
		t.Errorf("expected outer object kept, got %v", object)
	}
}

func TestRepairJSON_CodeFences(t *testing.T) {
	plain := `{"response": "fenced", "suggestions": ["a"]}`
	fenced := "```json\n" + plain + "\n```"

	fromPlain, err := RepairJSON(plain)
	if err != nil {
		t.Fatalf("unexpected error for plain input: %v", err)
	}
	fromFenced, err := RepairJSON(fenced)
	if err != nil {
		t.Fatalf("unexpected error for fenced input: %v", err)
	}

	if !reflect.DeepEqual(fromPlain, fromFenced) {
		t.Errorf("fenced parse %v differs from plain parse %v", fromFenced, fromPlain)
	}
}

func TestRepairJSON_SurroundingProse(t *testing.T) {
	raw := "Sure! Here is the JSON you asked for:\n{\"response\": \"found\"}\nHope that helps."

	value, err := RepairJSON(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	object, ok := value.(map[string]any)
	if !ok {
		t.Fatalf("expected object, got %T", value)
	}
	if object["response"] != "found" {
		t.Errorf("expected response 'found', got %v", object["response"])
	}
}

func TestRepairJSON_Garbage(t *testing.T) {
	raw := "I cannot produce JSON today, sorry"

	_, err := RepairJSON(raw)
	if err == nil {
		t.Fatal("expected error for unparseable input")
	}

	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *ParseError, got %T", err)
	}
	if parseErr.Raw != raw {
		t.Errorf("expected raw response preserved, got %q", parseErr.Raw)
	}
}
