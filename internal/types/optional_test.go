package types

import (
	"encoding/json"
	"testing"
)

type patchBody struct {
	Title    Optional[string] `json:"title"`
	Assignee Optional[uint]   `json:"assignee_id"`
}

func TestOptional_Absent(t *testing.T) {
	var body patchBody
	if err := json.Unmarshal([]byte(`{}`), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if body.Title.Set {
		t.Error("omitted field should have Set == false")
	}
	if body.Assignee.Set {
		t.Error("omitted field should have Set == false")
	}
}

func TestOptional_Null(t *testing.T) {
	var body patchBody
	if err := json.Unmarshal([]byte(`{"assignee_id": null}`), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if !body.Assignee.Set {
		t.Error("null field should have Set == true")
	}
	if body.Assignee.Value != nil {
		t.Error("null field should have nil Value")
	}
	if !body.Assignee.Cleared() {
		t.Error("Cleared() should be true for an explicit null")
	}
	if body.Title.Set {
		t.Error("title was omitted, Set should be false")
	}
}

func TestOptional_Value(t *testing.T) {
	var body patchBody
	if err := json.Unmarshal([]byte(`{"title": "write report", "assignee_id": 4}`), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if !body.Title.Set || body.Title.Value == nil || *body.Title.Value != "write report" {
		t.Errorf("title not decoded: %+v", body.Title)
	}
	if !body.Assignee.Set || body.Assignee.Value == nil || *body.Assignee.Value != 4 {
		t.Errorf("assignee not decoded: %+v", body.Assignee)
	}
	if body.Title.Cleared() {
		t.Error("Cleared() should be false when a value is present")
	}
}

func TestOptional_InvalidType(t *testing.T) {
	var body patchBody
	if err := json.Unmarshal([]byte(`{"assignee_id": "four"}`), &body); err == nil {
		t.Error("expected type error for string into uint")
	}
}
