package utils

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no fence", `[1,2,3]`, `[1,2,3]`},
		{"plain fence", "```\n[1,2,3]\n```", `[1,2,3]`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"fence with trailing prose", "```json\n[1,2]\n```\nHope this helps!", `[1,2]`},
		{"unterminated fence", "```json\n[1,2]", `[1,2]`},
		{"whitespace around", "  \n```json\n[1]\n```  ", `[1]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripCodeFence(tt.in); got != tt.want {
				t.Errorf("StripCodeFence(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestRecoverArray(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"already valid", `[{"a":1}]`, `[{"a":1}]`},
		{"fenced", "```json\n[{\"a\":1}]\n```", `[{"a":1}]`},
		{"prose before and after", `Here is your plan: [{"a":1},{"b":2}] enjoy!`, `[{"a":1},{"b":2}]`},
		{"truncated mid element", `[{"a":1},{"b":2},{"c":`, `[{"a":1},{"b":2}]`},
		{"truncated mid string", `[{"a":"x"},{"b":"unfinished`, `[{"a":"x"}]`},
		{"nested arrays survive truncation", `[{"a":[1,2]},{"b":[3`, `[{"a":[1,2]}]`},
		{"bracket inside string", `[{"a":"see [here]"},{"b":`, `[{"a":"see [here]"}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RecoverArray(tt.in)
			if err != nil {
				t.Fatalf("RecoverArray(%q) error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("RecoverArray(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

// Surrounding prose must not change what gets recovered.
func TestRecoverArrayProseEquivalence(t *testing.T) {
	fenced := "```json\n[{\"name\":\"A\"},{\"name\":\"B\"}]\n```"
	decorated := "Sure! Here is the itinerary you asked for:\n" + fenced + "\nLet me know if you want changes."

	a, err := RecoverArray(fenced)
	if err != nil {
		t.Fatalf("fenced: %v", err)
	}
	b, err := RecoverArray(decorated)
	if err != nil {
		t.Fatalf("decorated: %v", err)
	}
	if a != b {
		t.Errorf("recovered arrays differ: %q vs %q", a, b)
	}
}

func TestRecoverArrayFailure(t *testing.T) {
	for _, in := range []string{"", "no json here", `{"a":1}`, "[[["} {
		if _, err := RecoverArray(in); err == nil {
			t.Errorf("RecoverArray(%q) expected error", in)
		} else {
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Errorf("RecoverArray(%q) error type %T, want *ParseError", in, err)
			}
		}
	}
}

func TestParseErrorBoundsRaw(t *testing.T) {
	long := make([]byte, 10_000)
	for i := range long {
		long[i] = 'x'
	}
	_, err := RecoverArray(string(long))
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %T", err)
	}
	if len(pe.Raw) > rawPrefixLimit {
		t.Errorf("ParseError.Raw length %d exceeds %d", len(pe.Raw), rawPrefixLimit)
	}
}

func TestRecoverObject(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"already valid", `{"a":1}`, `{"a":1}`},
		{"fenced", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"trailing prose", `{"a":1} anything else?`, `{"a":1}`},
		{"leading prose", `Answer: {"a":{"b":2}}`, `{"a":{"b":2}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RecoverObject(tt.in)
			if err != nil {
				t.Fatalf("RecoverObject(%q) error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("RecoverObject(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}

	if _, err := RecoverObject(`{"a":`); err == nil {
		t.Error("truncated object without recoverable prefix should fail")
	}
}

func TestRecoverObjectWithArrayField(t *testing.T) {
	type turn struct {
		Reply        string            `json:"reply"`
		UpdatedNodes []map[string]any  `json:"updatedNodes"`
	}

	t.Run("intact object passes through", func(t *testing.T) {
		in := `{"reply":"done","updatedNodes":[{"name":"A"}]}`
		got, err := RecoverObjectWithArrayField(in, "updatedNodes", "reply")
		if err != nil {
			t.Fatal(err)
		}
		if got != in {
			t.Errorf("got %q, want input unchanged", got)
		}
	})

	t.Run("array truncated mid element", func(t *testing.T) {
		in := `{"reply":"moved your dinner","updatedNodes":[{"name":"A"},{"name":"B"},{"nam`
		got, err := RecoverObjectWithArrayField(in, "updatedNodes", "reply")
		if err != nil {
			t.Fatal(err)
		}
		var v turn
		if err := json.Unmarshal([]byte(got), &v); err != nil {
			t.Fatalf("recovered text does not decode: %v", err)
		}
		if v.Reply != "moved your dinner" {
			t.Errorf("reply = %q", v.Reply)
		}
		if len(v.UpdatedNodes) != 2 {
			t.Errorf("kept %d nodes, want 2", len(v.UpdatedNodes))
		}
	})

	t.Run("object truncated after intact array", func(t *testing.T) {
		in := `{"reply":"ok","updatedNodes":[{"name":"A"}],"pref`
		got, err := RecoverObjectWithArrayField(in, "updatedNodes", "reply")
		if err != nil {
			t.Fatal(err)
		}
		var v turn
		if err := json.Unmarshal([]byte(got), &v); err != nil {
			t.Fatalf("recovered text does not decode: %v", err)
		}
		if len(v.UpdatedNodes) != 1 {
			t.Errorf("kept %d nodes, want 1", len(v.UpdatedNodes))
		}
	})

	t.Run("null array with trailing prose", func(t *testing.T) {
		in := `{"reply":"no changes needed","updatedNodes":null} Have a great trip!`
		got, err := RecoverObjectWithArrayField(in, "updatedNodes", "reply")
		if err != nil {
			t.Fatal(err)
		}
		var v turn
		if err := json.Unmarshal([]byte(got), &v); err != nil {
			t.Fatal(err)
		}
		if v.Reply != "no changes needed" || v.UpdatedNodes != nil {
			t.Errorf("got reply %q nodes %v", v.Reply, v.UpdatedNodes)
		}
	})

	t.Run("no json at all but reply present", func(t *testing.T) {
		in := `I could not produce the update. "reply": "Sorry, please try again"`
		got, err := RecoverObjectWithArrayField(in, "updatedNodes", "reply")
		if err != nil {
			t.Fatal(err)
		}
		var v turn
		if err := json.Unmarshal([]byte(got), &v); err != nil {
			t.Fatal(err)
		}
		if v.Reply != "Sorry, please try again" {
			t.Errorf("reply = %q", v.Reply)
		}
		if v.UpdatedNodes != nil {
			t.Error("synthesized object must carry a null array")
		}
	})

	t.Run("hopeless input fails", func(t *testing.T) {
		if _, err := RecoverObjectWithArrayField("total garbage", "updatedNodes", "reply"); err == nil {
			t.Error("expected error")
		}
	})
}
