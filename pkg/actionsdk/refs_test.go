package actionsdk

import "testing"

func TestParseMessageRef(t *testing.T) {
	tests := []struct {
		in      string
		want    MessageRef
		wantErr bool
	}{
		{in: "0", want: MessageCommand},
		{in: "1", want: MessageTempVar},
		{in: " 2 ", want: MessageServerVar},
		{in: "3", want: MessageGlobalVar},
		{in: "4", wantErr: true},
		{in: "-1", wantErr: true},
		{in: "", wantErr: true},
		{in: "temp", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMessageRef(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseMessageRef(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseMessageRef(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestMessageRef_UsesVariableAndScope(t *testing.T) {
	if MessageCommand.UsesVariable() {
		t.Error("command message should not use a variable")
	}
	if MessageCommand.Scope() != ScopeNone {
		t.Errorf("MessageCommand.Scope() = %v", MessageCommand.Scope())
	}
	cases := map[MessageRef]VarScope{
		MessageTempVar:   ScopeTemp,
		MessageServerVar: ScopeServer,
		MessageGlobalVar: ScopeGlobal,
	}
	for ref, scope := range cases {
		if !ref.UsesVariable() {
			t.Errorf("%d should use a variable", ref)
		}
		if ref.Scope() != scope {
			t.Errorf("%d.Scope() = %v, want %v", ref, ref.Scope(), scope)
		}
	}
}

func TestParseVarScope(t *testing.T) {
	if s, ok := ParseVarScope("2"); !ok || s != ScopeServer {
		t.Errorf("ParseVarScope(2) = %v, %v", s, ok)
	}
	if _, ok := ParseVarScope("server"); ok {
		t.Error("non-numeric scope should not parse")
	}
	if ScopeGlobal.String() != "global" {
		t.Errorf("String() = %q", ScopeGlobal.String())
	}
	if VarScope(9).String() != "scope(9)" {
		t.Errorf("String() = %q", VarScope(9).String())
	}
}

func TestDefaultHostOptions(t *testing.T) {
	opts := DefaultHostOptions()
	commands := Variant(opts.Messages, false)
	events := Variant(opts.Messages, true)
	if len(commands) != 4 || commands[0].Value != "0" {
		t.Errorf("command messages = %+v", commands)
	}
	for _, opt := range events {
		if opt.Value == "0" {
			t.Error("event messages must not offer the command message")
		}
	}
	if got := Variant(opts.Variables, true); len(got) != 4 {
		t.Errorf("event variables = %+v", got)
	}
}

func TestCache_Current(t *testing.T) {
	var nilCache *Cache
	if nilCache.Current() != nil {
		t.Error("nil cache should have no current data")
	}
	cache := &Cache{Actions: []Data{{"name": "a"}, {"name": "b"}}, Index: 1}
	if cache.Current().Name() != "b" {
		t.Errorf("Current().Name() = %q", cache.Current().Name())
	}
	cache.Index = 5
	if cache.Current() != nil {
		t.Error("out of range index should have no current data")
	}
}

func TestData_Clone(t *testing.T) {
	d := Data{"name": "x", "info": "color"}
	c := d.Clone()
	c["info"] = "author"
	if d["info"] != "color" {
		t.Error("Clone() aliased the original")
	}
	if Data(nil).Clone() != nil {
		t.Error("Clone() of nil should be nil")
	}
}
