package storeembedinfo

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/haasonsaas/embedinfo/internal/embedinfo"
	"github.com/haasonsaas/embedinfo/pkg/actionsdk"
)

func TestDescriptor_Metadata(t *testing.T) {
	a := New(Config{})
	if a.Name() != "Store Embed Info" {
		t.Errorf("Name() = %q", a.Name())
	}
	if a.Section() != "Embed Message" {
		t.Errorf("Section() = %q", a.Section())
	}
	want := []string{"message", "varName", "info", "storage", "varName2"}
	if got := a.Fields(); !reflect.DeepEqual(got, want) {
		t.Errorf("Fields() = %v, want %v", got, want)
	}
	a.Fields()[0] = "changed"
	if a.Fields()[0] != "message" {
		t.Error("Fields() exposed internal slice")
	}
}

func TestDescriptor_Subtitle(t *testing.T) {
	a := New(Config{})
	if got := a.Subtitle(actionsdk.Data{"info": "author url"}); got != "author url" {
		t.Errorf("Subtitle() = %q", got)
	}
	if got := a.Subtitle(actionsdk.Data{}); got != "Unknown" {
		t.Errorf("Subtitle() = %q, want Unknown", got)
	}
}

func TestDescriptor_VariableStorage(t *testing.T) {
	a := New(Config{})
	tests := []struct {
		name   string
		data   actionsdk.Data
		scope  actionsdk.VarScope
		want   actionsdk.StorageDecl
		wantOK bool
	}{
		{
			name:   "structured author",
			data:   actionsdk.Data{"info": "author", "storage": "1", "varName2": "a"},
			scope:  actionsdk.ScopeTemp,
			want:   actionsdk.StorageDecl{VarName: "a", Datatype: actionsdk.DatatypeStructured},
			wantOK: true,
		},
		{
			name:   "files",
			data:   actionsdk.Data{"info": "files", "storage": "3", "varName2": "f"},
			scope:  actionsdk.ScopeGlobal,
			want:   actionsdk.StorageDecl{VarName: "f", Datatype: actionsdk.DatatypeFiles},
			wantOK: true,
		},
		{
			name:   "text",
			data:   actionsdk.Data{"info": "hexColor", "storage": "2", "varName2": "hex"},
			scope:  actionsdk.ScopeServer,
			want:   actionsdk.StorageDecl{VarName: "hex", Datatype: actionsdk.DatatypeText},
			wantOK: true,
		},
		{
			name:  "scope mismatch",
			data:  actionsdk.Data{"info": "author", "storage": "1", "varName2": "a"},
			scope: actionsdk.ScopeServer,
		},
		{
			name:  "non numeric storage",
			data:  actionsdk.Data{"info": "author", "storage": "temp", "varName2": "a"},
			scope: actionsdk.ScopeNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := a.VariableStorage(tt.data, tt.scope)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("VariableStorage() = %+v, %v; want %+v, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestDescriptor_HTMLListsEveryCatalogKey(t *testing.T) {
	html, err := New(Config{}).HTML(false, actionsdk.DefaultHostOptions())
	if err != nil {
		t.Fatalf("HTML() error = %v", err)
	}
	for _, e := range embedinfo.Entries() {
		opt := `<option value="` + string(e.Key) + `">` + e.Label + `</option>`
		if strings.Count(html, opt) != 1 {
			t.Errorf("HTML() should contain %s exactly once", opt)
		}
	}
	if strings.Count(html, "<option") != 19+4+4 {
		t.Errorf("HTML() has %d options", strings.Count(html, "<option"))
	}
	if !strings.Contains(html, `glob.messageChange(this, 'varNameContainer')`) {
		t.Error("HTML() missing message change handler")
	}
}

func TestDescriptor_HTMLEventVariant(t *testing.T) {
	html, err := New(Config{}).HTML(true, actionsdk.DefaultHostOptions())
	if err != nil {
		t.Fatalf("HTML() error = %v", err)
	}
	if strings.Contains(html, "Command Message") {
		t.Error("event form should not offer the command message")
	}
}

type fakeElement struct{ id, value string }

func (e fakeElement) ID() string    { return e.id }
func (e fakeElement) Value() string { return e.value }

type fakeEditor struct {
	elements  map[string]actionsdk.Element
	changedEl actionsdk.Element
	container string
}

func (f *fakeEditor) ElementByID(id string) actionsdk.Element {
	el, ok := f.elements[id]
	if !ok {
		return nil
	}
	return el
}

func (f *fakeEditor) MessageChange(el actionsdk.Element, containerID string) {
	f.changedEl = el
	f.container = containerID
}

func TestDescriptor_Init(t *testing.T) {
	editor := &fakeEditor{elements: map[string]actionsdk.Element{
		"message": fakeElement{id: "message", value: "1"},
	}}
	if err := New(Config{}).Init(editor); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if editor.changedEl == nil || editor.changedEl.ID() != "message" || editor.container != "varNameContainer" {
		t.Errorf("MessageChange(%v, %q)", editor.changedEl, editor.container)
	}

	if err := New(Config{}).Init(&fakeEditor{}); err == nil {
		t.Error("Init() should fail when the message select is not mounted")
	}
}

func TestDescriptor_Manifest(t *testing.T) {
	m := New(Config{}).Manifest()
	if err := m.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if m.Author != "CoolGuy" || m.Version != "1.0.0" {
		t.Errorf("manifest = %+v", m)
	}

	valid := Instance{MessageRef: "0", InfoKey: "image proxy", StorageTarget: "1", DestVarName: "img"}.Data()
	if err := m.ValidateConfig(valid); err != nil {
		t.Errorf("ValidateConfig(valid) error = %v", err)
	}

	invalid := valid.Clone()
	invalid[FieldInfo] = "footer"
	invalid[FieldStorage] = "temp"
	err := m.ValidateConfig(invalid)
	var fe *actionsdk.FieldError
	if !errors.As(err, &fe) {
		t.Fatalf("ValidateConfig(invalid) error = %v, want *FieldError", err)
	}
	if !fe.Invalid(FieldInfo) || !fe.Invalid(FieldStorage) || fe.Invalid(FieldMessage) {
		t.Errorf("invalid fields = %v, want info and storage", fe.Fields)
	}
}

func TestInstance_RoundTrip(t *testing.T) {
	inst := Instance{MessageRef: "2", SourceVarName: "saved", InfoKey: "provider", StorageTarget: "3", DestVarName: "prov"}
	data := inst.Data()
	if data.Name() != Name {
		t.Errorf("Name() = %q", data.Name())
	}
	if got := FromData(data); got != inst {
		t.Errorf("FromData(Data()) = %+v, want %+v", got, inst)
	}
}
