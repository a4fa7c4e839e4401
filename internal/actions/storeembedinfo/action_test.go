package storeembedinfo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/haasonsaas/embedinfo/pkg/actionsdk"
	"github.com/haasonsaas/embedinfo/pkg/models"
)

type storedValue struct {
	value any
	scope actionsdk.VarScope
	name  string
}

type fakeHost struct {
	msg        *models.Message
	resolveErr error
	storeErr   error
	evalErr    error

	gotRef     actionsdk.MessageRef
	gotVarName string
	stored     []storedValue
	nextCalls  int
}

func (h *fakeHost) GetMessage(_ context.Context, ref actionsdk.MessageRef, varName string, _ *actionsdk.Cache) (*models.Message, error) {
	h.gotRef = ref
	h.gotVarName = varName
	return h.msg, h.resolveErr
}

func (h *fakeHost) StoreValue(_ context.Context, value any, scope actionsdk.VarScope, name string, _ *actionsdk.Cache) error {
	if h.storeErr != nil {
		return h.storeErr
	}
	h.stored = append(h.stored, storedValue{value: value, scope: scope, name: name})
	return nil
}

func (h *fakeHost) EvalMessage(text string, _ *actionsdk.Cache) (string, error) {
	if h.evalErr != nil {
		return "", h.evalErr
	}
	return "eval:" + text, nil
}

func (h *fakeHost) CallNextAction(context.Context, *actionsdk.Cache) error {
	h.nextCalls++
	return nil
}

func cacheFor(inst Instance) *actionsdk.Cache {
	return &actionsdk.Cache{Actions: []actionsdk.Data{inst.Data()}}
}

func embedMessage() *models.Message {
	return &models.Message{
		ID: "m-1",
		Embeds: []*models.Embed{
			{Description: "first", Author: &models.EmbedAuthor{Name: "bot"}},
			{Description: "second"},
		},
	}
}

func TestExecute_StoresExtractedValue(t *testing.T) {
	host := &fakeHost{msg: embedMessage()}
	inst := Instance{MessageRef: "1", SourceVarName: "msg", InfoKey: "author name", StorageTarget: "2", DestVarName: "who"}

	if err := New(Config{}).Execute(context.Background(), host, cacheFor(inst)); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if host.gotRef != actionsdk.MessageTempVar || host.gotVarName != "eval:msg" {
		t.Errorf("resolved with ref=%d var=%q", host.gotRef, host.gotVarName)
	}
	if len(host.stored) != 1 {
		t.Fatalf("stored %d values, want 1", len(host.stored))
	}
	got := host.stored[0]
	if got.value != "bot" || got.scope != actionsdk.ScopeServer || got.name != "eval:who" {
		t.Errorf("stored = %+v", got)
	}
	if host.nextCalls != 1 {
		t.Errorf("CallNextAction called %d times, want 1", host.nextCalls)
	}
}

func TestExecute_UsesFirstEmbed(t *testing.T) {
	host := &fakeHost{msg: embedMessage()}
	inst := Instance{MessageRef: "0", InfoKey: "description", StorageTarget: "1", DestVarName: "d"}

	if err := New(Config{}).Execute(context.Background(), host, cacheFor(inst)); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if len(host.stored) != 1 || host.stored[0].value != "first" {
		t.Errorf("stored = %+v", host.stored)
	}
}

func TestExecute_AbsentValueSkipsWrite(t *testing.T) {
	host := &fakeHost{msg: embedMessage()}
	inst := Instance{MessageRef: "0", InfoKey: "thumbnail url", StorageTarget: "1", DestVarName: "thumb"}

	if err := New(Config{}).Execute(context.Background(), host, cacheFor(inst)); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if len(host.stored) != 0 {
		t.Errorf("stored = %+v, want no write", host.stored)
	}
	if host.nextCalls != 1 {
		t.Errorf("CallNextAction called %d times, want 1", host.nextCalls)
	}
}

func TestExecute_AbsentValueLogsWarning(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	host := &fakeHost{msg: embedMessage()}
	inst := Instance{MessageRef: "0", InfoKey: "image url", StorageTarget: "1", DestVarName: "img"}

	if err := New(Config{Logger: logger}).Execute(context.Background(), host, cacheFor(inst)); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	if entry["level"] != "WARN" {
		t.Errorf("level = %v, want WARN", entry["level"])
	}
	if entry["info"] != "image url" || entry["action"] != Name {
		t.Errorf("log attrs = %v", entry)
	}
}

func TestExecute_Failures(t *testing.T) {
	tests := []struct {
		name     string
		host     *fakeHost
		inst     Instance
		wantErr  error
		wantCode actionsdk.ErrorCode
	}{
		{
			name:     "message not found",
			host:     &fakeHost{},
			inst:     Instance{MessageRef: "1", SourceVarName: "missing", InfoKey: "color", StorageTarget: "1", DestVarName: "c"},
			wantErr:  actionsdk.ErrMessageNotFound,
			wantCode: actionsdk.ErrCodeNotFound,
		},
		{
			name:     "resolver error",
			host:     &fakeHost{resolveErr: errors.New("boom")},
			inst:     Instance{MessageRef: "0", InfoKey: "color", StorageTarget: "1", DestVarName: "c"},
			wantErr:  actionsdk.ErrMessageNotFound,
			wantCode: actionsdk.ErrCodeNotFound,
		},
		{
			name:     "invalid message reference",
			host:     &fakeHost{msg: embedMessage()},
			inst:     Instance{MessageRef: "x", InfoKey: "color", StorageTarget: "1", DestVarName: "c"},
			wantErr:  actionsdk.ErrMessageNotFound,
			wantCode: actionsdk.ErrCodeInvalidInput,
		},
		{
			name:     "no embeds",
			host:     &fakeHost{msg: &models.Message{ID: "plain", Content: "hi"}},
			inst:     Instance{MessageRef: "0", InfoKey: "color", StorageTarget: "1", DestVarName: "c"},
			wantErr:  actionsdk.ErrNotEmbedMessage,
			wantCode: actionsdk.ErrCodeInvalidInput,
		},
		{
			name:     "nil first embed",
			host:     &fakeHost{msg: &models.Message{ID: "odd", Embeds: []*models.Embed{nil}}},
			inst:     Instance{MessageRef: "0", InfoKey: "color", StorageTarget: "1", DestVarName: "c"},
			wantErr:  actionsdk.ErrNotEmbedMessage,
			wantCode: actionsdk.ErrCodeInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(Config{}).Execute(context.Background(), tt.host, cacheFor(tt.inst))
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Execute() error = %v, want %v", err, tt.wantErr)
			}
			if code := actionsdk.CodeOf(err); code != tt.wantCode {
				t.Errorf("CodeOf() = %q, want %q", code, tt.wantCode)
			}
			if len(tt.host.stored) != 0 {
				t.Errorf("stored = %+v, want no write", tt.host.stored)
			}
			if tt.host.nextCalls != 0 {
				t.Errorf("CallNextAction called %d times after failure", tt.host.nextCalls)
			}
		})
	}
}

func TestExecute_StoreError(t *testing.T) {
	host := &fakeHost{msg: embedMessage(), storeErr: errors.New("disk full")}
	inst := Instance{MessageRef: "0", InfoKey: "description", StorageTarget: "3", DestVarName: "d"}

	err := New(Config{}).Execute(context.Background(), host, cacheFor(inst))
	if actionsdk.CodeOf(err) != actionsdk.ErrCodeStorage {
		t.Fatalf("Execute() error = %v, want storage error", err)
	}
	if host.nextCalls != 0 {
		t.Error("chain advanced after a failed write")
	}
}

func TestExecute_EvalError(t *testing.T) {
	host := &fakeHost{msg: embedMessage(), evalErr: errors.New("bad template")}
	inst := Instance{MessageRef: "0", InfoKey: "description", StorageTarget: "1", DestVarName: "{{"}

	err := New(Config{}).Execute(context.Background(), host, cacheFor(inst))
	if actionsdk.CodeOf(err) != actionsdk.ErrCodeInvalidInput {
		t.Fatalf("Execute() error = %v", err)
	}
}

type recordingObserver struct {
	calls []string
}

func (o *recordingObserver) Extraction(info string, stored bool) {
	o.calls = append(o.calls, fmt.Sprintf("%s=%t", info, stored))
}

func TestExecute_ObservesExtractions(t *testing.T) {
	observer := &recordingObserver{}
	action := New(Config{Observer: observer})
	host := &fakeHost{msg: embedMessage()}

	for _, info := range []string{"description", "thumbnail url"} {
		inst := Instance{MessageRef: "0", InfoKey: info, StorageTarget: "1", DestVarName: "v"}
		if err := action.Execute(context.Background(), host, cacheFor(inst)); err != nil {
			t.Fatalf("Execute(%q) error = %v", info, err)
		}
	}

	want := []string{"description=true", "thumbnail url=false"}
	if len(observer.calls) != len(want) {
		t.Fatalf("observer calls = %v, want %v", observer.calls, want)
	}
	for i := range want {
		if observer.calls[i] != want[i] {
			t.Errorf("call %d = %q, want %q", i, observer.calls[i], want[i])
		}
	}
}
