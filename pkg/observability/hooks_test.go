package observability

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	e := NoopEditorHooks{}
	e.OnLoad(ctx, "in.png", 400, 300, time.Second, nil)
	e.OnCropApplied(ctx, 200, 100)
	e.OnBackgroundRemovalStart(ctx)
	e.OnBackgroundRemovalComplete(ctx, time.Second, errors.New("boom"))
	e.OnConfirm(ctx, 200, 1024)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "bgremove")
	c.OnCacheMiss(ctx, "bgremove")
	c.OnCacheSet(ctx, "bgremove", 1024)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "POST", "api.example.com", "/remove")
	h.OnResponse(ctx, "POST", "api.example.com", "/remove", 200, time.Second)
	h.OnError(ctx, "POST", "api.example.com", "/remove", nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	defer Reset()

	if _, ok := Editor().(NoopEditorHooks); !ok {
		t.Error("Editor() should return NoopEditorHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	customEditor := &testEditorHooks{}
	SetEditorHooks(customEditor)
	if Editor() != customEditor {
		t.Error("SetEditorHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	Reset()
	if _, ok := Editor().(NoopEditorHooks); !ok {
		t.Error("Reset() should restore NoopEditorHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testEditorHooks{}
	SetEditorHooks(custom)
	SetEditorHooks(nil)
	if Editor() != custom {
		t.Error("SetEditorHooks(nil) should be ignored")
	}
}

func TestLogHooks(t *testing.T) {
	Reset()
	defer Reset()

	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	hooks := NewLogHooks(logger)
	hooks.Install()

	ctx := context.Background()
	Editor().OnLoad(ctx, "data:image/png;base64,"+strings.Repeat("A", 500), 4, 3, time.Millisecond, nil)
	Editor().OnBackgroundRemovalComplete(ctx, time.Second, errors.New("status 502"))
	Cache().OnCacheHit(ctx, "bgremove")
	HTTP().OnResponse(ctx, "POST", "api.example.com", "/remove", 200, time.Millisecond)

	out := buf.String()
	for _, want := range []string{"image loaded", "background removal failed", "status 502", "cache hit", "http response"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, strings.Repeat("A", 100)) {
		t.Error("long data URL sources should be truncated")
	}
}

// Test implementations
type testEditorHooks struct{ NoopEditorHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
