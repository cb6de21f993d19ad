package httpclient

import (
	"net/http"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	client := New(5 * time.Second)

	if client.Timeout != 5*time.Second {
		t.Errorf("expected timeout 5s but got %v", client.Timeout)
	}
	transport, ok := client.Transport.(*http.Transport)
	if !ok {
		t.Fatalf("expected *http.Transport but got %T", client.Transport)
	}
	if transport.MaxIdleConnsPerHost != 10 {
		t.Errorf("expected 10 idle conns per host but got %d", transport.MaxIdleConnsPerHost)
	}
}

func TestConfigureAndSet(t *testing.T) {
	original := Shared()
	defer Set(original)

	Configure(2 * time.Second)
	if Shared().Timeout != 2*time.Second {
		t.Errorf("expected shared timeout 2s but got %v", Shared().Timeout)
	}

	custom := &http.Client{}
	Set(custom)
	if Shared() != custom {
		t.Error("expected Shared to return the injected client")
	}
}
