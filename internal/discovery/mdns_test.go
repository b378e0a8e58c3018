// ABOUTME: Tests for mDNS discovery
// ABOUTME: Tests manager construction and receiver address formatting
package discovery

import (
	"testing"
	"time"
)

func TestNewManager(t *testing.T) {
	config := Config{
		InstanceName: "test-emitter",
		Port:         6980,
		StreamName:   "vbanstream",
	}

	mgr := NewManager(config)
	if mgr == nil {
		t.Fatal("expected manager to be created")
	}
	defer mgr.Stop()

	if mgr.Receivers() == nil {
		t.Error("expected receivers channel")
	}
}

func TestReceiverAddr(t *testing.T) {
	r := &ReceiverInfo{Name: "studio", Host: "192.168.1.20", Port: 6980}

	if got := r.Addr(); got != "192.168.1.20:6980" {
		t.Errorf("expected 192.168.1.20:6980, got %s", got)
	}
}

func TestBrowseTimeoutIsWallClock(t *testing.T) {
	// Sub-second values here mean the browse loop spins re-querying the
	// network instead of waiting out each round.
	if browseTimeout < time.Second {
		t.Errorf("browse timeout %v is too short for an mDNS query round", browseTimeout)
	}
}

func TestStopIsIdempotentlySafe(t *testing.T) {
	mgr := NewManager(Config{InstanceName: "x", Port: 6980})
	mgr.Stop()
	mgr.Stop()
}
