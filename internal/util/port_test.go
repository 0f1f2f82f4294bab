package util

import (
	"net"
	"testing"
)

func TestFindAvailablePort_SkipsBusyPort(t *testing.T) {
	ln, err := net.Listen("tcp", ":0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { _ = ln.Close() })

	busy := ln.Addr().(*net.TCPAddr).Port
	got := FindAvailablePort(busy)
	if got == busy {
		t.Fatalf("returned the busy port %d", busy)
	}
	if got < busy || got >= busy+20 {
		t.Fatalf("port %d outside probe window starting at %d", got, busy)
	}
}

func TestFindAvailablePort_ReturnsFirstFree(t *testing.T) {
	ln, err := net.Listen("tcp", ":0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	free := ln.Addr().(*net.TCPAddr).Port
	_ = ln.Close()

	if got := FindAvailablePort(free); got != free {
		t.Fatalf("got %d, want %d", got, free)
	}
}
