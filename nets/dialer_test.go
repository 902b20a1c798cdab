package nets

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/reusee/dscope"
	"github.com/reusee/tairepl/configs"
	"github.com/reusee/tairepl/modes"
)

func TestDialTimeout(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.cue")
	if err := os.WriteFile(path, []byte(`dial_timeout: "3s"`), 0644); err != nil {
		t.Fatal(err)
	}
	dscope.New(
		modes.ForTest(t),
		new(Module),
		dscope.Provide(configs.NewLoader([]string{path}, "dial_timeout?: string")),
	).Call(func(
		timeout DialTimeout,
	) {
		if time.Duration(timeout) != 3*time.Second {
			t.Fatalf("got %v", time.Duration(timeout))
		}
	})

	dscope.New(
		modes.ForTest(t),
		new(Module),
		dscope.Provide(configs.NewLoader(nil, "")),
	).Call(func(
		timeout DialTimeout,
	) {
		if timeout != DefaultDialTimeout {
			t.Fatalf("got %v", time.Duration(timeout))
		}
	})
}

func TestDialLocal(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()
	go func() {
		conn, err := ln.Accept()
		if err == nil {
			conn.Close()
		}
	}()

	dscope.New(
		modes.ForTest(t),
		new(Module),
		dscope.Provide(configs.NewLoader(nil, "")),
	).Call(func(
		dialer Dialer,
	) {
		conn, err := dialer.DialContext(context.Background(), "tcp", ln.Addr().String())
		if err != nil {
			t.Fatal(err)
		}
		conn.Close()
	})
}
