// build +integration
package main_test

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/ofirzvishaboo/mcp-server/internal/app/apps"
	"github.com/ofirzvishaboo/mcp-server/internal/app/cfg"

	"github.com/stretchr/testify/require"
)

func TestServerApp(t *testing.T) {
	t.Parallel()
	if testing.Short() {
		t.Skip()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := uint16(l.Addr().(*net.TCPAddr).Port)
	require.NoError(t, l.Close())
	addr := fmt.Sprintf("127.0.0.1:%d", port)

	serverErr := make(chan error, 1)
	go func() {
		s, err := apps.NewServerApp(
			cfg.NewHostCfg("127.0.0.1"),
			cfg.NewPortCfg(port),
		)
		if err != nil {
			serverErr <- err
			return
		}
		serverErr <- s.Run(ctx, nil)
	}()

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		conn, err := net.DialTimeout("tcp", addr, 100*time.Millisecond)
		if err == nil {
			require.NoError(t, conn.Close())
			break
		}
		time.Sleep(50 * time.Millisecond)
	}

	c, err := apps.NewClientApp(cfg.NewServerURLCfg("http://" + addr))
	require.NoError(t, err)
	var out bytes.Buffer
	c.In = strings.NewReader("3\n5\n")
	c.Out = &out
	require.NoError(t, c.Run(ctx, []string{"client"}))
	require.Contains(t, out.String(), "Available websites for price comparison:")

	cancel()
	require.NoError(t, <-serverErr)
}
