package plan

import (
	"net"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFindOpenPort(t *testing.T) {
	// Occupy one port so the probe has to walk past it.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	busy := ln.Addr().(*net.TCPAddr).Port

	avoid := make(PortSet)
	avoid.Add(busy + 1)

	port, err := FindOpenPort("127.0.0.1", busy, avoid)
	require.NoError(t, err)
	require.NotEqual(t, busy, port)
	require.False(t, avoid.Has(port), "returned a port from the avoid set")
	require.GreaterOrEqual(t, port, busy)
}

func TestFindOpenPortExhausted(t *testing.T) {
	start := 21000
	avoid := make(PortSet)
	for i := 0; i < MaxPortTries; i++ {
		avoid.Add(start + i)
	}

	_, err := FindOpenPort("127.0.0.1", start, avoid)
	var exhausted *PortExhaustedError
	require.ErrorAs(t, err, &exhausted)
	require.Equal(t, "127.0.0.1", exhausted.Host)
	require.Equal(t, start, exhausted.First)
	require.Equal(t, start+MaxPortTries-1, exhausted.Last)
}

func TestPortSetClone(t *testing.T) {
	s := make(PortSet)
	s.Add(12400)
	c := s.Clone()
	c.Add(12401)
	require.True(t, c.Has(12400))
	require.False(t, s.Has(12401), "clone must not share storage")
}
