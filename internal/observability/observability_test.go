package observability

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/football-history/internal/config"
	"github.com/riskibarqy/football-history/internal/platform/logging"
)

func TestStart_AllDisabled(t *testing.T) {
	stack, err := Start(config.Config{ServiceName: "football-history", AppEnv: config.EnvDev}, logging.NewNop())
	require.NoError(t, err)
	assert.Empty(t, stack.stops)
	require.NoError(t, stack.Shutdown(context.Background()))
}

func TestStartTracing_EnabledWithoutDSN(t *testing.T) {
	stack, err := StartTracing(config.Config{UptraceEnabled: true}, nil)
	require.NoError(t, err)
	assert.Empty(t, stack.stops)
}

func TestStart_PprofServesAndStops(t *testing.T) {
	stack, err := Start(config.Config{PprofEnabled: true, PprofAddr: "127.0.0.1:0"}, logging.NewNop())
	require.NoError(t, err)
	require.Len(t, stack.stops, 1)
	assert.Equal(t, "pprof", stack.stops[0].name)
	require.NoError(t, stack.Shutdown(context.Background()))
	assert.Empty(t, stack.stops)
}

func TestStart_PprofPortTaken(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	_, err = Start(config.Config{PprofEnabled: true, PprofAddr: ln.Addr().String()}, logging.NewNop())
	assert.ErrorContains(t, err, "listen pprof")
}

func TestShutdown_ReverseOrderAndJoinedErrors(t *testing.T) {
	var order []string
	boom := errors.New("flush failed")

	stack := newStack(logging.NewNop())
	stack.add("first", func(context.Context) error { order = append(order, "first"); return nil })
	stack.add("second", func(context.Context) error { order = append(order, "second"); return boom })

	err := stack.Shutdown(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"second", "first"}, order)

	var nilStack *Stack
	assert.NoError(t, nilStack.Shutdown(context.Background()))
}
