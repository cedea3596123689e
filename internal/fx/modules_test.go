package fx

import (
	"testing"

	"royale-rivals/internal/server"
	"royale-rivals/internal/syncer"

	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
)

func TestModuleGraphResolves(t *testing.T) {
	err := fx.ValidateApp(
		Module,
		fx.Invoke(func(*server.Server, *syncer.Scheduler) {}),
	)
	require.NoError(t, err)
}
