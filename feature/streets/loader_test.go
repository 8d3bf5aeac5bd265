package streets

import (
	"testing"

	"street-sync/core/feed"
	"street-sync/core/snapshot"
	"street-sync/core/storage/mocks"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func nopLogger() *zap.Logger { return zap.NewNop() }

func feedConfig() feed.Config { return feed.Config{Path: "testdata/missing.dat"} }

func snapshotConfig() snapshot.Config {
	return snapshot.Config{Prefix: "streets", CurrentFolder: "snapshots/current", ArchiveFolder: "snapshots/archive"}
}

func TestLoader(t *testing.T) {
	mockClient := new(mocks.Client)
	// Pass nil db, the registry is only read during a run
	feature := NewFeature(mockClient, "test-bucket", nopLogger(), nil, feedConfig(), snapshotConfig())

	assert.Equal(t, "streets", feature.Name())
	assert.True(t, feature.IsEnabled())
	assert.NotNil(t, feature.Service())

	app := fiber.New()
	err := feature.Load(app)
	assert.NoError(t, err)
}
