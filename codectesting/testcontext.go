package codectesting

import (
	"math/rand"
	"testing"

	"github.com/datatrails/go-datatrails-common/logger"
)

type TestContext struct {
	Log  logger.Logger
	Rand *rand.Rand
	T    *testing.T
}

type TestConfig struct {
	// The generators draw from an RNG seeded with Seed. It is normal to force
	// it to some fixed value so that the generated data is the same from run
	// to run.
	Seed            int64
	TestLabelPrefix string
	LogLevel        string // can be "" defaults to INFO
}

func NewTestContext(t *testing.T, cfg TestConfig) TestContext {
	c := TestContext{
		T:    t,
		Rand: rand.New(rand.NewSource(cfg.Seed)),
	}
	level := cfg.LogLevel
	if level == "" {
		level = "INFO"
	}
	logger.New(level)
	c.Log = logger.Sugar.WithServiceName(cfg.TestLabelPrefix)
	return c
}

func (c *TestContext) GetLog() logger.Logger { return c.Log }
