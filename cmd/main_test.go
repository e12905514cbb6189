package cmd

import (
	"os"
	"testing"

	"fbrportal/internal/logger"
)

func TestMain(m *testing.M) {
	logger.Discard()
	os.Exit(m.Run())
}
