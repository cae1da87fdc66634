package utils

import (
	"os"
	"testing"
)

func TestMain(m *testing.M) {
	os.Setenv("SESSION_SECRET", "test-session-secret")
	os.Exit(m.Run())
}
