package runner

import (
	"testing"

	"go.uber.org/goleak"
)

// go test processes are waited for; nothing may outlive a test.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
