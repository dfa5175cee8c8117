// internal/domain/order/service_test.go
package order

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// References are used as URL path segments (order lookup by reference and the
// links embedded in customer emails), so they must stay a single clean token.
func TestGenerateReference_Format(t *testing.T) {
	s := &Service{}
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	ref := s.generateReference(now)
	assert.Regexp(t, regexp.MustCompile(`^ORD-20260831-[0-9A-F]{8}$`), ref)
}

func TestGenerateReference_Unique(t *testing.T) {
	s := &Service{}
	now := time.Now().UTC()

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		ref := s.generateReference(now)
		assert.False(t, seen[ref], "duplicate reference %s", ref)
		seen[ref] = true
	}
}
