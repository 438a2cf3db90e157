package logging_test

import (
	"strings"
	"testing"

	"github.com/scoutline/scoutline/internal/logging"
)

func TestSecrets(t *testing.T) {
	in := `request failed: Bearer eyJhbGciOi.secret api_key=sk-12345 X-KEY: abcdef`
	out := logging.Secrets(in)
	for _, leak := range []string{"eyJhbGciOi", "sk-12345", "abcdef"} {
		if strings.Contains(out, leak) {
			t.Fatalf("secret %q survived redaction: %q", leak, out)
		}
	}
	if logging.Secrets("") != "" {
		t.Fatalf("empty input should stay empty")
	}
}
