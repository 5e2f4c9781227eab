package logging_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/htmlindent/internal/logging"
)

func TestFromContext(t *testing.T) {
	t.Parallel()

	assert.Same(t, logging.Default(), logging.FromContext(context.Background()))
	//nolint:staticcheck // A nil context falls back to the default logger.
	assert.Same(t, logging.Default(), logging.FromContext(nil))

	var buf bytes.Buffer
	logger := log.New(&buf)
	ctx := logging.WithLogger(context.Background(), logger)
	assert.Same(t, logger, logging.FromContext(ctx))

	logging.FromContext(ctx).Info("attached", logging.FieldPath, "a.html")
	assert.Contains(t, buf.String(), "path=a.html")
}
