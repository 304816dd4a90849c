// internal/browser/element_test.go
package browser

import (
	"context"
	"testing"

	"github.com/chromedp/cdproto/cdp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallOnNode_NilNode(t *testing.T) {
	var ok bool
	err := callOnNode(nil, jsEnabled, &ok).Do(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nil node")
}

func TestCallOnNode_RequiresBrowserContext(t *testing.T) {
	// Without a chromedp target in ctx the node cannot be resolved.
	node := &cdp.Node{NodeID: 7, BackendNodeID: 11}
	var value string
	err := callOnNode(node, jsAttribute, &value, "value").Do(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to resolve node")
	assert.Empty(t, value)
}
