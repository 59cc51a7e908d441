package pdf

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/ternarybob/arbor"
)

func TestExtractPagesRejectsInvalidPDF(t *testing.T) {
	logger := arbor.NewLogger()
	extractor := NewExtractor(logger)

	tests := []struct {
		name    string
		content []byte
	}{
		{name: "Empty Content", content: []byte{}},
		{name: "Not A PDF", content: []byte("this is plain text, not a PDF")},
		{name: "Truncated Header", content: []byte("%PDF-1.7")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pages, err := extractor.ExtractPages(context.Background(), tt.content)
			assert.Error(t, err)
			assert.Nil(t, pages)
		})
	}
}

func TestExtractPagesHonorsCancelledContext(t *testing.T) {
	logger := arbor.NewLogger()
	extractor := NewExtractor(logger)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := extractor.ExtractPages(ctx, []byte("%PDF-1.7"))
	assert.ErrorIs(t, err, context.Canceled)
}
