package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/iuris/internal/models"
)

func TestServiceStartsUninitialized(t *testing.T) {
	service := NewService()

	assert.Equal(t, StateUninitialized, service.State())
	assert.False(t, service.Queryable())
}

func TestServiceProgressesThroughPipeline(t *testing.T) {
	service := NewService()

	for _, state := range []State{StateDownloading, StateParsing, StateChunking, StateEmbedding, StateReady} {
		service.SetState(state, "")
		assert.Equal(t, state, service.State())
	}
	assert.True(t, service.Queryable())
}

func TestTerminalStatesAreSticky(t *testing.T) {
	service := NewService()
	service.SetState(StateDownloading, "")
	service.SetState(StateFailed, "all documents failed")

	service.SetState(StateReady, "")
	assert.Equal(t, StateFailed, service.State())

	service.SetState(StateDownloading, "")
	assert.Equal(t, StateFailed, service.State())
}

func TestDegradedIsQueryable(t *testing.T) {
	service := NewService()
	service.SetState(StateDegraded, "1 of 3 documents failed")

	assert.True(t, service.Queryable())
	assert.True(t, service.State().Terminal())
}

func TestReportAggregatesDocumentCounts(t *testing.T) {
	service := NewService()
	service.SetState(StateEmbedding, "")
	service.RecordDocument(models.DocumentReport{Name: "A", Chunks: 100, Embedded: 90, Omitted: 10})
	service.RecordDocument(models.DocumentReport{Name: "B", Chunks: 50, Embedded: 50})
	service.RecordDocument(models.DocumentReport{Name: "C", Error: "download failed"})
	service.SetState(StateDegraded, "1 of 3 documents failed")

	report := service.Report()
	assert.Equal(t, StateDegraded, report.State)
	require.Len(t, report.Documents, 3)
	assert.Equal(t, 150, report.TotalChunks)
	assert.Equal(t, 140, report.TotalEmbedded)
	assert.Equal(t, 10, report.TotalOmitted)
	assert.Equal(t, "download failed", report.Documents[2].Error)
	assert.False(t, report.CompletedAt.IsZero())
}

func TestReportCopiesDocuments(t *testing.T) {
	service := NewService()
	service.RecordDocument(models.DocumentReport{Name: "A", Chunks: 1})

	report := service.Report()
	report.Documents[0].Name = "mutated"

	assert.Equal(t, "A", service.Report().Documents[0].Name)
}
