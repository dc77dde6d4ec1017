package recommendation

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRemote struct {
	mu       sync.Mutex
	response string
	err      error
	calls    int
	block    chan struct{}
}

func (f *fakeRemote) GenerateContent(ctx context.Context, _, _ string) (string, error) {
	f.mu.Lock()
	f.calls++
	block := f.block
	f.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func TestGenerateWithoutRemote(t *testing.T) {
	svc := NewService(nil, 0, nil)

	set, err := svc.Generate(context.Background(), criticalResult())
	require.NoError(t, err)

	assert.True(t, set.Degraded())
	assert.Contains(t, set.SourceError, "not configured")
	assert.NotEmpty(t, set.Nutrition)
	assert.NotEmpty(t, set.Therapy)
	assert.NotEmpty(t, set.Pharmacology)
	assert.NotEmpty(t, set.PrescriptionSummary)
}

func TestGenerateFallsBackOnRemoteFailure(t *testing.T) {
	remote := &fakeRemote{err: fmt.Errorf("service unavailable")}
	svc := NewService(remote, 0, nil)

	set, err := svc.Generate(context.Background(), criticalResult())
	require.NoError(t, err)

	assert.True(t, set.Degraded())
	assert.Contains(t, set.SourceError, "Generated locally")
	assert.Contains(t, set.SourceError, "service unavailable")

	local := BuildLocal(criticalResult())
	assert.Equal(t, local.Nutrition, set.Nutrition)
	assert.Equal(t, local.Therapy, set.Therapy)
	assert.Equal(t, local.Pharmacology, set.Pharmacology)
}

func TestGenerateUsesCompleteRemoteResponse(t *testing.T) {
	remote := &fakeRemote{
		response: "NUTRITIONAL INTERVENTION\n- remote nutrition\n\n" +
			"PHYSICAL THERAPY PROTOCOL\n- remote therapy\n\n" +
			"PHARMACOLOGICAL MANAGEMENT\n- remote meds",
	}
	svc := NewService(remote, 0, nil)

	set, err := svc.Generate(context.Background(), criticalResult())
	require.NoError(t, err)

	assert.False(t, set.Degraded())
	assert.Equal(t, "- remote nutrition", set.Nutrition)
	assert.Equal(t, "- remote therapy", set.Therapy)
	assert.Equal(t, "- remote meds", set.Pharmacology)

	// Prescription summary stays local even on a full remote response.
	local := BuildLocal(criticalResult())
	assert.Equal(t, local.PrescriptionSummary, set.PrescriptionSummary)
}

func TestGenerateMergesPartialResponse(t *testing.T) {
	remote := &fakeRemote{
		response: "NUTRITIONAL INTERVENTION\n- remote nutrition only",
	}
	svc := NewService(remote, 0, nil)

	set, err := svc.Generate(context.Background(), criticalResult())
	require.NoError(t, err)

	local := BuildLocal(criticalResult())
	assert.Equal(t, "- remote nutrition only", set.Nutrition)
	assert.Equal(t, local.Therapy, set.Therapy)
	assert.Equal(t, local.Pharmacology, set.Pharmacology)
}

func TestCurrentTracksNewestGeneration(t *testing.T) {
	remote := &fakeRemote{err: fmt.Errorf("down")}
	svc := NewService(remote, 0, nil)

	_, ok := svc.Current()
	assert.False(t, ok)

	set, err := svc.Generate(context.Background(), criticalResult())
	require.NoError(t, err)

	current, ok := svc.Current()
	require.True(t, ok)
	assert.Equal(t, set, current)
}

func TestStaleGenerationIsDiscarded(t *testing.T) {
	svc := NewService(nil, 0, nil)

	older := BuildLocal(stableResult())
	newer := BuildLocal(criticalResult())

	// Two attempts in flight; the later one lands first.
	firstToken := svc.latest.Add(1)
	secondToken := svc.latest.Add(1)

	svc.finish(secondToken, newer)
	svc.finish(firstToken, older)

	current, ok := svc.Current()
	require.True(t, ok)
	assert.Equal(t, newer, current, "a slow older attempt must not clobber the newest result")
}
