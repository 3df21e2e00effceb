package extract

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	prompt string
	image  *Image
}

// fakeGenerator replays canned replies in order and records each call.
type fakeGenerator struct {
	replies []string
	err     error
	calls   []call
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string, image *Image) (string, error) {
	f.calls = append(f.calls, call{prompt: prompt, image: image})
	if f.err != nil {
		return "", f.err
	}
	reply := f.replies[0]
	f.replies = f.replies[1:]
	return reply, nil
}

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestPipeline_Extract(t *testing.T) {
	gen := &fakeGenerator{replies: []string{
		`{"items": [{"BNTY PPR TWL": "19.99"}, {"CPN": "3.00-A"}], "total": "16.99"}`,
		`{"Bounty Paper Towels": "$19.99", "Coupon": "-$3.00", "Total": "$16.99"}`,
	}}

	draft, err := NewPipeline(gen).Extract(context.Background(), pngHeader, "image/png")
	require.NoError(t, err)
	require.Len(t, draft.Items, 2)
	assert.Equal(t, "Bounty Paper Towels", draft.Items[0].Name)
	assert.InDelta(t, 16.99, draft.Subtotal, 1e-9)

	require.Len(t, gen.calls, 2)
	require.NotNil(t, gen.calls[0].image)
	assert.Equal(t, "image/png", gen.calls[0].image.MIMEType)
	assert.Nil(t, gen.calls[1].image)
	assert.True(t, strings.Contains(gen.calls[1].prompt, `"BNTY PPR TWL":"19.99"`),
		"cleanup prompt should embed the compacted first reply")
}

func TestPipeline_DetectsMIMEType(t *testing.T) {
	gen := &fakeGenerator{replies: []string{`{}`, `{"Tea": "$2"}`}}

	draft, err := NewPipeline(gen).Extract(context.Background(), pngHeader, "")
	require.NoError(t, err)
	assert.Len(t, draft.Items, 1)
	assert.Equal(t, "image/png", gen.calls[0].image.MIMEType)
}

func TestPipeline_Validation(t *testing.T) {
	p := NewPipeline(&fakeGenerator{})

	_, err := p.Extract(context.Background(), nil, "image/png")
	assert.ErrorIs(t, err, ErrImageRequired)

	_, err = p.Extract(context.Background(), []byte("%PDF-1.4"), "application/pdf")
	assert.ErrorIs(t, err, ErrUnsupportedMedia)
}

func TestPipeline_GeneratorFailure(t *testing.T) {
	boom := errors.New("quota exceeded")
	_, err := NewPipeline(&fakeGenerator{err: boom}).Extract(context.Background(), pngHeader, "image/png")
	assert.ErrorIs(t, err, boom)
}

func TestPipeline_EmptyCleanupReply(t *testing.T) {
	gen := &fakeGenerator{replies: []string{`{"a": 1}`, ``}}
	_, err := NewPipeline(gen).Extract(context.Background(), pngHeader, "image/png")
	assert.ErrorIs(t, err, ErrEmptyResponse)
}
