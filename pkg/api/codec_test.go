package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodec_ImageBytesAreBase64(t *testing.T) {
	var c Codec
	data, err := c.Marshal(&ExtractReceiptRequest{Image: []byte("hi"), MimeType: "image/png"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"image":"aGk=","mime_type":"image/png"}`, string(data))

	var got ExtractReceiptRequest
	require.NoError(t, c.Unmarshal(data, &got))
	assert.Equal(t, []byte("hi"), got.Image)
}

func TestCodec_RejectsUnknownFields(t *testing.T) {
	var got GetReceiptRequest
	err := Codec{}.Unmarshal([]byte(`{"receiptId":"r1"}`), &got)
	assert.Error(t, err)
}

func TestCodec_EmptyBody(t *testing.T) {
	var got GetCurrentUserRequest
	assert.NoError(t, Codec{}.Unmarshal(nil, &got))
	assert.Equal(t, CodecName, Codec{}.Name())
}
