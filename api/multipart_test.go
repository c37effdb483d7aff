package api

import (
	"io"
	"mime"
	"mime/multipart"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormEncodesFilenames(t *testing.T) {
	names := []string{
		"घर.jpg",
		`flat "2BHK".png`,
		`C:\photos\front.jpg`,
	}

	f := &form{}
	f.set("title", "Sea view")
	for _, n := range names {
		f.attach(FileUpload{Field: "images", Filename: n, Content: strings.NewReader("img")})
	}

	body, contentType, err := f.encode()
	require.NoError(t, err)
	_, params, err := mime.ParseMediaType(contentType)
	require.NoError(t, err)

	r := multipart.NewReader(body, params["boundary"])
	field, err := r.NextPart()
	require.NoError(t, err)
	assert.Equal(t, "title", field.FormName())

	for _, want := range names {
		part, err := r.NextPart()
		require.NoError(t, err)
		assert.Equal(t, "images", part.FormName())

		_, disp, err := mime.ParseMediaType(part.Header.Get("Content-Disposition"))
		require.NoError(t, err)
		assert.Equal(t, want, disp["filename"])

		content, err := io.ReadAll(part)
		require.NoError(t, err)
		assert.Equal(t, "img", string(content))
	}

	_, err = r.NextPart()
	assert.ErrorIs(t, err, io.EOF)
}
