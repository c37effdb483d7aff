// ABOUTME: Multipart form uploads for profile completion and property listings
// ABOUTME: Encodes text fields and file parts with a content type guessed from the extension
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
)

// FileUpload is one file part. Content is read instead of Path when set.
type FileUpload struct {
	Field    string
	Path     string
	Filename string
	Content  io.Reader
}

func (f FileUpload) name() string {
	if f.Filename != "" {
		return f.Filename
	}
	return filepath.Base(f.Path)
}

func (f FileUpload) contentType() string {
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(f.name()))); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// quoteEscaper escapes a MIME quoted-string. Go %q escapes would mangle
// non-ASCII filenames.
var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// form accumulates multipart fields in order.
type form struct {
	fields [][2]string
	files  []FileUpload
}

func (f *form) set(key, value string) {
	if value != "" {
		f.fields = append(f.fields, [2]string{key, value})
	}
}

// setJSON adds a field holding v as JSON, the way the backend expects arrays
// inside form data.
func (f *form) setJSON(key string, v interface{}) error {
	buf, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	f.fields = append(f.fields, [2]string{key, string(buf)})
	return nil
}

func (f *form) attach(files ...FileUpload) {
	f.files = append(f.files, files...)
}

func (f *form) encode() (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, kv := range f.fields {
		if err := w.WriteField(kv[0], kv[1]); err != nil {
			return nil, "", err
		}
	}

	for _, file := range f.files {
		if err := writeFile(w, file); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

func writeFile(w *multipart.Writer, file FileUpload) error {
	src := file.Content
	if src == nil {
		fh, err := os.Open(file.Path)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", file.Path, err)
		}
		defer fh.Close()
		src = fh
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(file.Field), quoteEscaper.Replace(file.name())))
	h.Set("Content-Type", file.contentType())

	part, err := w.CreatePart(h)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, src); err != nil {
		return fmt.Errorf("failed to read %s: %w", file.name(), err)
	}
	return nil
}

// upload sends f as multipart/form-data and decodes the response into out.
func (c *Client) upload(ctx context.Context, method, path string, f *form, out interface{}) error {
	body, contentType, err := f.encode()
	if err != nil {
		return &Error{Kind: KindValidation, Message: "Could not read the selected file.", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path, nil), body)
	if err != nil {
		return &Error{Kind: KindClient, Message: MsgUnknown, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", contentType)

	raw, err := c.do(req)
	if err != nil {
		return err
	}
	return decode(raw, out)
}
