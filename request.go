package ultradns

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"mime/multipart"
	"net/textproto"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Request describes a single API call.
type Request struct {
	Method string
	// Path is relative to the API base URL. Absolute URLs (task result URIs, locations) are used as is.
	Path  string
	Query url.Values
	// Body is encoded as JSON unless it is nil. []byte and json.RawMessage are sent verbatim.
	Body any
	// Parts turn the request into multipart/form-data and take precedence over Body.
	Parts []Part
}

// Part is a single multipart/form-data section.
type Part struct {
	Name        string
	FileName    string
	ContentType string
	Content     []byte
}

func (r *Request) url(base string) (string, error) {
	target := r.Path
	if !isAbsoluteURL(target) {
		target = base + target
	}

	u, err := url.Parse(target)
	if err != nil {
		return "", errors.Wrap(err, "parse url")
	}

	if len(r.Query) > 0 {
		query := u.Query()
		for key, values := range r.Query {
			for _, value := range values {
				query.Add(key, value)
			}
		}

		u.RawQuery = query.Encode()
	}

	return u.String(), nil
}

// body is rebuilt on every attempt so that a retried request sends the same payload.
func (r *Request) body() (io.Reader, string, error) {
	if len(r.Parts) > 0 {
		return encodeParts(r.Parts)
	}

	switch body := r.Body.(type) {
	case nil:
		return nil, "", nil
	case []byte:
		return bytes.NewReader(body), "application/json", nil
	case json.RawMessage:
		return bytes.NewReader(body), "application/json", nil
	default:
		data, err := json.Marshal(body)
		if err != nil {
			return nil, "", errors.Wrap(err, "marshal body")
		}

		return bytes.NewReader(data), "application/json", nil
	}
}

func encodeParts(parts []Part) (io.Reader, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, part := range parts {
		disposition := fmt.Sprintf(`form-data; name=%q`, part.Name)
		if part.FileName != "" {
			disposition += fmt.Sprintf(`; filename=%q`, part.FileName)
		}

		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", disposition)
		if part.ContentType != "" {
			header.Set("Content-Type", part.ContentType)
		}

		w, err := mw.CreatePart(header)
		if err != nil {
			return nil, "", errors.Wrapf(err, "create part %s", part.Name)
		}

		if _, err := w.Write(part.Content); err != nil {
			return nil, "", errors.Wrapf(err, "write part %s", part.Name)
		}
	}

	if err := mw.Close(); err != nil {
		return nil, "", errors.Wrap(err, "close multipart writer")
	}

	return &buf, mw.FormDataContentType(), nil
}

// ListOptions controls filtering, sorting and paging of list endpoints.
type ListOptions struct {
	// Query is rendered as space separated key:value pairs into the q parameter.
	Query   map[string]string
	Sort    string
	Reverse bool
	Offset  int
	Limit   int
	// Cursor is used by v3 endpoints instead of Offset.
	Cursor string
}

// Values renders the options as URL query parameters.
func (o *ListOptions) Values() url.Values {
	values := make(url.Values)
	if o == nil {
		return values
	}

	if len(o.Query) > 0 {
		terms := make([]string, 0, len(o.Query))
		for _, key := range slices.Sorted(maps.Keys(o.Query)) {
			terms = append(terms, key+":"+o.Query[key])
		}

		values.Set("q", strings.Join(terms, " "))
	}

	if o.Sort != "" {
		values.Set("sort", o.Sort)
	}

	if o.Reverse {
		values.Set("reverse", "true")
	}

	if o.Offset > 0 {
		values.Set("offset", strconv.Itoa(o.Offset))
	}

	if o.Limit > 0 {
		values.Set("limit", strconv.Itoa(o.Limit))
	}

	if o.Cursor != "" {
		values.Set("cursor", o.Cursor)
	}

	return values
}

// apiPath joins escaped segments into an absolute API path.
func apiPath(segments ...string) string {
	var b strings.Builder
	for _, segment := range segments {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(segment))
	}

	return b.String()
}

func isAbsoluteURL(s string) bool {
	return strings.HasPrefix(s, "https://") || strings.HasPrefix(s, "http://")
}
