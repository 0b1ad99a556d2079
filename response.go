package ultradns

import (
	"encoding/json"
	"mime"
	"net/http"

	"github.com/pkg/errors"
)

// Result is a successful API response.
type Result struct {
	StatusCode int
	Header     http.Header
	Body       []byte

	// TaskID and Location are set for 202 Accepted responses of background operations.
	TaskID   string
	Location string
}

func newResult(resp *http.Response, body []byte) *Result {
	result := &Result{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}

	switch resp.StatusCode {
	case http.StatusNoContent:
		result.Body = nil
	case http.StatusAccepted:
		result.TaskID = resp.Header.Get("X-Task-Id")
		result.Location = resp.Header.Get("Location")
	}

	return result
}

// ContentType returns the media type of the body without parameters.
func (r *Result) ContentType() string {
	if r.Header == nil {
		return ""
	}

	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return ""
	}

	return mediaType
}

// Async reports whether the result refers to a background task or a pollable location.
func (r *Result) Async() bool {
	return r.TaskID != "" || r.Location != ""
}

// Decode unmarshals the JSON body into v. An empty body leaves v untouched.
func (r *Result) Decode(v any) error {
	if len(r.Body) == 0 {
		return nil
	}

	return errors.Wrap(json.Unmarshal(r.Body, v), "decode body")
}

// Text returns the body as a string. Zone exports and some task results are text/plain.
func (r *Result) Text() string {
	return string(r.Body)
}

// Value returns a generic representation of the body: the decoded JSON document
// (objects are extended with task_id and location when present), a string for
// text bodies or raw bytes for binary ones.
func (r *Result) Value() (any, error) {
	switch r.ContentType() {
	case "text/plain":
		return r.Text(), nil
	case "application/zip", "application/octet-stream":
		return r.Body, nil
	}

	var value any = map[string]any{}
	if len(r.Body) > 0 {
		if err := json.Unmarshal(r.Body, &value); err != nil {
			return r.Text(), nil
		}
	}

	if object, ok := value.(map[string]any); ok {
		if r.TaskID != "" {
			object["task_id"] = r.TaskID
		}

		if r.Location != "" {
			object["location"] = r.Location
		}
	}

	return value, nil
}
