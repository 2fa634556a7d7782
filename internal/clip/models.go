package clip

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

type Kind int

const (
	KindEmpty Kind = iota
	KindURL
	KindFile
)

func (k Kind) String() string {
	switch k {
	case KindURL:
		return "url"
	case KindFile:
		return "file"
	default:
		return "empty"
	}
}

// Selection is the exclusive choice between a stream URL and an uploaded file.
// The zero value is empty. A Selection is replaced as a whole, never edited,
// so a URL and a file can not both be held.
type Selection struct {
	kind Kind
	url  string
	file File
}

func URLSelection(raw string) Selection {
	u := strings.TrimSpace(raw)
	if u == "" {
		return Selection{}
	}
	return Selection{kind: KindURL, url: u}
}

func FileSelection(f File) Selection {
	return Selection{kind: KindFile, file: f}
}

func (s Selection) Kind() Kind {
	return s.kind
}

func (s Selection) IsEmpty() bool {
	return s.kind == KindEmpty
}

// URL returns the trimmed URL and true in URL mode.
func (s Selection) URL() (string, bool) {
	return s.url, s.kind == KindURL
}

// File returns the selected file and true in file mode.
func (s Selection) File() (File, bool) {
	return s.file, s.kind == KindFile
}

func (s Selection) String() string {
	switch s.kind {
	case KindURL:
		return "url(" + s.url + ")"
	case KindFile:
		return "file(" + s.file.Name + ")"
	default:
		return "empty"
	}
}

// File is a named binary source picked by the user.
type File struct {
	Name string
	Size int64

	path string
	data []byte
}

// OpenFile describes a local file on disk. The file is reopened on every Open.
func OpenFile(path string) (File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return File{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return File{}, fmt.Errorf("%s is a directory", path)
	}
	return File{
		Name: filepath.Base(path),
		Size: info.Size(),
		path: path,
	}, nil
}

// NewFile wraps in-memory bytes.
func NewFile(name string, data []byte) File {
	return File{Name: name, Size: int64(len(data)), data: data}
}

// Path returns the local path, or "" for in-memory files.
func (f File) Path() string {
	return f.path
}

func (f File) Open() (io.ReadCloser, error) {
	if f.path != "" {
		return os.Open(f.path)
	}
	return io.NopCloser(bytes.NewReader(f.data)), nil
}

// Topic is a detected subject: a label and its description.
type Topic struct {
	Label       string
	Description string
}

// UnmarshalJSON accepts the wire form ["label", "description"]. Elements past
// the second are ignored.
func (t *Topic) UnmarshalJSON(b []byte) error {
	var pair []string
	if err := json.Unmarshal(b, &pair); err != nil {
		return fmt.Errorf("topic must be a [label, description] pair: %w", err)
	}
	if len(pair) < 2 {
		return fmt.Errorf("topic needs a label and a description, got %d elements", len(pair))
	}
	t.Label, t.Description = pair[0], pair[1]
	return nil
}

func (t Topic) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]string{t.Label, t.Description})
}

// Result is the clipping server response. Both sequences are empty, not nil,
// when the server leaves the key out.
type Result struct {
	Clips  []string `json:"clips"`
	Topics []Topic  `json:"topics"`
}

// ErrNotObject is returned when a response body is valid JSON but not an object.
var ErrNotObject = errors.New("response is not a JSON object")

func (r *Result) UnmarshalJSON(b []byte) error {
	if !IsObject(b) {
		return ErrNotObject
	}
	var wire struct {
		Clips  []string `json:"clips"`
		Topics []Topic  `json:"topics"`
	}
	if err := json.Unmarshal(b, &wire); err != nil {
		return err
	}
	r.Clips = wire.Clips
	r.Topics = wire.Topics
	r.normalize()
	return nil
}

func (r *Result) normalize() {
	if r.Clips == nil {
		r.Clips = []string{}
	}
	if r.Topics == nil {
		r.Topics = []Topic{}
	}
}

// IsObject reports whether b holds a JSON object, ignoring surrounding space.
func IsObject(b []byte) bool {
	b = bytes.TrimSpace(b)
	return len(b) > 0 && b[0] == '{'
}

// EmptyResult returns a Result with both sequences empty.
func EmptyResult() Result {
	var r Result
	r.normalize()
	return r
}

// ResolveClips rewrites server-relative clip references against base so they
// can be played outside the server's own page. Absolute references and
// unparsable entries are kept as they are.
func (r Result) ResolveClips(base string) Result {
	out := Result{Clips: make([]string, len(r.Clips)), Topics: r.Topics}
	if out.Topics == nil {
		out.Topics = []Topic{}
	}

	baseURL, err := url.Parse(base)
	for i, c := range r.Clips {
		out.Clips[i] = c
		if err != nil || base == "" {
			continue
		}
		ref, perr := url.Parse(c)
		if perr != nil || ref.IsAbs() {
			continue
		}
		out.Clips[i] = baseURL.ResolveReference(ref).String()
	}
	return out
}
