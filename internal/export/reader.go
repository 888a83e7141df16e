package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
)

var (
	// ErrNotList is returned when the top-level JSON value is not an array.
	ErrNotList = errors.New("conversations export is not a list")
	// ErrUnknownFormat is returned when the schema cannot be detected and
	// best-effort parsing was not requested.
	ErrUnknownFormat = errors.New("unrecognized conversations export format")
)

// Reader runs the ingestion pipeline: decode, detect, normalize, sort.
type Reader struct {
	logger *slog.Logger
}

// NewReader creates an ingestion reader.
func NewReader(logger *slog.Logger) *Reader {
	return &Reader{logger: logger}
}

// ReadFile ingests a conversations.json file.
func (r *Reader) ReadFile(path string, opts Options) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read export: %w", err)
	}
	return r.Load(data, opts)
}

// Read ingests conversations JSON from rd.
func (r *Reader) Read(rd io.Reader, opts Options) (*Dataset, error) {
	data, err := io.ReadAll(rd)
	if err != nil {
		return nil, fmt.Errorf("read export: %w", err)
	}
	return r.Load(data, opts)
}

// Load ingests conversations JSON held in memory.
func (r *Reader) Load(data []byte, opts Options) (*Dataset, error) {
	records, err := decodeRecords(data)
	if err != nil {
		return nil, err
	}

	detected := Detect(records)
	r.logger.Info("export format detected", "format", detected, "conversations", len(records))

	if len(records) == 0 {
		return &Dataset{Source: SourceUnknown}, nil
	}
	if detected == SourceUnknown {
		if !opts.BestEffort {
			return nil, ErrUnknownFormat
		}
		r.logger.Warn("unknown export format, parsing as chatgpt")
	}

	n := normalizerFor(detected)
	b := newBuilder(n.source(), opts)
	n.normalize(records, b)

	ds := b.ds
	SortMessages(ds.Messages)

	r.logger.Info("export ingested",
		"source", ds.Source,
		"conversations", len(ds.Conversations),
		"messages", len(ds.Messages),
		"skipped", ds.Skipped.Total(),
	)
	if ds.Skipped.Total() > 0 {
		r.logger.Info("messages skipped",
			"no_payload", ds.Skipped.NoPayload,
			"bad_timestamp", ds.Skipped.BadTimestamp,
			"empty_text", ds.Skipped.EmptyText,
			"year", ds.Skipped.Year,
			"role", ds.Skipped.Role,
			"duplicate", ds.Skipped.Duplicate,
		)
	}
	return &ds, nil
}

// DetectFormat decodes data and reports its format and record count
// without normalizing anything.
func DetectFormat(data []byte) (Source, int, error) {
	records, err := decodeRecords(data)
	if err != nil {
		return SourceUnknown, 0, err
	}
	return Detect(records), len(records), nil
}

// decodeRecords parses the top-level array, dropping elements that are not
// JSON objects.
func decodeRecords(data []byte) ([]record, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] != '[' {
		if !json.Valid(trimmed) {
			return nil, fmt.Errorf("decode export: invalid JSON")
		}
		return nil, ErrNotList
	}

	var items []json.RawMessage
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, fmt.Errorf("decode export: %w", err)
	}

	records := make([]record, 0, len(items))
	for _, item := range items {
		if rec, ok := decodeRecord(item); ok {
			records = append(records, rec)
		}
	}
	return records, nil
}

// SortMessages orders messages by creation time, then conversation id, then
// message id.
func SortMessages(msgs []Message) {
	sort.SliceStable(msgs, func(i, j int) bool {
		a, b := msgs[i], msgs[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		if a.ConversationID != b.ConversationID {
			return a.ConversationID < b.ConversationID
		}
		return a.ID < b.ID
	})
}
