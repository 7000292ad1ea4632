package session

import (
	"encoding/json"
	"regexp"
	"time"

	"github.com/grovetools/handoff/errors"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/tidwall/gjson"
)

// Record is the metadata published next to the session archive. It is
// created fresh on every publish, immutable once written, and consumed once
// by the restorer to recover the original working directory.
type Record struct {
	SessionID   string `json:"sessionId"`
	GitBranch   string `json:"gitBranch"`
	Cwd         string `json:"cwd"`
	Timestamp   string `json:"timestamp"`
	ArchivePath string `json:"archivePath"`
}

// recordSchema validates downloaded metadata before it is trusted for path
// rewriting. An invalid record degrades to the text-scan fallback.
const recordSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["sessionId", "gitBranch", "cwd", "timestamp", "archivePath"],
  "properties": {
    "sessionId": {"type": "string", "minLength": 1},
    "gitBranch": {"type": "string", "minLength": 1},
    "cwd": {"type": "string", "minLength": 1},
    "timestamp": {"type": "string"},
    "archivePath": {"type": "string", "minLength": 1}
  }
}`

var compiledRecordSchema = jsonschema.MustCompileString("metadata.schema.json", recordSchema)

// NewRecord builds a metadata record with an ISO-8601 UTC timestamp
func NewRecord(sessionID, branch, cwd, archiveName string, now time.Time) Record {
	return Record{
		SessionID:   sessionID,
		GitBranch:   branch,
		Cwd:         cwd,
		Timestamp:   now.UTC().Format(time.RFC3339),
		ArchivePath: archiveName,
	}
}

// Marshal validates the record against the schema and renders it as
// indented JSON.
func (r Record) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to marshal metadata record")
	}
	if err := validateRecord(data); err != nil {
		return nil, err
	}
	return data, nil
}

// ParseRecord decodes and validates a downloaded metadata record
func ParseRecord(data []byte) (Record, error) {
	if err := validateRecord(data); err != nil {
		return Record{}, err
	}

	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return Record{}, errors.Wrap(err, errors.ErrCodeInternal, "failed to parse metadata record")
	}
	return r, nil
}

func validateRecord(data []byte) error {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "metadata record is not valid JSON")
	}
	if err := compiledRecordSchema.Validate(v); err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "metadata record failed schema validation")
	}
	return nil
}

var (
	textSessionIDRe = regexp.MustCompile(`"sessionId"\s*:\s*"([^"]*)"`)
	textCwdRe       = regexp.MustCompile(`"cwd"\s*:\s*"([^"]*)"`)
)

// ScrapeRecordFields pulls the session id and original cwd out of metadata
// bytes without requiring a valid document: gjson first, then a plain text
// pattern match. Either value may come back empty; the restorer proceeds
// with whatever it got.
func ScrapeRecordFields(data []byte) (sessionID, cwd string) {
	if gjson.ValidBytes(data) {
		sessionID = gjson.GetBytes(data, "sessionId").String()
		cwd = gjson.GetBytes(data, "cwd").String()
	}

	if sessionID == "" {
		if m := textSessionIDRe.FindSubmatch(data); m != nil {
			sessionID = string(m[1])
		}
	}
	if cwd == "" {
		if m := textCwdRe.FindSubmatch(data); m != nil {
			cwd = string(m[1])
		}
	}
	return sessionID, cwd
}
