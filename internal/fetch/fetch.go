// Package fetch captures API responses for a directory of request payloads.
// Each payload is posted once, in file name order, and its outcome written
// as a response envelope the compare command reads back.
package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/agentstation/taischeck/internal/transport"
	"github.com/agentstation/taischeck/pkg/constants"
	"github.com/agentstation/taischeck/pkg/errors"
	"github.com/agentstation/taischeck/pkg/logging"
)

// Envelope is the on-disk record of one request.
type Envelope struct {
	File       string `json:"file"`
	StatusCode *int   `json:"status_code"`
	Response   any    `json:"response"`
}

// Summary counts the outcome of a fetch run.
type Summary struct {
	Requests int      `json:"requests" yaml:"requests"`
	Failed   int      `json:"failed" yaml:"failed"` // transport failures or unreadable payloads
	Written  []string `json:"written" yaml:"written"`
}

// Poster sends one JSON request and returns its status and body.
type Poster interface {
	PostJSON(ctx context.Context, url string, body []byte) (int, []byte, error)
}

// Fetcher posts payloads and writes their envelopes.
type Fetcher struct {
	client     Poster
	url        string
	payloadDir string
	outputDir  string
}

// New creates a Fetcher posting to url.
func New(client Poster, url, payloadDir, outputDir string) *Fetcher {
	return &Fetcher{client: client, url: url, payloadDir: payloadDir, outputDir: outputDir}
}

// NewWithToken builds the bearer-authenticated transport for token.
func NewWithToken(token, header, url, payloadDir, outputDir string, opts ...transport.Option) (*Fetcher, error) {
	if token == "" {
		return nil, errors.ErrAuthRequired
	}
	return New(transport.New(transport.ForHeader(header), token, opts...), url, payloadDir, outputDir), nil
}

// Run posts every payload sequentially. A request that fails still gets an
// envelope with an empty response; only a missing payload set or an
// unwritable output directory stops the run.
func (f *Fetcher) Run(ctx context.Context) (*Summary, error) {
	logger := logging.FromContext(ctx)

	payloads, err := f.payloads()
	if err != nil {
		return nil, err
	}
	if len(payloads) == 0 {
		return nil, errors.NewMissingArtifact("request payloads", f.payloadDir, fmt.Errorf("no *.json payloads"))
	}

	if err := os.MkdirAll(f.outputDir, constants.DirPermissions); err != nil {
		return nil, errors.WrapIO("create", f.outputDir, err)
	}

	logger.Info().Int("requests", len(payloads)).Str("url", f.url).Msg("Starting capture")

	sum := &Summary{}
	for i, name := range payloads {
		if err := ctx.Err(); err != nil {
			return sum, err
		}

		n := i + 1
		logger.Info().Msgf("Processing [%d/%d] : %s", n, len(payloads), name)

		env := f.capture(ctx, name)
		sum.Requests++
		if env.StatusCode == nil {
			sum.Failed++
		}

		out := filepath.Join(f.outputDir, fmt.Sprintf(constants.ResponseFilePattern, n))
		if err := writeEnvelope(out, env); err != nil {
			return sum, err
		}
		sum.Written = append(sum.Written, out)
	}

	logger.Info().Int("requests", sum.Requests).Int("failed", sum.Failed).Msg("All requests processed")
	return sum, nil
}

func (f *Fetcher) payloads() ([]string, error) {
	entries, err := os.ReadDir(f.payloadDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewMissingArtifact("request payloads", f.payloadDir, err)
		}
		return nil, errors.WrapIO("read", f.payloadDir, err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".json") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// capture posts one payload. Failures are logged and leave the response empty.
func (f *Fetcher) capture(ctx context.Context, name string) Envelope {
	logger := logging.FromContext(ctx)
	env := Envelope{File: name, Response: map[string]any{}}

	body, err := os.ReadFile(filepath.Join(f.payloadDir, name))
	if err == nil && !json.Valid(body) {
		err = errors.WrapParse("json", name, fmt.Errorf("payload is not valid JSON"))
	}
	if err != nil {
		logger.Warn().Err(err).Str("file", name).Msg("Skipping unreadable payload")
		return env
	}

	status, data, err := f.client.PostJSON(ctx, f.url, body)
	if err != nil {
		logger.Warn().Err(err).Str("file", name).Msg("Request failed")
		return env
	}

	env.StatusCode = &status
	env.Response = decodeBody(data)
	return env
}

// decodeBody keeps JSON bodies as JSON and anything else as text.
func decodeBody(data []byte) any {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return map[string]any{}
	}
	if json.Valid(trimmed) {
		return json.RawMessage(trimmed)
	}
	return string(data)
}

func writeEnvelope(path string, env Envelope) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(env); err != nil {
		return errors.WrapParse("json", path, err)
	}
	if err := os.WriteFile(path, buf.Bytes(), constants.FilePermissions); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}
