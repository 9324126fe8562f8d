// Package images materializes member photos in the working copy. Files
// are named by member identity, never by upstream URL, so names stay
// stable across runs and cannot collide between members.
package images

import (
	"context"
	"crypto/sha256"
	"io"
	"mime"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/agentstation/teamroster/internal/transport"
	"github.com/agentstation/teamroster/pkg/constants"
	"github.com/agentstation/teamroster/pkg/errors"
	"github.com/agentstation/teamroster/pkg/logging"
	"github.com/agentstation/teamroster/pkg/roster"
)

// Outcome classifies what Resolve did for one member.
type Outcome string

const (
	// OutcomeNew means no prior file existed and one was written.
	OutcomeNew Outcome = "new"
	// OutcomeUpdated means the content changed and the file was rewritten.
	OutcomeUpdated Outcome = "updated"
	// OutcomeUnchanged means the content hash matched the stored file.
	OutcomeUnchanged Outcome = "unchanged"
	// OutcomeNone means the member has no image.
	OutcomeNone Outcome = "none"
)

// Result reports the materialized image for one member.
type Result struct {
	Outcome  Outcome
	Filename string // relative filename within the image directory
}

// Changed reports whether the file needs staging.
func (r *Result) Changed() bool {
	return r.Outcome == OutcomeNew || r.Outcome == OutcomeUpdated
}

// defaultTypes maps accepted image content types to file extensions.
var defaultTypes = map[string]string{
	"image/jpeg": "jpeg",
	"image/png":  "png",
	"image/gif":  "gif",
	"image/webp": "webp",
}

// Resolver fetches and stores member images.
type Resolver struct {
	http     *transport.Client
	dir      string
	maxBytes int64
	types    map[string]string
	cache    *Cache
}

// NewResolver creates a resolver writing into dir. The cache must be
// scoped to one run; pass a fresh one per pipeline execution.
func NewResolver(http *transport.Client, dir string, cache *Cache) *Resolver {
	if http == nil {
		http = transport.New(&transport.NoAuth{}, "")
	}
	if cache == nil {
		cache = NewCache()
	}
	return &Resolver{
		http:     http,
		dir:      dir,
		maxBytes: constants.DefaultImageMaxBytes,
		types:    defaultTypes,
		cache:    cache,
	}
}

// WithLimits overrides the size cap and the accepted content types.
// A nil or empty allowed list keeps the defaults.
func (r *Resolver) WithLimits(maxBytes int64, allowed []string) *Resolver {
	if maxBytes > 0 {
		r.maxBytes = maxBytes
	}
	if len(allowed) > 0 {
		types := make(map[string]string, len(allowed))
		for _, ct := range allowed {
			if ext, ok := defaultTypes[ct]; ok {
				types[ct] = ext
			}
		}
		if len(types) > 0 {
			r.types = types
		}
	}
	return r
}

// Resolve materializes the image for one member and sets its ImageName.
// Fetch failures degrade: the member keeps any previously stored image
// (the asset is still on disk) or none at all, and the caller records the
// returned ImageFetchError as a warning.
func (r *Resolver) Resolve(ctx context.Context, member *roster.Member) (*Result, error) {
	prior, hasPrior := r.existing(member.Identity)

	if member.ImageURL == "" {
		if hasPrior {
			member.ImageName = prior
			return &Result{Outcome: OutcomeUnchanged, Filename: prior}, nil
		}
		member.ImageName = ""
		return &Result{Outcome: OutcomeNone}, nil
	}

	content, err := r.fetch(ctx, member)
	if err != nil {
		if hasPrior {
			member.ImageName = prior
		} else {
			member.ImageName = ""
		}
		return &Result{Outcome: OutcomeNone, Filename: member.ImageName}, err
	}

	filename := member.Identity + "." + content.ext
	path := filepath.Join(r.dir, filename)

	result := &Result{Filename: filename}
	switch {
	case !hasPrior:
		result.Outcome = OutcomeNew
	case prior == filename && hashFile(path) == content.hash:
		member.ImageName = filename
		result.Outcome = OutcomeUnchanged
		return result, nil
	default:
		result.Outcome = OutcomeUpdated
	}

	if err := os.MkdirAll(r.dir, constants.DirPermissions); err != nil {
		return &Result{Outcome: OutcomeNone}, &errors.ImageFetchError{
			Identity: member.Identity, Reason: "cannot create image directory", Err: err,
		}
	}
	if err := os.WriteFile(path, content.data, constants.FilePermissions); err != nil {
		return &Result{Outcome: OutcomeNone}, &errors.ImageFetchError{
			Identity: member.Identity, Reason: "cannot write image file", Err: err,
		}
	}
	// A changed extension leaves the old asset behind; images are never
	// deleted automatically.
	member.ImageName = filename

	logging.Ctx(ctx).Info().
		Str("identity", member.Identity).
		Str("file", filename).
		Str("outcome", string(result.Outcome)).
		Msg("Stored member image")

	return result, nil
}

// fetched is downloaded image content plus its derived extension and hash.
type fetched struct {
	data []byte
	ext  string
	hash [sha256.Size]byte
}

// fetch downloads the image, enforcing content type and size limits.
// Results are cached per URL for the duration of the run.
func (r *Resolver) fetch(ctx context.Context, member *roster.Member) (*fetched, error) {
	fetchURL := rewriteDriveURL(member.ImageURL)

	if cached, ok := r.cache.get(fetchURL); ok {
		return cached, nil
	}

	resp, err := r.http.Get(ctx, fetchURL)
	if err != nil {
		return nil, &errors.ImageFetchError{
			Identity: member.Identity, URL: member.ImageURL, Reason: "request failed", Err: err,
		}
	}
	defer resp.Body.Close() //nolint:errcheck // read side only

	if resp.StatusCode != 200 {
		return nil, &errors.ImageFetchError{
			Identity: member.Identity, URL: member.ImageURL,
			Reason: "unexpected status " + resp.Status,
		}
	}

	contentType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	ext, ok := r.types[contentType]
	if !ok {
		return nil, &errors.ImageFetchError{
			Identity: member.Identity, URL: member.ImageURL,
			Reason: "not an accepted image type: " + contentType,
		}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, r.maxBytes+1))
	if err != nil {
		return nil, &errors.ImageFetchError{
			Identity: member.Identity, URL: member.ImageURL, Reason: "read failed", Err: err,
		}
	}
	if int64(len(data)) > r.maxBytes {
		return nil, &errors.ImageFetchError{
			Identity: member.Identity, URL: member.ImageURL, Reason: "payload exceeds size limit",
		}
	}

	content := &fetched{data: data, ext: ext, hash: sha256.Sum256(data)}
	r.cache.put(fetchURL, content)
	return content, nil
}

// existing looks for a previously materialized file for the identity.
func (r *Resolver) existing(identity string) (string, bool) {
	matches, err := filepath.Glob(filepath.Join(r.dir, identity+".*"))
	if err != nil || len(matches) == 0 {
		return "", false
	}
	return filepath.Base(matches[0]), true
}

// hashFile returns the sha256 of the file at path, or the zero hash when
// the file cannot be read.
func hashFile(path string) [sha256.Size]byte {
	data, err := os.ReadFile(path)
	if err != nil {
		return [sha256.Size]byte{}
	}
	return sha256.Sum256(data)
}

// rewriteDriveURL turns a Google Drive viewer link into its direct
// download form; other URLs pass through untouched.
func rewriteDriveURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host != "drive.google.com" {
		return raw
	}
	if strings.HasPrefix(u.Path, "/open") {
		u.Path = "/uc" + strings.TrimPrefix(u.Path, "/open")
		return u.String()
	}
	return raw
}
