package asset

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// The client used for fetching remote scene files.
var httpClient = &http.Client{Timeout: 30 * time.Second}

// A Resource is a readable scene asset stored either on the local
// filesystem or behind an http(s) URL. Callers must Close it.
type Resource struct {
	io.ReadCloser
	url *url.URL
}

// Get the resource location.
func (r *Resource) Path() string {
	return r.url.String()
}

// Get the resource file name without any directory or URL prefix.
func (r *Resource) Name() string {
	return path.Base(r.url.Path)
}

// Get the lowercase resource file extension including the leading dot.
func (r *Resource) Ext() string {
	return strings.ToLower(path.Ext(r.url.Path))
}

// Returns true if the resource is streamed over http/https.
func (r *Resource) IsRemote() bool {
	return r.url.Scheme != ""
}

// Open a resource. When relTo is not nil and location has no scheme, the
// location is resolved against the directory containing relTo; this lets
// scene files include other scene files next to them whether they are
// local or remote.
func NewResource(location string, relTo *Resource) (*Resource, error) {
	loc, err := url.Parse(filepath.ToSlash(location))
	if err != nil {
		return nil, fmt.Errorf("resource: invalid location '%s': %s", location, err)
	}

	if loc.Scheme == "" && relTo != nil && !filepath.IsAbs(loc.Path) {
		loc, err = resolveRelative(loc.Path, relTo)
		if err != nil {
			return nil, err
		}
	}

	var reader io.ReadCloser
	switch loc.Scheme {
	case "":
		reader, err = os.Open(filepath.Clean(filepath.FromSlash(loc.Path)))
		if err != nil {
			return nil, fmt.Errorf("resource: could not open '%s': %s", loc.Path, err)
		}
	case "http", "https":
		reader, err = fetch(loc)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("resource: unsupported scheme '%s'", loc.Scheme)
	}

	return &Resource{
		ReadCloser: reader,
		url:        loc,
	}, nil
}

// Create a resource from an in-memory stream.
func NewResourceFromStream(name string, source io.Reader) *Resource {
	loc, err := url.Parse(filepath.ToSlash(name))
	if err != nil {
		loc = &url.URL{Path: name}
	}
	return &Resource{
		ReadCloser: io.NopCloser(source),
		url:        loc,
	}
}

func resolveRelative(relPath string, relTo *Resource) (*url.URL, error) {
	if relTo.IsRemote() {
		base := *relTo.url
		return base.ResolveReference(&url.URL{Path: relPath}), nil
	}

	basePath, err := filepath.Abs(filepath.FromSlash(relTo.url.Path))
	if err != nil {
		return nil, fmt.Errorf("resource: could not detect abs path for '%s': %s", relTo.url.Path, err)
	}
	return &url.URL{Path: filepath.ToSlash(filepath.Join(filepath.Dir(basePath), relPath))}, nil
}

func fetch(loc *url.URL) (io.ReadCloser, error) {
	resp, err := httpClient.Get(loc.String())
	if err != nil {
		return nil, fmt.Errorf("resource: could not fetch '%s': %s", loc.String(), err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		resp.Body.Close()
		return nil, fmt.Errorf("resource: could not fetch '%s': status %d", loc.String(), resp.StatusCode)
	}
	return resp.Body, nil
}
