package resolve

import (
	"context"
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"path"
	"regexp"
	"strings"

	"mdweave/internal/action"
	"mdweave/internal/urlcache"
)

const acceptHeader = "text/markdown, text/plain, application/json, text/*;q=0.9, */*;q=0.8"

// markdownishRe spots structural markdown when a server sends no usable
// content type.
var markdownishRe = regexp.MustCompile("(?m)^(#{1,6} |[-*] |```|\\d+\\. )")

// resolveURL fetches a remote document, honouring the cache and its
// conditional-request validators.
func (r *Resolver) resolveURL(ctx context.Context, act action.URL) (string, error) {
	var cached urlcache.Entry
	if r.cache != nil {
		cached = r.cache.Lookup(act.Address)
		if cached.Hit && !cached.Expired {
			return cached.Content, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, act.Address, nil)
	if err != nil {
		return "", &FetchError{URL: act.Address, Cause: err}
	}
	req.Header.Set("Accept", acceptHeader)
	if cached.Hit && cached.Expired {
		if cached.ETag != "" {
			req.Header.Set("If-None-Match", cached.ETag)
		}
		if cached.LastModified != "" {
			req.Header.Set("If-Modified-Since", cached.LastModified)
		}
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return "", &FetchError{URL: act.Address, Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotModified && cached.Hit {
		if err := r.cache.Touch(act.Address); err != nil {
			r.log.Debug("cache refresh failed", "url", act.Address, "error", err)
		}
		return cached.Content, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &ResponseError{URL: act.Address, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, r.cfg.MaxImportFileSize+1))
	if err != nil {
		return "", &FetchError{URL: act.Address, Cause: err}
	}
	if int64(len(body)) > r.cfg.MaxImportFileSize {
		return "", &FileTooLargeError{Path: act.Address, Size: int64(len(body)), Limit: r.cfg.MaxImportFileSize}
	}

	content := string(body)
	contentType := resp.Header.Get("Content-Type")
	if !acceptableContentType(contentType, act.Address, content) {
		return "", &UnsupportedContentTypeError{URL: act.Address, ContentType: contentType}
	}

	if r.cache != nil {
		err := r.cache.Store(act.Address, content, resp.Header.Get("ETag"), resp.Header.Get("Last-Modified"))
		if err != nil {
			r.log.Debug("cache store failed", "url", act.Address, "error", err)
		}
	}
	return content, nil
}

// acceptableContentType allows the markdown, plain-text and JSON types
// outright. Missing or generic types fall back to sniffing the body and the
// URL extension rather than trusting a misconfigured server.
func acceptableContentType(contentType, url, body string) bool {
	mediaType := contentType
	if parsed, _, err := mime.ParseMediaType(contentType); err == nil {
		mediaType = parsed
	}
	mediaType = strings.ToLower(mediaType)

	switch mediaType {
	case "text/markdown", "text/plain", "application/json":
		return true
	}
	if strings.HasPrefix(mediaType, "text/") || strings.HasSuffix(mediaType, "+json") {
		return true
	}
	if mediaType != "" && mediaType != "application/octet-stream" {
		return false
	}

	switch strings.ToLower(path.Ext(url)) {
	case ".md", ".markdown", ".txt", ".json":
		return true
	}
	if json.Valid([]byte(body)) {
		return true
	}
	return markdownishRe.MatchString(body)
}
