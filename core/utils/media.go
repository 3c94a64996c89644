package utils

import (
	"net/url"
	"path"
	"path/filepath"
	"strings"
)

// IsRemoteRef reports whether a media handle is already a durable remote
// reference (an http or https URL) rather than a local file handle.
func IsRemoteRef(handle string) bool {
	u, err := url.Parse(strings.TrimSpace(handle))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// LocalPath converts a local media handle into a filesystem path.
// Both plain paths and file:// URIs are accepted.
func LocalPath(handle string) string {
	handle = strings.TrimSpace(handle)
	if strings.HasPrefix(handle, "file://") {
		if u, err := url.Parse(handle); err == nil {
			return filepath.FromSlash(u.Path)
		}
		return strings.TrimPrefix(handle, "file://")
	}
	return handle
}

// BaseName returns the trailing path segment of a media handle, with any
// query string or fragment stripped. It returns "" for handles without one.
func BaseName(handle string) string {
	p := LocalPath(handle)
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	p = strings.TrimRight(filepath.ToSlash(p), "/")
	if p == "" {
		return ""
	}
	base := path.Base(p)
	if base == "." || base == "/" {
		return ""
	}
	return base
}

// SafeKeySegment replaces characters that are awkward in object keys.
func SafeKeySegment(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, s)
}

// ObjectKeyFromRef extracts the object key from a media URL pointing into
// bucket. Path-style refs (host/bucket/key), as public and MinIO presigned
// URLs are, are tried first; virtual-host refs (bucket.host/key), as AWS
// presigned URLs are, second. The second result is false for refs that do
// not point into bucket.
func ObjectKeyFromRef(ref, bucket string) (string, bool) {
	if !IsRemoteRef(ref) || bucket == "" {
		return "", false
	}
	u, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return "", false
	}

	marker := "/" + bucket + "/"
	if i := strings.Index(u.Path, marker); i >= 0 {
		key := u.Path[i+len(marker):]
		return key, key != ""
	}

	host := u.Hostname()
	if strings.HasPrefix(host, bucket+".") && len(host) > len(bucket)+1 {
		key := strings.TrimPrefix(u.Path, "/")
		return key, key != ""
	}
	return "", false
}
