package parser

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/I-SHANKAR-NARAYANA/Adobe-Hackathon-1b/internal/cache"
	"github.com/I-SHANKAR-NARAYANA/Adobe-Hackathon-1b/internal/doctree"
)

// variantLoader is implemented by loaders whose output depends on a mode.
type variantLoader interface {
	CacheVariant() string
}

// CachingLoader memoizes parsed documents by the SHA-256 of their bytes.
// Cache failures are logged and never fail a load.
type CachingLoader struct {
	Next  Loader
	Cache cache.Cache
	TTL   time.Duration
	Log   *slog.Logger
}

func (l *CachingLoader) Load(ctx context.Context, path string) (*doctree.Document, error) {
	sum, err := fileDigest(path)
	if err != nil {
		return nil, err
	}
	// The extension picks the parser and the loader mode shapes its output,
	// so both are part of the key.
	variant := "default"
	if v, ok := l.Next.(variantLoader); ok {
		variant = v.CacheVariant()
	}
	key := cache.Key("doc", sum, filepath.Ext(path), variant)

	if raw, found, err := l.Cache.Get(ctx, key); err != nil {
		l.warn("cache get failed", key, err)
	} else if found {
		var doc doctree.Document
		if err := json.Unmarshal([]byte(raw), &doc); err == nil {
			doc.Name = filepath.Base(path)
			return &doc, nil
		}
		l.warn("cache entry undecodable", key, err)
	}

	doc, err := l.Next.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	if raw, err := json.Marshal(doc); err == nil {
		if err := l.Cache.Set(ctx, key, string(raw), l.TTL); err != nil {
			l.warn("cache set failed", key, err)
		}
	}
	return doc, nil
}

func (l *CachingLoader) warn(msg, key string, err error) {
	if l.Log != nil {
		l.Log.Warn(msg, "key", key, "error", err)
	}
}

func fileDigest(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash %s: %w", filepath.Base(path), err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
