package cache

import (
	"context"

	"rapidscribe/internal/app/api"
	"rapidscribe/internal/app/utils"
)

// CachedTranscriber wraps a Transcriber with the transcript cache. Hashing or
// cache failures fall through to the wrapped transcriber.
type CachedTranscriber struct {
	inner api.Transcriber
	cache *TranscriptCache
}

// WrapTranscriber decorates inner with cache. A nil cache returns inner
// unchanged so callers never pay for the indirection.
func WrapTranscriber(inner api.Transcriber, cache *TranscriptCache) api.Transcriber {
	if cache == nil {
		return inner
	}
	return &CachedTranscriber{inner: inner, cache: cache}
}

func (ct *CachedTranscriber) Transcript(inputFilePath string) (string, error) {
	ctx := context.Background()

	fileHash, err := utils.FileSHA256(inputFilePath)
	if err != nil {
		return ct.inner.Transcript(inputFilePath)
	}

	if text, ok := ct.cache.Get(ctx, fileHash); ok {
		return text, nil
	}

	text, err := ct.inner.Transcript(inputFilePath)
	if err != nil {
		return "", err
	}
	ct.cache.Set(ctx, fileHash, text)
	return text, nil
}
