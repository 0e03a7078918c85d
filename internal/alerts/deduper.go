// Package alerts holds the whale-alert deduplication cache. State is
// process-lifetime only: a restart forgets every mute, which is the decided
// behavior, and the interface exists so a durable implementation could be
// swapped in without touching the scheduler.
package alerts

import (
	"unsafe"

	"github.com/coocood/freecache"
	"valeod/internal/structures"
)

// Cache sizing: entries are a dozen bytes each, so the floor freecache
// accepts is plenty for any realistic chat count.
const cacheSizeBytes = 512 * 1024

type DedupCacheInterface interface {
	ShouldAlert(chatID, fanID string) bool
	RecordAlert(chatID, fanID string)
}

type Deduper struct {
	cache *freecache.Cache
	ttl   int
}

func NewDeduper(conf *structures.Config) DedupCacheInterface {
	return &Deduper{
		cache: freecache.NewCache(cacheSizeBytes),
		ttl:   max(int(conf.Reports.AlertMuteWindow.Seconds()), 1),
	}
}

// unsafeStringToBytes converts string to []byte without allocation.
// Safe when the result is only read (not modified), which is the case
// for freecache, which copies keys internally.
func unsafeStringToBytes(s string) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice(unsafe.StringData(s), len(s))
}

func dedupKey(chatID, fanID string) string {
	return chatID + ":" + fanID
}

// ShouldAlert reports whether the (chat, fan) pair is outside its mute
// window. It does not start a window; only RecordAlert does, so a poll that
// sees a whale but does not alert leaves the timer untouched.
func (d *Deduper) ShouldAlert(chatID, fanID string) bool {
	_, err := d.cache.Get(unsafeStringToBytes(dedupKey(chatID, fanID)))
	return err != nil
}

// RecordAlert opens (or refreshes) the mute window for the pair.
func (d *Deduper) RecordAlert(chatID, fanID string) {
	_ = d.cache.Set(unsafeStringToBytes(dedupKey(chatID, fanID)), nil, d.ttl)
}
