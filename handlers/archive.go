package handlers

import (
	"context"
	"time"

	"ardu.app/feed/database"
	"ardu.app/feed/log"
)

// ArchiveExpiredPosts moves posts older than after into the archive.
func ArchiveExpiredPosts(ctx context.Context, store database.Store, after time.Duration) (int, error) {
	nowUTC := time.Now().UTC()
	cutoff := nowUTC.Add(-after)
	log.Info.Printf("[Archive] Job started at %v UTC, cutoff %v", nowUTC, cutoff)

	n, err := store.ArchiveExpired(ctx, cutoff)
	if err != nil {
		log.Error.Printf("[Archive] Failed to archive posts: %v", err)
		return 0, err
	}

	log.Info.Printf("[Archive] Archived %d expired posts", n)
	return n, nil
}
