package taxonomy

import "time"

// TagsCache caches the global tag list, which is read by every member opening
// the self-tagging picker and changes only through admin CRUD.
type TagsCache interface {
	Get() ([]Tag, bool)
	Set(tags []Tag, ttl time.Duration)
	Invalidate()
}

type noopTagsCache struct{}

func (noopTagsCache) Get() ([]Tag, bool)       { return nil, false }
func (noopTagsCache) Set([]Tag, time.Duration) {}
func (noopTagsCache) Invalidate()              {}
