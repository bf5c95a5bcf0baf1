package cache

import "time"

const (
	BlogKeyPrefix = "blog:"
	BlogListKey   = "blogs:list"
)

const (
	BlogTTL     = 10 * time.Minute
	BlogListTTL = time.Minute
)

func BlogKey(id string) string {
	return BlogKeyPrefix + id
}
