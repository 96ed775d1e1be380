package fetch

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	snapshotPrefix = "catalog_"
	snapshotExt    = ".txt"
)

// Cache keeps timestamped snapshots of fetched catalog text on disk, keyed
// by debris group, so a restart can serve the last known catalog while
// upstream is unreachable.
type Cache struct {
	dir      string
	maxFiles int
}

// NewCache creates a cache rooted at dir keeping at most maxFiles snapshots
// per group.
func NewCache(dir string, maxFiles int) *Cache {
	if maxFiles <= 0 {
		maxFiles = 5
	}
	return &Cache{dir: dir, maxFiles: maxFiles}
}

// snapshot is one cached file, decoded from its name.
type snapshot struct {
	name  string
	group string
	ts    time.Time
}

// fileName encodes group and fetch time: catalog_<group>_<unix>.txt.
func fileName(group string, ts time.Time) string {
	return fmt.Sprintf("%s%s_%d%s", snapshotPrefix, group, ts.Unix(), snapshotExt)
}

// parseFileName decodes a snapshot name, reporting false for foreign files.
func parseFileName(name string) (snapshot, bool) {
	if !strings.HasPrefix(name, snapshotPrefix) || !strings.HasSuffix(name, snapshotExt) {
		return snapshot{}, false
	}
	core := strings.TrimSuffix(strings.TrimPrefix(name, snapshotPrefix), snapshotExt)
	group, tsStr, ok := strings.Cut(core, "_")
	if !ok || group == "" {
		return snapshot{}, false
	}
	unix, err := strconv.ParseInt(tsStr, 10, 64)
	if err != nil {
		return snapshot{}, false
	}
	return snapshot{name: name, group: group, ts: time.Unix(unix, 0)}, true
}

// Write stores a snapshot for the group and prunes that group's older
// snapshots past the per-group limit.
func (c *Cache) Write(group string, data []byte, ts time.Time) error {
	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return fmt.Errorf("creating cache dir: %w", err)
	}
	path := filepath.Join(c.dir, fileName(group, ts))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing catalog snapshot: %w", err)
	}
	return c.prune(group)
}

// LoadLatest returns the newest snapshot for the group with its fetch time.
func (c *Cache) LoadLatest(group string) ([]byte, time.Time, error) {
	snaps, err := c.list(group)
	if err != nil {
		return nil, time.Time{}, err
	}
	if len(snaps) == 0 {
		return nil, time.Time{}, fmt.Errorf("no cached catalog for group %q", group)
	}

	newest := snaps[len(snaps)-1]
	data, err := os.ReadFile(filepath.Join(c.dir, newest.name))
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("reading catalog snapshot: %w", err)
	}
	return data, newest.ts, nil
}

// Newest returns the fetch time of the most recent snapshot across all
// groups, or false when the cache is empty.
func (c *Cache) Newest() (time.Time, bool) {
	snaps, err := c.list("")
	if err != nil || len(snaps) == 0 {
		return time.Time{}, false
	}
	return snaps[len(snaps)-1].ts, true
}

// list returns snapshots sorted oldest first. Empty group matches all.
func (c *Cache) list(group string) ([]snapshot, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing cache dir: %w", err)
	}

	var snaps []snapshot
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		s, ok := parseFileName(e.Name())
		if !ok {
			continue
		}
		if group != "" && s.group != group {
			continue
		}
		snaps = append(snaps, s)
	}

	sort.Slice(snaps, func(i, j int) bool { return snaps[i].ts.Before(snaps[j].ts) })
	return snaps, nil
}

// prune drops the group's oldest snapshots beyond maxFiles.
func (c *Cache) prune(group string) error {
	snaps, err := c.list(group)
	if err != nil {
		return err
	}
	for _, s := range snaps[:max(0, len(snaps)-c.maxFiles)] {
		if err := os.Remove(filepath.Join(c.dir, s.name)); err != nil {
			return fmt.Errorf("pruning catalog snapshot %s: %w", s.name, err)
		}
	}
	return nil
}
