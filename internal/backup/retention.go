package backup

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// tier buckets a backup by age.
type tier int

const (
	tierHourly tier = iota
	tierDaily
	tierWeekly
	tierMonthly
	tierExpired
)

func tierFor(age time.Duration) tier {
	switch {
	case age < 24*time.Hour:
		return tierHourly
	case age < 7*24*time.Hour:
		return tierDaily
	case age < 30*24*time.Hour:
		return tierWeekly
	case age < 365*24*time.Hour:
		return tierMonthly
	default:
		return tierExpired
	}
}

func (p RetentionPolicy) keep(t tier) int {
	switch t {
	case tierHourly:
		return p.Hourly
	case tierDaily:
		return p.Daily
	case tierWeekly:
		return p.Weekly
	case tierMonthly:
		return p.Monthly
	default:
		return 0
	}
}

// List returns the backups on disk, newest first.
func (s *Service) List() ([]Info, error) {
	entries, err := os.ReadDir(s.cfg.Dir)
	if err != nil {
		return nil, fmt.Errorf("backup: failed to read backup directory: %w", err)
	}

	var backups []Info
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".db") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		backups = append(backups, Info{
			Path:      filepath.Join(s.cfg.Dir, entry.Name()),
			Timestamp: info.ModTime(),
			Size:      info.Size(),
		})
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].Timestamp.After(backups[j].Timestamp)
	})
	return backups, nil
}

// applyRetention prunes backups beyond each tier's quota. Within a tier the
// newest backups survive.
func (s *Service) applyRetention() error {
	backups, err := s.List()
	if err != nil {
		return err
	}

	now := time.Now()
	counts := make(map[tier]int)
	var lastErr error

	// backups are newest-first, so the first N seen per tier are the
	// N newest and everything after them is pruned.
	for _, b := range backups {
		t := tierFor(now.Sub(b.Timestamp))
		counts[t]++
		if counts[t] <= s.cfg.Retention.keep(t) {
			continue
		}
		if err := os.Remove(b.Path); err != nil {
			lastErr = err
		}
	}

	if lastErr != nil {
		return fmt.Errorf("backup: failed to prune old backups: %w", lastErr)
	}
	return nil
}
