// Command scrapbook is a terminal front end for the archive: add and list
// memories, manage albums, inspect time capsules and achievements, import
// Markdown journals.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/calyptra/scrapbook/internal/archive"
	"github.com/calyptra/scrapbook/internal/config"
	"github.com/calyptra/scrapbook/internal/importer"
	"github.com/calyptra/scrapbook/internal/notify"
	"github.com/calyptra/scrapbook/internal/storage"
	"github.com/calyptra/scrapbook/internal/storage/postgres"
	"github.com/calyptra/scrapbook/internal/storage/sqlite"
	"github.com/calyptra/scrapbook/pkg/types"
)

const usage = `Usage: scrapbook <command> [flags]

Commands:
  add           Add a memory
  list          List memories
  delete        Delete a memory by id
  like          Toggle the liked flag on a memory
  albums        List albums
  capsules      Show the time-capsule timeline
  achievements  Show achievement progress
  stats         Show archive statistics
  import        Import Markdown journal entries
  serve         Keep the archive open, reloading on external file changes
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()
	store, adapter, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open archive: %v", err)
	}
	defer adapter.Close()

	switch os.Args[1] {
	case "add":
		cmdAdd(ctx, store, os.Args[2:])
	case "list":
		cmdList(store)
	case "delete":
		cmdDelete(ctx, store, os.Args[2:])
	case "like":
		cmdLike(ctx, store, os.Args[2:])
	case "albums":
		cmdAlbums(store)
	case "capsules":
		cmdCapsules(store)
	case "achievements":
		cmdAchievements(ctx, store)
	case "stats":
		cmdStats(store)
	case "import":
		cmdImport(ctx, store, os.Args[2:])
	case "serve":
		cmdServe(ctx, store, cfg)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", os.Args[1], usage)
		os.Exit(2)
	}
}

// openStore wires the configured adapter into a loaded store.
func openStore(ctx context.Context, cfg *config.Config) (*archive.Store, storage.Adapter, error) {
	var adapter storage.Adapter
	var err error

	switch cfg.Storage.Engine {
	case "postgres":
		adapter, err = postgres.New(cfg.Storage.PostgresDSN)
	default:
		if mkErr := os.MkdirAll(cfg.Storage.DataPath, 0o700); mkErr != nil {
			return nil, nil, mkErr
		}
		adapter, err = sqlite.New(cfg.ArchivePath())
	}
	if err != nil {
		return nil, nil, err
	}

	store := archive.NewStore(adapter)
	if err := store.Load(ctx); err != nil {
		adapter.Close()
		return nil, nil, err
	}
	return store, adapter, nil
}

func cmdAdd(ctx context.Context, store *archive.Store, args []string) {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	title := fs.String("title", "", "Memory title (required)")
	description := fs.String("description", "", "Longer description")
	location := fs.String("location", "", "Place name")
	date := fs.String("date", "", "Date of the moment, YYYY-MM-DD (default: today)")
	tags := fs.String("tags", "", "Comma-separated tags")
	memType := fs.String("type", "text", "Memory type: photo, video, audio or text")
	content := fs.String("content", "", "Text body (text memories)")
	mediaURL := fs.String("media", "", "Media reference (photo/video/audio memories)")
	mood := fs.String("mood", "", "Mood tag")
	unlock := fs.String("unlock", "", "Seal as a time capsule until this date, YYYY-MM-DD")
	fs.Parse(args)

	draft := types.MemoryDraft{
		Title:       *title,
		Description: *description,
		Location:    *location,
		Date:        time.Now(),
		Tags:        splitTags(*tags),
		Type:        types.MemoryType(*memType),
		Content:     *content,
		MediaURL:    *mediaURL,
		Mood:        types.Mood(*mood),
	}

	if *date != "" {
		d, err := time.Parse("2006-01-02", *date)
		if err != nil {
			log.Fatalf("Invalid -date: %v", err)
		}
		draft.Date = d
	}
	if *unlock != "" {
		u, err := time.Parse("2006-01-02", *unlock)
		if err != nil {
			log.Fatalf("Invalid -unlock: %v", err)
		}
		draft.IsTimeCapsule = true
		draft.UnlockDate = &u
	}

	id, err := store.CreateMemory(ctx, draft)
	if err != nil {
		log.Fatalf("Failed to add memory: %v", err)
	}
	fmt.Println(id)
}

func cmdList(store *archive.Store) {
	for _, m := range store.Memories() {
		line := fmt.Sprintf("%s  %s  [%s]  %s", m.ID, m.Date.Format("2006-01-02"), m.Type, m.Title)
		if m.IsLiked {
			line += "  ♥"
		}
		if m.IsTimeCapsule {
			line += fmt.Sprintf("  (capsule, unlocks %s)", m.UnlockDate.Format("2006-01-02"))
		}
		fmt.Println(line)
	}
}

func cmdDelete(ctx context.Context, store *archive.Store, args []string) {
	if len(args) != 1 {
		log.Fatal("Usage: scrapbook delete <memory-id>")
	}
	if err := store.DeleteMemory(ctx, args[0]); err != nil {
		log.Fatalf("Failed to delete memory: %v", err)
	}
}

func cmdLike(ctx context.Context, store *archive.Store, args []string) {
	if len(args) != 1 {
		log.Fatal("Usage: scrapbook like <memory-id>")
	}
	if err := store.ToggleLike(ctx, args[0]); err != nil {
		log.Fatalf("Failed to toggle like: %v", err)
	}
}

func cmdAlbums(store *archive.Store) {
	for _, a := range store.Albums() {
		fmt.Printf("%s  %s  (%d memories)\n", a.ID, a.Title, len(a.MemoryIDs))
	}
}

func cmdCapsules(store *archive.Store) {
	for _, e := range store.CapsuleTimeline() {
		state := "unlocked"
		if e.IsLocked {
			state = "locked"
		}
		fmt.Printf("%s  %s  %s  %3d%%  unlocks %s\n",
			e.Memory.ID, e.Memory.Title, state, e.ProgressPercent,
			e.Memory.UnlockDate.Format("2006-01-02"))
	}
}

func cmdAchievements(ctx context.Context, store *archive.Store) {
	evals, err := store.Achievements(ctx)
	if err != nil {
		log.Fatalf("Failed to evaluate achievements: %v", err)
	}
	for _, ev := range evals {
		mark := " "
		when := ""
		if ev.IsUnlocked {
			mark = "✓"
			when = "  " + ev.UnlockedAt.Format("2006-01-02")
		}
		fmt.Printf("[%s] %-22s %3d/%-3d %-9s%s\n",
			mark, ev.Definition.Name, ev.Progress, ev.Definition.Requirement,
			ev.Definition.Rarity, when)
	}
}

func cmdStats(store *archive.Store) {
	s := store.Stats()
	fmt.Printf("Memories:         %d (photo %d, video %d, audio %d, text %d)\n",
		s.TotalMemories, s.PhotoCount, s.VideoCount, s.AudioCount, s.TextCount)
	fmt.Printf("Albums:           %d\n", s.AlbumCount)
	fmt.Printf("Unique locations: %d\n", s.UniqueLocations)
	fmt.Printf("Unique tags:      %d\n", s.UniqueTags)
	fmt.Printf("Liked:            %d\n", s.LikedCount)
	fmt.Printf("Filtered:         %d\n", s.FilteredCount)
	fmt.Printf("Collages:         %d\n", s.CollageCount)
	fmt.Printf("Time capsules:    %d\n", s.CapsuleCount)
	fmt.Printf("Streak:           %d (longest %d)\n", s.CurrentStreak, s.LongestStreak)
}

func cmdImport(ctx context.Context, store *archive.Store, args []string) {
	if len(args) != 1 {
		log.Fatal("Usage: scrapbook import <directory>")
	}
	res, err := importer.ImportDirectory(ctx, store, args[0])
	if err != nil {
		log.Fatalf("Import failed: %v", err)
	}
	fmt.Printf("Imported %d entries, skipped %d\n", res.Imported, res.Skipped)
	for _, msg := range res.Errors {
		fmt.Printf("  skipped: %s\n", msg)
	}
}

func cmdServe(ctx context.Context, store *archive.Store, cfg *config.Config) {
	if cfg.Storage.Engine != "sqlite" {
		log.Fatal("serve only applies to the sqlite engine")
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	watcher := notify.NewArchiveWatcher(cfg.ArchivePath(), cfg.Watch.ReloadsPerMinute, func() {
		if err := store.Reload(context.Background()); err != nil {
			log.Printf("reload after external change failed: %v", err)
		} else {
			log.Printf("archive reloaded after external change")
		}
	})
	if err := watcher.Start(); err != nil {
		log.Fatalf("Failed to start watcher: %v", err)
	}
	defer watcher.Stop()

	log.Printf("watching %s, press Ctrl-C to exit", filepath.Dir(cfg.ArchivePath()))
	<-ctx.Done()
}

func splitTags(s string) []string {
	if s == "" {
		return nil
	}
	var tags []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
