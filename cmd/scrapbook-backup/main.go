// Command scrapbook-backup runs the archive backup service: periodic
// point-in-time copies of the SQLite archive with tiered retention, plus
// oneshot, list and restore modes.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/calyptra/scrapbook/internal/backup"
	"github.com/calyptra/scrapbook/internal/config"
)

var (
	archivePath = flag.String("archive", "", "Path to archive file (overrides config)")
	backupDir   = flag.String("backup-dir", "", "Backup directory (overrides config)")
	interval    = flag.Duration("interval", 0, "Backup interval (overrides config)")
	verify      = flag.Bool("verify", true, "Verify backups after creation")
	oneshot     = flag.Bool("oneshot", false, "Perform a single backup and exit")
	restore     = flag.String("restore", "", "Restore the archive from a backup file and exit")
	listCmd     = flag.Bool("list", false, "List available backups and exit")
)

func main() {
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	bcfg := backup.Config{
		ArchivePath: cfg.ArchivePath(),
		Dir:         cfg.Backup.Dir,
		Interval:    cfg.Backup.Interval,
		Verify:      *verify && cfg.Backup.Verify,
		Retention: backup.RetentionPolicy{
			Hourly:  cfg.Backup.Retention.Hourly,
			Daily:   cfg.Backup.Retention.Daily,
			Weekly:  cfg.Backup.Retention.Weekly,
			Monthly: cfg.Backup.Retention.Monthly,
		},
	}
	if *archivePath != "" {
		bcfg.ArchivePath = *archivePath
	}
	if *backupDir != "" {
		bcfg.Dir = *backupDir
	}
	if *interval > 0 {
		bcfg.Interval = *interval
	}

	service, err := backup.NewService(bcfg)
	if err != nil {
		log.Fatalf("Failed to create backup service: %v", err)
	}

	ctx := context.Background()

	switch {
	case *restore != "":
		if err := service.Restore(ctx, *restore); err != nil {
			log.Fatalf("Restore failed: %v", err)
		}
		log.Println("Archive restored")
	case *listCmd:
		handleList(service)
	case *oneshot:
		path, err := service.Create(ctx)
		if err != nil {
			log.Fatalf("Backup failed: %v", err)
		}
		fmt.Println(path)
	default:
		ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		if err := service.Run(ctx); err != nil && err != context.Canceled {
			log.Fatalf("Backup service stopped: %v", err)
		}
	}
}

func handleList(service *backup.Service) {
	backups, err := service.List()
	if err != nil {
		log.Fatalf("Failed to list backups: %v", err)
	}
	if len(backups) == 0 {
		fmt.Println("No backups found")
		os.Exit(0)
	}
	for _, b := range backups {
		fmt.Printf("%s  %s  %d bytes\n", b.Timestamp.Format(time.RFC3339), b.Path, b.Size)
	}
}
