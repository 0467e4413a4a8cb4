package main

import (
	"fmt"
	"os"
	"time"

	"taskmaster/internal/auth"
	"taskmaster/internal/config"
	"taskmaster/internal/reminder"
	"taskmaster/internal/storage"
	"taskmaster/internal/task"
	"taskmaster/internal/ui"
)

func main() {
	cfg, err := config.LoadOrCreate(config.DefaultConfigFileName)
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	kv, err := storage.Open(cfg.DBPath)
	if err != nil {
		fmt.Printf("failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer kv.Close()

	registry, err := auth.OpenRegistry(kv)
	if err != nil {
		fmt.Printf("failed to load users: %v\n", err)
		os.Exit(1)
	}

	session, err := auth.LoadSession(kv)
	if err != nil {
		fmt.Printf("failed to load session: %v\n", err)
		os.Exit(1)
	}

	store, err := task.OpenStore(kv)
	if err != nil {
		fmt.Printf("failed to load tasks: %v\n", err)
		os.Exit(1)
	}

	sched := reminder.New(store,
		time.Duration(cfg.ReminderIntervalS)*time.Second,
		time.Duration(cfg.ReminderWindowM)*time.Minute)

	if err := ui.Run(kv, cfg, registry, session, store, sched); err != nil {
		fmt.Printf("error running program: %v\n", err)
		os.Exit(1)
	}
}
