// Command reminderd runs the background reminder engine: it scans for due
// task reminders on a fixed interval and delivers them in-app, by email, and
// over Telegram.
//
// Usage:
//
//	./reminderd [config.yaml]   # Start the engine
//	./reminderd --help          # Show help
//
// Environment:
//
//	NOTETRACKER_DATABASE_PATH  Path to SQLite database (default: ~/.notetracker/notetracker.db)
//	TELEGRAM_TOKEN             Telegram bot token (chat channel off when empty)
//	SMTP_PASSWORD              SMTP password (email channel off when empty)
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ntrack/notetracker/internal/config"
	"github.com/ntrack/notetracker/internal/engine"
	"github.com/ntrack/notetracker/internal/notify"
	"github.com/ntrack/notetracker/internal/store"
)

func main() {
	configPath := config.GetDefaultConfigPath()
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--help", "-h":
			printHelp()
			return
		default:
			configPath = os.Args[1]
		}
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
		os.Exit(1)
	}

	st, err := store.New(cfg.Database.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	inApp := notify.NewInApp(st, cfg.App.Name, "reminder")
	email := notify.NewEmail(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Sender, cfg.SMTP.Password)
	telegram := notify.NewTelegram(cfg.Telegram.BotToken)

	dispatcher := engine.NewDispatcher(st, inApp, email, telegram)
	eng := engine.New(st, dispatcher, time.Duration(cfg.Scheduler.Interval)*time.Second)

	if !cfg.Scheduler.Enabled {
		fmt.Fprintln(os.Stderr, "Scheduler is disabled in config, nothing to do")
		os.Exit(1)
	}

	eng.Start()
	defer eng.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
}

func printHelp() {
	fmt.Println(`reminderd - task reminder delivery daemon

USAGE:
    reminderd [config.yaml]   Start the reminder engine
    reminderd --help          Show this help

The engine scans undelivered task reminders every scheduler.interval seconds,
evaluates the three reminder policies (on-due-date, days-before,
specific-time), and delivers due reminders in-app, by email, and over
Telegram. A reminder is marked delivered after one dispatch attempt.

CONFIGURATION (~/.notetracker/config.yaml):
    app.name            App name stamped on in-app notifications
    database.path       SQLite database path
    scheduler.enabled   Enable the recurring scan
    scheduler.interval  Seconds between scans (default 60)
    smtp.*              Mail relay (host, port, sender, password)
    telegram.bot_token  Telegram bot token

Settings can be overridden with NOTETRACKER_-prefixed environment variables,
e.g. NOTETRACKER_DATABASE_PATH.`)
}
