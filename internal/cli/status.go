package cli

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/runnerr0/milestones/internal/app"
	"github.com/runnerr0/milestones/internal/config"
	"github.com/runnerr0/milestones/internal/storage"
)

// statusJSON is the JSON output structure for the status command.
type statusJSON struct {
	Version        string              `json:"version"`
	Backend        string              `json:"backend"`
	Location       string              `json:"location"`
	DatabaseBytes  int64               `json:"database_size_bytes,omitempty"`
	StoredBytes    int64               `json:"stored_bytes,omitempty"`
	Writes         int64               `json:"writes,omitempty"`
	LastWrite      string              `json:"last_write,omitempty"`
	TotalMilestone int                 `json:"total_milestones"`
	Timelines      []timelineCountJSON `json:"timelines"`
	DateOrder      bool                `json:"enforce_date_order"`
	ServerAddr     string              `json:"server_addr"`
	ServerRunning  bool                `json:"server_running"`
	PersistError   string              `json:"persist_error,omitempty"`
}

type timelineCountJSON struct {
	Timeline string `json:"timeline"`
	Count    int    `json:"count"`
}

// Execute implements the go-flags Commander interface for StatusCommand.
func (c *StatusCommand) Execute(args []string) error {
	ctx := context.Background()

	e, err := openEnv(ctx, c.globals)
	if err != nil {
		return err
	}
	defer e.Close()

	return c.executeWith(ctx, e.cfg, e.store.KV(), e.session)
}

// executeWith runs status against provided dependencies (for testing).
func (c *StatusCommand) executeWith(ctx context.Context, cfg *config.Config, kv storage.KV, s *app.Session) error {
	sum := s.Summary()

	out := statusJSON{
		Version:        c.version,
		Backend:        cfg.Storage.Backend,
		Location:       storageLocation(cfg.Storage),
		TotalMilestone: sum.Total,
		Timelines:      make([]timelineCountJSON, len(sum.Timelines)),
		DateOrder:      cfg.Validation.EnforceDateOrder,
		ServerAddr:     net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
	}
	for i, v := range sum.Timelines {
		out.Timelines[i] = timelineCountJSON{Timeline: v.Key, Count: v.Count}
	}
	if sum.PersistErr != nil {
		out.PersistError = sum.PersistErr.Error()
	}

	if sqlite, ok := kv.(*storage.SQLiteStore); ok {
		stats, err := sqlite.GetStats(ctx)
		if err != nil {
			return fmt.Errorf("get stats: %w", err)
		}
		out.StoredBytes = stats.ValueBytes
		out.Writes = stats.Writes
		if !stats.LastWrite.IsZero() {
			out.LastWrite = stats.LastWrite.UTC().Format(time.RFC3339)
		}
		if info, err := os.Stat(out.Location); err == nil {
			out.DatabaseBytes = info.Size()
		}
	}

	out.ServerRunning = checkServer(out.ServerAddr)

	if c.globals != nil && c.globals.JSON {
		return writeJSON(out)
	}
	return c.printStatusHuman(out)
}

func (c *StatusCommand) printStatusHuman(out statusJSON) error {
	fmt.Println("Milestones Status")
	fmt.Println("=================")
	fmt.Printf("Version:       %s\n", out.Version)
	if out.DatabaseBytes > 0 {
		fmt.Printf("Storage:       %s %s (%s)\n", out.Backend, out.Location, formatBytes(out.DatabaseBytes))
	} else {
		fmt.Printf("Storage:       %s %s\n", out.Backend, out.Location)
	}
	if out.Writes > 0 {
		fmt.Printf("Writes:        %s (last %s)\n", formatNumber(out.Writes), out.LastWrite)
	}
	fmt.Printf("Milestones:    %s\n", formatNumber(int64(out.TotalMilestone)))
	if out.DateOrder {
		fmt.Println("Date order:    enforced")
	} else {
		fmt.Println("Date order:    not enforced")
	}

	if len(out.Timelines) > 0 {
		fmt.Println()
		fmt.Println("Timelines:")
		for _, t := range out.Timelines {
			fmt.Printf("  %-20s %s\n", t.Timeline, formatNumber(int64(t.Count)))
		}
	}

	fmt.Println()
	if out.ServerRunning {
		fmt.Printf("Server:        running on %s\n", out.ServerAddr)
	} else {
		fmt.Printf("Server:        not running (%s)\n", out.ServerAddr)
	}
	if out.PersistError != "" {
		fmt.Printf("Last save:     FAILED: %s\n", out.PersistError)
	}

	return nil
}

// storageLocation describes where the backend keeps its data, without
// credentials.
func storageLocation(cfg config.StorageConfig) string {
	switch cfg.Backend {
	case config.BackendRedis:
		return redactURL(cfg.RedisURL) + " key " + cfg.RedisPrefix + cfg.Key
	case config.BackendPostgres:
		return redactURL(cfg.PostgresURL) + " key " + cfg.Key
	default:
		path, err := cfg.SQLitePath()
		if err != nil {
			return cfg.SQLiteFile
		}
		return path
	}
}

func redactURL(raw string) string {
	at := strings.LastIndex(raw, "@")
	scheme := strings.Index(raw, "://")
	if at < 0 || scheme < 0 || at < scheme {
		return raw
	}
	return raw[:scheme+3] + "***" + raw[at:]
}

// checkServer attempts an HTTP GET to the health endpoint.
// Returns true if the server responds within 1 second.
func checkServer(addr string) bool {
	client := &http.Client{Timeout: 1 * time.Second}
	resp, err := client.Get("http://" + addr + "/healthz")
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// formatBytes formats a byte count into a human-readable string.
func formatBytes(b int64) string {
	switch {
	case b >= 1<<30:
		return fmt.Sprintf("%.1f GB", float64(b)/float64(1<<30))
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/float64(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/float64(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

// formatNumber formats an int64 with comma separators.
func formatNumber(n int64) string {
	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if i > 0 {
			result.WriteString(",")
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}
