package seeder

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"helperhub/internal/database"
)

// Seeder inserts demo data. Implementations must be safe to run twice.
type Seeder interface {
	Name() string
	Run(ctx context.Context, db database.DB) error
}

type Runner struct {
	Seeders []Seeder
	// Only restricts the run to the named seeders. Empty runs all of them.
	Only   []string
	Logger *log.Logger
}

func (r Runner) Run(ctx context.Context, db database.DB) error {
	if db == nil {
		return database.ErrNilDB
	}

	selected, err := r.selected()
	if err != nil {
		return err
	}

	for _, s := range selected {
		start := time.Now()
		if err := s.Run(ctx, db); err != nil {
			return fmt.Errorf("seed %s: %w", s.Name(), err)
		}
		r.logf("[Seeder] done name=%s took=%s", s.Name(), time.Since(start).Round(time.Millisecond))
	}
	return nil
}

func (r Runner) selected() ([]Seeder, error) {
	want := make(map[string]bool, len(r.Only))
	for _, name := range r.Only {
		if name = strings.TrimSpace(name); name != "" {
			want[name] = false
		}
	}

	out := make([]Seeder, 0, len(r.Seeders))
	for _, s := range r.Seeders {
		if s == nil {
			continue
		}
		if len(want) > 0 {
			if _, ok := want[s.Name()]; !ok {
				continue
			}
			want[s.Name()] = true
		}
		out = append(out, s)
	}

	var unknown []string
	for name, found := range want {
		if !found {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		return nil, fmt.Errorf("unknown seeders: %s", strings.Join(unknown, ", "))
	}
	return out, nil
}

func (r Runner) logf(format string, args ...any) {
	if r.Logger != nil {
		r.Logger.Printf(format, args...)
	}
}
