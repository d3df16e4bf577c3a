// Package ventilation drives the equipment from the stored programs: on each
// tick it resolves the running program and publishes a command when the
// desired state changes.
package ventilation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/boreas/internal/model"
	"github.com/Nixie-Tech-LLC/boreas/internal/schedule"
)

// ProgramSource lists the stored program rows.
type ProgramSource interface {
	ListProgramRows(ctx context.Context) ([]model.ProgramRow, error)
}

type Config struct {
	Action      string
	TopicPrefix string
	Interval    time.Duration
	Location    *time.Location
}

// Command is the JSON payload published on every state change.
type Command struct {
	Action    string     `json:"action"`
	On        bool       `json:"on"`
	ProgramID string     `json:"program_id,omitempty"`
	Name      string     `json:"name,omitempty"`
	Until     *time.Time `json:"until,omitempty"`
	IssuedAt  time.Time  `json:"issued_at"`
}

type Dispatcher struct {
	cfg      Config
	programs ProgramSource
	pub      Publisher
	states   StateStore
	resolver schedule.Resolver
	now      func() time.Time
}

func NewDispatcher(cfg Config, programs ProgramSource, pub Publisher, states StateStore) *Dispatcher {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &Dispatcher{
		cfg:      cfg,
		programs: programs,
		pub:      pub,
		states:   states,
		resolver: schedule.Resolver{Location: cfg.Location},
		now:      time.Now,
	}
}

func (d *Dispatcher) Action() string { return d.cfg.Action }

// Topic is where commands for the configured action are published.
func (d *Dispatcher) Topic() string {
	return fmt.Sprintf("%s/%s/set", d.cfg.TopicPrefix, d.cfg.Action)
}

// Run ticks until ctx is cancelled. Failed ticks are logged and retried on the next one.
func (d *Dispatcher) Run(ctx context.Context) error {
	log.Info().
		Str("action", d.cfg.Action).
		Str("topic", d.Topic()).
		Dur("interval", d.cfg.Interval).
		Msg("ventilation dispatcher started")

	ticker := time.NewTicker(d.cfg.Interval)
	defer ticker.Stop()

	for {
		if _, err := d.Tick(ctx); err != nil && ctx.Err() == nil {
			log.Error().Err(err).Str("action", d.cfg.Action).Msg("ventilation tick failed")
		}
		select {
		case <-ctx.Done():
			log.Info().Str("action", d.cfg.Action).Msg("ventilation dispatcher stopped")
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Tick resolves the desired state and publishes it if it differs from the last one sent.
func (d *Dispatcher) Tick(ctx context.Context) (State, error) {
	now := d.now()

	rows, err := d.programs.ListProgramRows(ctx)
	if err != nil {
		return State{}, fmt.Errorf("list programs: %w", err)
	}

	var candidates []schedule.Program
	for _, p := range schedule.Group(rows) {
		if p.Common().Action == d.cfg.Action {
			candidates = append(candidates, p)
		}
	}

	desired := State{}
	cmd := Command{Action: d.cfg.Action, IssuedAt: now}
	if active, ok := d.resolver.Resolve(candidates, now); ok {
		desired = State{On: true, ProgramID: active.Program.ID(), Until: active.End}
		until := active.End
		cmd.On = true
		cmd.ProgramID = desired.ProgramID
		cmd.Name = active.Program.Common().Name
		cmd.Until = &until
	}

	last, known, err := d.states.Load(ctx, d.cfg.Action)
	if err != nil {
		return State{}, fmt.Errorf("load state: %w", err)
	}
	if known && last.Same(desired) {
		return last, nil
	}

	payload, err := json.Marshal(cmd)
	if err != nil {
		return State{}, fmt.Errorf("encode command: %w", err)
	}
	if err := d.pub.Publish(ctx, d.Topic(), payload); err != nil {
		return last, fmt.Errorf("publish: %w", err)
	}

	desired.UpdatedAt = now
	if err := d.states.Save(ctx, d.cfg.Action, desired); err != nil {
		return desired, fmt.Errorf("save state: %w", err)
	}
	log.Info().
		Str("action", d.cfg.Action).
		Bool("on", desired.On).
		Str("program", desired.ProgramID).
		Msg("ventilation state changed")
	return desired, nil
}

// Status returns the last state sent, if any.
func (d *Dispatcher) Status(ctx context.Context) (State, bool, error) {
	return d.states.Load(ctx, d.cfg.Action)
}
