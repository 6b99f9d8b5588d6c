package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ayushgw/graphql-basics/internal/engine"
	"github.com/ayushgw/graphql-basics/internal/events"
	"github.com/ayushgw/graphql-basics/internal/model"
	"github.com/ayushgw/graphql-basics/internal/pubsub"
	"github.com/ayushgw/graphql-basics/internal/seed"
	"github.com/ayushgw/graphql-basics/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Seed  string   // fixture path; overrides the config file's seed
	Posts []string // post ids or fixture refs whose comments to stream
	Count bool     // also open a count subscription
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start the data layer and stream its events",
		Long: `Open an in-memory store, load the seed fixture if one is configured,
and print lifecycle events as canonical JSON lines until interrupted.

Post events are always streamed. --post adds the comment topic of a post
(by id or fixture ref) and --count adds a count subscription.

Examples:
  graphstore run --seed ./fixtures/demo.yaml
  graphstore run --seed ./fixtures/demo.yaml --post flash --count
  graphstore run --config ./graphstore.cue --verbose`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Seed, "seed", "", "YAML fixture to load at startup")
	cmd.Flags().StringArrayVar(&opts.Posts, "post", nil, "stream comments of this post (repeatable)")
	cmd.Flags().BoolVar(&opts.Count, "count", false, "open a count subscription")

	return cmd
}

func runServer(opts *RunOptions, cmd *cobra.Command) error {
	f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}

	cfg, err := opts.LoadConfig()
	if err != nil {
		return f.Error(err)
	}

	// Use command's context if available (for testing), otherwise create one
	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, stop := signal.NotifyContext(parentCtx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, cfg.StoreOptions()...)
	if err != nil {
		return f.Error(WrapExitError(ExitCommandError, "failed to open store", err))
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing store", "error", closeErr)
		}
	}()

	broker := pubsub.New(cfg.BrokerOptions()...)
	defer broker.Close()

	eng := engine.New(st, broker, cfg.EngineOptions()...)

	// Post subscription first, so seeded posts are streamed too.
	postSub, err := eng.SubscribePosts(ctx)
	if err != nil {
		return f.Error(WrapExitError(ExitCommandError, "failed to subscribe to posts", err))
	}
	subs := []*pubsub.Subscription{postSub}

	refs := seed.Refs{}
	seedPath := opts.Seed
	if seedPath == "" {
		seedPath = cfg.Seed
	}
	if seedPath != "" {
		fixture, err := seed.Load(seedPath)
		if err != nil {
			return f.Error(WrapExitError(ExitCommandError, "failed to load seed", err))
		}
		if refs, err = seed.Apply(ctx, eng, fixture); err != nil {
			return f.Error(WrapExitError(ExitFailure, "failed to apply seed", err))
		}
	}

	for _, post := range opts.Posts {
		id := post
		if resolved, ok := refs[post]; ok {
			id = resolved
		}
		sub, err := eng.SubscribeComments(ctx, id)
		if err != nil {
			return f.Error(WrapExitError(ExitFailure, fmt.Sprintf("cannot stream comments of %s", post), err))
		}
		subs = append(subs, sub)
	}

	if opts.Count {
		sub, err := eng.SubscribeCount(ctx)
		if err != nil {
			return f.Error(WrapExitError(ExitCommandError, "failed to open count subscription", err))
		}
		subs = append(subs, sub)
	}

	slog.Info("data layer ready", "subscriptions", len(subs), "seed", seedPath)
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Listening for events. Press Ctrl-C to stop.")

	stream := make(chan events.Event)
	var wg sync.WaitGroup
	for _, sub := range subs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ev := range sub.All(ctx) {
				select {
				case stream <- ev:
				case <-ctx.Done():
					return
				}
			}
		}()
	}
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			for _, sub := range subs {
				if n := sub.Dropped(); n > 0 {
					slog.Warn("subscriber fell behind", "topic", sub.Topic(), "dropped", n)
				}
			}
			slog.Info("shutting down", "reason", context.Cause(ctx))
			return nil
		case ev := <-stream:
			line, err := model.MarshalCanonical(ev)
			if err != nil {
				slog.Warn("unprintable event", "topic", ev.Topic, "error", err)
				continue
			}
			fmt.Fprintln(out, string(line))
		}
	}
}
