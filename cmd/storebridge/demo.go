package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spetersoncode/storebridge"
	"github.com/spetersoncode/storebridge/accessor"
	"github.com/spetersoncode/storebridge/event"
	"github.com/spetersoncode/storebridge/gateway"
	"github.com/spetersoncode/storebridge/model"
)

var (
	demoQuery   string
	demoLatency time.Duration
	demoTimeout time.Duration
)

// demoCmd runs a scripted session against the reference host
var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run a scripted session and print every stream transition",
	Long: `Starts the reference host, watches a set of selectors and drives the
host through the bridge: load filters, toggle one, sign in, search and
select a result. Each distinct value a watched selector emits is printed.`,
	Args: cobra.NoArgs,
	RunE: runDemo,
}

func init() {
	demoCmd.Flags().StringVarP(&demoQuery, "query", "q", "angular", "Search text")
	demoCmd.Flags().DurationVar(&demoLatency, "latency", 200*time.Millisecond, "Delay of every host effect")
	demoCmd.Flags().DurationVar(&demoTimeout, "timeout", 30*time.Second, "Overall demo timeout")
}

func runDemo(cmd *cobra.Command, args []string) error {
	parent, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	parent, cancelTimeout := context.WithTimeout(parent, demoTimeout)
	defer cancelTimeout()

	rt, err := startRuntime(parent, cfg, demoLatency)
	if err != nil {
		return err
	}
	defer rt.close(context.Background())

	ctx, finish := context.WithCancel(parent)
	defer finish()
	g, ctx := errgroup.WithContext(ctx)
	out := cmd.OutOrStdout()

	b := rt.bridge
	watch(ctx, g, out, b.Search.Status())
	watch(ctx, g, out, b.Search.Total())
	watch(ctx, g, out, b.Search.SelectedDocument())
	watch(ctx, g, out, b.User.UserGroup())
	watch(ctx, g, out, b.User.DisplayName())
	watch(ctx, g, out, b.Filter.ActiveFilterIDs())

	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case e := <-rt.events:
				if e.Type == event.CommandRejected {
					fmt.Fprintf(out, "rejected   %q: %v\n", e.Action.Type, e.Error)
				}
			}
		}
	})

	g.Go(func() error {
		defer finish()
		return script(ctx, rt)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	return parent.Err()
}

// watch prints every value sel emits until ctx is done.
func watch[T any](ctx context.Context, g *errgroup.Group, out io.Writer, sel *accessor.Selector[T]) {
	sub := sel.Stream().Subscribe()
	g.Go(func() error {
		defer sub.Unsubscribe()
		for {
			select {
			case <-ctx.Done():
				return nil
			case v, ok := <-sub.C():
				if !ok {
					return nil
				}
				fmt.Fprintf(out, "%-10s %s = %s\n", "stream", sel.Path(), show(v))
			}
		}
	})
}

func show(v any) string {
	switch x := v.(type) {
	case *model.Document:
		if x == nil {
			return "<none>"
		}
		return x.ID + " (" + x.Title + ")"
	default:
		return fmt.Sprintf("%v", x)
	}
}

// script drives the host through the bridge.
func script(ctx context.Context, rt *runtime) error {
	b := rt.bridge

	if err := settle(ctx, b.Filter.Status(), b.Filter.LoadFilters); err != nil {
		return err
	}
	b.Filter.SetFilterActive("pdf", true)

	if cfg.DemoToken == "" {
		token, err := rt.signDemoToken()
		if err != nil {
			return fmt.Errorf("sign demo token: %w", err)
		}
		// Identity flows belong to the host; the bridge cannot sign in.
		login := func() { rt.host.Login(token) }
		if err := settle(ctx, b.User.Status(), login); err != nil {
			return err
		}
	}

	search := func() { b.Search.LoadSearch(model.Query{Q: demoQuery, Scope: model.ScopeEverything}) }
	if err := settle(ctx, b.Search.Status(), search); err != nil {
		return err
	}

	docs, err := b.Search.AllDocuments().Snapshot(ctx)
	if err != nil {
		return err
	}
	if len(docs) > 0 {
		b.Search.SelectDocument(docs[0].ID)
	}

	if err := b.Dispatch(gateway.Descriptor{}); err != nil {
		rt.logger.Debug("zero descriptor refused", zap.Error(err))
	}

	// Let the watchers print the last transitions.
	select {
	case <-ctx.Done():
	case <-time.After(100 * time.Millisecond):
	}
	return nil
}

// settle runs start and waits until sel reports a finished operation.
func settle(ctx context.Context, sel *accessor.Selector[storebridge.LoadingStatus], start func()) error {
	sub := sel.Stream().Subscribe()
	defer sub.Unsubscribe()

	// The first value is the one current before start.
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-sub.C():
	}

	start()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case s := <-sub.C():
			if s.Settled() {
				return nil
			}
		}
	}
}
