//go:build !lambda

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/robertatkinson3570/gotchi-closet-sub001/internal/rank"
	"github.com/robertatkinson3570/gotchi-closet-sub001/internal/respec"
	"github.com/robertatkinson3570/gotchi-closet-sub001/internal/sets"
	"github.com/robertatkinson3570/gotchi-closet-sub001/internal/traits"
)

func main() {
	root, opts := newRootCmd()
	if err := execute(root, opts); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// execute runs root and then releases whatever the command opened. Cobra skips
// post-run hooks when RunE fails, so the cleanup lives here.
func execute(root *cobra.Command, opts *rootOptions) error {
	err := root.Execute()
	if opts.app != nil {
		err = errors.Join(err, opts.app.Close())
	}
	return err
}

// ── Root ────────────────────────────────────────────────────────────

type rootOptions struct {
	configPath string
	verbose    bool
	app        *app
}

func newRootCmd() (*cobra.Command, *rootOptions) {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "gotchi-closet",
		Short:         "Rank wearable sets and simulate respecs for Aavegotchis",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Annotations["standalone"] == "true" {
				return nil
			}
			a, err := newApp(opts.configPath, opts.verbose)
			if err != nil {
				return err
			}
			opts.app = a
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "path to a YAML config file")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newSetsCmd(opts),
		newBestSetsCmd(opts),
		newRespecCmd(opts),
		newBaseTraitsCmd(opts),
		newCatalogCmd(),
		newServeCmd(opts),
	)
	return root, opts
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// parseInts reads a comma separated list such as "50,50,50,50,50,50".
func parseInts(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q in list %q", p, s)
		}
		out = append(out, n)
	}
	return out, nil
}

func parseEditable(s string) (traits.Editable, error) {
	var e traits.Editable
	v, err := parseInts(s)
	if err != nil {
		return e, err
	}
	if len(v) > traits.NumEditable {
		return e, fmt.Errorf("want at most %d values, got %d", traits.NumEditable, len(v))
	}
	copy(e[:], v)
	return e, nil
}

// ── sets ────────────────────────────────────────────────────────────

func newSetsCmd(opts *rootOptions) *cobra.Command {
	var jsonOut bool
	cmd := &cobra.Command{
		Use:   "sets",
		Short: "List the wearable-set catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			all := opts.app.catalog.Sets()
			w := cmd.OutOrStdout()
			if jsonOut {
				return writeJSON(w, all)
			}
			for _, d := range all {
				fmt.Fprintf(w, "%-24s %3d items  %s\n", d.ID, d.ItemCount(), rank.BonusLabel(d))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "output JSON")
	return cmd
}

// ── best-sets ───────────────────────────────────────────────────────

func newBestSetsCmd(opts *rootOptions) *cobra.Command {
	var (
		traitsFlag string
		ownedFlag  string
		limit      int
		jsonOut    bool
	)
	cmd := &cobra.Command{
		Use:   "best-sets",
		Short: "Rank every set by the BRS it would add to a gotchi",
		Example: `  gotchi-closet best-sets --traits 50,50,50,50,50,50 --limit 5
  gotchi-closet best-sets --traits 12,88,40,60 --owned 10,11,12,13`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			base, err := parseInts(traitsFlag)
			if err != nil {
				return err
			}
			if len(base) < traits.NumEditable {
				return fmt.Errorf("--traits needs at least %d values", traits.NumEditable)
			}
			if limit == 0 {
				limit = opts.app.cfg.Rank.DefaultLimit
			}
			var keep func(sets.Definition) bool
			if ownedFlag != "" {
				owned, err := parseInts(ownedFlag)
				if err != nil {
					return err
				}
				keep = rank.OwnedOnly(owned)
			}
			ranked := rank.NewRanker(opts.app.catalog).BestSetsWhere(base, limit, keep)

			w := cmd.OutOrStdout()
			if jsonOut {
				return writeJSON(w, map[string]any{
					"baseScore": traits.TraitsToBRS(base),
					"results":   ranked,
				})
			}
			fmt.Fprintf(w, "Base BRS: %d\n", traits.TraitsToBRS(base))
			return rank.FormatTable(w, ranked)
		},
	}
	cmd.Flags().StringVar(&traitsFlag, "traits", "", "base traits, comma separated (NRG,AGG,SPK,BRN[,EYS,EYC])")
	cmd.Flags().StringVar(&ownedFlag, "owned", "", "only rank sets fully covered by these wearable ids")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum results (default from config)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "output JSON")
	_ = cmd.MarkFlagRequired("traits")
	return cmd
}

// ── respec ──────────────────────────────────────────────────────────

type respecOutput struct {
	respec.SimResult
	Allocated     traits.Editable `json:"allocated"`
	SpiritPoints  int             `json:"spiritPoints"`
	ActiveSet     string          `json:"activeSet,omitempty"`
	UpstreamError string          `json:"upstreamError,omitempty"`
}

func newRespecCmd(opts *rootOptions) *cobra.Command {
	var (
		traitsFlag, allocFlag, wearablesFlag, modifiedFlag, token string
		used                                                      float64
		jsonOut                                                   bool
	)
	cmd := &cobra.Command{
		Use:   "respec",
		Short: "Simulate moving spirit points between traits",
		Example: `  gotchi-closet respec --traits 12,10,10,10,50,50 --alloc 2,-1,0,0 --used 3
  gotchi-closet respec --traits 12,10,10,10,50,50 --token 4242 --modified 14,10,10,10,50,50 --wearables 10,11,12`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			base, err := parseInts(traitsFlag)
			if err != nil {
				return err
			}
			if len(base) < traits.NumEditable {
				return fmt.Errorf("--traits needs at least %d values", traits.NumEditable)
			}
			want, err := parseEditable(allocFlag)
			if err != nil {
				return fmt.Errorf("--alloc: %w", err)
			}
			session := respec.NewSession(token, used)
			alloc, err := allocate(session, want)
			if err != nil {
				return err
			}

			out := respecOutput{Allocated: alloc, SpiritPoints: session.TotalSpiritPoints()}
			in := respec.SimInput{BaseTraits: base, Allocated: alloc}
			if token != "" {
				rb, err := opts.app.client.RespecBaseTraits(cmd.Context(), token)
				if err != nil {
					opts.app.log.Warn("respec base traits unavailable, using fallback",
						zap.String("token_id", token), zap.Error(err))
					out.UpstreamError = err.Error()
				} else {
					in.RespecBaseTraits = rb
				}
			}
			if modifiedFlag != "" {
				modified, err := parseInts(modifiedFlag)
				if err != nil {
					return err
				}
				in.WearableDelta = respec.WearableDelta(base, modified)
			}
			if wearablesFlag != "" {
				equipped, err := parseInts(wearablesFlag)
				if err != nil {
					return err
				}
				if def, ok := opts.app.catalog.Active(equipped); ok {
					in.SetDelta = def.Modifiers.Array()
					out.ActiveSet = def.ID
				}
			}
			out.SimResult = respec.SimTraits(in)

			w := cmd.OutOrStdout()
			if jsonOut {
				return writeJSON(w, out)
			}
			printRespec(w, out)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&traitsFlag, "traits", "", "current base traits, comma separated")
	f.StringVar(&allocFlag, "alloc", "", "spirit points to move per editable trait, e.g. 2,-1,0,0")
	f.Float64Var(&used, "used", 0, "skill points already spent (sizes the respec pool)")
	f.StringVar(&wearablesFlag, "wearables", "", "equipped wearable ids, used to find the active set")
	f.StringVar(&modifiedFlag, "modified", "", "traits with wearables applied, used to derive the wearable delta")
	f.StringVar(&token, "token", "", "gotchi token id; fetches pre-wearable base traits")
	f.BoolVar(&jsonOut, "json", false, "output JSON")
	_ = cmd.MarkFlagRequired("traits")
	return cmd
}

// allocate replays want through a session one point at a time so the pool
// guards apply, then commits it.
func allocate(s *respec.Session, want traits.Editable) (traits.Editable, error) {
	s.Toggle()
	for i, n := range want {
		step := s.Increment
		if n < 0 {
			step = s.Decrement
			n = -n
		}
		for ; n > 0; n-- {
			if !step(i) {
				return traits.Editable{}, fmt.Errorf("allocation %v needs %d spirit points, only %d available",
					want, want.AbsSum(), s.TotalSpiritPoints())
			}
		}
	}
	s.Toggle()
	return s.Effective(), nil
}

func printRespec(w io.Writer, out respecOutput) {
	fmt.Fprintf(w, "Spirit points: %d used of %d\n", out.Allocated.AbsSum(), out.SpiritPoints)
	if out.UsingFallback {
		fmt.Fprintln(w, "Base: current traits (respec base unavailable, wearables may be counted twice)")
	}
	if out.ActiveSet != "" {
		fmt.Fprintf(w, "Active set: %s\n", out.ActiveSet)
	}
	fmt.Fprintf(w, "%-6s %6s %9s\n", "Trait", "Base", "Modified")
	for i := 0; i < traits.NumEditable; i++ {
		fmt.Fprintf(w, "%-6s %6d %9d\n", traits.Trait(i), out.SimBase[i], out.SimModified[i])
	}
	fmt.Fprintf(w, "%-6s %6d %9d\n", "BRS", out.BaseBRS, out.ModifiedBRS)
}

// ── base-traits ─────────────────────────────────────────────────────

func newBaseTraitsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "base-traits <tokenId>",
		Short: "Fetch (and cache) a gotchi's pre-wearable base traits",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bt, err := opts.app.client.RespecBaseTraits(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), map[string]any{"tokenId": args[0], "baseTraits": bt})
		},
	}
}

// ── catalog validate ────────────────────────────────────────────────

func newCatalogCmd() *cobra.Command {
	var strict bool
	catalog := &cobra.Command{
		Use:         "catalog",
		Short:       "Catalog maintenance",
		Annotations: map[string]string{"standalone": "true"},
	}
	validate := &cobra.Command{
		Use:         "validate <path>",
		Short:       "Check a set catalog file (.json, .json.gz, .json.zst)",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"standalone": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts []sets.Option
			if strict {
				opts = append(opts, sets.WithUniqueIDs())
			}
			c, err := sets.Load(args[0], opts...)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "ok: %d sets\n", c.Len())
			for _, id := range c.DuplicateIDs() {
				fmt.Fprintf(w, "warning: duplicate set id %q\n", id)
			}
			return nil
		},
	}
	validate.Flags().BoolVar(&strict, "strict", false, "fail on duplicate set ids")
	catalog.AddCommand(validate)
	return catalog
}

// ── serve ───────────────────────────────────────────────────────────

func newServeCmd(opts *rootOptions) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := &http.Server{
				Addr:              addr,
				Handler:           opts.app.svc,
				ReadHeaderTimeout: 10 * time.Second,
			}
			errc := make(chan error, 1)
			go func() { errc <- srv.ListenAndServe() }()
			opts.app.log.Info("listening", zap.String("addr", addr))

			select {
			case err := <-errc:
				if !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			case <-ctx.Done():
			}
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			opts.app.log.Info("shutting down")
			return srv.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	return cmd
}
